package main

import (
	"log"
	"os"

	"github.com/campuskit/campus/pkg/campus/auth"
	"github.com/campuskit/campus/pkg/campus/batches"
	"github.com/campuskit/campus/pkg/campus/cascade"
	"github.com/campuskit/campus/pkg/campus/config"
	"github.com/campuskit/campus/pkg/campus/database"
	"github.com/campuskit/campus/pkg/campus/departments"
	"github.com/campuskit/campus/pkg/campus/enrollments"
	"github.com/campuskit/campus/pkg/campus/grades"
	"github.com/campuskit/campus/pkg/campus/institutes"
	"github.com/campuskit/campus/pkg/campus/members"
	"github.com/campuskit/campus/pkg/campus/models"
	"github.com/campuskit/campus/pkg/campus/subjects"
	"github.com/gin-gonic/gin"
	flag "github.com/spf13/pflag"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "github.com/campuskit/campus/api/swagger"
)

// @title Campus API
// @version 1.0
// @description Multi-tenant school/institute management backend with dependency-aware deletes.

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token. Format: "Bearer {token}"

func main() {
	configPath := flag.StringP("config", "c", "campus.yaml", "path to config file")
	listen := flag.String("listen", "", "listen address, overrides config")
	dataDir := flag.String("data-dir", "", "tenant database directory, overrides config")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *listen != "" {
		cfg.Listen = *listen
	}
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}

	if cfg.JWTSecret != "" {
		auth.SetSecret(cfg.JWTSecret)
	}

	// A typo in the dependency registry should kill the process here, not
	// surface mid-delete.
	if err := cascade.ValidateRegistry(); err != nil {
		log.Fatalf("Invalid dependency registry: %v", err)
	}

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}
	tenants := database.NewManager(cfg.DataDir)

	// Bootstrap the default tenant so a fresh install has something to log
	// in to.
	db, err := tenants.Get(cfg.DefaultTenant)
	if err != nil {
		log.Fatalf("Failed to open default tenant %q: %v", cfg.DefaultTenant, err)
	}
	if err := ensureAdminExists(db); err != nil {
		log.Fatalf("Failed to ensure admin member exists: %v", err)
	}

	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Swagger documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api/v1")
	api.Use(database.Middleware(tenants))
	{
		// Auth routes (public within a tenant)
		authHandler := auth.NewHandler()
		authHandler.RegisterRoutes(api.Group("/auth"))

		protected := api.Group("", auth.AuthMiddleware())
		authHandler.RegisterProtectedRoutes(protected.Group("/auth"))

		// Destructive routes require the admin role; deletes can cascade.
		adminOnly := auth.RequireRole(string(models.MemberRoleAdmin))

		institutes.NewHandler().RegisterRoutes(protected.Group("/institutes"), adminOnly)
		departments.NewHandler().RegisterRoutes(protected.Group("/departments"), adminOnly)
		grades.NewHandler().RegisterRoutes(protected.Group("/grades"), adminOnly)
		subjects.NewHandler().RegisterRoutes(protected.Group("/subjects"), adminOnly)
		batches.NewHandler().RegisterRoutes(protected.Group("/batches"), adminOnly)
		members.NewHandler().RegisterRoutes(protected.Group("/members"), adminOnly)
		enrollments.NewHandler().RegisterRoutes(protected.Group("/enrollments"), adminOnly)
	}

	log.Printf("Starting campus server on %s (tenants in %s)", cfg.Listen, cfg.DataDir)
	if err := r.Run(cfg.Listen); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// ensureAdminExists creates a default admin member if the tenant has none.
func ensureAdminExists(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Member{}).Where("role = ?", models.MemberRoleAdmin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil // Admin already exists
	}

	hashedPassword, err := auth.HashPassword("changeme")
	if err != nil {
		return err
	}

	admin := models.Member{
		Name:         "Admin",
		Email:        "admin@campus.local",
		Role:         models.MemberRoleAdmin,
		PasswordHash: hashedPassword,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	log.Printf("Created default admin member: admin@campus.local (password: changeme)")
	return nil
}
