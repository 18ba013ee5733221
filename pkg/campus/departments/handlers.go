package departments

import (
	"net/http"
	"strings"

	"github.com/campuskit/campus/pkg/campus/cascade"
	"github.com/campuskit/campus/pkg/campus/database"
	"github.com/campuskit/campus/pkg/campus/listquery"
	"github.com/campuskit/campus/pkg/campus/models"
	"github.com/gin-gonic/gin"
)

// Handler handles department-related requests
type Handler struct{}

// NewHandler creates a new departments handler
func NewHandler() *Handler {
	return &Handler{}
}

var deleteFlow = cascade.DeleteFlow{
	Entity: "Department",
	Model:  "Department",
	IDKey:  "departmentId",
	Label:  "name",
}

// CreateDepartmentRequest represents the request to create a department
type CreateDepartmentRequest struct {
	InstituteID string `json:"institute_id" binding:"required"`
	Name        string `json:"name" binding:"required,min=1,max=200"`
	Code        string `json:"code" binding:"omitempty,max=20"`
}

// UpdateDepartmentRequest represents the request to update a department
type UpdateDepartmentRequest struct {
	Name string  `json:"name" binding:"omitempty,min=1,max=200"`
	Code *string `json:"code"`
}

// DepartmentResponse represents a department in API responses
type DepartmentResponse struct {
	ID          string `json:"id"`
	InstituteID string `json:"institute_id"`
	Name        string `json:"name"`
	Code        string `json:"code"`
	Archive     bool   `json:"archive"`
	CreatedAt   string `json:"created_at"`
}

func toResponse(dept models.Department) DepartmentResponse {
	return DepartmentResponse{
		ID:          dept.ID,
		InstituteID: dept.InstituteID,
		Name:        dept.Name,
		Code:        dept.Code,
		Archive:     dept.Archive,
		CreatedAt:   dept.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

// List returns departments, optionally filtered by institute
// @Summary List departments
// @Tags departments
// @Produce json
// @Param institute_id query string false "Filter by institute"
// @Param includeArchived query bool false "Include archived records"
// @Success 200 {array} DepartmentResponse
// @Security BearerAuth
// @Router /departments [get]
func (h *Handler) List(c *gin.Context) {
	db := database.FromContext(c)
	params := listquery.Parse(c, "name", "code", "created_at")

	query := params.ApplyArchived(db.Model(&models.Department{}))
	if instID := c.Query("institute_id"); instID != "" {
		query = query.Where("institute_id = ?", instID)
	}

	var depts []models.Department
	if err := params.Apply(query).Find(&depts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch departments"})
		return
	}

	out := make([]DepartmentResponse, len(depts))
	for i, d := range depts {
		out[i] = toResponse(d)
	}
	c.JSON(http.StatusOK, out)
}

// Create creates a new department
// @Summary Create a department
// @Tags departments
// @Accept json
// @Produce json
// @Param request body CreateDepartmentRequest true "Department details"
// @Success 201 {object} DepartmentResponse
// @Security BearerAuth
// @Router /departments [post]
func (h *Handler) Create(c *gin.Context) {
	db := database.FromContext(c)

	var req CreateDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	var inst models.Institute
	if err := db.Where("id = ?", req.InstituteID).First(&inst).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Institute not found"})
		return
	}

	dept := models.Department{
		InstituteID: req.InstituteID,
		Name:        strings.TrimSpace(req.Name),
		Code:        strings.ToUpper(strings.TrimSpace(req.Code)),
	}
	if err := db.Create(&dept).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create department"})
		return
	}
	c.JSON(http.StatusCreated, toResponse(dept))
}

// Get returns a specific department
// @Summary Get a department
// @Tags departments
// @Produce json
// @Param id path string true "Department ID"
// @Success 200 {object} DepartmentResponse
// @Failure 404 {object} map[string]string "Department not found"
// @Security BearerAuth
// @Router /departments/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	db := database.FromContext(c)

	var dept models.Department
	if err := db.Where("id = ?", c.Param("id")).First(&dept).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Department not found"})
		return
	}
	c.JSON(http.StatusOK, toResponse(dept))
}

// Update updates a department
// @Summary Update a department
// @Tags departments
// @Accept json
// @Produce json
// @Param id path string true "Department ID"
// @Param request body UpdateDepartmentRequest true "Updated details"
// @Success 200 {object} DepartmentResponse
// @Security BearerAuth
// @Router /departments/{id} [put]
func (h *Handler) Update(c *gin.Context) {
	db := database.FromContext(c)

	var dept models.Department
	if err := db.Where("id = ?", c.Param("id")).First(&dept).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Department not found"})
		return
	}

	var req UpdateDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	if req.Name != "" {
		dept.Name = strings.TrimSpace(req.Name)
	}
	if req.Code != nil {
		dept.Code = strings.ToUpper(strings.TrimSpace(*req.Code))
	}

	if err := db.Save(&dept).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update department"})
		return
	}
	c.JSON(http.StatusOK, toResponse(dept))
}

// Delete runs the dependency-cascade delete workflow for departments
// @Summary Delete departments
// @Tags departments
// @Accept json
// @Produce json
// @Param request body cascade.DeleteRequest true "IDs and flags"
// @Success 200 {object} map[string]interface{}
// @Success 201 {object} map[string]interface{} "Dependency summary"
// @Security BearerAuth
// @Router /departments [delete]
func (h *Handler) Delete(c *gin.Context) {
	deleteFlow.Handler()(c)
}

// RegisterRoutes registers department routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, adminOnly gin.HandlerFunc) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/:id", h.Get)
	rg.PUT("/:id", h.Update)
	rg.DELETE("", adminOnly, h.Delete)
}
