package auth

import (
	"net/http"
	"strings"

	"github.com/campuskit/campus/pkg/campus/database"
	"github.com/campuskit/campus/pkg/campus/models"
	"github.com/gin-gonic/gin"
)

// Handler handles authentication requests
type Handler struct{}

// NewHandler creates a new auth handler
func NewHandler() *Handler {
	return &Handler{}
}

// LoginRequest represents the login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse represents a successful login
type LoginResponse struct {
	Token  string         `json:"token"`
	Member MemberResponse `json:"member"`
}

// MemberResponse represents the authenticated member in API responses
type MemberResponse struct {
	ID          string `json:"id"`
	InstituteID string `json:"institute_id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Role        string `json:"role"`
}

// Login authenticates a member within the request's tenant
// @Summary Log in
// @Description Authenticate a member by email and password and receive a JWT
// @Tags auth
// @Accept json
// @Produce json
// @Param X-Tenant header string true "Tenant slug"
// @Param request body LoginRequest true "Credentials"
// @Success 200 {object} LoginResponse
// @Failure 401 {object} map[string]string "Invalid credentials"
// @Router /auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	db := database.FromContext(c)

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	var member models.Member
	if err := db.Where("email = ?", strings.ToLower(req.Email)).First(&member).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid email or password"})
		return
	}

	if member.Archive {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Account is archived"})
		return
	}

	if !CheckPassword(req.Password, member.PasswordHash) {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid email or password"})
		return
	}

	token, err := GenerateToken(member.ID, member.Email, string(member.Role))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Token: token,
		Member: MemberResponse{
			ID:          member.ID,
			InstituteID: member.InstituteID,
			Name:        member.Name,
			Email:       member.Email,
			Role:        string(member.Role),
		},
	})
}

// Me returns the currently authenticated member
// @Summary Current member
// @Description Get the authenticated member's profile
// @Tags auth
// @Produce json
// @Success 200 {object} MemberResponse
// @Security BearerAuth
// @Router /auth/me [get]
func (h *Handler) Me(c *gin.Context) {
	db := database.FromContext(c)

	memberID, ok := GetMemberID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Authentication required"})
		return
	}

	var member models.Member
	if err := db.Where("id = ?", memberID).First(&member).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Member not found"})
		return
	}

	c.JSON(http.StatusOK, MemberResponse{
		ID:          member.ID,
		InstituteID: member.InstituteID,
		Name:        member.Name,
		Email:       member.Email,
		Role:        string(member.Role),
	})
}

// RegisterRoutes registers public auth routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/login", h.Login)
}

// RegisterProtectedRoutes registers auth routes that require a valid token
func (h *Handler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	rg.GET("/me", h.Me)
}
