package members

import (
	"net/http"
	"strings"

	"github.com/campuskit/campus/pkg/campus/auth"
	"github.com/campuskit/campus/pkg/campus/cascade"
	"github.com/campuskit/campus/pkg/campus/database"
	"github.com/campuskit/campus/pkg/campus/listquery"
	"github.com/campuskit/campus/pkg/campus/models"
	"github.com/gin-gonic/gin"
)

// Handler handles member-related requests
type Handler struct{}

// NewHandler creates a new members handler
func NewHandler() *Handler {
	return &Handler{}
}

var deleteFlow = cascade.DeleteFlow{
	Entity: "Member",
	Model:  "Member",
	IDKey:  "memberId",
	Label:  "name",
}

// CreateMemberRequest represents the request to create a member
type CreateMemberRequest struct {
	InstituteID  string `json:"institute_id" binding:"required"`
	DepartmentID string `json:"department_id"`
	Name         string `json:"name" binding:"required,min=1,max=200"`
	Email        string `json:"email" binding:"required,email"`
	Phone        string `json:"phone"`
	Role         string `json:"role" binding:"required,oneof=admin teacher student staff"`
	Password     string `json:"password" binding:"required,min=8"`
}

// UpdateMemberRequest represents the request to update a member
type UpdateMemberRequest struct {
	DepartmentID *string `json:"department_id"`
	Name         string  `json:"name" binding:"omitempty,min=1,max=200"`
	Phone        *string `json:"phone"`
	Role         string  `json:"role" binding:"omitempty,oneof=admin teacher student staff"`
}

// MemberResponse represents a member in API responses
type MemberResponse struct {
	ID           string `json:"id"`
	InstituteID  string `json:"institute_id"`
	DepartmentID string `json:"department_id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Role         string `json:"role"`
	Archive      bool   `json:"archive"`
	CreatedAt    string `json:"created_at"`
}

func toResponse(m models.Member) MemberResponse {
	return MemberResponse{
		ID:           m.ID,
		InstituteID:  m.InstituteID,
		DepartmentID: m.DepartmentID,
		Name:         m.Name,
		Email:        m.Email,
		Phone:        m.Phone,
		Role:         string(m.Role),
		Archive:      m.Archive,
		CreatedAt:    m.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

// List returns members, optionally filtered
// @Summary List members
// @Tags members
// @Produce json
// @Param institute_id query string false "Filter by institute"
// @Param department_id query string false "Filter by department"
// @Param role query string false "Filter by role"
// @Param includeArchived query bool false "Include archived records"
// @Success 200 {array} MemberResponse
// @Security BearerAuth
// @Router /members [get]
func (h *Handler) List(c *gin.Context) {
	db := database.FromContext(c)
	params := listquery.Parse(c, "name", "email", "role", "created_at")

	query := params.ApplyArchived(db.Model(&models.Member{}))
	if instID := c.Query("institute_id"); instID != "" {
		query = query.Where("institute_id = ?", instID)
	}
	if deptID := c.Query("department_id"); deptID != "" {
		query = query.Where("department_id = ?", deptID)
	}
	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}

	var members []models.Member
	if err := params.Apply(query).Find(&members).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch members"})
		return
	}

	out := make([]MemberResponse, len(members))
	for i, m := range members {
		out[i] = toResponse(m)
	}
	c.JSON(http.StatusOK, out)
}

// Create creates a new member
// @Summary Create a member
// @Tags members
// @Accept json
// @Produce json
// @Param request body CreateMemberRequest true "Member details"
// @Success 201 {object} MemberResponse
// @Failure 409 {object} map[string]string "Email already in use"
// @Security BearerAuth
// @Router /members [post]
func (h *Handler) Create(c *gin.Context) {
	db := database.FromContext(c)

	var req CreateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	var existing models.Member
	if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"message": "A member with this email already exists"})
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to hash password"})
		return
	}

	member := models.Member{
		InstituteID:  req.InstituteID,
		DepartmentID: req.DepartmentID,
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		Phone:        req.Phone,
		Role:         models.MemberRole(req.Role),
		PasswordHash: hash,
	}
	if err := db.Create(&member).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create member"})
		return
	}
	c.JSON(http.StatusCreated, toResponse(member))
}

// Get returns a specific member
// @Summary Get a member
// @Tags members
// @Produce json
// @Param id path string true "Member ID"
// @Success 200 {object} MemberResponse
// @Security BearerAuth
// @Router /members/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	db := database.FromContext(c)

	var member models.Member
	if err := db.Where("id = ?", c.Param("id")).First(&member).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Member not found"})
		return
	}
	c.JSON(http.StatusOK, toResponse(member))
}

// Update updates a member
// @Summary Update a member
// @Tags members
// @Accept json
// @Produce json
// @Param id path string true "Member ID"
// @Param request body UpdateMemberRequest true "Updated details"
// @Success 200 {object} MemberResponse
// @Security BearerAuth
// @Router /members/{id} [put]
func (h *Handler) Update(c *gin.Context) {
	db := database.FromContext(c)

	var member models.Member
	if err := db.Where("id = ?", c.Param("id")).First(&member).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Member not found"})
		return
	}

	var req UpdateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	if req.Name != "" {
		member.Name = strings.TrimSpace(req.Name)
	}
	if req.DepartmentID != nil {
		member.DepartmentID = *req.DepartmentID
	}
	if req.Phone != nil {
		member.Phone = *req.Phone
	}
	if req.Role != "" {
		member.Role = models.MemberRole(req.Role)
	}

	if err := db.Save(&member).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update member"})
		return
	}
	c.JSON(http.StatusOK, toResponse(member))
}

// Delete runs the dependency-cascade delete workflow for members
// @Summary Delete members
// @Tags members
// @Accept json
// @Produce json
// @Param request body cascade.DeleteRequest true "IDs and flags"
// @Success 200 {object} map[string]interface{}
// @Success 201 {object} map[string]interface{} "Dependency summary"
// @Security BearerAuth
// @Router /members [delete]
func (h *Handler) Delete(c *gin.Context) {
	deleteFlow.Handler()(c)
}

// RegisterRoutes registers member routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, adminOnly gin.HandlerFunc) {
	rg.GET("", h.List)
	rg.POST("", adminOnly, h.Create)
	rg.GET("/:id", h.Get)
	rg.PUT("/:id", adminOnly, h.Update)
	rg.DELETE("", adminOnly, h.Delete)
}
