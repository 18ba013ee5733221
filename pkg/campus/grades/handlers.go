package grades

import (
	"net/http"
	"strings"

	"github.com/campuskit/campus/pkg/campus/cascade"
	"github.com/campuskit/campus/pkg/campus/database"
	"github.com/campuskit/campus/pkg/campus/listquery"
	"github.com/campuskit/campus/pkg/campus/models"
	"github.com/gin-gonic/gin"
)

// Handler handles grade-related requests
type Handler struct{}

// NewHandler creates a new grades handler
func NewHandler() *Handler {
	return &Handler{}
}

var deleteFlow = cascade.DeleteFlow{
	Entity: "Grade",
	Model:  "Grade",
	IDKey:  "gradeId",
	Label:  "name",
}

// CreateGradeRequest represents the request to create a grade
type CreateGradeRequest struct {
	InstituteID  string `json:"institute_id" binding:"required"`
	DepartmentID string `json:"department_id"`
	Name         string `json:"name" binding:"required,min=1,max=200"`
	Level        int    `json:"level" binding:"omitempty,min=0,max=100"`
}

// UpdateGradeRequest represents the request to update a grade
type UpdateGradeRequest struct {
	Name  string `json:"name" binding:"omitempty,min=1,max=200"`
	Level *int   `json:"level" binding:"omitempty"`
}

// GradeResponse represents a grade in API responses
type GradeResponse struct {
	ID           string `json:"id"`
	InstituteID  string `json:"institute_id"`
	DepartmentID string `json:"department_id"`
	Name         string `json:"name"`
	Level        int    `json:"level"`
	Archive      bool   `json:"archive"`
	CreatedAt    string `json:"created_at"`
}

func toResponse(grade models.Grade) GradeResponse {
	return GradeResponse{
		ID:           grade.ID,
		InstituteID:  grade.InstituteID,
		DepartmentID: grade.DepartmentID,
		Name:         grade.Name,
		Level:        grade.Level,
		Archive:      grade.Archive,
		CreatedAt:    grade.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

// List returns grades, optionally filtered
// @Summary List grades
// @Tags grades
// @Produce json
// @Param institute_id query string false "Filter by institute"
// @Param department_id query string false "Filter by department"
// @Param includeArchived query bool false "Include archived records"
// @Success 200 {array} GradeResponse
// @Security BearerAuth
// @Router /grades [get]
func (h *Handler) List(c *gin.Context) {
	db := database.FromContext(c)
	params := listquery.Parse(c, "name", "level", "created_at")

	query := params.ApplyArchived(db.Model(&models.Grade{}))
	if instID := c.Query("institute_id"); instID != "" {
		query = query.Where("institute_id = ?", instID)
	}
	if deptID := c.Query("department_id"); deptID != "" {
		query = query.Where("department_id = ?", deptID)
	}

	var grades []models.Grade
	if err := params.Apply(query).Find(&grades).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch grades"})
		return
	}

	out := make([]GradeResponse, len(grades))
	for i, g := range grades {
		out[i] = toResponse(g)
	}
	c.JSON(http.StatusOK, out)
}

// Create creates a new grade
// @Summary Create a grade
// @Tags grades
// @Accept json
// @Produce json
// @Param request body CreateGradeRequest true "Grade details"
// @Success 201 {object} GradeResponse
// @Security BearerAuth
// @Router /grades [post]
func (h *Handler) Create(c *gin.Context) {
	db := database.FromContext(c)

	var req CreateGradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	var inst models.Institute
	if err := db.Where("id = ?", req.InstituteID).First(&inst).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Institute not found"})
		return
	}
	if req.DepartmentID != "" {
		var dept models.Department
		if err := db.Where("id = ?", req.DepartmentID).First(&dept).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Department not found"})
			return
		}
	}

	grade := models.Grade{
		InstituteID:  req.InstituteID,
		DepartmentID: req.DepartmentID,
		Name:         strings.TrimSpace(req.Name),
		Level:        req.Level,
	}
	if err := db.Create(&grade).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create grade"})
		return
	}
	c.JSON(http.StatusCreated, toResponse(grade))
}

// Get returns a specific grade
// @Summary Get a grade
// @Tags grades
// @Produce json
// @Param id path string true "Grade ID"
// @Success 200 {object} GradeResponse
// @Security BearerAuth
// @Router /grades/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	db := database.FromContext(c)

	var grade models.Grade
	if err := db.Where("id = ?", c.Param("id")).First(&grade).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Grade not found"})
		return
	}
	c.JSON(http.StatusOK, toResponse(grade))
}

// Update updates a grade
// @Summary Update a grade
// @Tags grades
// @Accept json
// @Produce json
// @Param id path string true "Grade ID"
// @Param request body UpdateGradeRequest true "Updated details"
// @Success 200 {object} GradeResponse
// @Security BearerAuth
// @Router /grades/{id} [put]
func (h *Handler) Update(c *gin.Context) {
	db := database.FromContext(c)

	var grade models.Grade
	if err := db.Where("id = ?", c.Param("id")).First(&grade).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Grade not found"})
		return
	}

	var req UpdateGradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	if req.Name != "" {
		grade.Name = strings.TrimSpace(req.Name)
	}
	if req.Level != nil {
		grade.Level = *req.Level
	}

	if err := db.Save(&grade).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update grade"})
		return
	}
	c.JSON(http.StatusOK, toResponse(grade))
}

// Delete runs the dependency-cascade delete workflow for grades
// @Summary Delete grades
// @Tags grades
// @Accept json
// @Produce json
// @Param request body cascade.DeleteRequest true "IDs and flags"
// @Success 200 {object} map[string]interface{}
// @Success 201 {object} map[string]interface{} "Dependency summary"
// @Security BearerAuth
// @Router /grades [delete]
func (h *Handler) Delete(c *gin.Context) {
	deleteFlow.Handler()(c)
}

// RegisterRoutes registers grade routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, adminOnly gin.HandlerFunc) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/:id", h.Get)
	rg.PUT("/:id", h.Update)
	rg.DELETE("", adminOnly, h.Delete)
}
