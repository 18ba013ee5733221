package batches

import (
	"net/http"
	"strings"

	"github.com/campuskit/campus/pkg/campus/cascade"
	"github.com/campuskit/campus/pkg/campus/database"
	"github.com/campuskit/campus/pkg/campus/listquery"
	"github.com/campuskit/campus/pkg/campus/models"
	"github.com/gin-gonic/gin"
)

// Handler handles grade-batch (section) requests
type Handler struct{}

// NewHandler creates a new batches handler
func NewHandler() *Handler {
	return &Handler{}
}

var deleteFlow = cascade.DeleteFlow{
	Entity: "GradeBatch",
	Model:  "GradeBatch",
	IDKey:  "gradeBatchId",
	Label:  "name",
}

// CreateBatchRequest represents the request to create a grade batch
type CreateBatchRequest struct {
	InstituteID  string `json:"institute_id" binding:"required"`
	GradeID      string `json:"grade_id" binding:"required"`
	Name         string `json:"name" binding:"required,min=1,max=200"`
	AcademicYear string `json:"academic_year" binding:"omitempty,max=20"`
	Capacity     int    `json:"capacity" binding:"omitempty,min=0"`
}

// UpdateBatchRequest represents the request to update a grade batch
type UpdateBatchRequest struct {
	Name         string  `json:"name" binding:"omitempty,min=1,max=200"`
	AcademicYear *string `json:"academic_year"`
	Capacity     *int    `json:"capacity"`
}

// BatchResponse represents a grade batch in API responses
type BatchResponse struct {
	ID           string `json:"id"`
	InstituteID  string `json:"institute_id"`
	GradeID      string `json:"grade_id"`
	Name         string `json:"name"`
	AcademicYear string `json:"academic_year"`
	Capacity     int    `json:"capacity"`
	Archive      bool   `json:"archive"`
	CreatedAt    string `json:"created_at"`
}

func toResponse(batch models.GradeBatch) BatchResponse {
	return BatchResponse{
		ID:           batch.ID,
		InstituteID:  batch.InstituteID,
		GradeID:      batch.GradeID,
		Name:         batch.Name,
		AcademicYear: batch.AcademicYear,
		Capacity:     batch.Capacity,
		Archive:      batch.Archive,
		CreatedAt:    batch.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

// List returns grade batches, optionally filtered
// @Summary List grade batches
// @Tags batches
// @Produce json
// @Param institute_id query string false "Filter by institute"
// @Param grade_id query string false "Filter by grade"
// @Param academic_year query string false "Filter by academic year"
// @Param includeArchived query bool false "Include archived records"
// @Success 200 {array} BatchResponse
// @Security BearerAuth
// @Router /batches [get]
func (h *Handler) List(c *gin.Context) {
	db := database.FromContext(c)
	params := listquery.Parse(c, "name", "academic_year", "created_at")

	query := params.ApplyArchived(db.Model(&models.GradeBatch{}))
	if instID := c.Query("institute_id"); instID != "" {
		query = query.Where("institute_id = ?", instID)
	}
	if gradeID := c.Query("grade_id"); gradeID != "" {
		query = query.Where("grade_id = ?", gradeID)
	}
	if year := c.Query("academic_year"); year != "" {
		query = query.Where("academic_year = ?", year)
	}

	var batches []models.GradeBatch
	if err := params.Apply(query).Find(&batches).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch batches"})
		return
	}

	out := make([]BatchResponse, len(batches))
	for i, b := range batches {
		out[i] = toResponse(b)
	}
	c.JSON(http.StatusOK, out)
}

// Create creates a new grade batch
// @Summary Create a grade batch
// @Tags batches
// @Accept json
// @Produce json
// @Param request body CreateBatchRequest true "Batch details"
// @Success 201 {object} BatchResponse
// @Security BearerAuth
// @Router /batches [post]
func (h *Handler) Create(c *gin.Context) {
	db := database.FromContext(c)

	var req CreateBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	var grade models.Grade
	if err := db.Where("id = ?", req.GradeID).First(&grade).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Grade not found"})
		return
	}

	batch := models.GradeBatch{
		InstituteID:  req.InstituteID,
		GradeID:      req.GradeID,
		Name:         strings.TrimSpace(req.Name),
		AcademicYear: req.AcademicYear,
		Capacity:     req.Capacity,
	}
	if err := db.Create(&batch).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create batch"})
		return
	}
	c.JSON(http.StatusCreated, toResponse(batch))
}

// Get returns a specific grade batch
// @Summary Get a grade batch
// @Tags batches
// @Produce json
// @Param id path string true "Batch ID"
// @Success 200 {object} BatchResponse
// @Security BearerAuth
// @Router /batches/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	db := database.FromContext(c)

	var batch models.GradeBatch
	if err := db.Where("id = ?", c.Param("id")).First(&batch).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Batch not found"})
		return
	}
	c.JSON(http.StatusOK, toResponse(batch))
}

// Update updates a grade batch
// @Summary Update a grade batch
// @Tags batches
// @Accept json
// @Produce json
// @Param id path string true "Batch ID"
// @Param request body UpdateBatchRequest true "Updated details"
// @Success 200 {object} BatchResponse
// @Security BearerAuth
// @Router /batches/{id} [put]
func (h *Handler) Update(c *gin.Context) {
	db := database.FromContext(c)

	var batch models.GradeBatch
	if err := db.Where("id = ?", c.Param("id")).First(&batch).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Batch not found"})
		return
	}

	var req UpdateBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	if req.Name != "" {
		batch.Name = strings.TrimSpace(req.Name)
	}
	if req.AcademicYear != nil {
		batch.AcademicYear = *req.AcademicYear
	}
	if req.Capacity != nil {
		batch.Capacity = *req.Capacity
	}

	if err := db.Save(&batch).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update batch"})
		return
	}
	c.JSON(http.StatusOK, toResponse(batch))
}

// Delete runs the dependency-cascade delete workflow for grade batches
// @Summary Delete grade batches
// @Tags batches
// @Accept json
// @Produce json
// @Param request body cascade.DeleteRequest true "IDs and flags"
// @Success 200 {object} map[string]interface{}
// @Success 201 {object} map[string]interface{} "Dependency summary"
// @Security BearerAuth
// @Router /batches [delete]
func (h *Handler) Delete(c *gin.Context) {
	deleteFlow.Handler()(c)
}

// RegisterRoutes registers batch routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, adminOnly gin.HandlerFunc) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/:id", h.Get)
	rg.PUT("/:id", h.Update)
	rg.DELETE("", adminOnly, h.Delete)
}
