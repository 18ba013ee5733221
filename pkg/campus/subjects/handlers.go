package subjects

import (
	"net/http"
	"strings"

	"github.com/campuskit/campus/pkg/campus/cascade"
	"github.com/campuskit/campus/pkg/campus/database"
	"github.com/campuskit/campus/pkg/campus/listquery"
	"github.com/campuskit/campus/pkg/campus/models"
	"github.com/gin-gonic/gin"
)

// Handler handles subject-related requests
type Handler struct{}

// NewHandler creates a new subjects handler
func NewHandler() *Handler {
	return &Handler{}
}

// Subjects have no registered dependents, so the flow always takes the
// plain-delete path.
var deleteFlow = cascade.DeleteFlow{
	Entity: "Subject",
	Model:  "Subject",
	IDKey:  "subjectId",
	Label:  "name",
}

// CreateSubjectRequest represents the request to create a subject
type CreateSubjectRequest struct {
	InstituteID string `json:"institute_id" binding:"required"`
	GradeID     string `json:"grade_id"`
	Name        string `json:"name" binding:"required,min=1,max=200"`
	Code        string `json:"code" binding:"omitempty,max=20"`
	Credits     int    `json:"credits" binding:"omitempty,min=0,max=50"`
}

// UpdateSubjectRequest represents the request to update a subject
type UpdateSubjectRequest struct {
	Name    string `json:"name" binding:"omitempty,min=1,max=200"`
	Code    *string `json:"code"`
	Credits *int    `json:"credits"`
}

// SubjectResponse represents a subject in API responses
type SubjectResponse struct {
	ID          string `json:"id"`
	InstituteID string `json:"institute_id"`
	GradeID     string `json:"grade_id"`
	Name        string `json:"name"`
	Code        string `json:"code"`
	Credits     int    `json:"credits"`
	Archive     bool   `json:"archive"`
	CreatedAt   string `json:"created_at"`
}

func toResponse(subj models.Subject) SubjectResponse {
	return SubjectResponse{
		ID:          subj.ID,
		InstituteID: subj.InstituteID,
		GradeID:     subj.GradeID,
		Name:        subj.Name,
		Code:        subj.Code,
		Credits:     subj.Credits,
		Archive:     subj.Archive,
		CreatedAt:   subj.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

// List returns subjects, optionally filtered
// @Summary List subjects
// @Tags subjects
// @Produce json
// @Param institute_id query string false "Filter by institute"
// @Param grade_id query string false "Filter by grade"
// @Param includeArchived query bool false "Include archived records"
// @Success 200 {array} SubjectResponse
// @Security BearerAuth
// @Router /subjects [get]
func (h *Handler) List(c *gin.Context) {
	db := database.FromContext(c)
	params := listquery.Parse(c, "name", "code", "credits", "created_at")

	query := params.ApplyArchived(db.Model(&models.Subject{}))
	if instID := c.Query("institute_id"); instID != "" {
		query = query.Where("institute_id = ?", instID)
	}
	if gradeID := c.Query("grade_id"); gradeID != "" {
		query = query.Where("grade_id = ?", gradeID)
	}

	var subjects []models.Subject
	if err := params.Apply(query).Find(&subjects).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch subjects"})
		return
	}

	out := make([]SubjectResponse, len(subjects))
	for i, s := range subjects {
		out[i] = toResponse(s)
	}
	c.JSON(http.StatusOK, out)
}

// Create creates a new subject
// @Summary Create a subject
// @Tags subjects
// @Accept json
// @Produce json
// @Param request body CreateSubjectRequest true "Subject details"
// @Success 201 {object} SubjectResponse
// @Security BearerAuth
// @Router /subjects [post]
func (h *Handler) Create(c *gin.Context) {
	db := database.FromContext(c)

	var req CreateSubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	var inst models.Institute
	if err := db.Where("id = ?", req.InstituteID).First(&inst).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Institute not found"})
		return
	}
	if req.GradeID != "" {
		var grade models.Grade
		if err := db.Where("id = ?", req.GradeID).First(&grade).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Grade not found"})
			return
		}
	}

	subj := models.Subject{
		InstituteID: req.InstituteID,
		GradeID:     req.GradeID,
		Name:        strings.TrimSpace(req.Name),
		Code:        strings.ToUpper(strings.TrimSpace(req.Code)),
		Credits:     req.Credits,
	}
	if err := db.Create(&subj).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create subject"})
		return
	}
	c.JSON(http.StatusCreated, toResponse(subj))
}

// Get returns a specific subject
// @Summary Get a subject
// @Tags subjects
// @Produce json
// @Param id path string true "Subject ID"
// @Success 200 {object} SubjectResponse
// @Security BearerAuth
// @Router /subjects/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	db := database.FromContext(c)

	var subj models.Subject
	if err := db.Where("id = ?", c.Param("id")).First(&subj).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Subject not found"})
		return
	}
	c.JSON(http.StatusOK, toResponse(subj))
}

// Update updates a subject
// @Summary Update a subject
// @Tags subjects
// @Accept json
// @Produce json
// @Param id path string true "Subject ID"
// @Param request body UpdateSubjectRequest true "Updated details"
// @Success 200 {object} SubjectResponse
// @Security BearerAuth
// @Router /subjects/{id} [put]
func (h *Handler) Update(c *gin.Context) {
	db := database.FromContext(c)

	var subj models.Subject
	if err := db.Where("id = ?", c.Param("id")).First(&subj).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Subject not found"})
		return
	}

	var req UpdateSubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	if req.Name != "" {
		subj.Name = strings.TrimSpace(req.Name)
	}
	if req.Code != nil {
		subj.Code = strings.ToUpper(strings.TrimSpace(*req.Code))
	}
	if req.Credits != nil {
		subj.Credits = *req.Credits
	}

	if err := db.Save(&subj).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update subject"})
		return
	}
	c.JSON(http.StatusOK, toResponse(subj))
}

// Delete deletes subjects (plain path, subjects have no dependents)
// @Summary Delete subjects
// @Tags subjects
// @Accept json
// @Produce json
// @Param request body cascade.DeleteRequest true "IDs and flags"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /subjects [delete]
func (h *Handler) Delete(c *gin.Context) {
	deleteFlow.Handler()(c)
}

// RegisterRoutes registers subject routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, adminOnly gin.HandlerFunc) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/:id", h.Get)
	rg.PUT("/:id", h.Update)
	rg.DELETE("", adminOnly, h.Delete)
}
