package enrollments

import (
	"net/http"

	"github.com/campuskit/campus/pkg/campus/cascade"
	"github.com/campuskit/campus/pkg/campus/database"
	"github.com/campuskit/campus/pkg/campus/listquery"
	"github.com/campuskit/campus/pkg/campus/models"
	"github.com/gin-gonic/gin"
)

// Handler handles enrollment-related requests
type Handler struct{}

// NewHandler creates a new enrollments handler
func NewHandler() *Handler {
	return &Handler{}
}

// Enrollments are leaf records, so deletes always take the plain path.
var deleteFlow = cascade.DeleteFlow{
	Entity: "Enrollment",
	Model:  "Enrollment",
	IDKey:  "enrollmentId",
	Label:  "status",
}

// CreateEnrollmentRequest represents the request to enroll a member
type CreateEnrollmentRequest struct {
	InstituteID  string `json:"institute_id" binding:"required"`
	MemberID     string `json:"member_id" binding:"required"`
	GradeBatchID string `json:"grade_batch_id" binding:"required"`
}

// UpdateEnrollmentRequest represents the request to update an enrollment
type UpdateEnrollmentRequest struct {
	Status string `json:"status" binding:"required,oneof=active completed withdrawn"`
}

// EnrollmentResponse represents an enrollment in API responses
type EnrollmentResponse struct {
	ID           string `json:"id"`
	InstituteID  string `json:"institute_id"`
	MemberID     string `json:"member_id"`
	GradeBatchID string `json:"grade_batch_id"`
	Status       string `json:"status"`
	EnrolledAt   string `json:"enrolled_at"`
}

func toResponse(e models.Enrollment) EnrollmentResponse {
	return EnrollmentResponse{
		ID:           e.ID,
		InstituteID:  e.InstituteID,
		MemberID:     e.MemberID,
		GradeBatchID: e.GradeBatchID,
		Status:       string(e.Status),
		EnrolledAt:   e.EnrolledAt.Format("2006-01-02T15:04:05Z"),
	}
}

// List returns enrollments, optionally filtered
// @Summary List enrollments
// @Tags enrollments
// @Produce json
// @Param member_id query string false "Filter by member"
// @Param grade_batch_id query string false "Filter by grade batch"
// @Param status query string false "Filter by status"
// @Success 200 {array} EnrollmentResponse
// @Security BearerAuth
// @Router /enrollments [get]
func (h *Handler) List(c *gin.Context) {
	db := database.FromContext(c)
	params := listquery.Parse(c, "status", "enrolled_at", "created_at")

	query := params.ApplyArchived(db.Model(&models.Enrollment{}))
	if memberID := c.Query("member_id"); memberID != "" {
		query = query.Where("member_id = ?", memberID)
	}
	if batchID := c.Query("grade_batch_id"); batchID != "" {
		query = query.Where("grade_batch_id = ?", batchID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var enrollments []models.Enrollment
	if err := params.Apply(query).Find(&enrollments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch enrollments"})
		return
	}

	out := make([]EnrollmentResponse, len(enrollments))
	for i, e := range enrollments {
		out[i] = toResponse(e)
	}
	c.JSON(http.StatusOK, out)
}

// Create enrolls a member into a grade batch
// @Summary Create an enrollment
// @Tags enrollments
// @Accept json
// @Produce json
// @Param request body CreateEnrollmentRequest true "Enrollment details"
// @Success 201 {object} EnrollmentResponse
// @Failure 409 {object} map[string]string "Already enrolled"
// @Security BearerAuth
// @Router /enrollments [post]
func (h *Handler) Create(c *gin.Context) {
	db := database.FromContext(c)

	var req CreateEnrollmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	var member models.Member
	if err := db.Where("id = ?", req.MemberID).First(&member).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Member not found"})
		return
	}
	var batch models.GradeBatch
	if err := db.Where("id = ?", req.GradeBatchID).First(&batch).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Grade batch not found"})
		return
	}

	var existing models.Enrollment
	if err := db.Where("member_id = ? AND grade_batch_id = ?", req.MemberID, req.GradeBatchID).
		First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"message": "Member is already enrolled in this batch"})
		return
	}

	enrollment := models.Enrollment{
		InstituteID:  req.InstituteID,
		MemberID:     req.MemberID,
		GradeBatchID: req.GradeBatchID,
		Status:       models.EnrollmentActive,
	}
	if err := db.Create(&enrollment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create enrollment"})
		return
	}
	c.JSON(http.StatusCreated, toResponse(enrollment))
}

// Get returns a specific enrollment
// @Summary Get an enrollment
// @Tags enrollments
// @Produce json
// @Param id path string true "Enrollment ID"
// @Success 200 {object} EnrollmentResponse
// @Security BearerAuth
// @Router /enrollments/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	db := database.FromContext(c)

	var enrollment models.Enrollment
	if err := db.Where("id = ?", c.Param("id")).First(&enrollment).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Enrollment not found"})
		return
	}
	c.JSON(http.StatusOK, toResponse(enrollment))
}

// Update updates an enrollment's status
// @Summary Update an enrollment
// @Tags enrollments
// @Accept json
// @Produce json
// @Param id path string true "Enrollment ID"
// @Param request body UpdateEnrollmentRequest true "Updated status"
// @Success 200 {object} EnrollmentResponse
// @Security BearerAuth
// @Router /enrollments/{id} [put]
func (h *Handler) Update(c *gin.Context) {
	db := database.FromContext(c)

	var enrollment models.Enrollment
	if err := db.Where("id = ?", c.Param("id")).First(&enrollment).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Enrollment not found"})
		return
	}

	var req UpdateEnrollmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	enrollment.Status = models.EnrollmentStatus(req.Status)
	if err := db.Save(&enrollment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update enrollment"})
		return
	}
	c.JSON(http.StatusOK, toResponse(enrollment))
}

// Delete deletes enrollments (plain path, enrollments have no dependents)
// @Summary Delete enrollments
// @Tags enrollments
// @Accept json
// @Produce json
// @Param request body cascade.DeleteRequest true "IDs and flags"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string "No enrollments matched"
// @Security BearerAuth
// @Router /enrollments [delete]
func (h *Handler) Delete(c *gin.Context) {
	deleteFlow.Handler()(c)
}

// RegisterRoutes registers enrollment routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, adminOnly gin.HandlerFunc) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/:id", h.Get)
	rg.PUT("/:id", h.Update)
	rg.DELETE("", adminOnly, h.Delete)
}
