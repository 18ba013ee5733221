package institutes

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/campuskit/campus/pkg/campus/cascade"
	"github.com/campuskit/campus/pkg/campus/database"
	"github.com/campuskit/campus/pkg/campus/listquery"
	"github.com/campuskit/campus/pkg/campus/models"
	"github.com/gin-gonic/gin"
)

var codeRegex = regexp.MustCompile(`^[A-Z0-9][A-Z0-9-]*$`)

// Handler handles institute-related requests
type Handler struct{}

// NewHandler creates a new institutes handler
func NewHandler() *Handler {
	return &Handler{}
}

// deleteFlow wires the dependency-cascade delete workflow for institutes.
var deleteFlow = cascade.DeleteFlow{
	Entity: "Institute",
	Model:  "Institute",
	IDKey:  "instituteId",
	Label:  "name",
}

// CreateInstituteRequest represents the request to create an institute
type CreateInstituteRequest struct {
	Name    string `json:"name" binding:"required,min=1,max=200"`
	Code    string `json:"code" binding:"required,min=1,max=20"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email" binding:"omitempty,email"`
}

// UpdateInstituteRequest represents the request to update an institute
type UpdateInstituteRequest struct {
	Name    string  `json:"name" binding:"omitempty,min=1,max=200"`
	Address *string `json:"address"`
	Phone   *string `json:"phone"`
	Email   *string `json:"email"`
}

// InstituteResponse represents an institute in API responses
type InstituteResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Code      string `json:"code"`
	Address   string `json:"address"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	Archive   bool   `json:"archive"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func toResponse(inst models.Institute) InstituteResponse {
	return InstituteResponse{
		ID:        inst.ID,
		Name:      inst.Name,
		Code:      inst.Code,
		Address:   inst.Address,
		Phone:     inst.Phone,
		Email:     inst.Email,
		Archive:   inst.Archive,
		CreatedAt: inst.CreatedAt.Format("2006-01-02T15:04:05Z"),
		UpdatedAt: inst.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

// List returns institutes in the tenant
// @Summary List institutes
// @Description Get institutes, filtered and paginated
// @Tags institutes
// @Produce json
// @Param name query string false "Filter by name substring"
// @Param includeArchived query bool false "Include archived records"
// @Param limit query int false "Max results (default 50, max 200)"
// @Param offset query int false "Offset for pagination"
// @Success 200 {array} InstituteResponse
// @Security BearerAuth
// @Router /institutes [get]
func (h *Handler) List(c *gin.Context) {
	db := database.FromContext(c)
	params := listquery.Parse(c, "name", "code", "created_at")

	query := db.Model(&models.Institute{})
	query = params.ApplyArchived(query)
	if name := c.Query("name"); name != "" {
		query = query.Where("name LIKE ?", "%"+name+"%")
	}

	var institutes []models.Institute
	if err := params.Apply(query).Find(&institutes).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch institutes"})
		return
	}

	out := make([]InstituteResponse, len(institutes))
	for i, inst := range institutes {
		out[i] = toResponse(inst)
	}
	c.JSON(http.StatusOK, out)
}

// Create creates a new institute
// @Summary Create an institute
// @Tags institutes
// @Accept json
// @Produce json
// @Param request body CreateInstituteRequest true "Institute details"
// @Success 201 {object} InstituteResponse
// @Failure 400 {object} map[string]string "Validation error"
// @Security BearerAuth
// @Router /institutes [post]
func (h *Handler) Create(c *gin.Context) {
	db := database.FromContext(c)

	var req CreateInstituteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if !codeRegex.MatchString(code) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Code must contain only letters, numbers, and hyphens"})
		return
	}

	var existing models.Institute
	if err := db.Where("code = ?", code).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"message": "An institute with this code already exists"})
		return
	}

	inst := models.Institute{
		Name:    strings.TrimSpace(req.Name),
		Code:    code,
		Address: req.Address,
		Phone:   req.Phone,
		Email:   strings.ToLower(req.Email),
	}
	if err := db.Create(&inst).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create institute"})
		return
	}

	c.JSON(http.StatusCreated, toResponse(inst))
}

// Get returns a specific institute
// @Summary Get an institute
// @Tags institutes
// @Produce json
// @Param id path string true "Institute ID"
// @Success 200 {object} InstituteResponse
// @Failure 404 {object} map[string]string "Institute not found"
// @Security BearerAuth
// @Router /institutes/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	db := database.FromContext(c)

	var inst models.Institute
	if err := db.Where("id = ?", c.Param("id")).First(&inst).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Institute not found"})
		return
	}
	c.JSON(http.StatusOK, toResponse(inst))
}

// Update updates an institute
// @Summary Update an institute
// @Tags institutes
// @Accept json
// @Produce json
// @Param id path string true "Institute ID"
// @Param request body UpdateInstituteRequest true "Updated details"
// @Success 200 {object} InstituteResponse
// @Failure 404 {object} map[string]string "Institute not found"
// @Security BearerAuth
// @Router /institutes/{id} [put]
func (h *Handler) Update(c *gin.Context) {
	db := database.FromContext(c)

	var inst models.Institute
	if err := db.Where("id = ?", c.Param("id")).First(&inst).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Institute not found"})
		return
	}

	var req UpdateInstituteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	if req.Name != "" {
		inst.Name = strings.TrimSpace(req.Name)
	}
	if req.Address != nil {
		inst.Address = *req.Address
	}
	if req.Phone != nil {
		inst.Phone = *req.Phone
	}
	if req.Email != nil {
		inst.Email = strings.ToLower(*req.Email)
	}

	if err := db.Save(&inst).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update institute"})
		return
	}
	c.JSON(http.StatusOK, toResponse(inst))
}

// Delete runs the dependency-cascade delete workflow for a batch of
// institute IDs
// @Summary Delete institutes
// @Description Batch delete with dependency handling. With no flags, IDs with dependents get a 201 dependency summary. archive soft-deletes, transferTo re-points dependents, deleteDependents cascades.
// @Tags institutes
// @Accept json
// @Produce json
// @Param request body cascade.DeleteRequest true "IDs and flags"
// @Success 200 {object} map[string]interface{}
// @Success 201 {object} map[string]interface{} "Dependency summary"
// @Failure 400 {object} map[string]string "Conflicting flags or bad request"
// @Security BearerAuth
// @Router /institutes [delete]
func (h *Handler) Delete(c *gin.Context) {
	deleteFlow.Handler()(c)
}

// RegisterRoutes registers institute routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, adminOnly gin.HandlerFunc) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/:id", h.Get)
	rg.PUT("/:id", h.Update)
	rg.DELETE("", adminOnly, h.Delete)
}
