package cascade

import (
	"fmt"
	"net/http"

	"github.com/campuskit/campus/pkg/campus/database"
	"github.com/campuskit/campus/pkg/campus/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// DeleteFlow configures the delete orchestrator for one entity type. Each
// entity package declares a flow and mounts Handler() on its DELETE route.
type DeleteFlow struct {
	Entity string // label used in response messages, e.g. "Institute"
	Model  string // registered model name
	IDKey  string // per-result key in cascade responses, e.g. "instituteId"
	Label  string // column reported as "value" in dependency summaries
}

// DeleteRequest is the JSON body consumed by the orchestrator.
// Archive is a *bool so a non-boolean value fails binding instead of
// silently coercing.
type DeleteRequest struct {
	IDs              []string `json:"ids"`
	DeleteDependents bool     `json:"deleteDependents"`
	TransferTo       string   `json:"transferTo"`
	Archive          *bool    `json:"archive"`
}

// DependencyEntry is one blocked parent in a dependency summary.
type DependencyEntry struct {
	ID        string           `json:"_id"`
	Value     string           `json:"value"`
	DependsOn map[string]int64 `json:"dependsOn"`
}

// Handler returns the delete orchestrator for this flow. One request handles
// a batch of parent IDs and, depending on flags and dependent counts, ends in
// an archive, a plain delete, a dry-run dependency summary, a transfer, or a
// per-ID cascade delete.
func (f DeleteFlow) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		db := database.FromContext(c)

		var req DeleteRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body", "error": err.Error()})
			return
		}

		// All request-shape validation happens before any store call.
		if len(req.IDs) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "ids array is required"})
			return
		}
		if req.Archive != nil && req.TransferTo != "" {
			c.JSON(http.StatusBadRequest, gin.H{"message": "archive and transferTo are mutually exclusive"})
			return
		}
		if req.DeleteDependents && req.TransferTo != "" {
			c.JSON(http.StatusBadRequest, gin.H{"message": "deleteDependents and transferTo are mutually exclusive"})
			return
		}
		if req.TransferTo != "" && len(req.IDs) != 1 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "transfer requires exactly one source id"})
			return
		}

		// Archiving bypasses dependency counting entirely: the record stays,
		// so dependents cannot dangle.
		if req.Archive != nil {
			f.handleArchive(c, db, req)
			return
		}

		descs := Dependents(f.Model)
		if len(descs) == 0 {
			f.handlePlainDelete(c, db, req.IDs)
			return
		}

		counts, err := CountDependents(db, req.IDs, descs)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to count dependents", "error": err.Error()})
			return
		}

		// Partition into IDs safe to delete outright and IDs that still have
		// dependents, preserving request order.
		var clear, blocked []string
		for _, id := range req.IDs {
			if totalDependents(counts[id]) == 0 {
				clear = append(clear, id)
			} else {
				blocked = append(blocked, id)
			}
		}

		if len(clear) > 0 {
			proto, err := models.Lookup(f.Model)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"message": "Delete failed", "error": err.Error()})
				return
			}
			if err := db.Where("id IN ?", clear).Delete(proto).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"message": "Delete failed", "error": err.Error()})
				return
			}
		} else {
			clear = []string{}
		}

		if len(blocked) == 0 {
			c.JSON(http.StatusOK, gin.H{
				"message":      fmt.Sprintf("%s(s) deleted successfully", f.Entity),
				"deleted":      clear,
				"dependencies": []DependencyEntry{},
			})
			return
		}

		switch {
		case !req.DeleteDependents && req.TransferTo == "":
			f.handleSummary(c, db, clear, blocked, counts)
		case req.TransferTo != "":
			f.handleTransfer(c, db, blocked[0], req.TransferTo, descs)
		default:
			f.handleCascade(c, db, blocked, descs)
		}
	}
}

func (f DeleteFlow) handleArchive(c *gin.Context, db *gorm.DB, req DeleteRequest) {
	result, err := ArchiveParents(db, req.IDs, f.Model, *req.Archive)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Archive failed", "error": err.Error()})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": fmt.Sprintf("No %s records matched", f.Entity)})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":       fmt.Sprintf("%s archive flag updated", f.Entity),
		"archiveResult": result,
	})
}

// handlePlainDelete is the path for leaf entities with no dependency
// descriptors: a straight delete-by-ID-set.
func (f DeleteFlow) handlePlainDelete(c *gin.Context, db *gorm.DB, ids []string) {
	proto, err := models.Lookup(f.Model)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Delete failed", "error": err.Error()})
		return
	}
	res := db.Where("id IN ?", ids).Delete(proto)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Delete failed", "error": res.Error.Error()})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": fmt.Sprintf("No %s records matched", f.Entity)})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":      fmt.Sprintf("%s(s) deleted successfully", f.Entity),
		"deletedCount": res.RowsAffected,
	})
}

// handleSummary returns the dry-run dependency breakdown for blocked IDs.
// Nothing further is mutated; the caller decides what to do with the counts.
func (f DeleteFlow) handleSummary(c *gin.Context, db *gorm.DB, clear, blocked []string, counts map[string]map[string]int64) {
	labels, err := f.labels(db, blocked)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to load records", "error": err.Error()})
		return
	}

	entries := make([]DependencyEntry, 0, len(blocked))
	for _, id := range blocked {
		entries = append(entries, DependencyEntry{
			ID:        id,
			Value:     labels[id],
			DependsOn: counts[id],
		})
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":      "Dependency summary",
		"deleted":      clear,
		"dependencies": entries,
	})
}

func (f DeleteFlow) handleTransfer(c *gin.Context, db *gorm.DB, fromID, toID string, descs []Descriptor) {
	proto, err := models.Lookup(f.Model)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Transfer failed", "error": err.Error()})
		return
	}

	// The destination must be an existing parent record, otherwise every
	// re-pointed reference would dangle.
	var destCount int64
	if err := db.Model(proto).Where("id = ?", toID).Count(&destCount).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Transfer failed", "error": err.Error()})
		return
	}
	if destCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": fmt.Sprintf("Transfer destination %s not found", toID)})
		return
	}

	moved, err := TransferDependents(db, fromID, toID, descs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Transfer failed", "error": err.Error()})
		return
	}

	res := db.Where("id = ?", fromID).Delete(proto)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Transfer succeeded but source delete failed", "error": res.Error.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":      fmt.Sprintf("%s dependents transferred and source deleted", f.Entity),
		"transfer":     moved,
		"deletedCount": res.RowsAffected,
	})
}

// handleCascade deletes each blocked parent with its dependents, one
// transaction per parent. One parent's failure does not abort the others;
// the response reports per-ID results.
func (f DeleteFlow) handleCascade(c *gin.Context, db *gorm.DB, blocked []string, descs []Descriptor) {
	results := make([]map[string]interface{}, 0, len(blocked))
	for _, id := range blocked {
		res := DeleteWithDependents(db, id, descs, f.Model)
		entry := map[string]interface{}{
			f.IDKey:   id,
			"deleted": res.Deleted,
		}
		if res.Deleted {
			entry["deletedCounts"] = res.DeletedCounts
		} else {
			entry["error"] = res.Error
		}
		results = append(results, entry)
	}
	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("%s cascade delete processed", f.Entity),
		"results": results,
	})
}

// labels loads the display value for each blocked parent, used in summaries.
func (f DeleteFlow) labels(db *gorm.DB, ids []string) (map[string]string, error) {
	proto, err := models.Lookup(f.Model)
	if err != nil {
		return nil, err
	}
	var rows []struct {
		ID    string
		Value string
	}
	if err := db.Model(proto).
		Select(fmt.Sprintf("id, %s AS value", f.Label)).
		Where("id IN ?", ids).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	labels := make(map[string]string, len(rows))
	for _, row := range rows {
		labels[row.ID] = row.Value
	}
	return labels, nil
}
