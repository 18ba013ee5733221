package cascade

import (
	"fmt"
	"strings"

	"github.com/campuskit/campus/pkg/campus/models"
	"gorm.io/gorm"
)

// CascadeResult is the outcome of one parent's cascade delete. Exactly one of
// DeletedCounts and Error is populated, keyed off Deleted.
type CascadeResult struct {
	Deleted       bool             `json:"deleted"`
	DeletedCounts map[string]int64 `json:"deletedCounts,omitempty"`
	Error         string           `json:"error,omitempty"`
}

// DeleteWithDependents deletes a parent record and every dependent matching
// the registry, as a single transaction. Per-collection deleted counts are
// recorded, with the parent row itself reported under "<parent>Data".
//
// The transaction commits only if every step succeeded; any failure rolls the
// whole thing back, so readers never observe a partial cascade.
func DeleteWithDependents(db *gorm.DB, parentID string, descs []Descriptor, parentModel string) CascadeResult {
	counts := make(map[string]int64, len(descs)+1)

	err := db.Transaction(func(tx *gorm.DB) error {
		for _, desc := range descs {
			proto, err := models.Lookup(desc.Model)
			if err != nil {
				return err
			}
			res := tx.Where(desc.Field+" = ?", parentID).Delete(proto)
			if res.Error != nil {
				return res.Error
			}
			counts[desc.Model] = res.RowsAffected
		}

		proto, err := models.Lookup(parentModel)
		if err != nil {
			return err
		}
		res := tx.Where("id = ?", parentID).Delete(proto)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%s %s not found", parentModel, parentID)
		}
		counts[parentDataKey(parentModel)] = res.RowsAffected
		return nil
	})
	if err != nil {
		return CascadeResult{Deleted: false, Error: err.Error()}
	}
	return CascadeResult{Deleted: true, DeletedCounts: counts}
}

// parentDataKey derives the deleted-counts key for the parent row itself,
// e.g. "Institute" -> "instituteData".
func parentDataKey(parentModel string) string {
	return strings.ToLower(parentModel[:1]) + parentModel[1:] + "Data"
}
