package cascade

import (
	"github.com/campuskit/campus/pkg/campus/models"
	"gorm.io/gorm"
)

// ArchiveResult reports the outcome of a bulk archive/unarchive.
type ArchiveResult struct {
	ArchivedCount int64 `json:"archivedCount"` // records whose flag actually changed
	MatchedCount  int64 `json:"matchedCount"`  // records whose ID was in the set
	Archived      bool  `json:"archived"`      // the flag value that was applied
}

// ArchiveParents sets the archive flag on every record of parentModel whose
// ID is in parentIDs, in a single bulk update. It never looks at dependents:
// archiving leaves the record physically present, so it is safe regardless of
// what references it.
//
// ArchivedCount follows modified semantics: a record already at the target
// flag value matches but does not count as archived.
func ArchiveParents(db *gorm.DB, parentIDs []string, parentModel string, archive bool) (ArchiveResult, error) {
	proto, err := models.Lookup(parentModel)
	if err != nil {
		return ArchiveResult{}, err
	}

	var matched int64
	if err := db.Model(proto).Where("id IN ?", parentIDs).Count(&matched).Error; err != nil {
		return ArchiveResult{}, err
	}

	res := db.Model(proto).
		Where("id IN ?", parentIDs).
		Where("archive <> ?", archive).
		Update("archive", archive)
	if res.Error != nil {
		return ArchiveResult{}, res.Error
	}

	return ArchiveResult{
		ArchivedCount: res.RowsAffected,
		MatchedCount:  matched,
		Archived:      archive,
	}, nil
}
