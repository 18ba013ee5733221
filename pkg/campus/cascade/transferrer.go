package cascade

import (
	"sync"

	"github.com/campuskit/campus/pkg/campus/models"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// TransferDependents re-points every record referencing fromID to toID, one
// bulk update per descriptor. Descriptors touch disjoint collections and run
// concurrently. Returns per-collection modified counts.
//
// There is no transaction across collections: if one descriptor's update
// fails, updates already applied to other collections are not rolled back.
// The call returns an error in that case, so a partial transfer is never
// reported as success.
func TransferDependents(db *gorm.DB, fromID, toID string, descs []Descriptor) (map[string]int64, error) {
	moved := make(map[string]int64, len(descs))

	var (
		g  errgroup.Group
		mu sync.Mutex
	)
	for _, desc := range descs {
		desc := desc
		g.Go(func() error {
			proto, err := models.Lookup(desc.Model)
			if err != nil {
				return err
			}
			res := db.Model(proto).Where(desc.Field+" = ?", fromID).Update(desc.Field, toID)
			if res.Error != nil {
				return res.Error
			}
			mu.Lock()
			moved[desc.Model] = res.RowsAffected
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return moved, nil
}
