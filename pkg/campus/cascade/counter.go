package cascade

import (
	"sync"

	"github.com/campuskit/campus/pkg/campus/models"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// CountDependents counts, for each parent ID, the records in each descriptor's
// collection that reference it. Counts are independent read-only queries and
// run concurrently; callers must not rely on evaluation order.
//
// The result always contains an entry for every parent ID and every
// descriptor name, zero included. On any store error the whole call fails and
// no partial map is returned.
func CountDependents(db *gorm.DB, parentIDs []string, descs []Descriptor) (map[string]map[string]int64, error) {
	counts := make(map[string]map[string]int64, len(parentIDs))
	for _, id := range parentIDs {
		counts[id] = make(map[string]int64, len(descs))
	}

	var (
		g  errgroup.Group
		mu sync.Mutex
	)
	for _, parentID := range parentIDs {
		for _, desc := range descs {
			parentID, desc := parentID, desc
			g.Go(func() error {
				proto, err := models.Lookup(desc.Model)
				if err != nil {
					return err
				}
				var n int64
				if err := db.Model(proto).Where(desc.Field+" = ?", parentID).Count(&n).Error; err != nil {
					return err
				}
				mu.Lock()
				counts[parentID][desc.Name] = n
				mu.Unlock()
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return counts, nil
}

// totalDependents sums one parent's per-descriptor counts.
func totalDependents(byName map[string]int64) int64 {
	var total int64
	for _, n := range byName {
		total += n
	}
	return total
}
