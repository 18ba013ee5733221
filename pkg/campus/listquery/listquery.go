// Package listquery parses the pagination, sorting and archive-visibility
// query parameters shared by every list endpoint.
package listquery

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	defaultLimit = 50
	maxLimit     = 200
)

// Params holds the parsed list parameters.
type Params struct {
	Limit           int
	Offset          int
	Sort            string
	Order           string // "asc" or "desc"
	IncludeArchived bool
}

// Parse reads list parameters from the request. sortable whitelists the
// columns accepted for sorting; anything else falls back to created_at.
func Parse(c *gin.Context, sortable ...string) Params {
	p := Params{
		Limit: defaultLimit,
		Sort:  "created_at",
		Order: "desc",
	}

	if l := c.Query("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			p.Limit = parsed
			if p.Limit > maxLimit {
				p.Limit = maxLimit
			}
		}
	}
	if o := c.Query("offset"); o != "" {
		if parsed, err := strconv.Atoi(o); err == nil && parsed >= 0 {
			p.Offset = parsed
		}
	}

	if s := c.Query("sort"); s != "" {
		for _, col := range sortable {
			if s == col {
				p.Sort = s
				break
			}
		}
	}
	if strings.EqualFold(c.Query("order"), "asc") {
		p.Order = "asc"
	}

	p.IncludeArchived = c.Query("includeArchived") == "true"

	return p
}

// Apply adds ordering, limit and offset to a query.
func (p Params) Apply(q *gorm.DB) *gorm.DB {
	return q.Order(p.Sort + " " + p.Order).Limit(p.Limit).Offset(p.Offset)
}

// ApplyArchived hides archived records unless the caller asked for them.
// Only meaningful for models that carry the archive flag.
func (p Params) ApplyArchived(q *gorm.DB) *gorm.DB {
	if !p.IncludeArchived {
		q = q.Where("archive = ?", false)
	}
	return q
}
