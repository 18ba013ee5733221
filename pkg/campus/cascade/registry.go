// Package cascade implements the dependency-aware delete workflow shared by
// every entity type: counting dependent records, archiving, transferring
// dependents to another parent, and transactional cascade deletion.
//
// The dependency registry below is authored by hand, not derived from the
// schema. It is the single source of truth for what counts as a dependent of
// each parent model and must be kept in sync with the real foreign keys.
package cascade

import (
	"fmt"

	"github.com/campuskit/campus/pkg/campus/models"
)

// Descriptor declares that records in Model may reference a parent record
// through the Field column. Name is the key used in dependency summaries.
type Descriptor struct {
	Model string // registered model name, e.g. "GradeBatch"
	Field string // referencing column, e.g. "institute_id"
	Name  string // display name in summaries, e.g. "gradeBatches"
}

// registry maps each parent model to the descriptors of everything that can
// reference it. Models with no entry (or an empty list) are leaves and take
// the plain-delete path.
var registry = map[string][]Descriptor{
	"Institute": {
		{Model: "Department", Field: "institute_id", Name: "departments"},
		{Model: "Grade", Field: "institute_id", Name: "grades"},
		{Model: "Subject", Field: "institute_id", Name: "subjects"},
		{Model: "GradeBatch", Field: "institute_id", Name: "gradeBatches"},
		{Model: "Member", Field: "institute_id", Name: "members"},
		{Model: "Enrollment", Field: "institute_id", Name: "enrollments"},
	},
	"Department": {
		{Model: "Grade", Field: "department_id", Name: "grades"},
		{Model: "Member", Field: "department_id", Name: "members"},
	},
	"Grade": {
		{Model: "Subject", Field: "grade_id", Name: "subjects"},
		{Model: "GradeBatch", Field: "grade_id", Name: "gradeBatches"},
	},
	"GradeBatch": {
		{Model: "Enrollment", Field: "grade_batch_id", Name: "enrollments"},
	},
	"Member": {
		{Model: "Enrollment", Field: "member_id", Name: "enrollments"},
	},
	"Subject":    {},
	"Enrollment": {},
}

// Dependents returns the dependency descriptors for a parent model.
func Dependents(parent string) []Descriptor {
	return registry[parent]
}

// ValidateRegistry checks every registry entry against the model table.
// Called once at startup so a typo in the registry fails fast instead of
// surfacing as a lookup error in the middle of a delete request.
func ValidateRegistry() error {
	for parent, descs := range registry {
		if _, err := models.Lookup(parent); err != nil {
			return fmt.Errorf("dependency registry: parent %s: %w", parent, err)
		}
		for _, d := range descs {
			if _, err := models.Lookup(d.Model); err != nil {
				return fmt.Errorf("dependency registry: %s dependent: %w", parent, err)
			}
			if d.Field == "" {
				return fmt.Errorf("dependency registry: %s -> %s has no referencing field", parent, d.Model)
			}
			if d.Name == "" {
				return fmt.Errorf("dependency registry: %s -> %s has no display name", parent, d.Model)
			}
		}
	}
	return nil
}
