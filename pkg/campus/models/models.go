package models

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AllModels returns all models for migration.
// Note: Institute must be migrated first as every other model references it.
func AllModels() []interface{} {
	return []interface{}{
		&Institute{},
		&Department{},
		&Grade{},
		&Subject{},
		&GradeBatch{},
		&Member{},
		&Enrollment{},
	}
}

// AutoMigrate runs GORM auto-migration for all models
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(AllModels()...)
}

// modelTable is the hand-authored model registry. Cascade workflows resolve
// collection names against it dynamically, so every model that can appear in
// a dependency descriptor must be listed here.
var modelTable = map[string]func() interface{}{
	"Institute":  func() interface{} { return &Institute{} },
	"Department": func() interface{} { return &Department{} },
	"Grade":      func() interface{} { return &Grade{} },
	"Subject":    func() interface{} { return &Subject{} },
	"GradeBatch": func() interface{} { return &GradeBatch{} },
	"Member":     func() interface{} { return &Member{} },
	"Enrollment": func() interface{} { return &Enrollment{} },
}

// Lookup returns a fresh prototype for the named model, suitable for
// gorm's Model()/Delete() calls.
func Lookup(name string) (interface{}, error) {
	factory, ok := modelTable[name]
	if !ok {
		return nil, fmt.Errorf("model %q is not registered", name)
	}
	return factory(), nil
}

// Names returns all registered model names.
func Names() []string {
	names := make([]string, 0, len(modelTable))
	for name := range modelTable {
		names = append(names, name)
	}
	return names
}

// newID generates a primary key for a new record.
func newID() string {
	return uuid.NewString()
}
