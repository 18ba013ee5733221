package database

import (
	"fmt"
	"path/filepath"
	"regexp"
	"sync"

	"github.com/campuskit/campus/pkg/campus/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var tenantRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

// ErrInvalidTenant is returned for tenant slugs that fail validation.
var ErrInvalidTenant = fmt.Errorf("invalid tenant slug")

// Manager resolves tenant slugs to database connections. Each tenant gets its
// own sqlite database file under the data directory; connections are opened
// lazily, migrated, and cached for the life of the process. The cache is
// explicit and injected, never a package global.
type Manager struct {
	dataDir string

	mu    sync.Mutex
	conns map[string]*gorm.DB
}

// NewManager creates a tenant connection manager rooted at dataDir.
func NewManager(dataDir string) *Manager {
	return &Manager{
		dataDir: dataDir,
		conns:   make(map[string]*gorm.DB),
	}
}

// Get returns the tenant's database, opening and migrating it on first use.
func (m *Manager) Get(tenant string) (*gorm.DB, error) {
	if !tenantRegex.MatchString(tenant) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTenant, tenant)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if db, ok := m.conns[tenant]; ok {
		return db, nil
	}

	db, err := Open(filepath.Join(m.dataDir, tenant+".db"))
	if err != nil {
		return nil, err
	}
	m.conns[tenant] = db
	return db, nil
}

// Open connects to a single database file and runs migrations. sqlite allows
// one writer at a time, so the pool is capped at a single connection; the
// cascade workflows fan out goroutines and must not land on separate
// connections with separate views of the database.
func Open(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := models.AutoMigrate(db); err != nil {
		return nil, err
	}
	return db, nil
}
