package database

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestManagerOpensAndCaches(t *testing.T) {
	m := NewManager(t.TempDir())

	db1, err := m.Get("north-campus")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	db2, err := m.Get("north-campus")
	if err != nil {
		t.Fatalf("Second Get failed: %v", err)
	}
	if db1 != db2 {
		t.Error("Expected the same connection for the same tenant")
	}

	other, err := m.Get("south-campus")
	if err != nil {
		t.Fatalf("Get for second tenant failed: %v", err)
	}
	if other == db1 {
		t.Error("Expected distinct connections for distinct tenants")
	}
}

func TestManagerRejectsInvalidSlug(t *testing.T) {
	m := NewManager(t.TempDir())

	for _, slug := range []string{"", "UPPER", "../escape", "has space", "-leading"} {
		if _, err := m.Get(slug); err == nil {
			t.Errorf("Expected error for slug %q", slug)
		}
	}
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewManager(t.TempDir())

	r := gin.New()
	r.GET("/ping", Middleware(m), func(c *gin.Context) {
		db := FromContext(c)
		if db == nil {
			c.JSON(500, gin.H{"message": "no db"})
			return
		}
		c.JSON(200, gin.H{"tenant": c.GetString(ContextKeyTenant)})
	})

	// Missing header
	req, _ := http.NewRequest("GET", "/ping", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 without tenant header, got %d", resp.Code)
	}

	// Invalid slug
	req, _ = http.NewRequest("GET", "/ping", nil)
	req.Header.Set(TenantHeader, "../bad")
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for invalid tenant, got %d", resp.Code)
	}

	// Valid tenant
	req, _ = http.NewRequest("GET", "/ping", nil)
	req.Header.Set(TenantHeader, "north-campus")
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
}
