package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/campuskit/campus/pkg/campus/auth"
	"github.com/campuskit/campus/pkg/campus/batches"
	"github.com/campuskit/campus/pkg/campus/cascade"
	"github.com/campuskit/campus/pkg/campus/database"
	"github.com/campuskit/campus/pkg/campus/departments"
	"github.com/campuskit/campus/pkg/campus/enrollments"
	"github.com/campuskit/campus/pkg/campus/grades"
	"github.com/campuskit/campus/pkg/campus/institutes"
	"github.com/campuskit/campus/pkg/campus/members"
	"github.com/campuskit/campus/pkg/campus/models"
	"github.com/campuskit/campus/pkg/campus/subjects"
	"github.com/gin-gonic/gin"
)

// setupFullServer wires the router the same way main does: tenant middleware,
// public auth routes, JWT-protected entity routes with admin-only deletes.
// Tenant databases are real files under a temp directory, so the X-Tenant
// header drives exactly the same code path as production.
func setupFullServer(t *testing.T) (*gin.Engine, *database.Manager) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	if err := cascade.ValidateRegistry(); err != nil {
		t.Fatalf("Invalid dependency registry: %v", err)
	}

	tenants := database.NewManager(t.TempDir())

	r := gin.New()
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")
	api.Use(database.Middleware(tenants))
	{
		authHandler := auth.NewHandler()
		authHandler.RegisterRoutes(api.Group("/auth"))

		protected := api.Group("", auth.AuthMiddleware())
		authHandler.RegisterProtectedRoutes(protected.Group("/auth"))

		adminOnly := auth.RequireRole(string(models.MemberRoleAdmin))

		institutes.NewHandler().RegisterRoutes(protected.Group("/institutes"), adminOnly)
		departments.NewHandler().RegisterRoutes(protected.Group("/departments"), adminOnly)
		grades.NewHandler().RegisterRoutes(protected.Group("/grades"), adminOnly)
		subjects.NewHandler().RegisterRoutes(protected.Group("/subjects"), adminOnly)
		batches.NewHandler().RegisterRoutes(protected.Group("/batches"), adminOnly)
		members.NewHandler().RegisterRoutes(protected.Group("/members"), adminOnly)
		enrollments.NewHandler().RegisterRoutes(protected.Group("/enrollments"), adminOnly)
	}

	return r, tenants
}

func seedAdmin(t *testing.T, tenants *database.Manager, tenant string) {
	t.Helper()
	db, err := tenants.Get(tenant)
	if err != nil {
		t.Fatalf("Failed to open tenant %q: %v", tenant, err)
	}
	hash, err := auth.HashPassword("changeme")
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	admin := models.Member{
		Name:         "Admin",
		Email:        "admin@campus.local",
		Role:         models.MemberRoleAdmin,
		PasswordHash: hash,
	}
	if err := db.Create(&admin).Error; err != nil {
		t.Fatalf("Failed to seed admin: %v", err)
	}
}

type client struct {
	t      *testing.T
	router *gin.Engine
	tenant string
	token  string
}

func (c *client) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			c.t.Fatalf("Failed to encode body: %v", err)
		}
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(database.TenantHeader, c.tenant)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp := httptest.NewRecorder()
	c.router.ServeHTTP(resp, req)
	return resp
}

func (c *client) login(email, password string) {
	c.t.Helper()
	resp := c.do("POST", "/api/v1/auth/login", map[string]string{
		"email":    email,
		"password": password,
	})
	if resp.Code != http.StatusOK {
		c.t.Fatalf("Login failed with %d: %s", resp.Code, resp.Body.String())
	}
	var out struct {
		Token string `json:"token"`
	}
	json.Unmarshal(resp.Body.Bytes(), &out)
	c.token = out.Token
}

func decodeBody(t *testing.T, resp *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("Failed to decode body %q: %v", resp.Body.String(), err)
	}
	return out
}

func TestHealthEndpoint(t *testing.T) {
	router, _ := setupFullServer(t)
	req, _ := http.NewRequest("GET", "/health", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", resp.Code)
	}
}

func TestAPIRequiresTenantHeader(t *testing.T) {
	router, _ := setupFullServer(t)
	req, _ := http.NewRequest("POST", "/api/v1/auth/login", bytes.NewBufferString("{}"))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 without tenant header, got %d", resp.Code)
	}
}

func TestAPIRequiresToken(t *testing.T) {
	router, tenants := setupFullServer(t)
	seedAdmin(t, tenants, "acme")

	c := &client{t: t, router: router, tenant: "acme"}
	resp := c.do("GET", "/api/v1/institutes", nil)
	if resp.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 without token, got %d", resp.Code)
	}
}

func TestLoginAndMe(t *testing.T) {
	router, tenants := setupFullServer(t)
	seedAdmin(t, tenants, "acme")

	c := &client{t: t, router: router, tenant: "acme"}
	c.login("admin@campus.local", "changeme")

	resp := c.do("GET", "/api/v1/auth/me", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	me := decodeBody(t, resp)
	if me["email"] != "admin@campus.local" {
		t.Errorf("Expected admin email, got %v", me["email"])
	}
}

func TestTenantsAreIsolated(t *testing.T) {
	router, tenants := setupFullServer(t)
	seedAdmin(t, tenants, "acme")
	seedAdmin(t, tenants, "globex")

	acme := &client{t: t, router: router, tenant: "acme"}
	acme.login("admin@campus.local", "changeme")
	resp := acme.do("POST", "/api/v1/institutes", map[string]string{
		"name": "Acme Campus",
		"code": "ACM",
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", resp.Code, resp.Body.String())
	}

	globex := &client{t: t, router: router, tenant: "globex"}
	globex.login("admin@campus.local", "changeme")
	resp = globex.do("GET", "/api/v1/institutes", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.Code)
	}
	var listed []map[string]interface{}
	json.Unmarshal(resp.Body.Bytes(), &listed)
	if len(listed) != 0 {
		t.Errorf("Expected globex to see no institutes, got %d", len(listed))
	}
}

// Walks the whole lifecycle: build an institute with a grade, batch, members
// and an enrollment, then delete the institute through the dependency summary
// and cascade flow.
func TestInstituteCascadeLifecycle(t *testing.T) {
	router, tenants := setupFullServer(t)
	seedAdmin(t, tenants, "acme")

	c := &client{t: t, router: router, tenant: "acme"}
	c.login("admin@campus.local", "changeme")

	resp := c.do("POST", "/api/v1/institutes", map[string]string{
		"name": "Northfield High",
		"code": "NFH",
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("Create institute failed: %d %s", resp.Code, resp.Body.String())
	}
	instituteID := decodeBody(t, resp)["id"].(string)

	resp = c.do("POST", "/api/v1/grades", map[string]interface{}{
		"institute_id": instituteID,
		"name":         "Grade 10",
		"level":        10,
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("Create grade failed: %d %s", resp.Code, resp.Body.String())
	}
	gradeID := decodeBody(t, resp)["id"].(string)

	resp = c.do("POST", "/api/v1/batches", map[string]interface{}{
		"institute_id":  instituteID,
		"grade_id":      gradeID,
		"name":          "10-A",
		"academic_year": "2026/27",
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("Create batch failed: %d %s", resp.Code, resp.Body.String())
	}
	batchID := decodeBody(t, resp)["id"].(string)

	resp = c.do("POST", "/api/v1/members", map[string]interface{}{
		"institute_id": instituteID,
		"name":         "Jordan Lee",
		"email":        "jordan@example.com",
		"role":         "student",
		"password":     "password123",
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("Create member failed: %d %s", resp.Code, resp.Body.String())
	}
	memberID := decodeBody(t, resp)["id"].(string)

	resp = c.do("POST", "/api/v1/enrollments", map[string]interface{}{
		"institute_id":   instituteID,
		"member_id":      memberID,
		"grade_batch_id": batchID,
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("Create enrollment failed: %d %s", resp.Code, resp.Body.String())
	}

	// First delete attempt returns the dependency summary and removes
	// nothing.
	resp = c.do("DELETE", "/api/v1/institutes", map[string]interface{}{
		"ids": []string{instituteID},
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("Expected 201 dependency summary, got %d: %s", resp.Code, resp.Body.String())
	}
	summary := decodeBody(t, resp)
	deps, ok := summary["dependencies"].([]interface{})
	if !ok || len(deps) != 1 {
		t.Fatalf("Expected one blocked entry, got %v", summary["dependencies"])
	}
	entry := deps[0].(map[string]interface{})
	if entry["_id"] != instituteID {
		t.Errorf("Expected summary entry for the institute, got %v", entry["_id"])
	}
	dependsOn := entry["dependsOn"].(map[string]interface{})
	for _, key := range []string{"grades", "gradeBatches", "members", "enrollments"} {
		if _, present := dependsOn[key]; !present {
			t.Errorf("Expected dependsOn to include %s, got %v", key, dependsOn)
		}
	}

	resp = c.do("GET", "/api/v1/institutes/"+instituteID, nil)
	if resp.Code != http.StatusOK {
		t.Errorf("Expected institute to survive the summary, got %d", resp.Code)
	}

	// Cascade delete removes the institute and everything hanging off it.
	resp = c.do("DELETE", "/api/v1/institutes", map[string]interface{}{
		"ids":              []string{instituteID},
		"deleteDependents": true,
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("Expected 200 cascade, got %d: %s", resp.Code, resp.Body.String())
	}

	resp = c.do("GET", "/api/v1/institutes/"+instituteID, nil)
	if resp.Code != http.StatusNotFound {
		t.Errorf("Expected 404 after cascade, got %d", resp.Code)
	}
	resp = c.do("GET", "/api/v1/enrollments", nil)
	var remaining []map[string]interface{}
	json.Unmarshal(resp.Body.Bytes(), &remaining)
	if len(remaining) != 0 {
		t.Errorf("Expected no enrollments after cascade, got %d", len(remaining))
	}
}

func TestArchiveFlow(t *testing.T) {
	router, tenants := setupFullServer(t)
	seedAdmin(t, tenants, "acme")

	c := &client{t: t, router: router, tenant: "acme"}
	c.login("admin@campus.local", "changeme")

	resp := c.do("POST", "/api/v1/institutes", map[string]string{
		"name": "Sleepy Campus",
		"code": "SLP",
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("Create institute failed: %d %s", resp.Code, resp.Body.String())
	}
	instituteID := decodeBody(t, resp)["id"].(string)

	resp = c.do("DELETE", "/api/v1/institutes", map[string]interface{}{
		"ids":     []string{instituteID},
		"archive": true,
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("Expected 200 archive, got %d: %s", resp.Code, resp.Body.String())
	}

	// Archived institutes drop out of the default listing but are still
	// fetchable.
	resp = c.do("GET", "/api/v1/institutes", nil)
	var listed []map[string]interface{}
	json.Unmarshal(resp.Body.Bytes(), &listed)
	if len(listed) != 0 {
		t.Errorf("Expected archived institute to be hidden, got %d", len(listed))
	}

	resp = c.do("GET", "/api/v1/institutes/"+instituteID, nil)
	if resp.Code != http.StatusOK {
		t.Errorf("Expected archived institute to remain fetchable, got %d", resp.Code)
	}

	resp = c.do("DELETE", "/api/v1/institutes", map[string]interface{}{
		"ids":     []string{instituteID},
		"archive": false,
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("Expected 200 unarchive, got %d: %s", resp.Code, resp.Body.String())
	}

	resp = c.do("GET", "/api/v1/institutes", nil)
	json.Unmarshal(resp.Body.Bytes(), &listed)
	if len(listed) != 1 {
		t.Errorf("Expected unarchived institute back in the listing, got %d", len(listed))
	}
}
