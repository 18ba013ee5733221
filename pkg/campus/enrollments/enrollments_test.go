package enrollments

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/campuskit/campus/pkg/campus/auth"
	"github.com/campuskit/campus/pkg/campus/database"
	"github.com/campuskit/campus/pkg/campus/models"
	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}
	return db
}

func setupTestRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(database.ContextKeyDB, db)
	})

	handler := NewHandler()
	group := r.Group("/enrollments")
	group.Use(auth.AuthMiddleware())
	handler.RegisterRoutes(group, auth.RequireRole(string(models.MemberRoleAdmin)))
	return r
}

type fixtures struct {
	admin   models.Member
	student models.Member
	batch   models.GradeBatch
	inst    models.Institute
}

func seedFixtures(t *testing.T, db *gorm.DB) fixtures {
	hash, _ := auth.HashPassword("password123")
	f := fixtures{
		admin:   models.Member{Name: "Admin", Email: "admin@example.com", Role: models.MemberRoleAdmin, PasswordHash: hash},
		student: models.Member{Name: "Student", Email: "student@example.com", Role: models.MemberRoleStudent, PasswordHash: hash},
		inst:    models.Institute{Name: "Campus", Code: "CMP"},
	}
	for _, rec := range []interface{}{&f.admin, &f.student, &f.inst} {
		if err := db.Create(rec).Error; err != nil {
			t.Fatalf("Failed to seed fixture: %v", err)
		}
	}
	grade := models.Grade{InstituteID: f.inst.ID, Name: "Grade 9"}
	if err := db.Create(&grade).Error; err != nil {
		t.Fatalf("Failed to seed grade: %v", err)
	}
	f.batch = models.GradeBatch{InstituteID: f.inst.ID, GradeID: grade.ID, Name: "2026 Batch"}
	if err := db.Create(&f.batch).Error; err != nil {
		t.Fatalf("Failed to seed batch: %v", err)
	}
	return f
}

func doRequest(t *testing.T, router *gin.Engine, method, path string, body interface{}, member models.Member) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("Failed to encode body: %v", err)
		}
	}
	token, _ := auth.GenerateToken(member.ID, member.Email, string(member.Role))
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestCreateEnrollment(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	f := seedFixtures(t, db)

	resp := doRequest(t, router, "POST", "/enrollments", CreateEnrollmentRequest{
		InstituteID:  f.inst.ID,
		MemberID:     f.student.ID,
		GradeBatchID: f.batch.ID,
	}, f.admin)
	if resp.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", resp.Code, resp.Body.String())
	}

	var created EnrollmentResponse
	json.Unmarshal(resp.Body.Bytes(), &created)
	if created.Status != string(models.EnrollmentActive) {
		t.Errorf("Expected active status, got %s", created.Status)
	}
	if created.EnrolledAt == "" {
		t.Error("Expected enrolled_at to be set")
	}
}

func TestCreateEnrollmentDuplicate(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	f := seedFixtures(t, db)
	db.Create(&models.Enrollment{InstituteID: f.inst.ID, MemberID: f.student.ID, GradeBatchID: f.batch.ID})

	resp := doRequest(t, router, "POST", "/enrollments", CreateEnrollmentRequest{
		InstituteID:  f.inst.ID,
		MemberID:     f.student.ID,
		GradeBatchID: f.batch.ID,
	}, f.admin)
	if resp.Code != http.StatusConflict {
		t.Errorf("Expected 409 for duplicate enrollment, got %d", resp.Code)
	}
}

func TestCreateEnrollmentUnknownMember(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	f := seedFixtures(t, db)

	resp := doRequest(t, router, "POST", "/enrollments", CreateEnrollmentRequest{
		InstituteID:  f.inst.ID,
		MemberID:     "no-such-member",
		GradeBatchID: f.batch.ID,
	}, f.admin)
	if resp.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for unknown member, got %d", resp.Code)
	}
}

func TestListEnrollmentsFilterByMember(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	f := seedFixtures(t, db)
	other := models.Member{Name: "Other", Email: "other@example.com", Role: models.MemberRoleStudent}
	db.Create(&other)
	db.Create(&models.Enrollment{InstituteID: f.inst.ID, MemberID: f.student.ID, GradeBatchID: f.batch.ID})
	db.Create(&models.Enrollment{InstituteID: f.inst.ID, MemberID: other.ID, GradeBatchID: f.batch.ID})

	resp := doRequest(t, router, "GET", "/enrollments?member_id="+f.student.ID, nil, f.admin)
	if resp.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.Code)
	}
	var listed []EnrollmentResponse
	json.Unmarshal(resp.Body.Bytes(), &listed)
	if len(listed) != 1 || listed[0].MemberID != f.student.ID {
		t.Errorf("Expected one enrollment for the student, got %+v", listed)
	}
}

func TestUpdateEnrollmentStatus(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	f := seedFixtures(t, db)
	enr := models.Enrollment{InstituteID: f.inst.ID, MemberID: f.student.ID, GradeBatchID: f.batch.ID}
	db.Create(&enr)

	resp := doRequest(t, router, "PUT", "/enrollments/"+enr.ID, UpdateEnrollmentRequest{Status: "completed"}, f.admin)
	if resp.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var updated EnrollmentResponse
	json.Unmarshal(resp.Body.Bytes(), &updated)
	if updated.Status != "completed" {
		t.Errorf("Expected completed status, got %s", updated.Status)
	}

	resp = doRequest(t, router, "PUT", "/enrollments/"+enr.ID, UpdateEnrollmentRequest{Status: "paused"}, f.admin)
	if resp.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for invalid status, got %d", resp.Code)
	}
}

func TestDeleteEnrollmentPlainPath(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	f := seedFixtures(t, db)
	enr := models.Enrollment{InstituteID: f.inst.ID, MemberID: f.student.ID, GradeBatchID: f.batch.ID}
	db.Create(&enr)

	resp := doRequest(t, router, "DELETE", "/enrollments", map[string]interface{}{
		"ids": []string{enr.ID},
	}, f.admin)
	if resp.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var remaining int64
	db.Model(&models.Enrollment{}).Where("id = ?", enr.ID).Count(&remaining)
	if remaining != 0 {
		t.Error("Expected enrollment to be deleted")
	}

	resp = doRequest(t, router, "DELETE", "/enrollments", map[string]interface{}{
		"ids": []string{enr.ID},
	}, f.admin)
	if resp.Code != http.StatusNotFound {
		t.Errorf("Expected 404 on repeat delete, got %d", resp.Code)
	}
}
