package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"testing"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/campuscms/course-service/internal/models"
	"github.com/campuscms/course-service/internal/repositories"
	"github.com/campuscms/course-service/internal/repositories/postgres"
	"github.com/campuscms/course-service/internal/validator"
)

// newTestRepo opens an isolated in-memory database with the full schema.
func newTestRepo(t *testing.T) repositories.Repository {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	// The in-memory database lives per connection
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&models.User{},
		&models.Course{},
		&models.Enrollment{},
		&models.CourseVideo{},
	); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}

	return postgres.NewPostgreSQLRepository(postgres.RepositoryConfig{DB: db})
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var userSeq int

func seedUser(t *testing.T, repo repositories.Repository, role models.UserRole) *models.User {
	t.Helper()

	userSeq++
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Username:     fmt.Sprintf("%s%d", role, userSeq),
		Email:        fmt.Sprintf("%s%d@example.com", role, userSeq),
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := repo.User().Create(context.Background(), user); err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return user
}

var courseSeq int

func seedCourse(t *testing.T, repo repositories.Repository, instructorID uint, mutate func(*models.Course)) *models.Course {
	t.Helper()

	courseSeq++
	course := &models.Course{
		Title:        fmt.Sprintf("Course %d", courseSeq),
		Code:         fmt.Sprintf("CRS-%d", courseSeq),
		InstructorID: instructorID,
		IsActive:     true,
		MaxStudents:  50,
	}
	if mutate != nil {
		mutate(course)
	}
	if err := repo.Course().Create(context.Background(), course); err != nil {
		t.Fatalf("failed to seed course: %v", err)
	}
	return course
}

func seedEnrollment(t *testing.T, repo repositories.Repository, studentID, courseID uint) *models.Enrollment {
	t.Helper()

	enrollment := &models.Enrollment{
		StudentID: studentID,
		CourseID:  courseID,
		Status:    models.EnrollmentActive,
	}
	if err := repo.Enrollment().Create(context.Background(), enrollment); err != nil {
		t.Fatalf("failed to seed enrollment: %v", err)
	}
	return enrollment
}

// makeFileHeader builds a real multipart.FileHeader backed by in-memory
// content, the same shape gin hands to the services.
func makeFileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("image", filename)
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("failed to write form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close form writer: %v", err)
	}

	reader := multipart.NewReader(body, writer.Boundary())
	form, err := reader.ReadForm(32 << 20)
	if err != nil {
		t.Fatalf("failed to parse form: %v", err)
	}
	t.Cleanup(func() { form.RemoveAll() })

	return form.File["image"][0]
}

// fakeStorage records storage calls and can be told to fail uploads.
type fakeStorage struct {
	uploads    []string
	deletes    []string
	failUpload bool
}

func (f *fakeStorage) Upload(key string, body io.Reader, contentType string) (string, error) {
	if f.failUpload {
		return "", fmt.Errorf("storage unavailable")
	}
	f.uploads = append(f.uploads, key)
	return "https://media.s3.us-east-1.amazonaws.com/" + key, nil
}

func (f *fakeStorage) Delete(fileURL string) error {
	f.deletes = append(f.deletes, fileURL)
	return nil
}

func newTestValidator() *validator.Validator {
	return validator.New()
}
