package services

import (
	"context"
	"testing"

	"github.com/campuscms/course-service/internal/models"
	"github.com/campuscms/course-service/internal/repositories"
)

func newUserService(t *testing.T) (UserService, repositories.Repository, *fakeStorage) {
	t.Helper()
	repo := newTestRepo(t)
	store := &fakeStorage{}
	service := NewUserService(repo, store, testLogger(), newTestValidator(), 16<<20, []string{"png", "jpg", "jpeg"})
	return service, repo, store
}

func TestUserService_UpdateProfile(t *testing.T) {
	service, repo, _ := newUserService(t)
	ctx := context.Background()

	user := seedUser(t, repo, models.RoleStudent)
	other := seedUser(t, repo, models.RoleStudent)

	name := "Ada"
	updated, err := service.UpdateProfile(ctx, user, &ProfileUpdateRequest{FirstName: &name})
	if err != nil {
		t.Fatalf("UpdateProfile() error = %v", err)
	}
	if updated.FirstName == nil || *updated.FirstName != "Ada" {
		t.Errorf("UpdateProfile() first name = %v", updated.FirstName)
	}

	// Taking another user's email is a conflict
	if _, err := service.UpdateProfile(ctx, user, &ProfileUpdateRequest{Email: &other.Email}); !IsConflict(err) {
		t.Errorf("UpdateProfile() duplicate email error = %v, want conflict", err)
	}
}

func TestUserService_UploadProfileImage_BadExtension(t *testing.T) {
	service, repo, store := newUserService(t)

	user := seedUser(t, repo, models.RoleStudent)
	fileHeader := makeFileHeader(t, "animation.gif", []byte("gif-bytes"))

	if _, err := service.UploadProfileImage(context.Background(), user, fileHeader); err == nil {
		t.Fatal("UploadProfileImage() with .gif should fail")
	}

	// Validation happens before any storage call
	if len(store.uploads) != 0 {
		t.Errorf("storage uploads = %v, want none", store.uploads)
	}
}

func TestUserService_UploadProfileImage(t *testing.T) {
	service, repo, store := newUserService(t)
	ctx := context.Background()

	user := seedUser(t, repo, models.RoleStudent)
	fileHeader := makeFileHeader(t, "avatar.png", []byte("png-bytes"))

	result, err := service.UploadProfileImage(ctx, user, fileHeader)
	if err != nil {
		t.Fatalf("UploadProfileImage() error = %v", err)
	}
	if result.URL == "" || result.Warning != "" {
		t.Errorf("UploadProfileImage() result = %+v", result)
	}
	if len(store.uploads) != 1 {
		t.Errorf("storage uploads = %d, want 1", len(store.uploads))
	}

	stored, err := repo.User().GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if stored.ProfileImageURL == nil || *stored.ProfileImageURL != result.URL {
		t.Errorf("stored profile image = %v, want %q", stored.ProfileImageURL, result.URL)
	}
}

func TestUserService_UploadProfileImage_RelayFailure(t *testing.T) {
	service, repo, store := newUserService(t)
	ctx := context.Background()
	store.failUpload = true

	user := seedUser(t, repo, models.RoleStudent)
	previous := "https://media.s3.us-east-1.amazonaws.com/profiles/old.png"
	user.ProfileImageURL = &previous
	if err := repo.User().Update(ctx, user); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	fileHeader := makeFileHeader(t, "avatar.png", []byte("png-bytes"))
	result, err := service.UploadProfileImage(ctx, user, fileHeader)
	if err != nil {
		t.Fatalf("UploadProfileImage() error = %v", err)
	}
	if result.Warning == "" {
		t.Error("UploadProfileImage() relay failure should report a warning")
	}

	// The previous image stays in place
	stored, err := repo.User().GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if stored.ProfileImageURL == nil || *stored.ProfileImageURL != previous {
		t.Errorf("stored profile image = %v, want previous kept", stored.ProfileImageURL)
	}
	if len(store.deletes) != 0 {
		t.Errorf("storage deletes = %v, want none", store.deletes)
	}
}

func TestUserService_AdminUpdate_RoleGuard(t *testing.T) {
	service, repo, _ := newUserService(t)
	ctx := context.Background()

	admin := seedUser(t, repo, models.RoleAdmin)
	instructor := seedUser(t, repo, models.RoleInstructor)
	seedCourse(t, repo, instructor.ID, nil)

	student := "student"
	_, err := service.AdminUpdate(ctx, admin, instructor.ID, &AdminUserUpdateRequest{Role: &student})
	if err == nil {
		t.Fatal("AdminUpdate() demoting an instructor with active courses should fail")
	}

	// Role is unchanged after the rejected update
	stored, err := repo.User().GetByID(ctx, instructor.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if stored.Role != models.RoleInstructor {
		t.Errorf("role after rejected update = %q, want instructor", stored.Role)
	}
}

func TestUserService_AdminUpdate_RoleChangeAfterDeactivation(t *testing.T) {
	service, repo, _ := newUserService(t)
	ctx := context.Background()

	admin := seedUser(t, repo, models.RoleAdmin)
	instructor := seedUser(t, repo, models.RoleInstructor)
	course := seedCourse(t, repo, instructor.ID, nil)

	course.IsActive = false
	if err := repo.Course().Update(ctx, course); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	student := "student"
	updated, err := service.AdminUpdate(ctx, admin, instructor.ID, &AdminUserUpdateRequest{Role: &student})
	if err != nil {
		t.Fatalf("AdminUpdate() error = %v", err)
	}
	if updated.Role != models.RoleStudent {
		t.Errorf("role = %q, want student", updated.Role)
	}
}

func TestUserService_AdminDelete_Self(t *testing.T) {
	service, repo, _ := newUserService(t)

	admin := seedUser(t, repo, models.RoleAdmin)

	if err := service.AdminDelete(context.Background(), admin, admin.ID); !IsPermission(err) {
		t.Errorf("AdminDelete() self error = %v, want permission error", err)
	}
}

func TestUserService_AdminDelete_Cascades(t *testing.T) {
	service, repo, _ := newUserService(t)
	ctx := context.Background()

	admin := seedUser(t, repo, models.RoleAdmin)
	instructor := seedUser(t, repo, models.RoleInstructor)
	student := seedUser(t, repo, models.RoleStudent)
	otherInstructor := seedUser(t, repo, models.RoleInstructor)

	course := seedCourse(t, repo, instructor.ID, nil)
	otherCourse := seedCourse(t, repo, otherInstructor.ID, nil)
	seedEnrollment(t, repo, student.ID, course.ID)
	seedEnrollment(t, repo, student.ID, otherCourse.ID)

	video := &models.CourseVideo{CourseID: course.ID, Title: "Welcome", VideoType: models.VideoUpload, VideoURL: "https://cdn.example.com/v/1"}
	if err := repo.CourseVideo().Create(ctx, video); err != nil {
		t.Fatalf("Create() video error = %v", err)
	}

	if err := service.AdminDelete(ctx, admin, instructor.ID); err != nil {
		t.Fatalf("AdminDelete() error = %v", err)
	}

	if _, err := repo.User().GetByID(ctx, instructor.ID); !repositories.IsNotFoundError(err) {
		t.Errorf("instructor still exists: %v", err)
	}
	if _, err := repo.Course().GetByID(ctx, course.ID); !repositories.IsNotFoundError(err) {
		t.Errorf("instructed course still exists: %v", err)
	}
	if _, err := repo.CourseVideo().GetByID(ctx, video.ID); !repositories.IsNotFoundError(err) {
		t.Errorf("course video still exists: %v", err)
	}
	if enrolled, _ := repo.Enrollment().ExistsByStudentAndCourse(ctx, student.ID, course.ID); enrolled {
		t.Error("enrollment into deleted course still exists")
	}

	// Unrelated data is untouched
	if _, err := repo.Course().GetByID(ctx, otherCourse.ID); err != nil {
		t.Errorf("unrelated course was deleted: %v", err)
	}
	if enrolled, _ := repo.Enrollment().ExistsByStudentAndCourse(ctx, student.ID, otherCourse.ID); !enrolled {
		t.Error("unrelated enrollment was deleted")
	}
}

func TestUserService_AdminDelete_StudentEnrollments(t *testing.T) {
	service, repo, _ := newUserService(t)
	ctx := context.Background()

	admin := seedUser(t, repo, models.RoleAdmin)
	instructor := seedUser(t, repo, models.RoleInstructor)
	student := seedUser(t, repo, models.RoleStudent)
	course := seedCourse(t, repo, instructor.ID, nil)
	seedEnrollment(t, repo, student.ID, course.ID)

	if err := service.AdminDelete(ctx, admin, student.ID); err != nil {
		t.Fatalf("AdminDelete() error = %v", err)
	}

	if enrolled, _ := repo.Enrollment().ExistsByStudentAndCourse(ctx, student.ID, course.ID); enrolled {
		t.Error("deleted student's enrollment still exists")
	}
	if _, err := repo.Course().GetByID(ctx, course.ID); err != nil {
		t.Errorf("course was deleted with the student: %v", err)
	}
}
