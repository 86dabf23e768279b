package services

import (
	"context"
	"fmt"
	"log/slog"
	"mime/multipart"

	"github.com/campuscms/course-service/internal/models"
	"github.com/campuscms/course-service/internal/repositories"
	"github.com/campuscms/course-service/internal/storage"
	"github.com/campuscms/course-service/internal/validator"
)

type userService struct {
	repo      repositories.Repository
	storage   storage.ObjectStorage
	logger    *slog.Logger
	validator *validator.Validator
	maxUpload int64
	allowed   []string
}

func NewUserService(repo repositories.Repository, store storage.ObjectStorage, logger *slog.Logger, validator *validator.Validator, maxUpload int64, allowedExtensions []string) UserService {
	return &userService{
		repo:      repo,
		storage:   store,
		logger:    logger,
		validator: validator,
		maxUpload: maxUpload,
		allowed:   allowedExtensions,
	}
}

func (s *userService) GetByID(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.repo.User().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, NewNotFoundError("user", id)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (s *userService) UpdateProfile(ctx context.Context, actor *models.User, req *ProfileUpdateRequest) (*models.User, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if req.Email != nil && *req.Email != actor.Email {
		exists, err := s.repo.User().ExistsByEmail(ctx, *req.Email)
		if err != nil {
			return nil, fmt.Errorf("failed to check email: %w", err)
		}
		if exists {
			return nil, NewConflictError("user", "email already registered")
		}
		actor.Email = *req.Email
	}
	if req.FirstName != nil {
		actor.FirstName = req.FirstName
	}
	if req.LastName != nil {
		actor.LastName = req.LastName
	}

	if err := s.repo.User().Update(ctx, actor); err != nil {
		if repositories.IsDuplicateKeyError(err) {
			return nil, NewConflictError("user", "email already registered")
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return actor, nil
}

// UploadProfileImage validates the file, relays it to object storage and
// records the URL. A failed relay keeps the previous image and reports a
// warning instead of failing the request.
func (s *userService) UploadProfileImage(ctx context.Context, actor *models.User, fileHeader *multipart.FileHeader) (*ImageUploadResult, error) {
	if errs := s.validator.GetBusinessValidator().ValidateImageUpload(fileHeader.Filename, fileHeader.Size, s.maxUpload, s.allowed); len(errs) > 0 {
		return nil, errs
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	key := storage.ObjectKey(storage.ProfileFolder, fileHeader.Filename)
	url, err := s.storage.Upload(key, file, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		s.logger.Warn("Profile image relay failed", "user_id", actor.ID, "error", err)
		return &ImageUploadResult{Warning: "image could not be stored, previous image kept"}, nil
	}

	oldURL := actor.ProfileImageURL
	actor.ProfileImageURL = &url
	if err := s.repo.User().Update(ctx, actor); err != nil {
		return nil, fmt.Errorf("failed to save profile image: %w", err)
	}

	if oldURL != nil && *oldURL != "" {
		if err := s.storage.Delete(*oldURL); err != nil {
			s.logger.Warn("Failed to delete previous profile image", "user_id", actor.ID, "error", err)
		}
	}

	return &ImageUploadResult{URL: url}, nil
}

func (s *userService) List(ctx context.Context, filters repositories.UserFilters) (*UserListResponse, error) {
	users, total, err := s.repo.User().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	page, size := pageFromOffset(filters.Limit, filters.Offset)
	return &UserListResponse{Users: users, Total: total, Page: page, Size: size}, nil
}

// AdminUpdate applies an admin edit to a user. The role-change guard runs
// inside the same transaction as the update so the course count cannot drift.
func (s *userService) AdminUpdate(ctx context.Context, actor *models.User, id uint, req *AdminUserUpdateRequest) (*models.User, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	var updated *models.User
	err := s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		user, err := txRepo.User().GetByID(ctx, id)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return NewNotFoundError("user", id)
			}
			return fmt.Errorf("failed to get user: %w", err)
		}

		if req.Role != nil {
			newRole, err := models.ParseRole(*req.Role)
			if err != nil {
				return validator.ValidationErrors{{Field: "role", Message: "invalid role", Value: *req.Role, Rule: "user_role"}}
			}

			activeCourses, err := txRepo.Course().CountActiveByInstructor(ctx, user.ID)
			if err != nil {
				return fmt.Errorf("failed to count instructor courses: %w", err)
			}

			if errs := s.validator.GetBusinessValidator().ValidateRoleChange(user.Role, newRole, int(activeCourses)); len(errs) > 0 {
				return errs
			}
			user.Role = newRole
		}

		if req.Email != nil && *req.Email != user.Email {
			exists, err := txRepo.User().ExistsByEmail(ctx, *req.Email)
			if err != nil {
				return fmt.Errorf("failed to check email: %w", err)
			}
			if exists {
				return NewConflictError("user", "email already registered")
			}
			user.Email = *req.Email
		}
		if req.FirstName != nil {
			user.FirstName = req.FirstName
		}
		if req.LastName != nil {
			user.LastName = req.LastName
		}

		if err := txRepo.User().Update(ctx, user); err != nil {
			return fmt.Errorf("failed to update user: %w", err)
		}

		updated = user
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("User updated by admin", "admin_id", actor.ID, "user_id", updated.ID)

	return updated, nil
}

// AdminDelete removes a user together with everything they own: instructed
// courses (with their enrollments and videos) and held enrollments, all in
// one transaction. Admins cannot delete their own account.
func (s *userService) AdminDelete(ctx context.Context, actor *models.User, id uint) error {
	if actor.ID == id {
		return NewPermissionError(actor.ID, id, "user", "delete", "cannot delete own account")
	}

	err := s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		user, err := txRepo.User().GetByID(ctx, id)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return NewNotFoundError("user", id)
			}
			return fmt.Errorf("failed to get user: %w", err)
		}

		courseIDs, err := txRepo.Course().ListIDsByInstructor(ctx, user.ID)
		if err != nil {
			return err
		}
		for _, courseID := range courseIDs {
			if err := txRepo.Enrollment().DeleteByCourse(ctx, courseID); err != nil {
				return err
			}
			if err := txRepo.CourseVideo().DeleteByCourse(ctx, courseID); err != nil {
				return err
			}
			if err := txRepo.Course().Delete(ctx, courseID); err != nil {
				return fmt.Errorf("failed to delete course %d: %w", courseID, err)
			}
		}

		if err := txRepo.Enrollment().DeleteByStudent(ctx, user.ID); err != nil {
			return err
		}

		if err := txRepo.User().Delete(ctx, user.ID); err != nil {
			return fmt.Errorf("failed to delete user: %w", err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("User deleted by admin", "admin_id", actor.ID, "user_id", id)

	return nil
}

func pageFromOffset(limit, offset int) (page, size int) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return offset/limit + 1, limit
}
