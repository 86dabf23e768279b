package services

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/campuscms/course-service/internal/auth"
	"github.com/campuscms/course-service/internal/events"
	"github.com/campuscms/course-service/internal/models"
	"github.com/campuscms/course-service/internal/repositories"
	"github.com/campuscms/course-service/internal/validator"
)

type authService struct {
	repo      repositories.Repository
	tokens    *auth.Service
	publisher events.EventPublisher
	logger    *slog.Logger
	validator *validator.Validator
}

func NewAuthService(repo repositories.Repository, tokens *auth.Service, publisher events.EventPublisher, logger *slog.Logger, validator *validator.Validator) AuthService {
	return &authService{
		repo:      repo,
		tokens:    tokens,
		publisher: publisher,
		logger:    logger,
		validator: validator,
	}
}

func (s *authService) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	role, err := models.ParseRole(req.Role)
	if err != nil {
		return nil, validator.ValidationErrors{{Field: "role", Message: "must be student or instructor", Value: req.Role, Rule: "user_role"}}
	}

	if exists, err := s.repo.User().ExistsByUsername(ctx, req.Username); err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	} else if exists {
		return nil, NewConflictError("user", "username already taken")
	}

	if exists, err := s.repo.User().ExistsByEmail(ctx, req.Email); err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	} else if exists {
		return nil, NewConflictError("user", "email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         role,
	}

	if err := s.repo.User().Create(ctx, user); err != nil {
		if repositories.IsDuplicateKeyError(err) {
			return nil, NewConflictError("user", "username or email already taken")
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("User registered", "user_id", user.ID, "username", user.Username, "role", user.Role)
	s.publish(ctx, events.UserRegistered, map[string]interface{}{
		"user_id":  user.ID,
		"username": user.Username,
		"role":     user.Role,
	})

	token, err := s.tokens.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &AuthResponse{Token: token, User: user}, nil
}

func (s *authService) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.repo.User().GetByUsername(ctx, req.Username)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	s.logger.Info("User logged in", "user_id", user.ID, "username", user.Username)

	return &AuthResponse{Token: token, User: user}, nil
}

func (s *authService) ChangePassword(ctx context.Context, actor *models.User, req *PasswordChangeRequest) error {
	if err := s.validator.Validate(req); err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(actor.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	actor.PasswordHash = string(hash)
	if err := s.repo.User().Update(ctx, actor); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	s.logger.Info("Password changed", "user_id", actor.ID)

	return nil
}

// publish sends a best-effort domain event; failures are logged only.
func (s *authService) publish(ctx context.Context, eventType string, payload interface{}) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, eventType, payload); err != nil {
		s.logger.Warn("Failed to publish event", "event_type", eventType, "error", err)
	}
}
