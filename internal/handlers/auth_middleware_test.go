package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/campuscms/course-service/internal/auth"
	"github.com/campuscms/course-service/internal/models"
	"github.com/campuscms/course-service/internal/repositories"
)

// stubUserRepo serves a fixed set of users by ID.
type stubUserRepo struct {
	users map[uint]*models.User
}

func (s *stubUserRepo) GetByID(_ context.Context, id uint) (*models.User, error) {
	if user, ok := s.users[id]; ok {
		return user, nil
	}
	return nil, context.Canceled // any error means "no such user" to the middleware
}

func (s *stubUserRepo) Create(context.Context, *models.User) error { return nil }
func (s *stubUserRepo) GetByUsername(context.Context, string) (*models.User, error) {
	return nil, nil
}
func (s *stubUserRepo) GetByEmail(context.Context, string) (*models.User, error) { return nil, nil }
func (s *stubUserRepo) Update(context.Context, *models.User) error               { return nil }
func (s *stubUserRepo) Delete(context.Context, uint) error                       { return nil }
func (s *stubUserRepo) List(context.Context, repositories.UserFilters) ([]*models.User, int64, error) {
	return nil, 0, nil
}
func (s *stubUserRepo) ExistsByUsername(context.Context, string) (bool, error) { return false, nil }
func (s *stubUserRepo) ExistsByEmail(context.Context, string) (bool, error)    { return false, nil }

func newAuthTestRouter(t *testing.T, users map[uint]*models.User, roles ...models.UserRole) (*gin.Engine, *auth.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens := auth.NewService("test-secret", time.Hour)
	middleware := NewJWTAuthMiddleware(tokens, &stubUserRepo{users: users})

	router := gin.New()
	group := router.Group("", middleware.AuthMiddleware())
	if len(roles) > 0 {
		group.Use(middleware.RequireRoleMiddleware(roles...))
	}
	group.GET("/protected", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": currentUser(c).ID})
	})

	return router, tokens
}

func TestAuthMiddleware(t *testing.T) {
	user := &models.User{ID: 1, Username: "student1", Role: models.RoleStudent}
	router, tokens := newAuthTestRouter(t, map[uint]*models.User{1: user})

	token, err := tokens.GenerateToken(1, models.RoleStudent)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{name: "valid token", authHeader: "Bearer " + token, wantStatus: http.StatusOK},
		{name: "missing header", authHeader: "", wantStatus: http.StatusUnauthorized},
		{name: "bad format", authHeader: token, wantStatus: http.StatusUnauthorized},
		{name: "garbage token", authHeader: "Bearer garbage", wantStatus: http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}

func TestAuthMiddleware_DeletedUser(t *testing.T) {
	router, tokens := newAuthTestRouter(t, map[uint]*models.User{})

	// Token for a user that no longer exists
	token, err := tokens.GenerateToken(99, models.RoleStudent)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestRequireRoleMiddleware(t *testing.T) {
	users := map[uint]*models.User{
		1: {ID: 1, Role: models.RoleStudent},
		2: {ID: 2, Role: models.RoleInstructor},
		3: {ID: 3, Role: models.RoleAdmin},
	}
	router, tokens := newAuthTestRouter(t, users, models.RoleInstructor)

	tests := []struct {
		name       string
		userID     uint
		role       models.UserRole
		wantStatus int
	}{
		{name: "student blocked", userID: 1, role: models.RoleStudent, wantStatus: http.StatusForbidden},
		{name: "instructor allowed", userID: 2, role: models.RoleInstructor, wantStatus: http.StatusOK},
		{name: "admin passes every gate", userID: 3, role: models.RoleAdmin, wantStatus: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := tokens.GenerateToken(tt.userID, tt.role)
			if err != nil {
				t.Fatalf("GenerateToken() error = %v", err)
			}

			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}
