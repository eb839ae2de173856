package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgauth "github.com/merchkit/storefront-backend/pkg/auth"
	"github.com/merchkit/storefront-backend/pkg/auth/session"
	"github.com/merchkit/storefront-backend/pkg/config"
	"github.com/merchkit/storefront-backend/pkg/db/models"
	"github.com/merchkit/storefront-backend/pkg/enums"
	pkgerrors "github.com/merchkit/storefront-backend/pkg/errors"
	"github.com/merchkit/storefront-backend/pkg/security"
)

type fakeUserRepo struct {
	users     map[string]*models.User
	lastLogin map[uuid.UUID]time.Time
}

func newFakeUserRepo(seed ...*models.User) *fakeUserRepo {
	repo := &fakeUserRepo{
		users:     map[string]*models.User{},
		lastLogin: map[uuid.UUID]time.Time{},
	}
	for _, u := range seed {
		repo.users[u.Email] = u
	}
	return repo
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	if user, ok := f.users[email]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) UpdateLastLogin(_ context.Context, id uuid.UUID, at time.Time) error {
	f.lastLogin[id] = at
	return nil
}

type fakeSessionManager struct {
	sessions map[string]string
	revoked  []string
}

func newFakeSessionManager() *fakeSessionManager {
	return &fakeSessionManager{sessions: map[string]string{}}
}

func (f *fakeSessionManager) Generate(_ context.Context, accessID string) (string, error) {
	token := "refresh-" + accessID
	f.sessions[accessID] = token
	return token, nil
}

func (f *fakeSessionManager) Rotate(_ context.Context, oldAccessID, provided string) (string, string, error) {
	stored, ok := f.sessions[oldAccessID]
	if !ok || stored != provided {
		return "", "", session.ErrInvalidRefreshToken
	}
	delete(f.sessions, oldAccessID)
	newID := uuid.NewString()
	token := "refresh-" + newID
	f.sessions[newID] = token
	return newID, token, nil
}

func (f *fakeSessionManager) Revoke(_ context.Context, accessID string) error {
	delete(f.sessions, accessID)
	f.revoked = append(f.revoked, accessID)
	return nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "secret",
		Issuer:            "storefront",
		ExpirationMinutes: 30,
	}
}

func mustHashPassword(t *testing.T, password string) string {
	t.Helper()
	hashed, err := security.HashPassword(password, config.PasswordConfig{})
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return hashed
}

func seedUser(t *testing.T, password string) *models.User {
	t.Helper()
	return &models.User{
		ID:           uuid.New(),
		Email:        "shopper@example.com",
		PasswordHash: mustHashPassword(t, password),
		FirstName:    "Sam",
		LastName:     "Shopper",
		Role:         enums.UserRoleCustomer,
		IsActive:     true,
	}
}

func buildTestService(t *testing.T, user *models.User) (Service, *fakeUserRepo, *fakeSessionManager) {
	t.Helper()
	repo := newFakeUserRepo(user)
	sessions := newFakeSessionManager()
	svc, err := NewService(ServiceParams{
		UserRepo:       repo,
		SessionManager: sessions,
		JWTConfig:      testJWTConfig(),
	})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc, repo, sessions
}

func TestLoginSuccess(t *testing.T) {
	password := "shopper-secret"
	user := seedUser(t, password)
	svc, repo, _ := buildTestService(t, user)

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    "Shopper@Example.com ",
		Password: password,
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.RefreshToken == "" {
		t.Fatal("expected refresh token")
	}
	if resp.User == nil || resp.User.ID != user.ID {
		t.Fatalf("unexpected user payload: %+v", resp.User)
	}
	if _, ok := repo.lastLogin[user.ID]; !ok {
		t.Fatal("expected last login to be recorded")
	}

	claims, err := pkgauth.ParseAccessToken(testJWTConfig(), resp.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.UserID != user.ID {
		t.Fatalf("expected user id claim %s, got %s", user.ID, claims.UserID)
	}
	if claims.Role != enums.UserRoleCustomer {
		t.Fatalf("expected customer role claim, got %s", claims.Role)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	user := seedUser(t, "correct-password")
	svc, _, _ := buildTestService(t, user)

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    user.Email,
		Password: "wrong-password",
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLoginUnknownUser(t *testing.T) {
	svc, _, _ := buildTestService(t, seedUser(t, "pw-123456"))

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "nobody@example.com",
		Password: "pw-123456",
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLoginInactiveUser(t *testing.T) {
	password := "pw-123456"
	user := seedUser(t, password)
	user.IsActive = false
	svc, _, _ := buildTestService(t, user)

	_, err := svc.Login(context.Background(), LoginRequest{Email: user.Email, Password: password})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestRefreshRotatesSession(t *testing.T) {
	password := "pw-123456"
	user := seedUser(t, password)
	svc, _, _ := buildTestService(t, user)

	login, err := svc.Login(context.Background(), LoginRequest{Email: user.Email, Password: password})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	refreshed, err := svc.Refresh(context.Background(), RefreshRequest{
		AccessToken:  login.AccessToken,
		RefreshToken: login.RefreshToken,
	})
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if refreshed.RefreshToken == login.RefreshToken {
		t.Fatal("expected rotated refresh token")
	}

	claims, err := pkgauth.ParseAccessToken(testJWTConfig(), refreshed.AccessToken)
	if err != nil {
		t.Fatalf("parse refreshed token: %v", err)
	}
	if claims.UserID != user.ID {
		t.Fatalf("expected user id to survive rotation, got %s", claims.UserID)
	}

	// The consumed refresh token must not work twice.
	_, err = svc.Refresh(context.Background(), RefreshRequest{
		AccessToken:  login.AccessToken,
		RefreshToken: login.RefreshToken,
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized on replay, got %v", err)
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	password := "pw-123456"
	user := seedUser(t, password)
	svc, _, sessions := buildTestService(t, user)

	login, err := svc.Login(context.Background(), LoginRequest{Email: user.Email, Password: password})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	claims, err := pkgauth.ParseAccessToken(testJWTConfig(), login.AccessToken)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}

	if err := svc.Logout(context.Background(), claims.ID); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if len(sessions.revoked) != 1 || sessions.revoked[0] != claims.ID {
		t.Fatalf("expected session %s revoked, got %v", claims.ID, sessions.revoked)
	}
}
