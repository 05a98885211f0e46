package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	pgrepo "github.com/sumitgk2003/SSD-Skill-Swap-G20-sub000/internal/repo/postgres"
	redrepo "github.com/sumitgk2003/SSD-Skill-Swap-G20-sub000/internal/repo/redis"
	authsvc "github.com/sumitgk2003/SSD-Skill-Swap-G20-sub000/internal/services/auth"
)

type stubUserStore struct {
	nextID int64
	users  map[string]pgrepo.UserRecord
}

func newStubUserStore() *stubUserStore {
	return &stubUserStore{users: map[string]pgrepo.UserRecord{}}
}

func (s *stubUserStore) Create(_ context.Context, email, passwordHash, _ string) (int64, error) {
	if _, ok := s.users[email]; ok {
		return 0, pgrepo.ErrEmailTaken
	}
	s.nextID++
	s.users[email] = pgrepo.UserRecord{
		ID:           s.nextID,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         "user",
	}
	return s.nextID, nil
}

func (s *stubUserStore) GetByEmail(_ context.Context, email string) (pgrepo.UserRecord, error) {
	user, ok := s.users[email]
	if !ok {
		return pgrepo.UserRecord{}, pgrepo.ErrUserNotFound
	}
	return user, nil
}

func (s *stubUserStore) GetByID(_ context.Context, userID int64) (pgrepo.UserRecord, error) {
	for _, user := range s.users {
		if user.ID == userID {
			return user, nil
		}
	}
	return pgrepo.UserRecord{}, pgrepo.ErrUserNotFound
}

func TestRegisterThenLogin(t *testing.T) {
	svc, _, cleanup := newAuthServiceForTest(t)
	defer cleanup()

	ctx := context.Background()
	regRes, err := svc.Register(ctx, "Alice@Example.com", "correct-horse", "Alice")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if regRes.Me.Email != "alice@example.com" {
		t.Fatalf("email was not normalized: %q", regRes.Me.Email)
	}

	if _, err := svc.Register(ctx, "alice@example.com", "another-pass", "Alice Again"); !errors.Is(err, authsvc.ErrEmailTaken) {
		t.Fatalf("duplicate register should fail with ErrEmailTaken, got %v", err)
	}

	loginRes, err := svc.Login(ctx, "alice@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, err := svc.ValidateAccessToken(ctx, loginRes.AccessToken); err != nil {
		t.Fatalf("validate access token: %v", err)
	}

	if _, err := svc.Login(ctx, "alice@example.com", "wrong-pass"); !errors.Is(err, authsvc.ErrInvalidCredentials) {
		t.Fatalf("wrong password should fail with ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login(ctx, "nobody@example.com", "correct-horse"); !errors.Is(err, authsvc.ErrInvalidCredentials) {
		t.Fatalf("unknown email should fail with ErrInvalidCredentials, got %v", err)
	}
}

func TestRegisterRejectsWeakInput(t *testing.T) {
	svc, _, cleanup := newAuthServiceForTest(t)
	defer cleanup()

	ctx := context.Background()
	cases := []struct {
		name     string
		email    string
		password string
		display  string
	}{
		{"bad email", "not-an-email", "long-enough-pass", "Bob"},
		{"short password", "bob@example.com", "short", "Bob"},
		{"empty display name", "bob@example.com", "long-enough-pass", "  "},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Register(ctx, tc.email, tc.password, tc.display); !errors.Is(err, authsvc.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestLogoutInvalidatesSession(t *testing.T) {
	svc, _, cleanup := newAuthServiceForTest(t)
	defer cleanup()

	ctx := context.Background()
	regRes, err := svc.Register(ctx, "carol@example.com", "a-fine-password", "Carol")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	claims, err := svc.ValidateAccessToken(ctx, regRes.AccessToken)
	if err != nil {
		t.Fatalf("validate access token before logout: %v", err)
	}

	if err := svc.Logout(ctx, claims.SID); err != nil {
		t.Fatalf("logout: %v", err)
	}

	if _, err := svc.ValidateAccessToken(ctx, regRes.AccessToken); !errors.Is(err, authsvc.ErrUnauthorized) {
		t.Fatalf("access token should be unauthorized after logout, got err=%v", err)
	}
}

func TestLogoutAllInvalidatesEverySession(t *testing.T) {
	svc, _, cleanup := newAuthServiceForTest(t)
	defer cleanup()

	ctx := context.Background()
	regRes, err := svc.Register(ctx, "dave@example.com", "a-fine-password", "Dave")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	loginRes, err := svc.Login(ctx, "dave@example.com", "a-fine-password")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if err := svc.LogoutAll(ctx, regRes.Me.ID); err != nil {
		t.Fatalf("logout all: %v", err)
	}

	for _, token := range []string{regRes.AccessToken, loginRes.AccessToken} {
		if _, err := svc.ValidateAccessToken(ctx, token); !errors.Is(err, authsvc.ErrUnauthorized) {
			t.Fatalf("token should be unauthorized after logout all, got err=%v", err)
		}
	}
}

func newAuthServiceForTest(t *testing.T) (*authsvc.Service, *stubUserStore, func()) {
	t.Helper()

	mini, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}

	client := goredis.NewClient(&goredis.Options{Addr: mini.Addr()})
	users := newStubUserStore()
	svc := authsvc.NewService(authsvc.Dependencies{
		JWT:        authsvc.NewJWTManager("test-secret", 15*time.Minute),
		Users:      users,
		Sessions:   redrepo.NewSessionRepo(client),
		SessionTTL: 7 * 24 * time.Hour,
	})

	cleanup := func() {
		_ = client.Close()
		mini.Close()
	}

	return svc, users, cleanup
}
