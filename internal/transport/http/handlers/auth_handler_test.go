package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	pgrepo "github.com/sumitgk2003/SSD-Skill-Swap-G20-sub000/internal/repo/postgres"
	redrepo "github.com/sumitgk2003/SSD-Skill-Swap-G20-sub000/internal/repo/redis"
	authsvc "github.com/sumitgk2003/SSD-Skill-Swap-G20-sub000/internal/services/auth"
)

type userStoreMem struct {
	nextID int64
	users  map[string]pgrepo.UserRecord
}

func newUserStoreMem() *userStoreMem {
	return &userStoreMem{nextID: 1, users: make(map[string]pgrepo.UserRecord)}
}

func (s *userStoreMem) Create(_ context.Context, email, passwordHash, _ string) (int64, error) {
	if _, ok := s.users[email]; ok {
		return 0, pgrepo.ErrEmailTaken
	}
	id := s.nextID
	s.nextID++
	s.users[email] = pgrepo.UserRecord{
		ID:           id,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         "user",
		CreatedAt:    time.Now(),
	}
	return id, nil
}

func (s *userStoreMem) GetByEmail(_ context.Context, email string) (pgrepo.UserRecord, error) {
	user, ok := s.users[email]
	if !ok {
		return pgrepo.UserRecord{}, pgrepo.ErrUserNotFound
	}
	return user, nil
}

func (s *userStoreMem) GetByID(_ context.Context, userID int64) (pgrepo.UserRecord, error) {
	for _, user := range s.users {
		if user.ID == userID {
			return user, nil
		}
	}
	return pgrepo.UserRecord{}, pgrepo.ErrUserNotFound
}

func authHandlerForTest(t *testing.T) *AuthHandler {
	t.Helper()

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	service := authsvc.NewService(authsvc.Dependencies{
		JWT:        authsvc.NewJWTManager("test-secret", 48*time.Hour),
		Users:      newUserStoreMem(),
		Sessions:   redrepo.NewSessionRepo(client),
		SessionTTL: 48 * time.Hour,
	})
	return NewAuthHandler(service, "ss_session", false)
}

func postJSON(t *testing.T, target string, body any) *http.Request {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request body: %v", err)
	}
	return httptest.NewRequest(http.MethodPost, target, bytes.NewReader(raw))
}

func TestRegisterSetsSessionCookie(t *testing.T) {
	h := authHandlerForTest(t)

	rr := httptest.NewRecorder()
	h.Register(rr, postJSON(t, "/auth/register", map[string]any{
		"email":       "asha@example.com",
		"password":    "correct-horse",
		"displayName": "Asha",
	}))

	if rr.Code != http.StatusCreated {
		t.Fatalf("unexpected status: got %d want %d, body %s", rr.Code, http.StatusCreated, rr.Body.String())
	}

	var cookie *http.Cookie
	for _, c := range rr.Result().Cookies() {
		if c.Name == "ss_session" {
			cookie = c
		}
	}
	if cookie == nil {
		t.Fatalf("session cookie not set")
	}
	if !cookie.HttpOnly {
		t.Fatalf("session cookie must be http-only")
	}
	if cookie.Value == "" {
		t.Fatalf("session cookie is empty")
	}

	var payload struct {
		Success bool `json:"success"`
		Data    struct {
			Email string `json:"email"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !payload.Success || payload.Data.Email != "asha@example.com" {
		t.Fatalf("unexpected payload: %s", rr.Body.String())
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	h := authHandlerForTest(t)

	rr := httptest.NewRecorder()
	h.Register(rr, postJSON(t, "/auth/register", map[string]any{
		"email":       "asha@example.com",
		"password":    "correct-horse",
		"displayName": "Asha",
	}))
	if rr.Code != http.StatusCreated {
		t.Fatalf("register failed: %d %s", rr.Code, rr.Body.String())
	}

	rr = httptest.NewRecorder()
	h.Login(rr, postJSON(t, "/auth/login", map[string]any{
		"email":    "asha@example.com",
		"password": "wrong-horse",
	}))

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusUnauthorized)
	}

	var payload struct {
		Success bool   `json:"success"`
		Code    string `json:"code"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Success {
		t.Fatalf("error envelope must not report success")
	}
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	h := authHandlerForTest(t)

	body := map[string]any{
		"email":       "asha@example.com",
		"password":    "correct-horse",
		"displayName": "Asha",
	}

	rr := httptest.NewRecorder()
	h.Register(rr, postJSON(t, "/auth/register", body))
	if rr.Code != http.StatusCreated {
		t.Fatalf("register failed: %d %s", rr.Code, rr.Body.String())
	}

	rr = httptest.NewRecorder()
	h.Register(rr, postJSON(t, "/auth/register", body))
	if rr.Code != http.StatusConflict {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusConflict)
	}
}
