package handler_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/adrianoneco/userdir/internal/domain"
	"github.com/adrianoneco/userdir/internal/transport/http/handler"
	"github.com/adrianoneco/userdir/internal/usecase"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeIdentity struct {
	register func(ctx context.Context, in usecase.RegisterInput) error
	login    func(ctx context.Context, email, password string) (*domain.PublicUser, string, error)
}

func (f *fakeIdentity) Register(ctx context.Context, in usecase.RegisterInput) error {
	return f.register(ctx, in)
}

func (f *fakeIdentity) Login(ctx context.Context, email, password string) (*domain.PublicUser, string, error) {
	return f.login(ctx, email, password)
}

func newAuthEngine(identity *fakeIdentity) *gin.Engine {
	h := handler.NewAuthHandler(identity, slog.New(slog.DiscardHandler))
	r := gin.New()
	r.POST("/api/auth/register", h.Register)
	r.POST("/api/auth/login", h.Login)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestRegister_Success_Returns201(t *testing.T) {
	var captured usecase.RegisterInput
	identity := &fakeIdentity{
		register: func(_ context.Context, in usecase.RegisterInput) error {
			captured = in
			return nil
		},
	}

	w := postJSON(t, newAuthEngine(identity), "/api/auth/register",
		`{"firstName":"Ana","lastName":"Silva","birthDay":"1990-01-01","email":"ana@x.com","password":"secret1"}`)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (body %s)", w.Code, w.Body.String())
	}
	if captured.Email != "ana@x.com" {
		t.Errorf("captured email = %q", captured.Email)
	}
}

func TestRegister_DuplicateEmail_Returns400(t *testing.T) {
	identity := &fakeIdentity{
		register: func(_ context.Context, _ usecase.RegisterInput) error {
			return domain.ErrEmailTaken
		},
	}

	w := postJSON(t, newAuthEngine(identity), "/api/auth/register",
		`{"firstName":"Ana","lastName":"Silva","birthDay":"1990-01-01","email":"ana@x.com","password":"secret1"}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if !strings.Contains(w.Body.String(), "E-mail já cadastrado") {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestRegister_ShortPassword_Returns400(t *testing.T) {
	identity := &fakeIdentity{
		register: func(_ context.Context, _ usecase.RegisterInput) error {
			t.Fatal("usecase reached with invalid payload")
			return nil
		},
	}

	w := postJSON(t, newAuthEngine(identity), "/api/auth/register",
		`{"firstName":"Ana","lastName":"Silva","birthDay":"1990-01-01","email":"ana@x.com","password":"short"}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestLogin_Success_ReturnsUserAndToken(t *testing.T) {
	identity := &fakeIdentity{
		login: func(_ context.Context, email, password string) (*domain.PublicUser, string, error) {
			return &domain.PublicUser{ID: "user-1", Email: email}, "signed-token", nil
		},
	}

	w := postJSON(t, newAuthEngine(identity), "/api/auth/login",
		`{"email":"ana@x.com","password":"secret1"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", w.Code, w.Body.String())
	}

	var resp struct {
		User  domain.PublicUser `json:"user"`
		Token string            `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.User.Email != "ana@x.com" || resp.Token != "signed-token" {
		t.Errorf("resp = %+v", resp)
	}

	// The projection must never carry the hash.
	if strings.Contains(w.Body.String(), "password") {
		t.Errorf("response leaks a password field: %s", w.Body.String())
	}
}

func TestLogin_InvalidCredentials_Returns401(t *testing.T) {
	identity := &fakeIdentity{
		login: func(_ context.Context, _, _ string) (*domain.PublicUser, string, error) {
			return nil, "", domain.ErrInvalidCredentials
		},
	}

	w := postJSON(t, newAuthEngine(identity), "/api/auth/login",
		`{"email":"ana@x.com","password":"wrong"}`)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Credenciais inválidas") {
		t.Errorf("body = %s", w.Body.String())
	}
}
