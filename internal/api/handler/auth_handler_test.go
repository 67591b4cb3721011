package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/usermgmt/accounts-api/internal/core/domain"
	"github.com/usermgmt/accounts-api/internal/core/ports"
)

type stubAuthService struct {
	loginFn func(ctx context.Context, kind domain.Kind, username, password string) (*ports.LoginResult, error)
}

func (s *stubAuthService) Login(ctx context.Context, kind domain.Kind, username, password string) (*ports.LoginResult, error) {
	return s.loginFn(ctx, kind, username, password)
}

func newJSONContext(method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_Login_Success(t *testing.T) {
	exp := time.Date(2024, 1, 1, 12, 30, 0, 0, time.UTC)
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, kind domain.Kind, username, password string) (*ports.LoginResult, error) {
			if kind != domain.KindUser || username != "alice" || password != "secret123" {
				t.Fatalf("unexpected args: %s %s %s", kind, username, password)
			}
			return &ports.LoginResult{Token: "tok", ExpiresAt: exp}, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newJSONContext(http.MethodPost, "/login", `{"username":"alice","password":"secret123"}`)
	if err := handler.UserLogin(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["access_token"] != "tok" || resp["token_type"] != "bearer" || resp["expires_at"] != "2024-01-01T12:30:00Z" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestAuthHandler_AdminLogin_UsesAdminKind(t *testing.T) {
	var gotKind domain.Kind
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, kind domain.Kind, username, password string) (*ports.LoginResult, error) {
			gotKind = kind
			return &ports.LoginResult{Token: "tok"}, nil
		},
	}

	c, _ := newJSONContext(http.MethodPost, "/admin/login", `{"username":"root","password":"pw"}`)
	if err := NewAuthHandler(stub).AdminLogin(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if gotKind != domain.KindAdmin {
		t.Fatalf("expected admin kind, got %q", gotKind)
	}
}

func TestAuthHandler_Login_PropagatesServiceErrors(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, kind domain.Kind, username, password string) (*ports.LoginResult, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}

	c, _ := newJSONContext(http.MethodPost, "/login", `{"username":"alice","password":"bad"}`)
	err := NewAuthHandler(stub).UserLogin(c)
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_Login_InvalidPayload(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, kind domain.Kind, username, password string) (*ports.LoginResult, error) {
			t.Fatalf("service should not be called")
			return nil, nil
		},
	}

	c, _ := newJSONContext(http.MethodPost, "/login", `{"username":`)
	err := NewAuthHandler(stub).UserLogin(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}
