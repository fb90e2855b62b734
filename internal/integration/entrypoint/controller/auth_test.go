package controller

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/expense-tracker/backend/internal/application/usecase/auth"
	domainerror "github.com/expense-tracker/backend/internal/domain/error"
	"github.com/expense-tracker/backend/internal/integration/adapters"
	"github.com/expense-tracker/backend/internal/integration/entrypoint/dto"
	"github.com/expense-tracker/backend/internal/integration/persistence"
)

func newAuthRouter(t *testing.T) *gin.Engine {
	t.Helper()
	db := newTestDB(t)
	userRepo := persistence.NewUserRepository(db)
	tokenService := adapters.NewTokenService("test-secret", 0, 0, persistence.NewTokenRepository(db))
	passwordService := adapters.NewPasswordService()

	c := NewAuthController(
		auth.NewRegisterUserUseCase(userRepo, passwordService, tokenService, nil),
		auth.NewLoginUserUseCase(userRepo, passwordService, tokenService),
		auth.NewRefreshTokenUseCase(userRepo, tokenService),
		auth.NewLogoutUserUseCase(tokenService),
	)

	r := gin.New()
	g := r.Group("/api/v1/auth")
	g.POST("/register", c.Register)
	g.POST("/token", c.Login)
	g.POST("/refresh", c.RefreshToken)
	g.POST("/logout", c.Logout)
	return r
}

func registerBody(username, email string) map[string]string {
	return map[string]string{
		"username":   username,
		"email":      email,
		"password":   "s3cure-pass",
		"password2":  "s3cure-pass",
		"first_name": "Alice",
		"last_name":  "Smith",
	}
}

func TestAuthController_RegisterLoginRefreshLogout(t *testing.T) {
	router := newAuthRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", registerBody("alice", "alice@example.com"))
	if w.Code != http.StatusCreated {
		t.Fatalf("register status = %d, body = %s", w.Code, w.Body.String())
	}
	var registered dto.AuthResponse
	decodeBody(t, w, &registered)
	if registered.User.Username != "alice" || registered.AccessToken == "" {
		t.Fatalf("unexpected register response: %+v", registered)
	}

	w = doJSON(t, router, http.MethodPost, "/api/v1/auth/token", map[string]string{
		"username": "alice",
		"password": "s3cure-pass",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login status = %d, body = %s", w.Code, w.Body.String())
	}
	var login dto.AuthResponse
	decodeBody(t, w, &login)
	if login.TokenType != dto.TokenTypeBearer {
		t.Errorf("token_type = %q, want %q", login.TokenType, dto.TokenTypeBearer)
	}

	w = doJSON(t, router, http.MethodPost, "/api/v1/auth/refresh", map[string]string{"refresh_token": login.RefreshToken})
	if w.Code != http.StatusOK {
		t.Fatalf("refresh status = %d, body = %s", w.Code, w.Body.String())
	}
	var refreshed dto.TokenResponse
	decodeBody(t, w, &refreshed)

	// The rotated-out token is no longer accepted.
	w = doJSON(t, router, http.MethodPost, "/api/v1/auth/refresh", map[string]string{"refresh_token": login.RefreshToken})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("reused refresh status = %d, want 401", w.Code)
	}

	w = doJSON(t, router, http.MethodPost, "/api/v1/auth/logout", map[string]string{"refresh_token": refreshed.RefreshToken})
	if w.Code != http.StatusOK {
		t.Errorf("logout status = %d", w.Code)
	}
	w = doJSON(t, router, http.MethodPost, "/api/v1/auth/refresh", map[string]string{"refresh_token": refreshed.RefreshToken})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("refresh after logout status = %d, want 401", w.Code)
	}
}

func TestAuthController_RegisterErrors(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(body map[string]string)
		wantStatus int
		wantCode   domainerror.AuthErrorCode
	}{
		{
			name:       "password mismatch",
			mutate:     func(b map[string]string) { b["password2"] = "different-pass" },
			wantStatus: http.StatusBadRequest,
			wantCode:   domainerror.ErrCodePasswordMismatch,
		},
		{
			name:       "weak password",
			mutate:     func(b map[string]string) { b["password"], b["password2"] = "short", "short" },
			wantStatus: http.StatusBadRequest,
			wantCode:   domainerror.ErrCodeWeakPassword,
		},
		{
			name:       "invalid email",
			mutate:     func(b map[string]string) { b["email"] = "not-an-email" },
			wantStatus: http.StatusBadRequest,
			wantCode:   domainerror.ErrCodeInvalidEmail,
		},
		{
			name:       "missing last name",
			mutate:     func(b map[string]string) { delete(b, "last_name") },
			wantStatus: http.StatusBadRequest,
			wantCode:   domainerror.ErrCodeMissingFields,
		},
		{
			name:       "taken username",
			mutate:     func(b map[string]string) { b["email"] = "other@example.com" },
			wantStatus: http.StatusConflict,
			wantCode:   domainerror.ErrCodeUsernameExists,
		},
		{
			name:       "taken email",
			mutate:     func(b map[string]string) { b["username"] = "alice2"; b["email"] = "ALICE@example.com" },
			wantStatus: http.StatusConflict,
			wantCode:   domainerror.ErrCodeEmailExists,
		},
	}

	router := newAuthRouter(t)
	w := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", registerBody("alice", "alice@example.com"))
	if w.Code != http.StatusCreated {
		t.Fatalf("seed register status = %d, body = %s", w.Code, w.Body.String())
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := registerBody("alice", "alice@example.com")
			tt.mutate(body)

			w := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", body)
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d; body = %s", w.Code, tt.wantStatus, w.Body.String())
			}
			var resp dto.ErrorResponse
			decodeBody(t, w, &resp)
			if resp.Code != string(tt.wantCode) {
				t.Errorf("code = %q, want %q", resp.Code, tt.wantCode)
			}
		})
	}
}

func TestAuthController_LoginInvalidCredentials(t *testing.T) {
	router := newAuthRouter(t)
	doJSON(t, router, http.MethodPost, "/api/v1/auth/register", registerBody("alice", "alice@example.com"))

	for _, creds := range []map[string]string{
		{"username": "alice", "password": "wrong-password"},
		{"username": "nobody", "password": "s3cure-pass"},
	} {
		w := doJSON(t, router, http.MethodPost, "/api/v1/auth/token", creds)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("login %s status = %d, want 401", creds["username"], w.Code)
		}
	}
}
