package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cmenu/internal/service"
	"cmenu/pkg/cmenu"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("middleware-test-secret")

func setupAuth(t *testing.T) (*gin.Engine, *cmenu.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	engine, err := cmenu.Initialize(t.Context(), sqlite.Open(":memory:"),
		cmenu.WithMaxOpenConns(1),
		cmenu.WithTokenSecret(secret),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = engine.Close() })

	auth := NewAuthenticator(secret, engine.UserAccounts)
	router := gin.New()
	router.GET("/me", auth.RequirePermission(), func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, user.Username)
	})
	router.GET("/edit", auth.RequirePermission("edit_menu"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router, engine
}

func token(t *testing.T, key []byte, subject string, expires time.Time) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(expires),
	}).SignedString(key)
	require.NoError(t, err)
	return signed
}

func TestRequirePermission(t *testing.T) {
	router, engine := setupAuth(t)
	ctx := t.Context()

	_, err := engine.UserAccounts.CreateUser(ctx, service.NewUser{Username: "ann", Email: "ann@example.com", Password: "pw", Permissions: "EDIT_MENU"})
	require.NoError(t, err)
	bob, err := engine.UserAccounts.CreateUser(ctx, service.NewUser{Username: "bob", Email: "bob@example.com", Password: "pw"})
	require.NoError(t, err)

	annToken, err := engine.UserAccounts.Login(ctx, service.LoginUserRequest{Username: "ann", Password: "pw"})
	require.NoError(t, err)
	bobToken, err := engine.UserAccounts.Login(ctx, service.LoginUserRequest{Username: "bob", Password: "pw"})
	require.NoError(t, err)

	later := time.Now().Add(time.Hour)

	tests := []struct {
		name       string
		path       string
		setupAuth  func(*http.Request)
		wantStatus int
	}{
		{
			name:       "missing token",
			path:       "/me",
			setupAuth:  func(*http.Request) {},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "malformed header",
			path:       "/me",
			setupAuth:  func(r *http.Request) { r.Header.Set("Authorization", "Token "+annToken.Token) },
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "wrong key",
			path:       "/me",
			setupAuth:  func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token(t, []byte("other"), "1", later)) },
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "expired",
			path:       "/me",
			setupAuth:  func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token(t, secret, "1", time.Now().Add(-time.Hour))) },
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "unknown user",
			path:       "/me",
			setupAuth:  func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token(t, secret, "999", later)) },
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "non numeric subject",
			path:       "/me",
			setupAuth:  func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token(t, secret, "ann", later)) },
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "signed in",
			path:       "/me",
			setupAuth:  func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+bobToken.Token) },
			wantStatus: http.StatusOK,
		},
		{
			name:       "cookie",
			path:       "/me",
			setupAuth:  func(r *http.Request) { r.AddCookie(&http.Cookie{Name: "access_token", Value: annToken.Token}) },
			wantStatus: http.StatusOK,
		},
		{
			name:       "missing permission",
			path:       "/edit",
			setupAuth:  func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+bobToken.Token) },
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "permission case-insensitive",
			path:       "/edit",
			setupAuth:  func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+annToken.Token) },
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			tt.setupAuth(req)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}

	// deactivated accounts lose access with a still valid token
	require.NoError(t, engine.DB.Model(bob).Update("Active", false).Error)
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+bobToken.Token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
