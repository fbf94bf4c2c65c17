package users

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-builder/internal/shared/auth"
	"resume-builder/internal/shared/server/middleware"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	signer, err := auth.NewSigner("test-secret", time.Hour)
	require.NoError(t, err)
	h := NewHandler(NewService(NewMemoryRepo(), signer, 10, nil))

	r := gin.New()
	api := r.Group("/api")
	h.RegisterRoutes(api, api.Group("", middleware.Auth(signer)))
	return r
}

func postJSON(r http.Handler, path string, body any) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestRegisterLoginMeFlow(t *testing.T) {
	r := newTestRouter(t)

	resp := postJSON(r, "/api/auth/register", gin.H{"email": "a@example.com", "password": "password1", "full_name": "Ann"})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	resp = postJSON(r, "/api/auth/login", gin.H{"email": "a@example.com", "password": "password1"})
	require.Equal(t, http.StatusOK, resp.Code)
	var session struct {
		Token string         `json:"token"`
		User  map[string]any `json:"user"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &session))
	assert.NotContains(t, session.User, "password_hash")

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+session.Token)
	me := httptest.NewRecorder()
	r.ServeHTTP(me, req)
	require.Equal(t, http.StatusOK, me.Code)
	assert.Contains(t, me.Body.String(), `"ats_checks_limit":10`)
}

func TestRegisterDuplicateReturns400(t *testing.T) {
	r := newTestRouter(t)
	body := gin.H{"email": "a@example.com", "password": "password1"}
	require.Equal(t, http.StatusCreated, postJSON(r, "/api/auth/register", body).Code)

	resp := postJSON(r, "/api/auth/register", body)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, resp.Body.String(), "email_taken")
}

func TestLoginWrongPasswordReturns401(t *testing.T) {
	r := newTestRouter(t)
	require.Equal(t, http.StatusCreated, postJSON(r, "/api/auth/register", gin.H{"email": "a@example.com", "password": "password1"}).Code)

	resp := postJSON(r, "/api/auth/login", gin.H{"email": "a@example.com", "password": "nope-nope"})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}
