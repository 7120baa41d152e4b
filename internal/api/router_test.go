package api_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/AlyonaCIA/AI-diagnostic/internal/api"
	mw "github.com/AlyonaCIA/AI-diagnostic/internal/api/middleware"
	"github.com/AlyonaCIA/AI-diagnostic/internal/api/response"
)

func stubHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.JSON(w, map[string]string{"status": "ok"})
	}
}

func TestRouter_Routes(t *testing.T) {
	router := api.NewRouter(api.Dependencies{
		HealthHandler:         stubHandler(),
		DetailedHealthHandler: stubHandler(),
		DiagnoseHandler:       stubHandler(),
	})

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/api/v1/health", http.StatusOK},
		{http.MethodGet, "/api/v1/health/detailed", http.StatusOK},
		{http.MethodPost, "/api/v1/diagnose", http.StatusOK},
		{http.MethodGet, "/api/v1/diagnose", http.StatusMethodNotAllowed},
		{http.MethodGet, "/api/v1/nonexistent", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader("{}"))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestRouter_MissingHandlerReturns501(t *testing.T) {
	router := api.NewRouter(api.Dependencies{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotImplemented, rec.Code)
	assert.Contains(t, rec.Body.String(), "NOT_IMPLEMENTED")
}

func TestRouter_AuthProtectsDiagnoseOnly(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret-key"), bcrypt.MinCost)
	require.NoError(t, err)

	router := api.NewRouter(api.Dependencies{
		Auth:                  mw.NewAuth(string(hash)),
		HealthHandler:         stubHandler(),
		DetailedHealthHandler: stubHandler(),
		DiagnoseHandler:       stubHandler(),
	})

	// Health stays public.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Diagnose requires the key.
	req = httptest.NewRequest(http.MethodPost, "/api/v1/diagnose", strings.NewReader("{}"))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/diagnose", strings.NewReader("{}"))
	req.Header.Set("Authorization", "Bearer secret-key")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_SetsRequestIDHeader(t *testing.T) {
	router := api.NewRouter(api.Dependencies{
		HealthHandler: stubHandler(),
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}
