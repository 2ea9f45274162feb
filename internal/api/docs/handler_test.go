package docs

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterRoutes(t *testing.T) {
	specPath := filepath.Join(t.TempDir(), "swagger.yaml")
	require.NoError(t, os.WriteFile(specPath, []byte("openapi: 3.0.3\n"), 0o600))

	r := chi.NewRouter()
	RegisterRoutes(r, specPath)

	t.Run("redirects to ui", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/docs", nil))
		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/docs/index.html", rec.Header().Get("Location"))
	})

	t.Run("serves spec", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/docs/swagger.yaml", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/yaml", rec.Header().Get("Content-Type"))
		assert.Equal(t, "openapi: 3.0.3\n", rec.Body.String())
	})
}

func TestSpecHandler_Missing(t *testing.T) {
	rec := httptest.NewRecorder()
	SpecHandler(filepath.Join(t.TempDir(), "absent.yaml")).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/docs/swagger.yaml", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Not Found","message":"api specification not found"}`, rec.Body.String())
}
