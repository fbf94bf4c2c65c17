package generation

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(f serviceFixture) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userId", "u1")
		c.Next()
	})
	api := r.Group("/api")
	h := NewHandler(f.svc)
	h.RegisterRoutes(api)
	h.RegisterAIRoutes(api)
	return r
}

func TestListProfilesEndpoint(t *testing.T) {
	r := newTestRouter(newServiceFixture(t, false))

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/resumes/job-profiles", nil))

	require.Equal(t, http.StatusOK, resp.Code)
	var profiles []JobProfile
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &profiles))
	assert.Len(t, profiles, 8)
}

func TestBatchGenerateEndpoint(t *testing.T) {
	f := newServiceFixture(t, false)
	f.primary.failFor = []string{"*"}
	f.secondary.failFor = []string{"Data Analyst"}
	body := `{
		"personal_info":{"name":"Jane","email":"j@example.com","phone":"1","location":"Berlin"},
		"summary_base":"Engineer",
		"experience":[{"position":"SWE","company":"Acme","duration":"2y","description":"APIs"}],
		"education":[{"degree":"BSc","institution":"MIT","year":"2019","details":""}],
		"skills_base":"Go",
		"job_profiles":["backend-developer","data-analyst"],
		"template":"modern"
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/resumes/batch-generate", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	newTestRouter(f).ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	var out struct {
		Resumes []struct {
			JobProfile string `json:"job_profile"`
			Provider   string `json:"provider"`
		} `json:"resumes"`
		Stats Stats `json:"generation_stats"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out))
	require.Len(t, out.Resumes, 1)
	assert.Equal(t, "backend-developer", out.Resumes[0].JobProfile)
	assert.Equal(t, "gemini", out.Resumes[0].Provider)
	assert.Equal(t, []string{"data-analyst"}, out.Stats.FailedProfiles)
}

func TestBatchGenerateEndpointRejectsOversizedBatch(t *testing.T) {
	f := newServiceFixture(t, false)
	body := `{"job_profiles":["software-engineer","data-scientist","product-manager","frontend-developer","backend-developer","devops-engineer"]}`
	req := httptest.NewRequest(http.MethodPost, "/api/resumes/batch-generate", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	newTestRouter(f).ServeHTTP(resp, req)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Zero(t, f.primary.calls.Load())
}

func TestBatchGenerateEndpointRejectsOverlongName(t *testing.T) {
	f := newServiceFixture(t, false)
	body := `{"personal_info":{"name":"` + strings.Repeat("N", 210) + `"},"job_profiles":["software-engineer","data-scientist"]}`
	req := httptest.NewRequest(http.MethodPost, "/api/resumes/batch-generate", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	newTestRouter(f).ServeHTTP(resp, req)

	assert.Equal(t, http.StatusBadRequest, resp.Code, resp.Body.String())
	assert.Zero(t, f.primary.calls.Load())
	assert.Zero(t, f.secondary.calls.Load())
}
