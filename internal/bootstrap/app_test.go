package bootstrap

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"resume-builder/internal/ai"
	"resume-builder/internal/shared/config"
)

type stubProvider struct {
	name  string
	reply string
}

func (p stubProvider) Name() string { return p.name }

func (p stubProvider) Complete(ctx context.Context, prompt ai.Prompt) (string, error) {
	return p.reply, nil
}

func testConfig(t *testing.T) config.Config {
	return config.Config{
		Env:               "dev",
		JWTSecret:         "test-secret",
		JWTTTL:            time.Hour,
		LocalStoreDir:     t.TempDir(),
		ProviderOrder:     []string{ai.ProviderOpenAI, ai.ProviderGemini},
		FallbackScore:     75,
		FreeAnalysisLimit: 10,
		FreeResumeCap:     5,
		BatchMaxProfiles:  5,
		BatchConcurrency:  2,
		AIRatePerMinute:   100,
	}
}

func do(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var raw []byte
	if body != nil {
		raw, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, req)
	return resp
}

func TestBuildInMemoryEndToEnd(t *testing.T) {
	app, err := Build(context.Background(), testConfig(t), nil, Options{
		Providers: []ai.Provider{
			stubProvider{name: ai.ProviderOpenAI, reply: "```json\n{\"score\":80,\"feedback\":\"Good\",\"strengths\":[\"Go\"],\"improvements\":[]}\n```"},
			stubProvider{name: ai.ProviderGemini, reply: `{"score":91,"feedback":"Great","strengths":[],"improvements":["Metrics"]}`},
		},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })
	r := app.Router

	health := do(t, r, http.MethodGet, "/api/health", "", nil)
	require.Equal(t, http.StatusOK, health.Code)
	assert.Contains(t, health.Body.String(), `"database":"memory"`)

	reg := do(t, r, http.MethodPost, "/api/auth/register", "", map[string]string{"email": "a@example.com", "password": "password1", "full_name": "Ann"})
	require.Equal(t, http.StatusCreated, reg.Code, reg.Body.String())
	var session struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(reg.Body.Bytes(), &session))

	assert.Equal(t, http.StatusUnauthorized, do(t, r, http.MethodGet, "/api/usage", "", nil).Code)

	created := do(t, r, http.MethodPost, "/api/resumes", session.Token, map[string]any{
		"title": "Backend",
		"sections": []map[string]any{
			{"type": "summary", "content": "Go engineer"},
		},
	})
	require.Equal(t, http.StatusCreated, created.Code, created.Body.String())
	var resume struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(created.Body.Bytes(), &resume))

	analysis := do(t, r, http.MethodPost, "/api/ats/analyze", session.Token, map[string]string{"resume_id": resume.ID, "job_description": "Go developer"})
	require.Equal(t, http.StatusOK, analysis.Code, analysis.Body.String())
	assert.Contains(t, analysis.Body.String(), `"score":86`)

	summary := do(t, r, http.MethodGet, "/api/account/summary", session.Token, nil)
	require.Equal(t, http.StatusOK, summary.Code)
	assert.JSONEq(t, `{"resumeCount":1,"analysisCount":1,"averageScore":86,
		"usage":{"used":1,"limit":10,"remaining":9,"isPremium":false}}`, summary.Body.String())

	checkout := do(t, r, http.MethodPost, "/api/payments/checkout", session.Token, nil)
	assert.Equal(t, http.StatusServiceUnavailable, checkout.Code)

	metrics := do(t, r, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, metrics.Code)
	assert.Contains(t, metrics.Body.String(), "ats_analysis_completed_total")
}

func TestBuildRequiresDatabaseOutsideDev(t *testing.T) {
	cfg := testConfig(t)
	cfg.Env = "production"

	_, err := Build(context.Background(), cfg, nil, Options{Providers: []ai.Provider{}})

	assert.ErrorContains(t, err, "DATABASE_URL")
}

func TestBuildProvidersSkipsMissingKeys(t *testing.T) {
	providers, err := buildProviders(context.Background(), testConfig(t), nopLogger())
	require.NoError(t, err)
	assert.Empty(t, providers)

	cfg := testConfig(t)
	cfg.ProviderOrder = []string{"claude"}
	_, err = buildProviders(context.Background(), cfg, nopLogger())
	assert.ErrorContains(t, err, "unknown ATS provider")
}

func nopLogger() *zap.Logger { return zap.NewNop() }
