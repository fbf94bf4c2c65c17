package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"resume-builder/internal/shared/telemetry"
)

func TestLoggingIncludesRequiredFields(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, observed := observer.New(zapcore.InfoLevel)
	telemetry.SetLogger(zap.New(core))
	t.Cleanup(func() { telemetry.SetLogger(nil) })

	router := gin.New()
	router.Use(RequestID(), func(c *gin.Context) {
		c.Set(userIDKey, "user-1")
		c.Next()
	}, Logging())
	router.GET("/api/ats/analyses/:id", func(c *gin.Context) {
		c.Set("analysisId", c.Param("id"))
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	req := httptest.NewRequest(http.MethodGet, "/api/ats/analyses/a-1", nil)
	req.Header.Set("X-Request-Id", "req-1")
	router.ServeHTTP(httptest.NewRecorder(), req)

	entries := observed.FilterMessage("request.complete").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 request log, got %d", len(entries))
	}
	ctx := entries[0].ContextMap()
	for _, key := range []string{"request_id", "user_id", "duration_ms", "status", "route"} {
		if _, ok := ctx[key]; !ok {
			t.Fatalf("missing log field: %s", key)
		}
	}
	if ctx["request_id"] != "req-1" {
		t.Fatalf("unexpected request_id: %v", ctx["request_id"])
	}
	if ctx["user_id"] != "user-1" {
		t.Fatalf("unexpected user_id: %v", ctx["user_id"])
	}
	if ctx["analysisId"] != "a-1" {
		t.Fatalf("unexpected analysisId: %v", ctx["analysisId"])
	}
}
