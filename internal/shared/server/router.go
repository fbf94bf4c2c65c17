package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/account"
	"resume-builder/internal/analyses"
	googleauth "resume-builder/internal/auth"
	"resume-builder/internal/generation"
	"resume-builder/internal/payments"
	"resume-builder/internal/resumes"
	"resume-builder/internal/services/health"
	"resume-builder/internal/shared/metrics"
	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/server/respond"
	"resume-builder/internal/usage"
	"resume-builder/internal/users"
)

const aiRateGroup = "AI"

// RouterDeps carries the handlers built by bootstrap. Google is optional.
type RouterDeps struct {
	Env             string
	CORSAllowOrigin []string
	AIRatePerMinute int
	Verifier        middleware.TokenVerifier

	Health     *health.Service
	Users      *users.Handler
	Google     *googleauth.GoogleService
	Usage      *usage.Handler
	Resumes    *resumes.Handler
	Analyses   *analyses.Handler
	Generation *generation.Handler
	Payments   *payments.Handler
	Account    *account.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.CORSAllowOrigin),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api")
	api.GET("/health", func(c *gin.Context) {
		report := deps.Health.Status(c.Request.Context())
		status := http.StatusOK
		if !report.OK {
			status = http.StatusServiceUnavailable
		}
		respond.JSON(c, status, report)
	})

	authed := api.Group("", middleware.Auth(deps.Verifier))
	ai := authed.Group("", middleware.RateLimit(middleware.RateLimitConfig{
		GroupFor: func(*gin.Context) string { return aiRateGroup },
		Rules:    map[string]middleware.RateLimitRule{aiRateGroup: middleware.PerMinute(deps.AIRatePerMinute)},
	}))

	deps.Users.RegisterRoutes(api, authed)
	if deps.Google != nil {
		deps.Google.RegisterRoutes(api)
	}
	deps.Usage.RegisterRoutes(authed)
	deps.Generation.RegisterRoutes(authed)
	deps.Resumes.RegisterRoutes(authed)
	deps.Analyses.RegisterRoutes(authed)
	deps.Payments.RegisterRoutes(api, authed)
	deps.Account.RegisterRoutes(authed)

	deps.Analyses.RegisterAIRoutes(ai)
	deps.Generation.RegisterAIRoutes(ai)

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
