package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"resume-builder/internal/account"
	"resume-builder/internal/ai"
	"resume-builder/internal/ai/gemini"
	"resume-builder/internal/ai/openai"
	"resume-builder/internal/analyses"
	googleauth "resume-builder/internal/auth"
	"resume-builder/internal/generation"
	"resume-builder/internal/payments"
	"resume-builder/internal/resumes"
	"resume-builder/internal/services/health"
	"resume-builder/internal/shared/auth"
	"resume-builder/internal/shared/config"
	"resume-builder/internal/shared/server"
	"resume-builder/internal/shared/storage/db"
	"resume-builder/internal/shared/storage/object"
	localstore "resume-builder/internal/shared/storage/object/local"
	s3store "resume-builder/internal/shared/storage/object/s3"
	"resume-builder/internal/usage"
	"resume-builder/internal/users"
)

// App holds the process-wide dependencies. It is built once at startup and
// passed down; nothing here lives in package globals.
type App struct {
	Config    config.Config
	Logger    *zap.Logger
	Router    *gin.Engine
	DB        *sql.DB
	Store     object.Store
	Providers []ai.Provider

	Users      *users.Service
	Usage      *usage.Gate
	Resumes    *resumes.Service
	Analyses   *analyses.Service
	Generation *generation.Service
	Payments   *payments.Service
	Account    *account.Service
}

// Options lets callers replace collaborators that talk to the outside world.
type Options struct {
	Providers []ai.Provider
	Checkout  payments.Checkout
}

// Build prepares dependencies and the router.
func Build(ctx context.Context, cfg config.Config, logger *zap.Logger, opts Options) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	sqlDB, err := buildDB(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	providers := opts.Providers
	if providers == nil {
		providers, err = buildProviders(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
	}
	checkout := opts.Checkout
	if checkout == nil && cfg.StripeAPIKey != "" {
		checkout = payments.NewStripeCheckout(cfg.StripeAPIKey, cfg.StripeWebhookSecret)
	}
	if checkout == nil {
		logger.Warn("bootstrap: STRIPE_API_KEY empty; payments disabled")
	}

	app := &App{
		Config:    cfg,
		Logger:    logger,
		DB:        sqlDB,
		Store:     store,
		Providers: providers,
	}
	signer, err := auth.NewSigner(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		return nil, err
	}
	app.buildServices(signer, checkout)

	var google *googleauth.GoogleService
	if cfg.GoogleClientID != "" {
		google = googleauth.NewGoogleService(
			cfg.GoogleClientID,
			cfg.GoogleClientSecret,
			cfg.GoogleRedirectURL,
			cfg.UIRedirectURL,
			app.Users,
			logger,
		)
	}

	var pinger health.Pinger
	if sqlDB != nil {
		pinger = sqlDB
	}
	app.Router = server.NewRouter(server.RouterDeps{
		Env:             cfg.Env,
		CORSAllowOrigin: cfg.CORSAllowOrigin,
		AIRatePerMinute: cfg.AIRatePerMinute,
		Verifier:        signer,
		Health:          health.NewService(pinger),
		Users:           users.NewHandler(app.Users),
		Google:          google,
		Usage:           usage.NewHandler(app.Usage),
		Resumes:         resumes.NewHandler(app.Resumes),
		Analyses:        analyses.NewHandler(app.Analyses),
		Generation:      generation.NewHandler(app.Generation),
		Payments:        payments.NewHandler(app.Payments, app.Users),
		Account:         account.NewHandler(app.Account),
	})
	return app, nil
}

// Close releases the database pool.
func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}

func (a *App) buildServices(signer *auth.Signer, checkout payments.Checkout) {
	cfg := a.Config
	var (
		userRepo     users.Repo
		resumeRepo   resumes.Repo
		analysisRepo analyses.Repo
		paymentRepo  payments.Repo
	)
	if a.DB != nil {
		userRepo = &users.PGRepo{DB: a.DB}
		resumeRepo = &resumes.PGRepo{DB: a.DB}
		analysisRepo = &analyses.PGRepo{DB: a.DB}
		paymentRepo = &payments.PGRepo{DB: a.DB}
	} else {
		memUsers := users.NewMemoryRepo()
		userRepo = memUsers
		resumeRepo = resumes.NewMemoryRepo()
		analysisRepo = analyses.NewMemoryRepo()
		paymentRepo = payments.NewMemoryRepo(memUsers)
	}

	a.Users = users.NewService(userRepo, signer, cfg.FreeAnalysisLimit, a.Logger)
	a.Usage = usage.NewGate(userRepo, a.Logger)
	a.Resumes = resumes.NewService(resumeRepo, userRepo, a.Store, cfg.FreeResumeCap, a.Logger)

	reconciler := ai.NewReconciler(cfg.ProviderOrder...)
	reconciler.FallbackScore = cfg.FallbackScore
	a.Analyses = analyses.NewService(analysisRepo, a.Resumes, a.Usage, a.Providers, reconciler, a.Logger)

	coordinator := generation.NewCoordinator(a.Providers, cfg.BatchConcurrency, a.Logger)
	a.Generation = generation.NewService(coordinator, a.Resumes, cfg.BatchMaxProfiles, a.Logger)

	a.Payments = payments.NewService(paymentRepo, checkout, cfg.PremiumPriceCents, cfg.PremiumCurrency, cfg.PublicURL, a.Logger)
	a.Account = account.NewService(a.Resumes, a.Analyses, a.Usage)
}

func buildDB(ctx context.Context, cfg config.Config, logger *zap.Logger) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			logger.Warn("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
	if err != nil {
		return nil, err
	}
	if cfg.AutoMigrate {
		if err := db.RunMigrations(ctx, sqlDB); err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.Store, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

// buildProviders constructs the AI adapters in the configured order. A
// provider without credentials is skipped.
func buildProviders(ctx context.Context, cfg config.Config, logger *zap.Logger) ([]ai.Provider, error) {
	var out []ai.Provider
	for _, name := range cfg.ProviderOrder {
		switch name {
		case ai.ProviderOpenAI:
			if cfg.OpenAIAPIKey == "" {
				logger.Warn("bootstrap: OPENAI_API_KEY empty; provider skipped", zap.String("ai_provider", name))
				continue
			}
			client, err := openai.NewClient(openai.Config{
				APIKey:      cfg.OpenAIAPIKey,
				Model:       cfg.OpenAIModel,
				BaseURL:     cfg.OpenAIBaseURL,
				Temperature: cfg.AITemperature,
				MaxTokens:   cfg.AIMaxTokens,
				Timeout:     cfg.AITimeout,
			})
			if err != nil {
				return nil, err
			}
			out = append(out, client)
		case ai.ProviderGemini:
			if cfg.GeminiAPIKey == "" {
				logger.Warn("bootstrap: GEMINI_API_KEY empty; provider skipped", zap.String("ai_provider", name))
				continue
			}
			client, err := gemini.NewClient(ctx, gemini.Config{
				APIKey:      cfg.GeminiAPIKey,
				Model:       cfg.GeminiModel,
				Temperature: cfg.AITemperature,
				MaxTokens:   cfg.AIMaxTokens,
				Timeout:     cfg.AITimeout,
			})
			if err != nil {
				return nil, err
			}
			out = append(out, client)
		default:
			return nil, fmt.Errorf("unknown ATS provider %q", name)
		}
	}
	if len(out) == 0 {
		logger.Warn("bootstrap: no AI providers configured; analyses will use the fallback score")
	}
	return out, nil
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
