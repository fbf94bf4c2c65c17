package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Port            string
	Env             string
	CORSAllowOrigin []string
	DatabaseURL     string
	AutoMigrate     bool

	JWTSecret string
	JWTTTL    time.Duration

	ObjectStoreType string
	LocalStoreDir   string
	AWSRegion       string
	S3Bucket        string
	S3Prefix        string

	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string
	GeminiAPIKey  string
	GeminiModel   string
	AITimeout     time.Duration
	AITemperature float64
	AIMaxTokens   int
	ProviderOrder []string

	FallbackScore     int
	FreeAnalysisLimit int
	FreeResumeCap     int
	BatchMaxProfiles  int
	BatchConcurrency  int
	AIRatePerMinute   int

	StripeAPIKey        string
	StripeWebhookSecret string
	PremiumPriceCents   int64
	PremiumCurrency     string
	PublicURL           string

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
	UIRedirectURL      string
}

var defaults = map[string]any{
	"PORT":                     "8080",
	"ENV":                      "dev",
	"CORS_ALLOW_ORIGINS":       "http://localhost:3000",
	"AUTO_MIGRATE":             false,
	"JWT_SECRET":               "",
	"JWT_TTL_HOURS":            720,
	"OBJECT_STORE":             "local",
	"LOCAL_STORE_DIR":          "./data",
	"OPENAI_MODEL":             "gpt-4o-mini",
	"OPENAI_BASE_URL":          "https://api.openai.com/v1",
	"GEMINI_MODEL":             "gemini-2.0-flash",
	"AI_TIMEOUT_SECONDS":       45,
	"AI_TEMPERATURE":           0.3,
	"AI_MAX_TOKENS":            2048,
	"ATS_PROVIDER_ORDER":       "openai,gemini",
	"ATS_FALLBACK_SCORE":       75,
	"FREE_ANALYSIS_LIMIT":      10,
	"FREE_RESUME_CAP":          5,
	"BATCH_MAX_PROFILES":       5,
	"BATCH_CONCURRENCY":        5,
	"RATE_LIMIT_AI_PER_MINUTE": 20,
	"PREMIUM_PRICE_CENTS":      1999,
	"PREMIUM_CURRENCY":         "usd",
	"PUBLIC_URL":               "http://localhost:3000",
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	v := viper.New()
	for key, val := range defaults {
		v.SetDefault(key, val)
	}
	v.AutomaticEnv()
	return fromViper(v)
}

func fromViper(v *viper.Viper) Config {
	env := normalizeEnv(v.GetString("ENV"))
	secret := v.GetString("JWT_SECRET")
	if secret == "" && env != "production" {
		secret = "dev-secret"
	}

	return Config{
		Port:            v.GetString("PORT"),
		Env:             env,
		CORSAllowOrigin: splitAndTrim(v.GetString("CORS_ALLOW_ORIGINS")),
		DatabaseURL:     v.GetString("DATABASE_URL"),
		AutoMigrate:     v.GetBool("AUTO_MIGRATE"),

		JWTSecret: secret,
		JWTTTL:    time.Duration(positive(v.GetInt("JWT_TTL_HOURS"), 720)) * time.Hour,

		ObjectStoreType: normalizeStoreType(v.GetString("OBJECT_STORE")),
		LocalStoreDir:   v.GetString("LOCAL_STORE_DIR"),
		AWSRegion:       v.GetString("AWS_REGION"),
		S3Bucket:        v.GetString("S3_BUCKET"),
		S3Prefix:        v.GetString("S3_PREFIX"),

		OpenAIAPIKey:  v.GetString("OPENAI_API_KEY"),
		OpenAIModel:   v.GetString("OPENAI_MODEL"),
		OpenAIBaseURL: strings.TrimRight(v.GetString("OPENAI_BASE_URL"), "/"),
		GeminiAPIKey:  v.GetString("GEMINI_API_KEY"),
		GeminiModel:   v.GetString("GEMINI_MODEL"),
		AITimeout:     time.Duration(positive(v.GetInt("AI_TIMEOUT_SECONDS"), 45)) * time.Second,
		AITemperature: v.GetFloat64("AI_TEMPERATURE"),
		AIMaxTokens:   positive(v.GetInt("AI_MAX_TOKENS"), 2048),
		ProviderOrder: lowerAll(splitAndTrim(v.GetString("ATS_PROVIDER_ORDER"))),

		FallbackScore:     clampScore(v.GetInt("ATS_FALLBACK_SCORE")),
		FreeAnalysisLimit: positive(v.GetInt("FREE_ANALYSIS_LIMIT"), 10),
		FreeResumeCap:     positive(v.GetInt("FREE_RESUME_CAP"), 5),
		BatchMaxProfiles:  positive(v.GetInt("BATCH_MAX_PROFILES"), 5),
		BatchConcurrency:  positive(v.GetInt("BATCH_CONCURRENCY"), 5),
		AIRatePerMinute:   positive(v.GetInt("RATE_LIMIT_AI_PER_MINUTE"), 20),

		StripeAPIKey:        v.GetString("STRIPE_API_KEY"),
		StripeWebhookSecret: v.GetString("STRIPE_WEBHOOK_SECRET"),
		PremiumPriceCents:   int64(positive(v.GetInt("PREMIUM_PRICE_CENTS"), 1999)),
		PremiumCurrency:     strings.ToLower(v.GetString("PREMIUM_CURRENCY")),
		PublicURL:           strings.TrimRight(v.GetString("PUBLIC_URL"), "/"),

		GoogleClientID:     v.GetString("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: v.GetString("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURL:  v.GetString("GOOGLE_REDIRECT_URL"),
		UIRedirectURL:      v.GetString("UI_REDIRECT_URL"),
	}
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func lowerAll(in []string) []string {
	for i := range in {
		in[i] = strings.ToLower(in[i])
	}
	return in
}

func positive(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

func clampScore(v int) int {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	}
	return v
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	default:
		return "local"
	}
}

// IsProduction reports whether the service runs with production guarantees.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}
