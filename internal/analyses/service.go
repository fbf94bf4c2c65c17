package analyses

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"resume-builder/internal/ai"
	"resume-builder/internal/resumes"
	"resume-builder/internal/shared/metrics"
	"resume-builder/internal/shared/telemetry"
	"resume-builder/internal/users"
)

const (
	maxJobDescriptionLen = 20000
	maxListAnalyses      = 50
)

// ResumeSource loads a resume owned by the user.
type ResumeSource interface {
	Get(ctx context.Context, userID, resumeID string) (resumes.Resume, error)
}

// QuotaGate is checked before any provider call and consumed after the round.
type QuotaGate interface {
	Check(ctx context.Context, userID string) (users.User, error)
	Consume(ctx context.Context, userID string) error
}

type Service struct {
	Repo       Repo
	Resumes    ResumeSource
	Gate       QuotaGate
	Providers  []ai.Provider
	Reconciler ai.Reconciler
	Logger     *zap.Logger
	now        func() time.Time
}

func NewService(repo Repo, resumeSource ResumeSource, gate QuotaGate, providers []ai.Provider, reconciler ai.Reconciler, logger *zap.Logger) *Service {
	return &Service{
		Repo:       repo,
		Resumes:    resumeSource,
		Gate:       gate,
		Providers:  providers,
		Reconciler: reconciler,
		Logger:     telemetry.OrNop(logger),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Analyze scores a resume against a job description with every configured
// provider and stores the reconciled result. Provider failures never fail the
// call; quota denial, a missing resume and persistence failures do.
func (s *Service) Analyze(ctx context.Context, userID, resumeID, jobDescription string) (Analysis, error) {
	jobDescription = strings.TrimSpace(jobDescription)
	if jobDescription == "" {
		return Analysis{}, fmt.Errorf("%w: job_description is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(jobDescription) > maxJobDescriptionLen {
		return Analysis{}, fmt.Errorf("%w: job_description must be at most %d characters", ErrInvalidInput, maxJobDescriptionLen)
	}

	if _, err := s.Gate.Check(ctx, userID); err != nil {
		return Analysis{}, err
	}

	resume, err := s.Resumes.Get(ctx, userID, resumeID)
	if err != nil {
		return Analysis{}, err
	}

	started := time.Now()
	prompt := ai.AnalysisPrompt(resumes.RenderText(resume), jobDescription)
	outcomes := ai.FanOut(ctx, s.Providers, prompt, s.Logger)
	combined := s.Reconciler.Reconcile(outcomes)

	analysis := Analysis{
		ID:             uuid.NewString(),
		UserID:         userID,
		ResumeID:       resume.ID,
		JobDescription: jobDescription,
		Score:          combined.Score,
		Feedback:       combined.Feedback,
		Strengths:      combined.Strengths,
		Improvements:   combined.Improvements,
		Providers:      combined.Providers,
		CreatedAt:      s.now(),
	}
	if err := s.Repo.Create(ctx, analysis); err != nil {
		return Analysis{}, fmt.Errorf("save analysis: %w", err)
	}
	// The analysis is already stored; a failed increment is only logged.
	if err := s.Gate.Consume(ctx, userID); err != nil {
		s.Logger.Error("usage increment failed", zap.String("user_id", userID), zap.String("analysis_id", analysis.ID), zap.Error(err))
	}

	metrics.IncAnalysisCompleted()
	if combined.Fallback {
		metrics.IncAnalysisFallback()
	}
	s.Logger.Info("analysis completed",
		zap.String("user_id", userID),
		zap.String("analysis_id", analysis.ID),
		zap.Int("score", analysis.Score),
		zap.Int("providers_ok", outcomes.Succeeded()),
		zap.Int("providers_total", len(outcomes)),
		zap.Bool("fallback", combined.Fallback),
		zap.Int64("duration_ms", time.Since(started).Milliseconds()),
	)
	return analysis, nil
}

// List returns the user's latest analyses, newest first.
func (s *Service) List(ctx context.Context, userID string) ([]Analysis, error) {
	return s.Repo.ListByUser(ctx, userID, maxListAnalyses)
}

func (s *Service) Get(ctx context.Context, userID, analysisID string) (Analysis, error) {
	if strings.TrimSpace(analysisID) == "" {
		return Analysis{}, ErrNotFound
	}
	return s.Repo.Get(ctx, userID, analysisID)
}

func (s *Service) Stats(ctx context.Context, userID string) (Stats, error) {
	return s.Repo.StatsByUser(ctx, userID)
}
