package account

import (
	"context"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"

	"resume-builder/internal/analyses"
	"resume-builder/internal/usage"
)

type ResumeCounter interface {
	Count(ctx context.Context, userID string) (int, error)
}

type AnalysisStats interface {
	Stats(ctx context.Context, userID string) (analyses.Stats, error)
}

type UsageReader interface {
	Get(ctx context.Context, userID string) (usage.Usage, error)
}

type Service struct {
	Resumes  ResumeCounter
	Analyses AnalysisStats
	Usage    UsageReader
}

// Summary is the dashboard view. AverageScore is zero until the first
// analysis exists.
type Summary struct {
	ResumeCount   int         `json:"resumeCount"`
	AnalysisCount int         `json:"analysisCount"`
	AverageScore  int         `json:"averageScore"`
	Usage         usage.Usage `json:"usage"`
}

func NewService(resumes ResumeCounter, stats AnalysisStats, reader UsageReader) *Service {
	return &Service{Resumes: resumes, Analyses: stats, Usage: reader}
}

func (s *Service) Summary(ctx context.Context, userID string) (Summary, error) {
	var (
		out   Summary
		stats analyses.Stats
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.Resumes.Count(gctx, userID)
		if err != nil {
			return fmt.Errorf("count resumes: %w", err)
		}
		out.ResumeCount = n
		return nil
	})
	g.Go(func() error {
		st, err := s.Analyses.Stats(gctx, userID)
		if err != nil {
			return fmt.Errorf("analysis stats: %w", err)
		}
		stats = st
		return nil
	})
	g.Go(func() error {
		u, err := s.Usage.Get(gctx, userID)
		if err != nil {
			return err
		}
		out.Usage = u
		return nil
	})
	if err := g.Wait(); err != nil {
		return Summary{}, err
	}

	out.AnalysisCount = stats.Count
	if stats.AverageScore != nil {
		out.AverageScore = int(math.Round(*stats.AverageScore))
	}
	return out, nil
}
