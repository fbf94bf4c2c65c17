package analyses

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const analysisColumns = `id, user_id, resume_id, job_description, score, feedback, strengths, improvements, providers, created_at`

// Create inserts a new analysis.
func (r *PGRepo) Create(ctx context.Context, analysis Analysis) error {
	const query = `
INSERT INTO ats_analyses (id, user_id, resume_id, job_description, score, feedback, strengths, improvements, providers, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	strengths, err := marshalJSONB(nonNilStrings(analysis.Strengths))
	if err != nil {
		return err
	}
	improvements, err := marshalJSONB(nonNilStrings(analysis.Improvements))
	if err != nil {
		return err
	}
	providers, err := marshalJSONB(analysis.Providers)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, query,
		analysis.ID,
		analysis.UserID,
		analysis.ResumeID,
		analysis.JobDescription,
		analysis.Score,
		analysis.Feedback,
		strengths,
		improvements,
		providers,
		analysis.CreatedAt,
	)
	return err
}

// Get returns an analysis owned by the user.
func (r *PGRepo) Get(ctx context.Context, userID, analysisID string) (Analysis, error) {
	query := `SELECT ` + analysisColumns + ` FROM ats_analyses WHERE id = $1 AND user_id = $2`
	analysis, err := scanAnalysis(r.DB.QueryRowContext(ctx, query, analysisID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Analysis{}, ErrNotFound
		}
		return Analysis{}, err
	}
	return analysis, nil
}

// ListByUser returns the user's analyses, newest first.
func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit int) ([]Analysis, error) {
	query := `SELECT ` + analysisColumns + ` FROM ats_analyses WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`
	rows, err := r.DB.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Analysis, 0)
	for rows.Next() {
		analysis, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, analysis)
	}
	return out, rows.Err()
}

func (r *PGRepo) StatsByUser(ctx context.Context, userID string) (Stats, error) {
	var stats Stats
	var avg sql.NullFloat64
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*), AVG(score) FROM ats_analyses WHERE user_id = $1`, userID).Scan(&stats.Count, &avg)
	if err != nil {
		return Stats{}, err
	}
	if avg.Valid {
		stats.AverageScore = &avg.Float64
	}
	return stats, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAnalysis(row rowScanner) (Analysis, error) {
	var analysis Analysis
	var strengths, improvements, providers []byte
	if err := row.Scan(
		&analysis.ID,
		&analysis.UserID,
		&analysis.ResumeID,
		&analysis.JobDescription,
		&analysis.Score,
		&analysis.Feedback,
		&strengths,
		&improvements,
		&providers,
		&analysis.CreatedAt,
	); err != nil {
		return Analysis{}, err
	}
	if err := unmarshalJSONB(strengths, &analysis.Strengths); err != nil {
		return Analysis{}, fmt.Errorf("decode strengths: %w", err)
	}
	if err := unmarshalJSONB(improvements, &analysis.Improvements); err != nil {
		return Analysis{}, fmt.Errorf("decode improvements: %w", err)
	}
	if err := unmarshalJSONB(providers, &analysis.Providers); err != nil {
		return Analysis{}, fmt.Errorf("decode providers: %w", err)
	}
	analysis.Strengths = nonNilStrings(analysis.Strengths)
	analysis.Improvements = nonNilStrings(analysis.Improvements)
	return analysis, nil
}

func marshalJSONB(value any) ([]byte, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("encode jsonb: %w", err)
	}
	return raw, nil
}

func unmarshalJSONB(raw []byte, dest any) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, dest)
}

func nonNilStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
