package resumes

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"resume-builder/internal/shared/storage/db"
)

// PGRepo implements Repo using Postgres. Sections are stored as JSONB.
type PGRepo struct {
	DB *sql.DB
}

const resumeColumns = `id, user_id, title, template, sections, job_profile, provider, source_key, created_at, updated_at`

const insertResume = `
INSERT INTO resumes (id, user_id, title, template, sections, job_profile, provider, source_key, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (r *PGRepo) Create(ctx context.Context, resume Resume) error {
	return insert(ctx, r.DB, resume)
}

func (r *PGRepo) CreateMany(ctx context.Context, resumes []Resume) error {
	if len(resumes) == 0 {
		return nil
	}
	return db.WithTx(ctx, r.DB, func(tx *sql.Tx) error {
		for _, resume := range resumes {
			if err := insert(ctx, tx, resume); err != nil {
				return err
			}
		}
		return nil
	})
}

func insert(ctx context.Context, ex execer, resume Resume) error {
	sections, err := marshalSections(resume.Sections)
	if err != nil {
		return err
	}
	_, err = ex.ExecContext(ctx, insertResume,
		resume.ID,
		resume.UserID,
		resume.Title,
		string(resume.Template),
		sections,
		nullableString(resume.JobProfile),
		nullableString(resume.Provider),
		nullableString(resume.SourceKey),
		resume.CreatedAt,
		resume.UpdatedAt,
	)
	return err
}

func (r *PGRepo) Get(ctx context.Context, userID, resumeID string) (Resume, error) {
	query := `SELECT ` + resumeColumns + ` FROM resumes WHERE id = $1 AND user_id = $2`
	resume, err := scanResume(r.DB.QueryRowContext(ctx, query, resumeID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Resume{}, ErrNotFound
		}
		return Resume{}, err
	}
	return resume, nil
}

func (r *PGRepo) List(ctx context.Context, userID string, limit int) ([]Resume, error) {
	query := `SELECT ` + resumeColumns + ` FROM resumes WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`
	rows, err := r.DB.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Resume, 0)
	for rows.Next() {
		resume, err := scanResume(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, resume)
	}
	return out, rows.Err()
}

func (r *PGRepo) Update(ctx context.Context, resume Resume) error {
	sections, err := marshalSections(resume.Sections)
	if err != nil {
		return err
	}
	const query = `
UPDATE resumes SET title = $3, template = $4, sections = $5, updated_at = $6
WHERE id = $1 AND user_id = $2`
	res, err := r.DB.ExecContext(ctx, query, resume.ID, resume.UserID, resume.Title, string(resume.Template), sections, resume.UpdatedAt)
	if err != nil {
		return err
	}
	return expectOne(res)
}

func (r *PGRepo) Delete(ctx context.Context, userID, resumeID string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM resumes WHERE id = $1 AND user_id = $2`, resumeID, userID)
	if err != nil {
		return err
	}
	return expectOne(res)
}

func (r *PGRepo) CountByUser(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM resumes WHERE user_id = $1`, userID).Scan(&count)
	return count, err
}

func expectOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanResume(row rowScanner) (Resume, error) {
	var resume Resume
	var template string
	var sections []byte
	var jobProfile, provider, sourceKey sql.NullString
	if err := row.Scan(
		&resume.ID,
		&resume.UserID,
		&resume.Title,
		&template,
		&sections,
		&jobProfile,
		&provider,
		&sourceKey,
		&resume.CreatedAt,
		&resume.UpdatedAt,
	); err != nil {
		return Resume{}, err
	}
	resume.Template = Template(template)
	resume.JobProfile = jobProfile.String
	resume.Provider = provider.String
	resume.SourceKey = sourceKey.String
	if len(sections) > 0 {
		if err := json.Unmarshal(sections, &resume.Sections); err != nil {
			return Resume{}, fmt.Errorf("decode sections for resume %s: %w", resume.ID, err)
		}
	}
	if resume.Sections == nil {
		resume.Sections = []Section{}
	}
	return resume, nil
}

func marshalSections(sections []Section) ([]byte, error) {
	if sections == nil {
		sections = []Section{}
	}
	raw, err := json.Marshal(sections)
	if err != nil {
		return nil, fmt.Errorf("encode sections: %w", err)
	}
	return raw, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
