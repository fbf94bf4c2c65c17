package resumes

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"resume-builder/internal/extract"
	"resume-builder/internal/shared/storage/object"
	"resume-builder/internal/shared/telemetry"
	"resume-builder/internal/users"
)

const (
	DefaultResumeCap = 5
	maxListResumes   = 100
	maxTitleLen      = 200
	maxSections      = 50
)

// Accounts resolves the premium flag for the free-tier cap.
type Accounts interface {
	GetByID(ctx context.Context, userID string) (users.User, error)
}

type Service struct {
	Repo      Repo
	Accounts  Accounts
	Store     object.Store
	ResumeCap int
	Logger    *zap.Logger
	now       func() time.Time
}

func NewService(repo Repo, accounts Accounts, store object.Store, resumeCap int, logger *zap.Logger) *Service {
	if resumeCap <= 0 {
		resumeCap = DefaultResumeCap
	}
	return &Service{
		Repo:      repo,
		Accounts:  accounts,
		Store:     store,
		ResumeCap: resumeCap,
		Logger:    telemetry.OrNop(logger),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

type CreateInput struct {
	Title    string
	Template string
	Sections []Section
}

// UpdateInput is a partial update; nil fields are left unchanged.
type UpdateInput struct {
	Title    *string
	Template *string
	Sections []Section
	// SetSections distinguishes an explicit empty section list from an absent one.
	SetSections bool
}

func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (Resume, error) {
	resume, err := s.build(userID, in)
	if err != nil {
		return Resume{}, err
	}
	if err := s.EnsureCapacity(ctx, userID, 1); err != nil {
		return Resume{}, err
	}
	if err := s.Repo.Create(ctx, resume); err != nil {
		return Resume{}, fmt.Errorf("create resume: %w", err)
	}
	s.Logger.Info("resume created", zap.String("user_id", userID), zap.String("resume_id", resume.ID))
	return resume, nil
}

// EnsureCapacity returns ErrResumeCap when a non-premium user holding the
// current count of resumes could not store n more.
func (s *Service) EnsureCapacity(ctx context.Context, userID string, n int) error {
	user, err := s.Accounts.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.IsPremium {
		return nil
	}
	count, err := s.Repo.CountByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("count resumes: %w", err)
	}
	if count+n > s.ResumeCap {
		return ErrResumeCap
	}
	return nil
}

func (s *Service) List(ctx context.Context, userID string) ([]Resume, error) {
	return s.Repo.List(ctx, userID, maxListResumes)
}

func (s *Service) Get(ctx context.Context, userID, resumeID string) (Resume, error) {
	if strings.TrimSpace(resumeID) == "" {
		return Resume{}, ErrNotFound
	}
	return s.Repo.Get(ctx, userID, resumeID)
}

func (s *Service) Update(ctx context.Context, userID, resumeID string, in UpdateInput) (Resume, error) {
	resume, err := s.Get(ctx, userID, resumeID)
	if err != nil {
		return Resume{}, err
	}
	changed := false
	if in.Title != nil {
		title, err := ValidateTitle(*in.Title)
		if err != nil {
			return Resume{}, err
		}
		resume.Title = title
		changed = true
	}
	if in.Template != nil {
		template, err := ParseTemplate(*in.Template)
		if err != nil {
			return Resume{}, fmt.Errorf("%w: unknown template %q", ErrInvalidInput, *in.Template)
		}
		resume.Template = template
		changed = true
	}
	if in.SetSections {
		sections, err := validateSections(in.Sections)
		if err != nil {
			return Resume{}, err
		}
		resume.Sections = sections
		changed = true
	}
	if !changed {
		return resume, nil
	}
	resume.UpdatedAt = s.now()
	if err := s.Repo.Update(ctx, resume); err != nil {
		return Resume{}, err
	}
	return resume, nil
}

func (s *Service) Delete(ctx context.Context, userID, resumeID string) error {
	return s.Repo.Delete(ctx, userID, resumeID)
}

func (s *Service) Count(ctx context.Context, userID string) (int, error) {
	return s.Repo.CountByUser(ctx, userID)
}

// SaveGenerated persists a batch of already-assembled resumes in one write.
func (s *Service) SaveGenerated(ctx context.Context, resumes []Resume) error {
	if err := s.Repo.CreateMany(ctx, resumes); err != nil {
		return fmt.Errorf("save generated resumes: %w", err)
	}
	return nil
}

// NewResume assigns ids and timestamps to generated content.
func (s *Service) NewResume(userID string, in CreateInput) (Resume, error) {
	return s.build(userID, in)
}

// Import stores an uploaded PDF or DOCX, extracts its text and creates a
// resume whose summary section holds that text.
func (s *Service) Import(ctx context.Context, userID, fileName, mimeType string, r io.Reader) (Resume, error) {
	if s.Store == nil {
		return Resume{}, fmt.Errorf("import resume: object store not configured")
	}
	if !extract.Supported(fileName) {
		return Resume{}, fmt.Errorf("%w: only PDF and DOCX files can be imported", ErrInvalidInput)
	}
	if err := s.EnsureCapacity(ctx, userID, 1); err != nil {
		return Resume{}, err
	}

	obj, err := s.Store.Save(ctx, userID, fileName, r)
	if err != nil {
		return Resume{}, fmt.Errorf("store upload: %w", err)
	}
	if mimeType == "" {
		mimeType = obj.MimeType
	}
	text, err := extract.FromStore(ctx, s.Store, obj.Key, mimeType, fileName)
	if err != nil {
		s.Logger.Warn("resume import extraction failed", zap.String("user_id", userID), zap.String("key", obj.Key), zap.Error(err))
		_ = s.Store.Delete(ctx, obj.Key)
		return Resume{}, fmt.Errorf("%w: could not read text from file", ErrInvalidInput)
	}

	title := strings.TrimSuffix(filepath.Base(fileName), filepath.Ext(fileName))
	resume, err := s.build(userID, CreateInput{
		Title:    title,
		Sections: []Section{{Type: SectionSummary, Content: Text(text)}},
	})
	if err != nil {
		return Resume{}, err
	}
	resume.SourceKey = obj.Key
	if err := s.Repo.Create(ctx, resume); err != nil {
		return Resume{}, fmt.Errorf("create resume: %w", err)
	}
	s.Logger.Info("resume imported", zap.String("user_id", userID), zap.String("resume_id", resume.ID), zap.Int64("size", obj.Size))
	return resume, nil
}

func (s *Service) build(userID string, in CreateInput) (Resume, error) {
	title, err := ValidateTitle(in.Title)
	if err != nil {
		return Resume{}, err
	}
	template, err := ParseTemplate(in.Template)
	if err != nil {
		return Resume{}, fmt.Errorf("%w: unknown template %q", ErrInvalidInput, in.Template)
	}
	sections, err := validateSections(in.Sections)
	if err != nil {
		return Resume{}, err
	}
	now := s.now()
	return Resume{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     title,
		Template:  template,
		Sections:  sections,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// ValidateTitle trims a resume title and enforces its length bounds.
func ValidateTitle(raw string) (string, error) {
	title := strings.TrimSpace(raw)
	if title == "" {
		return "", fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if len(title) > maxTitleLen {
		return "", fmt.Errorf("%w: title must be at most %d characters", ErrInvalidInput, maxTitleLen)
	}
	return title, nil
}

func validateSections(sections []Section) ([]Section, error) {
	if len(sections) > maxSections {
		return nil, fmt.Errorf("%w: at most %d sections", ErrInvalidInput, maxSections)
	}
	out := make([]Section, 0, len(sections))
	for i, s := range sections {
		s.Type = strings.ToLower(strings.TrimSpace(s.Type))
		if s.Type == "" {
			return nil, fmt.Errorf("%w: section %d has no type", ErrInvalidInput, i)
		}
		if s.Content == nil {
			s.Content = Text("")
		}
		out = append(out, s)
	}
	return out, nil
}
