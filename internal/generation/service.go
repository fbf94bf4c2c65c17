package generation

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"resume-builder/internal/resumes"
	"resume-builder/internal/shared/telemetry"
)

const DefaultMaxProfiles = 5

// ResumeStore is the part of the resume service a batch needs.
type ResumeStore interface {
	EnsureCapacity(ctx context.Context, userID string, n int) error
	NewResume(userID string, in resumes.CreateInput) (resumes.Resume, error)
	SaveGenerated(ctx context.Context, list []resumes.Resume) error
}

type Service struct {
	Coordinator *Coordinator
	Resumes     ResumeStore
	MaxProfiles int
	Logger      *zap.Logger
}

func NewService(coordinator *Coordinator, store ResumeStore, maxProfiles int, logger *zap.Logger) *Service {
	if maxProfiles <= 0 {
		maxProfiles = DefaultMaxProfiles
	}
	return &Service{Coordinator: coordinator, Resumes: store, MaxProfiles: maxProfiles, Logger: telemetry.OrNop(logger)}
}

// Validate checks the batch size, profile ids, template and the titles the
// batch will produce, and returns the matching presets in request order.
func (s *Service) Validate(req Request) ([]JobProfile, resumes.Template, error) {
	n := len(req.ProfileIDs)
	if n < 1 || n > s.MaxProfiles {
		return nil, "", fmt.Errorf("%w: between 1 and %d job profiles are required, got %d", ErrInvalidBatch, s.MaxProfiles, n)
	}
	seen := make(map[string]bool, n)
	profiles := make([]JobProfile, 0, n)
	for _, id := range req.ProfileIDs {
		id = strings.TrimSpace(id)
		profile, ok := LookupProfile(id)
		if !ok {
			return nil, "", fmt.Errorf("%w: unknown job profile %q", ErrInvalidBatch, id)
		}
		if seen[id] {
			return nil, "", fmt.Errorf("%w: duplicate job profile %q", ErrInvalidBatch, id)
		}
		seen[id] = true
		profiles = append(profiles, profile)
	}
	template, err := resumes.ParseTemplate(req.Template)
	if err != nil {
		return nil, "", fmt.Errorf("%w: unknown template %q", ErrInvalidBatch, req.Template)
	}
	for _, profile := range profiles {
		if _, err := resumes.ValidateTitle(resumeTitle(req.PersonalInfo, profile)); err != nil {
			return nil, "", fmt.Errorf("%w: personal_info.name: %v", ErrInvalidBatch, err)
		}
	}
	return profiles, template, nil
}

// BatchGenerate validates the batch, runs one generation task per profile and
// persists the successes. Failed profiles are reported in the stats; only
// validation, the resume cap and persistence fail the call.
func (s *Service) BatchGenerate(ctx context.Context, userID string, req Request) (BatchResult, error) {
	profiles, template, err := s.Validate(req)
	if err != nil {
		return BatchResult{}, err
	}
	if err := s.Resumes.EnsureCapacity(ctx, userID, len(profiles)); err != nil {
		return BatchResult{}, err
	}

	tasks := make([]Task, len(profiles))
	for i, profile := range profiles {
		tasks[i] = Task{Profile: profile, Base: req.Base, Prompt: BuildPrompt(req.Base, profile)}
	}
	outcomes := s.Coordinator.Run(ctx, tasks)

	stats := Stats{
		TotalRequested: len(tasks),
		FailedProfiles: []string{},
		Providers:      map[string]string{},
	}
	generated := make([]resumes.Resume, 0, len(outcomes))
	for i, oc := range outcomes {
		if !oc.OK() {
			stats.Failed++
			stats.FailedProfiles = append(stats.FailedProfiles, oc.ProfileID)
			continue
		}
		resume, err := s.Resumes.NewResume(userID, resumes.CreateInput{
			Title:    resumeTitle(req.PersonalInfo, tasks[i].Profile),
			Template: string(template),
			Sections: Assemble(req.Base, *oc.Content),
		})
		if err != nil {
			s.Logger.Warn("generated resume rejected", zap.String("job_profile", oc.ProfileID), zap.Error(err))
			stats.Failed++
			stats.FailedProfiles = append(stats.FailedProfiles, oc.ProfileID)
			continue
		}
		resume.JobProfile = oc.ProfileID
		resume.Provider = oc.Provider
		generated = append(generated, resume)
		stats.Successful++
		stats.Providers[oc.ProfileID] = oc.Provider
	}

	if len(generated) > 0 {
		if err := s.Resumes.SaveGenerated(ctx, generated); err != nil {
			return BatchResult{}, err
		}
	}
	s.Logger.Info("batch generated",
		zap.String("user_id", userID),
		zap.Int("requested", stats.TotalRequested),
		zap.Int("successful", stats.Successful),
		zap.Strings("failed_profiles", stats.FailedProfiles),
	)
	return BatchResult{Resumes: generated, Stats: stats}, nil
}

// Assemble builds the sections of a generated resume. Personal info and
// education come from the base data; summary, experience and skills come
// from the single provider that answered.
func Assemble(base Base, g Generated) []resumes.Section {
	experience := g.Experience
	if len(experience) == 0 {
		experience = base.Experience
	}
	skills := strings.TrimSpace(string(g.Skills))
	if skills == "" {
		skills = base.SkillsBase
	}
	return []resumes.Section{
		{Type: resumes.SectionPersonal, Content: resumes.KeyValue{
			"name":     base.PersonalInfo.Name,
			"email":    base.PersonalInfo.Email,
			"phone":    base.PersonalInfo.Phone,
			"location": base.PersonalInfo.Location,
		}},
		{Type: resumes.SectionSummary, Content: resumes.Text(g.Summary)},
		{Type: resumes.SectionExperience, Content: resumes.Experience(append([]resumes.ExperienceEntry(nil), experience...))},
		{Type: resumes.SectionEducation, Content: resumes.Education(append([]resumes.EducationEntry(nil), base.Education...))},
		{Type: resumes.SectionSkills, Content: resumes.Text(skills)},
	}
}

func resumeTitle(info PersonalInfo, profile JobProfile) string {
	if name := strings.TrimSpace(info.Name); name != "" {
		return name + " - " + profile.Title
	}
	return profile.Title + " Resume"
}
