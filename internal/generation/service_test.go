package generation

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-builder/internal/ai"
	"resume-builder/internal/resumes"
	"resume-builder/internal/users"
)

type serviceFixture struct {
	svc       *Service
	resumes   *resumes.Service
	repo      *resumes.MemoryRepo
	primary   *scriptedProvider
	secondary *scriptedProvider
}

func newServiceFixture(t *testing.T, premium bool) serviceFixture {
	t.Helper()
	accounts := users.NewMemoryRepo()
	require.NoError(t, accounts.Create(context.Background(), users.User{ID: "u1", Email: "u1@example.com", IsPremium: premium, UsageLimit: 10}))
	repo := resumes.NewMemoryRepo()
	resumeSvc := resumes.NewService(repo, accounts, nil, 5, nil)
	primary := &scriptedProvider{name: ai.ProviderOpenAI}
	secondary := &scriptedProvider{name: ai.ProviderGemini}
	coordinator := NewCoordinator([]ai.Provider{primary, secondary}, 5, nil)
	return serviceFixture{
		svc:       NewService(coordinator, resumeSvc, 5, nil),
		resumes:   resumeSvc,
		repo:      repo,
		primary:   primary,
		secondary: secondary,
	}
}

func request(ids ...string) Request {
	return Request{Base: sampleBase(), ProfileIDs: ids, Template: "classic"}
}

func TestBatchGenerateValidatesBeforeAnyCall(t *testing.T) {
	cases := map[string]Request{
		"empty":     request(),
		"six":       request("software-engineer", "data-scientist", "product-manager", "frontend-developer", "backend-developer", "devops-engineer"),
		"unknown":   request("software-engineer", "astronaut"),
		"duplicate": request("ux-designer", "ux-designer"),
		"template":  {Base: sampleBase(), ProfileIDs: []string{"ux-designer"}, Template: "neon"},
		"long name": {
			Base:       Base{PersonalInfo: PersonalInfo{Name: strings.Repeat("N", 210)}},
			ProfileIDs: []string{"software-engineer", "data-scientist"},
		},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			f := newServiceFixture(t, false)

			_, err := f.svc.BatchGenerate(context.Background(), "u1", req)

			assert.ErrorIs(t, err, ErrInvalidBatch)
			assert.Zero(t, f.primary.calls.Load())
			assert.Zero(t, f.secondary.calls.Load())
			count, _ := f.repo.CountByUser(context.Background(), "u1")
			assert.Zero(t, count)
		})
	}
}

func TestBatchGeneratePartialFailure(t *testing.T) {
	f := newServiceFixture(t, false)
	f.primary.failFor = []string{"Data Analyst", "UX Designer"}
	f.secondary.failFor = []string{"Data Analyst"}

	result, err := f.svc.BatchGenerate(context.Background(), "u1", request("software-engineer", "data-analyst", "ux-designer"))

	require.NoError(t, err)
	stats := result.Stats
	assert.Equal(t, 3, stats.TotalRequested)
	assert.Equal(t, 2, stats.Successful)
	assert.Equal(t, 1, stats.Failed)
	assert.Equal(t, stats.TotalRequested, stats.Successful+stats.Failed)
	assert.Equal(t, []string{"data-analyst"}, stats.FailedProfiles)
	assert.Equal(t, map[string]string{"software-engineer": ai.ProviderOpenAI, "ux-designer": ai.ProviderGemini}, stats.Providers)

	require.Len(t, result.Resumes, 2)
	assert.Equal(t, "software-engineer", result.Resumes[0].JobProfile)
	assert.Equal(t, "ux-designer", result.Resumes[1].JobProfile)
	assert.Equal(t, resumes.TemplateClassic, result.Resumes[0].Template)
	assert.Equal(t, "Jane Doe - Software Engineer", result.Resumes[0].Title)

	stored, err := f.resumes.List(context.Background(), "u1")
	require.NoError(t, err)
	assert.Len(t, stored, 2)
	for _, r := range stored {
		assert.NotEqual(t, "data-analyst", r.JobProfile)
	}
}

func TestBatchGenerateAllFailedStillSucceeds(t *testing.T) {
	f := newServiceFixture(t, false)
	f.primary.failFor = []string{"*"}
	f.secondary.failFor = []string{"*"}

	result, err := f.svc.BatchGenerate(context.Background(), "u1", request("software-engineer", "data-analyst"))

	require.NoError(t, err)
	assert.Empty(t, result.Resumes)
	assert.Equal(t, 2, result.Stats.Failed)
}

func TestBatchGenerateEnforcesCombinedCap(t *testing.T) {
	f := newServiceFixture(t, false)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := f.resumes.Create(ctx, "u1", resumes.CreateInput{Title: "existing"})
		require.NoError(t, err)
	}

	_, err := f.svc.BatchGenerate(ctx, "u1", request("software-engineer", "data-analyst", "ux-designer"))

	assert.True(t, errors.Is(err, ErrResumeCap))
	assert.Zero(t, f.primary.calls.Load())
}

func TestBatchGeneratePremiumSkipsCap(t *testing.T) {
	f := newServiceFixture(t, true)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		_, err := f.resumes.Create(ctx, "u1", resumes.CreateInput{Title: "existing"})
		require.NoError(t, err)
	}

	result, err := f.svc.BatchGenerate(ctx, "u1", request("software-engineer", "data-analyst"))

	require.NoError(t, err)
	assert.Equal(t, 2, result.Stats.Successful)
}

func TestAssembleUsesBaseForPersonalAndEducation(t *testing.T) {
	base := sampleBase()
	base.Education = []resumes.EducationEntry{{Degree: "BSc", Institution: "MIT", Year: "2019"}}
	base.Experience = []resumes.ExperienceEntry{{Position: "Dev", Company: "Old"}}

	sections := Assemble(base, Generated{Summary: "new summary", Skills: "Go, SQL"})

	require.Len(t, sections, 5)
	assert.Equal(t, resumes.KeyValue{"name": "Jane Doe", "email": "jane@example.com", "phone": "555", "location": "Berlin"}, sections[0].Content)
	assert.Equal(t, resumes.Text("new summary"), sections[1].Content)
	assert.Equal(t, resumes.Experience{{Position: "Dev", Company: "Old"}}, sections[2].Content)
	assert.Equal(t, resumes.Education(base.Education), sections[3].Content)
	assert.Equal(t, resumes.Text("Go, SQL"), sections[4].Content)
}
