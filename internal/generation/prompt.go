package generation

import (
	_ "embed"
	"strings"

	"resume-builder/internal/ai"
	"resume-builder/internal/resumes"
)

//go:embed prompts/generate_system.txt
var generateSystemPrompt string

//go:embed prompts/generate_user.txt
var generateUserTemplate string

// BuildPrompt frames the shared base data for one job profile.
func BuildPrompt(base Base, profile JobProfile) ai.Prompt {
	user := strings.NewReplacer(
		"{{PROFILE_TITLE}}", profile.Title,
		"{{KEYWORDS}}", strings.Join(profile.Keywords, ", "),
		"{{SUMMARY_FOCUS}}", profile.SummaryFocus,
		"{{SKILLS_CATEGORIES}}", strings.Join(profile.SkillsCategories, ", "),
		"{{NAME}}", strings.TrimSpace(base.PersonalInfo.Name),
		"{{SUMMARY}}", orNone(base.SummaryBase),
		"{{EXPERIENCE}}", orNone(resumes.Experience(base.Experience).Render()),
		"{{SKILLS}}", orNone(base.SkillsBase),
	).Replace(generateUserTemplate)
	return ai.Prompt{
		System: strings.TrimSpace(generateSystemPrompt),
		User:   strings.TrimSpace(user),
	}
}

func orNone(s string) string {
	if s = strings.TrimSpace(s); s != "" {
		return s
	}
	return "(none)"
}
