package ai

import (
	_ "embed"
	"strings"
)

//go:embed prompts/ats_system.txt
var atsSystemPrompt string

//go:embed prompts/ats_user.txt
var atsUserTemplate string

// AnalysisPrompt builds the ATS scoring prompt for a resume and job description.
func AnalysisPrompt(resumeText, jobDescription string) Prompt {
	user := strings.NewReplacer(
		"{{RESUME}}", strings.TrimSpace(resumeText),
		"{{JOB_DESCRIPTION}}", strings.TrimSpace(jobDescription),
	).Replace(atsUserTemplate)
	return Prompt{
		System: strings.TrimSpace(atsSystemPrompt),
		User:   strings.TrimSpace(user),
	}
}
