package resumes

import "strings"

// RenderText flattens a resume into the plain text fed to ATS analysis:
// a title line followed by one upper-cased block per section.
func RenderText(r Resume) string {
	var b strings.Builder
	b.WriteString("Resume Title: ")
	b.WriteString(r.Title)
	b.WriteString("\n\n")
	for _, s := range r.Sections {
		b.WriteString(strings.ToUpper(s.Type))
		b.WriteString(":\n")
		if s.Content != nil {
			b.WriteString(s.Content.Render())
		}
		b.WriteString("\n\n")
	}
	return b.String()
}
