package generation

// JobProfile is a static preset that frames one generated resume.
type JobProfile struct {
	ID               string   `json:"id"`
	Title            string   `json:"title"`
	Keywords         []string `json:"keywords"`
	SummaryFocus     string   `json:"summary_focus"`
	SkillsCategories []string `json:"skills_categories"`
}

var presets = []JobProfile{
	{
		ID:               "software-engineer",
		Title:            "Software Engineer",
		Keywords:         []string{"software development", "algorithms", "system design", "code review", "testing", "agile"},
		SummaryFocus:     "building reliable, maintainable software and shipping features end to end",
		SkillsCategories: []string{"Programming Languages", "Frameworks", "Tools", "Practices"},
	},
	{
		ID:               "data-scientist",
		Title:            "Data Scientist",
		Keywords:         []string{"machine learning", "statistics", "python", "modeling", "experimentation", "data visualization"},
		SummaryFocus:     "turning data into predictive models and measurable business impact",
		SkillsCategories: []string{"Machine Learning", "Statistics", "Programming", "Data Tools"},
	},
	{
		ID:               "product-manager",
		Title:            "Product Manager",
		Keywords:         []string{"product strategy", "roadmap", "stakeholder management", "user research", "metrics", "prioritization"},
		SummaryFocus:     "defining product direction and aligning teams around customer outcomes",
		SkillsCategories: []string{"Strategy", "Analytics", "Communication", "Delivery"},
	},
	{
		ID:               "frontend-developer",
		Title:            "Frontend Developer",
		Keywords:         []string{"react", "javascript", "typescript", "css", "accessibility", "performance"},
		SummaryFocus:     "crafting fast, accessible and polished user interfaces",
		SkillsCategories: []string{"Languages", "Frameworks", "Styling", "Tooling"},
	},
	{
		ID:               "backend-developer",
		Title:            "Backend Developer",
		Keywords:         []string{"apis", "databases", "microservices", "scalability", "cloud", "security"},
		SummaryFocus:     "designing scalable services, APIs and data stores",
		SkillsCategories: []string{"Languages", "Databases", "Infrastructure", "Architecture"},
	},
	{
		ID:               "devops-engineer",
		Title:            "DevOps Engineer",
		Keywords:         []string{"ci/cd", "kubernetes", "terraform", "monitoring", "automation", "cloud infrastructure"},
		SummaryFocus:     "automating delivery pipelines and running resilient infrastructure",
		SkillsCategories: []string{"Cloud", "Containers", "Automation", "Observability"},
	},
	{
		ID:               "ux-designer",
		Title:            "UX Designer",
		Keywords:         []string{"user research", "wireframing", "prototyping", "usability testing", "figma", "design systems"},
		SummaryFocus:     "designing intuitive experiences grounded in user research",
		SkillsCategories: []string{"Research", "Design Tools", "Interaction Design", "Collaboration"},
	},
	{
		ID:               "data-analyst",
		Title:            "Data Analyst",
		Keywords:         []string{"sql", "excel", "dashboards", "reporting", "tableau", "business intelligence"},
		SummaryFocus:     "explaining trends in data and supporting decisions with clear reporting",
		SkillsCategories: []string{"Querying", "Visualization", "Analysis", "Tools"},
	},
}

var presetsByID = func() map[string]JobProfile {
	m := make(map[string]JobProfile, len(presets))
	for _, p := range presets {
		m[p.ID] = p
	}
	return m
}()

// Profiles returns the presets in display order.
func Profiles() []JobProfile {
	out := make([]JobProfile, len(presets))
	copy(out, presets)
	return out
}

// LookupProfile returns the preset with the given id.
func LookupProfile(id string) (JobProfile, bool) {
	p, ok := presetsByID[id]
	return p, ok
}
