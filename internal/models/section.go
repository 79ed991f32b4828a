package models

// Section is one entry of the server-owned posting vocabulary.
type Section struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// SectionGroup groups related sections for the composer UI.
type SectionGroup struct {
	Title string    `json:"title"`
	Items []Section `json:"items"`
}

// SectionGroups is the posting vocabulary served as reference data. The
// section column itself is free-form (any normalized slug is accepted), so
// extending this list never requires a migration.
var SectionGroups = []SectionGroup{
	{
		Title: "Software Engineering",
		Items: []Section{
			{Value: "frontend", Label: "Front End"},
			{Value: "backend", Label: "Back End"},
			{Value: "algorithms", Label: "Algorithms"},
			{Value: "system-design", Label: "System Design"},
			{Value: "ui-ux", Label: "UI / UX"},
			{Value: "devops-cloud", Label: "DevOps / Cloud"},
			{Value: "mobile", Label: "Mobile"},
			{Value: "testing-qa", Label: "Testing / QA"},
			{Value: "security", Label: "Security"},
			{Value: "sde-general", Label: "General SDE"},
		},
	},
	{
		Title: "Data Science & AI",
		Items: []Section{
			{Value: "ai-llm", Label: "AI / LLM"},
			{Value: "mle", Label: "MLE"},
			{Value: "deep-learning", Label: "Deep Learning"},
			{Value: "data-engineering", Label: "Data Engineering"},
			{Value: "statistics", Label: "Statistics"},
			{Value: "analytics", Label: "Analytics"},
			{Value: "experimentation", Label: "Experimentation"},
			{Value: "visualization", Label: "Visualization"},
			{Value: "ds-general", Label: "General DS"},
		},
	},
}

// AllSections returns the flattened vocabulary.
func AllSections() []Section {
	var out []Section
	for _, g := range SectionGroups {
		out = append(out, g.Items...)
	}
	return out
}
