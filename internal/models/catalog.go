package models

import "strings"

// JobDetail carries the role-specific context fed into feedback prompts.
type JobDetail struct {
	Category     string   `json:"category"`
	Competencies []string `json:"competencies"`
}

// JobCategories groups the supported target roles the way the editor presents
// them. Slugs are derived from these titles, so renaming a title moves its
// stored revision chains.
var JobCategories = map[string][]string{
	"Engineering": {
		"Backend Developer",
		"Frontend Developer",
		"Machine Learning Engineer",
		"DevOps Engineer",
	},
	"Data": {
		"Data Analyst",
		"Data Engineer",
	},
	"Design": {
		"Product Designer",
		"UX/UI Designer",
	},
	"Business": {
		"Product Manager",
		"Marketing Manager",
	},
}

var JobDetails = map[string]JobDetail{
	"Backend Developer": {
		Category:     "Engineering",
		Competencies: []string{"Go", "databases", "REST/gRPC APIs", "cloud infrastructure", "distributed systems"},
	},
	"Frontend Developer": {
		Category:     "Engineering",
		Competencies: []string{"JavaScript/TypeScript", "React", "accessibility", "web performance"},
	},
	"Machine Learning Engineer": {
		Category:     "Engineering",
		Competencies: []string{"Python", "model training", "MLOps", "data pipelines"},
	},
	"DevOps Engineer": {
		Category:     "Engineering",
		Competencies: []string{"Kubernetes", "CI/CD", "observability", "infrastructure as code"},
	},
	"Data Analyst": {
		Category:     "Data",
		Competencies: []string{"SQL", "statistics", "dashboarding", "experiment design"},
	},
	"Data Engineer": {
		Category:     "Data",
		Competencies: []string{"SQL", "ETL pipelines", "data warehousing", "stream processing"},
	},
	"Product Designer": {
		Category:     "Design",
		Competencies: []string{"design systems", "prototyping", "user research"},
	},
	"UX/UI Designer": {
		Category:     "Design",
		Competencies: []string{"wireframing", "usability testing", "visual design"},
	},
	"Product Manager": {
		Category:     "Business",
		Competencies: []string{"roadmapping", "stakeholder communication", "metrics-driven prioritization"},
	},
	"Marketing Manager": {
		Category:     "Business",
		Competencies: []string{"campaign planning", "content strategy", "funnel analytics"},
	},
}

// SlugForTitle normalizes a role title for storage addressing: lowercase,
// spaces and slashes become hyphens.
func SlugForTitle(title string) string {
	slug := strings.ToLower(strings.TrimSpace(title))
	slug = strings.ReplaceAll(slug, " ", "-")
	slug = strings.ReplaceAll(slug, "/", "-")
	return slug
}

// TitleForSlug resolves a slug back to its catalog title, or "" when no role
// matches.
func TitleForSlug(slug string) string {
	for _, titles := range JobCategories {
		for _, title := range titles {
			if SlugForTitle(title) == slug {
				return title
			}
		}
	}
	return ""
}

// CompetenciesForTitle returns the role's competency list, nil for unknown
// roles.
func CompetenciesForTitle(title string) []string {
	if detail, ok := JobDetails[title]; ok {
		return detail.Competencies
	}
	return nil
}
