package services

import (
	"fmt"
	"log"
	"strings"
)

// Read-only lookup tools offered to the planner. Backed by
// deterministic in-memory tables; a production deployment would swap
// these for real market-data and taxonomy APIs.

const (
	ToolSalaryLookup   = "lookup_salary_range"
	ToolSkillFramework = "search_skill_framework"
)

type ToolRegistry struct {
	salaryData map[string]map[string]string
	taxonomy   map[string][]string
}

func NewToolRegistry() *ToolRegistry {
	return &ToolRegistry{
		salaryData: map[string]map[string]string{
			"Data Scientist":           {"NY": "120k-160k", "SF": "140k-180k", "Boston": "110k-150k", "Remote": "110k-150k"},
			"Software Engineer":        {"NY": "130k-170k", "SF": "150k-200k", "Boston": "125k-165k", "Remote": "120k-160k"},
			"Bioinformatics Scientist": {"NY": "105k-145k", "SF": "120k-160k", "Boston": "100k-140k", "Remote": "95k-135k"},
		},
		taxonomy: map[string][]string{
			"python":           {"Django", "Flask", "Pandas", "NumPy", "Scripting"},
			"machine learning": {"TensorFlow", "PyTorch", "Scikit-learn", "Deep Learning"},
			"react":            {"JavaScript", "Frontend", "Redux", "Hooks"},
			"ngs":              {"Bioinformatics", "Genomics", "DNA Sequencing", "Illumina"},
		},
	}
}

// LookupSalaryRange returns the market range for a role/location pair.
// Role and location matching is fuzzy so the planner does not need
// exact table keys.
func (t *ToolRegistry) LookupSalaryRange(role, location string) string {
	log.Printf("🛠️  TOOL CALL: Salary lookup for '%s' in '%s'\n", role, location)

	roleKey := "Software Engineer"
	lower := strings.ToLower(role)
	if strings.Contains(lower, "data") {
		roleKey = "Data Scientist"
	}
	if strings.Contains(lower, "bio") {
		roleKey = "Bioinformatics Scientist"
	}

	locKey := "Remote"
	locLower := strings.ToLower(location)
	switch {
	case strings.Contains(locLower, "ny") || strings.Contains(locLower, "new york"):
		locKey = "NY"
	case strings.Contains(locLower, "sf") || strings.Contains(locLower, "francisco"):
		locKey = "SF"
	case strings.Contains(locLower, "boston"):
		locKey = "Boston"
	}

	marketRange := "80k-120k"
	if locations, ok := t.salaryData[roleKey]; ok {
		if r, ok := locations[locKey]; ok {
			marketRange = r
		}
	}

	return fmt.Sprintf("role=%s location=%s market_range=%s", roleKey, locKey, marketRange)
}

// SearchSkillFramework returns skills related to the given one.
func (t *ToolRegistry) SearchSkillFramework(skill string) []string {
	log.Printf("🛠️  TOOL CALL: Skill search for '%s'\n", skill)

	lower := strings.ToLower(skill)
	for key, related := range t.taxonomy {
		if strings.Contains(lower, key) {
			return related
		}
	}
	return []string{"General Technical Skill"}
}

// Execute dispatches a planner tool request and renders the result as
// a transcript observation.
func (t *ToolRegistry) Execute(name string, args map[string]string) (string, error) {
	switch name {
	case ToolSalaryLookup:
		return t.LookupSalaryRange(args["role"], args["location"]), nil
	case ToolSkillFramework:
		related := t.SearchSkillFramework(args["skill"])
		return strings.Join(related, ", "), nil
	default:
		return "", fmt.Errorf("unknown tool: %s", name)
	}
}
