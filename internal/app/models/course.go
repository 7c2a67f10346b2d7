package models

// CourseDefinition represents a course in the static catalog.
type CourseDefinition struct {
	Code          string   `json:"code" yaml:"code"`
	Name          string   `json:"name" yaml:"name"`
	Credits       int      `json:"credits" yaml:"credits"`
	Prerequisites []string `json:"prerequisites" yaml:"prerequisites"`
}

// CurriculumDefinition represents a program of study and its credit targets.
type CurriculumDefinition struct {
	ID                  string   `json:"id" yaml:"id"`
	Name                string   `json:"name" yaml:"name"`
	RequiredCredits     int      `json:"requiredCredits" yaml:"required_credits"`
	LimitedCredits      int      `json:"limitedCredits" yaml:"limited_credits"`
	FreeCredits         int      `json:"freeCredits" yaml:"free_credits"`
	RequiredCourseCodes []string `json:"requiredCourseCodes" yaml:"required"`
	LimitedCourseCodes  []string `json:"limitedCourseCodes" yaml:"limited"`
}

// TotalCredits returns the sum of the three category targets
func (c CurriculumDefinition) TotalCredits() int {
	return c.RequiredCredits + c.LimitedCredits + c.FreeCredits
}

// Target returns the credit target for a category
func (c CurriculumDefinition) Target(category Category) int {
	switch category {
	case CategoryRequired:
		return c.RequiredCredits
	case CategoryLimited:
		return c.LimitedCredits
	case CategoryFree:
		return c.FreeCredits
	}
	return 0
}

// CurriculumSummary is the short form used for listings.
type CurriculumSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
