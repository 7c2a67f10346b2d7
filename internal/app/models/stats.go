package models

// CategoryCredits holds one credit sum per category
type CategoryCredits struct {
	Required int `json:"required"`
	Limited  int `json:"limited"`
	Free     int `json:"free"`
}

// Get returns the sum for a category
func (c CategoryCredits) Get(category Category) int {
	switch category {
	case CategoryRequired:
		return c.Required
	case CategoryLimited:
		return c.Limited
	case CategoryFree:
		return c.Free
	}
	return 0
}

// Add increments the sum for a category. Unknown categories are ignored.
func (c *CategoryCredits) Add(category Category, credits int) {
	switch category {
	case CategoryRequired:
		c.Required += credits
	case CategoryLimited:
		c.Limited += credits
	case CategoryFree:
		c.Free += credits
	}
}

// Total returns the sum over all categories
func (c CategoryCredits) Total() int {
	return c.Required + c.Limited + c.Free
}

// CategoryPercent holds a completion percentage per category
type CategoryPercent struct {
	Required float64 `json:"required"`
	Limited  float64 `json:"limited"`
	Free     float64 `json:"free"`
}

// Get returns the percentage for a category
func (c CategoryPercent) Get(category Category) float64 {
	switch category {
	case CategoryRequired:
		return c.Required
	case CategoryLimited:
		return c.Limited
	case CategoryFree:
		return c.Free
	}
	return 0
}

// RecommendationKind identifies a progress recommendation
type RecommendationKind string

const (
	RecommendationNeedLimited RecommendationKind = "need_limited"
	RecommendationExcessFree  RecommendationKind = "excess_free"
	RecommendationNeedFree    RecommendationKind = "need_free"
	RecommendationOnTrack     RecommendationKind = "on_track"
)

// Recommendation is an actionable signal derived from the stats
type Recommendation struct {
	Kind    RecommendationKind `json:"kind"`
	Amount  int                `json:"amount"`
	Message string             `json:"message"`
}

// Stats is the degree-progress summary of a user against one curriculum.
type Stats struct {
	CurriculumID            string           `json:"curriculumId"`
	CompletedByCategory     CategoryCredits  `json:"completedByCategory"`
	PlannedByCategory       CategoryCredits  `json:"plannedByCategory"`
	EffectiveByCategory     CategoryCredits  `json:"effectiveByCategory"`
	SurplusByCategory       CategoryCredits  `json:"surplusByCategory"`
	PercentByCategory       CategoryPercent  `json:"percentByCategory"`
	RawCompletedTotal       int              `json:"rawCompletedTotal"`
	RawPlannedTotal         int              `json:"rawPlannedTotal"`
	EffectiveCompletedTotal int              `json:"effectiveCompletedTotal"`
	TargetTotal             int              `json:"targetTotal"`
	OverallPercent          float64          `json:"overallPercent"`
	RemainingRequired       int              `json:"remainingRequired"`
	RemainingLimited        int              `json:"remainingLimited"`
	Recommendations         []Recommendation `json:"recommendations"`
}

// PrerequisiteWarning flags a record whose direct prerequisites are not all completed
type PrerequisiteWarning struct {
	RecordID string   `json:"recordId"`
	Code     string   `json:"code"`
	Name     string   `json:"name"`
	Missing  []string `json:"missing"`
}

// TermGroup holds the records of one term of a year
type TermGroup struct {
	Term    Term           `json:"term"`
	Credits int            `json:"credits"`
	Records []CourseRecord `json:"records"`
}

// YearGroup holds the term groups of one year
type YearGroup struct {
	Year  int         `json:"year"`
	Terms []TermGroup `json:"terms"`
}
