package models

// Category is the credit-accounting bucket of a course
type Category string

const (
	CategoryRequired Category = "required"
	CategoryLimited  Category = "limited"
	CategoryFree     Category = "free"
)

// Categories lists every category in display order
var Categories = []Category{CategoryRequired, CategoryLimited, CategoryFree}

// IsValid reports whether c is one of the known categories
func (c Category) IsValid() bool {
	switch c {
	case CategoryRequired, CategoryLimited, CategoryFree:
		return true
	}
	return false
}

// Status is the lifecycle status of a user course record
type Status string

const (
	StatusCompleted Status = "completed"
	StatusPlanned   Status = "planned"
)

// IsValid reports whether s is one of the known statuses
func (s Status) IsValid() bool {
	return s == StatusCompleted || s == StatusPlanned
}

// Term is the ordinal academic period inside a year (quadrimester)
type Term int

// Term constants
const (
	TermFirst  Term = 1
	TermSecond Term = 2
	TermThird  Term = 3
)

// IsValid reports whether t is 1, 2 or 3
func (t Term) IsValid() bool {
	return t >= TermFirst && t <= TermThird
}
