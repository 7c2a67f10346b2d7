package models

import "time"

// CourseRecord is a course taken or planned by a user.
type CourseRecord struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"-" db:"user_id"`
	Code      string    `json:"code" db:"code"`
	Name      string    `json:"name" db:"name"`
	Credits   int       `json:"credits" db:"credits"`
	Year      int       `json:"year" db:"year"`
	Term      Term      `json:"term" db:"term"`
	Category  Category  `json:"category" db:"category"`
	Status    Status    `json:"status" db:"status"`
	Grade     *string   `json:"grade,omitempty" db:"grade"` // Nullable, set only when completed
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// Draft returns the record without its identity and timestamps
func (r CourseRecord) Draft() CourseRecordDraft {
	return CourseRecordDraft{
		Code:     r.Code,
		Name:     r.Name,
		Credits:  r.Credits,
		Year:     r.Year,
		Term:     r.Term,
		Category: r.Category,
		Status:   r.Status,
		Grade:    r.Grade,
	}
}

// CourseRecordDraft is the native backup shape of a record (no id).
type CourseRecordDraft struct {
	Code     string   `json:"code"`
	Name     string   `json:"name"`
	Credits  int      `json:"credits"`
	Year     int      `json:"year"`
	Term     Term     `json:"term"`
	Category Category `json:"category"`
	Status   Status   `json:"status"`
	Grade    *string  `json:"grade,omitempty"`
}

// CourseRecordPatch carries the editable fields of a record. Nil fields are left untouched.
type CourseRecordPatch struct {
	Year       *int
	Term       *Term
	Category   *Category
	Status     *Status
	Grade      *string
	ClearGrade bool
}

// IsEmpty reports whether the patch changes nothing
func (p CourseRecordPatch) IsEmpty() bool {
	return p.Year == nil && p.Term == nil && p.Category == nil && p.Status == nil && p.Grade == nil && !p.ClearGrade
}

// ExternalRecord is one entry of an external academic transcript.
type ExternalRecord struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Credits  int    `json:"credits"`
	Period   string `json:"period"`
	Category string `json:"category"`
	Status   string `json:"status"`
	Grade    string `json:"grade,omitempty"`
}
