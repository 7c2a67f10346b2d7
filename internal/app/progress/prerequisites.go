// Package progress computes degree-progress statistics, prerequisite
// warnings and grade averages from a snapshot of course records.
// Every function here is pure and safe to call from any goroutine.
package progress

import (
	"github.com/yigit/gradplanner/internal/app/catalog"
	"github.com/yigit/gradplanner/internal/app/models"
)

// CodeSet is a set of course codes
type CodeSet map[string]struct{}

// Has reports whether code is in the set
func (s CodeSet) Has(code string) bool {
	_, ok := s[code]
	return ok
}

// CompletedCodes returns the codes of every completed record
func CompletedCodes(records []models.CourseRecord) CodeSet {
	set := make(CodeSet, len(records))
	for _, r := range records {
		if r.Status == models.StatusCompleted {
			set[r.Code] = struct{}{}
		}
	}
	return set
}

// IsSatisfied reports whether every direct prerequisite of code is in completed.
// Courses missing from the catalog or without prerequisites are always satisfied.
func IsSatisfied(lookup catalog.CourseLookup, code string, completed CodeSet) bool {
	return len(MissingPrerequisites(lookup, code, completed)) == 0
}

// MissingPrerequisites returns the direct prerequisites of code that are not in completed,
// in catalog order. Prerequisites of prerequisites are not inspected.
func MissingPrerequisites(lookup catalog.CourseLookup, code string, completed CodeSet) []string {
	course, ok := lookup.LookupCourse(code)
	if !ok || len(course.Prerequisites) == 0 {
		return nil
	}

	var missing []string
	for _, req := range course.Prerequisites {
		if !completed.Has(req) {
			missing = append(missing, req)
		}
	}
	return missing
}

// PrerequisiteWarnings lists the records whose prerequisites are not all completed.
// The warnings are advisory; they never block an edit.
func PrerequisiteWarnings(lookup catalog.CourseLookup, records []models.CourseRecord) []models.PrerequisiteWarning {
	completed := CompletedCodes(records)
	warnings := []models.PrerequisiteWarning{}
	for _, r := range records {
		missing := MissingPrerequisites(lookup, r.Code, completed)
		if len(missing) == 0 {
			continue
		}
		warnings = append(warnings, models.PrerequisiteWarning{
			RecordID: r.ID,
			Code:     r.Code,
			Name:     r.Name,
			Missing:  missing,
		})
	}
	return warnings
}
