package progress

import (
	"math"
	"strings"

	"github.com/yigit/gradplanner/internal/app/models"
)

// NoGrade is returned when no record carries a known grade
const NoGrade = "N/A"

// gradePoints maps letter grades to the ordinal scale. "0" is the failing zero sentinel.
var gradePoints = map[string]int{
	"A": 4,
	"B": 3,
	"C": 2,
	"D": 1,
	"F": 0,
	"0": 0,
}

var pointLetters = map[int]string{4: "A", 3: "B", 2: "C", 1: "D", 0: "F"}

// GradePoints returns the ordinal value of a grade, ignoring case and surrounding space
func GradePoints(grade string) (int, bool) {
	points, ok := gradePoints[strings.ToUpper(strings.TrimSpace(grade))]
	return points, ok
}

// AverageGrade returns the credit-weighted mean grade of the completed records
// as a letter. Records without a known grade are skipped.
func AverageGrade(records []models.CourseRecord) string {
	var totalPoints, totalCredits int
	for _, r := range records {
		if r.Status != models.StatusCompleted || r.Grade == nil {
			continue
		}
		points, ok := GradePoints(*r.Grade)
		if !ok {
			continue
		}
		totalPoints += points * r.Credits
		totalCredits += r.Credits
	}

	if totalCredits == 0 {
		return NoGrade
	}

	mean := float64(totalPoints) / float64(totalCredits)
	// half rounds up, the mean is never negative
	letter, ok := pointLetters[int(math.Floor(mean+0.5))]
	if !ok {
		return NoGrade
	}
	return letter
}
