// Package catalog holds the read-only registry of courses and curricula.
package catalog

import (
	"strings"

	"github.com/yigit/gradplanner/internal/app/models"
)

// CourseLookup is the part of the store the prerequisite checker needs
type CourseLookup interface {
	LookupCourse(code string) (models.CourseDefinition, bool)
}

// Store is an immutable registry of course and curriculum definitions.
// It is safe for concurrent reads.
type Store struct {
	courses     map[string]models.CourseDefinition
	courseOrder []string

	curricula       map[string]models.CurriculumDefinition
	curriculumOrder []string

	// code sets per curriculum, built once at load time
	required map[string]map[string]struct{}
	limited  map[string]map[string]struct{}
}

// LookupCourse returns the catalog definition of a course
func (s *Store) LookupCourse(code string) (models.CourseDefinition, bool) {
	course, ok := s.courses[code]
	return course, ok
}

// LookupCurriculum returns a curriculum definition by id
func (s *Store) LookupCurriculum(id string) (models.CurriculumDefinition, bool) {
	curriculum, ok := s.curricula[id]
	return curriculum, ok
}

// Classify returns the default category of a course code in a curriculum.
// Unknown curricula and codes in neither set are free.
func (s *Store) Classify(code, curriculumID string) models.Category {
	if _, ok := s.required[curriculumID][code]; ok {
		return models.CategoryRequired
	}
	if _, ok := s.limited[curriculumID][code]; ok {
		return models.CategoryLimited
	}
	return models.CategoryFree
}

// ListCurricula returns id and name of every curriculum in declaration order
func (s *Store) ListCurricula() []models.CurriculumSummary {
	list := make([]models.CurriculumSummary, 0, len(s.curriculumOrder))
	for _, id := range s.curriculumOrder {
		list = append(list, models.CurriculumSummary{ID: id, Name: s.curricula[id].Name})
	}
	return list
}

// DefaultCurriculumID returns the first declared curriculum, or "" for an empty catalog
func (s *Store) DefaultCurriculumID() string {
	if len(s.curriculumOrder) == 0 {
		return ""
	}
	return s.curriculumOrder[0]
}

// SearchCourses returns the courses whose code or name contains term, ignoring case.
// An empty term returns the whole catalog.
func (s *Store) SearchCourses(term string) []models.CourseDefinition {
	term = strings.ToLower(strings.TrimSpace(term))
	result := []models.CourseDefinition{}
	for _, code := range s.courseOrder {
		course := s.courses[code]
		if term == "" ||
			strings.Contains(strings.ToLower(course.Code), term) ||
			strings.Contains(strings.ToLower(course.Name), term) {
			result = append(result, course)
		}
	}
	return result
}

// CourseCount returns the number of catalog courses
func (s *Store) CourseCount() int {
	return len(s.courses)
}
