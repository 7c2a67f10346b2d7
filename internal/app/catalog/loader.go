package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yigit/gradplanner/internal/app/models"
	"github.com/yigit/gradplanner/internal/pkg/apperrors"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// document is the YAML layout of a catalog file
type document struct {
	Courses   []models.CourseDefinition     `yaml:"courses"`
	Curricula []models.CurriculumDefinition `yaml:"curricula"`
}

// Default returns the store built from the embedded catalog
func Default() (*Store, error) {
	return Parse(defaultCatalog)
}

// Load reads a catalog file. An empty path loads the embedded catalog.
func Load(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return Default()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	return Parse(data)
}

// Parse builds a store from a YAML document and validates it
func Parse(data []byte) (*Store, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidCatalog, err)
	}

	return build(doc)
}

func build(doc document) (*Store, error) {
	s := &Store{
		courses:   make(map[string]models.CourseDefinition, len(doc.Courses)),
		curricula: make(map[string]models.CurriculumDefinition, len(doc.Curricula)),
		required:  make(map[string]map[string]struct{}, len(doc.Curricula)),
		limited:   make(map[string]map[string]struct{}, len(doc.Curricula)),
	}

	for _, course := range doc.Courses {
		course.Code = strings.TrimSpace(course.Code)
		if course.Code == "" {
			return nil, fmt.Errorf("%w: course without code", apperrors.ErrInvalidCatalog)
		}
		if course.Credits <= 0 {
			return nil, fmt.Errorf("%w: course %s must have positive credits", apperrors.ErrInvalidCatalog, course.Code)
		}
		if _, dup := s.courses[course.Code]; dup {
			return nil, fmt.Errorf("%w: duplicate course code %s", apperrors.ErrInvalidCatalog, course.Code)
		}
		if course.Prerequisites == nil {
			course.Prerequisites = []string{}
		}
		s.courses[course.Code] = course
		s.courseOrder = append(s.courseOrder, course.Code)
	}

	for _, curriculum := range doc.Curricula {
		curriculum.ID = strings.TrimSpace(curriculum.ID)
		if curriculum.ID == "" {
			return nil, fmt.Errorf("%w: curriculum without id", apperrors.ErrInvalidCatalog)
		}
		if _, dup := s.curricula[curriculum.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate curriculum id %s", apperrors.ErrInvalidCatalog, curriculum.ID)
		}
		if curriculum.RequiredCredits < 0 || curriculum.LimitedCredits < 0 || curriculum.FreeCredits < 0 {
			return nil, fmt.Errorf("%w: curriculum %s has negative credit targets", apperrors.ErrInvalidCatalog, curriculum.ID)
		}

		required := toSet(curriculum.RequiredCourseCodes)
		limited := toSet(curriculum.LimitedCourseCodes)
		for code := range limited {
			if _, both := required[code]; both {
				return nil, fmt.Errorf("%w: curriculum %s lists %s as both required and limited",
					apperrors.ErrInvalidCatalog, curriculum.ID, code)
			}
		}

		s.curricula[curriculum.ID] = curriculum
		s.curriculumOrder = append(s.curriculumOrder, curriculum.ID)
		s.required[curriculum.ID] = required
		s.limited[curriculum.ID] = limited
	}

	return s, nil
}

func toSet(codes []string) map[string]struct{} {
	set := make(map[string]struct{}, len(codes))
	for _, code := range codes {
		set[code] = struct{}{}
	}
	return set
}
