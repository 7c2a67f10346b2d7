package services

import (
	"fmt"
	"strings"

	"github.com/yigit/gradplanner/internal/app/catalog"
	"github.com/yigit/gradplanner/internal/app/models"
	"github.com/yigit/gradplanner/internal/pkg/apperrors"
)

// CatalogService exposes the course and curriculum registry
type CatalogService interface {
	ListCurricula() []models.CurriculumSummary
	GetCurriculum(id string) (*models.CurriculumDefinition, error)
	ResolveCurriculum(id string) (*models.CurriculumDefinition, error)
	DefaultCurriculumID() string
	GetCourse(code string) (*models.CourseDefinition, error)
	SearchCourses(term string) []models.CourseDefinition
	Classify(code, curriculumID string) (models.Category, error)
}

// catalogServiceImpl implements CatalogService
type catalogServiceImpl struct {
	store             *catalog.Store
	defaultCurriculum string
}

// NewCatalogService creates a new CatalogService. defaultCurriculum
// overrides the first declared curriculum when it names a known one.
func NewCatalogService(store *catalog.Store, defaultCurriculum string) (CatalogService, error) {
	defaultCurriculum = strings.TrimSpace(defaultCurriculum)
	if defaultCurriculum == "" {
		defaultCurriculum = store.DefaultCurriculumID()
	} else if _, ok := store.LookupCurriculum(defaultCurriculum); !ok {
		return nil, fmt.Errorf("%w: default curriculum %q is not defined", apperrors.ErrInvalidCatalog, defaultCurriculum)
	}

	return &catalogServiceImpl{
		store:             store,
		defaultCurriculum: defaultCurriculum,
	}, nil
}

// ListCurricula returns every curriculum id and name
func (s *catalogServiceImpl) ListCurricula() []models.CurriculumSummary {
	return s.store.ListCurricula()
}

// GetCurriculum returns a curriculum by id
func (s *catalogServiceImpl) GetCurriculum(id string) (*models.CurriculumDefinition, error) {
	curriculum, ok := s.store.LookupCurriculum(id)
	if !ok {
		return nil, apperrors.ErrCurriculumNotFound
	}
	return &curriculum, nil
}

// ResolveCurriculum is GetCurriculum with an empty id meaning the default curriculum
func (s *catalogServiceImpl) ResolveCurriculum(id string) (*models.CurriculumDefinition, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		id = s.defaultCurriculum
	}
	return s.GetCurriculum(id)
}

// DefaultCurriculumID returns the curriculum used when none is requested
func (s *catalogServiceImpl) DefaultCurriculumID() string {
	return s.defaultCurriculum
}

// GetCourse returns a course definition by code
func (s *catalogServiceImpl) GetCourse(code string) (*models.CourseDefinition, error) {
	course, ok := s.store.LookupCourse(strings.TrimSpace(code))
	if !ok {
		return nil, apperrors.ErrCourseNotFound
	}
	return &course, nil
}

// SearchCourses returns the courses matching term by code or name
func (s *catalogServiceImpl) SearchCourses(term string) []models.CourseDefinition {
	return s.store.SearchCourses(term)
}

// Classify returns the default category of code in the curriculum. Codes
// outside the catalog are free; only an unknown curriculum is an error.
func (s *catalogServiceImpl) Classify(code, curriculumID string) (models.Category, error) {
	if _, ok := s.store.LookupCurriculum(curriculumID); !ok {
		return "", apperrors.ErrCurriculumNotFound
	}
	return s.store.Classify(code, curriculumID), nil
}
