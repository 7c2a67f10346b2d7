package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/yigit/gradplanner/internal/app/catalog"
	"github.com/yigit/gradplanner/internal/app/models"
	"github.com/yigit/gradplanner/internal/app/progress"
)

// PrerequisiteCheck is the result of checking one course against a user's history
type PrerequisiteCheck struct {
	Code      string
	Satisfied bool
	Missing   []string
}

// ProgressService derives degree progress from a user's records
type ProgressService interface {
	Stats(ctx context.Context, userID, curriculumID string) (*models.Stats, error)
	Snapshot(records []models.CourseRecord, curriculumID string) (*models.Stats, error)
	Prerequisites(ctx context.Context, userID string) ([]models.PrerequisiteWarning, error)
	Check(ctx context.Context, userID, code string) (*PrerequisiteCheck, error)
	AverageGrade(ctx context.Context, userID string) (string, error)
	Timeline(ctx context.Context, userID string, filter progress.RecordFilter) ([]models.YearGroup, error)
}

// progressServiceImpl implements ProgressService
type progressServiceImpl struct {
	store     CourseRecordStore
	catalog   *catalog.Store
	curricula CatalogService
	logger    zerolog.Logger
}

// NewProgressService creates a new ProgressService
func NewProgressService(
	store CourseRecordStore,
	catalogStore *catalog.Store,
	curricula CatalogService,
	logger zerolog.Logger,
) ProgressService {
	return &progressServiceImpl{
		store:     store,
		catalog:   catalogStore,
		curricula: curricula,
		logger:    logger.With().Str("service", "progress").Logger(),
	}
}

func (s *progressServiceImpl) records(ctx context.Context, userID string) ([]models.CourseRecord, error) {
	records, err := s.store.ListAll(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing course records: %w", err)
	}
	return records, nil
}

// Stats computes the progress of the user against a curriculum. An empty
// curriculum id selects the default curriculum.
func (s *progressServiceImpl) Stats(ctx context.Context, userID, curriculumID string) (*models.Stats, error) {
	curriculum, err := s.curricula.ResolveCurriculum(curriculumID)
	if err != nil {
		return nil, err
	}

	records, err := s.records(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats := progress.ComputeStats(records, *curriculum)
	s.logger.Debug().
		Str("userID", userID).
		Str("curriculum", curriculum.ID).
		Int("records", len(records)).
		Float64("overallPercent", stats.OverallPercent).
		Msg("Computed progress stats")
	return &stats, nil
}

// Snapshot computes stats over records already in hand
func (s *progressServiceImpl) Snapshot(records []models.CourseRecord, curriculumID string) (*models.Stats, error) {
	curriculum, err := s.curricula.ResolveCurriculum(curriculumID)
	if err != nil {
		return nil, err
	}
	stats := progress.ComputeStats(records, *curriculum)
	return &stats, nil
}

// Prerequisites lists the records whose prerequisites are not completed
func (s *progressServiceImpl) Prerequisites(ctx context.Context, userID string) ([]models.PrerequisiteWarning, error) {
	records, err := s.records(ctx, userID)
	if err != nil {
		return nil, err
	}
	return progress.PrerequisiteWarnings(s.catalog, records), nil
}

// Check reports whether the user may take code given the completed records
func (s *progressServiceImpl) Check(ctx context.Context, userID, code string) (*PrerequisiteCheck, error) {
	records, err := s.records(ctx, userID)
	if err != nil {
		return nil, err
	}

	completed := progress.CompletedCodes(records)
	missing := progress.MissingPrerequisites(s.catalog, code, completed)
	if missing == nil {
		missing = []string{}
	}
	return &PrerequisiteCheck{
		Code:      code,
		Satisfied: progress.IsSatisfied(s.catalog, code, completed),
		Missing:   missing,
	}, nil
}

// AverageGrade returns the credit-weighted average letter of completed records
func (s *progressServiceImpl) AverageGrade(ctx context.Context, userID string) (string, error) {
	records, err := s.records(ctx, userID)
	if err != nil {
		return "", err
	}
	return progress.AverageGrade(records), nil
}

// Timeline groups the filtered records by year and term
func (s *progressServiceImpl) Timeline(ctx context.Context, userID string, filter progress.RecordFilter) ([]models.YearGroup, error) {
	records, err := s.records(ctx, userID)
	if err != nil {
		return nil, err
	}
	return progress.GroupByPeriod(progress.Filter(records, filter)), nil
}
