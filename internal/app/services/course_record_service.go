package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/yigit/gradplanner/internal/app/catalog"
	"github.com/yigit/gradplanner/internal/app/models"
	"github.com/yigit/gradplanner/internal/pkg/apperrors"
	"github.com/yigit/gradplanner/internal/pkg/helpers"
	"github.com/yigit/gradplanner/internal/pkg/notify"
)

const (
	minRecordYear  = 2000
	maxGradeLength = 8
)

// SnapshotFunc receives the full record set of a user after each change
type SnapshotFunc func(records []models.CourseRecord)

// CourseRecordService defines the interface for course record operations
type CourseRecordService interface {
	Create(ctx context.Context, userID string, draft models.CourseRecordDraft) (*models.CourseRecord, error)
	Get(ctx context.Context, userID, id string) (*models.CourseRecord, error)
	List(ctx context.Context, userID string) ([]models.CourseRecord, error)
	Update(ctx context.Context, userID, id string, patch models.CourseRecordPatch) (*models.CourseRecord, error)
	Delete(ctx context.Context, userID, id string) error
	Subscribe(ctx context.Context, userID string, onChange SnapshotFunc) (unsubscribe func(), err error)
}

// courseRecordServiceImpl implements CourseRecordService
type courseRecordServiceImpl struct {
	store   CourseRecordStore
	catalog *catalog.Store
	bus     notify.Bus
	logger  zerolog.Logger
	now     func() time.Time
}

// NewCourseRecordService creates a new CourseRecordService
func NewCourseRecordService(
	store CourseRecordStore,
	catalogStore *catalog.Store,
	bus notify.Bus,
	logger zerolog.Logger,
) CourseRecordService {
	return &courseRecordServiceImpl{
		store:   store,
		catalog: catalogStore,
		bus:     bus,
		logger:  logger.With().Str("service", "course_record").Logger(),
		now:     time.Now,
	}
}

// Create validates the draft, fills name and credits from the catalog when
// omitted and stores it
func (s *courseRecordServiceImpl) Create(ctx context.Context, userID string, draft models.CourseRecordDraft) (*models.CourseRecord, error) {
	draft, err := s.prepareDraft(draft)
	if err != nil {
		return nil, err
	}

	id, err := s.store.Create(ctx, userID, draft)
	if err != nil {
		return nil, fmt.Errorf("error creating course record: %w", err)
	}

	s.publish(ctx, userID)

	record, err := s.store.GetByID(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("error loading created course record: %w", err)
	}
	return record, nil
}

// Get retrieves one record of the user
func (s *courseRecordServiceImpl) Get(ctx context.Context, userID, id string) (*models.CourseRecord, error) {
	record, err := s.store.GetByID(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("error getting course record: %w", err)
	}
	return record, nil
}

// List returns every record of the user
func (s *courseRecordServiceImpl) List(ctx context.Context, userID string) ([]models.CourseRecord, error) {
	records, err := s.store.ListAll(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing course records: %w", err)
	}
	return records, nil
}

// Update applies a partial update. Moving a record to planned removes its grade.
func (s *courseRecordServiceImpl) Update(ctx context.Context, userID, id string, patch models.CourseRecordPatch) (*models.CourseRecord, error) {
	if patch.IsEmpty() {
		return nil, fmt.Errorf("%w: no fields to update", apperrors.ErrValidationFailed)
	}

	current, err := s.store.GetByID(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("error getting course record: %w", err)
	}

	patch, err = s.preparePatch(*current, patch)
	if err != nil {
		return nil, err
	}

	if err := s.store.Update(ctx, userID, id, patch); err != nil {
		return nil, fmt.Errorf("error updating course record: %w", err)
	}

	s.publish(ctx, userID)

	updated, err := s.store.GetByID(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("error loading updated course record: %w", err)
	}
	return updated, nil
}

// Delete removes one record of the user
func (s *courseRecordServiceImpl) Delete(ctx context.Context, userID, id string) error {
	if err := s.store.Delete(ctx, userID, id); err != nil {
		return fmt.Errorf("error deleting course record: %w", err)
	}
	s.publish(ctx, userID)
	return nil
}

// Subscribe calls onChange with the current records immediately and again
// after every change. Bursts of changes collapse into one reload; the
// snapshot handed over is always the latest one.
func (s *courseRecordServiceImpl) Subscribe(ctx context.Context, userID string, onChange SnapshotFunc) (func(), error) {
	ctx, cancel := context.WithCancel(ctx)

	// One pending reload is enough, further signals are dropped
	dirty := make(chan struct{}, 1)
	signal := func() {
		select {
		case dirty <- struct{}{}:
		default:
		}
	}

	unsubscribe, err := s.bus.Subscribe(ctx, userID, signal)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("error subscribing to course record changes: %w", err)
	}

	signal()
	go func() {
		for {
			select {
			case <-ctx.Done():
				unsubscribe()
				return
			case <-dirty:
				records, err := s.store.ListAll(ctx, userID)
				if err != nil {
					if ctx.Err() == nil {
						s.logger.Error().Err(err).Str("userID", userID).Msg("Failed to reload records for subscriber")
					}
					continue
				}
				// unsubscribed while the reload was running
				if ctx.Err() != nil {
					unsubscribe()
					return
				}
				onChange(records)
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			unsubscribe()
			cancel()
		})
	}, nil
}

func (s *courseRecordServiceImpl) publish(ctx context.Context, userID string) {
	if err := s.bus.Publish(ctx, userID); err != nil {
		// the write already succeeded, subscribers catch up on the next change
		s.logger.Warn().Err(err).Str("userID", userID).Msg("Failed to publish record change")
	}
}

// prepareDraft validates a draft coming from a form and normalizes it
func (s *courseRecordServiceImpl) prepareDraft(draft models.CourseRecordDraft) (models.CourseRecordDraft, error) {
	draft.Code = strings.TrimSpace(draft.Code)
	draft.Name = strings.TrimSpace(draft.Name)
	if draft.Code == "" {
		return draft, fmt.Errorf("%w: a course must be selected", apperrors.ErrValidationFailed)
	}

	if course, ok := s.catalog.LookupCourse(draft.Code); ok {
		if draft.Name == "" {
			draft.Name = course.Name
		}
		if draft.Credits == 0 {
			draft.Credits = course.Credits
		}
	}
	if draft.Name == "" {
		return draft, fmt.Errorf("%w: name is required for courses outside the catalog", apperrors.ErrValidationFailed)
	}
	if draft.Credits <= 0 {
		return draft, fmt.Errorf("%w: credits must be positive", apperrors.ErrValidationFailed)
	}

	if err := s.validateYear(draft.Year); err != nil {
		return draft, err
	}
	if !draft.Term.IsValid() {
		return draft, fmt.Errorf("%w: term must be 1, 2 or 3", apperrors.ErrValidationFailed)
	}
	if !draft.Category.IsValid() {
		return draft, fmt.Errorf("%w: unknown category %q", apperrors.ErrValidationFailed, draft.Category)
	}
	if !draft.Status.IsValid() {
		return draft, fmt.Errorf("%w: unknown status %q", apperrors.ErrValidationFailed, draft.Status)
	}

	grade, err := normalizeGrade(draft.Grade)
	if err != nil {
		return draft, err
	}
	if draft.Status != models.StatusCompleted {
		grade = nil
	}
	draft.Grade = grade

	return draft, nil
}

// preparePatch validates a patch against the stored record
func (s *courseRecordServiceImpl) preparePatch(current models.CourseRecord, patch models.CourseRecordPatch) (models.CourseRecordPatch, error) {
	if patch.Year != nil {
		if err := s.validateYear(*patch.Year); err != nil {
			return patch, err
		}
	}
	if patch.Term != nil && !patch.Term.IsValid() {
		return patch, fmt.Errorf("%w: term must be 1, 2 or 3", apperrors.ErrValidationFailed)
	}
	if patch.Category != nil && !patch.Category.IsValid() {
		return patch, fmt.Errorf("%w: unknown category %q", apperrors.ErrValidationFailed, *patch.Category)
	}
	if patch.Status != nil && !patch.Status.IsValid() {
		return patch, fmt.Errorf("%w: unknown status %q", apperrors.ErrValidationFailed, *patch.Status)
	}

	if patch.Grade != nil {
		grade, err := normalizeGrade(patch.Grade)
		if err != nil {
			return patch, err
		}
		patch.Grade = grade
		if grade == nil {
			patch.ClearGrade = true
		}
	}

	status := current.Status
	if patch.Status != nil {
		status = *patch.Status
	}
	if status != models.StatusCompleted {
		if patch.Grade != nil {
			return patch, fmt.Errorf("%w: only completed courses can have a grade", apperrors.ErrValidationFailed)
		}
		if current.Grade != nil {
			patch.ClearGrade = true
		}
	}

	return patch, nil
}

func (s *courseRecordServiceImpl) validateYear(year int) error {
	maxYear := helpers.MaxPlanYear(s.now())
	if year < minRecordYear || year > maxYear {
		return fmt.Errorf("%w: year must be between %d and %d", apperrors.ErrValidationFailed, minRecordYear, maxYear)
	}
	return nil
}

// normalizeGrade trims the grade; a blank grade becomes nil
func normalizeGrade(grade *string) (*string, error) {
	if grade == nil {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*grade)
	if trimmed == "" {
		return nil, nil
	}
	if len(trimmed) > maxGradeLength {
		return nil, fmt.Errorf("%w: grade must be at most %d characters", apperrors.ErrValidationFailed, maxGradeLength)
	}
	return &trimmed, nil
}
