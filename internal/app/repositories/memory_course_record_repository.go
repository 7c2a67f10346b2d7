package repositories

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yigit/gradplanner/internal/app/models"
	"github.com/yigit/gradplanner/internal/pkg/apperrors"
)

// MemoryCourseRecordRepository keeps course records in process memory. It
// backs the offline command line tools and has the same ordering and
// ownership rules as CourseRecordRepository.
type MemoryCourseRecordRepository struct {
	mu      sync.RWMutex
	records map[string][]models.CourseRecord
	now     func() time.Time
}

// NewMemoryCourseRecordRepository creates an empty repository
func NewMemoryCourseRecordRepository() *MemoryCourseRecordRepository {
	return &MemoryCourseRecordRepository{
		records: make(map[string][]models.CourseRecord),
		now:     time.Now,
	}
}

func (r *MemoryCourseRecordRepository) insert(userID string, draft models.CourseRecordDraft, now time.Time) string {
	id := uuid.New().String()
	r.records[userID] = append(r.records[userID], models.CourseRecord{
		ID:        id,
		UserID:    userID,
		Code:      draft.Code,
		Name:      draft.Name,
		Credits:   draft.Credits,
		Year:      draft.Year,
		Term:      draft.Term,
		Category:  draft.Category,
		Status:    draft.Status,
		Grade:     copyGrade(draft.Grade),
		CreatedAt: now,
		UpdatedAt: now,
	})
	return id
}

// Create stores a record for the user and returns its id.
func (r *MemoryCourseRecordRepository) Create(_ context.Context, userID string, draft models.CourseRecordDraft) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.insert(userID, draft, r.now()), nil
}

// ImportAll appends every draft.
func (r *MemoryCourseRecordRepository) ImportAll(_ context.Context, userID string, drafts []models.CourseRecordDraft) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	for _, draft := range drafts {
		r.insert(userID, draft, now)
	}
	return len(drafts), nil
}

func (r *MemoryCourseRecordRepository) find(userID, id string) (int, bool) {
	for i, record := range r.records[userID] {
		if record.ID == id {
			return i, true
		}
	}
	return 0, false
}

// GetByID retrieves one record of the user.
func (r *MemoryCourseRecordRepository) GetByID(_ context.Context, userID, id string) (*models.CourseRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i, ok := r.find(userID, id)
	if !ok {
		return nil, apperrors.ErrCourseRecordNotFound
	}
	record := r.records[userID][i]
	record.Grade = copyGrade(record.Grade)
	return &record, nil
}

// ListAll returns every record of the user ordered by period, then insertion.
func (r *MemoryCourseRecordRepository) ListAll(_ context.Context, userID string) ([]models.CourseRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	records := make([]models.CourseRecord, len(r.records[userID]))
	for i, record := range r.records[userID] {
		record.Grade = copyGrade(record.Grade)
		records[i] = record
	}
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Year != records[j].Year {
			return records[i].Year < records[j].Year
		}
		return records[i].Term < records[j].Term
	})
	return records, nil
}

// Update applies a partial update. ClearGrade removes the grade.
func (r *MemoryCourseRecordRepository) Update(_ context.Context, userID, id string, patch models.CourseRecordPatch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i, ok := r.find(userID, id)
	if !ok {
		return apperrors.ErrCourseRecordNotFound
	}

	record := &r.records[userID][i]
	if patch.Year != nil {
		record.Year = *patch.Year
	}
	if patch.Term != nil {
		record.Term = *patch.Term
	}
	if patch.Category != nil {
		record.Category = *patch.Category
	}
	if patch.Status != nil {
		record.Status = *patch.Status
	}
	if patch.ClearGrade {
		record.Grade = nil
	} else if patch.Grade != nil {
		record.Grade = copyGrade(patch.Grade)
	}
	record.UpdatedAt = r.now()
	return nil
}

// Delete removes one record of the user.
func (r *MemoryCourseRecordRepository) Delete(_ context.Context, userID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i, ok := r.find(userID, id)
	if !ok {
		return apperrors.ErrCourseRecordNotFound
	}
	r.records[userID] = append(r.records[userID][:i], r.records[userID][i+1:]...)
	return nil
}

// CountByUser returns how many records the user has.
func (r *MemoryCourseRecordRepository) CountByUser(_ context.Context, userID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records[userID]), nil
}

func copyGrade(grade *string) *string {
	if grade == nil {
		return nil
	}
	g := *grade
	return &g
}
