package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/gradplanner/internal/app/models"
	"github.com/yigit/gradplanner/internal/pkg/apperrors"
	"github.com/yigit/gradplanner/internal/pkg/notify"
)

func newRecordService(t *testing.T) (*courseRecordServiceImpl, *memoryStore, *notify.MemoryBus) {
	t.Helper()
	store := newMemoryStore()
	bus := notify.NewMemoryBus()
	svc := NewCourseRecordService(store, testCatalog(), bus, nopLogger()).(*courseRecordServiceImpl)
	svc.now = func() time.Time { return time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC) }
	return svc, store, bus
}

func validDraft() models.CourseRecordDraft {
	return models.CourseRecordDraft{
		Code: "CALC1", Year: 2024, Term: 1,
		Category: models.CategoryRequired, Status: models.StatusCompleted,
		Grade: strPtr(" A "),
	}
}

func TestCreateFillsFromCatalog(t *testing.T) {
	svc, _, _ := newRecordService(t)

	record, err := svc.Create(context.Background(), "alice", validDraft())
	require.NoError(t, err)

	assert.Equal(t, "Calculus I", record.Name)
	assert.Equal(t, 4, record.Credits)
	require.NotNil(t, record.Grade)
	assert.Equal(t, "A", *record.Grade)
}

func TestCreateValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(d *models.CourseRecordDraft)
	}{
		{name: "no course selected", mutate: func(d *models.CourseRecordDraft) { d.Code = "  " }},
		{name: "year too early", mutate: func(d *models.CourseRecordDraft) { d.Year = 1999 }},
		{name: "year too far ahead", mutate: func(d *models.CourseRecordDraft) { d.Year = 2037 }},
		{name: "term out of range", mutate: func(d *models.CourseRecordDraft) { d.Term = 4 }},
		{name: "unknown category", mutate: func(d *models.CourseRecordDraft) { d.Category = "elective" }},
		{name: "unknown status", mutate: func(d *models.CourseRecordDraft) { d.Status = "failed" }},
		{name: "grade too long", mutate: func(d *models.CourseRecordDraft) { d.Grade = strPtr("EXCELLENT") }},
		{name: "orphan without name", mutate: func(d *models.CourseRecordDraft) { d.Code = "XYZ"; d.Credits = 2 }},
		{name: "orphan without credits", mutate: func(d *models.CourseRecordDraft) { d.Code = "XYZ"; d.Name = "Elective" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store, _ := newRecordService(t)
			d := validDraft()
			tt.mutate(&d)

			_, err := svc.Create(context.Background(), "alice", d)
			require.Error(t, err)
			assert.True(t, errors.Is(err, apperrors.ErrValidationFailed))

			count, _ := store.CountByUser(context.Background(), "alice")
			assert.Zero(t, count)
		})
	}
}

func TestCreateBoundaryYears(t *testing.T) {
	svc, _, _ := newRecordService(t)
	for _, year := range []int{2000, 2036} {
		d := validDraft()
		d.Year = year
		_, err := svc.Create(context.Background(), "alice", d)
		assert.NoError(t, err, "year %d", year)
	}
}

func TestCreatePlannedDropsGrade(t *testing.T) {
	svc, _, _ := newRecordService(t)
	d := validDraft()
	d.Status = models.StatusPlanned

	record, err := svc.Create(context.Background(), "alice", d)
	require.NoError(t, err)
	assert.Nil(t, record.Grade)
}

func TestCreateOrphanCourse(t *testing.T) {
	svc, _, _ := newRecordService(t)
	d := models.CourseRecordDraft{
		Code: "EXT-01", Name: "Exchange course", Credits: 3, Year: 2025, Term: 2,
		Category: models.CategoryFree, Status: models.StatusPlanned,
	}

	record, err := svc.Create(context.Background(), "alice", d)
	require.NoError(t, err)
	assert.Equal(t, "Exchange course", record.Name)
}

func TestUpdateToPlannedClearsGrade(t *testing.T) {
	svc, _, _ := newRecordService(t)
	ctx := context.Background()
	created, err := svc.Create(ctx, "alice", validDraft())
	require.NoError(t, err)

	planned := models.StatusPlanned
	updated, err := svc.Update(ctx, "alice", created.ID, models.CourseRecordPatch{Status: &planned})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPlanned, updated.Status)
	assert.Nil(t, updated.Grade)
}

func TestUpdateRejectsGradeOnPlanned(t *testing.T) {
	svc, _, _ := newRecordService(t)
	ctx := context.Background()
	d := validDraft()
	d.Status = models.StatusPlanned
	created, err := svc.Create(ctx, "alice", d)
	require.NoError(t, err)

	_, err = svc.Update(ctx, "alice", created.ID, models.CourseRecordPatch{Grade: strPtr("B")})
	assert.True(t, errors.Is(err, apperrors.ErrValidationFailed))

	// completing it and grading in one step is fine
	completed := models.StatusCompleted
	updated, err := svc.Update(ctx, "alice", created.ID, models.CourseRecordPatch{Status: &completed, Grade: strPtr("B")})
	require.NoError(t, err)
	require.NotNil(t, updated.Grade)
	assert.Equal(t, "B", *updated.Grade)
}

func TestUpdateBlankGradeClearsIt(t *testing.T) {
	svc, _, _ := newRecordService(t)
	ctx := context.Background()
	created, err := svc.Create(ctx, "alice", validDraft())
	require.NoError(t, err)

	updated, err := svc.Update(ctx, "alice", created.ID, models.CourseRecordPatch{Grade: strPtr("")})
	require.NoError(t, err)
	assert.Nil(t, updated.Grade)
}

func TestUpdateErrors(t *testing.T) {
	svc, _, _ := newRecordService(t)
	ctx := context.Background()
	created, err := svc.Create(ctx, "alice", validDraft())
	require.NoError(t, err)

	_, err = svc.Update(ctx, "alice", created.ID, models.CourseRecordPatch{})
	assert.True(t, errors.Is(err, apperrors.ErrValidationFailed))

	year := 1990
	_, err = svc.Update(ctx, "alice", created.ID, models.CourseRecordPatch{Year: &year})
	assert.True(t, errors.Is(err, apperrors.ErrValidationFailed))

	_, err = svc.Update(ctx, "bob", created.ID, models.CourseRecordPatch{Year: &year})
	assert.True(t, errors.Is(err, apperrors.ErrResourceNotFound))
}

func TestMutationsPublish(t *testing.T) {
	svc, _, bus := newRecordService(t)
	ctx := context.Background()

	var mu sync.Mutex
	notifications := 0
	unsub, err := bus.Subscribe(ctx, "alice", func() {
		mu.Lock()
		notifications++
		mu.Unlock()
	})
	require.NoError(t, err)
	defer unsub()

	created, err := svc.Create(ctx, "alice", validDraft())
	require.NoError(t, err)
	year := 2025
	_, err = svc.Update(ctx, "alice", created.ID, models.CourseRecordPatch{Year: &year})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, "alice", created.ID))

	// failed writes do not notify
	assert.Error(t, svc.Delete(ctx, "alice", created.ID))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 3, notifications)
}

func TestSubscribeDeliversSnapshots(t *testing.T) {
	svc, _, bus := newRecordService(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	snapshots := make(chan []models.CourseRecord, 8)
	unsub, err := svc.Subscribe(ctx, "alice", func(records []models.CourseRecord) {
		snapshots <- records
	})
	require.NoError(t, err)

	// initial snapshot
	select {
	case records := <-snapshots:
		assert.Empty(t, records)
	case <-time.After(2 * time.Second):
		t.Fatal("no initial snapshot")
	}

	_, err = svc.Create(ctx, "alice", validDraft())
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		select {
		case records := <-snapshots:
			return len(records) == 1
		default:
			return false
		}
	}, 2*time.Second, 10*time.Millisecond)

	unsub()
	unsub()
	assert.Eventually(t, func() bool { return bus.Subscribers("alice") == 0 }, time.Second, 10*time.Millisecond)
}

func TestSubscribeStopsWithContext(t *testing.T) {
	svc, _, bus := newRecordService(t)
	ctx, cancel := context.WithCancel(context.Background())

	_, err := svc.Subscribe(ctx, "alice", func([]models.CourseRecord) {})
	require.NoError(t, err)
	assert.Equal(t, 1, bus.Subscribers("alice"))

	cancel()
	assert.Eventually(t, func() bool { return bus.Subscribers("alice") == 0 }, time.Second, 10*time.Millisecond)
}

// slowListStore holds ListAll until release is closed
type slowListStore struct {
	*memoryStore
	entered chan struct{}
	release chan struct{}
}

func (s *slowListStore) ListAll(ctx context.Context, userID string) ([]models.CourseRecord, error) {
	close(s.entered)
	<-s.release
	return s.memoryStore.ListAll(ctx, userID)
}

func TestSubscribeDropsReloadFinishedAfterUnsubscribe(t *testing.T) {
	store := &slowListStore{
		memoryStore: newMemoryStore(),
		entered:     make(chan struct{}),
		release:     make(chan struct{}),
	}
	bus := notify.NewMemoryBus()
	svc := NewCourseRecordService(store, testCatalog(), bus, nopLogger())

	var mu sync.Mutex
	delivered := 0
	unsub, err := svc.Subscribe(context.Background(), "alice", func([]models.CourseRecord) {
		mu.Lock()
		delivered++
		mu.Unlock()
	})
	require.NoError(t, err)

	select {
	case <-store.entered:
	case <-time.After(2 * time.Second):
		t.Fatal("initial reload never started")
	}
	unsub()
	close(store.release)

	assert.Never(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return delivered > 0
	}, 200*time.Millisecond, 10*time.Millisecond)
	assert.Equal(t, 0, bus.Subscribers("alice"))
}
