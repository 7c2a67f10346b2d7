package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/yigit/gradplanner/internal/app/catalog"
	"github.com/yigit/gradplanner/internal/app/models"
	"github.com/yigit/gradplanner/internal/pkg/apperrors"
)

const testCatalogYAML = `
courses:
  - { code: CALC1, name: Calculus I, credits: 4 }
  - { code: CALC2, name: Calculus II, credits: 4, prerequisites: [CALC1] }
  - { code: NET, name: Networks, credits: 4 }
  - { code: ART, name: Art History, credits: 2 }
curricula:
  - id: eng
    name: Engineering
    required_credits: 8
    limited_credits: 4
    free_credits: 2
    required: [CALC1, CALC2]
    limited: [NET]
  - id: sci
    name: Science
    required_credits: 4
    limited_credits: 0
    free_credits: 0
    required: [CALC1]
`

func testCatalog() *catalog.Store {
	store, err := catalog.Parse([]byte(testCatalogYAML))
	if err != nil {
		panic(err)
	}
	return store
}

// memoryStore is an in-memory CourseRecordStore
type memoryStore struct {
	mu      sync.Mutex
	seq     int
	records map[string][]models.CourseRecord
	failOn  string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{records: make(map[string][]models.CourseRecord)}
}

func (m *memoryStore) fail(op string) error {
	if m.failOn == op {
		return fmt.Errorf("%s: storage unavailable", op)
	}
	return nil
}

func (m *memoryStore) insert(userID string, draft models.CourseRecordDraft) string {
	m.seq++
	id := fmt.Sprintf("rec-%d", m.seq)
	now := time.Now()
	m.records[userID] = append(m.records[userID], models.CourseRecord{
		ID: id, UserID: userID, Code: draft.Code, Name: draft.Name, Credits: draft.Credits,
		Year: draft.Year, Term: draft.Term, Category: draft.Category, Status: draft.Status,
		Grade: draft.Grade, CreatedAt: now, UpdatedAt: now,
	})
	return id
}

func (m *memoryStore) Create(_ context.Context, userID string, draft models.CourseRecordDraft) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("create"); err != nil {
		return "", err
	}
	return m.insert(userID, draft), nil
}

func (m *memoryStore) ImportAll(_ context.Context, userID string, drafts []models.CourseRecordDraft) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("import"); err != nil {
		return 0, err
	}
	for _, d := range drafts {
		m.insert(userID, d)
	}
	return len(drafts), nil
}

func (m *memoryStore) find(userID, id string) (int, bool) {
	for i, r := range m.records[userID] {
		if r.ID == id {
			return i, true
		}
	}
	return 0, false
}

func (m *memoryStore) GetByID(_ context.Context, userID, id string) (*models.CourseRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i, ok := m.find(userID, id)
	if !ok {
		return nil, apperrors.ErrCourseRecordNotFound
	}
	record := m.records[userID][i]
	return &record, nil
}

func (m *memoryStore) ListAll(_ context.Context, userID string) ([]models.CourseRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("list"); err != nil {
		return nil, err
	}
	out := make([]models.CourseRecord, len(m.records[userID]))
	copy(out, m.records[userID])
	return out, nil
}

func (m *memoryStore) Update(_ context.Context, userID, id string, patch models.CourseRecordPatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i, ok := m.find(userID, id)
	if !ok {
		return apperrors.ErrCourseRecordNotFound
	}
	r := &m.records[userID][i]
	if patch.Year != nil {
		r.Year = *patch.Year
	}
	if patch.Term != nil {
		r.Term = *patch.Term
	}
	if patch.Category != nil {
		r.Category = *patch.Category
	}
	if patch.Status != nil {
		r.Status = *patch.Status
	}
	if patch.ClearGrade {
		r.Grade = nil
	} else if patch.Grade != nil {
		g := *patch.Grade
		r.Grade = &g
	}
	r.UpdatedAt = time.Now()
	return nil
}

func (m *memoryStore) Delete(_ context.Context, userID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i, ok := m.find(userID, id)
	if !ok {
		return apperrors.ErrCourseRecordNotFound
	}
	m.records[userID] = append(m.records[userID][:i], m.records[userID][i+1:]...)
	return nil
}

func (m *memoryStore) CountByUser(_ context.Context, userID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records[userID]), nil
}

func nopLogger() zerolog.Logger {
	return zerolog.Nop()
}

func strPtr(s string) *string { return &s }
