package services

import (
	"context"

	"github.com/yigit/gradplanner/internal/app/models"
)

// CourseRecordStore is the persistence the services need. It is implemented
// by repositories.CourseRecordRepository.
type CourseRecordStore interface {
	Create(ctx context.Context, userID string, draft models.CourseRecordDraft) (string, error)
	ImportAll(ctx context.Context, userID string, drafts []models.CourseRecordDraft) (int, error)
	GetByID(ctx context.Context, userID, id string) (*models.CourseRecord, error)
	ListAll(ctx context.Context, userID string) ([]models.CourseRecord, error)
	Update(ctx context.Context, userID, id string, patch models.CourseRecordPatch) error
	Delete(ctx context.Context, userID, id string) error
	CountByUser(ctx context.Context, userID string) (int, error)
}
