package services

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/yigit/gradplanner/internal/app/catalog"
	"github.com/yigit/gradplanner/internal/app/models"
	"github.com/yigit/gradplanner/internal/app/transcript"
	"github.com/yigit/gradplanner/internal/pkg/notify"
)

// ImportResult summarizes an import
type ImportResult struct {
	Imported int
	Format   transcript.Format
}

// TransferService moves record sets in and out of the planner
type TransferService interface {
	Import(ctx context.Context, userID string, data []byte) (*ImportResult, error)
	Export(ctx context.Context, userID string) ([]byte, error)
	ExportWorkbook(ctx context.Context, userID string, w io.Writer) error
}

// transferServiceImpl implements TransferService
type transferServiceImpl struct {
	store   CourseRecordStore
	catalog *catalog.Store
	bus     notify.Bus
	logger  zerolog.Logger
}

// NewTransferService creates a new TransferService
func NewTransferService(
	store CourseRecordStore,
	catalogStore *catalog.Store,
	bus notify.Bus,
	logger zerolog.Logger,
) TransferService {
	return &transferServiceImpl{
		store:   store,
		catalog: catalogStore,
		bus:     bus,
		logger:  logger.With().Str("service", "transfer").Logger(),
	}
}

// Import decodes a backup or transcript file and appends its records. A
// malformed file stores nothing.
func (s *transferServiceImpl) Import(ctx context.Context, userID string, data []byte) (*ImportResult, error) {
	drafts, format, err := transcript.Decode(data)
	if err != nil {
		return nil, err
	}

	for i := range drafts {
		s.fillFromCatalog(&drafts[i])
	}

	imported, err := s.store.ImportAll(ctx, userID, drafts)
	if err != nil {
		return nil, fmt.Errorf("error importing course records: %w", err)
	}

	s.logger.Info().
		Str("userID", userID).
		Str("format", string(format)).
		Int("imported", imported).
		Msg("Course records imported")

	if imported > 0 {
		if err := s.bus.Publish(ctx, userID); err != nil {
			s.logger.Warn().Err(err).Str("userID", userID).Msg("Failed to publish record change")
		}
	}

	return &ImportResult{Imported: imported, Format: format}, nil
}

// Export renders the user's records as a backup file
func (s *transferServiceImpl) Export(ctx context.Context, userID string) ([]byte, error) {
	records, err := s.store.ListAll(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing course records: %w", err)
	}
	return transcript.Encode(records)
}

// ExportWorkbook writes the user's records as an xlsx workbook
func (s *transferServiceImpl) ExportWorkbook(ctx context.Context, userID string, w io.Writer) error {
	records, err := s.store.ListAll(ctx, userID)
	if err != nil {
		return fmt.Errorf("error listing course records: %w", err)
	}
	return transcript.EncodeWorkbook(records, w)
}

// fillFromCatalog completes name and credits that the file left empty
func (s *transferServiceImpl) fillFromCatalog(draft *models.CourseRecordDraft) {
	course, ok := s.catalog.LookupCourse(draft.Code)
	if !ok {
		return
	}
	if draft.Name == "" {
		draft.Name = course.Name
	}
	if draft.Credits == 0 {
		draft.Credits = course.Credits
	}
}
