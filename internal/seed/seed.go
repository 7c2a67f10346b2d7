package seed

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	appModels "github.com/yigit/gradplanner/internal/app/models"
)

// RecordStore is the part of the record repository the seeder needs
type RecordStore interface {
	CountByUser(ctx context.Context, userID string) (int, error)
	ImportAll(ctx context.Context, userID string, drafts []appModels.CourseRecordDraft) (int, error)
}

func grade(g string) *string { return &g }

// demoPlan is a first-year history with the second year planned. Years are
// offsets from the year the plan starts.
func demoPlan(startYear int) []appModels.CourseRecordDraft {
	completed := func(code, name string, credits, yearOffset int, term appModels.Term, g string) appModels.CourseRecordDraft {
		return appModels.CourseRecordDraft{
			Code: code, Name: name, Credits: credits, Year: startYear + yearOffset, Term: term,
			Category: appModels.CategoryRequired, Status: appModels.StatusCompleted, Grade: grade(g),
		}
	}
	planned := func(code, name string, credits, yearOffset int, term appModels.Term, category appModels.Category) appModels.CourseRecordDraft {
		return appModels.CourseRecordDraft{
			Code: code, Name: name, Credits: credits, Year: startYear + yearOffset, Term: term,
			Category: category, Status: appModels.StatusPlanned,
		}
	}

	return []appModels.CourseRecordDraft{
		completed("BIS0003-15", "Bases Matemáticas", 4, 0, appModels.TermFirst, "A"),
		completed("BIS0005-15", "Bases Computacionais da Ciência", 2, 0, appModels.TermFirst, "B"),
		completed("BIK0102-15", "Estrutura da Matéria", 3, 0, appModels.TermFirst, "C"),
		completed("BCN0404-15", "Geometria Analítica", 3, 0, appModels.TermSecond, "B"),
		completed("BCN0402-15", "Funções de Uma Variável", 4, 0, appModels.TermSecond, "B"),
		completed("BCM0504-15", "Natureza da Informação", 3, 0, appModels.TermSecond, "A"),
		completed("BCJ0204-15", "Fenômenos Mecânicos", 5, 0, appModels.TermThird, "C"),
		planned("BCM0505-15", "Processamento da Informação", 5, 1, appModels.TermFirst, appModels.CategoryRequired),
		planned("BCN0407-15", "Funções de Várias Variáveis", 4, 1, appModels.TermFirst, appModels.CategoryRequired),
		planned("ESZI013-17", "Informática Industrial", 4, 1, appModels.TermSecond, appModels.CategoryLimited),
		planned("BCJ0203-15", "Fenômenos Eletromagnéticos", 5, 1, appModels.TermThird, appModels.CategoryRequired),
	}
}

// CreateDefaultData gives the demo user a sample plan when they have no
// records yet. Running it again is a no-op.
func CreateDefaultData(ctx context.Context, store RecordStore, demoUserID string, startYear int, lgr zerolog.Logger) error {
	if demoUserID == "" {
		lgr.Debug().Msg("No demo user configured, skipping seed")
		return nil
	}

	lgr.Info().Str("userID", demoUserID).Msg("Checking/Creating demo plan...")

	count, err := store.CountByUser(ctx, demoUserID)
	if err != nil {
		return fmt.Errorf("failed to count demo user records: %w", err)
	}
	if count > 0 {
		lgr.Info().Int("records", count).Msg("Demo user already has records, skipping seed")
		return nil
	}

	imported, err := store.ImportAll(ctx, demoUserID, demoPlan(startYear))
	if err != nil {
		return fmt.Errorf("failed to seed demo plan: %w", err)
	}

	lgr.Info().Int("records", imported).Msg("Demo plan created")
	return nil
}
