package repositories

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/gradplanner/internal/app/migrations"
	"github.com/yigit/gradplanner/internal/app/models"
	"github.com/yigit/gradplanner/internal/db"
	"github.com/yigit/gradplanner/internal/pkg/apperrors"
)

// prepareDB connects to the database named by GRADPLANNER_TEST_DATABASE_URL,
// applies the migrations and empties the table.
func prepareDB(t *testing.T) *db.PostgresDB {
	t.Helper()

	url := os.Getenv("GRADPLANNER_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("GRADPLANNER_TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, migrations.NewMigrator(pool, zerolog.Nop()).MigrateFromDirectory(ctx, "../../../migrations"))
	_, err = pool.Exec(ctx, "TRUNCATE course_records")
	require.NoError(t, err)

	return &db.PostgresDB{Pool: pool}
}

func draft(code string, status models.Status) models.CourseRecordDraft {
	return models.CourseRecordDraft{
		Code: code, Name: code, Credits: 4, Year: 2024, Term: 1,
		Category: models.CategoryRequired, Status: status,
	}
}

func TestCourseRecordRepositoryLifecycle(t *testing.T) {
	database := prepareDB(t)
	repo := NewCourseRecordRepository(database)
	ctx := context.Background()

	grade := "A"
	completed := draft("BCM0504-15", models.StatusCompleted)
	completed.Grade = &grade

	id, err := repo.Create(ctx, "alice", completed)
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, "alice", id)
	require.NoError(t, err)
	assert.Equal(t, completed, got.Draft())
	assert.Equal(t, "alice", got.UserID)

	// other users cannot see it
	_, err = repo.GetByID(ctx, "bob", id)
	assert.True(t, errors.Is(err, apperrors.ErrCourseRecordNotFound))

	planned := models.StatusPlanned
	require.NoError(t, repo.Update(ctx, "alice", id, models.CourseRecordPatch{Status: &planned, ClearGrade: true}))

	got, err = repo.GetByID(ctx, "alice", id)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPlanned, got.Status)
	assert.Nil(t, got.Grade)

	count, err := repo.CountByUser(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	require.NoError(t, repo.Delete(ctx, "alice", id))
	assert.True(t, errors.Is(repo.Delete(ctx, "alice", id), apperrors.ErrCourseRecordNotFound))
}

func TestCourseRecordRepositoryMalformedID(t *testing.T) {
	database := prepareDB(t)
	repo := NewCourseRecordRepository(database)

	_, err := repo.GetByID(context.Background(), "alice", "not-a-uuid")
	assert.True(t, errors.Is(err, apperrors.ErrCourseRecordNotFound))
}

func TestCourseRecordRepositoryImportIsAtomic(t *testing.T) {
	database := prepareDB(t)
	repo := NewCourseRecordRepository(database)
	ctx := context.Background()

	bad := draft("BAD", models.StatusPlanned)
	bad.Term = 7

	_, err := repo.ImportAll(ctx, "alice", []models.CourseRecordDraft{draft("A", models.StatusPlanned), bad})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrValidationFailed))

	records, err := repo.ListAll(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, records)

	n, err := repo.ImportAll(ctx, "alice", []models.CourseRecordDraft{draft("A", models.StatusPlanned), draft("B", models.StatusCompleted)})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	records, err = repo.ListAll(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, records, 2)
}
