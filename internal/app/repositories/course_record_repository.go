package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/yigit/gradplanner/internal/app/models"
	"github.com/yigit/gradplanner/internal/db"
	"github.com/yigit/gradplanner/internal/pkg/apperrors"
	"github.com/yigit/gradplanner/internal/pkg/dberrors"
	"github.com/yigit/gradplanner/internal/pkg/logger"
)

const courseRecordsTable = "course_records"

var courseRecordColumns = []string{
	"id", "user_id", "code", "name", "credits", "year", "term",
	"category", "status", "grade", "created_at", "updated_at",
}

// querier is satisfied by both the pool and a transaction
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// CourseRecordRepository handles database operations for course records.
// Every query is scoped to the owning user.
type CourseRecordRepository struct {
	DB *db.PostgresDB
	sb squirrel.StatementBuilderType
}

// NewCourseRecordRepository creates a new instance of CourseRecordRepository.
func NewCourseRecordRepository(database *db.PostgresDB) *CourseRecordRepository {
	return &CourseRecordRepository{
		DB: database,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanCourseRecord(row pgx.Row) (*models.CourseRecord, error) {
	var r models.CourseRecord
	err := row.Scan(
		&r.ID, &r.UserID, &r.Code, &r.Name, &r.Credits, &r.Year, &r.Term,
		&r.Category, &r.Status, &r.Grade, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// mapWriteError translates constraint failures into application errors
func mapWriteError(err error) error {
	if dberrors.IsCheckViolation(err) {
		return fmt.Errorf("%w: record violates a table constraint", apperrors.ErrValidationFailed)
	}
	return err
}

func (r *CourseRecordRepository) insert(ctx context.Context, q querier, userID string, draft models.CourseRecordDraft, now time.Time) (string, error) {
	id := uuid.New().String()
	sqlStr, args, err := r.sb.Insert(courseRecordsTable).
		Columns(courseRecordColumns...).
		Values(id, userID, draft.Code, draft.Name, draft.Credits, draft.Year, draft.Term,
			draft.Category, draft.Status, draft.Grade, now, now).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create course record SQL")
		return "", err
	}

	if _, err := q.Exec(ctx, sqlStr, args...); err != nil {
		logger.Error().Err(err).Str("code", draft.Code).Msg("Error executing create course record query")
		return "", mapWriteError(err)
	}
	return id, nil
}

// Create inserts a record for the user and returns its id.
func (r *CourseRecordRepository) Create(ctx context.Context, userID string, draft models.CourseRecordDraft) (string, error) {
	return r.insert(ctx, r.DB.Pool, userID, draft, time.Now())
}

// ImportAll appends every draft in a single transaction. Either all drafts
// are stored or none.
func (r *CourseRecordRepository) ImportAll(ctx context.Context, userID string, drafts []models.CourseRecordDraft) (int, error) {
	if len(drafts) == 0 {
		return 0, nil
	}

	now := time.Now()
	err := r.DB.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		for i, draft := range drafts {
			if _, err := r.insert(ctx, tx, userID, draft, now); err != nil {
				return fmt.Errorf("import entry %d (%s): %w", i, draft.Code, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(drafts), nil
}

// GetByID retrieves one record of the user.
func (r *CourseRecordRepository) GetByID(ctx context.Context, userID, id string) (*models.CourseRecord, error) {
	sqlStr, args, err := r.sb.Select(courseRecordColumns...).
		From(courseRecordsTable).
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get course record SQL")
		return nil, err
	}

	record, err := scanCourseRecord(r.DB.Pool.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || dberrors.IsInvalidInput(err) {
			return nil, apperrors.ErrCourseRecordNotFound
		}
		logger.Error().Err(err).Str("id", id).Msg("Error scanning course record")
		return nil, err
	}
	return record, nil
}

// ListAll returns every record of the user ordered by period and creation.
func (r *CourseRecordRepository) ListAll(ctx context.Context, userID string) ([]models.CourseRecord, error) {
	sqlStr, args, err := r.sb.Select(courseRecordColumns...).
		From(courseRecordsTable).
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("year ASC", "term ASC", "created_at ASC", "id ASC").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list course records SQL")
		return nil, err
	}

	rows, err := r.DB.Pool.Query(ctx, sqlStr, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list course records query")
		return nil, err
	}
	defer rows.Close()

	records := make([]models.CourseRecord, 0)
	for rows.Next() {
		record, err := scanCourseRecord(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning course record row")
			return nil, err
		}
		records = append(records, *record)
	}

	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error after iterating through course record rows")
		return nil, fmt.Errorf("database iteration error: %w", err)
	}
	return records, nil
}

// Update applies a partial update. ClearGrade stores NULL in the grade column.
func (r *CourseRecordRepository) Update(ctx context.Context, userID, id string, patch models.CourseRecordPatch) error {
	builder := r.sb.Update(courseRecordsTable).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": id, "user_id": userID})

	if patch.Year != nil {
		builder = builder.Set("year", *patch.Year)
	}
	if patch.Term != nil {
		builder = builder.Set("term", *patch.Term)
	}
	if patch.Category != nil {
		builder = builder.Set("category", *patch.Category)
	}
	if patch.Status != nil {
		builder = builder.Set("status", *patch.Status)
	}
	if patch.ClearGrade {
		builder = builder.Set("grade", nil)
	} else if patch.Grade != nil {
		builder = builder.Set("grade", *patch.Grade)
	}

	sqlStr, args, err := builder.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update course record SQL")
		return err
	}

	cmdTag, err := r.DB.Pool.Exec(ctx, sqlStr, args...)
	if err != nil {
		if dberrors.IsInvalidInput(err) {
			return apperrors.ErrCourseRecordNotFound
		}
		logger.Error().Err(err).Str("id", id).Msg("Error executing update course record query")
		return mapWriteError(err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCourseRecordNotFound
	}
	return nil
}

// Delete removes one record of the user.
func (r *CourseRecordRepository) Delete(ctx context.Context, userID, id string) error {
	sqlStr, args, err := r.sb.Delete(courseRecordsTable).
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building delete course record SQL")
		return err
	}

	cmdTag, err := r.DB.Pool.Exec(ctx, sqlStr, args...)
	if err != nil {
		if dberrors.IsInvalidInput(err) {
			return apperrors.ErrCourseRecordNotFound
		}
		logger.Error().Err(err).Str("id", id).Msg("Error executing delete course record query")
		return err
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCourseRecordNotFound
	}
	return nil
}

// CountByUser returns how many records the user has.
func (r *CourseRecordRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	sqlStr, args, err := r.sb.Select("count(*)").
		From(courseRecordsTable).
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return 0, err
	}

	var count int
	if err := r.DB.Pool.QueryRow(ctx, sqlStr, args...).Scan(&count); err != nil {
		logger.Error().Err(err).Msg("Error executing count course records query")
		return 0, err
	}
	return count, nil
}
