package availability

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonBooking/pkg/psqlbuilder"
)

const (
	table = "beautician_availability"

	codeExclusionViolation = "23P01"
)

var columns = []string{"id", "beautician_id", "day_of_week", "start_time", "end_time"}

// Repository репозиторий недельного шаблона рабочих часов мастеров
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// ListByBeauticianAndDay окна мастера на день недели, по возрастанию начала
func (r *Repository) ListByBeauticianAndDay(ctx context.Context, beauticianID int64, day domain.DayOfWeek) ([]domain.BeauticianAvailability, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"beautician_id": beauticianID, "day_of_week": int(day)}).
		OrderBy("start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListByBeauticianAndDay - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByBeauticianAndDay - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanRows(rows)
}

// ListByBeautician весь недельный шаблон мастера
func (r *Repository) ListByBeautician(ctx context.Context, beauticianID int64) ([]domain.BeauticianAvailability, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"beautician_id": beauticianID}).
		OrderBy("day_of_week ASC", "start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListByBeautician - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByBeautician - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanRows(rows)
}

// ReplaceDay заменяет все окна мастера на день недели.
// Вызывающая сторона отвечает за транзакцию: удаление и вставка должны быть атомарны.
func (r *Repository) ReplaceDay(ctx context.Context, beauticianID int64, day domain.DayOfWeek, windows []domain.TimeWindow) ([]domain.BeauticianAvailability, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(table).
		Where(squirrel.Eq{"beautician_id": beauticianID, "day_of_week": int(day)}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ReplaceDay - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("%w: ReplaceDay - execute delete: %w", ErrExecQuery, err)
	}

	if len(windows) == 0 {
		return []domain.BeauticianAvailability{}, nil
	}

	insert := psqlbuilder.Insert(table).Columns("beautician_id", "day_of_week", "start_time", "end_time")
	for _, w := range windows {
		insert = insert.Values(beauticianID, int(day), w.Start, w.End)
	}

	query, args, err = insert.Suffix("RETURNING " + strings.Join(columns, ", ")).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ReplaceDay - build insert query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == codeExclusionViolation {
			return nil, ErrOverlap
		}
		return nil, fmt.Errorf("%w: ReplaceDay - execute insert: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanRows(rows)
}

func scanRows(rows *sql.Rows) ([]domain.BeauticianAvailability, error) {
	result := make([]domain.BeauticianAvailability, 0)

	for rows.Next() {
		var a domain.BeauticianAvailability
		var day int

		if err := rows.Scan(&a.ID, &a.BeauticianID, &day, &a.StartTime, &a.EndTime); err != nil {
			return nil, fmt.Errorf("%w: scanRows - scan row: %v", ErrScanRow, err)
		}

		a.DayOfWeek = domain.DayOfWeek(day)
		result = append(result, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanRows - rows error: %v", ErrScanRow, err)
	}

	return result, nil
}
