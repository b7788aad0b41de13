package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/EVCharge-ReservationService/internal/domain"
	"github.com/m04kA/EVCharge-ReservationService/pkg/dbmetrics"
	"github.com/m04kA/EVCharge-ReservationService/pkg/sqlbuilder"
)

const table = "charging_sessions"

// Repository репозиторий зарядных сессий
type Repository struct {
	db      DBExecutor
	builder sqlbuilder.Builder
}

// NewRepository создает новый экземпляр репозитория сессий
func NewRepository(db DBExecutor, builder sqlbuilder.Builder) *Repository {
	return &Repository{db: db, builder: builder}
}

// List все сессии по возрастанию ID
func (r *Repository) List(ctx context.Context) ([]domain.ChargingSession, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.builder.Select("id", "name").
		From(table).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	sessions := make([]domain.ChargingSession, 0)
	for rows.Next() {
		var s domain.ChargingSession
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %v", ErrScanRow, err)
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %v", ErrScanRow, err)
	}

	return sessions, nil
}

// GetByID получает сессию по ID.
// Внутри транзакции строка блокируется: конкурентные бронирования одной сессии выполняются по очереди
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.ChargingSession, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := r.builder.Select("id", "name").
		From(table).
		Where(squirrel.Eq{"id": id})
	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = r.builder.ForUpdate(selectBuilder)
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var s domain.ChargingSession
	err = executor.QueryRowContext(ctx, query, args...).Scan(&s.ID, &s.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan session: %v", ErrScanRow, err)
	}

	return &s, nil
}

// EnsureBase создает сессии 1..len(names), которых еще нет.
// Если сессий уже не меньше, чем имен, ничего не делает
func (r *Repository) EnsureBase(ctx context.Context, names []string) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.builder.Select("COUNT(*)").From(table).ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: EnsureBase - build count query: %v", ErrBuildQuery, err)
	}

	var existing int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&existing); err != nil {
		return 0, fmt.Errorf("%w: EnsureBase - count sessions: %v", ErrScanRow, err)
	}
	if existing >= len(names) {
		return 0, nil
	}

	inserted := 0
	for i, name := range names {
		query, args, err := r.builder.Insert(table).
			Columns("id", "name").
			Values(int64(i+1), name).
			Suffix("ON CONFLICT DO NOTHING").
			ToSql()
		if err != nil {
			return inserted, fmt.Errorf("%w: EnsureBase - build insert query: %v", ErrBuildQuery, err)
		}

		result, err := executor.ExecContext(ctx, query, args...)
		if err != nil {
			return inserted, fmt.Errorf("%w: EnsureBase - insert session %d: %v", ErrExecQuery, i+1, err)
		}
		if n, err := result.RowsAffected(); err == nil {
			inserted += int(n)
		}
	}

	return inserted, nil
}
