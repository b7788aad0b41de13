package reservation

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/m04kA/EVCharge-ReservationService/internal/domain"
	"github.com/m04kA/EVCharge-ReservationService/internal/infra/storage/database"
	"github.com/m04kA/EVCharge-ReservationService/pkg/dbmetrics"
	"github.com/m04kA/EVCharge-ReservationService/pkg/sqlbuilder"
)

const table = "reservations"

var columns = []string{
	"id",
	"session_id",
	"plate",
	"plate_normalized",
	"reservation_date",
	"start_time",
	"end_time",
	"status",
	"contact_email",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db      DBExecutor
	builder sqlbuilder.Builder
	now     func() time.Time
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor, builder sqlbuilder.Builder) *Repository {
	return &Repository{
		db:      db,
		builder: builder,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Create сохраняет бронирование. ID генерируется, если не задан.
// Если в контексте передана активная транзакция, использует её
func (r *Repository) Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	created := *res
	if created.ID == "" {
		created.ID = uuid.NewString()
	}
	if created.Status == "" {
		created.Status = domain.StatusConfirmed
	}
	now := r.now()
	created.CreatedAt = now
	created.UpdatedAt = now

	query, args, err := r.builder.Insert(table).
		Columns(columns...).
		Values(
			created.ID,
			created.SessionID,
			created.Plate,
			created.PlateNormalized,
			created.Date.Format(domain.DateFormat),
			created.StartTime,
			created.EndTime,
			created.Status,
			created.ContactEmail,
			created.CreatedAt,
			created.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: session=%d date=%s start=%s", ErrDuplicateSlot,
				created.SessionID, created.Date.Format(domain.DateFormat), created.StartTime)
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return &created, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.builder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	list, err := r.scanReservations(rows)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, ErrReservationNotFound
	}
	return list[0], nil
}

// ListByDate бронирования на дату по всем сессиям, отсортированные по сессии и началу
func (r *Repository) ListByDate(ctx context.Context, date time.Time) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.builder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"reservation_date": date.Format(domain.DateFormat)}).
		OrderBy("session_id ASC", "start_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByDate - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanReservations(rows)
}

// ListAll все бронирования, отсортированные по сессии, дате и началу
func (r *Repository) ListAll(ctx context.Context) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.builder.Select(columns...).
		From(table).
		OrderBy("session_id ASC", "reservation_date ASC", "start_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListAll - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListAll - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanReservations(rows)
}

// FindOverlapping ищет неотмененные бронирования, строго пересекающие
// [filter.Start, filter.End) в дату filter.Date.
// Касание границ пересечением не считается.
// Внутри транзакции строки блокируются (FOR UPDATE там, где диалект это поддерживает)
func (r *Repository) FindOverlapping(ctx context.Context, filter domain.ReservationsFilter) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := r.builder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"reservation_date": filter.Date.Format(domain.DateFormat)}).
		Where(squirrel.NotEq{"status": string(domain.StatusCancelled)}).
		Where(squirrel.Lt{"start_time": filter.End.String()}).
		Where(squirrel.Gt{"end_time": filter.Start.String()})

	if filter.SessionID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"session_id": *filter.SessionID})
	}
	if filter.PlateNormalized != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"plate_normalized": *filter.PlateNormalized})
	}

	selectBuilder = selectBuilder.OrderBy("start_time ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = r.builder.ForUpdate(selectBuilder)
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: FindOverlapping - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: FindOverlapping - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanReservations(rows)
}

// ListForUser бронирования по email и/или номеру, сначала новые.
// Если заданы оба, должны совпасть оба
func (r *Repository) ListForUser(ctx context.Context, filter domain.UserFilter) ([]*domain.Reservation, error) {
	if filter.IsEmpty() {
		return nil, ErrEmptyUserFilter
	}
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := applyUserFilter(r.builder.Select(columns...).From(table), filter).
		OrderBy("reservation_date DESC", "start_time DESC")

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListForUser - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListForUser - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanReservations(rows)
}

// Delete удаляет бронирование по ID
func (r *Repository) Delete(ctx context.Context, id string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.builder.Delete(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	return r.execDelete(ctx, executor, "Delete", query, args)
}

// DeleteForUser удаляет бронирование, только если оно принадлежит владельцу email/номера
func (r *Repository) DeleteForUser(ctx context.Context, id string, filter domain.UserFilter) error {
	if filter.IsEmpty() {
		return ErrEmptyUserFilter
	}
	executor := dbmetrics.GetExecutor(ctx, r.db)

	deleteBuilder := r.builder.Delete(table).Where(squirrel.Eq{"id": id})
	if filter.Email != nil && *filter.Email != "" {
		deleteBuilder = deleteBuilder.Where(squirrel.Expr("LOWER(contact_email) = LOWER(?)", *filter.Email))
	}
	if filter.PlateNormalized != nil && *filter.PlateNormalized != "" {
		deleteBuilder = deleteBuilder.Where(squirrel.Eq{"plate_normalized": *filter.PlateNormalized})
	}

	query, args, err := deleteBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: DeleteForUser - build delete query: %v", ErrBuildQuery, err)
	}

	return r.execDelete(ctx, executor, "DeleteForUser", query, args)
}

func (r *Repository) execDelete(ctx context.Context, executor DBExecutor, op, query string, args []interface{}) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute delete: %v", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}
	if rowsAffected == 0 {
		return ErrReservationNotFound
	}
	return nil
}

func applyUserFilter(b squirrel.SelectBuilder, filter domain.UserFilter) squirrel.SelectBuilder {
	if filter.Email != nil && *filter.Email != "" {
		b = b.Where(squirrel.Expr("LOWER(contact_email) = LOWER(?)", *filter.Email))
	}
	if filter.PlateNormalized != nil && *filter.PlateNormalized != "" {
		b = b.Where(squirrel.Eq{"plate_normalized": *filter.PlateNormalized})
	}
	return b
}

// scanReservations сканирует результаты запроса в слайс бронирований
func (r *Repository) scanReservations(rows *sql.Rows) ([]*domain.Reservation, error) {
	reservations := make([]*domain.Reservation, 0)

	for rows.Next() {
		var (
			res                  domain.Reservation
			date                 string
			email                sql.NullString
			createdAt, updatedAt sql.NullTime
		)

		err := rows.Scan(
			&res.ID,
			&res.SessionID,
			&res.Plate,
			&res.PlateNormalized,
			&date,
			&res.StartTime,
			&res.EndTime,
			&res.Status,
			&email,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scanReservations - scan row: %v", ErrScanRow, err)
		}

		res.Date, err = domain.ParseDate(date)
		if err != nil {
			return nil, fmt.Errorf("%w: scanReservations - parse date %q: %v", ErrScanRow, date, err)
		}
		if email.Valid {
			e := email.String
			res.ContactEmail = &e
		}
		res.CreatedAt = createdAt.Time
		res.UpdatedAt = updatedAt.Time

		reservations = append(reservations, &res)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanReservations - rows error: %v", ErrScanRow, err)
	}

	return reservations, nil
}
