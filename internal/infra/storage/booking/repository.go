package booking

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/CRH-SchedulingService/internal/domain"
	"github.com/m04kA/CRH-SchedulingService/pkg/psqlbuilder"
	"github.com/m04kA/CRH-SchedulingService/pkg/txmanager"
)

var bookingColumns = []string{
	"id",
	"resource_id",
	"user_id",
	"start_time",
	"end_time",
	"purpose",
	"status",
	"approved_by",
	"decision_at",
	"rejection_reason",
	"booked_by_admin",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование
// Если в контексте передана активная транзакция, использует её —
// создание броней с проверкой доступности всегда идет в сериализуемой
// транзакции, чтобы исключить гонку "прочитали ёмкость — записали бронь".
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"resource_id",
			"user_id",
			"start_time",
			"end_time",
			"purpose",
			"status",
			"approved_by",
			"decision_at",
			"rejection_reason",
			"booked_by_admin",
		).
		Values(
			booking.ResourceID,
			booking.UserID,
			booking.StartTime,
			booking.EndTime,
			booking.Purpose,
			booking.Status,
			booking.ApprovedBy,
			booking.DecisionAt,
			booking.RejectionReason,
			booking.BookedByAdmin,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return booking, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	row := executor.QueryRowContext(ctx, query, args...)
	booking, err := scanBooking(row.Scan)
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}

	return booking, nil
}

// ListByUser получает бронирования пользователя, опционально фильтруя по статусу
func (r *Repository) ListByUser(ctx context.Context, userID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("start_time DESC")

	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *status})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByUser - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByUser - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// ListActiveOverlapping получает активные бронирования ресурса,
// пересекающиеся с полуоткрытым интервалом [start, end)
// Предикат пересечения строгий: start_time < end AND end_time > start,
// граничащие интервалы пересечением не считаются.
// Для мгновенной проверки "сейчас" start и end совпадают.
//
// excludeID исключает бронирование из выборки — используется при
// подтверждении и переносе, когда собственное бронирование не должно
// конфликтовать само с собой.
//
// Внутри транзакции выборка блокируется FOR UPDATE, чтобы две
// конкурирующие брони не прошли проверку ёмкости одновременно.
func (r *Repository) ListActiveOverlapping(ctx context.Context, resourceID int64, start, end time.Time, excludeID *int64) ([]*domain.Booking, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	activeStatuses := make([]string, len(domain.ActiveStatuses))
	for i, s := range domain.ActiveStatuses {
		activeStatuses[i] = string(s)
	}

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"resource_id": resourceID}).
		Where(squirrel.Eq{"status": activeStatuses}).
		Where(squirrel.Lt{"start_time": end}).
		Where(squirrel.Gt{"end_time": start}).
		OrderBy("start_time ASC")

	if excludeID != nil {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"id": *excludeID})
	}

	if txmanager.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveOverlapping - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveOverlapping - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// Approve подтверждает бронирование
func (r *Repository) Approve(ctx context.Context, id int64, approverID int64, decidedAt time.Time) error {
	return r.update(ctx, "Approve", psqlbuilder.Update("bookings").
		Set("status", domain.StatusApproved).
		Set("approved_by", approverID).
		Set("decision_at", decidedAt).
		Set("updated_at", decidedAt).
		Where(squirrel.Eq{"id": id}))
}

// Reject отклоняет бронирование с указанием причины
func (r *Repository) Reject(ctx context.Context, id int64, reason *string, decidedAt time.Time) error {
	return r.update(ctx, "Reject", psqlbuilder.Update("bookings").
		Set("status", domain.StatusRejected).
		Set("rejection_reason", reason).
		Set("decision_at", decidedAt).
		Set("updated_at", decidedAt).
		Where(squirrel.Eq{"id": id}))
}

// Cancel отменяет бронирование с указанием причины
func (r *Repository) Cancel(ctx context.Context, id int64, reason string, decidedAt time.Time) error {
	return r.update(ctx, "Cancel", psqlbuilder.Update("bookings").
		Set("status", domain.StatusCancelled).
		Set("rejection_reason", reason).
		Set("decision_at", decidedAt).
		Set("updated_at", decidedAt).
		Where(squirrel.Eq{"id": id}))
}

// Reschedule переносит бронирование на новый ресурс и временное окно
// Новая длительность вычисляется вызывающей стороной
func (r *Repository) Reschedule(ctx context.Context, id int64, resourceID int64, start, end time.Time) error {
	return r.update(ctx, "Reschedule", psqlbuilder.Update("bookings").
		Set("resource_id", resourceID).
		Set("start_time", start).
		Set("end_time", end).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": id}))
}

// Delete физически удаляет бронирование
// Используется только административным удалением; вызывающая сторона
// обязана запустить промоутер листа ожидания в той же транзакции
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	return checkAffected(result, "Delete")
}

func (r *Repository) update(ctx context.Context, op string, builder squirrel.UpdateBuilder) error {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: %s - build update query: %v", ErrBuildQuery, op, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, op, err)
	}

	return checkAffected(result, op)
}

func checkAffected(result sql.Result, op string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}
	if rowsAffected == 0 {
		return ErrBookingNotFound
	}
	return nil
}

func scanBooking(scan func(dest ...interface{}) error) (*domain.Booking, error) {
	var booking domain.Booking
	var decisionAt, createdAt, updatedAt sql.NullTime
	var approvedBy sql.NullInt64

	err := scan(
		&booking.ID,
		&booking.ResourceID,
		&booking.UserID,
		&booking.StartTime,
		&booking.EndTime,
		&booking.Purpose,
		&booking.Status,
		&approvedBy,
		&decisionAt,
		&booking.RejectionReason,
		&booking.BookedByAdmin,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if approvedBy.Valid {
		booking.ApprovedBy = &approvedBy.Int64
	}
	if decisionAt.Valid {
		t := decisionAt.Time
		booking.DecisionAt = &t
	}
	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return &booking, nil
}

// scanBookings сканирует результаты запроса в слайс бронирований
func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		booking, err := scanBooking(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}
