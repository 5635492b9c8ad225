package approval

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

var requestColumns = []string{
	"id",
	"resource_id",
	"requester_id",
	"booking_id",
	"start_time",
	"end_time",
	"purpose",
	"note",
	"kind",
	"status",
	"decision_note",
	"decided_at",
	"created_at",
}

// Repository репозиторий для работы с заявками на подтверждение
type Repository struct {
	db txmanager.DBExecutor
}

// NewRepository создает новый экземпляр репозитория заявок
func NewRepository(db txmanager.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает заявку на подтверждение
// У бронирования может быть максимум одна заявка — вызывающая сторона
// проверяет существование через GetByBookingID
func (r *Repository) Create(ctx context.Context, req *domain.ApprovalRequest) (*domain.ApprovalRequest, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("approval_requests").
		Columns(
			"resource_id",
			"requester_id",
			"booking_id",
			"start_time",
			"end_time",
			"purpose",
			"note",
			"kind",
			"status",
		).
		Values(
			req.ResourceID,
			req.RequesterID,
			req.BookingID,
			req.StartTime,
			req.EndTime,
			req.Purpose,
			req.Note,
			req.Kind,
			req.Status,
		).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&req.ID, &createdAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	req.CreatedAt = createdAt.Time
	return req, nil
}

// GetByBookingID получает заявку, привязанную к бронированию
func (r *Repository) GetByBookingID(ctx context.Context, bookingID int64) (*domain.ApprovalRequest, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(requestColumns...).
		From("approval_requests").
		Where(squirrel.Eq{"booking_id": bookingID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByBookingID - build select query: %v", ErrBuildQuery, err)
	}

	row := executor.QueryRowContext(ctx, query, args...)
	req, err := scanRequest(row.Scan)
	if err == sql.ErrNoRows {
		return nil, ErrRequestNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByBookingID - scan request: %v", ErrScanRow, err)
	}

	return req, nil
}

// FindPendingAllocator ищет открытую заявку пользователя на
// административное выделение ресурса — повторные заявки не создаются,
// пока администратор не ответил на предыдущую
func (r *Repository) FindPendingAllocator(ctx context.Context, resourceID, requesterID int64) (*domain.ApprovalRequest, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(requestColumns...).
		From("approval_requests").
		Where(squirrel.Eq{
			"resource_id":  resourceID,
			"requester_id": requesterID,
			"kind":         domain.ApprovalKindAllocator,
			"status":       domain.ApprovalPending,
		}).
		Limit(1).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: FindPendingAllocator - build select query: %v", ErrBuildQuery, err)
	}

	row := executor.QueryRowContext(ctx, query, args...)
	req, err := scanRequest(row.Scan)
	if err == sql.ErrNoRows {
		return nil, ErrRequestNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: FindPendingAllocator - scan request: %v", ErrScanRow, err)
	}

	return req, nil
}

// ListPending получает открытые заявки указанного вида,
// отсортированные по времени создания (очередь FIFO)
func (r *Repository) ListPending(ctx context.Context, kind domain.ApprovalKind) ([]*domain.ApprovalRequest, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(requestColumns...).
		From("approval_requests").
		Where(squirrel.Eq{
			"kind":   kind,
			"status": domain.ApprovalPending,
		}).
		OrderBy("created_at ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListPending - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListPending - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	requests := make([]*domain.ApprovalRequest, 0)
	for rows.Next() {
		req, err := scanRequest(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("%w: ListPending - scan row: %v", ErrScanRow, err)
		}
		requests = append(requests, req)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListPending - rows error: %v", ErrScanRow, err)
	}

	return requests, nil
}

// Mark переводит заявку в конечный статус с заметкой о решении
func (r *Repository) Mark(ctx context.Context, id int64, status domain.ApprovalStatus, note *string, decidedAt time.Time) error {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("approval_requests").
		Set("status", status).
		Set("decision_note", note).
		Set("decided_at", decidedAt).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Mark - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Mark - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Mark - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrRequestNotFound
	}

	return nil
}

func scanRequest(scan func(dest ...interface{}) error) (*domain.ApprovalRequest, error) {
	var req domain.ApprovalRequest
	var bookingID sql.NullInt64
	var decidedAt, createdAt sql.NullTime

	err := scan(
		&req.ID,
		&req.ResourceID,
		&req.RequesterID,
		&bookingID,
		&req.StartTime,
		&req.EndTime,
		&req.Purpose,
		&req.Note,
		&req.Kind,
		&req.Status,
		&req.DecisionNote,
		&decidedAt,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	if bookingID.Valid {
		req.BookingID = &bookingID.Int64
	}
	if decidedAt.Valid {
		t := decidedAt.Time
		req.DecidedAt = &t
	}
	req.CreatedAt = createdAt.Time

	return &req, nil
}
