package waitlist

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

var entryColumns = []string{
	"id",
	"resource_id",
	"user_id",
	"start_time",
	"end_time",
	"purpose",
	"position",
	"status",
	"notified",
	"created_at",
}

// Repository репозиторий для работы с листом ожидания
type Repository struct {
	db txmanager.DBExecutor
}

// NewRepository создает новый экземпляр репозитория листа ожидания
func NewRepository(db txmanager.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает запись листа ожидания
// Позиция должна быть вычислена в той же транзакции через MaxPosition,
// иначе конкурирующие вступления получат одинаковые позиции
func (r *Repository) Create(ctx context.Context, entry *domain.WaitlistEntry) (*domain.WaitlistEntry, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("waitlist_entries").
		Columns(
			"resource_id",
			"user_id",
			"start_time",
			"end_time",
			"purpose",
			"position",
			"status",
			"notified",
		).
		Values(
			entry.ResourceID,
			entry.UserID,
			entry.StartTime,
			entry.EndTime,
			entry.Purpose,
			entry.Position,
			entry.Status,
			entry.Notified,
		).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&entry.ID, &createdAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	entry.CreatedAt = createdAt.Time
	return entry, nil
}

// MaxPosition возвращает максимальную позицию в листе ожидания ресурса
// Ноль означает пустой лист
func (r *Repository) MaxPosition(ctx context.Context, resourceID int64) (int, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COALESCE(MAX(position), 0)").
		From("waitlist_entries").
		Where(squirrel.Eq{"resource_id": resourceID}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: MaxPosition - build select query: %v", ErrBuildQuery, err)
	}

	var max int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&max); err != nil {
		return 0, fmt.Errorf("%w: MaxPosition - scan: %v", ErrScanRow, err)
	}

	return max, nil
}

// FindByUserAndWindow ищет запись пользователя на точное временное окно
// Используется при вступлении в лист: конвертированная запись
// переиспользуется вместо создания новой строки
func (r *Repository) FindByUserAndWindow(ctx context.Context, resourceID, userID int64, start, end time.Time) (*domain.WaitlistEntry, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(entryColumns...).
		From("waitlist_entries").
		Where(squirrel.Eq{
			"resource_id": resourceID,
			"user_id":     userID,
			"start_time":  start,
			"end_time":    end,
		}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: FindByUserAndWindow - build select query: %v", ErrBuildQuery, err)
	}

	row := executor.QueryRowContext(ctx, query, args...)
	entry, err := scanEntry(row.Scan)
	if err == sql.ErrNoRows {
		return nil, ErrEntryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: FindByUserAndWindow - scan entry: %v", ErrScanRow, err)
	}

	return entry, nil
}

// NextWaiting возвращает следующего кандидата на продвижение для точного
// совпадения окна (start, end): минимальная позиция (NULL в конце),
// при равенстве — самая ранняя запись
// Частичные совпадения окна намеренно не рассматриваются
func (r *Repository) NextWaiting(ctx context.Context, resourceID int64, start, end time.Time) (*domain.WaitlistEntry, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(entryColumns...).
		From("waitlist_entries").
		Where(squirrel.Eq{
			"resource_id": resourceID,
			"status":      domain.WaitlistWaiting,
			"start_time":  start,
			"end_time":    end,
		}).
		OrderBy("position ASC NULLS LAST", "created_at ASC").
		Limit(1)

	if txmanager.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: NextWaiting - build select query: %v", ErrBuildQuery, err)
	}

	row := executor.QueryRowContext(ctx, query, args...)
	entry, err := scanEntry(row.Scan)
	if err == sql.ErrNoRows {
		return nil, ErrEntryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: NextWaiting - scan entry: %v", ErrScanRow, err)
	}

	return entry, nil
}

// Requeue возвращает конвертированную запись в состояние ожидания
// с новой позицией и временем создания
func (r *Repository) Requeue(ctx context.Context, id int64, position int, createdAt time.Time) error {
	return r.update(ctx, "Requeue", psqlbuilder.Update("waitlist_entries").
		Set("status", domain.WaitlistWaiting).
		Set("position", position).
		Set("notified", false).
		Set("created_at", createdAt).
		Where(squirrel.Eq{"id": id}))
}

// MarkConverted помечает запись конвертированной в бронирование
func (r *Repository) MarkConverted(ctx context.Context, id int64) error {
	return r.update(ctx, "MarkConverted", psqlbuilder.Update("waitlist_entries").
		Set("status", domain.WaitlistConverted).
		Set("notified", true).
		Where(squirrel.Eq{"id": id}))
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

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}
	if rowsAffected == 0 {
		return ErrEntryNotFound
	}

	return nil
}

func scanEntry(scan func(dest ...interface{}) error) (*domain.WaitlistEntry, error) {
	var entry domain.WaitlistEntry
	var position sql.NullInt64
	var createdAt sql.NullTime

	err := scan(
		&entry.ID,
		&entry.ResourceID,
		&entry.UserID,
		&entry.StartTime,
		&entry.EndTime,
		&entry.Purpose,
		&position,
		&entry.Status,
		&entry.Notified,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	if position.Valid {
		p := int(position.Int64)
		entry.Position = &p
	}
	entry.CreatedAt = createdAt.Time

	return &entry, nil
}
