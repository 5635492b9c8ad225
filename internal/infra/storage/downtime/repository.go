package downtime

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

// Repository репозиторий для чтения блоков простоя
// Блоки создаются административным сервисом; движок бронирования
// использует их только как абсолютное вето на временное окно
type Repository struct {
	db txmanager.DBExecutor
}

// NewRepository создает новый экземпляр репозитория блоков простоя
func NewRepository(db txmanager.DBExecutor) *Repository {
	return &Repository{db: db}
}

// ListOverlapping получает блоки простоя ресурса, пересекающиеся
// с полуоткрытым интервалом [start, end)
// Предикат тот же, что и для бронирований: start_time < end AND end_time > start
func (r *Repository) ListOverlapping(ctx context.Context, resourceID int64, start, end time.Time) ([]*domain.DowntimeBlock, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"resource_id",
		"start_time",
		"end_time",
		"reason",
		"created_at",
	).
		From("downtime_blocks").
		Where(squirrel.Eq{"resource_id": resourceID}).
		Where(squirrel.Lt{"start_time": end}).
		Where(squirrel.Gt{"end_time": start}).
		OrderBy("start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListOverlapping - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListOverlapping - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	blocks := make([]*domain.DowntimeBlock, 0)
	for rows.Next() {
		var block domain.DowntimeBlock
		var createdAt sql.NullTime

		err := rows.Scan(
			&block.ID,
			&block.ResourceID,
			&block.StartTime,
			&block.EndTime,
			&block.Reason,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: ListOverlapping - scan row: %v", ErrScanRow, err)
		}

		block.CreatedAt = createdAt.Time
		blocks = append(blocks, &block)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListOverlapping - rows error: %v", ErrScanRow, err)
	}

	return blocks, nil
}
