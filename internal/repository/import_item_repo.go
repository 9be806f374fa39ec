package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/StellarBearX/stanlendar-sub003/internal/domain"
)

// ImportItemRepository expone el CRUD sobre filas de un import job.
// Las lecturas por id devuelven nil cuando el registro no existe; "no
// encontrado" es un valor, no un error.
type ImportItemRepository interface {
	Create(ctx context.Context, item domain.ImportItem) (domain.ImportItem, error)
	GetByID(ctx context.Context, id int64) (*domain.ImportItem, error)
	ListByJob(ctx context.Context, jobID string) ([]domain.ImportItem, error)
	ListByJobAndStatus(ctx context.Context, jobID, status string) ([]domain.ImportItem, error)
	// BulkCreate persiste el lote dentro de una transacción: o entran
	// todas las filas o ninguna.
	BulkCreate(ctx context.Context, items []domain.ImportItem) ([]domain.ImportItem, error)
	// UpdateStatus es un no-op silencioso si el id ya no existe.
	UpdateStatus(ctx context.Context, id int64, status string) error
	// Update aplica un patch parcial y devuelve el registro refrescado,
	// o nil si el id ya no existe.
	Update(ctx context.Context, id int64, patch domain.ImportItemPatch) (*domain.ImportItem, error)
	// Delete es idempotente: borrar un id inexistente no es un error.
	Delete(ctx context.Context, id int64) error
	ListAll(ctx context.Context) ([]domain.ImportItem, error)
}

const importItemColumns = `
	id, import_job_id, row_index, status,
	course_code, course_name, day_of_week, start_time, end_time, room, teacher,
	error_message, created_at, updated_at
`

const insertImportItem = `
	INSERT INTO import_items
		(import_job_id, row_index, status, course_code, course_name,
		 day_of_week, start_time, end_time, room, teacher, error_message)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	RETURNING ` + importItemColumns

// PgImportItemRepository implementa ImportItemRepository usando pgxpool.
type PgImportItemRepository struct {
	pool *pgxpool.Pool
}

func NewPgImportItemRepository(pool *pgxpool.Pool) *PgImportItemRepository {
	return &PgImportItemRepository{pool: pool}
}

func (r *PgImportItemRepository) Create(ctx context.Context, item domain.ImportItem) (domain.ImportItem, error) {
	if item.Status == "" {
		item.Status = domain.ItemStatusPending
	}
	return scanImportItem(r.pool.QueryRow(ctx, insertImportItem, insertArgs(item)...))
}

func (r *PgImportItemRepository) GetByID(ctx context.Context, id int64) (*domain.ImportItem, error) {
	query := `SELECT ` + importItemColumns + ` FROM import_items WHERE id = $1`
	item, err := scanImportItem(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *PgImportItemRepository) ListByJob(ctx context.Context, jobID string) ([]domain.ImportItem, error) {
	query := `SELECT ` + importItemColumns + ` FROM import_items WHERE import_job_id = $1 ORDER BY id`
	return r.list(ctx, query, jobID)
}

func (r *PgImportItemRepository) ListByJobAndStatus(ctx context.Context, jobID, status string) ([]domain.ImportItem, error) {
	query := `SELECT ` + importItemColumns + ` FROM import_items WHERE import_job_id = $1 AND status = $2 ORDER BY id`
	return r.list(ctx, query, jobID, status)
}

func (r *PgImportItemRepository) BulkCreate(ctx context.Context, items []domain.ImportItem) ([]domain.ImportItem, error) {
	if len(items) == 0 {
		return []domain.ImportItem{}, nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	stored := make([]domain.ImportItem, 0, len(items))
	for _, item := range items {
		if item.Status == "" {
			item.Status = domain.ItemStatusPending
		}
		row, err := scanImportItem(tx.QueryRow(ctx, insertImportItem, insertArgs(item)...))
		if err != nil {
			return nil, fmt.Errorf("bulk create import item: %w", err)
		}
		stored = append(stored, row)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return stored, nil
}

func (r *PgImportItemRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	const query = `UPDATE import_items SET status = $2, updated_at = now() WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id, status)
	return err
}

func (r *PgImportItemRepository) Update(ctx context.Context, id int64, patch domain.ImportItemPatch) (*domain.ImportItem, error) {
	sets := []string{"updated_at = now()"}
	args := []any{id}

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if patch.Status != nil {
		add("status", *patch.Status)
	}
	if patch.CourseCode != nil {
		add("course_code", *patch.CourseCode)
	}
	if patch.CourseName != nil {
		add("course_name", *patch.CourseName)
	}
	if patch.DayOfWeek != nil {
		add("day_of_week", *patch.DayOfWeek)
	}
	if patch.StartTime != nil {
		add("start_time", *patch.StartTime)
	}
	if patch.EndTime != nil {
		add("end_time", *patch.EndTime)
	}
	if patch.Room != nil {
		add("room", *patch.Room)
	}
	if patch.Teacher != nil {
		add("teacher", *patch.Teacher)
	}
	if patch.ErrorMessage != nil {
		add("error_message", *patch.ErrorMessage)
	}

	query := `UPDATE import_items SET ` + strings.Join(sets, ", ") +
		` WHERE id = $1 RETURNING ` + importItemColumns
	item, err := scanImportItem(r.pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *PgImportItemRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM import_items WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}

func (r *PgImportItemRepository) ListAll(ctx context.Context) ([]domain.ImportItem, error) {
	query := `SELECT ` + importItemColumns + ` FROM import_items ORDER BY id`
	return r.list(ctx, query)
}

func (r *PgImportItemRepository) list(ctx context.Context, query string, args ...any) ([]domain.ImportItem, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []domain.ImportItem{}
	for rows.Next() {
		item, err := scanImportItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func insertArgs(item domain.ImportItem) []any {
	return []any{
		item.ImportJobID,
		item.RowIndex,
		item.Status,
		item.CourseCode,
		item.CourseName,
		item.DayOfWeek,
		item.StartTime,
		item.EndTime,
		item.Room,
		item.Teacher,
		item.ErrorMessage,
	}
}

func scanImportItem(row pgx.Row) (domain.ImportItem, error) {
	var item domain.ImportItem
	err := row.Scan(
		&item.ID,
		&item.ImportJobID,
		&item.RowIndex,
		&item.Status,
		&item.CourseCode,
		&item.CourseName,
		&item.DayOfWeek,
		&item.StartTime,
		&item.EndTime,
		&item.Room,
		&item.Teacher,
		&item.ErrorMessage,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	return item, err
}
