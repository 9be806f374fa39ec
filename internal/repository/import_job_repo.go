package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/StellarBearX/stanlendar-sub003/internal/domain"
)

// ImportJobRepository define el contrato de persistencia para import jobs.
type ImportJobRepository interface {
	Create(ctx context.Context, job domain.ImportJob) error
	GetByID(ctx context.Context, id string) (*domain.ImportJob, error)
	ListByUser(ctx context.Context, userID string) ([]domain.ImportJob, error)
	// ClaimNext toma el job encolado más antiguo y lo marca processing.
	// Devuelve nil cuando no hay trabajo pendiente. Seguro entre workers
	// concurrentes (SKIP LOCKED).
	ClaimNext(ctx context.Context) (*domain.ImportJob, error)
	UpdateCounters(ctx context.Context, id string, c domain.ImportCounters) error
	Complete(ctx context.Context, id string, c domain.ImportCounters) error
	Fail(ctx context.Context, id, reason string) error
}

const importJobColumns = `
	id, user_id, source_path, status,
	processed_count, imported_count, failed_count, skipped_count,
	error_message, started_at, finished_at, created_at, updated_at
`

// PgImportJobRepository implementa ImportJobRepository usando pgxpool.
type PgImportJobRepository struct {
	pool *pgxpool.Pool
}

func NewPgImportJobRepository(pool *pgxpool.Pool) *PgImportJobRepository {
	return &PgImportJobRepository{pool: pool}
}

func (r *PgImportJobRepository) Create(ctx context.Context, job domain.ImportJob) error {
	const query = `
		INSERT INTO import_jobs (id, user_id, source_path, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
	`
	_, err := r.pool.Exec(ctx, query,
		job.ID,
		job.UserID,
		job.SourcePath,
		job.Status,
		job.CreatedAt,
	)
	return err
}

func (r *PgImportJobRepository) GetByID(ctx context.Context, id string) (*domain.ImportJob, error) {
	query := `SELECT ` + importJobColumns + ` FROM import_jobs WHERE id = $1`
	job, err := scanImportJob(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *PgImportJobRepository) ListByUser(ctx context.Context, userID string) ([]domain.ImportJob, error) {
	query := `SELECT ` + importJobColumns + ` FROM import_jobs WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	jobs := []domain.ImportJob{}
	for rows.Next() {
		job, err := scanImportJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

func (r *PgImportJobRepository) ClaimNext(ctx context.Context) (*domain.ImportJob, error) {
	query := `
		UPDATE import_jobs SET status = 'processing', started_at = now(), updated_at = now()
		WHERE id = (
			SELECT id FROM import_jobs
			WHERE status = 'queued'
			ORDER BY created_at
			LIMIT 1
			FOR UPDATE SKIP LOCKED
		)
		RETURNING ` + importJobColumns
	job, err := scanImportJob(r.pool.QueryRow(ctx, query))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *PgImportJobRepository) UpdateCounters(ctx context.Context, id string, c domain.ImportCounters) error {
	const query = `
		UPDATE import_jobs
		SET processed_count = $2, imported_count = $3, failed_count = $4, skipped_count = $5,
		    updated_at = now()
		WHERE id = $1
	`
	_, err := r.pool.Exec(ctx, query, id, c.Processed, c.Imported, c.Failed, c.Skipped)
	return err
}

func (r *PgImportJobRepository) Complete(ctx context.Context, id string, c domain.ImportCounters) error {
	const query = `
		UPDATE import_jobs
		SET status = 'completed',
		    processed_count = $2, imported_count = $3, failed_count = $4, skipped_count = $5,
		    finished_at = now(), updated_at = now()
		WHERE id = $1
	`
	_, err := r.pool.Exec(ctx, query, id, c.Processed, c.Imported, c.Failed, c.Skipped)
	return err
}

func (r *PgImportJobRepository) Fail(ctx context.Context, id, reason string) error {
	const query = `
		UPDATE import_jobs
		SET status = 'failed', error_message = $2, finished_at = now(), updated_at = now()
		WHERE id = $1
	`
	_, err := r.pool.Exec(ctx, query, id, reason)
	return err
}

func scanImportJob(row pgx.Row) (domain.ImportJob, error) {
	var job domain.ImportJob
	err := row.Scan(
		&job.ID,
		&job.UserID,
		&job.SourcePath,
		&job.Status,
		&job.ProcessedCount,
		&job.ImportedCount,
		&job.FailedCount,
		&job.SkippedCount,
		&job.ErrorMessage,
		&job.StartedAt,
		&job.FinishedAt,
		&job.CreatedAt,
		&job.UpdatedAt,
	)
	return job, err
}
