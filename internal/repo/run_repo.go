package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shaiso/xws/internal/domain"
)

// RunRepo — репозиторий журнала выполнений.
type RunRepo struct {
	pool *pgxpool.Pool
}

// NewRunRepo создаёт новый RunRepo.
func NewRunRepo(pool *pgxpool.Pool) *RunRepo {
	return &RunRepo{pool: pool}
}

const runColumns = `
	id, invocation_id, worker, input_dir, output_dir, dry_run, status,
	failures, outputs, error, started_at, finished_at, created_at`

// Create создаёт новый run.
// Возвращает ErrAlreadyExists, если run для этого запроса уже есть.
func (r *RunRepo) Create(ctx context.Context, run *domain.Run) error {
	failuresJSON, outputsJSON, err := marshalLists(run)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO xws_runs (id, invocation_id, worker, input_dir, output_dir, dry_run,
		                      status, failures, outputs, started_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (invocation_id) DO NOTHING
	`
	result, err := r.pool.Exec(ctx, query,
		run.ID,
		run.InvocationID,
		run.Worker,
		run.InputDir,
		run.OutputDir,
		run.DryRun,
		run.Status,
		failuresJSON,
		outputsJSON,
		run.StartedAt,
		run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("%w: invocation %s", ErrAlreadyExists, run.InvocationID)
	}
	return nil
}

// Update обновляет статус и результат run.
func (r *RunRepo) Update(ctx context.Context, run *domain.Run) error {
	failuresJSON, outputsJSON, err := marshalLists(run)
	if err != nil {
		return err
	}

	query := `
		UPDATE xws_runs
		SET status = $2, failures = $3, outputs = $4, error = $5, started_at = $6, finished_at = $7
		WHERE id = $1
	`
	result, err := r.pool.Exec(ctx, query,
		run.ID,
		run.Status,
		failuresJSON,
		outputsJSON,
		nullString(run.Error),
		run.StartedAt,
		run.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("update run: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// GetByID возвращает run по ID.
func (r *RunRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Run, error) {
	query := `SELECT ` + runColumns + ` FROM xws_runs WHERE id = $1`
	return scanRun(r.pool.QueryRow(ctx, query, id))
}

// GetByInvocationID возвращает run по ID запроса.
func (r *RunRepo) GetByInvocationID(ctx context.Context, invocationID uuid.UUID) (*domain.Run, error) {
	query := `SELECT ` + runColumns + ` FROM xws_runs WHERE invocation_id = $1`
	return scanRun(r.pool.QueryRow(ctx, query, invocationID))
}

// RunFilter — параметры фильтрации runs.
type RunFilter struct {
	Worker string
	Status domain.RunStatus
	Limit  int
	Offset int
}

// List возвращает список runs с фильтрацией, новые первыми.
func (r *RunRepo) List(ctx context.Context, filter RunFilter) ([]domain.Run, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}

	query := `SELECT ` + runColumns + `
		FROM xws_runs
		WHERE ($1::text IS NULL OR worker = $1)
		  AND ($2::text IS NULL OR status = $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`
	rows, err := r.pool.Query(ctx, query,
		nullString(filter.Worker),
		nullString(string(filter.Status)),
		limit,
		filter.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

// --- Helpers ---

// scanRun сканирует одну строку в Run. pgx.Rows тоже реализует pgx.Row.
func scanRun(row pgx.Row) (*domain.Run, error) {
	var run domain.Run
	var failuresJSON, outputsJSON []byte
	var runError *string

	err := row.Scan(
		&run.ID,
		&run.InvocationID,
		&run.Worker,
		&run.InputDir,
		&run.OutputDir,
		&run.DryRun,
		&run.Status,
		&failuresJSON,
		&outputsJSON,
		&runError,
		&run.StartedAt,
		&run.FinishedAt,
		&run.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan run: %w", err)
	}

	if err := unmarshalList(failuresJSON, &run.Failures); err != nil {
		return nil, fmt.Errorf("unmarshal failures: %w", err)
	}
	if err := unmarshalList(outputsJSON, &run.Outputs); err != nil {
		return nil, fmt.Errorf("unmarshal outputs: %w", err)
	}
	if runError != nil {
		run.Error = *runError
	}

	return &run, nil
}

func marshalLists(run *domain.Run) (failures, outputs []byte, err error) {
	failures, err = json.Marshal(run.Failures)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal failures: %w", err)
	}
	outputs, err = json.Marshal(run.Outputs)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal outputs: %w", err)
	}
	return failures, outputs, nil
}

func unmarshalList(data []byte, dst *[]string) error {
	if data == nil {
		return nil
	}
	return json.Unmarshal(data, dst)
}

// nullString возвращает nil для пустой строки (для NULL в БД).
func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
