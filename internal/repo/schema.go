package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schema — таблица журнала выполнений.
const schema = `
CREATE TABLE IF NOT EXISTS xws_runs (
	id            uuid PRIMARY KEY,
	invocation_id uuid NOT NULL UNIQUE,
	worker        text NOT NULL,
	input_dir     text NOT NULL,
	output_dir    text NOT NULL,
	dry_run       boolean NOT NULL DEFAULT false,
	status        text NOT NULL,
	failures      jsonb,
	outputs       jsonb,
	error         text,
	started_at    timestamptz,
	finished_at   timestamptz,
	created_at    timestamptz NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS xws_runs_worker_created_idx ON xws_runs (worker, created_at DESC);
`

// EnsureSchema создаёт таблицы, если их нет.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
