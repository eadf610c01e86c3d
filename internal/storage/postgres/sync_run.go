package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"lms_sync/internal/domain"
)

type SyncRunStore struct {
	db *sqlx.DB
}

func NewSyncRunStore(db *sqlx.DB) *SyncRunStore {
	return &SyncRunStore{db: db}
}

// syncRunRow mirrors domain.SyncRun with a summary that tolerates NULL.
type syncRunRow struct {
	ID           string           `db:"id"`
	OwnerID      string           `db:"owner_id"`
	ConnectionID *string          `db:"connection_id"`
	Kind         domain.RunKind   `db:"kind"`
	Status       domain.RunStatus `db:"status"`
	StartedAt    time.Time        `db:"started_at"`
	ExpiresAt    time.Time        `db:"expires_at"`
	FinishedAt   *time.Time       `db:"finished_at"`
	Summary      []byte           `db:"summary"`
	Error        *string          `db:"error"`
}

func (r *syncRunRow) toDomain() *domain.SyncRun {
	return &domain.SyncRun{
		ID:           r.ID,
		OwnerID:      r.OwnerID,
		ConnectionID: r.ConnectionID,
		Kind:         r.Kind,
		Status:       r.Status,
		StartedAt:    r.StartedAt,
		ExpiresAt:    r.ExpiresAt,
		FinishedAt:   r.FinishedAt,
		Summary:      json.RawMessage(r.Summary),
		Error:        r.Error,
	}
}

func (s *SyncRunStore) Start(ctx context.Context, run *domain.SyncRun) error {
	query := `
		INSERT INTO sync_runs (id, owner_id, connection_id, kind, status, started_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := GetExecutor(ctx, s.db).ExecContext(ctx, query,
		run.ID,
		run.OwnerID,
		run.ConnectionID,
		string(run.Kind),
		string(run.Status),
		run.StartedAt,
		run.ExpiresAt,
	)
	return err
}

// Finish records the outcome of run. Status, FinishedAt, Summary and Error are written.
func (s *SyncRunStore) Finish(ctx context.Context, run *domain.SyncRun) error {
	query := `
		UPDATE sync_runs SET
			connection_id = $2,
			status = $3,
			finished_at = $4,
			summary = $5::jsonb,
			error = $6
		WHERE id = $1`

	_, err := GetExecutor(ctx, s.db).ExecContext(ctx, query,
		run.ID,
		run.ConnectionID,
		string(run.Status),
		run.FinishedAt,
		jsonText(run.Summary),
		run.Error,
	)
	return err
}

// Latest returns the most recent run of kind for owner, or domain.ErrNotFound.
func (s *SyncRunStore) Latest(ctx context.Context, ownerID string, kind domain.RunKind) (*domain.SyncRun, error) {
	var row syncRunRow
	query := `
		SELECT id, owner_id, connection_id, kind, status, started_at, expires_at,
			finished_at, summary, error
		FROM sync_runs
		WHERE owner_id = $1 AND kind = $2
		ORDER BY started_at DESC
		LIMIT 1`

	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &row, query, ownerID, string(kind))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return row.toDomain(), nil
}
