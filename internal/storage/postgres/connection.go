package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"lms_sync/internal/domain"
)

const connectionColumns = `
	id, owner_id, platform, institution, base_url, display_name,
	external_user_id, last_synced_at, created_at, updated_at`

type ConnectionStore struct {
	db *sqlx.DB
}

func NewConnectionStore(db *sqlx.DB) *ConnectionStore {
	return &ConnectionStore{db: db}
}

// GetByOwner returns domain.ErrNotFound when the owner has no connection on platform.
func (s *ConnectionStore) GetByOwner(ctx context.Context, ownerID, platform string) (*domain.Connection, error) {
	var conn domain.Connection
	query := `SELECT` + connectionColumns + `
		FROM lms_connections
		WHERE owner_id = $1 AND platform = $2`

	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &conn, query, ownerID, platform)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &conn, nil
}

// Upsert stores conn under its (owner, platform) key and reports whether a new
// row was created. conn.ID is set to the stored id.
func (s *ConnectionStore) Upsert(ctx context.Context, conn *domain.Connection) (bool, error) {
	query := `
		INSERT INTO lms_connections (
			id, owner_id, platform, institution, base_url, display_name, external_user_id
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		)
		ON CONFLICT (owner_id, platform) DO UPDATE SET
			institution = EXCLUDED.institution,
			base_url = EXCLUDED.base_url,
			display_name = EXCLUDED.display_name,
			external_user_id = EXCLUDED.external_user_id,
			updated_at = NOW()
		RETURNING id, (xmax = 0) AS inserted`

	var inserted bool
	err := GetExecutor(ctx, s.db).QueryRowxContext(ctx, query,
		uuid.New().String(),
		conn.OwnerID,
		conn.Platform,
		conn.Institution,
		conn.BaseURL,
		conn.DisplayName,
		conn.ExternalUserID,
	).Scan(&conn.ID, &inserted)
	if err != nil {
		return false, err
	}
	return inserted, nil
}

// Delete removes the owner's connection; its secret goes with it.
func (s *ConnectionStore) Delete(ctx context.Context, ownerID, id string) error {
	res, err := GetExecutor(ctx, s.db).ExecContext(ctx,
		`DELETE FROM lms_connections WHERE id = $1 AND owner_id = $2`,
		id, ownerID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *ConnectionStore) TouchLastSynced(ctx context.Context, id string, at time.Time) error {
	_, err := GetExecutor(ctx, s.db).ExecContext(ctx,
		`UPDATE lms_connections SET last_synced_at = $2, updated_at = NOW() WHERE id = $1`,
		id, at,
	)
	return err
}

// List returns every connection on platform, oldest first.
func (s *ConnectionStore) List(ctx context.Context, platform string) ([]domain.Connection, error) {
	conns := make([]domain.Connection, 0)
	query := `SELECT` + connectionColumns + `
		FROM lms_connections
		WHERE platform = $1
		ORDER BY created_at, id`

	if err := sqlx.SelectContext(ctx, GetExecutor(ctx, s.db), &conns, query, platform); err != nil {
		return nil, err
	}
	return conns, nil
}
