package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"lms_sync/internal/domain"
)

type SecretStore struct {
	db *sqlx.DB
}

func NewSecretStore(db *sqlx.DB) *SecretStore {
	return &SecretStore{db: db}
}

func (s *SecretStore) Get(ctx context.Context, connectionID string) (*domain.Secret, error) {
	var secret domain.Secret
	query := `
		SELECT connection_id, token_ciphertext, token_iv, created_at, updated_at
		FROM lms_secrets
		WHERE connection_id = $1`

	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &secret, query, connectionID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &secret, nil
}

func (s *SecretStore) Upsert(ctx context.Context, secret *domain.Secret) error {
	query := `
		INSERT INTO lms_secrets (connection_id, token_ciphertext, token_iv)
		VALUES ($1, $2, $3)
		ON CONFLICT (connection_id) DO UPDATE SET
			token_ciphertext = EXCLUDED.token_ciphertext,
			token_iv = EXCLUDED.token_iv,
			updated_at = NOW()`

	_, err := GetExecutor(ctx, s.db).ExecContext(ctx, query,
		secret.ConnectionID,
		secret.Ciphertext,
		secret.Nonce,
	)
	return err
}

func (s *SecretStore) Delete(ctx context.Context, connectionID string) error {
	_, err := GetExecutor(ctx, s.db).ExecContext(ctx,
		`DELETE FROM lms_secrets WHERE connection_id = $1`,
		connectionID,
	)
	return err
}
