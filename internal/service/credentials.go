package service

import (
	"context"
	"errors"
	"fmt"

	"lms_sync/internal/domain"
	"lms_sync/internal/source/canvas"
	"lms_sync/internal/vault"
)

// credentials resolves an owner's connection and decrypted token.
type credentials struct {
	source      Source
	connections ConnectionStore
	secrets     SecretStore
	vault       TokenVault
}

func (c *credentials) resolve(ctx context.Context, ownerID string) (*domain.Connection, domain.Credential, error) {
	if ownerID == "" {
		return nil, domain.Credential{}, domain.ErrUnauthenticated
	}

	conn, err := c.connections.GetByOwner(ctx, ownerID, c.source.ID())
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.Credential{}, domain.ErrNotConnected
	}
	if err != nil {
		return nil, domain.Credential{}, fmt.Errorf("get connection: %w", err)
	}

	if !c.source.AllowedHost(conn.BaseURL) {
		return conn, domain.Credential{}, domain.ErrHostNotAllowed
	}

	secret, err := c.secrets.Get(ctx, conn.ID)
	if errors.Is(err, domain.ErrNotFound) {
		return conn, domain.Credential{}, &domain.ReconnectError{Reason: domain.ReasonTokenMissing, Err: err}
	}
	if err != nil {
		return conn, domain.Credential{}, fmt.Errorf("get secret: %w", err)
	}

	token, err := c.vault.Decrypt(vault.Sealed{Ciphertext: secret.Ciphertext, Nonce: secret.Nonce})
	if err != nil {
		return conn, domain.Credential{}, &domain.ReconnectError{Reason: domain.ReasonTokenCorrupted, Err: err}
	}

	return conn, domain.Credential{BaseURL: conn.BaseURL, Token: token}, nil
}

// remoteError maps Paginator failures onto the run's error taxonomy.
func remoteError(err error) error {
	switch {
	case errors.Is(err, canvas.ErrCredentialExpired):
		return &domain.ReconnectError{Reason: domain.ReasonTokenExpired, Err: err}
	case errors.Is(err, canvas.ErrHostNotAllowed):
		return fmt.Errorf("%w: %w", domain.ErrHostNotAllowed, err)
	default:
		return fmt.Errorf("%w: %w", domain.ErrUpstream, err)
	}
}

// fatal reports whether a remote failure must end the whole run.
func fatal(err error) bool {
	return errors.Is(err, canvas.ErrCredentialExpired)
}
