package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"lms_sync/internal/domain"
	"lms_sync/internal/source/canvas"
)

// ConnectRequest is a user's submission of LMS credentials.
type ConnectRequest struct {
	Institution string
	BaseURL     string
	DisplayName string
	Token       string
}

type ConnectResult struct {
	ConnectionID string `json:"connectionId"`
	Action       string `json:"action"`
}

type VerifyResult struct {
	ExternalUserID *string `json:"externalUserId,omitempty"`
	DisplayName    string  `json:"displayName"`
}

const (
	ActionCreated = "created"
	ActionUpdated = "updated"
)

// ConnectionService manages the lifecycle of an owner's LMS connection.
type ConnectionService struct {
	credentials
	txManager          TransactionManager
	runs               RunStore
	defaultInstitution string
	logger             *slog.Logger
	now                func() time.Time
}

func NewConnectionService(
	source Source,
	connections ConnectionStore,
	secrets SecretStore,
	runs RunStore,
	tokens TokenVault,
	txManager TransactionManager,
	defaultInstitution string,
	logger *slog.Logger,
) *ConnectionService {
	return &ConnectionService{
		credentials: credentials{
			source:      source,
			connections: connections,
			secrets:     secrets,
			vault:       tokens,
		},
		txManager:          txManager,
		runs:               runs,
		defaultInstitution: defaultInstitution,
		logger:             logger.With("component", "connections", "source", source.ID()),
		now:                time.Now,
	}
}

// Connect verifies the token against the LMS, then stores the connection and
// its encrypted token together.
func (s *ConnectionService) Connect(ctx context.Context, ownerID string, req ConnectRequest) (*ConnectResult, error) {
	if ownerID == "" {
		return nil, domain.ErrUnauthenticated
	}

	baseURL := canvas.NormalizeBaseURL(req.BaseURL)
	token := strings.TrimSpace(req.Token)
	if baseURL == "" || token == "" {
		return nil, fmt.Errorf("%w: base url and token are required", domain.ErrInvalidInput)
	}
	if !s.source.AllowedHost(baseURL) {
		return nil, domain.ErrHostNotAllowed
	}

	profile, err := s.source.FetchProfile(ctx, domain.Credential{BaseURL: baseURL, Token: token})
	if err != nil {
		if errors.Is(err, canvas.ErrCredentialExpired) {
			return nil, domain.ErrInvalidToken
		}
		return nil, fmt.Errorf("verify token: %w", remoteError(err))
	}

	sealed, err := s.vault.Encrypt(token)
	if err != nil {
		return nil, fmt.Errorf("encrypt token: %w", err)
	}

	conn := &domain.Connection{
		OwnerID:     ownerID,
		Platform:    s.source.ID(),
		Institution: strings.TrimSpace(req.Institution),
		BaseURL:     baseURL,
	}
	if conn.Institution == "" {
		conn.Institution = s.defaultInstitution
	}
	if name := strings.TrimSpace(req.DisplayName); name != "" {
		conn.DisplayName = &name
	} else if name := profile.DisplayName(); name != "" {
		conn.DisplayName = &name
	}
	if profile.ID != nil {
		id := strconv.FormatInt(*profile.ID, 10)
		conn.ExternalUserID = &id
	}

	var inserted bool
	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		var err error
		if inserted, err = s.connections.Upsert(txCtx, conn); err != nil {
			return fmt.Errorf("upsert connection: %w", err)
		}
		secret := &domain.Secret{
			ConnectionID: conn.ID,
			Ciphertext:   sealed.Ciphertext,
			Nonce:        sealed.Nonce,
		}
		if err := s.secrets.Upsert(txCtx, secret); err != nil {
			return fmt.Errorf("upsert secret: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := &ConnectResult{ConnectionID: conn.ID, Action: ActionUpdated}
	if inserted {
		result.Action = ActionCreated
	}

	s.logger.Info("connection stored",
		"owner_id", ownerID,
		"connection_id", conn.ID,
		"action", result.Action,
	)
	return result, nil
}

// Verify checks the stored token against the LMS profile endpoint.
func (s *ConnectionService) Verify(ctx context.Context, ownerID string) (*VerifyResult, error) {
	_, cred, err := s.resolve(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	profile, err := s.source.FetchProfile(ctx, cred)
	if err != nil {
		return nil, fmt.Errorf("fetch profile: %w", remoteError(err))
	}

	result := &VerifyResult{DisplayName: profile.DisplayName()}
	if profile.ID != nil {
		id := strconv.FormatInt(*profile.ID, 10)
		result.ExternalUserID = &id
	}
	return result, nil
}

// Disconnect deletes the owner's connection and its secret.
func (s *ConnectionService) Disconnect(ctx context.Context, ownerID, connectionID string) error {
	if ownerID == "" {
		return domain.ErrUnauthenticated
	}

	conn, err := s.connections.GetByOwner(ctx, ownerID, s.source.ID())
	if errors.Is(err, domain.ErrNotFound) {
		return domain.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	if conn.ID != connectionID {
		return domain.ErrNotFound
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.secrets.Delete(txCtx, conn.ID); err != nil {
			return fmt.Errorf("delete secret: %w", err)
		}
		if err := s.connections.Delete(txCtx, ownerID, conn.ID); err != nil {
			return fmt.Errorf("delete connection: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("connection deleted", "owner_id", ownerID, "connection_id", conn.ID)
	return nil
}

// Status reports the owner's connection and the latest run of each kind.
func (s *ConnectionService) Status(ctx context.Context, ownerID string) (*domain.SyncStatus, error) {
	if ownerID == "" {
		return nil, domain.ErrUnauthenticated
	}

	status := &domain.SyncStatus{}

	conn, err := s.connections.GetByOwner(ctx, ownerID, s.source.ID())
	switch {
	case errors.Is(err, domain.ErrNotFound):
	case err != nil:
		return nil, fmt.Errorf("get connection: %w", err)
	default:
		status.Connected = true
		status.ConnectionID = conn.ID
		status.Institution = conn.Institution
		status.BaseURL = conn.BaseURL
		status.DisplayName = conn.DisplayName
		status.LastSyncedAt = conn.LastSyncedAt
	}

	now := s.now()
	for _, kind := range []domain.RunKind{domain.RunKindUnits, domain.RunKindAssignments} {
		run, err := s.runs.Latest(ctx, ownerID, kind)
		if errors.Is(err, domain.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("latest %s run: %w", kind, err)
		}

		view := &domain.RunView{SyncRun: run, Running: run.Running(now)}
		if kind == domain.RunKindUnits {
			status.Units = view
		} else {
			status.Assignments = view
		}
	}

	return status, nil
}
