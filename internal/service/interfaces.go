package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"time"

	"lms_sync/internal/domain"
	"lms_sync/internal/source/canvas"
	"lms_sync/internal/vault"
)

type ConnectionStore interface {
	GetByOwner(ctx context.Context, ownerID, platform string) (*domain.Connection, error)
	Upsert(ctx context.Context, conn *domain.Connection) (bool, error)
	Delete(ctx context.Context, ownerID, id string) error
	TouchLastSynced(ctx context.Context, id string, at time.Time) error
	List(ctx context.Context, platform string) ([]domain.Connection, error)
}

type SecretStore interface {
	Get(ctx context.Context, connectionID string) (*domain.Secret, error)
	Upsert(ctx context.Context, secret *domain.Secret) error
	Delete(ctx context.Context, connectionID string) error
}

type UnitStore interface {
	Upsert(ctx context.Context, unit *domain.Unit) (string, bool, error)
	ListByOwner(ctx context.Context, ownerID, platform string) ([]domain.Unit, error)
}

type AssignmentStore interface {
	Upsert(ctx context.Context, assignment *domain.Assignment) error
}

type RunStore interface {
	Start(ctx context.Context, run *domain.SyncRun) error
	Finish(ctx context.Context, run *domain.SyncRun) error
	Latest(ctx context.Context, ownerID string, kind domain.RunKind) (*domain.SyncRun, error)
}

type Source interface {
	ID() string
	Name() string
	AllowedHost(baseURL string) bool
	FetchProfile(ctx context.Context, cred domain.Credential) (*canvas.Profile, error)
	FetchCourses(ctx context.Context, cred domain.Credential) ([]canvas.Course, error)
	FetchAssignmentGroups(ctx context.Context, cred domain.Credential, courseID string) ([]canvas.AssignmentGroup, error)
	FetchAssignments(ctx context.Context, cred domain.Credential, courseID string) ([]canvas.Assignment, error)
	CountAssignments(ctx context.Context, cred domain.Credential, courseID string) (*int, error)
}

type TokenVault interface {
	Encrypt(plaintext string) (vault.Sealed, error)
	Decrypt(sealed vault.Sealed) (string, error)
}

type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type RunLock interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (string, error)
	Release(ctx context.Context, key, token string) error
}

type Publisher interface {
	Publish(ctx context.Context, run *domain.SyncRun) error
	Close() error
}
