package domain

import "time"

// PlatformCanvas is the only LMS platform synced today.
const PlatformCanvas = "canvas"

// Connection links one owner to one LMS instance. Unique per (OwnerID, Platform).
type Connection struct {
	ID             string     `db:"id"`
	OwnerID        string     `db:"owner_id"`
	Platform       string     `db:"platform"`
	Institution    string     `db:"institution"`
	BaseURL        string     `db:"base_url"`
	DisplayName    *string    `db:"display_name"`
	ExternalUserID *string    `db:"external_user_id"`
	LastSyncedAt   *time.Time `db:"last_synced_at"`
	CreatedAt      time.Time  `db:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at"`
}

// Secret is the sealed bearer token of a Connection. It exists iff the Connection exists.
type Secret struct {
	ConnectionID string    `db:"connection_id"`
	Ciphertext   string    `db:"token_ciphertext"`
	Nonce        string    `db:"token_iv"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// Credential is a decrypted token bound to the host it may be sent to.
// It only lives for the duration of a run.
type Credential struct {
	BaseURL string
	Token   string
}
