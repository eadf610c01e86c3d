package domain

import (
	"encoding/json"
	"time"
)

type RunKind string

const (
	RunKindUnits       RunKind = "units"
	RunKindAssignments RunKind = "assignments"
)

// RunState is the orchestrator state of a single run.
type RunState string

const (
	StateAuthenticating   RunState = "authenticating"
	StateFetchingParents  RunState = "fetching_parents"
	StateFetchingChildren RunState = "fetching_children"
	StateReconciling      RunState = "reconciling"
	StateFinalizing       RunState = "finalizing"
	StateDone             RunState = "done"
	StateAborted          RunState = "aborted"
)

type RunStatus string

const (
	RunStatusRunning RunStatus = "running"
	RunStatusDone    RunStatus = "done"
	RunStatusAborted RunStatus = "aborted"
)

// SyncRun is the durable marker of one sync invocation.
type SyncRun struct {
	ID           string          `db:"id" json:"id"`
	OwnerID      string          `db:"owner_id" json:"ownerId"`
	ConnectionID *string         `db:"connection_id" json:"connectionId,omitempty"`
	Kind         RunKind         `db:"kind" json:"kind"`
	Status       RunStatus       `db:"status" json:"status"`
	StartedAt    time.Time       `db:"started_at" json:"startedAt"`
	ExpiresAt    time.Time       `db:"expires_at" json:"expiresAt"`
	FinishedAt   *time.Time      `db:"finished_at" json:"finishedAt,omitempty"`
	Summary      json.RawMessage `db:"summary" json:"summary,omitempty"`
	Error        *string         `db:"error" json:"error,omitempty"`
}

// Running reports whether the run is still in progress at now. A run whose
// expiry has passed without finishing is considered dead.
func (r *SyncRun) Running(now time.Time) bool {
	return r.Status == RunStatusRunning && now.Before(r.ExpiresAt)
}

// UnitSyncResult is the terminal summary of a units run.
type UnitSyncResult struct {
	Added   int `json:"added"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
	Total   int `json:"total"`
	Errors  int `json:"errors"`

	ErrorLog []string      `json:"-"`
	Duration time.Duration `json:"-"`
}

// AssignmentSyncResult is the terminal summary of an assignments run.
type AssignmentSyncResult struct {
	UnitsProcessed      int      `json:"unitsProcessed"`
	AssignmentsUpserted int      `json:"assignmentsUpserted"`
	AssignmentsSkipped  int      `json:"assignmentsSkipped"`
	Errors              []string `json:"errors"`

	Duration time.Duration `json:"-"`
}

// Progress is a non-terminal progress report. Total is nil when indeterminate.
type Progress struct {
	Current int
	Total   *int
}

// ProgressFunc receives progress in the order work completes. It may be nil.
type ProgressFunc func(Progress)

// RunView is a run as reported to observers.
type RunView struct {
	*SyncRun
	Running bool `json:"running"`
}

// SyncStatus is what an observer sees of an owner's connection and runs.
type SyncStatus struct {
	Connected    bool       `json:"connected"`
	ConnectionID string     `json:"connectionId,omitempty"`
	Institution  string     `json:"institution,omitempty"`
	BaseURL      string     `json:"baseUrl,omitempty"`
	DisplayName  *string    `json:"displayName,omitempty"`
	LastSyncedAt *time.Time `json:"lastSyncedAt,omitempty"`
	Units        *RunView   `json:"units,omitempty"`
	Assignments  *RunView   `json:"assignments,omitempty"`
}
