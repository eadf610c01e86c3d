package domain

import (
	"encoding/json"
	"time"
)

// Unit is a locally tracked course. Unique per (OwnerID, Platform, ExternalID).
type Unit struct {
	ID          string    `db:"id"`
	OwnerID     string    `db:"owner_id"`
	Platform    string    `db:"platform"`
	Institution string    `db:"institution"`
	ExternalID  string    `db:"external_id"`
	Code        *string   `db:"code"`
	Title       string    `db:"title"`
	Year        *int      `db:"year"`
	Semester    *int      `db:"semester"`
	Term        *string   `db:"term"`
	URL         *string   `db:"url"`
	CalendarURL *string   `db:"unit_url"`
	Instructor  *string   `db:"instructor"`
	Description *string   `db:"description"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

type AssignmentType string

const (
	AssignmentTypeQuiz       AssignmentType = "quiz"
	AssignmentTypeAssignment AssignmentType = "assignment"
)

// Assignment is a gradable item scoped to a Unit. Unique per (UnitID, Source, ExternalID).
type Assignment struct {
	ID                  string
	OwnerID             string
	UnitID              string
	Source              string
	ExternalID          string
	ExternalQuizID      *string
	Title               string
	DescriptionHTML     *string
	Type                AssignmentType
	Label               *string
	AssignmentGroupID   *string
	AssignmentGroupName *string
	DueAt               *time.Time
	UnlockAt            *time.Time
	LockAt              *time.Time
	PointsPossible      *float64
	State               *string
	HTMLURL             *string
	SubmissionTypes     []string
	ExternalUpdatedAt   *time.Time
	LastSyncedAt        time.Time
	// Raw is the remote record as received. It is stored, never interpreted.
	Raw json.RawMessage
}
