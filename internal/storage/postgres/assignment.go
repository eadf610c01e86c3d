package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"lms_sync/internal/domain"
)

// ErrOwnerMismatch is returned when the conflicting row belongs to another owner.
var ErrOwnerMismatch = errors.New("assignment belongs to another owner")

type AssignmentStore struct {
	db *sqlx.DB
}

func NewAssignmentStore(db *sqlx.DB) *AssignmentStore {
	return &AssignmentStore{db: db}
}

func (s *AssignmentStore) Upsert(ctx context.Context, a *domain.Assignment) error {
	query := `
		INSERT INTO assignments (
			owner_id, unit_id, source, external_id, external_quiz_id, title,
			description_html, type, label, assignment_group_id, assignment_group_name,
			due_at, unlock_at, lock_at, points_possible, state, html_url,
			submission_types, external_updated_at, last_synced_at, raw
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11,
			$12, $13, $14, $15, $16, $17, $18, $19, $20, $21::jsonb
		)
		ON CONFLICT (unit_id, source, external_id) DO UPDATE SET
			external_quiz_id = EXCLUDED.external_quiz_id,
			title = EXCLUDED.title,
			description_html = EXCLUDED.description_html,
			type = EXCLUDED.type,
			label = EXCLUDED.label,
			assignment_group_id = EXCLUDED.assignment_group_id,
			assignment_group_name = EXCLUDED.assignment_group_name,
			due_at = EXCLUDED.due_at,
			unlock_at = EXCLUDED.unlock_at,
			lock_at = EXCLUDED.lock_at,
			points_possible = EXCLUDED.points_possible,
			state = EXCLUDED.state,
			html_url = EXCLUDED.html_url,
			submission_types = EXCLUDED.submission_types,
			external_updated_at = EXCLUDED.external_updated_at,
			last_synced_at = EXCLUDED.last_synced_at,
			raw = EXCLUDED.raw,
			updated_at = NOW()
		WHERE assignments.owner_id = EXCLUDED.owner_id`

	res, err := GetExecutor(ctx, s.db).ExecContext(ctx, query,
		a.OwnerID,
		a.UnitID,
		a.Source,
		a.ExternalID,
		a.ExternalQuizID,
		a.Title,
		a.DescriptionHTML,
		string(a.Type),
		a.Label,
		a.AssignmentGroupID,
		a.AssignmentGroupName,
		a.DueAt,
		a.UnlockAt,
		a.LockAt,
		a.PointsPossible,
		a.State,
		a.HTMLURL,
		pq.Array(a.SubmissionTypes),
		a.ExternalUpdatedAt,
		a.LastSyncedAt,
		jsonText(a.Raw),
	)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrOwnerMismatch
	}
	return nil
}

// jsonText passes raw JSON as text. lib/pq would send []byte as bytea.
func jsonText(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	return string(raw)
}
