package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"lms_sync/internal/domain"
)

type UnitStore struct {
	db *sqlx.DB
}

func NewUnitStore(db *sqlx.DB) *UnitStore {
	return &UnitStore{db: db}
}

// Upsert writes unit under (owner_id, platform, external_id). It returns the
// row id and whether the row was inserted rather than updated.
func (s *UnitStore) Upsert(ctx context.Context, unit *domain.Unit) (string, bool, error) {
	query := `
		INSERT INTO units (
			owner_id, platform, institution, external_id, code, title,
			year, semester, term, url, unit_url, instructor, description
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13
		)
		ON CONFLICT (owner_id, platform, external_id) DO UPDATE SET
			institution = EXCLUDED.institution,
			code = EXCLUDED.code,
			title = EXCLUDED.title,
			year = EXCLUDED.year,
			semester = EXCLUDED.semester,
			term = EXCLUDED.term,
			url = EXCLUDED.url,
			unit_url = EXCLUDED.unit_url,
			instructor = EXCLUDED.instructor,
			description = EXCLUDED.description,
			updated_at = NOW()
		RETURNING id, (xmax = 0) AS inserted`

	var id string
	var inserted bool
	err := GetExecutor(ctx, s.db).QueryRowxContext(ctx, query,
		unit.OwnerID,
		unit.Platform,
		unit.Institution,
		unit.ExternalID,
		unit.Code,
		unit.Title,
		unit.Year,
		unit.Semester,
		unit.Term,
		unit.URL,
		unit.CalendarURL,
		unit.Instructor,
		unit.Description,
	).Scan(&id, &inserted)
	if err != nil {
		return "", false, err
	}
	return id, inserted, nil
}

func (s *UnitStore) ListByOwner(ctx context.Context, ownerID, platform string) ([]domain.Unit, error) {
	units := make([]domain.Unit, 0)
	query := `
		SELECT id, owner_id, platform, institution, external_id, code, title,
			year, semester, term, url, unit_url, instructor, description,
			created_at, updated_at
		FROM units
		WHERE owner_id = $1 AND platform = $2
		ORDER BY created_at, external_id`

	if err := sqlx.SelectContext(ctx, GetExecutor(ctx, s.db), &units, query, ownerID, platform); err != nil {
		return nil, err
	}
	return units, nil
}
