//go:build integration

package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"lms_sync/internal/domain"
	"lms_sync/testdata/utils"
)

type PostgresIntegrationSuite struct {
	suite.Suite
	ctx       context.Context
	container *postgres.PostgresContainer
	db        *sqlx.DB
}

func (s *PostgresIntegrationSuite) SetupSuite() {
	s.ctx = context.Background()

	migrationsPath, err := filepath.Abs("../../../migrations")
	s.Require().NoError(err)

	container, err := postgres.Run(s.ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("test_db"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		postgres.WithInitScripts(
			filepath.Join(migrationsPath, "001_create_lms.up.sql"),
		),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	s.Require().NoError(err)
	s.container = container

	connStr, err := container.ConnectionString(s.ctx, "sslmode=disable")
	s.Require().NoError(err)

	db, err := sqlx.Connect("postgres", connStr)
	s.Require().NoError(err)
	s.db = db
}

func (s *PostgresIntegrationSuite) TearDownSuite() {
	if s.db != nil {
		s.db.Close()
	}
	if s.container != nil {
		_ = s.container.Terminate(s.ctx)
	}
}

func (s *PostgresIntegrationSuite) SetupTest() {
	_, _ = s.db.ExecContext(s.ctx, "DELETE FROM sync_runs")
	_, _ = s.db.ExecContext(s.ctx, "DELETE FROM assignments")
	_, _ = s.db.ExecContext(s.ctx, "DELETE FROM units")
	_, _ = s.db.ExecContext(s.ctx, "DELETE FROM lms_secrets")
	_, _ = s.db.ExecContext(s.ctx, "DELETE FROM lms_connections")
}

func TestPostgresIntegrationSuite(t *testing.T) {
	suite.Run(t, new(PostgresIntegrationSuite))
}

func (s *PostgresIntegrationSuite) createConnection(owner string) *domain.Connection {
	conn := &domain.Connection{
		OwnerID:     owner,
		Platform:    domain.PlatformCanvas,
		Institution: "QUT",
		BaseURL:     "https://canvas.qut.edu.au",
		DisplayName: utils.Ptr("Sam Student"),
	}
	inserted, err := NewConnectionStore(s.db).Upsert(s.ctx, conn)
	s.Require().NoError(err)
	s.Require().True(inserted)
	return conn
}

func (s *PostgresIntegrationSuite) createUnit(owner, externalID string) string {
	id, _, err := NewUnitStore(s.db).Upsert(s.ctx, &domain.Unit{
		OwnerID:     owner,
		Platform:    domain.PlatformCanvas,
		Institution: "QUT",
		ExternalID:  externalID,
		Title:       "Unit " + externalID,
	})
	s.Require().NoError(err)
	return id
}

func (s *PostgresIntegrationSuite) TestConnectionStore_UpsertIsUniquePerOwnerAndPlatform() {
	store := NewConnectionStore(s.db)
	first := s.createConnection("owner-1")

	again := &domain.Connection{
		OwnerID:     "owner-1",
		Platform:    domain.PlatformCanvas,
		Institution: "QUT",
		BaseURL:     "https://canvas.qut.edu.au",
		DisplayName: utils.Ptr("Renamed"),
	}
	inserted, err := store.Upsert(s.ctx, again)
	s.NoError(err)
	s.False(inserted)
	s.Equal(first.ID, again.ID)

	got, err := store.GetByOwner(s.ctx, "owner-1", domain.PlatformCanvas)
	s.NoError(err)
	s.Equal(utils.Ptr("Renamed"), got.DisplayName)
	s.Nil(got.LastSyncedAt)

	_, err = store.GetByOwner(s.ctx, "owner-2", domain.PlatformCanvas)
	s.ErrorIs(err, domain.ErrNotFound)
}

func (s *PostgresIntegrationSuite) TestConnectionStore_DeleteCascadesSecret() {
	conns := NewConnectionStore(s.db)
	secrets := NewSecretStore(s.db)
	conn := s.createConnection("owner-1")

	s.NoError(secrets.Upsert(s.ctx, &domain.Secret{ConnectionID: conn.ID, Ciphertext: "ct", Nonce: "iv"}))

	s.ErrorIs(conns.Delete(s.ctx, "owner-2", conn.ID), domain.ErrNotFound)
	s.NoError(conns.Delete(s.ctx, "owner-1", conn.ID))

	_, err := secrets.Get(s.ctx, conn.ID)
	s.ErrorIs(err, domain.ErrNotFound)
}

func (s *PostgresIntegrationSuite) TestConnectionStore_TouchAndList() {
	store := NewConnectionStore(s.db)
	conn := s.createConnection("owner-1")
	s.createConnection("owner-2")
	now := time.Now().Truncate(time.Microsecond)

	s.NoError(store.TouchLastSynced(s.ctx, conn.ID, now))

	got, err := store.GetByOwner(s.ctx, "owner-1", domain.PlatformCanvas)
	s.NoError(err)
	s.Require().NotNil(got.LastSyncedAt)
	s.WithinDuration(now, *got.LastSyncedAt, time.Second)

	all, err := store.List(s.ctx, domain.PlatformCanvas)
	s.NoError(err)
	s.Len(all, 2)
}

func (s *PostgresIntegrationSuite) TestSecretStore_UpsertReplaces() {
	store := NewSecretStore(s.db)
	conn := s.createConnection("owner-1")

	s.NoError(store.Upsert(s.ctx, &domain.Secret{ConnectionID: conn.ID, Ciphertext: "old", Nonce: "iv1"}))
	s.NoError(store.Upsert(s.ctx, &domain.Secret{ConnectionID: conn.ID, Ciphertext: "new", Nonce: "iv2"}))

	got, err := store.Get(s.ctx, conn.ID)
	s.NoError(err)
	s.Equal("new", got.Ciphertext)
	s.Equal("iv2", got.Nonce)

	s.NoError(store.Delete(s.ctx, conn.ID))
	_, err = store.Get(s.ctx, conn.ID)
	s.ErrorIs(err, domain.ErrNotFound)
}

func (s *PostgresIntegrationSuite) TestUnitStore_UpsertReportsInsertThenUpdate() {
	store := NewUnitStore(s.db)
	unit := &domain.Unit{
		OwnerID:     "owner-1",
		Platform:    domain.PlatformCanvas,
		Institution: "QUT",
		ExternalID:  "12345",
		Code:        utils.Ptr("MXB202"),
		Title:       "Advanced Calculus",
		Year:        utils.Ptr(2025),
		Semester:    utils.Ptr(2),
		Term:        utils.Ptr("S2 2025"),
		Instructor:  utils.Ptr("Dr Lee"),
		Description: utils.Ptr("Limits and series."),
	}

	id1, inserted, err := store.Upsert(s.ctx, unit)
	s.NoError(err)
	s.True(inserted)

	unit.Title = "Advanced Calculus II"
	unit.CalendarURL = utils.Ptr("https://canvas.qut.edu.au/feeds/calendars/course_12345.ics")
	id2, inserted, err := store.Upsert(s.ctx, unit)
	s.NoError(err)
	s.False(inserted)
	s.Equal(id1, id2)

	other := *unit
	other.OwnerID = "owner-2"
	id3, inserted, err := store.Upsert(s.ctx, &other)
	s.NoError(err)
	s.True(inserted)
	s.NotEqual(id1, id3)

	units, err := store.ListByOwner(s.ctx, "owner-1", domain.PlatformCanvas)
	s.NoError(err)
	s.Require().Len(units, 1)
	s.Equal("Advanced Calculus II", units[0].Title)
	s.Equal(utils.Ptr(2025), units[0].Year)
	s.Equal(utils.Ptr("Dr Lee"), units[0].Instructor)
	s.Equal(utils.Ptr("Limits and series."), units[0].Description)
	s.Equal(utils.Ptr("https://canvas.qut.edu.au/feeds/calendars/course_12345.ics"), units[0].CalendarURL)
}

func (s *PostgresIntegrationSuite) TestAssignmentStore_Upsert() {
	store := NewAssignmentStore(s.db)
	unitID := s.createUnit("owner-1", "1")
	due := time.Date(2025, 3, 15, 13, 59, 0, 0, time.UTC)

	a := &domain.Assignment{
		OwnerID:         "owner-1",
		UnitID:          unitID,
		Source:          domain.PlatformCanvas,
		ExternalID:      "501",
		Title:           "Quiz 3",
		Type:            domain.AssignmentTypeQuiz,
		Label:           utils.Ptr("exam"),
		DueAt:           &due,
		SubmissionTypes: []string{"online_quiz"},
		LastSyncedAt:    time.Now(),
		Raw:             json.RawMessage(`{"id":501,"name":"Quiz 3"}`),
	}
	s.NoError(store.Upsert(s.ctx, a))

	a.Title = "Quiz 3 (updated)"
	s.NoError(store.Upsert(s.ctx, a))

	var row struct {
		Count int    `db:"count"`
		Title string `db:"title"`
		Raw   string `db:"raw"`
	}
	err := s.db.GetContext(s.ctx, &row, `
		SELECT COUNT(*) OVER () AS count, title, raw::text AS raw
		FROM assignments WHERE unit_id = $1`, unitID)
	s.NoError(err)
	s.Equal(1, row.Count)
	s.Equal("Quiz 3 (updated)", row.Title)
	s.JSONEq(`{"id":501,"name":"Quiz 3"}`, row.Raw)
}

func (s *PostgresIntegrationSuite) TestAssignmentStore_RefusesCrossOwnerUpdate() {
	store := NewAssignmentStore(s.db)
	unitID := s.createUnit("owner-1", "1")

	a := &domain.Assignment{
		OwnerID:      "owner-1",
		UnitID:       unitID,
		Source:       domain.PlatformCanvas,
		ExternalID:   "501",
		Title:        "Essay",
		Type:         domain.AssignmentTypeAssignment,
		LastSyncedAt: time.Now(),
	}
	s.NoError(store.Upsert(s.ctx, a))

	a.OwnerID = "owner-2"
	a.Title = "Hijacked"
	s.ErrorIs(store.Upsert(s.ctx, a), ErrOwnerMismatch)
}

func (s *PostgresIntegrationSuite) TestSyncRunStore_StartFinishLatest() {
	store := NewSyncRunStore(s.db)
	conn := s.createConnection("owner-1")
	now := time.Now().Truncate(time.Microsecond)

	_, err := store.Latest(s.ctx, "owner-1", domain.RunKindUnits)
	s.ErrorIs(err, domain.ErrNotFound)

	run := &domain.SyncRun{
		ID:           "3f1b0c1e-8f3a-4d0e-9b8a-1c2d3e4f5a6b",
		OwnerID:      "owner-1",
		ConnectionID: &conn.ID,
		Kind:         domain.RunKindUnits,
		Status:       domain.RunStatusRunning,
		StartedAt:    now,
		ExpiresAt:    now.Add(10 * time.Minute),
	}
	s.NoError(store.Start(s.ctx, run))

	got, err := store.Latest(s.ctx, "owner-1", domain.RunKindUnits)
	s.NoError(err)
	s.True(got.Running(now))
	s.Empty(got.Summary)

	finished := now.Add(time.Second)
	run.Status = domain.RunStatusDone
	run.FinishedAt = &finished
	run.Summary = json.RawMessage(`{"added":1}`)
	s.NoError(store.Finish(s.ctx, run))

	got, err = store.Latest(s.ctx, "owner-1", domain.RunKindUnits)
	s.NoError(err)
	s.False(got.Running(now))
	s.JSONEq(`{"added":1}`, string(got.Summary))

	_, err = store.Latest(s.ctx, "owner-1", domain.RunKindAssignments)
	s.ErrorIs(err, domain.ErrNotFound)
}

func (s *PostgresIntegrationSuite) TestTransaction_Commit() {
	tm := NewTransactionManager(s.db)
	conns := NewConnectionStore(s.db)
	secrets := NewSecretStore(s.db)

	conn := &domain.Connection{OwnerID: "owner-1", Platform: domain.PlatformCanvas, Institution: "QUT", BaseURL: "https://canvas.qut.edu.au"}
	err := tm.WithTransaction(s.ctx, func(ctx context.Context) error {
		if _, err := conns.Upsert(ctx, conn); err != nil {
			return err
		}
		return secrets.Upsert(ctx, &domain.Secret{ConnectionID: conn.ID, Ciphertext: "ct", Nonce: "iv"})
	})
	s.NoError(err)

	_, err = secrets.Get(s.ctx, conn.ID)
	s.NoError(err)
}

func (s *PostgresIntegrationSuite) TestTransaction_Rollback() {
	tm := NewTransactionManager(s.db)
	conns := NewConnectionStore(s.db)
	boom := errors.New("boom")

	conn := &domain.Connection{OwnerID: "owner-1", Platform: domain.PlatformCanvas, Institution: "QUT", BaseURL: "https://canvas.qut.edu.au"}
	err := tm.WithTransaction(s.ctx, func(ctx context.Context) error {
		if _, err := conns.Upsert(ctx, conn); err != nil {
			return err
		}
		return boom
	})
	s.ErrorIs(err, boom)

	_, err = conns.GetByOwner(s.ctx, "owner-1", domain.PlatformCanvas)
	s.ErrorIs(err, domain.ErrNotFound)
}
