package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"lms_sync/internal/config"
	"lms_sync/internal/domain"
	"lms_sync/internal/runlock"
	"lms_sync/internal/source/canvas"
	"lms_sync/internal/vault"
)

// PipelineTestSuite drives both services against a fake Canvas server with
// the real paginator, vault and lock over in-memory stores.
type PipelineTestSuite struct {
	suite.Suite
	ctx context.Context

	srv     *httptest.Server
	revoked atomic.Bool
	calls   atomic.Int32

	connections *memConnections
	secrets     *memSecrets
	units       *memUnits
	assignments *memAssignments
	runs        *memRuns

	syncer  *SyncService
	connect *ConnectionService
}

func TestPipelineTestSuite(t *testing.T) {
	suite.Run(t, new(PipelineTestSuite))
}

func (s *PipelineTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.revoked.Store(false)
	s.calls.Store(0)
	s.srv = httptest.NewServer(http.HandlerFunc(s.serveCanvas))

	u, err := url.Parse(s.srv.URL)
	s.Require().NoError(err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	source := canvas.New(canvas.Config{MaxAttempts: 1, Timeout: 5 * time.Second}, canvas.NewAllowlist(u.Host), logger)

	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i)
	}
	tokens, err := vault.New(key)
	s.Require().NoError(err)

	s.connections = &memConnections{}
	s.secrets = &memSecrets{}
	s.units = &memUnits{}
	s.assignments = &memAssignments{}
	s.runs = &memRuns{}

	cfg := config.SyncConfig{LockTTL: time.Minute, RunTTL: time.Minute, RunTimeout: 30 * time.Second}
	s.syncer = NewSyncService(source, s.connections, s.secrets, s.units, s.assignments, s.runs, tokens, runlock.NewLocal(), nil, logger, cfg)
	s.connect = NewConnectionService(source, s.connections, s.secrets, s.runs, tokens, passthroughTx{}, "QUT", logger)

	result, err := s.connect.Connect(s.ctx, "owner-1", ConnectRequest{BaseURL: s.srv.URL + "/", Token: "good-token"})
	s.Require().NoError(err)
	s.Require().Equal(ActionCreated, result.Action)
}

func (s *PipelineTestSuite) TearDownTest() {
	s.srv.Close()
}

const (
	fixtureCourses = `[
		{"id":101,"name":"MXB202_25se2 Advanced Calculus","course_code":"MXB202_25se2","workflow_state":"available","enrollments":[{"type":"student","enrollment_state":"active"}]},
		{"id":102,"name":"IFB104 Building IT Systems","course_code":"IFB104","workflow_state":"available","enrollments":[{"type":"student","enrollment_state":"active"}]},
		{"id":103,"name":"CAB222 Networks","course_code":"CAB222","workflow_state":"completed","enrollments":[{"type":"student","enrollment_state":"completed"}]}
	]`
	fixtureGroups101 = `[{"id":9,"name":"Exams"}]`
	fixtureItems101  = `[
		{"id":1,"name":"Assignment 1: Report","due_at":"2025-09-01T13:59:00Z","points_possible":30,"submission_types":["online_upload"]},
		{"id":2,"name":"Final Exam","assignment_group_id":9,"due_at":"2025-11-10T00:00:00Z"},
		{"id":3,"name":""}
	]`
	fixtureItems102 = `[{"id":4,"name":"Weekly Quiz","quiz_id":55,"submission_types":["online_quiz"]}]`
)

func (s *PipelineTestSuite) serveCanvas(w http.ResponseWriter, r *http.Request) {
	s.calls.Add(1)
	if s.revoked.Load() || r.Header.Get("Authorization") != "Bearer good-token" {
		http.Error(w, `{"errors":[{"message":"Invalid access token."}]}`, http.StatusUnauthorized)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	items := map[string]string{"101": fixtureItems101, "102": fixtureItems102}
	counts := map[string]int{"101": 3, "102": 1}

	path := r.URL.Path
	switch {
	case path == "/api/v1/users/self/profile":
		fmt.Fprint(w, `{"id":42,"name":"Sam Student"}`)
	case path == "/api/v1/courses":
		fmt.Fprint(w, fixtureCourses)
	case strings.HasSuffix(path, "/assignment_groups"):
		if strings.Contains(path, "/101/") {
			fmt.Fprint(w, fixtureGroups101)
			return
		}
		fmt.Fprint(w, `[]`)
	case strings.HasSuffix(path, "/assignments"):
		id := strings.Split(path, "/")[4]
		if r.URL.Query().Get("per_page") == "1" {
			last := fmt.Sprintf("http://%s%s?page=%d&per_page=1", r.Host, path, counts[id])
			w.Header().Set("Link", fmt.Sprintf(`<%s>; rel="last"`, last))
			fmt.Fprint(w, `[]`)
			return
		}
		fmt.Fprint(w, items[id])
	default:
		http.NotFound(w, r)
	}
}

func (s *PipelineTestSuite) TestUnitsSyncIsIdempotent() {
	first, err := s.syncer.SyncUnits(s.ctx, "owner-1", nil)
	s.Require().NoError(err)
	s.Equal(2, first.Added)
	s.Equal(0, first.Updated)
	s.Equal(1, first.Skipped)
	s.Equal(3, first.Total)

	second, err := s.syncer.SyncUnits(s.ctx, "owner-1", nil)
	s.Require().NoError(err)
	s.Equal(0, second.Added)
	s.Equal(2, second.Updated)

	s.Len(s.units.rows, 2)

	unit := s.units.rows[0]
	s.Equal("101", unit.ExternalID)
	s.Equal("MXB202", *unit.Code)
	s.Equal("Advanced Calculus", unit.Title)
	s.Equal("S2 2025", *unit.Term)

	conn, err := s.connections.GetByOwner(s.ctx, "owner-1", domain.PlatformCanvas)
	s.Require().NoError(err)
	s.NotNil(conn.LastSyncedAt)
}

func (s *PipelineTestSuite) TestAssignmentsStreamProgress() {
	_, err := s.syncer.SyncUnits(s.ctx, "owner-1", nil)
	s.Require().NoError(err)

	var events []domain.Progress
	result, err := s.syncer.SyncAssignments(s.ctx, "owner-1", func(p domain.Progress) {
		events = append(events, p)
	})
	s.Require().NoError(err)

	s.Equal(2, result.UnitsProcessed)
	s.Equal(3, result.AssignmentsUpserted)
	s.Equal(1, result.AssignmentsSkipped)
	s.Empty(result.Errors)

	s.Require().NotEmpty(events)
	last := 0
	for _, e := range events {
		s.GreaterOrEqual(e.Current, last)
		last = e.Current
		s.Require().NotNil(e.Total)
		s.Equal(4, *e.Total)
	}
	s.Equal(result.AssignmentsUpserted, last)

	final := s.assignments.get("2")
	s.Require().NotNil(final)
	s.Equal(domain.AssignmentTypeAssignment, final.Type)
	s.Equal("final", *final.Label)
	s.Equal("Exams", *final.AssignmentGroupName)

	quiz := s.assignments.get("4")
	s.Require().NotNil(quiz)
	s.Equal(domain.AssignmentTypeQuiz, quiz.Type)
	s.Equal("55", *quiz.ExternalQuizID)

	again, err := s.syncer.SyncAssignments(s.ctx, "owner-1", nil)
	s.Require().NoError(err)
	s.Equal(3, again.AssignmentsUpserted)
	s.Len(s.assignments.rows, 3)
}

func (s *PipelineTestSuite) TestRevokedTokenWritesNothing() {
	s.revoked.Store(true)
	before := s.calls.Load()

	result, err := s.syncer.SyncUnits(s.ctx, "owner-1", nil)

	s.Nil(result)
	s.Equal(before+1, s.calls.Load())
	s.ErrorIs(err, domain.ErrReconnectRequired)
	s.Empty(s.units.rows)

	conn, err := s.connections.GetByOwner(s.ctx, "owner-1", domain.PlatformCanvas)
	s.Require().NoError(err)
	s.Nil(conn.LastSyncedAt)

	run, err := s.runs.Latest(s.ctx, "owner-1", domain.RunKindUnits)
	s.Require().NoError(err)
	s.Equal(domain.RunStatusAborted, run.Status)
	s.Contains(*run.Error, domain.ReasonTokenExpired)
}

func (s *PipelineTestSuite) TestStatusAfterSync() {
	_, err := s.syncer.SyncUnits(s.ctx, "owner-1", nil)
	s.Require().NoError(err)

	status, err := s.connect.Status(s.ctx, "owner-1")
	s.Require().NoError(err)

	s.True(status.Connected)
	s.Equal("Sam Student", *status.DisplayName)
	s.Require().NotNil(status.Units)
	s.False(status.Units.Running)
	s.Equal(domain.RunStatusDone, status.Units.Status)
	s.Nil(status.Assignments)
}

func (s *PipelineTestSuite) TestDisconnectRemovesSecret() {
	conn, err := s.connections.GetByOwner(s.ctx, "owner-1", domain.PlatformCanvas)
	s.Require().NoError(err)

	s.Require().NoError(s.connect.Disconnect(s.ctx, "owner-1", conn.ID))

	_, err = s.secrets.Get(s.ctx, conn.ID)
	s.ErrorIs(err, domain.ErrNotFound)

	_, err = s.syncer.SyncUnits(s.ctx, "owner-1", nil)
	s.ErrorIs(err, domain.ErrNotConnected)
}

type passthroughTx struct{}

func (passthroughTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type memConnections struct {
	mu   sync.Mutex
	rows []*domain.Connection
}

func (m *memConnections) GetByOwner(_ context.Context, ownerID, platform string) (*domain.Connection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.rows {
		if c.OwnerID == ownerID && c.Platform == platform {
			cp := *c
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memConnections) Upsert(_ context.Context, conn *domain.Connection) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.rows {
		if c.OwnerID == conn.OwnerID && c.Platform == conn.Platform {
			conn.ID = c.ID
			*c = *conn
			return false, nil
		}
	}
	conn.ID = "conn-" + strconv.Itoa(len(m.rows)+1)
	cp := *conn
	m.rows = append(m.rows, &cp)
	return true, nil
}

func (m *memConnections) Delete(_ context.Context, ownerID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, c := range m.rows {
		if c.ID == id && c.OwnerID == ownerID {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *memConnections) TouchLastSynced(_ context.Context, id string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.rows {
		if c.ID == id {
			c.LastSyncedAt = &at
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *memConnections) List(_ context.Context, platform string) ([]domain.Connection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Connection
	for _, c := range m.rows {
		if c.Platform == platform {
			out = append(out, *c)
		}
	}
	return out, nil
}

type memSecrets struct {
	mu   sync.Mutex
	rows map[string]domain.Secret
}

func (m *memSecrets) Get(_ context.Context, connectionID string) (*domain.Secret, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	secret, ok := m.rows[connectionID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &secret, nil
}

func (m *memSecrets) Upsert(_ context.Context, secret *domain.Secret) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.rows == nil {
		m.rows = map[string]domain.Secret{}
	}
	m.rows[secret.ConnectionID] = *secret
	return nil
}

func (m *memSecrets) Delete(_ context.Context, connectionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rows, connectionID)
	return nil
}

type memUnits struct {
	mu   sync.Mutex
	rows []domain.Unit
}

func (m *memUnits) Upsert(_ context.Context, unit *domain.Unit) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.rows {
		r := &m.rows[i]
		if r.OwnerID == unit.OwnerID && r.Platform == unit.Platform && r.ExternalID == unit.ExternalID {
			id := r.ID
			*r = *unit
			r.ID = id
			return id, false, nil
		}
	}
	row := *unit
	row.ID = "unit-" + unit.ExternalID
	m.rows = append(m.rows, row)
	return row.ID, true, nil
}

func (m *memUnits) ListByOwner(_ context.Context, ownerID, platform string) ([]domain.Unit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Unit
	for _, r := range m.rows {
		if r.OwnerID == ownerID && r.Platform == platform {
			out = append(out, r)
		}
	}
	return out, nil
}

type memAssignments struct {
	mu   sync.Mutex
	rows []domain.Assignment
}

func (m *memAssignments) Upsert(_ context.Context, a *domain.Assignment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.rows {
		r := &m.rows[i]
		if r.UnitID == a.UnitID && r.Source == a.Source && r.ExternalID == a.ExternalID {
			if r.OwnerID != a.OwnerID {
				return fmt.Errorf("assignment %s belongs to another owner", a.ExternalID)
			}
			*r = *a
			return nil
		}
	}
	m.rows = append(m.rows, *a)
	return nil
}

func (m *memAssignments) get(externalID string) *domain.Assignment {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.rows {
		if m.rows[i].ExternalID == externalID {
			a := m.rows[i]
			return &a
		}
	}
	return nil
}

type memRuns struct {
	mu   sync.Mutex
	rows []domain.SyncRun
}

func (m *memRuns) Start(_ context.Context, run *domain.SyncRun) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = append(m.rows, *run)
	return nil
}

func (m *memRuns) Finish(_ context.Context, run *domain.SyncRun) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.rows {
		if m.rows[i].ID == run.ID {
			m.rows[i] = *run
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *memRuns) Latest(_ context.Context, ownerID string, kind domain.RunKind) (*domain.SyncRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.rows) - 1; i >= 0; i-- {
		if m.rows[i].OwnerID == ownerID && m.rows[i].Kind == kind {
			run := m.rows[i]
			return &run, nil
		}
	}
	return nil, domain.ErrNotFound
}
