package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"lms_sync/internal/config"
	"lms_sync/internal/domain"
	"lms_sync/internal/reconcile"
	"lms_sync/internal/runlock"
	"lms_sync/internal/source/canvas"
)

// SyncService drives sync runs: it resolves the owner's credential, walks the
// remote parents and children one at a time, reconciles each record and
// accumulates per-item failures into the run summary.
type SyncService struct {
	credentials
	units       UnitStore
	assignments AssignmentStore
	runs        RunStore
	lock        RunLock
	publisher   Publisher
	logger      *slog.Logger
	config      config.SyncConfig
	now         func() time.Time

	// stop is cancelled by Shutdown to interrupt in-flight runs.
	stop     context.Context
	stopRuns context.CancelFunc
	mu       sync.Mutex
	closed   bool
	active   sync.WaitGroup
}

func NewSyncService(
	source Source,
	connections ConnectionStore,
	secrets SecretStore,
	units UnitStore,
	assignments AssignmentStore,
	runs RunStore,
	tokens TokenVault,
	lock RunLock,
	publisher Publisher,
	logger *slog.Logger,
	cfg config.SyncConfig,
) *SyncService {
	stop, stopRuns := context.WithCancel(context.Background())
	return &SyncService{
		credentials: credentials{
			source:      source,
			connections: connections,
			secrets:     secrets,
			vault:       tokens,
		},
		units:       units,
		assignments: assignments,
		runs:        runs,
		lock:        lock,
		publisher:   publisher,
		logger:      logger.With("component", "sync", "source", source.ID()),
		config:      cfg,
		now:         time.Now,
		stop:        stop,
		stopRuns:    stopRuns,
	}
}

// Shutdown interrupts in-flight runs and waits until each has finished its
// run record and released its owner's lock. Later runs are refused.
func (s *SyncService) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.stopRuns()

	done := make(chan struct{})
	go func() {
		s.active.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("wait for runs: %w", ctx.Err())
	}
}

// SyncUnits reconciles the owner's courses into units. onProgress may be nil.
func (s *SyncService) SyncUnits(ctx context.Context, ownerID string, onProgress domain.ProgressFunc) (*domain.UnitSyncResult, error) {
	ctx, done, err := s.runContext(ctx)
	if err != nil {
		return nil, err
	}
	defer done()

	r, err := s.begin(ctx, ownerID, domain.RunKindUnits)
	if err != nil {
		return nil, err
	}

	result, err := s.syncUnits(ctx, r, onProgress)
	if err != nil {
		s.end(ctx, r, nil, err)
		return nil, err
	}

	result.Duration = time.Since(r.started)
	s.end(ctx, r, result, nil)

	r.logger.Info("units sync completed",
		"added", result.Added,
		"updated", result.Updated,
		"skipped", result.Skipped,
		"total", result.Total,
		"errors", result.Errors,
		"duration", result.Duration,
	)
	return result, nil
}

// SyncAssignments reconciles the assignments of every unit the owner already has.
func (s *SyncService) SyncAssignments(ctx context.Context, ownerID string, onProgress domain.ProgressFunc) (*domain.AssignmentSyncResult, error) {
	ctx, done, err := s.runContext(ctx)
	if err != nil {
		return nil, err
	}
	defer done()

	r, err := s.begin(ctx, ownerID, domain.RunKindAssignments)
	if err != nil {
		return nil, err
	}

	result, err := s.syncAssignments(ctx, r, onProgress)
	if err != nil {
		s.end(ctx, r, nil, err)
		return nil, err
	}

	result.Duration = time.Since(r.started)
	s.end(ctx, r, result, nil)

	r.logger.Info("assignments sync completed",
		"units_processed", result.UnitsProcessed,
		"upserted", result.AssignmentsUpserted,
		"skipped", result.AssignmentsSkipped,
		"errors", len(result.Errors),
		"duration", result.Duration,
	)
	return result, nil
}

func (s *SyncService) syncUnits(ctx context.Context, r *run, onProgress domain.ProgressFunc) (*domain.UnitSyncResult, error) {
	conn, cred, err := s.authenticate(ctx, r)
	if err != nil {
		return nil, err
	}

	r.to(domain.StateFetchingParents)
	courses, err := s.source.FetchCourses(ctx, cred)
	if err != nil {
		return nil, fmt.Errorf("fetch courses: %w", remoteError(err))
	}

	r.logger.Info("fetched courses", "count", len(courses))

	result := &domain.UnitSyncResult{Total: len(courses), ErrorLog: []string{}}

	accepted := make([]*canvas.Course, 0, len(courses))
	for i := range courses {
		reason := reconcile.AcceptCourse(&courses[i])
		if reason == reconcile.SkipMalformed {
			result.Skipped++
			r.logger.Warn("skipping malformed course", "course_id", courseID(&courses[i]), "error", courses[i].Malformed)
			continue
		}
		if reason != reconcile.SkipNone {
			result.Skipped++
			r.logger.Debug("skipping course", "course_id", courseID(&courses[i]), "reason", reason)
			continue
		}
		accepted = append(accepted, &courses[i])
	}

	total := len(accepted)
	progress := newProgress(onProgress, &total)
	progress.report(0)

	r.to(domain.StateReconciling)
	seen := make(map[string]struct{}, len(accepted))
	for _, course := range accepted {
		if err := interrupted(ctx); err != nil {
			return nil, err
		}
		s.reconcileUnit(ctx, r, conn, course, seen, result)
		progress.report(result.Added + result.Updated)
	}

	r.to(domain.StateFinalizing)
	s.touch(ctx, r, conn, &result.ErrorLog)
	result.Errors = len(result.ErrorLog)
	r.to(domain.StateDone)

	return result, nil
}

func (s *SyncService) reconcileUnit(ctx context.Context, r *run, conn *domain.Connection, course *canvas.Course, seen map[string]struct{}, result *domain.UnitSyncResult) {
	unit, err := reconcile.Unit(conn, course)
	if err != nil {
		result.Skipped++
		result.ErrorLog = append(result.ErrorLog, fmt.Sprintf("Course %s: %v", courseID(course), err))
		return
	}

	_, inserted, err := s.units.Upsert(ctx, unit)
	if err != nil {
		r.logger.Warn("upsert unit failed", "course_id", unit.ExternalID, "error", err)
		result.Skipped++
		result.ErrorLog = append(result.ErrorLog, fmt.Sprintf("Course %s: %v", unit.ExternalID, err))
		return
	}

	_, dup := seen[unit.ExternalID]
	seen[unit.ExternalID] = struct{}{}

	if inserted && !dup {
		result.Added++
	} else {
		result.Updated++
	}
}

func (s *SyncService) syncAssignments(ctx context.Context, r *run, onProgress domain.ProgressFunc) (*domain.AssignmentSyncResult, error) {
	conn, cred, err := s.authenticate(ctx, r)
	if err != nil {
		return nil, err
	}

	r.to(domain.StateFetchingParents)
	units, err := s.units.ListByOwner(ctx, conn.OwnerID, s.source.ID())
	if err != nil {
		return nil, fmt.Errorf("list units: %w", err)
	}

	result := &domain.AssignmentSyncResult{UnitsProcessed: len(units), Errors: []string{}}

	var total *int
	if onProgress != nil {
		if total, err = s.countAssignments(ctx, r, cred, units); err != nil {
			return nil, err
		}
	}
	progress := newProgress(onProgress, total)
	progress.report(0)

	now := s.now()
	for i := range units {
		if err := interrupted(ctx); err != nil {
			return nil, err
		}
		if err := s.syncUnitAssignments(ctx, r, cred, &units[i], now, result, progress); err != nil {
			return nil, err
		}
	}

	r.to(domain.StateFinalizing)
	s.touch(ctx, r, conn, &result.Errors)
	r.to(domain.StateDone)

	return result, nil
}

// syncUnitAssignments returns an error only when the run must abort.
func (s *SyncService) syncUnitAssignments(
	ctx context.Context,
	r *run,
	cred domain.Credential,
	unit *domain.Unit,
	now time.Time,
	result *domain.AssignmentSyncResult,
	progress *progressReporter,
) error {
	if unit.ExternalID == "" {
		result.Errors = append(result.Errors, fmt.Sprintf("Unit %s has no external_id", unit.ID))
		return nil
	}

	logger := r.logger.With("unit_id", unit.ID, "course_id", unit.ExternalID)

	r.to(domain.StateFetchingChildren)
	groups, err := s.source.FetchAssignmentGroups(ctx, cred, unit.ExternalID)
	if err != nil {
		if fatal(err) {
			return fmt.Errorf("fetch assignment groups: %w", remoteError(err))
		}
		logger.Warn("fetch assignment groups failed", "error", err)
		result.Errors = append(result.Errors, fmt.Sprintf("Unit %s (course %s): assignment_groups: %v", unit.ID, unit.ExternalID, err))
		return nil
	}

	assignments, err := s.source.FetchAssignments(ctx, cred, unit.ExternalID)
	if err != nil {
		if fatal(err) {
			return fmt.Errorf("fetch assignments: %w", remoteError(err))
		}
		logger.Warn("fetch assignments failed", "error", err)
		result.Errors = append(result.Errors, fmt.Sprintf("Unit %s (course %s): assignments: %v", unit.ID, unit.ExternalID, err))
		return nil
	}

	logger.Debug("fetched assignments", "count", len(assignments), "groups", len(groups))

	r.to(domain.StateReconciling)
	names := reconcile.GroupNames(groups)
	for i := range assignments {
		a := &assignments[i]

		record, err := reconcile.Assignment(unit, a, names, now)
		if reconcile.IsValidation(err) {
			result.AssignmentsSkipped++
			continue
		}
		if err == nil {
			err = s.assignments.Upsert(ctx, record)
		}
		if err != nil {
			logger.Warn("assignment skipped", "assignment_id", assignmentID(a), "error", err)
			result.AssignmentsSkipped++
			result.Errors = append(result.Errors, fmt.Sprintf("Assignment %s: %v", assignmentID(a), err))
			continue
		}

		result.AssignmentsUpserted++
		progress.report(result.AssignmentsUpserted)
	}

	return nil
}

// countAssignments sums the per-unit counts for the progress denominator. Any
// unknown count makes the whole total unknown.
func (s *SyncService) countAssignments(ctx context.Context, r *run, cred domain.Credential, units []domain.Unit) (*int, error) {
	sum := 0
	for _, unit := range units {
		if unit.ExternalID == "" {
			return nil, nil
		}
		n, err := s.source.CountAssignments(ctx, cred, unit.ExternalID)
		if err != nil {
			if fatal(err) {
				return nil, fmt.Errorf("count assignments: %w", remoteError(err))
			}
			r.logger.Debug("assignment count unavailable", "course_id", unit.ExternalID, "error", err)
			return nil, nil
		}
		if n == nil {
			return nil, nil
		}
		sum += *n
	}
	return &sum, nil
}

func (s *SyncService) authenticate(ctx context.Context, r *run) (*domain.Connection, domain.Credential, error) {
	r.to(domain.StateAuthenticating)

	conn, cred, err := s.resolve(ctx, r.record.OwnerID)
	if conn != nil {
		r.record.ConnectionID = &conn.ID
		r.logger = r.logger.With("connection_id", conn.ID)
	}
	return conn, cred, err
}

// touch records the sync on the connection. It runs once per completed run.
func (s *SyncService) touch(ctx context.Context, r *run, conn *domain.Connection, errs *[]string) {
	if err := s.connections.TouchLastSynced(ctx, conn.ID, s.now()); err != nil {
		r.logger.Warn("update last synced failed", "error", err)
		*errs = append(*errs, fmt.Sprintf("update last synced: %v", err))
	}
}

// runContext detaches the run from the caller: a dropped client must not
// leave the owner's records half reconciled. Only the run timeout and
// Shutdown end it early. done must be called once the run has ended.
func (s *SyncService) runContext(ctx context.Context) (context.Context, func(), error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, nil, domain.ErrShuttingDown
	}
	s.active.Add(1)
	s.mu.Unlock()

	ctx = context.WithoutCancel(ctx)
	var cancel context.CancelFunc
	if s.config.RunTimeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, s.config.RunTimeout)
	} else {
		ctx, cancel = context.WithCancel(ctx)
	}
	unhook := context.AfterFunc(s.stop, cancel)

	return ctx, func() {
		unhook()
		cancel()
		s.active.Done()
	}, nil
}

// interrupted reports a run whose context ended between items.
func interrupted(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("run interrupted: %w", err)
	}
	return nil
}

type run struct {
	record    *domain.SyncRun
	state     domain.RunState
	lockToken string
	started   time.Time
	logger    *slog.Logger
}

func (r *run) to(state domain.RunState) {
	if r.state == state {
		return
	}
	r.logger.Debug("run state", "from", r.state, "to", state)
	r.state = state
}

func (s *SyncService) begin(ctx context.Context, ownerID string, kind domain.RunKind) (*run, error) {
	if ownerID == "" {
		return nil, domain.ErrUnauthenticated
	}

	token, err := s.lock.Acquire(ctx, ownerID, s.config.LockTTL)
	if errors.Is(err, runlock.ErrLocked) {
		return nil, domain.ErrRunInProgress
	}
	if err != nil {
		return nil, fmt.Errorf("acquire run lock: %w", err)
	}

	now := s.now()
	r := &run{
		record: &domain.SyncRun{
			ID:        uuid.New().String(),
			OwnerID:   ownerID,
			Kind:      kind,
			Status:    domain.RunStatusRunning,
			StartedAt: now,
			ExpiresAt: now.Add(s.config.RunTTL),
		},
		lockToken: token,
		started:   time.Now(),
	}
	r.logger = s.logger.With("owner_id", ownerID, "run_id", r.record.ID, "kind", kind)

	if err := s.runs.Start(ctx, r.record); err != nil {
		s.release(ctx, r)
		return nil, fmt.Errorf("start run: %w", err)
	}

	r.logger.Info("sync started")
	return r, nil
}

// end finishes the run record, announces it and frees the owner's lock.
func (s *SyncService) end(ctx context.Context, r *run, summary any, runErr error) {
	ctx = context.WithoutCancel(ctx)

	finished := s.now()
	r.record.FinishedAt = &finished
	r.record.Status = domain.RunStatusDone

	if runErr != nil {
		r.to(domain.StateAborted)
		r.record.Status = domain.RunStatusAborted
		msg := runErr.Error()
		r.record.Error = &msg
		r.logger.Warn("sync aborted", "error", runErr)
	}

	if summary != nil {
		if data, err := json.Marshal(summary); err == nil {
			r.record.Summary = data
		}
	}

	if err := s.runs.Finish(ctx, r.record); err != nil {
		r.logger.Error("finish run failed", "error", err)
	}

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, r.record); err != nil {
			r.logger.Warn("publish run failed", "error", err)
		}
	}

	s.release(ctx, r)
}

func (s *SyncService) release(ctx context.Context, r *run) {
	if err := s.lock.Release(context.WithoutCancel(ctx), r.record.OwnerID, r.lockToken); err != nil {
		s.logger.Warn("release run lock failed", "owner_id", r.record.OwnerID, "error", err)
	}
}

// progressReporter forwards non-decreasing progress to an optional callback.
type progressReporter struct {
	fn    domain.ProgressFunc
	total *int
	last  int
}

func newProgress(fn domain.ProgressFunc, total *int) *progressReporter {
	return &progressReporter{fn: fn, total: total}
}

func (p *progressReporter) report(current int) {
	if p.fn == nil {
		return
	}
	if current < p.last {
		current = p.last
	}
	p.last = current
	p.fn(domain.Progress{Current: current, Total: p.total})
}

func courseID(c *canvas.Course) string {
	if c.ID == nil {
		return "(no id)"
	}
	return fmt.Sprint(*c.ID)
}

func assignmentID(a *canvas.Assignment) string {
	if a.ID == nil {
		return "(no id)"
	}
	return fmt.Sprint(*a.ID)
}
