// Package scheduler drives the fetch-process-cache-persist cycle on a
// fixed tick, gated by live viewer activity, and coalesces concurrent
// manual-refresh requests onto a single in-flight cycle.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
)

// Defaults match spec §4.8/§6.
const (
	DefaultRefreshInterval = 15 * time.Minute
	DefaultStaleThreshold  = 30 * time.Minute

	// DefaultCycleTimeout bounds a triggered cycle's own detached context,
	// generous enough to cover UPSTREAM_TIMEOUT plus assembly/cache/persist
	// work.
	DefaultCycleTimeout = 2 * time.Minute
)

// TaskState is the lifecycle of one fetch cycle as exposed through the
// manual-refresh endpoint, per spec §4.10.
type TaskState string

const (
	TaskPending TaskState = "pending"
	TaskRunning TaskState = "running"
	TaskDone    TaskState = "done"
	TaskFailed  TaskState = "failed"
)

// Task is the handle returned by a manual refresh request.
type Task struct {
	ID    string
	State TaskState
	Error string
}

// ActivitySource answers whether any viewer is currently active.
type ActivitySource interface {
	HasActiveViewers(ctx context.Context) (bool, error)
}

// RefreshClock answers how long it has been since the last successful
// cycle.
type RefreshClock interface {
	LastRefreshAt(ctx context.Context) (time.Time, error)
}

// CycleFunc runs one full fetch-process-cache-persist cycle. It must
// respect ctx cancellation and return a non-nil error only for failures
// that should abort the cache swap (spec §7's "Upstream transient"/
// "Numerical" failures are handled inside the cycle itself; CycleFunc
// returning an error here means the cycle produced nothing usable).
type CycleFunc func(ctx context.Context, cycleID string) error

// Scheduler owns the refresh policy and the single in-flight cycle
// invariant.
type Scheduler struct {
	tickInterval   time.Duration
	staleThreshold time.Duration
	runCycle       CycleFunc
	activity       ActivitySource
	clock          RefreshClock

	cycleTimeout time.Duration

	mu      sync.Mutex
	running bool
	tasks   map[string]*Task
	baseCtx context.Context
}

// New builds a Scheduler. tickInterval and staleThreshold default to spec
// §4.8's values when zero.
func New(tickInterval, staleThreshold time.Duration, runCycle CycleFunc, activity ActivitySource, clock RefreshClock) *Scheduler {
	if tickInterval == 0 {
		tickInterval = DefaultRefreshInterval
	}
	if staleThreshold == 0 {
		staleThreshold = DefaultStaleThreshold
	}
	return &Scheduler{
		tickInterval:   tickInterval,
		staleThreshold: staleThreshold,
		cycleTimeout:   DefaultCycleTimeout,
		runCycle:       runCycle,
		activity:       activity,
		clock:          clock,
		tasks:          make(map[string]*Task),
		baseCtx:        context.Background(),
	}
}

// Run starts the ticker loop and blocks until ctx is cancelled, mirroring
// the teacher's poller/settler Start(ctx) shape: an immediate decision
// check, then one per tick. ctx also becomes the root every triggered
// cycle's own detached context derives from, so cycles are tied to the
// process's lifetime rather than to whichever request happened to trigger
// them.
func (s *Scheduler) Run(ctx context.Context) {
	s.mu.Lock()
	s.baseCtx = ctx
	s.mu.Unlock()

	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()

	s.maybeRunOnTick(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Printf("scheduler: stopping")
			return
		case <-ticker.C:
			s.maybeRunOnTick(ctx)
		}
	}
}

func (s *Scheduler) maybeRunOnTick(ctx context.Context) {
	run, reason := s.decide(ctx, false)
	if !run {
		log.Printf("scheduler: skipping tick (%s)", reason)
		return
	}
	if _, err := s.start(ctx); err != nil {
		log.Printf("scheduler: tick run: %v", err)
	}
}

// decide applies spec §4.8's policy: manual override always runs; with no
// active viewers and data fresher than the stale threshold, skip; past the
// tick interval, run; otherwise skip.
func (s *Scheduler) decide(ctx context.Context, manualOverride bool) (bool, string) {
	if manualOverride {
		return true, "manual override"
	}

	hasViewers, err := s.activity.HasActiveViewers(ctx)
	if err != nil {
		log.Printf("scheduler: activity check failed, assuming active: %v", err)
		hasViewers = true
	}

	lastRefresh, err := s.clock.LastRefreshAt(ctx)
	if err != nil {
		log.Printf("scheduler: refresh-clock check failed, assuming stale: %v", err)
	}

	since := timeSince(lastRefresh)

	if !hasViewers && since < s.staleThreshold {
		return false, "no active viewers and within stale threshold"
	}
	if since >= s.tickInterval {
		return true, fmt.Sprintf("stale for %s", humanize.Time(time.Now().Add(-since)))
	}
	return false, "within refresh interval"
}

func timeSince(t time.Time) time.Duration {
	if t.IsZero() {
		return time.Duration(1<<63 - 1)
	}
	return time.Since(t)
}

// EnsureFreshOnRead is called by the Read API on every cache-miss or stale
// read: if data is past the stale threshold, it triggers a run and returns
// at once without waiting for the cycle to finish, so the read still serves
// the previous cycle's data if the new one isn't ready yet.
func (s *Scheduler) EnsureFreshOnRead(ctx context.Context) {
	lastRefresh, err := s.clock.LastRefreshAt(ctx)
	if err != nil {
		log.Printf("scheduler: read-path freshness check failed: %v", err)
		return
	}
	if timeSince(lastRefresh) < s.staleThreshold {
		return
	}
	if _, err := s.start(ctx); err != nil {
		log.Printf("scheduler: read-path trigger: %v", err)
	}
}

// TriggerManual starts a forced cycle bypassing the activity check, per
// spec §4.10. If a cycle is already running, the caller is coalesced onto
// its task id rather than starting a second cycle.
func (s *Scheduler) TriggerManual(ctx context.Context) (string, error) {
	return s.start(ctx)
}

// TaskStatus returns the current state of a task handle.
func (s *Scheduler) TaskStatus(id string) (Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok {
		return Task{}, false
	}
	return *t, true
}

// start enforces the "at most one fetch cycle in flight" invariant (spec
// §5): concurrent callers contend for the cycle_running flag; the loser
// receives the already-running task's id instead of starting a new cycle.
// ctx governs only this call's own bookkeeping; the spawned cycle runs on
// its own context derived from the scheduler's root context (see Run), not
// from ctx, since ctx here is frequently an inbound HTTP request's context
// that net/http cancels the moment the handler returns — long before a
// fetch-and-persist cycle can finish.
func (s *Scheduler) start(ctx context.Context) (string, error) {
	s.mu.Lock()
	if s.running {
		for id, t := range s.tasks {
			if t.State == TaskPending || t.State == TaskRunning {
				s.mu.Unlock()
				return id, nil
			}
		}
	}

	id := uuid.NewString()
	s.tasks[id] = &Task{ID: id, State: TaskPending}
	s.running = true
	root := s.baseCtx
	s.mu.Unlock()

	cycleCtx, cancel := context.WithTimeout(root, s.cycleTimeout)
	go func() {
		defer cancel()
		s.runCycleTask(cycleCtx, id)
	}()

	return id, nil
}

func (s *Scheduler) runCycleTask(ctx context.Context, id string) {
	s.setTaskState(id, TaskRunning, "")

	start := time.Now()
	err := s.runCycle(ctx, id)

	s.mu.Lock()
	s.running = false
	s.mu.Unlock()

	if err != nil {
		log.Printf("scheduler: cycle %s failed after %s: %v", id, humanize.RelTime(start, time.Now(), "", ""), err)
		s.setTaskState(id, TaskFailed, err.Error())
		return
	}

	log.Printf("scheduler: cycle %s completed in %s", id, time.Since(start))
	s.setTaskState(id, TaskDone, "")
}

func (s *Scheduler) setTaskState(id string, state TaskState, errMsg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.tasks[id]; ok {
		t.State = state
		t.Error = errMsg
	}
}
