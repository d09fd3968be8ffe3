package succubus

import (
	"context"
	"sync"
	"time"

	"fapbot/internal/domain"
	"fapbot/internal/logger"
)

// EffectKind distinguishes a handler's ability loop from its burden loop.
type EffectKind string

const (
	EffectAbility EffectKind = "ability"
	EffectBurden  EffectKind = "burden"
)

type taskKey struct {
	succubus domain.SuccubusID
	userID   int64
	kind     EffectKind
}

type task struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Scheduler owns every running background effect loop, keyed by
// (succubus, user, effect kind). Stop blocks until the loop goroutine
// has fully exited, so no side effect can fire after it returns.
type Scheduler struct {
	mu    sync.Mutex
	tasks map[taskKey]*task

	// sleep is the suspension primitive; it returns false on cancellation.
	// Tests replace it to drive loops without real time passing.
	sleep func(ctx context.Context, d time.Duration) bool
}

func NewScheduler() *Scheduler {
	return &Scheduler{
		tasks: make(map[taskKey]*task),
		sleep: sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}

// StartLoop starts a recurring effect loop unless one is already running
// for the same key. The loop sleeps for interval, re-checks liveness
// after waking, runs tick, and repeats. It deregisters itself on exit.
func (s *Scheduler) StartLoop(
	id domain.SuccubusID,
	userID int64,
	kind EffectKind,
	interval time.Duration,
	alive func(context.Context) bool,
	tick func(context.Context),
) {
	key := taskKey{succubus: id, userID: userID, kind: kind}

	s.mu.Lock()
	if _, running := s.tasks[key]; running {
		s.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	t := &task{cancel: cancel, done: make(chan struct{})}
	s.tasks[key] = t
	s.mu.Unlock()

	logger.Debug("effect loop started", "succubus", id, "user_id", userID, "effect", kind)

	go func() {
		defer close(t.done)
		defer s.remove(key, t)

		for {
			if !s.sleep(ctx, interval) {
				return
			}
			// state may have changed while suspended
			if !alive(ctx) {
				logger.Debug("effect loop no longer active",
					"succubus", id, "user_id", userID, "effect", kind)
				return
			}
			if !s.runTick(ctx, key, tick) {
				return
			}
			effectTicks.WithLabelValues(string(id), string(kind)).Inc()
		}
	}()
}

// runTick shields the loop from a panicking tick: the failure is logged
// and the loop deregisters so the next activation starts fresh.
func (s *Scheduler) runTick(ctx context.Context, key taskKey, tick func(context.Context)) (ok bool) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("background effect failed",
				"succubus", key.succubus, "user_id", key.userID,
				"effect", key.kind, "panic", rec)
			ok = false
		}
	}()
	tick(ctx)
	return true
}

func (s *Scheduler) remove(key taskKey, t *task) {
	s.mu.Lock()
	if s.tasks[key] == t {
		delete(s.tasks, key)
	}
	s.mu.Unlock()
}

// Stop cancels one loop and waits for it to exit.
func (s *Scheduler) Stop(id domain.SuccubusID, userID int64, kind EffectKind) {
	key := taskKey{succubus: id, userID: userID, kind: kind}

	s.mu.Lock()
	t := s.tasks[key]
	s.mu.Unlock()

	if t == nil {
		return
	}
	t.cancel()
	<-t.done
}

// StopUser cancels both effect loops of one succubus for one user.
func (s *Scheduler) StopUser(id domain.SuccubusID, userID int64) {
	s.Stop(id, userID, EffectAbility)
	s.Stop(id, userID, EffectBurden)
}

// Running reports whether a loop is registered for the key.
func (s *Scheduler) Running(id domain.SuccubusID, userID int64, kind EffectKind) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.tasks[taskKey{succubus: id, userID: userID, kind: kind}]
	return ok
}

// Shutdown cancels every loop and waits for all of them to exit.
func (s *Scheduler) Shutdown() {
	s.mu.Lock()
	tasks := make([]*task, 0, len(s.tasks))
	for _, t := range s.tasks {
		tasks = append(tasks, t)
	}
	s.mu.Unlock()

	for _, t := range tasks {
		t.cancel()
	}
	for _, t := range tasks {
		<-t.done
	}
	logger.Info("background effect scheduler stopped", "loops", len(tasks))
}
