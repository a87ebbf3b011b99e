package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Specs holds one standard five-field cron spec per trigger.
type Specs struct {
	Briefing   string
	Passive    string
	Persistent string
	Reset      string
}

func DefaultSpecs() Specs {
	return Specs{
		Briefing:   "0 8 * * *",
		Passive:    "0 18 * * *",
		Persistent: "0 9,12,15,18 * * *",
		Reset:      "0 0 * * *",
	}
}

func (s Specs) spec(t Trigger) string {
	switch t {
	case TriggerBriefing:
		return s.Briefing
	case TriggerPassive:
		return s.Passive
	case TriggerPersistent:
		return s.Persistent
	case TriggerReset:
		return s.Reset
	}
	return ""
}

type EntryInfo struct {
	Trigger Trigger   `json:"trigger"`
	Spec    string    `json:"spec"`
	Next    time.Time `json:"next"`
}

// Scheduler fires the runner's triggers on wall-clock cron specs. Each trigger
// is its own entry, so a slow trigger never delays the others; overlapping
// runs of the same trigger are skipped.
type Scheduler struct {
	cron   *cron.Cron
	runner *Runner
	log    *slog.Logger
	specs  Specs
	ids    map[Trigger]cron.EntryID

	ctx    context.Context
	cancel context.CancelFunc
}

func NewScheduler(runner *Runner, specs Specs, loc *time.Location, log *slog.Logger) (*Scheduler, error) {
	if log == nil {
		log = slog.Default()
	}
	if loc == nil {
		loc = time.Local
	}

	cl := cronLogger{log: log}
	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		cron:   cron.New(cron.WithLocation(loc), cron.WithLogger(cl), cron.WithChain(cron.Recover(cl))),
		runner: runner,
		log:    log,
		specs:  specs,
		ids:    make(map[Trigger]cron.EntryID, len(Triggers)),
		ctx:    ctx,
		cancel: cancel,
	}

	for _, trigger := range Triggers {
		spec := specs.spec(trigger)
		job := cron.NewChain(cron.SkipIfStillRunning(cl)).Then(s.job(trigger))

		id, err := s.cron.AddJob(spec, job)
		if err != nil {
			cancel()
			return nil, fmt.Errorf("invalid %s spec %q: %w", trigger, spec, err)
		}
		s.ids[trigger] = id
	}

	return s, nil
}

func (s *Scheduler) job(trigger Trigger) cron.Job {
	return cron.FuncJob(func() {
		// Errors are logged by the runner; the next firing retries.
		_ = s.runner.Run(s.ctx, trigger)
	})
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("reminder scheduler started",
		"briefing", s.specs.Briefing,
		"passive", s.specs.Passive,
		"persistent", s.specs.Persistent,
		"reset", s.specs.Reset,
	)
}

// Stop waits for running jobs to finish. If ctx expires first, in-flight jobs
// are cancelled and ctx's error is returned.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.cancel()
		s.log.Info("reminder scheduler stopped")
		return nil
	case <-ctx.Done():
		s.cancel()
		return ctx.Err()
	}
}

// NextRun returns the first firing of trigger strictly after from.
func (s *Scheduler) NextRun(trigger Trigger, from time.Time) (time.Time, bool) {
	id, ok := s.ids[trigger]
	if !ok {
		return time.Time{}, false
	}
	entry := s.cron.Entry(id)
	if !entry.Valid() {
		return time.Time{}, false
	}
	return entry.Schedule.Next(from), true
}

func (s *Scheduler) Entries(now time.Time) []EntryInfo {
	entries := make([]EntryInfo, 0, len(Triggers))
	for _, trigger := range Triggers {
		next, _ := s.NextRun(trigger, now)
		entries = append(entries, EntryInfo{Trigger: trigger, Spec: s.specs.spec(trigger), Next: next})
	}
	return entries
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	log *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.log.Error("cron: "+msg, append([]any{"error", err}, keysAndValues...)...)
}
