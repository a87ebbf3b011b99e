// Package reminder decides who gets which SMS and when, and re-opens
// recurring goals on period boundaries.
package reminder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/goalpulse/goalpulse/internal/model"
	"github.com/oklog/ulid/v2"
)

type Trigger string

const (
	TriggerBriefing   Trigger = "briefing"
	TriggerPassive    Trigger = "passive"
	TriggerPersistent Trigger = "persistent"
	TriggerReset      Trigger = "reset"
)

var ErrUnknownTrigger = errors.New("unknown trigger")

// Triggers lists every trigger in the order they are registered.
var Triggers = []Trigger{TriggerBriefing, TriggerPassive, TriggerPersistent, TriggerReset}

func ParseTrigger(s string) (Trigger, error) {
	for _, t := range Triggers {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTrigger, s)
}

type Store interface {
	UsersWithIncompleteGoalsDue(ctx context.Context, start, end time.Time, includeUndatedRecurring bool) ([]model.UserGoals, error)
	CompletedRecurringGoals(ctx context.Context) ([]*model.Goal, error)
	SetCompletion(ctx context.Context, goalID string, completed, stamp bool, now time.Time) error
}

// Sender delivers one text message. Errors carry a readable reason.
type Sender interface {
	Send(ctx context.Context, to, body string) error
}

type Recorder interface {
	Create(ctx context.Context, notifications []*model.Notification) error
}

type Options struct {
	Location *time.Location
	Now      func() time.Time
	AppName  string
	// IncludeUndatedRecurring treats incomplete recurring goals without a
	// due date as due every day.
	IncludeUndatedRecurring bool
	Recorder                Recorder
	Logger                  *slog.Logger
}

// Delivery is one planned message.
type Delivery struct {
	User  *model.User
	Goals []*model.Goal
	Kind  string
	Body  string
}

type Report struct {
	Trigger    Trigger
	Recipients int
	Sent       int
	Failed     int
}

type ResetReport struct {
	Checked int
	Reset   int
	Failed  int
}

type Runner struct {
	store    Store
	sender   Sender
	recorder Recorder
	log      *slog.Logger
	loc      *time.Location
	clock    func() time.Time
	appName  string
	undated  bool
}

func NewRunner(store Store, sender Sender, opts Options) *Runner {
	r := &Runner{
		store:    store,
		sender:   sender,
		recorder: opts.Recorder,
		log:      opts.Logger,
		loc:      opts.Location,
		clock:    opts.Now,
		appName:  opts.AppName,
		undated:  opts.IncludeUndatedRecurring,
	}
	if r.log == nil {
		r.log = slog.Default()
	}
	if r.loc == nil {
		r.loc = time.Local
	}
	if r.clock == nil {
		r.clock = time.Now
	}
	if r.appName == "" {
		r.appName = "GoalPulse"
	}
	return r
}

func (r *Runner) now() time.Time {
	return r.clock().In(r.loc)
}

// Run executes one trigger and logs its outcome.
func (r *Runner) Run(ctx context.Context, trigger Trigger) error {
	r.log.Info("running reminder trigger", "trigger", trigger)

	if trigger == TriggerReset {
		report, err := r.ResetRecurring(ctx)
		if err != nil {
			r.log.Error("recurring reset failed", "error", err, "checked", report.Checked, "reset", report.Reset, "failed", report.Failed)
			return err
		}
		r.log.Info("recurring reset finished", "checked", report.Checked, "reset", report.Reset)
		return nil
	}

	report, err := r.deliver(ctx, trigger)
	if err != nil {
		r.log.Error("reminder trigger failed", "error", err, "trigger", trigger, "sent", report.Sent, "failed", report.Failed)
		return err
	}
	r.log.Info("reminder trigger finished", "trigger", trigger, "recipients", report.Recipients, "sent", report.Sent, "failed", report.Failed)
	return nil
}

func (r *Runner) MorningBriefing(ctx context.Context) (Report, error) {
	return r.deliver(ctx, TriggerBriefing)
}

func (r *Runner) PassiveReminders(ctx context.Context) (Report, error) {
	return r.deliver(ctx, TriggerPassive)
}

func (r *Runner) PersistentReminders(ctx context.Context) (Report, error) {
	return r.deliver(ctx, TriggerPersistent)
}

// Plan computes the deliveries a send trigger would make right now without
// sending anything. The same data and clock always yield the same plan.
func (r *Runner) Plan(ctx context.Context, trigger Trigger) ([]Delivery, error) {
	if trigger == TriggerReset {
		return nil, fmt.Errorf("%w: %s does not send messages", ErrUnknownTrigger, trigger)
	}
	if _, err := ParseTrigger(string(trigger)); err != nil {
		return nil, err
	}

	start, end := DayBounds(r.now())
	groups, err := r.store.UsersWithIncompleteGoalsDue(ctx, start, end, r.undated)
	if err != nil {
		return nil, fmt.Errorf("failed to load users with due goals: %w", err)
	}

	var deliveries []Delivery
	for _, group := range groups {
		if group.User == nil || len(group.Goals) == 0 {
			continue
		}
		if !Selects(trigger, group.User.NotificationFrequency) {
			continue
		}

		d := Delivery{User: group.User, Goals: group.Goals}
		if trigger == TriggerBriefing {
			d.Kind = model.NotificationBriefing
			d.Body = BriefingMessage(group.User.Name, group.Goals)
		} else {
			d.Kind = model.NotificationReminder
			d.Body = ReminderMessage(r.appName, group.User.Name, group.Goals)
		}
		deliveries = append(deliveries, d)
	}

	return deliveries, nil
}

func (r *Runner) deliver(ctx context.Context, trigger Trigger) (Report, error) {
	report := Report{Trigger: trigger}

	deliveries, err := r.Plan(ctx, trigger)
	if err != nil {
		return report, err
	}
	report.Recipients = len(deliveries)

	for _, d := range deliveries {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		sendErr := r.sender.Send(ctx, d.User.Phone, d.Body)
		if sendErr != nil {
			report.Failed++
			r.log.Error("failed to send reminder", "error", sendErr, "trigger", trigger, "user_id", d.User.ID, "to", d.User.Phone)
		} else {
			report.Sent++
			r.log.Info("reminder sent", "trigger", trigger, "user_id", d.User.ID, "to", d.User.Phone, "goals", len(d.Goals))
		}

		r.record(ctx, d, sendErr)
	}

	return report, nil
}

func (r *Runner) record(ctx context.Context, d Delivery, sendErr error) {
	if r.recorder == nil {
		return
	}

	now := r.now()
	status, reason := model.NotificationSent, ""
	if sendErr != nil {
		status, reason = model.NotificationFailed, sendErr.Error()
	}

	notifications := make([]*model.Notification, 0, len(d.Goals))
	for _, g := range d.Goals {
		goalID := g.ID
		notifications = append(notifications, &model.Notification{
			ID:        ulid.Make().String(),
			UserID:    d.User.ID,
			GoalID:    &goalID,
			Kind:      d.Kind,
			Status:    status,
			Error:     reason,
			CreatedAt: now,
		})
	}

	err := r.recorder.Create(ctx, notifications)
	if err != nil {
		r.log.Warn("failed to record notifications", "error", err, "user_id", d.User.ID)
	}
}

// ResetRecurring re-opens completed recurring goals whose period has rolled
// over. The first failed update ends the run; the next midnight retries.
func (r *Runner) ResetRecurring(ctx context.Context) (ResetReport, error) {
	var report ResetReport
	now := r.now()

	goals, err := r.store.CompletedRecurringGoals(ctx)
	if err != nil {
		return report, fmt.Errorf("failed to load completed recurring goals: %w", err)
	}

	for _, goal := range goals {
		report.Checked++
		if !ShouldReset(goal, now) {
			continue
		}

		err := r.store.SetCompletion(ctx, goal.ID, false, false, now)
		if err != nil {
			report.Failed++
			return report, fmt.Errorf("failed to reset goal %s: %w", goal.ID, err)
		}

		report.Reset++
		r.log.Info("reset recurring goal", "goal_id", goal.ID, "title", goal.Title, "frequency", goal.Frequency)
	}

	return report, nil
}
