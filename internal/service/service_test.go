package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goalpulse/goalpulse/internal/db/dbtest"
	"github.com/goalpulse/goalpulse/internal/model"
	"github.com/goalpulse/goalpulse/internal/repository"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	to, body string
	err      error
}

func (s *recordingSender) Send(_ context.Context, to, body string) error {
	s.to, s.body = to, body
	return s.err
}

type fixture struct {
	auth          *AuthService
	users         *UserService
	goals         *GoalService
	notifications *NotificationService
	sender        *recordingSender
	goalRepo      repository.GoalRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	conn := dbtest.New(t)

	userRepo := repository.NewUserRepository(conn)
	goalRepo := repository.NewGoalRepository(conn)
	notificationRepo := repository.NewNotificationRepository(conn)
	sender := &recordingSender{}

	return &fixture{
		auth:          NewAuthService(userRepo, NewEmailService("", "noreply@example.com", "GoalPulse", true), "test-secret", time.Hour),
		users:         NewUserService(userRepo, notificationRepo, sender, "GoalPulse"),
		goals:         NewGoalService(goalRepo, time.UTC),
		notifications: NewNotificationService(notificationRepo),
		sender:        sender,
		goalRepo:      goalRepo,
	}
}

func (f *fixture) register(t *testing.T) *model.User {
	t.Helper()
	u, err := f.auth.Register(context.Background(), "Ada", "Ada@Example.com", "secret123", "+1 555 0100 123")
	require.NoError(t, err)
	return u
}

func TestRegisterAndLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u := f.register(t)
	require.Equal(t, "ada@example.com", u.Email)
	require.Equal(t, "+15550100123", u.Phone)
	require.Equal(t, model.NotifyPassive, u.NotificationFrequency)
	require.NotEqual(t, "secret123", u.PasswordHash)

	_, err := f.auth.Register(ctx, "Ada", "ada@example.com", "secret123", "+15550100123")
	require.ErrorIs(t, err, ErrEmailAlreadyExists)

	_, err = f.auth.Login(ctx, "ada@example.com", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = f.auth.Login(ctx, "nobody@example.com", "secret123")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	got, err := f.auth.Login(ctx, " ADA@example.com ", "secret123")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)
}

func TestRegisterValidation(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name, userName, email, password, phone, field string
	}{
		{"missing name", "", "a@b.co", "secret123", "+15550100123", "name"},
		{"bad email", "Ada", "not-an-email", "secret123", "+15550100123", "email"},
		{"short password", "Ada", "a@b.co", "123", "+15550100123", "password"},
		{"bad phone", "Ada", "a@b.co", "secret123", "555", "phone"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.auth.Register(context.Background(), tt.userName, tt.email, tt.password, tt.phone)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			require.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestJWTRoundTrip(t *testing.T) {
	f := newFixture(t)
	u := f.register(t)

	token, err := f.auth.GenerateJWT(u)
	require.NoError(t, err)

	userID, err := f.auth.VerifyJWT(token)
	require.NoError(t, err)
	require.Equal(t, u.ID, userID)

	other := NewAuthService(nil, nil, "another-secret", time.Hour)
	_, err = other.VerifyJWT(token)
	require.ErrorIs(t, err, ErrInvalidToken)

	expired := NewAuthService(nil, nil, "test-secret", -time.Minute)
	stale, err := expired.GenerateJWT(u)
	require.NoError(t, err)
	_, err = f.auth.VerifyJWT(stale)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestUpdateNotificationFrequency(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.register(t)

	_, err := f.users.UpdateNotificationFrequency(ctx, u.ID, "hourly")
	require.ErrorIs(t, err, ErrInvalidFrequency)

	updated, err := f.users.UpdateNotificationFrequency(ctx, u.ID, model.NotifyPersistent)
	require.NoError(t, err)
	require.Equal(t, model.NotifyPersistent, updated.NotificationFrequency)
}

func TestSendTestSMSRecordsAttempt(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.register(t)

	sentAt := time.Date(2026, time.October, 15, 9, 30, 0, 0, time.UTC)
	f.users.now = func() time.Time { return sentAt }
	require.NoError(t, f.users.SendTestSMS(ctx, u.ID))
	require.Equal(t, "+15550100123", f.sender.to)
	require.Contains(t, f.sender.body, "Hey Ada!")

	failedAt := sentAt.Add(time.Minute)
	f.users.now = func() time.Time { return failedAt }
	f.sender.err = errors.New("unreachable handset")
	require.EqualError(t, f.users.SendTestSMS(ctx, u.ID), "unreachable handset")

	log, err := f.notifications.Recent(ctx, u.ID, 0)
	require.NoError(t, err)
	require.Len(t, log, 2)

	require.Equal(t, model.NotificationTest, log[0].Kind)
	require.Equal(t, model.NotificationFailed, log[0].Status)
	require.Equal(t, "unreachable handset", log[0].Error)
	require.True(t, log[0].CreatedAt.Equal(failedAt), "created_at = %s", log[0].CreatedAt)

	require.Equal(t, model.NotificationTest, log[1].Kind)
	require.Equal(t, model.NotificationSent, log[1].Status)
	require.Empty(t, log[1].Error)
	require.True(t, log[1].CreatedAt.Equal(sentAt), "created_at = %s", log[1].CreatedAt)
}

func TestCreateGoal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.register(t)

	gym, err := f.goals.Create(ctx, u.ID, GoalInput{Title: "Gym", GoalType: model.GoalTypeRecurring, Frequency: model.FrequencyDaily})
	require.NoError(t, err)
	require.Nil(t, gym.DueDate)

	taxes, err := f.goals.Create(ctx, u.ID, GoalInput{Title: "Taxes", GoalType: model.GoalTypeOneTime, Frequency: "weekly", DueDate: "2026-10-18"})
	require.NoError(t, err)
	require.Equal(t, "", taxes.Frequency, "one-time goals drop any frequency")
	require.True(t, taxes.DueDate.Equal(time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)))

	tests := []struct {
		name  string
		in    GoalInput
		field string
	}{
		{"no title", GoalInput{GoalType: model.GoalTypeOneTime, DueDate: "2026-10-18"}, "title"},
		{"bad type", GoalInput{Title: "x", GoalType: "sometimes"}, "goalType"},
		{"recurring without frequency", GoalInput{Title: "x", GoalType: model.GoalTypeRecurring}, "frequency"},
		{"one-time without due date", GoalInput{Title: "x", GoalType: model.GoalTypeOneTime}, "dueDate"},
		{"garbage due date", GoalInput{Title: "x", GoalType: model.GoalTypeOneTime, DueDate: "next week"}, "dueDate"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.goals.Create(ctx, u.ID, tt.in)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			require.Equal(t, tt.field, verr.Field)
		})
	}

	list, err := f.goals.Goals(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
}

func TestToggleCompleteLaw(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.register(t)

	first := time.Date(2026, 10, 15, 7, 30, 0, 0, time.UTC)
	f.goals.now = func() time.Time { return first }

	gym, err := f.goals.Create(ctx, u.ID, GoalInput{Title: "Gym", GoalType: model.GoalTypeRecurring, Frequency: model.FrequencyDaily})
	require.NoError(t, err)

	done, err := f.goals.ToggleComplete(ctx, u.ID, gym.ID)
	require.NoError(t, err)
	require.True(t, done.IsCompleted)
	require.True(t, done.LastCompleted.Equal(first))

	f.goals.now = func() time.Time { return first.Add(2 * time.Hour) }
	reopened, err := f.goals.ToggleComplete(ctx, u.ID, gym.ID)
	require.NoError(t, err)
	require.False(t, reopened.IsCompleted)
	require.True(t, reopened.LastCompleted.Equal(first), "reopening keeps last completion")

	second := first.Add(3 * time.Hour)
	f.goals.now = func() time.Time { return second }
	again, err := f.goals.ToggleComplete(ctx, u.ID, gym.ID)
	require.NoError(t, err)
	require.True(t, again.LastCompleted.Equal(second))

	_, err = f.goals.ToggleComplete(ctx, "someone-else", gym.ID)
	require.ErrorIs(t, err, repository.ErrGoalNotFound)
}

func TestUpdateGoal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.register(t)

	now := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	f.goals.now = func() time.Time { return now }

	g, err := f.goals.Create(ctx, u.ID, GoalInput{Title: "Read", GoalType: model.GoalTypeRecurring, Frequency: model.FrequencyDaily})
	require.NoError(t, err)

	title, weekly, due, yes := "Read more", model.FrequencyWeekly, "2026-10-15T18:00:00Z", true
	updated, err := f.goals.Update(ctx, u.ID, g.ID, GoalUpdate{Title: &title, Frequency: &weekly, DueDate: &due, IsCompleted: &yes})
	require.NoError(t, err)
	require.Equal(t, "Read more", updated.Title)
	require.Equal(t, model.FrequencyWeekly, updated.Frequency)
	require.True(t, updated.DueDate.Equal(time.Date(2026, 10, 15, 18, 0, 0, 0, time.UTC)))
	require.True(t, updated.IsCompleted)
	require.True(t, updated.LastCompleted.Equal(now))

	no := false
	f.goals.now = func() time.Time { return now.Add(time.Hour) }
	updated, err = f.goals.Update(ctx, u.ID, g.ID, GoalUpdate{IsCompleted: &no})
	require.NoError(t, err)
	require.False(t, updated.IsCompleted)
	require.True(t, updated.LastCompleted.Equal(now))

	bad := "hourly"
	_, err = f.goals.Update(ctx, u.ID, g.ID, GoalUpdate{Frequency: &bad})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	none := ""
	updated, err = f.goals.Update(ctx, u.ID, g.ID, GoalUpdate{DueDate: &none})
	require.NoError(t, err)
	require.Nil(t, updated.DueDate, "recurring goals may drop their due date")

	once, err := f.goals.Create(ctx, u.ID, GoalInput{Title: "Taxes", GoalType: model.GoalTypeOneTime, DueDate: "2026-10-20"})
	require.NoError(t, err)
	_, err = f.goals.Update(ctx, u.ID, once.ID, GoalUpdate{DueDate: &none})
	require.ErrorAs(t, err, &verr)
	require.ErrorIs(t, err, ErrDueDateRequired)
}

func TestDeleteGoal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.register(t)

	g, err := f.goals.Create(ctx, u.ID, GoalInput{Title: "Gym", GoalType: model.GoalTypeRecurring, Frequency: model.FrequencyDaily})
	require.NoError(t, err)

	require.ErrorIs(t, f.goals.Delete(ctx, "someone-else", g.ID), repository.ErrGoalNotFound)
	require.NoError(t, f.goals.Delete(ctx, u.ID, g.ID))
	_, err = f.goals.ByID(ctx, u.ID, g.ID)
	require.ErrorIs(t, err, repository.ErrGoalNotFound)
}

func TestParseDueDate(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	got, err := ParseDueDate("2026-10-15", ny)
	require.NoError(t, err)
	require.Equal(t, "2026-10-15T00:00:00-04:00", got.Format(time.RFC3339))

	got, err = ParseDueDate("2026-10-15T13:00:00Z", ny)
	require.NoError(t, err)
	require.Equal(t, "2026-10-15T13:00:00Z", got.Format(time.RFC3339))

	got, err = ParseDueDate("  ", ny)
	require.NoError(t, err)
	require.Nil(t, got)

	_, err = ParseDueDate("15/10/2026", ny)
	require.ErrorIs(t, err, ErrInvalidDueDate)
}
