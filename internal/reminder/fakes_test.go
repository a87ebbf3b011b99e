package reminder

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/goalpulse/goalpulse/internal/model"
)

type fakeStore struct {
	mu        sync.Mutex
	users     map[string]*model.User
	goals     []*model.Goal
	queryErr  error
	updateErr map[string]error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:     map[string]*model.User{},
		updateErr: map[string]error{},
	}
}

func (s *fakeStore) addUser(id, name, phone, frequency string) *model.User {
	u := &model.User{ID: id, Name: name, Phone: phone, NotificationFrequency: frequency}
	s.users[id] = u
	return u
}

func (s *fakeStore) addGoal(g *model.Goal) *model.Goal {
	s.goals = append(s.goals, g)
	return g
}

func (s *fakeStore) goal(id string) *model.Goal {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, g := range s.goals {
		if g.ID == id {
			copied := *g
			return &copied
		}
	}
	return nil
}

func (s *fakeStore) UsersWithIncompleteGoalsDue(_ context.Context, start, end time.Time, includeUndatedRecurring bool) ([]model.UserGoals, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.queryErr != nil {
		return nil, s.queryErr
	}

	byUser := map[string][]*model.Goal{}
	for _, g := range s.goals {
		if g.IsCompleted {
			continue
		}
		due := g.DueDate != nil && !g.DueDate.Before(start) && !g.DueDate.After(end)
		undated := includeUndatedRecurring && g.DueDate == nil && g.IsRecurring()
		if due || undated {
			copied := *g
			byUser[g.UserID] = append(byUser[g.UserID], &copied)
		}
	}

	ids := make([]string, 0, len(byUser))
	for id := range byUser {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	groups := make([]model.UserGoals, 0, len(ids))
	for _, id := range ids {
		groups = append(groups, model.UserGoals{User: s.users[id], Goals: byUser[id]})
	}
	return groups, nil
}

func (s *fakeStore) CompletedRecurringGoals(context.Context) ([]*model.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.queryErr != nil {
		return nil, s.queryErr
	}

	var goals []*model.Goal
	for _, g := range s.goals {
		if g.IsRecurring() && g.IsCompleted && g.LastCompleted != nil {
			copied := *g
			goals = append(goals, &copied)
		}
	}
	return goals, nil
}

func (s *fakeStore) SetCompletion(_ context.Context, goalID string, completed, stamp bool, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.updateErr[goalID]; err != nil {
		return err
	}
	for _, g := range s.goals {
		if g.ID == goalID {
			g.IsCompleted = completed
			if completed && stamp {
				t := now
				g.LastCompleted = &t
			}
			return nil
		}
	}
	return errors.New("goal not found")
}

type sentMessage struct {
	To   string
	Body string
}

type fakeSender struct {
	mu   sync.Mutex
	sent []sentMessage
	fail map[string]error
}

func newFakeSender() *fakeSender {
	return &fakeSender{fail: map[string]error{}}
}

func (s *fakeSender) Send(_ context.Context, to, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail[to]; err != nil {
		return err
	}
	s.sent = append(s.sent, sentMessage{To: to, Body: body})
	return nil
}

func (s *fakeSender) messagesTo(to string) []sentMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []sentMessage
	for _, m := range s.sent {
		if m.To == to {
			out = append(out, m)
		}
	}
	return out
}

type fakeRecorder struct {
	mu            sync.Mutex
	notifications []*model.Notification
}

func (r *fakeRecorder) Create(_ context.Context, notifications []*model.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications = append(r.notifications, notifications...)
	return nil
}

// clock is a settable time source.
type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

func ptr(t time.Time) *time.Time {
	return &t
}
