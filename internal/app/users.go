package app

import (
	"context"
	"strings"

	"github.com/jefersongoes36-cmd/DigitalNexusSolutions/internal/model"
)

type mutation int

const (
	mutationCreate mutation = iota
	mutationUpdate
	mutationDelete
)

// reconcileUsers applies one confirmed server mutation to the cached list.
// Creates are prepended to match the server's newest-first order.
func reconcileUsers(users []model.User, kind mutation, user model.User) []model.User {
	switch kind {
	case mutationCreate:
		return append([]model.User{user}, users...)
	case mutationUpdate:
		out := make([]model.User, len(users))
		for i, u := range users {
			if u.ID == user.ID {
				u = user
			}
			out[i] = u
		}
		return out
	case mutationDelete:
		out := make([]model.User, 0, len(users))
		for _, u := range users {
			if u.ID != user.ID {
				out = append(out, u)
			}
		}
		return out
	}
	return users
}

// NewUserDefaults is the starting point of the admin's new-user form.
func NewUserDefaults() model.User {
	return model.User{
		Role:       model.RoleEmployee,
		Password:   "123",
		Currency:   model.DefaultCurrency,
		Country:    model.DefaultCountry,
		Language:   model.DefaultLanguage,
		HourlyRate: model.DefaultHourlyRate,
		IsActive:   true,
	}
}

// LoadUsers replaces the cached list with the server's.
func (s *State) LoadUsers(ctx context.Context) error {
	users, err := s.api.ListUsers(ctx)
	if err != nil {
		s.logger.Error("load users failed", "error", err)
		return err
	}
	s.mu.Lock()
	s.users = users
	s.mu.Unlock()
	s.notify()
	return nil
}

func (s *State) Users() []model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.User(nil), s.users...)
}

func (s *State) AddUser(ctx context.Context, user model.User) (model.User, error) {
	created, err := s.api.CreateUser(ctx, user)
	if err != nil {
		s.logger.Error("create user failed", "username", user.Username, "error", err)
		return model.User{}, err
	}
	s.mu.Lock()
	s.users = reconcileUsers(s.users, mutationCreate, created)
	s.mu.Unlock()
	s.notify()
	return created, nil
}

// EditUser replaces a user on the server. When it is the logged-in user
// the session copy is replaced too.
func (s *State) EditUser(ctx context.Context, user model.User) (model.User, error) {
	updated, err := s.api.UpdateUser(ctx, user)
	if err != nil {
		s.logger.Error("update user failed", "user_id", user.ID, "error", err)
		return model.User{}, err
	}
	s.mu.Lock()
	s.users = reconcileUsers(s.users, mutationUpdate, updated)
	if s.user != nil && s.user.ID == updated.ID {
		current := updated
		s.user = &current
		if !tabAllowed(current.Role, s.tab) {
			s.tab = LandingTab(current.Role)
		}
	}
	s.mu.Unlock()
	s.notify()
	return updated, nil
}

// UpdateProfile edits the logged-in user's own record.
func (s *State) UpdateProfile(ctx context.Context, user model.User) (model.User, error) {
	current, err := s.CurrentUser()
	if err != nil {
		return model.User{}, err
	}
	user.ID = current.ID
	user.Role = current.Role
	return s.EditUser(ctx, user)
}

func (s *State) DeleteUser(ctx context.Context, userID string) error {
	if err := s.api.DeleteUser(ctx, userID); err != nil {
		s.logger.Error("delete user failed", "user_id", userID, "error", err)
		return err
	}
	s.mu.Lock()
	s.users = reconcileUsers(s.users, mutationDelete, model.User{ID: userID})
	s.mu.Unlock()
	s.notify()
	return nil
}

// FilterUsers matches term case-insensitively against name and username.
func FilterUsers(users []model.User, term string) []model.User {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return users
	}
	var out []model.User
	for _, u := range users {
		if strings.Contains(strings.ToLower(u.Name), term) || strings.Contains(strings.ToLower(u.Username), term) {
			out = append(out, u)
		}
	}
	return out
}
