package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/jefersongoes36-cmd/DigitalNexusSolutions/internal/model"
	"github.com/jefersongoes36-cmd/DigitalNexusSolutions/internal/repository"
)

// userRequest is the body of both create and update. Clients often echo the
// whole cached user back, so id is accepted and ignored.
type userRequest struct {
	ID         json.RawMessage `json:"id,omitempty"`
	Username   string          `json:"username"`
	Password   string          `json:"password"`
	Name       string          `json:"name"`
	Role       string          `json:"role"`
	Currency   string          `json:"currency"`
	Country    string          `json:"country"`
	Language   string          `json:"language"`
	HourlyRate *float64        `json:"hourlyRate"`
	IsActive   *bool           `json:"isActive"`
}

func (req *userRequest) normalize() {
	req.Username = strings.TrimSpace(req.Username)
	req.Name = strings.TrimSpace(req.Name)
	req.Role = strings.TrimSpace(strings.ToLower(req.Role))
	req.Currency = strings.TrimSpace(req.Currency)
	req.Country = strings.TrimSpace(req.Country)
	req.Language = strings.TrimSpace(strings.ToLower(req.Language))
}

func (req userRequest) currency() string {
	return orDefault(req.Currency, model.DefaultCurrency)
}

func (req userRequest) country() string {
	return orDefault(req.Country, model.DefaultCountry)
}

func (req userRequest) language() model.Language {
	return model.Language(orDefault(req.Language, string(model.DefaultLanguage)))
}

func (req userRequest) hourlyRate() float64 {
	if req.HourlyRate == nil {
		return model.DefaultHourlyRate
	}
	return *req.HourlyRate
}

type registerRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Plan  string `json:"plan"`
}

type deleteResponse struct {
	Status string `json:"status"`
	ID     string `json:"id"`
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	if users, ok, err := s.users.Get(r.Context()); err != nil {
		s.logger.Warn("user cache read failed", "error", err)
	} else if ok {
		writeJSON(w, http.StatusOK, users)
		return
	}

	gen, genErr := s.users.Generation(r.Context())
	if genErr != nil {
		s.logger.Warn("user cache generation read failed", "error", genErr)
	}
	users, err := s.store.ListUsers(r.Context())
	if err != nil {
		s.writeStoreError(w, r, "list users", err)
		return
	}
	if genErr == nil {
		if err := s.users.Set(r.Context(), gen, users); err != nil {
			s.logger.Warn("user cache write failed", "error", err)
		}
	}
	writeJSON(w, http.StatusOK, users)
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "request body must be a JSON user object")
		return
	}
	req.normalize()
	if req.Username == "" || req.Password == "" || req.Name == "" || req.Role == "" {
		writeError(w, http.StatusBadRequest, "missing_fields", "required fields: username, password, name, role")
		return
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}
	user, err := s.store.CreateUser(r.Context(), model.User{
		Username:   req.Username,
		Password:   req.Password,
		Name:       req.Name,
		Role:       model.Role(req.Role),
		Currency:   req.currency(),
		Country:    req.country(),
		Language:   req.language(),
		HourlyRate: req.hourlyRate(),
		IsActive:   isActive,
	})
	if err != nil {
		s.writeStoreError(w, r, "create user", err)
		return
	}
	s.invalidateUsers(r)

	s.logger.Info("user created", "user_id", user.ID, "username", user.Username, "role", user.Role)
	writeJSON(w, http.StatusCreated, user)
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var req userRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "request body must be a JSON user object")
		return
	}
	req.normalize()
	if req.Username == "" || req.Name == "" || req.Role == "" {
		writeError(w, http.StatusBadRequest, "missing_fields", "required fields: username, name, role")
		return
	}

	update := repository.UserUpdate{
		Username:   req.Username,
		Name:       req.Name,
		Role:       model.Role(req.Role),
		Currency:   req.currency(),
		Country:    req.country(),
		Language:   req.language(),
		HourlyRate: req.hourlyRate(),
		IsActive:   req.IsActive,
	}
	if req.Password != "" {
		password := req.Password
		update.Password = &password
	}

	user, err := s.store.UpdateUser(r.Context(), userID, update)
	if errors.Is(err, repository.ErrNotFound) {
		writeError(w, http.StatusNotFound, "user_not_found", "user not found")
		return
	}
	if err != nil {
		s.writeStoreError(w, r, "update user", err)
		return
	}
	s.invalidateUsers(r)

	s.logger.Info("user updated", "user_id", user.ID)
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	deleted, err := s.store.DeleteUser(r.Context(), userID)
	if errors.Is(err, repository.ErrNotFound) {
		writeError(w, http.StatusNotFound, "user_not_found", "user not found")
		return
	}
	if err != nil {
		s.writeStoreError(w, r, "delete user", err)
		return
	}
	s.invalidateUsers(r)

	s.logger.Info("user deleted", "user_id", deleted.ID, "username", deleted.Username)
	writeJSON(w, http.StatusOK, deleteResponse{Status: "deleted", ID: deleted.ID})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "request body must be a JSON object")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Name == "" || req.Email == "" {
		writeError(w, http.StatusBadRequest, "missing_fields", "required fields: name, email")
		return
	}

	reg, err := s.store.CreateRegistration(r.Context(), model.Registration{
		Name:  req.Name,
		Email: req.Email,
		Plan:  orDefault(strings.TrimSpace(req.Plan), model.DefaultPlan),
	})
	if err != nil {
		s.writeStoreError(w, r, "register", err)
		return
	}

	s.logger.Info("registration created", "registration_id", reg.ID, "plan", reg.Plan)
	writeJSON(w, http.StatusCreated, reg)
}

func (s *Server) invalidateUsers(r *http.Request) {
	if err := s.users.Invalidate(r.Context()); err != nil {
		s.logger.Warn("user cache invalidate failed", "error", err)
	}
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
