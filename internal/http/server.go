package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jefersongoes36-cmd/DigitalNexusSolutions/internal/cache"
	"github.com/jefersongoes36-cmd/DigitalNexusSolutions/internal/chat"
	"github.com/jefersongoes36-cmd/DigitalNexusSolutions/internal/config"
	"github.com/jefersongoes36-cmd/DigitalNexusSolutions/internal/model"
	"github.com/jefersongoes36-cmd/DigitalNexusSolutions/internal/repository"
)

const maxBodyBytes = 1 << 20

// UserStore is the persistence surface the handlers need. *repository.Store
// satisfies it.
type UserStore interface {
	ListUsers(ctx context.Context) ([]model.User, error)
	CreateUser(ctx context.Context, user model.User) (model.User, error)
	UpdateUser(ctx context.Context, userID string, update repository.UserUpdate) (model.User, error)
	DeleteUser(ctx context.Context, userID string) (model.User, error)
	CreateRegistration(ctx context.Context, reg model.Registration) (model.Registration, error)
}

type Server struct {
	cfg    config.Config
	store  UserStore
	users  *cache.Users
	hub    *chat.Hub
	logger *slog.Logger
}

// NewServer wires the handlers. users and hub may be nil: the listing is
// then always read from the store and /ws is not mounted.
func NewServer(cfg config.Config, store UserStore, users *cache.Users, hub *chat.Hub, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		cfg:    cfg,
		store:  store,
		users:  users,
		hub:    hub,
		logger: logger,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		MaxAge:         300,
	}))
	r.Use(s.requestLogger)
	r.Use(instrument)

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("API running"))
	})
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/register", s.handleRegister)

		r.Route("/users", func(r chi.Router) {
			r.Get("/", s.handleListUsers)
			r.Post("/", s.handleCreateUser)
			r.Put("/{userID}", s.handleUpdateUser)
			r.Delete("/{userID}", s.handleDeleteUser)
		})
	})

	if s.hub != nil {
		r.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
			chat.ServeWS(s.hub, w, r)
		})
	}

	return r
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

func decodeJSON(w http.ResponseWriter, r *http.Request, out interface{}) error {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	return decoder.Decode(out)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: code, Message: message})
}

// writeStoreError logs the failure with its diagnostics and answers 500.
// The raw detail reaches the client only when EXPOSE_STORE_ERRORS is set.
func (s *Server) writeStoreError(w http.ResponseWriter, r *http.Request, op string, err error) {
	attrs := []any{"op", op, "error", err, "request_id", requestIDFromContext(r.Context())}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		attrs = append(attrs, "pg_code", pgErr.Code, "constraint", pgErr.ConstraintName)
	}
	s.logger.Error("store failure", attrs...)

	resp := errorResponse{Error: "store_error", Message: op + " failed"}
	if s.cfg.ExposeStoreErrors {
		resp.Detail = err.Error()
	}
	writeJSON(w, http.StatusInternalServerError, resp)
}
