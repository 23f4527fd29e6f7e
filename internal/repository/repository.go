package repository

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jefersongoes36-cmd/DigitalNexusSolutions/internal/model"
)

var ErrNotFound = errors.New("not found")

const userColumns = `id::text, username, password, name, role, currency, country, language, hourly_rate::float8, is_active`

type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// UserUpdate replaces every profile column of a user. A nil Password or
// IsActive keeps the stored value.
type UserUpdate struct {
	Username   string
	Password   *string
	Name       string
	Role       model.Role
	Currency   string
	Country    string
	Language   model.Language
	HourlyRate float64
	IsActive   *bool
}

func (s *Store) ListUsers(ctx context.Context) ([]model.User, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (s *Store) CreateUser(ctx context.Context, user model.User) (model.User, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO users (username, password, name, role, currency, country, language, hourly_rate, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+userColumns,
		user.Username,
		user.Password,
		user.Name,
		string(user.Role),
		user.Currency,
		user.Country,
		string(user.Language),
		user.HourlyRate,
		user.IsActive,
	)
	return scanUser(row)
}

func (s *Store) UpdateUser(ctx context.Context, userID string, update UserUpdate) (model.User, error) {
	id, ok := parseID(userID)
	if !ok {
		return model.User{}, ErrNotFound
	}
	row := s.pool.QueryRow(ctx, `
		UPDATE users SET
			username = $1,
			password = COALESCE($2, password),
			name = $3,
			role = $4,
			currency = $5,
			country = $6,
			language = $7,
			hourly_rate = $8,
			is_active = COALESCE($9, is_active)
		WHERE id = $10
		RETURNING `+userColumns,
		update.Username,
		update.Password,
		update.Name,
		string(update.Role),
		update.Currency,
		update.Country,
		string(update.Language),
		update.HourlyRate,
		update.IsActive,
		id,
	)
	user, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	return user, err
}

// DeleteUser removes the row and returns it as it was before deletion.
func (s *Store) DeleteUser(ctx context.Context, userID string) (model.User, error) {
	id, ok := parseID(userID)
	if !ok {
		return model.User{}, ErrNotFound
	}
	row := s.pool.QueryRow(ctx, `DELETE FROM users WHERE id = $1 RETURNING `+userColumns, id)
	user, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	return user, err
}

func (s *Store) CountUsers(ctx context.Context) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&count)
	return count, err
}

func (s *Store) CreateRegistration(ctx context.Context, reg model.Registration) (model.Registration, error) {
	var created model.Registration
	row := s.pool.QueryRow(ctx, `
		INSERT INTO registrations (name, email, plan)
		VALUES ($1, $2, $3)
		RETURNING id::text, name, email, plan, created_at
	`, reg.Name, reg.Email, reg.Plan)
	err := row.Scan(&created.ID, &created.Name, &created.Email, &created.Plan, &created.CreatedAt)
	return created, err
}

func scanUser(row pgx.Row) (model.User, error) {
	var (
		user     model.User
		role     string
		language string
	)
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Password,
		&user.Name,
		&role,
		&user.Currency,
		&user.Country,
		&language,
		&user.HourlyRate,
		&user.IsActive,
	)
	user.Role = model.Role(role)
	user.Language = model.Language(language)
	return user, err
}

func parseID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
