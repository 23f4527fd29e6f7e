package repository

import (
	"context"
	"errors"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jefersongoes36-cmd/DigitalNexusSolutions/internal/db"
	"github.com/jefersongoes36-cmd/DigitalNexusSolutions/internal/model"
)

func TestParseID(t *testing.T) {
	cases := map[string]bool{
		"5":   true,
		" 12": true,
		"0":   false,
		"-3":  false,
		"abc": false,
		"":    false,
	}
	for input, expect := range cases {
		if _, ok := parseID(input); ok != expect {
			t.Fatalf("parseID(%q): expected %v", input, expect)
		}
	}
}

func TestUserLifecycle(t *testing.T) {
	pool := openTestDB(t)
	defer pool.Close()
	store := NewStore(pool)
	ctx := context.Background()

	username := "repo." + strconv.FormatInt(time.Now().UnixNano(), 36)
	created, err := store.CreateUser(ctx, model.User{
		Username:   username,
		Password:   "123",
		Name:       "Repo Test",
		Role:       model.RoleEmployee,
		Currency:   model.DefaultCurrency,
		Country:    model.DefaultCountry,
		Language:   model.DefaultLanguage,
		HourlyRate: 12.5,
		IsActive:   true,
	})
	if err != nil {
		t.Fatalf("create error: %v", err)
	}
	if created.ID == "" || created.Username != username || created.HourlyRate != 12.5 {
		t.Fatalf("unexpected created row: %+v", created)
	}

	users, err := store.ListUsers(ctx)
	if err != nil {
		t.Fatalf("list error: %v", err)
	}
	if len(users) == 0 || users[0].ID != created.ID {
		t.Fatalf("expected newest user first")
	}

	inactive := false
	updated, err := store.UpdateUser(ctx, created.ID, UserUpdate{
		Username:   username,
		Name:       "Repo Renamed",
		Role:       model.RoleSupport,
		Currency:   "USD",
		Country:    "US",
		Language:   model.LanguageEN,
		HourlyRate: 20,
		IsActive:   &inactive,
	})
	if err != nil {
		t.Fatalf("update error: %v", err)
	}
	if updated.ID != created.ID {
		t.Fatalf("update changed id: %s -> %s", created.ID, updated.ID)
	}
	if updated.Password != "123" {
		t.Fatalf("expected nil password to keep stored value, got %q", updated.Password)
	}
	if updated.IsActive || updated.Role != model.RoleSupport {
		t.Fatalf("unexpected updated row: %+v", updated)
	}

	if _, err := store.DeleteUser(ctx, created.ID); err != nil {
		t.Fatalf("delete error: %v", err)
	}
	if _, err := store.UpdateUser(ctx, created.ID, UserUpdate{Username: username, Name: "x", Role: model.RoleEmployee}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on update after delete, got %v", err)
	}
}

func TestDeleteMissingUserKeepsCount(t *testing.T) {
	pool := openTestDB(t)
	defer pool.Close()
	store := NewStore(pool)
	ctx := context.Background()

	before, err := store.CountUsers(ctx)
	if err != nil {
		t.Fatalf("count error: %v", err)
	}
	if _, err := store.DeleteUser(ctx, "999999999"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := store.DeleteUser(ctx, "not-a-number"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for malformed id, got %v", err)
	}
	after, err := store.CountUsers(ctx)
	if err != nil {
		t.Fatalf("count error: %v", err)
	}
	if before != after {
		t.Fatalf("row count changed: %d -> %d", before, after)
	}
}

func TestCreateRegistration(t *testing.T) {
	pool := openTestDB(t)
	defer pool.Close()
	store := NewStore(pool)

	reg, err := store.CreateRegistration(context.Background(), model.Registration{
		Name:  "Ana",
		Email: "ana@example.local",
		Plan:  model.DefaultPlan,
	})
	if err != nil {
		t.Fatalf("register error: %v", err)
	}
	if reg.ID == "" || reg.Plan != "free" || reg.CreatedAt.IsZero() {
		t.Fatalf("unexpected registration: %+v", reg)
	}
}

func openTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	url := os.Getenv("TIMEDESK_TEST_DB")
	if url == "" {
		url = os.Getenv("DATABASE_URL")
	}
	if url == "" {
		t.Skip("TIMEDESK_TEST_DB or DATABASE_URL not set")
	}
	pool, err := db.NewPool(context.Background(), url)
	if err != nil {
		t.Skipf("db unavailable: %v", err)
	}
	if err := db.ApplySchema(context.Background(), pool); err != nil {
		pool.Close()
		t.Fatalf("schema error: %v", err)
	}
	return pool
}
