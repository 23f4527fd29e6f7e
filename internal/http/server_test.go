package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/jefersongoes36-cmd/DigitalNexusSolutions/internal/cache"
	"github.com/jefersongoes36-cmd/DigitalNexusSolutions/internal/config"
	"github.com/jefersongoes36-cmd/DigitalNexusSolutions/internal/model"
	"github.com/jefersongoes36-cmd/DigitalNexusSolutions/internal/repository"
)

type memoryStore struct {
	mu            sync.Mutex
	users         []model.User
	registrations []model.Registration
	nextID        int
	listCalls     int
	err           error
}

func (m *memoryStore) ListUsers(context.Context) ([]model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCalls++
	if m.err != nil {
		return nil, m.err
	}
	out := make([]model.User, 0, len(m.users))
	for i := len(m.users) - 1; i >= 0; i-- {
		out = append(out, m.users[i])
	}
	return out, nil
}

func (m *memoryStore) CreateUser(_ context.Context, user model.User) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return model.User{}, m.err
	}
	m.nextID++
	user.ID = strconv.Itoa(m.nextID)
	m.users = append(m.users, user)
	return user, nil
}

func (m *memoryStore) UpdateUser(_ context.Context, userID string, update repository.UserUpdate) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return model.User{}, m.err
	}
	for i, user := range m.users {
		if user.ID != userID {
			continue
		}
		user.Username = update.Username
		user.Name = update.Name
		user.Role = update.Role
		user.Currency = update.Currency
		user.Country = update.Country
		user.Language = update.Language
		user.HourlyRate = update.HourlyRate
		if update.Password != nil {
			user.Password = *update.Password
		}
		if update.IsActive != nil {
			user.IsActive = *update.IsActive
		}
		m.users[i] = user
		return user, nil
	}
	return model.User{}, repository.ErrNotFound
}

func (m *memoryStore) DeleteUser(_ context.Context, userID string) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return model.User{}, m.err
	}
	for i, user := range m.users {
		if user.ID == userID {
			m.users = append(m.users[:i], m.users[i+1:]...)
			return user, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (m *memoryStore) CreateRegistration(_ context.Context, reg model.Registration) (model.Registration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return model.Registration{}, m.err
	}
	reg.ID = strconv.Itoa(len(m.registrations) + 1)
	reg.CreatedAt = time.Now().UTC()
	m.registrations = append(m.registrations, reg)
	return reg, nil
}

func (m *memoryStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users)
}

func newTestServer(t *testing.T, store UserStore, cfg config.Config, users *cache.Users) *httptest.Server {
	t.Helper()
	server := NewServer(cfg, store, users, nil, nil)
	app := httptest.NewServer(server.Router())
	t.Cleanup(app.Close)
	return app
}

func doJSON(t *testing.T, method, url string, body interface{}) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode: %v", err)
	}
}

func TestRootAndHealth(t *testing.T) {
	app := newTestServer(t, &memoryStore{}, config.Config{}, nil)

	resp := doJSON(t, http.MethodGet, app.URL+"/", nil)
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || string(body) != "API running" {
		t.Fatalf("unexpected root response: %d %q", resp.StatusCode, body)
	}

	resp = doJSON(t, http.MethodGet, app.URL+"/health", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if resp.Header.Get(requestIDHeader) == "" {
		t.Fatalf("expected a request id header")
	}
}

func TestCreateUserAppliesDefaults(t *testing.T) {
	store := &memoryStore{}
	app := newTestServer(t, store, config.Config{}, nil)

	resp := doJSON(t, http.MethodPost, app.URL+"/api/users", map[string]string{
		"username": "jdoe",
		"password": "123",
		"name":     "John Doe",
		"role":     "employee",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	var user model.User
	decodeBody(t, resp, &user)
	if user.ID == "" {
		t.Fatalf("expected a server assigned id")
	}
	if user.Currency != "EUR" || user.Country != "PT" || user.Language != model.LanguagePT {
		t.Fatalf("unexpected locale defaults: %+v", user)
	}
	if user.HourlyRate != 0 || !user.IsActive {
		t.Fatalf("unexpected rate/active defaults: %+v", user)
	}
}

func TestCreateUserMissingFields(t *testing.T) {
	store := &memoryStore{}
	app := newTestServer(t, store, config.Config{}, nil)

	resp := doJSON(t, http.MethodPost, app.URL+"/api/users", map[string]string{"name": "Ana"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	var body errorResponse
	decodeBody(t, resp, &body)
	if body.Error != "missing_fields" || body.Message == "" {
		t.Fatalf("unexpected error body: %+v", body)
	}
	if store.count() != 0 {
		t.Fatalf("expected no insert, got %d users", store.count())
	}

	resp = doJSON(t, http.MethodPost, app.URL+"/api/users", map[string]string{
		"username": "   ", "password": "x", "name": "Ana", "role": "employee",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for blank username, got %d", resp.StatusCode)
	}
}

func TestCreateUserRejectsMalformedBody(t *testing.T) {
	app := newTestServer(t, &memoryStore{}, config.Config{}, nil)

	resp, err := http.Post(app.URL+"/api/users", "application/json", strings.NewReader("{not json"))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestUpdateUser(t *testing.T) {
	store := &memoryStore{}
	app := newTestServer(t, store, config.Config{}, nil)

	created, _ := store.CreateUser(context.Background(), model.User{
		Username: "jdoe", Password: "secret", Name: "John", Role: model.RoleEmployee,
		Currency: "USD", Country: "US", Language: model.LanguageEN, HourlyRate: 12, IsActive: true,
	})

	resp := doJSON(t, http.MethodPut, app.URL+"/api/users/"+created.ID, map[string]interface{}{
		"id":       created.ID,
		"username": "jdoe",
		"name":     "John Doe",
		"role":     "support",
		"currency": "USD",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var updated model.User
	decodeBody(t, resp, &updated)
	if updated.ID != created.ID {
		t.Fatalf("id changed: %s -> %s", created.ID, updated.ID)
	}
	if updated.Name != "John Doe" || updated.Role != model.RoleSupport {
		t.Fatalf("fields not replaced: %+v", updated)
	}
	if updated.Password != "secret" || !updated.IsActive {
		t.Fatalf("password and active flag should be kept: %+v", updated)
	}
	if updated.Language != model.DefaultLanguage || updated.HourlyRate != 0 {
		t.Fatalf("omitted fields should fall back to defaults: %+v", updated)
	}

	resp = doJSON(t, http.MethodPut, app.URL+"/api/users/"+created.ID, map[string]string{"name": "No Role"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodPut, app.URL+"/api/users/999", map[string]string{
		"username": "ghost", "name": "Ghost", "role": "employee",
	})
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestDeleteUser(t *testing.T) {
	store := &memoryStore{}
	app := newTestServer(t, store, config.Config{}, nil)

	created, _ := store.CreateUser(context.Background(), model.User{Username: "a", Name: "A", Role: model.RoleEmployee})

	resp := doJSON(t, http.MethodDelete, app.URL+"/api/users/999", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
	if store.count() != 1 {
		t.Fatalf("missing delete changed the count: %d", store.count())
	}

	resp = doJSON(t, http.MethodDelete, app.URL+"/api/users/"+created.ID, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var body deleteResponse
	decodeBody(t, resp, &body)
	if body.Status != "deleted" || body.ID != created.ID {
		t.Fatalf("unexpected delete body: %+v", body)
	}
	if store.count() != 0 {
		t.Fatalf("expected empty store, got %d", store.count())
	}
}

func TestListUsersNewestFirst(t *testing.T) {
	store := &memoryStore{}
	app := newTestServer(t, store, config.Config{}, nil)
	for _, name := range []string{"first", "second", "third"} {
		_, _ = store.CreateUser(context.Background(), model.User{Username: name, Name: name, Role: model.RoleEmployee})
	}

	resp := doJSON(t, http.MethodGet, app.URL+"/api/users", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var users []model.User
	decodeBody(t, resp, &users)
	if len(users) != 3 || users[0].Username != "third" || users[2].Username != "first" {
		t.Fatalf("unexpected order: %+v", users)
	}
}

func TestRegister(t *testing.T) {
	store := &memoryStore{}
	app := newTestServer(t, store, config.Config{}, nil)

	resp := doJSON(t, http.MethodPost, app.URL+"/api/register", map[string]string{
		"name": "Acme", "email": "Owner@Acme.test",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	var reg model.Registration
	decodeBody(t, resp, &reg)
	if reg.Plan != model.DefaultPlan || reg.Email != "owner@acme.test" {
		t.Fatalf("unexpected registration: %+v", reg)
	}
	if store.count() != 0 {
		t.Fatalf("registration must not create a user")
	}

	resp = doJSON(t, http.MethodPost, app.URL+"/api/register", map[string]string{"name": "Acme"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestStoreErrorDetail(t *testing.T) {
	store := &memoryStore{err: errors.New("connection refused")}

	hidden := newTestServer(t, store, config.Config{}, nil)
	resp := doJSON(t, http.MethodGet, hidden.URL+"/api/users", nil)
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.StatusCode)
	}
	var body errorResponse
	decodeBody(t, resp, &body)
	if body.Error != "store_error" || body.Detail != "" {
		t.Fatalf("detail should be hidden: %+v", body)
	}

	exposed := newTestServer(t, store, config.Config{ExposeStoreErrors: true}, nil)
	resp = doJSON(t, http.MethodGet, exposed.URL+"/api/users", nil)
	var detailed errorResponse
	decodeBody(t, resp, &detailed)
	if detailed.Detail != "connection refused" {
		t.Fatalf("expected detail, got %+v", detailed)
	}
}

func TestListUsersCacheInvalidatedOnCreate(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := &memoryStore{}
	app := newTestServer(t, store, config.Config{}, cache.NewUsers(client, time.Minute))

	doJSON(t, http.MethodGet, app.URL+"/api/users", nil)
	doJSON(t, http.MethodGet, app.URL+"/api/users", nil)
	if store.listCalls != 1 {
		t.Fatalf("second listing should come from cache, store called %d times", store.listCalls)
	}

	resp := doJSON(t, http.MethodPost, app.URL+"/api/users", map[string]string{
		"username": "new", "password": "123", "name": "New", "role": "employee",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodGet, app.URL+"/api/users", nil)
	var users []model.User
	decodeBody(t, resp, &users)
	if len(users) != 1 || store.listCalls != 2 {
		t.Fatalf("cache not invalidated: users=%d calls=%d", len(users), store.listCalls)
	}
}

// pausingStore holds ListUsers after it has read its snapshot until release
// is closed.
type pausingStore struct {
	*memoryStore
	read    chan struct{}
	release chan struct{}
	once    sync.Once
}

func (p *pausingStore) ListUsers(ctx context.Context) ([]model.User, error) {
	users, err := p.memoryStore.ListUsers(ctx)
	p.once.Do(func() {
		close(p.read)
		<-p.release
	})
	return users, err
}

func TestListUsersCacheSkipsSnapshotOlderThanCreate(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := &pausingStore{
		memoryStore: &memoryStore{},
		read:        make(chan struct{}),
		release:     make(chan struct{}),
	}
	app := newTestServer(t, store, config.Config{}, cache.NewUsers(client, time.Minute))

	done := make(chan struct{})
	go func() {
		defer close(done)
		resp, err := http.Get(app.URL + "/api/users")
		if err == nil {
			_ = resp.Body.Close()
		}
	}()
	<-store.read

	resp := doJSON(t, http.MethodPost, app.URL+"/api/users", map[string]string{
		"username": "new", "password": "123", "name": "New", "role": "employee",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	close(store.release)
	<-done

	resp = doJSON(t, http.MethodGet, app.URL+"/api/users", nil)
	var users []model.User
	decodeBody(t, resp, &users)
	if len(users) != 1 || users[0].Username != "new" {
		t.Fatalf("listing after create must include the new user, got %+v", users)
	}
}
