// Package app holds the terminal client's application state: the phase the
// user is in, the cached server data and the client-only collections.
//
// Every operation that changes server data sends the request first and
// only touches the cache once the server has answered with success.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/jefersongoes36-cmd/DigitalNexusSolutions/internal/clock"
	"github.com/jefersongoes36-cmd/DigitalNexusSolutions/internal/jobs"
	"github.com/jefersongoes36-cmd/DigitalNexusSolutions/internal/model"
)

type Phase string

const (
	PhaseSplash   Phase = "splash"
	PhaseSales    Phase = "sales"
	PhaseLogin    Phase = "login"
	PhaseGreeting Phase = "greeting"
	PhaseApp      Phase = "app"
)

const (
	GreetingFadeIn  = 100 * time.Millisecond
	GreetingFadeOut = 3500 * time.Millisecond
	GreetingDone    = 5000 * time.Millisecond
)

var (
	ErrInvalidTransition   = errors.New("invalid phase transition")
	ErrInvalidCredentials  = errors.New("invalid username or password")
	ErrTabNotAllowed       = errors.New("tab not available for role")
	ErrNotLoggedIn         = errors.New("not logged in")
	ErrTicketNotFound      = errors.New("ticket not found")
	ErrUnsupportedLanguage = errors.New("unsupported language")
	ErrEmptyText           = errors.New("text is empty")
	ErrDayClosed           = errors.New("clock-out already recorded for today")
	ErrInvalidStatus       = errors.New("invalid ticket status")
)

// UserAPI is the server surface the state depends on. *apiclient.Client
// satisfies it.
type UserAPI interface {
	ListUsers(ctx context.Context) ([]model.User, error)
	CreateUser(ctx context.Context, user model.User) (model.User, error)
	UpdateUser(ctx context.Context, user model.User) (model.User, error)
	DeleteUser(ctx context.Context, userID string) error
	Register(ctx context.Context, reg model.Registration) (model.Registration, error)
}

// ChatRelay forwards locally sent chat messages to other clients.
type ChatRelay interface {
	Send(message model.ChatMessage) error
}

type Options struct {
	API      UserAPI
	Clock    clock.Clock
	Logger   *slog.Logger
	Language model.Language
	// TicketID overrides ticket id generation.
	TicketID func() string
}

type State struct {
	mu sync.Mutex

	api      UserAPI
	clk      clock.Clock
	logger   *slog.Logger
	ticketID func() string
	relay    ChatRelay
	onChange func()

	phase Phase
	user  *model.User
	tab   Tab
	lang  model.Language

	greetingOpacity float64
	greetingGen     int
	cancelGreeting  func()

	users         []model.User
	records       []model.TimeRecord
	tickets       []model.SupportTicket
	messages      []model.ChatMessage
	registrations []model.Registration
}

func New(opts Options) *State {
	if opts.Clock == nil {
		opts.Clock = clock.Real()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if !opts.Language.Supported() {
		opts.Language = model.DefaultLanguage
	}
	if opts.TicketID == nil {
		opts.TicketID = randomTicketID
	}
	return &State{
		api:      opts.API,
		clk:      opts.Clock,
		logger:   opts.Logger,
		ticketID: opts.TicketID,
		phase:    PhaseSplash,
		tab:      TabDashboard,
		lang:     opts.Language,
	}
}

// OnChange registers fn to be called after every state change. fn runs
// without the state lock held, on whichever goroutine made the change.
func (s *State) OnChange(fn func()) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

func (s *State) SetChatRelay(relay ChatRelay) {
	s.mu.Lock()
	s.relay = relay
	s.mu.Unlock()
}

func (s *State) notify() {
	s.mu.Lock()
	fn := s.onChange
	s.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// View is a copy of the state for rendering.
type View struct {
	Phase           Phase
	User            *model.User
	Tab             Tab
	Tabs            []Tab
	Language        model.Language
	GreetingOpacity float64
	Users           []model.User
	Records         []model.TimeRecord
	Tickets         []model.SupportTicket
	Messages        []model.ChatMessage
	Registrations   []model.Registration
}

func (s *State) Snapshot() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	view := View{
		Phase:           s.phase,
		Tab:             s.tab,
		Language:        s.lang,
		GreetingOpacity: s.greetingOpacity,
		Users:           append([]model.User(nil), s.users...),
		Records:         append([]model.TimeRecord(nil), s.records...),
		Tickets:         make([]model.SupportTicket, len(s.tickets)),
		Messages:        append([]model.ChatMessage(nil), s.messages...),
		Registrations:   append([]model.Registration(nil), s.registrations...),
	}
	for i, ticket := range s.tickets {
		ticket.Messages = append([]model.TicketMessage(nil), ticket.Messages...)
		view.Tickets[i] = ticket
	}
	if s.user != nil {
		user := *s.user
		view.User = &user
		view.Tabs = TabsFor(user.Role)
	}
	return view
}

func (s *State) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

func (s *State) Language() model.Language {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lang
}

func (s *State) SetLanguage(lang model.Language) error {
	if !lang.Supported() {
		return fmt.Errorf("%w: %q", ErrUnsupportedLanguage, lang)
	}
	s.mu.Lock()
	s.lang = lang
	s.mu.Unlock()
	s.notify()
	return nil
}

// transition moves from one of the allowed phases to next.
func (s *State) transition(next Phase, from ...Phase) error {
	s.mu.Lock()
	if !phaseIn(s.phase, from) {
		current := s.phase
		s.mu.Unlock()
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current, next)
	}
	s.phase = next
	s.mu.Unlock()
	s.notify()
	return nil
}

func phaseIn(phase Phase, set []Phase) bool {
	for _, p := range set {
		if p == phase {
			return true
		}
	}
	return false
}

func (s *State) ShowLogin() error { return s.transition(PhaseLogin, PhaseSplash) }

func (s *State) ShowSales() error { return s.transition(PhaseSales, PhaseSplash) }

func (s *State) CancelSales() error { return s.transition(PhaseSplash, PhaseSales) }

// Register submits a public registration and returns to the splash screen
// once the server has stored it.
func (s *State) Register(ctx context.Context, reg model.Registration) (model.Registration, error) {
	if s.Phase() != PhaseSales {
		return model.Registration{}, fmt.Errorf("%w: register outside sales", ErrInvalidTransition)
	}
	created, err := s.api.Register(ctx, reg)
	if err != nil {
		s.logger.Error("registration failed", "email", reg.Email, "error", err)
		return model.Registration{}, err
	}

	s.mu.Lock()
	s.registrations = append(s.registrations, created)
	if s.phase == PhaseSales {
		s.phase = PhaseSplash
	}
	s.mu.Unlock()
	s.notify()
	return created, nil
}

// Login matches the credentials against the cached user list and starts
// the greeting. Inactive users cannot log in.
func (s *State) Login(username, password string) (model.User, error) {
	username = strings.TrimSpace(username)

	s.mu.Lock()
	if s.phase != PhaseLogin {
		current := s.phase
		s.mu.Unlock()
		return model.User{}, fmt.Errorf("%w: login from %s", ErrInvalidTransition, current)
	}
	var found *model.User
	for i := range s.users {
		u := s.users[i]
		if strings.EqualFold(u.Username, username) && u.Password == password && u.IsActive {
			found = &u
			break
		}
	}
	if found == nil {
		s.mu.Unlock()
		return model.User{}, ErrInvalidCredentials
	}

	s.user = found
	if found.Language.Supported() {
		s.lang = found.Language
	}
	s.tab = LandingTab(found.Role)
	s.phase = PhaseGreeting
	s.startGreetingLocked()
	user := *found
	s.mu.Unlock()

	s.logger.Info("user logged in", "user_id", user.ID, "role", user.Role)
	s.notify()
	return user, nil
}

// Logout returns to the login screen from the app or from a greeting that
// has not finished yet.
func (s *State) Logout() error {
	s.mu.Lock()
	if s.phase != PhaseApp && s.phase != PhaseGreeting {
		current := s.phase
		s.mu.Unlock()
		return fmt.Errorf("%w: logout from %s", ErrInvalidTransition, current)
	}
	s.stopGreetingLocked()
	s.user = nil
	s.phase = PhaseLogin
	s.mu.Unlock()
	s.notify()
	return nil
}

func (s *State) startGreetingLocked() {
	s.stopGreetingLocked()
	s.greetingOpacity = 0
	gen := s.greetingGen

	s.cancelGreeting = jobs.StartSequence(context.Background(), s.clk, []jobs.Step{
		{After: GreetingFadeIn, Run: func() {
			s.greetingStep(gen, func() { s.greetingOpacity = 1 })
		}},
		{After: GreetingFadeOut, Run: func() {
			s.greetingStep(gen, func() { s.greetingOpacity = 0 })
		}},
		{After: GreetingDone, Run: func() {
			s.greetingStep(gen, func() {
				s.phase = PhaseApp
				s.cancelGreeting = nil
			})
		}},
	})
}

// stopGreetingLocked cancels pending steps and bumps the generation so a
// step already past its timer is ignored.
func (s *State) stopGreetingLocked() {
	s.greetingGen++
	if s.cancelGreeting != nil {
		s.cancelGreeting()
		s.cancelGreeting = nil
	}
	s.greetingOpacity = 0
}

func (s *State) greetingStep(gen int, apply func()) {
	s.mu.Lock()
	if gen != s.greetingGen || s.phase != PhaseGreeting {
		s.mu.Unlock()
		return
	}
	apply()
	s.mu.Unlock()
	s.notify()
}

// CurrentUser returns the logged-in user.
func (s *State) CurrentUser() (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return model.User{}, ErrNotLoggedIn
	}
	return *s.user, nil
}

func (s *State) currentUserLocked() (model.User, error) {
	if s.user == nil {
		return model.User{}, ErrNotLoggedIn
	}
	return *s.user, nil
}

func randomTicketID() string {
	const alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	var b strings.Builder
	b.WriteString("TK-")
	for i := 0; i < 6; i++ {
		b.WriteByte(alphabet[rand.Intn(len(alphabet))])
	}
	return b.String()
}
