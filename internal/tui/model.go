// Package tui is the terminal front end. It renders app.State and turns
// key presses into state operations; API calls run as tea.Cmds so the UI
// never blocks on the network.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jefersongoes36-cmd/DigitalNexusSolutions/internal/apiclient"
	"github.com/jefersongoes36-cmd/DigitalNexusSolutions/internal/app"
	"github.com/jefersongoes36-cmd/DigitalNexusSolutions/internal/clock"
	"github.com/jefersongoes36-cmd/DigitalNexusSolutions/internal/i18n"
	"github.com/jefersongoes36-cmd/DigitalNexusSolutions/internal/model"
)

// StateChangedMsg asks the model to re-render after app.State changed on
// another goroutine. Wire app.State.OnChange to tea.Program.Send with it.
type StateChangedMsg struct{}

type opDoneMsg struct {
	info string
	err  error
}

type Model struct {
	state *app.State
	ctx   context.Context
	clk   clock.Clock
	keys  KeyMap
	st    styles

	width  int
	height int

	form   *form
	cursor int
	search string
	status string
	err    string

	chat viewport.Model
}

func New(ctx context.Context, state *app.State, clk clock.Clock) Model {
	if clk == nil {
		clk = clock.Real()
	}
	return Model{
		state: state,
		ctx:   ctx,
		clk:   clk,
		keys:  DefaultKeyMap,
		st:    defaultStyles(),
		chat:  viewport.New(80, 12),
	}
}

func (m Model) Init() tea.Cmd {
	return m.loadUsers()
}

func (m Model) loadUsers() tea.Cmd {
	return func() tea.Msg {
		if err := m.state.LoadUsers(m.ctx); err != nil {
			return opDoneMsg{err: err}
		}
		return opDoneMsg{}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.chat.Width = msg.Width - 4
		m.chat.Height = max(msg.Height-10, 3)
		m.syncChat()
		return m, nil

	case StateChangedMsg:
		m.syncChat()
		return m, nil

	case opDoneMsg:
		m.status, m.err = msg.info, ""
		if msg.err != nil {
			m.err = describeError(msg.err)
			if m.state.Phase() == app.PhaseSales && m.form == nil {
				m.openSalesForm()
			}
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.form != nil {
		var cmd tea.Cmd
		f := m.form
		f.fields[f.focus].input, cmd = f.fields[f.focus].input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if m.form != nil {
		result, cmd := m.form.update(msg, m.keys)
		switch result {
		case formSubmitted:
			f := m.form
			m.form = nil
			return m.submitForm(f)
		case formCanceled:
			f := m.form
			m.form = nil
			return m.cancelForm(f)
		}
		return m, cmd
	}

	lang := m.state.Language()
	switch m.state.Phase() {
	case app.PhaseSplash:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Login):
			if err := m.state.ShowLogin(); err == nil {
				m.openLoginForm()
			}
		case key.Matches(msg, m.keys.Sales):
			if err := m.state.ShowSales(); err == nil {
				m.openSalesForm()
			}
		case key.Matches(msg, m.keys.Language):
			_ = m.state.SetLanguage(nextLanguage(lang))
		}
	case app.PhaseLogin:
		m.openLoginForm()
	case app.PhaseSales:
		m.openSalesForm()
	case app.PhaseGreeting:
		if key.Matches(msg, m.keys.Cancel) {
			_ = m.state.Logout()
			m.openLoginForm()
		}
	case app.PhaseApp:
		return m.handleAppKey(msg)
	}
	return m, nil
}

func (m Model) handleAppKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	view := m.state.Snapshot()
	m.status, m.err = "", ""

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.NextTab):
		m.selectTab(view, 1)
		return m, nil
	case key.Matches(msg, m.keys.PrevTab):
		m.selectTab(view, -1)
		return m, nil
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case key.Matches(msg, m.keys.Down):
		if m.cursor < m.listLen(view)-1 {
			m.cursor++
		}
		return m, nil
	case key.Matches(msg, m.keys.Language):
		_ = m.state.SetLanguage(nextLanguage(view.Language))
		return m, nil
	case key.Matches(msg, m.keys.Logout):
		if err := m.state.Logout(); err != nil {
			m.err = describeError(err)
			return m, nil
		}
		m.cursor, m.search = 0, ""
		m.openLoginForm()
		return m, nil
	}

	lang := view.Language
	switch view.Tab {
	case app.TabDashboard:
		if key.Matches(msg, m.keys.Punch) {
			record, err := m.state.Punch()
			if err != nil {
				m.err = describeError(err)
				break
			}
			m.status = fmt.Sprintf("%s %s %s", record.Date, record.ClockIn, record.ClockOut)
		}

	case app.TabAdmin:
		users := app.FilterUsers(view.Users, m.search)
		switch {
		case key.Matches(msg, m.keys.New):
			m.openUserForm(formNewUser, i18n.T(lang, "admin.new"), app.NewUserDefaults())
		case key.Matches(msg, m.keys.Edit):
			if u, ok := pick(users, m.cursor); ok {
				m.openUserForm(formEditUser, i18n.T(lang, "admin.edit"), u)
			}
		case key.Matches(msg, m.keys.Delete):
			if u, ok := pick(users, m.cursor); ok {
				m.form = newForm(formConfirmDelete, fmt.Sprintf(i18n.T(lang, "admin.confirmDelete"), u.Name),
					newField("confirm", i18n.T(lang, "admin.confirm"), "", false))
				m.form.target = u.ID
			}
		case key.Matches(msg, m.keys.Search):
			m.form = newForm(formSearch, "", newField("term", i18n.T(lang, "admin.search"), m.search, false))
		case key.Matches(msg, m.keys.Reload):
			return m, m.loadUsers()
		}

	case app.TabSupport:
		if key.Matches(msg, m.keys.Status) {
			if t, ok := pick(view.Tickets, m.cursor); ok {
				if err := m.state.SetTicketStatus(t.ID, nextStatus(t.Status)); err != nil {
					m.err = describeError(err)
				}
			}
		}

	case app.TabChat:
		if key.Matches(msg, m.keys.Submit) || key.Matches(msg, m.keys.New) {
			m.form = newForm(formChat, "", newField("text", i18n.T(lang, "field.message"), "", false))
		}

	case app.TabHelp:
		switch {
		case key.Matches(msg, m.keys.New):
			m.form = newForm(formTicket, i18n.T(lang, "help.new"), newField("subject", i18n.T(lang, "field.subject"), "", false))
		case key.Matches(msg, m.keys.Reply):
			if t, ok := pick(userTickets(view), m.cursor); ok {
				m.form = newForm(formReply, t.ID, newField("text", i18n.T(lang, "field.message"), "", false))
				m.form.target = t.ID
			}
		}

	case app.TabProfile:
		if key.Matches(msg, m.keys.Edit) && view.User != nil {
			u := *view.User
			m.form = newForm(formProfile, i18n.Tab(lang, string(app.TabProfile)),
				newField("name", i18n.T(lang, "field.name"), u.Name, false),
				newField("password", i18n.T(lang, "field.password"), "", true),
				newField("language", "language", string(u.Language), false),
				newField("currency", "currency", u.Currency, false),
				newField("country", "country", u.Country, false),
			)
		}
	}
	return m, nil
}

func (m *Model) selectTab(view app.View, step int) {
	if len(view.Tabs) == 0 {
		return
	}
	current := 0
	for i, t := range view.Tabs {
		if t == view.Tab {
			current = i
		}
	}
	next := view.Tabs[(current+step+len(view.Tabs))%len(view.Tabs)]
	if err := m.state.SelectTab(next); err != nil {
		m.err = describeError(err)
		return
	}
	m.cursor = 0
	m.syncChat()
}

// listLen is the number of selectable rows on the current tab.
func (m Model) listLen(view app.View) int {
	switch view.Tab {
	case app.TabAdmin:
		return len(app.FilterUsers(view.Users, m.search))
	case app.TabSupport:
		return len(view.Tickets)
	case app.TabHelp:
		return len(userTickets(view))
	}
	return 0
}

func (m *Model) openLoginForm() {
	lang := m.state.Language()
	m.form = newForm(formLogin, i18n.T(lang, "login.title"),
		newField("username", i18n.T(lang, "field.username"), "", false),
		newField("password", i18n.T(lang, "field.password"), "", true),
	)
}

func (m *Model) openSalesForm() {
	lang := m.state.Language()
	m.form = newForm(formSales, i18n.T(lang, "sales.title"),
		newField("name", i18n.T(lang, "field.name"), "", false),
		newField("email", i18n.T(lang, "field.email"), "", false),
		newField("plan", i18n.T(lang, "field.plan"), model.DefaultPlan, false),
	)
}

func (m *Model) openUserForm(kind formKind, title string, u model.User) {
	lang := m.state.Language()
	m.form = newForm(kind, title,
		newField("name", i18n.T(lang, "field.name"), u.Name, false),
		newField("username", i18n.T(lang, "field.username"), u.Username, false),
		newField("password", i18n.T(lang, "field.password"), u.Password, true),
		newField("role", i18n.T(lang, "field.role"), string(u.Role), false),
		newField("currency", "currency", u.Currency, false),
		newField("country", "country", u.Country, false),
		newField("language", "language", string(u.Language), false),
		newField("hourlyRate", "hourlyRate", strconv.FormatFloat(u.HourlyRate, 'f', -1, 64), false),
		newField("isActive", "isActive", strconv.FormatBool(u.IsActive), false),
	)
	m.form.target = u.ID
}

func (m Model) submitForm(f *form) (tea.Model, tea.Cmd) {
	lang := m.state.Language()
	switch f.kind {
	case formLogin:
		if _, err := m.state.Login(f.value("username"), f.value("password")); err != nil {
			m.err = i18n.T(lang, "login.failed")
			m.openLoginForm()
			return m, nil
		}
		m.err, m.cursor = "", 0

	case formSales:
		reg := model.Registration{Name: f.value("name"), Email: f.value("email"), Plan: f.value("plan")}
		return m, m.run(i18n.T(lang, "sales.done"), func() error {
			_, err := m.state.Register(m.ctx, reg)
			return err
		})

	case formNewUser, formEditUser:
		u, err := userFromForm(f)
		if err != nil {
			m.err = err.Error()
			m.form = f
			return m, nil
		}
		if f.kind == formNewUser {
			return m, m.run("", func() error {
				_, err := m.state.AddUser(m.ctx, u)
				return err
			})
		}
		return m, m.run("", func() error {
			_, err := m.state.EditUser(m.ctx, u)
			return err
		})

	case formProfile:
		current, err := m.state.CurrentUser()
		if err != nil {
			m.err = describeError(err)
			return m, nil
		}
		current.Name = f.value("name")
		current.Password = f.value("password")
		current.Language = model.Language(f.value("language"))
		current.Currency = f.value("currency")
		current.Country = f.value("country")
		return m, m.run("", func() error {
			_, err := m.state.UpdateProfile(m.ctx, current)
			return err
		})

	case formSearch:
		m.search, m.cursor = f.value("term"), 0

	case formTicket:
		id, err := m.state.CreateTicket(f.value("subject"))
		if err != nil {
			m.err = describeError(err)
			return m, nil
		}
		m.status = id

	case formReply:
		if err := m.state.SendTicketMessage(f.target, f.value("text")); err != nil {
			m.err = describeError(err)
		}

	case formConfirmDelete:
		if !confirmed(f.value("confirm")) {
			return m, nil
		}
		return m, m.run("", func() error { return m.state.DeleteUser(m.ctx, f.target) })

	case formChat:
		if _, err := m.state.SendChatMessage(f.value("text")); err != nil && !errors.Is(err, app.ErrEmptyText) {
			m.err = describeError(err)
		}
	}
	return m, nil
}

func (m Model) cancelForm(f *form) (tea.Model, tea.Cmd) {
	switch f.kind {
	case formSales:
		_ = m.state.CancelSales()
	case formLogin:
		// The login screen has nowhere to go back to.
		m.openLoginForm()
	}
	return m, nil
}

// confirmed accepts a yes in any of the supported languages.
func confirmed(answer string) bool {
	switch strings.ToLower(answer) {
	case "y", "yes", "s", "sim", "si", "sí", "o", "oui":
		return true
	}
	return false
}

// run executes op off the UI goroutine and reports its outcome.
func (m Model) run(info string, op func() error) tea.Cmd {
	return func() tea.Msg {
		if err := op(); err != nil {
			return opDoneMsg{err: err}
		}
		return opDoneMsg{info: info}
	}
}

func (m *Model) syncChat() {
	view := m.state.Snapshot()
	m.chat.SetContent(renderChat(view, m.st))
	m.chat.GotoBottom()
}

func userFromForm(f *form) (model.User, error) {
	rate := 0.0
	if raw := f.value("hourlyRate"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed < 0 {
			return model.User{}, fmt.Errorf("hourlyRate: %q is not a valid rate", raw)
		}
		rate = parsed
	}
	active := true
	if raw := f.value("isActive"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			return model.User{}, fmt.Errorf("isActive: %q is not true or false", raw)
		}
		active = parsed
	}
	return model.User{
		ID:         f.target,
		Name:       f.value("name"),
		Username:   f.value("username"),
		Password:   f.value("password"),
		Role:       model.Role(f.value("role")),
		Currency:   f.value("currency"),
		Country:    f.value("country"),
		Language:   model.Language(f.value("language")),
		HourlyRate: rate,
		IsActive:   active,
	}, nil
}

func describeError(err error) string {
	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}

func nextLanguage(lang model.Language) model.Language {
	for i, l := range model.SupportedLanguages {
		if l == lang {
			return model.SupportedLanguages[(i+1)%len(model.SupportedLanguages)]
		}
	}
	return model.DefaultLanguage
}

func nextStatus(status model.TicketStatus) model.TicketStatus {
	for i, s := range model.TicketStatuses {
		if s == status {
			return model.TicketStatuses[(i+1)%len(model.TicketStatuses)]
		}
	}
	return model.TicketOpen
}

func pick[T any](items []T, i int) (T, bool) {
	var zero T
	if i < 0 || i >= len(items) {
		return zero, false
	}
	return items[i], true
}
