package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jefersongoes36-cmd/DigitalNexusSolutions/internal/app"
	"github.com/jefersongoes36-cmd/DigitalNexusSolutions/internal/i18n"
	"github.com/jefersongoes36-cmd/DigitalNexusSolutions/internal/model"
)

const brand = "DigitalNexus TimeDesk"

func (m Model) View() string {
	view := m.state.Snapshot()
	lang := view.Language

	var body string
	switch view.Phase {
	case app.PhaseSplash:
		body = m.st.Box.Render(lipgloss.JoinVertical(lipgloss.Left,
			m.st.Title.Render(brand),
			"",
			"enter  "+i18n.T(lang, "splash.login"),
			"s      "+i18n.T(lang, "splash.sales"),
			"L      "+string(lang),
			"q      quit",
		))
	case app.PhaseSales, app.PhaseLogin:
		content := m.st.Subtle.Render("enter")
		if m.form != nil {
			content = m.form.view(m.st)
		}
		body = m.st.Box.Render(content)
	case app.PhaseGreeting:
		body = m.greetingView(view)
	case app.PhaseApp:
		body = m.appView(view)
	}

	var footer []string
	if m.err != "" {
		footer = append(footer, m.st.Error.Render(m.err))
	}
	if m.status != "" {
		footer = append(footer, m.st.Info.Render(m.status))
	}
	out := lipgloss.JoinVertical(lipgloss.Left, append([]string{body}, footer...)...)
	if m.width > 0 && m.height > 0 && view.Phase != app.PhaseApp {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, out)
	}
	return out
}

func (m Model) greetingView(view app.View) string {
	if view.User == nil {
		return ""
	}
	text := fmt.Sprintf("%s, %s", i18n.Greeting(view.Language, m.clk.Now().Hour()), firstName(view.User.Name))
	if view.GreetingOpacity < 1 {
		return m.st.Subtle.Render(text)
	}
	return m.st.Greeting.Render(text)
}

func (m Model) appView(view app.View) string {
	if view.User == nil {
		return ""
	}
	lang := view.Language

	tabs := make([]string, 0, len(view.Tabs))
	for _, t := range view.Tabs {
		label := i18n.Tab(lang, string(t))
		if t == view.Tab {
			tabs = append(tabs, m.st.ActiveTab.Render(label))
		} else {
			tabs = append(tabs, m.st.Tab.Render(label))
		}
	}
	header := lipgloss.JoinHorizontal(lipgloss.Top,
		m.st.Title.Render(brand),
		m.st.Subtle.Render(fmt.Sprintf("  %s · %s · %s", view.User.Name, view.User.Role, lang)),
	)

	var content string
	switch view.Tab {
	case app.TabDashboard:
		content = m.dashboardView(view)
	case app.TabReports:
		content = m.reportsView(view)
	case app.TabAdmin:
		content = m.adminView(view)
	case app.TabSupport:
		content = m.ticketList(view, view.Tickets)
	case app.TabChat:
		content = m.chat.View()
	case app.TabHelp:
		content = m.ticketList(view, userTickets(view))
	case app.TabProfile:
		content = m.profileView(view)
	}
	if m.form != nil {
		content = lipgloss.JoinVertical(lipgloss.Left, content, "", m.st.Box.Render(m.form.view(m.st)))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		lipgloss.JoinHorizontal(lipgloss.Top, tabs...),
		"",
		content,
	)
}

func (m Model) dashboardView(view app.View) string {
	lang := view.Language
	today := m.clk.Now().Format("2006-01-02")
	line := m.st.Subtle.Render("--:--")
	for _, r := range view.Records {
		if r.UserID == view.User.ID && r.Date == today {
			line = fmt.Sprintf("%s → %s  (%.2f h)", r.ClockIn, orDash(r.ClockOut), r.Hours)
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.st.Label.Render(i18n.T(lang, "dashboard.today"))+" "+today,
		line,
		"",
		m.st.Subtle.Render("p  "+i18n.T(lang, "dashboard.punch")),
	)
}

func (m Model) reportsView(view app.View) string {
	lang := view.Language
	sum, err := m.state.Summary()
	if err != nil {
		return m.st.Error.Render(err.Error())
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s %.2f\n", m.st.Label.Render(i18n.T(lang, "reports.hours")), sum.Hours)
	fmt.Fprintf(&b, "%s %.2f %s\n\n", m.st.Label.Render(i18n.T(lang, "reports.earnings")), sum.Earnings, sum.Currency)
	for _, r := range view.Records {
		if r.UserID != view.User.ID {
			continue
		}
		fmt.Fprintf(&b, "%s  %s → %s  %.2f h\n", r.Date, r.ClockIn, orDash(r.ClockOut), r.Hours)
	}
	return b.String()
}

func (m Model) adminView(view app.View) string {
	lang := view.Language
	users := app.FilterUsers(view.Users, m.search)
	var b strings.Builder
	if m.search != "" {
		b.WriteString(m.st.Subtle.Render(i18n.T(lang, "admin.search")+" "+m.search) + "\n")
	}
	for i, u := range users {
		state := i18n.T(lang, "admin.active")
		if !u.IsActive {
			state = i18n.T(lang, "admin.inactive")
		}
		line := fmt.Sprintf("%-6s %-24s @%-14s %-9s %s", u.ID, u.Name, u.Username, u.Role, state)
		if i == clampCursor(m.cursor, len(users)) {
			line = m.st.Selected.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n" + m.st.Subtle.Render("n new · e edit · d delete · / search · R reload"))
	return b.String()
}

func (m Model) ticketList(view app.View, tickets []model.SupportTicket) string {
	lang := view.Language
	if len(tickets) == 0 {
		return m.st.Subtle.Render(i18n.T(lang, "support.empty"))
	}
	var b strings.Builder
	selected := clampCursor(m.cursor, len(tickets))
	for i, t := range tickets {
		line := fmt.Sprintf("%s  %-12s %s", t.ID, i18n.T(lang, "status."+string(t.Status)), t.Subject)
		if i == selected {
			b.WriteString(m.st.Selected.Render("> "+line) + "\n")
			for _, msg := range t.Messages {
				b.WriteString(m.st.Subtle.Render("    "+msg.Text) + "\n")
			}
			continue
		}
		b.WriteString("  " + line + "\n")
	}
	return b.String()
}

func (m Model) profileView(view app.View) string {
	u := view.User
	lang := view.Language
	rows := [][2]string{
		{i18n.T(lang, "field.name"), u.Name},
		{i18n.T(lang, "field.username"), u.Username},
		{i18n.T(lang, "field.role"), string(u.Role)},
		{"language", string(u.Language)},
		{"currency", u.Currency},
		{"country", u.Country},
		{"hourlyRate", fmt.Sprintf("%.2f", u.HourlyRate)},
	}
	var b strings.Builder
	for _, row := range rows {
		b.WriteString(m.st.Label.Render(row[0]) + " " + row[1] + "\n")
	}
	b.WriteString("\n" + m.st.Subtle.Render("e edit · o "+i18n.T(lang, "profile.logout")))
	return b.String()
}

func renderChat(view app.View, st styles) string {
	if len(view.Messages) == 0 {
		return st.Subtle.Render(i18n.T(view.Language, "chat.empty"))
	}
	names := make(map[string]string, len(view.Users))
	for _, u := range view.Users {
		names[u.ID] = firstName(u.Name)
	}
	var b strings.Builder
	for _, msg := range view.Messages {
		name := names[msg.UserID]
		if name == "" {
			name = msg.UserID
		}
		ts := msg.Timestamp
		if len(ts) >= 16 {
			ts = ts[11:16]
		}
		fmt.Fprintf(&b, "%s %s: %s\n", st.Subtle.Render(ts), st.Title.Render(name), msg.Text)
	}
	return b.String()
}

func userTickets(view app.View) []model.SupportTicket {
	var out []model.SupportTicket
	for _, t := range view.Tickets {
		if view.User != nil && t.UserID == view.User.ID {
			out = append(out, t)
		}
	}
	return out
}

func clampCursor(cursor, n int) int {
	if n == 0 {
		return -1
	}
	if cursor >= n {
		return n - 1
	}
	return cursor
}

func firstName(name string) string {
	if fields := strings.Fields(name); len(fields) > 0 {
		return fields[0]
	}
	return name
}

func orDash(s string) string {
	if s == "" {
		return "--:--"
	}
	return s
}
