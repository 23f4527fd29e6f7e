package app

import (
	"fmt"

	"github.com/jefersongoes36-cmd/DigitalNexusSolutions/internal/model"
)

type Tab string

const (
	TabDashboard Tab = "dashboard"
	TabReports   Tab = "reports"
	TabAdmin     Tab = "admin"
	TabSupport   Tab = "support"
	TabChat      Tab = "chat"
	TabHelp      Tab = "help"
	TabProfile   Tab = "profile"
)

// TabsFor lists the tabs a role may open, in navigation order. Unknown
// roles get the employee set.
func TabsFor(role model.Role) []Tab {
	switch {
	case role.IsMaster():
		return []Tab{TabAdmin, TabDashboard, TabReports, TabSupport, TabChat, TabProfile}
	case role == model.RoleSupport:
		return []Tab{TabSupport, TabChat, TabHelp, TabProfile}
	default:
		return []Tab{TabDashboard, TabReports, TabChat, TabHelp, TabProfile}
	}
}

// LandingTab is the tab shown right after login.
func LandingTab(role model.Role) Tab {
	switch {
	case role.IsMaster():
		return TabAdmin
	case role == model.RoleSupport:
		return TabSupport
	default:
		return TabDashboard
	}
}

func tabAllowed(role model.Role, tab Tab) bool {
	for _, t := range TabsFor(role) {
		if t == tab {
			return true
		}
	}
	return false
}

func (s *State) SelectTab(tab Tab) error {
	s.mu.Lock()
	if s.user == nil {
		s.mu.Unlock()
		return ErrNotLoggedIn
	}
	if !tabAllowed(s.user.Role, tab) {
		role := s.user.Role
		s.mu.Unlock()
		return fmt.Errorf("%w: %s for %s", ErrTabNotAllowed, tab, role)
	}
	s.tab = tab
	s.mu.Unlock()
	s.notify()
	return nil
}
