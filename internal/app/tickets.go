package app

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jefersongoes36-cmd/DigitalNexusSolutions/internal/i18n"
	"github.com/jefersongoes36-cmd/DigitalNexusSolutions/internal/model"
)

func reconcileTickets(tickets []model.SupportTicket, kind mutation, ticket model.SupportTicket) ([]model.SupportTicket, bool) {
	switch kind {
	case mutationCreate:
		return append([]model.SupportTicket{ticket}, tickets...), true
	case mutationUpdate:
		out := make([]model.SupportTicket, len(tickets))
		found := false
		for i, t := range tickets {
			if t.ID == ticket.ID {
				t = ticket
				found = true
			}
			out[i] = t
		}
		return out, found
	}
	return tickets, false
}

func (s *State) messageID(now time.Time) string {
	return "M-" + strconv.FormatInt(now.UnixMilli(), 10)
}

// CreateTicket opens a support ticket for the logged-in user, seeded with
// a message naming the subject, and returns its id.
func (s *State) CreateTicket(subject string) (string, error) {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return "", ErrEmptyText
	}
	now := s.clk.Now().UTC()

	s.mu.Lock()
	user, err := s.currentUserLocked()
	if err != nil {
		s.mu.Unlock()
		return "", err
	}
	ticket := model.SupportTicket{
		ID:        s.ticketID(),
		UserID:    user.ID,
		Subject:   subject,
		Status:    model.TicketOpen,
		CreatedAt: now.Format(time.RFC3339),
		Messages: []model.TicketMessage{{
			ID:        s.messageID(now),
			SenderID:  user.ID,
			Text:      i18n.TicketSeed(s.lang, subject),
			Timestamp: now.Format(time.RFC3339),
		}},
	}
	s.tickets, _ = reconcileTickets(s.tickets, mutationCreate, ticket)
	s.mu.Unlock()

	s.logger.Info("ticket created", "ticket_id", ticket.ID, "user_id", user.ID)
	s.notify()
	return ticket.ID, nil
}

// SendTicketMessage appends a message from the logged-in user.
func (s *State) SendTicketMessage(ticketID, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyText
	}
	now := s.clk.Now().UTC()

	s.mu.Lock()
	user, err := s.currentUserLocked()
	if err != nil {
		s.mu.Unlock()
		return err
	}
	ticket, ok := s.ticketLocked(ticketID)
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrTicketNotFound, ticketID)
	}
	ticket.Messages = append(append([]model.TicketMessage(nil), ticket.Messages...), model.TicketMessage{
		ID:        s.messageID(now),
		SenderID:  user.ID,
		Text:      text,
		Timestamp: now.Format(time.RFC3339),
	})
	s.tickets, _ = reconcileTickets(s.tickets, mutationUpdate, ticket)
	s.mu.Unlock()

	s.notify()
	return nil
}

// UpdateTicket replaces the ticket with the same id.
func (s *State) UpdateTicket(ticket model.SupportTicket) error {
	s.mu.Lock()
	tickets, found := reconcileTickets(s.tickets, mutationUpdate, ticket)
	if !found {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrTicketNotFound, ticket.ID)
	}
	s.tickets = tickets
	s.mu.Unlock()
	s.notify()
	return nil
}

func (s *State) SetTicketStatus(ticketID string, status model.TicketStatus) error {
	valid := false
	for _, st := range model.TicketStatuses {
		if st == status {
			valid = true
		}
	}
	if !valid {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	s.mu.Lock()
	ticket, ok := s.ticketLocked(ticketID)
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrTicketNotFound, ticketID)
	}
	ticket.Status = status
	return s.UpdateTicket(ticket)
}

// UserTickets lists the tickets opened by the logged-in user.
func (s *State) UserTickets() []model.SupportTicket {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	var out []model.SupportTicket
	for _, t := range s.tickets {
		if t.UserID == s.user.ID {
			out = append(out, t)
		}
	}
	return out
}

func (s *State) ticketLocked(ticketID string) (model.SupportTicket, bool) {
	for _, t := range s.tickets {
		if t.ID == ticketID {
			return t, true
		}
	}
	return model.SupportTicket{}, false
}
