package app

import (
	"strconv"
	"strings"
	"time"

	"github.com/jefersongoes36-cmd/DigitalNexusSolutions/internal/model"
)

// SendChatMessage appends a message from the logged-in user and hands it
// to the relay when one is attached. A relay failure is logged; the message
// stays in the local history.
func (s *State) SendChatMessage(text string) (model.ChatMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return model.ChatMessage{}, ErrEmptyText
	}
	now := s.clk.Now().UTC()

	s.mu.Lock()
	user, err := s.currentUserLocked()
	if err != nil {
		s.mu.Unlock()
		return model.ChatMessage{}, err
	}
	message := model.ChatMessage{
		ID:               strconv.FormatInt(now.UnixMilli(), 10),
		UserID:           user.ID,
		Text:             text,
		Timestamp:        now.Format(time.RFC3339),
		OriginalLanguage: s.lang,
	}
	s.messages = append(s.messages, message)
	relay := s.relay
	s.mu.Unlock()

	if relay != nil {
		if err := relay.Send(message); err != nil {
			s.logger.Warn("chat relay send failed", "message_id", message.ID, "error", err)
		}
	}
	s.notify()
	return message, nil
}

// ReceiveChatMessage appends a relayed message unless one with the same id
// is already present, which is the case for the sender's own echo.
func (s *State) ReceiveChatMessage(message model.ChatMessage) {
	s.mu.Lock()
	for _, m := range s.messages {
		if m.ID == message.ID && m.UserID == message.UserID {
			s.mu.Unlock()
			return
		}
	}
	s.messages = append(s.messages, message)
	s.mu.Unlock()
	s.notify()
}
