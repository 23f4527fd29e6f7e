package model

import "time"

type Role string

const (
	RoleEmployee Role = "employee"
	RoleSupport  Role = "support"
	RoleMaster   Role = "master"
	// RoleAdmin is an alias some clients send for RoleMaster.
	RoleAdmin Role = "admin"
)

// IsMaster reports whether the role has the administrator view.
func (r Role) IsMaster() bool {
	return r == RoleMaster || r == RoleAdmin
}

type Language string

const (
	LanguagePT Language = "pt"
	LanguageEN Language = "en"
	LanguageES Language = "es"
	LanguageFR Language = "fr"
)

var SupportedLanguages = []Language{LanguagePT, LanguageEN, LanguageES, LanguageFR}

func (l Language) Supported() bool {
	for _, lang := range SupportedLanguages {
		if lang == l {
			return true
		}
	}
	return false
}

const (
	DefaultCurrency   = "EUR"
	DefaultCountry    = "PT"
	DefaultLanguage   = LanguagePT
	DefaultHourlyRate = 0.0
	DefaultPlan       = "free"
)

type User struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Username   string   `json:"username"`
	Password   string   `json:"password"`
	Role       Role     `json:"role"`
	Currency   string   `json:"currency"`
	Country    string   `json:"country"`
	Language   Language `json:"language"`
	HourlyRate float64  `json:"hourlyRate"`
	IsActive   bool     `json:"isActive"`
}

// Registration is the public sign-up record. It is kept apart from User:
// the two shapes share no required fields.
type Registration struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Plan      string    `json:"plan"`
	CreatedAt time.Time `json:"createdAt"`
}

type TimeRecord struct {
	UserID   string  `json:"userId"`
	Date     string  `json:"date"`
	ClockIn  string  `json:"clockIn"`
	ClockOut string  `json:"clockOut,omitempty"`
	Hours    float64 `json:"hours"`
	Notes    string  `json:"notes,omitempty"`
}

type TicketStatus string

const (
	TicketOpen       TicketStatus = "open"
	TicketInProgress TicketStatus = "in_progress"
	TicketResolved   TicketStatus = "resolved"
	TicketClosed     TicketStatus = "closed"
)

var TicketStatuses = []TicketStatus{TicketOpen, TicketInProgress, TicketResolved, TicketClosed}

type TicketMessage struct {
	ID        string `json:"id"`
	SenderID  string `json:"senderId"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
}

type SupportTicket struct {
	ID        string          `json:"id"`
	UserID    string          `json:"userId"`
	Subject   string          `json:"subject"`
	Status    TicketStatus    `json:"status"`
	CreatedAt string          `json:"createdAt"`
	Messages  []TicketMessage `json:"messages"`
}

type ChatMessage struct {
	ID               string   `json:"id"`
	UserID           string   `json:"userId"`
	Text             string   `json:"text"`
	Timestamp        string   `json:"timestamp"`
	OriginalLanguage Language `json:"originalLanguage"`
}
