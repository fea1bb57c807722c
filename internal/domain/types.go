package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Money goes over the wire as JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

type SessionStatus string

const (
	SessionOpen      SessionStatus = "OPEN"
	SessionFull      SessionStatus = "FULL"
	SessionCancelled SessionStatus = "CANCELLED"
	SessionCompleted SessionStatus = "COMPLETED"
)

type Court struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	ImageURL    string          `json:"imageUrl"`
	HourlyRate  decimal.Decimal `json:"hourlyRate"`
	IsIndoor    bool            `json:"isIndoor"`
	Surface     string          `json:"surface"`
	Location    string          `json:"location"`
}

type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Image string `json:"image,omitempty"`
}

type Participant struct {
	ID       string `json:"id"`
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
	HasPaid  bool   `json:"hasPaid"`
}

type Session struct {
	ID           string          `json:"id"`
	CourtID      string          `json:"courtId"`
	Court        *Court          `json:"court,omitempty"`
	CreatorID    string          `json:"creatorId"`
	Creator      *User           `json:"creator"`
	StartTime    time.Time       `json:"startTime"`
	EndTime      time.Time       `json:"endTime"`
	TotalCost    decimal.Decimal `json:"totalCost"`
	MaxPlayers   int             `json:"maxPlayers"`
	Description  string          `json:"description"`
	Status       SessionStatus   `json:"status"`
	Participants []Participant   `json:"participants"`
}

// Clone returns a deep copy that shares no memory with s.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}

	cp := *s

	if s.Court != nil {
		c := *s.Court
		cp.Court = &c
	}

	if s.Creator != nil {
		u := *s.Creator
		cp.Creator = &u
	}

	cp.Participants = make([]Participant, len(s.Participants))
	copy(cp.Participants, s.Participants)

	return &cp
}

// HasUser reports whether userID is already enrolled.
func (s *Session) HasUser(userID string) bool {
	for _, p := range s.Participants {
		if p.UserID == userID {
			return true
		}
	}
	return false
}

// ParticipantIndex returns the index of the participant with the given id, or -1.
func (s *Session) ParticipantIndex(participantID string) int {
	for i, p := range s.Participants {
		if p.ID == participantID {
			return i
		}
	}
	return -1
}

func (s *Session) AvailableSpots() int {
	n := s.MaxPlayers - len(s.Participants)
	if n < 0 {
		return 0
	}
	return n
}

// CostPerPlayer splits TotalCost across current participants, rounded to cents.
func (s *Session) CostPerPlayer() decimal.Decimal {
	n := len(s.Participants)
	if n < 1 {
		n = 1
	}
	return s.TotalCost.Div(decimal.NewFromInt(int64(n))).Round(2)
}

type AuthSession struct {
	User    User      `json:"user"`
	Expires time.Time `json:"expires"`
	Token   string    `json:"token,omitempty"`
}

type PaymentIntent struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	ClientSecret string `json:"clientSecret"`
}

type Quote struct {
	CourtID   string          `json:"courtId"`
	Hours     decimal.Decimal `json:"hours"`
	TotalCost decimal.Decimal `json:"totalCost"`
}
