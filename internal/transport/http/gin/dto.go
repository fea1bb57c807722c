package httpgin

import (
	"time"

	"github.com/kirinyoku/courtgo/internal/domain"
	"github.com/shopspring/decimal"
)

type CreateSessionRequest struct {
	CourtID     string          `json:"courtId"`
	StartTime   time.Time       `json:"startTime"`
	EndTime     time.Time       `json:"endTime"`
	TotalCost   decimal.Decimal `json:"totalCost" swaggertype:"number"`
	MaxPlayers  int             `json:"maxPlayers"`
	Description string          `json:"description"`
}

type JoinSessionRequest struct {
	SessionID string `json:"sessionId"`
}

type PaymentRequest struct {
	ParticipantID string `json:"participantId"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type JoinSessionResponse struct {
	ParticipantID string `json:"participantId"`
}

// SessionResponse is a session snapshot plus the figures derived from it.
type SessionResponse struct {
	domain.Session
	CostPerPlayer  decimal.Decimal `json:"costPerPlayer" swaggertype:"number"`
	AvailableSpots int             `json:"availableSpots"`
}

type ConfirmPaymentResponse struct {
	Success     bool               `json:"success"`
	Participant domain.Participant `json:"participant"`
	Session     SessionResponse    `json:"session"`
}

type AuthSessionResponse struct {
	Session domain.AuthSession `json:"session"`
}

func newSessionResponse(s domain.Session) SessionResponse {
	return SessionResponse{
		Session:        s,
		CostPerPlayer:  s.CostPerPlayer(),
		AvailableSpots: s.AvailableSpots(),
	}
}

func newSessionResponses(list []domain.Session) []SessionResponse {
	out := make([]SessionResponse, 0, len(list))
	for _, s := range list {
		out = append(out, newSessionResponse(s))
	}
	return out
}

func parseRFC3339(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}
