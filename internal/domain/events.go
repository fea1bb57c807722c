package domain

import "time"

// SessionChanged is fanned out whenever a session is created or mutated.
type SessionChanged struct {
	Type      string        `json:"type"`
	SessionID string        `json:"sessionId"`
	Status    SessionStatus `json:"status"`
	TsUnix    int64         `json:"tsUnix"`
}

func NewSessionChanged(sessionID string, status SessionStatus) SessionChanged {
	return SessionChanged{
		Type:      "session_changed",
		SessionID: sessionID,
		Status:    status,
		TsUnix:    time.Now().Unix(),
	}
}
