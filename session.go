package dida

import (
	"time"

	uuid "github.com/satori/go.uuid"
)

// Session is the durable record of one set of upstream authentication
// material. The most-recently-updated active session is the one used for all
// outbound upstream calls. Creating a new session does not deactivate older
// ones; "current" is defined purely by recency.
type Session struct {
	ID          string            `json:"id" bson:"id"`
	UserID      string            `json:"userID,omitempty" bson:"userID,omitempty"`
	AuthToken   string            `json:"-" bson:"authToken"`
	CSRFToken   string            `json:"-" bson:"csrfToken"`
	Cookies     map[string]string `json:"-" bson:"cookies,omitempty"`
	Created     time.Time         `json:"created" bson:"created"`
	LastUpdated time.Time         `json:"lastUpdated" bson:"lastUpdated"`
	Expires     *time.Time        `json:"expires,omitempty" bson:"expires,omitempty"`
	Active      bool              `json:"active" bson:"active"`
}

// NewSession returns a new active Session wrapping the given upstream
// credentials.
func NewSession(
	authToken string,
	csrfToken string,
	cookies map[string]string,
) Session {
	now := time.Now()
	return Session{
		ID:          uuid.NewV4().String(),
		AuthToken:   authToken,
		CSRFToken:   csrfToken,
		Cookies:     cookies,
		Created:     now,
		LastUpdated: now,
		Active:      true,
	}
}

// SessionStatus summarizes whether an upstream session is currently loaded.
type SessionStatus struct {
	TypeMeta   `json:",inline"`
	HasSession bool   `json:"hasSession"`
	SessionID  string `json:"sessionID,omitempty"`
	Active     bool   `json:"active"`
}

func NewSessionStatus(hasSession bool, sessionID string, active bool) SessionStatus {
	return SessionStatus{
		TypeMeta: TypeMeta{
			APIVersion: APIVersion,
			Kind:       "SessionStatus",
		},
		HasSession: hasSession,
		SessionID:  sessionID,
		Active:     active,
	}
}
