package dida

import (
	"time"

	uuid "github.com/satori/go.uuid"
)

// LoginAttemptStatus represents where a QR issuance/validation cycle ended
// up.
type LoginAttemptStatus string

const (
	// LoginAttemptPending represents a QR code that has been issued but not
	// yet validated.
	LoginAttemptPending LoginAttemptStatus = "pending"
	// LoginAttemptSuccess represents a completed, successful validation.
	LoginAttemptSuccess LoginAttemptStatus = "success"
	// LoginAttemptFailed represents a validation that did not succeed.
	LoginAttemptFailed LoginAttemptStatus = "failed"
)

// LoginAttempt is an append-only audit record of one QR issuance/validation
// cycle. It is written by the login flow and never read back by it.
type LoginAttempt struct {
	ID             string             `json:"id" bson:"id"`
	QRKey          string             `json:"qrKey" bson:"qrKey"`
	ValidationCode string             `json:"validationCode,omitempty" bson:"validationCode,omitempty"`
	State          string             `json:"state,omitempty" bson:"state,omitempty"`
	Status         LoginAttemptStatus `json:"status" bson:"status"`
	Response       string             `json:"response,omitempty" bson:"response,omitempty"`
	Created        time.Time          `json:"created" bson:"created"`
}

// NewLoginAttempt returns a LoginAttempt for a freshly issued QR code.
func NewLoginAttempt(qrKey, state string) LoginAttempt {
	return LoginAttempt{
		ID:      uuid.NewV4().String(),
		QRKey:   qrKey,
		State:   state,
		Status:  LoginAttemptPending,
		Created: time.Now(),
	}
}
