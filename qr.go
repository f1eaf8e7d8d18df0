package dida

import "encoding/json"

// QRDescriptor describes an issued QR login code: the image URL a user must
// scan, the 16-character key identifying the code upstream, and the opaque
// state parameter the issuance was bound to.
type QRDescriptor struct {
	TypeMeta `json:",inline"`
	URL      string `json:"url"`
	Key      string `json:"key"`
	State    string `json:"state"`
}

func NewQRDescriptor(url, key, state string) QRDescriptor {
	return QRDescriptor{
		TypeMeta: TypeMeta{
			APIVersion: APIVersion,
			Kind:       "QRDescriptor",
		},
		URL:   url,
		Key:   key,
		State: state,
	}
}

// ValidationResult is the outcome of exchanging an authorization code for
// durable upstream credentials (or of a poll loop that never got that far).
type ValidationResult struct {
	TypeMeta  `json:",inline"`
	Success   bool              `json:"success"`
	Message   string            `json:"message,omitempty"`
	Token     string            `json:"token,omitempty"`
	SessionID string            `json:"sessionID,omitempty"`
	UserInfo  json.RawMessage   `json:"userInfo,omitempty"`
	Cookies   map[string]string `json:"-"`
}

func NewValidationResult(success bool, message string) ValidationResult {
	return ValidationResult{
		TypeMeta: TypeMeta{
			APIVersion: APIVersion,
			Kind:       "ValidationResult",
		},
		Success: success,
		Message: message,
	}
}
