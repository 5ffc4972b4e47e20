package store

import "time"

// PairingRequest is one outstanding request to link a channel identity
// (e.g. a Telegram user id) to an approved, usable session.
type PairingRequest struct {
	Code      string    `json:"code"`
	SenderID  string    `json:"senderId"`
	Channel   string    `json:"channel"`
	ChatID    string    `json:"chatId"`
	Scope     string    `json:"scope,omitempty"` // e.g. "agent", "admin"
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// PairingStore tracks which channel identities are approved to talk to the
// gateway, and the one-time codes used to approve new ones.
type PairingStore interface {
	// IsPaired reports whether senderID on channel is already approved.
	IsPaired(senderID, channel string) bool

	// RequestPairing issues (or re-issues) a pairing code for an
	// unapproved sender, returning the code to relay back to them.
	RequestPairing(senderID, channel, chatID, scope string) (code string, err error)

	// Approve marks code as accepted, pairing its sender, and returns the
	// request it resolved.
	Approve(code string) (*PairingRequest, error)

	// List returns every outstanding (unapproved, unexpired) request.
	List() []PairingRequest

	// Revoke removes a previously approved pairing, e.g. on /unpair.
	Revoke(senderID, channel string) error
}
