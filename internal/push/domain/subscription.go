package domain

import "time"

// Subscription mirrors the browser PushSubscription object: an opaque
// delivery endpoint plus the client key material the push service needs
// to encrypt payloads. The endpoint is globally unique and serves as the
// natural key.
type Subscription struct {
	Endpoint  string
	UserID    string
	P256dh    string
	Auth      string
	ExpiresAt *time.Time
	CreatedAt time.Time
}

// Keys is the nested "keys" object of the subscription JSON.
type Keys struct {
	P256dh string `json:"p256dh"`
	Auth   string `json:"auth"`
}
