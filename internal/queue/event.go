// Package queue defines message payloads exchanged over the message broker
// and the background consumer that turns registration events into
// activation emails.
package queue

// UserRegisteredQueue is the durable queue carrying registration events.
const UserRegisteredQueue = "user.registered"

// UserRegisteredEvent is published when a new account is created.  It
// contains everything the email consumer needs, so sending never has to
// query the primary database.
type UserRegisteredEvent struct {
	UserID         uint64 `json:"user_id"`
	Username       string `json:"username"`
	Email          string `json:"email"`
	ActivationLink string `json:"activation_link"`
	RegisteredAt   string `json:"registered_at"`
}
