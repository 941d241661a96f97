// Package identity describes who is acting on a request: an anonymous
// session or an authenticated user.
package identity

import (
	"github.com/google/uuid"
)

type Kind string

const (
	KindGuest Kind = "guest"
	KindUser  Kind = "user"
)

type Actor struct {
	Kind      Kind
	SessionID string
	UserID    uuid.UUID
	Role      string
}

func Guest(sessionID string) Actor {
	return Actor{Kind: KindGuest, SessionID: sessionID}
}

// User keeps the session id alongside the user so a guest cart started in the
// same browser can still be found and merged.
func User(userID uuid.UUID, sessionID, role string) Actor {
	return Actor{Kind: KindUser, UserID: userID, SessionID: sessionID, Role: role}
}

func (a Actor) IsUser() bool {
	return a.Kind == KindUser && a.UserID != uuid.Nil
}

// OwnerKey is the key the actor's cart is stored under.
func (a Actor) OwnerKey() string {
	if a.IsUser() {
		return a.UserID.String()
	}
	return a.SessionID
}
