// Package session holds the authenticated identity of the client process.
package session

import "github.com/trezcool/classdesk/core/user"

// Session is the client-held proof of authentication.
type Session struct {
	User  user.User `json:"user"`
	Token string    `json:"token"`
}

// Valid reports whether the session is fully populated. Partial sessions are never persisted.
func (s Session) Valid() bool {
	return s.Token != "" && s.User.ID != "" && s.User.Role.IsValid()
}
