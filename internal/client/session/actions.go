package session

import "github.com/rankrocket/rankrocket-cli/internal/client/models"

// Action is a session transition. The set is closed.
type Action interface {
	isAction()
}

// LoginStart marks an authentication attempt in flight.
type LoginStart struct{}

// LoginSuccess installs an authenticated identity.
type LoginSuccess struct {
	User  *models.UserProfile
	Token string
}

// LoginError ends an attempt in failure and drops any identity.
type LoginError struct {
	Message string
}

// Logout drops the identity. Loading is left as is.
type Logout struct{}

// ClearError dismisses the last error message.
type ClearError struct{}

// resolved ends startup hydration when no stored session was found.
type resolved struct{}

func (LoginStart) isAction()   {}
func (LoginSuccess) isAction() {}
func (LoginError) isAction()   {}
func (Logout) isAction()       {}
func (ClearError) isAction()   {}
func (resolved) isAction()     {}
