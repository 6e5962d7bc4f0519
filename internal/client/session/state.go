package session

import "github.com/rankrocket/rankrocket-cli/internal/client/models"

// State is the authentication session as seen by the rest of the client.
type State struct {
	User            *models.UserProfile
	Token           string
	IsAuthenticated bool
	Loading         bool
	Error           string
}

// Initial is the state of a freshly started client: persisted credentials
// have not been examined yet.
func Initial() State {
	return State{Loading: true}
}

func (s State) clone() State {
	s.User = s.User.Clone()
	return s
}
