package session

// Reduce returns the state that follows s under a. Unknown actions leave s
// unchanged.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case LoginStart:
		s.Loading = true
		s.Error = ""
	case LoginSuccess:
		s.User = a.User.Clone()
		s.Token = a.Token
		s.IsAuthenticated = true
		s.Loading = false
		s.Error = ""
	case LoginError:
		s.User = nil
		s.Token = ""
		s.IsAuthenticated = false
		s.Loading = false
		s.Error = a.Message
	case Logout:
		s.User = nil
		s.Token = ""
		s.IsAuthenticated = false
		s.Error = ""
	case ClearError:
		s.Error = ""
	case resolved:
		s.Loading = false
	}
	return s
}
