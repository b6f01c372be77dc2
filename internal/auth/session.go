package auth

// Session is the explicit per-request identity context. It is built by
// the auth middleware from a verified token and injected into services;
// there is no process-wide current user.
type Session struct {
	UserID   string
	Username string
}

// Authenticated reports whether the session carries a resolved identity.
// A nil session counts as anonymous.
func (s *Session) Authenticated() bool {
	return s != nil && s.UserID != ""
}

// Clear drops the identity, returning the session to anonymous. Used on
// logout.
func (s *Session) Clear() {
	if s == nil {
		return
	}
	s.UserID = ""
	s.Username = ""
}
