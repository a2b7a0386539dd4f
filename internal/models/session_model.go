package models

// Session is the authenticated identity of a user, derived from the auth
// provider on sign-in/up and replayed on every request via the session
// cookie (or a Firebase ID token). It is replaced wholesale on every
// auth-state change and never partially mutated.
type Session struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

// Authenticated reports whether the session identifies a signed-in user.
func (s *Session) Authenticated() bool {
	return s != nil && s.UserID != ""
}
