package model

// SessionMode distinguishes logged-in users from guests. Unauthenticated is
// the zero value and means no session was resolved at all.
type SessionMode string

const (
	ModeUnauthenticated SessionMode = ""
	ModeGuest           SessionMode = "guest"
	ModeAuthenticated   SessionMode = "authenticated"
)

// Session is the resolved identity for one request. The vibe core only reads
// UserID as an opaque key when requesting persistence; everything else is for
// the HTTP layer.
type Session struct {
	Mode   SessionMode
	UserID string
	Email  string
}

// IsAuthenticated reports whether the session carries a persisted identity.
func (s Session) IsAuthenticated() bool {
	return s.Mode == ModeAuthenticated && s.UserID != ""
}

// GuestSession returns a session with no persisted identity. Generation works
// but history is unavailable.
func GuestSession() Session {
	return Session{Mode: ModeGuest}
}
