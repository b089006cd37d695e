package domain

import (
	"errors"
	"fmt"
)

// ErrIncompleteSession is returned by Session.Validate for partially populated sessions.
var ErrIncompleteSession = errors.New("incomplete session")

// Session is the identity of the signed-in user as held by the client.
// A Session is either absent or fully populated; Validate enforces the latter.
type Session struct {
	UserID      string   `json:"user_id"`
	Email       string   `json:"email"`
	DisplayName string   `json:"display_name"`
	Role        Role     `json:"role"`
	Language    Language `json:"language"`
	Credits     int      `json:"credits"`
}

// SessionFromUser maps a backend user record onto a Session.
// An unset language defaults to English.
func SessionFromUser(u *User) Session {
	lang := u.Language
	if lang == "" {
		lang = LangEnglish
	}
	return Session{
		UserID:      u.ID,
		Email:       u.Email,
		DisplayName: u.FullName,
		Role:        u.UserType,
		Language:    lang,
		Credits:     u.Credits,
	}
}

// Validate returns ErrIncompleteSession if any attribute is missing or out of range.
func (s Session) Validate() error {
	switch {
	case s.UserID == "":
		return fmt.Errorf("%w: missing user id", ErrIncompleteSession)
	case s.Email == "":
		return fmt.Errorf("%w: missing email", ErrIncompleteSession)
	case s.DisplayName == "":
		return fmt.Errorf("%w: missing display name", ErrIncompleteSession)
	case !s.Role.Valid():
		return fmt.Errorf("%w: invalid role %q", ErrIncompleteSession, s.Role)
	case !s.Language.Valid():
		return fmt.Errorf("%w: invalid language %q", ErrIncompleteSession, s.Language)
	case s.Credits < 0:
		return fmt.Errorf("%w: negative credits", ErrIncompleteSession)
	}
	return nil
}

// IsBuyer reports whether the session belongs to a buyer account.
func (s Session) IsBuyer() bool { return s.Role == RoleBuyer }

// IsSeller reports whether the session belongs to a seller account.
func (s Session) IsSeller() bool { return s.Role == RoleSeller }
