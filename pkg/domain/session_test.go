package domain

import (
	"errors"
	"testing"
)

func validSession() Session {
	return Session{
		UserID:      "u1",
		Email:       "buyer@leemaz.com",
		DisplayName: "Sarah Ahmed",
		Role:        RoleBuyer,
		Language:    LangEnglish,
		Credits:     150,
	}
}

func TestSessionValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Session)
		ok     bool
	}{
		{"complete", func(*Session) {}, true},
		{"zero credits", func(s *Session) { s.Credits = 0 }, true},
		{"missing id", func(s *Session) { s.UserID = "" }, false},
		{"missing email", func(s *Session) { s.Email = "" }, false},
		{"missing name", func(s *Session) { s.DisplayName = "" }, false},
		{"bad role", func(s *Session) { s.Role = "guest" }, false},
		{"bad language", func(s *Session) { s.Language = "fr" }, false},
		{"negative credits", func(s *Session) { s.Credits = -1 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSession()
			tt.mutate(&s)
			err := s.Validate()
			if tt.ok && err != nil {
				t.Errorf("Validate() error: %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrIncompleteSession) {
				t.Errorf("Validate() = %v, want ErrIncompleteSession", err)
			}
		})
	}
}

func TestSessionFromUser(t *testing.T) {
	u := &User{ID: "u9", Email: "s@leemaz.com", FullName: "Fatima", UserType: RoleSeller, Credits: 75}
	s := SessionFromUser(u)
	if s.UserID != "u9" || s.DisplayName != "Fatima" || s.Role != RoleSeller || s.Credits != 75 {
		t.Errorf("unexpected session: %+v", s)
	}
	if s.Language != LangEnglish {
		t.Errorf("Language = %q, want default %q", s.Language, LangEnglish)
	}
	if !s.IsSeller() || s.IsBuyer() {
		t.Error("role helpers disagree with Role")
	}
}
