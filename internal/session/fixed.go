package session

import "github.com/leemaz/leemaz/pkg/domain"

// Demo account, usable without a reachable backend.
const (
	DemoEmail    = "demo@leemaz.com"
	DemoPassword = "demo123"
	DemoToken    = "demo-token"
	DemoUserID   = "demo-user"
)

// OfflineUserID identifies the placeholder identity used when a stored
// token cannot be validated and no cached identity exists.
const OfflineUserID = "offline-user"

// DemoSession returns the fixed demo identity.
func DemoSession() domain.Session {
	return domain.Session{
		UserID:      DemoUserID,
		Email:       DemoEmail,
		DisplayName: "Demo User",
		Role:        domain.RoleBuyer,
		Language:    domain.LangEnglish,
		Credits:     100,
	}
}

// OfflineSession returns the placeholder identity.
func OfflineSession() domain.Session {
	return domain.Session{
		UserID:      OfflineUserID,
		Email:       "offline@leemaz.com",
		DisplayName: "Offline User",
		Role:        domain.RoleBuyer,
		Language:    domain.LangEnglish,
		Credits:     100,
	}
}
