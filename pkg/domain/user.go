package domain

import (
	"encoding/json"
	"time"
)

// Role is a Leemaz account type.
type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
	RoleAdmin  Role = "admin"
)

// Valid returns true if r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleBuyer, RoleSeller, RoleAdmin:
		return true
	}
	return false
}

// Language is a two-letter UI language code.
type Language string

const (
	LangEnglish Language = "en"
	LangArabic  Language = "ar"
)

// Valid returns true if l is a supported language.
func (l Language) Valid() bool {
	return l == LangEnglish || l == LangArabic
}

// RTL reports whether the language is written right-to-left.
func (l Language) RTL() bool {
	return l == LangArabic
}

// User is the account record returned by GET /auth/me.
type User struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	FullName   string    `json:"full_name"`
	UserType   Role      `json:"user_type"`
	Language   Language  `json:"language"`
	IsVerified bool      `json:"is_verified"`
	Credits    int       `json:"credits"`
	CreatedAt  time.Time `json:"created_at"`
	IsActive   bool      `json:"is_active"`
}

// UnmarshalJSON accepts both "id" and the backend's "_id" alias.
func (u *User) UnmarshalJSON(data []byte) error {
	type alias User
	return unmarshalWithLegacyID(data, (*alias)(u), &u.ID)
}

// unmarshalWithLegacyID decodes data into v, then fills *id from the
// Mongo-style "_id" field when "id" was absent.
func unmarshalWithLegacyID(data []byte, v any, id *string) error {
	if err := json.Unmarshal(data, v); err != nil {
		return err
	}
	if *id != "" {
		return nil
	}
	var legacy struct {
		ID string `json:"_id"`
	}
	if err := json.Unmarshal(data, &legacy); err != nil {
		return err
	}
	*id = legacy.ID
	return nil
}
