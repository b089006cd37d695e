package domain

import "time"

// Shop is a seller's storefront.
type Shop struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	OwnerID     string    `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
	IsActive    bool      `json:"is_active"`
}

// UnmarshalJSON accepts both "id" and "_id".
func (s *Shop) UnmarshalJSON(data []byte) error {
	type alias Shop
	return unmarshalWithLegacyID(data, (*alias)(s), &s.ID)
}

// Product categories offered by the marketplace.
var Categories = []string{
	"clothing",
	"jewelry",
	"perfumes",
	"herbal",
	"handicrafts",
	"food",
}

// ValidCategory returns true if c is a known category.
func ValidCategory(c string) bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}
