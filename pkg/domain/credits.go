package domain

import "time"

// CreditBalance is the response of GET /credits/balance.
type CreditBalance struct {
	Credits int `json:"credits"`
}

// CreditTransaction is one credit ledger entry.
type CreditTransaction struct {
	ID          string    `json:"id"`
	Amount      int       `json:"amount"`
	Type        string    `json:"type"` // e.g. "admin_add"
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// UnmarshalJSON accepts both "id" and "_id".
func (t *CreditTransaction) UnmarshalJSON(data []byte) error {
	type alias CreditTransaction
	return unmarshalWithLegacyID(data, (*alias)(t), &t.ID)
}

// ListingCost is the number of credits deducted for listing a product.
const ListingCost = 50

// VerificationBonus is granted when a new account verifies its email.
const VerificationBonus = 100
