package domain

import "time"

// DashboardStats is the response of GET /admin/dashboard.
type DashboardStats struct {
	Users struct {
		Total   int `json:"total"`
		Buyers  int `json:"buyers"`
		Sellers int `json:"sellers"`
	} `json:"users"`
	Shops struct {
		Total    int `json:"total"`
		Pending  int `json:"pending"`
		Approved int `json:"approved"`
	} `json:"shops"`
	Products struct {
		Total  int `json:"total"`
		Active int `json:"active"`
	} `json:"products"`
	Reviews int `json:"reviews"`
}

// Shop review filters.
const (
	ShopsPending  = "pending"
	ShopsApproved = "approved"
	ShopsRejected = "rejected"
)

// ShopReviewFilters is the cycle order of the admin shop filter.
var ShopReviewFilters = []string{ShopsPending, ShopsApproved, ShopsRejected}

// AdminShop is a shop as listed for moderation, with its owner.
type AdminShop struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	OwnerName   string    `json:"owner_name"`
	OwnerEmail  string    `json:"owner_email"`
	CreatedAt   time.Time `json:"created_at"`
	IsApproved  bool      `json:"is_approved"`
	IsActive    bool      `json:"is_active"`
}

// UnmarshalJSON accepts both "id" and "_id".
func (s *AdminShop) UnmarshalJSON(data []byte) error {
	type alias AdminShop
	return unmarshalWithLegacyID(data, (*alias)(s), &s.ID)
}

// SystemSettings are the marketplace-wide knobs an admin can change.
type SystemSettings struct {
	ProductListingCost   int     `json:"product_listing_cost"`
	InitialUserCredits   int     `json:"initial_user_credits"`
	ShopApprovalRequired bool    `json:"shop_approval_required"`
	PaymentMethod        string  `json:"payment_method"`
	PlatformCommission   float64 `json:"platform_commission"`
}
