package domain

import "time"

// Product is a listed item.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Category    string    `json:"category"`
	Images      []string  `json:"images,omitempty"` // base64 encoded
	ShopID      string    `json:"shop_id"`
	SellerID    string    `json:"seller_id"`
	CreatedAt   time.Time `json:"created_at"`
	IsActive    bool      `json:"is_active"`
	Rating      float64   `json:"rating"`
	ReviewCount int       `json:"review_count"`
}

// UnmarshalJSON accepts both "id" and "_id".
func (p *Product) UnmarshalJSON(data []byte) error {
	type alias Product
	return unmarshalWithLegacyID(data, (*alias)(p), &p.ID)
}

// Review is a buyer's rating of a product.
type Review struct {
	ID        string    `json:"id"`
	ProductID string    `json:"product_id"`
	BuyerID   string    `json:"buyer_id"`
	Rating    int       `json:"rating"` // 1-5
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// UnmarshalJSON accepts both "id" and "_id".
func (r *Review) UnmarshalJSON(data []byte) error {
	type alias Review
	return unmarshalWithLegacyID(data, (*alias)(r), &r.ID)
}

// ValidRating returns true if n is within the 1-5 star range.
func ValidRating(n int) bool {
	return n >= 1 && n <= 5
}
