package domain

import "time"

// OrderStatus is the fulfilment state of an order.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderConfirmed OrderStatus = "confirmed"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

// Valid returns true if s is a known status.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderConfirmed, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

// PaymentCash is cash on delivery, the only payment method.
const PaymentCash = "cash"

// Order is a buyer's purchase of one product.
type Order struct {
	ID              string      `json:"id"`
	ProductID       string      `json:"product_id"`
	ProductName     string      `json:"product_name"`
	BuyerID         string      `json:"buyer_id"`
	SellerID        string      `json:"seller_id"`
	Quantity        int         `json:"quantity"`
	TotalAmount     float64     `json:"total_amount"`
	Status          OrderStatus `json:"status"`
	DeliveryAddress string      `json:"delivery_address"`
	PhoneNumber     string      `json:"phone_number"`
	PaymentMethod   string      `json:"payment_method"`
	CreatedAt       time.Time   `json:"created_at"`
}

// UnmarshalJSON accepts both "id" and "_id".
func (o *Order) UnmarshalJSON(data []byte) error {
	type alias Order
	return unmarshalWithLegacyID(data, (*alias)(o), &o.ID)
}

// OrderTransitions returns the statuses role may move an order in status
// to. Sellers confirm, cancel and deliver; buyers may only cancel a
// pending order.
func OrderTransitions(role Role, status OrderStatus) []OrderStatus {
	switch role {
	case RoleSeller:
		switch status {
		case OrderPending:
			return []OrderStatus{OrderConfirmed, OrderCancelled}
		case OrderConfirmed:
			return []OrderStatus{OrderDelivered}
		}
	case RoleBuyer:
		if status == OrderPending {
			return []OrderStatus{OrderCancelled}
		}
	}
	return nil
}

// CanTransition reports whether role may move an order from one status to another.
func CanTransition(role Role, from, to OrderStatus) bool {
	for _, s := range OrderTransitions(role, from) {
		if s == to {
			return true
		}
	}
	return false
}
