package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"
)

type OrderStatus string

const (
	OrderStatusPlaced         OrderStatus = "Order Placed"
	OrderStatusPreparing      OrderStatus = "Preparing"
	OrderStatusPacking        OrderStatus = "Packing"
	OrderStatusDispatched     OrderStatus = "Dispatched"
	OrderStatusOutForDelivery OrderStatus = "Out for Delivery"
	OrderStatusDelivered      OrderStatus = "Delivered"
	OrderStatusCancelled      OrderStatus = "Cancelled"
)

// OrderStatuses is the closed set of states an order may be in. Writes
// outside this set are rejected at the service boundary, the column itself
// carries a matching CHECK constraint.
var OrderStatuses = []OrderStatus{
	OrderStatusPlaced,
	OrderStatusPreparing,
	OrderStatusPacking,
	OrderStatusDispatched,
	OrderStatusOutForDelivery,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

func ParseOrderStatus(s string) (OrderStatus, error) {
	for _, status := range OrderStatuses {
		if string(status) == s {
			return status, nil
		}
	}

	return "", fmt.Errorf("unknown order status %q", s)
}

type Order struct {
	ID        int64       `json:"id" db:"id"`
	Reference string      `json:"reference" db:"reference"`
	UserID    int64       `json:"userId" db:"user_id"`
	UserEmail string      `json:"userEmail" db:"user_email"`
	Customer  Customer    `json:"customer" db:"-"`
	Items     []OrderItem `json:"items" db:"-"`
	Subtotal  float64     `json:"subtotal" db:"subtotal"`
	Tax       float64     `json:"tax" db:"tax"`
	Total     float64     `json:"total" db:"total"`
	Status    OrderStatus `json:"status" db:"status"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

type OrderItem struct {
	ID       int64   `json:"-" db:"id"`
	OrderID  int64   `json:"-" db:"order_id"`
	ItemID   string  `json:"itemId" db:"item_id"`
	Name     string  `json:"name" db:"name"`
	Price    float64 `json:"price" db:"price"`
	Quantity int32   `json:"quantity" db:"quantity"`
}

type Customer struct {
	FirstName    string `db:"first_name" json:"firstName"`
	LastName     string `db:"last_name" json:"lastName"`
	AddressLine1 string `db:"address_line1" json:"addressLine1"`
	AddressLine2 string `db:"address_line2" json:"addressLine2,omitempty"`
	City         string `db:"city" json:"city"`
	Zipcode      string `db:"zipcode" json:"zipcode"`
	Phone        string `db:"phone" json:"phone"`
	Email        string `db:"email" json:"email"`
}

// NewOrderReference draws an 8-digit display reference. It is shown to the
// customer and printed on packing slips, not used as a key, so the small
// collision probability is tolerated.
func NewOrderReference() string {
	return fmt.Sprintf("%d", 10000000+rand.Intn(90000000))
}

// CheckoutKey derives the idempotency key for one checkout intent: the same
// user submitting the same cart maps to the same key, which the orders
// storage enforces as unique.
func CheckoutKey(userID int64, items []CartItem) string {
	snapshot, _ := json.Marshal(items)
	sum := sha256.Sum256([]byte(fmt.Sprintf("order_%d_%d_%s", userID, len(items), snapshot)))

	return hex.EncodeToString(sum[:])
}
