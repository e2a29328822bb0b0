package domain

import "math"

const taxRate = 0.05

type CartItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int32   `json:"quantity"`
}

type PriceBreakdown struct {
	Subtotal float64 `json:"subtotal"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
}

// Totals prices a cart: flat 5% tax on the subtotal. Every figure is rounded
// half-up to cents here, before anything is persisted or displayed.
func Totals(items []CartItem) PriceBreakdown {
	var subtotal float64
	for _, item := range items {
		subtotal += item.Price * float64(item.Quantity)
	}

	subtotal = round2(subtotal)
	tax := round2(subtotal * taxRate)

	return PriceBreakdown{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    round2(subtotal + tax),
	}
}

func round2(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}
