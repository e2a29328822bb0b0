package domain

// States of a checkout intent. An intent stuck in processing marks a crash
// mid-checkout; the row is released when the surrounding transaction rolls
// back, so a retry is possible.
const (
	IntentProcessing = "processing"
	IntentCompleted  = "completed"
)

// CheckoutIntent is the server-side duplicate-submission guard: one row per
// idempotency key, unique at the storage layer.
type CheckoutIntent struct {
	Key     string `db:"key"`
	Status  string `db:"status"`
	OrderID *int64 `db:"order_id"`
}
