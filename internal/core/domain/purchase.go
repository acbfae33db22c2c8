// Package domain defines the core domain models for Stallgate.
package domain

import "time"

// Purchase is one append-only ledger entry recording a successful stock
// decrement. IDs are monotonic across the ledger.
type Purchase struct {
	ID        int64   `json:"id"`
	BuyerID   int64   `json:"buyer_id"`
	Key       ItemKey `json:"key"`
	Quantity  int64   `json:"quantity"`
	CreatedAt int64   `json:"created_at"`
}

// Validate validates the purchase fields.
func (p *Purchase) Validate() error {
	if p.Quantity <= 0 {
		return ErrPurchaseValidation.WithDetails("quantity must be positive")
	}
	return nil
}

// CreatedAtTime returns CreatedAt as time.Time.
func (p *Purchase) CreatedAtTime() time.Time {
	return time.UnixMilli(p.CreatedAt)
}

// PaymentCard carries the card details handed to the payment approver.
// The core never stores these; they pass through to the external stub.
type PaymentCard struct {
	HolderName   string `json:"holder_name"`
	Number       string `json:"number"`
	Expiration   string `json:"expiration"`
	SecurityCode string `json:"security_code"`
}
