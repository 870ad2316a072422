package dto

import (
	"time"

	domainpayment "resort/internal/domain/payment"
)

type Payment struct {
	ID          int64      `json:"id"`
	BookingID   int64      `json:"booking_id"`
	Amount      string     `json:"amount"`
	Currency    string     `json:"currency"`
	Method      string     `json:"method"`
	Status      string     `json:"status"`
	ReferenceID string     `json:"reference_id,omitempty"`
	PaidAt      *time.Time `json:"paid_at"`
	CreatedAt   time.Time  `json:"created_at"`
}

func MapPayment(p *domainpayment.Payment) Payment {
	if p == nil {
		return Payment{}
	}
	return Payment{
		ID:          int64(p.ID),
		BookingID:   int64(p.BookingID),
		Amount:      formatMoney(p.Amount),
		Currency:    p.Amount.Currency,
		Method:      p.Method,
		Status:      string(p.Status),
		ReferenceID: p.ReferenceID,
		PaidAt:      p.PaidAt,
		CreatedAt:   p.CreatedAt,
	}
}

func MapPayments(in []*domainpayment.Payment) Collection[Payment] {
	return collect(in, MapPayment)
}
