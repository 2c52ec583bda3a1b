package repository

import (
	"context"
	"time"

	"freight/internal/domain"
)

// PaymentFilter narrows the payment listing. Zero values mean "no filter".
// DateFrom/DateTo are half-open bounds: PaidAt >= DateFrom and PaidAt < DateTo.
type PaymentFilter struct {
	ShipmentID string
	ClientID   string
	Method     domain.PaymentMethod
	DateFrom   time.Time
	DateTo     time.Time
	Search     string // matches reference, method, shipment code or client name
	Offset     int
	Limit      int
}

// PaymentRepository defines the persistence operations for payments.
type PaymentRepository interface {
	// Create persists a new payment.
	Create(ctx context.Context, payment *domain.Payment) error

	// GetByID retrieves a payment by ID, voided or not.
	GetByID(ctx context.Context, id string) (*domain.Payment, error)

	// SumActiveByShipment returns the sum of non-voided payment amounts
	// recorded against the given shipment.
	SumActiveByShipment(ctx context.Context, shipmentID string) (float64, error)

	// MarkVoided transitions an ACTIVE payment to VOIDED, stamping the void
	// time and replacing the audit note. Returns ErrNotFound when no ACTIVE
	// payment with the given id exists.
	MarkVoided(ctx context.Context, id string, at time.Time, note string) error

	// List returns payments matching the filter, newest first, joined with
	// shipment and client display fields, plus the total match count.
	List(ctx context.Context, filter PaymentFilter) ([]*domain.PaymentListing, int, error)
}
