package repository

import (
	"context"

	"freight/internal/domain"
)

// ShipmentRepository defines the persistence operations for shipments.
// Soft-deleted shipments are invisible to every lookup.
type ShipmentRepository interface {
	// Create persists a new shipment. Returns ErrCodeTaken when the guide
	// code is already in use.
	Create(ctx context.Context, shipment *domain.Shipment) error

	// GetByID retrieves a non-deleted shipment by ID.
	GetByID(ctx context.Context, id string) (*domain.Shipment, error)

	// GetByCode retrieves a non-deleted shipment by its guide code.
	GetByCode(ctx context.Context, code string) (*domain.Shipment, error)

	// GetForUpdate retrieves a non-deleted shipment by ID, locking its row
	// for the remainder of the surrounding transaction. Outside a
	// transaction it behaves like GetByID.
	GetForUpdate(ctx context.Context, id string) (*domain.Shipment, error)

	// GetAll retrieves recent shipments, newest first.
	GetAll(ctx context.Context) ([]*domain.Shipment, error)

	// SoftDelete marks a shipment deleted. Its payments are retained.
	SoftDelete(ctx context.Context, id string) error
}
