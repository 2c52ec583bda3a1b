package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"freight/internal/domain"
	"freight/internal/repository"
)

// ShipmentRepository is a PostgreSQL implementation of repository.ShipmentRepository.
type ShipmentRepository struct {
	q Querier
}

// NewShipmentRepository creates a new PostgreSQL shipment repository.
func NewShipmentRepository(db *sql.DB) *ShipmentRepository {
	return &ShipmentRepository{q: db}
}

// NewShipmentRepositoryWithTx creates a shipment repository using a transaction.
func NewShipmentRepositoryWithTx(tx *sql.Tx) *ShipmentRepository {
	return &ShipmentRepository{q: tx}
}

const shipmentColumns = `id, code, client_id, origin, destination, total, created_at`

// Create persists a new shipment.
func (r *ShipmentRepository) Create(ctx context.Context, shipment *domain.Shipment) error {
	query := `
		INSERT INTO shipments (id, code, client_id, origin, destination, total, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.q.ExecContext(ctx, query,
		shipment.ID,
		shipment.Code,
		shipment.ClientID,
		shipment.Origin,
		shipment.Destination,
		shipment.Total,
		shipment.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return repository.ErrCodeTaken
		}
		return err
	}

	return nil
}

// GetByID retrieves a non-deleted shipment by ID.
func (r *ShipmentRepository) GetByID(ctx context.Context, id string) (*domain.Shipment, error) {
	query := `
		SELECT ` + shipmentColumns + `
		FROM shipments WHERE id = $1 AND deleted_at IS NULL
	`

	return r.scanShipment(r.q.QueryRowContext(ctx, query, id))
}

// GetByCode retrieves a non-deleted shipment by its guide code.
func (r *ShipmentRepository) GetByCode(ctx context.Context, code string) (*domain.Shipment, error) {
	query := `
		SELECT ` + shipmentColumns + `
		FROM shipments WHERE code = $1 AND deleted_at IS NULL
	`

	return r.scanShipment(r.q.QueryRowContext(ctx, query, code))
}

// GetForUpdate retrieves a non-deleted shipment by ID, locking its row for
// the remainder of the surrounding transaction. The lock serializes the
// balance-read-then-insert sequence of payment registration.
func (r *ShipmentRepository) GetForUpdate(ctx context.Context, id string) (*domain.Shipment, error) {
	query := `
		SELECT ` + shipmentColumns + `
		FROM shipments WHERE id = $1 AND deleted_at IS NULL
		FOR UPDATE
	`

	return r.scanShipment(r.q.QueryRowContext(ctx, query, id))
}

// GetAll retrieves recent shipments, newest first.
func (r *ShipmentRepository) GetAll(ctx context.Context) ([]*domain.Shipment, error) {
	query := `
		SELECT ` + shipmentColumns + `
		FROM shipments WHERE deleted_at IS NULL
		ORDER BY created_at DESC LIMIT 100
	`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shipments []*domain.Shipment
	for rows.Next() {
		var s domain.Shipment
		err := rows.Scan(&s.ID, &s.Code, &s.ClientID, &s.Origin, &s.Destination, &s.Total, &s.CreatedAt)
		if err != nil {
			return nil, err
		}
		shipments = append(shipments, &s)
	}

	return shipments, rows.Err()
}

// SoftDelete marks a shipment deleted. Payments against it are retained.
func (r *ShipmentRepository) SoftDelete(ctx context.Context, id string) error {
	query := `UPDATE shipments SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`

	result, err := r.q.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func (r *ShipmentRepository) scanShipment(row *sql.Row) (*domain.Shipment, error) {
	var s domain.Shipment
	err := row.Scan(&s.ID, &s.Code, &s.ClientID, &s.Origin, &s.Destination, &s.Total, &s.CreatedAt)
	if err != nil {
		return nil, lookupErr(err)
	}

	return &s, nil
}
