package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"freight/internal/domain"
	"freight/internal/repository"
)

// PaymentRepository is a PostgreSQL implementation of repository.PaymentRepository.
type PaymentRepository struct {
	q Querier
}

// NewPaymentRepository creates a new PostgreSQL payment repository.
func NewPaymentRepository(db *sql.DB) *PaymentRepository {
	return &PaymentRepository{q: db}
}

// NewPaymentRepositoryWithTx creates a payment repository using a transaction.
func NewPaymentRepositoryWithTx(tx *sql.Tx) *PaymentRepository {
	return &PaymentRepository{q: tx}
}

// Create persists a new payment.
func (r *PaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	query := `
		INSERT INTO payments (id, shipment_id, amount, method, reference, paid_at, status, note, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.q.ExecContext(ctx, query,
		payment.ID,
		payment.ShipmentID,
		payment.Amount,
		payment.Method,
		payment.Reference,
		payment.PaidAt,
		payment.Status,
		payment.Note,
		payment.CreatedBy,
		payment.CreatedAt,
	)

	return err
}

// GetByID retrieves a payment by ID, voided or not.
func (r *PaymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	query := `
		SELECT id, shipment_id, amount, method, reference, paid_at, status, note, voided_at, created_by, created_at
		FROM payments WHERE id = $1
	`

	payment, err := scanPayment(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, lookupErr(err)
	}

	return payment, nil
}

// SumActiveByShipment returns the sum of non-voided payment amounts for a shipment.
func (r *PaymentRepository) SumActiveByShipment(ctx context.Context, shipmentID string) (float64, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM payments WHERE shipment_id = $1 AND status = $2
	`

	var sum float64
	err := r.q.QueryRowContext(ctx, query, shipmentID, domain.PaymentStatusActive).Scan(&sum)
	if err != nil {
		return 0, err
	}

	return sum, nil
}

// MarkVoided transitions an ACTIVE payment to VOIDED. The status guard in the
// WHERE clause makes the transition safe against concurrent void requests.
func (r *PaymentRepository) MarkVoided(ctx context.Context, id string, at time.Time, note string) error {
	query := `
		UPDATE payments SET status = $1, voided_at = $2, note = $3
		WHERE id = $4 AND status = $5
	`

	result, err := r.q.ExecContext(ctx, query, domain.PaymentStatusVoided, at, note, id, domain.PaymentStatusActive)
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

// List returns payments matching the filter, newest first, joined with
// shipment and client display fields, plus the total match count.
func (r *PaymentRepository) List(ctx context.Context, filter repository.PaymentFilter) ([]*domain.PaymentListing, int, error) {
	where, args := buildPaymentFilter(filter)

	countQuery := `
		SELECT COUNT(*)
		FROM payments p
		JOIN shipments s ON s.id = p.shipment_id
		JOIN clients c ON c.id = s.client_id
	` + where

	var total int
	if err := r.q.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	listQuery := `
		SELECT p.id, p.shipment_id, p.amount, p.method, p.reference, p.paid_at,
		       p.status, p.note, p.voided_at, p.created_by, p.created_at,
		       s.code, s.client_id, c.name
		FROM payments p
		JOIN shipments s ON s.id = p.shipment_id
		JOIN clients c ON c.id = s.client_id
	` + where + fmt.Sprintf(`
		ORDER BY p.created_at DESC
		LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)

	rows, err := r.q.QueryContext(ctx, listQuery, append(args, filter.Limit, filter.Offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var listings []*domain.PaymentListing
	for rows.Next() {
		var l domain.PaymentListing
		var reference, note, createdBy sql.NullString
		var voidedAt sql.NullTime

		err := rows.Scan(
			&l.ID, &l.ShipmentID, &l.Amount, &l.Method, &reference, &l.PaidAt,
			&l.Status, &note, &voidedAt, &createdBy, &l.CreatedAt,
			&l.ShipmentCode, &l.ClientID, &l.ClientName,
		)
		if err != nil {
			return nil, 0, err
		}

		l.Reference = reference.String
		l.Note = note.String
		l.CreatedBy = createdBy.String
		if voidedAt.Valid {
			l.VoidedAt = voidedAt.Time
		}

		listings = append(listings, &l)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return listings, total, nil
}

// buildPaymentFilter assembles the WHERE clause and arguments for List.
func buildPaymentFilter(filter repository.PaymentFilter) (string, []any) {
	var conds []string
	var args []any

	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if filter.ShipmentID != "" {
		add("p.shipment_id = $%d", filter.ShipmentID)
	}
	if filter.ClientID != "" {
		add("s.client_id = $%d", filter.ClientID)
	}
	if filter.Method != "" {
		add("p.method = $%d", string(filter.Method))
	}
	if !filter.DateFrom.IsZero() {
		add("p.paid_at >= $%d", filter.DateFrom)
	}
	if !filter.DateTo.IsZero() {
		add("p.paid_at < $%d", filter.DateTo)
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf(
			"(p.reference ILIKE $%d OR p.method ILIKE $%d OR s.code ILIKE $%d OR c.name ILIKE $%d)",
			n, n, n, n,
		))
	}

	if len(conds) == 0 {
		return "", nil
	}

	return " WHERE " + strings.Join(conds, " AND "), args
}

// scanPayment scans a single payment row.
func scanPayment(row *sql.Row) (*domain.Payment, error) {
	var payment domain.Payment
	var reference, note, createdBy sql.NullString
	var voidedAt sql.NullTime

	err := row.Scan(
		&payment.ID,
		&payment.ShipmentID,
		&payment.Amount,
		&payment.Method,
		&reference,
		&payment.PaidAt,
		&payment.Status,
		&note,
		&voidedAt,
		&createdBy,
		&payment.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	payment.Reference = reference.String
	payment.Note = note.String
	payment.CreatedBy = createdBy.String
	if voidedAt.Valid {
		payment.VoidedAt = voidedAt.Time
	}

	return &payment, nil
}
