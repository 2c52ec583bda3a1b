package service

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"freight/internal/domain"
	"freight/internal/redis"
	"freight/internal/repository"
	"freight/internal/repository/postgres"
)

// balanceTolerance absorbs floating-point drift when comparing a requested
// amount against the outstanding balance.
const balanceTolerance = 0.0001

// PaymentService is the payment ledger: it records payments against a
// shipment's total, computes outstanding balances and voids payments.
type PaymentService struct {
	db           *sql.DB
	shipmentRepo repository.ShipmentRepository
	paymentRepo  repository.PaymentRepository
	cache        redis.BalanceCacheInterface

	// Serializes register when no database handle is present; with a
	// database the shipment row lock provides the serialization.
	mu sync.Mutex
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(
	db *sql.DB,
	shipmentRepo repository.ShipmentRepository,
	paymentRepo repository.PaymentRepository,
	cache redis.BalanceCacheInterface,
) *PaymentService {
	return &PaymentService{
		db:           db,
		shipmentRepo: shipmentRepo,
		paymentRepo:  paymentRepo,
		cache:        cache,
	}
}

// RegisterPaymentRequest contains the parameters for registering a payment.
// Exactly one of ShipmentID or ShipmentCode must be set.
type RegisterPaymentRequest struct {
	ShipmentID   string
	ShipmentCode string
	Amount       float64
	Method       domain.PaymentMethod
	Reference    string
	Date         time.Time // business date; zero means now
}

// RegisterPayment records a payment against a shipment. The balance check and
// the insert run inside one transaction with the shipment row locked, so two
// concurrent registrations cannot jointly exceed the shipment total.
func (s *PaymentService) RegisterPayment(ctx context.Context, actor domain.Actor, req RegisterPaymentRequest) (*domain.Payment, error) {
	if req.ShipmentID == "" && req.ShipmentCode == "" {
		return nil, ErrInvalidShipmentRef
	}

	if req.Amount <= 0 {
		return nil, ErrInvalidAmount
	}

	if !domain.ValidPaymentMethod(req.Method) {
		return nil, ErrInvalidPaymentMethod
	}

	now := time.Now()
	paidAt := req.Date
	if paidAt.IsZero() {
		paidAt = now
	}

	var payment *domain.Payment

	err := s.inTx(ctx, func(shipments repository.ShipmentRepository, payments repository.PaymentRepository) error {
		shipment, err := s.resolveLocked(ctx, shipments, req.ShipmentID, req.ShipmentCode)
		if err != nil {
			return err
		}

		paid, err := payments.SumActiveByShipment(ctx, shipment.ID)
		if err != nil {
			return err
		}

		outstanding := shipment.Total - paid
		if req.Amount-outstanding > balanceTolerance {
			if outstanding < 0 {
				outstanding = 0
			}
			return &OverpaymentError{
				Outstanding: outstanding,
				Total:       shipment.Total,
				Paid:        paid,
			}
		}

		payment = &domain.Payment{
			ID:         uuid.New().String(),
			ShipmentID: shipment.ID,
			Amount:     req.Amount,
			Method:     req.Method,
			Reference:  req.Reference,
			PaidAt:     paidAt,
			Status:     domain.PaymentStatusActive,
			CreatedBy:  actor.UserID,
			CreatedAt:  now,
		}

		return payments.Create(ctx, payment)
	})
	if err != nil {
		return nil, err
	}

	s.invalidateBalance(ctx, payment.ShipmentID)

	return payment, nil
}

// VoidPaymentRequest contains the parameters for voiding a payment.
type VoidPaymentRequest struct {
	PaymentID string
	Reason    string
}

// VoidPayment soft-deletes a payment. The record is kept for history but is
// excluded from balance calculations from now on.
func (s *PaymentService) VoidPayment(ctx context.Context, actor domain.Actor, req VoidPaymentRequest) (*domain.Payment, error) {
	if req.PaymentID == "" {
		return nil, ErrInvalidPaymentID
	}

	payment, err := s.paymentRepo.GetByID(ctx, req.PaymentID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if !payment.Void(now, actor.UserID, req.Reason) {
		return nil, ErrPaymentAlreadyVoided
	}

	if err := s.paymentRepo.MarkVoided(ctx, payment.ID, now, payment.Note); err != nil {
		// The row exists, so a miss here means another request voided it first.
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPaymentAlreadyVoided
		}
		return nil, err
	}

	s.invalidateBalance(ctx, payment.ShipmentID)

	return payment, nil
}

// GetPayment retrieves a payment by ID. Voided payments remain retrievable.
func (s *PaymentService) GetPayment(ctx context.Context, paymentID string) (*domain.Payment, error) {
	if paymentID == "" {
		return nil, ErrInvalidPaymentID
	}

	return s.paymentRepo.GetByID(ctx, paymentID)
}

// GetBalance computes the payment position of a shipment: total owed, sum of
// non-voided payments, and the outstanding balance floored at zero.
func (s *PaymentService) GetBalance(ctx context.Context, shipmentID string) (*domain.Balance, error) {
	if shipmentID == "" {
		return nil, ErrInvalidShipmentRef
	}

	if s.cache != nil {
		cached, err := s.cache.GetBalance(ctx, shipmentID)
		if err == nil && cached != nil {
			return &domain.Balance{
				Total:       cached.Total,
				Paid:        cached.Paid,
				Outstanding: cached.Outstanding,
			}, nil
		}
	}

	shipment, err := s.shipmentRepo.GetByID(ctx, shipmentID)
	if err != nil {
		return nil, err
	}

	paid, err := s.paymentRepo.SumActiveByShipment(ctx, shipment.ID)
	if err != nil {
		return nil, err
	}

	outstanding := shipment.Total - paid
	if outstanding < 0 {
		outstanding = 0
	}

	balance := &domain.Balance{
		Total:       shipment.Total,
		Paid:        paid,
		Outstanding: outstanding,
	}

	if s.cache != nil {
		_ = s.cache.SetBalance(ctx, shipmentID, &redis.CachedBalance{
			Total:       balance.Total,
			Paid:        balance.Paid,
			Outstanding: balance.Outstanding,
		})
	}

	return balance, nil
}

// ListPaymentsRequest contains the filters for listing payments.
type ListPaymentsRequest struct {
	ShipmentID string
	ClientID   string
	Method     domain.PaymentMethod
	DateFrom   time.Time
	DateTo     time.Time // inclusive end of day
	Search     string
	Page       int
	Limit      int
}

// PaymentPage is one page of the payment listing.
type PaymentPage struct {
	Payments   []*domain.PaymentListing
	Total      int
	TotalPages int
	Page       int
	Limit      int
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// ListPayments returns a page of payments matching the filters, newest first,
// joined with shipment and client display fields.
func (s *PaymentService) ListPayments(ctx context.Context, req ListPaymentsRequest) (*PaymentPage, error) {
	if req.Method != "" && !domain.ValidPaymentMethod(req.Method) {
		return nil, ErrInvalidPaymentMethod
	}

	page := req.Page
	if page < 1 {
		page = 1
	}

	limit := req.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	filter := repository.PaymentFilter{
		ShipmentID: req.ShipmentID,
		ClientID:   req.ClientID,
		Method:     req.Method,
		DateFrom:   req.DateFrom,
		Search:     req.Search,
		Offset:     (page - 1) * limit,
		Limit:      limit,
	}

	// DateTo is inclusive end-of-day; the repository takes an exclusive bound.
	if !req.DateTo.IsZero() {
		y, m, d := req.DateTo.Date()
		filter.DateTo = time.Date(y, m, d, 0, 0, 0, 0, req.DateTo.Location()).AddDate(0, 0, 1)
	}

	payments, total, err := s.paymentRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &PaymentPage{
		Payments:   payments,
		Total:      total,
		TotalPages: (total + limit - 1) / limit,
		Page:       page,
		Limit:      limit,
	}, nil
}

// resolveLocked finds the target shipment and locks its row. A guide code is
// resolved to an ID first so the lock is always taken on the ID lookup.
func (s *PaymentService) resolveLocked(ctx context.Context, shipments repository.ShipmentRepository, id, code string) (*domain.Shipment, error) {
	if id == "" {
		shipment, err := shipments.GetByCode(ctx, code)
		if err != nil {
			return nil, err
		}
		id = shipment.ID
	}

	return shipments.GetForUpdate(ctx, id)
}

// inTx runs fn with transaction-scoped repositories so any row lock taken
// inside fn holds until commit. Without a database handle (in-memory
// repositories) fn runs against the base repositories under a mutex, which
// preserves the same serialization of the read-check-insert sequence.
func (s *PaymentService) inTx(ctx context.Context, fn func(repository.ShipmentRepository, repository.PaymentRepository) error) error {
	if s.db == nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		return fn(s.shipmentRepo, s.paymentRepo)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fn(postgres.NewShipmentRepositoryWithTx(tx), postgres.NewPaymentRepositoryWithTx(tx)); err != nil {
		return err
	}

	err = tx.Commit()
	return err
}

// invalidateBalance drops the cached balance for a shipment after a write.
func (s *PaymentService) invalidateBalance(ctx context.Context, shipmentID string) {
	if s.cache == nil {
		return
	}
	_ = s.cache.InvalidateBalance(ctx, shipmentID)
}
