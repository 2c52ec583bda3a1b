package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"freight/internal/domain"
	"freight/internal/repository"
)

// codeRetries bounds how often shipment creation retries a colliding guide code.
const codeRetries = 3

// ShipmentService manages shipment records. The payment ledger treats
// shipments as read-only; this service owns their creation and removal.
type ShipmentService struct {
	shipmentRepo repository.ShipmentRepository
	clientRepo   repository.ClientRepository
}

// NewShipmentService creates a new ShipmentService.
func NewShipmentService(shipmentRepo repository.ShipmentRepository, clientRepo repository.ClientRepository) *ShipmentService {
	return &ShipmentService{
		shipmentRepo: shipmentRepo,
		clientRepo:   clientRepo,
	}
}

// CreateShipmentRequest contains the parameters for creating a shipment.
type CreateShipmentRequest struct {
	ClientID    string
	Origin      string
	Destination string
	Total       float64
	Code        string // optional; generated when empty
}

// CreateShipment creates a shipment with a unique guide code.
func (s *ShipmentService) CreateShipment(ctx context.Context, actor domain.Actor, req CreateShipmentRequest) (*domain.Shipment, error) {
	if req.ClientID == "" {
		return nil, ErrInvalidClientID
	}

	if req.Total <= 0 {
		return nil, ErrInvalidShipmentTotal
	}

	if _, err := s.clientRepo.GetByID(ctx, req.ClientID); err != nil {
		return nil, err
	}

	shipment := &domain.Shipment{
		ID:          uuid.New().String(),
		Code:        req.Code,
		ClientID:    req.ClientID,
		Origin:      req.Origin,
		Destination: req.Destination,
		Total:       req.Total,
		CreatedAt:   time.Now(),
	}

	if shipment.Code != "" {
		if err := s.shipmentRepo.Create(ctx, shipment); err != nil {
			return nil, err
		}
		return shipment, nil
	}

	// Generated codes can collide; retry with a fresh suffix.
	var err error
	for i := 0; i < codeRetries; i++ {
		shipment.Code = GenerateCode(time.Now())
		err = s.shipmentRepo.Create(ctx, shipment)
		if !errors.Is(err, repository.ErrCodeTaken) {
			break
		}
	}
	if err != nil {
		return nil, err
	}

	return shipment, nil
}

// GetShipment retrieves a non-deleted shipment by ID or guide code. IDs are
// UUIDs and guide codes are not, so the shape of the ref decides which lookup
// runs; a code must never be bound against the uuid id column.
func (s *ShipmentService) GetShipment(ctx context.Context, ref string) (*domain.Shipment, error) {
	if ref == "" {
		return nil, ErrInvalidShipmentRef
	}

	if _, err := uuid.Parse(ref); err != nil {
		return s.shipmentRepo.GetByCode(ctx, ref)
	}

	return s.shipmentRepo.GetByID(ctx, ref)
}

// GetAll retrieves recent shipments.
func (s *ShipmentService) GetAll(ctx context.Context) ([]*domain.Shipment, error) {
	return s.shipmentRepo.GetAll(ctx)
}

// DeleteShipment soft-deletes a shipment. Recorded payments are retained.
func (s *ShipmentService) DeleteShipment(ctx context.Context, actor domain.Actor, shipmentID string) error {
	if shipmentID == "" {
		return ErrInvalidShipmentRef
	}

	return s.shipmentRepo.SoftDelete(ctx, shipmentID)
}

// GenerateCode builds a human-readable guide code: a date component plus a
// random suffix.
func GenerateCode(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:6])
	return fmt.Sprintf("GU-%s-%s", now.Format("20060102"), suffix)
}
