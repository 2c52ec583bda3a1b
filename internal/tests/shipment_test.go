package tests

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"freight/internal/domain"
	"freight/internal/repository"
	"freight/internal/service"
)

// ──────────────────────────────────────────────
// SHIPMENTS
// ──────────────────────────────────────────────

func newShipmentService() (*service.ShipmentService, *MockShipmentRepository, *MockClientRepository) {
	shipmentRepo := NewMockShipmentRepository()
	clientRepo := NewMockClientRepository()
	clientRepo.AddClient(&domain.Client{ID: "client-1", Name: "Acme Logistics", CreatedAt: time.Now()})
	return service.NewShipmentService(shipmentRepo, clientRepo), shipmentRepo, clientRepo
}

func TestCreateShipment_GeneratesGuideCode(t *testing.T) {
	t.Parallel()

	svc, _, _ := newShipmentService()
	ctx := context.Background()

	first, err := svc.CreateShipment(ctx, testActor, service.CreateShipmentRequest{
		ClientID: "client-1",
		Total:    120.50,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.HasPrefix(first.Code, "GU-") {
		t.Errorf("expected generated guide code, got %q", first.Code)
	}

	second, err := svc.CreateShipment(ctx, testActor, service.CreateShipmentRequest{
		ClientID: "client-1",
		Total:    80,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first.Code == second.Code {
		t.Errorf("expected distinct guide codes, both were %q", first.Code)
	}
}

func TestCreateShipment_ExplicitCodeConflict(t *testing.T) {
	t.Parallel()

	svc, _, _ := newShipmentService()
	ctx := context.Background()

	if _, err := svc.CreateShipment(ctx, testActor, service.CreateShipmentRequest{
		ClientID: "client-1",
		Total:    100,
		Code:     "GU-CUSTOM-1",
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := svc.CreateShipment(ctx, testActor, service.CreateShipmentRequest{
		ClientID: "client-1",
		Total:    100,
		Code:     "GU-CUSTOM-1",
	})
	if !errors.Is(err, repository.ErrCodeTaken) {
		t.Fatalf("expected ErrCodeTaken, got %v", err)
	}
}

func TestCreateShipment_UnknownClient(t *testing.T) {
	t.Parallel()

	svc, _, _ := newShipmentService()

	_, err := svc.CreateShipment(context.Background(), testActor, service.CreateShipmentRequest{
		ClientID: "no-such-client",
		Total:    100,
	})
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateShipment_InvalidTotal(t *testing.T) {
	t.Parallel()

	svc, _, _ := newShipmentService()

	for _, total := range []float64{0, -5} {
		_, err := svc.CreateShipment(context.Background(), testActor, service.CreateShipmentRequest{
			ClientID: "client-1",
			Total:    total,
		})
		if !errors.Is(err, service.ErrInvalidShipmentTotal) {
			t.Errorf("total %v: expected ErrInvalidShipmentTotal, got %v", total, err)
		}
	}
}

func TestGetShipment_ByIDOrCode(t *testing.T) {
	t.Parallel()

	svc, shipmentRepo, _ := newShipmentService()
	ctx := context.Background()

	created, err := svc.CreateShipment(ctx, testActor, service.CreateShipmentRequest{
		ClientID: "client-1",
		Total:    60,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	byID, err := svc.GetShipment(ctx, created.ID)
	if err != nil {
		t.Fatalf("lookup by id failed: %v", err)
	}
	idLookups := atomic.LoadInt32(&shipmentRepo.GetByIDCallCount)

	byCode, err := svc.GetShipment(ctx, created.Code)
	if err != nil {
		t.Fatalf("lookup by code failed: %v", err)
	}

	if byID.ID != created.ID || byCode.ID != created.ID {
		t.Error("expected both lookups to resolve the created shipment")
	}

	// Guide codes are not UUIDs and would fail the cast against the uuid id
	// column, so a code ref must resolve through the code lookup alone.
	if got := atomic.LoadInt32(&shipmentRepo.GetByIDCallCount); got != idLookups {
		t.Errorf("expected code lookup to bypass the id lookup, id lookups went %d to %d", idLookups, got)
	}
}

func TestGetShipment_UnknownCodeMissesWithoutIDLookup(t *testing.T) {
	t.Parallel()

	svc, shipmentRepo, _ := newShipmentService()

	_, err := svc.GetShipment(context.Background(), "GU-20990101-ZZZZZZ")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if got := atomic.LoadInt32(&shipmentRepo.GetByIDCallCount); got != 0 {
		t.Errorf("expected no id lookup for a non-UUID ref, got %d", got)
	}
}

func TestDeleteShipment_HidesFromLookupKeepsPayments(t *testing.T) {
	t.Parallel()

	shipmentRepo := NewMockShipmentRepository()
	clientRepo := NewMockClientRepository()
	paymentRepo := NewMockPaymentRepository()
	clientRepo.AddClient(&domain.Client{ID: "client-1", Name: "Acme Logistics"})

	shipmentSvc := service.NewShipmentService(shipmentRepo, clientRepo)
	paymentSvc := service.NewPaymentService(nil, shipmentRepo, paymentRepo, nil)
	ctx := context.Background()

	shipment, err := shipmentSvc.CreateShipment(ctx, testActor, service.CreateShipmentRequest{
		ClientID: "client-1",
		Total:    100,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	payment, err := paymentSvc.RegisterPayment(ctx, testActor, service.RegisterPaymentRequest{
		ShipmentID: shipment.ID,
		Amount:     40,
		Method:     domain.PaymentMethodCash,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := shipmentSvc.DeleteShipment(ctx, testActor, shipment.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The shipment no longer resolves.
	if _, err := shipmentSvc.GetShipment(ctx, shipment.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}

	// Registering against it fails the same way.
	if _, err := paymentSvc.RegisterPayment(ctx, testActor, service.RegisterPaymentRequest{
		ShipmentID: shipment.ID,
		Amount:     10,
		Method:     domain.PaymentMethodCash,
	}); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound when paying a deleted shipment, got %v", err)
	}

	// Its payment history is retained.
	if _, err := paymentSvc.GetPayment(ctx, payment.ID); err != nil {
		t.Errorf("expected payment to remain retrievable, got %v", err)
	}
}
