package tests

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"freight/internal/domain"
	"freight/internal/repository"
	"freight/internal/service"
)

// ──────────────────────────────────────────────
// BALANCE COMPUTATION
// ──────────────────────────────────────────────

func TestGetBalance_Idempotent(t *testing.T) {
	t.Parallel()

	svc, _, _, shipment := newLedger(100)
	ctx := context.Background()

	if _, err := svc.RegisterPayment(ctx, testActor, service.RegisterPaymentRequest{
		ShipmentID: shipment.ID,
		Amount:     33.5,
		Method:     domain.PaymentMethodDebitCard,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	first, err := svc.GetBalance(ctx, shipment.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := svc.GetBalance(ctx, shipment.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if *first != *second {
		t.Errorf("expected identical balances, got %+v and %+v", first, second)
	}
}

func TestGetBalance_FloorsOutstandingAtZero(t *testing.T) {
	t.Parallel()

	shipmentRepo := NewMockShipmentRepository()
	paymentRepo := NewMockPaymentRepository()

	shipment := &domain.Shipment{ID: "shipment-1", Code: "GU-1", Total: 40}
	shipmentRepo.AddShipment(shipment)

	// Pre-existing data that exceeds the total (e.g. the total was lowered
	// after payments were taken). The balance must not go negative.
	paymentRepo.AddPayment(&domain.Payment{
		ID:         "payment-1",
		ShipmentID: shipment.ID,
		Amount:     55,
		Method:     domain.PaymentMethodCash,
		Status:     domain.PaymentStatusActive,
		PaidAt:     time.Now(),
		CreatedAt:  time.Now(),
	})

	svc := service.NewPaymentService(nil, shipmentRepo, paymentRepo, nil)

	balance, err := svc.GetBalance(context.Background(), shipment.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if balance.Outstanding != 0 {
		t.Errorf("expected outstanding floored at 0, got %v", balance.Outstanding)
	}
	if balance.Paid != 55 {
		t.Errorf("expected paid 55, got %v", balance.Paid)
	}
}

func TestGetBalance_UnknownShipment(t *testing.T) {
	t.Parallel()

	svc, _, _, _ := newLedger(100)

	_, err := svc.GetBalance(context.Background(), "no-such-shipment")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetBalance_ServedFromCache(t *testing.T) {
	t.Parallel()

	shipmentRepo := NewMockShipmentRepository()
	paymentRepo := NewMockPaymentRepository()
	cache := NewMockBalanceCache()

	shipment := &domain.Shipment{ID: "shipment-1", Code: "GU-1", Total: 80}
	shipmentRepo.AddShipment(shipment)

	svc := service.NewPaymentService(nil, shipmentRepo, paymentRepo, cache)
	ctx := context.Background()

	// First call computes and caches.
	if _, err := svc.GetBalance(ctx, shipment.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	reads := atomic.LoadInt32(&shipmentRepo.GetByIDCallCount)

	// Second call is served from cache without touching the repository.
	balance, err := svc.GetBalance(ctx, shipment.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if atomic.LoadInt32(&shipmentRepo.GetByIDCallCount) != reads {
		t.Error("expected cached balance to skip the shipment lookup")
	}
	if balance.Total != 80 || balance.Outstanding != 80 {
		t.Errorf("expected balance {80 0 80}, got {%v %v %v}", balance.Total, balance.Paid, balance.Outstanding)
	}
}
