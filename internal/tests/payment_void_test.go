package tests

import (
	"context"
	"errors"
	"strings"
	"testing"

	"freight/internal/domain"
	"freight/internal/repository"
	"freight/internal/service"
)

// ──────────────────────────────────────────────
// PAYMENT VOIDING
// ──────────────────────────────────────────────

func TestVoidPayment_ExcludesFromBalance(t *testing.T) {
	t.Parallel()

	svc, _, _, shipment := newLedger(30)
	ctx := context.Background()

	payment, err := svc.RegisterPayment(ctx, testActor, service.RegisterPaymentRequest{
		ShipmentID: shipment.ID,
		Amount:     30,
		Method:     domain.PaymentMethodWalletA,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	balance, _ := svc.GetBalance(ctx, shipment.ID)
	if balance.Paid != 30 || balance.Outstanding != 0 {
		t.Fatalf("expected balance {30 30 0}, got {%v %v %v}", balance.Total, balance.Paid, balance.Outstanding)
	}

	voided, err := svc.VoidPayment(ctx, testActor, service.VoidPaymentRequest{
		PaymentID: payment.ID,
		Reason:    "duplicate entry",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if voided.Status != domain.PaymentStatusVoided {
		t.Errorf("expected status %s, got %s", domain.PaymentStatusVoided, voided.Status)
	}
	if voided.VoidedAt.IsZero() {
		t.Error("expected voided_at to be set")
	}
	if !strings.Contains(voided.Note, "voided by user-1") || !strings.Contains(voided.Note, "duplicate entry") {
		t.Errorf("expected audit note with actor and reason, got %q", voided.Note)
	}
	if voided.Amount != 30 {
		t.Errorf("expected amount unchanged, got %v", voided.Amount)
	}

	// Balance recomputes without the voided payment.
	balance, _ = svc.GetBalance(ctx, shipment.ID)
	if balance.Total != 30 || balance.Paid != 0 || balance.Outstanding != 30 {
		t.Errorf("expected balance {30 0 30}, got {%v %v %v}", balance.Total, balance.Paid, balance.Outstanding)
	}

	// The record itself is retained.
	kept, err := svc.GetPayment(ctx, payment.ID)
	if err != nil {
		t.Fatalf("expected voided payment to remain retrievable: %v", err)
	}
	if kept.Status != domain.PaymentStatusVoided {
		t.Errorf("expected retained status %s, got %s", domain.PaymentStatusVoided, kept.Status)
	}
}

func TestVoidPayment_AlreadyVoided(t *testing.T) {
	t.Parallel()

	svc, _, paymentRepo, shipment := newLedger(100)
	ctx := context.Background()

	payment, err := svc.RegisterPayment(ctx, testActor, service.RegisterPaymentRequest{
		ShipmentID: shipment.ID,
		Amount:     20,
		Method:     domain.PaymentMethodCash,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := svc.VoidPayment(ctx, testActor, service.VoidPaymentRequest{PaymentID: payment.ID}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	first, _ := paymentRepo.GetByID(ctx, payment.ID)

	_, err = svc.VoidPayment(ctx, testActor, service.VoidPaymentRequest{PaymentID: payment.ID, Reason: "again"})
	if !errors.Is(err, service.ErrPaymentAlreadyVoided) {
		t.Fatalf("expected ErrPaymentAlreadyVoided, got %v", err)
	}

	// The second void is a no-op.
	second, _ := paymentRepo.GetByID(ctx, payment.ID)
	if !second.VoidedAt.Equal(first.VoidedAt) || second.Note != first.Note {
		t.Error("expected repeated void to leave the record unchanged")
	}
}

func TestVoidPayment_NotFound(t *testing.T) {
	t.Parallel()

	svc, _, _, _ := newLedger(100)

	_, err := svc.VoidPayment(context.Background(), testActor, service.VoidPaymentRequest{
		PaymentID: "no-such-payment",
	})
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestVoidPayment_FreesBalanceForNewPayment(t *testing.T) {
	t.Parallel()

	svc, _, _, shipment := newLedger(50)
	ctx := context.Background()

	payment, err := svc.RegisterPayment(ctx, testActor, service.RegisterPaymentRequest{
		ShipmentID: shipment.ID,
		Amount:     50,
		Method:     domain.PaymentMethodCash,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Fully paid; a further payment must be rejected.
	_, err = svc.RegisterPayment(ctx, testActor, service.RegisterPaymentRequest{
		ShipmentID: shipment.ID,
		Amount:     10,
		Method:     domain.PaymentMethodCash,
	})
	var overpayment *service.OverpaymentError
	if !errors.As(err, &overpayment) {
		t.Fatalf("expected OverpaymentError, got %v", err)
	}

	if _, err := svc.VoidPayment(ctx, testActor, service.VoidPaymentRequest{PaymentID: payment.ID}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Voiding reopened the balance.
	if _, err := svc.RegisterPayment(ctx, testActor, service.RegisterPaymentRequest{
		ShipmentID: shipment.ID,
		Amount:     10,
		Method:     domain.PaymentMethodCash,
	}); err != nil {
		t.Fatalf("expected registration to succeed after void, got %v", err)
	}
}
