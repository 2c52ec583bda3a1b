package domain

import (
	"fmt"
	"time"
)

// PaymentStatus represents the current status of a payment.
type PaymentStatus string

const (
	PaymentStatusActive PaymentStatus = "ACTIVE"
	PaymentStatusVoided PaymentStatus = "VOIDED"
)

// PaymentMethod represents the channel a payment was made through.
// Values are persisted verbatim.
type PaymentMethod string

const (
	PaymentMethodCash          PaymentMethod = "CASH"
	PaymentMethodCreditCard    PaymentMethod = "CREDIT_CARD"
	PaymentMethodDebitCard     PaymentMethod = "DEBIT_CARD"
	PaymentMethodTransfer      PaymentMethod = "TRANSFER"
	PaymentMethodDeposit       PaymentMethod = "DEPOSIT"
	PaymentMethodWalletA       PaymentMethod = "WALLET_A"
	PaymentMethodWalletB       PaymentMethod = "WALLET_B"
	PaymentMethodDigitalWallet PaymentMethod = "DIGITAL_WALLET"
)

// ValidPaymentMethod reports whether m is a known payment method.
func ValidPaymentMethod(m PaymentMethod) bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCreditCard, PaymentMethodDebitCard,
		PaymentMethodTransfer, PaymentMethodDeposit, PaymentMethodWalletA,
		PaymentMethodWalletB, PaymentMethodDigitalWallet:
		return true
	}
	return false
}

// Payment represents a transaction recorded against a shipment's total.
// A payment is never edited or hard-deleted; voiding is its only transition.
type Payment struct {
	ID         string
	ShipmentID string
	Amount     float64
	Method     PaymentMethod
	Reference  string
	PaidAt     time.Time // business date, may be backdated
	Status     PaymentStatus
	Note       string
	VoidedAt   time.Time
	CreatedBy  string
	CreatedAt  time.Time
}

// Void transitions the payment from ACTIVE to VOIDED, stamping the void time
// and appending an audit note. Returns false if the payment is already voided.
func (p *Payment) Void(at time.Time, voidedBy, reason string) bool {
	if p.Status == PaymentStatusVoided {
		return false
	}

	p.Status = PaymentStatusVoided
	p.VoidedAt = at

	note := fmt.Sprintf("voided by %s", voidedBy)
	if reason != "" {
		note = fmt.Sprintf("%s: %s", note, reason)
	}
	if p.Note != "" {
		p.Note = p.Note + "; " + note
	} else {
		p.Note = note
	}

	return true
}

// Voided reports whether the payment has been voided.
func (p *Payment) Voided() bool {
	return p.Status == PaymentStatusVoided
}

// PaymentListing is a payment joined with shipment and client display fields,
// as returned by the list operation.
type PaymentListing struct {
	Payment
	ShipmentCode string
	ClientID     string
	ClientName   string
}
