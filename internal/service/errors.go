package service

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidAmount is returned when a payment amount is missing, zero or
	// negative.
	ErrInvalidAmount = errors.New("amount must be a positive number")

	// ErrInvalidPaymentMethod is returned when a payment method is not one of
	// the known channels.
	ErrInvalidPaymentMethod = errors.New("unknown payment method")

	// ErrInvalidPaymentID is returned when a payment ID is empty.
	ErrInvalidPaymentID = errors.New("invalid payment id")

	// ErrPaymentAlreadyVoided is returned when voiding an already voided payment.
	ErrPaymentAlreadyVoided = errors.New("payment already voided")

	// ErrInvalidShipmentRef is returned when neither a shipment ID nor a guide
	// code is provided.
	ErrInvalidShipmentRef = errors.New("shipment id or code required")

	// ErrInvalidShipmentTotal is returned when a shipment total is zero or negative.
	ErrInvalidShipmentTotal = errors.New("shipment total must be a positive number")

	// ErrInvalidClientID is returned when a client ID is empty.
	ErrInvalidClientID = errors.New("invalid client id")
)

// OverpaymentError is returned when a payment would push the cumulative paid
// amount past the shipment total. It carries the balance at rejection time.
type OverpaymentError struct {
	Outstanding float64
	Total       float64
	Paid        float64
}

func (e *OverpaymentError) Error() string {
	return fmt.Sprintf("amount exceeds outstanding balance (outstanding %.2f, total %.2f, paid %.2f)",
		e.Outstanding, e.Total, e.Paid)
}
