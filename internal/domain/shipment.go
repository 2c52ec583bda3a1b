package domain

import "time"

// Shipment represents a tracked parcel/freight record with an owed total.
// The payment ledger only reads ID, Code and Total; the rest of the shipment
// lifecycle is managed elsewhere.
type Shipment struct {
	ID          string
	Code        string // human-readable guide number, unique
	ClientID    string
	Origin      string
	Destination string
	Total       float64 // amount owed, immutable after creation
	CreatedAt   time.Time
}

// Balance is the payment position of a shipment.
type Balance struct {
	Total       float64
	Paid        float64
	Outstanding float64
}
