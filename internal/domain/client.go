package domain

import "time"

// Client represents a customer that shipments are billed to.
type Client struct {
	ID        string
	Name      string
	Document  string // tax/identity document number
	Phone     string
	CreatedAt time.Time
}
