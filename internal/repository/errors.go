package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity does not exist or is
	// soft-deleted.
	ErrNotFound = errors.New("entity not found")

	// ErrCodeTaken is returned when a shipment guide code is already in use.
	ErrCodeTaken = errors.New("shipment code already in use")
)
