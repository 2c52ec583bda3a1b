package repository

import (
	"context"

	"freight/internal/domain"
)

// ClientRepository defines the persistence operations for clients.
type ClientRepository interface {
	// Create persists a new client.
	Create(ctx context.Context, client *domain.Client) error

	// GetByID retrieves a client by ID.
	GetByID(ctx context.Context, id string) (*domain.Client, error)

	// GetAll retrieves all clients, newest first.
	GetAll(ctx context.Context) ([]*domain.Client, error)
}
