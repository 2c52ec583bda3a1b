package postgres

import (
	"context"
	"database/sql"

	"freight/internal/domain"
)

// ClientRepository is a PostgreSQL implementation of repository.ClientRepository.
type ClientRepository struct {
	q Querier
}

// NewClientRepository creates a new PostgreSQL client repository.
func NewClientRepository(db *sql.DB) *ClientRepository {
	return &ClientRepository{q: db}
}

// Create persists a new client.
func (r *ClientRepository) Create(ctx context.Context, client *domain.Client) error {
	query := `
		INSERT INTO clients (id, name, document, phone, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.q.ExecContext(ctx, query,
		client.ID,
		client.Name,
		client.Document,
		client.Phone,
		client.CreatedAt,
	)

	return err
}

// GetByID retrieves a client by ID.
func (r *ClientRepository) GetByID(ctx context.Context, id string) (*domain.Client, error) {
	query := `
		SELECT id, name, document, phone, created_at
		FROM clients WHERE id = $1
	`

	var client domain.Client
	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&client.ID,
		&client.Name,
		&client.Document,
		&client.Phone,
		&client.CreatedAt,
	)
	if err != nil {
		return nil, lookupErr(err)
	}

	return &client, nil
}

// GetAll retrieves all clients, newest first.
func (r *ClientRepository) GetAll(ctx context.Context) ([]*domain.Client, error) {
	query := `
		SELECT id, name, document, phone, created_at
		FROM clients ORDER BY created_at DESC
	`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clients []*domain.Client
	for rows.Next() {
		var c domain.Client
		err := rows.Scan(&c.ID, &c.Name, &c.Document, &c.Phone, &c.CreatedAt)
		if err != nil {
			return nil, err
		}
		clients = append(clients, &c)
	}

	return clients, rows.Err()
}
