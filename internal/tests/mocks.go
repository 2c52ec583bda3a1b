package tests

import (
	"context"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"freight/internal/domain"
	"freight/internal/redis"
	"freight/internal/repository"
)

// ──────────────────────────────────────────────
// MOCK CLIENT REPOSITORY
// ──────────────────────────────────────────────

// MockClientRepository is a mock implementation of ClientRepository.
type MockClientRepository struct {
	mu      sync.RWMutex
	clients map[string]*domain.Client

	// Error injection
	CreateError error
}

// NewMockClientRepository creates a new mock client repository.
func NewMockClientRepository() *MockClientRepository {
	return &MockClientRepository{
		clients: make(map[string]*domain.Client),
	}
}

// AddClient adds a client to the mock repository.
func (m *MockClientRepository) AddClient(client *domain.Client) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clients[client.ID] = client
}

func (m *MockClientRepository) Create(ctx context.Context, client *domain.Client) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clients[client.ID] = client
	return nil
}

func (m *MockClientRepository) GetByID(ctx context.Context, id string) (*domain.Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	client, ok := m.clients[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *client
	return &copy, nil
}

func (m *MockClientRepository) GetAll(ctx context.Context) ([]*domain.Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Client, 0, len(m.clients))
	for _, c := range m.clients {
		copy := *c
		result = append(result, &copy)
	}
	return result, nil
}

// ──────────────────────────────────────────────
// MOCK SHIPMENT REPOSITORY
// ──────────────────────────────────────────────

// MockShipmentRepository is a mock implementation of ShipmentRepository.
type MockShipmentRepository struct {
	mu        sync.RWMutex
	shipments map[string]*domain.Shipment
	deleted   map[string]bool

	// Counters for verification
	GetByIDCallCount      int32
	GetForUpdateCallCount int32

	// Error injection
	CreateError error
}

// NewMockShipmentRepository creates a new mock shipment repository.
func NewMockShipmentRepository() *MockShipmentRepository {
	return &MockShipmentRepository{
		shipments: make(map[string]*domain.Shipment),
		deleted:   make(map[string]bool),
	}
}

// AddShipment adds a shipment to the mock repository.
func (m *MockShipmentRepository) AddShipment(shipment *domain.Shipment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shipments[shipment.ID] = shipment
}

func (m *MockShipmentRepository) Create(ctx context.Context, shipment *domain.Shipment) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.shipments {
		if s.Code == shipment.Code && !m.deleted[s.ID] {
			return repository.ErrCodeTaken
		}
	}
	m.shipments[shipment.ID] = shipment
	return nil
}

func (m *MockShipmentRepository) GetByID(ctx context.Context, id string) (*domain.Shipment, error) {
	atomic.AddInt32(&m.GetByIDCallCount, 1)
	m.mu.RLock()
	defer m.mu.RUnlock()
	shipment, ok := m.shipments[id]
	if !ok || m.deleted[id] {
		return nil, repository.ErrNotFound
	}
	copy := *shipment
	return &copy, nil
}

func (m *MockShipmentRepository) GetByCode(ctx context.Context, code string) (*domain.Shipment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, s := range m.shipments {
		if s.Code == code && !m.deleted[s.ID] {
			copy := *s
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

// GetForUpdate behaves like GetByID; in-memory callers are serialized by the
// service, not by row locks.
func (m *MockShipmentRepository) GetForUpdate(ctx context.Context, id string) (*domain.Shipment, error) {
	atomic.AddInt32(&m.GetForUpdateCallCount, 1)
	m.mu.RLock()
	defer m.mu.RUnlock()
	shipment, ok := m.shipments[id]
	if !ok || m.deleted[id] {
		return nil, repository.ErrNotFound
	}
	copy := *shipment
	return &copy, nil
}

func (m *MockShipmentRepository) GetAll(ctx context.Context) ([]*domain.Shipment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Shipment, 0, len(m.shipments))
	for _, s := range m.shipments {
		if m.deleted[s.ID] {
			continue
		}
		copy := *s
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockShipmentRepository) SoftDelete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.shipments[id]; !ok || m.deleted[id] {
		return repository.ErrNotFound
	}
	m.deleted[id] = true
	return nil
}

// ──────────────────────────────────────────────
// MOCK PAYMENT REPOSITORY
// ──────────────────────────────────────────────

// shipmentInfo holds the display fields List joins onto each payment.
type shipmentInfo struct {
	Code       string
	ClientID   string
	ClientName string
}

// MockPaymentRepository is a mock implementation of PaymentRepository.
type MockPaymentRepository struct {
	mu       sync.RWMutex
	payments map[string]*domain.Payment
	order    []string // insertion order of payment IDs
	info     map[string]shipmentInfo

	// Counters for verification
	CreateCallCount int32

	// Error injection
	CreateError error
	SumError    error
}

// NewMockPaymentRepository creates a new mock payment repository.
func NewMockPaymentRepository() *MockPaymentRepository {
	return &MockPaymentRepository{
		payments: make(map[string]*domain.Payment),
		info:     make(map[string]shipmentInfo),
	}
}

// AddPayment adds a payment to the mock repository.
func (m *MockPaymentRepository) AddPayment(payment *domain.Payment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payments[payment.ID] = payment
	m.order = append(m.order, payment.ID)
}

// SetShipmentInfo registers the display fields List joins in for a shipment.
func (m *MockPaymentRepository) SetShipmentInfo(shipmentID, code, clientID, clientName string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.info[shipmentID] = shipmentInfo{Code: code, ClientID: clientID, ClientName: clientName}
}

// CountPayments returns the number of stored payments.
func (m *MockPaymentRepository) CountPayments() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.payments)
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *payment
	m.payments[payment.ID] = &copy
	m.order = append(m.order, payment.ID)
	return nil
}

func (m *MockPaymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	payment, ok := m.payments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *payment
	return &copy, nil
}

func (m *MockPaymentRepository) SumActiveByShipment(ctx context.Context, shipmentID string) (float64, error) {
	if m.SumError != nil {
		return 0, m.SumError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var sum float64
	for _, p := range m.payments {
		if p.ShipmentID == shipmentID && p.Status == domain.PaymentStatusActive {
			sum += p.Amount
		}
	}
	return sum, nil
}

func (m *MockPaymentRepository) MarkVoided(ctx context.Context, id string, at time.Time, note string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	payment, ok := m.payments[id]
	if !ok || payment.Status != domain.PaymentStatusActive {
		return repository.ErrNotFound
	}
	payment.Status = domain.PaymentStatusVoided
	payment.VoidedAt = at
	payment.Note = note
	return nil
}

func (m *MockPaymentRepository) List(ctx context.Context, filter repository.PaymentFilter) ([]*domain.PaymentListing, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var matched []*domain.PaymentListing
	for _, id := range m.order {
		p := m.payments[id]
		info := m.info[p.ShipmentID]
		if !m.matches(p, info, filter) {
			continue
		}
		listing := &domain.PaymentListing{
			Payment:      *p,
			ShipmentCode: info.Code,
			ClientID:     info.ClientID,
			ClientName:   info.ClientName,
		}
		matched = append(matched, listing)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)

	if filter.Offset >= total {
		return nil, total, nil
	}
	matched = matched[filter.Offset:]
	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}

	return matched, total, nil
}

func (m *MockPaymentRepository) matches(p *domain.Payment, info shipmentInfo, filter repository.PaymentFilter) bool {
	if filter.ShipmentID != "" && p.ShipmentID != filter.ShipmentID {
		return false
	}
	if filter.ClientID != "" && info.ClientID != filter.ClientID {
		return false
	}
	if filter.Method != "" && p.Method != filter.Method {
		return false
	}
	if !filter.DateFrom.IsZero() && p.PaidAt.Before(filter.DateFrom) {
		return false
	}
	if !filter.DateTo.IsZero() && !p.PaidAt.Before(filter.DateTo) {
		return false
	}
	if filter.Search != "" {
		needle := strings.ToLower(filter.Search)
		haystacks := []string{p.Reference, string(p.Method), info.Code, info.ClientName}
		found := false
		for _, h := range haystacks {
			if strings.Contains(strings.ToLower(h), needle) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// ──────────────────────────────────────────────
// MOCK BALANCE CACHE
// ──────────────────────────────────────────────

// MockBalanceCache is an in-memory implementation of the balance cache.
type MockBalanceCache struct {
	mu       sync.RWMutex
	balances map[string]*redis.CachedBalance

	// Counters for verification
	GetCallCount        int32
	SetCallCount        int32
	InvalidateCallCount int32
}

// NewMockBalanceCache creates a new mock balance cache.
func NewMockBalanceCache() *MockBalanceCache {
	return &MockBalanceCache{
		balances: make(map[string]*redis.CachedBalance),
	}
}

func (m *MockBalanceCache) GetBalance(ctx context.Context, shipmentID string) (*redis.CachedBalance, error) {
	atomic.AddInt32(&m.GetCallCount, 1)
	m.mu.RLock()
	defer m.mu.RUnlock()
	balance, ok := m.balances[shipmentID]
	if !ok {
		return nil, nil
	}
	copy := *balance
	return &copy, nil
}

func (m *MockBalanceCache) SetBalance(ctx context.Context, shipmentID string, balance *redis.CachedBalance) error {
	atomic.AddInt32(&m.SetCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *balance
	m.balances[shipmentID] = &copy
	return nil
}

func (m *MockBalanceCache) InvalidateBalance(ctx context.Context, shipmentID string) error {
	atomic.AddInt32(&m.InvalidateCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.balances, shipmentID)
	return nil
}
