package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mizanhq/mizan/internal/domain"
	"github.com/mizanhq/mizan/internal/usecase"
)

// MockPartyRepository is a mock implementation of PartyRepository.
type MockPartyRepository struct {
	mu      sync.RWMutex
	parties map[string]*domain.Party

	CreateFunc                  func(ctx context.Context, tx usecase.Transaction, party *domain.Party) error
	GetByIDFunc                 func(ctx context.Context, id string) (*domain.Party, error)
	GetByCodeFunc               func(ctx context.Context, code string) (*domain.Party, error)
	GetByIDForUpdateFunc        func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Party, error)
	GetByIDsForUpdateFunc       func(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Party, error)
	UpdateBalanceFunc           func(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error
	RefreshTransactionRangeFunc func(ctx context.Context, tx usecase.Transaction, id string) error
	SetStatusFunc               func(ctx context.Context, id string, status domain.PartyStatus, updatedAt time.Time) error
	ListFunc                    func(ctx context.Context, kind *domain.PartyKind, limit, offset int) ([]*domain.Party, error)
}

func NewMockPartyRepository() *MockPartyRepository {
	return &MockPartyRepository{
		parties: make(map[string]*domain.Party),
	}
}

// Seed stores a party directly, bypassing any Func overrides.
func (m *MockPartyRepository) Seed(party *domain.Party) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.parties[party.ID] = party
}

func (m *MockPartyRepository) Create(ctx context.Context, tx usecase.Transaction, party *domain.Party) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, party)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.parties[party.ID] = party
	return nil
}

func (m *MockPartyRepository) GetByID(ctx context.Context, id string) (*domain.Party, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p, ok := m.parties[id]; ok {
		return p, nil
	}
	return nil, domain.ErrPartyNotFound
}

func (m *MockPartyRepository) GetByCode(ctx context.Context, code string) (*domain.Party, error) {
	if m.GetByCodeFunc != nil {
		return m.GetByCodeFunc(ctx, code)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.parties {
		if p.Code == code {
			return p, nil
		}
	}
	return nil, domain.ErrPartyNotFound
}

func (m *MockPartyRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Party, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockPartyRepository) GetByIDsForUpdate(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Party, error) {
	if m.GetByIDsForUpdateFunc != nil {
		return m.GetByIDsForUpdateFunc(ctx, tx, ids)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	parties := make([]*domain.Party, 0, len(ids))
	for _, id := range ids {
		if p, ok := m.parties[id]; ok {
			parties = append(parties, p)
		}
	}
	return parties, nil
}

func (m *MockPartyRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error {
	if m.UpdateBalanceFunc != nil {
		return m.UpdateBalanceFunc(ctx, tx, id, balance, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.parties[id]
	if !ok {
		return domain.ErrPartyNotFound
	}
	p.Balance = balance
	p.UpdatedAt = updatedAt
	return nil
}

func (m *MockPartyRepository) RefreshTransactionRange(ctx context.Context, tx usecase.Transaction, id string) error {
	if m.RefreshTransactionRangeFunc != nil {
		return m.RefreshTransactionRangeFunc(ctx, tx, id)
	}
	return nil
}

func (m *MockPartyRepository) SetStatus(ctx context.Context, id string, status domain.PartyStatus, updatedAt time.Time) error {
	if m.SetStatusFunc != nil {
		return m.SetStatusFunc(ctx, id, status, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.parties[id]
	if !ok {
		return domain.ErrPartyNotFound
	}
	p.Status = status
	p.UpdatedAt = updatedAt
	return nil
}

func (m *MockPartyRepository) List(ctx context.Context, kind *domain.PartyKind, limit, offset int) ([]*domain.Party, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, kind, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var parties []*domain.Party
	for _, p := range m.parties {
		if kind == nil || p.Kind == *kind {
			parties = append(parties, p)
		}
	}
	return parties, nil
}

// MockDocumentRepository is a mock implementation of DocumentRepository.
// Insertion order is preserved so ListInCreationOrder behaves like the real
// repository.
type MockDocumentRepository struct {
	mu    sync.RWMutex
	docs  map[string]*domain.Document
	order []string

	CreateFunc              func(ctx context.Context, tx usecase.Transaction, doc *domain.Document) error
	GetByIDFunc             func(ctx context.Context, id string) (*domain.Document, error)
	GetByIDForUpdateFunc    func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Document, error)
	UpdateFunc              func(ctx context.Context, tx usecase.Transaction, doc *domain.Document) error
	DeleteFunc              func(ctx context.Context, tx usecase.Transaction, id string) error
	ListByPartyFunc         func(ctx context.Context, partyID string, limit, offset int) ([]*domain.Document, error)
	ListForStatementFunc    func(ctx context.Context, partyID string, from, to *time.Time) ([]*domain.Document, error)
	ListInCreationOrderFunc func(ctx context.Context, tx usecase.Transaction, partyID string) ([]*domain.Document, error)
}

func NewMockDocumentRepository() *MockDocumentRepository {
	return &MockDocumentRepository{
		docs: make(map[string]*domain.Document),
	}
}

func (m *MockDocumentRepository) Create(ctx context.Context, tx usecase.Transaction, doc *domain.Document) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, doc)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *doc
	m.docs[doc.ID] = &copied
	m.order = append(m.order, doc.ID)
	return nil
}

func (m *MockDocumentRepository) GetByID(ctx context.Context, id string) (*domain.Document, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if d, ok := m.docs[id]; ok {
		copied := *d
		return &copied, nil
	}
	return nil, domain.ErrDocumentNotFound
}

func (m *MockDocumentRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Document, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockDocumentRepository) Update(ctx context.Context, tx usecase.Transaction, doc *domain.Document) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, tx, doc)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.docs[doc.ID]; !ok {
		return domain.ErrDocumentNotFound
	}
	copied := *doc
	m.docs[doc.ID] = &copied
	return nil
}

func (m *MockDocumentRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, tx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.docs[id]; !ok {
		return domain.ErrDocumentNotFound
	}
	delete(m.docs, id)
	for i, oid := range m.order {
		if oid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *MockDocumentRepository) ListByParty(ctx context.Context, partyID string, limit, offset int) ([]*domain.Document, error) {
	if m.ListByPartyFunc != nil {
		return m.ListByPartyFunc(ctx, partyID, limit, offset)
	}
	docs := m.listInOrder(partyID)
	if offset >= len(docs) {
		return nil, nil
	}
	docs = docs[offset:]
	if limit > 0 && limit < len(docs) {
		docs = docs[:limit]
	}
	return docs, nil
}

func (m *MockDocumentRepository) ListForStatement(ctx context.Context, partyID string, from, to *time.Time) ([]*domain.Document, error) {
	if m.ListForStatementFunc != nil {
		return m.ListForStatementFunc(ctx, partyID, from, to)
	}
	var docs []*domain.Document
	for _, d := range m.listInOrder(partyID) {
		if from != nil && d.DocDate.Before(*from) {
			continue
		}
		if to != nil && d.DocDate.After(*to) {
			continue
		}
		docs = append(docs, d)
	}
	return docs, nil
}

func (m *MockDocumentRepository) ListInCreationOrder(ctx context.Context, tx usecase.Transaction, partyID string) ([]*domain.Document, error) {
	if m.ListInCreationOrderFunc != nil {
		return m.ListInCreationOrderFunc(ctx, tx, partyID)
	}
	return m.listInOrder(partyID), nil
}

func (m *MockDocumentRepository) listInOrder(partyID string) []*domain.Document {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var docs []*domain.Document
	for _, id := range m.order {
		d := m.docs[id]
		if d.PartyID == partyID {
			copied := *d
			docs = append(docs, &copied)
		}
	}
	return docs
}

// MockOutboxRepository is a mock implementation of OutboxRepository.
type MockOutboxRepository struct {
	mu     sync.Mutex
	Events []*domain.OutboxEvent

	CreateFunc         func(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error
	GetUnpublishedFunc func(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublishedFunc  func(ctx context.Context, id string, publishedAt time.Time) error
}

func NewMockOutboxRepository() *MockOutboxRepository {
	return &MockOutboxRepository{}
}

func (m *MockOutboxRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, event)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, event)
	return nil
}

func (m *MockOutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	if m.GetUnpublishedFunc != nil {
		return m.GetUnpublishedFunc(ctx, limit)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var events []*domain.OutboxEvent
	for _, e := range m.Events {
		if !e.Published {
			events = append(events, e)
		}
		if limit > 0 && len(events) == limit {
			break
		}
	}
	return events, nil
}

func (m *MockOutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	if m.MarkPublishedFunc != nil {
		return m.MarkPublishedFunc(ctx, id, publishedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.Events {
		if e.ID == id {
			e.Published = true
			e.PublishedAt = &publishedAt
			return nil
		}
	}
	return fmt.Errorf("outbox event %s not found", id)
}

func (m *MockOutboxRepository) DeletePublished(ctx context.Context, before time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.Events[:0]
	for _, e := range m.Events {
		if !e.Published || e.PublishedAt == nil || !e.PublishedAt.Before(before) {
			kept = append(kept, e)
		}
	}
	m.Events = kept
	return nil
}

// MockActionLogRepository is a mock implementation of ActionLogRepository.
type MockActionLogRepository struct {
	mu   sync.Mutex
	Logs []*domain.ActionLog

	CreateFunc func(ctx context.Context, log *domain.ActionLog) error
	ListFunc   func(ctx context.Context, filter domain.ActionFilter) ([]*domain.ActionLog, error)
}

func NewMockActionLogRepository() *MockActionLogRepository {
	return &MockActionLogRepository{}
}

func (m *MockActionLogRepository) Create(ctx context.Context, log *domain.ActionLog) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, log)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, log)
	return nil
}

func (m *MockActionLogRepository) CreateTx(ctx context.Context, tx usecase.Transaction, log *domain.ActionLog) error {
	return m.Create(ctx, log)
}

func (m *MockActionLogRepository) List(ctx context.Context, filter domain.ActionFilter) ([]*domain.ActionLog, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var logs []*domain.ActionLog
	for _, l := range m.Logs {
		if filter.Action != "" && l.Action != filter.Action {
			continue
		}
		if filter.ResourceType != "" && l.ResourceType != filter.ResourceType {
			continue
		}
		if filter.ResourceID != "" && l.ResourceID != filter.ResourceID {
			continue
		}
		logs = append(logs, l)
	}
	return logs, nil
}

// MockLedgerRepository is a mock implementation of LedgerRepository.
type MockLedgerRepository struct {
	FindDriftsFunc func(ctx context.Context) ([]*usecase.PartyDrift, error)
	SummaryFunc    func(ctx context.Context) (*usecase.LedgerSummary, error)
}

func NewMockLedgerRepository() *MockLedgerRepository {
	return &MockLedgerRepository{}
}

func (m *MockLedgerRepository) FindDrifts(ctx context.Context) ([]*usecase.PartyDrift, error) {
	if m.FindDriftsFunc != nil {
		return m.FindDriftsFunc(ctx)
	}
	return nil, nil
}

func (m *MockLedgerRepository) Summary(ctx context.Context) (*usecase.LedgerSummary, error) {
	if m.SummaryFunc != nil {
		return m.SummaryFunc(ctx)
	}
	return &usecase.LedgerSummary{}, nil
}

// MockTransaction is a mock implementation of Transaction.
type MockTransaction struct {
	Committed  bool
	RolledBack bool

	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx)
	}
	m.Committed = true
	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}
	if !m.Committed {
		m.RolledBack = true
	}
	return nil
}

// MockTransactionManager is a mock implementation of TransactionManager.
type MockTransactionManager struct {
	mu           sync.Mutex
	Transactions []*MockTransaction

	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	tx := &MockTransaction{}
	m.Transactions = append(m.Transactions, tx)
	return tx, nil
}

// MockIDGenerator generates deterministic sequential IDs.
type MockIDGenerator struct {
	mu   sync.Mutex
	next int

	GenerateFunc func() string
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	return fmt.Sprintf("id-%d", m.next)
}

// MockCache is an in-memory Cache implementation. TTLs are ignored.
type MockCache struct {
	mu   sync.RWMutex
	data map[string][]byte

	GetFunc func(ctx context.Context, key string) ([]byte, error)
	SetFunc func(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

func NewMockCache() *MockCache {
	return &MockCache{data: make(map[string][]byte)}
}

func (m *MockCache) Get(ctx context.Context, key string) ([]byte, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return nil, fmt.Errorf("cache miss: %s", key)
}

func (m *MockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}
