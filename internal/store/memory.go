package store

import (
	"context"
	"fmt"
	"sync"

	"lampions/internal/domain"
)

// Memory is an in-memory implementation of the storage interfaces, used in
// tests and as a stand-in backend.
type Memory struct {
	mu         sync.Mutex
	routes     []domain.Route
	recipients domain.RecipientRelations
	messages   map[string][]byte
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		recipients: make(domain.RecipientRelations),
		messages:   make(map[string][]byte),
	}
}

func (m *Memory) Routes(context.Context) ([]domain.Route, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Route, len(m.routes))
	copy(out, m.routes)
	return out, nil
}

func (m *Memory) PutRoutes(_ context.Context, routes []domain.Route) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.routes = make([]domain.Route, len(routes))
	copy(m.routes, routes)
	return nil
}

func (m *Memory) Recipients(context.Context) (domain.RecipientRelations, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(domain.RecipientRelations, len(m.recipients))
	for alias, forAlias := range m.recipients {
		inner := make(map[string]string, len(forAlias))
		for hash, replyTo := range forAlias {
			inner[hash] = replyTo
		}
		out[alias] = inner
	}
	return out, nil
}

func (m *Memory) PutRecipients(_ context.Context, recipients domain.RecipientRelations) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recipients = make(domain.RecipientRelations, len(recipients))
	for alias, forAlias := range recipients {
		inner := make(map[string]string, len(forAlias))
		for hash, replyTo := range forAlias {
			inner[hash] = replyTo
		}
		m.recipients[alias] = inner
	}
	return nil
}

func (m *Memory) Message(_ context.Context, messageID string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.messages[messageID]
	if !ok {
		return nil, fmt.Errorf("message %q not found", messageID)
	}
	return append([]byte(nil), b...), nil
}

// AddMessage stores a raw message for later retrieval.
func (m *Memory) AddMessage(messageID string, raw []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages[messageID] = append([]byte(nil), raw...)
}

var (
	_ domain.RouteStore     = (*Memory)(nil)
	_ domain.RecipientStore = (*Memory)(nil)
	_ domain.MessageStore   = (*Memory)(nil)
)
