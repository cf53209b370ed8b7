package users

import (
	"context"
	"strings"
	"sync"
)

// MemoryRepository backs tests and runs without MongoDB.
type MemoryRepository struct {
	mu    sync.Mutex
	users map[string]User
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{users: make(map[string]User)}
}

func (m *MemoryRepository) Create(ctx context.Context, u User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Username == u.Username || (u.Email != "" && existing.Email == u.Email) {
			return ErrDuplicate
		}
	}
	m.users[u.ID] = u
	return nil
}

func (m *MemoryRepository) FindByLogin(ctx context.Context, login string) (User, error) {
	login = strings.TrimSpace(login)
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == login || (u.Email != "" && u.Email == strings.ToLower(login)) {
			return u, nil
		}
	}
	return User{}, ErrNotFound
}

func (m *MemoryRepository) FindByID(ctx context.Context, id string) (User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}
