package auth

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/iliyamo/inventory-service/internal/model"
	"github.com/iliyamo/inventory-service/internal/queue"
	"github.com/iliyamo/inventory-service/internal/repository"
	"github.com/iliyamo/inventory-service/internal/utils"
)

// memStore is an in-memory UserStore and TokenStore with the same
// not-found and uniqueness semantics as the MySQL repositories.
type memStore struct {
	mu     sync.Mutex
	nextID uint64
	users  map[uint64]model.User
	failOn string
}

func newMemStore() *memStore {
	return &memStore{users: make(map[uint64]model.User)}
}

var errBoom = errors.New("boom")

func (m *memStore) fail(op string) bool { return m.failOn == op }

func (m *memStore) Create(_ context.Context, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail("create") {
		return errBoom
	}
	for _, existing := range m.users {
		if existing.Email == strings.ToLower(u.Email) {
			return repository.ErrEmailExists
		}
	}
	m.nextID++
	u.ID = m.nextID
	m.users[u.ID] = *u
	return nil
}

func (m *memStore) GetByEmail(_ context.Context, email string) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail("get") {
		return model.User{}, errBoom
	}
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, repository.ErrUserNotFound
}

func (m *memStore) GetByID(_ context.Context, id uint64) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail("get") {
		return model.User{}, errBoom
	}
	u, ok := m.users[id]
	if !ok {
		return model.User{}, repository.ErrUserNotFound
	}
	return u, nil
}

func (m *memStore) UpdateRole(_ context.Context, id uint64, role model.Role) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.Role = role
	m.users[id] = u
	return nil
}

func (m *memStore) Store(_ context.Context, userID uint64, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail("store") {
		return errBoom
	}
	u, ok := m.users[userID]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.Token = &token
	m.users[userID] = u
	return nil
}

func (m *memStore) FindUser(_ context.Context, token string) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail("find") {
		return model.User{}, errBoom
	}
	for _, u := range m.users {
		if u.Token != nil && *u.Token == token {
			return u, nil
		}
	}
	return model.User{}, repository.ErrUserNotFound
}

func (m *memStore) Clear(_ context.Context, userID uint64, token string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok || u.Token == nil || *u.Token != token {
		return false, nil
	}
	u.Token = nil
	m.users[userID] = u
	return true, nil
}

func (m *memStore) role(id uint64) model.Role {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.users[id].Role
}

// recorder captures published events.
type recorder struct {
	mu     sync.Mutex
	events []queue.AuthEvent
}

func (r *recorder) Publish(_ context.Context, ev queue.AuthEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

func (r *recorder) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.Type
	}
	return out
}

var fastParams = utils.PasswordParams{Time: 1, Memory: 64, Threads: 1, KeyLen: 32}
