package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	sessiondomain "github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/session/domain"
	userdomain "github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/user/domain"
	userrepo "github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/user/repository"
)

type mockUserRepo struct {
	mu    sync.Mutex
	users map[string]userdomain.User

	createFunc         func(ctx context.Context, user userdomain.User) error
	findByUsernameFunc func(ctx context.Context, username string) (userdomain.User, error)
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: map[string]userdomain.User{}}
}

func (m *mockUserRepo) Create(ctx context.Context, user userdomain.User) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, user)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.Username]; ok {
		return userrepo.ErrUsernameAlreadyExists
	}
	m.users[user.Username] = user
	return nil
}

func (m *mockUserRepo) FindByUsername(ctx context.Context, username string) (userdomain.User, error) {
	if m.findByUsernameFunc != nil {
		return m.findByUsernameFunc(ctx, username)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[username]
	if !ok {
		return userdomain.User{}, userrepo.ErrUserNotFound
	}
	return user, nil
}

func (m *mockUserRepo) FindByID(_ context.Context, id userdomain.ID) (userdomain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return userdomain.User{}, userrepo.ErrUserNotFound
}

type mockSessions struct {
	openFunc  func(ctx context.Context, identity userdomain.Identity) (sessiondomain.Token, error)
	closeFunc func(ctx context.Context, token sessiondomain.Token) error
	closed    []sessiondomain.Token
}

func (m *mockSessions) Open(ctx context.Context, identity userdomain.Identity) (sessiondomain.Token, error) {
	if m.openFunc != nil {
		return m.openFunc(ctx, identity)
	}
	return sessiondomain.Token("token-for-" + string(identity.ID)), nil
}

func (m *mockSessions) Close(ctx context.Context, token sessiondomain.Token) error {
	m.closed = append(m.closed, token)
	if m.closeFunc != nil {
		return m.closeFunc(ctx, token)
	}
	return nil
}

// plainHasher keeps tests fast; it is not a password hash.
type plainHasher struct {
	hashErr  error
	compared int
}

func (h *plainHasher) Hash(password string) (string, error) {
	if h.hashErr != nil {
		return "", h.hashErr
	}
	return "hashed:" + password, nil
}

func (h *plainHasher) Compare(hash, password string) error {
	h.compared++
	if strings.TrimPrefix(hash, "hashed:") != password {
		return errMismatch
	}
	return nil
}

type sequenceIDGenerator struct {
	mu   sync.Mutex
	next int
}

func (g *sequenceIDGenerator) NewID() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next++
	return fmt.Sprintf("user-%d", g.next), nil
}
