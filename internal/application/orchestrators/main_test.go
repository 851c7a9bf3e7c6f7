package orchestrators

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"peminatan/internal/domain/account"
)

func init() {
	account.HashCost = bcrypt.MinCost
}

// mockAccountStore is an in-memory account store keyed by ID.
type mockAccountStore struct {
	byID    map[string]account.User
	saveErr error
	saves   int
}

func newMockAccountStore(users ...account.User) *mockAccountStore {
	m := &mockAccountStore{byID: make(map[string]account.User)}
	for _, u := range users {
		m.byID[u.ID] = u
	}
	return m
}

// GetByID implements AccountStoreForTeacher.
func (m *mockAccountStore) GetByID(_ context.Context, id string) (account.User, error) {
	u, ok := m.byID[id]
	if !ok {
		return account.User{}, fmt.Errorf("user not found: %w", sql.ErrNoRows)
	}
	return u, nil
}

// GetByUsername implements AccountStoreForLogin.
func (m *mockAccountStore) GetByUsername(_ context.Context, username string) (account.User, error) {
	for _, u := range m.byID {
		if u.Username == username {
			return u, nil
		}
	}
	return account.User{}, fmt.Errorf("user not found: %w", sql.ErrNoRows)
}

// UsernameTaken implements AccountStoreForTeacher.
func (m *mockAccountStore) UsernameTaken(_ context.Context, username, excludeID string) (bool, error) {
	for _, u := range m.byID {
		if u.Username == username && u.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

// NISNTaken implements AccountStoreForTeacher.
func (m *mockAccountStore) NISNTaken(_ context.Context, nisn, excludeID string) (bool, error) {
	if strings.TrimSpace(nisn) == "" {
		return false, nil
	}
	for _, u := range m.byID {
		if u.NISN == nisn && u.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

// Save implements AccountStoreForTeacher.
func (m *mockAccountStore) Save(_ context.Context, u account.User) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.byID[u.ID] = u
	return nil
}

// Delete implements AccountStoreForTeacher.
func (m *mockAccountStore) Delete(_ context.Context, id string) error {
	if _, ok := m.byID[id]; !ok {
		return fmt.Errorf("user not found: %w", sql.ErrNoRows)
	}
	delete(m.byID, id)
	return nil
}

func sequentialIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

func hashed(t testing.TB, plain string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	return string(h)
}
