// Package token is the in-memory bearer token storage. A token maps
// back to the account id it was issued for and the role it carries;
// logging out deletes the mapping.
package token

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"sync"
)

var ErrNotFound = errors.New("token not found")

type Token struct {
	AccountID string
	Value     string
	Role      string
}

type Storage struct {
	mutex  sync.RWMutex
	tokens map[string]Token // keyed by token value
}

func NewStorage() *Storage {
	return &Storage{tokens: make(map[string]Token)}
}

// AddToken registers value as a live token for accountID with the
// given role. Issuing a new token does not invalidate older ones; an
// account may be logged in from several clients.
func (ts *Storage) AddToken(accountID, value, role string) {
	ts.mutex.Lock()
	defer ts.mutex.Unlock()
	ts.tokens[value] = Token{AccountID: accountID, Value: value, Role: role}
}

// DeleteToken removes value if it belongs to accountID.
func (ts *Storage) DeleteToken(accountID, value string) error {
	ts.mutex.Lock()
	defer ts.mutex.Unlock()
	stored, ok := ts.tokens[value]
	if !ok {
		return ErrNotFound
	}
	if stored.AccountID != accountID {
		return fmt.Errorf("token does not belong to this account")
	}
	delete(ts.tokens, value)
	return nil
}

func (ts *Storage) GetAccountByToken(value string) (string, error) {
	ts.mutex.RLock()
	defer ts.mutex.RUnlock()
	stored, ok := ts.tokens[value]
	if !ok {
		return "", ErrNotFound
	}
	return stored.AccountID, nil
}

func (ts *Storage) GetRoleByToken(value string) (string, error) {
	ts.mutex.RLock()
	defer ts.mutex.RUnlock()
	stored, ok := ts.tokens[value]
	if !ok {
		return "", ErrNotFound
	}
	return stored.Role, nil
}

const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateToken returns a random 40 character token.
func (*Storage) GenerateToken() string {
	result := make([]byte, 40)
	max := big.NewInt(int64(len(charset)))
	for i := range result {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic(err)
		}
		result[i] = charset[n.Int64()]
	}
	return string(result)
}
