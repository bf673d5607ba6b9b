// Package identitytest provides an in-memory identity.Provider for tests.
package identitytest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/park285/dermacare-server-go/internal/identity"
)

// ErrEmailExists mirrors the provider message for a duplicate account.
var ErrEmailExists = errors.New("user with the provided email already exists")

// Fake: 메모리 기반 Provider 입니다.
type Fake struct {
	mu        sync.Mutex
	accounts  map[string]identity.Account
	sessions  map[string]identity.Session
	nextID    int
	CreateErr error
	Calls     int
}

// NewFake 는 비어 있는 Fake 를 생성한다.
func NewFake() *Fake {
	return &Fake{
		accounts: make(map[string]identity.Account),
		sessions: make(map[string]identity.Session),
	}
}

// IssueToken: uid 에 대한 유효한 토큰을 등록한다.
func (f *Fake) IssueToken(token string, uid string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions[token] = identity.Session{UID: uid, ExpiresAt: time.Now().Add(time.Hour)}
}

func (f *Fake) CreateAccount(_ context.Context, account identity.Account) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls++

	if f.CreateErr != nil {
		return "", f.CreateErr
	}
	for _, existing := range f.accounts {
		if existing.Email == account.Email {
			return "", ErrEmailExists
		}
	}
	f.nextID++
	uid := fmt.Sprintf("uid-%d", f.nextID)
	f.accounts[uid] = account
	return uid, nil
}

func (f *Fake) ValidateSession(_ context.Context, token string) (identity.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls++

	session, ok := f.sessions[token]
	if !ok {
		return identity.Session{}, fmt.Errorf("%w: unknown token", identity.ErrInvalidSession)
	}
	return session, nil
}

var _ identity.Provider = (*Fake)(nil)
