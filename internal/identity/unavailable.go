package identity

import (
	"context"

	"github.com/park285/dermacare-server-go/internal/upstream"
)

// Unavailable: 자격 증명이 없을 때 쓰는 Provider 입니다. 모든 호출이 upstream 오류로 끝납니다.
type Unavailable struct{}

func (Unavailable) CreateAccount(context.Context, Account) (string, error) {
	return "", upstream.New(upstream.ServiceIdentity, "create_user", ErrNotConfigured)
}

func (Unavailable) ValidateSession(context.Context, string) (Session, error) {
	return Session{}, upstream.New(upstream.ServiceIdentity, "verify_id_token", ErrNotConfigured)
}
