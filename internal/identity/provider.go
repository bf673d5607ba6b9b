package identity

import (
	"context"
	"errors"
	"time"
)

// ErrInvalidSession: 세션 토큰이 유효하지 않거나 만료되었습니다.
var ErrInvalidSession = errors.New("invalid session token")

// ErrNotConfigured: 인증 제공자 자격 증명이 설정되지 않았습니다.
var ErrNotConfigured = errors.New("identity provider not configured")

// Account: 계정 생성 요청입니다.
type Account struct {
	Email       string
	Password    string
	DisplayName string
}

// Session: 검증된 세션입니다.
type Session struct {
	UID       string
	Email     string
	ExpiresAt time.Time
}

// Provider: 외부 인증 제공자에 대한 좁은 경계입니다.
// 제공자가 돌려준 식별자와 오류 문구는 바꾸지 않고 그대로 전달합니다.
type Provider interface {
	CreateAccount(ctx context.Context, account Account) (string, error)
	ValidateSession(ctx context.Context, token string) (Session, error)
}
