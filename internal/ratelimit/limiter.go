package ratelimit

import (
	"context"
	"log/slog"
	"time"

	"github.com/park285/dermacare-server-go/internal/config"
)

// Window 는 분당 요청 수 제한의 단위 구간이다.
const Window = time.Minute

// Decision 은 한 요청에 대한 판정이다.
type Decision struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

// Limiter 는 식별자별 요청 수를 제한한다.
type Limiter interface {
	Allow(ctx context.Context, identity string) (Decision, error)
	Close()
}

// New 는 설정에 맞는 Limiter 를 생성한다. 제한이 꺼져 있으면 nil 을 반환한다.
// 저장소 URL 이 있으면 여러 인스턴스가 공유하는 Valkey 카운터를, 없으면 메모리 토큰 버킷을 쓴다.
func New(ctx context.Context, cfg config.HTTPRateLimitConfig, logger *slog.Logger) (Limiter, error) {
	if cfg.RequestsPerMinute <= 0 {
		return nil, nil
	}
	if cfg.StoreURL == "" {
		return NewMemoryLimiter(cfg), nil
	}
	return NewValkeyLimiter(ctx, cfg, logger)
}
