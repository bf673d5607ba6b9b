package ratelimit

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"github.com/park285/dermacare-server-go/internal/cache"
	"github.com/park285/dermacare-server-go/internal/config"
)

// MemoryLimiter 는 식별자마다 토큰 버킷을 두는 프로세스 내 Limiter 다.
// 오래 쓰이지 않은 버킷은 LRU 로 정리된다.
type MemoryLimiter struct {
	limit    int
	buckets  *cache.TTLCache[string, *rate.Limiter]
	newToken func() *rate.Limiter
}

// NewMemoryLimiter 는 분당 RequestsPerMinute 개, 같은 크기의 버스트를 허용한다.
func NewMemoryLimiter(cfg config.HTTPRateLimitConfig) *MemoryLimiter {
	limit := max(cfg.RequestsPerMinute, 1)
	every := Window / time.Duration(limit)
	return &MemoryLimiter{
		limit:   limit,
		buckets: cache.NewTTLCache[string, *rate.Limiter](cfg.CacheSize, time.Duration(cfg.CacheTTLSeconds)*time.Second),
		newToken: func() *rate.Limiter {
			return rate.NewLimiter(rate.Every(every), limit)
		},
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, identity string) (Decision, error) {
	bucket := l.buckets.GetOrCreate(identity, l.newToken)
	reservation := bucket.Reserve()
	if delay := reservation.Delay(); delay > 0 {
		reservation.Cancel()
		return Decision{Allowed: false, RetryAfter: delay}, nil
	}
	return Decision{Allowed: true, Remaining: int(bucket.Tokens())}, nil
}

func (l *MemoryLimiter) Close() {}
