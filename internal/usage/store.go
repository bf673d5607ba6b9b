package usage

import (
	"context"
	"time"
)

// Store: 사용량 저장소 인터페이스입니다.
type Store interface {
	// Add 는 해당 날짜 행에 사용량을 누적한다.
	Add(ctx context.Context, delta DailyUsage) error
	// Recent 는 최근 days 일의 일자별 사용량을 최신순으로 반환한다.
	Recent(ctx context.Context, days int, now time.Time) ([]DailyUsage, error)
	Ping(ctx context.Context) error
	Close()
}

var _ Store = (*Repository)(nil)
