package usage

import (
	"context"
	"log/slog"
	"time"

	"github.com/park285/dermacare-server-go/internal/llm"
)

// Recorder 는 응답 1건의 토큰 사용량을 일자별 집계에 더한다.
type Recorder struct {
	store  Store
	logger *slog.Logger
	now    func() time.Time
}

// NewRecorder 는 Recorder 를 생성한다. 사용량 DB 가 꺼져 있으면 기록하지 않는다.
func NewRecorder(repo *Repository, logger *slog.Logger) *Recorder {
	recorder := &Recorder{logger: logger, now: time.Now}
	if repo.Enabled() {
		recorder.store = repo
	}
	return recorder
}

// Record 는 저장 실패를 경고로만 남긴다. 응답 흐름을 막지 않는다.
func (r *Recorder) Record(ctx context.Context, usage llm.Usage) {
	if r == nil || r.store == nil || usage.IsZero() {
		return
	}

	delta := DailyUsage{
		UsageDate:       r.now(),
		InputTokens:     int64(usage.InputTokens),
		OutputTokens:    int64(usage.OutputTokens),
		ReasoningTokens: int64(usage.ReasoningTokens),
		CachedTokens:    int64(usage.CachedTokens),
		ReplyCount:      1,
	}
	if err := r.store.Add(ctx, delta); err != nil && r.logger != nil {
		r.logger.WarnContext(ctx, "usage_db_save_failed", "err", err)
	}
}
