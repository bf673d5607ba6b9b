package assistant

import (
	"context"
	"errors"
	"iter"
	"log/slog"
	"time"

	"github.com/park285/dermacare-server-go/internal/llm"
)

// Streamer: 지침이 붙은 입력을 받아 모델 응답 조각을 생성합니다.
type Streamer interface {
	Stream(ctx context.Context, instruction llm.Instruction) iter.Seq2[llm.Fragment, error]
}

// Service: 지침 주입, 모델 호출, 응답 조립을 묶습니다.
type Service struct {
	directive Directive
	streamer  Streamer
	timeout   time.Duration
	logger    *slog.Logger
}

// NewService: Service 를 생성합니다. timeout 이 0 이하이면 호출자 컨텍스트만 따릅니다.
func NewService(directive Directive, streamer Streamer, timeout time.Duration, logger *slog.Logger) (*Service, error) {
	if streamer == nil {
		return nil, errors.New("streamer is nil")
	}
	if directive.Text() == "" {
		return nil, errors.New("assistant directive is empty")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{directive: directive, streamer: streamer, timeout: timeout, logger: logger}, nil
}

// Reply: message 에 대한 전체 응답을 생성합니다. 실패 시 *AggregationError 를 반환합니다.
func (s *Service) Reply(ctx context.Context, message string) (Reply, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	instruction := BuildInstruction(s.directive, message)
	reply, err := Aggregate(s.streamer.Stream(ctx, instruction))
	if err != nil {
		s.logger.WarnContext(ctx, "assistant_reply_failed", "err", err, "elapsed", time.Since(start))
		return Reply{}, err
	}

	s.logger.DebugContext(ctx, "assistant_reply_done",
		"input_chars", len(message),
		"reply_chars", len(reply.Text),
		"elapsed", time.Since(start),
	)
	return reply, nil
}
