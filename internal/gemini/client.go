package gemini

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"sync"
	"time"

	"google.golang.org/genai"

	"github.com/park285/dermacare-server-go/internal/config"
	"github.com/park285/dermacare-server-go/internal/llm"
	"github.com/park285/dermacare-server-go/internal/metrics"
	"github.com/park285/dermacare-server-go/internal/upstream"
)

// ErrMissingAPIKey 는 Gemini API 키가 없을 때 반환된다.
var ErrMissingAPIKey = errors.New("missing gemini api key")

// UsageRecorder 는 스트림 종료 시 보고된 토큰 사용량을 받는다.
type UsageRecorder interface {
	Record(ctx context.Context, usage llm.Usage)
}

type streamFunc func(
	ctx context.Context,
	model string,
	contents []*genai.Content,
	config *genai.GenerateContentConfig,
) iter.Seq2[*genai.GenerateContentResponse, error]

// Client 는 Gemini 스트리밍 호출을 담당한다.
type Client struct {
	cfg     config.GeminiConfig
	metrics *metrics.Store
	usage   UsageRecorder
	logger  *slog.Logger

	mu     sync.Mutex
	stream streamFunc
}

// NewClient 는 Gemini 클라이언트를 생성한다. genai 클라이언트는 첫 호출 때 만든다.
func NewClient(cfg *config.Config, metricsStore *metrics.Store, usageRecorder UsageRecorder, logger *slog.Logger) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if metricsStore == nil {
		return nil, errors.New("metrics store is nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:     cfg.Gemini,
		metrics: metricsStore,
		usage:   usageRecorder,
		logger:  logger,
	}, nil
}

// Stream 은 지침과 사용자 메시지를 보내고 응답 조각을 생성 순서대로 내보낸다.
// 연결 실패, 스트림 중단, 타임아웃은 *upstream.Error 로 한 번 내보낸 뒤 끝난다.
func (c *Client) Stream(ctx context.Context, instruction llm.Instruction) iter.Seq2[llm.Fragment, error] {
	return func(yield func(llm.Fragment, error) bool) {
		start := time.Now()
		stream, err := c.streamer(ctx)
		if err != nil {
			failure := upstream.New(upstream.ServiceModel, "connect", err)
			c.metrics.RecordUpstream(upstream.ServiceModel, time.Since(start), failure)
			yield(llm.Fragment{}, failure)
			return
		}

		var usage llm.Usage
		responses := stream(ctx, c.cfg.Model, buildContents(instruction), buildGenerateConfig())
		for response, err := range responses {
			if err != nil {
				failure := streamError(err)
				c.metrics.RecordUpstream(upstream.ServiceModel, time.Since(start), failure)
				c.logger.WarnContext(ctx, "gemini_stream_failed", "err", failure, "model", c.cfg.Model)
				yield(llm.Fragment{}, failure)
				return
			}
			if reported := extractUsage(response); !reported.IsZero() {
				usage = reported
			}
			text := extractText(response)
			if text == "" {
				continue
			}
			if !yield(llm.Fragment{Text: text}, nil) {
				return
			}
		}

		c.metrics.RecordUpstream(upstream.ServiceModel, time.Since(start), nil)
		c.metrics.RecordUsage(usage)
		if c.usage != nil && !usage.IsZero() {
			c.usage.Record(context.WithoutCancel(ctx), usage)
		}
	}
}

// Model 은 호출 대상 모델명을 반환한다.
func (c *Client) Model() string {
	return c.cfg.Model
}

func (c *Client) streamer(ctx context.Context) (streamFunc, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stream != nil {
		return c.stream, nil
	}
	if c.cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	client, err := genai.NewClient(context.WithoutCancel(ctx), &genai.ClientConfig{
		APIKey:  c.cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{
			Timeout: genai.Ptr(c.cfg.Timeout()),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	c.stream = client.Models.GenerateContentStream
	return c.stream, nil
}

func streamError(err error) *upstream.Error {
	failure := upstream.New(upstream.ServiceModel, "stream", err)
	var apiErr genai.APIError
	if errors.As(err, &apiErr) && failure.StatusCode == 0 {
		failure.StatusCode = apiErr.Code
	}
	return failure
}
