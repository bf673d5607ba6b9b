package places

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/park285/dermacare-server-go/internal/config"
	"github.com/park285/dermacare-server-go/internal/metrics"
	"github.com/park285/dermacare-server-go/internal/upstream"
)

// ErrMissingAPIKey: 장소 API 키가 설정되지 않았습니다.
var ErrMissingAPIKey = errors.New("missing places api key")

// 응답 본문의 status 값입니다. 나머지는 모두 실패로 봅니다.
const (
	statusOK          = "OK"
	statusZeroResults = "ZERO_RESULTS"
)

const maxResponseBytes = 4 << 20

type nearbyResponse struct {
	Results      []Record `json:"results"`
	Status       string   `json:"status"`
	ErrorMessage string   `json:"error_message"`
}

// Client: Nearby Search 클라이언트입니다.
type Client struct {
	baseURL    string
	apiKey     string
	timeout    time.Duration
	httpClient *http.Client
	metrics    *metrics.Store
	logger     *slog.Logger
}

// NewClient: 장소 클라이언트를 생성합니다. httpClient 가 nil 이면 트레이싱 transport 를 씁니다.
func NewClient(cfg config.PlacesConfig, httpClient *http.Client, metricsStore *metrics.Store, logger *slog.Logger) (*Client, error) {
	if metricsStore == nil {
		return nil, errors.New("metrics store is nil")
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil || cfg.BaseURL == "" {
		return nil, fmt.Errorf("invalid places base url: %q", cfg.BaseURL)
	}
	if httpClient == nil {
		httpClient = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		timeout:    cfg.Timeout(),
		httpClient: httpClient,
		metrics:    metricsStore,
		logger:     logger.With(slog.String("component", "places-client")),
	}, nil
}

// Nearby: 좌표 주변의 피부과 병원을 한 번 조회합니다. 제공자 순서를 그대로 유지합니다.
func (c *Client) Nearby(ctx context.Context, query Query) ([]Record, error) {
	start := time.Now()
	records, err := c.nearby(ctx, query)
	c.metrics.RecordUpstream(upstream.ServicePlaces, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (c *Client) nearby(ctx context.Context, query Query) ([]Record, error) {
	if c.apiKey == "" {
		return nil, upstream.New(upstream.ServicePlaces, "nearby", ErrMissingAPIKey)
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(query), http.NoBody)
	if err != nil {
		return nil, upstream.New(upstream.ServicePlaces, "nearby", fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, upstream.New(upstream.ServicePlaces, "nearby", fmt.Errorf("http request: %w", withoutURL(err)))
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, upstream.New(upstream.ServicePlaces, "nearby", fmt.Errorf("read response: %w", withoutURL(err)))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.WarnContext(ctx, "places_api_error", slog.Int("status", resp.StatusCode))
		return nil, upstream.Status(upstream.ServicePlaces, "nearby", resp.StatusCode, "")
	}

	var payload nearbyResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, upstream.New(upstream.ServicePlaces, "nearby", fmt.Errorf("parse response: %w", err))
	}

	switch payload.Status {
	case statusOK, statusZeroResults:
	default:
		c.logger.WarnContext(ctx, "places_api_status",
			slog.String("status", payload.Status),
			slog.String("error_message", payload.ErrorMessage))
		message := payload.Status
		if payload.ErrorMessage != "" {
			message += ": " + payload.ErrorMessage
		}
		return nil, upstream.Status(upstream.ServicePlaces, "nearby", resp.StatusCode, message)
	}

	if payload.Results == nil {
		return []Record{}, nil
	}
	return payload.Results, nil
}

// withoutURL 는 *url.Error 에서 요청 URL(key 파라미터 포함)을 떼어낸다.
func withoutURL(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("%s: %w", urlErr.Op, urlErr.Err)
	}
	return err
}

func (c *Client) endpoint(query Query) string {
	params := url.Values{}
	params.Set("location", query.location())
	params.Set("radius", strconv.Itoa(query.Radius))
	params.Set("type", SearchType)
	params.Set("keyword", SearchKeyword)
	params.Set("key", c.apiKey)
	return c.baseURL + "?" + params.Encode()
}
