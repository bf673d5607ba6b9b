package ratelimit

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/valkey-io/valkey-go"

	"github.com/park285/dermacare-server-go/internal/config"
)

const keyPrefix = "dermacare:ratelimit:"

// ValkeyLimiter 는 Valkey INCR 기반 고정 구간 카운터다. 여러 서버 인스턴스가 한도를 공유한다.
type ValkeyLimiter struct {
	client valkey.Client
	limit  int
	now    func() time.Time
}

// NewValkeyLimiter 는 저장소에 연결한다. 연결은 설정된 횟수만큼 재시도한다.
func NewValkeyLimiter(ctx context.Context, cfg config.HTTPRateLimitConfig, logger *slog.Logger) (*ValkeyLimiter, error) {
	conn, err := parseStoreURL(cfg.StoreURL)
	if err != nil {
		return nil, fmt.Errorf("parse rate limit store url: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	var tlsConfig *tls.Config
	if conn.useTLS {
		host, _, splitErr := net.SplitHostPort(conn.addr)
		if splitErr != nil {
			return nil, fmt.Errorf("parse rate limit store addr: %w", splitErr)
		}
		tlsConfig = &tls.Config{MinVersion: tls.VersionTLS12, ServerName: host}
	}

	retry := backoff.WithContext(
		backoff.WithMaxRetries(
			backoff.NewConstantBackOff(time.Duration(cfg.ConnectRetrySeconds)*time.Second),
			uint64(max(cfg.ConnectMaxAttempts, 1)-1),
		),
		ctx,
	)
	client, err := backoff.RetryNotifyWithData(func() (valkey.Client, error) {
		return valkey.NewClient(valkey.ClientOption{
			TLSConfig:    tlsConfig,
			Username:     conn.username,
			Password:     conn.password,
			InitAddress:  []string{conn.addr},
			SelectDB:     conn.selectDB,
			DisableCache: true,
		})
	}, retry, func(err error, wait time.Duration) {
		logger.Warn("rate_limit_store_connect_retry", "err", err, "retry_in", wait)
	})
	if err != nil {
		return nil, fmt.Errorf("connect to valkey: %w", err)
	}

	logger.Info("rate_limit_store_connected", "addr", conn.addr, "limit_per_minute", cfg.RequestsPerMinute)
	return &ValkeyLimiter{client: client, limit: max(cfg.RequestsPerMinute, 1), now: time.Now}, nil
}

func (l *ValkeyLimiter) Allow(ctx context.Context, identity string) (Decision, error) {
	now := l.now()
	window := now.Unix() / int64(Window/time.Second)
	key := keyPrefix + identity + ":" + strconv.FormatInt(window, 10)

	count, err := l.client.Do(ctx, l.client.B().Incr().Key(key).Build()).AsInt64()
	if err != nil {
		return Decision{}, fmt.Errorf("incr rate limit counter: %w", err)
	}
	if count == 1 {
		expire := l.client.B().Expire().Key(key).Seconds(int64(2 * Window / time.Second)).Build()
		if err := l.client.Do(ctx, expire).Error(); err != nil {
			return Decision{}, fmt.Errorf("expire rate limit counter: %w", err)
		}
	}

	if count > int64(l.limit) {
		windowEnd := time.Unix((window+1)*int64(Window/time.Second), 0)
		return Decision{Allowed: false, RetryAfter: windowEnd.Sub(now)}, nil
	}
	return Decision{Allowed: true, Remaining: l.limit - int(count)}, nil
}

// Ping 은 저장소 상태를 확인한다.
func (l *ValkeyLimiter) Ping(ctx context.Context) error {
	if l == nil || l.client == nil {
		return errors.New("rate limit store not connected")
	}
	if err := l.client.Do(ctx, l.client.B().Ping().Build()).Error(); err != nil {
		return fmt.Errorf("ping valkey: %w", err)
	}
	return nil
}

func (l *ValkeyLimiter) Close() {
	if l != nil && l.client != nil {
		l.client.Close()
	}
}
