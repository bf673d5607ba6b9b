package ratelimit

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
)

const defaultStorePort = "6379"

type storeConnInfo struct {
	addr     string
	username string
	password string
	selectDB int
	useTLS   bool
}

// parseStoreURL 은 redis://, rediss:// URL 또는 host[:port] 주소를 받는다.
func parseStoreURL(raw string) (storeConnInfo, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return storeConnInfo{}, errors.New("rate limit store url is empty")
	}
	if !strings.Contains(raw, "://") {
		raw = "redis://" + raw
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return storeConnInfo{}, fmt.Errorf("parse url: %w", err)
	}
	switch strings.ToLower(parsed.Scheme) {
	case "redis", "valkey", "rediss", "valkeys":
	default:
		return storeConnInfo{}, fmt.Errorf("unsupported rate limit store scheme: %s", parsed.Scheme)
	}

	host := parsed.Hostname()
	if host == "" {
		return storeConnInfo{}, errors.New("rate limit store host missing")
	}
	port := parsed.Port()
	if port == "" {
		port = defaultStorePort
	}

	info := storeConnInfo{
		addr:   net.JoinHostPort(host, port),
		useTLS: strings.HasSuffix(strings.ToLower(parsed.Scheme), "s"),
	}
	if parsed.User != nil {
		info.username = parsed.User.Username()
		info.password, _ = parsed.User.Password()
	}
	if path := strings.Trim(parsed.Path, "/"); path != "" {
		db, err := strconv.Atoi(path)
		if err != nil || db < 0 {
			return storeConnInfo{}, fmt.Errorf("invalid rate limit store db: %q", path)
		}
		info.selectDB = db
	}
	return info, nil
}
