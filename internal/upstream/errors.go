package upstream

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// Service names used in Error.Service and in metric labels.
const (
	ServiceModel    = "gemini"
	ServicePlaces   = "places"
	ServiceIdentity = "identity"
)

// Error: 외부 서비스 호출 실패입니다. 연결 실패, 비정상 상태 코드, 스트림 중단, 타임아웃을 모두 포함합니다.
type Error struct {
	Service    string
	Op         string
	StatusCode int
	Message    string
	Err        error
}

// New: err 를 Error 로 감쌉니다. 이미 Error 라면 그대로 반환합니다.
func New(service string, op string, err error) *Error {
	var existing *Error
	if errors.As(err, &existing) {
		return existing
	}
	return &Error{Service: service, Op: op, Err: err}
}

// Status: 비정상 HTTP 상태 코드로 끝난 호출을 표현합니다.
func Status(service string, op string, statusCode int, message string) *Error {
	return &Error{Service: service, Op: op, StatusCode: statusCode, Message: message}
}

func (e *Error) Error() string {
	prefix := e.Service
	if e.Op != "" {
		prefix += " " + e.Op
	}
	switch {
	case e.Err != nil && e.Message != "":
		return fmt.Sprintf("%s: %s: %v", prefix, e.Message, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", prefix, e.Err)
	case e.StatusCode != 0 && e.Message != "":
		return fmt.Sprintf("%s: status %d: %s", prefix, e.StatusCode, e.Message)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s: status %d", prefix, e.StatusCode)
	case e.Message != "":
		return fmt.Sprintf("%s: %s", prefix, e.Message)
	default:
		return prefix + ": upstream failure"
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Timeout: 대기 한도가 만료되었거나 제공자가 504 로 응답했는지 여부입니다.
func (e *Error) Timeout() bool {
	if e == nil {
		return false
	}
	if e.StatusCode == http.StatusGatewayTimeout {
		return true
	}
	if e.Err == nil {
		return false
	}
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(e.Err, &netErr) && netErr.Timeout()
}

// IsTimeout: err 체인에 타임아웃된 Error 가 있는지 확인합니다.
func IsTimeout(err error) bool {
	var upstreamErr *Error
	if errors.As(err, &upstreamErr) {
		return upstreamErr.Timeout()
	}
	return false
}
