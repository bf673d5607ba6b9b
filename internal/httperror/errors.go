package httperror

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/park285/dermacare-server-go/internal/upstream"
)

// ErrorCode 는 응답 본문의 error_code 값이다.
type ErrorCode string

const (
	ErrorCodeInternal        ErrorCode = "INTERNAL_ERROR"
	ErrorCodeValidation      ErrorCode = "VALIDATION_ERROR"
	ErrorCodeUnauthorized    ErrorCode = "UNAUTHORIZED"
	ErrorCodeHTTPRateLimit   ErrorCode = "HTTP_RATE_LIMIT"
	ErrorCodeInvalidInput    ErrorCode = "INVALID_INPUT"
	ErrorCodeMissingField    ErrorCode = "MISSING_FIELD"
	ErrorCodeUpstream        ErrorCode = "UPSTREAM_ERROR"
	ErrorCodeUpstreamTimeout ErrorCode = "UPSTREAM_TIMEOUT"
	// ErrorCodeAggregation: 모델 스트림 조립 실패. 타임아웃이어도 500.
	ErrorCodeAggregation ErrorCode = "AGGREGATION_FAILED"
	ErrorCodeIdentity    ErrorCode = "IDENTITY_ERROR"
)

// kind 는 코드별 기본 상태/타입 묶음이다.
type kind struct {
	code   ErrorCode
	status int
	typ    string
}

var (
	kindInternal        = kind{ErrorCodeInternal, http.StatusInternalServerError, "InternalError"}
	kindValidation      = kind{ErrorCodeValidation, http.StatusBadRequest, "ValidationError"}
	kindUnauthorized    = kind{ErrorCodeUnauthorized, http.StatusUnauthorized, "UnauthorizedError"}
	kindRateLimit       = kind{ErrorCodeHTTPRateLimit, http.StatusTooManyRequests, "HTTPRateLimitExceededError"}
	kindInvalidInput    = kind{ErrorCodeInvalidInput, http.StatusBadRequest, "InvalidInputError"}
	kindMissingField    = kind{ErrorCodeMissingField, http.StatusBadRequest, "MissingFieldError"}
	kindUpstream        = kind{ErrorCodeUpstream, http.StatusInternalServerError, "UpstreamError"}
	kindUpstreamTimeout = kind{ErrorCodeUpstreamTimeout, http.StatusGatewayTimeout, "UpstreamTimeoutError"}
	kindAggregation     = kind{ErrorCodeAggregation, http.StatusInternalServerError, "AggregationError"}
)

// ErrorResponse 는 JSON 오류 본문이다. error 와 message 는 같은 문구를 담는다.
type ErrorResponse struct {
	Error     string         `json:"error"`
	ErrorCode string         `json:"error_code"`
	ErrorType string         `json:"error_type"`
	Message   string         `json:"message"`
	RequestID *string        `json:"request_id"`
	Details   map[string]any `json:"details"`
}

// Error 는 HTTP 상태와 코드가 정해진 오류다.
type Error struct {
	Code    ErrorCode
	Status  int
	Type    string
	Message string
	Details map[string]any
}

func (e *Error) Error() string {
	return e.Message
}

func newError(k kind, message string, details map[string]any) *Error {
	return &Error{Code: k.code, Status: k.status, Type: k.typ, Message: message, Details: details}
}

// Response 는 err 를 상태 코드와 본문으로 바꾼다. requestID 가 비면 null 로 나간다.
func Response(err error, requestID string) (int, ErrorResponse) {
	apiErr := FromError(err)
	if apiErr == nil {
		apiErr = NewInternalError("unknown error")
	}

	body := ErrorResponse{
		Error:     apiErr.Message,
		ErrorCode: string(apiErr.Code),
		ErrorType: apiErr.Type,
		Message:   apiErr.Message,
		Details:   apiErr.Details,
	}
	if requestID != "" {
		body.RequestID = &requestID
	}
	return apiErr.Status, body
}

// FromError 는 체인에서 *Error 를 찾고, 없으면 upstream/timeout/validator 순으로 분류한다.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}

	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}

	var upstreamErr *upstream.Error
	var validationErrors validator.ValidationErrors
	switch {
	case errors.As(err, &upstreamErr):
		return NewUpstreamError("Upstream service failed", err)
	case errors.Is(err, context.DeadlineExceeded):
		return newError(kindUpstreamTimeout, "Request timed out", nil)
	case errors.As(err, &validationErrors):
		return NewValidationError(err)
	default:
		return NewInternalError(err.Error())
	}
}

func NewInternalError(message string) *Error {
	return newError(kindInternal, message, nil)
}

// NewValidationError: binding/validator 실패. 필드별 상세가 details.errors 로 간다.
func NewValidationError(err error) *Error {
	return newError(kindValidation, "Input validation failed", validationDetails(err))
}

// NewMissingField 는 message 가 비어 있으면 기본 문구를 만든다.
func NewMissingField(field string, message string) *Error {
	if message == "" {
		message = fmt.Sprintf("Field '%s' required", field)
	}
	return newError(kindMissingField, message, map[string]any{"field": field})
}

func NewInvalidInput(message string) *Error {
	return newError(kindInvalidInput, message, nil)
}

func NewUnauthorized(message string, details map[string]any) *Error {
	return newError(kindUnauthorized, message, details)
}

func NewRateLimitExceeded(details map[string]any) *Error {
	return newError(kindRateLimit, "Rate limit exceeded", details)
}

// NewUpstreamError 는 외부 서비스 실패를 500 으로, 타임아웃이면 504 로 만든다.
func NewUpstreamError(message string, err error) *Error {
	k := kindUpstream
	if upstream.IsTimeout(err) {
		k = kindUpstreamTimeout
	}
	return newError(k, message, upstreamDetails(err))
}

func NewAggregationFailed(message string, err error) *Error {
	return newError(kindAggregation, message, upstreamDetails(err))
}

// NewIdentityError 는 인증 제공자 메시지를 그대로 싣는다.
func NewIdentityError(status int, err error) *Error {
	message := "identity provider error"
	if err != nil {
		message = err.Error()
	}
	return newError(kind{ErrorCodeIdentity, status, "IdentityError"}, message, nil)
}

func upstreamDetails(err error) map[string]any {
	if err == nil {
		return nil
	}
	details := map[string]any{"upstream": err.Error()}
	var upstreamErr *upstream.Error
	if errors.As(err, &upstreamErr) {
		details["service"] = upstreamErr.Service
		if upstreamErr.StatusCode != 0 {
			details["status_code"] = upstreamErr.StatusCode
		}
	}
	return details
}
