package middleware

import (
	"bufio"
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	json "github.com/goccy/go-json"
)

// captureLogs 는 JSON 핸들러 출력을 줄 단위 map 으로 돌려준다.
func captureLogs(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var lines []map[string]any
	scanner := bufio.NewScanner(buf)
	for scanner.Scan() {
		entry := map[string]any{}
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			t.Fatalf("decode log line %q: %v", scanner.Text(), err)
		}
		lines = append(lines, entry)
	}
	return lines
}

func serveLogged(path string, status int, uid string) *bytes.Buffer {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	router := gin.New()
	router.Use(RequestID(), RequestLogger(logger))
	router.GET(path, func(c *gin.Context) {
		if uid != "" {
			c.Set(sessionUIDKey, uid)
		}
		c.Status(status)
	})

	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set(RequestIDHeader, "req-log")
	router.ServeHTTP(httptest.NewRecorder(), req)
	return &buf
}

func TestRequestLoggerLevels(t *testing.T) {
	tests := []struct {
		name   string
		status int
		level  string
	}{
		{name: "success", status: http.StatusOK, level: "DEBUG"},
		{name: "client error", status: http.StatusBadRequest, level: "WARN"},
		{name: "rate limited", status: http.StatusTooManyRequests, level: "WARN"},
		{name: "server error", status: http.StatusInternalServerError, level: "ERROR"},
		{name: "upstream timeout", status: http.StatusGatewayTimeout, level: "ERROR"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			lines := captureLogs(t, serveLogged("/api/clinics", tc.status, ""))
			if len(lines) != 1 {
				t.Fatalf("expected one log line, got %d", len(lines))
			}
			line := lines[0]
			if line["level"] != tc.level {
				t.Fatalf("level = %v, want %s", line["level"], tc.level)
			}
			if line["msg"] != "http_request" || line["request_id"] != "req-log" {
				t.Fatalf("unexpected line: %v", line)
			}
			if line["method"] != http.MethodGet || line["path"] != "/api/clinics" {
				t.Fatalf("unexpected request fields: %v", line)
			}
			if status, _ := line["status"].(float64); int(status) != tc.status {
				t.Fatalf("status = %v, want %d", line["status"], tc.status)
			}
			if _, ok := line["uid"]; ok {
				t.Fatalf("uid should be absent without a session")
			}
		})
	}
}

func TestRequestLoggerProbePaths(t *testing.T) {
	for _, path := range []string{"/health", "/health/ready", "/health/models", "/metrics"} {
		if lines := captureLogs(t, serveLogged(path, http.StatusOK, "")); len(lines) != 0 {
			t.Fatalf("%s: expected no log on success, got %d", path, len(lines))
		}
	}

	lines := captureLogs(t, serveLogged("/health/ready", http.StatusServiceUnavailable, ""))
	if len(lines) != 1 || lines[0]["level"] != "ERROR" {
		t.Fatalf("failing probe should be logged, got %v", lines)
	}
}

func TestRequestLoggerIncludesSessionUID(t *testing.T) {
	lines := captureLogs(t, serveLogged("/ai-response", http.StatusUnauthorized, "uid-7"))
	if len(lines) != 1 {
		t.Fatalf("expected one log line, got %d", len(lines))
	}
	if lines[0]["uid"] != "uid-7" {
		t.Fatalf("expected uid attr, got %v", lines[0]["uid"])
	}
}
