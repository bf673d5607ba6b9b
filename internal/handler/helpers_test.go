package handler

import (
	"context"
	"io"
	"iter"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"

	"github.com/park285/dermacare-server-go/internal/assistant"
	"github.com/park285/dermacare-server-go/internal/llm"
	"github.com/park285/dermacare-server-go/internal/middleware"
	"github.com/park285/dermacare-server-go/internal/places"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// scriptedStreamer 는 미리 정한 조각을 내보내고 호출을 기록한다.
type scriptedStreamer struct {
	calls     []llm.Instruction
	fragments []string
	failAfter error
}

func (s *scriptedStreamer) Stream(_ context.Context, instruction llm.Instruction) iter.Seq2[llm.Fragment, error] {
	s.calls = append(s.calls, instruction)
	return func(yield func(llm.Fragment, error) bool) {
		for _, text := range s.fragments {
			if !yield(llm.Fragment{Text: text}, nil) {
				return
			}
		}
		if s.failAfter != nil {
			yield(llm.Fragment{}, s.failAfter)
		}
	}
}

func newAssistantService(t *testing.T, streamer assistant.Streamer) *assistant.Service {
	t.Helper()
	directive, err := assistant.NewDirective("You are a dermatologist assistant.")
	if err != nil {
		t.Fatalf("directive: %v", err)
	}
	service, err := assistant.NewService(directive, streamer, 0, discardLogger())
	if err != nil {
		t.Fatalf("service: %v", err)
	}
	return service
}

// recordingSearcher 는 고정 결과를 돌려주고 호출 횟수를 센다.
type recordingSearcher struct {
	calls   []places.Query
	records []places.Record
	err     error
}

func (s *recordingSearcher) Nearby(_ context.Context, query places.Query) ([]places.Record, error) {
	s.calls = append(s.calls, query)
	return s.records, s.err
}

func mustRecords(t *testing.T, raws ...string) []places.Record {
	t.Helper()
	records := make([]places.Record, 0, len(raws))
	for _, raw := range raws {
		record, err := places.NewRecord([]byte(raw))
		if err != nil {
			t.Fatalf("record %s: %v", raw, err)
		}
		records = append(records, record)
	}
	return records
}

func newTestEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.RequestID())
	return router
}

func perform(router http.Handler, method string, target string, body string) *httptest.ResponseRecorder {
	var reader io.Reader = http.NoBody
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func decodeBody(t *testing.T, resp *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(resp.Body.Bytes(), out); err != nil {
		t.Fatalf("decode body %q: %v", resp.Body.String(), err)
	}
}

type errorBody struct {
	Error     string         `json:"error"`
	ErrorCode string         `json:"error_code"`
	Message   string         `json:"message"`
	RequestID string         `json:"request_id"`
	Details   map[string]any `json:"details"`
}
