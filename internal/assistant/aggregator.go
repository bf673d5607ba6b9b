package assistant

import (
	"errors"
	"iter"
	"strings"

	"github.com/park285/dermacare-server-go/internal/llm"
	"github.com/park285/dermacare-server-go/internal/upstream"
)

// Reply: 조각을 모두 이어 붙이고 앞뒤 공백을 제거한 최종 응답입니다.
type Reply struct {
	Text string
}

// AggregationError: 스트림 소비 도중 실패했음을 뜻합니다. 받은 조각은 모두 버려집니다.
type AggregationError struct {
	Cause *upstream.Error
}

func (e *AggregationError) Error() string {
	return "aggregate reply: " + e.Cause.Error()
}

func (e *AggregationError) Unwrap() error {
	return e.Cause
}

// Aggregate: 조각 시퀀스를 끝까지 순서대로 소비합니다. 오류가 나면 부분 결과 없이 AggregationError 를 반환합니다.
func Aggregate(fragments iter.Seq2[llm.Fragment, error]) (Reply, error) {
	var builder strings.Builder
	for fragment, err := range fragments {
		if err != nil {
			return Reply{}, newAggregationError(err)
		}
		builder.WriteString(fragment.Text)
	}
	return Reply{Text: strings.TrimSpace(builder.String())}, nil
}

func newAggregationError(err error) *AggregationError {
	var existing *AggregationError
	if errors.As(err, &existing) {
		return existing
	}
	return &AggregationError{Cause: upstream.New(upstream.ServiceModel, "stream", err)}
}
