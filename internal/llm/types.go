package llm

// Fragment: 모델이 스트리밍으로 생성한 텍스트 조각입니다. 순서대로 한 번만 소비됩니다.
type Fragment struct {
	Text string
}

// Usage: 토큰 사용량 정보를 담습니다.
type Usage struct {
	InputTokens     int `json:"input_tokens"`
	OutputTokens    int `json:"output_tokens"`
	TotalTokens     int `json:"total_tokens"`
	ReasoningTokens int `json:"reasoning_tokens"`
	CachedTokens    int `json:"cached_tokens"`
}

// IsZero: 사용량이 보고되지 않았는지 확인합니다.
func (u Usage) IsZero() bool {
	return u.InputTokens == 0 && u.OutputTokens == 0 && u.TotalTokens == 0
}

// CacheHitRatio: 캐시 적중률을 계산합니다 (0.0 ~ 1.0).
func (u Usage) CacheHitRatio() float64 {
	if u.InputTokens == 0 {
		return 0
	}
	return float64(u.CachedTokens) / float64(u.InputTokens)
}

// Instruction: 모델 호출 한 번에 보내는 두 부분 입력입니다. Directive 가 항상 먼저 갑니다.
type Instruction struct {
	Directive   string
	UserMessage string
}
