package assistant

import "github.com/park285/dermacare-server-go/internal/llm"

// BuildInstruction: 지침과 사용자 메시지를 순서대로 묶습니다.
// 메시지는 손대지 않습니다. 내용 필터링은 모델 지침에 맡깁니다.
func BuildInstruction(directive Directive, message string) llm.Instruction {
	return llm.Instruction{
		Directive:   directive.Text(),
		UserMessage: message,
	}
}
