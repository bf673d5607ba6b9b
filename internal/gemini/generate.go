package gemini

import (
	"strings"

	"google.golang.org/genai"

	"github.com/park285/dermacare-server-go/internal/llm"
)

// 생성 파라미터는 고정값이다. 설정으로 바꿀 수 없다.
const (
	Temperature     float32 = 1.0
	TopP            float32 = 0.95
	TopK            float32 = 40
	MaxOutputTokens int32   = 8192
	ResponseMIME            = "text/plain"
)

func buildGenerateConfig() *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(Temperature),
		TopP:             genai.Ptr(TopP),
		TopK:             genai.Ptr(TopK),
		MaxOutputTokens:  MaxOutputTokens,
		ResponseMIMEType: ResponseMIME,
	}
}

// buildContents: 지침을 model 역할로 먼저, 사용자 메시지를 user 역할로 뒤에 둔다.
func buildContents(instruction llm.Instruction) []*genai.Content {
	return []*genai.Content{
		genai.NewContentFromText(instruction.Directive, genai.RoleModel),
		genai.NewContentFromText(instruction.UserMessage, genai.RoleUser),
	}
}

func extractText(response *genai.GenerateContentResponse) string {
	if response == nil || len(response.Candidates) == 0 {
		return ""
	}
	content := response.Candidates[0].Content
	if content == nil || len(content.Parts) == 0 {
		return ""
	}

	var builder strings.Builder
	for _, part := range content.Parts {
		if part == nil || part.Text == "" || part.Thought {
			continue
		}
		builder.WriteString(part.Text)
	}
	return builder.String()
}

func extractUsage(response *genai.GenerateContentResponse) llm.Usage {
	if response == nil || response.UsageMetadata == nil {
		return llm.Usage{}
	}
	usage := response.UsageMetadata
	return llm.Usage{
		InputTokens:     int(usage.PromptTokenCount),
		OutputTokens:    int(usage.CandidatesTokenCount) + int(usage.ThoughtsTokenCount),
		TotalTokens:     int(usage.TotalTokenCount),
		ReasoningTokens: int(usage.ThoughtsTokenCount),
		CachedTokens:    int(usage.CachedContentTokenCount),
	}
}
