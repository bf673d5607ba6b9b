package assistant

import (
	"embed"
	"errors"
	"strings"

	"github.com/park285/dermacare-server-go/internal/prompt"
)

//go:embed prompts/*.yml
var promptFS embed.FS

const (
	promptDir  = "prompts"
	promptName = "assistant"
)

// Directive: 모든 모델 호출 앞에 붙는 고정 행동 지침입니다. 시작 시 한 번 로드되고 이후 불변입니다.
type Directive struct {
	text string
}

// NewDirective: 주어진 문구로 Directive 를 만듭니다.
func NewDirective(text string) (Directive, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Directive{}, errors.New("assistant directive is empty")
	}
	return Directive{text: text}, nil
}

// LoadDirective: 내장된 prompts/assistant.yml 의 system 항목을 읽습니다.
func LoadDirective() (Directive, error) {
	bundle, err := prompt.LoadBundle(promptFS, promptDir, promptName)
	if err != nil {
		return Directive{}, err
	}
	text, err := bundle.Text(promptName, "system")
	if err != nil {
		return Directive{}, err
	}
	return NewDirective(text)
}

// Text: 지침 원문입니다.
func (d Directive) Text() string {
	return d.text
}
