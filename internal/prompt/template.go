package prompt

import (
	"fmt"
	"strings"
)

// ValidateSystemStatic 은 system 지시문에 {name} 치환 변수가 없는지 본다.
// {{ 와 }} 는 리터럴 중괄호.
func ValidateSystemStatic(name string, system string) error {
	rest := strings.NewReplacer("{{", "", "}}", "").Replace(system)
	open := strings.IndexByte(rest, '{')
	closing := strings.IndexByte(rest, '}')

	switch {
	case open < 0 && closing < 0:
		return nil
	case open >= 0 && closing > open:
		return fmt.Errorf("%s: system prompt must not contain template variables %q", name, rest[open+1:closing])
	default:
		return fmt.Errorf("%s: unbalanced brace in system prompt", name)
	}
}
