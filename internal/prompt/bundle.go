package prompt

import (
	"fmt"
	"io/fs"
)

// Bundle 은 한 디렉터리에서 읽은 프롬프트 묶음이다. label 은 오류 메시지에만 쓰인다.
type Bundle struct {
	label   string
	prompts map[string]map[string]string
}

// LoadBundle 은 dir 아래 YAML 을 모두 읽는다. 파일이 하나도 없으면 오류.
func LoadBundle(fsys fs.FS, dir string, label string) (*Bundle, error) {
	loaded, err := LoadYAMLDir(fsys, dir)
	if err != nil {
		return nil, err
	}
	if len(loaded) == 0 {
		return nil, fmt.Errorf("%s prompts: no yaml files in %s", label, dir)
	}
	return &Bundle{label: label, prompts: loaded}, nil
}

// Text: name 프롬프트의 key 필드.
func (b *Bundle) Text(name string, key string) (string, error) {
	if b == nil || b.prompts == nil {
		return "", fmt.Errorf("prompts not initialized")
	}
	fields, ok := b.prompts[name]
	if !ok {
		return "", fmt.Errorf("%s prompts: %q not found", b.label, name)
	}
	value, ok := fields[key]
	if !ok {
		return "", fmt.Errorf("%s prompts: field %s.%s missing", b.label, name, key)
	}
	return value, nil
}
