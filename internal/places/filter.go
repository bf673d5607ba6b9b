package places

import (
	"strings"

	"golang.org/x/text/cases"
)

// relevantKeywords 는 이름에 하나라도 포함되어야 남는 단어다. 이름 외 필드는 보지 않는다.
var relevantKeywords = []string{"skin", "dermatology"}

// FilterRelevant: 이름에 skin 또는 dermatology 가 (대소문자 무시) 포함된 레코드만 순서대로 남깁니다.
// 일치가 없으면 빈 슬라이스를 반환합니다.
func FilterRelevant(records []Record) []Record {
	fold := cases.Fold()
	kept := make([]Record, 0, len(records))
	for _, record := range records {
		name := fold.String(record.Name())
		for _, keyword := range relevantKeywords {
			if strings.Contains(name, keyword) {
				kept = append(kept, record)
				break
			}
		}
	}
	return kept
}
