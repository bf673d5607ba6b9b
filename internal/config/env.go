package config

import (
	"os"
	"strconv"
	"strings"
	"unicode"
)

// parseGeminiKey: GEMINI_API_KEY 가 없으면 GOOGLE_API_KEY 를 씁니다.
func parseGeminiKey() string {
	return getEnvString("GEMINI_API_KEY", getEnvString("GOOGLE_API_KEY", ""))
}

// splitList: 쉼표 또는 공백으로 구분된 목록을 나눕니다.
func splitList(value string) []string {
	return strings.FieldsFunc(value, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
}

// lookupEnv: 값이 비어 있거나 parse 가 실패하면 def 를 반환합니다.
func lookupEnv[T any](key string, def T, parse func(string) (T, error)) T {
	raw, ok := os.LookupEnv(key)
	raw = strings.TrimSpace(raw)
	if !ok || raw == "" {
		return def
	}
	value, err := parse(raw)
	if err != nil {
		return def
	}
	return value
}

func getEnvString(key string, def string) string {
	return lookupEnv(key, def, func(raw string) (string, error) { return raw, nil })
}

func getEnvInt(key string, def int) int {
	return lookupEnv(key, def, strconv.Atoi)
}

func getEnvNonNegativeInt(key string, def int) int {
	return max(getEnvInt(key, def), 0)
}

func getEnvFloat(key string, def float64) float64 {
	return lookupEnv(key, def, func(raw string) (float64, error) { return strconv.ParseFloat(raw, 64) })
}

func getEnvBool(key string, def bool) bool {
	return lookupEnv(key, def, func(raw string) (bool, error) {
		switch strings.ToLower(raw) {
		case "1", "true", "yes", "y", "on":
			return true, nil
		default:
			return false, nil
		}
	})
}

// maskSecret: 로그용으로 앞뒤 두 글자만 남깁니다.
func maskSecret(value string) string {
	switch {
	case value == "":
		return "<missing>"
	case len(value) <= 4:
		return strings.Repeat("*", len(value))
	default:
		return value[:2] + "***" + value[len(value)-2:]
	}
}
