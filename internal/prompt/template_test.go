package prompt

import "testing"

func TestValidateSystemStatic(t *testing.T) {
	tests := []struct {
		name    string
		system  string
		wantErr bool
	}{
		{name: "plain", system: "You are an expert dermatologist."},
		{name: "escaped braces", system: "Use {{ and }} literally."},
		{name: "variable", system: "Hello {user}", wantErr: true},
		{name: "unclosed", system: "Hello {user", wantErr: true},
		{name: "stray close", system: "Hello }", wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateSystemStatic("test.yml", tc.system)
			if tc.wantErr && err == nil {
				t.Fatalf("expected error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}
