package utils

import (
	"testing"
	"unicode/utf8"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		maxLen int
		want   string
	}{
		{"short string unchanged", "hello", 10, "hello"},
		{"exact length unchanged", "hello", 5, "hello"},
		{"cut", "hello world", 5, "hello..."},
		{"maxLen 0 returns as-is", "x", 0, "x"},
		{"accented title", "Población empadronada", 8, "Població..."},
		{"accented fits", "Población", 9, "Población"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Truncate(tt.in, tt.maxLen)
			if got != tt.want {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.maxLen, got, tt.want)
			}
			if !utf8.ValidString(got) {
				t.Errorf("Truncate(%q, %d) is not valid UTF-8", tt.in, tt.maxLen)
			}
		})
	}
}
