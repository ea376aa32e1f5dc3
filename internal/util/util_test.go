package util

import (
	"strings"
	"testing"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"shorter than max", "hello", 10, "hello"},
		{"exactly max", "hello", 5, "hello"},
		{"cut with no ellipsis", "hello world", 5, "hello"},
		{"empty", "", 5, ""},
		{"multibyte runes counted not bytes", "héllo wörld", 5, "héllo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Truncate(tt.in, tt.max); got != tt.want {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
			}
		})
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Development", "development"},
		{"Read Later", "read-later"},
		{"Go & Rust", "go-and-rust"},
	}

	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestUnixToISO8601(t *testing.T) {
	got := UnixToISO8601(1700000000)
	if got != "2023-11-14T22:13:20Z" {
		t.Errorf("UnixToISO8601(1700000000) = %q", got)
	}

	parsed, err := ParseISO8601(got)
	if err != nil {
		t.Fatalf("ParseISO8601(%q) failed: %v", got, err)
	}
	if parsed.Unix() != 1700000000 {
		t.Errorf("round trip = %d, want 1700000000", parsed.Unix())
	}
}

func TestFirstLine(t *testing.T) {
	if got := FirstLine("first line\nsecond line"); got != "first line" {
		t.Errorf("FirstLine() = %q", got)
	}
	if got := FirstLine("  padded  "); got != "padded" {
		t.Errorf("FirstLine() = %q", got)
	}
	if got := FirstLine(strings.Repeat("a", 3)); got != "aaa" {
		t.Errorf("FirstLine() = %q", got)
	}
}
