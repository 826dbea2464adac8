package sanitizer

import "testing"

func TestTrimAndNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty string", "", ""},
		{"only whitespace", "   \t\n  ", ""},
		{"leading and trailing spaces", "  board meeting  ", "board meeting"},
		{"internal whitespace collapsed", "weekly   band \t practice", "weekly band practice"},
		{"newlines collapsed", "projector\nand screen", "projector and screen"},
		{"already clean", "clubroom", "clubroom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TrimAndNormalize(tt.input); got != tt.expected {
				t.Errorf("TrimAndNormalize(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalizeStringSlice(t *testing.T) {
	got := NormalizeMemberIDs([]string{" m1 ", "m2", "m1", "", "  "})

	want := []string{"m1", "m2"}
	if len(got) != len(want) {
		t.Fatalf("expected %d ids, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("index %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"plain domain", "Files.Club.Example/report.pdf", "https://files.club.example/report.pdf"},
		{"http upgraded", "http://files.club.example/a", "https://files.club.example/a"},
		{"trailing slash stripped", "https://files.club.example/a/", "https://files.club.example/a"},
		{"garbage", "://", ""},
		{"port without host", "https://:8080/a", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeURL(tt.input); got != tt.expected {
				t.Errorf("NormalizeURL(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
