package slug

import (
	"strings"
	"testing"
)

func TestGenerateGuestSlug(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		s, err := GenerateGuestSlug()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(s) != len(Prefix)+6 {
			t.Errorf("expected length %d, got %q", len(Prefix)+6, s)
		}
		if !IsValid(s) {
			t.Errorf("generated slug %q is not valid", s)
		}
		seen[s] = true
	}
	if len(seen) < 45 {
		t.Errorf("expected mostly unique slugs, got %d distinct of 50", len(seen))
	}
}

func TestGenerateBusinessSlug(t *testing.T) {
	s, err := GenerateBusinessSlug("Sweet Dreams Bakery!")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.HasPrefix(s, "vox-sweet-dreams-bakery-") {
		t.Errorf("unexpected slug %q", s)
	}
	if !IsValid(s) {
		t.Errorf("slug %q is not valid", s)
	}

	fallback, err := GenerateBusinessSlug("!!!")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(fallback) != len(Prefix)+6 {
		t.Errorf("expected guest slug fallback, got %q", fallback)
	}
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  Sweet Dreams  ", "sweet-dreams"},
		{"Joe's Café & Bar", "joes-caf-bar"},
		{"a -- b", "a-b"},
		{"this is a very long business name indeed", "this-is-a-very-long-business-n"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := Sanitize(tt.in); got != tt.want {
			t.Errorf("Sanitize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIsValid(t *testing.T) {
	valid := []string{"vox-abc123", "vox-sweet-dreams-x1z"}
	invalid := []string{"", "vox-", "abc", "vox-ABC", "vox-a_b", "VOX-abc", "vox-abc/../x"}

	for _, s := range valid {
		if !IsValid(s) {
			t.Errorf("expected %q to be valid", s)
		}
	}
	for _, s := range invalid {
		if IsValid(s) {
			t.Errorf("expected %q to be invalid", s)
		}
	}
}
