package models

import "testing"

func TestDisplayName(t *testing.T) {
	tests := []struct {
		name string
		full string
		want string
	}{
		{"first and last", "Jordan Smith", "Jordan S."},
		{"single name", "Cher", "Cher"},
		{"middle name", "Ana Maria Costa", "Ana C."},
		{"extra spaces", "  Li   Wei  ", "Li W."},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		got := User{Name: tt.full}.DisplayName()
		if got != tt.want {
			t.Errorf("%s: DisplayName(%q) = %q, want %q", tt.name, tt.full, got, tt.want)
		}
	}
}
