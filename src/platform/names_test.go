package platform

import "testing"

func TestControlTypeName(t *testing.T) {
	tests := []struct {
		id   int32
		want string
	}{
		{50000, "Button"},
		{50004, "Edit"},
		{50020, "Text"},
		{50032, "Window"},
		{50033, "Pane"},
		{50040, "AppBar"},
		{49999, ""},
		{50041, ""},
		{0, ""},
	}
	for _, tt := range tests {
		if got := controlTypeName(tt.id); got != tt.want {
			t.Errorf("controlTypeName(%d) = %q, want %q", tt.id, got, tt.want)
		}
	}
}

func TestRoleName(t *testing.T) {
	tests := []struct {
		role int32
		want string
	}{
		{0x09, "Window"},
		{0x0A, "Pane"},
		{0x10, "Pane"},
		{0x2B, "Button"},
		{0x29, "Text"},
		{0x2A, "Edit"},
		{0x25, "TabItem"},
		{0x3B, "Custom"},
		{0, ""},
	}
	for _, tt := range tests {
		if got := roleName(tt.role); got != tt.want {
			t.Errorf("roleName(%#x) = %q, want %q", tt.role, got, tt.want)
		}
	}
}
