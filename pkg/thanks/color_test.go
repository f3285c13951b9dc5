package thanks

import (
	"testing"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		wantHex string
		alpha   uint8
	}{
		{in: "#007AFF", wantHex: "#007AFF", alpha: 0xff},
		{in: "ff9500", wantHex: "#FF9500", alpha: 0xff},
		{in: "#34c75980", wantHex: "#34C75980", alpha: 0x80},
		{in: "  #000000  ", wantHex: "#000000", alpha: 0xff},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			c, err := ParseColor(tt.in)
			if err != nil {
				t.Fatalf("ParseColor(%q) failed: %v", tt.in, err)
			}
			if c.Alpha != tt.alpha {
				t.Errorf("Expected alpha %#x, got %#x", tt.alpha, c.Alpha)
			}
			if got := c.Hex(); got != tt.wantHex {
				t.Errorf("Expected hex %q, got %q", tt.wantHex, got)
			}
		})
	}
}

func TestParseColorRejects(t *testing.T) {
	for _, in := range []string{"", "#12345", "#1234567", "#GGGGGG", "#12345678AB", "blue"} {
		if _, err := ParseColor(in); err == nil {
			t.Errorf("Expected an error for %q", in)
		}
	}
}

func TestEntryColorFallsBackToDefault(t *testing.T) {
	e := Entry{ColorHex: "not a color"}

	if got := e.Color().Hex(); got != DefaultColorHex {
		t.Errorf("Expected fallback %q, got %q", DefaultColorHex, got)
	}
	if e.ColorHex != "not a color" {
		t.Errorf("Expected the stored value to be kept, got %q", e.ColorHex)
	}
}

func TestParseIcon(t *testing.T) {
	for _, icon := range Icons {
		got, err := ParseIcon(string(icon))
		if err != nil {
			t.Fatalf("ParseIcon(%q) failed: %v", icon, err)
		}
		if got != icon {
			t.Errorf("Expected %q, got %q", icon, got)
		}
	}

	if _, err := ParseIcon("rocket"); err == nil {
		t.Errorf("Expected an error for an unknown icon")
	}
}
