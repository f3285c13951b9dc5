package thanks

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// DefaultColorHex is used for new entries and whenever a stored color cannot be parsed.
const DefaultColorHex = "#007AFF"

// RGBA is a resolved entry color.
type RGBA struct {
	Color colorful.Color
	Alpha uint8
}

// Hex renders the color back as #rrggbb, or #rrggbbaa when not fully opaque.
func (c RGBA) Hex() string {
	if c.Alpha == 0xff {
		return strings.ToUpper(c.Color.Hex())
	}
	return strings.ToUpper(fmt.Sprintf("%s%02x", c.Color.Hex(), c.Alpha))
}

// ParseColor parses a 6 (RGB) or 8 (RGBA) digit hex string, with or without a leading '#'.
func ParseColor(s string) (RGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")

	alpha := uint8(0xff)
	switch len(hex) {
	case 6:
	case 8:
		a, err := strconv.ParseUint(hex[6:], 16, 8)
		if err != nil {
			return RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
		}
		alpha = uint8(a)
		hex = hex[:6]
	default:
		return RGBA{}, fmt.Errorf("invalid color %q: want 6 or 8 hex digits", s)
	}

	c, err := colorful.Hex("#" + hex)
	if err != nil {
		return RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return RGBA{Color: c, Alpha: alpha}, nil
}

// Color resolves the entry's stored hex string, falling back to DefaultColorHex.
// The stored value is never rewritten.
func (e Entry) Color() RGBA {
	if c, err := ParseColor(e.ColorHex); err == nil {
		return c
	}
	c, _ := ParseColor(DefaultColorHex)
	return c
}
