package evaluation

import (
	"fmt"
	"strconv"
)

// Color is a display token understood by the dashboard theme.
type Color string

const (
	ColorDefault   Color = "default"
	ColorPrimary   Color = "primary"
	ColorSecondary Color = "secondary"
	ColorInfo      Color = "info"
	ColorSuccess   Color = "success"
	ColorWarning   Color = "warning"
	ColorDanger    Color = "danger"
)

var colorHex = map[Color]string{
	ColorDefault:   "#71717a",
	ColorPrimary:   "#006fee",
	ColorSecondary: "#7828c8",
	ColorInfo:      "#0ea5e9",
	ColorSuccess:   "#17c964",
	ColorWarning:   "#f5a524",
	ColorDanger:    "#f31260",
}

// Hex returns the theme's hex value for the token.
func (c Color) Hex() string {
	if hex, ok := colorHex[c]; ok {
		return hex
	}
	return colorHex[ColorDefault]
}

// RGB returns the token as 8-bit channels, for renderers without hex support.
func (c Color) RGB() (r, g, b int) {
	r, g, b, err := parseHex(c.Hex())
	if err != nil {
		return 0, 0, 0
	}
	return r, g, b
}

func parseHex(hex string) (r, g, b int, err error) {
	if len(hex) != 7 || hex[0] != '#' {
		return 0, 0, 0, fmt.Errorf("color %q: want #rrggbb", hex)
	}
	var ch [3]int
	for i := range ch {
		v, err := strconv.ParseUint(hex[1+2*i:3+2*i], 16, 8)
		if err != nil {
			return 0, 0, 0, fmt.Errorf("color %q: %w", hex, err)
		}
		ch[i] = int(v)
	}
	return ch[0], ch[1], ch[2], nil
}
