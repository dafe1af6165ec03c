package components

import (
	"fmt"
	"strconv"
	"strings"
)

// Color returns a foreground escape for a hex color such as "#ff5500" or
// "ff5500", or for a 256-color index such as "208". It returns "" if the
// color is empty or malformed.
func Color(c string) string {
	return escape(38, c)
}

// BgColor returns a background escape for a hex color or 256-color index.
func BgColor(c string) string {
	return escape(48, c)
}

func escape(layer int, c string) string {
	if n, err := strconv.ParseUint(c, 10, 8); err == nil && len(c) <= 3 {
		return fmt.Sprintf("\x1b[%d;5;%dm", layer, n)
	}
	r, g, b, ok := parseHex(c)
	if !ok {
		return ""
	}
	return fmt.Sprintf("\x1b[%d;2;%d;%d;%dm", layer, r, g, b)
}

// Bold wraps s in bold on/off sequences.
func Bold(s string) string {
	return "\x1b[1m" + s + "\x1b[22m"
}

// Reset clears all styling.
func Reset() string {
	return "\x1b[0m"
}

// Paint applies fg and bg colors to s. Each color is closed with its
// own default-color sequence, so painting nests inside an outer background.
// Empty or malformed colors are skipped.
func Paint(s, fg, bg string) string {
	if c := Color(fg); c != "" {
		s = c + s + "\x1b[39m"
	}
	if c := BgColor(bg); c != "" {
		s = c + s + "\x1b[49m"
	}
	return s
}

func parseHex(hex string) (r, g, b uint8, ok bool) {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return 0, 0, 0, false
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return uint8(v >> 16), uint8(v >> 8), uint8(v), true
}
