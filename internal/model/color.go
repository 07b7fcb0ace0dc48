package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

const (
	DefaultColor = "#ffffff"
	textDark     = "#000000"
	textLight    = "#ffffff"
)

var ErrInvalidColor = errors.New("invalid color")

// NormalizeColor validates a #rgb or #rrggbb string and returns it as
// lower-case #rrggbb.
func NormalizeColor(s string) (string, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	if len(s) != 4 && len(s) != 7 {
		return "", fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	return c.Hex(), nil
}

// Luminance returns 0.299R + 0.587G + 0.114B scaled by 1000 so that
// threshold comparisons stay exact.
func Luminance(hex string) (int, error) {
	norm, err := NormalizeColor(hex)
	if err != nil {
		return 0, err
	}
	c, _ := colorful.Hex(norm)
	r, g, b := c.RGB255()
	return 299*int(r) + 587*int(g) + 114*int(b), nil
}

// TextColor picks black or white text for a background color.
// Unparseable backgrounds are treated as the default white.
func TextColor(background string) string {
	lum, err := Luminance(background)
	if err != nil {
		return textDark
	}
	if lum < 128*1000 {
		return textLight
	}
	return textDark
}
