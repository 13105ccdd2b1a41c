package model

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var hexColorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// ValidHex reports whether s is a #RRGGBB token (any case).
func ValidHex(s string) bool {
	return hexColorPattern.MatchString(s)
}

// NormalizeHex trims and uppercases a color token. ok is false for anything
// that is not #RRGGBB.
func NormalizeHex(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if !ValidHex(s) {
		return "", false
	}
	return strings.ToUpper(s), true
}

// Blend moves each channel of color toward white (or black) by amount.
// amount is clamped to [0, 1]; channels are clamped to [0, 255].
func Blend(color string, amount float64, towardWhite bool) (string, error) {
	c, ok := NormalizeHex(color)
	if !ok {
		return "", fmt.Errorf("invalid color %q", color)
	}
	rgb, err := strconv.ParseUint(c[1:], 16, 32)
	if err != nil {
		return "", fmt.Errorf("invalid color %q: %w", color, err)
	}

	amount = math.Max(0, math.Min(1, amount))
	channels := [3]float64{
		float64((rgb >> 16) & 0xFF),
		float64((rgb >> 8) & 0xFF),
		float64(rgb & 0xFF),
	}

	var out [3]int
	for i, v := range channels {
		if towardWhite {
			v = v + (255-v)*amount
		} else {
			v = v * (1 - amount)
		}
		out[i] = int(math.Max(0, math.Min(255, math.Round(v))))
	}

	return fmt.Sprintf("#%02X%02X%02X", out[0], out[1], out[2]), nil
}

// Gradient returns the card background for a goal color.
func Gradient(color string) (string, error) {
	from, err := Blend(color, 0.1, false)
	if err != nil {
		return "", err
	}
	to, err := Blend(color, 0.35, true)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("linear-gradient(135deg, %s 0%%, %s 100%%)", from, to), nil
}
