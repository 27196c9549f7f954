package diff

import (
	"math"
	"strconv"
	"strings"

	"github.com/jwebster45206/resolution-engine/pkg/content"
)

// float noise like 0.1*100 = 10.000000000000002 is cleared before display
const displayPrecision = 1e6

func clean(v float64) float64 {
	r := math.Round(v*displayPrecision) / displayPrecision
	if r == 0 {
		return 0 // drop negative zero
	}
	return r
}

func isZero(v float64) bool {
	return clean(v) == 0
}

func number(v float64) string {
	return strconv.FormatFloat(clean(v), 'f', -1, 64)
}

// signed renders "+n" for non-negative values and "-n" otherwise.
func signed(v float64) string {
	if clean(v) >= 0 {
		return "+" + number(v)
	}
	return number(v)
}

func percent(v float64, mode content.Rounding) float64 {
	p := clean(v * 100)
	switch mode {
	case content.RoundUp:
		p = math.Ceil(p)
	case content.RoundDown:
		p = math.Floor(p)
	default:
		p = math.Round(p)
	}
	return clean(p)
}

func withIcon(icon, label string) string {
	return strings.TrimSpace(icon + " " + label)
}

// FormatSigned renders a value the way deltas are shown in summaries.
func FormatSigned(v float64) string {
	return signed(v)
}

// Label joins an icon and a label with a single space, dropping the icon
// when it is blank.
func Label(icon, label string) string {
	return withIcon(icon, label)
}

// IsZero reports whether v rounds to zero at display precision.
func IsZero(v float64) bool {
	return isZero(v)
}
