package axis

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/matzehuels/animchart/pkg/chart"
	"github.com/matzehuels/animchart/pkg/data"
)

// FloatPrecision is the number of decimals used for non-integer labels.
const FloatPrecision = 2

// FormatNumber renders v without locale: integers as-is, other values with
// FloatPrecision decimals.
func FormatNumber(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', FloatPrecision, 64)
}

// Formatter returns the label function configured for an axis.
func Formatter(cfg chart.AxisConfig) func(any) string {
	return ValueFormatter(cfg.Formatter, cfg.TickFormat)
}

// ValueFormatter builds a label function from an optional programmatic
// formatter and an optional printf pattern. Non-numeric values are
// rendered as category keys.
func ValueFormatter(fn func(float64) string, pattern string) func(any) string {
	arg := argConverter(pattern)
	return func(v any) string {
		f, ok := data.ToNumber(v)
		if !ok {
			return data.FormatKey(v)
		}
		switch {
		case fn != nil:
			return fn(f)
		case pattern != "":
			return fmt.Sprintf(pattern, arg(f))
		default:
			return FormatNumber(f)
		}
	}
}

var verbRegex = regexp.MustCompile(`%[-+# 0]*[0-9]*(?:\.[0-9]+)?([dfegsvx])`)

// argConverter adapts a float to the operand type the pattern's verb
// expects: integer verbs get the rounded value, %s the plain label.
func argConverter(pattern string) func(float64) any {
	m := verbRegex.FindStringSubmatch(strings.ReplaceAll(pattern, "%%", ""))
	if m == nil {
		return func(f float64) any { return f }
	}
	switch m[1] {
	case "d", "x":
		return func(f float64) any { return int64(math.Round(f)) }
	case "s":
		return func(f float64) any { return FormatNumber(f) }
	default:
		return func(f float64) any { return f }
	}
}
