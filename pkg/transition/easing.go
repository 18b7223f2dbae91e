package transition

import (
	"sort"
	"strings"

	"github.com/tanema/gween/ease"

	"github.com/matzehuels/animchart/pkg/errors"
)

// Easing maps linear progress in [0, 1] to eased progress.
type Easing func(t float64) float64

// Linear is the identity easing.
func Linear(t float64) float64 { return t }

// FromTween adapts a gween easing function.
func FromTween(fn ease.TweenFunc) Easing {
	return func(t float64) float64 {
		return float64(fn(float32(t), 0, 1, 1))
	}
}

var easings = map[string]ease.TweenFunc{
	"linear":       ease.Linear,
	"quad-in":      ease.InQuad,
	"quad-out":     ease.OutQuad,
	"quad-in-out":  ease.InOutQuad,
	"cubic-in":     ease.InCubic,
	"cubic-out":    ease.OutCubic,
	"cubic-in-out": ease.InOutCubic,
	"sine-in-out":  ease.InOutSine,
	"expo-out":     ease.OutExpo,
	"back-out":     ease.OutBack,
	"elastic-out":  ease.OutElastic,
	"bounce-out":   ease.OutBounce,
}

// Easings returns the accepted easing names, sorted.
func Easings() []string {
	names := make([]string, 0, len(easings))
	for n := range easings {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// ParseEasing resolves an easing name. The empty name is linear.
func ParseEasing(name string) (Easing, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || name == "linear" {
		return Linear, nil
	}
	fn, ok := easings[name]
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidConfig,
			"invalid easing: %q (must be one of: %s)", name, strings.Join(Easings(), ", "))
	}
	return FromTween(fn), nil
}
