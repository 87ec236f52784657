package ember

import (
	"errors"
	"fmt"
	"sort"

	"github.com/tanema/gween/ease"
)

// ErrUnknownEasing is returned when an easing name is not in the registry.
// Unknown names fail fast at construction time rather than being silently
// substituted.
var ErrUnknownEasing = errors.New("ember: unknown easing")

// easings is the fixed named easing table. The functions come from gween/ease;
// names use the snake_case form accepted in preset files.
var easings = map[string]ease.TweenFunc{
	"linear":                ease.Linear,
	"ease_in_quad":          ease.InQuad,
	"ease_out_quad":         ease.OutQuad,
	"ease_in_out_quad":      ease.InOutQuad,
	"ease_in_cubic":         ease.InCubic,
	"ease_out_cubic":        ease.OutCubic,
	"ease_in_out_cubic":     ease.InOutCubic,
	"ease_in_sine":          ease.InSine,
	"ease_out_sine":         ease.OutSine,
	"ease_in_out_sine":      ease.InOutSine,
	"ease_in_expo":          ease.InExpo,
	"ease_out_expo":         ease.OutExpo,
	"ease_in_out_expo":      ease.InOutExpo,
	"ease_in_elastic":       ease.InElastic,
	"ease_out_elastic":      ease.OutElastic,
	"ease_in_out_elastic":   ease.InOutElastic,
	"ease_in_bounce":        ease.InBounce,
	"ease_out_bounce":       ease.OutBounce,
	"ease_in_out_bounce":    ease.InOutBounce,
}

// EasingByName looks up an easing function by its registered name.
func EasingByName(name string) (ease.TweenFunc, error) {
	fn, ok := easings[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEasing, name)
	}
	return fn, nil
}

// EasingNames returns the registered easing names in sorted order.
func EasingNames() []string {
	names := make([]string, 0, len(easings))
	for name := range easings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// applyEase maps linear progress t in [0, 1] through an easing function.
// The endpoints are pinned exactly: f(0)=0 and f(1)=1 regardless of float
// rounding inside the easing math. Elastic and bounce easings may leave
// [0, 1] at interior points; that overshoot is intentional.
func applyEase(fn ease.TweenFunc, t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	if fn == nil {
		return t
	}
	return float64(fn(float32(t), 0, 1, 1))
}
