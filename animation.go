package ember

import (
	"errors"
	"fmt"
	"math"

	"github.com/tanema/gween/ease"
)

// ErrInvalidAnimationTarget is returned when a property animation cannot bind
// to its target: the property name is unknown, or the supplied values do not
// match the property's shape. Binding failures surface at construction time.
var ErrInvalidAnimationTarget = errors.New("ember: invalid animation target")

// AnimationState tracks where an animator is in its life cycle.
type AnimationState uint8

const (
	AnimationIdle      AnimationState = iota // constructed, not yet played
	AnimationPlaying                         // advancing on Update
	AnimationPaused                          // frozen; Resume continues
	AnimationCompleted                       // ran to the end (non-looping only)
)

// minDuration is the floor applied to all durations to avoid divide-by-zero
// in progress math.
const minDuration = 0.001

// Animator is the shared time driver for property animations. It owns elapsed
// time, delay, looping, and the playing/paused/completed state machine; it
// knows nothing about what is being animated.
type Animator struct {
	// Duration is the active time in seconds, after Delay has passed.
	// Values below the minimum are raised to it.
	Duration float64
	// Delay postpones the start of interpolation. Elapsed time accumulates
	// during the delay but progress stays at zero.
	Delay float64
	// Loop wraps elapsed time modulo Duration instead of completing.
	Loop bool
	// OnComplete fires exactly once when a non-looping animator reaches its
	// duration. Panics inside it are logged and swallowed.
	OnComplete func()

	elapsed float64
	state   AnimationState
}

// newAnimator builds an animator with a clamped duration.
func newAnimator(duration float64) Animator {
	if duration < minDuration {
		duration = minDuration
	}
	return Animator{Duration: duration}
}

// Play starts (or restarts) the animator from zero elapsed time.
func (a *Animator) Play() {
	a.elapsed = 0
	a.state = AnimationPlaying
}

// Pause freezes a playing animator.
func (a *Animator) Pause() {
	if a.state == AnimationPlaying {
		a.state = AnimationPaused
	}
}

// Resume continues a paused animator.
func (a *Animator) Resume() {
	if a.state == AnimationPaused {
		a.state = AnimationPlaying
	}
}

// Reset returns the animator to idle with zero elapsed time.
func (a *Animator) Reset() {
	a.elapsed = 0
	a.state = AnimationIdle
}

// State returns the current life-cycle state.
func (a *Animator) State() AnimationState {
	return a.state
}

// Elapsed returns accumulated time in seconds, including any delay period.
func (a *Animator) Elapsed() float64 {
	return a.elapsed
}

// effectiveDuration returns Duration with the minimum floor applied, so a
// zero or negative duration set directly on the field cannot divide by zero.
func (a *Animator) effectiveDuration() float64 {
	if a.Duration < minDuration {
		return minDuration
	}
	return a.Duration
}

// Progress returns linear progress in [0, 1]: zero during the delay, then
// (elapsed-delay)/duration. Looping animators wrap, so progress cycles.
func (a *Animator) Progress() float64 {
	return clamp01((a.elapsed - a.Delay) / a.effectiveDuration())
}

// advance moves the clock forward and reports whether the animator completed
// naturally on this call. It does not fire OnComplete; owners fire it after
// applying the final value.
func (a *Animator) advance(dt float64) bool {
	if a.state != AnimationPlaying {
		return false
	}
	a.elapsed += dt
	d := a.effectiveDuration()
	active := a.elapsed - a.Delay
	if active < d {
		return false
	}
	if a.Loop {
		a.elapsed = a.Delay + math.Mod(active, d)
		return false
	}
	a.elapsed = a.Delay + d
	a.state = AnimationCompleted
	return true
}

// Update advances the animator by dt seconds. No-op unless playing. Fires
// OnComplete exactly once when a non-looping animator reaches its duration.
func (a *Animator) Update(dt float64) {
	if a.advance(dt) {
		safeCall("animator completion", a.OnComplete)
	}
}

// --- Property binding ---

// boundProperty is a resolved read/write view of one Drawable property.
// arity is 1 for scalars, 2 for position/scale, 4 for color.
type boundProperty struct {
	arity int
	set   func([]float64)
}

// bindProperty resolves a property name on a target. Unknown names fail with
// ErrInvalidAnimationTarget.
func bindProperty(target *Drawable, name string) (boundProperty, error) {
	if target == nil {
		return boundProperty{}, fmt.Errorf("%w: nil target", ErrInvalidAnimationTarget)
	}
	scalar := func(set func(float64)) boundProperty {
		return boundProperty{arity: 1, set: func(v []float64) { set(v[0]) }}
	}
	switch name {
	case "x":
		return scalar(func(v float64) { target.X = v; markSubtreeDirty(target) }), nil
	case "y":
		return scalar(func(v float64) { target.Y = v; markSubtreeDirty(target) }), nil
	case "width":
		return scalar(func(v float64) { target.Width = v }), nil
	case "height":
		return scalar(func(v float64) { target.Height = v }), nil
	case "rotation":
		return scalar(func(v float64) { target.Rotation = v; markSubtreeDirty(target) }), nil
	case "scale_x":
		return scalar(func(v float64) { target.ScaleX = v; markSubtreeDirty(target) }), nil
	case "scale_y":
		return scalar(func(v float64) { target.ScaleY = v; markSubtreeDirty(target) }), nil
	case "origin_x":
		return scalar(func(v float64) { target.OriginX = v; markSubtreeDirty(target) }), nil
	case "origin_y":
		return scalar(func(v float64) { target.OriginY = v; markSubtreeDirty(target) }), nil
	case "opacity":
		return scalar(target.SetOpacity), nil
	case "position":
		return boundProperty{arity: 2, set: func(v []float64) {
			target.SetPosition(v[0], v[1])
		}}, nil
	case "scale":
		return boundProperty{arity: 2, set: func(v []float64) {
			target.SetScale(v[0], v[1])
		}}, nil
	case "color":
		return boundProperty{arity: 4, set: func(v []float64) {
			target.Color = Color{v[0], v[1], v[2], v[3]}.Clamped()
		}}, nil
	default:
		return boundProperty{}, fmt.Errorf("%w: drawable has no animatable property %q", ErrInvalidAnimationTarget, name)
	}
}

// valueComponents flattens a supported animation value into its components.
// Supported types: float64, int, Vec2, Color, []float64.
func valueComponents(v any) ([]float64, error) {
	switch val := v.(type) {
	case float64:
		return []float64{val}, nil
	case int:
		return []float64{float64(val)}, nil
	case Vec2:
		return []float64{val.X, val.Y}, nil
	case Color:
		return []float64{val.R, val.G, val.B, val.A}, nil
	case []float64:
		if len(val) == 0 {
			return nil, fmt.Errorf("%w: empty tuple value", ErrInvalidAnimationTarget)
		}
		return val, nil
	default:
		return nil, fmt.Errorf("%w: unsupported value type %T", ErrInvalidAnimationTarget, v)
	}
}

// --- PropertyAnimation ---

// PropertyAnimation interpolates one property of a Drawable between a start
// and end value, sampled at eased progress. The value shape (scalar or
// fixed-length tuple) is checked against the property at construction time.
type PropertyAnimation struct {
	Animator

	target *Drawable
	prop   boundProperty
	start  []float64
	end    []float64
	easing ease.TweenFunc
	buf    []float64
}

// NewPropertyAnimation binds property on target to an interpolation from
// `from` to `to` over duration seconds using the named easing. The target
// must have the named property and the values must match its shape.
func NewPropertyAnimation(target *Drawable, property string, from, to any, duration float64, easingName string) (*PropertyAnimation, error) {
	fn, err := EasingByName(easingName)
	if err != nil {
		return nil, err
	}
	prop, err := bindProperty(target, property)
	if err != nil {
		return nil, err
	}
	start, err := valueComponents(from)
	if err != nil {
		return nil, err
	}
	end, err := valueComponents(to)
	if err != nil {
		return nil, err
	}
	if len(start) != len(end) {
		return nil, fmt.Errorf("%w: start has %d components, end has %d", ErrInvalidAnimationTarget, len(start), len(end))
	}
	if len(start) != prop.arity {
		return nil, fmt.Errorf("%w: property %q takes %d components, got %d", ErrInvalidAnimationTarget, property, prop.arity, len(start))
	}
	return &PropertyAnimation{
		Animator: newAnimator(duration),
		target:   target,
		prop:     prop,
		start:    start,
		end:      end,
		easing:   fn,
		buf:      make([]float64, prop.arity),
	}, nil
}

// Target returns the drawable this animation writes to.
func (pa *PropertyAnimation) Target() *Drawable {
	return pa.target
}

// apply writes the interpolated value for the current progress.
func (pa *PropertyAnimation) apply() {
	p := applyEase(pa.easing, pa.Progress())
	for i := range pa.buf {
		pa.buf[i] = lerp(pa.start[i], pa.end[i], p)
	}
	pa.prop.set(pa.buf)
}

// Update advances the clock and writes the interpolated value to the target.
// On natural completion the end value is written before OnComplete fires.
func (pa *PropertyAnimation) Update(dt float64) {
	if pa.state != AnimationPlaying {
		return
	}
	done := pa.advance(dt)
	pa.apply()
	if done {
		safeCall("property animation completion", pa.OnComplete)
	}
}

// --- MultiPropertyAnimation ---

// MultiPropertyAnimation runs several property animations in parallel under
// one clock. Its duration is the longest child delay+duration; it completes
// when that clock runs out. It does not own the targets.
type MultiPropertyAnimation struct {
	Animator

	anims []*PropertyAnimation
}

// NewMultiPropertyAnimation groups animations to run in parallel.
func NewMultiPropertyAnimation(anims ...*PropertyAnimation) *MultiPropertyAnimation {
	total := 0.0
	for _, a := range anims {
		if d := a.Delay + a.effectiveDuration(); d > total {
			total = d
		}
	}
	return &MultiPropertyAnimation{
		Animator: newAnimator(total),
		anims:    anims,
	}
}

// Play starts the group and every child.
func (m *MultiPropertyAnimation) Play() {
	m.Animator.Play()
	for _, a := range m.anims {
		a.Play()
	}
}

// Pause freezes the group and every child.
func (m *MultiPropertyAnimation) Pause() {
	m.Animator.Pause()
	for _, a := range m.anims {
		a.Pause()
	}
}

// Resume continues the group and every child.
func (m *MultiPropertyAnimation) Resume() {
	m.Animator.Resume()
	for _, a := range m.anims {
		a.Resume()
	}
}

// Update advances every child, then the group clock. The group's OnComplete
// fires after all children have received their final update.
func (m *MultiPropertyAnimation) Update(dt float64) {
	if m.state != AnimationPlaying {
		return
	}
	for _, a := range m.anims {
		a.Update(dt)
	}
	if m.advance(dt) {
		safeCall("multi animation completion", m.OnComplete)
	}
}

// --- SequenceAnimation ---

// SequenceAnimation runs property animations strictly one after another.
// Its duration is the sum of child delays+durations. With Loop set, the
// sequence restarts from the first child after the last completes.
type SequenceAnimation struct {
	Animator

	anims []*PropertyAnimation
	index int
}

// NewSequenceAnimation chains animations to run back to back.
func NewSequenceAnimation(anims ...*PropertyAnimation) *SequenceAnimation {
	total := 0.0
	for _, a := range anims {
		total += a.Delay + a.effectiveDuration()
	}
	return &SequenceAnimation{
		Animator: newAnimator(total),
		anims:    anims,
	}
}

// Play starts the sequence at its first animation.
func (s *SequenceAnimation) Play() {
	s.Animator.Play()
	s.index = 0
	if len(s.anims) > 0 {
		s.anims[0].Play()
	}
}

// Pause freezes the sequence and the current animation.
func (s *SequenceAnimation) Pause() {
	s.Animator.Pause()
	if s.index < len(s.anims) {
		s.anims[s.index].Pause()
	}
}

// Resume continues the sequence and the current animation.
func (s *SequenceAnimation) Resume() {
	s.Animator.Resume()
	if s.index < len(s.anims) {
		s.anims[s.index].Resume()
	}
}

// Current returns the animation the sequence is presently driving, or nil.
func (s *SequenceAnimation) Current() *PropertyAnimation {
	if s.index < len(s.anims) {
		return s.anims[s.index]
	}
	return nil
}

// Progress returns overall sequence progress: completed children count in
// full, the current child in proportion.
func (s *SequenceAnimation) Progress() float64 {
	if len(s.anims) == 0 {
		return 0
	}
	total := s.effectiveDuration()
	done := 0.0
	for i := 0; i < s.index && i < len(s.anims); i++ {
		done += s.anims[i].Delay + s.anims[i].effectiveDuration()
	}
	if s.index < len(s.anims) {
		done += s.anims[s.index].Elapsed()
	}
	return clamp01(done / total)
}

// Update advances the current animation; when it completes the next one
// starts. The sequence completes (or loops) after the last child.
func (s *SequenceAnimation) Update(dt float64) {
	if s.state != AnimationPlaying {
		return
	}
	s.elapsed += dt
	if s.index >= len(s.anims) {
		s.finish()
		return
	}
	current := s.anims[s.index]
	current.Update(dt)
	if current.State() != AnimationCompleted {
		return
	}
	s.index++
	if s.index < len(s.anims) {
		s.anims[s.index].Play()
		return
	}
	s.finish()
}

// finish completes or restarts the sequence once all children are done.
func (s *SequenceAnimation) finish() {
	if s.Loop {
		s.Play()
		return
	}
	s.state = AnimationCompleted
	safeCall("sequence animation completion", s.OnComplete)
}
