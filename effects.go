package ember

import (
	"math"

	"github.com/tanema/gween/ease"
)

// --- Color effect family ---

// ColorEffect interpolates a target's color between two values. On natural
// (non-looping) completion the target's original color is restored.
type ColorEffect struct {
	BaseEffect

	target      *Drawable
	From, To    Color
	fromCurrent bool
	original    Color
	easing      ease.TweenFunc
}

// NewColorEffect builds a color interpolation from an explicit start color.
func NewColorEffect(target *Drawable, from, to Color, duration float64, easingName string) (*ColorEffect, error) {
	fn, err := EasingByName(easingName)
	if err != nil {
		return nil, err
	}
	e := &ColorEffect{
		BaseEffect: newBaseEffect("color-effect", duration),
		target:     target,
		From:       from.Clamped(),
		To:         to.Clamped(),
		easing:     fn,
	}
	e.capture = func() {
		e.original = target.Color
		if e.fromCurrent {
			e.From = target.Color
		}
	}
	e.restore = func() { target.Color = e.original }
	return e, nil
}

// NewColorFade builds a color interpolation that starts from whatever color
// the target has when the effect starts.
func NewColorFade(target *Drawable, to Color, duration float64, easingName string) (*ColorEffect, error) {
	e, err := NewColorEffect(target, Color{}, to, duration, easingName)
	if err != nil {
		return nil, err
	}
	e.Drawable.Name = "color-fade"
	e.fromCurrent = true
	return e, nil
}

// Update interpolates the target color at eased progress.
func (e *ColorEffect) Update(dt float64) {
	p, done := e.advance(dt)
	if e.state != EffectPlaying {
		return
	}
	e.target.Color = e.From.Lerp(e.To, applyEase(e.easing, p))
	e.emitUpdate(p)
	if done {
		e.complete()
	}
}

// BlinkEffect alternates the target's color between its original value and a
// blink color a fixed number of times over the duration. The original color
// is restored on natural completion.
type BlinkEffect struct {
	BaseEffect

	target     *Drawable
	BlinkColor Color
	Blinks     int
	original   Color
}

// NewBlink builds a blink with the given number of on/off cycles.
// A non-positive count is raised to one.
func NewBlink(target *Drawable, blinkColor Color, blinks int, duration float64) *BlinkEffect {
	if blinks < 1 {
		blinks = 1
	}
	e := &BlinkEffect{
		BaseEffect: newBaseEffect("blink", duration),
		target:     target,
		BlinkColor: blinkColor.Clamped(),
		Blinks:     blinks,
	}
	e.capture = func() { e.original = target.Color }
	e.restore = func() { target.Color = e.original }
	return e
}

// Update flips the target between its original color and the blink color.
func (e *BlinkEffect) Update(dt float64) {
	p, done := e.advance(dt)
	if e.state != EffectPlaying {
		return
	}
	phase := int(p * float64(e.Blinks*2))
	if phase%2 == 0 {
		e.target.Color = e.BlinkColor
	} else {
		e.target.Color = e.original
	}
	e.emitUpdate(p)
	if done {
		e.complete()
	}
}

// FadeEffect interpolates a target's opacity. The original opacity is
// restored on natural completion.
type FadeEffect struct {
	BaseEffect

	target      *Drawable
	From, To    float64
	fromCurrent bool
	original    float64
	easing      ease.TweenFunc
}

// NewFade builds an opacity interpolation from an explicit start value.
func NewFade(target *Drawable, from, to float64, duration float64, easingName string) (*FadeEffect, error) {
	fn, err := EasingByName(easingName)
	if err != nil {
		return nil, err
	}
	e := &FadeEffect{
		BaseEffect: newBaseEffect("fade", duration),
		target:     target,
		From:       clamp01(from),
		To:         clamp01(to),
		easing:     fn,
	}
	e.capture = func() {
		e.original = target.Opacity
		if e.fromCurrent {
			e.From = target.Opacity
		}
	}
	e.restore = func() { target.SetOpacity(e.original) }
	return e, nil
}

// NewFadeTo builds an opacity interpolation starting from the target's
// opacity at the moment the effect starts.
func NewFadeTo(target *Drawable, to float64, duration float64, easingName string) (*FadeEffect, error) {
	e, err := NewFade(target, 0, to, duration, easingName)
	if err != nil {
		return nil, err
	}
	e.fromCurrent = true
	return e, nil
}

// Update interpolates the target opacity at eased progress.
func (e *FadeEffect) Update(dt float64) {
	p, done := e.advance(dt)
	if e.state != EffectPlaying {
		return
	}
	e.target.SetOpacity(lerp(e.From, e.To, applyEase(e.easing, p)))
	e.emitUpdate(p)
	if done {
		e.complete()
	}
}

// --- Transform effect family ---

// MoveEffect interpolates a target's position between two points. The
// position the target had when the effect started is restored on natural
// completion.
type MoveEffect struct {
	BaseEffect

	target   *Drawable
	From, To Vec2
	original Vec2
	easing   ease.TweenFunc
}

// NewMove builds a position interpolation from `from` to `to`.
func NewMove(target *Drawable, from, to Vec2, duration float64, easingName string) (*MoveEffect, error) {
	fn, err := EasingByName(easingName)
	if err != nil {
		return nil, err
	}
	e := &MoveEffect{
		BaseEffect: newBaseEffect("move", duration),
		target:     target,
		From:       from,
		To:         to,
		easing:     fn,
	}
	e.capture = func() { e.original = Vec2{X: target.X, Y: target.Y} }
	e.restore = func() { target.SetPosition(e.original.X, e.original.Y) }
	return e, nil
}

// Update interpolates the target position at eased progress.
func (e *MoveEffect) Update(dt float64) {
	p, done := e.advance(dt)
	if e.state != EffectPlaying {
		return
	}
	ep := applyEase(e.easing, p)
	e.target.SetPosition(lerp(e.From.X, e.To.X, ep), lerp(e.From.Y, e.To.Y, ep))
	e.emitUpdate(p)
	if done {
		e.complete()
	}
}

// ScaleEffect interpolates a target's scale factors. The original scale is
// restored on natural completion.
type ScaleEffect struct {
	BaseEffect

	target   *Drawable
	From, To Vec2
	original Vec2
	easing   ease.TweenFunc
}

// NewScale builds a scale interpolation from `from` to `to` (per-axis factors).
func NewScale(target *Drawable, from, to Vec2, duration float64, easingName string) (*ScaleEffect, error) {
	fn, err := EasingByName(easingName)
	if err != nil {
		return nil, err
	}
	e := &ScaleEffect{
		BaseEffect: newBaseEffect("scale", duration),
		target:     target,
		From:       from,
		To:         to,
		easing:     fn,
	}
	e.capture = func() { e.original = Vec2{X: target.ScaleX, Y: target.ScaleY} }
	e.restore = func() { target.SetScale(e.original.X, e.original.Y) }
	return e, nil
}

// Update interpolates the target scale at eased progress.
func (e *ScaleEffect) Update(dt float64) {
	p, done := e.advance(dt)
	if e.state != EffectPlaying {
		return
	}
	ep := applyEase(e.easing, p)
	e.target.SetScale(lerp(e.From.X, e.To.X, ep), lerp(e.From.Y, e.To.Y, ep))
	e.emitUpdate(p)
	if done {
		e.complete()
	}
}

// RotateEffect interpolates a target's rotation in degrees. The original
// rotation is restored on natural completion.
type RotateEffect struct {
	BaseEffect

	target   *Drawable
	From, To float64
	original float64
	easing   ease.TweenFunc
}

// NewRotate builds a rotation interpolation from `from` to `to` degrees.
func NewRotate(target *Drawable, from, to float64, duration float64, easingName string) (*RotateEffect, error) {
	fn, err := EasingByName(easingName)
	if err != nil {
		return nil, err
	}
	e := &RotateEffect{
		BaseEffect: newBaseEffect("rotate", duration),
		target:     target,
		From:       from,
		To:         to,
		easing:     fn,
	}
	e.capture = func() { e.original = target.Rotation }
	e.restore = func() { target.SetRotation(e.original) }
	return e, nil
}

// Update interpolates the target rotation at eased progress.
func (e *RotateEffect) Update(dt float64) {
	p, done := e.advance(dt)
	if e.state != EffectPlaying {
		return
	}
	e.target.SetRotation(lerp(e.From, e.To, applyEase(e.easing, p)))
	e.emitUpdate(p)
	if done {
		e.complete()
	}
}

// ShakeEffect offsets a target's position with a decaying oscillation.
// The amplitude tapers linearly to zero over the duration, and the original
// position is restored on natural completion.
type ShakeEffect struct {
	BaseEffect

	target    *Drawable
	Amplitude float64
	Frequency float64
	original  Vec2
}

// NewShake builds a positional shake. Amplitude is the peak offset in pixels,
// frequency the number of oscillations per second.
func NewShake(target *Drawable, amplitude, frequency, duration float64) *ShakeEffect {
	if frequency <= 0 {
		frequency = 10
	}
	e := &ShakeEffect{
		BaseEffect: newBaseEffect("shake", duration),
		target:     target,
		Amplitude:  math.Abs(amplitude),
		Frequency:  frequency,
	}
	e.capture = func() { e.original = Vec2{X: target.X, Y: target.Y} }
	e.restore = func() { target.SetPosition(e.original.X, e.original.Y) }
	return e
}

// Update applies the decaying oscillation offset.
func (e *ShakeEffect) Update(dt float64) {
	p, done := e.advance(dt)
	if e.state != EffectPlaying {
		return
	}
	decay := 1 - p
	phase := e.elapsed * e.Frequency * 2 * math.Pi
	e.target.SetPosition(
		e.original.X+math.Sin(phase)*e.Amplitude*decay,
		e.original.Y+math.Cos(phase*0.7)*e.Amplitude*decay*0.5,
	)
	e.emitUpdate(p)
	if done {
		e.complete()
	}
}
