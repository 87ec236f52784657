package ember

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/tanema/gween/ease"
)

// ErrUnknownTransition is returned when a transition name is not registered.
var ErrUnknownTransition = errors.New("ember: unknown transition")

// TransitionState tracks where a transition is in its life cycle. Reversed is
// a running state: the transition is still advancing, with its progress
// mirrored.
type TransitionState uint8

const (
	TransitionInitialized TransitionState = iota // constructed, not yet started
	TransitionRunning                            // advancing forward
	TransitionPaused                             // frozen; Resume continues
	TransitionCompleted                          // reached a boundary
	TransitionReversed                           // advancing after a Reverse
)

// Transition blends between two externally rendered visual surfaces over
// time. Variants compute their own derived quantity (alpha, offset, scale,
// flip angle) from the shared eased progress.
type Transition interface {
	// Start begins the transition. entering=true runs forward (direction +1);
	// entering=false runs the leaving/reverse semantic (direction -1).
	Start(entering bool)
	// Update advances by an explicit dt, for deterministic stepping.
	Update(dt float64)
	// Tick advances using the wall clock, for pure presentation-time
	// progression.
	Tick()
	Pause()
	Resume()
	// Reverse flips direction and mirrors progress. May be called at any time
	// while running, paused, or reversed.
	Reverse()
	// Complete forces the transition to its end state immediately.
	Complete()

	State() TransitionState
	// Progress returns eased progress in [0, 1].
	Progress() float64
	// Direction returns +1 (forward) or -1 (backward).
	Direction() int

	// Draw composites the two sides. Both surfaces must already hold their
	// rendered content; the transition only combines them.
	Draw(r Renderer, from, to Surface)
}

// BaseTransition owns time bookkeeping, direction, and auto-reverse for all
// variants. Variants set the apply hook to recompute their derived quantity.
type BaseTransition struct {
	duration    float64
	easing      ease.TweenFunc
	autoReverse bool

	state        TransitionState
	pausedFrom   TransitionState
	direction    int
	reversedOnce bool
	elapsed      float64
	progress     float64
	lastTick     time.Time

	// OnComplete fires when the transition reaches a boundary and completes
	// (not when auto-reverse turns it around). Panics are logged and swallowed.
	OnComplete func()

	apply func(progress float64)
}

// newBaseTransition builds the shared core with a clamped duration and a
// named easing resolved fail-fast.
func newBaseTransition(duration float64, easingName string) (BaseTransition, error) {
	fn, err := EasingByName(easingName)
	if err != nil {
		return BaseTransition{}, err
	}
	if duration < minDuration {
		duration = minDuration
	}
	return BaseTransition{
		duration:  duration,
		easing:    fn,
		direction: 1,
	}, nil
}

// SetAutoReverse makes the transition turn around once at its first boundary
// instead of completing there.
func (t *BaseTransition) SetAutoReverse(auto bool) {
	t.autoReverse = auto
}

// State returns the current life-cycle state.
func (t *BaseTransition) State() TransitionState {
	return t.state
}

// Progress returns eased progress in [0, 1].
func (t *BaseTransition) Progress() float64 {
	return t.progress
}

// Direction returns +1 when running forward, -1 when running backward.
func (t *BaseTransition) Direction() int {
	return t.direction
}

// Duration returns the transition duration in seconds.
func (t *BaseTransition) Duration() float64 {
	return t.duration
}

// Start resets the clock and begins running. entering selects the direction.
func (t *BaseTransition) Start(entering bool) {
	t.elapsed = 0
	t.reversedOnce = false
	if entering {
		t.direction = 1
	} else {
		t.direction = -1
	}
	t.state = TransitionRunning
	t.lastTick = time.Now()
	t.refresh()
}

// Pause freezes a running or reversed transition.
func (t *BaseTransition) Pause() {
	if t.state == TransitionRunning || t.state == TransitionReversed {
		t.pausedFrom = t.state
		t.state = TransitionPaused
	}
}

// Resume continues a paused transition, re-deriving the wall-clock anchor.
func (t *BaseTransition) Resume() {
	if t.state == TransitionPaused {
		t.state = t.pausedFrom
		t.lastTick = time.Now()
	}
}

// Update advances the transition by dt seconds and recomputes progress.
// At a boundary (raw progress 1 going forward, 0 going backward) the
// transition either auto-reverses once or completes.
func (t *BaseTransition) Update(dt float64) {
	if t.state != TransitionRunning && t.state != TransitionReversed {
		return
	}
	t.elapsed += dt
	raw, boundary := t.rawProgress()
	t.setProgress(raw)
	if boundary {
		if t.autoReverse && !t.reversedOnce {
			t.reversedOnce = true
			t.Reverse()
			return
		}
		t.state = TransitionCompleted
		safeCall("transition complete", t.OnComplete)
	}
}

// Tick advances the transition using the wall clock.
func (t *BaseTransition) Tick() {
	if t.state != TransitionRunning && t.state != TransitionReversed {
		return
	}
	now := time.Now()
	dt := now.Sub(t.lastTick).Seconds()
	t.lastTick = now
	t.Update(dt)
}

// Reverse flips direction and mirrors elapsed time so progress is preserved
// at the turn-around point, then continues toward the opposite boundary.
func (t *BaseTransition) Reverse() {
	switch t.state {
	case TransitionRunning, TransitionPaused, TransitionReversed:
	default:
		return
	}
	t.direction = -t.direction
	t.elapsed = clamp(t.duration-t.elapsed, 0, t.duration)
	t.lastTick = time.Now()
	switch t.state {
	case TransitionRunning:
		t.state = TransitionReversed
	case TransitionReversed:
		t.state = TransitionRunning
	}
}

// Complete forces the transition to its boundary state immediately.
func (t *BaseTransition) Complete() {
	if t.state == TransitionCompleted {
		return
	}
	t.elapsed = t.duration
	raw, _ := t.rawProgress()
	t.setProgress(raw)
	t.state = TransitionCompleted
	safeCall("transition complete", t.OnComplete)
}

// rawProgress returns linear progress after direction mirroring, and whether
// a boundary was reached.
func (t *BaseTransition) rawProgress() (raw float64, boundary bool) {
	raw = clamp01(t.elapsed / t.duration)
	if t.direction < 0 {
		raw = 1 - raw
		return raw, raw <= 0
	}
	return raw, raw >= 1
}

// setProgress eases raw progress and pushes it through the variant hook.
func (t *BaseTransition) setProgress(raw float64) {
	t.progress = applyEase(t.easing, raw)
	if t.apply != nil {
		t.apply(t.progress)
	}
}

// refresh recomputes progress for the current elapsed time without advancing.
func (t *BaseTransition) refresh() {
	raw, _ := t.rawProgress()
	t.setProgress(raw)
}

// Draw is a no-op on the base; variants composite the surfaces.
func (t *BaseTransition) Draw(r Renderer, from, to Surface) {}

// --- Fade ---

// FadeTransition crossfades: the outgoing side is drawn fully opaque and the
// incoming side on top with an alpha interpolated between FromAlpha and
// ToAlpha.
type FadeTransition struct {
	BaseTransition

	FromAlpha, ToAlpha float64
	alpha              float64
}

// NewFadeTransition builds a crossfade.
func NewFadeTransition(fromAlpha, toAlpha, duration float64, easingName string) (*FadeTransition, error) {
	base, err := newBaseTransition(duration, easingName)
	if err != nil {
		return nil, err
	}
	ft := &FadeTransition{
		BaseTransition: base,
		FromAlpha:      clamp01(fromAlpha),
		ToAlpha:        clamp01(toAlpha),
	}
	ft.alpha = ft.FromAlpha
	ft.apply = ft.recompute
	return ft, nil
}

// recompute derives the current alpha from eased progress.
func (ft *FadeTransition) recompute(p float64) {
	ft.alpha = lerp(ft.FromAlpha, ft.ToAlpha, p)
}

// Alpha returns the incoming side's current opacity.
func (ft *FadeTransition) Alpha() float64 {
	return ft.alpha
}

// Draw composites the crossfade.
func (ft *FadeTransition) Draw(r Renderer, from, to Surface) {
	r.SaveState()
	if from != nil {
		r.SetOpacity(1)
		r.DrawSurface(from, 0, 0)
	}
	if to != nil {
		r.SetOpacity(ft.alpha)
		r.DrawSurface(to, 0, 0)
	}
	r.RestoreState()
}

// --- Slide ---

// SlideDirection selects the axis and sign of a slide.
type SlideDirection uint8

const (
	SlideLeft  SlideDirection = iota // incoming side enters from the right
	SlideRight                       // incoming side enters from the left
	SlideUp                          // incoming side enters from the bottom
	SlideDown                        // incoming side enters from the top
)

// SlideTransition pushes the outgoing side off one edge while the incoming
// side follows it in.
type SlideTransition struct {
	BaseTransition

	Dir    SlideDirection
	offset float64
}

// NewSlideTransition builds a directional slide.
func NewSlideTransition(dir SlideDirection, duration float64, easingName string) (*SlideTransition, error) {
	base, err := newBaseTransition(duration, easingName)
	if err != nil {
		return nil, err
	}
	st := &SlideTransition{BaseTransition: base, Dir: dir}
	st.apply = st.recompute
	return st, nil
}

// recompute derives the normalized axis offset from eased progress.
func (st *SlideTransition) recompute(p float64) {
	st.offset = p
}

// Offset returns the normalized axis offset in [0, 1]; pixel offsets are
// derived from the viewport at draw time.
func (st *SlideTransition) Offset() float64 {
	return st.offset
}

// Draw composites the slide.
func (st *SlideTransition) Draw(r Renderer, from, to Surface) {
	w, h := r.ViewportSize()
	fw := float64(w)
	fh := float64(h)

	var fx, fy, tx, ty float64
	switch st.Dir {
	case SlideLeft:
		fx = -st.offset * fw
		tx = fw + fx
	case SlideRight:
		fx = st.offset * fw
		tx = fx - fw
	case SlideUp:
		fy = -st.offset * fh
		ty = fh + fy
	case SlideDown:
		fy = st.offset * fh
		ty = fy - fh
	}

	r.SaveState()
	r.SetOpacity(1)
	if from != nil {
		r.DrawSurface(from, fx, fy)
	}
	if to != nil {
		r.DrawSurface(to, tx, ty)
	}
	r.RestoreState()
}

// --- Scale ---

// ScaleTransition grows the incoming side from nothing about a normalized
// center point, over the outgoing side.
type ScaleTransition struct {
	BaseTransition

	// CenterX and CenterY are normalized [0, 1] viewport coordinates of the
	// scaling center.
	CenterX, CenterY float64
	scale            float64
}

// NewScaleTransition builds a scale blend about the given normalized center.
func NewScaleTransition(centerX, centerY, duration float64, easingName string) (*ScaleTransition, error) {
	base, err := newBaseTransition(duration, easingName)
	if err != nil {
		return nil, err
	}
	st := &ScaleTransition{
		BaseTransition: base,
		CenterX:        clamp01(centerX),
		CenterY:        clamp01(centerY),
	}
	st.apply = st.recompute
	return st, nil
}

// recompute derives the uniform scale factor from eased progress.
func (st *ScaleTransition) recompute(p float64) {
	st.scale = p
}

// Scale returns the incoming side's current uniform scale factor.
func (st *ScaleTransition) Scale() float64 {
	return st.scale
}

// Draw composites the scale blend.
func (st *ScaleTransition) Draw(r Renderer, from, to Surface) {
	r.SaveState()
	r.SetOpacity(1)
	if from != nil {
		r.DrawSurface(from, 0, 0)
	}
	if to != nil && st.scale > 0 {
		w, h := r.ViewportSize()
		x := st.CenterX * float64(w) * (1 - st.scale)
		y := st.CenterY * float64(h) * (1 - st.scale)
		r.DrawSurfaceScaled(to, x, y, st.scale, st.scale)
	}
	r.RestoreState()
}

// --- Flip ---

// FlipAxis selects which axis a flip collapses along.
type FlipAxis uint8

const (
	FlipHorizontal FlipAxis = iota // width collapses (flip about the vertical axis)
	FlipVertical                   // height collapses (flip about the horizontal axis)
)

// FlipTransition sweeps an angle from 0 to 180 degrees: the outgoing side
// collapses toward the midline until 90, then the incoming side expands from
// it. The content swap happens exactly at the 90-degree midpoint.
type FlipTransition struct {
	BaseTransition

	Axis  FlipAxis
	angle float64
}

// NewFlipTransition builds a two-phase flip.
func NewFlipTransition(axis FlipAxis, duration float64, easingName string) (*FlipTransition, error) {
	base, err := newBaseTransition(duration, easingName)
	if err != nil {
		return nil, err
	}
	ft := &FlipTransition{BaseTransition: base, Axis: axis}
	ft.apply = ft.recompute
	return ft, nil
}

// recompute derives the flip angle from eased progress.
func (ft *FlipTransition) recompute(p float64) {
	ft.angle = p * 180
}

// Angle returns the current flip angle in [0, 180] degrees.
func (ft *FlipTransition) Angle() float64 {
	return ft.angle
}

// Draw composites the flip. The visible side is scaled along the flip axis by
// |cos(angle)|, about the viewport center line.
func (ft *FlipTransition) Draw(r Renderer, from, to Surface) {
	w, h := r.ViewportSize()
	fw := float64(w)
	fh := float64(h)

	factor := math.Abs(math.Cos(ft.angle * degToRad))
	side := from
	if ft.angle >= 90 {
		side = to
	}
	if side == nil || factor <= 0 {
		return
	}

	sx, sy := 1.0, 1.0
	var x, y float64
	if ft.Axis == FlipHorizontal {
		sx = factor
		x = fw * (1 - factor) / 2
	} else {
		sy = factor
		y = fh * (1 - factor) / 2
	}

	r.SaveState()
	r.SetOpacity(1)
	r.DrawSurfaceScaled(side, x, y, sx, sy)
	r.RestoreState()
}

// --- TransitionManager ---

// TransitionFactory builds a fresh transition instance.
type TransitionFactory func() (Transition, error)

// TransitionManager is a named-factory registry with at most one active
// transition. Starting a new transition while one is active forces the
// previous one to complete immediately.
//
// Like EffectManager, it is an explicit context object owned by the
// composition root, not package state.
type TransitionManager struct {
	factories map[string]TransitionFactory
	active    Transition
}

// Default transition timings used by the built-in registrations.
const (
	defaultFadeDuration  = 0.5
	defaultSlideDuration = 0.5
	defaultScaleDuration = 0.5
	defaultFlipDuration  = 0.6
)

// NewTransitionManager creates a registry pre-populated with the built-in
// transitions under the names "fade", "slide", "scale", and "flip".
func NewTransitionManager() *TransitionManager {
	m := &TransitionManager{factories: make(map[string]TransitionFactory)}
	m.Register("fade", func() (Transition, error) {
		return NewFadeTransition(0, 1, defaultFadeDuration, "linear")
	})
	m.Register("slide", func() (Transition, error) {
		return NewSlideTransition(SlideLeft, defaultSlideDuration, "ease_in_out_quad")
	})
	m.Register("scale", func() (Transition, error) {
		return NewScaleTransition(0.5, 0.5, defaultScaleDuration, "ease_out_cubic")
	})
	m.Register("flip", func() (Transition, error) {
		return NewFlipTransition(FlipHorizontal, defaultFlipDuration, "ease_in_out_sine")
	})
	return m
}

// Register adds or replaces a named transition factory.
func (m *TransitionManager) Register(name string, factory TransitionFactory) {
	m.factories[name] = factory
}

// Start builds and starts the named transition. Any transition still active
// is forced to complete first.
func (m *TransitionManager) Start(name string, entering bool) (Transition, error) {
	factory, ok := m.factories[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTransition, name)
	}
	tr, err := factory()
	if err != nil {
		return nil, err
	}
	if m.active != nil && m.active.State() != TransitionCompleted {
		m.active.Complete()
	}
	tr.Start(entering)
	m.active = tr
	return tr, nil
}

// Active returns the transition currently in flight, or nil.
func (m *TransitionManager) Active() Transition {
	return m.active
}

// IsActive reports whether a transition is in flight.
func (m *TransitionManager) IsActive() bool {
	return m.active != nil && m.active.State() != TransitionCompleted
}

// Update advances the active transition by dt; a completed transition is
// released.
func (m *TransitionManager) Update(dt float64) {
	if m.active == nil {
		return
	}
	m.active.Update(dt)
	if m.active.State() == TransitionCompleted {
		m.active = nil
	}
}

// Tick advances the active transition on the wall clock.
func (m *TransitionManager) Tick() {
	if m.active == nil {
		return
	}
	m.active.Tick()
	if m.active.State() == TransitionCompleted {
		m.active = nil
	}
}

// Draw composites the active transition, if any.
func (m *TransitionManager) Draw(r Renderer, from, to Surface) {
	if m.active != nil {
		m.active.Draw(r, from, to)
	}
}
