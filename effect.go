package ember

import "math"

// EffectState tracks where an effect is in its life cycle.
//
// Stopped and completed are distinct and both externally observable: stop is
// an interruption (no state restoration), complete is a natural end (target
// state restored for the restoring effect families).
type EffectState uint8

const (
	EffectInitialized EffectState = iota // constructed, not yet started
	EffectPlaying                        // advancing on Update
	EffectPaused                         // frozen; Resume continues
	EffectCompleted                      // reached its duration naturally
	EffectStopped                        // interrupted by Stop
)

// Effect is a self-contained, finite-duration visual modifier. The set of
// effects is closed within this package: variants are selected at
// construction, and the unexported methods let CompositeEffect and the
// manager drive children without widening the public surface.
type Effect interface {
	// Start resets the clock, captures any original target state, moves the
	// effect to playing, and fires its start callback.
	Start()
	// Stop interrupts the effect without restoring target state.
	Stop()
	// Pause freezes a playing effect; Resume continues it.
	Pause()
	Resume()
	// Update advances the effect by dt seconds. No-op unless playing.
	Update(dt float64)
	// Draw renders any visual output the effect owns. Most effects mutate
	// their target and draw nothing themselves.
	Draw(r Renderer)

	State() EffectState
	Duration() float64
	Loop() bool
	// Node returns the effect's own scene-graph node (layer, priority, and
	// opacity for draw ordering).
	Node() *Drawable

	reset()
	setLoop(loop bool)
	syncClock(elapsed float64)
	complete()
}

// BaseEffect carries the clock, state machine, and callback plumbing shared
// by every effect variant. Variants embed it and implement Update.
type BaseEffect struct {
	Drawable

	duration  float64
	looping   bool
	timeScale float64
	elapsed   float64
	state     EffectState

	// Lifecycle callbacks. All optional; panics inside them are logged and
	// swallowed so a failing callback cannot abort the frame loop.
	OnStart    func()
	OnUpdate   func(progress float64)
	OnComplete func()
	OnStop     func()

	// capture records original target state at Start; restore puts it back on
	// natural completion. Set by restoring variants, nil otherwise.
	capture func()
	restore func()
}

// newBaseEffect builds the shared effect core with a clamped duration.
func newBaseEffect(name string, duration float64) BaseEffect {
	if duration < minDuration {
		duration = minDuration
	}
	b := BaseEffect{duration: duration, timeScale: 1}
	drawableDefaults(&b.Drawable)
	b.Drawable.Name = name
	return b
}

// Start resets elapsed time, captures original target state, and fires OnStart.
func (e *BaseEffect) Start() {
	e.elapsed = 0
	e.state = EffectPlaying
	if e.capture != nil {
		e.capture()
	}
	safeCall("effect start", e.OnStart)
}

// Stop interrupts a playing or paused effect and fires OnStop. Target state
// is NOT restored.
func (e *BaseEffect) Stop() {
	if e.state != EffectPlaying && e.state != EffectPaused {
		return
	}
	e.state = EffectStopped
	safeCall("effect stop", e.OnStop)
}

// Pause freezes a playing effect.
func (e *BaseEffect) Pause() {
	if e.state == EffectPlaying {
		e.state = EffectPaused
	}
}

// Resume continues a paused effect.
func (e *BaseEffect) Resume() {
	if e.state == EffectPaused {
		e.state = EffectPlaying
	}
}

// State returns the current life-cycle state.
func (e *BaseEffect) State() EffectState {
	return e.state
}

// Duration returns the effect's duration in seconds.
func (e *BaseEffect) Duration() float64 {
	return e.duration
}

// SetDuration overrides the duration, clamped to the minimum.
func (e *BaseEffect) SetDuration(duration float64) {
	if duration < minDuration {
		duration = minDuration
	}
	e.duration = duration
}

// Loop reports whether the effect wraps instead of completing.
func (e *BaseEffect) Loop() bool {
	return e.looping
}

// SetLoop makes the effect wrap its clock instead of completing. A looping
// effect never completes from time alone.
func (e *BaseEffect) SetLoop(loop bool) {
	e.looping = loop
}

// TimeScale returns the multiplier applied to dt.
func (e *BaseEffect) TimeScale() float64 {
	return e.timeScale
}

// SetTimeScale sets the multiplier applied to dt. Values at or below zero
// freeze the effect without changing its state.
func (e *BaseEffect) SetTimeScale(scale float64) {
	if scale < 0 {
		scale = 0
	}
	e.timeScale = scale
}

// Elapsed returns accumulated (time-scaled) seconds.
func (e *BaseEffect) Elapsed() float64 {
	return e.elapsed
}

// Progress returns normalized progress in [0, 1].
func (e *BaseEffect) Progress() float64 {
	return clamp01(e.elapsed / e.duration)
}

// Node returns the effect's own scene-graph node.
func (e *BaseEffect) Node() *Drawable {
	return &e.Drawable
}

// Update advances the clock and fires OnUpdate/OnComplete. Variants with a
// target shadow this with their own apply step.
func (e *BaseEffect) Update(dt float64) {
	p, done := e.advance(dt)
	if e.state != EffectPlaying {
		return
	}
	e.emitUpdate(p)
	if done {
		e.complete()
	}
}

// Draw renders nothing; variants with visual output shadow it.
func (e *BaseEffect) Draw(r Renderer) {}

// advance moves the clock forward by dt (scaled) and reports whether the
// effect completed naturally on this call. Looping effects wrap and never
// report completion. The state stays playing; complete() finalizes it.
func (e *BaseEffect) advance(dt float64) (progress float64, done bool) {
	if e.state != EffectPlaying {
		return e.Progress(), false
	}
	e.elapsed += dt * e.timeScale
	if e.elapsed >= e.duration {
		if e.looping {
			e.elapsed = math.Mod(e.elapsed, e.duration)
			return e.Progress(), false
		}
		e.elapsed = e.duration
		return 1, true
	}
	return e.Progress(), false
}

// emitUpdate fires OnUpdate with panic isolation.
func (e *BaseEffect) emitUpdate(progress float64) {
	safeCallProgress("effect update", e.OnUpdate, progress)
}

// complete finalizes a naturally finished effect: restores captured target
// state, marks the effect completed, and fires OnComplete.
func (e *BaseEffect) complete() {
	if e.restore != nil {
		e.restore()
	}
	e.state = EffectCompleted
	safeCall("effect complete", e.OnComplete)
}

// reset quiesces the effect back to initialized without firing callbacks.
func (e *BaseEffect) reset() {
	e.elapsed = 0
	e.state = EffectInitialized
}

// setLoop is the interface-internal loop setter.
func (e *BaseEffect) setLoop(loop bool) {
	e.looping = loop
}

// syncClock forces elapsed time, clamped to the duration. Used by
// CompositeEffect to keep child clocks locked to its own.
func (e *BaseEffect) syncClock(elapsed float64) {
	e.elapsed = clamp(elapsed, 0, e.duration)
}
