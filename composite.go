package ember

// CompositeEffect owns a list of child effects and plays, stops, pauses, and
// updates them as one unit. Children are quiesced at construction (anything
// mid-flight is halted and reset to initialized), forced non-looping, and
// kept clock-locked to the composite while it plays. The composite's duration
// defaults to the longest child duration unless overridden with SetDuration.
type CompositeEffect struct {
	BaseEffect

	children []Effect
}

// NewComposite builds a composite over the given effects.
func NewComposite(effects ...Effect) *CompositeEffect {
	maxDuration := 0.0
	for _, child := range effects {
		child.reset()
		child.setLoop(false)
		if d := child.Duration(); d > maxDuration {
			maxDuration = d
		}
	}
	e := &CompositeEffect{
		BaseEffect: newBaseEffect("composite", maxDuration),
		children:   effects,
	}
	return e
}

// Children returns the child effects. The returned slice MUST NOT be mutated.
func (e *CompositeEffect) Children() []Effect {
	return e.children
}

// Start starts the composite and every child from a shared zero clock.
func (e *CompositeEffect) Start() {
	e.BaseEffect.Start()
	for _, child := range e.children {
		child.Start()
	}
}

// Stop interrupts the composite and every child.
func (e *CompositeEffect) Stop() {
	if e.state != EffectPlaying && e.state != EffectPaused {
		return
	}
	for _, child := range e.children {
		child.Stop()
	}
	e.BaseEffect.Stop()
}

// Pause freezes the composite and every child.
func (e *CompositeEffect) Pause() {
	e.BaseEffect.Pause()
	for _, child := range e.children {
		child.Pause()
	}
}

// Resume continues the composite and every child.
func (e *CompositeEffect) Resume() {
	e.BaseEffect.Resume()
	for _, child := range e.children {
		child.Resume()
	}
}

// Update advances the composite clock and re-synchronizes every child to it
// before applying. Children whose duration is shorter than the composite's
// complete (and restore) on their own once the shared clock passes them.
func (e *CompositeEffect) Update(dt float64) {
	p, done := e.advance(dt)
	if e.state != EffectPlaying {
		return
	}
	for _, child := range e.children {
		if child.State() != EffectPlaying {
			continue
		}
		child.syncClock(e.elapsed)
		child.Update(0)
	}
	e.emitUpdate(p)
	if done {
		e.complete()
	}
}

// Draw forwards to every child.
func (e *CompositeEffect) Draw(r Renderer) {
	for _, child := range e.children {
		child.Draw(r)
	}
}

// complete finishes every child that has not completed yet, then the
// composite itself. Needed when an explicit duration shorter than a child's
// cuts that child off: its end state is applied and restored as if it had
// run out naturally.
func (e *CompositeEffect) complete() {
	for _, child := range e.children {
		if child.State() == EffectPlaying || child.State() == EffectPaused {
			child.syncClock(child.Duration())
			child.Update(0)
		}
		if child.State() != EffectCompleted {
			child.complete()
		}
	}
	e.BaseEffect.complete()
}
