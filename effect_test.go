package ember

import (
	"testing"
)

// --- BaseEffect lifecycle ---

func TestEffectLifecycle(t *testing.T) {
	n := NewDrawable("n")
	e, err := NewMove(n, Vec2{}, Vec2{X: 100}, 1, "linear")
	if err != nil {
		t.Fatalf("NewMove: %v", err)
	}

	if e.State() != EffectInitialized {
		t.Error("new effect should be initialized")
	}
	e.Start()
	if e.State() != EffectPlaying {
		t.Error("should be playing after Start")
	}
	e.Pause()
	if e.State() != EffectPaused {
		t.Error("should be paused")
	}
	e.Update(1)
	assertNear(t, "frozen while paused", n.X, 0)
	e.Resume()
	e.Update(2)
	if e.State() != EffectCompleted {
		t.Error("should be completed")
	}
}

func TestEffectCallbacks(t *testing.T) {
	n := NewDrawable("n")
	e, _ := NewMove(n, Vec2{}, Vec2{X: 100}, 1, "linear")

	var started, completed bool
	var lastProgress float64
	e.OnStart = func() { started = true }
	e.OnUpdate = func(p float64) { lastProgress = p }
	e.OnComplete = func() { completed = true }

	e.Start()
	if !started {
		t.Error("OnStart should have fired")
	}
	e.Update(0.5)
	assertNear(t, "progress callback", lastProgress, 0.5)
	e.Update(0.5)
	if !completed {
		t.Error("OnComplete should have fired")
	}
}

func TestEffectStopFiresOnStopNotOnComplete(t *testing.T) {
	n := NewDrawable("n")
	e, _ := NewMove(n, Vec2{}, Vec2{X: 100}, 1, "linear")

	var stopped, completed bool
	e.OnStop = func() { stopped = true }
	e.OnComplete = func() { completed = true }

	e.Start()
	e.Update(0.5)
	e.Stop()
	if !stopped || completed {
		t.Errorf("stopped=%v completed=%v, want true/false", stopped, completed)
	}
	if e.State() != EffectStopped {
		t.Error("state should be stopped")
	}
}

func TestEffectTimeScale(t *testing.T) {
	n := NewDrawable("n")
	e, _ := NewMove(n, Vec2{}, Vec2{X: 100}, 1, "linear")
	e.SetTimeScale(2)

	e.Start()
	e.Update(0.25)
	assertNearEps(t, "double speed", n.X, 50, 1e-5)
}

func TestEffectLoopNeverCompletes(t *testing.T) {
	n := NewDrawable("n")
	e, _ := NewMove(n, Vec2{}, Vec2{X: 100}, 1, "linear")
	e.SetLoop(true)

	e.Start()
	for i := 0; i < 50; i++ {
		e.Update(0.3)
	}
	if e.State() != EffectPlaying {
		t.Error("looping effect must never complete from time alone")
	}
}

func TestEffectCallbackPanicIsolated(t *testing.T) {
	n := NewDrawable("n")
	e, _ := NewMove(n, Vec2{}, Vec2{X: 100}, 1, "linear")
	e.OnUpdate = func(float64) { panic("boom") }
	e.Start()
	e.Update(0.5) // must not propagate
}

// --- Move: interpolation, restore ---

func TestMoveMidpointAndRestore(t *testing.T) {
	n := NewDrawable("n")
	e, _ := NewMove(n, Vec2{}, Vec2{X: 100}, 1, "linear")

	e.Start()
	e.Update(0.5)
	assertNearEps(t, "x at midpoint", n.X, 50, 1e-5)

	// Natural completion restores the position captured at Start.
	e.Update(0.5)
	assertNear(t, "x restored", n.X, 0)
	assertNear(t, "y restored", n.Y, 0)
}

func TestMoveStopDoesNotRestore(t *testing.T) {
	n := NewDrawable("n")
	e, _ := NewMove(n, Vec2{}, Vec2{X: 100}, 1, "linear")

	e.Start()
	e.Update(0.5)
	e.Stop()
	assertNearEps(t, "x keeps mid-flight value", n.X, 50, 1e-5)
}

func TestMoveCapturesPositionAtStart(t *testing.T) {
	n := NewDrawable("n")
	n.SetPosition(7, 9)
	e, _ := NewMove(n, Vec2{}, Vec2{X: 100}, 1, "linear")

	e.Start()
	e.Update(2)
	assertNear(t, "restored x", n.X, 7)
	assertNear(t, "restored y", n.Y, 9)
}

// --- Fade ---

func TestFadeInterpolatesAndRestores(t *testing.T) {
	n := NewDrawable("n")
	e, _ := NewFade(n, 1, 0, 1, "linear")

	e.Start()
	e.Update(0.5)
	assertNearEps(t, "opacity midway", n.Opacity, 0.5, 1e-5)
	e.Update(0.5)
	assertNear(t, "opacity restored", n.Opacity, 1)
}

func TestFadeToStartsFromCurrent(t *testing.T) {
	n := NewDrawable("n")
	n.SetOpacity(0.8)
	e, _ := NewFadeTo(n, 0, 1, "linear")

	e.Start()
	e.Update(0.5)
	assertNearEps(t, "from current", n.Opacity, 0.4, 1e-5)
}

// --- Color ---

func TestColorEffectRestoresOriginal(t *testing.T) {
	n := NewDrawable("n")
	n.Color = Color{R: 0.2, G: 0.4, B: 0.6, A: 1}
	red := Color{R: 1, A: 1}
	e, _ := NewColorEffect(n, Color{A: 1}, red, 1, "linear")

	e.Start()
	e.Update(0.999)
	if n.Color == (Color{R: 0.2, G: 0.4, B: 0.6, A: 1}) {
		t.Error("color should be mid-interpolation")
	}
	e.Update(0.1)
	if n.Color != (Color{R: 0.2, G: 0.4, B: 0.6, A: 1}) {
		t.Errorf("color not restored: %+v", n.Color)
	}
}

func TestColorFadeStartsFromCurrent(t *testing.T) {
	n := NewDrawable("n")
	n.Color = Color{R: 1, G: 1, B: 1, A: 1}
	e, _ := NewColorFade(n, Color{A: 1}, 1, "linear")

	e.Start()
	e.Update(0.5)
	assertNearEps(t, "r midway", n.Color.R, 0.5, 1e-5)
}

// --- Blink ---

func TestBlinkAlternatesAndRestores(t *testing.T) {
	n := NewDrawable("n")
	original := n.Color
	blinkColor := Color{R: 1, A: 1}
	e := NewBlink(n, blinkColor, 2, 1)

	e.Start()
	e.Update(0.1) // phase 0 of 4 -> blink color
	if n.Color != blinkColor {
		t.Errorf("first phase should show blink color, got %+v", n.Color)
	}
	e.Update(0.2) // phase 1 -> original
	if n.Color != original {
		t.Errorf("second phase should show original color, got %+v", n.Color)
	}
	e.Update(1)
	if n.Color != original {
		t.Error("original color should be restored at completion")
	}
}

func TestBlinkCountFloor(t *testing.T) {
	n := NewDrawable("n")
	e := NewBlink(n, Color{R: 1, A: 1}, 0, 1)
	if e.Blinks != 1 {
		t.Errorf("Blinks = %d, want floor of 1", e.Blinks)
	}
}

// --- Scale / Rotate ---

func TestScaleEffect(t *testing.T) {
	n := NewDrawable("n")
	e, _ := NewScale(n, Vec2{X: 1, Y: 1}, Vec2{X: 3, Y: 3}, 1, "linear")

	e.Start()
	e.Update(0.5)
	assertNearEps(t, "scale midway", n.ScaleX, 2, 1e-5)
	e.Update(0.5)
	assertNear(t, "scale restored", n.ScaleX, 1)
}

func TestRotateEffect(t *testing.T) {
	n := NewDrawable("n")
	e, _ := NewRotate(n, 0, 180, 1, "linear")

	e.Start()
	e.Update(0.5)
	assertNearEps(t, "rotation midway", n.Rotation, 90, 1e-4)
	e.Update(0.5)
	assertNear(t, "rotation restored", n.Rotation, 0)
}

// --- Shake ---

func TestShakeDisplacesAndRestores(t *testing.T) {
	n := NewDrawable("n")
	n.SetPosition(10, 20)
	e := NewShake(n, 5, 10, 1)

	e.Start()
	moved := false
	for i := 0; i < 9; i++ {
		e.Update(0.1)
		if n.X != 10 || n.Y != 20 {
			moved = true
		}
	}
	if !moved {
		t.Error("shake never displaced the target")
	}
	e.Update(0.2)
	assertNear(t, "x restored", n.X, 10)
	assertNear(t, "y restored", n.Y, 20)
}

// --- CompositeEffect ---

func TestCompositeDurationIsMaxChild(t *testing.T) {
	n := NewDrawable("n")
	short, _ := NewMove(n, Vec2{}, Vec2{X: 10}, 0.5, "linear")
	long, _ := NewFade(n, 1, 0, 2, "linear")

	c := NewComposite(short, long)
	assertNear(t, "composite duration", c.Duration(), 2)
}

func TestCompositeQuiescesChildren(t *testing.T) {
	n := NewDrawable("n")
	child, _ := NewMove(n, Vec2{}, Vec2{X: 10}, 1, "linear")
	child.SetLoop(true)
	child.Start()
	child.Update(0.3)

	NewComposite(child)
	if child.State() != EffectInitialized {
		t.Error("mid-flight child should be reset at composite construction")
	}
	if child.Loop() {
		t.Error("child looping should be forced off")
	}
}

func TestCompositeDrivesChildren(t *testing.T) {
	n := NewDrawable("n")
	move, _ := NewMove(n, Vec2{}, Vec2{X: 100}, 1, "linear")
	c := NewComposite(move)

	c.Start()
	c.Update(0.5)
	assertNearEps(t, "child follows composite clock", n.X, 50, 1e-5)

	c.Update(0.5)
	if c.State() != EffectCompleted || move.State() != EffectCompleted {
		t.Error("composite and child should both complete")
	}
	assertNear(t, "child restored", n.X, 0)
}

func TestCompositeShorterChildCompletesEarly(t *testing.T) {
	n := NewDrawable("n")
	m := NewDrawable("m")
	short, _ := NewMove(n, Vec2{}, Vec2{X: 10}, 0.5, "linear")
	long, _ := NewMove(m, Vec2{}, Vec2{X: 10}, 2, "linear")

	c := NewComposite(short, long)
	c.Start()
	c.Update(1)
	if short.State() != EffectCompleted {
		t.Error("short child should complete mid-composite")
	}
	if long.State() != EffectPlaying {
		t.Error("long child should still be playing")
	}
}

func TestCompositeExplicitDurationCutsChildrenOff(t *testing.T) {
	n := NewDrawable("n")
	long, _ := NewMove(n, Vec2{}, Vec2{X: 100}, 2, "linear")
	c := NewComposite(long)
	c.SetDuration(1)

	c.Start()
	c.Update(1)
	if c.State() != EffectCompleted {
		t.Error("composite should complete at its explicit duration")
	}
	if long.State() != EffectCompleted {
		t.Error("cut-off child should be forced to complete")
	}
	assertNear(t, "child end state restored", n.X, 0)
}

func TestCompositeStopForwards(t *testing.T) {
	n := NewDrawable("n")
	move, _ := NewMove(n, Vec2{}, Vec2{X: 100}, 1, "linear")
	c := NewComposite(move)

	c.Start()
	c.Update(0.5)
	c.Stop()
	if move.State() != EffectStopped {
		t.Error("stop should forward to children")
	}
	assertNearEps(t, "no restore on stop", n.X, 50, 1e-5)
}

func TestCompositePauseResumeForwards(t *testing.T) {
	n := NewDrawable("n")
	move, _ := NewMove(n, Vec2{}, Vec2{X: 100}, 1, "linear")
	c := NewComposite(move)

	c.Start()
	c.Pause()
	if move.State() != EffectPaused {
		t.Error("pause should forward")
	}
	c.Update(1)
	assertNear(t, "frozen", n.X, 0)
	c.Resume()
	if move.State() != EffectPlaying {
		t.Error("resume should forward")
	}
}
