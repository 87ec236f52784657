package ember

import (
	"errors"
	"testing"
)

// --- Animator ---

func TestAnimatorLifecycle(t *testing.T) {
	a := newAnimator(1)
	if a.State() != AnimationIdle {
		t.Error("new animator should be idle")
	}

	a.Play()
	if a.State() != AnimationPlaying {
		t.Error("should be playing after Play")
	}

	a.Pause()
	if a.State() != AnimationPaused {
		t.Error("should be paused after Pause")
	}
	a.Update(1)
	assertNear(t, "paused elapsed", a.Elapsed(), 0)

	a.Resume()
	a.Update(0.5)
	assertNear(t, "progress", a.Progress(), 0.5)

	a.Reset()
	if a.State() != AnimationIdle || a.Elapsed() != 0 {
		t.Error("Reset should return to idle at zero")
	}
}

func TestAnimatorCompletesOnce(t *testing.T) {
	a := newAnimator(1)
	completions := 0
	a.OnComplete = func() { completions++ }

	a.Play()
	a.Update(2)
	if a.State() != AnimationCompleted {
		t.Error("should be completed")
	}
	a.Update(1)
	if completions != 1 {
		t.Errorf("OnComplete fired %d times, want 1", completions)
	}
}

func TestAnimatorDelay(t *testing.T) {
	a := newAnimator(1)
	a.Delay = 0.5
	a.Play()

	a.Update(0.25)
	assertNear(t, "progress during delay", a.Progress(), 0)

	a.Update(0.75) // 0.5 into active time
	assertNear(t, "progress after delay", a.Progress(), 0.5)
}

func TestAnimatorLoopWraps(t *testing.T) {
	a := newAnimator(1)
	a.Loop = true
	a.Play()

	a.Update(1.25)
	if a.State() != AnimationPlaying {
		t.Error("looping animator should keep playing")
	}
	assertNearEps(t, "wrapped progress", a.Progress(), 0.25, 1e-9)
}

func TestAnimatorZeroDurationClamped(t *testing.T) {
	a := newAnimator(0)
	a.Play()
	a.Update(1)
	if a.State() != AnimationCompleted {
		t.Error("zero-duration animator should still complete")
	}
}

// --- PropertyAnimation ---

func TestPropertyAnimationScalar(t *testing.T) {
	n := NewDrawable("n")
	pa, err := NewPropertyAnimation(n, "x", 0.0, 100.0, 1, "linear")
	if err != nil {
		t.Fatalf("NewPropertyAnimation: %v", err)
	}

	pa.Play()
	pa.Update(0.5)
	assertNearEps(t, "x at midpoint", n.X, 50, 1e-5)

	pa.Update(0.5)
	assertNear(t, "x at end", n.X, 100)
	if pa.State() != AnimationCompleted {
		t.Error("should be completed")
	}
}

func TestPropertyAnimationEased(t *testing.T) {
	n := NewDrawable("n")
	pa, err := NewPropertyAnimation(n, "x", 0.0, 100.0, 1, "ease_in_quad")
	if err != nil {
		t.Fatalf("NewPropertyAnimation: %v", err)
	}
	pa.Play()
	pa.Update(0.5)
	assertNearEps(t, "eased x", n.X, 25, 1e-4)
}

func TestPropertyAnimationEndValueBeforeComplete(t *testing.T) {
	n := NewDrawable("n")
	pa, _ := NewPropertyAnimation(n, "x", 0.0, 100.0, 1, "linear")

	var xAtComplete float64
	pa.OnComplete = func() { xAtComplete = n.X }

	pa.Play()
	pa.Update(5)
	assertNear(t, "x when OnComplete fired", xAtComplete, 100)
}

func TestPropertyAnimationPosition(t *testing.T) {
	n := NewDrawable("n")
	pa, err := NewPropertyAnimation(n, "position", Vec2{}, Vec2{X: 10, Y: 20}, 1, "linear")
	if err != nil {
		t.Fatalf("NewPropertyAnimation: %v", err)
	}
	pa.Play()
	pa.Update(1)
	assertNear(t, "x", n.X, 10)
	assertNear(t, "y", n.Y, 20)
}

func TestPropertyAnimationColor(t *testing.T) {
	n := NewDrawable("n")
	from := Color{R: 0, G: 0, B: 0, A: 1}
	to := Color{R: 1, G: 0.5, B: 0, A: 1}
	pa, err := NewPropertyAnimation(n, "color", from, to, 1, "linear")
	if err != nil {
		t.Fatalf("NewPropertyAnimation: %v", err)
	}
	pa.Play()
	pa.Update(1)
	assertNear(t, "r", n.Color.R, 1)
	assertNearEps(t, "g", n.Color.G, 0.5, 1e-9)
}

func TestPropertyAnimationOpacityClamped(t *testing.T) {
	n := NewDrawable("n")
	pa, _ := NewPropertyAnimation(n, "opacity", 0.0, 2.0, 1, "linear")
	pa.Play()
	pa.Update(1)
	assertNear(t, "opacity clamped", n.Opacity, 1)
}

func TestPropertyAnimationUnknownProperty(t *testing.T) {
	n := NewDrawable("n")
	_, err := NewPropertyAnimation(n, "velocity", 0.0, 1.0, 1, "linear")
	if !errors.Is(err, ErrInvalidAnimationTarget) {
		t.Errorf("err = %v, want ErrInvalidAnimationTarget", err)
	}
}

func TestPropertyAnimationArityMismatch(t *testing.T) {
	n := NewDrawable("n")
	_, err := NewPropertyAnimation(n, "x", Vec2{}, Vec2{X: 1}, 1, "linear")
	if !errors.Is(err, ErrInvalidAnimationTarget) {
		t.Errorf("err = %v, want ErrInvalidAnimationTarget", err)
	}
}

func TestPropertyAnimationNilTarget(t *testing.T) {
	_, err := NewPropertyAnimation(nil, "x", 0.0, 1.0, 1, "linear")
	if !errors.Is(err, ErrInvalidAnimationTarget) {
		t.Errorf("err = %v, want ErrInvalidAnimationTarget", err)
	}
}

func TestPropertyAnimationUnknownEasing(t *testing.T) {
	n := NewDrawable("n")
	_, err := NewPropertyAnimation(n, "x", 0.0, 1.0, 1, "bogus")
	if !errors.Is(err, ErrUnknownEasing) {
		t.Errorf("err = %v, want ErrUnknownEasing", err)
	}
}

func TestPropertyAnimationIntValues(t *testing.T) {
	n := NewDrawable("n")
	pa, err := NewPropertyAnimation(n, "x", 0, 100, 1, "linear")
	if err != nil {
		t.Fatalf("int values should be accepted: %v", err)
	}
	pa.Play()
	pa.Update(1)
	assertNear(t, "x", n.X, 100)
}

// --- MultiPropertyAnimation ---

func TestMultiPropertyAnimation(t *testing.T) {
	n := NewDrawable("n")
	move, _ := NewPropertyAnimation(n, "x", 0.0, 100.0, 1, "linear")
	fade, _ := NewPropertyAnimation(n, "opacity", 1.0, 0.0, 2, "linear")

	group := NewMultiPropertyAnimation(move, fade)
	assertNear(t, "group duration", group.Duration, 2)

	group.Play()
	group.Update(1)
	assertNear(t, "x after short child done", n.X, 100)
	assertNearEps(t, "opacity halfway", n.Opacity, 0.5, 1e-5)

	completed := false
	group.OnComplete = func() { completed = true }
	group.Update(1)
	if !completed {
		t.Error("group should complete when longest child ends")
	}
	assertNear(t, "opacity at end", n.Opacity, 0)
}

// --- SequenceAnimation ---

func TestSequenceAnimationRunsInOrder(t *testing.T) {
	n := NewDrawable("n")
	first, _ := NewPropertyAnimation(n, "x", 0.0, 10.0, 1, "linear")
	second, _ := NewPropertyAnimation(n, "y", 0.0, 10.0, 1, "linear")

	seq := NewSequenceAnimation(first, second)
	assertNear(t, "total duration", seq.Duration, 2)

	seq.Play()
	if seq.Current() != first {
		t.Error("sequence should start at the first child")
	}

	seq.Update(0.5)
	assertNear(t, "x mid-first", n.X, 5)
	assertNear(t, "y untouched", n.Y, 0)

	seq.Update(0.5)
	if seq.Current() != second {
		t.Error("second child should be current after first completes")
	}

	seq.Update(1)
	assertNear(t, "y at end", n.Y, 10)
	if seq.State() != AnimationCompleted {
		t.Error("sequence should be completed")
	}
}

func TestSequenceAnimationProgress(t *testing.T) {
	n := NewDrawable("n")
	first, _ := NewPropertyAnimation(n, "x", 0.0, 10.0, 1, "linear")
	second, _ := NewPropertyAnimation(n, "y", 0.0, 10.0, 1, "linear")

	seq := NewSequenceAnimation(first, second)
	seq.Play()
	seq.Update(1)
	seq.Update(0.5)
	assertNearEps(t, "overall progress", seq.Progress(), 0.75, 1e-9)
}

func TestSequenceAnimationLoops(t *testing.T) {
	n := NewDrawable("n")
	first, _ := NewPropertyAnimation(n, "x", 0.0, 10.0, 1, "linear")
	second, _ := NewPropertyAnimation(n, "y", 0.0, 10.0, 1, "linear")

	seq := NewSequenceAnimation(first, second)
	seq.Loop = true
	seq.Play()

	seq.Update(1)
	seq.Update(1)
	if seq.State() != AnimationPlaying {
		t.Error("looping sequence should restart, not complete")
	}
	if seq.Current() != first {
		t.Error("loop should rewind to the first child")
	}
}

func TestSequenceAnimationEmpty(t *testing.T) {
	seq := NewSequenceAnimation()
	seq.Play()
	seq.Update(1)
	if seq.State() != AnimationCompleted {
		t.Error("empty sequence should complete immediately")
	}
}

// --- Callback isolation ---

func TestAnimationCallbackPanicIsolated(t *testing.T) {
	n := NewDrawable("n")
	pa, _ := NewPropertyAnimation(n, "x", 0.0, 1.0, 1, "linear")
	pa.OnComplete = func() { panic("boom") }

	pa.Play()
	pa.Update(2) // must not propagate the panic
	if pa.State() != AnimationCompleted {
		t.Error("animation should still complete")
	}
}
