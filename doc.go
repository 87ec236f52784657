// Package ember is an animation and effects engine for [Ebitengine].
//
// Ember provides the time-based layer of a 2D game or visualization: a
// scene-graph node model with cached world transforms, easing-driven property
// animation, stateful visual effects with capture/restore life cycles,
// CPU-simulated particle systems, and progress-based screen transitions.
// Drawing goes through the [Renderer] contract; [EbitenRenderer] is the
// Ebitengine backend and tests substitute their own.
//
// # Quick start
//
// Implement [ebiten.Game] yourself and drive an [EffectManager] from it:
//
//	type Game struct {
//		effects  *ember.EffectManager
//		renderer *ember.EbitenRenderer
//	}
//
//	func (g *Game) Update() error {
//		g.effects.Update(1.0 / 60.0)
//		return nil
//	}
//
//	func (g *Game) Draw(screen *ebiten.Image) {
//		g.renderer.Begin(screen)
//		g.effects.Draw(g.renderer)
//	}
//
//	func (g *Game) Layout(w, h int) (int, int) { return w, h }
//
// # Scene graph
//
// Every visual element is a [Drawable]. Drawables form a tree; children
// inherit their parent's transform and opacity, and world transforms are
// computed lazily and cached until a property changes.
//
//	root := ember.NewDrawable("root")
//	box := ember.NewDrawable("box")
//	box.SetPosition(100, 50)
//	root.AddChild(box)
//
// # Animation and effects
//
// [PropertyAnimation] drives any named node property through a named easing
// curve; [SequenceAnimation] and [MultiPropertyAnimation] compose them.
// Effects ([MoveEffect], [FadeEffect], [ShakeEffect], [ParticleSystem], and
// the rest) are stateful: they capture target state on Start and restore it
// when they complete naturally. Register effects with an [EffectManager] for
// per-frame dispatch.
//
// # Transitions
//
// Transitions ([FadeTransition], [SlideTransition], [ScaleTransition],
// [FlipTransition]) composite two rendered surfaces by eased progress, can be
// reversed mid-flight, and are orchestrated by a [TransitionManager].
//
// Tween curves come from [gween]; emitter and effect presets load from YAML.
//
// [Ebitengine]: https://ebitengine.org
// [gween]: https://github.com/tanema/gween
package ember
