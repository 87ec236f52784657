package ember

import (
	"math"
	"math/rand/v2"
)

// EmissionMode selects how an emitter releases particles.
type EmissionMode uint8

const (
	// EmitContinuous releases particles at a steady rate, carrying fractional
	// remainders between updates.
	EmitContinuous EmissionMode = iota
	// EmitBurst releases BurstCount particles exactly once per activation.
	EmitBurst
)

// EmissionShape selects where new particles appear relative to the emitter.
type EmissionShape uint8

const (
	ShapePoint     EmissionShape = iota // at the emitter position
	ShapeLine                           // uniformly between the position and LineEnd
	ShapeCircle                         // uniform over a disc of Radius
	ShapeRectangle                      // uniform in a centered BoxWidth x BoxHeight box
	ShapeRing                           // uniform angle, radius between InnerRadius and Radius
)

// EmitterConfig controls how particles are spawned and behave. Spawn values
// are drawn as base ± uniform(variance); velocity is a uniform magnitude from
// Speed with a direction of Angle ± AngleVariance.
type EmitterConfig struct {
	// X and Y position the emitter. All shape sampling is relative to this
	// point, in the owning ParticleSystem's local space.
	X, Y float64

	Mode  EmissionMode
	Shape EmissionShape

	// Rate is particles per second in continuous mode.
	Rate float64
	// BurstCount is the number of particles a burst releases.
	BurstCount int

	// Shape parameters. A shape whose parameters are unusable degrades to
	// point emission at the emitter position.
	LineEndX, LineEndY  float64
	Radius              float64
	InnerRadius         float64
	BoxWidth, BoxHeight float64

	// Per-particle spawn ranges.
	Lifetime         float64
	LifetimeVariance float64
	Size             float64
	SizeVariance     float64
	Color            Color
	ColorVariance    Color

	Speed         Range
	Angle         float64 // emission direction in degrees
	AngleVariance float64

	Acceleration Vec2
	Gravity      Vec2

	RotationVelocity Range // degrees per second

	// Scale and alpha curves: each particle interpolates linearly from a
	// start sample to an end sample over its lifetime.
	StartScale Range
	EndScale   Range
	StartAlpha Range
	EndAlpha   Range
}

// ParticleEmitter spawns particles per its configuration. The emitter holds
// only emission bookkeeping; simulation belongs to the ParticleSystem.
type ParticleEmitter struct {
	config       EmitterConfig
	accum        float64
	burstEmitted bool
}

// NewParticleEmitter creates an emitter, normalizing degenerate config values
// and falling back to point emission if the shape parameters are unusable.
func NewParticleEmitter(cfg EmitterConfig) *ParticleEmitter {
	if cfg.Lifetime <= 0 {
		cfg.Lifetime = 1
	}
	if cfg.Size <= 0 {
		cfg.Size = 4
	}
	if cfg.StartScale == (Range{}) {
		cfg.StartScale = Range{Min: 1, Max: 1}
	}
	if cfg.EndScale == (Range{}) {
		cfg.EndScale = cfg.StartScale
	}
	if cfg.StartAlpha == (Range{}) {
		cfg.StartAlpha = Range{Min: 1, Max: 1}
	}
	if cfg.Color == (Color{}) {
		cfg.Color = ColorWhite
	}
	if !shapeUsable(cfg) {
		logf("emitter shape %d misconfigured, falling back to point emission", cfg.Shape)
		cfg.Shape = ShapePoint
	}
	return &ParticleEmitter{config: cfg}
}

// shapeUsable reports whether the configured shape parameters can be sampled.
func shapeUsable(cfg EmitterConfig) bool {
	switch cfg.Shape {
	case ShapePoint, ShapeLine:
		return true
	case ShapeCircle:
		return cfg.Radius > 0
	case ShapeRectangle:
		return cfg.BoxWidth > 0 && cfg.BoxHeight > 0
	case ShapeRing:
		return cfg.Radius > 0 && cfg.InnerRadius >= 0 && cfg.InnerRadius <= cfg.Radius
	default:
		return false
	}
}

// Config returns a pointer to the emitter's config for live tuning.
func (e *ParticleEmitter) Config() *EmitterConfig {
	return &e.config
}

// Reset re-arms a burst emitter and clears the continuous accumulator.
// Called when the owning ParticleSystem restarts.
func (e *ParticleEmitter) Reset() {
	e.accum = 0
	e.burstEmitted = false
}

// Emit returns the particles released for a dt-second step: the full burst on
// the first call in burst mode (then nothing until Reset), or
// floor(accumulated/interval) particles in continuous mode with the remainder
// carried over.
func (e *ParticleEmitter) Emit(dt float64) []*Particle {
	switch e.config.Mode {
	case EmitBurst:
		if e.burstEmitted || e.config.BurstCount <= 0 {
			return nil
		}
		e.burstEmitted = true
		out := make([]*Particle, 0, e.config.BurstCount)
		for i := 0; i < e.config.BurstCount; i++ {
			out = append(out, e.spawn())
		}
		return out
	default:
		if e.config.Rate <= 0 {
			return nil
		}
		e.accum += dt
		interval := 1.0 / e.config.Rate
		n := int(e.accum / interval)
		if n == 0 {
			return nil
		}
		e.accum -= float64(n) * interval
		out := make([]*Particle, 0, n)
		for i := 0; i < n; i++ {
			out = append(out, e.spawn())
		}
		return out
	}
}

// spawn initializes one particle from the configured ranges.
func (e *ParticleEmitter) spawn() *Particle {
	cfg := &e.config

	x, y := e.samplePosition()

	lifetime := vary(cfg.Lifetime, cfg.LifetimeVariance)
	if lifetime < minParticleLifetime {
		// Grace period: a particle shorter-lived than this would be discarded
		// before it renders even once.
		lifetime = minParticleLifetime
	}

	angle := (cfg.Angle + symmetric(cfg.AngleVariance)) * degToRad
	speed := cfg.Speed.Random()

	size := vary(cfg.Size, cfg.SizeVariance)
	if size < 0.1 {
		size = 0.1
	}

	startScale := cfg.StartScale.Random()
	endScale := cfg.EndScale.Random()
	startAlpha := clamp01(cfg.StartAlpha.Random())
	endAlpha := clamp01(cfg.EndAlpha.Random())

	p := newParticle()
	p.X = x
	p.Y = y
	p.Width = size
	p.Height = size
	p.ScaleX = startScale
	p.ScaleY = startScale
	p.Opacity = startAlpha
	p.Color = Color{
		R: vary(cfg.Color.R, cfg.ColorVariance.R),
		G: vary(cfg.Color.G, cfg.ColorVariance.G),
		B: vary(cfg.Color.B, cfg.ColorVariance.B),
		A: vary(cfg.Color.A, cfg.ColorVariance.A),
	}.Clamped()

	p.VelocityX = math.Cos(angle) * speed
	p.VelocityY = math.Sin(angle) * speed
	p.AccelerationX = cfg.Acceleration.X + cfg.Gravity.X
	p.AccelerationY = cfg.Acceleration.Y + cfg.Gravity.Y
	p.RotationVelocity = cfg.RotationVelocity.Random()
	p.ScaleVelocityX = (endScale - startScale) / lifetime
	p.ScaleVelocityY = p.ScaleVelocityX
	p.AlphaVelocity = (endAlpha - startAlpha) / lifetime
	p.Lifetime = lifetime
	return p
}

// samplePosition draws a spawn position from the configured emission shape.
func (e *ParticleEmitter) samplePosition() (float64, float64) {
	cfg := &e.config
	switch cfg.Shape {
	case ShapeLine:
		t := rand.Float64()
		return lerp(cfg.X, cfg.LineEndX, t), lerp(cfg.Y, cfg.LineEndY, t)
	case ShapeCircle:
		// r = R·sqrt(u) gives uniform-area sampling over the disc.
		r := cfg.Radius * math.Sqrt(rand.Float64())
		theta := rand.Float64() * 2 * math.Pi
		return cfg.X + r*math.Cos(theta), cfg.Y + r*math.Sin(theta)
	case ShapeRectangle:
		return cfg.X + (rand.Float64()-0.5)*cfg.BoxWidth,
			cfg.Y + (rand.Float64()-0.5)*cfg.BoxHeight
	case ShapeRing:
		r := cfg.InnerRadius + rand.Float64()*(cfg.Radius-cfg.InnerRadius)
		theta := rand.Float64() * 2 * math.Pi
		return cfg.X + r*math.Cos(theta), cfg.Y + r*math.Sin(theta)
	default:
		return cfg.X, cfg.Y
	}
}

// vary returns base ± uniform(variance).
func vary(base, variance float64) float64 {
	return base + symmetric(variance)
}

// symmetric returns a uniform value in [-v, +v].
func symmetric(v float64) float64 {
	if v == 0 {
		return 0
	}
	return (rand.Float64()*2 - 1) * v
}

// Random returns a random float64 in [Min, Max].
func (r Range) Random() float64 {
	if r.Min == r.Max {
		return r.Min
	}
	return r.Min + rand.Float64()*(r.Max-r.Min)
}
