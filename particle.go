package ember

// minParticleLifetime is the floor applied to configured particle lifetimes.
// Particles configured shorter than this would die before a single render.
const minParticleLifetime = 0.5

// Particle is a short-lived scene-graph node with independent kinematics.
// Particles are spawned by a ParticleEmitter and simulated by the owning
// ParticleSystem until their lifetime expires.
type Particle struct {
	Drawable

	VelocityX, VelocityY         float64
	AccelerationX, AccelerationY float64
	RotationVelocity             float64 // degrees per second
	ScaleVelocityX               float64
	ScaleVelocityY               float64
	AlphaVelocity                float64

	Lifetime float64
	Age      float64

	alive bool
}

// newParticle creates a live particle with drawable defaults.
func newParticle() *Particle {
	p := &Particle{alive: true}
	drawableDefaults(&p.Drawable)
	p.Drawable.Name = "particle"
	return p
}

// IsAlive reports whether the particle is still being simulated.
func (p *Particle) IsAlive() bool {
	return p.alive
}

// Update advances the particle by dt seconds: age, then velocity under
// acceleration, then position, rotation, scale, and alpha.
func (p *Particle) Update(dt float64) {
	if !p.alive {
		return
	}
	p.Age += dt
	if p.Age >= p.Lifetime {
		p.alive = false
		return
	}

	p.VelocityX += p.AccelerationX * dt
	p.VelocityY += p.AccelerationY * dt
	p.X += p.VelocityX * dt
	p.Y += p.VelocityY * dt
	p.Rotation += p.RotationVelocity * dt

	p.ScaleX += p.ScaleVelocityX * dt
	if p.ScaleX < 0 {
		p.ScaleX = 0
	}
	p.ScaleY += p.ScaleVelocityY * dt
	if p.ScaleY < 0 {
		p.ScaleY = 0
	}
	p.Opacity = clamp01(p.Opacity + p.AlphaVelocity*dt)

	markSubtreeDirty(&p.Drawable)
}

// ParticleSystem is an effect that owns emitters and the bounded list of live
// particles. Each update advances existing particles, discards dead ones,
// appends newly emitted ones, and trims to MaxParticles keeping the most
// recently spawned.
type ParticleSystem struct {
	BaseEffect

	emitters     []*ParticleEmitter
	particles    []*Particle
	maxParticles int

	// Blend is the compositing mode used when drawing particles.
	Blend BlendMode
}

// defaultMaxParticles bounds systems constructed without an explicit cap.
const defaultMaxParticles = 256

// NewParticleSystem creates a particle system effect. A non-positive cap is
// replaced with the default. Spawned particles become children of the system
// node, so moving the system moves its particles.
func NewParticleSystem(duration float64, maxParticles int, emitters ...*ParticleEmitter) *ParticleSystem {
	if maxParticles <= 0 {
		maxParticles = defaultMaxParticles
	}
	s := &ParticleSystem{
		BaseEffect:   newBaseEffect("particle-system", duration),
		emitters:     emitters,
		maxParticles: maxParticles,
	}
	return s
}

// AddEmitter attaches another emitter to the system.
func (s *ParticleSystem) AddEmitter(e *ParticleEmitter) {
	if e != nil {
		s.emitters = append(s.emitters, e)
	}
}

// Emitters returns the attached emitters. The returned slice MUST NOT be mutated.
func (s *ParticleSystem) Emitters() []*ParticleEmitter {
	return s.emitters
}

// ParticleCount returns the number of live particles. Never exceeds the cap.
func (s *ParticleSystem) ParticleCount() int {
	return len(s.particles)
}

// MaxParticles returns the live-particle cap.
func (s *ParticleSystem) MaxParticles() int {
	return s.maxParticles
}

// Start begins the effect, re-arming burst emitters and clearing any
// particles left from a previous run.
func (s *ParticleSystem) Start() {
	s.releaseParticles()
	for _, e := range s.emitters {
		e.Reset()
	}
	s.BaseEffect.Start()
}

// Stop interrupts the effect and releases all live particles.
func (s *ParticleSystem) Stop() {
	if s.state != EffectPlaying && s.state != EffectPaused {
		return
	}
	s.releaseParticles()
	s.BaseEffect.Stop()
}

// Update advances simulation: existing particles first, dead ones dropped,
// new emissions appended, then the list trimmed to the cap with the oldest
// evicted first.
func (s *ParticleSystem) Update(dt float64) {
	p, done := s.advance(dt)
	if s.state != EffectPlaying {
		return
	}

	kept := s.particles[:0]
	for _, particle := range s.particles {
		particle.Update(dt)
		if particle.IsAlive() {
			kept = append(kept, particle)
		} else {
			s.Drawable.RemoveChild(&particle.Drawable)
		}
	}
	for i := len(kept); i < len(s.particles); i++ {
		s.particles[i] = nil
	}
	s.particles = kept

	for _, e := range s.emitters {
		for _, spawned := range e.Emit(dt) {
			s.Drawable.AddChild(&spawned.Drawable)
			s.particles = append(s.particles, spawned)
		}
	}

	if over := len(s.particles) - s.maxParticles; over > 0 {
		for _, evicted := range s.particles[:over] {
			evicted.alive = false
			s.Drawable.RemoveChild(&evicted.Drawable)
		}
		s.particles = append(s.particles[:0], s.particles[over:]...)
	}

	s.emitUpdate(p)
	if done {
		s.complete()
	}
}

// Draw renders every live particle as a filled circle tinted by the particle
// color and faded by its world opacity.
func (s *ParticleSystem) Draw(r Renderer) {
	if len(s.particles) == 0 {
		return
	}
	r.SaveState()
	r.SetBlendMode(s.Blend)
	for _, p := range s.particles {
		wx, wy := p.WorldPosition()
		c := p.Color
		c.A *= p.WorldOpacity()
		radius := p.Width * p.ScaleX / 2
		if radius <= 0 {
			continue
		}
		r.DrawCircle(wx, wy, radius, c, true)
	}
	r.RestoreState()
}

// releaseParticles drops every live particle immediately.
func (s *ParticleSystem) releaseParticles() {
	for _, p := range s.particles {
		p.alive = false
		s.Drawable.RemoveChild(&p.Drawable)
	}
	s.particles = nil
}
