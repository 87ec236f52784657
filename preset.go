package ember

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Preset errors.
var (
	ErrUnknownEmissionMode  = errors.New("ember: unknown emission mode")
	ErrUnknownEmissionShape = errors.New("ember: unknown emission shape")
	ErrUnknownEffectType    = errors.New("ember: unknown effect type")
)

// rangeSpec is the YAML form of a Range: either a scalar (Min == Max) or a
// {min, max} mapping.
type rangeSpec struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// UnmarshalYAML accepts both `speed: 40` and `speed: {min: 20, max: 60}`.
func (r *rangeSpec) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		var v float64
		if err := value.Decode(&v); err != nil {
			return err
		}
		r.Min, r.Max = v, v
		return nil
	}
	type plain rangeSpec
	return value.Decode((*plain)(r))
}

// toRange converts to the engine Range type.
func (r rangeSpec) toRange() Range {
	return Range{Min: r.Min, Max: r.Max}
}

// colorSpec is the YAML form of a Color.
type colorSpec struct {
	R float64 `yaml:"r"`
	G float64 `yaml:"g"`
	B float64 `yaml:"b"`
	A float64 `yaml:"a"`
}

// toColor converts to the engine Color type. A zero-value spec stays zero so
// config normalization can supply defaults.
func (c colorSpec) toColor() Color {
	return Color{R: c.R, G: c.G, B: c.B, A: c.A}
}

// emitterSpec is the YAML form of an EmitterConfig.
type emitterSpec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`

	Mode  string `yaml:"mode"`
	Shape string `yaml:"shape"`

	Rate       float64 `yaml:"rate"`
	BurstCount int     `yaml:"burst_count"`

	LineEndX    float64 `yaml:"line_end_x"`
	LineEndY    float64 `yaml:"line_end_y"`
	Radius      float64 `yaml:"radius"`
	InnerRadius float64 `yaml:"inner_radius"`
	BoxWidth    float64 `yaml:"box_width"`
	BoxHeight   float64 `yaml:"box_height"`

	Lifetime         float64   `yaml:"lifetime"`
	LifetimeVariance float64   `yaml:"lifetime_variance"`
	Size             float64   `yaml:"size"`
	SizeVariance     float64   `yaml:"size_variance"`
	Color            colorSpec `yaml:"color"`
	ColorVariance    colorSpec `yaml:"color_variance"`

	Speed         rangeSpec `yaml:"speed"`
	Angle         float64   `yaml:"angle"`
	AngleVariance float64   `yaml:"angle_variance"`

	AccelerationX float64 `yaml:"acceleration_x"`
	AccelerationY float64 `yaml:"acceleration_y"`
	GravityX      float64 `yaml:"gravity_x"`
	GravityY      float64 `yaml:"gravity_y"`

	RotationVelocity rangeSpec `yaml:"rotation_velocity"`

	StartScale rangeSpec `yaml:"start_scale"`
	EndScale   rangeSpec `yaml:"end_scale"`
	StartAlpha rangeSpec `yaml:"start_alpha"`
	EndAlpha   rangeSpec `yaml:"end_alpha"`
}

// emissionModeByName maps YAML mode names to EmissionMode values.
var emissionModeByName = map[string]EmissionMode{
	"continuous": EmitContinuous,
	"burst":      EmitBurst,
}

// emissionShapeByName maps YAML shape names to EmissionShape values.
var emissionShapeByName = map[string]EmissionShape{
	"point":     ShapePoint,
	"line":      ShapeLine,
	"circle":    ShapeCircle,
	"rectangle": ShapeRectangle,
	"ring":      ShapeRing,
}

// toConfig converts a decoded spec to an EmitterConfig, failing fast on
// unknown mode or shape names. Empty strings mean the zero-value defaults
// (continuous, point).
func (s emitterSpec) toConfig() (EmitterConfig, error) {
	var cfg EmitterConfig

	if s.Mode != "" {
		mode, ok := emissionModeByName[s.Mode]
		if !ok {
			return cfg, fmt.Errorf("%w: %q", ErrUnknownEmissionMode, s.Mode)
		}
		cfg.Mode = mode
	}
	if s.Shape != "" {
		shape, ok := emissionShapeByName[s.Shape]
		if !ok {
			return cfg, fmt.Errorf("%w: %q", ErrUnknownEmissionShape, s.Shape)
		}
		cfg.Shape = shape
	}

	cfg.X = s.X
	cfg.Y = s.Y
	cfg.Rate = s.Rate
	cfg.BurstCount = s.BurstCount
	cfg.LineEndX = s.LineEndX
	cfg.LineEndY = s.LineEndY
	cfg.Radius = s.Radius
	cfg.InnerRadius = s.InnerRadius
	cfg.BoxWidth = s.BoxWidth
	cfg.BoxHeight = s.BoxHeight
	cfg.Lifetime = s.Lifetime
	cfg.LifetimeVariance = s.LifetimeVariance
	cfg.Size = s.Size
	cfg.SizeVariance = s.SizeVariance
	cfg.Color = s.Color.toColor()
	cfg.ColorVariance = s.ColorVariance.toColor()
	cfg.Speed = s.Speed.toRange()
	cfg.Angle = s.Angle
	cfg.AngleVariance = s.AngleVariance
	cfg.Acceleration = Vec2{X: s.AccelerationX, Y: s.AccelerationY}
	cfg.Gravity = Vec2{X: s.GravityX, Y: s.GravityY}
	cfg.RotationVelocity = s.RotationVelocity.toRange()
	cfg.StartScale = s.StartScale.toRange()
	cfg.EndScale = s.EndScale.toRange()
	cfg.StartAlpha = s.StartAlpha.toRange()
	cfg.EndAlpha = s.EndAlpha.toRange()
	return cfg, nil
}

// LoadEmitterPresets parses a YAML document mapping preset names to emitter
// configurations. The returned configs are unnormalized; NewParticleEmitter
// applies defaults when one is used.
func LoadEmitterPresets(data []byte) (map[string]EmitterConfig, error) {
	var specs map[string]emitterSpec
	if err := yaml.Unmarshal(data, &specs); err != nil {
		return nil, fmt.Errorf("ember: parsing emitter presets: %w", err)
	}
	out := make(map[string]EmitterConfig, len(specs))
	for name, spec := range specs {
		cfg, err := spec.toConfig()
		if err != nil {
			return nil, fmt.Errorf("preset %q: %w", name, err)
		}
		out[name] = cfg
	}
	return out, nil
}

// EffectPreset is a declarative effect description loaded from YAML. Build
// instantiates it against a target node.
type EffectPreset struct {
	Type     string  `yaml:"type"`
	Duration float64 `yaml:"duration"`
	Easing   string  `yaml:"easing"`
	Loop     bool    `yaml:"loop"`

	// Fade and color parameters.
	From      float64   `yaml:"from"`
	To        float64   `yaml:"to"`
	FromColor colorSpec `yaml:"from_color"`
	ToColor   colorSpec `yaml:"to_color"`

	// Move and scale endpoints.
	FromX float64 `yaml:"from_x"`
	FromY float64 `yaml:"from_y"`
	ToX   float64 `yaml:"to_x"`
	ToY   float64 `yaml:"to_y"`

	// Rotate endpoints in degrees.
	FromAngle float64 `yaml:"from_angle"`
	ToAngle   float64 `yaml:"to_angle"`

	// Shake parameters.
	Amplitude float64 `yaml:"amplitude"`
	Frequency float64 `yaml:"frequency"`

	// Blink parameters.
	Blinks     int       `yaml:"blinks"`
	BlinkColor colorSpec `yaml:"blink_color"`
}

// presetEasing returns the preset's easing name, defaulting to linear.
func (p EffectPreset) presetEasing() string {
	if p.Easing == "" {
		return "linear"
	}
	return p.Easing
}

// Build instantiates the preset against target. The easing name and effect
// type are validated fail-fast.
func (p EffectPreset) Build(target *Drawable) (Effect, error) {
	easing := p.presetEasing()

	var (
		e   Effect
		err error
	)
	switch p.Type {
	case "fade":
		e, err = NewFade(target, p.From, p.To, p.Duration, easing)
	case "color":
		e, err = NewColorEffect(target, p.FromColor.toColor(), p.ToColor.toColor(), p.Duration, easing)
	case "move":
		e, err = NewMove(target,
			Vec2{X: p.FromX, Y: p.FromY},
			Vec2{X: p.ToX, Y: p.ToY},
			p.Duration, easing)
	case "scale":
		e, err = NewScale(target,
			Vec2{X: p.FromX, Y: p.FromY},
			Vec2{X: p.ToX, Y: p.ToY},
			p.Duration, easing)
	case "rotate":
		e, err = NewRotate(target, p.FromAngle, p.ToAngle, p.Duration, easing)
	case "shake":
		e = NewShake(target, p.Amplitude, p.Frequency, p.Duration)
	case "blink":
		e = NewBlink(target, p.BlinkColor.toColor(), p.Blinks, p.Duration)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEffectType, p.Type)
	}
	if err != nil {
		return nil, err
	}
	if p.Loop {
		e.setLoop(true)
	}
	return e, nil
}

// LoadEffectPresets parses a YAML document mapping preset names to effect
// descriptions. Easing names are validated here so a bad document fails at
// load time rather than on first Build.
func LoadEffectPresets(data []byte) (map[string]EffectPreset, error) {
	var presets map[string]EffectPreset
	if err := yaml.Unmarshal(data, &presets); err != nil {
		return nil, fmt.Errorf("ember: parsing effect presets: %w", err)
	}
	for name, p := range presets {
		if _, err := EasingByName(p.presetEasing()); err != nil {
			return nil, fmt.Errorf("preset %q: %w", name, err)
		}
	}
	return presets, nil
}
