package ember

// Surface is an offscreen pixel buffer obtained from a Renderer. Transitions
// render their two sides onto independent surfaces before compositing.
type Surface interface {
	// Size returns the surface dimensions in pixels.
	Size() (w, h int)
}

// Renderer is the drawing-primitive contract this engine consumes. The engine
// never implements drawing itself; it issues these calls and the backend
// (EbitenRenderer in this package, or a test double) carries them out.
//
// All coordinates are floating-point pixels. State mutations (transform,
// blend mode, opacity, target) apply to subsequent draw calls until changed
// or restored.
type Renderer interface {
	// ViewportSize returns the size of the current render target.
	ViewportSize() (w, h int)

	// CreateSurface allocates an offscreen surface.
	CreateSurface(w, h int) Surface
	// SetTarget redirects subsequent draw calls to a surface.
	SetTarget(s Surface)
	// ResetTarget restores drawing to the screen.
	ResetTarget()
	// DrawSurface composites a surface at the given position.
	DrawSurface(s Surface, x, y float64)
	// DrawSurfaceScaled composites a surface at the given position with
	// per-axis scale factors applied about the surface's top-left corner.
	DrawSurfaceScaled(s Surface, x, y, scaleX, scaleY float64)

	// Primitive draws. Colors carry their own alpha; the renderer multiplies
	// in the current opacity.
	DrawPoint(x, y float64, c Color)
	DrawLine(x1, y1, x2, y2, width float64, c Color)
	DrawRect(r Rect, c Color, filled bool)
	DrawCircle(x, y, radius float64, c Color, filled bool)
	DrawPolygon(points []Vec2, c Color, filled bool)
	DrawText(text string, x, y float64, c Color)

	// Transform stack.
	PushTransform(t Transform)
	PopTransform()
	Translate(dx, dy float64)
	Rotate(degrees float64)
	Scale(sx, sy float64)

	// Compositing state.
	SetBlendMode(mode BlendMode)
	Opacity() float64
	SetOpacity(opacity float64)

	// SaveState pushes the full renderer state (transform, blend, opacity,
	// target); RestoreState pops it.
	SaveState()
	RestoreState()
}
