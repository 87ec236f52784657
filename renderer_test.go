package ember

import "fmt"

// fakeSurface is a Surface test double.
type fakeSurface struct {
	w, h int
}

func (s *fakeSurface) Size() (w, h int) {
	return s.w, s.h
}

// fakeRenderer records every draw call as a formatted op string so tests can
// assert on what was drawn, in what order, and with what state.
type fakeRenderer struct {
	viewportW, viewportH int

	ops []string

	transformDepth int
	blend          BlendMode
	opacity        float64
	target         Surface
	stateDepth     int
}

func newFakeRenderer() *fakeRenderer {
	return &fakeRenderer{viewportW: 640, viewportH: 480, opacity: 1}
}

func (r *fakeRenderer) record(format string, args ...any) {
	r.ops = append(r.ops, fmt.Sprintf(format, args...))
}

func (r *fakeRenderer) ViewportSize() (w, h int) {
	return r.viewportW, r.viewportH
}

func (r *fakeRenderer) CreateSurface(w, h int) Surface {
	return &fakeSurface{w: w, h: h}
}

func (r *fakeRenderer) SetTarget(s Surface) {
	r.target = s
	r.record("target")
}

func (r *fakeRenderer) ResetTarget() {
	r.target = nil
	r.record("reset-target")
}

func (r *fakeRenderer) DrawSurface(s Surface, x, y float64) {
	r.record("surface %.1f,%.1f opacity=%.2f", x, y, r.opacity)
}

func (r *fakeRenderer) DrawSurfaceScaled(s Surface, x, y, scaleX, scaleY float64) {
	r.record("surface-scaled %.1f,%.1f scale=%.2f,%.2f", x, y, scaleX, scaleY)
}

func (r *fakeRenderer) DrawPoint(x, y float64, c Color) {
	r.record("point %.1f,%.1f", x, y)
}

func (r *fakeRenderer) DrawLine(x1, y1, x2, y2, width float64, c Color) {
	r.record("line %.1f,%.1f-%.1f,%.1f", x1, y1, x2, y2)
}

func (r *fakeRenderer) DrawRect(rect Rect, c Color, filled bool) {
	r.record("rect %.1f,%.1f %vx%v filled=%v", rect.X, rect.Y, rect.Width, rect.Height, filled)
}

func (r *fakeRenderer) DrawCircle(x, y, radius float64, c Color, filled bool) {
	r.record("circle %.1f,%.1f r=%.1f", x, y, radius)
}

func (r *fakeRenderer) DrawPolygon(points []Vec2, c Color, filled bool) {
	r.record("polygon n=%d", len(points))
}

func (r *fakeRenderer) DrawText(text string, x, y float64, c Color) {
	r.record("text %q", text)
}

func (r *fakeRenderer) PushTransform(t Transform) {
	r.transformDepth++
}

func (r *fakeRenderer) PopTransform() {
	r.transformDepth--
}

func (r *fakeRenderer) Translate(dx, dy float64) {}
func (r *fakeRenderer) Rotate(degrees float64)   {}
func (r *fakeRenderer) Scale(sx, sy float64)     {}

func (r *fakeRenderer) SetBlendMode(mode BlendMode) {
	r.blend = mode
	r.record("blend %d", mode)
}

func (r *fakeRenderer) Opacity() float64 {
	return r.opacity
}

func (r *fakeRenderer) SetOpacity(opacity float64) {
	r.opacity = clamp01(opacity)
}

func (r *fakeRenderer) SaveState() {
	r.stateDepth++
}

func (r *fakeRenderer) RestoreState() {
	r.stateDepth--
	r.opacity = 1
	r.blend = BlendNormal
}

// countOps returns how many recorded ops start with prefix.
func (r *fakeRenderer) countOps(prefix string) int {
	n := 0
	for _, op := range r.ops {
		if len(op) >= len(prefix) && op[:len(prefix)] == prefix {
			n++
		}
	}
	return n
}
