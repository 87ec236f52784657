package ember

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// ebitenSurface wraps an offscreen *ebiten.Image as a Surface.
type ebitenSurface struct {
	image *ebiten.Image
	w, h  int
}

// Size returns the surface dimensions in pixels.
func (s *ebitenSurface) Size() (w, h int) {
	return s.w, s.h
}

// Image returns the underlying *ebiten.Image for direct manipulation.
func (s *ebitenSurface) Image() *ebiten.Image {
	return s.image
}

// Dispose deallocates the underlying image. The surface must not be used
// after calling Dispose.
func (s *ebitenSurface) Dispose() {
	if s.image != nil {
		s.image.Deallocate()
		s.image = nil
	}
}

// rendererState is the save/restore unit for SaveState and RestoreState.
type rendererState struct {
	transform [6]float64
	blend     BlendMode
	opacity   float64
	target    *ebiten.Image
}

// EbitenRenderer implements Renderer on top of Ebitengine. Geometry is
// tessellated through vector.Path and submitted as triangles against a shared
// white pixel, so every primitive honors the full affine transform stack.
//
// Call Begin with the frame's screen image before issuing draw calls.
type EbitenRenderer struct {
	screen *ebiten.Image
	target *ebiten.Image // nil means the screen

	transform [6]float64
	blend     BlendMode
	opacity   float64

	transformStack []([6]float64)
	stateStack     []rendererState

	// scratch buffers reused across draws
	verts []ebiten.Vertex
	inds  []uint16

	textBuf *ebiten.Image
}

// NewEbitenRenderer creates a renderer with an identity transform, normal
// blending, and full opacity.
func NewEbitenRenderer() *EbitenRenderer {
	return &EbitenRenderer{
		transform: identityAffine,
		opacity:   1,
	}
}

// Begin points the renderer at the frame's screen image and resets per-frame
// state. Surfaces created earlier remain valid.
func (r *EbitenRenderer) Begin(screen *ebiten.Image) {
	r.screen = screen
	r.target = nil
	r.transform = identityAffine
	r.blend = BlendNormal
	r.opacity = 1
	r.transformStack = r.transformStack[:0]
	r.stateStack = r.stateStack[:0]
}

// dst returns the image draw calls currently land on.
func (r *EbitenRenderer) dst() *ebiten.Image {
	if r.target != nil {
		return r.target
	}
	return r.screen
}

// ViewportSize returns the size of the current render target.
func (r *EbitenRenderer) ViewportSize() (w, h int) {
	d := r.dst()
	if d == nil {
		return 0, 0
	}
	b := d.Bounds()
	return b.Dx(), b.Dy()
}

// CreateSurface allocates an offscreen surface. Dimensions are clamped to at
// least one pixel.
func (r *EbitenRenderer) CreateSurface(w, h int) Surface {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return &ebitenSurface{image: ebiten.NewImage(w, h), w: w, h: h}
}

// SetTarget redirects subsequent draw calls to a surface. A nil or foreign
// surface resets to the screen.
func (r *EbitenRenderer) SetTarget(s Surface) {
	if es, ok := s.(*ebitenSurface); ok && es.image != nil {
		r.target = es.image
		return
	}
	r.target = nil
}

// ResetTarget restores drawing to the screen.
func (r *EbitenRenderer) ResetTarget() {
	r.target = nil
}

// DrawSurface composites a surface at (x, y) under the current transform,
// blend mode, and opacity.
func (r *EbitenRenderer) DrawSurface(s Surface, x, y float64) {
	r.DrawSurfaceScaled(s, x, y, 1, 1)
}

// DrawSurfaceScaled composites a surface at (x, y) scaled about its top-left
// corner.
func (r *EbitenRenderer) DrawSurfaceScaled(s Surface, x, y, scaleX, scaleY float64) {
	es, ok := s.(*ebitenSurface)
	if !ok || es.image == nil || r.dst() == nil {
		return
	}
	var op ebiten.DrawImageOptions
	op.GeoM.Scale(scaleX, scaleY)
	op.GeoM.Translate(x, y)
	// Apply the renderer's affine transform on top of the local placement.
	m := r.transform
	var world ebiten.GeoM
	world.SetElement(0, 0, m[0])
	world.SetElement(1, 0, m[1])
	world.SetElement(0, 1, m[2])
	world.SetElement(1, 1, m[3])
	world.SetElement(0, 2, m[4])
	world.SetElement(1, 2, m[5])
	op.GeoM.Concat(world)
	op.ColorScale.ScaleAlpha(float32(r.opacity))
	op.Blend = r.blend.EbitenBlend()
	r.dst().DrawImage(es.image, &op)
}

// DrawPoint draws a single pixel-sized dot.
func (r *EbitenRenderer) DrawPoint(x, y float64, c Color) {
	quad := [4]Vec2{
		{X: x - 0.5, Y: y - 0.5},
		{X: x + 0.5, Y: y - 0.5},
		{X: x + 0.5, Y: y + 0.5},
		{X: x - 0.5, Y: y + 0.5},
	}
	r.DrawPolygon(quad[:], c, true)
}

// DrawLine draws a stroked segment of the given width (floored to 1).
func (r *EbitenRenderer) DrawLine(x1, y1, x2, y2, width float64, c Color) {
	if width < 1 {
		width = 1
	}
	ax, ay := transformPoint(r.transform, x1, y1)
	bx, by := transformPoint(r.transform, x2, y2)

	var path vector.Path
	path.MoveTo(float32(ax), float32(ay))
	path.LineTo(float32(bx), float32(by))
	r.strokePath(&path, float32(width), c)
}

// DrawRect draws a rectangle, filled or outlined at one pixel.
func (r *EbitenRenderer) DrawRect(rect Rect, c Color, filled bool) {
	corners := [4]Vec2{
		{X: rect.X, Y: rect.Y},
		{X: rect.X + rect.Width, Y: rect.Y},
		{X: rect.X + rect.Width, Y: rect.Y + rect.Height},
		{X: rect.X, Y: rect.Y + rect.Height},
	}
	r.DrawPolygon(corners[:], c, filled)
}

// circleSegments is the tessellation density for circles.
const circleSegments = 32

// DrawCircle draws a circle approximated by a regular polygon. Under a
// non-uniform transform the circle renders as the matching ellipse.
func (r *EbitenRenderer) DrawCircle(x, y, radius float64, c Color, filled bool) {
	if radius <= 0 {
		return
	}
	var points [circleSegments]Vec2
	for i := range points {
		theta := float64(i) / circleSegments * 2 * math.Pi
		points[i] = Vec2{X: x + radius*math.Cos(theta), Y: y + radius*math.Sin(theta)}
	}
	r.DrawPolygon(points[:], c, filled)
}

// DrawPolygon draws a closed polygon through the current transform.
func (r *EbitenRenderer) DrawPolygon(points []Vec2, c Color, filled bool) {
	if len(points) < 3 {
		return
	}
	var path vector.Path
	for i, p := range points {
		wx, wy := transformPoint(r.transform, p.X, p.Y)
		if i == 0 {
			path.MoveTo(float32(wx), float32(wy))
		} else {
			path.LineTo(float32(wx), float32(wy))
		}
	}
	path.Close()

	if filled {
		r.fillPath(&path, c)
	} else {
		r.strokePath(&path, 1, c)
	}
}

// DrawText draws debug-font text tinted by c. The text is rasterized to a
// scratch image first so the tint and current opacity apply.
func (r *EbitenRenderer) DrawText(text string, x, y float64, c Color) {
	if text == "" || r.dst() == nil {
		return
	}
	w, h := debugTextSize(text)
	if r.textBuf == nil || r.textBuf.Bounds().Dx() < w || r.textBuf.Bounds().Dy() < h {
		if r.textBuf != nil {
			r.textBuf.Deallocate()
		}
		r.textBuf = ebiten.NewImage(w, h)
	}
	r.textBuf.Clear()
	ebitenutil.DebugPrintAt(r.textBuf, text, 0, 0)

	wx, wy := transformPoint(r.transform, x, y)
	var op ebiten.DrawImageOptions
	op.GeoM.Translate(wx, wy)
	op.ColorScale.Scale(float32(c.R), float32(c.G), float32(c.B), 1)
	op.ColorScale.ScaleAlpha(float32(c.A * r.opacity))
	op.Blend = r.blend.EbitenBlend()
	r.dst().DrawImage(r.textBuf, &op)
}

// debugTextSize returns a buffer size large enough for the debug font.
func debugTextSize(text string) (w, h int) {
	lineLen, maxLen, lines := 0, 0, 1
	for _, ch := range text {
		if ch == '\n' {
			lines++
			lineLen = 0
			continue
		}
		lineLen++
		if lineLen > maxLen {
			maxLen = lineLen
		}
	}
	return maxLen*8 + 8, lines*16 + 8
}

// PushTransform saves the current matrix and composes t onto it.
func (r *EbitenRenderer) PushTransform(t Transform) {
	r.transformStack = append(r.transformStack, r.transform)
	r.transform = multiplyAffine(r.transform, t.matrix())
}

// PopTransform restores the matrix saved by the matching PushTransform.
func (r *EbitenRenderer) PopTransform() {
	if n := len(r.transformStack); n > 0 {
		r.transform = r.transformStack[n-1]
		r.transformStack = r.transformStack[:n-1]
	}
}

// Translate composes a translation onto the current matrix.
func (r *EbitenRenderer) Translate(dx, dy float64) {
	r.transform = multiplyAffine(r.transform, [6]float64{1, 0, 0, 1, dx, dy})
}

// Rotate composes a clockwise rotation in degrees onto the current matrix.
func (r *EbitenRenderer) Rotate(degrees float64) {
	rad := degrees * degToRad
	sin, cos := math.Sin(rad), math.Cos(rad)
	r.transform = multiplyAffine(r.transform, [6]float64{cos, sin, -sin, cos, 0, 0})
}

// Scale composes per-axis scale factors onto the current matrix.
func (r *EbitenRenderer) Scale(sx, sy float64) {
	r.transform = multiplyAffine(r.transform, [6]float64{sx, 0, 0, sy, 0, 0})
}

// SetBlendMode selects the compositing operation for subsequent draws.
func (r *EbitenRenderer) SetBlendMode(mode BlendMode) {
	r.blend = mode
}

// Opacity returns the current opacity multiplier.
func (r *EbitenRenderer) Opacity() float64 {
	return r.opacity
}

// SetOpacity sets the opacity multiplier, clamped to [0, 1].
func (r *EbitenRenderer) SetOpacity(opacity float64) {
	r.opacity = clamp01(opacity)
}

// SaveState pushes transform, blend mode, opacity, and target.
func (r *EbitenRenderer) SaveState() {
	r.stateStack = append(r.stateStack, rendererState{
		transform: r.transform,
		blend:     r.blend,
		opacity:   r.opacity,
		target:    r.target,
	})
}

// RestoreState pops the state saved by the matching SaveState.
func (r *EbitenRenderer) RestoreState() {
	n := len(r.stateStack)
	if n == 0 {
		return
	}
	st := r.stateStack[n-1]
	r.stateStack = r.stateStack[:n-1]
	r.transform = st.transform
	r.blend = st.blend
	r.opacity = st.opacity
	r.target = st.target
}

// fillPath tessellates and submits a filled path against the white pixel.
func (r *EbitenRenderer) fillPath(path *vector.Path, c Color) {
	r.verts, r.inds = path.AppendVerticesAndIndicesForFilling(r.verts[:0], r.inds[:0])
	r.submit(c)
}

// strokePath tessellates and submits a stroked path against the white pixel.
func (r *EbitenRenderer) strokePath(path *vector.Path, width float32, c Color) {
	op := &vector.StrokeOptions{Width: width}
	r.verts, r.inds = path.AppendVerticesAndIndicesForStroke(r.verts[:0], r.inds[:0], op)
	r.submit(c)
}

// submit colors the scratch vertices and issues the triangle draw.
func (r *EbitenRenderer) submit(c Color) {
	d := r.dst()
	if d == nil || len(r.inds) == 0 {
		return
	}
	cr := float32(c.R)
	cg := float32(c.G)
	cb := float32(c.B)
	ca := float32(c.A * r.opacity)
	for i := range r.verts {
		r.verts[i].SrcX = 0.5
		r.verts[i].SrcY = 0.5
		r.verts[i].ColorR = cr
		r.verts[i].ColorG = cg
		r.verts[i].ColorB = cb
		r.verts[i].ColorA = ca
	}
	op := &ebiten.DrawTrianglesOptions{
		Blend:     r.blend.EbitenBlend(),
		AntiAlias: true,
	}
	d.DrawTriangles(r.verts, r.inds, whitePixel(), op)
}

// whitePixelImage is the shared 1x1 texture primitives sample from.
var whitePixelImage *ebiten.Image

// whitePixel lazily creates the shared white pixel.
func whitePixel() *ebiten.Image {
	if whitePixelImage == nil {
		whitePixelImage = ebiten.NewImage(1, 1)
		whitePixelImage.Fill(color.RGBA{R: 255, G: 255, B: 255, A: 255})
	}
	return whitePixelImage
}
