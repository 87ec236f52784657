package ember

import "math"

// Transform is a plain value describing position, rotation, scale, and origin.
// Rotation is in degrees. Origin is the pivot point, relative to the owner's
// top-left corner: scale and rotation are applied about it and it stays fixed
// in parent space.
type Transform struct {
	X, Y             float64
	Rotation         float64
	ScaleX, ScaleY   float64
	OriginX, OriginY float64
}

// IdentityTransform returns a transform that maps every point to itself.
func IdentityTransform() Transform {
	return Transform{ScaleX: 1, ScaleY: 1}
}

// ApplyToPoint maps a point through this transform.
func (t Transform) ApplyToPoint(x, y float64) (float64, float64) {
	return transformPoint(t.matrix(), x, y)
}

// Combine composes a parent transform with a child transform: the child's
// position is mapped through the parent, rotations add, and scales multiply.
// The child's origin is preserved.
func (t Transform) Combine(child Transform) Transform {
	x, y := t.ApplyToPoint(child.X, child.Y)
	return Transform{
		X:        x,
		Y:        y,
		Rotation: t.Rotation + child.Rotation,
		ScaleX:   t.ScaleX * child.ScaleX,
		ScaleY:   t.ScaleY * child.ScaleY,
		OriginX:  child.OriginX,
		OriginY:  child.OriginY,
	}
}

// matrix computes the affine matrix for this transform. Returns
// [a, b, c, d, tx, ty].
//
// Composition order:
//
//	Translate(-Origin) -> Scale -> Rotate -> Translate(+Origin) -> Translate(X, Y)
func (t Transform) matrix() [6]float64 {
	sx := t.ScaleX
	sy := t.ScaleY

	sin, cos := math.Sincos(t.Rotation * degToRad)

	a := cos * sx
	b := sin * sx
	c := -sin * sy
	d := cos * sy

	// The origin is translated out, transformed, and translated back so the
	// pivot point stays fixed in parent space.
	ox := t.OriginX
	oy := t.OriginY
	tx := ox - (a*ox + c*oy) + t.X
	ty := oy - (b*ox + d*oy) + t.Y

	return [6]float64{a, b, c, d, tx, ty}
}

// degToRad converts degrees to radians when multiplied.
const degToRad = math.Pi / 180

// identityAffine is the identity affine matrix.
var identityAffine = [6]float64{1, 0, 0, 1, 0, 0}

// multiplyAffine multiplies two 2D affine matrices: result = parent * child.
//
//	Matrix layout: [a, b, c, d, tx, ty]
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
func multiplyAffine(p, c [6]float64) [6]float64 {
	return [6]float64{
		p[0]*c[0] + p[2]*c[1],
		p[1]*c[0] + p[3]*c[1],
		p[0]*c[2] + p[2]*c[3],
		p[1]*c[2] + p[3]*c[3],
		p[0]*c[4] + p[2]*c[5] + p[4],
		p[1]*c[4] + p[3]*c[5] + p[5],
	}
}

// invertAffine computes the inverse of a 2D affine matrix.
// Returns the identity matrix if the matrix is singular (determinant ≈ 0).
func invertAffine(m [6]float64) [6]float64 {
	det := m[0]*m[3] - m[2]*m[1]
	if det > -1e-12 && det < 1e-12 {
		return identityAffine
	}
	invDet := 1.0 / det
	a := m[3] * invDet
	b := -m[1] * invDet
	c := -m[2] * invDet
	d := m[0] * invDet
	return [6]float64{
		a, b, c, d,
		-(a*m[4] + c*m[5]),
		-(b*m[4] + d*m[5]),
	}
}

// transformPoint applies an affine matrix to a point.
func transformPoint(m [6]float64, x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}
