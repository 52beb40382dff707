package marionette

import "github.com/go-gl/mathgl/mgl64"

// Matrix44 is a 4x4 homogeneous transform. Only the 2D scale and translation
// cells are populated in practice. It is a value: every operation returns a
// new matrix, so passing one to a consumer hands over an independent copy.
//
// Layout is column-major (mgl64), so the X/Y scale live at [0]/[5] and the
// translation at [12]/[13].
type Matrix44 struct {
	m mgl64.Mat4
}

// Identity returns the identity matrix.
func Identity() Matrix44 {
	return Matrix44{m: mgl64.Ident4()}
}

// MatrixFrom wraps an mgl64 matrix.
func MatrixFrom(m mgl64.Mat4) Matrix44 {
	return Matrix44{m: m}
}

// Mat4 returns the underlying matrix, e.g. for uploading as a uniform.
func (t Matrix44) Mat4() mgl64.Mat4 { return t.m }

// Array returns the matrix as float32 in column-major order.
func (t Matrix44) Array() [16]float32 {
	var out [16]float32
	for i, v := range t.m {
		out[i] = float32(v)
	}
	return out
}

// ScaleX returns the X scale cell.
func (t Matrix44) ScaleX() float64 { return t.m[0] }

// ScaleY returns the Y scale cell.
func (t Matrix44) ScaleY() float64 { return t.m[5] }

// TranslateX returns the X translation cell.
func (t Matrix44) TranslateX() float64 { return t.m[12] }

// TranslateY returns the Y translation cell.
func (t Matrix44) TranslateY() float64 { return t.m[13] }

// WithScale returns a copy whose scale cells are set to (x, y).
func (t Matrix44) WithScale(x, y float64) Matrix44 {
	t.m[0] = x
	t.m[5] = y
	return t
}

// WithTranslate returns a copy whose translation cells are set to (x, y).
func (t Matrix44) WithTranslate(x, y float64) Matrix44 {
	t.m[12] = x
	t.m[13] = y
	return t
}

// ScaledRelative returns t * Scale(x, y): the scale is applied to points
// before t.
func (t Matrix44) ScaledRelative(x, y float64) Matrix44 {
	return Matrix44{m: t.m.Mul4(mgl64.Scale3D(x, y, 1))}
}

// TranslatedRelative returns t * Translate(x, y): the translation is applied
// to points before t.
func (t Matrix44) TranslatedRelative(x, y float64) Matrix44 {
	return Matrix44{m: t.m.Mul4(mgl64.Translate3D(x, y, 0))}
}

// Mul returns t * o: o is applied to points first.
func (t Matrix44) Mul(o Matrix44) Matrix44 {
	return Matrix44{m: t.m.Mul4(o.m)}
}

// TransformX maps an X coordinate through the scale/translation cells.
func (t Matrix44) TransformX(x float64) float64 {
	return t.m[0]*x + t.m[12]
}

// TransformY maps a Y coordinate through the scale/translation cells.
func (t Matrix44) TransformY(y float64) float64 {
	return t.m[5]*y + t.m[13]
}

// InvertTransformX inverts TransformX. A zero scale returns x unchanged.
func (t Matrix44) InvertTransformX(x float64) float64 {
	if t.m[0] == 0 {
		return x
	}
	return (x - t.m[12]) / t.m[0]
}

// InvertTransformY inverts TransformY. A zero scale returns y unchanged.
func (t Matrix44) InvertTransformY(y float64) float64 {
	if t.m[5] == 0 {
		return y
	}
	return (y - t.m[13]) / t.m[5]
}

// TransformPoint applies the full matrix to (x, y, 0, 1).
func (t Matrix44) TransformPoint(x, y float64) (float64, float64) {
	v := t.m.Mul4x1(mgl64.Vec4{x, y, 0, 1})
	return v[0], v[1]
}

// Inverse returns the inverse matrix, or the identity if t is singular.
func (t Matrix44) Inverse() Matrix44 {
	det := t.m.Det()
	if det > -1e-12 && det < 1e-12 {
		return Identity()
	}
	return Matrix44{m: t.m.Inv()}
}

// InverseTransformPoint maps (x, y) through the inverse matrix.
func (t Matrix44) InverseTransformPoint(x, y float64) (float64, float64) {
	return t.Inverse().TransformPoint(x, y)
}

// ApproxEqual compares every cell within eps.
func (t Matrix44) ApproxEqual(o Matrix44, eps float64) bool {
	return t.m.ApproxEqualThreshold(o.m, eps)
}
