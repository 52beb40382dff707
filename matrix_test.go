package marionette

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestMatrixIdentity(t *testing.T) {
	m := Identity()
	x, y := m.TransformPoint(3, -4)
	if x != 3 || y != -4 {
		t.Errorf("identity moved point to (%v, %v)", x, y)
	}
	if m.ScaleX() != 1 || m.ScaleY() != 1 || m.TranslateX() != 0 || m.TranslateY() != 0 {
		t.Error("identity cells mismatch")
	}
}

func TestMatrixCells(t *testing.T) {
	m := Identity().WithScale(2, 3).WithTranslate(5, 7)
	if m.TransformX(1) != 7 || m.TransformY(1) != 10 {
		t.Errorf("Transform = (%v, %v)", m.TransformX(1), m.TransformY(1))
	}
	if m.InvertTransformX(7) != 1 || m.InvertTransformY(10) != 1 {
		t.Error("InvertTransform mismatch")
	}
	x, y := m.TransformPoint(1, 1)
	if x != 7 || y != 10 {
		t.Errorf("TransformPoint = (%v, %v)", x, y)
	}
	arr := m.Array()
	if arr[0] != 2 || arr[5] != 3 || arr[12] != 5 || arr[13] != 7 {
		t.Errorf("Array = %v", arr)
	}
}

func TestMatrixZeroScaleInvert(t *testing.T) {
	m := Identity().WithScale(0, 0)
	if m.InvertTransformX(4) != 4 || m.InvertTransformY(-2) != -2 {
		t.Error("zero scale should pass coordinates through")
	}
	if !m.Inverse().ApproxEqual(Identity(), epsilon) {
		t.Error("singular Inverse should be identity")
	}
}

func TestMatrixRelativeOrder(t *testing.T) {
	// Translate first, then scale.
	m := Identity().ScaledRelative(2, 2).TranslatedRelative(1, 0)
	x, _ := m.TransformPoint(0, 0)
	if !approxEqual(x, 2, epsilon) {
		t.Errorf("x = %v, want 2", x)
	}

	// Scale first, then translate.
	n := Identity().TranslatedRelative(1, 0).ScaledRelative(2, 2)
	x, _ = n.TransformPoint(0, 0)
	if !approxEqual(x, 1, epsilon) {
		t.Errorf("x = %v, want 1", x)
	}
}

func TestMatrixMulAppliesRightFirst(t *testing.T) {
	scale := Identity().WithScale(2, 2)
	move := Identity().WithTranslate(3, 0)
	x, _ := scale.Mul(move).TransformPoint(1, 0)
	if !approxEqual(x, 8, epsilon) {
		t.Errorf("x = %v, want 8", x)
	}
}

func TestMatrixInverse(t *testing.T) {
	m := Identity().WithScale(1.5, -2).WithTranslate(0.3, 4)
	x, y := m.TransformPoint(0.7, -0.2)
	bx, by := m.InverseTransformPoint(x, y)
	if !approxEqual(bx, 0.7, epsilon) || !approxEqual(by, -0.2, epsilon) {
		t.Errorf("round trip = (%v, %v)", bx, by)
	}
	if !m.Mul(m.Inverse()).ApproxEqual(Identity(), 1e-12) {
		t.Error("m * m^-1 should be identity")
	}
}

func TestMatrixIsValue(t *testing.T) {
	a := Identity()
	b := a.WithTranslate(1, 1)
	if a.TranslateX() != 0 {
		t.Error("WithTranslate mutated the receiver")
	}
	if b.Mat4() == mgl64.Ident4() {
		t.Error("copy should differ")
	}
	if MatrixFrom(b.Mat4()) != b {
		t.Error("MatrixFrom should wrap the same cells")
	}
}
