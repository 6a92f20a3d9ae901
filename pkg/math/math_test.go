package math

import (
	gomath "math"
	"testing"
)

func approxEq(a, b, eps float32) bool {
	return float32(gomath.Abs(float64(a-b))) <= eps
}

func vecApproxEq(a, b Vec3, eps float32) bool {
	return approxEq(a.X, b.X, eps) && approxEq(a.Y, b.Y, eps) && approxEq(a.Z, b.Z, eps)
}

func TestVec3Cross(t *testing.T) {
	x := Vec3{1, 0, 0}
	y := Vec3{0, 1, 0}
	got := x.Cross(y)
	want := Vec3{0, 0, 1}
	if got != want {
		t.Errorf("Vec3.Cross() = %v, want %v", got, want)
	}
}

func TestVec3Normalize(t *testing.T) {
	v := Vec3{3, 4, 0}
	n := v.Normalize()
	l := n.Length()
	if l < 0.999 || l > 1.001 {
		t.Errorf("Vec3.Normalize().Length() = %v, want ~1", l)
	}
	if (Vec3{}).Normalize() != (Vec3{}) {
		t.Error("normalizing the zero vector should return zero")
	}
}

func TestVec3Lerp(t *testing.T) {
	a := Vec3{0, 0, 0}
	b := Vec3{10, -4, 2}
	if got := a.Lerp(b, 0); got != a {
		t.Errorf("Lerp(0) = %v, want %v", got, a)
	}
	if got := a.Lerp(b, 1); got != b {
		t.Errorf("Lerp(1) = %v, want %v", got, b)
	}
	half := a.Lerp(b, 0.5)
	want := Vec3{5, -2, 1}
	if !vecApproxEq(half, want, 1e-6) {
		t.Errorf("Lerp(0.5) = %v, want %v", half, want)
	}
}

func TestMat4IdentityMul(t *testing.T) {
	m := Translate(1, 2, 3).Mul(RotateZ(0.7))
	if got := Identity().Mul(m); got != m {
		t.Errorf("I * m = %v, want %v", got, m)
	}
	if got := m.Mul(Identity()); got != m {
		t.Errorf("m * I = %v, want %v", got, m)
	}
}

func TestTranslatePoint(t *testing.T) {
	m := Translate(1, 2, 3)
	got := m.TransformPoint(Vec3{1, 1, 1})
	want := Vec3{2, 3, 4}
	if got != want {
		t.Errorf("Translate.TransformPoint = %v, want %v", got, want)
	}
}

func TestRotateZQuarterTurn(t *testing.T) {
	m := RotateZ(gomath.Pi / 2)
	got := m.TransformPoint(Vec3{1, 0, 0})
	want := Vec3{0, 1, 0}
	if !vecApproxEq(got, want, 1e-6) {
		t.Errorf("RotateZ(pi/2) * (1,0,0) = %v, want %v", got, want)
	}
}

// TRS must apply scale first, then X, Y, Z rotations, then translation.
func TestTRSOrder(t *testing.T) {
	pos := Vec3{1, 2, 3}
	rot := Vec3{0.3, -0.2, 0.9}
	scl := Vec3{2, 2, 2}

	want := Translate(pos.X, pos.Y, pos.Z).
		Mul(RotateZ(rot.Z)).
		Mul(RotateY(rot.Y)).
		Mul(RotateX(rot.X)).
		Mul(Scale(scl.X, scl.Y, scl.Z))
	got := TRS(pos, rot, scl)
	for i := range got {
		if !approxEq(got[i], want[i], 1e-6) {
			t.Fatalf("TRS[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

// OrthoZO maps near to depth 0 and far to depth 1.
func TestOrthoZODepthRange(t *testing.T) {
	m := OrthoZO(-16, 16, -9, 9, -150, 100)

	nearPt := m.MulVec4(Vec4{0, 0, -150, 1})
	if !approxEq(nearPt.Z, 0, 1e-5) {
		t.Errorf("near plane maps to depth %v, want 0", nearPt.Z)
	}
	farPt := m.MulVec4(Vec4{0, 0, 100, 1})
	if !approxEq(farPt.Z, 1, 1e-5) {
		t.Errorf("far plane maps to depth %v, want 1", farPt.Z)
	}

	corner := m.MulVec4(Vec4{16, 9, 0, 1})
	if !approxEq(corner.X, 1, 1e-5) || !approxEq(corner.Y, 1, 1e-5) {
		t.Errorf("right-top corner maps to (%v, %v), want (1, 1)", corner.X, corner.Y)
	}
}

func TestQuatFromEulerMatchesMatrix(t *testing.T) {
	euler := Vec3{0.4, 0.7, -1.1}
	q := QuatFromEuler(euler)

	m := RotateZ(euler.Z).Mul(RotateY(euler.Y)).Mul(RotateX(euler.X))
	probes := []Vec3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}, {0.3, -2, 1.5}}
	for _, p := range probes {
		got := q.RotateVec3(p)
		want := m.TransformPoint(p)
		if !vecApproxEq(got, want, 1e-5) {
			t.Errorf("quat rotation of %v = %v, matrix gives %v", p, got, want)
		}
	}
}

func TestQuatNormalize(t *testing.T) {
	q := Quat{1, 2, 3, 4}.Normalize()
	l := float32(gomath.Sqrt(float64(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)))
	if !approxEq(l, 1, 1e-5) {
		t.Errorf("normalized quaternion length = %v, want 1", l)
	}
	if (Quat{}).Normalize() != QuatIdentity() {
		t.Error("normalizing the zero quaternion should return identity")
	}
}

func TestInverseUndoesTransform(t *testing.T) {
	m := TRS(Vec3{1, -2, 3}, Vec3{0.3, -0.8, 1.2}, Vec3{2, 1, 0.5})
	inv := m.Inverse()

	got := inv.Mul(m)
	want := Identity()
	for i := range got {
		if !approxEq(got[i], want[i], 1e-4) {
			t.Fatalf("inv * m element %d = %v, want %v", i, got[i], want[i])
		}
	}

	p := Vec3{4, 5, -6}
	back := inv.TransformPoint(m.TransformPoint(p))
	if !vecApproxEq(back, p, 1e-4) {
		t.Errorf("round trip of %v = %v", p, back)
	}
}

func TestInverseOfSingularIsIdentity(t *testing.T) {
	if (Mat4{}).Inverse() != Identity() {
		t.Error("singular matrix should invert to identity")
	}
}
