// Package transform maps between an ideal, axis-aligned symbol grid and the
// skewed quadrilateral the symbol occupies in an image.
package transform

import "github.com/ericlevine/zxcore"

// Quad is a quadrilateral given as its corners in top-left, top-right,
// bottom-right, bottom-left order.
type Quad [4]zxcore.ResultPoint

// Rect returns the axis-aligned quad with corners (0,0) and (w,h).
func Rect(w, h float64) Quad {
	return Quad{{X: 0, Y: 0}, {X: w, Y: 0}, {X: w, Y: h}, {X: 0, Y: h}}
}

// PerspectiveTransform is a 3×3 projective mapping of the plane. It is
// immutable once built.
type PerspectiveTransform struct {
	a11, a12, a13 float64
	a21, a22, a23 float64
	a31, a32, a33 float64
}

// QuadToQuad returns the transform that takes each corner of from onto the
// matching corner of to.
func QuadToQuad(from, to Quad) *PerspectiveTransform {
	return SquareToQuad(to).times(QuadToSquare(from))
}

// SquareToQuad maps the unit square onto q. When q is a parallelogram the
// result is affine.
func SquareToQuad(q Quad) *PerspectiveTransform {
	x0, y0 := q[0].X, q[0].Y
	x1, y1 := q[1].X, q[1].Y
	x2, y2 := q[2].X, q[2].Y
	x3, y3 := q[3].X, q[3].Y
	dx3 := x0 - x1 + x2 - x3
	dy3 := y0 - y1 + y2 - y3
	if dx3 == 0 && dy3 == 0 {
		return &PerspectiveTransform{
			a11: x1 - x0, a21: x2 - x1, a31: x0,
			a12: y1 - y0, a22: y2 - y1, a32: y0,
			a33: 1,
		}
	}
	dx1 := x1 - x2
	dx2 := x3 - x2
	dy1 := y1 - y2
	dy2 := y3 - y2
	denominator := dx1*dy2 - dx2*dy1
	a13 := (dx3*dy2 - dx2*dy3) / denominator
	a23 := (dx1*dy3 - dx3*dy1) / denominator
	return &PerspectiveTransform{
		a11: x1 - x0 + a13*x1, a21: x3 - x0 + a23*x3, a31: x0,
		a12: y1 - y0 + a13*y1, a22: y3 - y0 + a23*y3, a32: y0,
		a13: a13, a23: a23, a33: 1,
	}
}

// QuadToSquare maps q onto the unit square.
func QuadToSquare(q Quad) *PerspectiveTransform {
	return SquareToQuad(q).adjoint()
}

// Transform maps a single point.
func (pt *PerspectiveTransform) Transform(p zxcore.ResultPoint) zxcore.ResultPoint {
	denominator := pt.a13*p.X + pt.a23*p.Y + pt.a33
	return zxcore.ResultPoint{
		X: (pt.a11*p.X + pt.a21*p.Y + pt.a31) / denominator,
		Y: (pt.a12*p.X + pt.a22*p.Y + pt.a32) / denominator,
	}
}

// TransformPoints maps interleaved x, y pairs in place.
func (pt *PerspectiveTransform) TransformPoints(points []float64) {
	for i := 0; i+1 < len(points); i += 2 {
		x, y := points[i], points[i+1]
		denominator := pt.a13*x + pt.a23*y + pt.a33
		points[i] = (pt.a11*x + pt.a21*y + pt.a31) / denominator
		points[i+1] = (pt.a12*x + pt.a22*y + pt.a32) / denominator
	}
}

// adjoint is the transpose of the cofactor matrix. It inverts the transform
// up to a scale factor, which projective coordinates ignore.
func (pt *PerspectiveTransform) adjoint() *PerspectiveTransform {
	return &PerspectiveTransform{
		a11: pt.a22*pt.a33 - pt.a23*pt.a32,
		a21: pt.a23*pt.a31 - pt.a21*pt.a33,
		a31: pt.a21*pt.a32 - pt.a22*pt.a31,
		a12: pt.a13*pt.a32 - pt.a12*pt.a33,
		a22: pt.a11*pt.a33 - pt.a13*pt.a31,
		a32: pt.a12*pt.a31 - pt.a11*pt.a32,
		a13: pt.a12*pt.a23 - pt.a13*pt.a22,
		a23: pt.a13*pt.a21 - pt.a11*pt.a23,
		a33: pt.a11*pt.a22 - pt.a12*pt.a21,
	}
}

func (pt *PerspectiveTransform) times(o *PerspectiveTransform) *PerspectiveTransform {
	return &PerspectiveTransform{
		a11: pt.a11*o.a11 + pt.a21*o.a12 + pt.a31*o.a13,
		a21: pt.a11*o.a21 + pt.a21*o.a22 + pt.a31*o.a23,
		a31: pt.a11*o.a31 + pt.a21*o.a32 + pt.a31*o.a33,
		a12: pt.a12*o.a11 + pt.a22*o.a12 + pt.a32*o.a13,
		a22: pt.a12*o.a21 + pt.a22*o.a22 + pt.a32*o.a23,
		a32: pt.a12*o.a31 + pt.a22*o.a32 + pt.a32*o.a33,
		a13: pt.a13*o.a11 + pt.a23*o.a12 + pt.a33*o.a13,
		a23: pt.a13*o.a21 + pt.a23*o.a22 + pt.a33*o.a23,
		a33: pt.a13*o.a31 + pt.a23*o.a32 + pt.a33*o.a33,
	}
}
