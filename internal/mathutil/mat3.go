package mathutil

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Mat3 is a 3×3 matrix stored row-major: [r0c0, r0c1, r0c2, r1c0, ...].
// Row vectors are transformed as v' = v × M, so row i is the image of axis i.
// Value type for zero heap allocation.
type Mat3 [9]float64

func Mat3Identity() Mat3 {
	return Mat3{1, 0, 0, 0, 1, 0, 0, 0, 1}
}

func Mat3Diag(x, y, z float64) Mat3 {
	return Mat3{x, 0, 0, 0, y, 0, 0, 0, z}
}

// Mat3FromRows builds a matrix whose rows are x, y and z.
func Mat3FromRows(x, y, z Vec3) Mat3 {
	return Mat3{x[0], x[1], x[2], y[0], y[1], y[2], z[0], z[1], z[2]}
}

// Mat3Mul returns a × b: transforming by the result applies a, then b.
func Mat3Mul(a, b Mat3) Mat3 {
	var m Mat3
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			m[r*3+c] = a[r*3+0]*b[0*3+c] + a[r*3+1]*b[1*3+c] + a[r*3+2]*b[2*3+c]
		}
	}
	return m
}

// Row returns row i.
func (m Mat3) Row(i int) Vec3 {
	return Vec3{m[i*3], m[i*3+1], m[i*3+2]}
}

// MulVec3 returns v × M.
func (m Mat3) MulVec3(v Vec3) Vec3 {
	return Vec3{
		v[0]*m[0] + v[1]*m[3] + v[2]*m[6],
		v[0]*m[1] + v[1]*m[4] + v[2]*m[7],
		v[0]*m[2] + v[1]*m[5] + v[2]*m[8],
	}
}

func (m Mat3) Det() float64 {
	return m[0]*(m[4]*m[8]-m[5]*m[7]) -
		m[1]*(m[3]*m[8]-m[5]*m[6]) +
		m[2]*(m[3]*m[7]-m[4]*m[6])
}

func (m Mat3) Transpose() Mat3 {
	return Mat3{
		m[0], m[3], m[6],
		m[1], m[4], m[7],
		m[2], m[5], m[8],
	}
}

// Orthonormalize returns the proper rotation closest to m (polar part of
// its SVD), discarding scale and shear. Rank-deficient input has no such
// rotation and yields ErrSingular.
func (m Mat3) Orthonormalize() (Mat3, error) {
	a := mat.NewDense(3, 3, append([]float64(nil), m[:]...))

	var svd mat.SVD
	if !svd.Factorize(a, mat.SVDFull) {
		return Mat3{}, fmt.Errorf("orthonormalize: %w: factorization failed", ErrSingular)
	}
	sv := svd.Values(nil)
	if sv[0] == 0 || sv[2] < sv[0]*1e-12 {
		return Mat3{}, fmt.Errorf("orthonormalize: %w: singular values %v", ErrSingular, sv)
	}

	var u, v, r mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)
	r.Mul(&u, v.T())
	if mat.Det(&r) < 0 {
		// Reflection: flip the axis of the smallest singular value.
		for i := 0; i < 3; i++ {
			u.Set(i, 2, -u.At(i, 2))
		}
		r.Mul(&u, v.T())
	}

	var out Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i*3+j] = r.At(i, j)
		}
	}
	return out, nil
}
