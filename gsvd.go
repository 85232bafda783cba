// Copyright (c) 2026 diogo-almeida. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.8.28
//

// Implements the generalized singular value decomposition with row and
// column metrics, the primitive under every decomposition in this package.

package gpls

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// GSVDResult holds a generalized singular value decomposition
//
//	Z = U * diag(D) * V^t
//
// where U is orthonormal under the row metric (U^t R U = I) and V under
// the column metric. Uw and Vw are the singular vectors of the weighted
// matrix R^{1/2} Z C^{1/2}, orthonormal under the plain dot product; they
// coincide with U and V for identity metrics.
type GSVDResult struct {
	D      []float64
	U, V   *mat.Dense
	Uw, Vw *mat.Dense
}

// Components returns the number of retained components.
func (g *GSVDResult) Components() int {
	return len(g.D)
}

// GSVD computes the generalized singular value decomposition of Z under a
// row metric and a column metric
//
// Parameters:
//   - Z: matrix to decompose (I x J)
//   - rowW: row metric (I x I, symmetric positive definite), nil for identity
//   - colW: column metric (J x J, symmetric positive definite), nil for identity
//   - components: number of components to retain, 0 for all
//   - tol: singular value truncation threshold, <= 0 for DefaultTol
//
// Returns:
//   - GSVDResult: retained triples, values descending
//   - error: ErrShapeMismatch or ErrSingularMetric on bad inputs
//
// The decomposition is taken from the ordinary SVD of rowW^{1/2} Z colW^{1/2},
// whose singular vectors are un-weighted by the inverse metric square roots.
// Truncation is decided on the eigenvalues of the real symmetric
// cross-product problem: eigenvalues that are not positive, or whose square
// root does not exceed tol, are dropped. When everything is dropped the
// result is a valid zero-component decomposition, not an error. Requesting
// more components than survive pruning returns all that survive.
func GSVD(Z mat.Matrix, rowW, colW mat.Matrix, components int, tol float64) (*GSVDResult, error) {
	r, c := Z.Dims()
	if tol <= 0 {
		tol = DefaultTol
	}
	rw, err := newMetric(rowW, r)
	if err != nil {
		return nil, fmt.Errorf("row metric: %w", err)
	}
	cw, err := newMetric(colW, c)
	if err != nil {
		return nil, fmt.Errorf("column metric: %w", err)
	}

	Zw := cw.weighRight(rw.weighLeft(Z))
	if DBG_ >= 4 {
		PrintA("weighted matrix:\n")
		PrintMat(Zw)
	}
	d, uw, vw, err := truncatedSVD(Zw, components, tol)
	if err != nil {
		return nil, fmt.Errorf("truncatedSVD() failed, err=%v", err)
	}
	PrintD(2, "GSVD: %d x %d, tol=%g, retained=%d\n", r, c, tol, len(d))
	if len(d) == 0 {
		return &GSVDResult{D: []float64{}}, nil
	}
	return &GSVDResult{
		D:  d,
		U:  rw.unweighLeft(uw),
		V:  cw.unweighLeft(vw),
		Uw: uw,
		Vw: vw,
	}, nil
}

// Tolerance-truncated SVD of a dense matrix, via the symmetric
// eigendecomposition of the smaller cross-product. Deciding retention on
// real eigenvalues sidesteps the spurious imaginary artifacts a complex
// solver can produce near zero.
func truncatedSVD(Zw *mat.Dense, components int, tol float64) (d []float64, uw, vw *mat.Dense, err error) {
	r, c := Zw.Dims()
	small := c <= r

	var s mat.SymDense
	if small {
		s.SymOuterK(1, Zw.T()) // Zw^t Zw (c x c)
	} else {
		s.SymOuterK(1, Zw) // Zw Zw^t (r x r)
	}
	var es mat.EigenSym
	if !es.Factorize(&s, true) {
		return nil, nil, nil, fmt.Errorf("symmetric eigendecomposition did not converge")
	}
	vals := es.Values(nil)
	var evec mat.Dense
	es.VectorsTo(&evec)

	// Eigenvalues come out ascending. Walk them from the top and stop at
	// the first one the tolerance excludes; everything below it is smaller.
	var keep []int
	for i := len(vals) - 1; i >= 0; i-- {
		if vals[i] <= 0 || math.Sqrt(vals[i]) <= tol {
			break
		}
		keep = append(keep, i)
		d = append(d, math.Sqrt(vals[i]))
	}
	if components > 0 && components < len(keep) {
		keep = keep[:components]
		d = d[:components]
	}
	PrintD(3, "\tsingular values: %v\n", d)
	if len(keep) == 0 {
		return nil, nil, nil, nil
	}

	side := c
	if !small {
		side = r
	}
	B := mat.NewDense(side, len(keep), nil)
	buf := make([]float64, side)
	for j, i := range keep {
		B.SetCol(j, mat.Col(buf, i, &evec))
	}

	// Recover the other side as Zw B / d
	var o mat.Dense
	if small {
		o.Mul(Zw, B)
	} else {
		o.Mul(Zw.T(), B)
	}
	for j := range d {
		scaleCol(&o, j, 1/d[j])
	}
	if small {
		return d, &o, B, nil
	}
	return d, B, &o, nil
}

//-------------------------------------------------------------------
// Metric (weight) matrices
//-------------------------------------------------------------------

// metric carries the square root and inverse square root of a symmetric
// positive definite weight matrix. A nil source matrix is the identity
// metric, for which both factors stay nil and multiplications are copies.
type metric struct {
	n             int
	half, invHalf mat.Matrix
}

func newMetric(W mat.Matrix, n int) (*metric, error) {
	if W == nil {
		return &metric{n: n}, nil
	}
	r, c := W.Dims()
	if r != n || c != n {
		return nil, fmt.Errorf("%w: metric is %d x %d, want %d x %d", ErrShapeMismatch, r, c, n, n)
	}
	if dg, ok := W.(*mat.DiagDense); ok {
		h := make([]float64, n)
		ih := make([]float64, n)
		for i := 0; i < n; i++ {
			v := dg.At(i, i)
			if v <= 0 || math.IsNaN(v) {
				return nil, fmt.Errorf("%w: diagonal entry %d is %g, want > 0", ErrSingularMetric, i, v)
			}
			h[i] = math.Sqrt(v)
			ih[i] = 1 / h[i]
		}
		return &metric{n: n, half: mat.NewDiagDense(n, h), invHalf: mat.NewDiagDense(n, ih)}, nil
	}

	// General symmetric metric: square roots through the eigendecomposition
	s := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			s.SetSym(i, j, 0.5*(W.At(i, j)+W.At(j, i)))
		}
	}
	var es mat.EigenSym
	if !es.Factorize(s, true) {
		return nil, fmt.Errorf("metric eigendecomposition did not converge")
	}
	vals := es.Values(nil)
	vmax := vals[len(vals)-1]
	sq := make([]float64, n)
	isq := make([]float64, n)
	for i, v := range vals {
		if v <= 0 || v <= vmax*float64(n)*Eps {
			return nil, fmt.Errorf("%w: eigenvalue %g not positive", ErrSingularMetric, v)
		}
		sq[i] = math.Sqrt(v)
		isq[i] = 1 / sq[i]
	}
	var q, t, half, invHalf mat.Dense
	es.VectorsTo(&q)
	t.Mul(&q, mat.NewDiagDense(n, sq))
	half.Mul(&t, q.T())
	t.Mul(&q, mat.NewDiagDense(n, isq))
	invHalf.Mul(&t, q.T())
	return &metric{n: n, half: &half, invHalf: &invHalf}, nil
}

// W^{1/2} A
func (w *metric) weighLeft(A mat.Matrix) *mat.Dense {
	if w.half == nil {
		return mat.DenseCopyOf(A)
	}
	var out mat.Dense
	out.Mul(w.half, A)
	return &out
}

// A W^{1/2}
func (w *metric) weighRight(A mat.Matrix) *mat.Dense {
	if w.half == nil {
		return mat.DenseCopyOf(A)
	}
	var out mat.Dense
	out.Mul(A, w.half)
	return &out
}

// W^{-1/2} A
func (w *metric) unweighLeft(A mat.Matrix) *mat.Dense {
	if w.invHalf == nil {
		return mat.DenseCopyOf(A)
	}
	var out mat.Dense
	out.Mul(w.invHalf, A)
	return &out
}
