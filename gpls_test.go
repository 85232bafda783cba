// Copyright (c) 2026 diogo-almeida. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.8.28
//

package gpls_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	gpls "github.com/diogo-almeida/GPLS"
)

func testX() *mat.Dense {
	return mat.NewDense(6, 3, []float64{
		1.2, 0.5, -0.3,
		-0.7, 1.1, 0.8,
		0.4, -1.3, 0.5,
		2.0, 0.3, -1.1,
		-0.6, 0.9, 1.4,
		0.1, -0.8, 0.6,
	})
}

func testY() *mat.Dense {
	return mat.NewDense(6, 4, []float64{
		0.3, 1.0, -0.2, 0.5,
		1.1, -0.4, 0.7, -0.9,
		-0.5, 0.8, 1.2, 0.3,
		0.9, 0.2, -1.0, 1.4,
		-1.2, 0.6, 0.4, -0.3,
		0.5, -1.1, 0.2, 0.8,
	})
}

func TestGPLSCanLatentVariableProperties(t *testing.T) {
	res, err := gpls.GPLSCan(testX(), testY(), nil, nil, nil, nil, 0, 0)
	require.NoError(t, err)
	k := res.Components()
	require.GreaterOrEqual(t, k, 2)

	for i := 0; i < k; i++ {
		require.GreaterOrEqual(t, res.D[i], 0.0)
		// the paired latent variables recover the singular value exactly
		require.InDelta(t, res.D[i], dotCols(res.Lx, res.Ly, i, i), 1e-9)
	}

	// within each side, latent variables are orthogonal under the plain
	// dot product
	for i := 0; i < k; i++ {
		for j := i + 1; j < k; j++ {
			require.InDelta(t, 0, dotCols(res.Lx, res.Lx, i, j), 1e-9)
			require.InDelta(t, 0, dotCols(res.Ly, res.Ly, i, j), 1e-9)
		}
	}

	// across sides the decomposition is not jointly orthogonal: some
	// off-diagonal cross-product must survive
	maxCross := 0.0
	for i := 0; i < k; i++ {
		for j := 0; j < k; j++ {
			if i != j {
				maxCross = math.Max(maxCross, math.Abs(dotCols(res.Lx, res.Ly, i, j)))
			}
		}
	}
	require.Greater(t, maxCross, 1e-10)
}

func TestGPLSCanExplainedVariance(t *testing.T) {
	res, err := gpls.GPLSCan(testX(), testY(), nil, nil, nil, nil, 0, 0)
	require.NoError(t, err)
	require.NotEmpty(t, res.R2X)
	require.NotEmpty(t, res.R2Y)
	for _, r := range res.R2X {
		require.GreaterOrEqual(t, r, 0.0)
	}
	for _, r := range res.R2Y {
		require.GreaterOrEqual(t, r, 0.0)
	}
	require.InDelta(t, 1.0, floats.Sum(res.R2X), 1e-9)
	require.InDelta(t, 1.0, floats.Sum(res.R2Y), 1e-9)
}

// Truncation must return the same leading components as the full run.
func TestGPLSCanTruncationConsistency(t *testing.T) {
	full, err := gpls.GPLSCan(testX(), testY(), nil, nil, nil, nil, 0, 0)
	require.NoError(t, err)
	trunc, err := gpls.GPLSCan(testX(), testY(), nil, nil, nil, nil, 2, 0)
	require.NoError(t, err)

	require.Equal(t, 2, trunc.Components())
	for i := 0; i < 2; i++ {
		require.InDelta(t, full.D[i], trunc.D[i], 1e-12)
		requireMatApprox(t, full.XRecons[i], trunc.XRecons[i], 1e-10)
	}
}

// Decomposing a matrix against itself reduces to a PCA-like expansion:
// singular values descend and the layers rebuild the input completely.
func TestGPLSCanSelfReconstruction(t *testing.T) {
	X := testX()
	res, err := gpls.GPLSCan(X, X, nil, nil, nil, nil, 0, 0)
	require.NoError(t, err)
	k := res.Components()
	require.Equal(t, 3, k)

	for i := 1; i < k; i++ {
		require.GreaterOrEqual(t, res.D[i-1], res.D[i])
	}

	// residual shrinks monotonically and vanishes at full rank
	prev := math.Inf(1)
	for i := 0; i < k; i++ {
		n := mat.Norm(res.XResiduals[i], 2)
		require.LessOrEqual(t, n, prev+1e-12)
		prev = n
	}
	require.Less(t, prev, 1e-9)
	requireMatApprox(t, X, res.XRecon, 1e-9)

	// layers are additive: their sum is the cumulative reconstruction
	r, c := X.Dims()
	sum := mat.NewDense(r, c, nil)
	for _, layer := range res.XRecons {
		sum.Add(sum, layer)
	}
	requireMatApprox(t, res.XRecon, sum, 1e-10)
}

// Weighted decomposition keeps the same latent variable identities.
func TestGPLSCanWithMetrics(t *testing.T) {
	XLW := mat.NewDiagDense(6, []float64{0.2, 0.1, 0.3, 0.15, 0.1, 0.15})
	XRW := mat.NewDiagDense(3, []float64{2, 0.5, 1})
	YRW := mat.NewDiagDense(4, []float64{1, 0.25, 4, 0.5})

	res, err := gpls.GPLSCan(testX(), testY(), XLW, XLW, XRW, YRW, 0, 0)
	require.NoError(t, err)
	k := res.Components()
	require.GreaterOrEqual(t, k, 2)
	for i := 0; i < k; i++ {
		require.InDelta(t, res.D[i], dotCols(res.Lx, res.Ly, i, i), 1e-9)
		for j := i + 1; j < k; j++ {
			require.InDelta(t, 0, dotCols(res.Lx, res.Lx, i, j), 1e-9)
			require.InDelta(t, 0, dotCols(res.Ly, res.Ly, i, j), 1e-9)
		}
	}

	// additivity in input coordinates: layers plus final residual give X
	r, c := testX().Dims()
	sum := mat.NewDense(r, c, nil)
	for _, layer := range res.XRecons {
		sum.Add(sum, layer)
	}
	sum.Add(sum, res.XResidual)
	requireMatApprox(t, testX(), sum, 1e-9)
}

// In the one-shot variant latent variables are orthogonal across sides
// too, with the singular values on the diagonal.
func TestGPLSCorCrossOrthogonality(t *testing.T) {
	X := testX()
	res, err := gpls.GPLSCor(X, testY(), nil, nil, nil, nil, 0, 0)
	require.NoError(t, err)
	k := res.Components()
	require.Equal(t, 3, k)

	for i := 0; i < k; i++ {
		for j := 0; j < k; j++ {
			want := 0.0
			if i == j {
				want = res.D[i]
			}
			require.InDelta(t, want, dotCols(res.Lx, res.Ly, i, j), 1e-9)
		}
	}

	// X has rank 3 and all three components survive, so the X side is
	// rebuilt completely; Y has rank 4 and keeps a residual
	requireMatApprox(t, X, res.XRecon, 1e-9)
	require.Greater(t, mat.Norm(res.YResidual, 2), 1e-6)
	require.InDelta(t, 1.0, floats.Sum(res.R2X), 1e-9)
	require.InDelta(t, 1.0, floats.Sum(res.R2Y), 1e-9)
}

// The one-shot variant keeps its cross-orthogonality under arbitrary
// diagonal metrics, and the layers stay additive in input coordinates.
func TestGPLSCorWithMetrics(t *testing.T) {
	XLW := mat.NewDiagDense(6, []float64{0.2, 0.1, 0.3, 0.15, 0.1, 0.15})
	XRW := mat.NewDiagDense(3, []float64{2, 0.5, 1})
	YRW := mat.NewDiagDense(4, []float64{1, 0.25, 4, 0.5})

	res, err := gpls.GPLSCor(testX(), testY(), XLW, XLW, XRW, YRW, 0, 0)
	require.NoError(t, err)
	k := res.Components()
	require.GreaterOrEqual(t, k, 2)

	for i := 0; i < k; i++ {
		for j := 0; j < k; j++ {
			want := 0.0
			if i == j {
				want = res.D[i]
			}
			require.InDelta(t, want, dotCols(res.Lx, res.Ly, i, j), 1e-9)
		}
	}

	require.InDelta(t, 1.0, floats.Sum(res.R2X), 1e-9)
	require.InDelta(t, 1.0, floats.Sum(res.R2Y), 1e-9)

	// additivity in input coordinates: layers plus final residual give X
	r, c := testX().Dims()
	sum := mat.NewDense(r, c, nil)
	for _, layer := range res.XRecons {
		sum.Add(sum, layer)
	}
	sum.Add(sum, res.XResidual)
	requireMatApprox(t, testX(), sum, 1e-9)
}

// All association below tolerance: a valid empty bundle, not a crash.
func TestGPLSCanDegenerate(t *testing.T) {
	X := mat.NewDense(5, 2, nil)
	res, err := gpls.GPLSCan(X, mat.NewDense(5, 3, []float64{
		1, 0, 2,
		0, 1, 1,
		2, 1, 0,
		1, 2, 1,
		0, 1, 2,
	}), nil, nil, nil, nil, 0, 0)
	require.NoError(t, err)
	require.Equal(t, 0, res.Components())
	require.Empty(t, res.D)
	require.Empty(t, res.XRecons)
	require.Empty(t, res.R2X)
	require.Nil(t, res.Lx)
	requireMatApprox(t, mat.NewDense(5, 2, nil), res.XRecon, 1e-15)
	requireMatApprox(t, X, res.XResidual, 1e-15)
}

func TestGPLSRowCountMismatch(t *testing.T) {
	X := mat.NewDense(4, 2, nil)
	Y := mat.NewDense(5, 2, nil)
	_, err := gpls.GPLSCan(X, Y, nil, nil, nil, nil, 0, 0)
	require.ErrorIs(t, err, gpls.ErrShapeMismatch)
	_, err = gpls.GPLSCor(X, Y, nil, nil, nil, nil, 0, 0)
	require.ErrorIs(t, err, gpls.ErrShapeMismatch)
}

func TestGPLSSingularMetricRejected(t *testing.T) {
	XRW := mat.NewDiagDense(3, []float64{1, 0, 1})
	_, err := gpls.GPLSCan(testX(), testY(), nil, nil, XRW, nil, 0, 0)
	require.ErrorIs(t, err, gpls.ErrSingularMetric)
	_, err = gpls.GPLSCor(testX(), testY(), nil, nil, XRW, nil, 0, 0)
	require.ErrorIs(t, err, gpls.ErrSingularMetric)
}
