// Copyright (c) 2026 diogo-almeida. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.8.28
//

// Implements the generalized PLS decompositions of two matrices coupled
// through their shared rows: the one-shot correlation variant and the
// deflation-based canonical variant, with per-component reconstruction
// accounting.

package gpls

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// GPLSResult is the bundle returned by GPLSCor and GPLSCan. All per-side
// matrices have one column per retained component; the X side aligns with
// the columns of X, the Y side with the columns of Y.
//
// Fields:
//   - D: generalized singular values
//   - U, V: generalized singular vectors, orthonormal under XRW resp. YRW
//   - P, Q: metric-rescaled vectors (XRW^{1/2}-weighted), P = XRW * U
//   - Fi, Fj: component scores, Fi = P * diag(D)
//   - Lx, Ly: latent variable scores (I x components); Lx[,k] . Ly[,k] = D[k]
//   - Tx, Ty: latent variables normalized to unit length
//   - UHat, VHat: reconstruction loadings pairing with the latent variables
//   - XRecons, YRecons: rank-1 layer per component, in input coordinates
//   - XResiduals, YResiduals: input minus the first k layers, per component
//   - XRecon, YRecon, XResidual, YResidual: cumulative over all retained components
//   - R2X, R2Y: per-component share of reconstructed squared norm, summing to 1
//
// A degenerate decomposition (nothing survives the tolerance) yields an
// empty bundle: D and the R2 vectors are empty, the component matrices are
// nil, XRecon/YRecon are all-zero and the residuals equal the inputs.
type GPLSResult struct {
	D          []float64
	U, V       *mat.Dense
	P, Q       *mat.Dense
	Fi, Fj     *mat.Dense
	Lx, Ly     *mat.Dense
	Tx, Ty     *mat.Dense
	UHat, VHat *mat.Dense

	XRecons, YRecons       []*mat.Dense
	XResiduals, YResiduals []*mat.Dense
	XRecon, YRecon         *mat.Dense
	XResidual, YResidual   *mat.Dense
	R2X, R2Y               []float64
}

// Components returns the number of retained components.
func (g *GPLSResult) Components() int {
	return len(g.D)
}

// GPLSCor computes the one-shot (correlation) generalized PLS
// decomposition of X (I x J) and Y (I x K)
//
// Parameters:
//   - X, Y: data matrices sharing their I rows
//   - XLW, YLW: row metrics (I x I), nil for identity
//   - XRW, YRW: column metrics (J x J and K x K), nil for identity
//   - components: number of components to retain, 0 for all
//   - tol: singular value truncation threshold, <= 0 for DefaultTol
//
// The cross-product of the row-weighted matrices is decomposed once by the
// GSVD engine with XRW and YRW as the two column-space metrics. Latent
// variables from the same component satisfy Lx[,k] . Ly[,k] = D[k], and in
// this variant latent variables from different components are orthogonal
// across sides as well.
func GPLSCor(X, Y mat.Matrix, XLW, YLW, XRW, YRW mat.Matrix, components int, tol float64) (*GPLSResult, error) {
	xlw, ylw, xrw, yrw, err := plsMetrics(X, Y, XLW, YLW, XRW, YRW)
	if err != nil {
		return nil, err
	}
	if tol <= 0 {
		tol = DefaultTol
	}

	// Couple the two matrices through their shared rows
	Xr := xlw.weighLeft(X)
	Yr := ylw.weighLeft(Y)
	var R mat.Dense
	R.Mul(Xr.T(), Yr)

	g, err := GSVD(&R, XRW, YRW, components, tol)
	if err != nil {
		return nil, fmt.Errorf("GSVD(): %w", err)
	}
	if g.Components() == 0 {
		return assembleGPLS(X, Y, xlw, ylw, xrw, yrw, nil, nil, nil, nil, nil, nil, nil), nil
	}

	ZXw := xrw.weighRight(Xr)
	ZYw := yrw.weighRight(Yr)
	var lx, ly mat.Dense
	lx.Mul(ZXw, g.Uw)
	ly.Mul(ZYw, g.Vw)

	// The weighted rank-1 layers are lx_k (x) uw_k, so the reconstruction
	// loadings coincide with the singular vectors
	return assembleGPLS(X, Y, xlw, ylw, xrw, yrw, g.D, g.Uw, g.Vw, g.Uw, g.Vw, &lx, &ly), nil
}

// GPLSCan computes the canonical (deflation) generalized PLS decomposition
// of X (I x J) and Y (I x K). Parameters are those of GPLSCor.
//
// Per component the leading generalized singular triple of the deflated
// cross-product is extracted, the latent variables are formed, both
// weighted matrices are regressed on their own latent variable and the
// rank-1 fits are subtracted. Consequences preserved here: Lx columns are
// pairwise orthogonal and so are Ly columns, Lx[,k] . Ly[,k] = D[k], but
// Lx and Ly are not jointly orthogonal across different components. The
// rank-1 layers sum to the input up to the tolerance-pruned residual.
func GPLSCan(X, Y mat.Matrix, XLW, YLW, XRW, YRW mat.Matrix, components int, tol float64) (*GPLSResult, error) {
	xlw, ylw, xrw, yrw, err := plsMetrics(X, Y, XLW, YLW, XRW, YRW)
	if err != nil {
		return nil, err
	}
	if tol <= 0 {
		tol = DefaultTol
	}
	ix, jx := X.Dims()
	_, ky := Y.Dims()

	Dx := xrw.weighRight(xlw.weighLeft(X))
	Dy := yrw.weighRight(ylw.weighLeft(Y))
	maxK := numComp(components, min(jx, ky))

	var ds []float64
	var uwc, vwc, pwc, qwc, lxc, lyc [][]float64
	for k := 0; k < maxK; k++ {
		var R mat.Dense
		R.Mul(Dx.T(), Dy)
		g, err := GSVD(&R, nil, nil, 1, tol)
		if err != nil {
			return nil, fmt.Errorf("GSVD(): %w", err)
		}
		if g.Components() == 0 {
			// remaining association is numerically degenerate
			PrintD(2, "\tcomponent %d: nothing above tolerance, stopping\n", k+1)
			break
		}
		var lxk, lyk mat.VecDense
		lxk.MulVec(Dx, g.Uw.ColView(0))
		lyk.MulVec(Dy, g.Vw.ColView(0))
		sx := mat.Dot(&lxk, &lxk)
		sy := mat.Dot(&lyk, &lyk)
		if sx == 0 || sy == 0 {
			break
		}

		// Regression loadings of the deflated matrices on their scores
		var pwk, qwk mat.VecDense
		pwk.MulVec(Dx.T(), &lxk)
		pwk.ScaleVec(1/sx, &pwk)
		qwk.MulVec(Dy.T(), &lyk)
		qwk.ScaleVec(1/sy, &qwk)

		// Rank-1 deflation of both sides
		var fx, fy mat.Dense
		fx.Outer(1, &lxk, &pwk)
		Dx.Sub(Dx, &fx)
		fy.Outer(1, &lyk, &qwk)
		Dy.Sub(Dy, &fy)

		PrintD(2, "\tcomponent %d: d=%f\n", k+1, g.D[0])
		ds = append(ds, g.D[0])
		uwc = append(uwc, mat.Col(nil, 0, g.Uw))
		vwc = append(vwc, mat.Col(nil, 0, g.Vw))
		pwc = append(pwc, vecSlice(&pwk))
		qwc = append(qwc, vecSlice(&qwk))
		lxc = append(lxc, vecSlice(&lxk))
		lyc = append(lyc, vecSlice(&lyk))
	}

	return assembleGPLS(X, Y, xlw, ylw, xrw, yrw, ds,
		colsToDense(jx, uwc), colsToDense(ky, vwc),
		colsToDense(jx, pwc), colsToDense(ky, qwc),
		colsToDense(ix, lxc), colsToDense(ix, lyc)), nil
}

// Shared input validation and metric construction for both variants.
func plsMetrics(X, Y, XLW, YLW, XRW, YRW mat.Matrix) (xlw, ylw, xrw, yrw *metric, err error) {
	ix, jx := X.Dims()
	iy, ky := Y.Dims()
	if ix != iy {
		return nil, nil, nil, nil, fmt.Errorf("%w: X has %d rows, Y has %d rows", ErrShapeMismatch, ix, iy)
	}
	if xlw, err = newMetric(XLW, ix); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("X row metric: %w", err)
	}
	if ylw, err = newMetric(YLW, iy); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("Y row metric: %w", err)
	}
	if xrw, err = newMetric(XRW, jx); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("X column metric: %w", err)
	}
	if yrw, err = newMetric(YRW, ky); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("Y column metric: %w", err)
	}
	return xlw, ylw, xrw, yrw, nil
}

// assembleGPLS turns the raw per-component quantities of either variant
// into the full result bundle. uw/vw are weighted-space singular vectors,
// pw/qw the weighted-space reconstruction loadings (so that the weighted
// rank-1 layer of component k is lx_k (x) pw_k), lx/ly the latent
// variables. A nil/empty component set produces the documented empty
// bundle.
func assembleGPLS(X, Y mat.Matrix, xlw, ylw, xrw, yrw *metric, d []float64, uw, vw, pw, qw, lx, ly *mat.Dense) *GPLSResult {
	ix, jx := X.Dims()
	_, ky := Y.Dims()
	Xd := mat.DenseCopyOf(X)
	Yd := mat.DenseCopyOf(Y)

	res := &GPLSResult{
		D:          []float64{},
		R2X:        []float64{},
		R2Y:        []float64{},
		XRecons:    []*mat.Dense{},
		YRecons:    []*mat.Dense{},
		XResiduals: []*mat.Dense{},
		YResiduals: []*mat.Dense{},
		XRecon:     mat.NewDense(ix, jx, nil),
		YRecon:     mat.NewDense(ix, ky, nil),
		XResidual:  Xd,
		YResidual:  Yd,
	}
	if len(d) == 0 {
		return res
	}
	res.D = append(res.D, d...)

	res.U = xrw.unweighLeft(uw)
	res.V = yrw.unweighLeft(vw)
	res.P = xrw.weighLeft(uw)
	res.Q = yrw.weighLeft(vw)
	res.UHat = xrw.unweighLeft(pw)
	res.VHat = yrw.unweighLeft(qw)
	res.Lx = mat.DenseCopyOf(lx)
	res.Ly = mat.DenseCopyOf(ly)

	// Component scores: metric-rescaled vectors stretched by the singular values
	res.Fi = mat.DenseCopyOf(res.P)
	res.Fj = mat.DenseCopyOf(res.Q)
	res.Tx = mat.DenseCopyOf(lx)
	res.Ty = mat.DenseCopyOf(ly)
	for k := range d {
		scaleCol(res.Fi, k, d[k])
		scaleCol(res.Fj, k, d[k])
		scaleCol(res.Tx, k, 1/colNorm(res.Lx, k))
		scaleCol(res.Ty, k, 1/colNorm(res.Ly, k))
	}

	// Rank-1 layers in input coordinates: un-weight the scores on the row
	// side and the loadings on the column side
	lxu := xlw.unweighLeft(lx)
	lyu := ylw.unweighLeft(ly)
	res.XRecons, res.XResiduals, res.XRecon, res.XResidual = layerStack(Xd, lxu, res.UHat)
	res.YRecons, res.YResiduals, res.YRecon, res.YResidual = layerStack(Yd, lyu, res.VHat)

	// Explained-variance shares in the weighted (decomposition) space. The
	// layers are Frobenius-orthogonal there, so the shares are exact.
	res.R2X = layerShares(lx, pw)
	res.R2Y = layerShares(ly, qw)
	return res
}

// layerStack builds the per-component rank-1 layers scores (x) loads, the
// running residuals against the input, and the cumulative views. Summing
// all layers and the final residual gives back the input exactly.
func layerStack(in *mat.Dense, scores, loads *mat.Dense) (layers, resids []*mat.Dense, recon, resid *mat.Dense) {
	r, c := in.Dims()
	_, n := scores.Dims()
	recon = mat.NewDense(r, c, nil)
	for k := 0; k < n; k++ {
		var layer mat.Dense
		layer.Outer(1, scores.ColView(k), loads.ColView(k))
		recon.Add(recon, &layer)
		res := mat.NewDense(r, c, nil)
		res.Sub(in, recon)
		layers = append(layers, &layer)
		resids = append(resids, res)
	}
	resid = mat.NewDense(r, c, nil)
	resid.Sub(in, recon)
	return layers, resids, recon, resid
}

// layerShares normalizes each layer's squared Frobenius norm by the
// total over the retained set.
func layerShares(scores, loads *mat.Dense) []float64 {
	_, n := scores.Dims()
	out := make([]float64, n)
	total := 0.0
	for k := 0; k < n; k++ {
		out[k] = SQ(colNorm(scores, k)) * SQ(colNorm(loads, k))
		total += out[k]
	}
	if total > 0 {
		for k := range out {
			out[k] /= total
		}
	}
	return out
}

func vecSlice(v *mat.VecDense) []float64 {
	out := make([]float64, v.Len())
	for i := range out {
		out[i] = v.AtVec(i)
	}
	return out
}

// colsToDense assembles column slices into a rows x len(cols) matrix,
// nil when no columns were collected.
func colsToDense(rows int, cols [][]float64) *mat.Dense {
	if len(cols) == 0 {
		return nil
	}
	out := mat.NewDense(rows, len(cols), nil)
	for j, c := range cols {
		out.SetCol(j, c)
	}
	return out
}
