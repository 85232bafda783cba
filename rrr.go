// Copyright (c) 2026 diogo-almeida. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.8.28
//

package gpls

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// RRROpts contains options for reduced-rank regression
// Defaults are tuned for the usual regression setting: centered, unscaled
type RRROpts struct {
	Components int     // Number of components to retain, 0 for all
	Tol        float64 // Singular value truncation threshold, <= 0 for DefaultTol
	CenterX    bool    // Mean-center each predictor column
	CenterY    bool    // Mean-center each response column
	ScaleX     bool    // Scale each predictor column to unit standard deviation
	ScaleY     bool    // Scale each response column to unit standard deviation
}

// NewRRROpts creates a new RRROpts with default values
func NewRRROpts() *RRROpts {
	return &RRROpts{
		Components: 0,     // All components
		Tol:        0,     // DefaultTol
		CenterX:    true,  // Center predictors
		CenterY:    true,  // Center responses
		ScaleX:     false, // Keep predictor units
		ScaleY:     false, // Keep response units
	}
}

// RRRResult extends the core bundle with original-units reconstructions
// and residuals and the centering/scaling applied to each side. The
// embedded GPLSResult lives in centered/scaled coordinates; its axes
// carry the input labels: latent variable and reconstruction rows are
// the input rows, the U/P/Fi/UHat columns of the X side are X's columns,
// and the V side aligns with Y's columns the same way.
//
// Residuals carry the column scales only (the means cancel between the
// input and its reconstruction), so XHat + XResid reproduces X exactly.
type RRRResult struct {
	*GPLSResult
	XHat, YHat       *Table   // cumulative reconstruction, original units
	XHats, YHats     []*Table // per-component reconstruction, original units
	XResid, YResid   *Table   // input minus cumulative reconstruction, original units
	XResids, YResids []*Table // residual after the first k components, original units
	XMeans, YMeans   []float64
	XScales, YScales []float64
}

// RRR computes a reduced-rank regression of Y (I x K) on X (I x J) as a
// generalized PLS decomposition with the inverse predictor cross-product
// as X's column metric: the coupling decomposed is (X^t X)^{-1/2} X^t Y.
//
// Precondition: X must have full column rank after centering/scaling, so
// that X^t X is invertible. A rank-deficient X fails with
// ErrSingularMetric; no regularized inverse is substituted silently.
func RRR(X, Y *Table, opt *RRROpts) (*RRRResult, error) {
	if opt == nil {
		opt = NewRRROpts()
	}
	xr, _ := X.Dims()
	yr, _ := Y.Dims()
	if xr != yr {
		return nil, fmt.Errorf("%w: X has %d rows, Y has %d rows", ErrShapeMismatch, xr, yr)
	}

	Xc, xm, xs := centerScale(X.Data, opt.CenterX, opt.ScaleX)
	Yc, ym, ys := centerScale(Y.Data, opt.CenterY, opt.ScaleY)

	var g mat.SymDense
	g.SymOuterK(1, Xc.T()) // X^t X
	var inv mat.Dense
	if err := inv.Inverse(&g); err != nil {
		return nil, fmt.Errorf("%w: predictor cross-product not invertible (%v)", ErrSingularMetric, err)
	}

	res, err := GPLSCor(Xc, Yc, nil, nil, &inv, nil, opt.Components, opt.Tol)
	if err != nil {
		return nil, fmt.Errorf("GPLSCor() failed, err=%w", err)
	}

	out := &RRRResult{
		GPLSResult: res,
		XMeans:     xm, YMeans: ym,
		XScales: xs, YScales: ys,
	}
	out.XHats, out.XHat = unscaleAll(res.XRecons, res.XRecon, xm, xs, X)
	out.YHats, out.YHat = unscaleAll(res.YRecons, res.YRecon, ym, ys, Y)
	out.XResids, out.XResid = unscaleResidAll(res.XResiduals, res.XResidual, xs, X)
	out.YResids, out.YResid = unscaleResidAll(res.YResiduals, res.YResidual, ys, Y)
	return out, nil
}

// RDA is redundancy analysis, the same decomposition under its ecology
// name. See RRR.
func RDA(X, Y *Table, opt *RRROpts) (*RRRResult, error) {
	return RRR(X, Y, opt)
}

// centerScale returns a copy of A with each column centered and/or scaled,
// together with the per-column means and scale factors applied. Disabled
// transformations report a mean of 0 and a scale of 1. A constant column
// under scaling keeps scale 1 rather than dividing by zero.
func centerScale(A *mat.Dense, center, scale bool) (*mat.Dense, []float64, []float64) {
	r, c := A.Dims()
	out := mat.NewDense(r, c, nil)
	means := make([]float64, c)
	scales := make([]float64, c)
	col := make([]float64, r)
	for j := 0; j < c; j++ {
		mat.Col(col, j, A)
		means[j] = 0
		scales[j] = 1
		if center {
			means[j] = stat.Mean(col, nil)
		}
		if scale {
			if sd := stat.StdDev(col, nil); sd > 0 {
				scales[j] = sd
			}
		}
		for i := 0; i < r; i++ {
			out.Set(i, j, (A.At(i, j)-means[j])/scales[j])
		}
	}
	return out, means, scales
}

// unscaleAll maps centered/scaled reconstructions back to original units.
// Per-component layers get the scale only, so that layers stay additive;
// the mean baseline is added per layer the same way the CA wrapper adds
// its expectation, keeping sum_k (hat_k - mean) equal to the cumulative
// reconstruction in original scale.
func unscaleAll(recons []*mat.Dense, recon *mat.Dense, means, scales []float64, t *Table) (hats []*Table, hat *Table) {
	for _, rk := range recons {
		hats = append(hats, t.withData(unscale(rk, means, scales)))
	}
	return hats, t.withData(unscale(recon, means, scales))
}

func unscale(rk *mat.Dense, means, scales []float64) *mat.Dense {
	r, c := rk.Dims()
	out := mat.NewDense(r, c, nil)
	for j := 0; j < c; j++ {
		for i := 0; i < r; i++ {
			out.Set(i, j, rk.At(i, j)*scales[j]+means[j])
		}
	}
	return out
}

// unscaleResidAll maps centered/scaled residuals back to original units.
// Means cancel between the input and its reconstruction, so residuals get
// the column scales only.
func unscaleResidAll(resids []*mat.Dense, resid *mat.Dense, scales []float64, t *Table) (outs []*Table, out *Table) {
	for _, rk := range resids {
		outs = append(outs, t.withData(unscaleResid(rk, scales)))
	}
	return outs, t.withData(unscaleResid(resid, scales))
}

func unscaleResid(rk *mat.Dense, scales []float64) *mat.Dense {
	r, c := rk.Dims()
	out := mat.NewDense(r, c, nil)
	for j := 0; j < c; j++ {
		for i := 0; i < r; i++ {
			out.Set(i, j, rk.At(i, j)*scales[j])
		}
	}
	return out
}
