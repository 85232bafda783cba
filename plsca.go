// Copyright (c) 2026 diogo-almeida. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.8.28
//

// Implements partial least squares correspondence analysis: the CA
// preprocessing pipeline around the generalized PLS core, with results
// rescaled back into the units of the raw tables.

package gpls

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// PLSCAResult extends the core bundle with the preprocessing of both
// tables and the original-units reconstructions and residuals. The
// embedded GPLSResult lives in deviation (Z) coordinates; its axes carry
// the input labels as follows: rows of Lx, Ly, Tx, Ty, XRecons,
// XResiduals, YRecons and YResiduals are the input rows (RowNames of
// either table), columns of U, P, Fi, UHat and of each XRecons layer are
// X's columns (ColNames of X), and V, Q, Fj, VHat and the YRecons layers
// align with Y's columns the same way.
//
// Hats are related to the core reconstructions by
//
//	hat_k = (recon_k + E) * total
//
// so rescaling commutes with summation: summing hat_k - E*total over the
// retained components gives the cumulative reconstruction times the grand
// total, and the cumulative XHat approaches the raw table at full rank.
// Residuals carry the grand total only (the expectation cancels), so
// XHat + XResid reproduces the raw table exactly.
type PLSCAResult struct {
	*GPLSResult
	XCA, YCA         *CAPreproc
	XHat, YHat       *Table   // cumulative reconstruction, original units
	XHats, YHats     []*Table // per-component reconstruction, original units
	XResid, YResid   *Table   // raw table minus cumulative reconstruction
	XResids, YResids []*Table // residual after the first k components, original units
}

// PLSCACan runs the canonical (deflation) PLS correspondence analysis of
// two nonnegative coded tables sharing their rows
//
// Parameters:
//   - X, Y: coded tables (e.g. complete disjunctive), same observations in rows
//   - components: number of components to retain, 0 for all
//   - tol: singular value truncation threshold, <= 0 for DefaultTol
//
// Each table is CA-preprocessed on its own, and the deviation matrices are
// decomposed with the reciprocals of the masses as metrics. Row and column
// labels of the inputs are reproduced on every returned table.
func PLSCACan(X, Y *Table, components int, tol float64) (*PLSCAResult, error) {
	return plsca(X, Y, components, tol, true)
}

// PLSCACor runs the one-shot (correlation) PLS correspondence analysis of
// two nonnegative coded tables. Parameters are those of PLSCACan.
func PLSCACor(X, Y *Table, components int, tol float64) (*PLSCAResult, error) {
	return plsca(X, Y, components, tol, false)
}

func plsca(X, Y *Table, components int, tol float64, canonical bool) (*PLSCAResult, error) {
	xr, _ := X.Dims()
	yr, _ := Y.Dims()
	if xr != yr {
		return nil, fmt.Errorf("%w: X has %d rows, Y has %d rows", ErrShapeMismatch, xr, yr)
	}

	xca, err := CAPreprocess(X.Data)
	if err != nil {
		return nil, fmt.Errorf("CAPreprocess(X) failed, err=%w", err)
	}
	yca, err := CAPreprocess(Y.Data)
	if err != nil {
		return nil, fmt.Errorf("CAPreprocess(Y) failed, err=%w", err)
	}

	// Reciprocal masses as metrics
	xlw, err := reciprocalDiag(xca.M)
	if err != nil {
		return nil, err
	}
	xrw, err := reciprocalDiag(xca.W)
	if err != nil {
		return nil, err
	}
	ylw, err := reciprocalDiag(yca.M)
	if err != nil {
		return nil, err
	}
	yrw, err := reciprocalDiag(yca.W)
	if err != nil {
		return nil, err
	}

	core := GPLSCan
	if !canonical {
		core = GPLSCor
	}
	res, err := core(xca.Z, yca.Z, xlw, ylw, xrw, yrw, components, tol)
	if err != nil {
		return nil, err
	}

	out := &PLSCAResult{GPLSResult: res, XCA: xca, YCA: yca}
	out.XHats, out.XHat = caRescale(xca, res.XRecons, res.XRecon, X)
	out.YHats, out.YHat = caRescale(yca, res.YRecons, res.YRecon, Y)
	out.XResids, out.XResid = caResidRescale(xca, res.XResiduals, res.XResidual, X)
	out.YResids, out.YResid = caResidRescale(yca, res.YResiduals, res.YResidual, Y)
	return out, nil
}

// caRescale maps deviation-space reconstructions back to raw units by
// adding the independence baseline and multiplying by the grand total,
// stamping the input table's labels on every result.
func caRescale(ca *CAPreproc, recons []*mat.Dense, recon *mat.Dense, t *Table) (hats []*Table, hat *Table) {
	for _, rk := range recons {
		hats = append(hats, t.withData(unitRescale(ca, rk)))
	}
	return hats, t.withData(unitRescale(ca, recon))
}

func unitRescale(ca *CAPreproc, rk *mat.Dense) *mat.Dense {
	r, c := rk.Dims()
	out := mat.NewDense(r, c, nil)
	out.Add(rk, ca.E)
	out.Scale(ca.Total, out)
	return out
}

// caResidRescale maps deviation-space residuals to raw units. The
// independence baseline cancels between X and its reconstruction, so only
// the grand total applies.
func caResidRescale(ca *CAPreproc, resids []*mat.Dense, resid *mat.Dense, t *Table) (outs []*Table, out *Table) {
	for _, rk := range resids {
		outs = append(outs, t.withData(totalRescale(ca, rk)))
	}
	return outs, t.withData(totalRescale(ca, resid))
}

func totalRescale(ca *CAPreproc, rk *mat.Dense) *mat.Dense {
	r, c := rk.Dims()
	out := mat.NewDense(r, c, nil)
	out.Scale(ca.Total, rk)
	return out
}
