// Copyright (c) 2026 diogo-almeida. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.8.21
//

package gpls

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

//-------------------------------------------------------------------
// Correspondence-analysis preprocessing
//-------------------------------------------------------------------

// CAPreproc is the correspondence-analysis preprocessing of a nonnegative
// table, the exact contract the generalized decompositions consume.
// Everything is on the proportion scale: Z and E have the shape of the
// input, the masses are strictly positive and each sums to 1.
type CAPreproc struct {
	Z     *mat.Dense // deviations from independence, O - E
	M     []float64  // row masses
	W     []float64  // column masses
	E     *mat.Dense // expected proportions under independence, m w^t
	Total float64    // grand total of the raw table
}

// CAPreprocess converts a raw coded table (counts or any nonnegative
// entries) into its deviations-from-independence form. Every row and
// every column must have positive mass, otherwise the reciprocal-mass
// metrics of the PLSCA decompositions would be undefined and the call
// fails with ErrSingularMetric.
func CAPreprocess(X mat.Matrix) (*CAPreproc, error) {
	r, c := X.Dims()
	total := 0.0
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v := X.At(i, j)
			if v < 0 {
				return nil, fmt.Errorf("negative entry %g at (%d, %d)", v, i, j)
			}
			total += v
		}
	}
	if total <= 0 {
		return nil, fmt.Errorf("%w: table sums to %g", ErrSingularMetric, total)
	}

	// Observed proportions and their margins
	O := mat.NewDense(r, c, nil)
	O.Scale(1/total, X)
	m := make([]float64, r)
	w := make([]float64, c)
	row := make([]float64, c)
	for i := 0; i < r; i++ {
		mat.Row(row, i, O)
		m[i] = floats.Sum(row)
		floats.Add(w, row)
	}
	for i, v := range m {
		if v <= 0 {
			return nil, fmt.Errorf("%w: row %d has zero mass", ErrSingularMetric, i)
		}
	}
	for j, v := range w {
		if v <= 0 {
			return nil, fmt.Errorf("%w: column %d has zero mass", ErrSingularMetric, j)
		}
	}

	E := mat.NewDense(r, c, nil)
	E.Outer(1, mat.NewVecDense(r, m), mat.NewVecDense(c, w))
	Z := mat.NewDense(r, c, nil)
	Z.Sub(O, E)
	return &CAPreproc{Z: Z, M: m, W: w, E: E, Total: total}, nil
}
