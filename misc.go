// Copyright (c) 2026 diogo-almeida. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.8.28
//

package gpls

import (
	"fmt"
	"math"
	"os"

	"gonum.org/v1/gonum/mat"
)

// ------------------------------------
// Mini functions
// ------------------------------------

func SQ(x float64) float64 {
	return x * x
}

func colNorm(A *mat.Dense, k int) float64 {
	return mat.Norm(A.ColView(k), 2)
}

func scaleCol(A *mat.Dense, k int, f float64) {
	r, _ := A.Dims()
	for i := 0; i < r; i++ {
		A.Set(i, k, A.At(i, k)*f)
	}
}

// Number of components actually extracted: 0 requests the full set,
// anything larger than the available count is clamped
func numComp(requested, available int) int {
	if requested <= 0 || requested > available {
		return available
	}
	return requested
}

// Diagonal metric with entries 1/v. Entries of v must be strictly positive
func reciprocalDiag(v []float64) (*mat.DiagDense, error) {
	d := make([]float64, len(v))
	for i, x := range v {
		if x <= 0 || math.IsNaN(x) {
			return nil, fmt.Errorf("%w: mass %d is %g, want > 0", ErrSingularMetric, i, x)
		}
		d[i] = 1 / x
	}
	return mat.NewDiagDense(len(d), d), nil
}

// ------------------------------------
// Debug print function
// ------------------------------------

func PrintMat(X mat.Matrix) {
	r, c := X.Dims()
	fmt.Fprintf(os.Stderr, "(%d x %d)\n", r, c)
	fa := mat.Formatted(X, mat.Prefix(""), mat.Squeeze())
	fmt.Fprintf(os.Stderr, "%v\n", fa)
}

func PrintA(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format, a...)
}

func PrintAIf(cond bool, format string, a ...any) {
	if cond {
		PrintA(format, a...)
	}
}

// Debug display level
var DBG_ int

// Debug display
func PrintD(v int, format string, a ...any) {
	PrintAIf(DBG_ >= v, format, a...)
}

func PrintE(err error) {
	fmt.Fprintf(os.Stderr, "err=%s\n", err.Error())
}
