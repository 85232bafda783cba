// Copyright (c) 2026 diogo-almeida. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.8.15
//

// Package gpls implements generalized partial least squares decompositions
// in the correspondence-analysis family: a generalized SVD with row/column
// metrics, canonical and correlation PLS variants built on it, and the
// PLSCA and RRR/RDA wrappers that move results between raw data units and
// decomposition space.
package gpls

import (
	"errors"
	"math"
)

// Machine epsilon for float64
var Eps = math.Nextafter(1, 2) - 1

// DefaultTol is the truncation threshold applied when a caller passes
// tol <= 0. A component is dropped when its singular value, decided from
// the eigenvalues of the underlying real symmetric problem, does not
// exceed this bound.
var DefaultTol = Eps

var (
	// ErrShapeMismatch reports input matrices whose dimensions disagree
	// with each other or with their metric matrices.
	ErrShapeMismatch = errors.New("matrix shape mismatch")

	// ErrSingularMetric reports a row/column weight matrix that is not
	// invertible. The generalized inner product is undefined for such a
	// metric, so no pseudo-inverse is substituted.
	ErrSingularMetric = errors.New("singular metric matrix")
)
