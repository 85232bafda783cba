// Copyright (c) 2026 diogo-almeida. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.8.17
//

package gpls

import (
	"fmt"

	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/mat"
)

//-------------------------------------------------------------------
// Table
//-------------------------------------------------------------------

// Table is a dense numeric matrix with optional row and column labels.
// Labels, when present, are carried through every transformation so that
// each axis of a returned matrix matches the corresponding axis of the
// input exactly.
type Table struct {
	Data     *mat.Dense
	RowNames []string // nil or length = number of rows
	ColNames []string // nil or length = number of columns
}

// NewTable wraps data with row/column labels. Either label slice may be
// nil; a non-nil slice must match the corresponding dimension.
func NewTable(data *mat.Dense, rowNames, colNames []string) (*Table, error) {
	r, c := data.Dims()
	if rowNames != nil && len(rowNames) != r {
		return nil, fmt.Errorf("%w: %d row names for %d rows", ErrShapeMismatch, len(rowNames), r)
	}
	if colNames != nil && len(colNames) != c {
		return nil, fmt.Errorf("%w: %d column names for %d columns", ErrShapeMismatch, len(colNames), c)
	}
	return &Table{
		Data:     data,
		RowNames: slices.Clone(rowNames),
		ColNames: slices.Clone(colNames),
	}, nil
}

func (t *Table) Dims() (r, c int) {
	return t.Data.Dims()
}

// Same labels, new data. Used to stamp the input table's labels onto a
// derived matrix of the same shape.
func (t *Table) withData(d *mat.Dense) *Table {
	return &Table{
		Data:     d,
		RowNames: slices.Clone(t.RowNames),
		ColNames: slices.Clone(t.ColNames),
	}
}
