package precode

import "github.com/qrfec/raptorq/gf256"

// The constraint system for a block couples L intermediate symbols through
// three row families: S sparse binary LDPC rows, H dense GF(256) HDPC rows
// and one binary LT row per encoding symbol. Binary rows are stored as
// sorted column-index lists; only the HDPC rows and the inactivated
// submatrix of the solver are dense.

// binRow is a sparse row over GF(2). cols holds the indices of the non-zero
// columns in ascending order; sym is the accumulated symbol value of the
// row's right-hand side.
type binRow struct {
	isi  uint32
	cols []int
	sym  []byte
}

// xor folds another binary row into r: the column sets are combined by
// symmetric difference and the symbol values are added.
func (r *binRow) xor(o *binRow) {
	r.cols = mergeXor(r.cols, o.cols)
	gf256.AddVec(r.sym, o.sym)
}

// mergeXor returns the symmetric difference of two sorted index slices,
// sorted ascending.
func mergeXor(a, b []int) []int {
	m := make([]int, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			m = append(m, a[i])
			i++
		case a[i] > b[j]:
			m = append(m, b[j])
			j++
		default:
			i++
			j++
		}
	}
	m = append(m, a[i:]...)
	m = append(m, b[j:]...)
	return m
}

// denseRow is a row with GF(256) coefficients over all L columns.
type denseRow struct {
	coeff []byte
	sym   []byte
}

// mulAddBin adds c times the binary row o into the dense row.
func (r *denseRow) mulAddBin(o *binRow, c byte) {
	for _, col := range o.cols {
		r.coeff[col] ^= c
	}
	gf256.MulAddVec(r.sym, o.sym, c)
}

// ldpcRows builds the S LDPC constraint rows. Source-symbol column i
// contributes to three rows chosen by a circulant pattern; column K+j
// carries the identity for row j. The right-hand sides are zero symbols.
func (p Params) ldpcRows(symLen int) []*binRow {
	marks := make([][]int, p.S)
	for i := 0; i < p.K; i++ {
		a := 1 + (i/p.S)%(p.S-1)
		b := i % p.S
		marks[b] = append(marks[b], i)
		b = (b + a) % p.S
		marks[b] = append(marks[b], i)
		b = (b + a) % p.S
		marks[b] = append(marks[b], i)
	}

	rows := make([]*binRow, p.S)
	for j := 0; j < p.S; j++ {
		cols := dedupSorted(append(marks[j], p.K+j))
		rows[j] = &binRow{
			isi:  ^uint32(0),
			cols: cols,
			sym:  make([]byte, symLen),
		}
	}
	return rows
}

// dedupSorted sorts cols and removes index pairs: a column appearing twice
// in a GF(2) row cancels out.
func dedupSorted(cols []int) []int {
	// insertion sort; LDPC rows are short
	for i := 1; i < len(cols); i++ {
		for j := i; j > 0 && cols[j] < cols[j-1]; j-- {
			cols[j], cols[j-1] = cols[j-1], cols[j]
		}
	}
	out := cols[:0]
	for i := 0; i < len(cols); {
		j := i
		for j < len(cols) && cols[j] == cols[i] {
			j++
		}
		if (j-i)%2 == 1 {
			out = append(out, cols[i])
		}
		i = j
	}
	return out
}

// hdpcRows builds the H dense HDPC constraint rows. Row j has pseudo-random
// non-zero coefficients on the first K+S columns and the identity on column
// K+S+j. The right-hand sides are zero symbols.
func (p Params) hdpcRows(symLen int) []*denseRow {
	rows := make([]*denseRow, p.H)
	for j := 0; j < p.H; j++ {
		coeff := make([]byte, p.L)
		for i := 0; i < p.K+p.S; i++ {
			coeff[i] = hdpcCoeff(j, i)
		}
		coeff[p.K+p.S+j] = 1
		rows[j] = &denseRow{coeff: coeff, sym: make([]byte, symLen)}
	}
	return rows
}

// ltRow builds the binary LT row for encoding symbol identifier isi with the
// given symbol value.
func (p Params) ltRow(isi uint32, sym []byte) *binRow {
	return &binRow{isi: isi, cols: p.LTIndices(isi), sym: sym}
}
