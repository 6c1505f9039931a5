package precode

import (
	"sort"

	"golang.org/x/xerrors"

	"github.com/qrfec/raptorq/gf256"
)

// ErrInsufficientSymbols reports that the constraint system of a block is
// not yet solvable: the received symbols are too few or algebraically
// dependent. The condition clears itself when more symbols arrive; it is
// never a property of a single symbol.
var ErrInsufficientSymbols = xerrors.New(
	"precode: not enough independent symbols")

// Symbol is one received encoding symbol of a block, identified by its
// intermediate symbol identifier.
type Symbol struct {
	ISI  uint32
	Data []byte
}

// column states during elimination
const (
	colActive = iota
	colInactivated
	colPivoted
)

// Solve computes the L intermediate symbols of a block from the received
// encoding symbols. The result depends only on the set of received symbols,
// not on their order. If the system has no unique solution,
// ErrInsufficientSymbols is returned and no state is retained.
func (p Params) Solve(received []Symbol, symLen int) ([][]byte, error) {
	// Canonical row order: constraint rows first, then LT rows by
	// ascending ISI. This pins the elimination sequence for any
	// arrival order of the same symbol set.
	recv := make([]Symbol, len(received))
	copy(recv, received)
	sort.Slice(recv, func(i, j int) bool { return recv[i].ISI < recv[j].ISI })

	rows := p.ldpcRows(symLen)
	for _, s := range recv {
		sym := make([]byte, symLen)
		copy(sym, s.Data)
		rows = append(rows, p.ltRow(s.ISI, sym))
	}
	hdpc := p.hdpcRows(symLen)

	e := &elimination{
		p:        p,
		rows:     rows,
		used:     make([]bool, len(rows)),
		hdpc:     hdpc,
		colState: make([]int, p.L),
		deg:      make([]int, len(rows)),
	}
	for i, r := range rows {
		e.deg[i] = len(r.cols)
	}

	e.phase1()
	c, err := e.phase2(symLen)
	if err != nil {
		return nil, err
	}
	e.phase3(c)
	return c, nil
}

// elimination holds the mutable solver state for one Solve call.
type elimination struct {
	p        Params
	rows     []*binRow
	used     []bool
	deg      []int // active degree per row
	hdpc     []*denseRow
	colState []int
	pivRows  []*binRow
	pivCols  []int
}

// phase1 runs the structured XOR-only elimination over the binary rows.
// Rows of active degree one become pivots; when none exists, a column is
// inactivated and deferred to the dense phase.
func (e *elimination) phase1() {
	for {
		best := -1
		for i, r := range e.rows {
			if e.used[i] || e.deg[i] < 1 {
				continue
			}
			if best < 0 || e.deg[i] < e.deg[best] ||
				(e.deg[i] == e.deg[best] &&
					len(r.cols) < len(e.rows[best].cols)) {
				best = i
			}
		}
		if best < 0 {
			return
		}
		if e.deg[best] == 1 {
			e.pivot(best)
		} else {
			e.inactivate(e.rows[best])
		}
	}
}

// pivot consumes row i, eliminating its single active column from every
// other binary row and from the HDPC rows.
func (e *elimination) pivot(i int) {
	r := e.rows[i]
	c := -1
	for _, col := range r.cols {
		if e.colState[col] == colActive {
			c = col
			break
		}
	}

	e.colState[c] = colPivoted
	e.used[i] = true
	e.pivRows = append(e.pivRows, r)
	e.pivCols = append(e.pivCols, c)

	for j, s := range e.rows {
		if e.used[j] || !hasCol(s.cols, c) {
			continue
		}
		s.xor(r)
		e.deg[j] = e.activeCount(s)
	}
	for _, h := range e.hdpc {
		if b := h.coeff[c]; b != 0 {
			h.mulAddBin(r, b)
		}
	}
}

// inactivate defers one active column of the given row to the dense phase.
// Among the row's active columns the one touching the most rows is chosen,
// ties broken by lowest index.
func (e *elimination) inactivate(r *binRow) {
	c, maxOcc := -1, -1
	for _, col := range r.cols {
		if e.colState[col] != colActive {
			continue
		}
		occ := 0
		for j, s := range e.rows {
			if !e.used[j] && hasCol(s.cols, col) {
				occ++
			}
		}
		if occ > maxOcc {
			c, maxOcc = col, occ
		}
	}

	e.colState[c] = colInactivated
	for j, s := range e.rows {
		if !e.used[j] && hasCol(s.cols, c) {
			e.deg[j]--
		}
	}
}

// activeCount returns the number of active columns of a row.
func (e *elimination) activeCount(r *binRow) int {
	n := 0
	for _, col := range r.cols {
		if e.colState[col] == colActive {
			n++
		}
	}
	return n
}

// hasCol reports whether the sorted column list contains c.
func hasCol(cols []int, c int) bool {
	i := sort.SearchInts(cols, c)
	return i < len(cols) && cols[i] == c
}

// phase2 solves the dense residual system over the non-pivoted columns,
// formed by the leftover binary rows and the HDPC rows. It returns the
// partially filled intermediate symbol vector or ErrInsufficientSymbols when
// the submatrix is singular or inconsistent.
func (e *elimination) phase2(symLen int) ([][]byte, error) {
	var uCols []int
	colPos := make(map[int]int)
	for col := 0; col < e.p.L; col++ {
		if e.colState[col] != colPivoted {
			colPos[col] = len(uCols)
			uCols = append(uCols, col)
		}
	}
	u := len(uCols)

	// Assemble the dense arena: every remaining row lives only on the
	// deferred columns.
	var dense []*denseRow
	for i, r := range e.rows {
		if e.used[i] {
			continue
		}
		coeff := make([]byte, u)
		for _, col := range r.cols {
			coeff[colPos[col]] = 1
		}
		dense = append(dense, &denseRow{coeff: coeff, sym: r.sym})
	}
	for _, h := range e.hdpc {
		coeff := make([]byte, u)
		for _, col := range uCols {
			coeff[colPos[col]] = h.coeff[col]
		}
		dense = append(dense, &denseRow{coeff: coeff, sym: h.sym})
	}

	if len(dense) < u {
		return nil, ErrInsufficientSymbols
	}

	// Gauss-Jordan with deterministic pivoting: first row with a
	// non-zero coefficient wins.
	for pos := 0; pos < u; pos++ {
		piv := -1
		for i := pos; i < len(dense); i++ {
			if dense[i].coeff[pos] != 0 {
				piv = i
				break
			}
		}
		if piv < 0 {
			return nil, ErrInsufficientSymbols
		}
		dense[pos], dense[piv] = dense[piv], dense[pos]

		r := dense[pos]
		if b := r.coeff[pos]; b != 1 {
			inv := gf256.Inv(b)
			gf256.MulVec(r.coeff, inv)
			gf256.MulVec(r.sym, inv)
		}
		for i, s := range dense {
			if i == pos || s.coeff[pos] == 0 {
				continue
			}
			b := s.coeff[pos]
			for j := pos; j < u; j++ {
				s.coeff[j] ^= gf256.Mul(b, r.coeff[j])
			}
			gf256.MulAddVec(s.sym, r.sym, b)
		}
	}

	// Surplus rows must have reduced to zero; a non-zero value here
	// means the rows contradict each other.
	for _, s := range dense[u:] {
		for _, b := range s.sym {
			if b != 0 {
				return nil, ErrInsufficientSymbols
			}
		}
	}

	c := make([][]byte, e.p.L)
	for pos, col := range uCols {
		c[col] = dense[pos].sym
	}
	return c, nil
}

// phase3 back-substitutes the dense solution through the phase-1 pivot rows
// in reverse pivot order, completing the intermediate symbol vector.
func (e *elimination) phase3(c [][]byte) {
	for i := len(e.pivRows) - 1; i >= 0; i-- {
		r, col := e.pivRows[i], e.pivCols[i]
		for _, j := range r.cols {
			if j != col {
				gf256.AddVec(r.sym, c[j])
			}
		}
		c[col] = r.sym
	}
}

// LTGenerate produces the encoding symbol with identifier x from the
// intermediate symbols of a solved block.
func (p Params) LTGenerate(intermediate [][]byte, x uint32) []byte {
	sym := make([]byte, len(intermediate[0]))
	for _, i := range p.LTIndices(x) {
		gf256.AddVec(sym, intermediate[i])
	}
	return sym
}
