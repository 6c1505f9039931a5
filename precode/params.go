// Package precode implements the algebraic core of the RaptorQ codec: the
// derivation of the intermediate-symbol structure from the number of source
// symbols, the LT tuple generator, the LDPC/HDPC/LT constraint system and its
// solution by Gaussian elimination with inactivation.
package precode

import (
	"math"

	"golang.org/x/xerrors"
)

// MaxSourceSymbols is the largest supported number of source symbols per
// source block.
const MaxSourceSymbols = 56403

// Params describes the precode structure of a source block with K source
// symbols. All fields are derived deterministically from K.
type Params struct {
	K int // number of source symbols
	S int // number of LDPC constraint rows
	H int // number of HDPC constraint rows
	L int // number of intermediate symbols, K+S+H
	P int // smallest prime >= L, modulus of the LT index walk
	J int // systematic index for K
}

// NewParams derives the precode parameters for a block of k source symbols.
// The systematic index lookup may be expensive on first use for a given k;
// results are cached process-wide.
func NewParams(k int) (Params, error) {
	if k < 1 || k > MaxSourceSymbols {
		return Params{}, xerrors.Errorf(
			"precode: %d source symbols out of range [1, %d]",
			k, MaxSourceSymbols)
	}
	p := structuralParams(k)
	j, err := systematicIndex(p)
	if err != nil {
		return Params{}, err
	}
	p.J = j
	return p, nil
}

// structuralParams computes every field of Params except the systematic
// index.
func structuralParams(k int) Params {
	// X is the smallest positive integer with X*(X-1) >= 2*K.
	x := int(math.Floor(math.Sqrt(2 * float64(k))))
	if x < 1 {
		x = 1
	}
	for x*(x-1) < 2*k {
		x++
	}

	// S is the smallest prime >= ceil(0.01*K) + X.
	s := nextPrime(int(math.Ceil(0.01*float64(k))) + x)

	// H is the smallest integer with choose(H, ceil(H/2)) >= K + S.
	h := int(math.Floor(math.Log(float64(k+s)) / math.Log(4)))
	for centerBinomial(h) < k+s {
		h++
	}

	l := k + s + h
	return Params{K: k, S: s, H: h, L: l, P: nextPrime(l)}
}

// nextPrime returns the smallest prime >= n.
func nextPrime(n int) int {
	if n <= 2 {
		return 2
	}
	for {
		if isPrime(n) {
			return n
		}
		n++
	}
}

func isPrime(n int) bool {
	if n < 2 {
		return false
	}
	if n%2 == 0 {
		return n == 2
	}
	for d := 3; d*d <= n; d += 2 {
		if n%d == 0 {
			return false
		}
	}
	return true
}

// centerBinomial returns choose(h, ceil(h/2)).
func centerBinomial(h int) int {
	if h < 1 {
		return 0
	}
	k := (h + 1) / 2
	c := 1
	for i := 1; i <= k; i++ {
		c = c * (h - k + i) / i
	}
	return c
}

// Partition splits i items into j cells as evenly as possible. It returns
// the two cell sizes il >= is and the number of cells jl, js of each size,
// with jl cells of size il followed by js cells of size is.
func Partition(i, j int) (il, is, jl, js int) {
	il = (i + j - 1) / j
	is = i / j
	jl = i - is*j
	js = j - jl
	return il, is, jl, js
}
