package precode

import "sort"

// The tuple generator maps an encoding symbol identifier X to the degree and
// index-walk parameters (d, a, b) of its LT row. It is a pure function of X
// and the block parameters, so encoder and decoder derive identical rows.

// Random tables for the rnd function, 256 uint32 entries each. They are
// filled once at package initialization from a fixed-seed SplitMix64
// sequence, giving identical values on every platform and in every process.
var v0Table, v1Table, hdpcTable [256]uint32

func init() {
	s := splitmix64{seed: 0x9e3779b97f4a7c15}
	for i := range v0Table {
		v0Table[i] = uint32(s.next())
	}
	for i := range v1Table {
		v1Table[i] = uint32(s.next())
	}
	for i := range hdpcTable {
		hdpcTable[i] = uint32(s.next())
	}
}

// splitmix64 is the SplitMix64 generator. It is used only to derive the
// read-only tables above.
type splitmix64 struct {
	seed uint64
}

func (s *splitmix64) next() uint64 {
	s.seed += 0x9e3779b97f4a7c15
	z := s.seed
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

// rnd produces a pseudo-random value in [0, m) from the seed y and the
// distinct-stream index i.
func rnd(y, i, m uint32) uint32 {
	v0 := v0Table[(y+i)%256]
	v1 := v1Table[((y>>8)+i)%256]
	return (v0 ^ v1) % m
}

// Degree distribution of the LT rows. f is the cumulative distribution over
// 2^20; d the matching degrees.
var (
	degreeCDF = [...]uint32{0, 10241, 491582, 712794, 831695, 948446,
		1032189, 1048576}
	degrees = [...]int{0, 1, 2, 3, 4, 10, 11, 40}
)

// deg returns the row degree for a sample v in [0, 2^20).
func deg(v uint32) int {
	for j := 1; j < len(degreeCDF)-1; j++ {
		if v < degreeCDF[j] {
			return degrees[j]
		}
	}
	return degrees[len(degrees)-1]
}

// Tuple returns the LT tuple (d, a, b) for encoding symbol identifier x.
func (p Params) Tuple(x uint32) (d int, a, b uint32) {
	const q = 65521 // largest prime < 2^16
	jk := uint64(p.J)

	a64 := (53591 + jk*997) % q
	b64 := (10267 * (jk + 1)) % q
	y := uint32((b64 + uint64(x)*a64) % q)

	v := rnd(y, 0, 1<<20)
	d = deg(v)
	a = 1 + rnd(y, 1, uint32(p.P-1))
	b = rnd(y, 2, uint32(p.P))
	return d, a, b
}

// LTIndices returns the sorted intermediate-symbol indices that make up the
// LT row for encoding symbol identifier x.
func (p Params) LTIndices(x uint32) []int {
	d, a, b := p.Tuple(x)
	if d > p.L {
		d = p.L
	}

	indices := make([]int, 0, d)
	for b >= uint32(p.L) {
		b = (b + a) % uint32(p.P)
	}
	indices = append(indices, int(b))
	for j := 1; j < d; j++ {
		b = (b + a) % uint32(p.P)
		for b >= uint32(p.L) {
			b = (b + a) % uint32(p.P)
		}
		indices = append(indices, int(b))
	}

	sort.Ints(indices)
	return indices
}

// hdpcCoeff returns the GF(256) coefficient of the HDPC row j at column i.
// Coefficients are dense and pseudo-random; zero values are mapped away so
// every column participates in every HDPC row.
func hdpcCoeff(j, i int) byte {
	v := hdpcTable[(uint32(i)*31+uint32(j)*131)%256]
	v ^= v >> 16
	v = (v ^ uint32(i)*0x45d9f3b ^ uint32(j)*0x119de1f3) * 0x2545f491
	c := byte(v >> 24)
	if c == 0 {
		c = 1
	}
	return c
}
