package precode

import (
	"reflect"
	"testing"
)

func TestTupleDeterministic(t *testing.T) {
	p := structuralParams(13)
	p.J = 3
	for x := uint32(0); x < 64; x++ {
		d1, a1, b1 := p.Tuple(x)
		d2, a2, b2 := p.Tuple(x)
		if d1 != d2 || a1 != a2 || b1 != b2 {
			t.Fatalf("Tuple(%d) not deterministic", x)
		}
		if d1 < 1 || d1 > 40 {
			t.Fatalf("Tuple(%d) degree %d outside [1, 40]", x, d1)
		}
		if a1 < 1 || a1 >= uint32(p.P) {
			t.Fatalf("Tuple(%d) a=%d outside [1, P)", x, a1)
		}
		if b1 >= uint32(p.P) {
			t.Fatalf("Tuple(%d) b=%d outside [0, P)", x, b1)
		}
	}
}

func TestLTIndicesValid(t *testing.T) {
	p := structuralParams(20)
	p.J = 0
	for x := uint32(0); x < 200; x++ {
		indices := p.LTIndices(x)
		if len(indices) == 0 {
			t.Fatalf("LTIndices(%d) empty", x)
		}
		for i, idx := range indices {
			if idx < 0 || idx >= p.L {
				t.Fatalf("LTIndices(%d)[%d] = %d outside [0, L=%d)",
					x, i, idx, p.L)
			}
			if i > 0 && indices[i-1] >= idx {
				t.Fatalf("LTIndices(%d) not strictly ascending: %v",
					x, indices)
			}
		}
	}
}

func TestLTIndicesRepeatable(t *testing.T) {
	p := structuralParams(8)
	p.J = 5
	for x := uint32(0); x < 50; x++ {
		if !reflect.DeepEqual(p.LTIndices(x), p.LTIndices(x)) {
			t.Fatalf("LTIndices(%d) differs between calls", x)
		}
	}
}

func TestDegDistributionBounds(t *testing.T) {
	if d := deg(0); d != 1 {
		t.Fatalf("deg(0) = %d; want 1", d)
	}
	if d := deg(1<<20 - 1); d != 40 {
		t.Fatalf("deg(2^20-1) = %d; want 40", d)
	}
	last := 0
	for _, v := range []uint32{0, 10240, 10241, 491581, 491582, 1032189} {
		d := deg(v)
		if d < last {
			t.Fatalf("deg not monotone at v=%d", v)
		}
		last = d
	}
}

func TestHdpcCoeffNonZero(t *testing.T) {
	for j := 0; j < 16; j++ {
		for i := 0; i < 512; i++ {
			if hdpcCoeff(j, i) == 0 {
				t.Fatalf("hdpcCoeff(%d, %d) = 0", j, i)
			}
		}
	}
}
