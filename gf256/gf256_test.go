package gf256

import (
	"bytes"
	"testing"
)

func TestMulDivInverse(t *testing.T) {
	for a := 1; a < 256; a++ {
		for b := 1; b < 256; b++ {
			p := Mul(byte(a), byte(b))
			if p == 0 {
				t.Fatalf("Mul(%d, %d) = 0; nonzero factors", a, b)
			}
			if q := Div(p, byte(b)); q != byte(a) {
				t.Fatalf("Div(Mul(%d, %d), %d) = %d; want %d",
					a, b, b, q, a)
			}
		}
	}
}

func TestMulZeroAndOne(t *testing.T) {
	for a := 0; a < 256; a++ {
		if Mul(byte(a), 0) != 0 || Mul(0, byte(a)) != 0 {
			t.Fatalf("Mul with zero factor %d must be 0", a)
		}
		if Mul(byte(a), 1) != byte(a) {
			t.Fatalf("Mul(%d, 1) = %d; want %d", a, Mul(byte(a), 1), a)
		}
	}
}

func TestInv(t *testing.T) {
	for a := 1; a < 256; a++ {
		if p := Mul(byte(a), Inv(byte(a))); p != 1 {
			t.Fatalf("Mul(%d, Inv(%d)) = %d; want 1", a, a, p)
		}
	}
}

func TestExpGeneratorOrder(t *testing.T) {
	if Exp(0) != 1 {
		t.Fatalf("Exp(0) = %d; want 1", Exp(0))
	}
	if Exp(255) != 1 {
		t.Fatalf("Exp(255) = %d; want 1 (generator order 255)", Exp(255))
	}
	seen := make(map[byte]bool)
	for i := 0; i < 255; i++ {
		x := Exp(i)
		if seen[x] {
			t.Fatalf("Exp(%d) = %d repeats; alpha is no generator", i, x)
		}
		seen[x] = true
	}
}

func TestMulAddVec(t *testing.T) {
	dst := []byte{1, 2, 3, 4}
	src := []byte{5, 6, 7, 8}
	want := make([]byte, 4)
	for i := range want {
		want[i] = dst[i] ^ Mul(src[i], 0x53)
	}
	MulAddVec(dst, src, 0x53)
	if !bytes.Equal(dst, want) {
		t.Fatalf("MulAddVec = %v; want %v", dst, want)
	}

	// c == 0 must be a no-op.
	cp := append([]byte(nil), dst...)
	MulAddVec(dst, src, 0)
	if !bytes.Equal(dst, cp) {
		t.Fatalf("MulAddVec with c=0 changed dst")
	}
}
