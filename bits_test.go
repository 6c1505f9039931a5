package raptorq

import "testing"

func TestBE16(t *testing.T) {
	p := make([]byte, 2)
	putBE16(p, 0xbeef)
	if p[0] != 0xbe || p[1] != 0xef {
		t.Fatalf("putBE16 wrote % x", p)
	}
	if u := be16(p); u != 0xbeef {
		t.Fatalf("be16 = %#x; want 0xbeef", u)
	}
}

func TestBE24(t *testing.T) {
	p := make([]byte, 3)
	putBE24(p, 0xabcdef)
	if u := be24(p); u != 0xabcdef {
		t.Fatalf("be24 = %#x; want 0xabcdef", u)
	}
}

func TestBE40(t *testing.T) {
	p := make([]byte, 5)
	const v = uint64(1)<<40 - 1
	putBE40(p, v)
	for i, b := range p {
		if b != 0xff {
			t.Fatalf("putBE40 byte %d = %#x; want 0xff", i, b)
		}
	}
	if u := be40(p); u != v {
		t.Fatalf("be40 = %#x; want %#x", u, v)
	}
	putBE40(p, 0x0102030405)
	if u := be40(p); u != 0x0102030405 {
		t.Fatalf("be40 = %#x; want 0x0102030405", u)
	}
}
