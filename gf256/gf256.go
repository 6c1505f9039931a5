// Package gf256 implements arithmetic over the Galois field GF(2^8) with the
// reduction polynomial x^8+x^4+x^3+x^2+1 (0x11d). Multiplication and division
// use precomputed log/exp tables that are built once at package
// initialization and shared read-only by all users.
package gf256

// Generator polynomial for the field. The same polynomial is used by the
// RaptorQ octet arithmetic.
const poly = 0x11d

var (
	// expTable[i] = alpha^i; doubled so products of two logs need no
	// modulo reduction.
	expTable [510]byte
	logTable [256]byte
)

func init() {
	x := 1
	for i := 0; i < 255; i++ {
		expTable[i] = byte(x)
		expTable[i+255] = byte(x)
		logTable[x] = byte(i)
		x <<= 1
		if x&0x100 != 0 {
			x ^= poly
		}
	}
}

// Exp returns alpha^i for a non-negative exponent.
func Exp(i int) byte {
	return expTable[i%255]
}

// Add returns the sum of a and b. Addition and subtraction coincide in a
// field of characteristic 2.
func Add(a, b byte) byte {
	return a ^ b
}

// Mul returns the product of a and b.
func Mul(a, b byte) byte {
	if a == 0 || b == 0 {
		return 0
	}
	return expTable[int(logTable[a])+int(logTable[b])]
}

// Div returns a/b. Division by zero panics as it would for integers.
func Div(a, b byte) byte {
	if b == 0 {
		panic("gf256: division by zero")
	}
	if a == 0 {
		return 0
	}
	return expTable[int(logTable[a])+255-int(logTable[b])]
}

// Inv returns the multiplicative inverse of a.
func Inv(a byte) byte {
	if a == 0 {
		panic("gf256: zero has no inverse")
	}
	return expTable[255-int(logTable[a])]
}

// AddVec adds src into dst element-wise. The slices must have equal length.
func AddVec(dst, src []byte) {
	for i, s := range src {
		dst[i] ^= s
	}
}

// MulAddVec adds c*src into dst element-wise. The slices must have equal
// length. c == 0 leaves dst unchanged and c == 1 reduces to AddVec.
func MulAddVec(dst, src []byte, c byte) {
	switch c {
	case 0:
		return
	case 1:
		AddVec(dst, src)
		return
	}
	logC := int(logTable[c])
	for i, s := range src {
		if s != 0 {
			dst[i] ^= expTable[logC+int(logTable[s])]
		}
	}
}

// MulVec multiplies every element of p by c in place.
func MulVec(p []byte, c byte) {
	if c == 1 {
		return
	}
	if c == 0 {
		for i := range p {
			p[i] = 0
		}
		return
	}
	logC := int(logTable[c])
	for i, s := range p {
		if s != 0 {
			p[i] = expTable[logC+int(logTable[s])]
		}
	}
}
