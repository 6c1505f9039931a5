package raptorq

import "golang.org/x/xerrors"

// PayloadIDLen is the size of the FEC payload ID that prefixes every frame:
// the source block number in one byte followed by the 24-bit encoding
// symbol ID, big-endian.
const PayloadIDLen = 4

// maxESI is the largest encoding symbol ID representable in the payload ID.
const maxESI = 1<<24 - 1

// PayloadID identifies one encoding symbol within a transfer.
type PayloadID struct {
	SBN uint8  // source block number
	ESI uint32 // encoding symbol ID, 24 bits
}

// ParsePayloadID reads the payload ID prefix of a frame.
func ParsePayloadID(p []byte) (PayloadID, error) {
	if len(p) < PayloadIDLen {
		return PayloadID{}, xerrors.Errorf(
			"frame of %d bytes shorter than the %d-byte payload "+
				"ID: %w", len(p), PayloadIDLen, ErrMalformedSymbol)
	}
	return PayloadID{SBN: p[0], ESI: be24(p[1:4])}, nil
}

// AppendBinary appends the 4-byte payload ID to p.
func (id PayloadID) AppendBinary(p []byte) ([]byte, error) {
	if id.ESI > maxESI {
		return nil, xerrors.Errorf("ESI %d exceeds 24 bits: %w",
			id.ESI, ErrMalformedSymbol)
	}
	var buf [PayloadIDLen]byte
	buf[0] = id.SBN
	putBE24(buf[1:4], id.ESI)
	return append(p, buf[:]...), nil
}
