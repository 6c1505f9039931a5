package raptorq

import (
	"golang.org/x/xerrors"

	"github.com/qrfec/raptorq/precode"
)

// OTISize is the size of the serialized object transmission information.
const OTISize = 12

// maxTransferLength is the largest encodable transfer length, 2^40-1.
const maxTransferLength = 1<<40 - 1

// defaultAlignment is the symbol alignment used by NewOTI.
const defaultAlignment = 4

// maxBlockSymbols caps the source symbols per block when deriving the
// partitioning. The precode algebra supports blocks up to
// precode.MaxSourceSymbols, but elimination time grows superlinearly with
// the block size, so large transfers are spread over more, smaller blocks.
const maxBlockSymbols = 1024

// ObjectTransmissionInformation describes how an object was partitioned
// into source blocks and encoding symbols. Only the transfer length, the
// symbol size and the alignment are primary; the block structure is
// recomputed from them on demand and can therefore never drift.
//
// The wire format is the 12-byte RaptorQ FEC OTI: transfer length F
// (40 bits), a reserved byte, symbol size T (16 bits), number of source
// blocks Z (8 bits), number of sub-blocks N (16 bits, always 1 here) and
// the alignment Al (8 bits), all big-endian.
type ObjectTransmissionInformation struct {
	transferLength uint64
	symbolSize     uint16
	alignment      uint8
}

// NewOTI derives transmission information for an object of transferLength
// bytes delivered in frames that can carry at most maxPayloadSize bytes of
// symbol data. The symbol size is the largest aligned value not exceeding
// maxPayloadSize, which minimizes the number of symbols and with it the
// padding overhead.
func NewOTI(transferLength uint64, maxPayloadSize uint16) (
	ObjectTransmissionInformation, error,
) {
	var oti ObjectTransmissionInformation
	if transferLength == 0 || transferLength > maxTransferLength {
		return oti, xerrors.Errorf(
			"transfer length %d outside [1, 2^40-1]: %w",
			transferLength, ErrFormat)
	}
	t := maxPayloadSize - maxPayloadSize%defaultAlignment
	if t == 0 {
		return oti, xerrors.Errorf(
			"max payload size %d below alignment %d: %w",
			maxPayloadSize, defaultAlignment, ErrFormat)
	}
	oti = ObjectTransmissionInformation{
		transferLength: transferLength,
		symbolSize:     t,
		alignment:      defaultAlignment,
	}
	if _, err := oti.sourceBlocks(); err != nil {
		return ObjectTransmissionInformation{}, err
	}
	return oti, nil
}

// ParseOTI decodes the 12-byte wire representation. It fails with an
// ErrFormat-wrapping error if the bytes do not describe a decodable object
// or if the recorded block count disagrees with the one derived from the
// transfer length and symbol size.
func ParseOTI(p []byte) (ObjectTransmissionInformation, error) {
	var oti ObjectTransmissionInformation
	if len(p) != OTISize {
		return oti, xerrors.Errorf("OTI has %d bytes; need %d: %w",
			len(p), OTISize, ErrFormat)
	}
	f := be40(p[0:5])
	t := be16(p[6:8])
	z := p[8]
	n := be16(p[9:11])
	al := p[11]

	if f == 0 {
		return oti, xerrors.Errorf("zero transfer length: %w", ErrFormat)
	}
	if p[5] != 0 {
		return oti, xerrors.Errorf("reserved byte is %#02x; must be 0: %w",
			p[5], ErrFormat)
	}
	switch al {
	case 1, 2, 4, 8:
	default:
		return oti, xerrors.Errorf("alignment %d not a supported "+
			"power of two: %w", al, ErrFormat)
	}
	if t == 0 || t%uint16(al) != 0 {
		return oti, xerrors.Errorf("symbol size %d not a positive "+
			"multiple of alignment %d: %w", t, al, ErrFormat)
	}
	if n != 1 {
		return oti, xerrors.Errorf("sub-blocking (N=%d) not "+
			"supported: %w", n, ErrFormat)
	}

	oti = ObjectTransmissionInformation{
		transferLength: f,
		symbolSize:     t,
		alignment:      al,
	}
	derived, err := oti.sourceBlocks()
	if err != nil {
		return ObjectTransmissionInformation{}, err
	}
	if int(z) != derived {
		return ObjectTransmissionInformation{}, xerrors.Errorf(
			"OTI records %d source blocks; partitioning requires "+
				"%d: %w", z, derived, ErrFormat)
	}
	return oti, nil
}

// AppendBinary appends the 12-byte wire representation to p.
func (oti ObjectTransmissionInformation) AppendBinary(p []byte) ([]byte, error) {
	z, err := oti.sourceBlocks()
	if err != nil {
		return nil, err
	}
	var buf [OTISize]byte
	putBE40(buf[0:5], oti.transferLength)
	putBE16(buf[6:8], oti.symbolSize)
	buf[8] = byte(z)
	putBE16(buf[9:11], 1)
	buf[11] = oti.alignment
	return append(p, buf[:]...), nil
}

// MarshalBinary returns the 12-byte wire representation.
func (oti ObjectTransmissionInformation) MarshalBinary() ([]byte, error) {
	return oti.AppendBinary(nil)
}

// TransferLength returns the object length F in bytes.
func (oti ObjectTransmissionInformation) TransferLength() uint64 {
	return oti.transferLength
}

// SymbolSize returns the symbol size T in bytes.
func (oti ObjectTransmissionInformation) SymbolSize() uint16 {
	return oti.symbolSize
}

// Alignment returns the symbol alignment Al in bytes.
func (oti ObjectTransmissionInformation) Alignment() uint8 {
	return oti.alignment
}

// SourceBlocks returns the number of source blocks Z. It panics when called
// on a zero value; only values produced by NewOTI or ParseOTI carry a valid
// partitioning.
func (oti ObjectTransmissionInformation) SourceBlocks() int {
	z, err := oti.sourceBlocks()
	if err != nil {
		panic(err)
	}
	return z
}

// totalSymbols returns Kt, the total number of source symbols.
func (oti ObjectTransmissionInformation) totalSymbols() int {
	t := uint64(oti.symbolSize)
	return int((oti.transferLength + t - 1) / t)
}

// sourceBlocks derives Z from the primary fields.
func (oti ObjectTransmissionInformation) sourceBlocks() (int, error) {
	if oti.symbolSize == 0 {
		return 0, xerrors.Errorf(
			"uninitialized object transmission information: %w",
			ErrFormat)
	}
	kt := oti.totalSymbols()
	z := (kt + maxBlockSymbols - 1) / maxBlockSymbols
	if z > 255 {
		return 0, xerrors.Errorf("transfer of %d symbols needs %d "+
			"source blocks; at most 255 representable: %w",
			kt, z, ErrFormat)
	}
	return z, nil
}

// BlockSymbolCounts returns the number of source symbols K of every block,
// indexed by source block number. Longer blocks come first, per the fixed
// partitioning scheme.
func (oti ObjectTransmissionInformation) BlockSymbolCounts() []int {
	z := oti.SourceBlocks()
	kt := oti.totalSymbols()
	kl, ks, zl, zs := precode.Partition(kt, z)
	counts := make([]int, 0, z)
	for i := 0; i < zl; i++ {
		counts = append(counts, kl)
	}
	for i := 0; i < zs; i++ {
		counts = append(counts, ks)
	}
	return counts
}
