package raptorq

import "golang.org/x/xerrors"

// Decoder is the decoding context for one object transfer. It buffers
// encoding symbols per source block, solves each block as soon as the
// received symbols permit and assembles the object once every block is
// solved.
//
// A Decoder is not safe for concurrent use; callers must serialize access
// to a single Decoder. Distinct Decoders are fully independent.
type Decoder struct {
	oti       ObjectTransmissionInformation
	blocks    []*sourceBlock
	unsolved  int
	complete  bool
	result    []byte
	taken     bool
	discarded bool
}

// NewDecoder creates a decoding context for the given transmission
// information.
func NewDecoder(oti ObjectTransmissionInformation) (*Decoder, error) {
	counts := oti.BlockSymbolCounts()
	blocks := make([]*sourceBlock, len(counts))
	for i, k := range counts {
		b, err := newSourceBlock(k, int(oti.symbolSize))
		if err != nil {
			return nil, err
		}
		blocks[i] = b
	}
	return &Decoder{
		oti:      oti,
		blocks:   blocks,
		unsolved: len(blocks),
	}, nil
}

// NewDecoderFromOTI creates a decoding context from the serialized 12-byte
// object transmission information, typically taken from the first frame of
// a transfer.
func NewDecoderFromOTI(oti []byte) (*Decoder, error) {
	parsed, err := ParseOTI(oti)
	if err != nil {
		return nil, err
	}
	return NewDecoder(parsed)
}

// NewDecoderForTransfer creates a decoding context when transfer length and
// frame capacity are known out of band, deriving the same parameters the
// sender derives.
func NewDecoderForTransfer(transferLength uint64, maxPayloadSize uint16) (
	*Decoder, error,
) {
	oti, err := NewOTI(transferLength, maxPayloadSize)
	if err != nil {
		return nil, err
	}
	return NewDecoder(oti)
}

// OTI returns the transmission information of the transfer.
func (d *Decoder) OTI() ObjectTransmissionInformation { return d.oti }

// PushFrame ingests one frame consisting of the 4-byte payload ID followed
// by the symbol data. It reports whether this call completed the object.
func (d *Decoder) PushFrame(frame []byte) (complete bool, err error) {
	if d.complete || d.discarded {
		return false, nil
	}
	id, err := ParsePayloadID(frame)
	if err != nil {
		return false, err
	}
	return d.Push(id.SBN, id.ESI, frame[PayloadIDLen:])
}

// Push ingests one encoding symbol identified out of band. It returns true
// exactly when this call causes the whole object to become decoded; pushes
// after completion are accepted and ignored. A malformed symbol is rejected
// with an error wrapping ErrMalformedSymbol and leaves the decoder
// unchanged.
func (d *Decoder) Push(sbn uint8, esi uint32, symbol []byte) (
	complete bool, err error,
) {
	if d.complete || d.discarded {
		// excess symbols after completion are ignored
		return false, nil
	}
	if len(symbol) != int(d.oti.symbolSize) {
		return false, xerrors.Errorf(
			"symbol (%d, %d) has %d bytes; symbol size is %d: %w",
			sbn, esi, len(symbol), d.oti.symbolSize,
			ErrMalformedSymbol)
	}
	if int(sbn) >= len(d.blocks) {
		return false, xerrors.Errorf(
			"source block %d out of range [0, %d): %w",
			sbn, len(d.blocks), ErrMalformedSymbol)
	}
	if esi > maxESI {
		return false, xerrors.Errorf(
			"ESI %d exceeds 24 bits: %w", esi, ErrMalformedSymbol)
	}

	b := d.blocks[sbn]
	wasSolved := b.solved
	b.add(esi, symbol)
	solved, err := b.trySolve()
	if err != nil {
		return false, err
	}
	if solved && !wasSolved {
		d.unsolved--
		if d.unsolved == 0 {
			d.assemble()
			return true, nil
		}
	}
	return false, nil
}

// Complete reports whether every source block has been solved. It is
// side-effect free and stays true once reached, also after the result has
// been taken.
func (d *Decoder) Complete() bool { return d.complete }

// assemble concatenates the source symbols of all blocks in block order and
// truncates the buffer to the transfer length, dropping the padding of the
// final symbol.
func (d *Decoder) assemble() {
	buf := make([]byte, 0, len(d.blocks)*len(d.blocks[0].source)*
		int(d.oti.symbolSize))
	for _, b := range d.blocks {
		for _, sym := range b.source {
			buf = append(buf, sym...)
		}
	}
	d.result = buf[:d.oti.transferLength]
	d.complete = true
	d.blocks = nil
}

// TakeResult moves the reconstructed object out of the decoder. It fails
// with ErrNotReady while blocks are outstanding and with ErrAlreadyTaken on
// any call after a successful one.
func (d *Decoder) TakeResult() ([]byte, error) {
	if d.taken {
		return nil, ErrAlreadyTaken
	}
	if !d.complete || d.result == nil {
		return nil, ErrNotReady
	}
	result := d.result
	d.result = nil
	d.taken = true
	return result, nil
}

// Discard releases all block state and any untaken result. It is idempotent
// and callable in every state; a discarded decoder ignores further pushes.
func (d *Decoder) Discard() {
	d.blocks = nil
	d.result = nil
	d.discarded = true
}
