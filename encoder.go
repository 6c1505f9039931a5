package raptorq

import (
	"golang.org/x/xerrors"

	"github.com/qrfec/raptorq/precode"
)

// Encoder produces the encoding symbols of one object: the systematic
// source symbols with ESI < K and an unbounded stream of repair symbols
// with ESI >= K per source block.
//
// An Encoder is immutable after construction and safe for concurrent use.
type Encoder struct {
	oti    ObjectTransmissionInformation
	blocks []*encoderBlock
}

type encoderBlock struct {
	params       precode.Params
	source       [][]byte
	intermediate [][]byte
}

// NewEncoder prepares an encoder for data, delivered in frames that can
// carry at most maxPayloadSize bytes of symbol data. The final symbol is
// zero-padded to the symbol size.
func NewEncoder(data []byte, maxPayloadSize uint16) (*Encoder, error) {
	oti, err := NewOTI(uint64(len(data)), maxPayloadSize)
	if err != nil {
		return nil, err
	}
	symLen := int(oti.symbolSize)

	// cut the object into Kt symbols, padding the tail
	kt := oti.totalSymbols()
	symbols := make([][]byte, kt)
	for i := range symbols {
		sym := make([]byte, symLen)
		copy(sym, data[i*symLen:])
		symbols[i] = sym
	}

	var blocks []*encoderBlock
	next := 0
	for _, k := range oti.BlockSymbolCounts() {
		source := symbols[next : next+k]
		next += k

		params, err := precode.NewParams(k)
		if err != nil {
			return nil, err
		}
		rows := make([]precode.Symbol, k)
		for i, sym := range source {
			rows[i] = precode.Symbol{ISI: uint32(i), Data: sym}
		}
		intermediate, err := params.Solve(rows, symLen)
		if err != nil {
			// the systematic index guarantees solvability
			return nil, xerrors.Errorf(
				"precoding a block of %d symbols: %w", k, err)
		}
		blocks = append(blocks, &encoderBlock{
			params:       params,
			source:       source,
			intermediate: intermediate,
		})
	}
	return &Encoder{oti: oti, blocks: blocks}, nil
}

// OTI returns the transmission information a receiver needs to decode.
func (e *Encoder) OTI() ObjectTransmissionInformation { return e.oti }

// Symbol returns the payload of the encoding symbol (sbn, esi): a source
// symbol for esi below the block's symbol count, a repair symbol otherwise.
func (e *Encoder) Symbol(sbn uint8, esi uint32) ([]byte, error) {
	if int(sbn) >= len(e.blocks) {
		return nil, xerrors.Errorf("source block %d out of range "+
			"[0, %d): %w", sbn, len(e.blocks), ErrMalformedSymbol)
	}
	if esi > maxESI {
		return nil, xerrors.Errorf("ESI %d exceeds 24 bits: %w",
			esi, ErrMalformedSymbol)
	}
	b := e.blocks[sbn]
	if esi < uint32(b.params.K) {
		sym := make([]byte, len(b.source[esi]))
		copy(sym, b.source[esi])
		return sym, nil
	}
	return b.params.LTGenerate(b.intermediate, esi), nil
}

// Frame returns the complete frame for (sbn, esi): the payload ID prefix
// followed by the symbol data, ready for Decoder.PushFrame.
func (e *Encoder) Frame(sbn uint8, esi uint32) ([]byte, error) {
	sym, err := e.Symbol(sbn, esi)
	if err != nil {
		return nil, err
	}
	frame, err := PayloadID{SBN: sbn, ESI: esi}.AppendBinary(
		make([]byte, 0, PayloadIDLen+len(sym)))
	if err != nil {
		return nil, err
	}
	return append(frame, sym...), nil
}

// Frames returns the frames of all source symbols plus repairPerBlock
// repair symbols for every source block, in block order.
func (e *Encoder) Frames(repairPerBlock int) ([][]byte, error) {
	var frames [][]byte
	for sbn, b := range e.blocks {
		n := b.params.K + repairPerBlock
		for esi := 0; esi < n; esi++ {
			frame, err := e.Frame(uint8(sbn), uint32(esi))
			if err != nil {
				return nil, err
			}
			frames = append(frames, frame)
		}
	}
	return frames, nil
}
