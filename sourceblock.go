package raptorq

import (
	"golang.org/x/xerrors"

	"github.com/qrfec/raptorq/precode"
)

// sourceBlock accumulates the encoding symbols of one source block and
// solves its precode system once enough distinct symbols are buffered.
type sourceBlock struct {
	params   precode.Params
	symLen   int
	received map[uint32][]byte
	solved   bool
	source   [][]byte // the K source symbols, set when solved
}

func newSourceBlock(k, symLen int) (*sourceBlock, error) {
	params, err := precode.NewParams(k)
	if err != nil {
		return nil, xerrors.Errorf("source block with %d symbols: %w",
			k, err)
	}
	return &sourceBlock{
		params:   params,
		symLen:   symLen,
		received: make(map[uint32][]byte),
	}, nil
}

// add buffers one encoding symbol. Duplicates are ignored. Symbols arriving
// after the block solved are dropped; the block keeps only the
// reconstructed sources then.
func (b *sourceBlock) add(esi uint32, data []byte) {
	if b.solved {
		return
	}
	if _, ok := b.received[esi]; ok {
		return
	}
	sym := make([]byte, b.symLen)
	copy(sym, data)
	b.received[esi] = sym
}

// trySolve attempts the precode solve. It reports whether the block is
// solved afterwards. A singular system is not an error; the block simply
// waits for more symbols.
func (b *sourceBlock) trySolve() (bool, error) {
	if b.solved {
		return true, nil
	}
	if len(b.received) < b.params.K {
		return false, nil
	}

	symbols := make([]precode.Symbol, 0, len(b.received))
	for esi, data := range b.received {
		symbols = append(symbols, precode.Symbol{ISI: esi, Data: data})
	}
	intermediate, err := b.params.Solve(symbols, b.symLen)
	if err == precode.ErrInsufficientSymbols {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	// Received source symbols are kept verbatim; only the missing ones
	// are regenerated from the intermediate symbols.
	source := make([][]byte, b.params.K)
	for i := range source {
		if sym, ok := b.received[uint32(i)]; ok {
			source[i] = sym
			continue
		}
		source[i] = b.params.LTGenerate(intermediate, uint32(i))
	}
	b.source = source
	b.solved = true
	b.received = nil
	return true, nil
}
