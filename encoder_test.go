package raptorq

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncoderSystematic(t *testing.T) {
	data := testObject(t, 4096, 20)
	e := testEncoder(t, data)

	// ESI < K returns the source symbols verbatim
	for esi := 0; esi < 8; esi++ {
		sym, err := e.Symbol(0, uint32(esi))
		require.NoError(t, err)
		require.Equal(t, data[esi*512:(esi+1)*512], sym,
			"source symbol %d", esi)
	}
}

func TestEncoderPadsTail(t *testing.T) {
	data := testObject(t, 1000, 21)
	e, err := NewEncoder(data, 512)
	require.NoError(t, err)

	sym, err := e.Symbol(0, 1)
	require.NoError(t, err)
	require.Len(t, sym, 512)
	require.Equal(t, data[512:], sym[:488])
	require.Equal(t, make([]byte, 24), sym[488:],
		"tail symbol must be zero-padded")
}

func TestEncoderFrameLayout(t *testing.T) {
	data := testObject(t, 4096, 22)
	e := testEncoder(t, data)

	frame, err := e.Frame(0, 3)
	require.NoError(t, err)
	require.Len(t, frame, PayloadIDLen+512)

	id, err := ParsePayloadID(frame)
	require.NoError(t, err)
	require.Equal(t, PayloadID{SBN: 0, ESI: 3}, id)

	sym, err := e.Symbol(0, 3)
	require.NoError(t, err)
	require.Equal(t, sym, frame[PayloadIDLen:])
}

func TestEncoderFramesCount(t *testing.T) {
	data := testObject(t, 4096, 23)
	e := testEncoder(t, data)

	frames, err := e.Frames(4)
	require.NoError(t, err)
	require.Len(t, frames, 8+4)
}

func TestEncoderSymbolErrors(t *testing.T) {
	data := testObject(t, 4096, 24)
	e := testEncoder(t, data)

	_, err := e.Symbol(1, 0)
	require.ErrorIs(t, err, ErrMalformedSymbol)
	_, err = e.Symbol(0, 1<<24)
	require.ErrorIs(t, err, ErrMalformedSymbol)
}

func TestEncoderRejectsEmptyData(t *testing.T) {
	_, err := NewEncoder(nil, 512)
	require.ErrorIs(t, err, ErrFormat)
}

// TestRoundTripMultiBlock forces a transfer over two source blocks of
// unequal size and recovers it with losses in both: block order, the
// long/short split and the truncation of the padded final symbol all have
// to line up.
func TestRoundTripMultiBlock(t *testing.T) {
	// 1025 symbols of 16 bytes exceed the per-block cap by one symbol,
	// splitting into a 513- and a 512-symbol block. The final symbol
	// carries 5 bytes of padding.
	const size = 1025*16 - 5
	data := testObject(t, size, 31)
	e, err := NewEncoder(data, 16)
	require.NoError(t, err)

	oti := e.OTI()
	require.Equal(t, 2, oti.SourceBlocks())
	counts := oti.BlockSymbolCounts()
	require.Equal(t, []int{513, 512}, counts)

	// lose one source symbol in each block, deliver the rest shuffled
	var frames [][]byte
	for sbn, k := range counts {
		for esi := 0; esi < k; esi++ {
			if esi == 7 {
				continue
			}
			frame, err := e.Frame(uint8(sbn), uint32(esi))
			require.NoError(t, err)
			frames = append(frames, frame)
		}
	}
	rnd := rand.New(rand.NewSource(32))
	rnd.Shuffle(len(frames), func(i, j int) {
		frames[i], frames[j] = frames[j], frames[i]
	})

	d, err := NewDecoder(oti)
	require.NoError(t, err)
	complete := false
	for _, frame := range frames {
		c, err := d.PushFrame(frame)
		require.NoError(t, err)
		complete = complete || c
	}
	require.False(t, complete, "a lost symbol per block must block completion")

	// stream repair symbols, one per block per round, until the object
	// closes
	for round := uint32(0); !complete && round < 32; round++ {
		for sbn := 0; !complete && sbn < len(counts); sbn++ {
			frame, err := e.Frame(uint8(sbn), uint32(counts[sbn])+round)
			require.NoError(t, err)
			c, err := d.PushFrame(frame)
			require.NoError(t, err)
			complete = complete || c
		}
	}
	require.True(t, complete, "not decoded within 32 repair rounds")

	got, err := d.TakeResult()
	require.NoError(t, err)
	require.Len(t, got, size)
	require.Equal(t, data, got)
}

// TestRoundTripLossy simulates the real channel: frames shuffled, some
// source symbols lost, repair symbols streaming in until the object
// completes.
func TestRoundTripLossy(t *testing.T) {
	rnd := rand.New(rand.NewSource(30))
	sizes := []int{1, 100, 1000, 4096, 10000}

	for _, size := range sizes {
		data := testObject(t, size, int64(size))
		e, err := NewEncoder(data, 256)
		require.NoError(t, err)

		oti := e.OTI()
		k := oti.BlockSymbolCounts()[0]

		// drop up to a quarter of the source symbols
		drop := make(map[uint32]bool)
		for len(drop) < k/4 {
			drop[uint32(rnd.Intn(k))] = true
		}

		var frames [][]byte
		for esi := 0; esi < k; esi++ {
			if drop[uint32(esi)] {
				continue
			}
			frame, err := e.Frame(0, uint32(esi))
			require.NoError(t, err)
			frames = append(frames, frame)
		}
		rnd.Shuffle(len(frames), func(i, j int) {
			frames[i], frames[j] = frames[j], frames[i]
		})

		d, err := NewDecoder(oti)
		require.NoError(t, err)
		complete := false
		for _, frame := range frames {
			c, err := d.PushFrame(frame)
			require.NoError(t, err)
			complete = complete || c
		}

		// stream repair symbols until the decoder reports completion
		for esi := uint32(k); !complete && esi < uint32(k+64); esi++ {
			frame, err := e.Frame(0, esi)
			require.NoError(t, err)
			complete, err = d.PushFrame(frame)
			require.NoError(t, err)
		}
		require.True(t, complete,
			"size %d: not decoded within 64 repair symbols", size)

		got, err := d.TakeResult()
		require.NoError(t, err)
		if !bytes.Equal(data, got) {
			t.Fatalf("size %d: decoded object differs", size)
		}
	}
}
