package raptorq

import "errors"

// Errors reported by the package. Per-symbol conditions wrap
// ErrMalformedSymbol with the offending identifiers; use errors.Is to test.
var (
	// ErrFormat indicates object transmission information that does not
	// describe a decodable object: malformed OTI bytes or a parameter
	// combination outside the supported range.
	ErrFormat = errors.New("raptorq: invalid object transmission information")

	// ErrNotReady indicates that TakeResult was called before the
	// object completed. The caller should continue pushing symbols.
	ErrNotReady = errors.New("raptorq: object not fully decoded")

	// ErrAlreadyTaken indicates a second call to TakeResult.
	ErrAlreadyTaken = errors.New("raptorq: result already taken")

	// ErrMalformedSymbol indicates a pushed symbol with the wrong
	// payload length or out-of-range block number or encoding symbol
	// ID. The symbol is rejected; the decoder state is unaffected.
	ErrMalformedSymbol = errors.New("raptorq: malformed symbol")
)
