// Package raptorq implements a RaptorQ forward-error-correction codec for
// object delivery over unreliable, unordered channels such as QR-code frame
// streams or lossy datagrams.
//
// A sender splits an object into source blocks and encoding symbols and may
// generate an unbounded stream of additional repair symbols. A receiver
// creates a Decoder from the 12-byte object transmission information (or
// from the transfer length and frame capacity), pushes every received frame
// into it and takes the reconstructed object once enough symbols, in any
// order and from any mix of source and repair symbols, have arrived.
//
//	d, err := raptorq.NewDecoderFromOTI(otiBytes)
//	...
//	for frame := range frames {
//		done, err := d.PushFrame(frame)
//		...
//		if done {
//			data, err := d.TakeResult()
//			...
//		}
//	}
//
// A Decoder must not be used from multiple goroutines concurrently.
// Distinct decoders are independent and share only immutable tables.
package raptorq
