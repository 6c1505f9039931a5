package raptorq_test

import (
	"fmt"
	"log"

	"github.com/qrfec/raptorq"
)

func ExampleDecoder() {
	data := []byte("The quick brown fox jumps over the lazy dog.")

	enc, err := raptorq.NewEncoder(data, 16)
	if err != nil {
		log.Fatalf("raptorq.NewEncoder error %s", err)
	}
	frames, err := enc.Frames(0)
	if err != nil {
		log.Fatalf("enc.Frames error %s", err)
	}

	dec, err := raptorq.NewDecoder(enc.OTI())
	if err != nil {
		log.Fatalf("raptorq.NewDecoder error %s", err)
	}
	for _, frame := range frames {
		if _, err = dec.PushFrame(frame); err != nil {
			log.Fatalf("dec.PushFrame error %s", err)
		}
	}
	decoded, err := dec.TakeResult()
	if err != nil {
		log.Fatalf("dec.TakeResult error %s", err)
	}
	fmt.Printf("%s\n", decoded)
	// Output:
	// The quick brown fox jumps over the lazy dog.
}
