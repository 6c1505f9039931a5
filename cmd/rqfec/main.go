// Command rqfec encodes files into RaptorQ frame sets and decodes frame
// sets back into files. It exists to exercise the codec over real data; the
// frame files stand in for whatever transport (QR codes, datagrams) carries
// the frames in production.
package main

import "os"

func main() {
	if err := execute(); err != nil {
		os.Exit(1)
	}
}
