package raptorq

// big-endian field helpers for the OTI header and the FEC payload ID

func be16(p []byte) uint16 {
	_ = p[1]
	return uint16(p[0])<<8 | uint16(p[1])
}

func putBE16(p []byte, u uint16) {
	_ = p[1]
	p[0] = byte(u >> 8)
	p[1] = byte(u)
}

func be24(p []byte) uint32 {
	_ = p[2]
	return uint32(p[0])<<16 | uint32(p[1])<<8 | uint32(p[2])
}

func putBE24(p []byte, u uint32) {
	_ = p[2]
	p[0] = byte(u >> 16)
	p[1] = byte(u >> 8)
	p[2] = byte(u)
}

func be40(p []byte) uint64 {
	_ = p[4]
	return uint64(p[0])<<32 | uint64(p[1])<<24 | uint64(p[2])<<16 |
		uint64(p[3])<<8 | uint64(p[4])
}

func putBE40(p []byte, u uint64) {
	_ = p[4]
	p[0] = byte(u >> 32)
	p[1] = byte(u >> 24)
	p[2] = byte(u >> 16)
	p[3] = byte(u >> 8)
	p[4] = byte(u)
}
