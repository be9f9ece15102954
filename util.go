package huf

// bitString renders the size low bits of bits, most significant first.
func bitString(size uint8, bits uint64) string {
	return string(appendBits(make([]byte, 0, size), size, bits))
}

func appendBits(buf []byte, size uint8, bits uint64) []byte {
	for i := size; i > 0; i-- {
		buf = append(buf, '0'+byte(bits>>(i-1)&1))
	}
	return buf
}
