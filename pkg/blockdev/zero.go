package blockdev

import "io"

// zeroesReader is an io.Reader that produces an endless stream of zero
// bytes without allocating for every Read call.
type zeroesReader struct{}

func (rdr *zeroesReader) Read(p []byte) (n int, err error) {
	if len(p) == 0 {
		return 0, nil
	}

	p[0] = 0
	for bp := 1; bp < len(p); bp *= 2 {
		copy(p[bp:], p[:bp])
	}

	return len(p), nil
}

// Zeroes is used by the GPT codec to feed the unused tail of the
// partition entry array into the entries checksum.
var Zeroes = io.Reader(&zeroesReader{})
