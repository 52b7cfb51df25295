package crl

import (
	"io"
)

// DefaultHashBufferSize is the size of the block handed to the hash sink.
const DefaultHashBufferSize = 8192

// hashBuffer collects the to-be-signed octets and passes them to the sink
// in blocks of exactly len(buf) octets. The remainder goes out on flush.
type hashBuffer struct {
	sink io.Writer
	buf  []byte
	used int
	err  error
}

func newHashBuffer(size int) hashBuffer {
	if size <= 0 {
		size = DefaultHashBufferSize
	}
	return hashBuffer{buf: make([]byte, size)}
}

func (h *hashBuffer) feed(p []byte) {
	if h.sink == nil {
		return
	}
	for len(p) > 0 {
		n := copy(h.buf[h.used:], p)
		h.used += n
		p = p[n:]
		if h.used == len(h.buf) {
			h.write(h.buf)
			h.used = 0
		}
	}
}

func (h *hashBuffer) flush() {
	if h.sink == nil || h.used == 0 {
		return
	}
	h.write(h.buf[:h.used])
	h.used = 0
}

// write keeps the first sink error; later blocks are dropped.
func (h *hashBuffer) write(p []byte) {
	if h.err != nil {
		return
	}
	if _, err := h.sink.Write(p); err != nil {
		h.err = err
	}
}
