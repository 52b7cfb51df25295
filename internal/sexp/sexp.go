// Package sexp writes canonical S-expressions, the export format for
// serial numbers, key identifiers and signature values.
package sexp

import (
	"strconv"
)

// Builder accumulates a canonical S-expression.
type Builder struct {
	buf   []byte
	depth int
}

// Open starts a list.
func (b *Builder) Open() *Builder {
	b.buf = append(b.buf, '(')
	b.depth++
	return b
}

// Close ends the innermost list.
func (b *Builder) Close() *Builder {
	b.buf = append(b.buf, ')')
	b.depth--
	return b
}

// Atom writes a length prefixed octet string.
func (b *Builder) Atom(v []byte) *Builder {
	b.buf = strconv.AppendInt(b.buf, int64(len(v)), 10)
	b.buf = append(b.buf, ':')
	b.buf = append(b.buf, v...)
	return b
}

// String writes a length prefixed token.
func (b *Builder) String(s string) *Builder {
	return b.Atom([]byte(s))
}

// Bytes returns the expression. It panics when lists are left open.
func (b *Builder) Bytes() []byte {
	if b.depth != 0 {
		panic("sexp: unbalanced lists")
	}
	return b.buf
}

// Number returns the one element list "(N:v)" used for big integers such
// as serial numbers.
func Number(v []byte) []byte {
	var b Builder
	return b.Open().Atom(v).Close().Bytes()
}
