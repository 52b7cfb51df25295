package crl

import (
	"errors"
	"fmt"
	"io"

	"github.com/KilimcininKorOglu/crlkit/internal/ber"
	"github.com/KilimcininKorOglu/crlkit/internal/isotime"
	"github.com/KilimcininKorOglu/crlkit/internal/logging"
)

// DefaultMaxFieldSize bounds every field the parser buffers in memory.
const DefaultMaxFieldSize = 4096

// CRL is the parse context for one certificate revocation list. It is not
// safe for concurrent use.
type CRL struct {
	r        *ber.Reader
	hash     hashBuffer
	logger   logging.Logger
	maxField uint64

	stop StopReason

	headerDone bool
	version    int
	algo       Algorithm
	issuer     Name
	thisUpdate isotime.Time
	nextUpdate isotime.Time

	item       item
	extensions []Extension
	sigVal     *SignatureValue

	st resumeState
}

// resumeState is what Parse needs to continue after returning to the
// caller. ti is the header that was read ahead and not yet consumed.
type resumeState struct {
	ti ber.TagInfo

	outerEnd  int64
	outerNdef bool

	tbsLen  uint64
	tbsNdef bool

	haveSeqSeq bool
	seqSeqLen  uint64
	seqSeqNdef bool
}

type item struct {
	serial         []byte
	revocationDate isotime.Time
	reason         Reason
}

// Option configures a CRL.
type Option func(*CRL)

// WithHashSink sets the writer that receives the to-be-signed octets.
func WithHashSink(w io.Writer) Option {
	return func(c *CRL) {
		c.hash.sink = w
	}
}

// WithLogger sets the logger used for state transitions.
func WithLogger(l logging.Logger) Option {
	return func(c *CRL) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMaxFieldSize overrides DefaultMaxFieldSize.
func WithMaxFieldSize(n int) Option {
	return func(c *CRL) {
		if n > 0 {
			c.maxField = uint64(n)
		}
	}
}

// WithHashBufferSize overrides DefaultHashBufferSize.
func WithHashBufferSize(n int) Option {
	return func(c *CRL) {
		if n > 0 {
			sink := c.hash.sink
			c.hash = newHashBuffer(n)
			c.hash.sink = sink
		}
	}
}

// New creates a parse context reading from r.
func New(r io.Reader, opts ...Option) *CRL {
	c := &CRL{
		r:        ber.NewReader(r),
		hash:     newHashBuffer(DefaultHashBufferSize),
		logger:   logging.NewNop(),
		maxField: DefaultMaxFieldSize,
		stop:     StopNone,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetHashSink replaces the hash sink. It must be called before the first
// Parse call to see every to-be-signed octet.
func (c *CRL) SetHashSink(w io.Writer) {
	c.hash.sink = w
}

// Offset returns the number of octets consumed from the stream.
func (c *CRL) Offset() int64 {
	return c.r.Tell()
}

// readTL reads the next header. Every header is required at this point, so
// a clean end of input is a truncation too.
func (c *CRL) readTL() (ber.TagInfo, error) {
	ti, err := c.r.ReadTagLength()
	if errors.Is(err, io.EOF) {
		return ti, ber.NewDecodeError(int(c.r.Tell()), "unexpected end of CRL", ber.ErrTruncated)
	}
	return ti, err
}

// readValue reads the content of ti, which must be definite and below the
// field ceiling.
func (c *CRL) readValue(ti ber.TagInfo, what string) ([]byte, error) {
	if ti.Indefinite {
		return nil, c.errorf(ber.ErrUnsupportedEncoding, "%s: indefinite length", what)
	}
	if ti.Length > c.maxField {
		return nil, c.errorf(ber.ErrTooLarge, "%s: %d octets", what, ti.Length)
	}
	return c.r.ReadFull(ti.Length)
}

// readImage reads the content of ti and returns header and content together.
func (c *CRL) readImage(ti ber.TagInfo, what string) ([]byte, error) {
	if !ti.Indefinite && ti.TotalLen() > c.maxField {
		return nil, c.errorf(ber.ErrTooLarge, "%s: %d octets", what, ti.TotalLen())
	}
	value, err := c.readValue(ti, what)
	if err != nil {
		return nil, err
	}
	image := make([]byte, 0, ti.HeaderLen()+len(value))
	image = append(image, ti.Header...)
	return append(image, value...), nil
}

// take subtracts n from a definite remaining length.
func (c *CRL) take(remaining *uint64, ndef bool, n uint64, what string) error {
	if ndef {
		return nil
	}
	if *remaining < n {
		return c.errorf(ber.ErrBadEncoding, "%s exceeds its container", what)
	}
	*remaining -= n
	return nil
}

// takeOuter checks that n octets from the current position still fit into
// a definite CertificateList.
func (c *CRL) takeOuter(n uint64, what string) error {
	if c.st.outerNdef {
		return nil
	}
	left := c.st.outerEnd - c.r.Tell()
	if left < 0 || n > uint64(left) {
		return c.errorf(ber.ErrBadEncoding, "%s exceeds its container", what)
	}
	return nil
}

func (c *CRL) takeTBS(n uint64, what string) error {
	return c.take(&c.st.tbsLen, c.st.tbsNdef, n, what)
}

// takeEntries accounts octets inside revokedCertificates. An indefinite
// list is accounted against the enclosing tbsCertList instead.
func (c *CRL) takeEntries(n uint64, what string) error {
	if c.st.seqSeqNdef {
		return c.takeTBS(n, what)
	}
	return c.take(&c.st.seqSeqLen, false, n, what)
}

func (c *CRL) errorf(sentinel error, format string, args ...interface{}) error {
	return ber.NewDecodeError(int(c.r.Tell()), fmt.Sprintf(format, args...), sentinel)
}

func (c *CRL) expect(ti ber.TagInfo, class int, tag uint32, constructed bool, what string) error {
	if !ti.Is(class, tag, constructed) {
		return c.errorf(ber.ErrInvalidObject, "%s: unexpected tag class=%#x number=%d constructed=%t",
			what, ti.Class, ti.Tag, ti.Constructed)
	}
	return nil
}
