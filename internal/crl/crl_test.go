package crl

import (
	"bytes"
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/cryptobyte"
	"golang.org/x/crypto/cryptobyte/asn1"

	"github.com/KilimcininKorOglu/crlkit/internal/ber"
	"github.com/KilimcininKorOglu/crlkit/internal/der"
	"github.com/KilimcininKorOglu/crlkit/internal/isotime"
)

// run drives the parser to StopReady and collects stop reasons and items.
func run(t *testing.T, data []byte, opts ...Option) (*CRL, []StopReason, []Item, error) {
	t.Helper()
	c := New(bytes.NewReader(data), opts...)

	var stops []StopReason
	var items []Item
	stop := StopNone
	for stop != StopReady {
		next, err := c.Parse(stop)
		if err != nil {
			return c, stops, items, err
		}
		stops = append(stops, next)
		if next == StopGotItem {
			it, err := c.Item()
			require.NoError(t, err)
			items = append(items, it)
		}
		stop = next
	}
	return c, stops, items, nil
}

func TestMinimalCRL(t *testing.T) {
	spec := defaultCRL()
	spec.version = 1
	data, _ := spec.build()
	c := New(bytes.NewReader(data))

	stop, err := c.Parse(StopNone)
	require.NoError(t, err)
	require.Equal(t, StopBeginItems, stop)

	this, next, err := c.UpdateTimes()
	require.NoError(t, err)
	assert.Equal(t, isotime.Time("20110101T000000"), this)
	assert.Equal(t, isotime.Time(""), next)

	issuer, err := c.Issuer()
	require.NoError(t, err)
	assert.Equal(t, "CN=Test CA", issuer.DN)
	assert.Equal(t, nameDER("Test CA"), issuer.Raw)

	version, err := c.Version()
	require.NoError(t, err)
	assert.Equal(t, 2, version)

	algo, err := c.DigestAlgorithm()
	require.NoError(t, err)
	assert.Equal(t, oidDSAWithSHA1, algo.OID)
	assert.Nil(t, algo.Parameters)

	_, err = c.SignatureValue()
	assert.ErrorIs(t, err, ErrNoData)

	stop, err = c.Parse(stop)
	require.NoError(t, err)
	require.Equal(t, StopEndItems, stop)

	stop, err = c.Parse(stop)
	require.NoError(t, err)
	require.Equal(t, StopReady, stop)

	sv, err := c.SignatureValue()
	require.NoError(t, err)
	require.NotNil(t, sv)
	assert.Equal(t, AlgorithmDSA, sv.Algorithm)
	assert.Equal(t, "sha1", sv.Hash)
	assert.Equal(t, []byte{0x12, 0x34}, sv.Element("r"))
	assert.Equal(t, []byte{0x56, 0x78}, sv.Element("s"))
	assert.Equal(t, "(7:sig-val(3:dsa(1:r2:\x12\x34)(1:s2:\x56\x78))(4:hash4:sha1))", string(sv.SExp()))

	assert.Equal(t, int64(len(data)), c.Offset())
}

func TestAccessorsBeforeParse(t *testing.T) {
	c := New(bytes.NewReader(nil))

	_, err := c.Issuer()
	assert.ErrorIs(t, err, ErrNoData)
	_, err = c.DigestAlgorithm()
	assert.ErrorIs(t, err, ErrNoData)
	_, _, err = c.UpdateTimes()
	assert.ErrorIs(t, err, ErrNoData)
	_, err = c.Version()
	assert.ErrorIs(t, err, ErrNoData)
	_, err = c.Item()
	assert.ErrorIs(t, err, ErrNoData)
	_, err = c.CRLNumber()
	assert.ErrorIs(t, err, ErrNoData)
}

func TestEntries(t *testing.T) {
	spec := defaultCRL()
	spec.version = 1
	spec.nextUpdate = "110201000000Z"
	for i := 1; i <= 3; i++ {
		spec.entries = append(spec.entries, testEntry{
			serial: []byte{0x00, byte(0x80 + i)},
			date:   "101231235959Z",
		})
	}
	data, _ := spec.build()

	c, stops, items, err := run(t, data)
	require.NoError(t, err)
	assert.Equal(t, []StopReason{
		StopBeginItems, StopGotItem, StopGotItem, StopGotItem, StopEndItems, StopReady,
	}, stops)

	require.Len(t, items, 3)
	for i, it := range items {
		assert.Equal(t, []byte{0x00, byte(0x81 + i)}, it.Serial)
		assert.Equal(t, isotime.Time("20101231T235959"), it.RevocationDate)
		assert.Equal(t, Reason(0), it.Reason)
	}
	assert.Equal(t, "(2:\x00\x81)", string(items[0].SerialSExp()))

	version, err := c.Version()
	require.NoError(t, err)
	assert.Equal(t, 2, version)

	_, next, err := c.UpdateTimes()
	require.NoError(t, err)
	assert.Equal(t, isotime.Time("20110201T000000"), next)
}

func TestEmptyEntryList(t *testing.T) {
	spec := defaultCRL()
	spec.emptyList = true
	data, _ := spec.build()

	_, stops, _, err := run(t, data)
	require.NoError(t, err)
	assert.Equal(t, []StopReason{StopBeginItems, StopEndItems, StopReady}, stops)
}

func TestReasons(t *testing.T) {
	spec := defaultCRL()
	spec.entries = []testEntry{
		{serial: []byte{1}, date: "110101000000Z", extensions: [][]byte{reasonExtension(1), reasonExtension(4)}},
		{serial: []byte{2}, date: "110101000000Z", extensions: [][]byte{reasonExtension(7)}},
		{serial: []byte{3}, date: "110101000000Z", extensions: [][]byte{
			extension(oidCertificateIssuer, true, nameDER("Other CA")),
			extension("1.2.3.4", false, []byte{0x05, 0x00}),
			reasonExtension(6),
		}},
	}
	data, _ := spec.build()

	_, _, items, err := run(t, data)
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.Equal(t, ReasonKeyCompromise|ReasonSuperseded, items[0].Reason)
	assert.True(t, items[0].Reason.Has(ReasonSuperseded))
	assert.Equal(t, "keyCompromise,superseded", items[0].Reason.String())
	assert.Equal(t, ReasonOther, items[1].Reason)
	assert.Equal(t, ReasonCertificateHold, items[2].Reason)
}

func TestUnknownCriticalEntryExtension(t *testing.T) {
	spec := defaultCRL()
	spec.entries = []testEntry{
		{serial: []byte{1}, date: "110101000000Z", extensions: [][]byte{extension("1.2.3.4", true, []byte{0x05, 0x00})}},
	}
	data, _ := spec.build()

	_, _, _, err := run(t, data)
	assert.ErrorIs(t, err, ErrUnknownCriticalExtension)
}

func TestBadReasonEncoding(t *testing.T) {
	spec := defaultCRL()
	spec.entries = []testEntry{
		{serial: []byte{1}, date: "110101000000Z", extensions: [][]byte{extension(oidCRLReason, false, []byte{0x0a, 0x02, 0x00, 0x01})}},
	}
	data, _ := spec.build()

	_, _, _, err := run(t, data)
	assert.ErrorIs(t, err, ber.ErrTooLarge)
}

func TestHashCoversTBS(t *testing.T) {
	spec := defaultCRL()
	spec.version = 1
	spec.entries = []testEntry{
		{serial: []byte{1}, date: "110101000000Z", extensions: [][]byte{reasonExtension(1)}},
		{serial: []byte{2}, date: "110101000000Z"},
	}
	spec.extensions = [][]byte{crlNumberExtension(42)}
	data, tbs := spec.build()

	h := sha256.New()
	_, _, _, err := run(t, data, WithHashSink(h))
	require.NoError(t, err)

	want := sha256.Sum256(tbs)
	assert.Equal(t, want[:], h.Sum(nil))
}

type blockRecorder struct {
	blocks [][]byte
}

func (r *blockRecorder) Write(p []byte) (int, error) {
	r.blocks = append(r.blocks, append([]byte(nil), p...))
	return len(p), nil
}

func TestHashBlocks(t *testing.T) {
	spec := defaultCRL()
	spec.entries = []testEntry{{serial: []byte{1}, date: "110101000000Z"}}
	data, tbs := spec.build()

	rec := &blockRecorder{}
	_, _, _, err := run(t, data, WithHashSink(rec), WithHashBufferSize(7))
	require.NoError(t, err)

	require.NotEmpty(t, rec.blocks)
	var joined []byte
	for i, b := range rec.blocks {
		if i < len(rec.blocks)-1 {
			assert.Len(t, b, 7)
		}
		joined = append(joined, b...)
	}
	assert.Equal(t, tbs, joined)
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestHashSinkError(t *testing.T) {
	data, _ := defaultCRL().build()
	_, _, _, err := run(t, data, WithHashSink(failingWriter{}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestCRLExtensions(t *testing.T) {
	spec := defaultCRL()
	spec.version = 1
	spec.extensions = [][]byte{
		crlNumberExtension(4711),
		akiExtension([]byte{0xca, 0xfe}, "", nil),
	}
	data, _ := spec.build()

	c, _, _, err := run(t, data)
	require.NoError(t, err)

	number, err := c.CRLNumber()
	require.NoError(t, err)
	assert.Equal(t, 0, big.NewInt(4711).Cmp(new(big.Int).SetBytes(number)))

	aki, err := c.AuthorityKeyID()
	require.NoError(t, err)
	assert.Equal(t, []byte{0xca, 0xfe}, aki.KeyID)
	assert.Nil(t, aki.Issuer)
	assert.Nil(t, aki.SerialSExp())

	ext, err := c.Extension(0)
	require.NoError(t, err)
	assert.Equal(t, oidCRLNumber, ext.OID)
	assert.False(t, ext.Critical)

	ext, err = c.Extension(1)
	require.NoError(t, err)
	assert.Equal(t, oidAuthorityKeyID, ext.OID)

	_, err = c.Extension(2)
	assert.ErrorIs(t, err, ErrEndOfList)
	_, err = c.Extension(-1)
	assert.ErrorIs(t, err, ber.ErrInvalidValue)

	assert.Len(t, c.Extensions(), 2)
}

func TestAuthorityKeyIDWithIssuer(t *testing.T) {
	spec := defaultCRL()
	spec.extensions = [][]byte{akiExtension(nil, "Root CA", []byte{0x01, 0x00})}
	data, _ := spec.build()

	c, _, _, err := run(t, data)
	require.NoError(t, err)

	aki, err := c.AuthorityKeyID()
	require.NoError(t, err)
	assert.Nil(t, aki.KeyID)
	require.Len(t, aki.Issuer, 1)
	assert.Equal(t, 4, aki.Issuer[0].Tag)
	assert.Equal(t, "CN=Root CA", aki.Issuer[0].String())
	assert.Equal(t, "(2:\x01\x00)", string(aki.SerialSExp()))
}

func TestAuthorityKeyIDErrors(t *testing.T) {
	tests := []struct {
		name string
		ext  []byte
		want error
	}{
		{name: "issuer without serial", ext: akiExtension(nil, "Root CA", nil), want: ber.ErrInvalidObject},
		{name: "serial without issuer", ext: akiExtension([]byte{1}, "", []byte{1}), want: ber.ErrInvalidObject},
		{name: "empty", ext: akiExtension(nil, "", nil), want: ErrNoData},
		{name: "indefinite", ext: extension(oidAuthorityKeyID, false, []byte{0x30, 0x80, 0x00, 0x00}), want: ber.ErrNotDER},
		{name: "out of order", ext: extension(oidAuthorityKeyID, false, []byte{0x30, 0x06, 0x82, 0x01, 0x01, 0x80, 0x01, 0x01}), want: ber.ErrInvalidObject},
		{name: "primitive issuer", ext: extension(oidAuthorityKeyID, false, []byte{0x30, 0x06, 0x81, 0x01, 0x00, 0x82, 0x01, 0x01}), want: ber.ErrInvalidObject},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := defaultCRL()
			spec.extensions = [][]byte{tt.ext}
			data, _ := spec.build()

			c, _, _, err := run(t, data)
			require.NoError(t, err)

			_, err = c.AuthorityKeyID()
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestDuplicateExtensions(t *testing.T) {
	spec := defaultCRL()
	spec.extensions = [][]byte{
		crlNumberExtension(1),
		akiExtension([]byte{1}, "", nil),
		crlNumberExtension(2),
		akiExtension([]byte{2}, "", nil),
	}
	data, _ := spec.build()

	c, _, _, err := run(t, data)
	require.NoError(t, err)

	_, err = c.CRLNumber()
	assert.ErrorIs(t, err, ErrDuplicateValue)
	_, err = c.AuthorityKeyID()
	assert.ErrorIs(t, err, ErrDuplicateValue)
}

func TestItemMovedOut(t *testing.T) {
	spec := defaultCRL()
	spec.entries = []testEntry{{serial: []byte{9}, date: "110101000000Z"}}
	data, _ := spec.build()

	c := New(bytes.NewReader(data))
	stop, err := c.Next()
	require.NoError(t, err)
	stop, err = c.Parse(stop)
	require.NoError(t, err)
	require.Equal(t, StopGotItem, stop)

	it, err := c.Item()
	require.NoError(t, err)
	assert.Equal(t, []byte{9}, it.Serial)

	_, err = c.Item()
	assert.ErrorIs(t, err, ErrNoData)
}

func TestItemNotTaken(t *testing.T) {
	spec := defaultCRL()
	spec.entries = []testEntry{{serial: []byte{9}, date: "110101000000Z"}}
	data, _ := spec.build()

	c := New(bytes.NewReader(data))
	var stops []StopReason
	for {
		stop, err := c.Next()
		require.NoError(t, err)
		stops = append(stops, stop)
		if stop == StopEndItems {
			break
		}
	}
	assert.Equal(t, []StopReason{StopBeginItems, StopGotItem, StopEndItems}, stops)

	_, err := c.Item()
	assert.ErrorIs(t, err, ErrNoData)
}

func TestSignatureValueMovedOut(t *testing.T) {
	data, _ := defaultCRL().build()
	c, _, _, err := run(t, data)
	require.NoError(t, err)

	_, err = c.SignatureValue()
	require.NoError(t, err)
	_, err = c.SignatureValue()
	assert.ErrorIs(t, err, ErrNoData)
}

func TestInvalidState(t *testing.T) {
	data, _ := defaultCRL().build()

	c := New(bytes.NewReader(data))
	_, err := c.Parse(StopRunning)
	assert.ErrorIs(t, err, ErrInvalidState)
	_, err = c.Parse(StopGotItem)
	assert.ErrorIs(t, err, ErrInvalidState)

	// The rejected calls did not disturb the context.
	stop, err := c.Next()
	require.NoError(t, err)
	assert.Equal(t, StopBeginItems, stop)

	done, _, _, err := run(t, data)
	require.NoError(t, err)
	assert.Equal(t, StopReady, done.State())
	_, err = done.Next()
	assert.ErrorIs(t, err, ErrInvalidState)

	broken := New(bytes.NewReader(data[:20]))
	_, err = broken.Next()
	require.Error(t, err)
	assert.Equal(t, StopRunning, broken.State())
	_, err = broken.Next()
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestVersion(t *testing.T) {
	spec := defaultCRL()
	data, _ := spec.build()
	c, _, _, err := run(t, data)
	require.NoError(t, err)
	version, err := c.Version()
	require.NoError(t, err)
	assert.Equal(t, 1, version)

	spec.version = 2
	data, _ = spec.build()
	_, _, _, err = run(t, data)
	assert.ErrorIs(t, err, ErrUnsupportedCRLVersion)

	spec.version = 300
	data, _ = spec.build()
	_, _, _, err = run(t, data)
	assert.ErrorIs(t, err, ErrUnsupportedCRLVersion)
}

func TestTruncatedEverywhere(t *testing.T) {
	spec := defaultCRL()
	spec.version = 1
	spec.nextUpdate = "110201000000Z"
	spec.entries = []testEntry{
		{serial: []byte{1}, date: "110101000000Z", extensions: [][]byte{reasonExtension(1)}},
		{serial: []byte{2, 3}, date: "110101000000Z"},
	}
	spec.extensions = [][]byte{crlNumberExtension(7)}
	data, _ := spec.build()

	for n := 0; n < len(data); n++ {
		_, _, _, err := run(t, data[:n])
		require.Error(t, err, "prefix of %d octets", n)
		if !errors.Is(err, ber.ErrTruncated) && !errors.Is(err, ber.ErrBadEncoding) {
			t.Fatalf("prefix of %d octets: unexpected error %v", n, err)
		}
	}
}

func TestLongFormLengthTruncated(t *testing.T) {
	_, _, _, err := run(t, []byte{0x30, 0x85, 0x01, 0x02, 0x03})
	assert.ErrorIs(t, err, ber.ErrTruncated)
}

func TestShortContainers(t *testing.T) {
	_, _, _, err := run(t, []byte{0x30, 0x05, 0x30, 0x03, 0x02, 0x01, 0x00})
	assert.ErrorIs(t, err, ber.ErrTooShort)

	_, _, _, err = run(t, []byte{0x31, 0x0a})
	assert.ErrorIs(t, err, ber.ErrInvalidObject)
}

func TestTBSLongerThanOuter(t *testing.T) {
	spec := defaultCRL()
	tbs := spec.buildTBS()
	// Outer SEQUENCE claims fewer octets than the TBSCertList needs.
	data := append([]byte{0x30, 0x81, byte(len(tbs) - 1)}, tbs...)

	_, _, _, err := run(t, data)
	assert.ErrorIs(t, err, ber.ErrBadEncoding)
}

func TestTrailingTBSData(t *testing.T) {
	spec := defaultCRL()
	tbs := spec.buildTBS()
	// Append an INTEGER inside TBSCertList and fix up its length.
	content := append(append([]byte(nil), tbs[2:]...), 0x02, 0x01, 0x00)
	tbs = append([]byte{0x30, byte(len(content))}, content...)
	data := spec.wrap(tbs)

	_, _, _, err := run(t, data)
	assert.ErrorIs(t, err, ber.ErrBadEncoding)
}

func TestIndefiniteLengths(t *testing.T) {
	spec := defaultCRL()
	entry := entryDER(testEntry{serial: []byte{5}, date: "110101000000Z", extensions: [][]byte{reasonExtension(0)}})

	// signature, issuer and thisUpdate as encoded by the definite builder
	fields := spec.buildTBS()[2:]

	tbs := []byte{0x30, 0x80}
	tbs = append(tbs, fields...)
	tbs = append(tbs, 0x30, 0x80)
	tbs = append(tbs, entry...)
	tbs = append(tbs, 0x00, 0x00) // end of revokedCertificates
	tbs = append(tbs, 0x00, 0x00) // end of TBSCertList

	sig := spec.wrap(nil)
	data := append([]byte{0x30, 0x80}, tbs...)
	data = append(data, sig[2:]...)
	data = append(data, 0x00, 0x00)

	h := sha256.New()
	_, stops, items, err := run(t, data, WithHashSink(h))
	require.NoError(t, err)
	assert.Equal(t, []StopReason{StopBeginItems, StopGotItem, StopEndItems, StopReady}, stops)
	require.Len(t, items, 1)
	assert.Equal(t, ReasonUnspecified, items[0].Reason)

	want := sha256.Sum256(tbs)
	assert.Equal(t, want[:], h.Sum(nil))
}

func TestIndefiniteTBSInDefiniteCRL(t *testing.T) {
	spec := defaultCRL()
	fields := spec.buildTBS()[2:]

	tbs := []byte{0x30, 0x80}
	tbs = append(tbs, fields...)
	tbs = append(tbs, 0x00, 0x00)

	h := sha256.New()
	c, stops, _, err := run(t, spec.wrap(tbs), WithHashSink(h))
	require.NoError(t, err)
	assert.Equal(t, []StopReason{StopBeginItems, StopEndItems, StopReady}, stops)
	want := sha256.Sum256(tbs)
	assert.Equal(t, want[:], h.Sum(nil))

	sv, err := c.SignatureValue()
	require.NoError(t, err)
	assert.Equal(t, spec.sigAlg, sv.OID)

	// Octets after the signature inside the definite CertificateList.
	var b cryptobyte.Builder
	b.AddASN1(asn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddBytes(tbs)
		addAlgorithm(b, spec.sigAlg, spec.sigAlgParam)
		b.AddASN1BitString(spec.sigValue)
		b.AddBytes([]byte{0x05, 0x00})
	})
	_, _, _, err = run(t, b.BytesOrPanic())
	assert.ErrorIs(t, err, ber.ErrBadEncoding)
}

func TestIndefiniteEntry(t *testing.T) {
	spec := defaultCRL()
	full := spec.buildTBS()

	entry := []byte{0x30, 0x80, 0x02, 0x01, 0x01, 0x17, 0x0d}
	entry = append(entry, []byte("110101000000Z")...)
	entry = append(entry, 0x00, 0x00)

	content := append([]byte(nil), full[2:]...)
	content = append(content, 0x30, byte(len(entry)))
	content = append(content, entry...)
	tbs := append([]byte{0x30, byte(len(content))}, content...)

	_, _, _, err := run(t, spec.wrap(tbs))
	assert.ErrorIs(t, err, ber.ErrUnsupportedEncoding)
}

func TestSignatureAlgorithms(t *testing.T) {
	spec := defaultCRL()
	spec.sigAlg = "1.2.3.4.5"
	data, _ := spec.build()
	_, _, _, err := run(t, data)
	assert.ErrorIs(t, err, ErrUnknownAlgorithm)

	spec.sigAlg = oidRSAWithMD2
	data, _ = spec.build()
	_, _, _, err = run(t, data)
	assert.ErrorIs(t, err, ErrUnsupportedAlgorithm)

	spec.sigAlg = oidRSAWithSHA256
	spec.sigValue = []byte{0xde, 0xad, 0xbe, 0xef}
	data, _ = spec.build()
	c, _, _, err := run(t, data)
	require.NoError(t, err)
	sv, err := c.SignatureValue()
	require.NoError(t, err)
	assert.Equal(t, "(7:sig-val(3:rsa(1:s4:\xde\xad\xbe\xef))(4:hash6:sha256))", string(sv.SExp()))
}

func TestECDSAWithSpecified(t *testing.T) {
	var params cryptobyte.Builder
	addAlgorithm(&params, "2.16.840.1.101.3.4.2.2", nil)

	spec := defaultCRL()
	spec.sigAlg = oidECDSAWithSpecified
	spec.sigAlgParam = params.BytesOrPanic()
	data, _ := spec.build()

	c, _, _, err := run(t, data)
	require.NoError(t, err)
	sv, err := c.SignatureValue()
	require.NoError(t, err)
	assert.Equal(t, AlgorithmECDSA, sv.Algorithm)
	assert.Equal(t, "sha384", sv.Hash)
}

func TestParseAlgorithmIdentifier(t *testing.T) {
	var b cryptobyte.Builder
	addAlgorithm(&b, oidRSAWithSHA256, nil)
	image := b.BytesOrPanic()

	algo, err := parseAlgorithmIdentifier(image)
	require.NoError(t, err)
	assert.Equal(t, oidRSAWithSHA256, algo.OID)
	assert.Nil(t, algo.Parameters)

	_, err = parseAlgorithmIdentifier(append(image, 0x00))
	assert.ErrorIs(t, err, ber.ErrBadEncoding)

	_, err = parseAlgorithmIdentifier([]byte{0x02, 0x01, 0x00})
	assert.ErrorIs(t, err, ber.ErrInvalidObject)
}

func TestMaxFieldSize(t *testing.T) {
	data, _ := defaultCRL().build()
	_, _, _, err := run(t, data, WithMaxFieldSize(8))
	assert.ErrorIs(t, err, ber.ErrTooLarge)
}

func TestStopReasonString(t *testing.T) {
	assert.Equal(t, "begin-items", StopBeginItems.String())
	assert.Equal(t, "stop(42)", StopReason(42).String())
}

func TestVerifyECDSA(t *testing.T) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	spec := defaultCRL()
	spec.tbsAlg = oidECDSAWithSHA256
	spec.sigAlg = oidECDSAWithSHA256
	tbs := spec.buildTBS()
	digest := sha256.Sum256(tbs)
	spec.sigValue, err = ecdsa.SignASN1(rand.Reader, key, digest[:])
	require.NoError(t, err)

	h := sha256.New()
	c, _, _, err := run(t, spec.wrap(tbs), WithHashSink(h))
	require.NoError(t, err)
	sv, err := c.SignatureValue()
	require.NoError(t, err)

	hf, err := sv.HashFunc()
	require.NoError(t, err)
	assert.Equal(t, crypto.SHA256, hf)

	require.NoError(t, sv.Verify(&key.PublicKey, h.Sum(nil)))

	tampered := h.Sum(nil)
	tampered[0] ^= 0xff
	assert.ErrorIs(t, sv.Verify(&key.PublicKey, tampered), ErrBadSignature)
}

func TestVerifyRSA(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	spec := defaultCRL()
	spec.tbsAlg = oidRSAWithSHA256
	spec.sigAlg = oidRSAWithSHA256
	tbs := spec.buildTBS()
	digest := sha256.Sum256(tbs)
	spec.sigValue, err = rsa.SignPKCS1v15(rand.Reader, key, crypto.SHA256, digest[:])
	require.NoError(t, err)

	h := sha256.New()
	c, _, _, err := run(t, spec.wrap(tbs), WithHashSink(h))
	require.NoError(t, err)
	sv, err := c.SignatureValue()
	require.NoError(t, err)

	require.NoError(t, sv.Verify(&key.PublicKey, h.Sum(nil)))

	ecKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	assert.ErrorIs(t, sv.Verify(&ecKey.PublicKey, h.Sum(nil)), ErrUnsupportedAlgorithm)

	spec.sigValue[len(spec.sigValue)-1] ^= 0x01
	c, _, _, err = run(t, spec.wrap(tbs))
	require.NoError(t, err)
	sv, err = c.SignatureValue()
	require.NoError(t, err)
	assert.ErrorIs(t, sv.Verify(&key.PublicKey, digest[:]), ErrBadSignature)
}

// TestEntryFromTree embeds a revoked certificate produced by the DER
// encoder into a CRL.
func TestEntryFromTree(t *testing.T) {
	tree := der.NewTree()
	root := tree.Add(der.NoNode, "entry", der.TypeSequence)
	serial := tree.Add(root, "userCertificate", der.TypeInteger)
	date := tree.Add(root, "revocationDate", der.TypeChoice)
	tree.Add(date, "utcTime", der.TypeUTCTime)
	tree.Add(date, "generalTime", der.TypeGeneralizedTime)
	exts := tree.Add(root, "crlEntryExtensions", der.TypeSequenceOf)
	ext := tree.Add(exts, "reason", der.TypeSequence)
	extnID := tree.Add(ext, "extnID", der.TypeOID)
	value := tree.Add(ext, "extnValue", der.TypeOctetString)

	require.NoError(t, tree.StoreInteger(serial, []byte{0x42}))
	require.NoError(t, tree.StoreTime(date, "20600101T120000"))
	require.NoError(t, tree.StoreOID(extnID, oidCRLReason))
	require.NoError(t, tree.StoreOctetString(value, []byte{0x0a, 0x01, 0x05}))
	entry, err := tree.Encode()
	require.NoError(t, err)

	spec := defaultCRL()
	full := spec.buildTBS()
	content := append([]byte(nil), full[2:]...)
	content = append(content, 0x30, byte(len(entry)))
	content = append(content, entry...)
	tbs := append([]byte{0x30, byte(len(content))}, content...)

	_, _, items, err := run(t, spec.wrap(tbs))
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, []byte{0x42}, items[0].Serial)
	assert.Equal(t, isotime.Time("20600101T120000"), items[0].RevocationDate)
	assert.Equal(t, ReasonCessationOfOperation, items[0].Reason)
}

func TestReasonString(t *testing.T) {
	assert.Equal(t, "none", Reason(0).String())
	assert.Equal(t, "unspecified,other", (ReasonUnspecified | ReasonOther).String())
	assert.False(t, ReasonKeyCompromise.Has(ReasonKeyCompromise|ReasonSuperseded))
}
