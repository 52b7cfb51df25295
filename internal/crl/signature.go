package crl

import (
	"crypto"
	"crypto/dsa"
	"crypto/ecdsa"
	"crypto/rsa"
	"fmt"
	"math/big"

	"golang.org/x/crypto/cryptobyte"
	"golang.org/x/crypto/cryptobyte/asn1"

	"github.com/KilimcininKorOglu/crlkit/internal/ber"
	"github.com/KilimcininKorOglu/crlkit/internal/sexp"
)

// Public key algorithm names as used in signature values.
const (
	AlgorithmRSA   = "rsa"
	AlgorithmDSA   = "dsa"
	AlgorithmECDSA = "ecdsa"
)

// sigAlgorithm describes how to convert a signature BIT STRING. When rs is
// set the content is SEQUENCE { r INTEGER, s INTEGER }, otherwise the whole
// content is the element "s".
type sigAlgorithm struct {
	pk          string
	hash        string
	rs          bool
	unsupported bool
}

const oidECDSAWithSpecified = "1.2.840.10045.4.3"

var sigAlgorithms = map[string]sigAlgorithm{
	"1.2.840.113549.1.1.1":  {pk: AlgorithmRSA},
	"1.2.840.113549.1.1.2":  {pk: AlgorithmRSA, hash: "md2", unsupported: true},
	"1.2.840.113549.1.1.4":  {pk: AlgorithmRSA, hash: "md5"},
	"1.2.840.113549.1.1.5":  {pk: AlgorithmRSA, hash: "sha1"},
	"1.2.840.113549.1.1.11": {pk: AlgorithmRSA, hash: "sha256"},
	"1.2.840.113549.1.1.12": {pk: AlgorithmRSA, hash: "sha384"},
	"1.2.840.113549.1.1.13": {pk: AlgorithmRSA, hash: "sha512"},
	"1.2.840.113549.1.1.14": {pk: AlgorithmRSA, hash: "sha224"},
	"1.3.14.3.2.29":         {pk: AlgorithmRSA, hash: "sha1"},
	"1.3.36.3.3.1.2":        {pk: AlgorithmRSA, hash: "rmd160"},

	"1.2.840.10040.4.3":      {pk: AlgorithmDSA, hash: "sha1", rs: true},
	"1.3.36.8.5.1.2.2":       {pk: AlgorithmDSA, hash: "rmd160", rs: true},
	"2.16.840.1.101.3.4.3.1": {pk: AlgorithmDSA, hash: "sha224", rs: true},
	"2.16.840.1.101.3.4.3.2": {pk: AlgorithmDSA, hash: "sha256", rs: true},

	"1.2.840.10045.4.1":     {pk: AlgorithmECDSA, hash: "sha1", rs: true},
	oidECDSAWithSpecified:   {pk: AlgorithmECDSA, rs: true},
	"1.2.840.10045.4.3.1":   {pk: AlgorithmECDSA, hash: "sha224", rs: true},
	"1.2.840.10045.4.3.2":   {pk: AlgorithmECDSA, hash: "sha256", rs: true},
	"1.2.840.10045.4.3.3":   {pk: AlgorithmECDSA, hash: "sha384", rs: true},
	"1.2.840.10045.4.3.4":   {pk: AlgorithmECDSA, hash: "sha512", rs: true},
}

var digestAlgorithms = map[string]string{
	"1.2.840.113549.2.5":     "md5",
	"1.3.14.3.2.26":          "sha1",
	"1.3.36.3.2.1":           "rmd160",
	"2.16.840.1.101.3.4.2.1": "sha256",
	"2.16.840.1.101.3.4.2.2": "sha384",
	"2.16.840.1.101.3.4.2.3": "sha512",
	"2.16.840.1.101.3.4.2.4": "sha224",
}

var cryptoHashes = map[string]crypto.Hash{
	"md5":    crypto.MD5,
	"sha1":   crypto.SHA1,
	"sha224": crypto.SHA224,
	"sha256": crypto.SHA256,
	"sha384": crypto.SHA384,
	"sha512": crypto.SHA512,
	"rmd160": crypto.RIPEMD160,
}

// Element is one named big integer of a signature value.
type Element struct {
	Name  string
	Value []byte
}

// SignatureValue is the decoded signature of a CRL.
type SignatureValue struct {
	OID       string
	Algorithm string
	Hash      string
	Elements  []Element
}

func newSignatureValue(algo Algorithm, bits []byte) (*SignatureValue, error) {
	desc, ok := sigAlgorithms[algo.OID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAlgorithm, algo.OID)
	}
	if desc.unsupported {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedAlgorithm, algo.OID)
	}

	sv := &SignatureValue{OID: algo.OID, Algorithm: desc.pk, Hash: desc.hash}
	if algo.OID == oidECDSAWithSpecified {
		if digest, ok := specifiedDigest(algo.Parameters); ok {
			sv.Hash = digestAlgorithms[digest]
		}
	}

	// The first octet counts the unused bits of the last octet.
	if len(bits) < 2 {
		return nil, ber.NewDecodeError(0, "signature value: empty bit string", ber.ErrTooShort)
	}
	if bits[0] != 0 {
		return nil, ber.NewDecodeError(0, "signature value: unused bits", ber.ErrInvalidObject)
	}
	content := bits[1:]

	if !desc.rs {
		sv.Elements = []Element{{Name: "s", Value: content}}
		return sv, nil
	}

	input := cryptobyte.String(content)
	var seq, r, s cryptobyte.String
	if !input.ReadASN1(&seq, asn1.SEQUENCE) || !input.Empty() ||
		!seq.ReadASN1(&r, asn1.INTEGER) || !seq.ReadASN1(&s, asn1.INTEGER) || !seq.Empty() {
		return nil, ber.NewDecodeError(0, "signature value: expected SEQUENCE { r, s }", ber.ErrInvalidObject)
	}
	sv.Elements = []Element{
		{Name: "r", Value: []byte(r)},
		{Name: "s", Value: []byte(s)},
	}
	return sv, nil
}

// Element returns the value of the named element or nil.
func (sv *SignatureValue) Element(name string) []byte {
	for _, e := range sv.Elements {
		if e.Name == name {
			return e.Value
		}
	}
	return nil
}

// HashFunc returns the digest algorithm implied by the signature algorithm.
func (sv *SignatureValue) HashFunc() (crypto.Hash, error) {
	if sv.Hash == "" {
		return 0, fmt.Errorf("%w: %s carries no digest", ErrUnsupportedAlgorithm, sv.OID)
	}
	h, ok := cryptoHashes[sv.Hash]
	if !ok || !h.Available() {
		return 0, fmt.Errorf("%w: digest %s", ErrUnsupportedAlgorithm, sv.Hash)
	}
	return h, nil
}

// SExp returns the canonical S-expression
//
//	(sig-val (<algo> (<name> <value>)...) (hash <digest>))
//
// The hash list is omitted when the algorithm implies no digest.
func (sv *SignatureValue) SExp() []byte {
	var b sexp.Builder
	b.Open().String("sig-val").Open().String(sv.Algorithm)
	for _, e := range sv.Elements {
		b.Open().String(e.Name).Atom(e.Value).Close()
	}
	b.Close()
	if sv.Hash != "" {
		b.Open().String("hash").String(sv.Hash).Close()
	}
	return b.Close().Bytes()
}

// Verify checks the signature against digest, the hash of the to-be-signed
// octets computed with HashFunc.
func (sv *SignatureValue) Verify(pub crypto.PublicKey, digest []byte) error {
	h, err := sv.HashFunc()
	if err != nil && sv.Algorithm != AlgorithmRSA {
		return err
	}

	switch key := pub.(type) {
	case *rsa.PublicKey:
		if sv.Algorithm != AlgorithmRSA {
			return fmt.Errorf("%w: %s signature with RSA key", ErrUnsupportedAlgorithm, sv.Algorithm)
		}
		if err := rsa.VerifyPKCS1v15(key, h, digest, sv.Element("s")); err != nil {
			return fmt.Errorf("%w: %v", ErrBadSignature, err)
		}
		return nil
	case *ecdsa.PublicKey:
		if sv.Algorithm != AlgorithmECDSA {
			return fmt.Errorf("%w: %s signature with ECDSA key", ErrUnsupportedAlgorithm, sv.Algorithm)
		}
		r, s := sv.rs()
		if !ecdsa.Verify(key, digest, r, s) {
			return ErrBadSignature
		}
		return nil
	case *dsa.PublicKey:
		if sv.Algorithm != AlgorithmDSA {
			return fmt.Errorf("%w: %s signature with DSA key", ErrUnsupportedAlgorithm, sv.Algorithm)
		}
		r, s := sv.rs()
		if !dsa.Verify(key, digest, r, s) {
			return ErrBadSignature
		}
		return nil
	default:
		return fmt.Errorf("%w: public key type %T", ErrUnsupportedAlgorithm, pub)
	}
}

func (sv *SignatureValue) rs() (*big.Int, *big.Int) {
	return new(big.Int).SetBytes(sv.Element("r")), new(big.Int).SetBytes(sv.Element("s"))
}
