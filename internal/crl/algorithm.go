package crl

import (
	encasn1 "encoding/asn1"

	"golang.org/x/crypto/cryptobyte"
	"golang.org/x/crypto/cryptobyte/asn1"

	"github.com/KilimcininKorOglu/crlkit/internal/ber"
)

// Algorithm is a decoded AlgorithmIdentifier. Parameters holds the complete
// DER element of the parameters and is nil when they are absent or NULL.
type Algorithm struct {
	OID        string
	Parameters []byte
}

// parseAlgorithmIdentifier decodes
//
//	AlgorithmIdentifier ::= SEQUENCE {
//	    algorithm   OBJECT IDENTIFIER,
//	    parameters  ANY DEFINED BY algorithm OPTIONAL }
//
// from its complete DER image.
func parseAlgorithmIdentifier(image []byte) (Algorithm, error) {
	input := cryptobyte.String(image)

	var seq cryptobyte.String
	if !input.ReadASN1(&seq, asn1.SEQUENCE) {
		return Algorithm{}, ber.NewDecodeError(0, "algorithm identifier: not a DER SEQUENCE", ber.ErrInvalidObject)
	}
	if !input.Empty() {
		return Algorithm{}, ber.NewDecodeError(len(image)-len(input), "algorithm identifier: trailing octets", ber.ErrBadEncoding)
	}

	var id encasn1.ObjectIdentifier
	if !seq.ReadASN1ObjectIdentifier(&id) {
		return Algorithm{}, ber.NewDecodeError(0, "algorithm identifier: bad object identifier", ber.ErrInvalidObject)
	}

	algo := Algorithm{OID: id.String()}
	if seq.Empty() {
		return algo, nil
	}

	var params cryptobyte.String
	var tag asn1.Tag
	if !seq.ReadAnyASN1Element(&params, &tag) || !seq.Empty() {
		return Algorithm{}, ber.NewDecodeError(0, "algorithm identifier: bad parameters", ber.ErrInvalidObject)
	}
	if tag != asn1.NULL {
		algo.Parameters = []byte(params)
	}
	return algo, nil
}

// specifiedDigest returns the digest OID carried in the parameters of
// ecdsa-with-Specified, which are themselves an AlgorithmIdentifier.
func specifiedDigest(params []byte) (string, bool) {
	if len(params) == 0 {
		return "", false
	}
	digest, err := parseAlgorithmIdentifier(params)
	if err != nil {
		return "", false
	}
	return digest.OID, true
}
