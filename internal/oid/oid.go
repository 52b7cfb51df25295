// Package oid converts ASN.1 object identifiers between their dotted string
// form and the DER content octets.
package oid

import (
	encasn1 "encoding/asn1"
	"errors"
	"strconv"
	"strings"

	"golang.org/x/crypto/cryptobyte"
	"golang.org/x/crypto/cryptobyte/asn1"
)

// ErrInvalid is returned for identifiers that cannot be encoded or decoded.
var ErrInvalid = errors.New("oid: invalid object identifier")

// String converts the content octets of an OBJECT IDENTIFIER to dotted form.
func String(content []byte) (string, error) {
	if len(content) == 0 {
		return "", ErrInvalid
	}

	var b cryptobyte.Builder
	b.AddASN1(asn1.OBJECT_IDENTIFIER, func(b *cryptobyte.Builder) {
		b.AddBytes(content)
	})
	raw, err := b.Bytes()
	if err != nil {
		return "", ErrInvalid
	}

	var id encasn1.ObjectIdentifier
	s := cryptobyte.String(raw)
	if !s.ReadASN1ObjectIdentifier(&id) || !s.Empty() {
		return "", ErrInvalid
	}
	return id.String(), nil
}

// Parse splits a dotted identifier into its arcs.
func Parse(dotted string) (encasn1.ObjectIdentifier, error) {
	parts := strings.Split(dotted, ".")
	if len(parts) < 2 {
		return nil, ErrInvalid
	}

	id := make(encasn1.ObjectIdentifier, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return nil, ErrInvalid
		}
		id[i] = n
	}

	if id[0] > 2 || (id[0] < 2 && id[1] >= 40) {
		return nil, ErrInvalid
	}
	return id, nil
}

// Marshal returns the complete DER encoding (tag, length and content).
func Marshal(dotted string) ([]byte, error) {
	id, err := Parse(dotted)
	if err != nil {
		return nil, err
	}

	var b cryptobyte.Builder
	b.AddASN1ObjectIdentifier(id)
	raw, err := b.Bytes()
	if err != nil {
		return nil, ErrInvalid
	}
	return raw, nil
}

// FromString returns the content octets of dotted.
func FromString(dotted string) ([]byte, error) {
	raw, err := Marshal(dotted)
	if err != nil {
		return nil, err
	}

	var content cryptobyte.String
	s := cryptobyte.String(raw)
	if !s.ReadASN1(&content, asn1.OBJECT_IDENTIFIER) {
		return nil, ErrInvalid
	}
	return []byte(content), nil
}
