package main

import (
	"bufio"
	"bytes"
	"crypto"
	_ "crypto/sha1"
	_ "crypto/sha256"
	_ "crypto/sha512"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"hash"
	"io"
	"os"
)

const pemCRLType = "X509 CRL"

var pemPrefix = []byte("-----BEGIN ")

// openCRL opens path, or stdin for "-", and returns a reader positioned at
// the DER encoding. DER input is streamed; PEM input is decoded in memory.
func (a *app) openCRL(path string) (io.Reader, func() error, error) {
	var src io.Reader
	closer := func() error { return nil }
	if path == "-" {
		src = a.stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, nil, err
		}
		src, closer = f, f.Close
	}

	br := bufio.NewReader(src)
	head, _ := br.Peek(len(pemPrefix))
	if !bytes.Equal(head, pemPrefix) {
		return br, closer, nil
	}

	data, err := io.ReadAll(br)
	if err != nil {
		closer()
		return nil, nil, err
	}
	for {
		var block *pem.Block
		block, data = pem.Decode(data)
		if block == nil {
			closer()
			return nil, nil, fmt.Errorf("%s: no %q PEM block", path, pemCRLType)
		}
		if block.Type == pemCRLType {
			return bytes.NewReader(block.Bytes), closer, nil
		}
	}
}

// loadCertificate reads a PEM or DER certificate.
func loadCertificate(path string) (*x509.Certificate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if block, _ := pem.Decode(data); block != nil {
		if block.Type != "CERTIFICATE" {
			return nil, fmt.Errorf("%s: unexpected PEM block %q", path, block.Type)
		}
		data = block.Bytes
	}
	return x509.ParseCertificate(data)
}

// digestSet hashes the signed octets with every digest a signature might
// name, since the algorithm is only known once the signature is read.
type digestSet map[crypto.Hash]hash.Hash

var digestHashes = []crypto.Hash{
	crypto.SHA1,
	crypto.SHA224,
	crypto.SHA256,
	crypto.SHA384,
	crypto.SHA512,
}

func newDigestSet() digestSet {
	d := make(digestSet, len(digestHashes))
	for _, h := range digestHashes {
		d[h] = h.New()
	}
	return d
}

func (d digestSet) writer() io.Writer {
	writers := make([]io.Writer, 0, len(d))
	for _, h := range digestHashes {
		writers = append(writers, d[h])
	}
	return io.MultiWriter(writers...)
}

var errNoDigest = errors.New("digest not computed")

func (d digestSet) sum(h crypto.Hash) ([]byte, error) {
	hh, ok := d[h]
	if !ok {
		return nil, fmt.Errorf("%w: %s", errNoDigest, h)
	}
	return hh.Sum(nil), nil
}
