package der

import (
	"fmt"

	"github.com/KilimcininKorOglu/crlkit/internal/ber"
)

// Encode computes lengths and serialises the tree. Primitive nodes without
// a value and constructed nodes without content are left out; NULL nodes
// are always written.
func (t *Tree) Encode() ([]byte, error) {
	if len(t.nodes) == 0 {
		return nil, fmt.Errorf("%w: empty tree", ErrInvalidValue)
	}

	for i := range t.nodes {
		n := &t.nodes[i]
		n.Off, n.HeaderLen, n.Len = 0, 0, 0
		if n.Type == TypeTag && (n.TagNum < 0 || n.TagNum >= 31) {
			return nil, fmt.Errorf("%w: tag number %d of %q", ber.ErrUnsupportedEncoding, n.TagNum, n.Name)
		}
		if n.isPrimitive() && (n.hasValue || n.Type == TypeNull) {
			n.Len = len(n.value)
			n.HeaderLen = ber.HeaderLen(n.Len)
		}
	}

	total := t.sumUp(0)
	enc := ber.NewBEREncoder(total)
	if err := t.serialize(0, enc); err != nil {
		return nil, err
	}
	if enc.Len() != total {
		panic(fmt.Sprintf("der: encoded %d octets, computed %d", enc.Len(), total))
	}

	t.image = enc.Bytes()
	return t.image, nil
}

// sumUp returns the encoded size of id and sets the lengths of
// constructed nodes.
func (t *Tree) sumUp(id NodeID) int {
	n := &t.nodes[id]
	if n.isPrimitive() {
		return n.HeaderLen + n.Len
	}

	sum := 0
	for c := n.child; c != NoNode; c = t.nodes[c].next {
		sum += t.sumUp(c)
	}

	n = &t.nodes[id]
	n.Len = sum
	if n.Type == TypeChoice || sum == 0 {
		n.HeaderLen = 0
		return sum
	}
	n.HeaderLen = ber.HeaderLen(sum)
	return n.HeaderLen + sum
}

func (t *Tree) serialize(id NodeID, enc *ber.BEREncoder) error {
	n := &t.nodes[id]
	if n.HeaderLen == 0 && n.Type != TypeChoice {
		return nil
	}
	n.Off = enc.Len()

	if n.Type != TypeChoice {
		class, number, constructed := n.identifier()
		if err := enc.WriteHeader(class, constructed, number, n.Len); err != nil {
			return err
		}
	}

	if n.isPrimitive() {
		enc.WriteRaw(n.value)
		return nil
	}
	for c := n.child; c != NoNode; c = t.nodes[c].next {
		if err := t.serialize(c, enc); err != nil {
			return err
		}
	}
	return nil
}

// AlgorithmIdentifier encodes SEQUENCE { algorithm OID, parameters } where
// the parameters are NULL when params is nil and an OCTET STRING otherwise.
func AlgorithmIdentifier(algorithm string, params []byte) ([]byte, error) {
	t := NewTree()
	root := t.Add(NoNode, "AlgorithmIdentifier", TypeSequence)
	alg := t.Add(root, "algorithm", TypeOID)
	par := t.Add(root, "parameters", TypeAny)

	if err := t.StoreOID(alg, algorithm); err != nil {
		return nil, err
	}
	var err error
	if params == nil {
		err = t.StoreNull(par)
	} else {
		err = t.StoreOctetString(par, params)
	}
	if err != nil {
		return nil, err
	}
	return t.Encode()
}
