package der

import (
	"fmt"

	"github.com/KilimcininKorOglu/crlkit/internal/ber"
	"github.com/KilimcininKorOglu/crlkit/internal/isotime"
	"github.com/KilimcininKorOglu/crlkit/internal/oid"
)

// ErrInvalidValue is returned when a value does not fit the node type.
var ErrInvalidValue = ber.ErrInvalidValue

// prepare resolves ANY nodes to want and checks the node type.
func (t *Tree) prepare(id NodeID, want Type) (*Node, error) {
	if id < 0 || int(id) >= len(t.nodes) {
		return nil, fmt.Errorf("%w: unknown node %d", ErrInvalidValue, id)
	}
	n := &t.nodes[id]
	if n.Type == TypeAny {
		n.Type = want
	}
	if n.Type != want {
		return nil, fmt.Errorf("%w: node %q is not of type %d", ErrInvalidValue, n.Name, want)
	}
	return n, nil
}

func (t *Tree) set(n *Node, value []byte) {
	n.value = value
	n.hasValue = true
	t.image = nil
}

// StoreTime stores an ISO time. Times before 2050 are written as UTCTime,
// later ones as GeneralizedTime. On a CHOICE node the matching alternative
// is selected.
func (t *Tree) StoreTime(id NodeID, tm isotime.Time) error {
	value, generalized, err := tm.ASN()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}
	want := TypeUTCTime
	if generalized {
		want = TypeGeneralizedTime
	}

	if id >= 0 && int(id) < len(t.nodes) && t.nodes[id].Type == TypeChoice {
		for _, c := range t.Children(id) {
			if t.nodes[c].Type == want {
				id = c
				break
			}
		}
	}

	n, err := t.prepare(id, want)
	if err != nil {
		return err
	}
	t.set(n, value)
	return nil
}

// StoreString stores a PrintableString.
func (t *Tree) StoreString(id NodeID, s string) error {
	n, err := t.prepare(id, TypePrintableString)
	if err != nil {
		return err
	}
	t.set(n, []byte(s))
	return nil
}

// StoreInteger stores the two's complement content octets of an INTEGER.
func (t *Tree) StoreInteger(id NodeID, v []byte) error {
	if len(v) == 0 {
		return fmt.Errorf("%w: empty integer", ErrInvalidValue)
	}
	n, err := t.prepare(id, TypeInteger)
	if err != nil {
		return err
	}
	t.set(n, append([]byte(nil), v...))
	return nil
}

// StoreInt64 stores a small INTEGER.
func (t *Tree) StoreInt64(id NodeID, v int64) error {
	return t.StoreInteger(id, ber.EncodeInteger(v))
}

// StoreOID stores a dotted OBJECT IDENTIFIER.
func (t *Tree) StoreOID(id NodeID, dotted string) error {
	content, err := oid.FromString(dotted)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}
	n, err := t.prepare(id, TypeOID)
	if err != nil {
		return err
	}
	t.set(n, content)
	return nil
}

// StoreOctetString stores an OCTET STRING.
func (t *Tree) StoreOctetString(id NodeID, v []byte) error {
	n, err := t.prepare(id, TypeOctetString)
	if err != nil {
		return err
	}
	t.set(n, append([]byte(nil), v...))
	return nil
}

// StoreBitString stores a BIT STRING with no unused bits.
func (t *Tree) StoreBitString(id NodeID, v []byte) error {
	n, err := t.prepare(id, TypeBitString)
	if err != nil {
		return err
	}
	t.set(n, append([]byte{0}, v...))
	return nil
}

// StoreSequence stores the pre-encoded content of a SEQUENCE. The node
// keeps no children of its own afterwards.
func (t *Tree) StoreSequence(id NodeID, content []byte) error {
	if id >= 0 && int(id) < len(t.nodes) {
		switch t.nodes[id].Type {
		case TypeSequence, TypeAny:
			if t.nodes[id].child != NoNode {
				return fmt.Errorf("%w: node %q has children", ErrInvalidValue, t.nodes[id].Name)
			}
			t.nodes[id].Type = TypePreSequence
		}
	}
	n, err := t.prepare(id, TypePreSequence)
	if err != nil {
		return err
	}
	t.set(n, append([]byte(nil), content...))
	return nil
}

// StoreBoolean stores a BOOLEAN. DER writes TRUE as 0xff.
func (t *Tree) StoreBoolean(id NodeID, v bool) error {
	n, err := t.prepare(id, TypeBoolean)
	if err != nil {
		return err
	}
	value := []byte{0x00}
	if v {
		value[0] = 0xff
	}
	t.set(n, value)
	return nil
}

// StoreNull marks a NULL as present.
func (t *Tree) StoreNull(id NodeID) error {
	n, err := t.prepare(id, TypeNull)
	if err != nil {
		return err
	}
	t.set(n, nil)
	return nil
}
