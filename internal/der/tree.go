// Package der builds ASN.1 values as a tree and serialises them with the
// Distinguished Encoding Rules.
//
// Nodes live in one slice and refer to each other by index. A tree is
// described first, values are stored into its leaves, and Encode computes
// all lengths before writing the image in a single pass. After Encode every
// node knows its offset, header length and content length, so the tree can
// be inspected like a parsed one.
package der

import (
	"strings"

	"github.com/KilimcininKorOglu/crlkit/internal/ber"
)

// Type is the ASN.1 type of a node. Universal types use their tag number.
type Type int

const (
	TypeBoolean         Type = ber.TagBoolean
	TypeInteger         Type = ber.TagInteger
	TypeBitString       Type = ber.TagBitString
	TypeOctetString     Type = ber.TagOctetString
	TypeNull            Type = ber.TagNull
	TypeOID             Type = ber.TagOID
	TypeEnumerated      Type = ber.TagEnumerated
	TypeUTF8String      Type = ber.TagUTF8String
	TypeSequence        Type = ber.TagSequence
	TypeSet             Type = ber.TagSet
	TypePrintableString Type = ber.TagPrintableString
	TypeIA5String       Type = ber.TagIA5String
	TypeUTCTime         Type = ber.TagUTCTime
	TypeGeneralizedTime Type = ber.TagGeneralizedTime
)

// Pseudo types without a universal tag of their own.
const (
	// TypeSequenceOf and TypeSetOf encode like SEQUENCE and SET.
	TypeSequenceOf Type = 0x100 + iota
	TypeSetOf
	// TypeChoice writes only its selected alternative.
	TypeChoice
	// TypeAny takes the type of the first value stored into it.
	TypeAny
	// TypeTag is an explicit context-specific wrapper.
	TypeTag
	// TypePreSequence is a SEQUENCE whose content was stored pre-encoded.
	TypePreSequence
)

// NodeID identifies a node within its tree.
type NodeID int

// NoNode is the parent of the root.
const NoNode NodeID = -1

// Node is one element of a Tree.
type Node struct {
	Name   string
	Type   Type
	TagNum int

	value    []byte
	hasValue bool

	// Filled in by Encode.
	Off       int
	HeaderLen int
	Len       int

	parent NodeID
	child  NodeID
	next   NodeID
}

// Tree is an arena of nodes. The first node added is the root.
type Tree struct {
	nodes []Node
	image []byte
}

// NewTree creates an empty tree.
func NewTree() *Tree {
	return &Tree{}
}

// Add appends a node of the given type as the last child of parent. The
// root is added with parent NoNode. Add panics on an unknown parent or on
// a second root.
func (t *Tree) Add(parent NodeID, name string, typ Type) NodeID {
	id := NodeID(len(t.nodes))
	if parent == NoNode {
		if id != 0 {
			panic("der: tree already has a root")
		}
	} else if parent < 0 || int(parent) >= len(t.nodes) {
		panic("der: unknown parent node")
	}

	t.nodes = append(t.nodes, Node{
		Name:   name,
		Type:   typ,
		parent: parent,
		child:  NoNode,
		next:   NoNode,
	})

	if parent != NoNode {
		p := &t.nodes[parent]
		if p.child == NoNode {
			p.child = id
		} else {
			last := p.child
			for t.nodes[last].next != NoNode {
				last = t.nodes[last].next
			}
			t.nodes[last].next = id
		}
	}
	t.image = nil
	return id
}

// AddTagged appends an explicit [number] wrapper.
func (t *Tree) AddTagged(parent NodeID, name string, number int) NodeID {
	id := t.Add(parent, name, TypeTag)
	t.nodes[id].TagNum = number
	return id
}

// Node returns a copy of the node.
func (t *Tree) Node(id NodeID) Node {
	return t.nodes[id]
}

// Len returns the number of nodes.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Find looks up a node by its dotted path of names starting at the root,
// e.g. "AlgorithmIdentifier.algorithm".
func (t *Tree) Find(path string) (NodeID, bool) {
	if len(t.nodes) == 0 {
		return NoNode, false
	}
	parts := strings.Split(path, ".")
	if t.nodes[0].Name != parts[0] {
		return NoNode, false
	}

	id := NodeID(0)
	for _, name := range parts[1:] {
		child := t.nodes[id].child
		for child != NoNode && t.nodes[child].Name != name {
			child = t.nodes[child].next
		}
		if child == NoNode {
			return NoNode, false
		}
		id = child
	}
	return id, true
}

// Children returns the child IDs of id in order.
func (t *Tree) Children(id NodeID) []NodeID {
	var out []NodeID
	for c := t.nodes[id].child; c != NoNode; c = t.nodes[c].next {
		out = append(out, c)
	}
	return out
}

// Image returns the result of the last Encode.
func (t *Tree) Image() []byte {
	return t.image
}

// Element returns the encoded TLV of id from the last Encode, or nil when
// the node was not written.
func (t *Tree) Element(id NodeID) []byte {
	n := t.nodes[id]
	if t.image == nil || n.HeaderLen+n.Len == 0 {
		return nil
	}
	return t.image[n.Off : n.Off+n.HeaderLen+n.Len]
}

// isPrimitive reports whether the node carries a stored value rather than
// children.
func (n *Node) isPrimitive() bool {
	switch n.Type {
	case TypeSequence, TypeSet, TypeSequenceOf, TypeSetOf, TypeChoice, TypeAny, TypeTag:
		return false
	}
	return true
}

// identifier returns class, tag number and constructed flag.
func (n *Node) identifier() (class, number int, constructed bool) {
	switch n.Type {
	case TypeSequenceOf, TypePreSequence:
		return ber.ClassUniversal, ber.TagSequence, true
	case TypeSetOf:
		return ber.ClassUniversal, ber.TagSet, true
	case TypeTag:
		return ber.ClassContextSpecific, n.TagNum, true
	case TypeSequence, TypeSet:
		return ber.ClassUniversal, int(n.Type), true
	}
	return ber.ClassUniversal, int(n.Type), false
}
