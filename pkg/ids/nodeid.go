// Package ids implements the OPC UA identifier value types used throughout
// the address space: NodeId, ExpandedNodeId, QualifiedName and
// LocalizedText. The encoding mirrors the teacher's typed Value pattern
// (storage.Value in the graph-storage core this project was adapted from):
// a small tagged union with constructor helpers and typed accessors.
package ids

import (
	"fmt"

	"github.com/google/uuid"
)

// IdentifierKind is the discriminant of a NodeId's identifier.
type IdentifierKind uint8

const (
	Numeric IdentifierKind = iota
	StringId
	GUID
	ByteString
)

func (k IdentifierKind) String() string {
	switch k {
	case Numeric:
		return "numeric"
	case StringId:
		return "string"
	case GUID:
		return "guid"
	case ByteString:
		return "bytestring"
	default:
		return "unknown"
	}
}

// NodeId identifies a node within a namespace. Only one of the identifier
// fields is meaningful, selected by Kind.
type NodeId struct {
	NamespaceIndex uint16
	Kind           IdentifierKind
	Numeric        uint32
	StringId       string
	Guid           uuid.UUID
	Bytes          []byte
}

// NewNumeric builds a numeric NodeId. A value of 0 is the well-known
// "assign me a fresh id" sentinel consumed by NodeStore.Insert.
func NewNumeric(ns uint16, value uint32) NodeId {
	return NodeId{NamespaceIndex: ns, Kind: Numeric, Numeric: value}
}

// NewString builds a string-identifier NodeId.
func NewString(ns uint16, value string) NodeId {
	return NodeId{NamespaceIndex: ns, Kind: StringId, StringId: value}
}

// NewGUID builds a GUID-identifier NodeId, used for server-generated
// identities where numeric allocation is undesirable (e.g. instances
// created by an external-namespace bridge).
func NewGUID(ns uint16, value uuid.UUID) NodeId {
	return NodeId{NamespaceIndex: ns, Kind: GUID, Guid: value}
}

// NewByteString builds an opaque byte-identifier NodeId.
func NewByteString(ns uint16, value []byte) NodeId {
	return NodeId{NamespaceIndex: ns, Kind: ByteString, Bytes: append([]byte(nil), value...)}
}

// IsNull reports whether the identifier is the zero/empty value for its
// kind. For a numeric id this is the zero value NodeStore.Insert replaces
// with a fresh numeric id; Insert allocates for no other kind.
func (n NodeId) IsNull() bool {
	switch n.Kind {
	case Numeric:
		return n.Numeric == 0
	case StringId:
		return n.StringId == ""
	case GUID:
		return n.Guid == uuid.Nil
	case ByteString:
		return len(n.Bytes) == 0
	default:
		return true
	}
}

// Equal reports whether two NodeIds refer to the same identity.
func (n NodeId) Equal(o NodeId) bool {
	if n.NamespaceIndex != o.NamespaceIndex || n.Kind != o.Kind {
		return false
	}
	switch n.Kind {
	case Numeric:
		return n.Numeric == o.Numeric
	case StringId:
		return n.StringId == o.StringId
	case GUID:
		return n.Guid == o.Guid
	case ByteString:
		return string(n.Bytes) == string(o.Bytes)
	default:
		return false
	}
}

// String renders a NodeId in the conventional "ns=<idx>;<kind>=<value>" form.
func (n NodeId) String() string {
	switch n.Kind {
	case Numeric:
		return fmt.Sprintf("ns=%d;i=%d", n.NamespaceIndex, n.Numeric)
	case StringId:
		return fmt.Sprintf("ns=%d;s=%s", n.NamespaceIndex, n.StringId)
	case GUID:
		return fmt.Sprintf("ns=%d;g=%s", n.NamespaceIndex, n.Guid)
	case ByteString:
		return fmt.Sprintf("ns=%d;b=%x", n.NamespaceIndex, n.Bytes)
	default:
		return fmt.Sprintf("ns=%d;?", n.NamespaceIndex)
	}
}

// ExpandedNodeId is a NodeId plus an optional out-of-process qualifier: a
// server index for a reference that targets another server, or a
// namespace URI for a reference that targets a namespace not present in
// this server's local namespace table.
type ExpandedNodeId struct {
	NodeId       NodeId
	ServerIndex  uint32
	NamespaceURI string
}

// IsLocal reports whether the expanded id targets this server's own
// namespace table (the common case; ServerIndex == 0 and no NamespaceURI
// override).
func (e ExpandedNodeId) IsLocal() bool {
	return e.ServerIndex == 0 && e.NamespaceURI == ""
}

// Local builds a purely local ExpandedNodeId.
func Local(id NodeId) ExpandedNodeId {
	return ExpandedNodeId{NodeId: id}
}

// QualifiedName is a namespace-scoped name used for BrowseName matching
// during instantiation's child merge (§4.6).
type QualifiedName struct {
	NamespaceIndex uint16
	Name           string
}

func (q QualifiedName) Equal(o QualifiedName) bool {
	return q.NamespaceIndex == o.NamespaceIndex && q.Name == o.Name
}

func (q QualifiedName) String() string {
	return fmt.Sprintf("%d:%s", q.NamespaceIndex, q.Name)
}

// LocalizedText pairs a display/description string with a locale tag.
type LocalizedText struct {
	Locale string
	Text   string
}
