// Package node defines the tagged Node variant of spec.md §3: a common
// header shared by every node class, plus one class-specific payload
// selected by NodeClass. The tagged-union shape and the Clone/accessor
// conventions mirror the teacher's storage.Node/storage.Edge (see
// pkg/storage/types.go in the source pack), generalized from "graph
// vertex with a property bag" to "OPC UA node with a class-specific
// attribute block".
package node

import (
	"github.com/uacore/addrspace/pkg/ids"
)

// Class is the OPC UA node class discriminant.
type Class uint8

const (
	Object Class = iota
	Variable
	Method
	ObjectType
	VariableType
	ReferenceType
	DataType
	View
)

func (c Class) String() string {
	switch c {
	case Object:
		return "Object"
	case Variable:
		return "Variable"
	case Method:
		return "Method"
	case ObjectType:
		return "ObjectType"
	case VariableType:
		return "VariableType"
	case ReferenceType:
		return "ReferenceType"
	case DataType:
		return "DataType"
	case View:
		return "View"
	default:
		return "Unknown"
	}
}

// IsTypeClass reports whether c is one of the four type node classes
// (DataType, VariableType, ObjectType, ReferenceType), which spec.md §4.3
// treats specially: their only legal parent reference is HasSubtype.
func (c Class) IsTypeClass() bool {
	switch c {
	case DataType, VariableType, ObjectType, ReferenceType:
		return true
	default:
		return false
	}
}

// Reference is one entry of a node's reference list (spec.md §3). The
// forward copy on the source node has IsInverse == false; the mirrored
// copy on the target has IsInverse == true.
type Reference struct {
	ReferenceTypeId ids.NodeId
	Target          ids.ExpandedNodeId
	IsInverse       bool
}

// Matches reports whether r represents the same (type, target, direction)
// tuple as the given parameters — the comparison invariant 2 of spec.md §3
// forbids duplicating.
func (r Reference) Matches(refType ids.NodeId, targetId ids.NodeId, isInverse bool) bool {
	return r.ReferenceTypeId.Equal(refType) && r.Target.NodeId.Equal(targetId) && r.IsInverse == isInverse
}

// Header is the attribute block every node class shares.
type Header struct {
	NodeId         ids.NodeId
	NodeClass      Class
	BrowseName     ids.QualifiedName
	DisplayName    ids.LocalizedText
	Description    ids.LocalizedText
	WriteMask      uint32
	UserWriteMask  uint32
	References     []Reference
}

// ValueSource selects where a Variable's current value comes from.
type ValueSource uint8

const (
	SourceData ValueSource = iota
	SourceDataSource
)

// DataValue is an inline value with OPC UA's status/timestamp envelope.
type DataValue struct {
	Value         Value
	StatusCode    uint32
	SourceTime    int64
	ServerTime    int64
}

// WriteCallback observes every successful write to an inline Variable
// value, e.g. to keep a server-side cache or device mirror in sync.
type WriteCallback func(nodeId ids.NodeId, value *DataValue) error

// DataSource is the pair of user callbacks that replace inline storage for
// a Variable whose ValueSource is SourceDataSource.
type DataSource struct {
	Handle interface{}
	Read   func(handle interface{}, nodeId ids.NodeId) (*DataValue, error)
	Write  func(handle interface{}, nodeId ids.NodeId, value *DataValue) error
}

// Constructor is invoked with the new instance's NodeId when an Object of
// a type bearing lifecycle management is instantiated; its return value is
// stored as the instance's InstanceHandle.
type Constructor func(nodeId ids.NodeId) (interface{}, error)

// Destructor is invoked when an instance of a type bearing lifecycle
// management is deleted.
type Destructor func(nodeId ids.NodeId, handle interface{})

// LifecycleManagement is an ObjectType's constructor/destructor pair.
type LifecycleManagement struct {
	Constructor Constructor
	Destructor  Destructor
}

// MethodCallback is invoked when a Method node is called.
type MethodCallback func(handle interface{}, nodeId ids.NodeId, inputArgs []Value) ([]Value, error)

// Node is the tagged variant: Header plus exactly one populated payload,
// selected by Header.NodeClass. Only the payload matching NodeClass is
// meaningful; the others are zero values.
type Node struct {
	Header

	ObjectBody       ObjectBody
	VariableBody     VariableBody
	VariableTypeBody VariableTypeBody
	ObjectTypeBody   ObjectTypeBody
	ReferenceTypeBody ReferenceTypeBody
	DataTypeBody     DataTypeBody
	ViewBody         ViewBody
	MethodBody       MethodBody
}

type ObjectBody struct {
	EventNotifier  byte
	InstanceHandle interface{}
}

// ValueRank descriptors (spec.md Glossary).
const (
	ValueRankAny           int32 = -3
	ValueRankScalarOrArray int32 = -2
	ValueRankScalar        int32 = -1
	ValueRankOneOrMoreDims int32 = 0
)

type VariableBody struct {
	DataType                ids.NodeId
	ValueRank               int32
	ArrayDimensions         []uint32
	AccessLevel             byte
	UserAccessLevel         byte
	Historizing             bool
	MinimumSamplingInterval float64
	ValueSource             ValueSource
	InlineValue             DataValue
	WriteCallback           WriteCallback
	ExternalSource          *DataSource
}

type VariableTypeBody struct {
	VariableBody
	IsAbstract bool
}

type ObjectTypeBody struct {
	IsAbstract bool
	Lifecycle  LifecycleManagement
}

type ReferenceTypeBody struct {
	IsAbstract  bool
	Symmetric   bool
	InverseName ids.LocalizedText
}

type DataTypeBody struct {
	IsAbstract bool
}

type ViewBody struct {
	ContainsNoLoops bool
	EventNotifier   byte
}

type MethodBody struct {
	Executable bool
	Callback   MethodCallback
	Handle     interface{}
}

// New allocates a zero-initialized node of the given class, mirroring
// NodeStore.newNodeOfClass (spec.md §4.1): every field of the
// class-specific body is its zero value, ready for the attribute copier
// to populate.
func New(class Class) *Node {
	return &Node{Header: Header{NodeClass: class}}
}

// Clone deep-copies a node, matching the teacher's Node.Clone/Edge.Clone
// convention: NodeStore.GetCopy (spec.md §4.1) must hand back an
// independently owned node.
func (n *Node) Clone() *Node {
	c := *n
	c.References = make([]Reference, len(n.References))
	copy(c.References, n.References)

	c.VariableBody.ArrayDimensions = append([]uint32(nil), n.VariableBody.ArrayDimensions...)
	c.VariableBody.InlineValue.Value = n.VariableBody.InlineValue.Value.Clone()

	c.VariableTypeBody.ArrayDimensions = append([]uint32(nil), n.VariableTypeBody.ArrayDimensions...)
	c.VariableTypeBody.InlineValue.Value = n.VariableTypeBody.InlineValue.Value.Clone()

	return &c
}

// AddReferenceUnchecked appends a reference entry without duplicate
// checking; callers that must enforce invariant 2 (spec.md §3) use
// addrspace's addOneWayReference instead.
func (n *Node) AddReferenceUnchecked(ref Reference) {
	n.References = append(n.References, ref)
}

// FindReference returns the index of a matching reference, or -1.
func (n *Node) FindReference(refType ids.NodeId, targetId ids.NodeId, isInverse bool) int {
	for i, r := range n.References {
		if r.Matches(refType, targetId, isInverse) {
			return i
		}
	}
	return -1
}

// RemoveReferenceAt deletes the reference at index i using swap-with-last,
// exactly as spec.md §4.8/§9 documents for deleteOneWayReference: ordering
// is not preserved.
func (n *Node) RemoveReferenceAt(i int) {
	last := len(n.References) - 1
	n.References[i] = n.References[last]
	n.References = n.References[:last]
}

// ForwardReferencesOfType returns the forward (non-inverse) references
// whose type matches refType, in storage order.
func (n *Node) ForwardReferencesOfType(refType ids.NodeId) []Reference {
	var out []Reference
	for _, r := range n.References {
		if !r.IsInverse && r.ReferenceTypeId.Equal(refType) {
			out = append(out, r)
		}
	}
	return out
}

// InverseReferencesOfType returns the inverse references whose type
// matches refType.
func (n *Node) InverseReferencesOfType(refType ids.NodeId) []Reference {
	var out []Reference
	for _, r := range n.References {
		if r.IsInverse && r.ReferenceTypeId.Equal(refType) {
			out = append(out, r)
		}
	}
	return out
}
