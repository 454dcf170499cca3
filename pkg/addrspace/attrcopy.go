package addrspace

import (
	"github.com/uacore/addrspace/pkg/ids"
	"github.com/uacore/addrspace/pkg/node"
	"github.com/uacore/addrspace/pkg/statuscode"
)

// VariableAttributes is the encoded attribute block for Variable and
// VariableType AddNodesItems (spec.md §3, §4.4).
type VariableAttributes struct {
	Value                   node.Value
	DataType                ids.NodeId
	ValueRank               int32
	ArrayDimensions         []uint32
	AccessLevel             byte
	UserAccessLevel         byte
	Historizing             bool
	MinimumSamplingInterval float64
	IsAbstract              bool // meaningful for VariableType only
}

// ObjectAttributes is the encoded attribute block for an Object
// AddNodesItem.
type ObjectAttributes struct {
	EventNotifier byte
}

// ObjectTypeAttributes is the encoded attribute block for an ObjectType
// AddNodesItem.
type ObjectTypeAttributes struct {
	IsAbstract bool
}

// ReferenceTypeAttributes is the encoded attribute block for a
// ReferenceType AddNodesItem.
type ReferenceTypeAttributes struct {
	IsAbstract  bool
	Symmetric   bool
	InverseName ids.LocalizedText
}

// DataTypeAttributes is the encoded attribute block for a DataType
// AddNodesItem.
type DataTypeAttributes struct {
	IsAbstract bool
}

// ViewAttributes is the encoded attribute block for a View AddNodesItem.
type ViewAttributes struct {
	ContainsNoLoops bool
	EventNotifier   byte
}

// MethodAttributes is the encoded attribute block for a Method
// AddNodesItem.
type MethodAttributes struct {
	Executable bool
}

// AddNodesItem is the per-item input of the AddNodes service (spec.md §6).
// Attributes holds exactly one of the *Attributes structs above, matching
// NodeClass; attrcopy.go rejects any mismatch with NodeAttributesInvalid.
type AddNodesItem struct {
	RequestedNodeId ids.NodeId
	ParentNodeId    ids.NodeId
	HasParent       bool
	ReferenceTypeId ids.NodeId
	BrowseName      ids.QualifiedName
	NodeClass       node.Class
	TypeDefinition  ids.NodeId
	HasTypeDefinition bool

	DisplayName ids.LocalizedText
	Description ids.LocalizedText
	WriteMask   uint32

	Attributes interface{}
}

// copyAttributes allocates a fresh node of item.NodeClass via the store
// and projects item's encoded attribute block onto it (spec.md §4.4). On
// any failure the partially allocated node is freed and the originating
// error returned — the attribute copier itself never leaves a residual
// node in the store (it hasn't been inserted yet).
func (as *AddressSpace) copyAttributes(item AddNodesItem) (*node.Node, error) {
	n, err := as.store.NewNodeOfClass(item.NodeClass)
	if err != nil {
		return nil, statuscode.New("copyAttributes").Cause(statuscode.ErrOutOfMemory).Err()
	}

	n.NodeId = item.RequestedNodeId
	n.NodeClass = item.NodeClass
	n.BrowseName = item.BrowseName
	n.DisplayName = item.DisplayName
	n.Description = item.Description
	n.WriteMask = item.WriteMask
	n.UserWriteMask = item.WriteMask

	if err := copyClassSpecific(n, item); err != nil {
		as.store.DeleteNode(n)
		return nil, err
	}

	return n, nil
}

func copyClassSpecific(n *node.Node, item AddNodesItem) error {
	switch item.NodeClass {
	case node.Object:
		a, ok := item.Attributes.(ObjectAttributes)
		if item.Attributes != nil && !ok {
			return attrMismatch(item.NodeClass)
		}
		n.ObjectBody = node.ObjectBody{EventNotifier: a.EventNotifier}

	case node.Variable:
		a, ok := item.Attributes.(VariableAttributes)
		if !ok {
			return attrMismatch(item.NodeClass)
		}
		n.VariableBody = variableBodyFromAttrs(a)

	case node.VariableType:
		a, ok := item.Attributes.(VariableAttributes)
		if !ok {
			return attrMismatch(item.NodeClass)
		}
		n.VariableTypeBody = node.VariableTypeBody{
			VariableBody: variableBodyFromAttrs(a),
			IsAbstract:   a.IsAbstract,
		}

	case node.ObjectType:
		a, ok := item.Attributes.(ObjectTypeAttributes)
		if item.Attributes != nil && !ok {
			return attrMismatch(item.NodeClass)
		}
		n.ObjectTypeBody = node.ObjectTypeBody{IsAbstract: a.IsAbstract}

	case node.ReferenceType:
		a, ok := item.Attributes.(ReferenceTypeAttributes)
		if !ok {
			return attrMismatch(item.NodeClass)
		}
		n.ReferenceTypeBody = node.ReferenceTypeBody{
			IsAbstract:  a.IsAbstract,
			Symmetric:   a.Symmetric,
			InverseName: a.InverseName,
		}

	case node.DataType:
		a, ok := item.Attributes.(DataTypeAttributes)
		if item.Attributes != nil && !ok {
			return attrMismatch(item.NodeClass)
		}
		n.DataTypeBody = node.DataTypeBody{IsAbstract: a.IsAbstract}

	case node.View:
		a, ok := item.Attributes.(ViewAttributes)
		if item.Attributes != nil && !ok {
			return attrMismatch(item.NodeClass)
		}
		n.ViewBody = node.ViewBody{ContainsNoLoops: a.ContainsNoLoops, EventNotifier: a.EventNotifier}

	case node.Method:
		a, ok := item.Attributes.(MethodAttributes)
		if item.Attributes != nil && !ok {
			return attrMismatch(item.NodeClass)
		}
		n.MethodBody = node.MethodBody{Executable: a.Executable}

	default:
		return statuscode.New("copyAttributes").Cause(statuscode.ErrNodeClassInvalid).Err()
	}
	return nil
}

// variableBodyFromAttrs deep-clones the incoming value and sets
// ValueSource to "data" (spec.md §4.4: "the value is copied by deep
// clone; valueSource is set to data").
func variableBodyFromAttrs(a VariableAttributes) node.VariableBody {
	return node.VariableBody{
		DataType:                a.DataType,
		ValueRank:               a.ValueRank,
		ArrayDimensions:         append([]uint32(nil), a.ArrayDimensions...),
		AccessLevel:             a.AccessLevel,
		UserAccessLevel:         a.UserAccessLevel,
		Historizing:             a.Historizing,
		MinimumSamplingInterval: a.MinimumSamplingInterval,
		ValueSource:             node.SourceData,
		InlineValue:             node.DataValue{Value: a.Value.Clone()},
	}
}

func attrMismatch(class node.Class) error {
	return statuscode.New("copyAttributes").Context(class.String()).
		Cause(statuscode.ErrNodeAttributesInvalid).Err()
}
