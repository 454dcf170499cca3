package addrspace

import (
	"github.com/uacore/addrspace/pkg/ids"
	"github.com/uacore/addrspace/pkg/node"
	"github.com/uacore/addrspace/pkg/statuscode"
)

// nameBaseDataVariableType is used for the bootstrap escape hatch in step 2.
var nameBaseDataVariableType = ids.QualifiedName{NamespaceIndex: 0, Name: "BaseDataVariableType"}

// typeCheckNode validates n (a Variable or VariableType) against its
// template vt (spec.md §4.5) — the hardest logic in the core. n must
// already be inserted in the store (so readVariableValue/writeVariableValue can address
// it by NodeId); the caller passes the live node so mutations (dataType
// defaulting, value synthesis, coercion) are visible to the rest of the
// add pipeline.
func (as *AddressSpace) typeCheckNode(n *node.Node, vtId ids.NodeId) error {
	if n.NodeClass != node.Variable && n.NodeClass != node.VariableType {
		return nil
	}

	body := variableBodyOf(n)

	// Step 1: default dataType to BaseDataType.
	if body.DataType.IsNull() {
		body.DataType = TypeBaseDataType
		setVariableBodyOf(n, body)
	}

	// Step 2: bootstrap escape hatch.
	if n.BrowseName.Equal(nameBaseDataVariableType) {
		return nil
	}

	vt, err := as.store.Get(vtId)
	if err != nil {
		return statuscode.New("typeCheckNode").Node(vtId).
			Cause(statuscode.ErrTypeDefinitionInvalid).Context("template not found").Err()
	}

	// Step 3.
	if vt.NodeClass != node.VariableType {
		return statuscode.New("typeCheckNode").Node(vtId).
			Cause(statuscode.ErrTypeDefinitionInvalid).Context("template is not a VariableType").Err()
	}
	if vt.VariableTypeBody.IsAbstract && n.NodeClass == node.Variable {
		return statuscode.New("typeCheckNode").Node(vtId).
			Cause(statuscode.ErrTypeDefinitionInvalid).Context("template is abstract").Err()
	}

	// Step 4.
	if !as.isSubtypeOfDataType(body.DataType, vt.VariableTypeBody.DataType) {
		return statuscode.New("typeCheckNode").Node(n.NodeId).
			Cause(statuscode.ErrTypeMismatch).Context("dataType not a subtype of template's dataType").Err()
	}

	// Step 5: read current value.
	value, err := as.readVariableValue(n, body)
	if err != nil {
		return err
	}

	// Step 6: synthesize a null value when empty and dataType is concrete.
	if value.IsNull() && !body.DataType.Equal(TypeBaseDataType) {
		if body.ValueRank == node.ValueRankOneOrMoreDims || body.ValueRank >= 1 {
			value = node.ArrayValue(node.KindNull, nil)
		} else {
			value = zeroScalarFor(body.DataType)
		}
		if err := as.writeVariableValue(n, body, value); err != nil {
			return err
		}
	}

	// Step 7: reconcile valueRank with value shape.
	if len(body.ArrayDimensions) == 0 {
		if !value.IsArray() && body.ValueRank == 0 {
			body.ValueRank = vt.VariableTypeBody.ValueRank
		}
	}
	if value.IsArray() && body.ValueRank == 1 {
		body.ArrayDimensions = []uint32{1}
	}

	// Step 8: rank/dimension compatibility.
	if !compatibleValueRankArrayDimensions(body.ValueRank, len(body.ArrayDimensions)) {
		return statuscode.New("typeCheckNode").Node(n.NodeId).
			Cause(statuscode.ErrTypeMismatch).Context("valueRank incompatible with arrayDimensions").Err()
	}
	if !compatibleValueRanks(body.ValueRank, vt.VariableTypeBody.ValueRank) {
		return statuscode.New("typeCheckNode").Node(n.NodeId).
			Cause(statuscode.ErrTypeMismatch).Context("valueRank incompatible with template").Err()
	}
	if !compatibleArrayDimensions(body.ArrayDimensions, vt.VariableTypeBody.ArrayDimensions) {
		return statuscode.New("typeCheckNode").Node(n.NodeId).
			Cause(statuscode.ErrTypeMismatch).Context("arrayDimensions incompatible with template").Err()
	}

	setVariableBodyOf(n, body)

	// Step 9: coerce the stored value to the declared dataType for inline
	// sources only.
	if body.ValueSource == node.SourceData {
		coerced, err := typeCheckValue(value, body.DataType)
		if err != nil {
			return statuscode.New("typeCheckNode").Node(n.NodeId).
				Cause(statuscode.ErrTypeMismatch).Context(err.Error()).Err()
		}
		return as.writeVariableValue(n, body, coerced)
	}

	return nil
}

// variableBodyOf extracts the (shared) VariableBody view regardless of
// whether n is a Variable or VariableType.
func variableBodyOf(n *node.Node) node.VariableBody {
	if n.NodeClass == node.VariableType {
		return n.VariableTypeBody.VariableBody
	}
	return n.VariableBody
}

func setVariableBodyOf(n *node.Node, body node.VariableBody) {
	if n.NodeClass == node.VariableType {
		n.VariableTypeBody.VariableBody = body
	} else {
		n.VariableBody = body
	}
}

// readVariableValue reads n's current value through its normal read path:
// inline storage, or the external DataSource's Read callback (spec.md
// §4.5 step 5; §5 "suspension points" — DataSource callbacks run
// synchronously inside the writer section).
func (as *AddressSpace) readVariableValue(n *node.Node, body node.VariableBody) (node.Value, error) {
	if body.ValueSource == node.SourceDataSource && body.ExternalSource != nil {
		dv, err := body.ExternalSource.Read(body.ExternalSource.Handle, n.NodeId)
		if err != nil {
			return node.Value{}, statuscode.New("readVariableValue").Node(n.NodeId).Cause(err).Err()
		}
		if dv == nil {
			return node.NullValue(), nil
		}
		return dv.Value, nil
	}
	return body.InlineValue.Value, nil
}

// writeVariableValue writes through n's normal write path, invoking the
// write-through callback for inline values when one is registered.
func (as *AddressSpace) writeVariableValue(n *node.Node, body node.VariableBody, value node.Value) error {
	if body.ValueSource == node.SourceDataSource && body.ExternalSource != nil {
		dv := &node.DataValue{Value: value}
		if err := body.ExternalSource.Write(body.ExternalSource.Handle, n.NodeId, dv); err != nil {
			return statuscode.New("writeVariableValue").Node(n.NodeId).Cause(err).Err()
		}
		return nil
	}

	body.InlineValue.Value = value
	setVariableBodyOf(n, body)
	if body.WriteCallback != nil {
		if err := body.WriteCallback(n.NodeId, &body.InlineValue); err != nil {
			return statuscode.New("writeVariableValue").Node(n.NodeId).Cause(err).Err()
		}
	}
	return nil
}

func zeroScalarFor(dataType ids.NodeId) node.Value {
	switch {
	case dataType.Equal(TypeInt32):
		return node.Int32Value(0)
	case dataType.Equal(TypeDouble):
		return node.DoubleValue(0)
	case dataType.Equal(TypeString):
		return node.StringValue("")
	default:
		return node.NullValue()
	}
}

// typeCheckValue coerces value to dataType's builtin kind (spec.md §4.5
// step 9), returning a TypeMismatch-flavored error when no coercion
// exists.
func typeCheckValue(value node.Value, dataType ids.NodeId) (node.Value, error) {
	if value.IsNull() || value.IsArray() {
		return value, nil
	}
	want := builtinKindFor(dataType)
	if want == node.KindNull || value.Kind == want {
		return value, nil
	}
	return value, statuscode.ErrTypeMismatch
}

func builtinKindFor(dataType ids.NodeId) node.ValueKind {
	switch {
	case dataType.Equal(TypeInt32):
		return node.KindInt32
	case dataType.Equal(TypeDouble):
		return node.KindDouble
	case dataType.Equal(TypeString):
		return node.KindString
	default:
		return node.KindNull
	}
}

// compatibleValueRankArrayDimensions implements spec.md §4.5 step 8a.
func compatibleValueRankArrayDimensions(rank int32, dimsCount int) bool {
	switch rank {
	case node.ValueRankAny, node.ValueRankScalarOrArray, node.ValueRankScalar:
		return dimsCount == 0
	default:
		if rank >= 1 {
			return dimsCount == int(rank)
		}
		// ValueRankOneOrMoreDims (0): any non-negative dimsCount is fine.
		return true
	}
}

// compatibleValueRanks implements spec.md §4.5 step 8b: child ⊑ parent
// under {any ⊒ scalarOrArray ⊒ {scalar, oneOrMoreDim}, positive n only ⊑
// itself or the permissive parents}.
func compatibleValueRanks(child, parent int32) bool {
	if child == parent {
		return true
	}
	switch parent {
	case node.ValueRankAny:
		return true
	case node.ValueRankScalarOrArray:
		return child == node.ValueRankScalar || child == node.ValueRankOneOrMoreDims || child >= 1
	default:
		return false
	}
}

// compatibleArrayDimensions implements spec.md §4.5 step 8c.
func compatibleArrayDimensions(child, parent []uint32) bool {
	if len(parent) == 0 {
		return true
	}
	if len(child) != len(parent) {
		return false
	}
	for i := range child {
		if parent[i] != 0 && child[i] != parent[i] {
			return false
		}
	}
	return true
}
