package addrspace

import (
	"testing"

	"github.com/uacore/addrspace/pkg/ids"
	"github.com/uacore/addrspace/pkg/logging"
	"github.com/uacore/addrspace/pkg/node"
)

// newTestSpace builds a two-namespace AddressSpace seeded with the
// handful of namespace-0 type/reference nodes the tests below depend on,
// mirroring the teacher's newPropertyTestStorage helper (property_test.go).
func newTestSpace(t *testing.T) (*AddressSpace, *Store) {
	t.Helper()
	store := NewStore(2)

	seed := func(id ids.NodeId, class node.Class, name string) {
		n, err := store.NewNodeOfClass(class)
		if err != nil {
			t.Fatalf("NewNodeOfClass: %v", err)
		}
		n.NodeId = id
		n.BrowseName = ids.QualifiedName{NamespaceIndex: id.NamespaceIndex, Name: name}
		n.DisplayName = ids.LocalizedText{Text: name}
		if _, err := store.Insert(n); err != nil {
			t.Fatalf("seed insert %s: %v", name, err)
		}
	}

	seed(TypeBaseObjectType, node.ObjectType, "BaseObjectType")
	seed(TypeBaseDataType, node.DataType, "BaseDataType")
	seed(TypeInt32, node.DataType, "Int32")
	seed(TypeDouble, node.DataType, "Double")
	seed(TypeString, node.DataType, "String")
	seed(TypeArgument, node.DataType, "Argument")
	seed(RefHierarchicalReferences, node.ReferenceType, "HierarchicalReferences")
	seed(RefOrganizes, node.ReferenceType, "Organizes")
	seed(RefAggregates, node.ReferenceType, "Aggregates")
	seed(RefHasComponent, node.ReferenceType, "HasComponent")
	seed(RefHasProperty, node.ReferenceType, "HasProperty")
	seed(RefHasSubtype, node.ReferenceType, "HasSubtype")
	seed(RefHasTypeDefinition, node.ReferenceType, "HasTypeDefinition")
	seed(ObjectsFolder, node.Object, "Objects")

	bvt, _ := store.NewNodeOfClass(node.VariableType)
	bvt.NodeId = TypeBaseVariableType
	bvt.BrowseName = ids.QualifiedName{Name: "BaseVariableType"}
	bvt.VariableTypeBody.DataType = TypeBaseDataType
	bvt.VariableTypeBody.ValueRank = node.ValueRankAny
	store.Insert(bvt)

	bdvt, _ := store.NewNodeOfClass(node.VariableType)
	bdvt.NodeId = TypeBaseDataVariableType
	bdvt.BrowseName = ids.QualifiedName{Name: "BaseDataVariableType"}
	bdvt.VariableTypeBody.DataType = TypeBaseDataType
	bdvt.VariableTypeBody.ValueRank = node.ValueRankAny
	store.Insert(bdvt)

	link := func(child, parent ids.NodeId) {
		c, _ := store.Get(child)
		p, _ := store.Get(parent)
		c.AddReferenceUnchecked(node.Reference{ReferenceTypeId: RefHasSubtype, Target: ids.Local(parent), IsInverse: true})
		p.AddReferenceUnchecked(node.Reference{ReferenceTypeId: RefHasSubtype, Target: ids.Local(child), IsInverse: false})
	}
	link(RefOrganizes, RefHierarchicalReferences)
	link(RefAggregates, RefHierarchicalReferences)
	link(RefHasComponent, RefAggregates)
	link(RefHasProperty, RefAggregates)
	link(TypeInt32, TypeBaseDataType)
	link(TypeDouble, TypeBaseDataType)
	link(TypeString, TypeBaseDataType)
	link(TypeArgument, TypeBaseDataType)
	link(TypeBaseDataVariableType, TypeBaseVariableType)

	as := New(store, 2, WithLogger(logging.NewNopLogger()))
	return as, store
}

func TestAddNode_SimpleVariable(t *testing.T) {
	as, _ := newTestSpace(t)

	id, err := as.AddNode(AddNodesItem{
		RequestedNodeId:   ids.NewNumeric(1, 0),
		HasParent:         true,
		ParentNodeId:      ObjectsFolder,
		ReferenceTypeId:   RefOrganizes,
		BrowseName:        ids.QualifiedName{NamespaceIndex: 1, Name: "Counter"},
		NodeClass:         node.Variable,
		HasTypeDefinition: true,
		TypeDefinition:    TypeBaseDataVariableType,
		Attributes: VariableAttributes{
			DataType:  TypeInt32,
			ValueRank: node.ValueRankScalar,
			Value:     node.Int32Value(42),
		},
	})
	if err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	if id.IsNull() {
		t.Fatal("expected a non-null assigned NodeId")
	}

	n, err := as.Store().Get(id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if n.NodeClass != node.Variable {
		t.Errorf("NodeClass = %v, want Variable", n.NodeClass)
	}
	if n.VariableBody.InlineValue.Value.Kind != node.KindInt32 {
		t.Errorf("value kind = %v, want Int32", n.VariableBody.InlineValue.Value.Kind)
	}

	parent, _ := as.Store().Get(ObjectsFolder)
	if parent.FindReference(RefOrganizes, id, false) < 0 {
		t.Error("parent missing forward Organizes reference to the new node")
	}
	if n.FindReference(RefOrganizes, ObjectsFolder, true) < 0 {
		t.Error("new node missing inverse Organizes mirror")
	}
}

func TestAddNode_RejectsBadParentReference(t *testing.T) {
	as, _ := newTestSpace(t)

	_, err := as.AddNode(AddNodesItem{
		RequestedNodeId: ids.NewNumeric(1, 0),
		HasParent:       true,
		ParentNodeId:    ObjectsFolder,
		ReferenceTypeId: RefHasSubtype, // not hierarchical for a non-type node
		BrowseName:      ids.QualifiedName{NamespaceIndex: 1, Name: "Bad"},
		NodeClass:       node.Object,
		Attributes:      ObjectAttributes{},
	})
	if err == nil {
		t.Fatal("expected an error for a non-hierarchical parent reference type")
	}
}

func TestAddNode_TypeMismatchRejected(t *testing.T) {
	as, _ := newTestSpace(t)

	_, err := as.AddNode(AddNodesItem{
		RequestedNodeId:   ids.NewNumeric(1, 0),
		HasParent:         true,
		ParentNodeId:      ObjectsFolder,
		ReferenceTypeId:   RefOrganizes,
		BrowseName:        ids.QualifiedName{NamespaceIndex: 1, Name: "BadVar"},
		NodeClass:         node.Variable,
		HasTypeDefinition: true,
		TypeDefinition:    TypeBaseDataVariableType,
		Attributes: VariableAttributes{
			DataType:  TypeInt32,
			ValueRank: node.ValueRankScalar,
			Value:     node.StringValue("not an int32"),
		},
	})
	if err == nil {
		t.Fatal("expected a type mismatch error for a String value on an Int32 variable")
	}
}

func TestInstantiate_CopiesAggregatedChildren(t *testing.T) {
	as, store := newTestSpace(t)

	pumpType, err := as.AddNode(AddNodesItem{
		RequestedNodeId: ids.NewNumeric(1, 0),
		HasParent:       true,
		ParentNodeId:    TypeBaseObjectType,
		ReferenceTypeId: RefHasSubtype,
		BrowseName:      ids.QualifiedName{NamespaceIndex: 1, Name: "PumpType"},
		NodeClass:       node.ObjectType,
		Attributes:      ObjectTypeAttributes{IsAbstract: false},
	})
	if err != nil {
		t.Fatalf("add PumpType: %v", err)
	}

	_, err = as.AddNode(AddNodesItem{
		RequestedNodeId:   ids.NewNumeric(1, 0),
		HasParent:         true,
		ParentNodeId:      pumpType,
		ReferenceTypeId:   RefHasProperty,
		BrowseName:        ids.QualifiedName{NamespaceIndex: 1, Name: "Temperature"},
		NodeClass:         node.Variable,
		HasTypeDefinition: true,
		TypeDefinition:    TypeBaseDataVariableType,
		Attributes: VariableAttributes{
			DataType:  TypeDouble,
			ValueRank: node.ValueRankScalar,
			Value:     node.DoubleValue(0),
		},
	})
	if err != nil {
		t.Fatalf("add Temperature: %v", err)
	}

	pump1, err := as.AddNode(AddNodesItem{
		RequestedNodeId:   ids.NewNumeric(1, 0),
		HasParent:         true,
		ParentNodeId:      ObjectsFolder,
		ReferenceTypeId:   RefOrganizes,
		BrowseName:        ids.QualifiedName{NamespaceIndex: 1, Name: "Pump1"},
		NodeClass:         node.Object,
		HasTypeDefinition: true,
		TypeDefinition:    pumpType,
		Attributes:        ObjectAttributes{},
	})
	if err != nil {
		t.Fatalf("instantiate Pump1: %v", err)
	}

	n, err := store.Get(pump1)
	if err != nil {
		t.Fatalf("Get Pump1: %v", err)
	}
	props := n.ForwardReferencesOfType(RefHasProperty)
	if len(props) != 1 {
		t.Fatalf("Pump1 has %d HasProperty children, want 1", len(props))
	}

	child, err := store.Get(props[0].Target.NodeId)
	if err != nil {
		t.Fatalf("Get copied child: %v", err)
	}
	if !child.BrowseName.Equal(ids.QualifiedName{NamespaceIndex: 1, Name: "Temperature"}) {
		t.Errorf("copied child browseName = %v, want Temperature", child.BrowseName)
	}
	if child.NodeId.Equal(n.NodeId) {
		t.Error("copied child must have its own identity, not the instance's")
	}
}

func TestDeleteNode_TearsDownReferenceMirrors(t *testing.T) {
	as, store := newTestSpace(t)

	id, err := as.AddNode(AddNodesItem{
		RequestedNodeId: ids.NewNumeric(1, 0),
		HasParent:       true,
		ParentNodeId:    ObjectsFolder,
		ReferenceTypeId: RefOrganizes,
		BrowseName:      ids.QualifiedName{NamespaceIndex: 1, Name: "Temp"},
		NodeClass:       node.Object,
		Attributes:      ObjectAttributes{},
	})
	if err != nil {
		t.Fatalf("AddNode: %v", err)
	}

	if err := as.DeleteNode(id, true); err != nil {
		t.Fatalf("DeleteNode: %v", err)
	}

	if _, err := store.Get(id); err == nil {
		t.Error("deleted node is still retrievable")
	}

	parent, _ := store.Get(ObjectsFolder)
	if parent.FindReference(RefOrganizes, id, false) >= 0 {
		t.Error("parent still references the deleted node")
	}
}

func TestAddReference_DuplicateRejected(t *testing.T) {
	as, _ := newTestSpace(t)

	a, _ := as.AddNode(AddNodesItem{
		RequestedNodeId: ids.NewNumeric(1, 0), HasParent: true, ParentNodeId: ObjectsFolder,
		ReferenceTypeId: RefOrganizes, BrowseName: ids.QualifiedName{NamespaceIndex: 1, Name: "A"},
		NodeClass: node.Object, Attributes: ObjectAttributes{},
	})
	b, _ := as.AddNode(AddNodesItem{
		RequestedNodeId: ids.NewNumeric(1, 0), HasParent: true, ParentNodeId: ObjectsFolder,
		ReferenceTypeId: RefOrganizes, BrowseName: ids.QualifiedName{NamespaceIndex: 1, Name: "B"},
		NodeClass: node.Object, Attributes: ObjectAttributes{},
	})

	if err := as.AddReference(a, RefOrganizes, ids.Local(b), true); err != nil {
		t.Fatalf("first AddReference: %v", err)
	}
	if err := as.AddReference(a, RefOrganizes, ids.Local(b), true); err == nil {
		t.Fatal("expected the duplicate reference to be rejected")
	}
}

func TestDeleteReference_RoundTrip(t *testing.T) {
	as, _ := newTestSpace(t)

	a, _ := as.AddNode(AddNodesItem{
		RequestedNodeId: ids.NewNumeric(1, 0), HasParent: true, ParentNodeId: ObjectsFolder,
		ReferenceTypeId: RefOrganizes, BrowseName: ids.QualifiedName{NamespaceIndex: 1, Name: "A"},
		NodeClass: node.Object, Attributes: ObjectAttributes{},
	})
	b, _ := as.AddNode(AddNodesItem{
		RequestedNodeId: ids.NewNumeric(1, 0), HasParent: true, ParentNodeId: ObjectsFolder,
		ReferenceTypeId: RefOrganizes, BrowseName: ids.QualifiedName{NamespaceIndex: 1, Name: "B"},
		NodeClass: node.Object, Attributes: ObjectAttributes{},
	})
	if err := as.AddReference(a, RefHasComponent, ids.Local(b), true); err != nil {
		t.Fatalf("AddReference: %v", err)
	}

	if err := as.DeleteReference(a, RefHasComponent, ids.Local(b), true, true); err != nil {
		t.Fatalf("DeleteReference: %v", err)
	}

	na, _ := as.Store().Get(a)
	nb, _ := as.Store().Get(b)
	if na.FindReference(RefHasComponent, b, false) >= 0 {
		t.Error("forward half survived deletion")
	}
	if nb.FindReference(RefHasComponent, a, true) >= 0 {
		t.Error("inverse half survived deletion")
	}
}
