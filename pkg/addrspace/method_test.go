package addrspace

import (
	"testing"

	"github.com/uacore/addrspace/pkg/ids"
	"github.com/uacore/addrspace/pkg/node"
)

// TestAddMethodNode_AttachesArgumentProperties mirrors
// UA_Server_addMethodNode (ua_services_nodemanagement.c:902-1013): adding
// a Method with input and output arguments must attach both an
// InputArguments and an OutputArguments property Variable, each
// type-checked like any other child of the add pipeline.
func TestAddMethodNode_AttachesArgumentProperties(t *testing.T) {
	as, store := newTestSpace(t)

	methodId, err := as.AddMethodNode(AddNodesItem{
		RequestedNodeId: ids.NewNumeric(1, 0),
		HasParent:       true,
		ParentNodeId:    ObjectsFolder,
		ReferenceTypeId: RefHasComponent,
		BrowseName:      ids.QualifiedName{NamespaceIndex: 1, Name: "Reboot"},
		Attributes:      MethodAttributes{},
	}, []Argument{{Name: "delaySeconds"}}, []Argument{{Name: "accepted"}})
	if err != nil {
		t.Fatalf("AddMethodNode: %v", err)
	}
	if methodId.IsNull() {
		t.Fatal("expected a non-null assigned NodeId")
	}

	methodNode, err := store.Get(methodId)
	if err != nil {
		t.Fatalf("Get method node: %v", err)
	}
	if methodNode.NodeClass != node.Method {
		t.Fatalf("expected NodeClass Method, got %v", methodNode.NodeClass)
	}

	var inId, outId ids.NodeId
	for _, ref := range methodNode.References {
		if ref.IsInverse || !ref.ReferenceTypeId.Equal(RefHasProperty) {
			continue
		}
		child, err := store.Get(ref.Target.NodeId)
		if err != nil {
			t.Fatalf("Get property child: %v", err)
		}
		switch child.BrowseName.Name {
		case "InputArguments":
			inId = child.NodeId
		case "OutputArguments":
			outId = child.NodeId
		}
	}
	if inId.IsNull() {
		t.Fatal("expected an InputArguments property child")
	}
	if outId.IsNull() {
		t.Fatal("expected an OutputArguments property child")
	}

	inNode, err := store.Get(inId)
	if err != nil {
		t.Fatalf("Get InputArguments: %v", err)
	}
	if inNode.VariableBody.ValueRank != 1 {
		t.Fatalf("expected InputArguments ValueRank 1, got %d", inNode.VariableBody.ValueRank)
	}
	if !inNode.VariableBody.DataType.Equal(TypeArgument) {
		t.Fatalf("expected InputArguments DataType Argument, got %v", inNode.VariableBody.DataType)
	}
}

// TestAddMethodNode_NoArguments confirms a method with no input or output
// arguments attaches no property children, matching the original source's
// conditional (InputArguments/OutputArguments are only synthesized when
// the caller supplies a non-empty argument list).
func TestAddMethodNode_NoArguments(t *testing.T) {
	as, store := newTestSpace(t)

	methodId, err := as.AddMethodNode(AddNodesItem{
		RequestedNodeId: ids.NewNumeric(1, 0),
		HasParent:       true,
		ParentNodeId:    ObjectsFolder,
		ReferenceTypeId: RefHasComponent,
		BrowseName:      ids.QualifiedName{NamespaceIndex: 1, Name: "Ping"},
		Attributes:      MethodAttributes{},
	}, nil, nil)
	if err != nil {
		t.Fatalf("AddMethodNode: %v", err)
	}

	methodNode, err := store.Get(methodId)
	if err != nil {
		t.Fatalf("Get method node: %v", err)
	}
	for _, ref := range methodNode.References {
		if !ref.IsInverse && ref.ReferenceTypeId.Equal(RefHasProperty) {
			t.Fatal("expected no property children when no arguments are given")
		}
	}
}
