package addrspace

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/uacore/addrspace/pkg/ids"
	"github.com/uacore/addrspace/pkg/node"
)

// TestMutationInvariants uses property-based testing to check invariants
// that must hold for any sequence of AddNode/DeleteNode calls, mirroring
// the teacher's TestGraphInvariants (pkg/storage/property_test.go).
func TestMutationInvariants(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping property-based test in short mode")
	}

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 20 // reduced from the default 100 for reasonable test time

	properties := gopter.NewProperties(parameters)

	properties.Property("a node added under Objects is retrievable by its assigned id", prop.ForAll(
		func(name string) bool {
			as, store := newTestSpace(t)
			id, err := as.AddNode(AddNodesItem{
				RequestedNodeId: ids.NewNumeric(1, 0),
				HasParent:       true,
				ParentNodeId:    ObjectsFolder,
				ReferenceTypeId: RefOrganizes,
				BrowseName:      ids.QualifiedName{NamespaceIndex: 1, Name: name},
				NodeClass:       node.Object,
				Attributes:      ObjectAttributes{},
			})
			if err != nil {
				return true // an empty/duplicate browse name may legitimately fail
			}
			n, err := store.Get(id)
			return err == nil && n.BrowseName.Name == name
		},
		gen.AlphaString(),
	))

	properties.Property("add then delete leaves no trace in the store", prop.ForAll(
		func(name string) bool {
			as, store := newTestSpace(t)
			id, err := as.AddNode(AddNodesItem{
				RequestedNodeId: ids.NewNumeric(1, 0),
				HasParent:       true,
				ParentNodeId:    ObjectsFolder,
				ReferenceTypeId: RefOrganizes,
				BrowseName:      ids.QualifiedName{NamespaceIndex: 1, Name: name},
				NodeClass:       node.Object,
				Attributes:      ObjectAttributes{},
			})
			if err != nil {
				return true
			}
			if err := as.DeleteNode(id, true); err != nil {
				return false
			}
			_, err = store.Get(id)
			return err != nil
		},
		gen.AlphaString(),
	))

	properties.Property("duplicate forward references are always rejected", prop.ForAll(
		func(nameA, nameB string) bool {
			as, _ := newTestSpace(t)
			a, err := as.AddNode(AddNodesItem{
				RequestedNodeId: ids.NewNumeric(1, 0), HasParent: true, ParentNodeId: ObjectsFolder,
				ReferenceTypeId: RefOrganizes, BrowseName: ids.QualifiedName{NamespaceIndex: 1, Name: nameA},
				NodeClass: node.Object, Attributes: ObjectAttributes{},
			})
			if err != nil {
				return true
			}
			b, err := as.AddNode(AddNodesItem{
				RequestedNodeId: ids.NewNumeric(1, 0), HasParent: true, ParentNodeId: ObjectsFolder,
				ReferenceTypeId: RefOrganizes, BrowseName: ids.QualifiedName{NamespaceIndex: 1, Name: nameB},
				NodeClass: node.Object, Attributes: ObjectAttributes{},
			})
			if err != nil {
				return true
			}
			if err := as.AddReference(a, RefHasComponent, ids.Local(b), true); err != nil {
				return true
			}
			return as.AddReference(a, RefHasComponent, ids.Local(b), true) != nil
		},
		gen.AlphaString(),
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}
