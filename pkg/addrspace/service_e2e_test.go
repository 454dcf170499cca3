package addrspace_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uacore/addrspace/pkg/addrspace"
	"github.com/uacore/addrspace/pkg/ids"
	"github.com/uacore/addrspace/pkg/node"
	"github.com/uacore/addrspace/pkg/statuscode"
)

// TestBatchWorkflow exercises a full AddNodes/AddReferences/DeleteNodes/
// DeleteReferences round trip through the batch service entry points,
// mirroring the teacher's end-to-end workflow tests in pkg/e2e.
func TestBatchWorkflow(t *testing.T) {
	as, store := newBatchTestSpace(t)

	addResults, err := as.AddNodes([]addrspace.AddNodesItem{
		{
			RequestedNodeId: ids.NewNumeric(1, 0),
			HasParent:       true,
			ParentNodeId:    addrspace.ObjectsFolder,
			ReferenceTypeId: addrspace.RefOrganizes,
			BrowseName:      ids.QualifiedName{NamespaceIndex: 1, Name: "Alpha"},
			NodeClass:       node.Object,
			Attributes:      addrspace.ObjectAttributes{},
		},
		{
			RequestedNodeId: ids.NewNumeric(1, 0),
			HasParent:       true,
			ParentNodeId:    addrspace.ObjectsFolder,
			ReferenceTypeId: addrspace.RefOrganizes,
			BrowseName:      ids.QualifiedName{NamespaceIndex: 1, Name: "Beta"},
			NodeClass:       node.Object,
			Attributes:      addrspace.ObjectAttributes{},
		},
	})
	require.NoError(t, err)
	require.Len(t, addResults, 2)
	for _, r := range addResults {
		assert.NoError(t, r.Err)
		assert.False(t, r.AssignedNodeId.IsNull())
	}
	alpha, beta := addResults[0].AssignedNodeId, addResults[1].AssignedNodeId

	refResults, err := as.AddReferences([]addrspace.AddReferencesItem{
		{SourceNodeId: alpha, ReferenceTypeId: addrspace.RefHasComponent, TargetNodeId: ids.Local(beta), IsForward: true},
	})
	require.NoError(t, err)
	require.Len(t, refResults, 1)
	assert.NoError(t, refResults[0].Err)

	an, err := store.Get(alpha)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, an.FindReference(addrspace.RefHasComponent, beta, false), 0)

	delRefResults, err := as.DeleteReferences([]addrspace.DeleteReferencesItem{
		{SourceNodeId: alpha, ReferenceTypeId: addrspace.RefHasComponent, TargetNodeId: ids.Local(beta), IsForward: true, DeleteBidirectional: true},
	})
	require.NoError(t, err)
	assert.NoError(t, delRefResults[0])

	delNodeResults, err := as.DeleteNodes([]addrspace.DeleteNodesItem{
		{NodeId: alpha, DeleteTargetReferences: true},
		{NodeId: beta, DeleteTargetReferences: true},
	})
	require.NoError(t, err)
	for _, derr := range delNodeResults {
		assert.NoError(t, derr)
	}

	_, err = store.Get(alpha)
	assert.Error(t, err, "Alpha should no longer be retrievable")
}

// TestBatchWorkflow_EmptyRequestReportsNothingToDo matches the OPC UA
// service convention that a request with zero items is itself an error,
// independent of any individual item outcome.
func TestBatchWorkflow_EmptyRequestReportsNothingToDo(t *testing.T) {
	as, _ := newBatchTestSpace(t)

	_, err := as.AddNodes(nil)
	assert.ErrorIs(t, err, statuscode.ErrNothingToDo)

	_, err = as.AddReferences(nil)
	assert.ErrorIs(t, err, statuscode.ErrNothingToDo)

	_, err = as.DeleteNodes(nil)
	assert.ErrorIs(t, err, statuscode.ErrNothingToDo)

	_, err = as.DeleteReferences(nil)
	assert.ErrorIs(t, err, statuscode.ErrNothingToDo)
}

func newBatchTestSpace(t *testing.T) (*addrspace.AddressSpace, *addrspace.Store) {
	t.Helper()
	store := addrspace.NewStore(2)

	seed := func(id ids.NodeId, class node.Class, name string) {
		n, err := store.NewNodeOfClass(class)
		require.NoError(t, err)
		n.NodeId = id
		n.BrowseName = ids.QualifiedName{NamespaceIndex: id.NamespaceIndex, Name: name}
		n.DisplayName = ids.LocalizedText{Text: name}
		_, err = store.Insert(n)
		require.NoError(t, err)
	}

	seed(addrspace.RefHierarchicalReferences, node.ReferenceType, "HierarchicalReferences")
	seed(addrspace.RefOrganizes, node.ReferenceType, "Organizes")
	seed(addrspace.RefAggregates, node.ReferenceType, "Aggregates")
	seed(addrspace.RefHasComponent, node.ReferenceType, "HasComponent")
	seed(addrspace.ObjectsFolder, node.Object, "Objects")

	link := func(child, parent ids.NodeId) {
		c, err := store.Get(child)
		require.NoError(t, err)
		p, err := store.Get(parent)
		require.NoError(t, err)
		c.AddReferenceUnchecked(node.Reference{ReferenceTypeId: addrspace.RefHasSubtype, Target: ids.Local(parent), IsInverse: true})
		p.AddReferenceUnchecked(node.Reference{ReferenceTypeId: addrspace.RefHasSubtype, Target: ids.Local(child), IsInverse: false})
	}
	link(addrspace.RefOrganizes, addrspace.RefHierarchicalReferences)
	link(addrspace.RefAggregates, addrspace.RefHierarchicalReferences)
	link(addrspace.RefHasComponent, addrspace.RefAggregates)

	as := addrspace.New(store, 2)
	return as, store
}
