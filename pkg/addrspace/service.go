package addrspace

import (
	"github.com/uacore/addrspace/pkg/ids"
	"github.com/uacore/addrspace/pkg/statuscode"
)

// AddNodesResult is one item's outcome from a batch AddNodes call.
type AddNodesResult struct {
	AssignedNodeId ids.NodeId
	Err            error
}

// AddReferencesResult is one item's outcome from a batch AddReferences
// call.
type AddReferencesResult struct {
	Err error
}

// AddReferencesItem is one item's input to a batch AddReferences call.
type AddReferencesItem struct {
	SourceNodeId    ids.NodeId
	ReferenceTypeId ids.NodeId
	TargetNodeId    ids.ExpandedNodeId
	IsForward       bool
}

// DeleteNodesItem is one item's input to a batch DeleteNodes call.
type DeleteNodesItem struct {
	NodeId                 ids.NodeId
	DeleteTargetReferences bool
}

// DeleteReferencesItem is one item's input to a batch DeleteReferences
// call.
type DeleteReferencesItem struct {
	SourceNodeId        ids.NodeId
	ReferenceTypeId     ids.NodeId
	TargetNodeId        ids.ExpandedNodeId
	IsForward           bool
	DeleteBidirectional bool
}

// AddNodes is the batch entry point of spec.md §6: each item is added
// independently (one item's failure does not abort the others) and
// results are returned in request order. An empty request reports
// NothingToDo on the batch as a whole, matching the OPC UA service
// convention for a request with no items.
func (as *AddressSpace) AddNodes(items []AddNodesItem) ([]AddNodesResult, error) {
	if len(items) == 0 {
		return nil, statuscode.New("AddNodes").Cause(statuscode.ErrNothingToDo).Err()
	}
	results := make([]AddNodesResult, len(items))
	for i, item := range items {
		id, err := as.AddNode(item)
		results[i] = AddNodesResult{AssignedNodeId: id, Err: err}
	}
	return results, nil
}

// AddReferences is the batch entry point for AddReference.
func (as *AddressSpace) AddReferences(items []AddReferencesItem) ([]AddReferencesResult, error) {
	if len(items) == 0 {
		return nil, statuscode.New("AddReferences").Cause(statuscode.ErrNothingToDo).Err()
	}
	results := make([]AddReferencesResult, len(items))
	for i, item := range items {
		err := as.AddReference(item.SourceNodeId, item.ReferenceTypeId, item.TargetNodeId, item.IsForward)
		results[i] = AddReferencesResult{Err: err}
	}
	return results, nil
}

// DeleteNodes is the batch entry point for DeleteNode.
func (as *AddressSpace) DeleteNodes(items []DeleteNodesItem) ([]error, error) {
	if len(items) == 0 {
		return nil, statuscode.New("DeleteNodes").Cause(statuscode.ErrNothingToDo).Err()
	}
	results := make([]error, len(items))
	for i, item := range items {
		results[i] = as.DeleteNode(item.NodeId, item.DeleteTargetReferences)
	}
	return results, nil
}

// DeleteReferences is the batch entry point for DeleteReference.
func (as *AddressSpace) DeleteReferences(items []DeleteReferencesItem) ([]error, error) {
	if len(items) == 0 {
		return nil, statuscode.New("DeleteReferences").Cause(statuscode.ErrNothingToDo).Err()
	}
	results := make([]error, len(items))
	for i, item := range items {
		results[i] = as.DeleteReference(item.SourceNodeId, item.ReferenceTypeId, item.TargetNodeId, item.IsForward, item.DeleteBidirectional)
	}
	return results, nil
}
