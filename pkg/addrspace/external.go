package addrspace

import (
	"github.com/uacore/addrspace/pkg/ids"
)

// ExternalNamespace is the extension point of spec.md §6: a foreign
// handler that owns every node whose NodeId.NamespaceIndex matches the
// index it was registered under (WithExternalNamespace). Mutations
// targeting that namespace are routed here instead of the in-process
// NodeStore — grounded on the teacher's pkg/replication bridge
// (nng_primary.go), which forwards graph mutations across a process
// boundary over NNG/mangos rather than applying them locally; this
// package's extnamespace implementation uses the same transport for the
// OPC UA case.
type ExternalNamespace struct {
	// AddNode is invoked instead of the in-process add pipeline when
	// item.RequestedNodeId (or the store-assigned fresh id's namespace,
	// for a zero requested id) falls in this handler's namespace.
	AddNode func(item AddNodesItem) (ids.NodeId, error)

	// AddReference is invoked instead of the in-process reference manager
	// when sourceId's namespace belongs to this handler.
	AddReference func(sourceId ids.NodeId, referenceTypeId ids.NodeId, target ids.ExpandedNodeId, isForward bool) error

	// DeleteNode is invoked instead of the in-process deleter when id's
	// namespace belongs to this handler.
	DeleteNode func(id ids.NodeId, deleteTargetReferences bool) error

	// DeleteReference is invoked instead of the in-process reference
	// manager when sourceId's namespace belongs to this handler.
	DeleteReference func(sourceId ids.NodeId, referenceTypeId ids.NodeId, target ids.ExpandedNodeId, isForward, deleteBidirectional bool) error
}

// externalFor returns the registered handler for id's namespace, or nil
// when that namespace is served by the local store (the common case).
func (as *AddressSpace) externalFor(id ids.NodeId) *ExternalNamespace {
	ext, ok := as.externalNamespaces[id.NamespaceIndex]
	if !ok {
		return nil
	}
	return &ext
}
