package addrspace

import (
	"github.com/uacore/addrspace/pkg/ids"
	"github.com/uacore/addrspace/pkg/node"
	"github.com/uacore/addrspace/pkg/statuscode"
)

// deleteNode is the internal, already-locked half of the DeleteNodes
// service (spec.md §4.9). When deleteTargetReferences is true, every
// mirrored reference entry on the other endpoint of each of n's
// references is also removed (swap-with-last, per §9 Open Question 3);
// when false, dangling mirrors are left for the caller to clean up
// later via DeleteReferences, matching the OPC UA DeleteNodesItem flag
// of the same name.
func (as *AddressSpace) deleteNode(id ids.NodeId, deleteTargetReferences bool) error {
	n, err := as.store.Get(id)
	if err != nil {
		return statuscode.New("deleteNode").Node(id).Cause(statuscode.ErrNodeIdUnknown).Err()
	}

	if n.NodeClass == node.Object {
		as.runDestructors(n)
	}

	if deleteTargetReferences {
		for _, ref := range append([]node.Reference(nil), n.References...) {
			if !ref.Target.IsLocal() {
				continue
			}
			other, err := as.store.Get(ref.Target.NodeId)
			if err != nil {
				continue
			}
			if i := other.FindReference(ref.ReferenceTypeId, id, !ref.IsInverse); i >= 0 {
				other.RemoveReferenceAt(i)
			}
		}
	}

	return as.store.Remove(id)
}

// runDestructors invokes the destructor of the instance's type and of
// every supertype bearing lifecycle management, most-derived first
// (spec.md §4.6, §4.9). Construction is not symmetric: instantiateNode
// runs only the constructor of the instance's own type.
func (as *AddressSpace) runDestructors(n *node.Node) {
	typeRefs := n.ForwardReferencesOfType(RefHasTypeDefinition)
	if len(typeRefs) == 0 {
		return
	}
	chain, err := as.supertypeChain(typeRefs[0].Target.NodeId)
	if err != nil {
		return
	}
	for _, typeId := range chain {
		t, err := as.store.Get(typeId)
		if err != nil || t.NodeClass != node.ObjectType {
			continue
		}
		if t.ObjectTypeBody.Lifecycle.Destructor != nil {
			t.ObjectTypeBody.Lifecycle.Destructor(n.NodeId, n.ObjectBody.InstanceHandle)
		}
	}
}

// DeleteNode is the public, locking entry point for the DeleteNodes
// service.
func (as *AddressSpace) DeleteNode(id ids.NodeId, deleteTargetReferences bool) error {
	as.mu.Lock()
	defer as.mu.Unlock()

	if ext := as.externalFor(id); ext != nil && ext.DeleteNode != nil {
		return ext.DeleteNode(id, deleteTargetReferences)
	}

	err := as.deleteNode(id, deleteTargetReferences)
	as.recordMutation("deleteNode", err)
	return err
}
