package addrspace

import (
	"github.com/uacore/addrspace/pkg/ids"
	"github.com/uacore/addrspace/pkg/node"
	"github.com/uacore/addrspace/pkg/statuscode"
)

// addNodeBegin inserts an already attribute-populated node into the
// store and returns its assigned identity. Splitting insertion from
// validation (addNodeFinish) lets copyChildNodes obtain a child's final
// NodeId before its parent reference and instantiation are validated —
// spec.md §4.7's two-phase add, needed because recursive instantiation
// must be able to name a not-yet-fully-validated child as a reference
// target.
func (as *AddressSpace) addNodeBegin(n *node.Node) (ids.NodeId, error) {
	return as.store.Insert(n)
}

// addNodeFinish validates and wires the parent reference (when one was
// requested), type-checks Variable/VariableType bodies, and, for
// Object/Variable instances, runs the instantiator. This runs
// identically for every caller — the public AddNode entry point and the
// internal clone-and-finish path copyChildNodes uses to materialize a
// type's aggregated children — so a type-mandated child is type-checked
// exactly like a directly added node (spec.md §4.7 step list: typeCheck
// is a step of addNode_finish, not of the public service only; §4.6
// step 3: cloned children go "through the full add pipeline"). On
// failure the node is left in the store, possibly partly wired: the
// caller is responsible for calling rollbackAddNode(id) on error.
func (as *AddressSpace) addNodeFinish(id ids.NodeId, class node.Class, parentId ids.NodeId, referenceTypeId ids.NodeId, typeDefId ids.NodeId, hasTypeDef bool) error {
	if !parentId.IsNull() {
		if err := as.checkParentReference(class, parentId, referenceTypeId); err != nil {
			return err
		}
		if err := as.addOneWayReferencePair(parentId, referenceTypeId, ids.Local(id), false); err != nil {
			return err
		}
	}

	if class == node.Variable || class == node.VariableType {
		vtId := typeDefId
		if !hasTypeDef {
			vtId = defaultVariableTemplate(class)
		}
		n, err := as.store.Get(id)
		if err != nil {
			return err
		}
		if err := as.typeCheckNode(n, vtId); err != nil {
			return err
		}
	}

	if hasTypeDef {
		if err := as.instantiateNode(id, class, typeDefId); err != nil {
			return err
		}
	}

	return nil
}

// rollbackAddNode undoes a partially completed add: the children that
// instantiation copied onto the node (forward Aggregates targets other
// than shared Method nodes) are rolled back first, then every reference
// mirror the node may have accumulated is torn down and the node is
// freed from the store (spec.md §4.7 "on any failure, the node as a
// whole is rolled back").
func (as *AddressSpace) rollbackAddNode(id ids.NodeId) {
	if n, err := as.store.Get(id); err == nil {
		for _, ref := range append([]node.Reference(nil), n.References...) {
			if ref.IsInverse || !ref.Target.IsLocal() || !as.isSubtypeOfAny(ref.ReferenceTypeId, []ids.NodeId{RefAggregates}) {
				continue
			}
			if child, err := as.store.Get(ref.Target.NodeId); err == nil && child.NodeClass != node.Method {
				as.rollbackAddNode(ref.Target.NodeId)
			}
		}
	}
	_ = as.deleteNode(id, true)
}

// defaultVariableTemplate picks the template to type-check against when
// an AddNodesItem names no explicit TypeDefinition, mirroring OPC UA's
// own default of BaseDataVariableType/BaseVariableType.
func defaultVariableTemplate(class node.Class) ids.NodeId {
	if class == node.VariableType {
		return TypeBaseVariableType
	}
	return TypeBaseDataVariableType
}

// AddNode is the public, locking entry point for the AddNodes service
// (spec.md §6, §4.4–§4.7): copy attributes, validate and wire the parent
// reference, type-check Variable/VariableType bodies, then instantiate.
// Any failure at any step rolls the whole node back; nothing partially
// added is ever left in the store.
func (as *AddressSpace) AddNode(item AddNodesItem) (ids.NodeId, error) {
	as.mu.Lock()
	defer as.mu.Unlock()

	if ext := as.externalNamespaces[item.RequestedNodeId.NamespaceIndex]; ext.AddNode != nil {
		return ext.AddNode(item)
	}

	if item.RequestedNodeId.NamespaceIndex >= as.namespaceCount {
		err := statuscode.New("AddNode").Node(item.RequestedNodeId).Cause(statuscode.ErrNodeIdInvalid).
			Context("namespace index out of range").Err()
		as.recordMutation("addNode", err)
		return ids.NodeId{}, err
	}

	if item.HasParent {
		if err := as.checkParentReference(item.NodeClass, item.ParentNodeId, item.ReferenceTypeId); err != nil {
			return ids.NodeId{}, err
		}
	} else if !item.ReferenceTypeId.IsNull() {
		return ids.NodeId{}, statuscode.New("AddNode").Cause(statuscode.ErrParentNodeIdInvalid).
			Context("referenceTypeId given without a parent").Err()
	}

	n, err := as.copyAttributes(item)
	if err != nil {
		as.recordMutation("addNode", err)
		return ids.NodeId{}, err
	}

	id, err := as.addNodeBegin(n)
	if err != nil {
		as.recordMutation("addNode", err)
		return ids.NodeId{}, err
	}

	parentId := ids.NodeId{}
	if item.HasParent {
		parentId = item.ParentNodeId
	}
	typeDefId := ids.NodeId{}
	if item.HasTypeDefinition {
		typeDefId = item.TypeDefinition
	}

	if err := as.addNodeFinish(id, item.NodeClass, parentId, item.ReferenceTypeId, typeDefId, item.HasTypeDefinition); err != nil {
		as.rollbackAddNode(id)
		as.recordMutation("addNode", err)
		return ids.NodeId{}, err
	}

	as.recordMutation("addNode", nil)
	return id, nil
}

// recordMutation reports a mutation outcome to the metrics registry, a
// no-op when none was configured (spec.md's Non-goals exclude
// observability as a feature, but the teacher always instruments its
// storage mutators — see pkg/storage/storage.go — so the hook point is
// carried regardless).
func (as *AddressSpace) recordMutation(op string, err error) {
	if as.metrics == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	as.metrics.MutationsTotal.WithLabelValues(op, status).Inc()
	if err != nil {
		return
	}
	switch op {
	case "addNode":
		as.metrics.NodesTotal.Inc()
	case "deleteNode":
		as.metrics.NodesTotal.Dec()
	case "addReference":
		as.metrics.ReferencesTotal.Inc()
	case "deleteReference":
		as.metrics.ReferencesTotal.Dec()
	}
}
