package addrspace

import (
	"github.com/uacore/addrspace/pkg/ids"
	"github.com/uacore/addrspace/pkg/node"
	"github.com/uacore/addrspace/pkg/statuscode"
)

// instantiateNode materializes the type-mandated aggregated children of
// typeId and its supertypes into the already-inserted instance, invokes
// the type's constructor (if any), and attaches the forward
// HasTypeDefinition reference (spec.md §4.6). Only Object and Variable
// instances are instantiated; every other class is a no-op success.
func (as *AddressSpace) instantiateNode(instanceId ids.NodeId, class node.Class, typeId ids.NodeId) error {
	if class != node.Object && class != node.Variable {
		return nil
	}

	typeNode, err := as.store.Get(typeId)
	if err != nil {
		return statuscode.New("instantiateNode").Node(typeId).
			Cause(statuscode.ErrTypeDefinitionInvalid).Context("type not found").Err()
	}
	if !classMatchesTypeOf(class, typeNode.NodeClass) {
		return statuscode.New("instantiateNode").Node(typeId).
			Cause(statuscode.ErrTypeDefinitionInvalid).Context("wrong type class").Err()
	}
	if isAbstractType(typeNode) {
		return statuscode.New("instantiateNode").Node(typeId).
			Cause(statuscode.ErrTypeDefinitionInvalid).Context("type is abstract").Err()
	}

	chain, err := as.supertypeChain(typeId)
	if err != nil {
		return err
	}

	// Copy children most-derived-first (spec.md §9 Open Question 2).
	for _, superId := range chain {
		if err := as.copyChildNodes(superId, instanceId); err != nil {
			return err
		}
	}

	// Invoke the constructor of the instance's own type, if it has one.
	// Constructors registered on supertypes are not run; runDestructors,
	// by contrast, walks the whole supertype chain.
	if typeNode.NodeClass == node.ObjectType && typeNode.ObjectTypeBody.Lifecycle.Constructor != nil {
		handle, err := typeNode.ObjectTypeBody.Lifecycle.Constructor(instanceId)
		if err != nil {
			return statuscode.New("instantiateNode").Node(instanceId).Cause(err).
				Context("constructor failed").Err()
		}
		inst, err := as.store.Get(instanceId)
		if err != nil {
			return err
		}
		inst.ObjectBody.InstanceHandle = handle
	}

	if err := as.addOneWayReferencePair(instanceId, RefHasTypeDefinition, ids.Local(typeId), false); err != nil {
		return err
	}

	if as.instantiationHook != nil {
		inst, _ := as.store.Get(instanceId)
		var handle interface{}
		if inst != nil {
			handle = inst.ObjectBody.InstanceHandle
		}
		as.instantiationHook(instanceId, typeId, handle)
	}

	if as.metrics != nil {
		copied := 0
		if inst, err := as.store.Get(instanceId); err == nil {
			for _, r := range inst.References {
				if !r.IsInverse && as.isSubtypeOfAny(r.ReferenceTypeId, []ids.NodeId{RefAggregates}) {
					copied++
				}
			}
		}
		as.metrics.InstantiationChildren.Observe(float64(copied))
	}

	return nil
}

func classMatchesTypeOf(instanceClass node.Class, typeClass node.Class) bool {
	switch instanceClass {
	case node.Object:
		return typeClass == node.ObjectType
	case node.Variable:
		return typeClass == node.VariableType
	default:
		return false
	}
}

func isAbstractType(typeNode *node.Node) bool {
	switch typeNode.NodeClass {
	case node.ObjectType:
		return typeNode.ObjectTypeBody.IsAbstract
	case node.VariableType:
		return typeNode.VariableTypeBody.IsAbstract
	default:
		return false
	}
}

// copyChildNodes browses forward Aggregates (subtypes included) from
// source restricted to nodeClass ∈ {Object, Variable, Method}, and for
// each child either recurses into an existing same-browseName aggregate
// on dest (deep merge) or clones a fresh instance from the store and adds
// it via the full add pipeline (spec.md §4.6 step 3).
func (as *AddressSpace) copyChildNodes(sourceId, destId ids.NodeId) error {
	source, err := as.store.Get(sourceId)
	if err != nil {
		return err
	}

	aggregateRefTypes := []ids.NodeId{RefAggregates}
	for _, ref := range source.References {
		if ref.IsInverse {
			continue
		}
		if !as.isSubtypeOfAny(ref.ReferenceTypeId, aggregateRefTypes) {
			continue
		}

		child, err := as.store.Get(ref.Target.NodeId)
		if err != nil {
			continue
		}
		if child.NodeClass != node.Object && child.NodeClass != node.Variable && child.NodeClass != node.Method {
			continue
		}

		existing := as.findChildByBrowseName(destId, child.BrowseName)
		if existing != nil {
			if child.NodeClass == node.Method {
				// Methods are never duplicated — already referenced if
				// existing resolved to it; nothing further to do.
				continue
			}
			if err := as.copyChildNodes(ref.Target.NodeId, *existing); err != nil {
				return err
			}
			continue
		}

		if child.NodeClass == node.Method {
			if err := as.addOneWayReferencePair(destId, ref.ReferenceTypeId, ids.Local(ref.Target.NodeId), false); err != nil {
				return err
			}
			continue
		}

		clone := child.Clone()
		clone.NodeId = ids.NodeId{NamespaceIndex: destId.NamespaceIndex, Kind: ids.Numeric, Numeric: 0}
		clone.References = nil

		newId, err := as.addNodeBegin(clone)
		if err != nil {
			return err
		}

		var typeDef ids.NodeId
		hasType := false
		for _, r := range child.References {
			if !r.IsInverse && r.ReferenceTypeId.Equal(RefHasTypeDefinition) {
				typeDef = r.Target.NodeId
				hasType = true
				break
			}
		}
		if err := as.addNodeFinish(newId, clone.NodeClass, destId, ref.ReferenceTypeId, typeDef, hasType); err != nil {
			as.rollbackAddNode(newId)
			return err
		}
	}
	return nil
}

// findChildByBrowseName searches dest's existing forward Aggregates
// children for one whose BrowseName matches name.
func (as *AddressSpace) findChildByBrowseName(destId ids.NodeId, name ids.QualifiedName) *ids.NodeId {
	dest, err := as.store.Get(destId)
	if err != nil {
		return nil
	}
	for _, ref := range dest.References {
		if ref.IsInverse || !as.isSubtypeOfAny(ref.ReferenceTypeId, []ids.NodeId{RefAggregates}) {
			continue
		}
		child, err := as.store.Get(ref.Target.NodeId)
		if err != nil {
			continue
		}
		if child.BrowseName.Equal(name) {
			id := ref.Target.NodeId
			return &id
		}
	}
	return nil
}
