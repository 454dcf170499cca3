package addrspace

import (
	"golang.org/x/exp/slices"

	"github.com/uacore/addrspace/pkg/ids"
	"github.com/uacore/addrspace/pkg/statuscode"
)

// maxSupertypeChain bounds the HasSubtype walk (spec.md §4.2: "cycles are
// impossible by construction... implementations must nevertheless bound
// recursion and report InternalError on cycle detection").
const maxSupertypeChain = 1000

// supertypeChain returns [start, super, super², …] by following inverse
// HasSubtype edges from start until a fixed point (spec.md §4.2).
func (as *AddressSpace) supertypeChain(start ids.NodeId) ([]ids.NodeId, error) {
	chain := []ids.NodeId{start}
	current := start

	for i := 0; i < maxSupertypeChain; i++ {
		n, err := as.store.Get(current)
		if err != nil {
			return nil, err
		}
		parents := n.InverseReferencesOfType(RefHasSubtype)
		if len(parents) == 0 {
			return chain, nil
		}
		current = parents[0].Target.NodeId
		chain = append(chain, current)
	}
	return nil, statuscode.New("supertypeChain").Cause(statuscode.ErrInternalError).
		Context("HasSubtype cycle detected").Err()
}

// isNodeInTree reports whether rootId is reachable from startId by
// forward traversal through any edge whose reference type is one of
// allowedRefTypes or a subtype of one of them (spec.md §4.2). Used by
// isSubtypeOfDataType to prove dataType subtyping.
func (as *AddressSpace) isNodeInTree(startId, rootId ids.NodeId, allowedRefTypes []ids.NodeId) bool {
	if startId.Equal(rootId) {
		return true
	}

	visited := map[string]bool{key(startId): true}
	queue := []ids.NodeId{startId}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		n, err := as.store.Get(current)
		if err != nil {
			continue
		}

		for _, ref := range n.References {
			if ref.IsInverse {
				continue
			}
			if !as.isSubtypeOfAny(ref.ReferenceTypeId, allowedRefTypes) {
				continue
			}
			target := ref.Target.NodeId
			if target.Equal(rootId) {
				return true
			}
			k := key(target)
			if !visited[k] {
				visited[k] = true
				queue = append(queue, target)
			}
		}
	}
	return false
}

// isSubtypeOfAny reports whether refType equals or is a HasSubtype
// descendant of any id in candidates.
func (as *AddressSpace) isSubtypeOfAny(refType ids.NodeId, candidates []ids.NodeId) bool {
	equalsOneOf := func(n ids.NodeId) bool {
		return slices.ContainsFunc(candidates, n.Equal)
	}
	if equalsOneOf(refType) {
		return true
	}
	// Walk refType's own supertype chain (it is itself a ReferenceType or
	// DataType node) and test membership.
	chain, err := as.supertypeChain(refType)
	if err != nil {
		return false
	}
	return slices.ContainsFunc(chain, equalsOneOf)
}

// isHierarchicalReferenceType reports whether refType is HierarchicalReferences
// or one of its subtypes (spec.md §4.3 step 5).
func (as *AddressSpace) isHierarchicalReferenceType(refType ids.NodeId) bool {
	return as.isSubtypeOfAny(refType, []ids.NodeId{RefHierarchicalReferences})
}

// isSubtypeOfDataType reports whether candidate is dataType or a subtype
// of it, used by the type checker (spec.md §4.5 step 4). Forward
// HasSubtype edges run from supertype to subtype, so the walk starts at
// `of` and looks for candidate.
func (as *AddressSpace) isSubtypeOfDataType(candidate, of ids.NodeId) bool {
	return as.isNodeInTree(of, candidate, []ids.NodeId{RefHasSubtype})
}
