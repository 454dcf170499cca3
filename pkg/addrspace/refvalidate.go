package addrspace

import (
	"github.com/uacore/addrspace/pkg/ids"
	"github.com/uacore/addrspace/pkg/node"
	"github.com/uacore/addrspace/pkg/statuscode"
)

// checkParentReference validates a prospective parent/reference-type pair
// for a node of the given class (spec.md §4.3). Objects being added as
// orphans (both parentId and referenceTypeId nil) bypass this check
// entirely — see addNodeFinish.
func (as *AddressSpace) checkParentReference(class node.Class, parentId ids.NodeId, referenceTypeId ids.NodeId) error {
	parent, err := as.store.Get(parentId)
	if err != nil {
		return statuscode.New("checkParentReference").Node(parentId).
			Cause(statuscode.ErrParentNodeIdInvalid).Context("parent not found").Err()
	}

	refType, err := as.store.Get(referenceTypeId)
	if err != nil || refType.NodeClass != node.ReferenceType {
		return statuscode.New("checkParentReference").Node(referenceTypeId).
			Cause(statuscode.ErrReferenceTypeIdInvalid).Context("not a ReferenceType").Err()
	}

	if refType.ReferenceTypeBody.IsAbstract {
		return statuscode.New("checkParentReference").Node(referenceTypeId).
			Cause(statuscode.ErrReferenceNotAllowed).Context("reference type is abstract").Err()
	}

	if class.IsTypeClass() {
		if !referenceTypeId.Equal(RefHasSubtype) {
			return statuscode.New("checkParentReference").Node(referenceTypeId).
				Cause(statuscode.ErrReferenceNotAllowed).Context("type nodes require HasSubtype").Err()
		}
		if parent.NodeClass != class {
			return statuscode.New("checkParentReference").Node(parentId).
				Cause(statuscode.ErrParentNodeIdInvalid).Context("parent node class mismatch").Err()
		}
		return nil
	}

	if !as.isHierarchicalReferenceType(referenceTypeId) {
		return statuscode.New("checkParentReference").Node(referenceTypeId).
			Cause(statuscode.ErrReferenceTypeIdInvalid).Context("not a hierarchical reference type").Err()
	}

	return nil
}
