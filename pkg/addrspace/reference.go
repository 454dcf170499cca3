package addrspace

import (
	"errors"

	"github.com/uacore/addrspace/pkg/ids"
	"github.com/uacore/addrspace/pkg/node"
	"github.com/uacore/addrspace/pkg/statuscode"
)

// addOneWayReference appends a single directed reference entry to the
// node identified by sourceId, enforcing the no-duplicates invariant
// (spec.md §3 invariant 2; §9 Open Question 1 resolved in favor of
// rejecting duplicates on insert — SPEC_FULL.md "Supplemented
// Features"). isInverse selects which mirror of the pair this call is
// writing; callers needing both directions use addOneWayReferencePair.
func (as *AddressSpace) addOneWayReference(sourceId, refType ids.NodeId, target ids.ExpandedNodeId, isInverse bool) error {
	n, err := as.store.Get(sourceId)
	if err != nil {
		return statuscode.New("addOneWayReference").Node(sourceId).
			Cause(statuscode.ErrNodeIdUnknown).Err()
	}
	if n.FindReference(refType, target.NodeId, isInverse) >= 0 {
		return statuscode.New("addOneWayReference").Node(sourceId).Reference().
			Cause(statuscode.ErrDuplicateReference).Err()
	}
	n.AddReferenceUnchecked(node.Reference{ReferenceTypeId: refType, Target: target, IsInverse: isInverse})
	return nil
}

// addOneWayReferencePair adds the forward reference on sourceId and the
// mirrored inverse reference on target's node (when target is local),
// rolling the forward half back if the inverse half fails — spec.md §4.8
// "addReference: an atomic pair; on failure of either half, roll back the
// other." Non-local targets (target.IsLocal() == false) only get the
// forward half; there is no local inverse mirror to maintain.
func (as *AddressSpace) addOneWayReferencePair(sourceId, refType ids.NodeId, target ids.ExpandedNodeId, allowDuplicate bool) error {
	if err := as.addOneWayReference(sourceId, refType, target, false); err != nil {
		if allowDuplicate && errors.Is(err, statuscode.ErrDuplicateReference) {
			return nil
		}
		return err
	}

	if !target.IsLocal() {
		return nil
	}

	if err := as.addOneWayReference(target.NodeId, refType, ids.Local(sourceId), true); err != nil {
		as.deleteOneWayReference(sourceId, refType, target, false)
		if allowDuplicate && errors.Is(err, statuscode.ErrDuplicateReference) {
			return nil
		}
		return err
	}
	return nil
}

// AddReference is the public, locking entry point for the AddReferences
// service (spec.md §6): it validates both endpoints exist, that
// referenceTypeId names an actual (non-abstract) ReferenceType, and adds
// the bidirectional pair.
func (as *AddressSpace) AddReference(sourceId, referenceTypeId ids.NodeId, target ids.ExpandedNodeId, isForward bool) error {
	as.mu.Lock()
	defer as.mu.Unlock()

	if ext := as.externalFor(sourceId); ext != nil && ext.AddReference != nil {
		return ext.AddReference(sourceId, referenceTypeId, target, isForward)
	}

	if _, err := as.store.Get(sourceId); err != nil {
		return statuscode.New("AddReference").Node(sourceId).Cause(statuscode.ErrNodeIdUnknown).Err()
	}
	refType, err := as.store.Get(referenceTypeId)
	if err != nil || refType.NodeClass != node.ReferenceType {
		return statuscode.New("AddReference").Node(referenceTypeId).
			Cause(statuscode.ErrReferenceTypeIdInvalid).Err()
	}
	if refType.ReferenceTypeBody.IsAbstract {
		return statuscode.New("AddReference").Node(referenceTypeId).
			Cause(statuscode.ErrReferenceNotAllowed).Context("reference type is abstract").Err()
	}

	var addErr error
	if isForward {
		addErr = as.addOneWayReferencePair(sourceId, referenceTypeId, target, false)
	} else if !target.IsLocal() {
		// A "not forward" request names the reference from the target's
		// perspective; it is stored as a forward reference on the target
		// (the else branch below), which needs a local target.
		addErr = statuscode.New("AddReference").Node(sourceId).Reference().
			Cause(statuscode.ErrReferenceNotAllowed).Context("inverse reference to a non-local target").Err()
	} else {
		addErr = as.addOneWayReferencePair(target.NodeId, referenceTypeId, ids.Local(sourceId), false)
	}
	as.recordMutation("addReference", addErr)
	return addErr
}

// deleteOneWayReference removes the single matching reference entry from
// sourceId's node via swap-with-last (spec.md §4.8/§9 Open Question 3).
// It distinguishes a genuinely missing source node (ErrNodeIdUnknown)
// from a source node that exists but has no matching reference entry
// (ErrUncertainReferenceNotDeleted, per the original source's
// deleteOneWayReference at ua_services_nodemanagement.c:1282-1302, which
// returns UA_STATUSCODE_UNCERTAINREFERENCENOTDELETED when no entry
// matched) — DeleteReference reports the latter to the caller rather
// than conflating it with a missing node.
func (as *AddressSpace) deleteOneWayReference(sourceId, refType ids.NodeId, target ids.ExpandedNodeId, isInverse bool) error {
	n, err := as.store.Get(sourceId)
	if err != nil {
		return statuscode.New("deleteOneWayReference").Node(sourceId).
			Cause(statuscode.ErrNodeIdUnknown).Err()
	}
	i := n.FindReference(refType, target.NodeId, isInverse)
	if i < 0 {
		return statuscode.New("deleteOneWayReference").Node(sourceId).Reference().
			Cause(statuscode.ErrUncertainReferenceNotDeleted).Err()
	}
	n.RemoveReferenceAt(i)
	return nil
}

// DeleteReference is the public, locking entry point for the
// DeleteReferences service (spec.md §6, §4.8). The entry on sourceId is
// removed first; if that fails, its error is returned and the target is
// not touched. When deleteBidirectional is true and the target is local,
// the mirrored entry on the target is removed next; if that fails
// (Bad_NodeIdUnknown when the target node is gone, Uncertain_
// ReferenceNotDeleted when it has no matching entry) the error is
// returned and the source's entry stays deleted.
func (as *AddressSpace) DeleteReference(sourceId, referenceTypeId ids.NodeId, target ids.ExpandedNodeId, isForward, deleteBidirectional bool) error {
	as.mu.Lock()
	defer as.mu.Unlock()

	if ext := as.externalFor(sourceId); ext != nil && ext.DeleteReference != nil {
		return ext.DeleteReference(sourceId, referenceTypeId, target, isForward, deleteBidirectional)
	}

	if err := as.deleteOneWayReference(sourceId, referenceTypeId, target, !isForward); err != nil {
		as.recordMutation("deleteReference", err)
		return err
	}

	if !deleteBidirectional || !target.IsLocal() {
		as.recordMutation("deleteReference", nil)
		return nil
	}

	if err := as.deleteOneWayReference(target.NodeId, referenceTypeId, ids.Local(sourceId), isForward); err != nil {
		as.recordMutation("deleteReference", nil)
		return err
	}
	as.recordMutation("deleteReference", nil)
	return nil
}
