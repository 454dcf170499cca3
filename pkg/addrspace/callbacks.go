package addrspace

import (
	"github.com/uacore/addrspace/pkg/ids"
	"github.com/uacore/addrspace/pkg/node"
	"github.com/uacore/addrspace/pkg/statuscode"
)

// SetVariableValueCallback registers a write-through observer invoked
// whenever an inline Variable value is written via Write/typeCheckNode's
// value synthesis step (spec.md §4.5, §6). Passing nil clears it.
func (as *AddressSpace) SetVariableValueCallback(id ids.NodeId, cb node.WriteCallback) error {
	as.mu.Lock()
	defer as.mu.Unlock()

	n, err := as.store.Get(id)
	if err != nil {
		return statuscode.New("SetVariableValueCallback").Node(id).Cause(statuscode.ErrNodeIdUnknown).Err()
	}
	if n.NodeClass != node.Variable {
		return statuscode.New("SetVariableValueCallback").Node(id).Cause(statuscode.ErrNodeClassInvalid).Err()
	}
	n.VariableBody.WriteCallback = cb
	return nil
}

// SetVariableDataSource swaps a Variable from inline storage to an
// external (handle, read, write) triple, or back to inline storage when
// source is nil — spec.md §3's ValueSource discriminant.
func (as *AddressSpace) SetVariableDataSource(id ids.NodeId, source *node.DataSource) error {
	as.mu.Lock()
	defer as.mu.Unlock()

	n, err := as.store.Get(id)
	if err != nil {
		return statuscode.New("SetVariableDataSource").Node(id).Cause(statuscode.ErrNodeIdUnknown).Err()
	}
	if n.NodeClass != node.Variable {
		return statuscode.New("SetVariableDataSource").Node(id).Cause(statuscode.ErrNodeClassInvalid).Err()
	}
	if source == nil {
		n.VariableBody.ValueSource = node.SourceData
		n.VariableBody.ExternalSource = nil
		return nil
	}
	n.VariableBody.ValueSource = node.SourceDataSource
	n.VariableBody.ExternalSource = source
	return nil
}

// SetObjectTypeLifecycle registers an ObjectType's constructor/destructor
// pair. The constructor runs for instances whose type definition is this
// ObjectType itself; the destructor runs for those and also for
// instances of its subtypes (spec.md §4.6, §4.9).
func (as *AddressSpace) SetObjectTypeLifecycle(id ids.NodeId, lifecycle node.LifecycleManagement) error {
	as.mu.Lock()
	defer as.mu.Unlock()

	n, err := as.store.Get(id)
	if err != nil {
		return statuscode.New("SetObjectTypeLifecycle").Node(id).Cause(statuscode.ErrNodeIdUnknown).Err()
	}
	if n.NodeClass != node.ObjectType {
		return statuscode.New("SetObjectTypeLifecycle").Node(id).Cause(statuscode.ErrNodeClassInvalid).Err()
	}
	n.ObjectTypeBody.Lifecycle = lifecycle
	return nil
}

// SetMethodCallback registers the callback invoked when a Method node is
// called, along with the user handle it is passed.
func (as *AddressSpace) SetMethodCallback(id ids.NodeId, handle interface{}, cb node.MethodCallback) error {
	as.mu.Lock()
	defer as.mu.Unlock()

	n, err := as.store.Get(id)
	if err != nil {
		return statuscode.New("SetMethodCallback").Node(id).Cause(statuscode.ErrNodeIdUnknown).Err()
	}
	if n.NodeClass != node.Method {
		return statuscode.New("SetMethodCallback").Node(id).Cause(statuscode.ErrNodeClassInvalid).Err()
	}
	n.MethodBody.Handle = handle
	n.MethodBody.Callback = cb
	return nil
}

// CallMethod invokes a Method node's registered callback (spec.md §6's
// Browse/Call external collaborators; Call is not itself part of the
// mutation core but is the natural companion of SetMethodCallback and
// exercises MethodBody the way a real server would).
func (as *AddressSpace) CallMethod(id ids.NodeId, inputArgs []node.Value) ([]node.Value, error) {
	as.mu.Lock()
	n, err := as.store.Get(id)
	as.mu.Unlock()
	if err != nil {
		return nil, statuscode.New("CallMethod").Node(id).Cause(statuscode.ErrNodeIdUnknown).Err()
	}
	if n.NodeClass != node.Method {
		return nil, statuscode.New("CallMethod").Node(id).Cause(statuscode.ErrNodeClassInvalid).Err()
	}
	if !n.MethodBody.Executable || n.MethodBody.Callback == nil {
		return nil, statuscode.New("CallMethod").Node(id).Cause(statuscode.ErrNotImplemented).
			Context("method has no callback or is not executable").Err()
	}
	return n.MethodBody.Callback(n.MethodBody.Handle, id, inputArgs)
}
