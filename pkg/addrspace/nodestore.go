// Package addrspace implements the address-space mutation core of spec.md:
// NodeStore, the type hierarchy walker, the reference validator, the
// attribute copier, the type checker, the instantiator, the node adder,
// the reference manager and the node deleter (spec.md §2, §4).
//
// The locking discipline follows spec.md §5: AddressSpace exposes locking
// public entry points (AddNode, AddReference, DeleteNode, DeleteReference)
// and non-locking internal helpers; internal helpers never re-acquire the
// writer lock, so that recursive calls made from instantiation do not
// deadlock. User callbacks invoked during a mutation (DataSource,
// constructor, destructor, instantiation hook) run with the lock held, so
// a call from one of them into a locking entry point blocks. This mirrors the teacher's GraphStorage,
// whose public CreateNode/DeleteNode/CreateEdge/DeleteEdge each acquire
// gs.mu once per call (pkg/storage/storage.go, node_operations.go).
package addrspace

import (
	"fmt"
	"sync"

	"github.com/uacore/addrspace/pkg/ids"
	"github.com/uacore/addrspace/pkg/node"
	"github.com/uacore/addrspace/pkg/statuscode"
)

// NodeStore is the abstract typed map of spec.md §4.1. AddressSpace
// consumes it through this interface so that an external, disk-backed, or
// namespace-zero-preloaded implementation can be substituted (the core's
// own in-memory Store below is the reference implementation).
type NodeStore interface {
	NewNodeOfClass(class node.Class) (*node.Node, error)
	Insert(n *node.Node) (ids.NodeId, error)
	Get(id ids.NodeId) (*node.Node, error)
	GetCopy(id ids.NodeId) (*node.Node, error)
	Remove(id ids.NodeId) error
	DeleteNode(n *node.Node)
}

// Store is the in-memory NodeStore reference implementation, grounded on
// the teacher's GraphStorage (pkg/storage/storage.go): a map keyed by
// identity plus per-namespace numeric id allocation, guarded by a single
// RWMutex.
type Store struct {
	mu    sync.RWMutex
	nodes map[string]*node.Node

	namespaceCount  uint16
	nextNumericId   map[uint16]uint32
}

// NewStore creates an empty in-memory node store with namespaceCount
// namespaces (ns=0 is always the well-known OPC UA namespace).
func NewStore(namespaceCount uint16) *Store {
	if namespaceCount < 1 {
		namespaceCount = 1
	}
	return &Store{
		nodes:         make(map[string]*node.Node),
		namespaceCount: namespaceCount,
		nextNumericId: make(map[uint16]uint32),
	}
}

// NamespaceCount reports the configured namespace table size.
func (s *Store) NamespaceCount() uint16 { return s.namespaceCount }

func key(id ids.NodeId) string { return id.String() }

// NewNodeOfClass allocates a zero-initialized node (spec.md §4.1).
func (s *Store) NewNodeOfClass(class node.Class) (*node.Node, error) {
	n := node.New(class)
	if n == nil {
		return nil, statuscode.New("newNodeOfClass").Cause(statuscode.ErrOutOfMemory).Err()
	}
	return n, nil
}

// Insert takes ownership of n. If n.NodeId has a zero numeric identifier,
// a fresh unused numeric id is assigned in the node's namespace (spec.md
// §4.1, §9 "Store-managed identity").
func (s *Store) Insert(n *node.Node) (ids.NodeId, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := n.NodeId
	if id.Kind == ids.Numeric && id.Numeric == 0 {
		ns := id.NamespaceIndex
		for {
			s.nextNumericId[ns]++
			candidate := ids.NewNumeric(ns, s.nextNumericId[ns])
			if _, exists := s.nodes[key(candidate)]; !exists {
				id = candidate
				break
			}
		}
		n.NodeId = id
	}

	k := key(id)
	if _, exists := s.nodes[k]; exists {
		return ids.NodeId{}, statuscode.New("insert").Node(id).Cause(statuscode.ErrNodeIdExists).Err()
	}

	s.nodes[k] = n
	return id, nil
}

// Get returns the stored node itself, not a copy: the core mutates nodes
// in place through it (references, variable bodies, instance handles).
// GetCopy returns an independently owned clone instead.
func (s *Store) Get(id ids.NodeId) (*node.Node, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, exists := s.nodes[key(id)]
	if !exists {
		return nil, statuscode.New("get").Node(id).Cause(statuscode.ErrNodeIdUnknown).Err()
	}
	return n, nil
}

// GetCopy returns an independently owned deep clone of the node.
func (s *Store) GetCopy(id ids.NodeId) (*node.Node, error) {
	n, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	return n.Clone(), nil
}

// Remove frees the node identified by id.
func (s *Store) Remove(id ids.NodeId) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := key(id)
	if _, exists := s.nodes[k]; !exists {
		return statuscode.New("remove").Node(id).Cause(statuscode.ErrNodeIdUnknown).Err()
	}
	delete(s.nodes, k)
	return nil
}

// DeleteNode frees a node that was never inserted (e.g. on a partially
// failed add), matching spec.md §4.1's deleteNode(node) overload. Since
// Go nodes are garbage collected, this is a documentation no-op kept for
// symmetry with the interface and to give tests a single place to assert
// "no trace of the attempted node" when the node was never inserted.
func (s *Store) DeleteNode(n *node.Node) {
	_ = n
}

var _ fmt.Stringer = ids.NodeId{}
