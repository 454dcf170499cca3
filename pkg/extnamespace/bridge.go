// Package extnamespace implements the spec.md §6 external-namespace
// extension point over an NNG request/reply socket, grounded on the
// teacher's pkg/replication/nng_primary.go (which forwards graph
// mutations to a remote replica over go.nanomsg.org/mangos/v3 rather
// than applying them in-process). Here the same transport forwards
// AddNodes/AddReferences/DeleteNodes/DeleteReferences calls whose
// namespace belongs to a foreign server.
package extnamespace

import (
	"encoding/json"
	"fmt"
	"time"

	"go.nanomsg.org/mangos/v3"
	"go.nanomsg.org/mangos/v3/protocol/req"
	_ "go.nanomsg.org/mangos/v3/transport/tcp"

	"github.com/uacore/addrspace/pkg/addrspace"
	"github.com/uacore/addrspace/pkg/ids"
)

// rpcEnvelope is the wire encoding exchanged with the foreign server:
// one request op name plus a JSON payload, one JSON reply payload plus
// an error string (empty on success).
type rpcEnvelope struct {
	Op      string          `json:"op"`
	Payload json.RawMessage `json:"payload"`
}

type rpcReply struct {
	Payload json.RawMessage `json:"payload"`
	Err     string          `json:"err"`
}

// Bridge dials a remote addrspace server over NNG req/rep and exposes
// the four mutation calls as an addrspace.ExternalNamespace.
type Bridge struct {
	sock    mangos.Socket
	timeout time.Duration
}

// Dial connects to a remote bridge endpoint (e.g. "tcp://10.0.0.5:5555").
func Dial(addr string, timeout time.Duration) (*Bridge, error) {
	sock, err := req.NewSocket()
	if err != nil {
		return nil, fmt.Errorf("extnamespace: new socket: %w", err)
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if err := sock.SetOption(mangos.OptionSendDeadline, timeout); err != nil {
		sock.Close()
		return nil, fmt.Errorf("extnamespace: set send deadline: %w", err)
	}
	if err := sock.SetOption(mangos.OptionRecvDeadline, timeout); err != nil {
		sock.Close()
		return nil, fmt.Errorf("extnamespace: set recv deadline: %w", err)
	}
	if err := sock.Dial(addr); err != nil {
		sock.Close()
		return nil, fmt.Errorf("extnamespace: dial %s: %w", addr, err)
	}
	return &Bridge{sock: sock, timeout: timeout}, nil
}

// Close releases the underlying socket.
func (b *Bridge) Close() error { return b.sock.Close() }

func (b *Bridge) call(op string, req, reply interface{}) error {
	payload, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("extnamespace: marshal %s request: %w", op, err)
	}
	body, err := json.Marshal(rpcEnvelope{Op: op, Payload: payload})
	if err != nil {
		return fmt.Errorf("extnamespace: marshal envelope: %w", err)
	}
	if err := b.sock.Send(body); err != nil {
		return fmt.Errorf("extnamespace: send %s: %w", op, err)
	}
	raw, err := b.sock.Recv()
	if err != nil {
		return fmt.Errorf("extnamespace: recv %s reply: %w", op, err)
	}
	var rr rpcReply
	if err := json.Unmarshal(raw, &rr); err != nil {
		return fmt.Errorf("extnamespace: unmarshal %s reply: %w", op, err)
	}
	if rr.Err != "" {
		return fmt.Errorf("extnamespace: remote %s failed: %s", op, rr.Err)
	}
	if reply != nil {
		if err := json.Unmarshal(rr.Payload, reply); err != nil {
			return fmt.Errorf("extnamespace: unmarshal %s payload: %w", op, err)
		}
	}
	return nil
}

type addNodeRequest struct {
	Item addrspace.AddNodesItem `json:"item"`
}

type addNodeReply struct {
	NodeId ids.NodeId `json:"node_id"`
}

type addReferenceRequest struct {
	SourceId        ids.NodeId         `json:"source_id"`
	ReferenceTypeId ids.NodeId         `json:"reference_type_id"`
	Target          ids.ExpandedNodeId `json:"target"`
	IsForward       bool               `json:"is_forward"`
}

type deleteNodeRequest struct {
	NodeId                 ids.NodeId `json:"node_id"`
	DeleteTargetReferences bool       `json:"delete_target_references"`
}

type deleteReferenceRequest struct {
	SourceId            ids.NodeId         `json:"source_id"`
	ReferenceTypeId     ids.NodeId         `json:"reference_type_id"`
	Target              ids.ExpandedNodeId `json:"target"`
	IsForward           bool               `json:"is_forward"`
	DeleteBidirectional bool               `json:"delete_bidirectional"`
}

// ExternalNamespace adapts this Bridge to addrspace.ExternalNamespace.
func (b *Bridge) ExternalNamespace() addrspace.ExternalNamespace {
	return addrspace.ExternalNamespace{
		AddNode: func(item addrspace.AddNodesItem) (ids.NodeId, error) {
			var reply addNodeReply
			err := b.call("AddNode", addNodeRequest{Item: item}, &reply)
			return reply.NodeId, err
		},
		AddReference: func(sourceId, referenceTypeId ids.NodeId, target ids.ExpandedNodeId, isForward bool) error {
			return b.call("AddReference", addReferenceRequest{
				SourceId: sourceId, ReferenceTypeId: referenceTypeId, Target: target, IsForward: isForward,
			}, nil)
		},
		DeleteNode: func(id ids.NodeId, deleteTargetReferences bool) error {
			return b.call("DeleteNode", deleteNodeRequest{
				NodeId: id, DeleteTargetReferences: deleteTargetReferences,
			}, nil)
		},
		DeleteReference: func(sourceId, referenceTypeId ids.NodeId, target ids.ExpandedNodeId, isForward, deleteBidirectional bool) error {
			return b.call("DeleteReference", deleteReferenceRequest{
				SourceId: sourceId, ReferenceTypeId: referenceTypeId, Target: target,
				IsForward: isForward, DeleteBidirectional: deleteBidirectional,
			}, nil)
		},
	}
}
