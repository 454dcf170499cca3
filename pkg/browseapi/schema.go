// Package browseapi exposes a read-only GraphQL view over an
// AddressSpace's NodeStore, grounded on the teacher's other examples'
// use of graphql-go/graphql for ad-hoc graph browsing. Browse/Read are
// explicitly outside the mutation core (spec.md §6 treats them as
// external collaborators); this package is that collaborator.
package browseapi

import (
	"fmt"

	"github.com/graphql-go/graphql"

	"github.com/uacore/addrspace/pkg/addrspace"
	"github.com/uacore/addrspace/pkg/ids"
)

// Server wraps an AddressSpace with a compiled GraphQL schema for
// browsing nodes and their references.
type Server struct {
	as     *addrspace.AddressSpace
	schema graphql.Schema
}

// NewServer builds the GraphQL schema around as. Returns an error only
// if the schema definition itself is malformed (a programmer error),
// never dependent on the store's contents.
func NewServer(as *addrspace.AddressSpace) (*Server, error) {
	s := &Server{as: as}

	referenceType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Reference",
		Fields: graphql.Fields{
			"referenceTypeId": &graphql.Field{Type: graphql.String},
			"targetNodeId":    &graphql.Field{Type: graphql.String},
			"isInverse":       &graphql.Field{Type: graphql.Boolean},
		},
	})

	nodeType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Node",
		Fields: graphql.Fields{
			"nodeId":      &graphql.Field{Type: graphql.String},
			"nodeClass":   &graphql.Field{Type: graphql.String},
			"browseName":  &graphql.Field{Type: graphql.String},
			"displayName": &graphql.Field{Type: graphql.String},
			"references":  &graphql.Field{Type: graphql.NewList(referenceType)},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"node": &graphql.Field{
				Type: nodeType,
				Args: graphql.FieldConfigArgument{
					"nodeId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: s.resolveNode,
			},
		},
	})

	schema, err := graphql.NewSchema(graphql.SchemaConfig{Query: queryType})
	if err != nil {
		return nil, err
	}
	s.schema = schema
	return s, nil
}

func (s *Server) resolveNode(p graphql.ResolveParams) (interface{}, error) {
	raw, _ := p.Args["nodeId"].(string)
	nodeId, err := parseNodeId(raw)
	if err != nil {
		return nil, err
	}

	n, err := s.as.Store().Get(nodeId)
	if err != nil {
		return nil, err
	}

	refs := make([]map[string]interface{}, 0, len(n.References))
	for _, r := range n.References {
		refs = append(refs, map[string]interface{}{
			"referenceTypeId": r.ReferenceTypeId.String(),
			"targetNodeId":    r.Target.NodeId.String(),
			"isInverse":       r.IsInverse,
		})
	}

	return map[string]interface{}{
		"nodeId":      n.NodeId.String(),
		"nodeClass":   n.NodeClass.String(),
		"browseName":  n.BrowseName.String(),
		"displayName": n.DisplayName.Text,
		"references":  refs,
	}, nil
}

// Query runs a GraphQL query string against the schema and returns the
// result, including any field errors.
func (s *Server) Query(query string) *graphql.Result {
	return graphql.Do(graphql.Params{Schema: s.schema, RequestString: query})
}

// parseNodeId accepts the conventional "ns=<n>;i=<m>" numeric form used
// by ids.NodeId.String() for the common case; other identifier kinds are
// not reachable through this demo browse API.
func parseNodeId(raw string) (ids.NodeId, error) {
	var ns uint16
	var numeric uint32
	if _, err := fmt.Sscanf(raw, "ns=%d;i=%d", &ns, &numeric); err != nil {
		return ids.NodeId{}, fmt.Errorf("browseapi: malformed nodeId %q: %w", raw, err)
	}
	return ids.NewNumeric(ns, numeric), nil
}
