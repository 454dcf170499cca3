// Command addrspace-demo builds a small address space by hand and drives
// it through the AddNode and DeleteNode entry points, exercising the
// instantiator's type-hierarchy walk end to end — grounded on the teacher's cmd/*/main.go demo convention of
// wiring a storage engine and running a scripted sequence of operations
// against it.
package main

import (
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/uacore/addrspace/pkg/addrspace"
	"github.com/uacore/addrspace/pkg/ids"
	"github.com/uacore/addrspace/pkg/logging"
	"github.com/uacore/addrspace/pkg/metrics"
	"github.com/uacore/addrspace/pkg/node"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "addrspace-demo:", err)
		os.Exit(1)
	}
}

func run() error {
	log := logging.DefaultLogger().With(logging.String("component", "demo"))
	reg := metrics.NewRegistry(prometheus.NewRegistry())

	store := addrspace.NewStore(2)
	seedWellKnownTypes(store)

	as := addrspace.New(store, 2, addrspace.WithLogger(log), addrspace.WithMetrics(reg))

	// S1: add a PumpType ObjectType with a Temperature property Variable.
	pumpType, err := as.AddNode(addrspace.AddNodesItem{
		RequestedNodeId: ids.NewNumeric(1, 0),
		HasParent:       true,
		ParentNodeId:    addrspace.TypeBaseObjectType,
		ReferenceTypeId: addrspace.RefHasSubtype,
		BrowseName:      ids.QualifiedName{NamespaceIndex: 1, Name: "PumpType"},
		DisplayName:     ids.LocalizedText{Text: "PumpType"},
		NodeClass:       node.ObjectType,
		Attributes:      addrspace.ObjectTypeAttributes{IsAbstract: false},
	})
	if err != nil {
		return fmt.Errorf("add PumpType: %w", err)
	}

	temperature, err := as.AddNode(addrspace.AddNodesItem{
		RequestedNodeId: ids.NewNumeric(1, 0),
		HasParent:       true,
		ParentNodeId:    pumpType,
		ReferenceTypeId: addrspace.RefHasProperty,
		BrowseName:      ids.QualifiedName{NamespaceIndex: 1, Name: "Temperature"},
		DisplayName:     ids.LocalizedText{Text: "Temperature"},
		NodeClass:       node.Variable,
		HasTypeDefinition: true,
		TypeDefinition:    addrspace.TypeBaseDataVariableType,
		Attributes: addrspace.VariableAttributes{
			DataType:  addrspace.TypeDouble,
			ValueRank: node.ValueRankScalar,
			Value:     node.DoubleValue(0),
		},
	})
	if err != nil {
		return fmt.Errorf("add Temperature property: %w", err)
	}
	log.Info("added PumpType.Temperature", logging.String("node_id", temperature.String()))

	// S2: instantiate a Pump1 object of PumpType under the Objects folder;
	// instantiateNode should deep-copy Temperature onto the new instance.
	pump1, err := as.AddNode(addrspace.AddNodesItem{
		RequestedNodeId: ids.NewNumeric(1, 0),
		HasParent:       true,
		ParentNodeId:    addrspace.ObjectsFolder,
		ReferenceTypeId: addrspace.RefOrganizes,
		BrowseName:      ids.QualifiedName{NamespaceIndex: 1, Name: "Pump1"},
		DisplayName:     ids.LocalizedText{Text: "Pump #1"},
		NodeClass:       node.Object,
		HasTypeDefinition: true,
		TypeDefinition:    pumpType,
		Attributes:        addrspace.ObjectAttributes{},
	})
	if err != nil {
		return fmt.Errorf("instantiate Pump1: %w", err)
	}

	pumpNode, err := store.Get(pump1)
	if err != nil {
		return fmt.Errorf("get Pump1: %w", err)
	}
	children := pumpNode.ForwardReferencesOfType(addrspace.RefHasProperty)
	log.Info("instantiated Pump1", logging.Int("copied_children", len(children)))

	// S3: delete the instance and its reference mirrors. The copied
	// Temperature property node is not deleted with it; it stays in the
	// store without a parent.
	if err := as.DeleteNode(pump1, true); err != nil {
		return fmt.Errorf("delete Pump1: %w", err)
	}
	log.Info("deleted Pump1")

	return nil
}

// seedWellKnownTypes inserts the handful of namespace-0 type nodes this
// demo's instantiation walk depends on (BaseObjectType, BaseVariableType,
// BaseDataVariableType, the builtin scalar DataTypes, HasSubtype/
// HasTypeDefinition/Aggregates/Organizes/HasProperty reference types, and
// the Objects folder) — a stand-in for loading the full OPC UA namespace-
// zero nodeset, which is out of scope for this demo.
func seedWellKnownTypes(store *addrspace.Store) {
	insertBare(store, addrspace.TypeBaseObjectType, node.ObjectType, "BaseObjectType")
	insertVariableType(store, addrspace.TypeBaseVariableType, "BaseVariableType")
	insertVariableType(store, addrspace.TypeBaseDataVariableType, "BaseDataVariableType")
	insertBare(store, addrspace.TypeBaseDataType, node.DataType, "BaseDataType")
	insertBare(store, addrspace.TypeInt32, node.DataType, "Int32")
	insertBare(store, addrspace.TypeDouble, node.DataType, "Double")
	insertBare(store, addrspace.TypeString, node.DataType, "String")
	insertReferenceType(store, addrspace.RefHierarchicalReferences, "HierarchicalReferences", true)
	insertReferenceType(store, addrspace.RefOrganizes, "Organizes", false)
	insertReferenceType(store, addrspace.RefAggregates, "Aggregates", true)
	insertReferenceType(store, addrspace.RefHasComponent, "HasComponent", false)
	insertReferenceType(store, addrspace.RefHasProperty, "HasProperty", false)
	insertReferenceType(store, addrspace.RefHasSubtype, "HasSubtype", false)
	insertReferenceType(store, addrspace.RefHasTypeDefinition, "HasTypeDefinition", false)
	insertBare(store, addrspace.ObjectsFolder, node.Object, "Objects")

	linkSubtype(store, addrspace.RefOrganizes, addrspace.RefHierarchicalReferences)
	linkSubtype(store, addrspace.RefAggregates, addrspace.RefHierarchicalReferences)
	linkSubtype(store, addrspace.RefHasComponent, addrspace.RefAggregates)
	linkSubtype(store, addrspace.RefHasProperty, addrspace.RefAggregates)

	linkSubtype(store, addrspace.TypeInt32, addrspace.TypeBaseDataType)
	linkSubtype(store, addrspace.TypeDouble, addrspace.TypeBaseDataType)
	linkSubtype(store, addrspace.TypeString, addrspace.TypeBaseDataType)
	linkSubtype(store, addrspace.TypeBaseDataVariableType, addrspace.TypeBaseVariableType)
}

func insertBare(store *addrspace.Store, id ids.NodeId, class node.Class, name string) {
	n, _ := store.NewNodeOfClass(class)
	n.NodeId = id
	n.BrowseName = ids.QualifiedName{NamespaceIndex: id.NamespaceIndex, Name: name}
	n.DisplayName = ids.LocalizedText{Text: name}
	store.Insert(n)
}

// insertVariableType seeds a root VariableType template with DataType
// defaulted to BaseDataType and ValueRank "any", matching the OPC UA
// namespace-zero definitions of BaseVariableType/BaseDataVariableType.
func insertVariableType(store *addrspace.Store, id ids.NodeId, name string) {
	n, _ := store.NewNodeOfClass(node.VariableType)
	n.NodeId = id
	n.BrowseName = ids.QualifiedName{NamespaceIndex: id.NamespaceIndex, Name: name}
	n.DisplayName = ids.LocalizedText{Text: name}
	n.VariableTypeBody.DataType = addrspace.TypeBaseDataType
	n.VariableTypeBody.ValueRank = node.ValueRankAny
	store.Insert(n)
}

func insertReferenceType(store *addrspace.Store, id ids.NodeId, name string, symmetric bool) {
	n, _ := store.NewNodeOfClass(node.ReferenceType)
	n.NodeId = id
	n.BrowseName = ids.QualifiedName{NamespaceIndex: id.NamespaceIndex, Name: name}
	n.DisplayName = ids.LocalizedText{Text: name}
	n.ReferenceTypeBody.Symmetric = symmetric
	store.Insert(n)
}

// linkSubtype wires a raw HasSubtype forward/inverse pair directly
// (bypassing addrspace's reference manager) since this bootstrap step
// predates having an AddressSpace to call AddReference on.
func linkSubtype(store *addrspace.Store, child, parent ids.NodeId) {
	c, err := store.Get(child)
	if err != nil {
		return
	}
	p, err := store.Get(parent)
	if err != nil {
		return
	}
	c.AddReferenceUnchecked(node.Reference{ReferenceTypeId: addrspace.RefHasSubtype, Target: ids.Local(parent), IsInverse: true})
	p.AddReferenceUnchecked(node.Reference{ReferenceTypeId: addrspace.RefHasSubtype, Target: ids.Local(child), IsInverse: false})
}
