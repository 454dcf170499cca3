package addrspace

import "github.com/uacore/addrspace/pkg/ids"

// Well-known namespace-0 reference and type ids referenced throughout the
// core (spec.md Glossary). Numeric values follow the OPC UA Part 5
// namespace-zero assignment.
var (
	RefOrganizes              = ids.NewNumeric(0, 35)
	RefHasComponent           = ids.NewNumeric(0, 47)
	RefHasProperty            = ids.NewNumeric(0, 46)
	RefHasSubtype             = ids.NewNumeric(0, 45)
	RefHasTypeDefinition      = ids.NewNumeric(0, 40)
	RefAggregates             = ids.NewNumeric(0, 44)
	RefHierarchicalReferences = ids.NewNumeric(0, 33)
	RefNonHierarchical        = ids.NewNumeric(0, 32)

	TypeBaseObjectType       = ids.NewNumeric(0, 58)
	TypeBaseVariableType     = ids.NewNumeric(0, 62)
	TypeBaseDataVariableType = ids.NewNumeric(0, 63)
	TypeBaseDataType         = ids.NewNumeric(0, 24)
	TypeInt32                = ids.NewNumeric(0, 6)
	TypeDouble               = ids.NewNumeric(0, 11)
	TypeString               = ids.NewNumeric(0, 12)
	TypeArgument             = ids.NewNumeric(0, 296)

	ObjectsFolder = ids.NewNumeric(0, 85)
)
