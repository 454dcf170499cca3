// Package statuscode implements the error taxonomy of spec.md §7, one
// sentinel per OPC UA status code the address-space core can return. The
// structured *Error type and its fluent Builder are adapted from the
// teacher's pkg/storage/errors.go (StorageError / ErrorBuilder).
package statuscode

import (
	"errors"
	"fmt"
)

// Sentinel errors, one per status code named in spec.md §7.
var (
	ErrOutOfMemory                  = errors.New("out of memory")
	ErrNodeIdInvalid                = errors.New("node id invalid")
	ErrNodeIdExists                 = errors.New("node id already exists")
	ErrNodeIdUnknown                = errors.New("node id unknown")
	ErrParentNodeIdInvalid          = errors.New("parent node id invalid")
	ErrReferenceTypeIdInvalid       = errors.New("reference type id invalid")
	ErrReferenceNotAllowed          = errors.New("reference not allowed")
	ErrTypeDefinitionInvalid        = errors.New("type definition invalid")
	ErrTypeMismatch                 = errors.New("type mismatch")
	ErrNodeAttributesInvalid        = errors.New("node attributes invalid")
	ErrNodeClassInvalid             = errors.New("node class invalid")
	ErrUncertainReferenceNotDeleted = errors.New("uncertain reference not deleted")
	ErrNotImplemented               = errors.New("not implemented")
	ErrDuplicateReference           = errors.New("duplicate reference not allowed")
	ErrInternalError                = errors.New("internal error")
	ErrNothingToDo                  = errors.New("nothing to do")
)

// statusCodes maps each sentinel to its numeric OPC UA Bad_* status code.
// Values follow the Part 6 status code assignment; callers needing the
// wire-level uint32 (the binary/JSON codec, out of scope here) consult
// Code(err).
var statusCodes = map[error]uint32{
	ErrOutOfMemory:                  0x80030000, // Bad_OutOfMemory
	ErrNodeIdInvalid:                0x80330000, // Bad_NodeIdInvalid
	ErrNodeIdExists:                 0x805E0000, // Bad_NodeIdExists
	ErrNodeIdUnknown:                0x80340000, // Bad_NodeIdUnknown
	ErrParentNodeIdInvalid:          0x805B0000, // Bad_ParentNodeIdInvalid
	ErrReferenceTypeIdInvalid:       0x804C0000, // Bad_ReferenceTypeIdInvalid
	ErrReferenceNotAllowed:          0x805C0000, // Bad_ReferenceNotAllowed
	ErrTypeDefinitionInvalid:        0x80630000, // Bad_TypeDefinitionInvalid
	ErrTypeMismatch:                 0x80740000, // Bad_TypeMismatch
	ErrNodeAttributesInvalid:        0x80620000, // Bad_NodeAttributesInvalid
	ErrNodeClassInvalid:             0x805F0000, // Bad_NodeClassInvalid
	ErrUncertainReferenceNotDeleted: 0x40BC0000, // Uncertain_ReferenceNotDeleted
	ErrNotImplemented:               0x80400000, // Bad_NotImplemented
	ErrDuplicateReference:           0x80660000, // Bad_DuplicateReferenceNotAllowed
	ErrInternalError:                0x80020000, // Bad_InternalError
	ErrNothingToDo:                  0x800F0000, // Bad_NothingToDo
}

// Code returns the OPC UA numeric status code for err, walking its error
// chain. Returns Bad_InternalError's code if err doesn't wrap a known
// sentinel.
func Code(err error) uint32 {
	for sentinel, code := range statusCodes {
		if errors.Is(err, sentinel) {
			return code
		}
	}
	return statusCodes[ErrInternalError]
}

// Error provides structured error information for address-space mutation
// operations, mirroring the teacher's StorageError.
type Error struct {
	Op      string // Operation that failed (e.g. "addNode", "deleteReference")
	Entity  string // Entity kind (e.g. "node", "reference", "type")
	NodeId  fmt.Stringer
	Field   string
	Cause   error
	Context string
}

func (e *Error) Error() string {
	id := ""
	if e.NodeId != nil {
		id = " " + e.NodeId.String()
	}
	switch {
	case e.Field != "":
		return fmt.Sprintf("%s %s%s (field %s): %v", e.Op, e.Entity, id, e.Field, e.Cause)
	case e.Context != "":
		return fmt.Sprintf("%s %s%s (%s): %v", e.Op, e.Entity, id, e.Context, e.Cause)
	default:
		return fmt.Sprintf("%s %s%s: %v", e.Op, e.Entity, id, e.Cause)
	}
}

func (e *Error) Unwrap() error { return e.Cause }

func (e *Error) Is(target error) bool {
	if target == nil {
		return false
	}
	return errors.Is(e.Cause, target)
}

// Builder is a fluent constructor for *Error, adapted from ErrorBuilder.
type Builder struct {
	err Error
}

func New(op string) *Builder {
	return &Builder{err: Error{Op: op}}
}

func (b *Builder) Node(id fmt.Stringer) *Builder {
	b.err.Entity = "node"
	b.err.NodeId = id
	return b
}

func (b *Builder) Reference() *Builder {
	b.err.Entity = "reference"
	return b
}

func (b *Builder) Type() *Builder {
	b.err.Entity = "type"
	return b
}

func (b *Builder) Field(name string) *Builder {
	b.err.Field = name
	return b
}

func (b *Builder) Context(ctx string) *Builder {
	b.err.Context = ctx
	return b
}

func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

func (b *Builder) Build() *Error { return &b.err }

func (b *Builder) Err() error { return &b.err }
