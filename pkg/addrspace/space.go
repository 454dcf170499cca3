package addrspace

import (
	"sync"

	"github.com/uacore/addrspace/pkg/ids"
	"github.com/uacore/addrspace/pkg/logging"
	"github.com/uacore/addrspace/pkg/metrics"
)

// InstantiationHook is invoked after an Object/Variable has been fully
// instantiated (children copied, constructor called, HasTypeDefinition
// attached) — spec.md §4.6 step 6.
type InstantiationHook func(instanceId, typeId ids.NodeId, userHandle interface{})

// AddressSpace is the mutation core's orchestrator. It owns the writer
// lock described in spec.md §5: public entry points (AddNode,
// AddReference, DeleteNode, DeleteReference) acquire mu; every internal
// helper assumes it is already held and must never lock it again,
// because instantiation recurses into the add pipeline and user callbacks
// run synchronously inside the writer section.
type AddressSpace struct {
	mu sync.Mutex

	store NodeStore

	namespaceCount uint16

	instantiationHook InstantiationHook

	externalNamespaces map[uint16]ExternalNamespace

	log     logging.Logger
	metrics *metrics.Registry
}

// Option configures an AddressSpace at construction time.
type Option func(*AddressSpace)

// WithInstantiationHook registers a hook invoked after every successful
// instantiation.
func WithInstantiationHook(hook InstantiationHook) Option {
	return func(as *AddressSpace) { as.instantiationHook = hook }
}

// WithLogger overrides the default logger.
func WithLogger(l logging.Logger) Option {
	return func(as *AddressSpace) { as.log = l }
}

// WithMetrics registers a metrics registry to instrument mutation ops.
func WithMetrics(r *metrics.Registry) Option {
	return func(as *AddressSpace) { as.metrics = r }
}

// WithExternalNamespace registers a foreign-namespace handler for the
// given namespace index (spec.md §6 "Extension point").
func WithExternalNamespace(namespaceIndex uint16, ext ExternalNamespace) Option {
	return func(as *AddressSpace) {
		if as.externalNamespaces == nil {
			as.externalNamespaces = make(map[uint16]ExternalNamespace)
		}
		as.externalNamespaces[namespaceIndex] = ext
	}
}

// New builds an AddressSpace over the given NodeStore.
func New(store NodeStore, namespaceCount uint16, opts ...Option) *AddressSpace {
	as := &AddressSpace{
		store:          store,
		namespaceCount: namespaceCount,
		log:            logging.DefaultLogger().With(logging.String("component", "addrspace")),
	}
	for _, opt := range opts {
		opt(as)
	}
	return as
}

// Store exposes the underlying NodeStore for read-only callers (Browse,
// the GraphQL browse demo, the TUI) — spec.md §6 treats Browse/Read as
// external collaborators that consume the store directly.
func (as *AddressSpace) Store() NodeStore { return as.store }
