package protocol

import "sync"

// Registry binds protocol names to initialized handlers. Names are unique;
// re-registering a name replaces its binding. The dispatcher looks names up
// on every non-admin call.
type Registry struct {
	mu        sync.RWMutex
	host      Host
	protocols map[string]Protocol
}

// NewRegistry returns an empty registry whose handlers see host.
func NewRegistry(host Host) *Registry {
	return &Registry{
		host:      host,
		protocols: make(map[string]Protocol),
	}
}

// Add constructs a handler of the named kind, runs its Init with initData,
// and binds it under name. An unknown kind answers ErrUnknownKind; a handler
// whose Init returns false is discarded and answers ErrInitFailed. Deprecated
// kinds log a migration warning after a successful bind.
func (r *Registry) Add(kindName, name, initData string) error {
	kind, ok := ParseKind(kindName)
	if !ok {
		return ErrUnknownKind
	}

	p := newProtocol(kind)
	if !p.Init(r.host, initData) {
		return ErrInitFailed
	}

	r.mu.Lock()
	r.protocols[name] = p
	r.mu.Unlock()

	if successor, deprecated := _deprecatedTo[kind]; deprecated {
		r.host.Logger().Warn().
			Msg(string(kind) + " is Deprecated... Update SQF code for " + string(successor))
	}
	return nil
}

// Lookup returns the handler bound to name.
func (r *Registry) Lookup(name string) (Protocol, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.protocols[name]
	return p, ok
}

// Len reports the number of bound names.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.protocols)
}

// Clear drops every binding. Called at shutdown.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.protocols = make(map[string]Protocol)
}
