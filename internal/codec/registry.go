package codec

import "sync"

// Registry is a per-connection UUID → Codec map. It is monotonic: once
// a codec is registered it is never evicted for the connection's
// lifetime (spec §3, "Codec registry").
type Registry struct {
	mu     sync.RWMutex
	codecs map[ID]Codec
}

// NewRegistry returns a Registry pre-seeded with the built-in base
// scalar codecs (spec §4.2.1's "Base scalar" kind).
func NewRegistry() *Registry {
	r := &Registry{codecs: make(map[ID]Codec, len(baseScalars))}
	for id, c := range baseScalars {
		r.codecs[id] = c
	}
	return r
}

// Get looks up a codec by id.
func (r *Registry) Get(id ID) (Codec, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.codecs[id]
	return c, ok
}

// Put registers c under id, overwriting any previous entry. Building a
// codec from a descriptor blob calls this for every sub-codec it
// constructs along the way, as well as for the top-level result.
func (r *Registry) Put(id ID, c Codec) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.codecs[id] = c
}

// Has reports whether id is already registered.
func (r *Registry) Has(id ID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.codecs[id]
	return ok
}
