// Package registry holds the set of mint nodes a node knows about.
package registry

import (
	"github.com/onflow/mint-node/model/node"
)

// Registry maps node identities to the addresses of their mint-network
// endpoints. It always contains the local node. Entries are only ever added:
// an identity, once known, keeps its first address forever.
//
// Registry is not safe for concurrent use; it is owned by a single goroutine.
type Registry struct {
	self    node.Identity
	entries map[node.Identity]node.Address
}

// New creates a registry containing only the local node.
func New(self node.Identity, addr node.Address) *Registry {
	return &Registry{
		self: self,
		entries: map[node.Identity]node.Address{
			self: addr,
		},
	}
}

// Self returns the identity of the local node.
func (r *Registry) Self() node.Identity {
	return r.self
}

// Add inserts the entry if the identity is unknown and reports whether it did.
func (r *Registry) Add(id node.Identity, addr node.Address) bool {
	if _, ok := r.entries[id]; ok {
		return false
	}
	r.entries[id] = addr
	return true
}

func (r *Registry) Lookup(id node.Identity) (node.Address, bool) {
	addr, ok := r.entries[id]
	return addr, ok
}

func (r *Registry) Contains(id node.Identity) bool {
	_, ok := r.entries[id]
	return ok
}

func (r *Registry) Len() int {
	return len(r.entries)
}

// Identities returns every known identity in ascending order.
func (r *Registry) Identities() node.IdentityList {
	ids := make(node.IdentityList, 0, len(r.entries))
	for id := range r.entries {
		ids = append(ids, id)
	}
	return ids.Sorted()
}

// Entries returns every entry, ordered by identity.
func (r *Registry) Entries() []node.Entry {
	ids := r.Identities()
	entries := make([]node.Entry, 0, len(ids))
	for _, id := range ids {
		entries = append(entries, node.Entry{Identity: id, Address: r.entries[id]})
	}
	return entries
}
