package store

import (
	"sort"
	"sync"

	"shardkv/internal/ring"
)

// ShardedStore is a key-value map sharded across named servers by a
// consistent hashing ring. It is safe for concurrent use. All expected
// runtime conditions (missing keys, absent servers, writes with no
// servers registered) are reported through boolean returns.
type ShardedStore struct {
	mu         sync.Mutex
	ring       *ring.Ring
	data       map[string]string
	serverKeys map[string]map[string]struct{} // server -> set of owned keys
}

// New creates an empty store. vnodesPerNode is the number of virtual
// nodes registered on the ring per server and must be positive.
func New(vnodesPerNode int) *ShardedStore {
	return &ShardedStore{
		ring:       ring.New(vnodesPerNode),
		data:       make(map[string]string),
		serverKeys: make(map[string]map[string]struct{}),
	}
}

// AddServer registers a server with the ring. Returns false if the
// server already exists. Existing keys are not moved: ownership of a
// key is re-evaluated on its next write. An empty name is a
// programming error.
func (s *ShardedStore) AddServer(name string) bool {
	if name == "" {
		panic("store: server name cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.serverKeys[name]; exists {
		return false
	}
	s.ring.AddNode(name)
	s.serverKeys[name] = make(map[string]struct{})
	return true
}

// RemoveServer removes a server and re-routes every key it owned to
// the remaining servers. Returns false if the server is not present.
// Payloads are never deleted; if the last server is removed its keys
// stay in the store with no owner record until the next write.
func (s *ShardedStore) RemoveServer(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	owned, exists := s.serverKeys[name]
	if !exists {
		return false
	}

	s.ring.RemoveNode(name)
	delete(s.serverKeys, name)

	for key := range owned {
		if _, ok := s.data[key]; !ok {
			continue
		}
		newOwner := s.ring.Route(key)
		if newOwner == "" {
			continue // ring drained, key is orphaned but kept
		}
		if keys, ok := s.serverKeys[newOwner]; ok {
			keys[key] = struct{}{}
		}
	}
	return true
}

// Set stores a key-value pair, routing the key to its owning server.
// Returns false if the key is empty or no servers are registered.
// Set is an upsert: inserts and updates both report true.
func (s *ShardedStore) Set(key, value string) bool {
	if key == "" {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	owner := s.ring.Route(key)
	if owner == "" {
		return false // no servers available
	}

	// A key may never appear under two owners: drop any stale record
	// before recording the new owner.
	if _, exists := s.data[key]; exists {
		for _, keys := range s.serverKeys {
			delete(keys, key)
		}
	}

	s.data[key] = value
	if keys, ok := s.serverKeys[owner]; ok {
		keys[key] = struct{}{}
	}
	return true
}

// Get returns the value for a key, or the empty string if absent.
func (s *ShardedStore) Get(key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data[key]
}

// Remove deletes a key and its ownership record. Returns false if the
// key is not present.
func (s *ShardedStore) Remove(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[key]; !exists {
		return false
	}

	// The routed owner holds the record in the steady state, but a
	// stale record can survive under a previous owner after membership
	// grows. Drop the key from every key set.
	for _, keys := range s.serverKeys {
		delete(keys, key)
	}
	delete(s.data, key)
	return true
}

// Exists reports whether a key is present.
func (s *ShardedStore) Exists(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, exists := s.data[key]
	return exists
}

// KeysForServer returns the keys currently owned by a server, sorted.
// Returns an empty slice for unknown servers.
func (s *ShardedStore) KeysForServer(name string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	owned := s.serverKeys[name]
	keys := make([]string, 0, len(owned))
	for key := range owned {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Servers returns the names of all registered servers, sorted.
func (s *ShardedStore) Servers() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	servers := make([]string, 0, len(s.serverKeys))
	for name := range s.serverKeys {
		servers = append(servers, name)
	}
	sort.Strings(servers)
	return servers
}

// ServerForKey returns the server the ring routes the key to, or the
// empty string if no servers are registered. The key does not need to
// be present in the store.
func (s *ShardedStore) ServerForKey(key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ring.Route(key)
}

// Stats returns the number of owned keys per server.
func (s *ShardedStore) Stats() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := make(map[string]int, len(s.serverKeys))
	for name, keys := range s.serverKeys {
		stats[name] = len(keys)
	}
	return stats
}

// ServerCount returns the number of registered servers.
func (s *ShardedStore) ServerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.serverKeys)
}

// TotalEntries returns the number of stored key-value pairs.
func (s *ShardedStore) TotalEntries() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data)
}

// Clear wipes all data, ownership records, and ring membership.
func (s *ShardedStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = make(map[string]string)
	s.serverKeys = make(map[string]map[string]struct{})
	s.ring.Clear()
}
