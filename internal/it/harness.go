// Package it holds in-process integration scenarios that drive the
// ring, store, and shorturl packages together.
package it

import (
	"fmt"

	"shardkv/internal/store"
)

// Cluster wraps a store populated through the public API, keeping the
// written payloads around so tests can verify nothing is lost across
// membership changes.
type Cluster struct {
	Store    *store.ShardedStore
	Expected map[string]string
}

// NewCluster builds a store with the given servers and numKeys
// synthetic payloads.
func NewCluster(vnodes int, servers []string, numKeys int) (*Cluster, error) {
	s := store.New(vnodes)
	for _, name := range servers {
		if !s.AddServer(name) {
			return nil, fmt.Errorf("duplicate server %q", name)
		}
	}

	expected := make(map[string]string, numKeys)
	for i := 0; i < numKeys; i++ {
		key := fmt.Sprintf("key-%d", i)
		value := fmt.Sprintf("value-%d", i)
		if !s.Set(key, value) {
			return nil, fmt.Errorf("failed to seed key %q", key)
		}
		expected[key] = value
	}

	return &Cluster{Store: s, Expected: expected}, nil
}

// VerifyPayloads checks that every seeded payload is still readable.
func (c *Cluster) VerifyPayloads() error {
	for key, want := range c.Expected {
		if got := c.Store.Get(key); got != want {
			return fmt.Errorf("key %q: got %q, want %q", key, got, want)
		}
	}
	return nil
}
