package ring

import (
	"fmt"
	"hash/fnv"
	"sort"
	"sync"
)

// Ring implements consistent hashing with virtual nodes. Each physical
// node is mapped to a fixed number of positions on a circular 32-bit
// hash space; a key is owned by the first position at or after the
// key's hash, wrapping around at the end of the space.
type Ring struct {
	mu            sync.Mutex
	vnodesPerNode int
	positions     []uint32          // sorted virtual node positions
	owners        map[uint32]string // position -> node name
	nodePositions map[string][]uint32
}

// New creates a new consistent hashing ring. vnodesPerNode must be
// positive; a non-positive value is a programming error.
func New(vnodesPerNode int) *Ring {
	if vnodesPerNode <= 0 {
		panic(fmt.Sprintf("ring: vnodesPerNode must be positive, got %d", vnodesPerNode))
	}
	return &Ring{
		vnodesPerNode: vnodesPerNode,
		positions:     make([]uint32, 0),
		owners:        make(map[uint32]string),
		nodePositions: make(map[string][]uint32),
	}
}

// AddNode adds a node to the ring. Adding a node that is already
// present is a no-op. An empty name is a programming error.
func (r *Ring) AddNode(name string) {
	if name == "" {
		panic("ring: node name cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.nodePositions[name]; exists {
		return // already exists
	}

	taken := make([]uint32, 0, r.vnodesPerNode)
	for i := 0; i < r.vnodesPerNode; i++ {
		pos := hashString(fmt.Sprintf("%s#%d", name, i))
		// Linear probe on collision so repeated construction with the
		// same node set always yields the same ring. uint32 arithmetic
		// wraps at the end of the hash space.
		for {
			if _, occupied := r.owners[pos]; !occupied {
				break
			}
			pos++
		}
		r.owners[pos] = name
		r.insertPosition(pos)
		taken = append(taken, pos)
	}
	r.nodePositions[name] = taken
}

// RemoveNode removes a node and all of its virtual nodes from the ring.
// Returns false if the node is not present.
func (r *Ring) RemoveNode(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	taken, exists := r.nodePositions[name]
	if !exists {
		return false
	}

	for _, pos := range taken {
		delete(r.owners, pos)
		r.removePosition(pos)
	}
	delete(r.nodePositions, name)
	return true
}

// Route returns the node that owns the given key, or the empty string
// if the ring has no nodes. For a fixed ring state the result is a pure
// function of the key.
func (r *Ring) Route(key string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.routeLocked(hashString(key))
}

// RouteReplicas returns up to n distinct nodes for the key, walking
// clockwise from the owning position. The first entry always equals
// Route(key). Fewer than n nodes are returned if the ring holds fewer
// than n physical nodes.
func (r *Ring) RouteReplicas(key string, n int) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.positions) == 0 || n <= 0 {
		return []string{}
	}
	result := make([]string, 0, n)

	start := r.searchLocked(hashString(key))
	seen := make(map[string]bool, n)
	for i := 0; i < len(r.positions) && len(result) < n; i++ {
		owner := r.owners[r.positions[(start+i)%len(r.positions)]]
		if !seen[owner] {
			seen[owner] = true
			result = append(result, owner)
		}
	}
	return result
}

// NodeCount returns the number of physical nodes in the ring.
func (r *Ring) NodeCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.nodePositions)
}

// VirtualNodeCount returns the number of virtual node positions.
func (r *Ring) VirtualNodeCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.positions)
}

// HasNode reports whether the named node is in the ring.
func (r *Ring) HasNode(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, exists := r.nodePositions[name]
	return exists
}

// Nodes returns the names of all physical nodes, sorted.
func (r *Ring) Nodes() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	nodes := make([]string, 0, len(r.nodePositions))
	for name := range r.nodePositions {
		nodes = append(nodes, name)
	}
	sort.Strings(nodes)
	return nodes
}

// Clear removes all nodes from the ring.
func (r *Ring) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.positions = r.positions[:0]
	r.owners = make(map[uint32]string)
	r.nodePositions = make(map[string][]uint32)
}

// DistributionStats routes sampleSize synthetic keys and returns how
// many landed on each node. Every registered node appears in the result
// even when it received no probe keys. Diagnostic only.
func (r *Ring) DistributionStats(sampleSize int) map[string]int {
	r.mu.Lock()
	defer r.mu.Unlock()

	stats := make(map[string]int, len(r.nodePositions))
	if len(r.positions) == 0 {
		return stats
	}

	for name := range r.nodePositions {
		stats[name] = 0
	}
	for i := 0; i < sampleSize; i++ {
		stats[r.routeLocked(hashString(fmt.Sprintf("key_%d", i)))]++
	}
	return stats
}

// routeLocked resolves a hash to its owning node. Caller holds r.mu.
func (r *Ring) routeLocked(h uint32) string {
	if len(r.positions) == 0 {
		return ""
	}
	return r.owners[r.positions[r.searchLocked(h)]]
}

// searchLocked finds the index of the first position >= h, wrapping to
// zero when h is past the last position. Caller holds r.mu.
func (r *Ring) searchLocked(h uint32) int {
	idx := sort.Search(len(r.positions), func(i int) bool {
		return r.positions[i] >= h
	})
	if idx == len(r.positions) {
		idx = 0
	}
	return idx
}

// insertPosition inserts pos into the sorted positions slice.
func (r *Ring) insertPosition(pos uint32) {
	idx := sort.Search(len(r.positions), func(i int) bool {
		return r.positions[i] >= pos
	})
	r.positions = append(r.positions, 0)
	copy(r.positions[idx+1:], r.positions[idx:])
	r.positions[idx] = pos
}

// removePosition removes pos from the sorted positions slice.
func (r *Ring) removePosition(pos uint32) {
	idx := sort.Search(len(r.positions), func(i int) bool {
		return r.positions[i] >= pos
	})
	if idx < len(r.positions) && r.positions[idx] == pos {
		r.positions = append(r.positions[:idx], r.positions[idx+1:]...)
	}
}

// hashString computes a 32-bit FNV-1a hash of the string.
func hashString(s string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(s))
	return h.Sum32()
}
