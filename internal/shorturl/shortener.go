package shorturl

import (
	"fmt"
	"strings"
	"sync"

	"shardkv/internal/store"
)

const (
	shortCodePrefix = "code:"
	longURLPrefix   = "url:"
	defaultServer   = "server1"
)

// Shortener maps long URLs to short codes. It only talks to its stores
// through Set/Get/Exists/Remove, so placement follows each store's
// ring.
type Shortener struct {
	mu      sync.Mutex
	baseURL string
	codes   *store.ShardedStore // code:<code> -> long URL
	urls    *store.ShardedStore // url:<longURL> -> code
	nextID  uint64
}

// New creates a shortener with a single default server registered on
// both backing stores. baseURL is prepended to generated codes and
// must be non-empty.
func New(baseURL string, vnodesPerNode int) (*Shortener, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("shorturl: base URL cannot be empty")
	}

	s := &Shortener{
		baseURL: baseURL,
		codes:   store.New(vnodesPerNode),
		urls:    store.New(vnodesPerNode),
		nextID:  1,
	}
	s.codes.AddServer(defaultServer)
	s.urls.AddServer(defaultServer)
	return s, nil
}

// Shorten returns the short URL for longURL, generating a new code on
// first sight and reusing the existing one afterwards.
func (s *Shortener) Shorten(longURL string) (string, error) {
	if longURL == "" {
		return "", fmt.Errorf("shorturl: long URL cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	reverseKey := longURLPrefix + longURL
	if code := s.urls.Get(reverseKey); code != "" {
		return s.baseURL + code, nil
	}

	code := encodeBase62(s.nextID)
	if !s.codes.Set(shortCodePrefix+code, longURL) {
		return "", fmt.Errorf("shorturl: no servers available to store code %s", code)
	}
	if !s.urls.Set(reverseKey, code) {
		return "", fmt.Errorf("shorturl: no servers available to index %s", longURL)
	}
	s.nextID++
	return s.baseURL + code, nil
}

// Expand returns the long URL for a short code, or the empty string if
// the code is unknown.
func (s *Shortener) Expand(code string) string {
	if code == "" {
		return ""
	}
	return s.codes.Get(shortCodePrefix + code)
}

// ExpandURL resolves a full short URL, accepting either the configured
// base URL or any URL whose last path segment is the code.
func (s *Shortener) ExpandURL(shortURL string) string {
	return s.Expand(extractCode(s.baseURL, shortURL))
}

// Exists reports whether a short code has been issued.
func (s *Shortener) Exists(code string) bool {
	return s.codes.Exists(shortCodePrefix + code)
}

// Len returns the number of shortened URLs.
func (s *Shortener) Len() int {
	return s.codes.TotalEntries()
}

// Clear removes all mappings and resets code generation. Backing store
// membership is reset to the default server.
func (s *Shortener) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.codes.Clear()
	s.urls.Clear()
	s.codes.AddServer(defaultServer)
	s.urls.AddServer(defaultServer)
	s.nextID = 1
}

// AddServer registers a server on both backing stores. Returns true
// only if both registrations succeed.
func (s *Shortener) AddServer(name string) bool {
	added := s.codes.AddServer(name)
	return s.urls.AddServer(name) && added
}

// RemoveServer removes a server from both backing stores. Returns true
// only if both removals succeed.
func (s *Shortener) RemoveServer(name string) bool {
	removed := s.codes.RemoveServer(name)
	return s.urls.RemoveServer(name) && removed
}

// Servers returns the servers registered on the forward store.
func (s *Shortener) Servers() []string {
	return s.codes.Servers()
}

// extractCode pulls the short code out of a full short URL.
func extractCode(baseURL, shortURL string) string {
	if shortURL == "" {
		return ""
	}
	if strings.HasPrefix(shortURL, baseURL) {
		return shortURL[len(baseURL):]
	}
	if idx := strings.LastIndex(shortURL, "/"); idx >= 0 {
		return shortURL[idx+1:]
	}
	return shortURL
}
