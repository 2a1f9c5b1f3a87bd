// Package store provides an in-memory key-value store whose placement
// across servers is governed by a consistent hashing ring. The store
// keeps a per-server key index consistent with ring routing so callers
// can ask which keys live on which server; payloads themselves live in
// a single shared map, so membership changes move ownership records,
// never bytes.
package store
