// Package shorturl provides a URL shortener backed by sharded
// key-value stores. Short codes are base62-encoded sequence numbers; a
// forward store maps codes to long URLs and a reverse store makes
// shortening idempotent per URL.
package shorturl
