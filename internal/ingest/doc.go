// Package ingest persists captured episode payloads to disk.
//
// An episode is an opaque JSON document. The store validates and re-indents
// the caller's bytes without re-marshaling them, so number and string
// literals survive the round trip exactly as submitted.
package ingest
