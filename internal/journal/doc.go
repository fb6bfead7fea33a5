// Package journal records successful episode saves in SQLite.
//
// The journal is an append-only audit trail for operators. The HTTP capture
// path only writes to it; the sole readers are the daemon status surfaces.
package journal
