// Package preflight verifies the filesystem is usable before the daemon
// starts accepting captures.
package preflight
