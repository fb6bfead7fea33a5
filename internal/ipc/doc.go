// Package ipc exposes daemon control over a Unix domain socket.
//
// The CLI talks to a running daemon through this surface instead of HTTP, so
// the HTTP port carries nothing but the capture endpoint.
package ipc
