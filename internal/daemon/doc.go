// Package daemon runs the episodic capture service: it enforces
// single-instance execution, performs startup preflight, and serves the HTTP
// capture endpoint.
package daemon
