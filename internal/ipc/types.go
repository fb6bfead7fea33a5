package ipc

import "episodic/internal/journal"

// PingRequest checks daemon liveness.
type PingRequest struct{}

// PingResponse acknowledges a ping.
type PingResponse struct {
	PID int `json:"pid"`
}

// StatusRequest fetches daemon status.
type StatusRequest struct{}

// StatusResponse represents daemon runtime information.
type StatusResponse struct {
	Running     bool          `json:"running"`
	PID         int           `json:"pid"`
	Bind        string        `json:"bind"`
	OutputDir   string        `json:"output_dir"`
	LockPath    string        `json:"lock_path"`
	JournalPath string        `json:"journal_path"`
	StartedAt   string        `json:"started_at"`
	Journal     journal.Stats `json:"journal"`
}

// StopRequest asks the daemon process to shut down.
type StopRequest struct{}

// StopResponse indicates stop result.
type StopResponse struct {
	Stopping bool `json:"stopping"`
}
