package ingest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
	"unicode/utf8"

	"episodic/internal/logging"
)

// ErrInvalidPayload wraps decode failures so callers can distinguish a bad
// request body from a filesystem fault.
var ErrInvalidPayload = errors.New("invalid episode payload")

// Result describes a completed save.
type Result struct {
	Filename string
	Path     string
	Bytes    int64
}

// Store writes episode files into a single output directory.
type Store struct {
	outputDir string
	prefix    string
	logger    *slog.Logger

	// Serializes writes so a same-second filename collision is a clean
	// last-write-wins overwrite rather than interleaved partial content.
	mu sync.Mutex

	now func() time.Time
}

// NewStore constructs a store rooted at outputDir. Files are named
// <prefix>_<unix-seconds>.json.
func NewStore(outputDir, prefix string, logger *slog.Logger) *Store {
	if prefix == "" {
		prefix = "episode"
	}
	return &Store{
		outputDir: outputDir,
		prefix:    prefix,
		logger:    logging.WithComponent(logger, "ingest"),
		now:       time.Now,
	}
}

// OutputDir returns the directory episodes are written to.
func (s *Store) OutputDir() string {
	return s.outputDir
}

// EnsureOutputDir creates the output directory when absent.
func (s *Store) EnsureOutputDir() error {
	if err := os.MkdirAll(s.outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory %q: %w", s.outputDir, err)
	}
	return nil
}

// Save validates payload as a UTF-8 JSON document and writes it, indented
// with two spaces, to a timestamped file in the output directory. No file is
// created unless the payload parses. Filenames carry second granularity:
// saves within the same second reuse the filename and the later save wins.
func (s *Store) Save(ctx context.Context, payload []byte) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	pretty, err := reindent(payload)
	if err != nil {
		return Result{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	filename := fmt.Sprintf("%s_%d.json", s.prefix, s.now().Unix())
	path := filepath.Join(s.outputDir, filename)
	if err := os.WriteFile(path, pretty, 0o644); err != nil {
		return Result{}, fmt.Errorf("write episode file: %w", err)
	}

	res := Result{Filename: filename, Path: path, Bytes: int64(len(pretty))}
	s.logger.Info("episode saved",
		logging.String("file", res.Path),
		logging.Int64("bytes", res.Bytes),
	)
	return res, nil
}

// reindent checks that payload is valid UTF-8 and a single JSON value, then
// pretty-prints the original bytes. json.Indent keeps the caller's literals
// (1.0 stays 1.0) where a decode/re-marshal round trip would not.
func reindent(payload []byte) ([]byte, error) {
	if !utf8.Valid(payload) {
		return nil, fmt.Errorf("%w: body is not valid UTF-8", ErrInvalidPayload)
	}

	var value any
	if err := json.Unmarshal(payload, &value); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPayload, err.Error())
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, payload, "", "  "); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPayload, err.Error())
	}
	return buf.Bytes(), nil
}
