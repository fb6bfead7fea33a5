package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"episodic/internal/config"
	"episodic/internal/ingest"
	"episodic/internal/journal"
	"episodic/internal/logging"
	"episodic/internal/preflight"
)

// Daemon coordinates the capture service and enforces single-instance execution.
type Daemon struct {
	cfg     *config.Config
	logger  *slog.Logger
	store   *ingest.Store
	journal *journal.Store
	api     *apiServer

	lockPath string
	lock     *flock.Flock

	running   atomic.Bool
	startedAt time.Time

	shutdownOnce sync.Once
	shutdownCh   chan struct{}

	ctx    context.Context
	cancel context.CancelFunc
}

// Status represents daemon runtime information.
type Status struct {
	Running     bool
	PID         int
	Bind        string
	OutputDir   string
	LockPath    string
	JournalPath string
	StartedAt   time.Time
	Journal     journal.Stats
}

// New constructs a daemon with initialized dependencies. The journal store
// may be nil when journaling is disabled.
func New(cfg *config.Config, store *ingest.Store, jstore *journal.Store, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || store == nil {
		return nil, errors.New("daemon requires config and ingest store")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	lockPath := cfg.LockPath()
	d := &Daemon{
		cfg:        cfg,
		logger:     logger,
		store:      store,
		journal:    jstore,
		lockPath:   lockPath,
		lock:       flock.New(lockPath),
		shutdownCh: make(chan struct{}),
	}
	api, err := newAPIServer(cfg, d, logger)
	if err != nil {
		return nil, err
	}
	d.api = api
	return d, nil
}

// Start acquires the daemon lock, runs preflight, and begins serving.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another episodic daemon instance is already running")
	}

	if err := d.store.EnsureOutputDir(); err != nil {
		_ = d.lock.Unlock()
		return err
	}
	results := preflight.Run(d.cfg)
	for _, result := range results {
		attrs := []logging.Attr{
			logging.String("check", result.Name),
			logging.Bool("passed", result.Passed),
			logging.String("detail", result.Detail),
		}
		if result.Passed {
			d.logger.Debug("preflight check", logging.Args(attrs...)...)
		} else {
			d.logger.Error("preflight check failed", logging.Args(attrs...)...)
		}
	}
	if failure, failed := preflight.FirstFailure(results); failed {
		_ = d.lock.Unlock()
		return fmt.Errorf("preflight: %s: %s", failure.Name, failure.Detail)
	}

	d.ctx, d.cancel = context.WithCancel(ctx)
	if err := d.api.start(d.ctx); err != nil {
		_ = d.lock.Unlock()
		d.cancel()
		d.ctx = nil
		d.cancel = nil
		return err
	}

	d.startedAt = time.Now()
	d.running.Store(true)
	d.logger.Info("episodic daemon started",
		logging.String("bind", d.api.boundAddr()),
		logging.String("output_dir", d.store.OutputDir()),
		logging.String("lock", d.lockPath),
	)
	return nil
}

// Stop stops the API server and releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}
	d.api.stop()
	if d.cancel != nil {
		d.cancel()
		d.ctx = nil
		d.cancel = nil
	}
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("release lock", logging.Error(err))
	}
	d.running.Store(false)
	d.logger.Info("episodic daemon stopped")
}

// Close stops the daemon and closes owned resources.
func (d *Daemon) Close() {
	d.Stop()
	if d.journal != nil {
		if err := d.journal.Close(); err != nil {
			d.logger.Warn("close journal", logging.Error(err))
		}
	}
}

// RequestShutdown asks the hosting process to exit. Safe to call repeatedly.
func (d *Daemon) RequestShutdown() {
	d.shutdownOnce.Do(func() {
		close(d.shutdownCh)
	})
}

// ShutdownRequested signals once RequestShutdown has been called.
func (d *Daemon) ShutdownRequested() <-chan struct{} {
	return d.shutdownCh
}

// BoundAddr reports the listener address once Start has succeeded.
func (d *Daemon) BoundAddr() string {
	return d.api.boundAddr()
}

// Status reports daemon runtime information.
func (d *Daemon) Status(ctx context.Context) Status {
	status := Status{
		Running:     d.running.Load(),
		PID:         os.Getpid(),
		Bind:        d.api.boundAddr(),
		OutputDir:   d.store.OutputDir(),
		LockPath:    d.lockPath,
		JournalPath: d.journal.Path(),
		StartedAt:   d.startedAt,
	}
	if d.journal != nil {
		stats, err := d.journal.Stats(ctx)
		if err != nil {
			d.logger.Warn("journal stats", logging.Error(err))
		} else {
			status.Journal = stats
		}
	}
	return status
}
