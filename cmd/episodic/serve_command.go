package main

import (
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"episodic/internal/config"
	"episodic/internal/daemon"
	"episodic/internal/ingest"
	"episodic/internal/ipc"
	"episodic/internal/journal"
	"episodic/internal/logging"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var bindFlag string
	var outputFlag string
	var logLevelFlag string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the capture daemon in the foreground",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if strings.TrimSpace(bindFlag) != "" {
				cfg.Paths.APIBind = strings.TrimSpace(bindFlag)
			}
			if strings.TrimSpace(outputFlag) != "" {
				expanded, err := config.ExpandPath(outputFlag)
				if err != nil {
					return err
				}
				cfg.Paths.OutputDir = expanded
			}
			if strings.TrimSpace(logLevelFlag) != "" {
				cfg.Logging.Level = strings.ToLower(strings.TrimSpace(logLevelFlag))
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return err
			}

			signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			store := ingest.NewStore(cfg.Paths.OutputDir, cfg.Ingest.FilenamePrefix, logger)

			var jstore *journal.Store
			if cfg.Journal.Enabled {
				jstore, err = journal.Open(cfg.JournalPath())
				if err != nil {
					return fmt.Errorf("open journal: %w", err)
				}
			}

			d, err := daemon.New(cfg, store, jstore, logger)
			if err != nil {
				return fmt.Errorf("create daemon: %w", err)
			}
			defer d.Close()

			ipcServer, err := ipc.NewServer(signalCtx, cfg.SocketPath(), d, logger)
			if err != nil {
				return fmt.Errorf("start IPC server: %w", err)
			}
			defer ipcServer.Close()
			ipcServer.Serve()

			if err := d.Start(signalCtx); err != nil {
				return err
			}

			select {
			case <-signalCtx.Done():
			case <-d.ShutdownRequested():
			}
			logger.Info("episodic shutting down")
			return nil
		},
	}

	cmd.Flags().StringVar(&bindFlag, "bind", "", "Listen address for the capture endpoint (overrides config)")
	cmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Directory to write episode files into (overrides config)")
	cmd.Flags().StringVar(&logLevelFlag, "log-level", "", "Log level: debug, info, warn, or error")
	return cmd
}
