package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/colormatch/internal/games/colormatch"
	"github.com/vovakirdan/colormatch/internal/platform/httpapi"
	"github.com/vovakirdan/colormatch/internal/platform/tui"
	"github.com/vovakirdan/colormatch/internal/storage"
)

func newServeCmd() *cobra.Command {
	var (
		sshAddr     string
		httpAddr    string
		hostKey     string
		configPath  string
		idleTimeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the SSH server",
		Long: `Start an SSH server that lets users connect and play.

Each SSH connection plays its own game. Results are kept in memory for the
lifetime of the server and shared by all sessions.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.colormatch/host_key

With --http, a read-only JSON API serves the results board:
  GET /healthz
  GET /api/games/{game}/results?limit=N
  GET /api/games/{game}/stats

Environment:
  COLORMATCH_SSH_ADDR   default for --ssh
  COLORMATCH_HTTP_ADDR  default for --http

Examples:
  colormatch serve                           # Listen on :23234 with auto-generated key
  colormatch serve --ssh :2222               # Listen on port 2222
  colormatch serve --http :8080              # Also serve the JSON API

Users can connect with:
  ssh localhost -p 23234`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := useConfig(configPath); err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, tui.SSHServerConfig{
				Address:     sshAddr,
				HostKeyPath: hostKey,
				IdleTimeout: idleTimeout,
				GameID:      colormatch.GameID,
				TickRate:    flagFPS,
			}, httpAddr)
		},
	}

	cmd.Flags().StringVar(&sshAddr, "ssh", envOr("COLORMATCH_SSH_ADDR", ":23234"), "SSH server address (host:port)")
	cmd.Flags().StringVar(&httpAddr, "http", envOr("COLORMATCH_HTTP_ADDR", ""), "HTTP API address (disabled when empty)")
	cmd.Flags().StringVar(&hostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	cmd.Flags().StringVar(&configPath, "config", "", "Path to custom game config YAML")
	cmd.Flags().DurationVar(&idleTimeout, "idle-timeout", 30*time.Minute, "Idle timeout before disconnecting")
	return cmd
}

func runServe(ctx context.Context, cfg tui.SSHServerConfig, httpAddr string) error {
	logger, err := newLogger(os.Stderr, "colormatch")
	if err != nil {
		return err
	}

	store, err := storage.Open()
	if err != nil {
		return fmt.Errorf("cannot open results board: %w", err)
	}
	defer store.Close()

	server, err := tui.NewSSHServer(cfg, store, logger.WithPrefix("ssh"))
	if err != nil {
		return fmt.Errorf("error creating server: %w", err)
	}

	logger.Info("connect with: ssh localhost -p <port>", "address", server.Addr())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Either server failing stops the other.
	httpErr := make(chan error, 1)
	if httpAddr != "" {
		api := httpapi.New(store, logger.WithPrefix("http"))
		go func() {
			err := api.ListenAndServe(ctx, httpAddr)
			if err != nil {
				cancel()
			}
			httpErr <- err
		}()
	} else {
		close(httpErr)
	}

	sshErr := server.ListenAndServe(ctx)
	cancel()
	return errors.Join(sshErr, <-httpErr)
}
