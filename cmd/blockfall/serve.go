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
	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/blockfall/internal/platform/tui"
	"github.com/vovakirdan/blockfall/internal/platform/web"
	"github.com/vovakirdan/blockfall/internal/session"
)

var (
	flagSSHAddr     string
	flagHTTPAddr    string
	flagHostKey     string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve blockfall over SSH and/or WebSocket",
	Long: `Start the SSH server, the WebSocket server, or both.

Each SSH connection gets its own menu and game; scores are stored under
the SSH user name. Each browser connection plays its own session at /ws.
All players share one leaderboard per variant.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.blockfall/host_key

Examples:
  blockfall serve                          # SSH on :23234
  blockfall serve --ssh :2222              # SSH on port 2222
  blockfall serve --http :8080             # SSH and browser play
  blockfall serve --ssh "" --http :8080    # Browser play only

Users can connect with:
  ssh localhost -p 23234
  http://localhost:8080/?player=ada&variant=mini`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (empty disables SSH)")
	serveCmd.Flags().StringVar(&flagHTTPAddr, "http", "", "HTTP/WebSocket address (empty disables it)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
}

func runServe(_ *cobra.Command, _ []string) error {
	if flagSSHAddr == "" && flagHTTPAddr == "" {
		return errors.New("nothing to serve: set --ssh or --http")
	}

	gc, err := loadGameConfig()
	if err != nil {
		return err
	}
	store := openStore()
	if store != nil {
		defer store.Close()
	}
	launcher, err := newLauncher(gc, store, session.TransportSSH)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	if flagSSHAddr != "" {
		cfg := tui.SSHServerConfig{
			Address:     flagSSHAddr,
			HostKeyPath: flagHostKey,
			IdleTimeout: time.Duration(flagIdleTimeout) * time.Minute,
		}
		server, err := tui.NewSSHServer(cfg, launcher, store)
		if err != nil {
			return fmt.Errorf("creating SSH server: %w", err)
		}
		fmt.Printf("SSH: connect with ssh localhost -p %s\n", portOf(cfg.Address))
		g.Go(func() error { return server.ListenAndServe(ctx) })
	}

	if flagHTTPAddr != "" {
		server := web.NewServer(web.ServerConfig{Address: flagHTTPAddr}, launcher, store)
		fmt.Printf("Web: open http://localhost:%s/\n", portOf(flagHTTPAddr))
		g.Go(func() error { return server.ListenAndServe(ctx) })
	}

	fmt.Println("Press Ctrl+C to stop")

	if err := g.Wait(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	return nil
}

// portOf returns the port part of a listen address.
func portOf(addr string) string {
	for i := len(addr) - 1; i >= 0; i-- {
		if addr[i] == ':' {
			return addr[i+1:]
		}
	}
	return addr
}
