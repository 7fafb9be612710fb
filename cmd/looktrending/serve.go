package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"github.com/TobiSchelling/LookTrending/internal/server"
)

var (
	servePort int
	autostart bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web UI and the news agent",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		lock := flock.New(cfg.LockPath())
		ok, err := lock.TryLock()
		if err != nil {
			return fmt.Errorf("acquire lock: %w", err)
		}
		if !ok {
			return errors.New("another looktrending server is already using " + cfg.GetDataDir())
		}
		defer lock.Unlock()

		ap, err := newAutopilot(db)
		if err != nil {
			return err
		}
		defer ap.Close()

		// A load failure is already in the activity log; keep serving so
		// the operator can see it.
		_ = ap.Load()

		if autostart || cfg.Autopilot.Autostart {
			ap.SetActive(true)
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		fmt.Printf("Starting server at http://localhost:%d\n", port)
		fmt.Println("Press Ctrl+C to stop")
		return server.Serve(ctx, ap, port)
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to run server on (default from config)")
	serveCmd.Flags().BoolVar(&autostart, "autostart", false, "Enable the news agent on startup")
}
