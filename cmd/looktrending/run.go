package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one research and publishing cycle now",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		ap, err := newAutopilot(db)
		if err != nil {
			return err
		}
		defer ap.Close()

		if err := ap.Load(); err != nil {
			return fmt.Errorf("loading articles: %w", err)
		}
		if err := ap.Configured(); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		before := len(ap.Articles())
		ap.RunCycle(ctx)

		articles := ap.Articles()
		if len(articles) == before {
			return fmt.Errorf("cycle did not publish an article, see log above")
		}

		fmt.Println()
		printTable(os.Stdout, []string{"ID", "Date", "Title", "Tags", "Image"}, [][]string{articleRow(articles[0])}, nil)
		fmt.Println("\nRun 'looktrending serve' to read it.")
		return nil
	},
}
