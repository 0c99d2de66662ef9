// Package main provides the CLI that renders the graphs of one run into PNG files.
package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"dbmonitor/internal/app/di"
	"dbmonitor/internal/feature/graphs/usecase"
	fetch "dbmonitor/internal/platform/http"
	"dbmonitor/internal/platform/page"
)

var (
	serverURL string
	runID     uint
	outDir    string
)

func main() {
	// .envを読み込む
	if err := godotenv.Load(".env"); err != nil {
		log.Println("[INFO] .env not found; using system environment variables")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "graphs",
		Short:        "Render the monitor graphs of a run",
		Long:         `graphs fetches the monitor time series of one run from the result server and draws one chart per program and monitor.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE:         run,
	}

	defaultServer := os.Getenv("RESULT_SERVER_URL")
	if defaultServer == "" {
		defaultServer = "http://localhost:8080"
	}
	rootCmd.Flags().StringVar(&serverURL, "server", defaultServer, "Result server base URL")
	rootCmd.Flags().UintVar(&runID, "run", 0, "Run number")
	rootCmd.Flags().StringVarP(&outDir, "out", "o", "graphs", "Output directory for PNG files")
	_ = rootCmd.MarkFlagRequired("run")
	return rootCmd
}

func run(cmd *cobra.Command, args []string) error {
	p := page.New(outDir)
	uc := usecase.NewRenderUsecase(di.NewFetchClient(), serverURL, p, usecase.NewChart)

	if err := uc.RenderRun(cmd.Context(), runID); err != nil {
		var statusErr *fetch.StatusError
		if errors.As(err, &statusErr) {
			log.Printf("[ERROR] result server responded with status %d", statusErr.StatusCode)
		}
		return err
	}
	log.Printf("wrote %d graphs to %s", len(p.IDs()), outDir)
	return nil
}
