// Package main provides the CLI that runs database actions under resource monitoring.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	benchpg "dbmonitor/internal/feature/benchmark/adapters/postgres"
	benchusecase "dbmonitor/internal/feature/benchmark/usecase"
	"dbmonitor/internal/feature/monitor/adapters/system"
	monitorusecase "dbmonitor/internal/feature/monitor/usecase"
	"dbmonitor/internal/feature/results/adapters"
	infradb "dbmonitor/internal/platform/db"
)

var (
	interval    time.Duration
	withIndexes bool
	numRows     int
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
		Use:   "monitor",
		Short: "Test performance of databases",
		Long: `monitor runs an action against a database while sampling memory and I/O
of the operating system, itself and the database backend, and stores the
samples in the result database.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().DurationVar(&interval, "interval", monitorusecase.DefaultInterval, "Sampling interval")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "setup-db",
		Short: "Create the result tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openResultDB()
			if err != nil {
				return err
			}
			if err := infradb.Migrate(db, adapters.Models()...); err != nil {
				return err
			}
			log.Println("result tables ready")
			return nil
		},
	})
	rootCmd.AddCommand(newPostgresCmd())
	return rootCmd
}

func newPostgresCmd() *cobra.Command {
	pgCmd := &cobra.Command{
		Use:   "postgres",
		Short: "Test the postgres database",
	}

	createCmd := &cobra.Command{
		Use:   "create-table",
		Short: "Create table used to insert and select",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBenchmark(cmd.Context(), func(ctx context.Context, uc *benchusecase.BenchmarkUsecase) error {
				_, err := uc.CreateTable(ctx, withIndexes)
				return err
			})
		},
	}
	createCmd.Flags().BoolVar(&withIndexes, "with-indexes", true, "Create an index on every column")

	insertCmd := &cobra.Command{
		Use:   "insert-batch",
		Short: "Insert num-rows in table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBenchmark(cmd.Context(), func(ctx context.Context, uc *benchusecase.BenchmarkUsecase) error {
				_, err := uc.InsertBatch(ctx, numRows)
				return err
			})
		},
	}
	insertCmd.Flags().IntVar(&numRows, "num-rows", 0, "Number of rows to insert")
	_ = insertCmd.MarkFlagRequired("num-rows")

	selectCmd := &cobra.Command{
		Use:   "select",
		Short: "Select bids of one symbol",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBenchmark(cmd.Context(), func(ctx context.Context, uc *benchusecase.BenchmarkUsecase) error {
				_, err := uc.Select(ctx)
				return err
			})
		},
	}

	pgCmd.AddCommand(createCmd, insertCmd, selectCmd)
	return pgCmd
}

// withBenchmark は結果DBと計測対象DBに接続し、計測付きのユースケースを組み立てます。
func withBenchmark(ctx context.Context, fn func(ctx context.Context, uc *benchusecase.BenchmarkUsecase) error) error {
	db, err := openResultDB()
	if err != nil {
		return err
	}

	conn, err := benchpg.Connect(ctx, targetDSN())
	if err != nil {
		return err
	}
	defer func() {
		if err := conn.Close(context.Background()); err != nil {
			log.Println("[ERROR] Failed to close target connection:", err)
		}
	}()

	monitorUC := monitorusecase.NewMonitorUsecase(system.NewSource(), adapters.NewRunRepository(db), interval)
	uc := benchusecase.NewBenchmarkUsecase(benchpg.NewTickTable(conn, os.Getenv("BENCH_SCHEMA"), os.Getenv("BENCH_TABLE")), monitorUC)
	return fn(ctx, uc)
}

func openResultDB() (*gorm.DB, error) {
	db, err := infradb.OpenDB(adapters.Models()...)
	if err != nil {
		return nil, fmt.Errorf("open result database: %w", err)
	}
	return db, nil
}

// targetDSN は計測対象DBの接続文字列です。未設定の場合は結果DBと同じDBを使います。
func targetDSN() string {
	if dsn := os.Getenv("BENCH_DATABASE_URL"); dsn != "" {
		return dsn
	}
	return infradb.BuildDSN(infradb.LoadConfigFromEnv())
}
