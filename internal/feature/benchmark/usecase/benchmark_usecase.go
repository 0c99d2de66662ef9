// Package usecase はPostgreSQLに対する計測アクションを実装します。
package usecase

import (
	"context"
	"errors"
	"log/slog"

	monitor "dbmonitor/internal/feature/monitor/domain/entity"
	results "dbmonitor/internal/feature/results/domain/entity"
)

// Database は計測結果に記録されるデータベース名です。
const Database = "postgres"

// 計測アクション名です。
const (
	ActionCreateTable = "create_table"
	ActionInsertBatch = "insert_batch"
	ActionSelect      = "select"
)

// SelectSymbol は select アクションで読み取る銘柄です。
const SelectSymbol = "one"

// ErrInvalidRowCount is returned when insert_batch is asked for a negative number of rows.
var ErrInvalidRowCount = errors.New("num rows must not be negative")

// TickStore はティックテーブルへの操作を抽象化します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type TickStore interface {
	BackendPID() uint32
	CreateTable(ctx context.Context, withIndexes bool) error
	InsertBatch(ctx context.Context, numRows int) (int64, error)
	Select(ctx context.Context, symbol string) (int, error)
}

// Monitor はアクション実行中のリソースを計測して結果を保存します。
type Monitor interface {
	Do(ctx context.Context, database, action string, extra []monitor.Process, fn func(ctx context.Context) error) (*results.Run, error)
}

// BenchmarkUsecase は各アクションをPostgreSQLのバックエンドプロセスと合わせて計測します。
type BenchmarkUsecase struct {
	store   TickStore
	monitor Monitor
}

// NewBenchmarkUsecase はBenchmarkUsecaseの新しいインスタンスを生成します。
func NewBenchmarkUsecase(store TickStore, m Monitor) *BenchmarkUsecase {
	return &BenchmarkUsecase{store: store, monitor: m}
}

// CreateTable は計測対象テーブルを作り直します。
func (u *BenchmarkUsecase) CreateTable(ctx context.Context, withIndexes bool) (*results.Run, error) {
	return u.do(ctx, ActionCreateTable, func(ctx context.Context) error {
		return u.store.CreateTable(ctx, withIndexes)
	})
}

// InsertBatch はランダムなティックを numRows 件挿入します。
func (u *BenchmarkUsecase) InsertBatch(ctx context.Context, numRows int) (*results.Run, error) {
	if numRows < 0 {
		return nil, ErrInvalidRowCount
	}
	return u.do(ctx, ActionInsertBatch, func(ctx context.Context) error {
		n, err := u.store.InsertBatch(ctx, numRows)
		if err != nil {
			return err
		}
		slog.Info("rows inserted", "rows", n)
		return nil
	})
}

// Select は銘柄 "one" の bid を読み取ります。
func (u *BenchmarkUsecase) Select(ctx context.Context) (*results.Run, error) {
	return u.do(ctx, ActionSelect, func(ctx context.Context) error {
		n, err := u.store.Select(ctx, SelectSymbol)
		if err != nil {
			return err
		}
		slog.Info("rows selected", "symbol", SelectSymbol, "rows", n)
		return nil
	})
}

// do はバックエンドプロセスを監視対象に加えてアクションを計測します。
func (u *BenchmarkUsecase) do(ctx context.Context, action string, fn func(ctx context.Context) error) (*results.Run, error) {
	backend := monitor.Process{Program: Database, PID: int32(u.store.BackendPID())}
	return u.monitor.Do(ctx, Database, action, []monitor.Process{backend}, fn)
}
