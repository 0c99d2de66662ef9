package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dbmonitor/internal/feature/benchmark/usecase"
	monitor "dbmonitor/internal/feature/monitor/domain/entity"
	results "dbmonitor/internal/feature/results/domain/entity"
)

// mockTickStore はTickStoreインターフェースのモック実装です。
type mockTickStore struct {
	pid         uint32
	withIndexes *bool
	numRows     int
	symbol      string
	err         error
}

func (m *mockTickStore) BackendPID() uint32 { return m.pid }

func (m *mockTickStore) CreateTable(ctx context.Context, withIndexes bool) error {
	m.withIndexes = &withIndexes
	return m.err
}

func (m *mockTickStore) InsertBatch(ctx context.Context, numRows int) (int64, error) {
	m.numRows = numRows
	return int64(numRows), m.err
}

func (m *mockTickStore) Select(ctx context.Context, symbol string) (int, error) {
	m.symbol = symbol
	return 3, m.err
}

// mockMonitor はアクションをそのまま実行し、呼び出し内容を記録します。
type mockMonitor struct {
	database, action string
	extra            []monitor.Process
}

func (m *mockMonitor) Do(ctx context.Context, database, action string, extra []monitor.Process, fn func(ctx context.Context) error) (*results.Run, error) {
	m.database, m.action, m.extra = database, action, extra
	if err := fn(ctx); err != nil {
		return nil, err
	}
	return &results.Run{ID: 1, Database: database, Action: action}, nil
}

func TestBenchmarkUsecase_CreateTable(t *testing.T) {
	store := &mockTickStore{pid: 4321}
	mon := &mockMonitor{}
	uc := usecase.NewBenchmarkUsecase(store, mon)

	run, err := uc.CreateTable(context.Background(), true)

	require.NoError(t, err)
	assert.Equal(t, usecase.ActionCreateTable, run.Action)
	require.NotNil(t, store.withIndexes)
	assert.True(t, *store.withIndexes)
	assert.Equal(t, "postgres", mon.database)
	assert.Equal(t, []monitor.Process{{Program: "postgres", PID: 4321}}, mon.extra)
}

func TestBenchmarkUsecase_InsertBatch(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		store := &mockTickStore{pid: 1}
		mon := &mockMonitor{}
		uc := usecase.NewBenchmarkUsecase(store, mon)

		_, err := uc.InsertBatch(context.Background(), 500)

		require.NoError(t, err)
		assert.Equal(t, 500, store.numRows)
		assert.Equal(t, usecase.ActionInsertBatch, mon.action)
	})

	t.Run("error: negative rows", func(t *testing.T) {
		mon := &mockMonitor{}
		uc := usecase.NewBenchmarkUsecase(&mockTickStore{}, mon)

		_, err := uc.InsertBatch(context.Background(), -1)

		assert.ErrorIs(t, err, usecase.ErrInvalidRowCount)
		assert.Empty(t, mon.action)
	})

	t.Run("error: store failure", func(t *testing.T) {
		uc := usecase.NewBenchmarkUsecase(&mockTickStore{err: errors.New("copy failed")}, &mockMonitor{})

		_, err := uc.InsertBatch(context.Background(), 10)

		assert.ErrorContains(t, err, "copy failed")
	})
}

func TestBenchmarkUsecase_Select(t *testing.T) {
	store := &mockTickStore{}
	mon := &mockMonitor{}
	uc := usecase.NewBenchmarkUsecase(store, mon)

	_, err := uc.Select(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "one", store.symbol)
	assert.Equal(t, usecase.ActionSelect, mon.action)
}
