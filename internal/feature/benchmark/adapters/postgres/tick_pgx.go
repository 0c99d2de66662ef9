// Package postgres はpgxを用いた計測対象テーブルの操作を提供します。
package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"dbmonitor/internal/feature/benchmark/usecase"
)

const (
	// DefaultSchema と DefaultTable は計測対象テーブルの既定の名前です。
	DefaultSchema = "ttptest"
	DefaultTable  = "tick"
)

// TickTable はティックテーブルへの書き込み・読み取りを行います。
// すべての操作は1つの接続（1つのバックエンドプロセス）で実行されます。
type TickTable struct {
	conn  *pgx.Conn
	table pgx.Identifier
}

var _ usecase.TickStore = (*TickTable)(nil)

// Connect はPostgreSQLに接続します。
func Connect(ctx context.Context, dsn string) (*pgx.Conn, error) {
	conn, err := pgx.Connect(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect target database: %w", err)
	}
	return conn, nil
}

// NewTickTable はTickTableを生成します。schema, table が空の場合は既定の名前を使います。
func NewTickTable(conn *pgx.Conn, schema, table string) *TickTable {
	if schema == "" {
		schema = DefaultSchema
	}
	if table == "" {
		table = DefaultTable
	}
	return &TickTable{conn: conn, table: pgx.Identifier{schema, table}}
}

// BackendPID は接続先のバックエンドプロセスのPIDを返します（pg_backend_pid() と同じ値）。
func (t *TickTable) BackendPID() uint32 {
	return t.conn.PgConn().PID()
}

// CreateTable はテーブルを作り直します。withIndexes が true の場合は全列にインデックスを作成します。
func (t *TickTable) CreateTable(ctx context.Context, withIndexes bool) error {
	for _, stmt := range createStatements(t.table, withIndexes) {
		if _, err := t.conn.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("create table %s: %w", t.table.Sanitize(), err)
		}
	}
	return nil
}

// InsertBatch はランダムなティックを numRows 件COPYで挿入し、挿入件数を返します。
func (t *TickTable) InsertBatch(ctx context.Context, numRows int) (int64, error) {
	n, err := t.conn.CopyFrom(ctx, t.table, tickColumns, NewTickSource(numRows, nil))
	if err != nil {
		return n, fmt.Errorf("copy into %s: %w", t.table.Sanitize(), err)
	}
	return n, nil
}

// Select は銘柄 symbol の bid をすべて読み取り、件数を返します。
func (t *TickTable) Select(ctx context.Context, symbol string) (int, error) {
	rows, err := t.conn.Query(ctx, selectStatement(t.table), symbol)
	if err != nil {
		return 0, fmt.Errorf("select from %s: %w", t.table.Sanitize(), err)
	}
	bids, err := pgx.CollectRows(rows, pgx.RowTo[float64])
	if err != nil {
		return 0, fmt.Errorf("read bids: %w", err)
	}
	slog.Debug("bids selected", "symbol", symbol, "rows", len(bids))
	return len(bids), nil
}

func createStatements(table pgx.Identifier, withIndexes bool) []string {
	name := table.Sanitize()
	stmts := []string{
		fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", pgx.Identifier{table[0]}.Sanitize()),
		fmt.Sprintf("DROP TABLE IF EXISTS %s", name),
		fmt.Sprintf(`CREATE TABLE %s (
	datetime TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	symbol VARCHAR(50),
	bid NUMERIC(10, 2),
	ask NUMERIC(10, 2)
)`, name),
	}
	if withIndexes {
		for _, col := range []string{"datetime", "symbol", "bid", "ask"} {
			stmts = append(stmts, fmt.Sprintf("CREATE INDEX ON %s (%s)", name, col))
		}
	}
	return stmts
}

func selectStatement(table pgx.Identifier) string {
	return fmt.Sprintf("SELECT bid FROM %s WHERE symbol = $1", table.Sanitize())
}
