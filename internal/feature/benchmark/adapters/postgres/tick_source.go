package postgres

import (
	"math/rand/v2"
	"time"

	"github.com/jackc/pgx/v5"

	"dbmonitor/internal/feature/benchmark/domain/entity"
)

// tickColumns はCOPYで送る列の順序です。
var tickColumns = []string{"symbol", "bid", "ask", "datetime"}

// TickSource はランダムなティックを numRows 件生成する pgx.CopyFromSource です。
// 時刻は entity.FirstTickTime から1行ごとに1秒進みます。
type TickSource struct {
	rng     *rand.Rand
	remain  int
	current entity.Tick
	next    time.Time
}

var _ pgx.CopyFromSource = (*TickSource)(nil)

// NewTickSource はTickSourceを生成します。rng が nil の場合は新しい乱数源を使います。
func NewTickSource(numRows int, rng *rand.Rand) *TickSource {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &TickSource{rng: rng, remain: numRows, next: entity.FirstTickTime}
}

// Next は次の行を用意します。
func (s *TickSource) Next() bool {
	if s.remain <= 0 {
		return false
	}
	s.remain--
	s.current = entity.Tick{
		Datetime: s.next,
		Symbol:   entity.Symbols[s.rng.IntN(len(entity.Symbols))],
		Bid:      s.rng.Float64() * entity.MaxPrice,
		Ask:      s.rng.Float64() * entity.MaxPrice,
	}
	s.next = s.next.Add(time.Second)
	return true
}

// Values は現在の行を tickColumns の順で返します。
func (s *TickSource) Values() ([]any, error) {
	t := s.current
	return []any{t.Symbol, t.Bid, t.Ask, t.Datetime}, nil
}

// Current は直前の Next で用意された行を返します。
func (s *TickSource) Current() entity.Tick {
	return s.current
}

// Err は常に nil を返します。
func (s *TickSource) Err() error {
	return nil
}
