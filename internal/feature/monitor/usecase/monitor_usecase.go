// Package usecase はアクション実行中のリソース計測ロジックを実装します。
package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"dbmonitor/internal/feature/monitor/domain/entity"
	results "dbmonitor/internal/feature/results/domain/entity"
)

// DefaultInterval はサンプリング間隔のデフォルト値です。
const DefaultInterval = time.Second

// Sampler は1つの (program, monitor) の値を読み取ります。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type Sampler interface {
	Program() string
	Monitor() string
	Read(ctx context.Context) (map[string]float64, error)
}

// SamplerSource は計測対象ごとのSamplerを提供します。
type SamplerSource interface {
	// Defaults はOS全体と自プロセスのSamplerを返します。
	Defaults(ctx context.Context) []Sampler
	// Process は指定プロセスのSamplerを返します。
	Process(ctx context.Context, p entity.Process) ([]Sampler, error)
}

// RunRecorder は実行とサンプルを保存します。
type RunRecorder interface {
	CreateWithSamples(ctx context.Context, run *results.Run, samples []results.MonitorSample) error
}

// MonitorUsecase はアクションを実行しながらリソースを定期的に計測し、結果を保存します。
type MonitorUsecase struct {
	source   SamplerSource
	recorder RunRecorder
	interval time.Duration
	now      func() time.Time
}

// NewMonitorUsecase はMonitorUsecaseの新しいインスタンスを生成します。
// interval が 0 以下の場合は DefaultInterval を使用します。
func NewMonitorUsecase(source SamplerSource, recorder RunRecorder, interval time.Duration) *MonitorUsecase {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &MonitorUsecase{source: source, recorder: recorder, interval: interval, now: time.Now}
}

// Do は action を実行している間、OS・自プロセス・extra の各プロセスを計測し、
// 終了後に実行とサンプルを保存します。
//
// 処理の流れ:
//  1. (program, monitor) ごとにサンプリング用のgoroutineを起動（初回は即時）
//  2. action を実行
//  3. サンプリングを停止して全goroutineの終了を待つ
//  4. 開始時刻からの相対時間でサンプルに変換して保存
//
// action が失敗した場合は何も保存せず ErrActionFailed を返します。
func (u *MonitorUsecase) Do(ctx context.Context, database, action string, extra []entity.Process, fn func(ctx context.Context) error) (*results.Run, error) {
	samplers := u.source.Defaults(ctx)
	for _, p := range extra {
		ps, err := u.source.Process(ctx, p)
		if err != nil {
			// ローカルで参照できないプロセス（リモートDBなど）は計測しない
			slog.Warn("process cannot be monitored; skipping", "program", p.Program, "pid", p.PID, "error", err)
			continue
		}
		samplers = append(samplers, ps...)
	}
	if len(samplers) == 0 {
		return nil, ErrNoSamplers
	}

	samplingCtx, stop := context.WithCancel(ctx)
	defer stop()
	g, gctx := errgroup.WithContext(samplingCtx)

	start := u.now()
	readings := make([][]entity.Reading, len(samplers))
	for i, s := range samplers {
		g.Go(func() error {
			readings[i] = u.sample(gctx, s)
			return nil
		})
	}

	actionErr := fn(ctx)
	end := u.now()
	stop()
	_ = g.Wait()

	if actionErr != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", ErrActionFailed, database, action, actionErr)
	}

	duration := end.Sub(start).Seconds()
	run := &results.Run{Database: database, Action: action, Duration: duration}
	samples := ToSamples(start, samplers, readings)
	if err := u.recorder.CreateWithSamples(ctx, run, samples); err != nil {
		return nil, fmt.Errorf("save run: %w", err)
	}

	slog.Info(fmt.Sprintf("%s took %0.3f seconds", database, duration), "run", run.ID, "action", action, "samples", len(samples))
	return run, nil
}

// sample は ctx が終了するまで interval ごとに値を読み取ります。初回は即時に読み取ります。
// 読み取りエラーはログに出力してスキップします。
func (u *MonitorUsecase) sample(ctx context.Context, s Sampler) []entity.Reading {
	var out []entity.Reading
	ticker := time.NewTicker(u.interval)
	defer ticker.Stop()

	for {
		values, err := s.Read(ctx)
		switch {
		case err == nil:
			out = append(out, entity.Reading{At: u.now(), Values: values})
		case ctx.Err() == nil:
			slog.Warn("sampling failed", "program", s.Program(), "monitor", s.Monitor(), "error", err)
		}

		select {
		case <-ctx.Done():
			return out
		case <-ticker.C:
		}
	}
}
