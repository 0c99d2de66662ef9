// Package usecase は計測結果の参照ロジックを実装します。
package usecase

import (
	"context"

	"dbmonitor/internal/feature/results/domain/entity"
)

const (
	// DefaultRunCount は実行一覧のデフォルト返却件数です。
	DefaultRunCount = 30
	// MaxRunCount は実行一覧の最大返却件数です。
	MaxRunCount = 500
)

// RunRepository は実行（run）データの読み取りレイヤーを抽象化します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type RunRepository interface {
	// List は index 件目から最大 count 件の実行を返します。
	List(ctx context.Context, index, count int) ([]entity.Run, error)
	// FindByID は実行を検索します。存在しない場合は ErrRunNotFound を返します。
	FindByID(ctx context.Context, id uint) (*entity.Run, error)
}

// SampleRepository はモニターサンプルの読み取りレイヤーを抽象化します。
type SampleRepository interface {
	// FindByRun は program, monitor, submonitor, time の順に並んだサンプルを返します。
	FindByRun(ctx context.Context, run uint) ([]entity.MonitorSample, error)
	// ListGraphs は実行に含まれる (program, monitor) の組を順序付きで返します。
	ListGraphs(ctx context.Context, run uint) ([]entity.Graph, error)
}

// ResultsUsecase は計測結果参照のユースケースを定義します。
type ResultsUsecase struct {
	runs    RunRepository
	samples SampleRepository
}

// NewResultsUsecase はResultsUsecaseの新しいインスタンスを生成します。
func NewResultsUsecase(runs RunRepository, samples SampleRepository) *ResultsUsecase {
	return &ResultsUsecase{runs: runs, samples: samples}
}

// ListRuns は実行の一覧を返します。
// 件数が0以下の場合はデフォルト値、上限を超える場合は MaxRunCount に丸めます。
func (u *ResultsUsecase) ListRuns(ctx context.Context, index, count int) ([]entity.Run, error) {
	if index < 0 {
		index = 0
	}
	switch {
	case count <= 0:
		count = DefaultRunCount
	case count > MaxRunCount:
		count = MaxRunCount
	}
	return u.runs.List(ctx, index, count)
}

// GetRun は指定された実行を返します。
func (u *ResultsUsecase) GetRun(ctx context.Context, id uint) (*entity.Run, error) {
	return u.runs.FindByID(ctx, id)
}

// GetGraphs は実行のグラフ配置（group/subgroupの組）を返します。
func (u *ResultsUsecase) GetGraphs(ctx context.Context, id uint) ([]entity.Graph, error) {
	if _, err := u.runs.FindByID(ctx, id); err != nil {
		return nil, err
	}
	return u.samples.ListGraphs(ctx, id)
}

// GetMonitors は実行の全サンプルを group → subgroup → 時系列 の形に整形して返します。
func (u *ResultsUsecase) GetMonitors(ctx context.Context, id uint) (entity.Groups, error) {
	if _, err := u.runs.FindByID(ctx, id); err != nil {
		return nil, err
	}
	samples, err := u.samples.FindByRun(ctx, id)
	if err != nil {
		return nil, err
	}
	return MergeSamples(samples), nil
}

// GetTimeSeries は1つのグラフの時系列を返します。
func (u *ResultsUsecase) GetTimeSeries(ctx context.Context, id uint, group, subgroup string) (entity.TimeSeries, error) {
	groups, err := u.GetMonitors(ctx, id)
	if err != nil {
		return entity.TimeSeries{}, err
	}
	ts, ok := groups[group][subgroup]
	if !ok {
		return entity.TimeSeries{}, ErrGraphNotFound
	}
	return ts, nil
}
