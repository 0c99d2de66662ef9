// Package usecase は計測結果の時系列をチャートとして描画するロジックを実装します。
package usecase

import (
	"dbmonitor/internal/feature/results/domain/entity"
	"dbmonitor/internal/platform/chart"
	"dbmonitor/internal/shared/iter"
)

// MountResolver は要素IDからチャートのマウントポイントを引き当てます。
// 存在しないIDには nil を返します。
type MountResolver interface {
	ElementByID(id string) chart.Mount
}

// ChartFactory はマウントポイントにチャートを1つ構築します。
type ChartFactory func(mount chart.Mount, data [][]*float64, opts chart.Options) error

// NewChart はgo-chartによるウィジェットを構築するChartFactoryです。
func NewChart(mount chart.Mount, data [][]*float64, opts chart.Options) error {
	_, err := chart.New(mount, data, opts)
	return err
}

// ElementID は group と subgroup からマウントポイントのIDを組み立てます。
func ElementID(group, subgroup string) string {
	return group + "-" + subgroup
}

// Title はチャートのタイトルを組み立てます。
func Title(group, subgroup string) string {
	return group + ": " + subgroup
}

// GraphBuilder は group → subgroup → 時系列 の入れ子マップからチャートを構築します。
type GraphBuilder struct {
	mounts   MountResolver
	newChart ChartFactory
}

// NewGraphBuilder はGraphBuilderの新しいインスタンスを生成します。
func NewGraphBuilder(mounts MountResolver, newChart ChartFactory) *GraphBuilder {
	return &GraphBuilder{mounts: mounts, newChart: newChart}
}

// MakeGraphs は (group, subgroup) の組ごとにチャートを1つずつ構築します。
// 入力の検証は行いません。マウントポイントが見つからない場合も nil のまま
// チャートライブラリに渡し、そこで発生したエラーを返して以降の構築を中止します。
func (b *GraphBuilder) MakeGraphs(groups entity.Groups) error {
	var err error
	iter.ForEach(groups, func(group string, subgroups map[string]entity.TimeSeries) {
		iter.ForEach(subgroups, func(subgroup string, ts entity.TimeSeries) {
			if err != nil {
				return
			}
			err = b.newChart(b.mounts.ElementByID(ElementID(group, subgroup)), ts.Data, chart.Options{
				Title:                  Title(group, subgroup),
				Labels:                 ts.Labels,
				ConnectSeparatedPoints: true,
				DrawPoints:             true,
			})
		})
	})
	return err
}
