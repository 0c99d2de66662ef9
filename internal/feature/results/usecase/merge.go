package usecase

import (
	"slices"

	"dbmonitor/internal/feature/results/domain/entity"
)

// timeLabel は時系列の先頭列のラベルです。
const timeLabel = "time"

// MergeSamples はサンプルを (program, monitor) ごとの表形式の時系列にまとめます。
// 各行は [time, 列1, 列2, ...] で、列は submonitor 名の昇順です。
// ある時刻に値がない列は nil になります。
func MergeSamples(samples []entity.MonitorSample) entity.Groups {
	type key struct{ program, monitor string }

	grouped := map[key][]entity.MonitorSample{}
	for _, s := range samples {
		k := key{s.Program, s.Monitor}
		grouped[k] = append(grouped[k], s)
	}

	out := entity.Groups{}
	for k, ss := range grouped {
		if out[k.program] == nil {
			out[k.program] = map[string]entity.TimeSeries{}
		}
		out[k.program][k.monitor] = mergeSubmonitors(ss)
	}
	return out
}

// mergeSubmonitors は1つのモニターのサンプルを時刻ごとの行に変換します。
func mergeSubmonitors(samples []entity.MonitorSample) entity.TimeSeries {
	byTime := map[float64]map[string]float64{}
	columnSet := map[string]struct{}{}
	for _, s := range samples {
		col := s.Column()
		columnSet[col] = struct{}{}
		if byTime[s.Time] == nil {
			byTime[s.Time] = map[string]float64{}
		}
		byTime[s.Time][col] = s.Value
	}

	columns := make([]string, 0, len(columnSet))
	for c := range columnSet {
		columns = append(columns, c)
	}
	slices.Sort(columns)

	times := make([]float64, 0, len(byTime))
	for t := range byTime {
		times = append(times, t)
	}
	slices.Sort(times)

	data := make([][]*float64, 0, len(times))
	for _, t := range times {
		row := make([]*float64, len(columns)+1)
		row[0] = ptr(t)
		for i, c := range columns {
			if v, ok := byTime[t][c]; ok {
				row[i+1] = ptr(v)
			}
		}
		data = append(data, row)
	}

	return entity.TimeSeries{
		Labels: append([]string{timeLabel}, columns...),
		Data:   data,
	}
}

func ptr(v float64) *float64 { return &v }
