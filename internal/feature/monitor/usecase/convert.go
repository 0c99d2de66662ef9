package usecase

import (
	"time"

	"dbmonitor/internal/feature/monitor/domain/entity"
	results "dbmonitor/internal/feature/results/domain/entity"
	"dbmonitor/internal/shared/iter"
)

// ToSamples は各Samplerの読み取り結果を保存用のサンプルに変換します。
// readings[i] は samplers[i] の結果です。時刻は start からの経過秒数になり、
// サブモニター名が Scalar の値は submonitor が NULL になります。
func ToSamples(start time.Time, samplers []Sampler, readings [][]entity.Reading) []results.MonitorSample {
	var out []results.MonitorSample
	for i, s := range samplers {
		program, monitor := s.Program(), s.Monitor()
		for _, r := range readings[i] {
			t := r.At.Sub(start).Seconds()
			iter.ForEach(r.Values, func(sub string, v float64) {
				sample := results.MonitorSample{
					Program: program,
					Monitor: monitor,
					Time:    t,
					Value:   v,
				}
				if sub != entity.Scalar {
					sample.Submonitor = &sub
				}
				out = append(out, sample)
			})
		}
	}
	return out
}
