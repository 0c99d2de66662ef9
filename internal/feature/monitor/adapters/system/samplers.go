// Package system はgopsutilを用いたSamplerの実装を提供します。
package system

import (
	"context"
	"fmt"
	"os"

	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/process"

	"dbmonitor/internal/feature/monitor/domain/entity"
	"dbmonitor/internal/feature/monitor/usecase"
)

const (
	// OSProgram はOS全体の計測に使うプログラム名です。
	OSProgram = "os"
	// SelfProgram は計測プロセス自身のプログラム名です。
	SelfProgram = "dbmonitor"
)

// sampler は読み取り関数を (program, monitor) に結び付けます。
type sampler struct {
	program string
	monitor string
	read    func(ctx context.Context) (map[string]float64, error)
}

var _ usecase.Sampler = (*sampler)(nil)

func (s *sampler) Program() string { return s.program }
func (s *sampler) Monitor() string { return s.monitor }
func (s *sampler) Read(ctx context.Context) (map[string]float64, error) {
	return s.read(ctx)
}

// Source はローカルホストのOSとプロセスを計測します。
type Source struct{}

var _ usecase.SamplerSource = Source{}

// NewSource はSourceを生成します。
func NewSource() Source {
	return Source{}
}

// Defaults はOS全体のSamplerと自プロセスのSamplerを返します。
// 自プロセスを参照できない環境ではOS全体のみを返します。
func (s Source) Defaults(ctx context.Context) []usecase.Sampler {
	out := OSSamplers()
	self, err := s.Process(ctx, entity.Process{Program: SelfProgram, PID: int32(os.Getpid())})
	if err == nil {
		out = append(out, self...)
	}
	return out
}

// Process は指定プロセスのSamplerを返します。プロセスが存在しない場合はエラーを返します。
func (Source) Process(ctx context.Context, p entity.Process) ([]usecase.Sampler, error) {
	return ProcessSamplers(ctx, p.Program, p.PID)
}

// OSSamplers はOS全体のメモリとディスクI/OのSamplerを返します。
func OSSamplers() []usecase.Sampler {
	return []usecase.Sampler{
		&sampler{program: OSProgram, monitor: "virtual_memory", read: readVirtualMemory},
		&sampler{program: OSProgram, monitor: "disk_io_counters", read: readDiskIOCounters},
	}
}

// ProcessSamplers はプロセスのメモリ使用率、メモリ使用量、I/OのSamplerを返します。
func ProcessSamplers(ctx context.Context, program string, pid int32) ([]usecase.Sampler, error) {
	p, err := process.NewProcessWithContext(ctx, pid)
	if err != nil {
		return nil, fmt.Errorf("inspect process %d: %w", pid, err)
	}
	return []usecase.Sampler{
		&sampler{program: program, monitor: "memory_percent", read: func(ctx context.Context) (map[string]float64, error) {
			v, err := p.MemoryPercentWithContext(ctx)
			if err != nil {
				return nil, err
			}
			return map[string]float64{entity.Scalar: float64(v)}, nil
		}},
		&sampler{program: program, monitor: "memory_info", read: func(ctx context.Context) (map[string]float64, error) {
			m, err := p.MemoryInfoWithContext(ctx)
			if err != nil {
				return nil, err
			}
			return map[string]float64{
				"rss":  float64(m.RSS),
				"vms":  float64(m.VMS),
				"swap": float64(m.Swap),
			}, nil
		}},
		&sampler{program: program, monitor: "io_counters", read: func(ctx context.Context) (map[string]float64, error) {
			io, err := p.IOCountersWithContext(ctx)
			if err != nil {
				return nil, err
			}
			return map[string]float64{
				"read_count":  float64(io.ReadCount),
				"write_count": float64(io.WriteCount),
				"read_bytes":  float64(io.ReadBytes),
				"write_bytes": float64(io.WriteBytes),
			}, nil
		}},
	}, nil
}

func readVirtualMemory(ctx context.Context) (map[string]float64, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]float64{
		"total":     float64(vm.Total),
		"available": float64(vm.Available),
		"percent":   vm.UsedPercent,
		"used":      float64(vm.Used),
		"free":      float64(vm.Free),
	}, nil
}

// readDiskIOCounters は全ディスクの合計値を返します。
func readDiskIOCounters(ctx context.Context) (map[string]float64, error) {
	counters, err := disk.IOCountersWithContext(ctx)
	if err != nil {
		return nil, err
	}
	var total disk.IOCountersStat
	for _, c := range counters {
		total.ReadCount += c.ReadCount
		total.WriteCount += c.WriteCount
		total.ReadBytes += c.ReadBytes
		total.WriteBytes += c.WriteBytes
		total.ReadTime += c.ReadTime
		total.WriteTime += c.WriteTime
	}
	return map[string]float64{
		"read_count":  float64(total.ReadCount),
		"write_count": float64(total.WriteCount),
		"read_bytes":  float64(total.ReadBytes),
		"write_bytes": float64(total.WriteBytes),
		"read_time":   float64(total.ReadTime),
		"write_time":  float64(total.WriteTime),
	}, nil
}
