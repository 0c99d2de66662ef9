package adapters

import (
	"context"

	"gorm.io/gorm"

	"dbmonitor/internal/feature/results/domain/entity"
	"dbmonitor/internal/feature/results/usecase"
)

// sampleGorm はSampleRepositoryインターフェースのgorm実装です。
type sampleGorm struct {
	db *gorm.DB
}

var _ usecase.SampleRepository = (*sampleGorm)(nil)

// NewSampleRepository は指定されたDB接続でsampleGormリポジトリの新しいインスタンスを生成します。
func NewSampleRepository(db *gorm.DB) *sampleGorm {
	return &sampleGorm{db: db}
}

// FindByRun は実行の全サンプルを program, monitor, submonitor, time の順で返します。
func (r *sampleGorm) FindByRun(ctx context.Context, run uint) ([]entity.MonitorSample, error) {
	var rows []MonitorSampleModel
	if err := r.db.WithContext(ctx).
		Where("run_id = ?", run).
		Order("program, monitor, submonitor, time").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]entity.MonitorSample, 0, len(rows))
	for _, m := range rows {
		out = append(out, entity.MonitorSample{
			Run:        m.RunID,
			Program:    m.Program,
			Monitor:    m.Monitor,
			Submonitor: m.Submonitor,
			Time:       m.Time,
			Value:      m.Value,
		})
	}
	return out, nil
}

// ListGraphs は実行に含まれる (program, monitor) の組を返します。
func (r *sampleGorm) ListGraphs(ctx context.Context, run uint) ([]entity.Graph, error) {
	var rows []struct {
		Program string
		Monitor string
	}
	if err := r.db.WithContext(ctx).
		Model(&MonitorSampleModel{}).
		Select("program, monitor").
		Where("run_id = ?", run).
		Group("program, monitor").
		Order("program, monitor").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]entity.Graph, 0, len(rows))
	for _, g := range rows {
		out = append(out, entity.Graph{Group: g.Program, Subgroup: g.Monitor})
	}
	return out, nil
}
