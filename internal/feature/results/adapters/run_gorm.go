package adapters

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"dbmonitor/internal/feature/results/domain/entity"
	"dbmonitor/internal/feature/results/usecase"
)

// sampleBatchSize は1回のINSERTで書き込むサンプル数です。
const sampleBatchSize = 1000

// runGorm はRunRepositoryインターフェースのgorm実装です。
type runGorm struct {
	db *gorm.DB
}

var _ usecase.RunRepository = (*runGorm)(nil)

// NewRunRepository は指定されたDB接続でrunGormリポジトリの新しいインスタンスを生成します。
func NewRunRepository(db *gorm.DB) *runGorm {
	return &runGorm{db: db}
}

// List は実行番号順に index 件目から最大 count 件を返します。
func (r *runGorm) List(ctx context.Context, index, count int) ([]entity.Run, error) {
	var rows []RunModel
	if err := r.db.WithContext(ctx).
		Order("id ASC").
		Offset(index).
		Limit(count).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]entity.Run, 0, len(rows))
	for _, m := range rows {
		out = append(out, toRunEntity(m))
	}
	return out, nil
}

// FindByID は実行番号で実行を検索します。
func (r *runGorm) FindByID(ctx context.Context, id uint) (*entity.Run, error) {
	var m RunModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrRunNotFound
		}
		return nil, err
	}
	e := toRunEntity(m)
	return &e, nil
}

// CreateWithSamples は実行とそのサンプルを1つのトランザクションで保存し、
// 採番された実行番号を run.ID に設定します。
func (r *runGorm) CreateWithSamples(ctx context.Context, run *entity.Run, samples []entity.MonitorSample) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m := RunModel{Database: run.Database, Action: run.Action, Duration: run.Duration}
		if err := tx.Create(&m).Error; err != nil {
			return fmt.Errorf("create run: %w", err)
		}
		run.ID = m.ID

		if len(samples) == 0 {
			return nil
		}
		ms := make([]MonitorSampleModel, 0, len(samples))
		for _, s := range samples {
			ms = append(ms, MonitorSampleModel{
				RunID:      m.ID,
				Program:    s.Program,
				Monitor:    s.Monitor,
				Submonitor: s.Submonitor,
				Time:       s.Time,
				Value:      s.Value,
			})
		}
		if err := tx.Omit("Run").CreateInBatches(&ms, sampleBatchSize).Error; err != nil {
			return fmt.Errorf("create samples: %w", err)
		}
		return nil
	})
}

func toRunEntity(m RunModel) entity.Run {
	return entity.Run{
		ID:       m.ID,
		Database: m.Database,
		Action:   m.Action,
		Duration: m.Duration,
	}
}
