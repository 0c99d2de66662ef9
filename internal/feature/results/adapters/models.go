// Package adapters はresultsフィーチャーのリポジトリ実装を提供します。
package adapters

// RunModel は runs テーブルの行です。
type RunModel struct {
	ID       uint    `gorm:"primaryKey"`
	Database string  `gorm:"size:50;not null"`
	Action   string  `gorm:"size:50;not null"`
	Duration float64 `gorm:"not null"`
}

func (RunModel) TableName() string {
	return "runs"
}

// MonitorSampleModel は monitor_samples テーブルの行です。
// Submonitor はスカラー値のモニターでは NULL になります。
type MonitorSampleModel struct {
	ID         uint    `gorm:"primaryKey"`
	RunID      uint    `gorm:"not null;index:sample_run_graph,priority:1"`
	Program    string  `gorm:"size:50;not null;index:sample_run_graph,priority:2"`
	Monitor    string  `gorm:"size:50;not null;index:sample_run_graph,priority:3"`
	Submonitor *string `gorm:"size:50"`
	Time       float64 `gorm:"not null"`
	Value      float64 `gorm:"not null"`

	Run RunModel `gorm:"foreignKey:RunID;constraint:OnDelete:RESTRICT"`
}

func (MonitorSampleModel) TableName() string {
	return "monitor_samples"
}

// Models はマイグレーション対象のモデル一覧を返します。
func Models() []any {
	return []any{&RunModel{}, &MonitorSampleModel{}}
}
