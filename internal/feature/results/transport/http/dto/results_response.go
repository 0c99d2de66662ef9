// Package dto は結果サーバーのレスポンスDTOを定義します。
package dto

// RunSummaryResponse は実行一覧の1件です。
type RunSummaryResponse struct {
	Run      uint    `json:"run"`      // 実行番号
	Database string  `json:"database"` // 対象データベース
	Action   string  `json:"action"`   // アクション名
	Duration float64 `json:"duration"` // 所要時間（秒）
}

// RunResponse は /run_json/:run のレスポンスです。
type RunResponse struct {
	Database string  `json:"database"`
	Action   string  `json:"action"`
	Duration float64 `json:"duration"`
}

// GraphResponse はグラフ配置の1件です。
type GraphResponse struct {
	Group    string `json:"group"`
	Subgroup string `json:"subgroup"`
}

// ErrorResponse はエラーレスポンスです。
type ErrorResponse struct {
	Error string `json:"error"`
}
