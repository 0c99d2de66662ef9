// Package entity はモニタリングのドメインエンティティを定義します。
package entity

import "time"

// Scalar は単一値を返すモニターのサブモニター名です。保存時は NULL になります。
const Scalar = ""

// Reading は1回のサンプリング結果です。
type Reading struct {
	At     time.Time          // 取得時刻
	Values map[string]float64 // サブモニター名 → 値
}

// Process は監視対象のプロセスです。
type Process struct {
	Program string // 表示名（グラフのグループ名になる）
	PID     int32
}
