// Package entity は書き込み・読み取り性能の計測に使うティックデータを定義します。
package entity

import "time"

// Tick は1件の気配値です。
type Tick struct {
	Datetime time.Time
	Symbol   string
	Bid      float64
	Ask      float64
}

// Symbols は生成するティックの銘柄です。
var Symbols = []string{"one", "two", "three"}

// FirstTickTime は生成する最初のティックの時刻です。以降1秒ずつ進みます。
var FirstTickTime = time.Date(2016, 1, 1, 0, 0, 0, 0, time.UTC)

// MaxPrice は生成する bid/ask の上限（この値は含まない）です。
const MaxPrice = 1000.0
