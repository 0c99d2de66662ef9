// Package iter はマップ走査のための汎用ヘルパーを提供します。
package iter

import (
	"cmp"
	"maps"
	"slices"
)

// ForEach はマップに宣言されたエントリごとに fn を1回だけ呼び出します。
// キーは昇順で渡されるため、同じ入力に対する呼び出し順は常に同じになります。
// 走査中にマップを変更した場合の動作は未定義です。
func ForEach[M ~map[K]V, K cmp.Ordered, V any](m M, fn func(key K, value V)) {
	for _, k := range slices.Sorted(maps.Keys(m)) {
		fn(k, m[k])
	}
}
