// Package http はJSONリソース取得用のHTTPクライアントを提供します。
package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

// StatusError は200以外のステータスで完了した取得を表します。
// ステータスコード以外の情報（ボディやメッセージ）は持ちません。
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch failed: status %d", e.StatusCode)
}

// Handler は取得結果を受け取ります。成功時は err が nil、失敗時は result がゼロ値です。
type Handler[T any] func(err error, result T)

// GetJSON は url に対してGETリクエストを1回だけ非同期に発行し、
// 完了時に handler をちょうど1回呼び出します。
// GetJSON 自体はすぐに戻り、handler は別のgoroutineから呼ばれます。
//
//   - ステータス200: handler(nil, デコード済みボディ)
//   - それ以外のステータス: handler(*StatusError, ゼロ値)
//   - 通信エラーやJSONの不正: handler(そのエラー, ゼロ値)
//
// リトライは行いません。中断は ctx と client のタイムアウトに従います。
func GetJSON[T any](ctx context.Context, client *http.Client, url string, handler Handler[T]) {
	go func() {
		var result T
		if err := getJSON(ctx, client, url, &result); err != nil {
			var zero T
			handler(err, zero)
			return
		}
		handler(nil, result)
	}()
}

func getJSON(ctx context.Context, client *http.Client, url string, out any) error {
	// リクエストオブジェクトを作成
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	// リクエストを実行
	res, err := client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		// 接続を再利用できるようにボディを読み切る
		_, _ = io.Copy(io.Discard, res.Body)
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode != http.StatusOK {
		return &StatusError{StatusCode: res.StatusCode}
	}

	// JSONレスポンスをデコード
	return json.NewDecoder(res.Body).Decode(out)
}
