package http

import (
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"
)

// ClientConfig はJSON取得用クライアントの設定です。
type ClientConfig struct {
	// Timeout はリクエスト全体の上限です。0 の場合は無制限で、
	// 呼び出し元の context でのみ中断できます。
	Timeout time.Duration
	// MaxConnsPerHost は結果サーバー1台あたりの同時接続数の上限です（0 は無制限）。
	MaxConnsPerHost int
}

// LoadClientConfig は環境変数 FETCH_TIMEOUT からクライアント設定を読み込みます。
// 解釈できない値は警告を出して無視します。
func LoadClientConfig() ClientConfig {
	cfg := ClientConfig{MaxConnsPerHost: 4}
	if v := os.Getenv("FETCH_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			slog.Warn("invalid FETCH_TIMEOUT; requests will not time out", "value", v, "error", err)
		} else {
			cfg.Timeout = d
		}
	}
	return cfg
}

// NewHTTPClient は結果サーバーからのJSON取得用にHTTPクライアントを作成します。
//
// 設定:
//   - Proxy: 環境変数（HTTP_PROXYなど）が設定されている場合に使用
//   - MaxConnsPerHost: 取得先は1台のサーバーなので接続数を絞る
//   - Client.Timeout: cfg.Timeout（0 は無制限）
func NewHTTPClient(cfg ClientConfig) *http.Client {
	t := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxConnsPerHost:     cfg.MaxConnsPerHost,
		MaxIdleConnsPerHost: cfg.MaxConnsPerHost,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}
	return &http.Client{Timeout: cfg.Timeout, Transport: t}
}
