package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	resultshandler "dbmonitor/internal/feature/results/transport/handler"
	"dbmonitor/internal/platform/http/handler"
)

// NewRouter は結果サーバーのルーティングを構築します。
// allowOrigins が空の場合はすべてのオリジンからの GET を許可します。
func NewRouter(results *resultshandler.ResultsHandler, health *handler.HealthHandler, allowOrigins []string) *gin.Engine {
	r := gin.Default()

	// グラフ描画クライアントは別オリジンから JSON を取得する
	cfg := cors.Config{
		AllowMethods: []string{"GET", "HEAD", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Accept", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}
	if len(allowOrigins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = allowOrigins
	}
	r.Use(cors.New(cfg))

	r.SetHTMLTemplate(resultshandler.Templates())

	// 導通確認用
	r.GET("/healthz", health.Health)
	r.HEAD("/healthz", health.Health)

	// 実行の選択
	r.GET("/runs", results.ListRuns)

	// 実行ごとの結果ページと JSON
	r.GET("/run/:run", results.RunPage)
	r.GET("/run/:run/graphs", results.GetGraphs)
	r.GET("/run_json/:run", results.GetRun)
	r.GET("/monitors_json/:run", results.GetMonitors)

	// サーバー側で描画したチャート
	r.GET("/charts/:run/:group/:subgroup", results.Chart)

	return r
}
