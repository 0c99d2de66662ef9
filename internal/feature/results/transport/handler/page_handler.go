package handler

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	graphs "dbmonitor/internal/feature/graphs/usecase"
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates は結果ページのテンプレートを返します。
// ルーターで gin.Engine.SetHTMLTemplate に渡して使用します。
func Templates() *template.Template {
	return template.Must(template.ParseFS(templateFS, "templates/*.html"))
}

type graphView struct {
	ID       string
	Title    string
	Group    string
	Subgroup string
}

// RunPage は実行の結果ページを返します。グラフごとに id が "<group>-<subgroup>" の
// マウントポイントを1つ配置します。
//
// エンドポイント例:
// GET /run/12
func (h *ResultsHandler) RunPage(c *gin.Context) {
	id, ok := runParam(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	run, err := h.uc.GetRun(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	layout, err := h.uc.GetGraphs(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}

	views := make([]graphView, 0, len(layout))
	for _, g := range layout {
		views = append(views, graphView{
			ID:       graphs.ElementID(g.Group, g.Subgroup),
			Title:    graphs.Title(g.Group, g.Subgroup),
			Group:    g.Group,
			Subgroup: g.Subgroup,
		})
	}
	c.HTML(http.StatusOK, "run.html", gin.H{
		"Run":      id,
		"Database": run.Database,
		"Action":   run.Action,
		"Duration": run.Duration,
		"Graphs":   views,
	})
}
