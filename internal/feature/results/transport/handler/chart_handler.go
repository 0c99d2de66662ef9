package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	graphs "dbmonitor/internal/feature/graphs/usecase"
	"dbmonitor/internal/feature/results/transport/http/dto"
	"dbmonitor/internal/platform/chart"
)

// Chart は1つのグラフをPNGとして描画して返します。
// 描画オプションはグラフビルダーと同じ（点を描画し、欠損をまたいで線を結ぶ）です。
//
// エンドポイント例:
// GET /charts/12/os/virtual_memory
func (h *ResultsHandler) Chart(c *gin.Context) {
	id, ok := runParam(c)
	if !ok {
		return
	}
	group, subgroup := c.Param("group"), c.Param("subgroup")

	ts, err := h.uc.GetTimeSeries(c.Request.Context(), id, group, subgroup)
	if err != nil {
		respondError(c, err)
		return
	}

	mount := chart.NewBufferMount(graphs.ElementID(group, subgroup))
	if _, err := chart.New(mount, ts.Data, chart.Options{
		Title:                  graphs.Title(group, subgroup),
		Labels:                 ts.Labels,
		ConnectSeparatedPoints: true,
		DrawPoints:             true,
	}); err != nil {
		slog.Error("chart render failed", "run", id, "graph", mount.ID(), "error", err)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "render failed"})
		return
	}
	c.Data(http.StatusOK, "image/png", mount.Bytes())
}
