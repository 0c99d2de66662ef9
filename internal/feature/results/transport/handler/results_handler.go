// Package handler はresultsフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"dbmonitor/internal/feature/results/domain/entity"
	"dbmonitor/internal/feature/results/transport/http/dto"
	"dbmonitor/internal/feature/results/usecase"
)

// ResultsUsecase は計測結果参照のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type ResultsUsecase interface {
	ListRuns(ctx context.Context, index, count int) ([]entity.Run, error)
	GetRun(ctx context.Context, id uint) (*entity.Run, error)
	GetGraphs(ctx context.Context, id uint) ([]entity.Graph, error)
	GetMonitors(ctx context.Context, id uint) (entity.Groups, error)
	GetTimeSeries(ctx context.Context, id uint, group, subgroup string) (entity.TimeSeries, error)
}

// ResultsHandler は計測結果のHTTPリクエストを処理します。
type ResultsHandler struct {
	uc ResultsUsecase
}

// NewResultsHandler は指定されたusecaseでResultsHandlerの新しいインスタンスを生成します。
func NewResultsHandler(uc ResultsUsecase) *ResultsHandler {
	return &ResultsHandler{uc: uc}
}

// ListRuns は実行の一覧をJSONで返します。
//
// エンドポイント例:
// GET /runs?index=0&count=30
func (h *ResultsHandler) ListRuns(c *gin.Context) {
	// 数値でない場合は0となり、usecaseでデフォルト値に置き換えられる
	index, _ := strconv.Atoi(c.DefaultQuery("index", "0"))
	count, _ := strconv.Atoi(c.DefaultQuery("count", strconv.Itoa(usecase.DefaultRunCount)))

	runs, err := h.uc.ListRuns(c.Request.Context(), index, count)
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]dto.RunSummaryResponse, 0, len(runs))
	for _, r := range runs {
		out = append(out, dto.RunSummaryResponse{
			Run:      r.ID,
			Database: r.Database,
			Action:   r.Action,
			Duration: r.Duration,
		})
	}
	c.JSON(http.StatusOK, out)
}

// GetRun は実行の概要をJSONで返します。
//
// エンドポイント例:
// GET /run_json/12
func (h *ResultsHandler) GetRun(c *gin.Context) {
	id, ok := runParam(c)
	if !ok {
		return
	}
	run, err := h.uc.GetRun(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.RunResponse{
		Database: run.Database,
		Action:   run.Action,
		Duration: run.Duration,
	})
}

// GetGraphs は実行のグラフ配置をJSONで返します。
//
// エンドポイント例:
// GET /run/12/graphs
func (h *ResultsHandler) GetGraphs(c *gin.Context) {
	id, ok := runParam(c)
	if !ok {
		return
	}
	graphs, err := h.uc.GetGraphs(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toGraphResponses(graphs))
}

// GetMonitors は実行の全時系列を group → subgroup → {data, labels} の形で返します。
//
// エンドポイント例:
// GET /monitors_json/12
func (h *ResultsHandler) GetMonitors(c *gin.Context) {
	id, ok := runParam(c)
	if !ok {
		return
	}
	groups, err := h.uc.GetMonitors(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, groups)
}

func toGraphResponses(graphs []entity.Graph) []dto.GraphResponse {
	out := make([]dto.GraphResponse, 0, len(graphs))
	for _, g := range graphs {
		out = append(out, dto.GraphResponse{Group: g.Group, Subgroup: g.Subgroup})
	}
	return out
}

// runParam はパスパラメータ :run を実行番号として解釈します。不正な場合は400を返します。
func runParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("run"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid run"})
		return 0, false
	}
	return uint(id), true
}

// respondError はusecaseのエラーをHTTPステータスに変換します。
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usecase.ErrRunNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, usecase.ErrGraphNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: err.Error()})
	default:
		// 内部エラーの詳細はログにのみ出力する
		slog.Error("results request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal error"})
	}
}
