package handler_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dbmonitor/internal/feature/results/domain/entity"
	"dbmonitor/internal/feature/results/transport/handler"
	"dbmonitor/internal/feature/results/usecase"
)

// mockResultsUsecase はResultsUsecaseインターフェースのモック実装です。
type mockResultsUsecase struct {
	ListRunsFunc      func(ctx context.Context, index, count int) ([]entity.Run, error)
	GetRunFunc        func(ctx context.Context, id uint) (*entity.Run, error)
	GetGraphsFunc     func(ctx context.Context, id uint) ([]entity.Graph, error)
	GetMonitorsFunc   func(ctx context.Context, id uint) (entity.Groups, error)
	GetTimeSeriesFunc func(ctx context.Context, id uint, group, subgroup string) (entity.TimeSeries, error)
}

func (m *mockResultsUsecase) ListRuns(ctx context.Context, index, count int) ([]entity.Run, error) {
	return m.ListRunsFunc(ctx, index, count)
}

func (m *mockResultsUsecase) GetRun(ctx context.Context, id uint) (*entity.Run, error) {
	return m.GetRunFunc(ctx, id)
}

func (m *mockResultsUsecase) GetGraphs(ctx context.Context, id uint) ([]entity.Graph, error) {
	return m.GetGraphsFunc(ctx, id)
}

func (m *mockResultsUsecase) GetMonitors(ctx context.Context, id uint) (entity.Groups, error) {
	return m.GetMonitorsFunc(ctx, id)
}

func (m *mockResultsUsecase) GetTimeSeries(ctx context.Context, id uint, group, subgroup string) (entity.TimeSeries, error) {
	return m.GetTimeSeriesFunc(ctx, id, group, subgroup)
}

func f(v float64) *float64 { return &v }

func newRouter(uc handler.ResultsUsecase) *gin.Engine {
	h := handler.NewResultsHandler(uc)
	r := gin.New()
	r.SetHTMLTemplate(handler.Templates())
	r.GET("/runs", h.ListRuns)
	r.GET("/run/:run", h.RunPage)
	r.GET("/run/:run/graphs", h.GetGraphs)
	r.GET("/run_json/:run", h.GetRun)
	r.GET("/monitors_json/:run", h.GetMonitors)
	r.GET("/charts/:run/:group/:subgroup", h.Chart)
	return r
}

func serve(r *gin.Engine, url string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, url, nil)
	r.ServeHTTP(w, req)
	return w
}

// TestResultsHandler_ListRuns は実行一覧のクエリ解釈とレスポンスをテストします。
func TestResultsHandler_ListRuns(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		url            string
		wantIndex      int
		wantCount      int
		runs           []entity.Run
		err            error
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "success: explicit paging",
			url:            "/runs?index=10&count=5",
			wantIndex:      10,
			wantCount:      5,
			runs:           []entity.Run{{ID: 3, Database: "postgres", Action: "select", Duration: 1.5}},
			expectedStatus: http.StatusOK,
			expectedBody:   `[{"run":3,"database":"postgres","action":"select","duration":1.5}]`,
		},
		{
			name:           "success: default paging",
			url:            "/runs",
			wantIndex:      0,
			wantCount:      usecase.DefaultRunCount,
			runs:           []entity.Run{},
			expectedStatus: http.StatusOK,
			expectedBody:   `[]`,
		},
		{
			name:           "edge case: non-numeric values fall back to zero",
			url:            "/runs?index=abc&count=xyz",
			wantIndex:      0,
			wantCount:      0,
			runs:           nil,
			expectedStatus: http.StatusOK,
			expectedBody:   `[]`,
		},
		{
			name:           "error: store failure",
			url:            "/runs",
			wantIndex:      0,
			wantCount:      usecase.DefaultRunCount,
			err:            errors.New("connection refused"),
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"error":"internal error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockResultsUsecase{
				ListRunsFunc: func(ctx context.Context, index, count int) ([]entity.Run, error) {
					assert.Equal(t, tt.wantIndex, index)
					assert.Equal(t, tt.wantCount, count)
					return tt.runs, tt.err
				},
			}
			w := serve(newRouter(uc), tt.url)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
		})
	}
}

// TestResultsHandler_GetRun は実行概要の取得とエラーのステータス変換をテストします。
func TestResultsHandler_GetRun(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		url            string
		run            *entity.Run
		err            error
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "success",
			url:            "/run_json/7",
			run:            &entity.Run{ID: 7, Database: "postgres", Action: "insert_batch", Duration: 12.25},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"database":"postgres","action":"insert_batch","duration":12.25}`,
		},
		{
			name:           "error: run not found",
			url:            "/run_json/8",
			err:            usecase.ErrRunNotFound,
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"error":"run not found"}`,
		},
		{
			name:           "error: invalid run id",
			url:            "/run_json/abc",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"invalid run"}`,
		},
		{
			name:           "error: negative run id",
			url:            "/run_json/-1",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"invalid run"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockResultsUsecase{
				GetRunFunc: func(ctx context.Context, id uint) (*entity.Run, error) {
					return tt.run, tt.err
				},
			}
			w := serve(newRouter(uc), tt.url)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
		})
	}
}

// TestResultsHandler_GetGraphs はグラフ配置のJSONをテストします。
func TestResultsHandler_GetGraphs(t *testing.T) {
	gin.SetMode(gin.TestMode)

	uc := &mockResultsUsecase{
		GetGraphsFunc: func(ctx context.Context, id uint) ([]entity.Graph, error) {
			assert.Equal(t, uint(4), id)
			return []entity.Graph{
				{Group: "os", Subgroup: "virtual_memory"},
				{Group: "postgres", Subgroup: "io_counters"},
			}, nil
		},
	}
	w := serve(newRouter(uc), "/run/4/graphs")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"group":"os","subgroup":"virtual_memory"},{"group":"postgres","subgroup":"io_counters"}]`, w.Body.String())
}

// TestResultsHandler_GetMonitors は時系列JSONが null セルを保持することをテストします。
func TestResultsHandler_GetMonitors(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("success", func(t *testing.T) {
		uc := &mockResultsUsecase{
			GetMonitorsFunc: func(ctx context.Context, id uint) (entity.Groups, error) {
				return entity.Groups{
					"cpu": {
						"user": entity.TimeSeries{
							Data:   [][]*float64{{f(0), f(1.5)}, {f(1), nil}},
							Labels: []string{"time", "value"},
						},
					},
				}, nil
			},
		}
		w := serve(newRouter(uc), "/monitors_json/1")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"cpu":{"user":{"data":[[0,1.5],[1,null]],"labels":["time","value"]}}}`, w.Body.String())
	})

	t.Run("error: run not found", func(t *testing.T) {
		uc := &mockResultsUsecase{
			GetMonitorsFunc: func(ctx context.Context, id uint) (entity.Groups, error) {
				return nil, usecase.ErrRunNotFound
			},
		}
		w := serve(newRouter(uc), "/monitors_json/99")

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

// TestResultsHandler_RunPage は結果ページにグラフごとのマウントポイントが配置されることをテストします。
func TestResultsHandler_RunPage(t *testing.T) {
	gin.SetMode(gin.TestMode)

	uc := &mockResultsUsecase{
		GetRunFunc: func(ctx context.Context, id uint) (*entity.Run, error) {
			return &entity.Run{ID: id, Database: "postgres", Action: "select", Duration: 2}, nil
		},
		GetGraphsFunc: func(ctx context.Context, id uint) ([]entity.Graph, error) {
			return []entity.Graph{
				{Group: "os", Subgroup: "virtual_memory"},
				{Group: "monitor", Subgroup: "memory_info"},
			}, nil
		},
	}
	w := serve(newRouter(uc), "/run/5")

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `id="os-virtual_memory"`)
	assert.Contains(t, body, `src="/charts/5/os/virtual_memory"`)
	assert.Contains(t, body, `id="monitor-memory_info"`)
	assert.Contains(t, body, "took 2.000 seconds")
}

// TestResultsHandler_Chart はPNG描画とエラー時のステータスをテストします。
func TestResultsHandler_Chart(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("success: png", func(t *testing.T) {
		uc := &mockResultsUsecase{
			GetTimeSeriesFunc: func(ctx context.Context, id uint, group, subgroup string) (entity.TimeSeries, error) {
				assert.Equal(t, "os", group)
				assert.Equal(t, "virtual_memory", subgroup)
				return entity.TimeSeries{
					Data:   [][]*float64{{f(0), f(10)}, {f(1), f(20)}, {f(2), f(15)}},
					Labels: []string{"time", "used"},
				}, nil
			},
		}
		w := serve(newRouter(uc), "/charts/1/os/virtual_memory")

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
		assert.Equal(t, "\x89PNG", w.Body.String()[:4])
	})

	t.Run("error: graph not found", func(t *testing.T) {
		uc := &mockResultsUsecase{
			GetTimeSeriesFunc: func(ctx context.Context, id uint, group, subgroup string) (entity.TimeSeries, error) {
				return entity.TimeSeries{}, usecase.ErrGraphNotFound
			},
		}
		w := serve(newRouter(uc), "/charts/1/os/nothing")

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"error":"graph not found"}`, w.Body.String())
	})

	t.Run("error: label mismatch", func(t *testing.T) {
		uc := &mockResultsUsecase{
			GetTimeSeriesFunc: func(ctx context.Context, id uint, group, subgroup string) (entity.TimeSeries, error) {
				return entity.TimeSeries{
					Data:   [][]*float64{{f(0), f(1), f(2)}},
					Labels: []string{"time", "only"},
				}, nil
			},
		}
		w := serve(newRouter(uc), "/charts/1/os/virtual_memory")

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
