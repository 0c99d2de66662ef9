package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"dbmonitor/internal/feature/results/domain/entity"
	fetch "dbmonitor/internal/platform/http"
	"dbmonitor/internal/platform/page"
)

// layoutEntry は /run/:run/graphs が返すグラフ配置の1件です。
type layoutEntry struct {
	Group    string `json:"group"`
	Subgroup string `json:"subgroup"`
}

// RenderUsecase は結果サーバーから1つの実行の時系列を取得し、
// ページの各要素にチャートを描画します。
type RenderUsecase struct {
	client   *http.Client
	baseURL  string
	page     *page.Page
	newChart ChartFactory
}

// NewRenderUsecase はRenderUsecaseの新しいインスタンスを生成します。
func NewRenderUsecase(client *http.Client, baseURL string, p *page.Page, newChart ChartFactory) *RenderUsecase {
	return &RenderUsecase{client: client, baseURL: baseURL, page: p, newChart: newChart}
}

// RenderRun は実行のグラフ配置を取得して要素を用意し、
// monitors_json を取得した完了ハンドラーの中でチャートを構築します。
// 取得が200以外で完了した場合は *fetch.StatusError を返し、何も描画しません。
func (u *RenderUsecase) RenderRun(ctx context.Context, run uint) error {
	layout, err := await[[]layoutEntry](ctx, u.client, u.endpoint("run", strconv.FormatUint(uint64(run), 10), "graphs"))
	if err != nil {
		return fmt.Errorf("fetch layout: %w", err)
	}
	if err := u.page.Prepare(); err != nil {
		return err
	}
	for _, l := range layout {
		u.page.Add(ElementID(l.Group, l.Subgroup))
	}

	builder := NewGraphBuilder(u.page, u.newChart)
	done := make(chan error, 1)
	fetch.GetJSON(ctx, u.client, u.endpoint("monitors_json", strconv.FormatUint(uint64(run), 10)), func(err error, groups entity.Groups) {
		if err != nil {
			done <- err
			return
		}
		done <- builder.MakeGraphs(groups)
	})

	if err := <-done; err != nil {
		return err
	}
	slog.Info("graphs rendered", "run", run, "count", len(layout))
	return nil
}

// endpoint はベースURLにパスを連結します。
func (u *RenderUsecase) endpoint(elem ...string) string {
	s, err := url.JoinPath(u.baseURL, elem...)
	if err != nil {
		// 不正なベースURLはリクエスト作成時にエラーとして返る
		return u.baseURL
	}
	return s
}

// await はGetJSONの完了を待って結果を返します。
func await[T any](ctx context.Context, client *http.Client, url string) (T, error) {
	type outcome struct {
		result T
		err    error
	}
	ch := make(chan outcome, 1)
	fetch.GetJSON(ctx, client, url, func(err error, result T) {
		ch <- outcome{result: result, err: err}
	})
	o := <-ch
	return o.result, o.err
}
