package chart

import (
	"bytes"
	"errors"
	"io"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gochart "github.com/wcharczuk/go-chart/v2"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func f(v float64) *float64 { return &v }

func rows(vals ...[]*float64) [][]*float64 { return vals }

// TestNew_RendersPNG はウィジェット生成時にPNGがマウントポイントへ描画されることを検証します。
func TestNew_RendersPNG(t *testing.T) {
	t.Parallel()

	mount := NewBufferMount("cpu-user")
	w, err := New(mount, rows(
		[]*float64{f(0), f(1)},
		[]*float64{f(1), f(2)},
		[]*float64{f(2), f(1.5)},
	), Options{
		Title:                  "cpu: user",
		Labels:                 []string{"t", "user%"},
		ConnectSeparatedPoints: true,
		DrawPoints:             true,
	})

	require.NoError(t, err)
	assert.Equal(t, "cpu-user", w.MountID())
	assert.True(t, bytes.HasPrefix(mount.Bytes(), pngMagic), "expected PNG output")
	assert.Equal(t, "cpu: user", w.graph.Title)
	assert.Equal(t, DefaultWidth, w.graph.Width)
	assert.Equal(t, DefaultHeight, w.graph.Height)
}

func TestNew_NilMount(t *testing.T) {
	t.Parallel()

	_, err := New(nil, rows([]*float64{f(0), f(1)}), Options{Labels: []string{"t", "v"}})
	assert.ErrorIs(t, err, ErrNoMountPoint)
}

// TestNew_LabelMismatch はラベル数と行幅が一致しない場合にエラーになり、何も描画されないことを検証します。
func TestNew_LabelMismatch(t *testing.T) {
	t.Parallel()

	mount := NewBufferMount("os-virtual_memory")
	_, err := New(mount, rows(
		[]*float64{f(0), f(1), f(2)},
	), Options{Labels: []string{"time", "used"}})

	assert.ErrorIs(t, err, ErrLabelMismatch)
	assert.Empty(t, mount.Bytes())
}

// TestNew_SingleRow は1回しかサンプルがない時系列でも描画されることを検証します。
func TestNew_SingleRow(t *testing.T) {
	t.Parallel()

	mount := NewBufferMount("dbmonitor-memory_percent")
	w, err := New(mount, rows([]*float64{f(0), f(0.42)}), Options{
		Title:                  "dbmonitor: memory_percent",
		Labels:                 []string{"time", "memory_percent"},
		ConnectSeparatedPoints: true,
		DrawPoints:             true,
	})

	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(mount.Bytes(), pngMagic), "expected PNG output")
	require.NotNil(t, w.graph.XAxis.Range)
	assert.Less(t, w.graph.XAxis.Range.GetMin(), 0.0)
	assert.Greater(t, w.graph.XAxis.Range.GetMax(), 0.0)
	require.NotNil(t, w.graph.YAxis.Range)
	assert.Less(t, w.graph.YAxis.Range.GetMin(), 0.42)
	assert.Greater(t, w.graph.YAxis.Range.GetMax(), 0.42)
}

// TestNew_ConstantValues は値が一定の時系列でも描画されることを検証します。
func TestNew_ConstantValues(t *testing.T) {
	t.Parallel()

	mount := NewBufferMount("os-virtual_memory")
	_, err := New(mount, rows(
		[]*float64{f(0), f(0)},
		[]*float64{f(1), f(0)},
	), Options{Labels: []string{"time", "free"}, DrawPoints: true})

	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(mount.Bytes(), pngMagic), "expected PNG output")
}

// TestNew_NoPoints は値がすべて欠損している場合やy列がない場合に空のチャートが描画されることを検証します。
func TestNew_NoPoints(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		data   [][]*float64
		labels []string
	}{
		{"all-nil column", rows([]*float64{f(0), nil}, []*float64{f(1), nil}), []string{"time", "read_bytes"}},
		{"no rows", nil, []string{"time", "read_bytes"}},
		{"no y columns", rows([]*float64{f(0)}, []*float64{f(1)}), []string{"time"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mount := NewBufferMount("postgres-io_counters")
			_, err := New(mount, tt.data, Options{Labels: tt.labels, ConnectSeparatedPoints: true, DrawPoints: true})

			require.NoError(t, err)
			assert.True(t, bytes.HasPrefix(mount.Bytes(), pngMagic), "expected PNG output")
		})
	}
}

// TestNew_RenderErrorLeavesMountClosed は描画に失敗した場合にマウントポイントを開かないことを検証します。
func TestNew_RenderErrorLeavesMountClosed(t *testing.T) {
	t.Parallel()

	opened := false
	mount := &recordingMount{onOpen: func() { opened = true }}
	_, err := New(mount, rows(
		[]*float64{f(0), f(1)},
		[]*float64{f(math.Inf(1)), f(2)},
	), Options{Labels: []string{"time", "v"}})

	require.Error(t, err)
	assert.False(t, opened)
}

type recordingMount struct {
	BufferMount
	onOpen func()
}

func (m *recordingMount) Open() (io.WriteCloser, error) {
	m.onOpen()
	return m.BufferMount.Open()
}

type failingMount struct{ err error }

func (m failingMount) ID() string                    { return "broken" }
func (m failingMount) Open() (io.WriteCloser, error) { return nil, m.err }

func TestNew_MountOpenError(t *testing.T) {
	t.Parallel()

	openErr := errors.New("disk full")
	_, err := New(failingMount{openErr}, rows(
		[]*float64{f(0), f(1)},
		[]*float64{f(1), f(2)},
	), Options{Labels: []string{"t", "v"}})

	assert.ErrorIs(t, err, openErr)
}

// TestBuildSeries_ConnectSeparatedPoints は欠損セルを飛ばして1本の線にまとめることを検証します。
func TestBuildSeries_ConnectSeparatedPoints(t *testing.T) {
	t.Parallel()

	series, err := buildSeries(rows(
		[]*float64{f(0), f(1), f(10)},
		[]*float64{f(1), nil, f(20)},
		[]*float64{f(2), f(3), nil},
	), Options{Labels: []string{"time", "a", "b"}, ConnectSeparatedPoints: true, DrawPoints: true})

	require.NoError(t, err)
	require.Len(t, series, 2)

	a := series[0].(gochart.ContinuousSeries)
	assert.Equal(t, "a", a.Name)
	assert.Equal(t, []float64{0, 2}, a.XValues)
	assert.Equal(t, []float64{1, 3}, a.YValues)
	assert.Equal(t, dotWidth, a.Style.DotWidth)

	b := series[1].(gochart.ContinuousSeries)
	assert.Equal(t, "b", b.Name)
	assert.Equal(t, []float64{0, 1}, b.XValues)
}

// TestBuildSeries_BreakAtGaps は接続しない設定で欠損セルの位置で線が分割されることを検証します。
func TestBuildSeries_BreakAtGaps(t *testing.T) {
	t.Parallel()

	series, err := buildSeries(rows(
		[]*float64{f(0), f(1)},
		[]*float64{f(1), nil},
		[]*float64{f(2), f(3)},
		[]*float64{f(3), f(4)},
	), Options{Labels: []string{"time", "a"}})

	require.NoError(t, err)
	require.Len(t, series, 2)
	assert.Equal(t, []float64{0}, series[0].(gochart.ContinuousSeries).XValues)
	assert.Equal(t, []float64{2, 3}, series[1].(gochart.ContinuousSeries).XValues)
	assert.Zero(t, series[0].(gochart.ContinuousSeries).Style.DotWidth)

	// 凡例には列ごとに1つだけ表示される
	assert.Equal(t, "a", series[0].GetName())
	assert.Empty(t, series[1].GetName())
	assert.Len(t, namedSeries(series), 1)
}

func TestBuildSeries_LeadingGapKeepsName(t *testing.T) {
	t.Parallel()

	series, err := buildSeries(rows(
		[]*float64{f(0), nil},
		[]*float64{f(1), f(2)},
		[]*float64{f(2), nil},
		[]*float64{f(3), f(4)},
	), Options{Labels: []string{"time", "a"}})

	require.NoError(t, err)
	require.Len(t, series, 2)
	assert.Equal(t, "a", series[0].GetName())
	assert.Empty(t, series[1].GetName())
}

func TestBuildSeries_SkipsRowsWithoutX(t *testing.T) {
	t.Parallel()

	series, err := buildSeries(rows(
		[]*float64{nil, f(1)},
		[]*float64{f(1), f(2)},
	), Options{Labels: []string{"time", "a"}, ConnectSeparatedPoints: true})

	require.NoError(t, err)
	require.Len(t, series, 1)
	assert.Equal(t, []float64{1}, series[0].(gochart.ContinuousSeries).XValues)
}

// TestBufferMount_OpenResets は再描画で前回の画像が置き換えられることを検証します。
func TestBufferMount_OpenResets(t *testing.T) {
	t.Parallel()

	m := NewBufferMount("x")
	w, _ := m.Open()
	_, _ = w.Write([]byte("first"))
	require.NoError(t, w.Close())

	w, _ = m.Open()
	_, _ = w.Write([]byte("second"))

	assert.Equal(t, "second", string(m.Bytes()))
}
