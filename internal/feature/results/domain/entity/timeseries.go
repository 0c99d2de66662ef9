package entity

// TimeSeries describes the content of one chart.
// Each row of Data is [x, y1, ..., yn]; nil cells are gaps.
// Labels names every column of a row, starting with the x column.
type TimeSeries struct {
	Data   [][]*float64 `json:"data"`
	Labels []string     `json:"labels"`
}

// Groups maps group → subgroup → chart content.
type Groups map[string]map[string]TimeSeries
