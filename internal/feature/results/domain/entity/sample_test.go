package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMonitorSample_Column(t *testing.T) {
	t.Parallel()

	rss := "rss"
	assert.Equal(t, "memory_percent", MonitorSample{Monitor: "memory_percent"}.Column())
	assert.Equal(t, "rss", MonitorSample{Monitor: "memory_info", Submonitor: &rss}.Column())
}
