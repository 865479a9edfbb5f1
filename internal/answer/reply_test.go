package answer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reportqa/internal/domain"
)

func TestParseReply_NoSentinel(t *testing.T) {
	text, chart := ParseReply("  Revenue grew 12% [page_1_chunk_1].\n")
	assert.Equal(t, "Revenue grew 12% [page_1_chunk_1].", text)
	assert.Nil(t, chart)
}

func TestParseReply_MalformedPayload(t *testing.T) {
	text, chart := ParseReply("Margins improved [p].\n\nChartData:\n{not json")
	assert.Equal(t, "Margins improved [p].", text)
	assert.Nil(t, chart)
}

func TestParseReply_ValidChart(t *testing.T) {
	reply := "Revenue by year [t.csv].\nChartData:\n" +
		`{"type": "line", "labels": ["FY23", "FY24"], "values": [100, 112.5], "xlabel": "Year", "ylabel": "INR cr"}`
	text, chart := ParseReply(reply)
	assert.Equal(t, "Revenue by year [t.csv].", text)
	require.NotNil(t, chart)
	assert.Equal(t, &domain.Chart{
		Type:   "line",
		Labels: []string{"FY23", "FY24"},
		Values: []float64{100, 112.5},
		Title:  "Comparison Chart",
		XLabel: "Year",
		YLabel: "INR cr",
	}, chart)
}

func TestParseReply_FencedPayloadAndDefaults(t *testing.T) {
	reply := "Split.\nChartData:\n```json\n{\"type\": \"pie\", \"labels\": [\"A\", \"B\", \"C\"], \"values\": [1, 2], \"title\": \"Mix\"}\n```"
	_, chart := ParseReply(reply)
	require.NotNil(t, chart)
	assert.Equal(t, "bar", chart.Type)
	assert.Equal(t, "Mix", chart.Title)
	assert.Equal(t, []string{"A", "B"}, chart.Labels)
	assert.Equal(t, []float64{1, 2}, chart.Values)
}

func TestParseReply_SplitsOnFirstSentinelOnly(t *testing.T) {
	text, chart := ParseReply("A ChartData: {\"labels\":[\"x\"],\"values\":[1]} ChartData: junk")
	assert.Equal(t, "A", text)
	assert.Nil(t, chart)
}
