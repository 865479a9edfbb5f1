package answer

import (
	"encoding/json"
	"strings"

	"reportqa/internal/domain"
)

// ChartSentinel marks the start of the optional chart payload in a reply.
const ChartSentinel = "ChartData:"

const defaultChartTitle = "Comparison Chart"

// ParseReply splits a model reply at the first chart sentinel. A payload
// that does not decode yields a nil chart; the text is always returned.
func ParseReply(reply string) (string, *domain.Chart) {
	text, payload, found := strings.Cut(reply, ChartSentinel)
	text = strings.TrimSpace(text)
	if !found {
		return text, nil
	}
	var c domain.Chart
	if err := json.Unmarshal([]byte(unfence(payload)), &c); err != nil {
		return text, nil
	}
	return text, normalizeChart(&c)
}

// unfence strips a surrounding ```json code fence, which models add often.
func unfence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func normalizeChart(c *domain.Chart) *domain.Chart {
	switch strings.ToLower(c.Type) {
	case "line":
		c.Type = "line"
	default:
		c.Type = "bar"
	}
	if c.Title == "" {
		c.Title = defaultChartTitle
	}
	n := len(c.Labels)
	if len(c.Values) < n {
		n = len(c.Values)
	}
	c.Labels = c.Labels[:n]
	c.Values = c.Values[:n]
	return c
}
