package portfolio

import (
	"sort"

	"github.com/marketbrief/marketbrief/internal/models"
)

// SortKey selects the metric positions are ranked by.
type SortKey string

const (
	SortPortfolioImpact  SortKey = "portfolio_impact"
	SortPnLPercent       SortKey = "pnl_percent"
	SortInvestedValue    SortKey = "invested_value"
	SortDayChangePercent SortKey = "day_change_percent"
)

// DefaultTopN is the default selection size for ranked views.
const DefaultTopN = 5

// ParseSortKey maps a query value to a SortKey, defaulting to
// portfolio impact for empty or unknown values.
func ParseSortKey(s string) SortKey {
	switch SortKey(s) {
	case SortPnLPercent, SortInvestedValue, SortDayChangePercent:
		return SortKey(s)
	default:
		return SortPortfolioImpact
	}
}

func metricValue(m models.PositionMetrics, key SortKey) float64 {
	switch key {
	case SortPnLPercent:
		return m.PnLPercent
	case SortInvestedValue:
		return m.InvestedValue
	case SortDayChangePercent:
		return m.DayChangePercent
	default:
		return m.PortfolioImpact
	}
}

// Ranking holds the top and bottom selections for one sort key. Callers
// label the two lists by the metric's meaning (e.g. Contributors/Draggers
// for an impact sort, Top/Bottom Holdings for an invested-value sort).
type Ranking struct {
	Key    SortKey                  `json:"key"`
	Top    []models.PositionMetrics `json:"top"`
	Bottom []models.PositionMetrics `json:"bottom"`
}

// Rank stable-sorts metrics descending by key and selects the first n as
// Top and the last n, in reverse positional order, as Bottom. When the
// sequence length is at most n the two lists overlap; that is accepted,
// not deduplicated. The input slice is not modified.
func Rank(metrics []models.PositionMetrics, key SortKey, n int) Ranking {
	if n <= 0 {
		n = DefaultTopN
	}

	sorted := append([]models.PositionMetrics(nil), metrics...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return metricValue(sorted[i], key) > metricValue(sorted[j], key)
	})

	top := make([]models.PositionMetrics, 0, n)
	for i := 0; i < len(sorted) && i < n; i++ {
		top = append(top, sorted[i])
	}

	bottom := make([]models.PositionMetrics, 0, n)
	start := len(sorted) - n
	if start < 0 {
		start = 0
	}
	for i := len(sorted) - 1; i >= start; i-- {
		bottom = append(bottom, sorted[i])
	}

	return Ranking{Key: key, Top: top, Bottom: bottom}
}
