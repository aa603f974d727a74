// Package portfolio reconciles broker holdings against live quotes and
// computes per-position and aggregate valuation metrics.
package portfolio

import (
	"github.com/marketbrief/marketbrief/internal/models"
)

// EffectivePrices merges a holding with its optional live quote. Live quote
// fields win when present; otherwise the holding's own prices are used, and
// a missing previous close falls back to the last traded price (yielding a
// zero day change, not an error). Total function, no failure mode.
func EffectivePrices(h models.Holding, q *models.LiveQuote) (ltp, prevClose float64) {
	ltp = h.LastTradedPrice
	prevClose = h.PreviousClose
	if q != nil {
		ltp = q.LastTradedPrice
		prevClose = q.PreviousClose
	}
	if prevClose == 0 {
		prevClose = ltp
	}
	return ltp, prevClose
}

// Valuate computes PositionMetrics for every holding plus the portfolio
// summary. Output order matches input order; ranking is a separate pass.
// An empty holdings sequence yields an empty metrics slice and an all-zero
// summary. Every ratio guards its zero-denominator case so the output can
// never carry NaN or Inf.
func Valuate(holdings []models.Holding, quotes map[string]models.LiveQuote) ([]models.PositionMetrics, models.PortfolioSummary) {
	metrics := make([]models.PositionMetrics, 0, len(holdings))
	var summary models.PortfolioSummary

	for _, h := range holdings {
		var quote *models.LiveQuote
		if q, ok := quotes[h.Symbol]; ok {
			quote = &q
		}
		ltp, prevClose := EffectivePrices(h, quote)

		qty := float64(h.Quantity)
		currentValue := qty * ltp
		investedValue := qty * h.AveragePrice
		pnl := currentValue - investedValue
		dayGL := (ltp - prevClose) * qty

		pnlPct := 0.0
		if investedValue != 0 {
			pnlPct = pnl / investedValue * 100
		}
		dayChangePct := 0.0
		if prevClose != 0 {
			dayChangePct = (ltp - prevClose) / prevClose * 100
		}

		metrics = append(metrics, models.PositionMetrics{
			Symbol:           h.Symbol,
			Quantity:         h.Quantity,
			CurrentValue:     currentValue,
			InvestedValue:    investedValue,
			PnL:              pnl,
			PnLPercent:       pnlPct,
			DayChangePercent: dayChangePct,
			PortfolioImpact:  dayGL,
		})

		summary.TotalValue += currentValue
		summary.TotalInvested += investedValue
		summary.TotalDayGL += dayGL
	}

	summary.TotalPnL = summary.TotalValue - summary.TotalInvested
	if base := summary.TotalValue - summary.TotalDayGL; base != 0 {
		summary.TotalDayGLPercent = summary.TotalDayGL / base * 100
	}

	return metrics, summary
}
