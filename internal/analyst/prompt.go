package analyst

import (
	"fmt"
	"strings"

	"github.com/NikolayViktorovich/crypto-dashboard/internal/model"
)

// BuildAnalysisPrompt assembles the full analysis prompt: coin snapshot,
// indicator values at fixed precision, the last 10 historical prices and
// aggregate market totals scaled for display.
func BuildAnalysisPrompt(coin model.CoinSnapshot, history *model.PriceSeries, ind model.TechnicalIndicators, summary model.MarketSummary) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Analyze the cryptocurrency %s (%s) and give a detailed assessment.\n\n",
		coin.Name, strings.ToUpper(coin.Symbol)))

	b.WriteString("MARKET DATA:\n")
	b.WriteString(fmt.Sprintf("- Current price: $%v\n", coin.CurrentPrice))
	b.WriteString(fmt.Sprintf("- 24h change: %v%%\n", coin.PriceChange24h))
	b.WriteString(fmt.Sprintf("- Market cap: $%.2f billion\n", coin.MarketCap/1e9))
	b.WriteString(fmt.Sprintf("- 24h volume: $%.2f million\n\n", coin.TotalVolume/1e6))

	b.WriteString("TECHNICAL INDICATORS:\n")
	b.WriteString(fmt.Sprintf("- RSI: %.2f\n", ind.RSI))
	b.WriteString(fmt.Sprintf("- MACD: %.4f\n", ind.MACD.Value))
	b.WriteString(fmt.Sprintf("- Signal line: %.4f\n", ind.MACD.Signal))
	b.WriteString("- Moving averages:\n")
	b.WriteString(fmt.Sprintf("  * 20 days: $%.2f\n", ind.MovingAverages.SMA20))
	b.WriteString(fmt.Sprintf("  * 50 days: $%.2f\n", ind.MovingAverages.SMA50))
	b.WriteString(fmt.Sprintf("  * 200 days: $%.2f\n", ind.MovingAverages.SMA200))
	b.WriteString(fmt.Sprintf("- Volatility: %.2f%%\n\n", ind.Volatility*100))

	b.WriteString("HISTORICAL DATA:\n")
	b.WriteString(fmt.Sprintf("Last 10 prices: %s\n\n", lastPricesLine(history, 10)))

	b.WriteString("OVERALL MARKET:\n")
	b.WriteString(fmt.Sprintf("- Total market cap: $%.2f trillion\n", summary.TotalMarketCapUSD/1e12))
	b.WriteString(fmt.Sprintf("- Total volume: $%.2f billion\n\n", summary.TotalVolumeUSD/1e9))

	b.WriteString("PLEASE COVER:\n")
	b.WriteString("1. Trend (bullish/bearish/neutral) and confidence in %\n")
	b.WriteString("2. Recommendation (buy/sell/hold)\n")
	b.WriteString("3. Price targets for 1 week, 1 month, 3 months\n")
	b.WriteString("4. Key support and resistance levels\n")
	b.WriteString("5. Detailed assessment of the situation\n")
	b.WriteString("6. Main risks\n")
	b.WriteString("7. Opportunities\n\n")
	b.WriteString("Provide the answer in a structured format.\n")

	return b.String()
}

// BuildInsightPrompt assembles the short chat-panel prompt.
func BuildInsightPrompt(coin model.CoinSnapshot) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("You are a financial analyst. Analyze the cryptocurrency %s (%s).\n\n",
		coin.Name, strings.ToUpper(coin.Symbol)))
	b.WriteString("Data:\n")
	b.WriteString(fmt.Sprintf("- Current price: $%v\n", coin.CurrentPrice))
	b.WriteString(fmt.Sprintf("- 24h change: %v%%\n", coin.PriceChange24h))
	b.WriteString(fmt.Sprintf("- Market cap: $%.2f billion\n\n", coin.MarketCap/1e9))
	b.WriteString("Give a brief analysis covering:\n")
	b.WriteString("1. Overall assessment of the situation\n")
	b.WriteString("2. Main risks\n")
	b.WriteString("3. A recommendation\n\n")
	b.WriteString("Be brief and specific.")
	return b.String()
}

func lastPricesLine(history *model.PriceSeries, n int) string {
	if history == nil || len(history.Points) == 0 {
		return "none"
	}
	points := history.Points
	if len(points) > n {
		points = points[len(points)-n:]
	}
	parts := make([]string, len(points))
	for i, p := range points {
		parts[i] = fmt.Sprintf("%.2f", p.Price)
	}
	return strings.Join(parts, ", ")
}
