package notifier

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/ninja0404/wallet-mirror/internal/ingest"
	"github.com/ninja0404/wallet-mirror/internal/model"
)

func TestBuildRunSummaryText(t *testing.T) {
	usd := decimal.RequireFromString("100.5")
	summary := &ingest.Summary{
		WalletAddress: "DRiP2Pn2K6fuMLKQmt5rZWyHiUZ6WK3GChEySUpHSS4x",
		Found:         3,
		Processed:     2,
		Unparsed:      1,
		Triggered:     1,
		Trades: []*model.ProcessedTrade{
			{
				TradeType:       model.TradeTypeBuy,
				TokenAddress:    "MintAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA",
				AmountSol:       decimal.RequireFromString("0.5"),
				AmountUSD:       &usd,
				IsFirstPurchase: true,
			},
			{
				TradeType:       model.TradeTypeSell,
				TokenAddress:    "MintBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBB",
				AmountSol:       decimal.RequireFromString("0.25"),
				AmountEstimated: true,
			},
		},
	}

	text := BuildRunSummaryText(summary)

	assert.Contains(t, text, "DRiP2P...SS4x")
	assert.Contains(t, text, "发现 3 笔")
	assert.Contains(t, text, "触发跟单 1 笔")
	assert.Contains(t, text, "buy")
	assert.Contains(t, text, "[首次建仓]")
	assert.Contains(t, text, "sell")
	assert.Contains(t, text, "[估算]")
}
