package swap

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ninja0404/wallet-mirror/internal/helius"
)

func TestDelta_TokenInflowWithSolOutflowIsBuy(t *testing.T) {
	tx := &helius.Transaction{
		Signature: "sig-delta-buy",
		NativeTransfers: []helius.NativeTransfer{
			{FromUserAccount: testWallet, ToUserAccount: "pool", Amount: 500_000_000},
		},
		TokenTransfers: []helius.TokenTransfer{
			{FromUserAccount: "pool", ToUserAccount: testWallet, Mint: testMint, TokenAmount: decimal.NewFromInt(1)},
		},
	}

	events, err := NewDeltaStrategy("").Derive(context.Background(), tx, testWallet)
	require.NoError(t, err)
	require.Len(t, events, 1)

	ev := events[0]
	assert.Equal(t, Buy, ev.Direction())
	assert.Equal(t, testMint, ev.TokenLeg().Mint)
	assert.True(t, ev.TokenLeg().Amount.Equal(decimal.NewFromInt(1)))
	assert.True(t, ev.SolLeg().Amount.Equal(decimal.RequireFromString("0.5")))
	assert.False(t, ev.Estimated)
}

func TestDelta_TokenOutflowWithSolInflowIsSell(t *testing.T) {
	tx := &helius.Transaction{
		Signature: "sig-delta-sell",
		NativeTransfers: []helius.NativeTransfer{
			{FromUserAccount: "pool", ToUserAccount: testWallet, Amount: 300_000_000},
		},
		TokenTransfers: []helius.TokenTransfer{
			{FromUserAccount: testWallet, ToUserAccount: "pool", Mint: testMint, TokenAmount: decimal.NewFromInt(2)},
		},
	}

	events, err := NewDeltaStrategy("").Derive(context.Background(), tx, testWallet)
	require.NoError(t, err)
	require.Len(t, events, 1)

	ev := events[0]
	assert.Equal(t, Sell, ev.Direction())
	assert.True(t, ev.TokenLeg().Amount.Equal(decimal.NewFromInt(2)))
	assert.True(t, ev.SolLeg().Amount.Equal(decimal.RequireFromString("0.3")))
	assert.False(t, ev.Estimated)
}

func TestDelta_WSOLTransferCountsAsSol(t *testing.T) {
	// SOL 腿走的是 WSOL 代币转账，必须并入原生 SOL 核算
	tx := &helius.Transaction{
		Signature: "sig-wsol",
		TokenTransfers: []helius.TokenTransfer{
			{FromUserAccount: testWallet, ToUserAccount: "pool", Mint: WSOLMint, TokenAmount: decimal.RequireFromString("0.7")},
			{FromUserAccount: "pool", ToUserAccount: testWallet, Mint: testMint, TokenAmount: decimal.NewFromInt(3)},
		},
	}

	events, err := NewDeltaStrategy("").Derive(context.Background(), tx, testWallet)
	require.NoError(t, err)
	require.Len(t, events, 1)

	ev := events[0]
	assert.Equal(t, Buy, ev.Direction())
	assert.Equal(t, testMint, ev.TokenLeg().Mint, "WSOL 不能被当成被交易代币")
	assert.True(t, ev.SolLeg().Amount.Equal(decimal.RequireFromString("0.7")))
	assert.False(t, ev.Estimated)
}

func TestDelta_PicksLargestAbsoluteFlow(t *testing.T) {
	tx := &helius.Transaction{
		Signature: "sig-multi",
		NativeTransfers: []helius.NativeTransfer{
			{FromUserAccount: testWallet, ToUserAccount: "pool", Amount: 100_000_000},
		},
		TokenTransfers: []helius.TokenTransfer{
			{FromUserAccount: "pool", ToUserAccount: testWallet, Mint: testMint, TokenAmount: decimal.NewFromInt(1)},
			{FromUserAccount: "pool", ToUserAccount: testWallet, Mint: otherMint, TokenAmount: decimal.NewFromInt(10)},
		},
	}

	events, err := NewDeltaStrategy("").Derive(context.Background(), tx, testWallet)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, otherMint, events[0].TokenLeg().Mint)
}

func TestDelta_AssetOfInterestWinsWhenFlowNonZero(t *testing.T) {
	tx := &helius.Transaction{
		Signature: "sig-interest",
		NativeTransfers: []helius.NativeTransfer{
			{FromUserAccount: testWallet, ToUserAccount: "pool", Amount: 100_000_000},
		},
		TokenTransfers: []helius.TokenTransfer{
			{FromUserAccount: "pool", ToUserAccount: testWallet, Mint: testMint, TokenAmount: decimal.NewFromInt(1)},
			{FromUserAccount: "pool", ToUserAccount: testWallet, Mint: otherMint, TokenAmount: decimal.NewFromInt(10)},
		},
	}

	events, err := NewDeltaStrategy(testMint).Derive(context.Background(), tx, testWallet)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, testMint, events[0].TokenLeg().Mint, "关注代币净流量非零时优先选中")
}

func TestDelta_AssetOfInterestZeroFlowFallsBack(t *testing.T) {
	tx := &helius.Transaction{
		Signature: "sig-interest-zero",
		NativeTransfers: []helius.NativeTransfer{
			{FromUserAccount: testWallet, ToUserAccount: "pool", Amount: 100_000_000},
		},
		TokenTransfers: []helius.TokenTransfer{
			{FromUserAccount: "pool", ToUserAccount: testWallet, Mint: otherMint, TokenAmount: decimal.NewFromInt(10)},
		},
	}

	events, err := NewDeltaStrategy(testMint).Derive(context.Background(), tx, testWallet)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, otherMint, events[0].TokenLeg().Mint)
}

func TestDelta_MissingSolLegEstimatedFromGrossFlow(t *testing.T) {
	// 净 SOL 流量为零（等量进出），买入腿按毛流出估算
	tx := &helius.Transaction{
		Signature: "sig-estimate",
		Fee:       5000,
		NativeTransfers: []helius.NativeTransfer{
			{FromUserAccount: testWallet, ToUserAccount: "pool", Amount: 400_000_000},
			{FromUserAccount: "pool", ToUserAccount: testWallet, Amount: 400_000_000},
		},
		TokenTransfers: []helius.TokenTransfer{
			{FromUserAccount: "pool", ToUserAccount: testWallet, Mint: testMint, TokenAmount: decimal.NewFromInt(5)},
		},
	}

	events, err := NewDeltaStrategy("").Derive(context.Background(), tx, testWallet)
	require.NoError(t, err)
	require.Len(t, events, 1)

	ev := events[0]
	assert.Equal(t, Buy, ev.Direction())
	assert.True(t, ev.Estimated)
	assert.True(t, ev.SolLeg().Amount.Equal(decimal.RequireFromString("0.4")))
}

func TestDelta_MissingSolLegEstimatedFromFee(t *testing.T) {
	tx := &helius.Transaction{
		Signature: "sig-fee-fallback",
		Fee:       5000,
		TokenTransfers: []helius.TokenTransfer{
			{FromUserAccount: "pool", ToUserAccount: testWallet, Mint: testMint, TokenAmount: decimal.NewFromInt(5)},
		},
	}

	events, err := NewDeltaStrategy("").Derive(context.Background(), tx, testWallet)
	require.NoError(t, err)
	require.Len(t, events, 1)

	ev := events[0]
	assert.True(t, ev.Estimated)
	assert.True(t, ev.SolLeg().Amount.Equal(decimal.RequireFromString("0.000005")))
}

func TestDelta_NoTokenFlowProducesNothing(t *testing.T) {
	tx := &helius.Transaction{
		Signature: "sig-transfer-only",
		NativeTransfers: []helius.NativeTransfer{
			{FromUserAccount: testWallet, ToUserAccount: "friend", Amount: 100_000_000},
		},
	}

	events, err := NewDeltaStrategy("").Derive(context.Background(), tx, testWallet)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestDelta_UnrelatedWalletProducesNothing(t *testing.T) {
	tx := &helius.Transaction{
		Signature: "sig-unrelated",
		TokenTransfers: []helius.TokenTransfer{
			{FromUserAccount: "a", ToUserAccount: "b", Mint: testMint, TokenAmount: decimal.NewFromInt(5)},
		},
	}

	events, err := NewDeltaStrategy("").Derive(context.Background(), tx, testWallet)
	require.NoError(t, err)
	assert.Empty(t, events)
}
