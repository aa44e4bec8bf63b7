package swap

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ninja0404/wallet-mirror/internal/helius"
)

type stubStrategy struct {
	name   string
	events []Event
	err    error
	calls  int
}

func (s *stubStrategy) Name() string { return s.name }

func (s *stubStrategy) Derive(_ context.Context, _ *helius.Transaction, _ string) ([]Event, error) {
	s.calls++
	return s.events, s.err
}

func buyEvent(mint string) Event {
	return Event{
		In:  solLeg(decimal.NewFromInt(1)),
		Out: Leg{Mint: mint, Amount: decimal.NewFromInt(10)},
	}
}

func TestChain_FirstProducingStrategyWins(t *testing.T) {
	first := &stubStrategy{name: "first", events: []Event{buyEvent(testMint)}}
	second := &stubStrategy{name: "second", events: []Event{buyEvent(otherMint)}}

	chain := NewChain(first, second)
	events := chain.Derive(context.Background(), &helius.Transaction{Signature: "sig"}, testWallet)

	require.Len(t, events, 1)
	assert.Equal(t, testMint, events[0].Out.Mint)
	assert.Equal(t, 0, second.calls, "前一级命中后不该再往下尝试")
}

func TestChain_EmptyResultFallsToNextTier(t *testing.T) {
	first := &stubStrategy{name: "first"}
	second := &stubStrategy{name: "second", events: []Event{buyEvent(testMint)}}

	chain := NewChain(first, second)
	events := chain.Derive(context.Background(), &helius.Transaction{Signature: "sig"}, testWallet)

	require.Len(t, events, 1)
	assert.Equal(t, 1, first.calls)
}

func TestChain_ErrorIsIsolatedToOneTier(t *testing.T) {
	first := &stubStrategy{name: "first", err: errors.New("boom")}
	second := &stubStrategy{name: "second", events: []Event{buyEvent(testMint)}}

	chain := NewChain(first, second)
	events := chain.Derive(context.Background(), &helius.Transaction{Signature: "sig"}, testWallet)

	require.Len(t, events, 1, "单级失败不影响后续推导")
}

func TestChain_AllTiersMissReturnsNil(t *testing.T) {
	chain := NewChain(&stubStrategy{name: "a"}, &stubStrategy{name: "b"})
	events := chain.Derive(context.Background(), &helius.Transaction{Signature: "sig"}, testWallet)
	assert.Nil(t, events)
}

func TestEvent_DirectionAndLegs(t *testing.T) {
	buy := Event{
		In:  solLeg(decimal.RequireFromString("0.5")),
		Out: Leg{Mint: testMint, Amount: decimal.NewFromInt(100)},
	}
	assert.Equal(t, Buy, buy.Direction())
	assert.Equal(t, "buy", buy.Direction().String())
	assert.Equal(t, testMint, buy.TokenLeg().Mint)
	assert.Equal(t, WSOLMint, buy.SolLeg().Mint)

	sell := Event{
		In:  Leg{Mint: testMint, Amount: decimal.NewFromInt(100)},
		Out: solLeg(decimal.RequireFromString("0.5")),
	}
	assert.Equal(t, Sell, sell.Direction())
	assert.Equal(t, "sell", sell.Direction().String())
	assert.Equal(t, testMint, sell.TokenLeg().Mint)
}
