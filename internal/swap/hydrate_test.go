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

type stubHydrator struct {
	txs  []helius.Transaction
	err  error
	sigs []string
}

func (h *stubHydrator) HydrateTransactions(_ context.Context, signatures []string) ([]helius.Transaction, error) {
	h.sigs = append(h.sigs, signatures...)
	return h.txs, h.err
}

func TestHydrate_RerunsInnerStrategiesOnRicherPayload(t *testing.T) {
	// 原始载荷没有转账明细，重取后的载荷有
	sparse := &helius.Transaction{Signature: "sig-sparse"}
	rich := helius.Transaction{
		Signature: "sig-sparse",
		NativeTransfers: []helius.NativeTransfer{
			{FromUserAccount: testWallet, ToUserAccount: "pool", Amount: 500_000_000},
		},
		TokenTransfers: []helius.TokenTransfer{
			{FromUserAccount: "pool", ToUserAccount: testWallet, Mint: testMint, TokenAmount: decimal.NewFromInt(1)},
		},
	}

	hydrator := &stubHydrator{txs: []helius.Transaction{rich}}
	strategy := NewHydrateStrategy(hydrator, NewExplicitStrategy(), NewDeltaStrategy(""))

	events, err := strategy.Derive(context.Background(), sparse, testWallet)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, Buy, events[0].Direction())
	assert.Equal(t, []string{"sig-sparse"}, hydrator.sigs)
}

func TestHydrate_FetchFailureReturnsError(t *testing.T) {
	hydrator := &stubHydrator{err: errors.New("network down")}
	strategy := NewHydrateStrategy(hydrator, NewDeltaStrategy(""))

	_, err := strategy.Derive(context.Background(), &helius.Transaction{Signature: "sig-x"}, testWallet)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sig-x")
}

func TestHydrate_EmptyResultMeansUnparsed(t *testing.T) {
	hydrator := &stubHydrator{}
	strategy := NewHydrateStrategy(hydrator, NewDeltaStrategy(""))

	events, err := strategy.Derive(context.Background(), &helius.Transaction{Signature: "sig-x"}, testWallet)
	require.NoError(t, err)
	assert.Empty(t, events)
}
