package swap

import (
	"context"

	"github.com/pkg/errors"

	"github.com/ninja0404/wallet-mirror/internal/helius"
	"github.com/ninja0404/wallet-mirror/pkg/logger"
)

// Hydrator 按签名重新拉取更完整交易表示的能力
type Hydrator interface {
	HydrateTransactions(ctx context.Context, signatures []string) ([]helius.Transaction, error)
}

// hydrateStrategy tier-3：前两级都推导不出时，按签名重取富化后的交易，
// 再把 tier-1/tier-2 在新载荷上重跑一遍
type hydrateStrategy struct {
	hydrator Hydrator
	inner    []Strategy
}

// NewHydrateStrategy 创建重取兜底策略，inner 为重跑的推导策略列表
func NewHydrateStrategy(hydrator Hydrator, inner ...Strategy) Strategy {
	return &hydrateStrategy{hydrator: hydrator, inner: inner}
}

func (s *hydrateStrategy) Name() string {
	return "hydrate-retry"
}

func (s *hydrateStrategy) Derive(ctx context.Context, tx *helius.Transaction, wallet string) ([]Event, error) {
	hydrated, err := s.hydrator.HydrateTransactions(ctx, []string{tx.Signature})
	if err != nil {
		return nil, errors.Wrapf(err, "重取交易失败: %s", tx.Signature)
	}
	if len(hydrated) == 0 {
		return nil, nil
	}

	logger.Debug("🔁 交易已重取，重跑推导",
		logger.String("signature", tx.Signature))

	richer := &hydrated[0]
	for _, inner := range s.inner {
		events, derr := inner.Derive(ctx, richer, wallet)
		if derr != nil {
			continue
		}
		if len(events) > 0 {
			return events, nil
		}
	}
	return nil, nil
}
