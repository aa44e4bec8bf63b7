package swap

import (
	"context"

	"github.com/ninja0404/wallet-mirror/internal/helius"
	"github.com/ninja0404/wallet-mirror/pkg/logger"
)

// Strategy 单个推导策略。推导不出事件时返回空切片，错误仅代表该策略自身失败，
// 不影响链上后续策略继续尝试。
type Strategy interface {
	// Name 策略名称
	Name() string

	// Derive 从一条原始交易推导该钱包的 swap 事件
	Derive(ctx context.Context, tx *helius.Transaction, wallet string) ([]Event, error)
}

// Chain 按顺序尝试各策略，第一个产出事件的策略胜出
type Chain struct {
	strategies []Strategy
}

// NewChain 创建策略链
func NewChain(strategies ...Strategy) *Chain {
	return &Chain{strategies: strategies}
}

// Derive 依次执行策略链。全部落空返回空切片，调用方按未解析计数处理。
func (c *Chain) Derive(ctx context.Context, tx *helius.Transaction, wallet string) []Event {
	for _, s := range c.strategies {
		events, err := s.Derive(ctx, tx, wallet)
		if err != nil {
			logger.Debug("推导策略失败，尝试下一级",
				logger.String("strategy", s.Name()),
				logger.String("signature", tx.Signature),
				logger.FieldErr(err))
			continue
		}
		if len(events) > 0 {
			return events
		}
	}
	return nil
}
