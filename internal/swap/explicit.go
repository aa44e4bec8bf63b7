package swap

import (
	"context"

	"github.com/ninja0404/wallet-mirror/internal/helius"
)

// explicitStrategy tier-1：交易自带结构化 swap 事件时直接做字段映射
type explicitStrategy struct{}

// NewExplicitStrategy 创建显式事件推导策略
func NewExplicitStrategy() Strategy {
	return &explicitStrategy{}
}

func (s *explicitStrategy) Name() string {
	return "explicit-event"
}

func (s *explicitStrategy) Derive(_ context.Context, tx *helius.Transaction, wallet string) ([]Event, error) {
	if tx.Events == nil || tx.Events.Swap == nil {
		return nil, nil
	}
	info := tx.Events.Swap

	// SOL 换代币：原生输入腿 + 代币输出腿
	if info.NativeInput != nil && info.NativeInput.Amount.IsPositive() && len(info.TokenOutputs) > 0 {
		out := pickTokenLeg(info.TokenOutputs, wallet)
		if out != nil {
			return []Event{{
				In:  solLeg(lamportsToSol(info.NativeInput.Amount)),
				Out: *out,
			}}, nil
		}
	}

	// 代币换 SOL：代币输入腿 + 原生输出腿
	if info.NativeOutput != nil && info.NativeOutput.Amount.IsPositive() && len(info.TokenInputs) > 0 {
		in := pickTokenLeg(info.TokenInputs, wallet)
		if in != nil {
			return []Event{{
				In:  *in,
				Out: solLeg(lamportsToSol(info.NativeOutput.Amount)),
			}}, nil
		}
	}

	// 代币换代币等场景交给 tier-2 的净流量推导
	return nil, nil
}

// pickTokenLeg 选出属于目标钱包的代币腿；事件未标注归属时取数量最大的一条。
// 同一 mint 的多条腿先聚合再比较。
func pickTokenLeg(changes []helius.TokenBalanceChange, wallet string) *Leg {
	byMint := make(map[string]*Leg)
	ordered := make([]string, 0, len(changes))

	for _, ch := range changes {
		if ch.UserAccount != "" && ch.UserAccount != wallet {
			continue
		}
		if ch.Mint == "" {
			continue
		}
		if leg, ok := byMint[ch.Mint]; ok {
			leg.Amount = leg.Amount.Add(ch.RawTokenAmount.UIAmount())
			continue
		}
		byMint[ch.Mint] = &Leg{
			Mint:     ch.Mint,
			Amount:   ch.RawTokenAmount.UIAmount(),
			Decimals: ch.RawTokenAmount.Decimals,
		}
		ordered = append(ordered, ch.Mint)
	}

	var best *Leg
	for _, mint := range ordered {
		leg := byMint[mint]
		if leg.Amount.IsZero() {
			continue
		}
		if best == nil || leg.Amount.Abs().GreaterThan(best.Amount.Abs()) {
			best = leg
		}
	}
	return best
}
