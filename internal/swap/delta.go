package swap

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/ninja0404/wallet-mirror/internal/helius"
)

// deltaStrategy tier-2：没有显式事件时，按钱包视角的转账净流量推导方向。
// SOL 与 WSOL 合并为同一参考资产核算，被交易代币取净流量绝对值最大的 mint，
// 配置了关注代币且其净流量非零时优先选它。
type deltaStrategy struct {
	// assetOfInterest 预配置的关注代币 mint，可为空
	assetOfInterest string
}

// NewDeltaStrategy 创建净流量推导策略
func NewDeltaStrategy(assetOfInterest string) Strategy {
	return &deltaStrategy{assetOfInterest: assetOfInterest}
}

func (s *deltaStrategy) Name() string {
	return "transfer-delta"
}

// flows 钱包在一条交易中的资金净流量（UI 单位，流入为正）
type flows struct {
	sol      decimal.Decimal
	solIn    decimal.Decimal // 流入总量，估算 SOL 腿时用
	solOut   decimal.Decimal // 流出总量
	byMint   map[string]decimal.Decimal
	mintSeen []string // 保持遍历顺序稳定
}

func (s *deltaStrategy) Derive(_ context.Context, tx *helius.Transaction, wallet string) ([]Event, error) {
	f := collectFlows(tx, wallet)

	traded := s.pickTradedMint(f)
	if traded == "" {
		return nil, nil
	}

	tokenFlow := f.byMint[traded]
	if tokenFlow.IsZero() {
		return nil, nil
	}

	tokenLeg := Leg{Mint: traded, Amount: tokenFlow.Abs()}

	if tokenFlow.IsPositive() {
		// 代币净流入 ⇒ 买入，SOL 腿为净流出
		solAmount := f.sol.Neg()
		estimated := false
		if !solAmount.IsPositive() {
			solAmount, estimated = estimateSolAmount(f.solOut, tx)
		}
		return []Event{{In: solLeg(solAmount), Out: tokenLeg, Estimated: estimated}}, nil
	}

	// 代币净流出 ⇒ 卖出，SOL 腿为净流入
	solAmount := f.sol
	estimated := false
	if !solAmount.IsPositive() {
		solAmount, estimated = estimateSolAmount(f.solIn, tx)
	}
	return []Event{{In: tokenLeg, Out: solLeg(solAmount), Estimated: estimated}}, nil
}

// collectFlows 汇总原生转账与代币转账的净流量，WSOL 并入 SOL
func collectFlows(tx *helius.Transaction, wallet string) *flows {
	f := &flows{byMint: make(map[string]decimal.Decimal)}

	for _, nt := range tx.NativeTransfers {
		amt := lamportsToSol(decimal.NewFromInt(nt.Amount))
		if nt.ToUserAccount == wallet {
			f.sol = f.sol.Add(amt)
			f.solIn = f.solIn.Add(amt)
		}
		if nt.FromUserAccount == wallet {
			f.sol = f.sol.Sub(amt)
			f.solOut = f.solOut.Add(amt)
		}
	}

	for _, tt := range tx.TokenTransfers {
		if tt.Mint == WSOLMint {
			if tt.ToUserAccount == wallet {
				f.sol = f.sol.Add(tt.TokenAmount)
				f.solIn = f.solIn.Add(tt.TokenAmount)
			}
			if tt.FromUserAccount == wallet {
				f.sol = f.sol.Sub(tt.TokenAmount)
				f.solOut = f.solOut.Add(tt.TokenAmount)
			}
			continue
		}

		if _, ok := f.byMint[tt.Mint]; !ok {
			if tt.ToUserAccount == wallet || tt.FromUserAccount == wallet {
				f.mintSeen = append(f.mintSeen, tt.Mint)
			}
		}
		if tt.ToUserAccount == wallet {
			f.byMint[tt.Mint] = f.byMint[tt.Mint].Add(tt.TokenAmount)
		}
		if tt.FromUserAccount == wallet {
			f.byMint[tt.Mint] = f.byMint[tt.Mint].Sub(tt.TokenAmount)
		}
	}

	return f
}

// pickTradedMint 选出被交易的代币：关注代币净流量非零时优先，
// 否则取净流量绝对值最大的 mint
func (s *deltaStrategy) pickTradedMint(f *flows) string {
	if s.assetOfInterest != "" && !f.byMint[s.assetOfInterest].IsZero() {
		return s.assetOfInterest
	}

	best := ""
	bestAbs := decimal.Zero
	for _, mint := range f.mintSeen {
		abs := f.byMint[mint].Abs()
		if abs.IsZero() {
			continue
		}
		if abs.GreaterThan(bestAbs) {
			best = mint
			bestAbs = abs
		}
	}
	return best
}

// estimateSolAmount SOL 腿缺失或为零时的兜底估算：先取同方向的毛流量，
// 再退回手续费，宁可带着估算标记保留事件也不丢弃。
func estimateSolAmount(gross decimal.Decimal, tx *helius.Transaction) (decimal.Decimal, bool) {
	if gross.IsPositive() {
		return gross, true
	}
	if tx.Fee > 0 {
		return lamportsToSol(decimal.NewFromInt(tx.Fee)), true
	}
	return decimal.Zero, true
}
