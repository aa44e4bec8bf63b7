package swap

import (
	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
)

// SolDecimals SOL 的精度（lamports）
const SolDecimals int32 = 9

// WSOLMint 包装 SOL 的 mint 地址。部分交易会把 SOL 伪装成普通代币转账搬运，
// 推导时必须并入原生 SOL 的统一核算。
var WSOLMint = solana.WrappedSol.String()

// Direction 交易方向
type Direction int32

const (
	Buy Direction = iota + 1
	Sell
)

func (d Direction) String() string {
	switch d {
	case Buy:
		return "buy"
	case Sell:
		return "sell"
	default:
		return "unknown"
	}
}

// Leg swap 事件的一条腿，Amount 为按精度换算后的 UI 数量
type Leg struct {
	Mint     string
	Amount   decimal.Decimal
	Decimals int32
}

// IsSol 该腿是否为参考资产（SOL / WSOL）
func (l Leg) IsSol() bool {
	return l.Mint == WSOLMint
}

// Event 一次规范化的 swap 事件：输入腿是钱包付出的，输出腿是钱包收到的。
// 只在单次批处理内存在，不落库，仅用于计算 ProcessedTrade。
type Event struct {
	In  Leg
	Out Leg

	// Estimated SOL 腿缺失时由启发式补出的估算值，下游必须能识别
	Estimated bool
}

// Direction 以参考资产为计价基准判断买卖方向
func (e Event) Direction() Direction {
	if e.In.IsSol() && !e.Out.IsSol() {
		return Buy
	}
	return Sell
}

// TokenLeg 被交易代币的那条腿
func (e Event) TokenLeg() Leg {
	if e.Direction() == Buy {
		return e.Out
	}
	return e.In
}

// SolLeg 参考资产的那条腿
func (e Event) SolLeg() Leg {
	if e.Direction() == Buy {
		return e.In
	}
	return e.Out
}

// lamportsToSol lamports 数量换算为 SOL UI 数量
func lamportsToSol(lamports decimal.Decimal) decimal.Decimal {
	return lamports.Shift(-SolDecimals)
}

func solLeg(amount decimal.Decimal) Leg {
	return Leg{Mint: WSOLMint, Amount: amount, Decimals: SolDecimals}
}
