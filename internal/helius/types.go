package helius

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction Helius 增强交易记录，接口返回后只读不修改
type Transaction struct {
	Signature        string      `json:"signature"`
	Timestamp        int64       `json:"timestamp"`
	Type             string      `json:"type"`
	Source           string      `json:"source"`
	Fee              int64       `json:"fee"`
	FeePayer         string      `json:"feePayer"`
	TransactionError interface{} `json:"transactionError,omitempty"`

	NativeTransfers []NativeTransfer `json:"nativeTransfers"`
	TokenTransfers  []TokenTransfer  `json:"tokenTransfers"`
	Events          *Events          `json:"events,omitempty"`
}

// BlockTime 链上时间
func (t *Transaction) BlockTime() time.Time {
	return time.Unix(t.Timestamp, 0)
}

// NativeTransfer SOL 原生转账，金额单位为 lamports
type NativeTransfer struct {
	FromUserAccount string `json:"fromUserAccount"`
	ToUserAccount   string `json:"toUserAccount"`
	Amount          int64  `json:"amount"`
}

// TokenTransfer SPL 代币转账，金额已按精度换算为 UI 单位
type TokenTransfer struct {
	FromUserAccount  string          `json:"fromUserAccount"`
	ToUserAccount    string          `json:"toUserAccount"`
	FromTokenAccount string          `json:"fromTokenAccount,omitempty"`
	ToTokenAccount   string          `json:"toTokenAccount,omitempty"`
	Mint             string          `json:"mint"`
	TokenAmount      decimal.Decimal `json:"tokenAmount"`
	TokenStandard    string          `json:"tokenStandard,omitempty"`
}

// Events 交易上解析出的结构化事件
type Events struct {
	Swap *SwapInfo `json:"swap,omitempty"`
}

// SwapInfo 显式 swap 事件，输入输出腿已经由索引服务解析好
type SwapInfo struct {
	NativeInput  *NativeBalance       `json:"nativeInput,omitempty"`
	NativeOutput *NativeBalance       `json:"nativeOutput,omitempty"`
	TokenInputs  []TokenBalanceChange `json:"tokenInputs"`
	TokenOutputs []TokenBalanceChange `json:"tokenOutputs"`
}

// NativeBalance swap 事件中的 SOL 腿，金额为 lamports（字符串编码）
type NativeBalance struct {
	Account string          `json:"account"`
	Amount  decimal.Decimal `json:"amount"`
}

// TokenBalanceChange swap 事件中的代币腿
type TokenBalanceChange struct {
	UserAccount    string         `json:"userAccount"`
	TokenAccount   string         `json:"tokenAccount"`
	Mint           string         `json:"mint"`
	RawTokenAmount RawTokenAmount `json:"rawTokenAmount"`
}

// RawTokenAmount 原始代币数量与精度
type RawTokenAmount struct {
	TokenAmount decimal.Decimal `json:"tokenAmount"`
	Decimals    int32           `json:"decimals"`
}

// UIAmount 按精度换算后的 UI 数量
func (r RawTokenAmount) UIAmount() decimal.Decimal {
	return r.TokenAmount.Shift(-r.Decimals)
}

// TokenMetadata 代币展示元数据
type TokenMetadata struct {
	Account         string           `json:"account"`
	OnChainMetadata *OnChainMetadata `json:"onChainMetadata,omitempty"`
}

type OnChainMetadata struct {
	Metadata struct {
		Data struct {
			Name   string `json:"name"`
			Symbol string `json:"symbol"`
		} `json:"data"`
	} `json:"metadata"`
}

// Name 链上元数据中的代币名称，缺失时为空
func (m *TokenMetadata) Name() string {
	if m.OnChainMetadata == nil {
		return ""
	}
	return m.OnChainMetadata.Metadata.Data.Name
}

// Symbol 链上元数据中的代币符号，缺失时为空
func (m *TokenMetadata) Symbol() string {
	if m.OnChainMetadata == nil {
		return ""
	}
	return m.OnChainMetadata.Metadata.Data.Symbol
}
