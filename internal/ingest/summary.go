package ingest

import "github.com/ninja0404/wallet-mirror/internal/model"

// 诊断样本上限
const sampleLimit = 20

// Summary 单个钱包一次批处理的结果。部分交易解析失败时批次依旧成功，
// 只有拉取层错误才会让整个批次失败。
type Summary struct {
	WalletAddress string

	Found     int // 历史里发现的交易数
	Processed int // 成功推导并落库的交易数
	Unparsed  int // 三级策略都推导不出的交易数
	Errored   int // 落库/账本阶段出错被丢弃的交易数
	Triggered int // 触发跟单的交易数

	// Signatures 本次见到的签名样本
	Signatures []string
	// Trades 本次产出的交易行样本
	Trades []*model.ProcessedTrade
}

func (s *Summary) addSignature(sig string) {
	if len(s.Signatures) < sampleLimit {
		s.Signatures = append(s.Signatures, sig)
	}
}

func (s *Summary) addTrade(trade *model.ProcessedTrade) {
	if len(s.Trades) < sampleLimit {
		s.Trades = append(s.Trades, trade)
	}
}
