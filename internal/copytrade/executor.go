package copytrade

import (
	"encoding/json"
	"time"

	"github.com/pkg/errors"

	"github.com/ninja0404/wallet-mirror/internal/model"
	"github.com/ninja0404/wallet-mirror/pkg/mq/kafka"
)

// Executor 跟单执行器。语义为 at-most-once、尽力而为：
// 投递失败只记录，不重试，也不回滚已落库的交易记录。
type Executor interface {
	// Execute 为一条已处理交易触发一次跟单
	Execute(trade *model.ProcessedTrade) error
}

// Config 跟单触发配置
type Config struct {
	Topic string `yaml:"topic" json:"topic"`
}

// payload 投递给跟单执行服务的消息体
type payload struct {
	Signature       string `json:"signature"`
	WalletAddress   string `json:"wallet_address"`
	TradeType       string `json:"trade_type"`
	TokenAddress    string `json:"token_address"`
	TokenSymbol     string `json:"token_symbol,omitempty"`
	TokenAmount     string `json:"token_amount"`
	AmountSol       string `json:"amount_sol"`
	AmountUSD       string `json:"amount_usd,omitempty"`
	IsFirstPurchase bool   `json:"is_first_purchase"`
	AmountEstimated bool   `json:"amount_estimated"`
	TrackedWalletID uint64 `json:"tracked_wallet_id"`
	BlockTime       int64  `json:"block_time"`
	TriggeredAt     int64  `json:"triggered_at"`
}

type kafkaExecutor struct {
	topic string
}

// NewKafkaExecutor 创建基于 Kafka 投递的跟单执行器，使用全局默认 producer
func NewKafkaExecutor(cfg Config) Executor {
	return &kafkaExecutor{topic: cfg.Topic}
}

func (e *kafkaExecutor) Execute(trade *model.ProcessedTrade) error {
	if trade.TrackedWalletID == nil {
		return errors.New("交易未关联跟踪钱包，拒绝触发")
	}

	msg := payload{
		Signature:       trade.Signature,
		WalletAddress:   trade.WalletAddress,
		TradeType:       trade.TradeType,
		TokenAddress:    trade.TokenAddress,
		TokenSymbol:     trade.TokenSymbol,
		TokenAmount:     trade.TokenAmount.String(),
		AmountSol:       trade.AmountSol.String(),
		IsFirstPurchase: trade.IsFirstPurchase,
		AmountEstimated: trade.AmountEstimated,
		TrackedWalletID: *trade.TrackedWalletID,
		BlockTime:       trade.BlockTime.Unix(),
		TriggeredAt:     time.Now().Unix(),
	}
	if trade.AmountUSD != nil {
		msg.AmountUSD = trade.AmountUSD.String()
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return errors.Wrap(err, "编码跟单消息失败")
	}

	// 按钱包地址分区，保证同一钱包的触发顺序
	return kafka.SendMessageWithKey(e.topic, trade.WalletAddress, data)
}
