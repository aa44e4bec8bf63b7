package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 交易方向
const (
	TradeTypeBuy  = "buy"
	TradeTypeSell = "sell"
)

// ProcessedTrade 一条规范化后的买卖记录，每个推导出的 swap 事件对应一行。
// (signature, token_address) 是天然去重键，重复跑同一窗口不会产生新行。
type ProcessedTrade struct {
	ID        uint64 `gorm:"column:id;primaryKey;autoIncrement;comment:主键"`
	Signature string `gorm:"column:signature;type:varchar(128);uniqueIndex:idx_sig_token;not null;comment:交易签名"`

	WalletAddress string `gorm:"column:wallet_address;type:varchar(128);index;not null;comment:钱包地址"`
	TradeType     string `gorm:"column:trade_type;type:varchar(8);not null;comment:buy/sell"`
	TokenAddress  string `gorm:"column:token_address;type:varchar(128);uniqueIndex:idx_sig_token;not null;comment:代币 mint 地址"`
	TokenSymbol   string `gorm:"column:token_symbol;type:varchar(64);default:'';comment:代币符号"`
	TokenName     string `gorm:"column:token_name;type:varchar(128);default:'';comment:代币名称"`

	TokenAmount decimal.Decimal  `gorm:"column:token_amount;type:decimal(36,18);not null;comment:代币数量(UI单位)"`
	AmountSol   decimal.Decimal  `gorm:"column:amount_sol;type:decimal(36,18);not null;comment:SOL 计价金额"`
	AmountUSD   *decimal.Decimal `gorm:"column:amount_usd;type:decimal(32,18);comment:USD 计价金额,价格不可得时为空"`

	IsFirstPurchase bool `gorm:"column:is_first_purchase;not null;default:0;comment:是否首次建仓"`
	AmountEstimated bool `gorm:"column:amount_estimated;not null;default:0;comment:SOL 金额是否为估算值"`

	BlockTime       time.Time `gorm:"column:block_time;not null;comment:链上时间"`
	TrackedWalletID *uint64   `gorm:"column:tracked_wallet_id;index;comment:命中的跟踪钱包ID,未跟踪为空"`

	CreatedAt *time.Time `gorm:"column:created_at;not null;autoCreateTime"`
	UpdatedAt *time.Time `gorm:"column:updated_at;not null;autoUpdateTime"`
}

func (*ProcessedTrade) TableName() string {
	return "processed_trade"
}
