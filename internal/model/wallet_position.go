package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// WalletPosition 钱包在单个代币上的持仓，由观测到的交易重建。
// balance 只通过带符号增量修改，归零后保留记录不做物理删除。
type WalletPosition struct {
	ID            uint64          `gorm:"column:id;primaryKey;autoIncrement;comment:主键"`
	WalletAddress string          `gorm:"column:wallet_address;type:varchar(128);uniqueIndex:idx_wallet_token;not null;comment:钱包地址"`
	TokenAddress  string          `gorm:"column:token_address;type:varchar(128);uniqueIndex:idx_wallet_token;not null;comment:代币 mint 地址"`
	Balance       decimal.Decimal `gorm:"column:balance;type:decimal(36,18);not null;default:0;comment:持仓数量(UI单位,带符号累计)"`

	FirstPurchaseAt *time.Time `gorm:"column:first_purchase_at;comment:首次买入时间"`

	CreatedAt *time.Time `gorm:"column:created_at;not null;autoCreateTime"`
	UpdatedAt *time.Time `gorm:"column:updated_at;not null;autoUpdateTime"`
}

func (*WalletPosition) TableName() string {
	return "wallet_position"
}
