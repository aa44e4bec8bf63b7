package model

import "time"

// TrackedWallet 注册到跟单系统的钱包。只有 is_active 的钱包会触发跟单执行。
type TrackedWallet struct {
	ID            uint64 `gorm:"column:id;primaryKey;autoIncrement;comment:主键"`
	WalletAddress string `gorm:"column:wallet_address;type:varchar(128);uniqueIndex:idx_addr_user;not null;comment:钱包地址"`
	UserID        uint64 `gorm:"column:user_id;uniqueIndex:idx_addr_user;not null;comment:所属用户"`
	Label         string `gorm:"column:label;type:varchar(64);default:'';comment:备注名"`
	IsActive      bool   `gorm:"column:is_active;not null;default:1;comment:是否处于跟踪状态"`

	CreatedAt *time.Time `gorm:"column:created_at;not null;autoCreateTime"`
	UpdatedAt *time.Time `gorm:"column:updated_at;not null;autoUpdateTime"`
}

func (*TrackedWallet) TableName() string {
	return "tracked_wallet"
}
