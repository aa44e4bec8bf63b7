package repo

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ninja0404/wallet-mirror/internal/model"
)

type TradeRepo interface {
	// Exists (signature, token) 去重键是否已经落库
	Exists(signature string, tokenAddress string) (bool, error)

	// Create 插入一条交易记录，去重键冲突时静默忽略
	Create(trade *model.ProcessedTrade) error

	// ListByWallet 按钱包查询最近的交易记录
	ListByWallet(wallet string, limit int) ([]*model.ProcessedTrade, error)
}

type tradeRepoImpl struct {
	db *gorm.DB
}

func NewTradeRepo(db *gorm.DB) TradeRepo {
	return &tradeRepoImpl{
		db: db,
	}
}

// Exists 检查去重键
func (r *tradeRepoImpl) Exists(signature string, tokenAddress string) (bool, error) {
	var count int64
	err := r.db.Model(&model.ProcessedTrade{}).
		Where("signature = ? AND token_address = ?", signature, tokenAddress).
		Count(&count).Error
	return count > 0, err
}

// Create 幂等插入，冲突即已处理过
func (r *tradeRepoImpl) Create(trade *model.ProcessedTrade) error {
	return r.db.
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(trade).Error
}

// ListByWallet 按钱包倒序查询
func (r *tradeRepoImpl) ListByWallet(wallet string, limit int) ([]*model.ProcessedTrade, error) {
	var trades []*model.ProcessedTrade
	err := r.db.
		Where("wallet_address = ?", wallet).
		Order("block_time DESC").
		Limit(limit).
		Find(&trades).Error
	return trades, err
}
