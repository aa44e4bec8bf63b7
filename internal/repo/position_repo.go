package repo

import (
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ninja0404/wallet-mirror/internal/model"
)

type PositionRepo interface {
	// ApplyDelta 对 (wallet, token) 持仓原子地应用带符号增量，返回应用前余额。
	// 首次正向增量会顺带写入 first_purchase_at。
	ApplyDelta(wallet string, tokenAddress string, delta decimal.Decimal, blockTime time.Time) (decimal.Decimal, error)

	// GetBalance 读取当前持仓余额，不存在时返回 0
	GetBalance(wallet string, tokenAddress string) (decimal.Decimal, error)
}

type positionRepoImpl struct {
	db *gorm.DB
}

func NewPositionRepo(db *gorm.DB) PositionRepo {
	return &positionRepoImpl{
		db: db,
	}
}

// ApplyDelta 读取先于写入，整个读改写在一个事务里持行锁完成
func (r *positionRepoImpl) ApplyDelta(wallet string, tokenAddress string, delta decimal.Decimal, blockTime time.Time) (decimal.Decimal, error) {
	var before decimal.Decimal

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var pos model.WalletPosition
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("wallet_address = ? AND token_address = ?", wallet, tokenAddress).
			Take(&pos).Error

		if errors.Is(err, gorm.ErrRecordNotFound) {
			before = decimal.Zero
			pos = model.WalletPosition{
				WalletAddress: wallet,
				TokenAddress:  tokenAddress,
				Balance:       delta,
			}
			if delta.IsPositive() {
				t := blockTime
				pos.FirstPurchaseAt = &t
			}
			return tx.Create(&pos).Error
		}
		if err != nil {
			return err
		}

		before = pos.Balance

		updates := map[string]interface{}{
			"balance": gorm.Expr("balance + ?", delta),
		}
		if delta.IsPositive() && !before.IsPositive() && pos.FirstPurchaseAt == nil {
			updates["first_purchase_at"] = blockTime
		}
		return tx.Model(&model.WalletPosition{}).
			Where("id = ?", pos.ID).
			Updates(updates).Error
	})

	return before, err
}

// GetBalance 读取持仓余额
func (r *positionRepoImpl) GetBalance(wallet string, tokenAddress string) (decimal.Decimal, error) {
	var pos model.WalletPosition
	err := r.db.
		Where("wallet_address = ? AND token_address = ?", wallet, tokenAddress).
		Take(&pos).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, err
	}
	return pos.Balance, nil
}
