package repo

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/ninja0404/wallet-mirror/internal/model"
)

type TrackedWalletRepo interface {
	// FindActive 按地址查找处于跟踪状态的钱包，未命中返回 nil
	FindActive(address string) (*model.TrackedWallet, error)

	// ListActive 列出全部处于跟踪状态的钱包
	ListActive() ([]*model.TrackedWallet, error)
}

type trackedWalletRepoImpl struct {
	db *gorm.DB
}

func NewTrackedWalletRepo(db *gorm.DB) TrackedWalletRepo {
	return &trackedWalletRepoImpl{
		db: db,
	}
}

// FindActive 查找跟踪中的钱包
func (r *trackedWalletRepoImpl) FindActive(address string) (*model.TrackedWallet, error) {
	var wallet model.TrackedWallet
	err := r.db.
		Where("wallet_address = ? AND is_active = 1", address).
		Take(&wallet).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &wallet, nil
}

// ListActive 列出跟踪中的钱包
func (r *trackedWalletRepoImpl) ListActive() ([]*model.TrackedWallet, error) {
	var wallets []*model.TrackedWallet
	err := r.db.
		Where("is_active = 1").
		Order("id ASC").
		Find(&wallets).Error
	return wallets, err
}
