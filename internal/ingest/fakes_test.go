package ingest

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/ninja0404/wallet-mirror/internal/helius"
	"github.com/ninja0404/wallet-mirror/internal/model"
)

// 各依赖的内存实现，行为与真实仓储保持一致的语义

type fakeHistory struct {
	txs []helius.Transaction
	err error
}

func (f *fakeHistory) ListHistory(_ context.Context, _ string, _ helius.HistoryOptions) ([]helius.Transaction, error) {
	return f.txs, f.err
}

type fakeMetaSource struct {
	metas map[string]helius.TokenMetadata
	err   error
	calls int
}

func (f *fakeMetaSource) GetTokenMetadata(_ context.Context, mints []string) ([]helius.TokenMetadata, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	var out []helius.TokenMetadata
	for _, mint := range mints {
		if meta, ok := f.metas[mint]; ok {
			out = append(out, meta)
		}
	}
	return out, nil
}

type fakePriceSource struct {
	price decimal.Decimal
	err   error
	calls int
}

func (f *fakePriceSource) CurrentPrice(_ context.Context) (decimal.Decimal, error) {
	f.calls++
	if f.err != nil {
		return decimal.Zero, f.err
	}
	return f.price, nil
}

type positionKey struct {
	wallet string
	token  string
}

type fakePositionRepo struct {
	balances map[positionKey]decimal.Decimal
	firstAt  map[positionKey]time.Time
}

func newFakePositionRepo() *fakePositionRepo {
	return &fakePositionRepo{
		balances: make(map[positionKey]decimal.Decimal),
		firstAt:  make(map[positionKey]time.Time),
	}
}

func (f *fakePositionRepo) ApplyDelta(wallet string, token string, delta decimal.Decimal, blockTime time.Time) (decimal.Decimal, error) {
	key := positionKey{wallet, token}
	before := f.balances[key]
	f.balances[key] = before.Add(delta)
	if delta.IsPositive() && !before.IsPositive() {
		if _, ok := f.firstAt[key]; !ok {
			f.firstAt[key] = blockTime
		}
	}
	return before, nil
}

func (f *fakePositionRepo) GetBalance(wallet string, token string) (decimal.Decimal, error) {
	return f.balances[positionKey{wallet, token}], nil
}

type tradeKey struct {
	signature string
	token     string
}

type fakeTradeRepo struct {
	rows      map[tradeKey]*model.ProcessedTrade
	createErr error
}

func newFakeTradeRepo() *fakeTradeRepo {
	return &fakeTradeRepo{rows: make(map[tradeKey]*model.ProcessedTrade)}
}

func (f *fakeTradeRepo) Exists(signature string, token string) (bool, error) {
	_, ok := f.rows[tradeKey{signature, token}]
	return ok, nil
}

func (f *fakeTradeRepo) Create(trade *model.ProcessedTrade) error {
	if f.createErr != nil {
		return f.createErr
	}
	key := tradeKey{trade.Signature, trade.TokenAddress}
	if _, ok := f.rows[key]; ok {
		// 与 ON CONFLICT DO NOTHING 对齐
		return nil
	}
	f.rows[key] = trade
	return nil
}

func (f *fakeTradeRepo) ListByWallet(wallet string, limit int) ([]*model.ProcessedTrade, error) {
	var out []*model.ProcessedTrade
	for _, trade := range f.rows {
		if trade.WalletAddress == wallet {
			out = append(out, trade)
		}
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

type fakeTrackedRepo struct {
	wallets map[string]*model.TrackedWallet
	err     error
}

func (f *fakeTrackedRepo) FindActive(address string) (*model.TrackedWallet, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.wallets[address], nil
}

func (f *fakeTrackedRepo) ListActive() ([]*model.TrackedWallet, error) {
	var out []*model.TrackedWallet
	for _, w := range f.wallets {
		out = append(out, w)
	}
	return out, nil
}

type fakeExecutor struct {
	executed []*model.ProcessedTrade
	err      error
}

func (f *fakeExecutor) Execute(trade *model.ProcessedTrade) error {
	if f.err != nil {
		return f.err
	}
	if trade.TrackedWalletID == nil {
		return errors.New("交易未关联跟踪钱包")
	}
	f.executed = append(f.executed, trade)
	return nil
}
