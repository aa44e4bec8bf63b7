package ingest

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"

	"github.com/ninja0404/wallet-mirror/internal/copytrade"
	"github.com/ninja0404/wallet-mirror/internal/helius"
	"github.com/ninja0404/wallet-mirror/internal/model"
	"github.com/ninja0404/wallet-mirror/internal/pricing"
	"github.com/ninja0404/wallet-mirror/internal/repo"
	"github.com/ninja0404/wallet-mirror/internal/swap"
	"github.com/ninja0404/wallet-mirror/pkg/logger"
)

// HistorySource 钱包历史来源
type HistorySource interface {
	ListHistory(ctx context.Context, address string, opts helius.HistoryOptions) ([]helius.Transaction, error)
}

// Deriver swap 事件推导器，由策略链实现
type Deriver interface {
	Derive(ctx context.Context, tx *helius.Transaction, wallet string) []swap.Event
}

// Config 批处理配置
type Config struct {
	// MaxAgeHours 回溯窗口（小时），0 表示不限
	MaxAgeHours int `yaml:"max_age_hours" json:"max_age_hours"`
	// MaxCount 单个钱包最多处理的交易数，0 表示不限
	MaxCount int `yaml:"max_count" json:"max_count"`
	// AssetOfInterest 预配置的关注代币 mint，可为空
	AssetOfInterest string `yaml:"asset_of_interest" json:"asset_of_interest"`
	// Concurrency 同时回溯的钱包数
	Concurrency int `yaml:"concurrency" json:"concurrency"`
}

// Ingestor 钱包交易批处理器：翻页拉取 → 推导 → 补充元数据/价格 →
// 更新持仓账本 → 落交易行 → 批末触发跟单。
// 单个钱包内严格顺序处理，首次建仓判定依赖前序交易留下的账本状态。
type Ingestor struct {
	history  HistorySource
	deriver  Deriver
	metaSrc  MetadataSource
	priceSrc pricing.Source

	positions repo.PositionRepo
	trades    repo.TradeRepo
	tracked   repo.TrackedWalletRepo
	executor  copytrade.Executor

	cfg Config
}

// NewIngestor 创建批处理器
func NewIngestor(
	history HistorySource,
	deriver Deriver,
	metaSrc MetadataSource,
	priceSrc pricing.Source,
	positions repo.PositionRepo,
	trades repo.TradeRepo,
	tracked repo.TrackedWalletRepo,
	executor copytrade.Executor,
	cfg Config,
) *Ingestor {
	return &Ingestor{
		history:   history,
		deriver:   deriver,
		metaSrc:   metaSrc,
		priceSrc:  priceSrc,
		positions: positions,
		trades:    trades,
		tracked:   tracked,
		executor:  executor,
		cfg:       cfg,
	}
}

// IngestWallet 回溯单个钱包的历史。只有拉取层错误会整体失败，
// 单条交易的失败被隔离并计数，批次照常推进。
func (i *Ingestor) IngestWallet(ctx context.Context, address string) (*Summary, error) {
	if _, err := solana.PublicKeyFromBase58(address); err != nil {
		return nil, errors.Wrapf(err, "非法钱包地址: %s", address)
	}

	summary := &Summary{WalletAddress: address}

	txs, err := i.history.ListHistory(ctx, address, helius.HistoryOptions{
		MaxAgeHours: i.cfg.MaxAgeHours,
		MaxCount:    i.cfg.MaxCount,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "拉取钱包历史失败: %s", address)
	}
	summary.Found = len(txs)

	// 跟踪注册表查询失败按未跟踪处理，不阻塞批次
	trackedWallet, err := i.tracked.FindActive(address)
	if err != nil {
		logger.Warn("查询跟踪钱包注册表失败，按未跟踪处理",
			logger.String("address", address),
			logger.FieldErr(err))
		trackedWallet = nil
	}

	cache := newRunCache(i.metaSrc, i.priceSrc)
	collected := make([]*model.ProcessedTrade, 0, len(txs))

	for idx := range txs {
		tx := &txs[idx]
		summary.addSignature(tx.Signature)

		events := i.deriver.Derive(ctx, tx, address)
		if len(events) == 0 {
			summary.Unparsed++
			continue
		}

		failed := false
		for _, ev := range events {
			trade, perr := i.processEvent(ctx, cache, trackedWallet, tx, address, ev)
			if perr != nil {
				logger.Error("交易落库失败，丢弃该笔",
					logger.String("signature", tx.Signature),
					logger.FieldErr(perr))
				failed = true
				continue
			}
			if trade != nil {
				collected = append(collected, trade)
				summary.addTrade(trade)
			}
		}

		if failed {
			summary.Errored++
		} else {
			summary.Processed++
		}
	}

	// 批末统一触发跟单：at-most-once，失败只记录
	for _, trade := range collected {
		if trade.TrackedWalletID == nil {
			continue
		}
		if err := i.executor.Execute(trade); err != nil {
			logger.Error("跟单触发失败，不重试",
				logger.String("signature", trade.Signature),
				logger.String("token", trade.TokenAddress),
				logger.FieldErr(err))
			continue
		}
		summary.Triggered++
	}

	logger.Info("✅ 钱包批处理完成",
		logger.String("address", address),
		logger.Int("found", summary.Found),
		logger.Int("processed", summary.Processed),
		logger.Int("unparsed", summary.Unparsed),
		logger.Int("errored", summary.Errored),
		logger.Int("triggered", summary.Triggered))

	return summary, nil
}

// processEvent 处理单个 swap 事件：去重 → 账本增量 → 构建并落库交易行。
// 去重键 (signature, token) 命中时直接跳过，保证重复跑不会双重记账。
func (i *Ingestor) processEvent(
	ctx context.Context,
	cache *runCache,
	trackedWallet *model.TrackedWallet,
	tx *helius.Transaction,
	address string,
	ev swap.Event,
) (*model.ProcessedTrade, error) {
	tokenLeg := ev.TokenLeg()

	exists, err := i.trades.Exists(tx.Signature, tokenLeg.Mint)
	if err != nil {
		return nil, errors.Wrap(err, "查询交易去重键失败")
	}
	if exists {
		logger.Debug("交易已处理过，跳过",
			logger.String("signature", tx.Signature),
			logger.String("token", tokenLeg.Mint))
		return nil, nil
	}

	direction := ev.Direction()
	delta := tokenLeg.Amount
	if direction == swap.Sell {
		delta = delta.Neg()
	}

	balanceBefore, err := i.positions.ApplyDelta(address, tokenLeg.Mint, delta, tx.BlockTime())
	if err != nil {
		return nil, errors.Wrap(err, "更新持仓账本失败")
	}

	meta := cache.TokenMeta(ctx, tokenLeg.Mint)

	trade := &model.ProcessedTrade{
		Signature:       tx.Signature,
		WalletAddress:   address,
		TradeType:       direction.String(),
		TokenAddress:    tokenLeg.Mint,
		TokenSymbol:     meta.Symbol,
		TokenName:       meta.Name,
		TokenAmount:     tokenLeg.Amount,
		AmountSol:       ev.SolLeg().Amount,
		IsFirstPurchase: direction == swap.Buy && !balanceBefore.IsPositive(),
		AmountEstimated: ev.Estimated,
		BlockTime:       tx.BlockTime(),
	}

	if price, ok := cache.SolPrice(ctx); ok {
		usd := trade.AmountSol.Mul(price)
		trade.AmountUSD = &usd
	}

	if trackedWallet != nil {
		id := trackedWallet.ID
		trade.TrackedWalletID = &id
	}

	if err := i.trades.Create(trade); err != nil {
		return nil, errors.Wrap(err, "写入交易记录失败")
	}

	return trade, nil
}
