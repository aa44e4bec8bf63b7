package ingest

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/ninja0404/wallet-mirror/internal/helius"
	"github.com/ninja0404/wallet-mirror/internal/pricing"
	"github.com/ninja0404/wallet-mirror/pkg/logger"
)

// MetadataSource 代币元数据来源
type MetadataSource interface {
	GetTokenMetadata(ctx context.Context, mints []string) ([]helius.TokenMetadata, error)
}

// TokenMeta 代币展示元数据，查不到时各字段为空
type TokenMeta struct {
	Name   string
	Symbol string
}

// runCache 单次批处理内的懒加载缓存。显式随调用链传递，
// 不同钱包的并发批次各自持有一份，互不串数据。
type runCache struct {
	metaSrc  MetadataSource
	priceSrc pricing.Source

	meta map[string]TokenMeta

	solPrice     decimal.Decimal
	priceOK      bool
	priceFetched bool
}

func newRunCache(metaSrc MetadataSource, priceSrc pricing.Source) *runCache {
	return &runCache{
		metaSrc:  metaSrc,
		priceSrc: priceSrc,
		meta:     make(map[string]TokenMeta),
	}
}

// TokenMeta 查询代币元数据，失败降级为空对象并缓存，避免反复打接口
func (c *runCache) TokenMeta(ctx context.Context, mint string) TokenMeta {
	if meta, ok := c.meta[mint]; ok {
		return meta
	}

	meta := TokenMeta{}
	if c.metaSrc != nil {
		results, err := c.metaSrc.GetTokenMetadata(ctx, []string{mint})
		if err != nil {
			logger.Warn("查询代币元数据失败，降级为空",
				logger.String("mint", mint),
				logger.FieldErr(err))
		} else if len(results) > 0 {
			meta.Name = results[0].Name()
			meta.Symbol = results[0].Symbol()
		}
	}

	c.meta[mint] = meta
	return meta
}

// SolPrice 查询 SOL 法币价格，单次批处理只尝试一次；
// 拿不到返回 (zero, false)，调用方留空 USD 金额
func (c *runCache) SolPrice(ctx context.Context) (decimal.Decimal, bool) {
	if c.priceFetched {
		return c.solPrice, c.priceOK
	}
	c.priceFetched = true

	if c.priceSrc == nil {
		return decimal.Zero, false
	}

	price, err := c.priceSrc.CurrentPrice(ctx)
	if err != nil {
		logger.Warn("获取 SOL 价格失败，USD 金额将留空", logger.FieldErr(err))
		return decimal.Zero, false
	}

	c.solPrice = price
	c.priceOK = true
	return price, true
}
