package helius

import (
	"context"
	"sort"
	"time"

	"github.com/ninja0404/wallet-mirror/pkg/logger"
)

// 单页最大记录数，Helius 固定上限
const pageLimit = 100

// HistoryOptions 历史回溯的边界条件
type HistoryOptions struct {
	// MaxAgeHours 只回溯最近 N 小时，0 表示不限
	MaxAgeHours int
	// MaxCount 最多返回 N 条，0 表示不限
	MaxCount int
}

// ListHistory 以 before 游标向更早方向翻页，返回按时间升序排好的交易列表。
// 页边界上游标重叠属于正常现象，按签名去重容忍。
func (c *Client) ListHistory(ctx context.Context, address string, opts HistoryOptions) ([]Transaction, error) {
	var cutoff time.Time
	if opts.MaxAgeHours > 0 {
		cutoff = time.Now().Add(-time.Duration(opts.MaxAgeHours) * time.Hour)
	}

	seen := make(map[string]struct{})
	result := make([]Transaction, 0, pageLimit)

	cursor := ""
	for {
		page, err := c.GetTransactionsPage(ctx, address, cursor, pageLimit)
		if err != nil {
			return nil, err
		}
		if len(page) == 0 {
			break
		}

		reachedWindowStart := false
		for _, tx := range page {
			if _, dup := seen[tx.Signature]; dup {
				continue
			}
			seen[tx.Signature] = struct{}{}

			if !cutoff.IsZero() && tx.BlockTime().Before(cutoff) {
				reachedWindowStart = true
				continue
			}

			result = append(result, tx)
			if opts.MaxCount > 0 && len(result) >= opts.MaxCount {
				goto done
			}
		}

		// 页内最老一条已早于窗口起点，没必要继续往前翻
		oldest := page[len(page)-1]
		if reachedWindowStart || (!cutoff.IsZero() && oldest.BlockTime().Before(cutoff)) {
			break
		}

		// 游标不前进说明接口出现异常，强制终止防止死循环
		next := oldest.Signature
		if next == cursor {
			logger.Warn("⚠️ 历史翻页游标未前进，提前终止",
				logger.String("address", address),
				logger.String("cursor", cursor))
			break
		}
		cursor = next
	}

done:
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Timestamp < result[j].Timestamp
	})

	logger.Info("📜 钱包历史拉取完成",
		logger.String("address", address),
		logger.Int("count", len(result)))

	return result, nil
}
