package helius

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"github.com/ninja0404/wallet-mirror/pkg/logger"
)

const (
	// DefaultBaseURL Helius 增强交易接口地址
	DefaultBaseURL = "https://api.helius.xyz"

	// 重试策略：429/5xx 指数退避，预算耗尽即为致命错误
	maxAttempts   = 5
	baseBackoff   = 250 * time.Millisecond
	maxBackoff    = 2500 * time.Millisecond
	maxJitter     = 200 * time.Millisecond
	clientTimeout = 30 * time.Second
)

// Config 客户端配置
type Config struct {
	APIKey  string `yaml:"api_key" json:"api_key"`
	BaseURL string `yaml:"base_url" json:"base_url"`
}

// Client Helius API 客户端，每次调用独立管理自己的重试预算
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient 创建 Helius 客户端
func NewClient(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: baseURL,
		http:    &http.Client{Timeout: clientTimeout},
	}
}

// fetchJSON 发起一次 HTTP 请求并解析 JSON 响应。
// 429 与 5xx 在预算内重试，其余非 2xx 立即失败并带上响应体。
func (c *Client) fetchJSON(ctx context.Context, method, url string, body interface{}, out interface{}) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "编码请求体失败")
		}
	}

	backoff := baseBackoff
	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			delay := backoff + time.Duration(rand.Int63n(int64(maxJitter)))
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
			backoff *= 2
			if backoff > maxBackoff {
				backoff = maxBackoff
			}
		}

		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, url, reader)
		if err != nil {
			return errors.Wrap(err, "创建请求失败")
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			// 网络层错误按瞬时错误处理
			lastErr = err
			logger.Warn("⚠️ Helius 请求网络错误，准备重试",
				logger.String("url", url),
				logger.Int("attempt", attempt),
				logger.FieldErr(err))
			continue
		}

		respBody, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			lastErr = readErr
			continue
		}

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			if out == nil {
				return nil
			}
			if err := json.Unmarshal(respBody, out); err != nil {
				return errors.Wrapf(err, "解析响应失败: %s", url)
			}
			return nil

		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			lastErr = fmt.Errorf("status %d: %s", resp.StatusCode, string(respBody))
			logger.Warn("⚠️ Helius 限流或服务端错误，准备重试",
				logger.String("url", url),
				logger.Int("status", resp.StatusCode),
				logger.Int("attempt", attempt))
			continue

		default:
			// 4xx（非429）为永久错误，立即失败
			return errors.Errorf("请求 %s 失败: status %d: %s", url, resp.StatusCode, string(respBody))
		}
	}

	return errors.Wrapf(lastErr, "请求 %s 重试 %d 次后仍然失败", url, maxAttempts)
}

// GetTransactionsPage 拉取一页地址交易历史（最多 limit 条，按时间倒序）
func (c *Client) GetTransactionsPage(ctx context.Context, address string, before string, limit int) ([]Transaction, error) {
	url := fmt.Sprintf("%s/v0/addresses/%s/transactions?api-key=%s&limit=%d", c.baseURL, address, c.apiKey, limit)
	if before != "" {
		url += "&before=" + before
	}

	var page []Transaction
	if err := c.fetchJSON(ctx, http.MethodGet, url, nil, &page); err != nil {
		return nil, err
	}
	return page, nil
}

// HydrateTransactions 按签名批量拉取更完整的交易表示（tier-3 兜底用）
func (c *Client) HydrateTransactions(ctx context.Context, signatures []string) ([]Transaction, error) {
	if len(signatures) == 0 {
		return nil, nil
	}

	url := fmt.Sprintf("%s/v0/transactions?api-key=%s", c.baseURL, c.apiKey)
	body := map[string]interface{}{
		"transactions": signatures,
	}

	var txs []Transaction
	if err := c.fetchJSON(ctx, http.MethodPost, url, body, &txs); err != nil {
		return nil, err
	}
	return txs, nil
}

// GetTokenMetadata 批量查询代币元数据，失败由调用方降级处理
func (c *Client) GetTokenMetadata(ctx context.Context, mints []string) ([]TokenMetadata, error) {
	if len(mints) == 0 {
		return nil, nil
	}

	url := fmt.Sprintf("%s/v0/token-metadata?api-key=%s", c.baseURL, c.apiKey)
	body := map[string]interface{}{
		"mintAccounts": mints,
	}

	var metas []TokenMetadata
	if err := c.fetchJSON(ctx, http.MethodPost, url, body, &metas); err != nil {
		return nil, err
	}
	return metas, nil
}
