package pricing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// Source SOL 现价来源。拿不到价格不是致命错误，调用方留空 USD 金额即可。
type Source interface {
	// CurrentPrice 当前 SOL 的法币价格
	CurrentPrice(ctx context.Context) (decimal.Decimal, error)
}

// Config 报价服务配置
type Config struct {
	URL string `yaml:"url" json:"url"`
}

type httpSource struct {
	url  string
	http *http.Client
}

// NewHTTPSource 创建基于 HTTP 报价接口的价格源
func NewHTTPSource(cfg Config) Source {
	return &httpSource{
		url:  cfg.URL,
		http: &http.Client{Timeout: 10 * time.Second},
	}
}

type priceResponse struct {
	Price decimal.Decimal `json:"price"`
}

func (s *httpSource) CurrentPrice(ctx context.Context) (decimal.Decimal, error) {
	if s.url == "" {
		return decimal.Zero, errors.New("报价服务未配置")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return decimal.Zero, err
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return decimal.Zero, errors.Wrap(err, "请求报价服务失败")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return decimal.Zero, fmt.Errorf("报价服务返回 %d: %s", resp.StatusCode, string(body))
	}

	var pr priceResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return decimal.Zero, errors.Wrap(err, "解析报价响应失败")
	}
	if !pr.Price.IsPositive() {
		return decimal.Zero, errors.New("报价服务返回非正价格")
	}
	return pr.Price, nil
}
