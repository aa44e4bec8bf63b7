package notifier

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/ninja0404/wallet-mirror/internal/ingest"
	"github.com/ninja0404/wallet-mirror/pkg/logger"
	"github.com/ninja0404/wallet-mirror/pkg/utils"
)

// larkTextMessageContent 飞书文本消息内容结构
type larkTextMessageContent struct {
	Text string `json:"text"`
}

// larkMessage 飞书机器人消息结构
type larkMessage struct {
	MsgType string                 `json:"msg_type"`
	Content larkTextMessageContent `json:"content"`
}

// larkResponse 飞书机器人响应结构 (用于检查错误)
type larkResponse struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

// BuildRunSummaryText 把一次钱包批处理结果格式化为推送文本
func BuildRunSummaryText(summary *ingest.Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📬 钱包回溯完成: %s\n", utils.GetDisplayWalletAddress(summary.WalletAddress))
	fmt.Fprintf(&b, "发现 %d 笔 | 处理 %d 笔 | 未解析 %d 笔 | 出错 %d 笔 | 触发跟单 %d 笔\n",
		summary.Found, summary.Processed, summary.Unparsed, summary.Errored, summary.Triggered)

	for _, trade := range summary.Trades {
		flag := ""
		if trade.IsFirstPurchase {
			flag = " [首次建仓]"
		}
		if trade.AmountEstimated {
			flag += " [估算]"
		}

		usd := ""
		if trade.AmountUSD != nil {
			usd = " / " + utils.FormatPrice(trade.AmountUSD.String())
		}

		fmt.Fprintf(&b, "· %s %s %s SOL%s%s\n",
			trade.TradeType,
			utils.GetDisplayWalletAddress(trade.TokenAddress),
			trade.AmountSol.String(),
			usd,
			flag)
	}
	return b.String()
}

// SendToLark 发送格式化后的文本消息到指定的飞书 Webhook URL
func SendToLark(messageText string, webhookURL string) error {
	if webhookURL == "" {
		return fmt.Errorf("飞书 Webhook URL 为空")
	}
	if messageText == "" {
		logger.Warn("尝试发送空消息到飞书，已跳过")
		return nil
	}

	msg := larkMessage{
		MsgType: "text",
		Content: larkTextMessageContent{
			Text: messageText,
		},
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("序列化飞书消息失败: %w", err)
	}

	req, err := http.NewRequest("POST", webhookURL, bytes.NewBuffer(payload))
	if err != nil {
		return fmt.Errorf("创建飞书请求失败: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("发送飞书消息失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var larkResp larkResponse
		if err := json.NewDecoder(resp.Body).Decode(&larkResp); err == nil {
			return fmt.Errorf("发送飞书消息返回错误状态码 %d, Code: %d, Msg: %s", resp.StatusCode, larkResp.Code, larkResp.Msg)
		}
		return fmt.Errorf("发送飞书消息返回错误状态码 %d, 无法解析响应体", resp.StatusCode)
	}

	var larkResp larkResponse
	if err := json.NewDecoder(resp.Body).Decode(&larkResp); err == nil && larkResp.Code != 0 {
		logger.Warn("飞书API返回错误",
			logger.Int("code", larkResp.Code),
			logger.String("msg", larkResp.Msg))
	}

	return nil
}
