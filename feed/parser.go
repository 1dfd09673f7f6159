package feed

import (
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"paper-trader-go/market"
)

// ErrNotTick 消息缺少符号或现价字段，不构成一个有效报价。
var ErrNotTick = errors.New("feed: not a ticker message")

// CombinedMessage 对应 combined stream 包装。
type CombinedMessage struct {
	Stream string          `json:"stream"`
	Data   json.RawMessage `json:"data"`
}

// tickerPayload 提取 24h ticker 消息的核心字段，数值以字符串下发。
type tickerPayload struct {
	Symbol    string `json:"s"`
	LastPrice string `json:"c"`
	ChangeAbs string `json:"p"`
	ChangePct string `json:"P"`
	High      string `json:"h"`
	Low       string `json:"l"`
	Volume    string `json:"v"`
}

// ParseTick 解析一条流消息为 FeedTick。兼容 combined 包装与裸消息；
// 符号与现价字段缺失返回 ErrNotTick，其余数值字段解析失败按 0 处理（非致命）。
func ParseTick(raw []byte, now time.Time) (market.FeedTick, error) {
	payload := raw
	var combined CombinedMessage
	if err := json.Unmarshal(raw, &combined); err == nil && len(combined.Data) > 0 {
		payload = combined.Data
	}

	var msg tickerPayload
	if err := json.Unmarshal(payload, &msg); err != nil {
		return market.FeedTick{}, err
	}
	if msg.Symbol == "" || msg.LastPrice == "" {
		return market.FeedTick{}, ErrNotTick
	}

	return market.FeedTick{
		Symbol:     msg.Symbol,
		Price:      parseFloat(msg.LastPrice),
		ChangeAbs:  parseFloat(msg.ChangeAbs),
		ChangePct:  parseFloat(msg.ChangePct),
		High24h:    parseFloat(msg.High),
		Low24h:     parseFloat(msg.Low),
		Volume24h:  parseFloat(msg.Volume),
		ObservedAt: now,
	}, nil
}

func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
