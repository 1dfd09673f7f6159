package market

import "time"

// FeedTick represents a normalized 24h ticker observation for one instrument.
type FeedTick struct {
	Symbol     string
	Price      float64
	ChangeAbs  float64
	ChangePct  float64
	High24h    float64
	Low24h     float64
	Volume24h  float64
	ObservedAt time.Time

	// PrevPrice 上一笔同符号报价，仅用于涨跌方向指示，0 表示尚无前值。
	PrevPrice float64
}

// Direction 返回相对前值的方向：+1 上涨，-1 下跌，0 无变化或无前值。
func (t FeedTick) Direction() int {
	switch {
	case t.PrevPrice == 0 || t.Price == t.PrevPrice:
		return 0
	case t.Price > t.PrevPrice:
		return 1
	default:
		return -1
	}
}
