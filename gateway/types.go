package gateway

// HoldingBalance 后端确认过的单资产余额与轮询时点估值。
type HoldingBalance struct {
	Symbol  string  `json:"symbol"`
	Balance float64 `json:"balance"`
	Value   float64 `json:"value"`
}

// PortfolioSnapshot 持仓端点的完整返回。
type PortfolioSnapshot struct {
	Holdings   []HoldingBalance `json:"holdings"`
	TotalValue float64          `json:"total_value"`
}

// TradeRecord 已结算成交记录；PnL 字段仅卖出方向存在。
type TradeRecord struct {
	Symbol     string   `json:"symbol"`
	Side       string   `json:"side"`
	Price      float64  `json:"price"`
	Quantity   float64  `json:"quantity"`
	Total      float64  `json:"total"`
	Time       string   `json:"time"`
	PnL        *float64 `json:"pnl,omitempty"`
	PnLPercent *float64 `json:"pnl_percent,omitempty"`
}

// SessionRecord 一个自动交易会话的当前状态。
type SessionRecord struct {
	SessionID        string  `json:"session_id"`
	Strategy         string  `json:"strategy"`
	Symbol           string  `json:"symbol"`
	TradeAmount      float64 `json:"trade_amount"`
	IsRunning        bool    `json:"is_running"`
	TradesCount      int     `json:"trades_count"`
	PnL              float64 `json:"pnl"`
	ElapsedMinutes   float64 `json:"elapsed_minutes"`
	RemainingMinutes float64 `json:"remaining_minutes"`
}

// BacktestRequest 回测请求参数。
type BacktestRequest struct {
	Ticker    string `json:"ticker"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// ChartPoint 回测返回的权益曲线采样点（归一化到 1.0 起点）。
type ChartPoint struct {
	Date     string  `json:"date"`
	Strategy float64 `json:"strategy"`
	BuyHold  float64 `json:"buy_hold"`
	Regime   int     `json:"regime"`
}

// BacktestTrade 后端回测自带的成交日志条目。
type BacktestTrade struct {
	EntryDate       string  `json:"entry_date"`
	ExitDate        string  `json:"exit_date"`
	EntryPrice      float64 `json:"entry_price"`
	ExitPrice       float64 `json:"exit_price"`
	DurationDays    int     `json:"duration_days"`
	TradePnL        float64 `json:"trade_pnl"`
	TradePnLPercent float64 `json:"trade_pnl_percent"`
	Regime          int     `json:"regime"`
}

// BacktestResponse 回测端点的完整返回；Metrics 为后端格式化后的字符串，
// 本地派生统计见 backtest 包。
type BacktestResponse struct {
	Metrics   map[string]string `json:"metrics"`
	ChartData []ChartPoint      `json:"chart_data"`
	Trades    []BacktestTrade   `json:"trades"`
}
