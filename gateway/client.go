package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// Client 鉴权后端的简化客户端；HTTPClient 可注入 httptest。
// 所有调用携带 Bearer 凭证，错误按"未认证/瞬时/请求错误"三类划分，
// 在此边界处理完毕，不会流入估值与派生逻辑。
type Client struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
	Limiter    RateLimiter
}

type apiError struct {
	Detail string `json:"detail"`
}

// Portfolio 拉取持仓快照（余额 + 轮询时点估值 + 总值）。
func (c *Client) Portfolio(ctx context.Context) (PortfolioSnapshot, error) {
	var snap PortfolioSnapshot
	err := c.get(ctx, "/api/simulated/portfolio", &snap)
	return snap, err
}

// Trades 拉取最近已结算成交，limit<=0 时由后端取默认值。
func (c *Client) Trades(ctx context.Context, limit int) ([]TradeRecord, error) {
	path := "/api/simulated/trades"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	var out struct {
		Trades []TradeRecord `json:"trades"`
	}
	if err := c.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return out.Trades, nil
}

// Sessions 拉取全部自动交易会话。
func (c *Client) Sessions(ctx context.Context) ([]SessionRecord, error) {
	var out struct {
		Sessions []SessionRecord `json:"sessions"`
	}
	if err := c.get(ctx, "/api/simulated/sessions", &out); err != nil {
		return nil, err
	}
	return out.Sessions, nil
}

// Backtest 请求一次回测，返回采样权益曲线与状态标签序列。
func (c *Client) Backtest(ctx context.Context, req BacktestRequest) (BacktestResponse, error) {
	var resp BacktestResponse
	err := c.post(ctx, "/api/backtest", req, &resp)
	return resp, err
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	if c.HTTPClient == nil {
		return fmt.Errorf("http client not set")
	}
	if c.Limiter != nil {
		c.Limiter.Wait()
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return &TransientError{Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrUnauthenticated
	case resp.StatusCode >= 500:
		return &TransientError{Err: fmt.Errorf("status %d", resp.StatusCode)}
	case resp.StatusCode >= 400:
		var ae apiError
		_ = json.NewDecoder(resp.Body).Decode(&ae)
		if ae.Detail == "" {
			ae.Detail = http.StatusText(resp.StatusCode)
		}
		return &BadRequestError{Status: resp.StatusCode, Message: ae.Detail}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// NewDefaultHTTPClient 提供一个带超时的 http.Client。
func NewDefaultHTTPClient() *http.Client {
	return &http.Client{Timeout: 10 * time.Second}
}
