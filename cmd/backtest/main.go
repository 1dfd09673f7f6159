package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"sort"
	"strconv"
	"time"

	"paper-trader-go/backtest"
	"paper-trader-go/config"
	"paper-trader-go/gateway"
)

// 回测报告脚本：向后端提交回测请求，在本地从权益曲线派生
// 夏普、最大回撤、胜率与重建成交，并与后端自带指标并排输出。
// 用法：
//
//	go run ./cmd/backtest -config configs/config.yaml -ticker BTC-USD -start 2023-01-01 -end 2023-12-31 -out trades.csv
func main() {
	cfgPath := flag.String("config", "configs/config.yaml", "配置文件路径")
	ticker := flag.String("ticker", "BTC-USD", "回测标的")
	start := flag.String("start", "", "开始日期 YYYY-MM-DD")
	end := flag.String("end", "", "结束日期 YYYY-MM-DD")
	outPath := flag.String("out", "", "若指定则把重建成交写入 CSV")
	flag.Parse()

	cfg, err := config.LoadWithEnvOverrides(*cfgPath)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}
	if *start == "" || *end == "" {
		log.Fatal("必须指定 -start 与 -end")
	}

	client := &gateway.Client{
		BaseURL:    cfg.Backend.BaseURL,
		Token:      cfg.Backend.Token,
		HTTPClient: gateway.NewDefaultHTTPClient(),
		Limiter:    gateway.NewTokenBucketLimiter(cfg.Backend.RestRate, cfg.Backend.RestBurst),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	resp, err := client.Backtest(ctx, gateway.BacktestRequest{
		Ticker:    *ticker,
		StartDate: *start,
		EndDate:   *end,
	})
	if err != nil {
		log.Fatalf("回测请求失败: %v", err)
	}
	if len(resp.ChartData) == 0 {
		log.Fatal("后端未返回权益曲线")
	}

	th := backtest.Thresholds{
		Entry:          cfg.Backtest.EntryThreshold,
		Exit:           cfg.Backtest.ExitThreshold,
		HighRiskRegime: cfg.Backtest.HighRiskRegime,
	}
	result := backtest.Run(backtest.FromChartData(resp.ChartData), th)

	printReport(*ticker, *start, *end, resp, result)

	if *outPath != "" {
		if err := writeTradesCSV(*outPath, result.Trades); err != nil {
			log.Fatalf("写入 %s 失败: %v", *outPath, err)
		}
		fmt.Printf("重建成交已写入 %s（%d 条）\n", *outPath, len(result.Trades))
	}
}

func printReport(ticker, start, end string, resp gateway.BacktestResponse, result backtest.Result) {
	fmt.Printf("回测报告 %s  %s → %s\n", ticker, start, end)
	fmt.Printf("曲线采样点: %d  后端成交: %d  重建成交: %d\n\n",
		len(resp.ChartData), len(resp.Trades), len(result.Trades))

	if !result.Metrics.Computable {
		fmt.Println("曲线过短，派生指标不可计算")
		return
	}

	m := result.Metrics
	fmt.Println("本地派生指标:")
	if math.IsNaN(m.SharpeRatio) {
		fmt.Println("  sharpe_ratio:     n/a（收益无波动）")
	} else {
		fmt.Printf("  sharpe_ratio:     %.4f\n", m.SharpeRatio)
	}
	fmt.Printf("  max_drawdown_pct: %.2f%%\n", m.MaxDrawdown*100)
	fmt.Printf("  win_rate_pct:     %.2f%%\n", m.WinRatePct)
	fmt.Printf("  trade_count:      %d\n", m.TradeCount)

	if len(resp.Metrics) > 0 {
		fmt.Println("\n后端自带指标:")
		keys := make([]string, 0, len(resp.Metrics))
		for k := range resp.Metrics {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Printf("  %s: %s\n", k, resp.Metrics[k])
		}
	}
}

func writeTradesCSV(path string, trades []backtest.DerivedTrade) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"date", "action", "reference_price", "reference_value", "profit", "profit_pct", "regime"}); err != nil {
		return err
	}
	for _, t := range trades {
		profit, profitPct := "", ""
		if t.RealizedProfit != nil {
			profit = strconv.FormatFloat(*t.RealizedProfit, 'f', 6, 64)
		}
		if t.RealizedProfitPct != nil {
			profitPct = strconv.FormatFloat(*t.RealizedProfitPct, 'f', 4, 64)
		}
		record := []string{
			t.EntryDate,
			t.Action,
			strconv.FormatFloat(t.ReferencePrice, 'f', 6, 64),
			strconv.FormatFloat(t.ReferenceValue, 'f', 6, 64),
			profit,
			profitPct,
			strconv.Itoa(t.Regime),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	return w.Error()
}
