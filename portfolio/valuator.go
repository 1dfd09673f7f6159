package portfolio

import "paper-trader-go/market"

// PriceSource 估值所需的只读价格来源。
type PriceSource interface {
	Get(symbol string) (market.FeedTick, bool)
}

// Valuate 把权威持仓快照与实时价格合成组合估值。纯函数，不修改输入，
// 无副作用、无网络调用。
//
// 计价货币持仓（如 USDT）直接沿用权威值；其余持仓按 数量×实时价 计算，
// 实时价缺失时回退到权威值——流中断只能让显示变"旧"，不能把市值清零。
func Valuate(quote string, holdings []Holding, prices PriceSource) Value {
	out := Value{
		Assets: make([]AssetValue, 0, len(holdings)),
	}
	for _, h := range holdings {
		av := AssetValue{
			Symbol:    h.Symbol,
			Quantity:  h.Quantity,
			LiveValue: h.AuthoritativeValue,
		}
		if h.Symbol != quote {
			if tick, ok := prices.Get(h.Symbol + quote); ok && tick.Price > 0 {
				av.LiveValue = h.Quantity * tick.Price
				av.Live = true
			}
		}
		out.Total += av.LiveValue
		out.Assets = append(out.Assets, av)
	}
	return out
}
