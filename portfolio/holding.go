package portfolio

// Holding 后端确认过的单资产余额；Quantity 与 AuthoritativeValue 只在
// 轮询完成时整体替换，本地从不派生修改。
type Holding struct {
	Symbol             string
	Quantity           float64
	AuthoritativeValue float64
}

// AssetValue 单资产的实时市值；Live 标记是否用上了流内价格。
type AssetValue struct {
	Symbol    string
	Quantity  float64
	LiveValue float64
	Live      bool
}

// Value 派生出的组合估值，不落任何存储。
type Value struct {
	Total  float64
	Assets []AssetValue
}
