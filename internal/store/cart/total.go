package cart

import "go-storefront/internal/domain"

// PriceLookup 按 id 取目录中的当前价格
type PriceLookup func(id domain.ProductID) (float64, bool)

// Total 合计始终按当前目录价格计算，不用快照价格；目录里找不到的商品计 0
func Total(lines []Line, price PriceLookup) float64 {
	var sum float64
	for _, l := range lines {
		p, ok := price(l.ProductID)
		if !ok {
			continue
		}
		sum += float64(l.Quantity) * p
	}
	return sum
}

// Count 商品件数合计（角标用）
func Count(lines []Line) int {
	n := 0
	for _, l := range lines {
		n += l.Quantity
	}
	return n
}
