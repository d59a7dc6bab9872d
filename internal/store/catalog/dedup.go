package catalog

import "go-storefront/internal/domain"

// Dedup 以商品名为键去重：先出现的记录保留其它字段，条码合并进同一条
func Dedup(in []domain.Product) []domain.Product {
	out := make([]domain.Product, 0, len(in))
	byName := make(map[string]int, len(in))
	for _, p := range in {
		if i, ok := byName[p.Name]; ok {
			out[i].Barcodes = mergeBarcodes(out[i].Barcodes, p.Barcodes)
			continue
		}
		c := p.Clone()
		c.Barcodes = mergeBarcodes(nil, p.Barcodes)
		byName[p.Name] = len(out)
		out = append(out, c)
	}
	return out
}

func mergeBarcodes(dst, src []string) []string {
	seen := make(map[string]struct{}, len(dst)+len(src))
	for _, b := range dst {
		seen[b] = struct{}{}
	}
	for _, b := range src {
		if b == "" {
			continue
		}
		if _, ok := seen[b]; ok {
			continue
		}
		seen[b] = struct{}{}
		dst = append(dst, b)
	}
	return dst
}
