package catalog

import (
	"go-storefront/internal/domain"
	"go-storefront/internal/store/lifecycle"
)

type Kind string

const (
	KindFetch Kind = "catalog/fetchProducts"
	KindReset Kind = "catalog/reset"
)

type Action struct {
	Kind       Kind
	Phase      lifecycle.Phase
	Products   []domain.Product
	Categories []domain.Category
	Err        string
	Seq        uint64 // 结果所属的拉取请求，0 表示不区分
}

// Reduce 纯函数；非法的生命周期迁移直接忽略
func Reduce(s State, a Action) State {
	switch a.Kind {
	case KindReset:
		// 序号继续递增，在途请求的结果因此作废
		seq := s.seq + 1
		s = Initial()
		s.seq = seq
		return s
	case KindFetch:
		if a.Phase != lifecycle.Pending && !lifecycle.Current(s.seq, a.Seq) {
			return s
		}
		next, err := s.Status.Next(a.Phase)
		if err != nil {
			return s
		}
		s.Status = next
		switch a.Phase {
		case lifecycle.Pending:
			s.seq++
			s.Loading = true
			s.Error = nil
		case lifecycle.Fulfilled:
			s.Loading = false
			s.Error = nil
			s.Products = Dedup(a.Products)
			if a.Categories == nil {
				s.Categories = []domain.Category{}
			} else {
				s.Categories = a.Categories
			}
		case lifecycle.Rejected:
			msg := a.Err
			if msg == "" {
				msg = DefaultFetchError
			}
			s.Loading = false
			s.Error = &msg
		}
	}
	return s
}
