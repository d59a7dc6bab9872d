package session

import (
	"context"
	"sort"
	"sync"
)

// Repository 会话持久化端口；Load 未找到返回 nil, nil。
// 删除后的会话不能再被 Save 写回，Save 返回 ErrNotFound。
type Repository interface {
	Save(ctx context.Context, r Record) error
	Load(ctx context.Context, id string) (*Record, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, offset, limit int) ([]Record, int64, error)
}

type MemoryRepo struct {
	mu      sync.RWMutex
	recs    map[string]Record
	deleted map[string]struct{}
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{recs: map[string]Record{}, deleted: map[string]struct{}{}}
}

func (m *MemoryRepo) Save(_ context.Context, r Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, gone := m.deleted[r.ID]; gone {
		return ErrNotFound
	}
	m.recs[r.ID] = r
	return nil
}

func (m *MemoryRepo) Load(_ context.Context, id string) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.recs[id]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (m *MemoryRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.recs, id)
	m.deleted[id] = struct{}{}
	return nil
}

func (m *MemoryRepo) List(_ context.Context, offset, limit int) ([]Record, int64, error) {
	m.mu.RLock()
	all := make([]Record, 0, len(m.recs))
	for _, r := range m.recs {
		all = append(all, r)
	}
	m.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool { return all[i].UpdatedAt.After(all[j].UpdatedAt) })
	total := int64(len(all))
	if offset >= len(all) {
		return []Record{}, total, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}
