package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"go-storefront/internal/domain"
)

func product(id string, price float64) domain.Product {
	return domain.Product{ID: domain.ProductID(id), Name: "p" + id, Price: price}
}

func TestAddSameProductAccumulates(t *testing.T) {
	s := New(nil)
	s.AddItem(product("7", 1), 1)
	s.AddItem(product("7", 1), 2)

	l, ok := s.Line("7")
	require.True(t, ok)
	assert.Equal(t, 3, l.Quantity)
	assert.Equal(t, 1, s.Len())
}

func TestAddQuantitiesSum(t *testing.T) {
	s := New(nil)
	qs := []int{1, 4, 2, 10, 3}
	want := 0
	for _, q := range qs {
		s.AddItem(product("9", 2), q)
		want += q
	}
	l, _ := s.Line("9")
	assert.Equal(t, want, l.Quantity)
}

func TestAddDefaultsQuantityToOne(t *testing.T) {
	s := New(nil)
	s.AddItem(product("1", 1), 0)
	l, _ := s.Line("1")
	assert.Equal(t, 1, l.Quantity)
}

func TestAddSnapshotsProduct(t *testing.T) {
	s := New(nil)
	p := product("1", 5)
	p.Barcodes = []string{"A"}
	s.AddItem(p, 1)
	p.Barcodes[0] = "changed"
	p.Price = 99

	l, _ := s.Line("1")
	assert.Equal(t, 5.0, l.Product.Price)
	assert.Equal(t, "A", l.Product.Barcodes[0])
}

func TestAddWithoutIDIsLoggedNoop(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	s := New(zap.New(core))

	ok := s.AddItem(domain.Product{Name: "ghost"}, 1)

	assert.False(t, ok)
	assert.Equal(t, 0, s.Len())
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "cart action ignored", logs.All()[0].Message)
}

func TestRemoveThenAddHasNoResidue(t *testing.T) {
	s := New(nil)
	s.AddItem(product("3", 1), 5)
	require.True(t, s.RemoveItem("3"))
	s.AddItem(product("3", 1), 2)

	l, _ := s.Line("3")
	assert.Equal(t, 2, l.Quantity)
}

func TestRemoveMissingIsNoop(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	s := New(zap.New(core))
	s.AddItem(product("1", 1), 1)

	assert.False(t, s.RemoveItem("2"))
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, 1, logs.Len())
}

func TestUpdateQuantity(t *testing.T) {
	s := New(nil)
	s.AddItem(product("1", 1), 1)

	assert.True(t, s.UpdateQuantity("1", 6))
	l, _ := s.Line("1")
	assert.Equal(t, 6, l.Quantity)

	// 不做下限修正
	assert.True(t, s.UpdateQuantity("1", 0))
	l, _ = s.Line("1")
	assert.Equal(t, 0, l.Quantity)
}

func TestUpdateQuantityMissingOrAbsent(t *testing.T) {
	s := New(nil)
	s.AddItem(product("1", 1), 1)

	assert.False(t, s.UpdateQuantity("", 3))
	assert.False(t, s.UpdateQuantity("2", 3))
	l, _ := s.Line("1")
	assert.Equal(t, 1, l.Quantity)
	_, ok := s.Line("2")
	assert.False(t, ok)
}

func TestClear(t *testing.T) {
	for _, n := range []int{0, 1, 25} {
		s := New(nil)
		for i := 0; i < n; i++ {
			s.AddItem(domain.Product{ID: domain.ProductIDFromInt(int64(i))}, 1)
		}
		s.Clear()
		assert.Equal(t, 0, s.Len())
		assert.Empty(t, s.Snapshot())
	}
}

func TestRestoreSkipsInvalidLines(t *testing.T) {
	s := New(nil)
	s.AddItem(product("old", 1), 1)
	s.Restore([]Line{
		{ProductID: "1", Quantity: 2, Product: product("1", 1)},
		{ProductID: "", Quantity: 1},
		{ProductID: "2", Quantity: 0},
	})

	lines := s.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, domain.ProductID("1"), lines[0].ProductID)
	assert.Equal(t, 2, lines[0].Quantity)
}

func TestLinesSorted(t *testing.T) {
	s := New(nil)
	s.AddItem(product("b", 1), 1)
	s.AddItem(product("a", 1), 1)
	s.AddItem(product("c", 1), 1)

	lines := s.Lines()
	assert.Equal(t, domain.ProductID("a"), lines[0].ProductID)
	assert.Equal(t, domain.ProductID("c"), lines[2].ProductID)
}

func TestReduceDoesNotMutateInput(t *testing.T) {
	before := State{"1": {ProductID: "1", Quantity: 1}}
	after, err := Reduce(before, Action{Kind: KindAdd, Product: product("1", 1), Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, 1, before["1"].Quantity)
	assert.Equal(t, 3, after["1"].Quantity)
}
