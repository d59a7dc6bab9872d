package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"go-storefront/internal/domain"
	"go-storefront/internal/store/lifecycle"
)

func TestReducePendingClearsError(t *testing.T) {
	msg := "old"
	s := Initial()
	s.Status = lifecycle.Failed
	s.Error = &msg

	s = Reduce(s, Action{Kind: KindFetch, Phase: lifecycle.Pending})

	assert.True(t, s.Loading)
	assert.Nil(t, s.Error)
	assert.Equal(t, lifecycle.Loading, s.Status)
}

func TestReduceIgnoresInvalidTransition(t *testing.T) {
	s := Initial()
	out := Reduce(s, Action{Kind: KindFetch, Phase: lifecycle.Fulfilled, Products: []domain.Product{{ID: "1", Name: "x"}}})
	assert.Equal(t, lifecycle.Idle, out.Status)
	assert.Empty(t, out.Products)
}

func TestReduceRejectedDefaultsMessage(t *testing.T) {
	s := Reduce(Initial(), Action{Kind: KindFetch, Phase: lifecycle.Pending})
	s = Reduce(s, Action{Kind: KindFetch, Phase: lifecycle.Rejected})
	if assert.NotNil(t, s.Error) {
		assert.Equal(t, DefaultFetchError, *s.Error)
	}
}

func TestReduceFulfilledNilCategoriesBecomesEmpty(t *testing.T) {
	s := Reduce(Initial(), Action{Kind: KindFetch, Phase: lifecycle.Pending})
	s = Reduce(s, Action{Kind: KindFetch, Phase: lifecycle.Fulfilled})
	assert.NotNil(t, s.Categories)
	assert.Empty(t, s.Categories)
}

func TestReduceResetInvalidatesInFlightFetch(t *testing.T) {
	s := Reduce(Initial(), Action{Kind: KindFetch, Phase: lifecycle.Pending})
	inflight := s.seq

	s = Reduce(s, Action{Kind: KindReset})
	assert.Greater(t, s.seq, inflight)

	s = Reduce(s, Action{Kind: KindFetch, Phase: lifecycle.Pending})
	out := Reduce(s, Action{Kind: KindFetch, Phase: lifecycle.Fulfilled, Products: []domain.Product{{ID: "1", Name: "x"}}, Seq: inflight})
	assert.Empty(t, out.Products)
	assert.Equal(t, lifecycle.Loading, out.Status)
}
