package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductIDAcceptsStringOrNumber(t *testing.T) {
	var p struct {
		A ProductID `json:"a"`
		B ProductID `json:"b"`
		C ProductID `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":"7","b":42,"c":null}`), &p))
	assert.Equal(t, ProductID("7"), p.A)
	assert.Equal(t, ProductID("42"), p.B)
	assert.Equal(t, ProductID(""), p.C)
}

func TestProductIDRejectsObject(t *testing.T) {
	var id ProductID
	assert.Error(t, json.Unmarshal([]byte(`{"x":1}`), &id))
}

func TestProductCloneDoesNotShareSlices(t *testing.T) {
	p := Product{ID: "1", Barcodes: []string{"A"}, Images: []string{"a.png"}}
	c := p.Clone()
	c.Barcodes[0] = "Z"
	c.Images[0] = "z.png"
	assert.Equal(t, "A", p.Barcodes[0])
	assert.Equal(t, "a.png", p.Images[0])
}

func TestProductIDFromInt(t *testing.T) {
	assert.Equal(t, ProductID("7"), ProductIDFromInt(7))
}
