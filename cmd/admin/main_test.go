package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-storefront/internal/core/auth"
	"go-storefront/internal/core/config"
)

func TestIssueAdminToken(t *testing.T) {
	cfg := &config.Config{JWT: config.JWT{Secret: "s", Issuer: "storefront"}}
	tok, err := issueAdminToken(cfg, "ops", time.Minute)
	require.NoError(t, err)

	c, err := (&auth.JWTer{Secret: []byte("s"), Issuer: "storefront"}).Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, auth.RoleAdmin, c.Role)
	assert.Equal(t, "ops", c.SID)
}
