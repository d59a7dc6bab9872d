package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParse(t *testing.T) {
	j := &JWTer{Secret: []byte("k"), Issuer: "storefront", TTL: time.Hour}
	tok, err := j.Issue("sid-1", RoleCustomer)
	require.NoError(t, err)

	c, err := j.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "sid-1", c.SID)
	assert.Equal(t, RoleCustomer, c.Role)
	assert.Equal(t, "sid-1", c.Subject)
}

func TestParseRejectsWrongSecretOrIssuer(t *testing.T) {
	j := &JWTer{Secret: []byte("k"), Issuer: "storefront", TTL: time.Hour}
	tok, err := j.Issue("sid-1", RoleAdmin)
	require.NoError(t, err)

	_, err = (&JWTer{Secret: []byte("other"), Issuer: "storefront"}).Parse(tok)
	assert.Error(t, err)
	_, err = (&JWTer{Secret: []byte("k"), Issuer: "someone-else"}).Parse(tok)
	assert.Error(t, err)
}

func TestParseRejectsExpired(t *testing.T) {
	j := &JWTer{Secret: []byte("k"), Issuer: "storefront", TTL: -2 * time.Minute}
	tok, err := j.Issue("sid-1", RoleCustomer)
	require.NoError(t, err)
	_, err = j.Parse(tok)
	assert.Error(t, err)
}

func TestIssueRequiresSecret(t *testing.T) {
	_, err := (&JWTer{}).Issue("sid", RoleCustomer)
	assert.Error(t, err)
}
