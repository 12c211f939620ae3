package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignVerifyRoundTrip(t *testing.T) {
	c := NewCodec("test-secret", 8*time.Hour, nil)

	tok, exp, err := c.Sign("user-123")
	require.NoError(t, err)
	require.NotEmpty(t, tok)
	assert.WithinDuration(t, time.Now().Add(8*time.Hour), exp, 5*time.Second)

	claims := c.Verify(tok)
	require.NotNil(t, claims)
	assert.Equal(t, "user-123", claims.UserID)

	parsed, err := time.Parse(time.RFC3339, claims.Expires)
	require.NoError(t, err)
	assert.WithinDuration(t, exp, parsed, time.Second)
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	c := NewCodec("test-secret", time.Hour, nil)
	tok, _, err := c.Sign("user-123")
	require.NoError(t, err)

	// Flip one byte in the signature segment.
	b := []byte(tok)
	b[len(b)-2] ^= 0x01
	assert.Nil(t, c.Verify(string(b)))
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	signer := NewCodec("secret-a", time.Hour, nil)
	verifier := NewCodec("secret-b", time.Hour, nil)

	tok, _, err := signer.Sign("user-123")
	require.NoError(t, err)
	assert.Nil(t, verifier.Verify(tok))
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	c := NewCodec("test-secret", -time.Minute, nil)
	tok, _, err := c.Sign("user-123")
	require.NoError(t, err)
	assert.Nil(t, c.Verify(tok))
}

func TestVerifyRejectsMissingUserID(t *testing.T) {
	c := NewCodec("test-secret", time.Hour, nil)
	tok, _, err := c.Sign("")
	require.NoError(t, err)
	assert.Nil(t, c.Verify(tok))
}

func TestVerifyRejectsGarbage(t *testing.T) {
	c := NewCodec("test-secret", time.Hour, nil)
	assert.Nil(t, c.Verify(""))
	assert.Nil(t, c.Verify("not-a-token"))
	assert.Nil(t, c.Verify("a.b.c"))
}
