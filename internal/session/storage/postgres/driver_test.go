package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectSessionQuery(t *testing.T) {
	sql, vals, err := selectSessionQuery("someTokenHash", 1700000000)
	require.NoError(t, err)

	assert.Equal(t, "SELECT token, expires, state FROM sessions WHERE token = $1 AND expires > $2", sql)
	assert.Equal(t, []interface{}{"someTokenHash", int64(1700000000)}, vals)
}

func TestUpdateSessionQuery(t *testing.T) {
	state := []byte(`{"accessToken":"someAccessToken"}`)
	sql, vals, err := updateSessionQuery("someTokenHash", state)
	require.NoError(t, err)

	assert.Equal(t, "UPDATE sessions SET state = $1 WHERE token = $2", sql)
	assert.Equal(t, []interface{}{state, "someTokenHash"}, vals)
}

func TestHashToken(t *testing.T) {
	// sha256("test"), hex-encoded
	assert.Equal(t, "9f86d081884c7d659a2feaa0c55ad015a3bf4f1b2b0b822cd15d6c15b0f00a08", hashToken("test"))
	assert.NotEqual(t, hashToken("test"), hashToken("test2"))
}
