package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseToken(t *testing.T) {
	token, err := GenerateToken("C1", "admin")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "C1", claims.ClassroomID)
	assert.Equal(t, "admin", claims.Role)
}

func TestParseToken_Invalid(t *testing.T) {
	_, err := ParseToken("not_a_token")
	assert.Error(t, err)
}
