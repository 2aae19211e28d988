package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCodeLengthAndCharset(t *testing.T) {
	code, err := GenerateCode(8)
	require.NoError(t, err)
	assert.Len(t, code, 8)
	for _, r := range code {
		assert.Contains(t, codeCharset, string(r))
	}
}

func TestGenerateCodeRejectsNonPositiveLength(t *testing.T) {
	_, err := GenerateCode(0)
	assert.Error(t, err)
}

func TestGenerateReferenceCodePrefix(t *testing.T) {
	code, err := GenerateReferenceCode("rsv", 8)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(code, "RSV-"))
	assert.Len(t, code, len("RSV-")+8)
}

func TestEnvOrDefault(t *testing.T) {
	t.Setenv("FRONTDESK_TEST_KEY", "set")
	assert.Equal(t, "set", EnvOrDefault("FRONTDESK_TEST_KEY", "fallback"))
	assert.Equal(t, "fallback", EnvOrDefault("FRONTDESK_TEST_MISSING", "fallback"))
}
