package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetEnvOrDefault(t *testing.T) {
	t.Setenv("ASNBLOCK_TEST_VAR", "set")
	assert.Equal(t, "set", GetEnvOrDefault("ASNBLOCK_TEST_VAR", "fallback"))
	assert.Equal(t, "fallback", GetEnvOrDefault("ASNBLOCK_TEST_VAR_UNSET", "fallback"))
}

func TestPathExists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	assert.False(t, PathExists(path))

	require.NoError(t, os.WriteFile(path, []byte("rules: []\n"), 0644))
	assert.True(t, PathExists(path))
}
