package ftpserver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveRootCreatesMissingDirectory(t *testing.T) {
	base := t.TempDir()
	target := filepath.Join(base, "newroot")

	root, err := ResolveRoot(target)
	require.NoError(t, err)
	assert.Equal(t, target, root)

	info, err := os.Stat(target)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestResolveRootAcceptsExistingDirectory(t *testing.T) {
	base := t.TempDir()

	root, err := ResolveRoot(base)
	require.NoError(t, err)
	assert.Equal(t, base, root)
}

func TestResolveRootRejectsFileTarget(t *testing.T) {
	base := t.TempDir()
	file := filepath.Join(base, "notadir")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o600))

	_, err := ResolveRoot(file)
	assert.Error(t, err)
}
