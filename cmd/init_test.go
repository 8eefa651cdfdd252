package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tristendillon/pcc/core/config"
)

func TestInit_WritesDefaultConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Cleanup(func() { force = false })

	rootCmd.SetArgs([]string{"init"})
	require.NoError(t, rootCmd.Execute())

	cfg, err := config.LoadFrom(filepath.Join(home, config.FileName))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestInit_ExistingFileNeedsForce(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Cleanup(func() { force = false })

	path := write(t, home, config.FileName, "action: print\n")

	rootCmd.SetArgs([]string{"init"})
	err := rootCmd.Execute()
	require.Error(t, err)
	assert.ErrorContains(t, err, "already exists")
	assert.ErrorContains(t, err, "--force")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "action: print\n", string(data))

	rootCmd.SetArgs([]string{"init", "--force"})
	require.NoError(t, rootCmd.Execute())

	cfg, err := config.LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}
