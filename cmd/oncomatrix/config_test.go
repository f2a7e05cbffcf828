package main

import (
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunConfigSet_ParsesValues(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	viper.SetConfigFile(filepath.Join(t.TempDir(), "config.yaml"))

	require.NoError(t, runConfigSet("top_genes", "30"))
	assert.Equal(t, 30, viper.Get("top_genes"), "numeric values are stored as integers")

	require.NoError(t, runConfigSet("npy", "true"))
	assert.Equal(t, true, viper.Get("npy"))

	require.NoError(t, runConfigSet("npy", "off"))
	assert.Equal(t, false, viper.Get("npy"))

	require.NoError(t, runConfigSet("out_dir", "results"))
	assert.Equal(t, "results", viper.Get("out_dir"))
}
