package kmer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig(t *testing.T) *Config {
	t.Helper()
	return &Config{
		Output:     t.TempDir() + "/out.csv",
		KMin:       8,
		KMax:       12,
		KStep:      2,
		TopKmers:   200,
		ZThreshold: 5.0,
	}
}

func TestConfigValidateOK(t *testing.T) {
	cfg := validConfig(t)
	require.NoError(t, cfg.Validate())
}

func TestConfigValidateKMinGreaterThanKMax(t *testing.T) {
	cfg := validConfig(t)
	cfg.KMin, cfg.KMax = 12, 8
	err := cfg.Validate()
	require.Error(t, err)
	assert.Equal(t, InvalidConfig, err.(*Error).Kind)
}

func TestConfigValidateBadStep(t *testing.T) {
	cfg := validConfig(t)
	cfg.KStep = 0
	require.Error(t, cfg.Validate())

	cfg2 := validConfig(t)
	cfg2.KStep = 100
	require.Error(t, cfg2.Validate())
}

func TestConfigValidateZRange(t *testing.T) {
	cfg := validConfig(t)
	cfg.ZThreshold = 0.01
	require.Error(t, cfg.Validate())

	cfg2 := validConfig(t)
	cfg2.ZThreshold = 21
	require.Error(t, cfg2.Validate())
}

func TestConfigValidateMissingOutputDir(t *testing.T) {
	cfg := validConfig(t)
	cfg.Output = "/no/such/dir/out.csv"
	require.Error(t, cfg.Validate())
}

func TestConfigKValues(t *testing.T) {
	cfg := validConfig(t)
	assert.Equal(t, []int{8, 10, 12}, cfg.KValues())
}

func TestConfigHasMinCount(t *testing.T) {
	cfg := validConfig(t)
	assert.False(t, cfg.HasMinCount())
	cfg.MinCount = 5
	assert.True(t, cfg.HasMinCount())
}
