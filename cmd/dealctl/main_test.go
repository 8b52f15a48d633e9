package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runDealctl executes the root command with args against an isolated
// viper and a config file that does not set anything unless configYAML is
// given.
func runDealctl(t *testing.T, configYAML string, args ...string) (string, error) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)

	cfg := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte(configYAML), 0o600))
	cfgFile = ""

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--config", cfg}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestAnalyze(t *testing.T) {
	deal := []string{"analyze", "--price", "100000", "--arv", "180000", "--renovation", "20000"}

	t.Run("financed defaults", func(t *testing.T) {
		out, err := runDealctl(t, "", deal...)
		require.NoError(t, err)
		assert.Contains(t, out, "Buy, Fix, and Flip, financed purchase")
		assert.Contains(t, out, "$3,399")
		assert.Contains(t, out, "$55,601")
		assert.Contains(t, out, "50.0%")
	})

	t.Run("cash flag", func(t *testing.T) {
		out, err := runDealctl(t, "", append(deal, "--purchase-model", "cash")...)
		require.NoError(t, err)
		assert.Contains(t, out, "$59,000")
	})

	t.Run("environment", func(t *testing.T) {
		t.Setenv("DEALCTL_FACTORS_PURCHASE_MODEL", "cash")
		t.Setenv("DEALCTL_FACTORS_MISC_COSTS_PERCENTAGE", "0")
		out, err := runDealctl(t, "", deal...)
		require.NoError(t, err)
		assert.Contains(t, out, "$60,000")
	})

	t.Run("config file", func(t *testing.T) {
		cfg := "factors:\n  purchase_model: cash\n  misc_costs_percentage: 10\n"
		out, err := runDealctl(t, cfg, deal...)
		require.NoError(t, err)
		assert.Contains(t, out, "$58,000")
	})

	t.Run("flag beats config", func(t *testing.T) {
		cfg := "factors:\n  purchase_model: cash\n  misc_costs_percentage: 10\n"
		out, err := runDealctl(t, cfg, append(deal, "--misc-costs", "0")...)
		require.NoError(t, err)
		assert.Contains(t, out, "$60,000")
	})

	t.Run("cost sheet", func(t *testing.T) {
		out, err := runDealctl(t, "", append(deal, "--strategy", "wholesale", "--costs")...)
		require.NoError(t, err)
		assert.Contains(t, out, "assignmentFee")
		assert.Contains(t, out, "$31,000")
	})

	t.Run("zero investment", func(t *testing.T) {
		out, err := runDealctl(t, "", "analyze", "--price", "0.0001", "--arv", "0", "--renovation", "-0.0001")
		require.NoError(t, err)
		assert.Contains(t, out, "n/a")
	})

	t.Run("missing price", func(t *testing.T) {
		_, err := runDealctl(t, "", "analyze", "--arv", "180000")
		assert.Error(t, err)
	})

	t.Run("unknown strategy", func(t *testing.T) {
		_, err := runDealctl(t, "", append(deal, "--strategy", "lease-option")...)
		assert.Error(t, err)
	})
}

func TestPresets(t *testing.T) {
	t.Run("single pair", func(t *testing.T) {
		out, err := runDealctl(t, "", "presets", "--strategy", "fix-and-flip", "--purchase-model", "financed")
		require.NoError(t, err)
		assert.Contains(t, out, "Buy, Fix, and Flip (financed)")
		assert.Contains(t, out, "realtorCommission")
		assert.Contains(t, out, "$59,000")
		assert.NotContains(t, out, "(cash)")
	})

	t.Run("all pairs", func(t *testing.T) {
		out, err := runDealctl(t, "", "presets")
		require.NoError(t, err)
		for _, title := range []string{"Turnkey Rental (cash)", "BRRR (financed)", "Wholesale (cash)"} {
			assert.Contains(t, out, title)
		}
	})

	t.Run("unknown model", func(t *testing.T) {
		_, err := runDealctl(t, "", "presets", "--purchase-model", "lease")
		assert.Error(t, err)
	})
}

func TestVersion(t *testing.T) {
	out, err := runDealctl(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "dealctl dev\n", out)
}
