package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sim "github.com/cyberflux/cyberflux/sim"
)

func TestRootCmd_HasRunSubcommand(t *testing.T) {
	names := make([]string, 0, len(rootCmd.Commands()))
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	assert.Contains(t, names, "run")
}

func TestBuildConfig_FlagsOverrideDefaults(t *testing.T) {
	// GIVEN flag values as the CLI parser would set them
	clientsMin = 5
	clientsMax = 40
	openHours = 2
	forceConflictingOrder = true
	verbose = true
	seed = 1234

	// WHEN the engine config is built
	cfg := buildConfig()

	// THEN the flags map straight onto the config
	assert.Equal(t, 5, cfg.MinClients)
	assert.Equal(t, 40, cfg.MaxClients)
	assert.Equal(t, 2, cfg.OpenHours)
	assert.True(t, cfg.ForceConflictingOrder)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, int64(1234), cfg.Seed)

	// AND engine knobs keep their defaults
	def := sim.DefaultConfig()
	assert.Equal(t, def.AcquireTimeout, cfg.AcquireTimeout)
	assert.Equal(t, def.Capacities, cfg.Capacities)
	require.NoError(t, cfg.Validate())
}

func TestBuildConfig_ZeroSeed_UsesClockSeed(t *testing.T) {
	seed = 0

	cfg := buildConfig()

	assert.NotZero(t, cfg.Seed, "seed 0 must fall back to a clock-derived seed")
}

func TestRunCmd_FlagDefaults(t *testing.T) {
	assert.Equal(t, "20", runCmd.Flags().Lookup("clients-min").DefValue)
	assert.Equal(t, "120", runCmd.Flags().Lookup("clients-max").DefValue)
	assert.Equal(t, "8", runCmd.Flags().Lookup("open-hours").DefValue)
	assert.Equal(t, "false", runCmd.Flags().Lookup("force-conflicting-order").DefValue)
	assert.Equal(t, "warn", runCmd.Flags().Lookup("log").DefValue)
}
