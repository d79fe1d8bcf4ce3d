package config

import (
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var log = logrus.WithField("prefix", "config")

// FeatureFlagConfig carries runtime toggles read once at startup,
// matching shared/featureconfig/config.go's FeatureFlagConfig.
type FeatureFlagConfig struct {
	// SkipSignatureVerification disables provenance signature checks;
	// for test networks only.
	SkipSignatureVerification bool
	// EnableStateDumpScheduler turns on the periodic diagnostic dump.
	EnableStateDumpScheduler bool
	// StateDumpIncludeEAV opts a scheduled dump into the full EAV index.
	StateDumpIncludeEAV bool
}

var featureConfig *FeatureFlagConfig

// Get retrieves the global feature config, defaulting to the
// all-features-off zero value if Configure was never called.
func Get() *FeatureFlagConfig {
	if featureConfig == nil {
		return &FeatureFlagConfig{}
	}
	return featureConfig
}

// Init sets the global config directly, for tests that want to enable
// a feature without building a cli.Context.
func Init(c *FeatureFlagConfig) {
	featureConfig = c
}

// Configure sets the global feature config from ctx's flags, matching
// featureconfig.ConfigureBeaconFeatures's per-flag-log-then-set shape.
func Configure(ctx *cli.Context) {
	cfg := &FeatureFlagConfig{}
	if ctx.Bool(SkipSignatureVerificationFlag.Name) {
		log.Warn("UNSAFE: skipping provenance signature verification at runtime")
		cfg.SkipSignatureVerification = true
	}
	if ctx.Bool(EnableStateDumpSchedulerFlag.Name) {
		log.Info("enabling periodic state dump logging")
		cfg.EnableStateDumpScheduler = true
	}
	if ctx.Bool(StateDumpIncludeEAVFlag.Name) {
		cfg.StateDumpIncludeEAV = true
	}
	Init(cfg)
}
