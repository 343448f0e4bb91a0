package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Assumptions are the fixed business constants behind the sizing and
// economics models. They are loaded once at startup and never change for
// the lifetime of the process, so every request computed against them is
// reproducible.
type Assumptions struct {
	PeakMultiplierDefault    float64 `mapstructure:"peakMultiplierDefault"`
	RoundTripEfficiency      float64 `mapstructure:"roundTripEfficiency"`
	UsableFraction           float64 `mapstructure:"usableFraction"`
	NightFraction            float64 `mapstructure:"nightFraction"`
	DirectUseFactor          float64 `mapstructure:"directUseFactor"`
	StorageUtilizationFactor float64 `mapstructure:"storageUtilizationFactor"`
	AnnualTariffIncrease     float64 `mapstructure:"annualTariffIncrease"`
	CarbonFactor             float64 `mapstructure:"carbonFactor"`

	// Advisory thresholds for the "oversized vs savings" warning. Either
	// one triggers it.
	OversizedPaybackYears      float64 `mapstructure:"oversizedPaybackYears"`
	OversizedSavingsCapexRatio float64 `mapstructure:"oversizedSavingsCapexRatio"`
}

// DefaultAssumptions returns the shipped model constants.
func DefaultAssumptions() Assumptions {
	return Assumptions{
		PeakMultiplierDefault:      1.8,
		RoundTripEfficiency:        0.9,
		UsableFraction:             0.9,
		NightFraction:              0.5,
		DirectUseFactor:            0.35,
		StorageUtilizationFactor:   0.85,
		AnnualTariffIncrease:       0.2,
		CarbonFactor:               0.42,
		OversizedPaybackYears:      25,
		OversizedSavingsCapexRatio: 0.02,
	}
}

// NewAssumptions loads assumptions from an optional sizing.yml, falling
// back to the shipped defaults. Invalid values abort startup.
func NewAssumptions() (Assumptions, error) {
	v := viper.New()

	v.SetConfigName("sizing")
	v.SetConfigType("yml")
	v.AddConfigPath("/etc/sunsizer")
	v.AddConfigPath(".")

	v.SetEnvPrefix("SUNSIZER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultAssumptions()
	v.SetDefault("assumptions.peakMultiplierDefault", defaults.PeakMultiplierDefault)
	v.SetDefault("assumptions.roundTripEfficiency", defaults.RoundTripEfficiency)
	v.SetDefault("assumptions.usableFraction", defaults.UsableFraction)
	v.SetDefault("assumptions.nightFraction", defaults.NightFraction)
	v.SetDefault("assumptions.directUseFactor", defaults.DirectUseFactor)
	v.SetDefault("assumptions.storageUtilizationFactor", defaults.StorageUtilizationFactor)
	v.SetDefault("assumptions.annualTariffIncrease", defaults.AnnualTariffIncrease)
	v.SetDefault("assumptions.carbonFactor", defaults.CarbonFactor)
	v.SetDefault("assumptions.oversizedPaybackYears", defaults.OversizedPaybackYears)
	v.SetDefault("assumptions.oversizedSavingsCapexRatio", defaults.OversizedSavingsCapexRatio)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Assumptions{}, err
		}
	}

	var cfg Assumptions
	if err := v.UnmarshalKey("assumptions", &cfg); err != nil {
		return Assumptions{}, err
	}
	if err := validateAssumptions(cfg); err != nil {
		return Assumptions{}, err
	}
	return cfg, nil
}

func validateAssumptions(a Assumptions) error {
	fractions := map[string]float64{
		"roundTripEfficiency":      a.RoundTripEfficiency,
		"usableFraction":           a.UsableFraction,
		"nightFraction":            a.NightFraction,
		"directUseFactor":          a.DirectUseFactor,
		"storageUtilizationFactor": a.StorageUtilizationFactor,
	}
	for name, value := range fractions {
		if value <= 0 || value > 1 {
			return fmt.Errorf("assumptions.%s must be in (0, 1], got %v", name, value)
		}
	}
	if a.PeakMultiplierDefault < 1 {
		return fmt.Errorf("assumptions.peakMultiplierDefault must be >= 1, got %v", a.PeakMultiplierDefault)
	}
	if a.AnnualTariffIncrease < 0 {
		return fmt.Errorf("assumptions.annualTariffIncrease must be >= 0, got %v", a.AnnualTariffIncrease)
	}
	if a.CarbonFactor < 0 {
		return fmt.Errorf("assumptions.carbonFactor must be >= 0, got %v", a.CarbonFactor)
	}
	if a.OversizedPaybackYears <= 0 {
		return fmt.Errorf("assumptions.oversizedPaybackYears must be > 0, got %v", a.OversizedPaybackYears)
	}
	if a.OversizedSavingsCapexRatio <= 0 || a.OversizedSavingsCapexRatio >= 1 {
		return fmt.Errorf("assumptions.oversizedSavingsCapexRatio must be in (0, 1), got %v", a.OversizedSavingsCapexRatio)
	}
	return nil
}

// Map flattens the assumptions for the metadata endpoint and response echo.
func (a Assumptions) Map() map[string]float64 {
	return map[string]float64{
		"peak_multiplier_default":    a.PeakMultiplierDefault,
		"round_trip_efficiency":      a.RoundTripEfficiency,
		"usable_fraction":            a.UsableFraction,
		"night_fraction":             a.NightFraction,
		"direct_use_factor":          a.DirectUseFactor,
		"storage_utilization_factor": a.StorageUtilizationFactor,
		"annual_tariff_increase":     a.AnnualTariffIncrease,
		"carbon_factor":              a.CarbonFactor,
	}
}
