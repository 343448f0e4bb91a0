package analysis

import (
	"github.com/sunsizer/sunsizer/internal/constraint"
	"github.com/sunsizer/sunsizer/internal/economics"
	"github.com/sunsizer/sunsizer/internal/loads"
	"github.com/sunsizer/sunsizer/internal/refdata"
	"github.com/sunsizer/sunsizer/internal/sizing"
	"github.com/sunsizer/sunsizer/internal/solar"
)

// Response is the full analyze report. Every numeric result carries the
// inputs and assumptions that produced it, so a report is reproducible
// from its own payload.
type Response struct {
	Inputs      Request        `json:"inputs"`
	Assumptions map[string]any `json:"assumptions"`

	ExpertLoadContributions ExpertContributions `json:"expert_load_contributions"`
	Confidence              Confidence          `json:"confidence"`
	Profiles                Profiles            `json:"profiles"`

	Sizing SizingSection `json:"sizing"`
	BOM    BOMSection    `json:"bom"`

	Performance economics.Performance `json:"performance"`
	Economics   EconomicsSection      `json:"economics"`
	CO2         economics.CO2         `json:"co2"`

	Warnings     []string         `json:"warnings"`
	UpgradePaths []map[string]any `json:"upgrade_paths"`
}

// ExpertContributions echoes the template aggregation for auditing.
// Aggregated peak is reported in kW; per-template bands stay in watts.
type ExpertContributions struct {
	AggregatedDailyKWhBand refdata.Band                  `json:"aggregated_daily_kwh_band"`
	AggregatedPeakKWBand   refdata.Band                  `json:"aggregated_peak_kw_band"`
	SelectedTemplates      []string                      `json:"selected_templates"`
	HoursMode              loads.HoursMode               `json:"hours_mode"`
	Multiplier             float64                       `json:"multiplier"`
	Templates              map[string]loads.Contribution `json:"templates"`
}

// Confidence labels how the effective peak was obtained.
type Confidence struct {
	PeakKW       string `json:"peak_kw"`
	PeakInferred bool   `json:"peak_inferred"`
}

// Profiles groups the resolved demand and generation profiles.
type Profiles struct {
	Consumption ConsumptionProfile `json:"consumption"`
	Solar       solar.Profile      `json:"solar"`
}

// ConsumptionProfile is the effective demand band summary.
type ConsumptionProfile struct {
	DailyKWhBand refdata.Band `json:"daily_kwh_band"`
	PeakKWBand   refdata.Band `json:"peak_kw_band"`
	AvgKWTypical float64      `json:"avg_kw_typical"`
}

// SizingSection lists all three scenarios plus the shared topology.
type SizingSection struct {
	Scenarios   []sizing.Scenario       `json:"scenarios"`
	Inverter    constraint.InverterSpec `json:"inverter"`
	Accessories []sizing.AccessoryLine  `json:"accessories"`
}

// BOMSection carries a priced bill of materials per scenario plus the
// selected one.
type BOMSection struct {
	SelectedScenarioID sizing.ScenarioID                `json:"selected_scenario_id"`
	Selected           sizing.BOM                       `json:"selected"`
	Scenarios          map[sizing.ScenarioID]sizing.BOM `json:"scenarios"`
}

// EconomicsSection prices every scenario so callers can compare payback
// across backup depths, not just the selected one.
type EconomicsSection struct {
	Selected  economics.Economics                       `json:"selected"`
	Scenarios map[sizing.ScenarioID]economics.Economics `json:"scenarios"`
}
