package analysis

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sunsizer/sunsizer/internal/config"
	"github.com/sunsizer/sunsizer/internal/constraint"
	"github.com/sunsizer/sunsizer/internal/loads"
	"github.com/sunsizer/sunsizer/internal/refdata"
	"github.com/sunsizer/sunsizer/internal/sizing"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	snapshot, err := refdata.Load()
	require.NoError(t, err)
	return NewService(zap.NewNop(), snapshot, config.DefaultAssumptions(), nil)
}

func phasePtr(p constraint.Phase) *constraint.Phase { return &p }

func classPtr(c constraint.ThreePhaseClass) *constraint.ThreePhaseClass { return &c }

func floatPtr(v float64) *float64 { return &v }

func baseRequest() Request {
	return Request{
		SystemFamily:    refdata.FamilyPowerOcean,
		City:            "İstanbul",
		PVKWp:           5,
		TariffTRYPerKWh: 5,
		DailyKWh:        5,
		PowerOceanPhase: phasePtr(constraint.PhaseSingle),
	}
}

func TestNormalizeRejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Request)
	}{
		{"unknown family", func(r *Request) { r.SystemFamily = "wind" }},
		{"empty city", func(r *Request) { r.City = "  " }},
		{"negative pv", func(r *Request) { r.PVKWp = -1 }},
		{"zero tariff", func(r *Request) { r.TariffTRYPerKWh = 0 }},
		{"zero daily", func(r *Request) { r.DailyKWh = 0 }},
		{"negative avg", func(r *Request) { r.AvgKW = floatPtr(-0.5) }},
		{"negative peak", func(r *Request) { r.PeakKW = floatPtr(-2) }},
		{"missing phase", func(r *Request) { r.PowerOceanPhase = nil }},
		{"class with 1P", func(r *Request) { r.PowerOcean3PClass = classPtr(constraint.ClassThreePhase) }},
		{"missing class for 3P", func(r *Request) {
			r.PowerOceanPhase = phasePtr(constraint.PhaseThree)
		}},
		{"phase with stream", func(r *Request) {
			r.SystemFamily = refdata.FamilyStream
		}},
		{"unknown scenario", func(r *Request) { r.SelectedScenarioID = "S9" }},
		{"bad hours mode", func(r *Request) {
			r.ExpertMode = true
			mode := loads.HoursMode("extreme")
			r.ExpertHoursMode = &mode
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := baseRequest()
			tc.mutate(&req)
			err := req.Normalize()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestNormalizeDefaults(t *testing.T) {
	req := baseRequest()
	req.ExpertLoads = []string{"fridge_a_plus"}
	require.NoError(t, req.Normalize())

	assert.Equal(t, sizing.ScenarioNightOnly, req.SelectedScenarioID)
	assert.Nil(t, req.ExpertLoads, "templates outside expert mode are discarded")
	assert.Nil(t, req.ExpertHoursMode)

	expert := baseRequest()
	expert.ExpertMode = true
	require.NoError(t, expert.Normalize())
	require.NotNil(t, expert.ExpertHoursMode)
	assert.Equal(t, loads.HoursMedium, *expert.ExpertHoursMode)
}

func TestAnalyzeSinglePhaseFeasible(t *testing.T) {
	svc := newTestService(t)

	resp, err := svc.Analyze(context.Background(), baseRequest())
	require.NoError(t, err)

	require.Len(t, resp.Sizing.Scenarios, 3)
	for _, scenario := range resp.Sizing.Scenarios {
		assert.True(t, scenario.Feasible, scenario.ID)
		assert.LessOrEqual(t, scenario.Modules.Count, 3)
	}
	assert.Empty(t, resp.Warnings)

	assert.Equal(t, sizing.ScenarioNightOnly, resp.BOM.SelectedScenarioID)
	assert.Equal(t, resp.BOM.Scenarios[sizing.ScenarioNightOnly], resp.BOM.Selected)
	require.Len(t, resp.BOM.Scenarios, 3)

	require.Len(t, resp.Economics.Scenarios, 3)
	assert.Equal(t, resp.Economics.Scenarios[sizing.ScenarioNightOnly], resp.Economics.Selected)
	require.NotNil(t, resp.Economics.Selected.PaybackSimpleYears)
	assert.Less(t, *resp.Economics.Selected.PaybackInflationAdjustedYears, *resp.Economics.Selected.PaybackSimpleYears)

	assert.Equal(t, "İstanbul", resp.Profiles.Solar.CanonicalLocation)
	assert.InDelta(t, 5*1248.0, resp.Profiles.Solar.AnnualKWh, 1e-9)

	assert.Equal(t, "LOW", resp.Confidence.PeakKW)
	assert.True(t, resp.Confidence.PeakInferred)

	assert.Equal(t, solarModelNote, resp.Assumptions["solar_model_note"])
	assert.Equal(t, selfConsumptionModel, resp.Assumptions["self_consumption_model"])
	assert.NotNil(t, resp.UpgradePaths)
	assert.Empty(t, resp.UpgradePaths)
}

func TestAnalyzeSinglePhaseOverCapStillPriced(t *testing.T) {
	svc := newTestService(t)

	req := baseRequest()
	req.DailyKWh = 30
	req.SelectedScenarioID = sizing.ScenarioTwoDayOutage

	resp, err := svc.Analyze(context.Background(), req)
	require.NoError(t, err)

	twoDay := resp.Sizing.Scenarios[0]
	assert.Equal(t, sizing.ScenarioTwoDayOutage, twoDay.ID)
	assert.False(t, twoDay.Feasible)
	assert.Contains(t, resp.Warnings, "1P supports maximum 3 batteries (15 kWh nominal)")
	assert.Greater(t, resp.BOM.Selected.Capex, 0.0)
	assert.Greater(t, resp.Economics.Selected.Capex, 0.0)
}

func TestAnalyzeThreePhaseInverterInBOM(t *testing.T) {
	svc := newTestService(t)

	req := baseRequest()
	req.DailyKWh = 18
	req.PowerOceanPhase = phasePtr(constraint.PhaseThree)
	req.PowerOcean3PClass = classPtr(constraint.ClassThreePhase)

	resp, err := svc.Analyze(context.Background(), req)
	require.NoError(t, err)

	var hasInverter bool
	for _, item := range resp.BOM.Selected.Items {
		if item.ID == "3p_12kw_inverter" {
			hasInverter = true
		}
	}
	assert.True(t, hasInverter)
	assert.Equal(t, "3P", resp.Sizing.Inverter.Phase)
}

func TestAnalyzeExpertModeScalesTemplates(t *testing.T) {
	svc := newTestService(t)

	high := loads.HoursHigh
	req := baseRequest()
	req.DailyKWh = 0.5
	req.ExpertMode = true
	req.ExpertHoursMode = &high
	req.ExpertLoads = []string{"lighting_led", "fridge_a_plus"}

	resp, err := svc.Analyze(context.Background(), req)
	require.NoError(t, err)

	contrib := resp.ExpertLoadContributions
	assert.Equal(t, loads.HoursHigh, contrib.HoursMode)
	assert.InDelta(t, 1.4, contrib.Multiplier, 1e-9)
	assert.Equal(t, []string{"lighting_led", "fridge_a_plus"}, contrib.SelectedTemplates,
		"selection is echoed in request order")
	require.Contains(t, contrib.Templates, "fridge_a_plus")

	fridge := contrib.Templates["fridge_a_plus"]
	assert.InDelta(t, fridge.DailyKWhOriginal.Typical()*1.4, fridge.DailyKWhScaled.Typical(), 1e-9)

	// peak is reported in kW while templates carry watts
	assert.InDelta(t, contrib.AggregatedPeakKWBand.Typical()*1000, fridge.PeakWattsScaled.Typical()+contrib.Templates["lighting_led"].PeakWattsScaled.Typical(), 1e-6)

	assert.Greater(t, resp.Profiles.Consumption.DailyKWhBand.Typical(), req.DailyKWh,
		"aggregated templates exceed the declared daily figure")
}

func TestAnalyzeStream(t *testing.T) {
	svc := newTestService(t)

	req := Request{
		SystemFamily:    refdata.FamilyStream,
		City:            "Antalya",
		PVKWp:           2,
		TariffTRYPerKWh: 4,
		DailyKWh:        4,
	}

	resp, err := svc.Analyze(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "N/A", resp.Sizing.Inverter.Phase)
	require.NotNil(t, resp.Sizing.Inverter.Class)
	assert.Equal(t, "STREAM", *resp.Sizing.Inverter.Class)
	for _, item := range resp.BOM.Selected.Items {
		assert.NotContains(t, item.ID, "inverter")
	}
	for _, scenario := range resp.Sizing.Scenarios {
		assert.GreaterOrEqual(t, scenario.Modules.Count, 1)
	}
}

func TestAnalyzeUnknownLocation(t *testing.T) {
	svc := newTestService(t)

	req := baseRequest()
	req.City = "Atlantis"

	_, err := svc.Analyze(context.Background(), req)
	require.Error(t, err)
}

func TestMetadata(t *testing.T) {
	svc := newTestService(t)

	meta := svc.Metadata()
	assert.Contains(t, meta.Cities, "İstanbul")
	assert.True(t, sort.StringsAreSorted(meta.Cities))
	assert.Equal(t, []string{"powerocean", "stream"}, meta.SystemFamilies)
	assert.Equal(t, []string{"1P", "3P"}, meta.PowerOceanPhaseOptions)
	assert.Equal(t, []string{"3P", "3P_PLUS"}, meta.PowerOcean3PClasses)
	assert.Contains(t, meta.ExpertLoadTemplates, "fridge_a_plus")
	assert.InDelta(t, 1.8, meta.Assumptions["peak_multiplier_default"], 1e-9)
}
