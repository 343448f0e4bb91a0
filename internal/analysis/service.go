package analysis

import (
	"context"

	"go.uber.org/zap"

	"github.com/sunsizer/sunsizer/internal/config"
	"github.com/sunsizer/sunsizer/internal/consumption"
	"github.com/sunsizer/sunsizer/internal/economics"
	"github.com/sunsizer/sunsizer/internal/loads"
	"github.com/sunsizer/sunsizer/internal/observability/logger"
	"github.com/sunsizer/sunsizer/internal/observability/metrics"
	"github.com/sunsizer/sunsizer/internal/refdata"
	"github.com/sunsizer/sunsizer/internal/sizing"
	"github.com/sunsizer/sunsizer/internal/solar"
)

const (
	solarModelNote       = "Solar yield is an annualized average; winter output is lower."
	selfConsumptionModel = "No export credit. Savings only from self-consumption."
)

// Service runs the full sizing pipeline for one request.
type Service struct {
	log         *zap.Logger
	snapshot    *refdata.Snapshot
	assumptions config.Assumptions
	metrics     *metrics.AnalysisMetrics
}

func NewService(log *zap.Logger, snapshot *refdata.Snapshot, assumptions config.Assumptions, m *metrics.AnalysisMetrics) *Service {
	return &Service{
		log:         log.Named("analysis"),
		snapshot:    snapshot,
		assumptions: assumptions,
		metrics:     m,
	}
}

// Analyze validates the request, then chains template aggregation, the
// consumption and solar profiles, scenario sizing, and per-scenario
// economics into one report. The pipeline is pure given the snapshot and
// assumptions, so identical requests produce identical reports.
func (s *Service) Analyze(ctx context.Context, req Request) (*Response, error) {
	log := logger.WithContext(ctx, s.log)

	if err := req.Normalize(); err != nil {
		s.metrics.RecordAnalysis(string(req.SystemFamily), "rejected")
		return nil, err
	}

	agg, err := loads.AggregateTemplates(req.ExpertLoads, s.snapshot, req.hoursMode())
	if err != nil {
		s.metrics.RecordAnalysis(string(req.SystemFamily), "rejected")
		return nil, err
	}

	demand := consumption.Build(consumption.Input{
		DailyKWh: req.DailyKWh,
		AvgKW:    req.AvgKW,
		PeakKW:   req.PeakKW,
	}, agg.DailyKWh, agg.PeakWatts, s.assumptions.PeakMultiplierDefault)

	solarProfile, err := solar.Build(req.City, req.PVKWp, s.snapshot)
	if err != nil {
		s.metrics.RecordAnalysis(string(req.SystemFamily), "rejected")
		return nil, err
	}

	sized, err := sizing.Size(sizing.Input{
		Family:             req.SystemFamily,
		Phase:              req.phase(),
		Class:              req.PowerOcean3PClass,
		EffectiveDailyKWh:  demand.EffectiveDailyKWh,
		EffectivePeakKW:    demand.EffectivePeakKW,
		PVKWp:              req.PVKWp,
		SelectedScenarioID: req.SelectedScenarioID,
	}, s.snapshot, s.assumptions)
	if err != nil {
		s.metrics.RecordAnalysis(string(req.SystemFamily), "rejected")
		return nil, err
	}

	perf := economics.CalculatePerformance(demand.EffectiveDailyKWh, solarProfile.DailyAvgKWh, s.assumptions)

	econScenarios := make(map[sizing.ScenarioID]economics.Economics, len(sized.ScenarioBOMs))
	for id, bom := range sized.ScenarioBOMs {
		econScenarios[id] = economics.Calculate(demand.EffectiveDailyKWh, req.TariffTRYPerKWh, bom.Capex, perf.OffsetKWhPerDay, s.assumptions)
	}
	selectedEcon := econScenarios[req.SelectedScenarioID]

	warnings := append([]string(nil), sized.Warnings...)
	if msg, oversized := economics.OversizedAdvisory(selectedEcon, s.assumptions); oversized {
		warnings = append(warnings, msg)
	}

	for _, scenario := range sized.Scenarios {
		if !scenario.Feasible {
			s.metrics.RecordInfeasibleScenario(string(req.SystemFamily), string(scenario.ID))
		}
	}
	s.metrics.RecordAnalysis(string(req.SystemFamily), "completed")
	log.Info("analysis completed",
		zap.String("family", string(req.SystemFamily)),
		zap.String("city", solarProfile.CanonicalLocation),
		zap.String("selected_scenario", string(req.SelectedScenarioID)),
		zap.Float64("effective_daily_kwh", demand.EffectiveDailyKWh),
		zap.Float64("selected_capex_try", sized.SelectedBOM.Capex),
	)

	return &Response{
		Inputs:      req,
		Assumptions: s.assumptionsSection(),
		ExpertLoadContributions: ExpertContributions{
			AggregatedDailyKWhBand: agg.DailyKWh,
			AggregatedPeakKWBand:   agg.PeakWatts.Scale(1.0 / 1000.0),
			SelectedTemplates:      echoTemplates(req.ExpertLoads),
			HoursMode:              agg.HoursMode,
			Multiplier:             agg.Multiplier,
			Templates:              agg.Contributions,
		},
		Confidence: Confidence{
			PeakKW:       string(demand.Confidence),
			PeakInferred: demand.PeakInferred,
		},
		Profiles: Profiles{
			Consumption: ConsumptionProfile{
				DailyKWhBand: demand.DailyKWhBand,
				PeakKWBand:   demand.PeakKWBand,
				AvgKWTypical: demand.AvgKWTypical,
			},
			Solar: solarProfile,
		},
		Sizing: SizingSection{
			Scenarios:   sized.Scenarios,
			Inverter:    sized.Inverter,
			Accessories: sized.Accessories,
		},
		BOM: BOMSection{
			SelectedScenarioID: sized.SelectedScenarioID,
			Selected:           sized.SelectedBOM,
			Scenarios:          sized.ScenarioBOMs,
		},
		Performance: perf,
		Economics: EconomicsSection{
			Selected:  selectedEcon,
			Scenarios: econScenarios,
		},
		CO2:          economics.CalculateCO2(perf.OffsetKWhPerDay, s.assumptions),
		Warnings:     warnings,
		UpgradePaths: []map[string]any{},
	}, nil
}

func (s *Service) assumptionsSection() map[string]any {
	section := make(map[string]any)
	for k, v := range s.assumptions.Map() {
		section[k] = v
	}
	section["solar_model_note"] = solarModelNote
	section["self_consumption_model"] = selfConsumptionModel
	return section
}

// echoTemplates copies the selection in request order, never nil.
func echoTemplates(ids []string) []string {
	if len(ids) == 0 {
		return []string{}
	}
	return append([]string(nil), ids...)
}
