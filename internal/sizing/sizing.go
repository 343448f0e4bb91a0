// Package sizing enumerates the fixed backup scenarios, sizes the battery
// bank for each, and prices a bill of materials per scenario.
package sizing

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/sunsizer/sunsizer/internal/config"
	"github.com/sunsizer/sunsizer/internal/constraint"
	"github.com/sunsizer/sunsizer/internal/refdata"
)

var (
	ErrInvalidScenario = errors.New("invalid selected scenario id")
	ErrMissingProduct  = errors.New("required product missing from catalog")
)

// ScenarioID identifies one of the three fixed backup-duration scenarios.
type ScenarioID string

const (
	ScenarioTwoDayOutage ScenarioID = "S1"
	ScenarioOneDayOutage ScenarioID = "S2"
	ScenarioNightOnly    ScenarioID = "S3"
)

var scenarioOrder = []struct {
	ID   ScenarioID
	Name string
}{
	{ScenarioTwoDayOutage, "2_days_outage"},
	{ScenarioOneDayOutage, "1_day_outage"},
	{ScenarioNightOnly, "night_only_coverage"},
}

// ModuleSelection is the battery product and count chosen for a scenario.
type ModuleSelection struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	ModuleKWh float64 `json:"module_kwh"`
	Count     int     `json:"count"`
}

// Scenario is one sized backup option.
type Scenario struct {
	ID                 ScenarioID      `json:"id"`
	Name               string          `json:"name"`
	NominalKWhRequired float64         `json:"battery_nominal_kwh_required"`
	Modules            ModuleSelection `json:"battery_modules"`
	Feasible           bool            `json:"feasible"`
	Notes              []string        `json:"notes"`
}

// AccessoryLine is one accessory with its resolved price.
type AccessoryLine struct {
	ID    string  `json:"id"`
	Qty   int     `json:"qty"`
	Price float64 `json:"price_try"`
}

// Input carries the demand figures and topology selectors for sizing.
type Input struct {
	Family             refdata.Family
	Phase              constraint.Phase
	Class              *constraint.ThreePhaseClass
	EffectiveDailyKWh  float64
	EffectivePeakKW    float64
	PVKWp              float64
	SelectedScenarioID ScenarioID
}

// Result is the full sizing output: all three scenarios, the shared
// topology, per-scenario BOMs and the selected BOM.
type Result struct {
	Scenarios          []Scenario
	Inverter           constraint.InverterSpec
	Accessories        []AccessoryLine
	SelectedScenarioID ScenarioID
	SelectedBOM        BOM
	ScenarioBOMs       map[ScenarioID]BOM
	Warnings           []string
}

// NominalRequired converts a scenario's usable-energy requirement into the
// nominal battery capacity that survives round-trip and depth-of-discharge
// losses.
func NominalRequired(dailyKWh float64, id ScenarioID, a config.Assumptions) float64 {
	var usable float64
	switch id {
	case ScenarioTwoDayOutage:
		usable = 2.0 * dailyKWh
	case ScenarioOneDayOutage:
		usable = 1.0 * dailyKWh
	case ScenarioNightOnly:
		usable = a.NightFraction * dailyKWh
	}
	return usable / (a.RoundTripEfficiency * a.UsableFraction)
}

// ModuleCount is the smallest integer count whose total rated capacity
// covers the nominal requirement. A fractional module always rounds up.
func ModuleCount(nominalKWh, unitKWh float64) int {
	if nominalKWh <= 0 {
		return 0
	}
	return int(math.Ceil(nominalKWh / unitKWh))
}

// Size computes all three scenarios in order, always in full: infeasible
// scenarios are still priced so the caller can show the trade-off.
func Size(in Input, snapshot *refdata.Snapshot, a config.Assumptions) (Result, error) {
	battery, err := snapshot.BatteryUnit(in.Family)
	if err != nil {
		return Result{}, err
	}

	evaluate, err := constraint.ForFamily(in.Family, in.Phase, in.Class, battery.BatteryKWh, in.PVKWp, snapshot.MaxSolarKW(in.Family))
	if err != nil {
		return Result{}, err
	}

	result := Result{
		SelectedScenarioID: in.SelectedScenarioID,
		ScenarioBOMs:       make(map[ScenarioID]BOM, len(scenarioOrder)),
	}
	warningSet := make(map[string]struct{})
	var accessories []string

	for _, def := range scenarioOrder {
		nominal := NominalRequired(in.EffectiveDailyKWh, def.ID, a)
		modules := ModuleCount(nominal, battery.BatteryKWh)
		verdict := evaluate(modules, in.EffectivePeakKW)

		for _, w := range verdict.Warnings {
			warningSet[w] = struct{}{}
		}
		result.Inverter = verdict.Inverter
		accessories = verdict.Accessories

		notes := verdict.Warnings
		if len(notes) == 0 {
			notes = []string{"Within bounded deterministic constraints"}
		}
		result.Scenarios = append(result.Scenarios, Scenario{
			ID:                 def.ID,
			Name:               def.Name,
			NominalKWhRequired: round3(nominal),
			Modules: ModuleSelection{
				ProductID: battery.ID,
				Name:      battery.Name,
				ModuleKWh: battery.BatteryKWh,
				Count:     modules,
			},
			Feasible: verdict.Feasible,
			Notes:    notes,
		})

		bom, err := buildBOM(in.Family, modules, battery, verdict.Inverter, verdict.Accessories, snapshot)
		if err != nil {
			return Result{}, err
		}
		result.ScenarioBOMs[def.ID] = bom
	}

	selected, ok := result.ScenarioBOMs[in.SelectedScenarioID]
	if !ok {
		return Result{}, fmt.Errorf("%w: %s", ErrInvalidScenario, in.SelectedScenarioID)
	}
	result.SelectedBOM = selected

	for _, id := range accessories {
		price, _ := snapshot.AccessoryPrice(id)
		result.Accessories = append(result.Accessories, AccessoryLine{ID: id, Qty: 1, Price: price})
	}

	result.Warnings = make([]string, 0, len(warningSet))
	for w := range warningSet {
		result.Warnings = append(result.Warnings, w)
	}
	sort.Strings(result.Warnings)

	return result, nil
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
