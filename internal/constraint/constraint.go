// Package constraint holds the family-specific hardware feasibility rules.
// Each rule set is a pure function from (module count, peak power, context)
// to a Result; cap violations are warnings, never errors.
package constraint

import (
	"errors"
	"fmt"

	"github.com/sunsizer/sunsizer/internal/refdata"
)

// ErrInvalidTopology is returned for a phase/class combination no rule set
// covers. Unrecognized combinations are never silently defaulted.
var ErrInvalidTopology = errors.New("invalid powerocean phase/class configuration")

// Phase selects the grid connection for the powerocean family.
type Phase string

const (
	PhaseSingle Phase = "1P"
	PhaseThree  Phase = "3P"
)

// ThreePhaseClass refines the 3P topology.
type ThreePhaseClass string

const (
	ClassThreePhase     ThreePhaseClass = "3P"
	ClassThreePhasePlus ThreePhaseClass = "3P_PLUS"
)

// InverterSpec describes the resolved inverter topology. RatedKW is nil
// for the inverter-less stream family.
type InverterSpec struct {
	Phase    string   `json:"phase"`
	Class    *string  `json:"class"`
	RatedKW  *float64 `json:"inverter_kw"`
	Count    int      `json:"count"`
	Parallel bool     `json:"parallel"`
}

// Result is the feasibility verdict for one scenario's module count.
type Result struct {
	Feasible    bool
	Warnings    []string
	Accessories []string
	Inverter    InverterSpec
}

const (
	singlePhaseInverterKW = 6.0
	singlePhaseMaxModules = 3

	threePhaseInverterKW   = 12.0
	threePhaseMaxJunctions = 3
	modulesPerJunctionBox  = 3

	plusInverterKW         = 29.9
	plusModulesPerInverter = 12
	plusMaxTotalKWh        = 120.0
	plusSingleInverterKW   = 29.9
	plusDualInverterKW     = 59.8
)

// EvaluatePowerOcean applies the topology selected by phase/class. Every
// violated cap appends its own warning; checks never short-circuit.
func EvaluatePowerOcean(phase Phase, class *ThreePhaseClass, requiredModules int, batteryUnitKWh, peakKW float64) (Result, error) {
	switch {
	case phase == PhaseSingle && class == nil:
		return evaluateSinglePhase(requiredModules), nil
	case phase == PhaseThree && class != nil && *class == ClassThreePhase:
		return evaluateThreePhase(requiredModules), nil
	case phase == PhaseThree && class != nil && *class == ClassThreePhasePlus:
		return evaluateThreePhasePlus(requiredModules, batteryUnitKWh, peakKW), nil
	default:
		return Result{}, fmt.Errorf("%w: phase=%q class=%v", ErrInvalidTopology, phase, classString(class))
	}
}

func evaluateSinglePhase(requiredModules int) Result {
	result := Result{
		Feasible:    true,
		Accessories: []string{"smart_meter_1p", "battery_base"},
		Inverter:    inverterSpec(PhaseSingle, nil, singlePhaseInverterKW, 1),
	}
	if requiredModules > singlePhaseMaxModules {
		result.Feasible = false
		result.Warnings = append(result.Warnings, "1P supports maximum 3 batteries (15 kWh nominal)")
	}
	return result
}

func evaluateThreePhase(requiredModules int) Result {
	class := ClassThreePhase
	result := Result{
		Feasible:    true,
		Accessories: []string{"junction_box", "smart_meter_3p", "battery_base"},
		Inverter:    inverterSpec(PhaseThree, &class, threePhaseInverterKW, 1),
	}
	junctionsNeeded := (requiredModules + modulesPerJunctionBox - 1) / modulesPerJunctionBox
	if junctionsNeeded > threePhaseMaxJunctions {
		result.Feasible = false
		result.Warnings = append(result.Warnings, "3P supports maximum 3 junction boxes and 9 batteries")
	}
	return result
}

func evaluateThreePhasePlus(requiredModules int, batteryUnitKWh, peakKW float64) Result {
	inverterCount := 1
	if peakKW > plusSingleInverterKW {
		inverterCount = 2
	}

	class := ClassThreePhasePlus
	result := Result{
		Feasible:    true,
		Accessories: []string{"junction_box", "smart_meter_3p", "battery_base", "powerinsight_11"},
		Inverter:    inverterSpec(PhaseThree, &class, plusInverterKW, inverterCount),
	}
	if requiredModules > plusModulesPerInverter*inverterCount {
		result.Feasible = false
		result.Warnings = append(result.Warnings, "3P_PLUS battery count exceeds JB limits")
	}
	if float64(requiredModules)*batteryUnitKWh > plusMaxTotalKWh {
		result.Feasible = false
		result.Warnings = append(result.Warnings, "3P_PLUS total battery exceeds 120 kWh")
	}
	if peakKW > plusDualInverterKW {
		result.Feasible = false
		result.Warnings = append(result.Warnings, "3P_PLUS max AC with 2 inverters is 59.8 kW")
	}
	return result
}

// EvaluateStream applies the inverter-less stream rules: the requested PV
// must fit under the catalog's maximum supported PV (when one exists) and
// at least one battery module must be required.
func EvaluateStream(maxSolarKW, pvKWp float64, requiredModules int) Result {
	streamClass := "STREAM"
	result := Result{
		Feasible:    true,
		Accessories: []string{"wall_bracket"},
		Inverter: InverterSpec{
			Phase: "N/A",
			Class: &streamClass,
			Count: 1,
		},
	}
	if maxSolarKW > 0 && pvKWp > maxSolarKW {
		result.Feasible = false
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("PV %g kWp exceeds STREAM max_solar_kw %g kW", pvKWp, maxSolarKW))
	}
	if requiredModules < 1 {
		result.Feasible = false
		result.Warnings = append(result.Warnings, "STREAM needs at least one battery module")
	}
	return result
}

// Evaluator is the capability sizing dispatches on: one variant per
// family/topology, resolved before scenario enumeration starts.
type Evaluator func(requiredModules int, peakKW float64) Result

// ForFamily resolves the Evaluator for a request. The powerocean variants
// validate phase/class eagerly so an invalid topology fails before any
// scenario is computed.
func ForFamily(family refdata.Family, phase Phase, class *ThreePhaseClass, batteryUnitKWh, pvKWp, maxSolarKW float64) (Evaluator, error) {
	if family == refdata.FamilyStream {
		return func(requiredModules int, _ float64) Result {
			return EvaluateStream(maxSolarKW, pvKWp, requiredModules)
		}, nil
	}

	if _, err := EvaluatePowerOcean(phase, class, 0, batteryUnitKWh, 0); err != nil {
		return nil, err
	}
	return func(requiredModules int, peakKW float64) Result {
		result, _ := EvaluatePowerOcean(phase, class, requiredModules, batteryUnitKWh, peakKW)
		return result
	}, nil
}

func inverterSpec(phase Phase, class *ThreePhaseClass, ratedKW float64, count int) InverterSpec {
	spec := InverterSpec{
		Phase:    string(phase),
		RatedKW:  &ratedKW,
		Count:    count,
		Parallel: count > 1,
	}
	if class != nil {
		v := string(*class)
		spec.Class = &v
	}
	return spec
}

func classString(class *ThreePhaseClass) string {
	if class == nil {
		return "<nil>"
	}
	return string(*class)
}
