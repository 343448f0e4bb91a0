package analysis

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sunsizer/sunsizer/internal/constraint"
	"github.com/sunsizer/sunsizer/internal/loads"
	"github.com/sunsizer/sunsizer/internal/refdata"
	"github.com/sunsizer/sunsizer/internal/sizing"
)

// ErrValidation tags every request-contract failure.
var ErrValidation = errors.New("invalid analyze request")

// Request is the analyze contract. Optional numeric fields are pointers so
// that "absent" and "zero" stay distinguishable.
type Request struct {
	SystemFamily       refdata.Family              `json:"system_family"`
	City               string                      `json:"city"`
	PVKWp              float64                     `json:"pv_kwp"`
	TariffTRYPerKWh    float64                     `json:"tariff_try_per_kwh"`
	DailyKWh           float64                     `json:"daily_kwh"`
	AvgKW              *float64                    `json:"avg_kw,omitempty"`
	PeakKW             *float64                    `json:"peak_kw,omitempty"`
	PowerOceanPhase    *constraint.Phase           `json:"powerocean_phase,omitempty"`
	PowerOcean3PClass  *constraint.ThreePhaseClass `json:"powerocean_3p_class,omitempty"`
	SelectedScenarioID sizing.ScenarioID           `json:"selected_scenario_id"`
	ExpertMode         bool                        `json:"expert_mode"`
	ExpertHoursMode    *loads.HoursMode            `json:"expert_hours_mode,omitempty"`
	ExpertLoads        []string                    `json:"expert_loads"`
}

// Normalize validates the contract and applies defaults: S3 when no
// scenario was selected, medium hours mode in expert mode, and a cleared
// template selection outside expert mode.
func (r *Request) Normalize() error {
	r.City = strings.TrimSpace(r.City)

	if !r.SystemFamily.Valid() {
		return fmt.Errorf("%w: unknown system_family %q", ErrValidation, r.SystemFamily)
	}
	if r.City == "" {
		return fmt.Errorf("%w: city is required", ErrValidation)
	}
	if r.PVKWp < 0 {
		return fmt.Errorf("%w: pv_kwp must be >= 0", ErrValidation)
	}
	if r.TariffTRYPerKWh <= 0 {
		return fmt.Errorf("%w: tariff_try_per_kwh must be > 0", ErrValidation)
	}
	if r.DailyKWh <= 0 {
		return fmt.Errorf("%w: daily_kwh must be > 0", ErrValidation)
	}
	if r.AvgKW != nil && *r.AvgKW < 0 {
		return fmt.Errorf("%w: avg_kw must be >= 0", ErrValidation)
	}
	if r.PeakKW != nil && *r.PeakKW < 0 {
		return fmt.Errorf("%w: peak_kw must be >= 0", ErrValidation)
	}

	if err := r.normalizeTopology(); err != nil {
		return err
	}

	if r.SelectedScenarioID == "" {
		r.SelectedScenarioID = sizing.ScenarioNightOnly
	}
	switch r.SelectedScenarioID {
	case sizing.ScenarioTwoDayOutage, sizing.ScenarioOneDayOutage, sizing.ScenarioNightOnly:
	default:
		return fmt.Errorf("%w: unknown selected_scenario_id %q", ErrValidation, r.SelectedScenarioID)
	}

	if !r.ExpertMode {
		r.ExpertLoads = nil
		r.ExpertHoursMode = nil
		return nil
	}
	if r.ExpertHoursMode == nil {
		medium := loads.HoursMedium
		r.ExpertHoursMode = &medium
	}
	if _, err := r.ExpertHoursMode.Multiplier(); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}

func (r *Request) normalizeTopology() error {
	if r.SystemFamily != refdata.FamilyPowerOcean {
		if r.PowerOceanPhase != nil || r.PowerOcean3PClass != nil {
			return fmt.Errorf("%w: powerocean_phase and powerocean_3p_class must be null for %s", ErrValidation, r.SystemFamily)
		}
		return nil
	}

	if r.PowerOceanPhase == nil {
		return fmt.Errorf("%w: powerocean_phase is required when system_family is powerocean", ErrValidation)
	}
	switch *r.PowerOceanPhase {
	case constraint.PhaseSingle:
		if r.PowerOcean3PClass != nil {
			return fmt.Errorf("%w: powerocean_3p_class must be null for 1P", ErrValidation)
		}
	case constraint.PhaseThree:
		if r.PowerOcean3PClass == nil {
			return fmt.Errorf("%w: powerocean_3p_class is required when powerocean_phase is 3P", ErrValidation)
		}
		switch *r.PowerOcean3PClass {
		case constraint.ClassThreePhase, constraint.ClassThreePhasePlus:
		default:
			return fmt.Errorf("%w: unknown powerocean_3p_class %q", ErrValidation, *r.PowerOcean3PClass)
		}
	default:
		return fmt.Errorf("%w: unknown powerocean_phase %q", ErrValidation, *r.PowerOceanPhase)
	}
	return nil
}

func (r *Request) hoursMode() loads.HoursMode {
	if r.ExpertHoursMode == nil {
		return loads.HoursMedium
	}
	return *r.ExpertHoursMode
}

func (r *Request) phase() constraint.Phase {
	if r.PowerOceanPhase == nil {
		return ""
	}
	return *r.PowerOceanPhase
}
