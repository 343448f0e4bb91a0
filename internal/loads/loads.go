// Package loads aggregates expert load template selections into demand bands.
package loads

import (
	"errors"
	"fmt"
	"math"

	"github.com/sunsizer/sunsizer/internal/refdata"
)

var (
	ErrUnknownTemplate  = errors.New("unknown expert load template")
	ErrInvalidHoursMode = errors.New("invalid expert hours mode")
)

// HoursMode scales template bands by the declared daily usage intensity.
type HoursMode string

const (
	HoursLow    HoursMode = "low"
	HoursMedium HoursMode = "medium"
	HoursHigh   HoursMode = "high"
)

var hoursModeMultipliers = map[HoursMode]float64{
	HoursLow:    0.6,
	HoursMedium: 1.0,
	HoursHigh:   1.4,
}

// Multiplier returns the scaling factor for the mode.
func (m HoursMode) Multiplier() (float64, error) {
	factor, ok := hoursModeMultipliers[m]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidHoursMode, string(m))
	}
	return factor, nil
}

// Contribution records one template's original and scaled bands for the
// audit section of the response.
type Contribution struct {
	DailyKWhOriginal  refdata.Band `json:"kwh_day_original"`
	PeakWattsOriginal refdata.Band `json:"peak_w_original"`
	DailyKWhScaled    refdata.Band `json:"kwh_day_scaled"`
	PeakWattsScaled   refdata.Band `json:"peak_w_scaled"`
}

// Aggregate is the element-wise sum of the selected templates' scaled
// bands. Peak stays in watts; the consumption model converts.
type Aggregate struct {
	DailyKWh      refdata.Band
	PeakWatts     refdata.Band
	Contributions map[string]Contribution
	HoursMode     HoursMode
	Multiplier    float64
}

// AggregateTemplates sums the selected templates' bands, scaled by the
// hours-mode multiplier. An empty selection yields zero bands. Unknown
// template ids fail the whole call.
func AggregateTemplates(selected []string, snapshot *refdata.Snapshot, mode HoursMode) (Aggregate, error) {
	multiplier, err := mode.Multiplier()
	if err != nil {
		return Aggregate{}, err
	}

	agg := Aggregate{
		Contributions: make(map[string]Contribution, len(selected)),
		HoursMode:     mode,
		Multiplier:    multiplier,
	}
	for _, id := range selected {
		tpl, ok := snapshot.Template(id)
		if !ok {
			return Aggregate{}, fmt.Errorf("%w: %s", ErrUnknownTemplate, id)
		}
		scaledDaily := round4(tpl.DailyKWh.Scale(multiplier))
		scaledPeak := round4(tpl.PeakWatts.Scale(multiplier))
		agg.Contributions[id] = Contribution{
			DailyKWhOriginal:  tpl.DailyKWh,
			PeakWattsOriginal: tpl.PeakWatts,
			DailyKWhScaled:    scaledDaily,
			PeakWattsScaled:   scaledPeak,
		}
		agg.DailyKWh = agg.DailyKWh.Add(scaledDaily)
		agg.PeakWatts = agg.PeakWatts.Add(scaledPeak)
	}
	return agg, nil
}

// round4 keeps the echoed bands to 4 decimals so the audit section stays
// stable across float representations.
func round4(b refdata.Band) refdata.Band {
	for i := range b {
		b[i] = math.Round(b[i]*10000) / 10000
	}
	return b
}
