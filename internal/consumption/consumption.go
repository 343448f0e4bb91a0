// Package consumption merges declared and aggregated demand into one
// effective profile with a confidence label.
package consumption

import (
	"github.com/sunsizer/sunsizer/internal/refdata"
)

// Confidence labels how the effective peak was obtained.
type Confidence string

const (
	ConfidenceHigh Confidence = "HIGH"
	ConfidenceLow  Confidence = "LOW"
)

// Band ratios are a deliberate confidence signal: narrow when the caller
// declared the peak, wide when it had to be inferred.
var (
	declaredPeakRatios = refdata.Band{0.9, 1.0, 1.1}
	inferredPeakRatios = refdata.Band{0.8, 1.0, 1.3}
	dailyEnergyRatios  = refdata.Band{0.8, 1.0, 1.2}
)

// Profile is the effective demand profile for one request.
type Profile struct {
	EffectiveDailyKWh float64
	EffectivePeakKW   float64
	DailyKWhBand      refdata.Band
	PeakKWBand        refdata.Band
	Confidence        Confidence
	PeakInferred      bool
	AvgKWTypical      float64
}

// Input carries the caller-declared demand figures. AvgKW and PeakKW are
// nil when not supplied.
type Input struct {
	DailyKWh float64
	AvgKW    *float64
	PeakKW   *float64
}

// Build resolves the effective demand profile. Daily energy is the larger
// of the declared value and the aggregated typical; the peak is either the
// declared value (HIGH confidence, narrow band) or inferred from average
// power and the default peak multiplier (LOW confidence, wide band).
func Build(in Input, aggDaily, aggPeakWatts refdata.Band, peakMultiplierDefault float64) Profile {
	effectiveDaily := in.DailyKWh
	if aggDaily.Typical() > effectiveDaily {
		effectiveDaily = aggDaily.Typical()
	}

	profile := Profile{
		EffectiveDailyKWh: effectiveDaily,
		DailyKWhBand:      scaleRatios(dailyEnergyRatios, effectiveDaily),
		AvgKWTypical:      effectiveDaily / 24.0,
	}

	if in.PeakKW != nil {
		profile.Confidence = ConfidenceHigh
		profile.EffectivePeakKW = *in.PeakKW
		profile.PeakKWBand = scaleRatios(declaredPeakRatios, profile.EffectivePeakKW)
		return profile
	}

	profile.Confidence = ConfidenceLow
	profile.PeakInferred = true

	hourlyProxyKW := in.DailyKWh / 24.0
	if in.AvgKW != nil {
		hourlyProxyKW = *in.AvgKW
	}
	inferredPeak := hourlyProxyKW * peakMultiplierDefault
	if aggregated := aggPeakWatts.Typical() / 1000.0; aggregated > inferredPeak {
		inferredPeak = aggregated
	}
	profile.EffectivePeakKW = inferredPeak
	profile.PeakKWBand = scaleRatios(inferredPeakRatios, inferredPeak)
	return profile
}

func scaleRatios(ratios refdata.Band, value float64) refdata.Band {
	return ratios.Scale(value)
}
