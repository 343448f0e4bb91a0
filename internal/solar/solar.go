// Package solar resolves locations against the yield table and computes
// annualized generation for an installed PV capacity.
package solar

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sunsizer/sunsizer/internal/refdata"
)

// ErrLocationNotFound is returned when no yield table entry matches the
// requested location.
var ErrLocationNotFound = errors.New("location not found in yield dataset")

// Profile is the solar generation estimate for one request.
type Profile struct {
	CanonicalLocation string  `json:"canonical_location"`
	SpecificYield     float64 `json:"yield_kwh_per_kwp_year"`
	AnnualKWh         float64 `json:"annual_kwh"`
	DailyAvgKWh       float64 `json:"daily_avg_kwh"`
}

// Build resolves the location and computes annual and daily generation for
// the installed PV capacity.
func Build(location string, pvKWp float64, snapshot *refdata.Snapshot) (Profile, error) {
	canonical, specificYield, err := Resolve(location, snapshot)
	if err != nil {
		return Profile{}, err
	}
	annual := pvKWp * specificYield
	return Profile{
		CanonicalLocation: canonical,
		SpecificYield:     specificYield,
		AnnualKWh:         annual,
		DailyAvgKWh:       annual / 365.0,
	}, nil
}

// Resolve maps a free-text location to its canonical yield table entry.
// Resolution order: exact match, alias table, then diacritic- and
// case-insensitive fold against every table key.
func Resolve(location string, snapshot *refdata.Snapshot) (string, float64, error) {
	trimmed := strings.TrimSpace(location)

	if specificYield, ok := snapshot.YieldFor(trimmed); ok {
		return trimmed, specificYield, nil
	}

	if canonical, ok := aliases[trimmed]; ok {
		if specificYield, ok := snapshot.YieldFor(canonical); ok {
			return canonical, specificYield, nil
		}
	}

	want := fold(trimmed)
	for _, canonical := range snapshot.LocationNames() {
		if fold(canonical) == want {
			specificYield, _ := snapshot.YieldFor(canonical)
			return canonical, specificYield, nil
		}
	}

	return "", 0, fmt.Errorf("%w: %s", ErrLocationNotFound, location)
}
