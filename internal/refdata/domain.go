// Package refdata holds the startup-loaded reference dataset: the location
// yield table, the product catalog, expert load templates, and accessory
// prices. The dataset is validated once at process start and shared
// read-only across requests.
package refdata

import "errors"

// Band is a min/typical/max triple for a measured quantity.
type Band [3]float64

func (b Band) Min() float64 { return b[0] }

func (b Band) Typical() float64 { return b[1] }

func (b Band) Max() float64 { return b[2] }

// Scale returns the band with every element multiplied by factor.
func (b Band) Scale(factor float64) Band {
	return Band{b[0] * factor, b[1] * factor, b[2] * factor}
}

// Add returns the element-wise sum of two bands.
func (b Band) Add(other Band) Band {
	return Band{b[0] + other[0], b[1] + other[1], b[2] + other[2]}
}

// Monotonic reports whether min <= typical <= max.
func (b Band) Monotonic() bool {
	return b[0] <= b[1] && b[1] <= b[2]
}

// Family identifies a hardware product family.
type Family string

const (
	FamilyPowerOcean Family = "powerocean"
	FamilyStream     Family = "stream"
)

// Valid reports whether the family is one of the supported values.
func (f Family) Valid() bool {
	return f == FamilyPowerOcean || f == FamilyStream
}

// Product is one catalog entry. BatteryKWh, InverterKW and MaxSolarKW are
// zero when the product does not carry that rating.
type Product struct {
	ID         string  `json:"product_id"`
	Name       string  `json:"name"`
	Family     Family  `json:"family"`
	Price      float64 `json:"price_try"`
	InverterKW float64 `json:"inverter_kw,omitempty"`
	BatteryKWh float64 `json:"battery_kwh,omitempty"`
	MaxSolarKW float64 `json:"max_solar_kw,omitempty"`
}

// IsBattery reports whether the product is a battery module.
func (p Product) IsBattery() bool { return p.BatteryKWh > 0 }

// LoadTemplate is one named expert load contribution.
type LoadTemplate struct {
	ID        string `json:"id"`
	DailyKWh  Band   `json:"kwh_day"`
	PeakWatts Band   `json:"peak_w"`
}

// RequiredAccessories are the accessory ids every dataset must price.
var RequiredAccessories = []string{
	"junction_box",
	"smart_meter_1p",
	"smart_meter_3p",
	"battery_base",
	"wall_bracket",
	"powerinsight_11",
}

// ErrNoBatteryProduct is returned when the catalog has no battery module
// for any family.
var ErrNoBatteryProduct = errors.New("no battery products available in product catalog")
