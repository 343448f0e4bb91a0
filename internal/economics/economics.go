// Package economics computes performance ratios, savings, payback and
// carbon figures for a sized system.
package economics

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
	"github.com/sunsizer/sunsizer/internal/config"
)

// Performance is the daily energy-flow summary.
type Performance struct {
	CoverageRatio        float64 `json:"coverage_ratio_typical"`
	SelfConsumptionRatio float64 `json:"self_consumption_ratio_typical"`
	OffsetKWhPerDay      float64 `json:"offset_kwh_per_day_typical"`
}

// Economics is the financial summary for one scenario's capex.
type Economics struct {
	AnnualBill                    float64  `json:"annual_bill_try_est"`
	AnnualSavings                 float64  `json:"annual_savings_try"`
	PaybackSimpleYears            *float64 `json:"payback_simple_years"`
	PaybackInflationAdjustedYears *float64 `json:"payback_inflation_adjusted_years"`
	Capex                         float64  `json:"capex_try"`
}

// CO2 is the avoided-emissions estimate.
type CO2 struct {
	CarbonFactor   float64 `json:"carbon_factor"`
	SavedKgPerYear float64 `json:"co2_saved_kg_per_year"`
}

// CalculatePerformance derives the daily offset and the coverage and
// self-consumption ratios. The offset can never exceed the demand nor the
// deliverable solar-derived energy, and is floored at zero.
func CalculatePerformance(effectiveDailyKWh, dailySolarKWh float64, a config.Assumptions) Performance {
	directUse := dailySolarKWh * a.DirectUseFactor
	storageUse := dailySolarKWh * a.StorageUtilizationFactor
	offset := math.Min(effectiveDailyKWh, math.Min(storageUse, math.Max(0, directUse+storageUse)))

	coverage := 0.0
	if effectiveDailyKWh > 0 {
		coverage = offset / effectiveDailyKWh
	}
	selfConsumption := 0.0
	if dailySolarKWh > 0 {
		selfConsumption = offset / dailySolarKWh
	}

	return Performance{
		CoverageRatio:        round4(coverage),
		SelfConsumptionRatio: round4(selfConsumption),
		OffsetKWhPerDay:      round3(offset),
	}
}

// Calculate evaluates the annual bill, savings and payback for one capex.
// Payback figures are nil whenever savings are non-positive; the division
// never happens.
func Calculate(effectiveDailyKWh, tariff, capex, offsetKWh float64, a config.Assumptions) Economics {
	annualBill := effectiveDailyKWh * tariff * 365
	annualSavings := offsetKWh * tariff * 365

	econ := Economics{
		AnnualBill:    roundMoney(annualBill),
		AnnualSavings: roundMoney(annualSavings),
		Capex:         roundMoney(capex),
	}
	if annualSavings > 0 {
		simple := roundMoney(capex / annualSavings)
		adjusted := roundMoney(capex / (annualSavings * (1 + a.AnnualTariffIncrease)))
		econ.PaybackSimpleYears = &simple
		econ.PaybackInflationAdjustedYears = &adjusted
	}
	return econ
}

// CalculateCO2 estimates avoided emissions from the daily offset.
func CalculateCO2(offsetKWh float64, a config.Assumptions) CO2 {
	return CO2{
		CarbonFactor:   a.CarbonFactor,
		SavedKgPerYear: roundMoney(offsetKWh * 365 * a.CarbonFactor),
	}
}

// OversizedAdvisory flags a selected scenario whose savings do not carry
// its capex: payback beyond the year threshold, or savings below the
// configured fraction of capex. Either condition triggers it. This is a
// presentation heuristic, not a feasibility failure.
func OversizedAdvisory(econ Economics, a config.Assumptions) (string, bool) {
	slowPayback := econ.PaybackSimpleYears != nil && *econ.PaybackSimpleYears > a.OversizedPaybackYears
	thinSavings := econ.Capex > 0 && econ.AnnualSavings < a.OversizedSavingsCapexRatio*econ.Capex
	if !slowPayback && !thinSavings {
		return "", false
	}
	return fmt.Sprintf(
		"Selected scenario looks oversized versus savings: annual savings %.2f TRY against capex %.2f TRY",
		econ.AnnualSavings, econ.Capex,
	), true
}

func roundMoney(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

func round3(v float64) float64 { return math.Round(v*1000) / 1000 }

func round4(v float64) float64 { return math.Round(v*10000) / 10000 }
