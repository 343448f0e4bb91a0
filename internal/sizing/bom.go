package sizing

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sunsizer/sunsizer/internal/constraint"
	"github.com/sunsizer/sunsizer/internal/refdata"
)

// inverterProducts maps the resolved powerocean topology to its catalog id.
var inverterProducts = map[string]string{
	"1P":         "1p_6kw_inverter",
	"3P/3P":      "3p_12kw_inverter",
	"3P/3P_PLUS": "3pp_29.9kw_inverter",
}

// BOMItem is one priced line of a bill of materials.
type BOMItem struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Qty       int     `json:"qty"`
	UnitPrice float64 `json:"unit_price_try"`
}

// BOM is the priced bill of materials for one scenario.
type BOM struct {
	Items []BOMItem `json:"items"`
	Capex float64   `json:"capex_try"`
}

func buildBOM(
	family refdata.Family,
	moduleCount int,
	battery refdata.Product,
	inverter constraint.InverterSpec,
	accessories []string,
	snapshot *refdata.Snapshot,
) (BOM, error) {
	items := []BOMItem{{
		ID:        battery.ID,
		Name:      battery.Name,
		Qty:       moduleCount,
		UnitPrice: battery.Price,
	}}

	if family == refdata.FamilyPowerOcean {
		productID, ok := inverterProducts[topologyKey(inverter)]
		if !ok {
			return BOM{}, fmt.Errorf("%w: no inverter mapping for phase/class %s", ErrMissingProduct, topologyKey(inverter))
		}
		product, found := snapshot.ProductByID(productID)
		if !found {
			return BOM{}, fmt.Errorf("%w: inverter product %s required for the selected PowerOcean configuration", ErrMissingProduct, productID)
		}
		items = append(items, BOMItem{
			ID:        product.ID,
			Name:      product.Name,
			Qty:       inverter.Count,
			UnitPrice: product.Price,
		})
	}

	for _, accessoryID := range accessories {
		price, ok := snapshot.AccessoryPrice(accessoryID)
		if !ok {
			return BOM{}, fmt.Errorf("%w: accessory pricing missing for %s", ErrMissingProduct, accessoryID)
		}
		items = append(items, BOMItem{
			ID:        accessoryID,
			Name:      accessoryName(accessoryID),
			Qty:       1,
			UnitPrice: price,
		})
	}

	capex := decimal.Zero
	for _, item := range items {
		line := decimal.NewFromFloat(item.UnitPrice).Mul(decimal.NewFromInt(int64(item.Qty)))
		capex = capex.Add(line)
	}

	return BOM{Items: items, Capex: capex.Round(2).InexactFloat64()}, nil
}

func topologyKey(inverter constraint.InverterSpec) string {
	if inverter.Class == nil {
		return inverter.Phase
	}
	return inverter.Phase + "/" + *inverter.Class
}

func accessoryName(id string) string {
	words := strings.Split(id, "_")
	for i, word := range words {
		if word == "" {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}
