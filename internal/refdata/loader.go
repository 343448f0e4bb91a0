package refdata

import (
	"embed"
	"encoding/json"
	"fmt"
	"sort"
)

//go:embed datasets/*.json
var datasetFS embed.FS

const (
	yieldDataset       = "datasets/specific_yield.json"
	productDataset     = "datasets/master_productlist.json"
	accessoriesDataset = "datasets/accessories.json"
)

var templateDatasets = []string{
	"datasets/packs_ac1p.json",
	"datasets/packs_ac3p.json",
	"datasets/packs_dc.json",
}

// Load parses and validates the embedded datasets into a Snapshot. Any
// malformed or incomplete record is a hard error; the service must not
// start with a partial dataset.
func Load() (*Snapshot, error) {
	yield, err := loadYield()
	if err != nil {
		return nil, err
	}
	products, err := loadProducts()
	if err != nil {
		return nil, err
	}
	templates, err := loadTemplates()
	if err != nil {
		return nil, err
	}
	accessories, err := loadAccessories()
	if err != nil {
		return nil, err
	}

	return &Snapshot{
		yield:       yield,
		products:    products,
		templates:   templates,
		accessories: accessories,
	}, nil
}

type yieldRow struct {
	Province      string   `json:"province"`
	SpecificYield *float64 `json:"specific_yield_kwh_per_kwp_year"`
}

func loadYield() (map[string]float64, error) {
	var rows []yieldRow
	if err := readDataset(yieldDataset, &rows); err != nil {
		return nil, err
	}

	out := make(map[string]float64, len(rows))
	for i, row := range rows {
		if row.Province == "" || row.SpecificYield == nil {
			return nil, fmt.Errorf("%s: row %d requires province and specific_yield_kwh_per_kwp_year", yieldDataset, i)
		}
		if *row.SpecificYield <= 0 {
			return nil, fmt.Errorf("%s: %s has non-positive specific yield", yieldDataset, row.Province)
		}
		out[row.Province] = *row.SpecificYield
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%s has no valid rows", yieldDataset)
	}
	return out, nil
}

func loadProducts() ([]Product, error) {
	var products []Product
	if err := readDataset(productDataset, &products); err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, fmt.Errorf("%s has no entries", productDataset)
	}

	seen := make(map[string]struct{}, len(products))
	for i, p := range products {
		if p.ID == "" || p.Name == "" {
			return nil, fmt.Errorf("%s: entry %d requires product_id and name", productDataset, i)
		}
		if !p.Family.Valid() {
			return nil, fmt.Errorf("%s: %s has unknown family %q", productDataset, p.ID, p.Family)
		}
		if p.Price <= 0 {
			return nil, fmt.Errorf("%s: %s has non-positive price", productDataset, p.ID)
		}
		if _, dup := seen[p.ID]; dup {
			return nil, fmt.Errorf("%s: duplicate product_id %s", productDataset, p.ID)
		}
		seen[p.ID] = struct{}{}
	}
	return products, nil
}

func loadTemplates() (map[string]LoadTemplate, error) {
	combined := make(map[string]LoadTemplate)
	for _, name := range templateDatasets {
		var pack map[string]struct {
			DailyKWh  []float64 `json:"kwh_day"`
			PeakWatts []float64 `json:"peak_w"`
		}
		if err := readDataset(name, &pack); err != nil {
			return nil, err
		}

		ids := make([]string, 0, len(pack))
		for id := range pack {
			ids = append(ids, id)
		}
		sort.Strings(ids)

		for _, id := range ids {
			entry := pack[id]
			daily, err := toBand(entry.DailyKWh)
			if err != nil {
				return nil, fmt.Errorf("%s: %s kwh_day: %w", name, id, err)
			}
			peak, err := toBand(entry.PeakWatts)
			if err != nil {
				return nil, fmt.Errorf("%s: %s peak_w: %w", name, id, err)
			}
			if _, dup := combined[id]; dup {
				return nil, fmt.Errorf("%s: duplicate template id %s", name, id)
			}
			combined[id] = LoadTemplate{ID: id, DailyKWh: daily, PeakWatts: peak}
		}
	}
	if len(combined) == 0 {
		return nil, fmt.Errorf("load template packs have no entries")
	}
	return combined, nil
}

func loadAccessories() (map[string]float64, error) {
	var raw map[string]float64
	if err := readDataset(accessoriesDataset, &raw); err != nil {
		return nil, err
	}
	for _, key := range RequiredAccessories {
		price, ok := raw[key]
		if !ok {
			return nil, fmt.Errorf("%s missing key: %s", accessoriesDataset, key)
		}
		if price <= 0 {
			return nil, fmt.Errorf("%s: %s has non-positive price", accessoriesDataset, key)
		}
	}
	return raw, nil
}

func toBand(values []float64) (Band, error) {
	if len(values) != 3 {
		return Band{}, fmt.Errorf("expected [min, typical, max], got %d values", len(values))
	}
	b := Band{values[0], values[1], values[2]}
	if b[0] < 0 {
		return Band{}, fmt.Errorf("band values must be non-negative")
	}
	if !b.Monotonic() {
		return Band{}, fmt.Errorf("band values must satisfy min <= typical <= max")
	}
	return b, nil
}

func readDataset(name string, out any) error {
	data, err := datasetFS.ReadFile(name)
	if err != nil {
		return fmt.Errorf("missing dataset file %s: %w", name, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}
