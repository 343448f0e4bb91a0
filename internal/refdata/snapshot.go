package refdata

import "sort"

// Snapshot is the immutable reference dataset handed to every request. It
// is constructed once by the loader and never mutated afterwards.
type Snapshot struct {
	yield       map[string]float64
	products    []Product
	templates   map[string]LoadTemplate
	accessories map[string]float64
}

// YieldFor returns the specific yield (kWh/kWp/year) for an exact canonical
// location name.
func (s *Snapshot) YieldFor(location string) (float64, bool) {
	v, ok := s.yield[location]
	return v, ok
}

// LocationNames returns the canonical location names in sorted order.
func (s *Snapshot) LocationNames() []string {
	names := make([]string, 0, len(s.yield))
	for name := range s.yield {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Products returns a copy of the product catalog.
func (s *Snapshot) Products() []Product {
	out := make([]Product, len(s.products))
	copy(out, s.products)
	return out
}

// ProductByID returns the catalog entry with the given id.
func (s *Snapshot) ProductByID(id string) (Product, bool) {
	for _, p := range s.products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

// BatteryUnit selects the smallest-capacity battery module for the family,
// falling back to any battery product when the family has none.
func (s *Snapshot) BatteryUnit(family Family) (Product, error) {
	best, found := Product{}, false
	for _, p := range s.products {
		if !p.IsBattery() || p.Family != family {
			continue
		}
		if !found || p.BatteryKWh < best.BatteryKWh {
			best, found = p, true
		}
	}
	if !found {
		for _, p := range s.products {
			if !p.IsBattery() {
				continue
			}
			if !found || p.BatteryKWh < best.BatteryKWh {
				best, found = p, true
			}
		}
	}
	if !found {
		return Product{}, ErrNoBatteryProduct
	}
	return best, nil
}

// MaxSolarKW returns the largest supported PV rating across the family's
// catalog entries; zero when none declares one.
func (s *Snapshot) MaxSolarKW(family Family) float64 {
	max := 0.0
	for _, p := range s.products {
		if p.Family == family && p.MaxSolarKW > max {
			max = p.MaxSolarKW
		}
	}
	return max
}

// Template returns the load template with the given id.
func (s *Snapshot) Template(id string) (LoadTemplate, bool) {
	t, ok := s.templates[id]
	return t, ok
}

// TemplateIDs returns the template ids in sorted order.
func (s *Snapshot) TemplateIDs() []string {
	ids := make([]string, 0, len(s.templates))
	for id := range s.templates {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// AccessoryPrice returns the unit price for an accessory id.
func (s *Snapshot) AccessoryPrice(id string) (float64, bool) {
	v, ok := s.accessories[id]
	return v, ok
}
