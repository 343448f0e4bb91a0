package analysis

import (
	"github.com/sunsizer/sunsizer/internal/refdata"
)

// Metadata describes every selectable option so clients can build forms
// without hardcoding catalog knowledge.
type Metadata struct {
	Cities                 []string           `json:"cities"`
	SystemFamilies         []string           `json:"system_families"`
	PowerOceanPhaseOptions []string           `json:"powerocean_phase_options"`
	PowerOcean3PClasses    []string           `json:"powerocean_3p_class_options"`
	ExpertLoadTemplates    []string           `json:"expert_load_templates"`
	ExpertHoursModes       []string           `json:"expert_hours_modes"`
	Assumptions            map[string]float64 `json:"assumptions"`
}

// Metadata returns the selectable options derived from the loaded
// snapshot and the active assumptions.
func (s *Service) Metadata() Metadata {
	return Metadata{
		Cities:                 s.snapshot.LocationNames(),
		SystemFamilies:         []string{string(refdata.FamilyPowerOcean), string(refdata.FamilyStream)},
		PowerOceanPhaseOptions: []string{"1P", "3P"},
		PowerOcean3PClasses:    []string{"3P", "3P_PLUS"},
		ExpertLoadTemplates:    s.snapshot.TemplateIDs(),
		ExpertHoursModes:       []string{"low", "medium", "high"},
		Assumptions:            s.assumptions.Map(),
	}
}
