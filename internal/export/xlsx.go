// Package export renders an analysis report as a spreadsheet.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/sunsizer/sunsizer/internal/analysis"
)

const sheetName = "Analysis"

// sectionOrder fixes the row order; map iteration would shuffle it.
var sectionOrder = []string{
	"inputs",
	"assumptions",
	"expert_load_contributions",
	"confidence",
	"profiles",
	"sizing",
	"bom",
	"performance",
	"economics",
	"co2",
	"warnings",
	"upgrade_paths",
}

// XLSX renders the report as a two-column workbook: one row per top-level
// section with its JSON-stringified content. The flat layout keeps the
// export schema stable while the report itself evolves.
func XLSX(resp *analysis.Response) ([]byte, error) {
	raw, err := json.Marshal(resp)
	if err != nil {
		return nil, fmt.Errorf("encode report: %w", err)
	}
	var sections map[string]json.RawMessage
	if err := json.Unmarshal(raw, &sections); err != nil {
		return nil, fmt.Errorf("decode report sections: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(sheetName, "A1", &[]any{"Section", "Value"}); err != nil {
		return nil, err
	}

	row := 2
	for _, name := range sectionOrder {
		body, ok := sections[name]
		if !ok {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheetName, cell, &[]any{name, string(body)}); err != nil {
			return nil, err
		}
		row++
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
