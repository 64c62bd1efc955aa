package output

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/covqc/covqc/internal/coverage"
)

// Workbook layout.
const workbookSheet = "Sheet1"

var workbookColumns = []interface{}{"gene", "accession", "exon_position", "percent_x30", "hgnc"}

// WriteExonWorkbook writes one row per flagged exon to an xlsx workbook at
// path, no index column, overwriting any previous run.
func WriteExonWorkbook(path string, issues []coverage.Issue) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetRow(workbookSheet, "A1", &workbookColumns); err != nil {
		return fmt.Errorf("write workbook header: %w", err)
	}

	for i, issue := range issues {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("workbook cell for row %d: %w", i+2, err)
		}
		row := []interface{}{
			issue.Gene,
			issue.Accession,
			issue.ExonPosition,
			issue.Percent30,
			issue.HGNC,
		}
		if err := f.SetSheetRow(workbookSheet, cell, &row); err != nil {
			return fmt.Errorf("write workbook row %d: %w", i+2, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save exon workbook: %w", err)
	}
	return nil
}
