package transcript

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/yigit/gradplanner/internal/app/models"
)

const workbookSheet = "Records"

var workbookHeaders = []string{"Code", "Name", "Credits", "Year", "Term", "Category", "Status", "Grade"}

// EncodeWorkbook writes the records as a single-sheet xlsx file
func EncodeWorkbook(records []models.CourseRecord, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(workbookSheet)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to remove default sheet: %w", err)
	}

	for i, header := range workbookHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(workbookSheet, cell, header)
	}

	for i, r := range records {
		row := i + 2
		grade := ""
		if r.Grade != nil {
			grade = *r.Grade
		}
		values := []interface{}{r.Code, r.Name, r.Credits, r.Year, int(r.Term), string(r.Category), string(r.Status), grade}
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(workbookSheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", row, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
