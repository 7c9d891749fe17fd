package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Report"

// RenderXLSX lays the document out top to bottom on a single sheet.
func RenderXLSX(doc Document, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	title, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	if err != nil {
		return fmt.Errorf("create title style: %w", err)
	}

	row := 1
	writeLine := func(values []string, style int) error {
		for i, value := range values {
			cell, err := excelize.CoordinatesToCellName(i+1, row)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return err
			}
			if style != 0 {
				if err := f.SetCellStyle(sheetName, cell, cell, style); err != nil {
					return err
				}
			}
		}
		row++
		return nil
	}

	for _, block := range doc.Blocks {
		var err error
		switch block.Kind {
		case BlockHeading:
			style := bold
			if block.Level == 1 {
				style = title
			}
			err = writeLine([]string{block.Text}, style)
		case BlockParagraph:
			err = writeLine([]string{block.Text}, 0)
		case BlockTable:
			err = writeLine(block.Header, bold)
			for _, values := range block.Rows {
				if err != nil {
					break
				}
				err = writeLine(values, 0)
			}
			row++
		}
		if err != nil {
			return fmt.Errorf("write report row %d: %w", row, err)
		}
	}

	if err := f.SetColWidth(sheetName, "A", "H", 18); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}
	_, err = f.WriteTo(w)
	return err
}
