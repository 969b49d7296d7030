package output

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/vsinha/forecast/pkg/domain/entities"
)

// writeWorkbook saves one sheet per table to filename
func writeWorkbook(filename string, tables ...table) error {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#333333"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	for i, t := range tables {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), t.name); err != nil {
				return fmt.Errorf("set sheet name: %w", err)
			}
		} else if _, err := f.NewSheet(t.name); err != nil {
			return fmt.Errorf("create sheet %s: %w", t.name, err)
		}

		if err := writeSheet(f, t, headerStyle); err != nil {
			return err
		}
	}

	if err := f.SaveAs(filename); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", filename, err)
	}
	return nil
}

func writeSheet(f *excelize.File, t table, headerStyle int) error {
	header := make([]any, len(t.header))
	for i, h := range t.header {
		header[i] = h
	}
	if err := f.SetSheetRow(t.name, "A1", &header); err != nil {
		return fmt.Errorf("write %s header: %w", t.name, err)
	}

	lastCol, err := excelize.ColumnNumberToName(len(t.header))
	if err != nil {
		return fmt.Errorf("%s header: %w", t.name, err)
	}
	if err := f.SetCellStyle(t.name, "A1", lastCol+"1", headerStyle); err != nil {
		return fmt.Errorf("style %s header: %w", t.name, err)
	}
	if err := f.SetColWidth(t.name, "A", lastCol, 14); err != nil {
		return fmt.Errorf("set %s column width: %w", t.name, err)
	}

	for i, row := range t.rows {
		values := make([]any, len(row))
		for j, v := range row {
			// numbers stay numeric; undefined percentages become text
			if p, ok := v.(entities.Percentage); ok {
				if p.Valid {
					values[j] = p.Value
				} else {
					values[j] = entities.UndefinedLabel
				}
				continue
			}
			values[j] = v
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(t.name, cell, &values); err != nil {
			return fmt.Errorf("write %s row %d: %w", t.name, i+2, err)
		}
	}

	return f.SetPanes(t.name, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}
