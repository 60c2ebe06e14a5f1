package submission

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const SummarySheet = "Summary"

// Workbook writes a Summary sheet followed by one sheet per department
// holding that department's records in spreadsheet column order.
func Workbook(batch *Batch) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return nil, fmt.Errorf("rename summary sheet: %w", err)
	}
	if err := writeSummary(f, batch.Summary); err != nil {
		return nil, err
	}

	byDept := map[string][]Record{}
	var order []string
	for _, rec := range batch.Records {
		name := string(rec.Department)
		if _, ok := byDept[name]; !ok {
			order = append(order, name)
		}
		byDept[name] = append(byDept[name], rec)
	}

	for _, name := range order {
		if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("create sheet %q: %w", name, err)
		}
		recs := byDept[name]
		if err := setRow(f, name, 1, toInterfaces(recs[0].Columns())); err != nil {
			return nil, err
		}
		for i, rec := range recs {
			if err := setRow(f, name, i+2, rec.Values()); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSummary(f *excelize.File, s Summary) error {
	row := 1
	if err := setRow(f, SummarySheet, row, []interface{}{"Week of", s.WeekLabel}); err != nil {
		return err
	}
	row += 2
	if err := setRow(f, SummarySheet, row, []interface{}{"Department", "Employee", "Total hours"}); err != nil {
		return err
	}
	for _, g := range s.Groups {
		for _, m := range g.Members {
			row++
			if err := setRow(f, SummarySheet, row, []interface{}{string(g.Department), m.FirstName + " " + m.LastName, m.Total}); err != nil {
				return err
			}
		}
		row++
		if err := setRow(f, SummarySheet, row, []interface{}{string(g.Department), "Subtotal", g.Subtotal}); err != nil {
			return err
		}
	}
	row++
	return setRow(f, SummarySheet, row, []interface{}{"", "Grand total", s.GrandTotal})
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	return nil
}

func toInterfaces(in []string) []interface{} {
	out := make([]interface{}, len(in))
	for i, s := range in {
		out[i] = s
	}
	return out
}
