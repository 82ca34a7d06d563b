package xlsexport

import "github.com/xuri/excelize/v2"

type column struct {
	title string
	width float64
}

// sheetWriter построчная запись одного листа, первая строка - заголовок
type sheetWriter struct {
	f     *excelize.File
	sheet string
	row   int
}

func newSheetWriter(f *excelize.File, name string) (*sheetWriter, error) {
	if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
		return nil, err
	}
	return &sheetWriter{f: f, sheet: name}, nil
}

func (w *sheetWriter) writeHeader(columns []column) error {
	style, err := w.f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Font:      &excelize.Font{Bold: true, Family: "Times New Roman", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"D9E1F2"}},
	})
	if err != nil {
		return err
	}
	values := make([]interface{}, 0, len(columns))
	for idx, c := range columns {
		name, err := excelize.ColumnNumberToName(idx + 1)
		if err != nil {
			return err
		}
		if err = w.f.SetColWidth(w.sheet, name, name, c.width); err != nil {
			return err
		}
		values = append(values, c.title)
	}
	if err = w.writeRow(values...); err != nil {
		return err
	}
	if err = w.setRowStyle(len(columns), style); err != nil {
		return err
	}
	// заголовок остается на экране при прокрутке
	return w.f.SetPanes(w.sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func (w *sheetWriter) writeRow(values ...interface{}) error {
	w.row++
	cell, err := excelize.CoordinatesToCellName(1, w.row)
	if err != nil {
		return err
	}
	return w.f.SetSheetRow(w.sheet, cell, &values)
}

func (w *sheetWriter) setRowStyle(colCount, style int) error {
	first, err := excelize.CoordinatesToCellName(1, w.row)
	if err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(colCount, w.row)
	if err != nil {
		return err
	}
	return w.f.SetCellStyle(w.sheet, first, last, style)
}

// applyDataStyle стиль ячеек данных, от второй строки до последней записанной
func (w *sheetWriter) applyDataStyle(colCount int) error {
	if w.row < 2 {
		return nil
	}
	style, err := w.f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "top", WrapText: true},
		Font:      &excelize.Font{Family: "Times New Roman", Size: 11},
	})
	if err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(colCount, w.row)
	if err != nil {
		return err
	}
	return w.f.SetCellStyle(w.sheet, "A2", last, style)
}
