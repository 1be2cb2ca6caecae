package xlsexport

import "github.com/xuri/excelize/v2"

const (
	fontFamily  = "Calibri"
	columnWidth = 20
)

// sheetWriter appends rows to a single sheet, tracking the current row.
type sheetWriter struct {
	file  *excelize.File
	sheet string
	row   int
}

func newSheetWriter(f *excelize.File, sheet string) *sheetWriter {
	return &sheetWriter{file: f, sheet: sheet}
}

func (w *sheetWriter) skip() {
	w.row++
}

func (w *sheetWriter) line(values ...interface{}) error {
	w.row++
	for idx, value := range values {
		cell, err := excelize.CoordinatesToCellName(idx+1, w.row)
		if err != nil {
			return err
		}
		if err = w.file.SetCellValue(w.sheet, cell, value); err != nil {
			return err
		}
	}
	return nil
}

func (w *sheetWriter) header(titles []string) error {
	values := make([]interface{}, 0, len(titles))
	for _, title := range titles {
		values = append(values, title)
	}
	if err := w.line(values...); err != nil {
		return err
	}
	lastCol, err := excelize.ColumnNumberToName(len(titles))
	if err != nil {
		return err
	}
	if err = w.file.SetColWidth(w.sheet, "A", lastCol, columnWidth); err != nil {
		return err
	}
	return w.style(w.row, w.row, len(titles), &excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center"},
		Font:      &excelize.Font{Bold: true, Family: fontFamily, Size: 11},
	})
}

// style applies s to columns 1..cols of rows from..to.
func (w *sheetWriter) style(from, to, cols int, s *excelize.Style) error {
	if to < from {
		return nil
	}
	id, err := w.file.NewStyle(s)
	if err != nil {
		return err
	}
	first, err := excelize.CoordinatesToCellName(1, from)
	if err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(cols, to)
	if err != nil {
		return err
	}
	return w.file.SetCellStyle(w.sheet, first, last, id)
}

var dataStyle = &excelize.Style{
	Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center", WrapText: true},
	Font:      &excelize.Font{Family: fontFamily, Size: 11},
}
