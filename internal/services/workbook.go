package services

import (
	"github.com/rotisserie/eris"
	"github.com/xuri/excelize/v2"

	"alfredoptarigan/excel-viewer/internal/models"
)

// excelizeSheet adapts an excelize worksheet to Sheet, turning cells into
// the CellValue variants the normalizer understands.
type excelizeSheet struct {
	f      *excelize.File
	name   string
	header []string
	rows   int
}

func newExcelizeSheet(f *excelize.File, name string) (*excelizeSheet, error) {
	rows, err := f.GetRows(name)
	if err != nil {
		return nil, eris.Wrapf(err, "extract: read rows of %q", name)
	}

	var header []string
	if len(rows) > 0 {
		header = rows[0]
	}

	return &excelizeSheet{f: f, name: name, header: header, rows: len(rows)}, nil
}

func (s *excelizeSheet) Name() string     { return s.name }
func (s *excelizeSheet) Header() []string { return s.header }
func (s *excelizeSheet) RowCount() int    { return s.rows }

func (s *excelizeSheet) Cell(col, row int) (models.CellValue, error) {
	ref, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return nil, err
	}

	text, err := s.f.GetCellValue(s.name, ref)
	if err != nil {
		return nil, err
	}

	if ok, target, err := s.f.GetCellHyperLink(s.name, ref); err != nil {
		return nil, err
	} else if ok {
		return models.HyperlinkCell{Target: target, Text: text}, nil
	}

	runs, err := s.f.GetCellRichText(s.name, ref)
	if err != nil {
		return nil, err
	}
	if isRichText(runs) {
		parts := make([]string, len(runs))
		for i, run := range runs {
			parts[i] = run.Text
		}
		return models.RichTextCell{Runs: parts}, nil
	}

	typ, err := s.f.GetCellType(s.name, ref)
	if err != nil {
		return nil, err
	}

	formula, err := s.f.GetCellFormula(s.name, ref)
	if err != nil {
		return nil, err
	}
	if formula != "" {
		return models.FormulaCell{Formula: formula, Result: s.formulaResult(ref, text, typ)}, nil
	}

	if typ == excelize.CellTypeError {
		return models.OtherCell{Fields: map[string]any{"error": text}}, nil
	}
	if text == "" {
		return models.EmptyCell{}, nil
	}
	return models.ScalarCell{Text: text}, nil
}

// formulaResult prefers the value cached in the file and only evaluates the
// formula when no cached value was saved.
func (s *excelizeSheet) formulaResult(ref, cached string, typ excelize.CellType) models.CellValue {
	if typ == excelize.CellTypeError {
		return models.OtherCell{Fields: map[string]any{"error": cached}}
	}
	if cached != "" {
		return models.ScalarCell{Text: cached}
	}
	calculated, err := s.f.CalcCellValue(s.name, ref)
	if err != nil || calculated == "" {
		return models.EmptyCell{}
	}
	return models.ScalarCell{Text: calculated}
}

// isRichText reports whether runs came from formatted text rather than a
// plain shared string.
func isRichText(runs []excelize.RichTextRun) bool {
	if len(runs) > 1 {
		return true
	}
	return len(runs) == 1 && runs[0].Font != nil
}
