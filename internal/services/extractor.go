package services

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"alfredoptarigan/excel-viewer/internal/models"
)

// Sheet is a read-only view of one worksheet. Rows and columns are 1-based.
type Sheet interface {
	Name() string
	Header() []string
	RowCount() int
	Cell(col, row int) (models.CellValue, error)
}

type SheetExtractor interface {
	Extract(ctx context.Context, sheet Sheet) (*models.Dataset, error)
	ExtractFile(ctx context.Context, path string) (*models.Dataset, error)
}

type sheetExtractor struct{}

func NewSheetExtractor() SheetExtractor {
	return &sheetExtractor{}
}

// Extract reads row 1 as the header and every following row up to
// RowCount as a record, blank rows included. Columns pair positionally with
// headers; a duplicated header keeps the value of its last column.
func (e *sheetExtractor) Extract(ctx context.Context, sheet Sheet) (*models.Dataset, error) {
	headers := append([]string{}, sheet.Header()...)
	rowCount := sheet.RowCount()

	rows := make([]models.Row, 0, max(rowCount-1, 0))
	for r := 2; r <= rowCount; r++ {
		if err := ctx.Err(); err != nil {
			return nil, eris.Wrap(err, "extract: cancelled")
		}

		row := make(models.Row, len(headers))
		for i, header := range headers {
			value, err := sheet.Cell(i+1, r)
			if err != nil {
				return nil, eris.Wrapf(err, "extract: read cell (%d,%d) of %q", i+1, r, sheet.Name())
			}
			row[header] = NormalizeCell(value)
		}
		rows = append(rows, row)
	}

	return &models.Dataset{Headers: headers, Rows: rows}, nil
}

// ExtractFile opens a workbook and extracts its first worksheet. Later
// worksheets are ignored.
func (e *sheetExtractor) ExtractFile(ctx context.Context, path string) (*models.Dataset, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "extract: open workbook %s", path)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, eris.Wrapf(models.ErrNoWorksheet, "extract: %s", path)
	}

	sheet, err := newExcelizeSheet(f, sheets[0])
	if err != nil {
		return nil, err
	}

	dataset, err := e.Extract(ctx, sheet)
	if err != nil {
		return nil, err
	}

	zap.L().Debug("worksheet extracted",
		zap.String("path", path),
		zap.String("sheet", sheet.Name()),
		zap.Int("headers", len(dataset.Headers)),
		zap.Int("rows", len(dataset.Rows)),
	)

	return dataset, nil
}
