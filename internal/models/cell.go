package models

// CellValue is the raw content of a worksheet cell as read by the workbook
// adapter. The set of implementations is closed.
type CellValue interface {
	isCellValue()
}

type EmptyCell struct{}

type ScalarCell struct {
	Text string
}

type HyperlinkCell struct {
	Target string
	Text   string
}

type RichTextCell struct {
	Runs []string
}

type FormulaCell struct {
	Formula string
	Result  CellValue
}

// OtherCell carries any structured value the adapter does not model, such as
// error cells.
type OtherCell struct {
	Fields map[string]any
}

func (EmptyCell) isCellValue()     {}
func (ScalarCell) isCellValue()    {}
func (HyperlinkCell) isCellValue() {}
func (RichTextCell) isCellValue()  {}
func (FormulaCell) isCellValue()   {}
func (OtherCell) isCellValue()     {}
