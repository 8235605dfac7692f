package services

import (
	"encoding/json"
	"fmt"
	"html"
	"strings"

	"alfredoptarigan/excel-viewer/internal/models"
)

// NormalizeCell converts a cell into its display string. It never fails:
// values it cannot represent fall back to their JSON form.
func NormalizeCell(value models.CellValue) string {
	switch v := value.(type) {
	case nil:
		return ""
	case models.EmptyCell:
		return ""
	case models.ScalarCell:
		return v.Text
	case models.HyperlinkCell:
		if v.Target != "" && v.Text != "" {
			return anchor(v.Target, v.Text)
		}
		if v.Text != "" {
			return v.Text
		}
		return serialize(map[string]any{"hyperlink": v.Target, "text": v.Text})
	case models.RichTextCell:
		return strings.Join(v.Runs, "")
	case models.FormulaCell:
		if result := NormalizeCell(v.Result); result != "" {
			return result
		}
		return serialize(map[string]any{"formula": v.Formula, "result": nil})
	case models.OtherCell:
		if text, ok := v.Fields["text"].(string); ok && text != "" {
			return text
		}
		return serialize(v.Fields)
	default:
		return serialize(v)
	}
}

func anchor(target, text string) string {
	return fmt.Sprintf(`<a href="%s" target="_blank" rel="noopener noreferrer">%s</a>`,
		html.EscapeString(target), html.EscapeString(text))
}

func serialize(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}
