package services

import (
	"bytes"
	"html/template"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/excel-viewer/internal/models"
)

func TestCellHTML(t *testing.T) {
	link := NormalizeCell(models.HyperlinkCell{Target: "https://example.com/a?b=1&c=2", Text: "A & B"})
	assert.Equal(t, template.HTML(link), CellHTML(link))

	mail := NormalizeCell(models.HyperlinkCell{Target: "mailto:qa@example.com", Text: "mail"})
	assert.Equal(t, template.HTML(mail), CellHTML(mail))

	script := NormalizeCell(models.HyperlinkCell{Target: "javascript:alert(1)", Text: "click"})
	assert.NotEqual(t, template.HTML(script), CellHTML(script))
	assert.Contains(t, string(CellHTML(script)), "&lt;a href=")

	assert.Equal(t, template.HTML("&lt;script&gt;x&lt;/script&gt;"), CellHTML("<script>x</script>"))
	assert.Equal(t, template.HTML("plain"), CellHTML("plain"))

	forged := `<a href="https://example.com" target="_blank" rel="noopener noreferrer" onclick="x()">a</a>`
	assert.NotEqual(t, template.HTML(forged), CellHTML(forged))
}

func TestRenderer_RenderView(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	var buf bytes.Buffer
	err = r.RenderView(&buf, ViewData{
		Loaded:  true,
		Headers: []string{"Country", "Profile"},
		Rows: []models.Row{
			{"Country": "US", "Profile": NormalizeCell(models.HyperlinkCell{Target: "https://example.com", Text: "cv"})},
			{"Country": "<b>UK</b>", "Profile": ""},
		},
		Total: 5,
		Filters: []models.FilterOptions{
			{Field: "Country", Options: []string{"US", "<b>UK</b>"}, Selected: "US"},
		},
		SearchParam: "Job_Titles",
		SearchValue: "qa\nlead",
	})
	require.NoError(t, err)

	page := buf.String()
	assert.Contains(t, page, "<th>Country</th>")
	assert.Contains(t, page, `<a href="https://example.com" target="_blank" rel="noopener noreferrer">cv</a>`)
	assert.Contains(t, page, "&lt;b&gt;UK&lt;/b&gt;")
	assert.NotContains(t, page, "<b>UK</b>")
	assert.Contains(t, page, `<option value="US" selected>US</option>`)
	assert.Contains(t, page, `name="Job_Titles"`)
	assert.Contains(t, page, "qa\nlead</textarea>")
	assert.Contains(t, page, "2 of 5 rows")
	assert.Contains(t, page, "</html>")
}

func TestRenderer_RenderEmptyPage(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.RenderView(&buf, ViewData{SearchParam: "Job_Titles"}))

	page := buf.String()
	assert.Contains(t, page, `name="excelFile"`)
	assert.NotContains(t, page, "<table>")
}
