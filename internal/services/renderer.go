package services

import (
	"embed"
	"html"
	"html/template"
	"io"
	"net/url"
	"regexp"

	"github.com/rotisserie/eris"

	"alfredoptarigan/excel-viewer/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

// anchorPattern matches exactly the markup NormalizeCell emits for hyperlink
// cells, whose target and text are already escaped.
var anchorPattern = regexp.MustCompile(`^<a href="([^"<>]*)" target="_blank" rel="noopener noreferrer">([^<>]*)</a>$`)

var safeSchemes = map[string]bool{
	"http":   true,
	"https":  true,
	"mailto": true,
}

type ViewData struct {
	Loaded      bool
	Headers     []string
	Rows        []models.Row
	Total       int
	Filters     []models.FilterOptions
	SearchParam string
	SearchValue string
}

type Renderer interface {
	RenderView(w io.Writer, data ViewData) error
}

type renderer struct {
	tmpl *template.Template
}

func NewRenderer() (Renderer, error) {
	tmpl, err := template.New("excel.html").
		Funcs(template.FuncMap{"cell": CellHTML}).
		ParseFS(templateFS, "templates/excel.html")
	if err != nil {
		return nil, eris.Wrap(err, "failed to parse templates")
	}
	return &renderer{tmpl: tmpl}, nil
}

func (r *renderer) RenderView(w io.Writer, data ViewData) error {
	if err := r.tmpl.ExecuteTemplate(w, "excel.html", data); err != nil {
		return eris.Wrap(err, "failed to render view")
	}
	return nil
}

// CellHTML escapes a display value for the table. Hyperlink anchors produced
// by NormalizeCell pass through unescaped when they point at a web or mail
// target.
func CellHTML(value string) template.HTML {
	if m := anchorPattern.FindStringSubmatch(value); m != nil {
		if u, err := url.Parse(html.UnescapeString(m[1])); err == nil && safeSchemes[u.Scheme] {
			return template.HTML(value)
		}
	}
	return template.HTML(template.HTMLEscapeString(value))
}
