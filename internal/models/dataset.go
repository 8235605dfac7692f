package models

// AllValues is the filter value that disables an exact-match criterion.
const AllValues = "All"

// Row maps a header to the display value of the cell under it. Every header
// of the owning Dataset is present as a key.
type Row map[string]string

// Dataset is the extracted content of one worksheet. Headers are kept
// verbatim, including surrounding whitespace. A nil Headers slice means no
// workbook has been loaded yet.
type Dataset struct {
	Headers []string `json:"headers"`
	Rows    []Row    `json:"rows"`
}

func (d Dataset) Loaded() bool {
	return d.Headers != nil
}

type FilterCriteria struct {
	// Exact holds the requested value per exact-match field. Missing,
	// empty and AllValues entries do not constrain the result.
	Exact map[string]string
	// Search holds newline or comma separated terms.
	Search string
}

type FilteredResult struct {
	Rows     []Row               `json:"rows"`
	Distinct map[string][]string `json:"distinct"`
}
