package models

type FilterOptions struct {
	Field    string   `json:"field"`
	Options  []string `json:"options"`
	Selected string   `json:"selected"`
}

type ViewResponse struct {
	Headers  []string          `json:"headers"`
	Rows     []Row             `json:"rows"`
	Filters  []FilterOptions   `json:"filters"`
	Selected map[string]string `json:"selected"`
}

type UploadListResponse struct {
	Uploads []Upload `json:"uploads"`
	Count   int      `json:"count"`
}
