package handlers

import (
	"bytes"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"alfredoptarigan/excel-viewer/internal/models"
	"alfredoptarigan/excel-viewer/internal/services"
)

type ViewHandler struct {
	store       services.DatasetStore
	filter      services.RowFilter
	renderer    services.Renderer
	searchParam string
}

func NewViewHandler(
	store services.DatasetStore,
	filter services.RowFilter,
	renderer services.Renderer,
	searchParam string,
) *ViewHandler {
	return &ViewHandler{
		store:       store,
		filter:      filter,
		renderer:    renderer,
		searchParam: searchParam,
	}
}

// HandleIndex handles GET /
func (h *ViewHandler) HandleIndex(c *fiber.Ctx) error {
	return h.render(c, services.ViewData{SearchParam: h.searchParam})
}

// HandleView handles GET /view
func (h *ViewHandler) HandleView(c *fiber.Ctx) error {
	dataset := h.store.Get()
	criteria := h.criteria(c)
	result := h.filter.Apply(dataset, criteria)

	return h.render(c, services.ViewData{
		Loaded:      true,
		Headers:     dataset.Headers,
		Rows:        result.Rows,
		Total:       len(dataset.Rows),
		Filters:     h.filterOptions(result, criteria),
		SearchParam: h.searchParam,
		SearchValue: criteria.Search,
	})
}

// HandleViewJSON handles GET /api/v1/view
func (h *ViewHandler) HandleViewJSON(c *fiber.Ctx) error {
	dataset := h.store.Get()
	criteria := h.criteria(c)
	result := h.filter.Apply(dataset, criteria)

	selected := make(map[string]string, len(criteria.Exact)+1)
	for field, value := range criteria.Exact {
		selected[field] = value
	}
	selected[h.searchParam] = criteria.Search

	headers := dataset.Headers
	if headers == nil {
		headers = []string{}
	}
	rows := result.Rows
	if rows == nil {
		rows = []models.Row{}
	}

	return c.JSON(models.ViewResponse{
		Headers:  headers,
		Rows:     rows,
		Filters:  h.filterOptions(result, criteria),
		Selected: selected,
	})
}

// criteria reads one query parameter per exact-match field plus the search
// parameter. Absent parameters do not filter.
func (h *ViewHandler) criteria(c *fiber.Ctx) models.FilterCriteria {
	exact := make(map[string]string)
	for _, field := range h.filter.Fields() {
		if value := c.Query(field); value != "" {
			exact[field] = value
		}
	}
	return models.FilterCriteria{
		Exact:  exact,
		Search: c.Query(h.searchParam),
	}
}

func (h *ViewHandler) filterOptions(result models.FilteredResult, criteria models.FilterCriteria) []models.FilterOptions {
	fields := h.filter.Fields()
	options := make([]models.FilterOptions, 0, len(fields))
	for _, field := range fields {
		options = append(options, models.FilterOptions{
			Field:    field,
			Options:  result.Distinct[field],
			Selected: criteria.Exact[field],
		})
	}
	return options
}

func (h *ViewHandler) render(c *fiber.Ctx, data services.ViewData) error {
	// Render to a buffer first so a template error never leaves a partial page.
	var buf bytes.Buffer
	if err := h.renderer.RenderView(&buf, data); err != nil {
		zap.L().Error("template rendering failed", zap.Error(err))
		return fiber.NewError(fiber.StatusInternalServerError, "template rendering failed")
	}

	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Send(buf.Bytes())
}
