package handlers

import (
	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/excel-viewer/internal/models"
	"alfredoptarigan/excel-viewer/internal/repositories"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

type HistoryHandler struct {
	uploadRepo repositories.UploadRepository
}

func NewHistoryHandler(uploadRepo repositories.UploadRepository) *HistoryHandler {
	return &HistoryHandler{
		uploadRepo: uploadRepo,
	}
}

// HandleList handles GET /api/v1/uploads
func (h *HistoryHandler) HandleList(c *fiber.Ctx) error {
	if h.uploadRepo == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "upload history is disabled",
		})
	}

	limit := c.QueryInt("limit", defaultHistoryLimit)
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	uploads, err := h.uploadRepo.FindRecent(limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load upload history",
		})
	}

	return c.JSON(models.UploadListResponse{
		Uploads: uploads,
		Count:   len(uploads),
	})
}
