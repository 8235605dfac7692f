package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes mounts the page routes and the JSON API on app.
func RegisterRoutes(app *fiber.App, upload *UploadHandler, view *ViewHandler, history *HistoryHandler) {
	app.Get("/", view.HandleIndex)
	app.Post("/upload", upload.HandleUpload)
	app.Get("/view", view.HandleView)

	api := app.Group("/api/v1")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	api.Get("/view", view.HandleViewJSON)
	api.Get("/uploads", history.HandleList)
}

func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
