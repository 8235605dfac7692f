package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"alfredoptarigan/excel-viewer/internal/models"
	"alfredoptarigan/excel-viewer/internal/repositories"
	"alfredoptarigan/excel-viewer/internal/services"
)

// UploadFailureMessage is the only detail an uploader sees when processing
// fails; the cause is logged.
const UploadFailureMessage = "Error processing file"

const uploadField = "excelFile"

type UploadHandler struct {
	storageService services.StorageService
	extractor      services.SheetExtractor
	store          services.DatasetStore
	uploadRepo     repositories.UploadRepository
	maxFileSize    int64
}

// NewUploadHandler wires the upload flow. uploadRepo may be nil when the
// audit database is disabled.
func NewUploadHandler(
	storageService services.StorageService,
	extractor services.SheetExtractor,
	store services.DatasetStore,
	uploadRepo repositories.UploadRepository,
	maxFileSize int64,
) *UploadHandler {
	return &UploadHandler{
		storageService: storageService,
		extractor:      extractor,
		store:          store,
		uploadRepo:     uploadRepo,
		maxFileSize:    maxFileSize,
	}
}

// HandleUpload handles POST /upload
func (h *UploadHandler) HandleUpload(c *fiber.Ctx) error {
	file, err := c.FormFile(uploadField)
	if err != nil {
		return h.fail(c, "upload", "", "", eris.Wrap(models.ErrMissingFile, err.Error()))
	}

	if file.Size > h.maxFileSize {
		return h.fail(c, "upload", "", file.Filename,
			eris.Errorf("file too large: %d bytes, max %d", file.Size, h.maxFileSize))
	}

	filename, filePath, err := h.storageService.SaveFile(file)
	if err != nil {
		return h.fail(c, "upload", "", file.Filename, err)
	}

	dataset, err := h.extractor.ExtractFile(c.UserContext(), filePath)
	if err != nil {
		// The stored file is kept for diagnosis; the janitor expires it.
		return h.fail(c, "parse", filename, file.Filename, err)
	}

	h.store.Set(*dataset)

	if err := h.storageService.DeleteFile(filename); err != nil {
		zap.L().Warn("failed to delete processed upload",
			zap.String("filename", filename),
			zap.Error(err),
		)
	}

	zap.L().Info("workbook loaded",
		zap.String("original_filename", file.Filename),
		zap.Int("headers", len(dataset.Headers)),
		zap.Int("rows", len(dataset.Rows)),
	)

	h.record(&models.Upload{
		Filename:         filename,
		OriginalFileName: file.Filename,
		Status:           models.UploadProcessed,
		HeaderCount:      len(dataset.Headers),
		RowCount:         len(dataset.Rows),
	})

	return c.Redirect("/view", fiber.StatusFound)
}

func (h *UploadHandler) fail(c *fiber.Ctx, kind, filename, original string, cause error) error {
	zap.L().Error("upload processing failed",
		zap.String("kind", kind),
		zap.String("filename", filename),
		zap.String("original_filename", original),
		zap.Bool("missing_file", errors.Is(cause, models.ErrMissingFile)),
		zap.Bool("unsupported_file", errors.Is(cause, models.ErrUnsupportedFile)),
		zap.Bool("no_worksheet", errors.Is(cause, models.ErrNoWorksheet)),
		zap.String("detail", eris.ToString(cause, true)),
	)

	message := cause.Error()
	h.record(&models.Upload{
		Filename:         filename,
		OriginalFileName: original,
		Status:           models.UploadFailed,
		ErrorMessage:     &message,
	})

	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.Status(fiber.StatusOK).SendString(UploadFailureMessage)
}

func (h *UploadHandler) record(upload *models.Upload) {
	if h.uploadRepo == nil {
		return
	}

	now := time.Now()
	upload.ID = uuid.New()
	upload.CreatedAt = now
	upload.UpdatedAt = now

	if err := h.uploadRepo.Create(upload); err != nil {
		zap.L().Warn("failed to record upload", zap.Error(err))
	}
}
