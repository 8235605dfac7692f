package repositories

import (
	"github.com/rotisserie/eris"
	"gorm.io/gorm"

	"alfredoptarigan/excel-viewer/internal/models"
)

type UploadRepository interface {
	Create(upload *models.Upload) error
	FindRecent(limit int) ([]models.Upload, error)
}

type uploadRepository struct {
	db *gorm.DB
}

func NewUploadRepository(db *gorm.DB) UploadRepository {
	return &uploadRepository{db: db}
}

// Create implements UploadRepository.
func (r *uploadRepository) Create(upload *models.Upload) error {
	if err := r.db.Create(upload).Error; err != nil {
		return eris.Wrap(err, "failed to create upload record")
	}
	return nil
}

// FindRecent implements UploadRepository.
func (r *uploadRepository) FindRecent(limit int) ([]models.Upload, error) {
	var uploads []models.Upload
	if err := r.db.Order("created_at DESC").Limit(limit).Find(&uploads).Error; err != nil {
		return nil, eris.Wrap(err, "failed to find uploads")
	}
	return uploads, nil
}
