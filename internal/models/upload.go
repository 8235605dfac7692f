package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrMissingFile     = errors.New("no spreadsheet file in request")
	ErrUnsupportedFile = errors.New("unsupported spreadsheet file")
	ErrNoWorksheet     = errors.New("workbook has no worksheet")
)

type UploadStatus string

const (
	UploadProcessed UploadStatus = "processed"
	UploadFailed    UploadStatus = "failed"
)

// Upload is the audit record of one upload attempt. Cell data is never
// stored.
type Upload struct {
	ID               uuid.UUID    `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Filename         string       `gorm:"type:text" json:"filename"`
	OriginalFileName string       `gorm:"type:text" json:"original_filename"`
	Status           UploadStatus `gorm:"type:text;not null" json:"status"`
	HeaderCount      int          `gorm:"not null;default:0" json:"header_count"`
	RowCount         int          `gorm:"not null;default:0" json:"row_count"`
	ErrorMessage     *string      `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt        time.Time    `gorm:"type:timestamp;default:now()" json:"created_at"`
	UpdatedAt        time.Time    `gorm:"type:timestamp;default:now()" json:"updated_at"`
}

func (u *Upload) TableName() string {
	return "uploads"
}
