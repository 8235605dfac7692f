package services

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"alfredoptarigan/excel-viewer/internal/models"
)

var allowedExtensions = map[string]bool{
	".xlsx": true,
	".xlsm": true,
	".xltx": true,
	".xltm": true,
}

type StorageService interface {
	SaveFile(file *multipart.FileHeader) (string, string, error)
	GetFilePath(filename string) string
	DeleteFile(filename string) error
	PurgeOlderThan(age time.Duration) (int, error)
	EnsureUploadDir() error
}

type storageService struct {
	uploadPath string
	now        func() time.Time
}

func NewStorageService(uploadPath string) StorageService {
	return &storageService{
		uploadPath: uploadPath,
		now:        time.Now,
	}
}

func (s *storageService) EnsureUploadDir() error {
	if err := os.MkdirAll(s.uploadPath, 0755); err != nil {
		return eris.Wrap(err, "failed to create upload directory")
	}

	return nil
}

// SaveFile stores the upload as "<unix millis>-<original name>" and returns
// the stored filename and its full path.
func (s *storageService) SaveFile(file *multipart.FileHeader) (string, string, error) {
	original := filepath.Base(file.Filename)

	ext := strings.ToLower(filepath.Ext(original))
	if !allowedExtensions[ext] {
		return "", "", eris.Wrapf(models.ErrUnsupportedFile, "invalid file extension %q", ext)
	}

	uniqueFilename := fmt.Sprintf("%d-%s", s.now().UnixMilli(), original)
	filePath := filepath.Join(s.uploadPath, uniqueFilename)

	src, err := file.Open()
	if err != nil {
		return "", "", eris.Wrap(err, "failed to open uploaded file")
	}
	defer src.Close()

	dst, err := os.Create(filePath)
	if err != nil {
		return "", "", eris.Wrap(err, "failed to create destination file")
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", "", eris.Wrap(err, "failed to save file")
	}

	return uniqueFilename, filePath, nil
}

func (s *storageService) GetFilePath(filename string) string {
	return filepath.Join(s.uploadPath, filename)
}

func (s *storageService) DeleteFile(filename string) error {
	if err := os.Remove(s.GetFilePath(filename)); err != nil {
		return eris.Wrap(err, "failed to delete file")
	}
	return nil
}

// PurgeOlderThan removes regular files in the upload directory last modified
// more than age ago.
func (s *storageService) PurgeOlderThan(age time.Duration) (int, error) {
	entries, err := os.ReadDir(s.uploadPath)
	if err != nil {
		return 0, eris.Wrap(err, "failed to read upload directory")
	}

	cutoff := s.now().Add(-age)
	removed := 0
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := s.DeleteFile(entry.Name()); err != nil {
			return removed, err
		}
		removed++
	}

	return removed, nil
}
