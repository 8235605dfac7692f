package services

import (
	"sync"

	"alfredoptarigan/excel-viewer/internal/models"
)

// DatasetStore holds the most recently uploaded dataset for the lifetime of
// the process.
type DatasetStore interface {
	Get() models.Dataset
	Set(dataset models.Dataset)
}

type datasetStore struct {
	mu      sync.RWMutex
	current models.Dataset
}

func NewDatasetStore() DatasetStore {
	return &datasetStore{}
}

func (s *datasetStore) Get() models.Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Set replaces headers and rows together. Datasets are never merged.
func (s *datasetStore) Set(dataset models.Dataset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = dataset
}
