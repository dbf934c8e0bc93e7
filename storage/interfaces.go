package storage

import "alice-pipeline/models"

// EnhancedWriter is the interface any storage backend for merged
// records must satisfy.
type EnhancedWriter interface {
	Write(records []models.EnhancedRecord) error
	Close() error
}
