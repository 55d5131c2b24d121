package repository

import (
	searchdomain "lifedash-backend/internal/search/domain"
)

// IndexHistoryRepository defines the interface for embedding bookkeeping
type IndexHistoryRepository interface {
	// IsCurrent reports whether a record is already indexed with this text hash
	IsCurrent(userID, recordID, textHash string) (bool, error)
	// MarkIndexed records a completed embedding
	MarkIndexed(userID, recordID, domainTable, textHash string) error
	// FindByRecordIDs maps record ids back to their domain tables
	FindByRecordIDs(userID string, recordIDs []string) ([]*searchdomain.IndexHistory, error)
	// DeleteHistory removes the bookkeeping row for a record
	DeleteHistory(userID, recordID string) error
}
