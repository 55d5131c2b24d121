package repository

import (
	syncdomain "lifedash-backend/internal/sync/domain"
)

// PageLocation is a reverse-lookup hit: which domain table and user mirror a
// given Notion page
type PageLocation struct {
	Table            string
	UserID           string
	NotionDatabaseID string
}

// RecordRepository defines the interface for the per-domain mirror tables.
// Every method takes the target table name because all domain tables share
// the MirrorRecord column shape.
type RecordRepository interface {
	// Upsert creates or updates one record by (user_id, notion_page_id)
	Upsert(table string, record *syncdomain.MirrorRecord) error
	// BulkInsert batch-creates records into an empty mirror (initial sync only)
	BulkInsert(table string, records []*syncdomain.MirrorRecord) error
	// ListForSync loads the mirrored records of one binding, with their
	// normalized snapshots, for the full-sync diff
	ListForSync(table, userID, databaseID string) ([]*syncdomain.MirrorRecord, error)
	// FindByIDs loads records by primary key (semantic search hydration)
	FindByIDs(table, userID string, ids []string) ([]*syncdomain.MirrorRecord, error)
	// ListByUser reads records for the UI (local store only)
	ListByUser(table, userID, period string) ([]*syncdomain.MirrorRecord, error)
	// DeleteByPageIDs removes records that disappeared from a full fetch
	DeleteByPageIDs(table, userID, databaseID string, pageIDs []string) error
	// DeleteByPageID removes one record on a delete notification
	DeleteByPageID(table, userID, pageID string) error
	// LookupPage scans every domain table for a page id (webhook deletes
	// whose payload no longer carries a parent database)
	LookupPage(pageID string) ([]PageLocation, error)
}
