package domain

import "time"

// IndexHistory tracks which records are in the vector store, and the hash of
// the text that was embedded. Unchanged text skips the embedding call.
type IndexHistory struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	UserID      string    `json:"user_id" gorm:"index:idx_user_record;not null"`
	RecordID    string    `json:"record_id" gorm:"index:idx_user_record;not null;uniqueIndex:idx_user_record_unique"`
	DomainTable string    `json:"domain_table" gorm:"not null"`
	TextHash    string    `json:"text_hash"`
	IndexedAt   time.Time `json:"indexed_at"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
