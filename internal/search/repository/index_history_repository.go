package repository

import (
	"time"

	searchdomain "lifedash-backend/internal/search/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// indexHistoryRepository implements IndexHistoryRepository interface
type indexHistoryRepository struct {
	db *gorm.DB
}

// NewIndexHistoryRepository creates a new instance of indexHistoryRepository
func NewIndexHistoryRepository(db *gorm.DB) IndexHistoryRepository {
	return &indexHistoryRepository{
		db: db,
	}
}

// IsCurrent checks whether the stored hash matches the text about to be
// embedded. A mismatch (or no row) means the record needs re-embedding.
func (r *indexHistoryRepository) IsCurrent(userID, recordID, textHash string) (bool, error) {
	var history searchdomain.IndexHistory
	err := r.db.Where("user_id = ? AND record_id = ?", userID, recordID).First(&history).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return false, nil
		}
		return false, err
	}
	return history.TextHash == textHash, nil
}

// MarkIndexed records a completed embedding, replacing any previous hash
func (r *indexHistoryRepository) MarkIndexed(userID, recordID, domainTable, textHash string) error {
	var history searchdomain.IndexHistory
	err := r.db.Where("user_id = ? AND record_id = ?", userID, recordID).First(&history).Error

	now := time.Now()
	if err == gorm.ErrRecordNotFound {
		history = searchdomain.IndexHistory{
			ID:          uuid.New().String(),
			UserID:      userID,
			RecordID:    recordID,
			DomainTable: domainTable,
			TextHash:    textHash,
			IndexedAt:   now,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		return r.db.Create(&history).Error
	} else if err != nil {
		return err
	}

	history.DomainTable = domainTable
	history.TextHash = textHash
	history.IndexedAt = now
	history.UpdatedAt = now
	return r.db.Save(&history).Error
}

func (r *indexHistoryRepository) FindByRecordIDs(userID string, recordIDs []string) ([]*searchdomain.IndexHistory, error) {
	var histories []*searchdomain.IndexHistory
	err := r.db.Where("user_id = ? AND record_id IN ?", userID, recordIDs).Find(&histories).Error
	if err != nil {
		return nil, err
	}
	return histories, nil
}

func (r *indexHistoryRepository) DeleteHistory(userID, recordID string) error {
	return r.db.Where("user_id = ? AND record_id = ?", userID, recordID).Delete(&searchdomain.IndexHistory{}).Error
}
