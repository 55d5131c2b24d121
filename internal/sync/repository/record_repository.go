package repository

import (
	"time"

	syncdomain "lifedash-backend/internal/sync/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// bulkInsertBatchSize limits initial bulk inserts; steady-state syncs upsert
// record by record
const bulkInsertBatchSize = 100

// recordUpdateColumns are the columns an upsert refreshes on conflict
var recordUpdateColumns = []string{
	"notion_database_id", "name", "status", "category", "period",
	"date_start", "date_end", "due_date", "do_date", "number_value",
	"checked", "url", "image_url", "properties", "normalized",
	"updated_at", "last_synced_at",
}

// recordRepository implements RecordRepository interface
type recordRepository struct {
	db *gorm.DB
}

// NewRecordRepository creates a new instance of recordRepository
func NewRecordRepository(db *gorm.DB) RecordRepository {
	return &recordRepository{
		db: db,
	}
}

func (r *recordRepository) Upsert(table string, record *syncdomain.MirrorRecord) error {
	stamp(record)
	return r.db.Table(table).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "user_id"},
			{Name: "notion_page_id"},
		},
		DoUpdates: clause.AssignmentColumns(recordUpdateColumns),
	}).Create(record).Error
}

func (r *recordRepository) BulkInsert(table string, records []*syncdomain.MirrorRecord) error {
	if len(records) == 0 {
		return nil
	}
	for _, record := range records {
		stamp(record)
	}
	return r.db.Table(table).CreateInBatches(records, bulkInsertBatchSize).Error
}

func (r *recordRepository) ListForSync(table, userID, databaseID string) ([]*syncdomain.MirrorRecord, error) {
	var records []*syncdomain.MirrorRecord
	err := r.db.Table(table).
		Select("id", "user_id", "notion_page_id", "notion_database_id", "normalized").
		Where("user_id = ? AND notion_database_id = ?", userID, databaseID).
		Find(&records).Error
	return records, err
}

func (r *recordRepository) ListByUser(table, userID, period string) ([]*syncdomain.MirrorRecord, error) {
	var records []*syncdomain.MirrorRecord
	query := r.db.Table(table).Where("user_id = ?", userID)
	if period != "" {
		query = query.Where("period = ?", period)
	}
	err := query.Order("updated_at desc").Find(&records).Error
	return records, err
}

func (r *recordRepository) FindByIDs(table, userID string, ids []string) ([]*syncdomain.MirrorRecord, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var records []*syncdomain.MirrorRecord
	err := r.db.Table(table).
		Where("user_id = ? AND id IN ?", userID, ids).
		Find(&records).Error
	return records, err
}

func (r *recordRepository) DeleteByPageIDs(table, userID, databaseID string, pageIDs []string) error {
	if len(pageIDs) == 0 {
		return nil
	}
	return r.db.Table(table).
		Where("user_id = ? AND notion_database_id = ? AND notion_page_id IN ?", userID, databaseID, pageIDs).
		Delete(&syncdomain.MirrorRecord{}).Error
}

func (r *recordRepository) DeleteByPageID(table, userID, pageID string) error {
	return r.db.Table(table).
		Where("user_id = ? AND notion_page_id = ?", userID, pageID).
		Delete(&syncdomain.MirrorRecord{}).Error
}

func (r *recordRepository) LookupPage(pageID string) ([]PageLocation, error) {
	var locations []PageLocation
	for _, table := range MirrorTables() {
		var rows []syncdomain.MirrorRecord
		err := r.db.Table(table).
			Select("user_id", "notion_database_id").
			Where("notion_page_id = ?", pageID).
			Find(&rows).Error
		if err != nil {
			return nil, err
		}
		for _, row := range rows {
			locations = append(locations, PageLocation{
				Table:            table,
				UserID:           row.UserID,
				NotionDatabaseID: row.NotionDatabaseID,
			})
		}
	}
	return locations, nil
}

// MirrorTables returns the distinct domain tables (tracking periods share one)
func MirrorTables() []string {
	seen := map[string]bool{}
	var tables []string
	for _, d := range syncdomain.AllDomainTypes {
		table := d.TableName()
		if !seen[table] {
			seen[table] = true
			tables = append(tables, table)
		}
	}
	return tables
}

func stamp(record *syncdomain.MirrorRecord) {
	now := time.Now()
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	record.UpdatedAt = now
	record.LastSyncedAt = now
}
