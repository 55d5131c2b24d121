package repository

import (
	"errors"
	"time"

	syncdomain "lifedash-backend/internal/sync/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// bindingRepository implements BindingRepository interface
type bindingRepository struct {
	db *gorm.DB
}

// NewBindingRepository creates a new instance of bindingRepository
func NewBindingRepository(db *gorm.DB) BindingRepository {
	return &bindingRepository{
		db: db,
	}
}

func (r *bindingRepository) Upsert(binding *syncdomain.Binding) error {
	now := time.Now()
	if binding.ID == "" {
		binding.ID = uuid.New().String()
		binding.CreatedAt = now
	}
	binding.UpdatedAt = now

	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "user_id"},
			{Name: "notion_database_id"},
			{Name: "domain_type"},
			{Name: "period"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"database_name", "schema_properties", "sync_mode", "updated_at",
		}),
	}).Create(binding).Error
}

func (r *bindingRepository) FindByUserDomain(userID string, domainType syncdomain.DomainType, period string) (*syncdomain.Binding, error) {
	var binding syncdomain.Binding
	err := r.db.Where("user_id = ? AND domain_type = ? AND period = ?", userID, domainType, period).First(&binding).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &binding, nil
}

func (r *bindingRepository) FindByDatabaseID(databaseID string) ([]*syncdomain.Binding, error) {
	var bindings []*syncdomain.Binding
	err := r.db.Where("notion_database_id = ?", databaseID).Find(&bindings).Error
	return bindings, err
}

func (r *bindingRepository) ListByUser(userID string) ([]*syncdomain.Binding, error) {
	var bindings []*syncdomain.Binding
	err := r.db.Where("user_id = ?", userID).Order("created_at asc").Find(&bindings).Error
	return bindings, err
}

func (r *bindingRepository) ListScheduled() ([]*syncdomain.Binding, error) {
	var bindings []*syncdomain.Binding
	err := r.db.Where("sync_mode = ?", syncdomain.SyncModeScheduled).Find(&bindings).Error
	return bindings, err
}

func (r *bindingRepository) UpdateSchema(binding *syncdomain.Binding) error {
	binding.UpdatedAt = time.Now()
	return r.db.Model(&syncdomain.Binding{}).Where("id = ?", binding.ID).Updates(map[string]interface{}{
		"schema_properties": binding.SchemaProperties,
		"database_name":     binding.DatabaseName,
		"updated_at":        binding.UpdatedAt,
	}).Error
}

func (r *bindingRepository) UpdateLastSync(binding *syncdomain.Binding) error {
	now := time.Now()
	binding.LastSync = &now
	binding.UpdatedAt = now
	return r.db.Model(&syncdomain.Binding{}).Where("id = ?", binding.ID).Updates(map[string]interface{}{
		"last_sync":  binding.LastSync,
		"updated_at": binding.UpdatedAt,
	}).Error
}

func (r *bindingRepository) Remove(userID, databaseID string, domainType syncdomain.DomainType, period string) error {
	return r.db.Where("user_id = ? AND notion_database_id = ? AND domain_type = ? AND period = ?",
		userID, databaseID, domainType, period).Delete(&syncdomain.Binding{}).Error
}
