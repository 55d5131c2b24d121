package domain

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// JSONMap is a generic JSON object column (catch-all properties, normalized
// snapshots)
type JSONMap map[string]interface{}

func (m JSONMap) Value() (driver.Value, error) {
	if len(m) == 0 {
		return "{}", nil
	}
	return json.Marshal(m)
}

func (m *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*m = JSONMap{}
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}
	if len(bytes) == 0 {
		*m = JSONMap{}
		return nil
	}
	return json.Unmarshal(bytes, m)
}

// UntitledName is assigned when a record carries no decodable title property
const UntitledName = "Untitled"

// MirrorRecord is the local copy of one Notion page. Every domain table
// (contacts, media_items, tracking_entries, ...) shares this column shape;
// which promoted columns a domain actually fills is decided by its column
// mapping. Properties keeps the {type, value} envelope of fields with no
// promoted column; Normalized is the comparison-stable projection the change
// detector diffs against on the next sync.
type MirrorRecord struct {
	ID               string     `json:"id" gorm:"primaryKey"`
	UserID           string     `json:"user_id" gorm:"index:idx_user_page,unique,priority:1;not null"`
	NotionPageID     string     `json:"notion_page_id" gorm:"index:idx_user_page,unique,priority:2;not null"`
	NotionDatabaseID string     `json:"notion_database_id" gorm:"index;not null"`
	Name             string     `json:"name"`
	Status           string     `json:"status,omitempty"`
	Category         string     `json:"category,omitempty"`
	Period           string     `json:"period,omitempty" gorm:"index;default:''"`
	DateStart        string     `json:"date_start,omitempty"`
	DateEnd          string     `json:"date_end,omitempty"`
	DueDate          string     `json:"due_date,omitempty"`
	DoDate           string     `json:"do_date,omitempty"`
	NumberValue      *float64   `json:"number_value,omitempty"`
	Checked          bool       `json:"checked"`
	URL              string     `json:"url,omitempty"`
	ImageURL         string     `json:"image_url,omitempty"`
	Properties       JSONMap    `json:"properties" gorm:"type:jsonb"`
	Normalized       JSONMap    `json:"-" gorm:"type:jsonb"`
	UpdatedAt        time.Time  `json:"updated_at"`
	LastSyncedAt     time.Time  `json:"last_synced_at"`
}
