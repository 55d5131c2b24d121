package domain

import (
	"database/sql/driver"
	"encoding/json"
	"strings"
	"time"
)

// DomainType is the local business meaning assigned to a connected database
type DomainType string

const (
	DomainContacts            DomainType = "contacts"
	DomainMedia               DomainType = "media"
	DomainFinancialAsset      DomainType = "financial-asset"
	DomainFinancialPlace      DomainType = "financial-place"
	DomainFinancialInvestment DomainType = "financial-investment"
	DomainTrackingDaily       DomainType = "tracking-daily"
	DomainTrackingWeekly      DomainType = "tracking-weekly"
	DomainTrackingMonthly     DomainType = "tracking-monthly"
	DomainTrackingQuarterly   DomainType = "tracking-quarterly"
	DomainTrackingYearly      DomainType = "tracking-yearly"
	DomainTasks               DomainType = "tasks"
)

// AllDomainTypes lists every domain, in the order webhook reverse lookups scan them
var AllDomainTypes = []DomainType{
	DomainContacts,
	DomainMedia,
	DomainFinancialAsset,
	DomainFinancialPlace,
	DomainFinancialInvestment,
	DomainTrackingDaily,
	DomainTrackingWeekly,
	DomainTrackingMonthly,
	DomainTrackingQuarterly,
	DomainTrackingYearly,
	DomainTasks,
}

// TableName maps a domain to its mirror table
func (d DomainType) TableName() string {
	switch d {
	case DomainContacts:
		return "contacts"
	case DomainMedia:
		return "media_items"
	case DomainFinancialAsset:
		return "financial_assets"
	case DomainFinancialPlace:
		return "financial_places"
	case DomainFinancialInvestment:
		return "financial_investments"
	case DomainTrackingDaily, DomainTrackingWeekly, DomainTrackingMonthly, DomainTrackingQuarterly, DomainTrackingYearly:
		return "tracking_entries"
	case DomainTasks:
		return "task_items"
	}
	return ""
}

// IsTracking reports whether the domain is one of the periodic tracking logs
func (d DomainType) IsTracking() bool {
	return strings.HasPrefix(string(d), "tracking-")
}

// Period returns the tracking period label ("daily", "weekly", ...) or ""
func (d DomainType) Period() string {
	if !d.IsTracking() {
		return ""
	}
	return strings.TrimPrefix(string(d), "tracking-")
}

// Valid reports whether d is a known domain type
func (d DomainType) Valid() bool {
	for _, known := range AllDomainTypes {
		if d == known {
			return true
		}
	}
	return false
}

// domainKeywords drive the display-name suggestion when the user connects a
// database without choosing a domain explicitly. Inference is only a default;
// the connect request can always override it.
var domainKeywords = []struct {
	domain   DomainType
	keywords []string
}{
	{DomainTasks, []string{"task", "todo", "to-do", "action"}},
	{DomainContacts, []string{"contact", "people", "friend"}},
	{DomainMedia, []string{"media", "movie", "book", "watch", "library"}},
	{DomainFinancialInvestment, []string{"investment", "portfolio", "holding"}},
	{DomainFinancialAsset, []string{"asset"}},
	{DomainFinancialPlace, []string{"account", "bank"}},
	{DomainTrackingDaily, []string{"daily"}},
	{DomainTrackingWeekly, []string{"weekly"}},
	{DomainTrackingMonthly, []string{"monthly"}},
	{DomainTrackingQuarterly, []string{"quarterly"}},
	{DomainTrackingYearly, []string{"yearly", "annual"}},
}

// InferDomainType guesses a domain from a database display name.
// Returns "" when nothing matches; callers must treat the result as a
// suggestion, never a classification.
func InferDomainType(databaseName string) DomainType {
	name := strings.ToLower(databaseName)
	for _, entry := range domainKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(name, kw) {
				return entry.domain
			}
		}
	}
	return ""
}

// SchemaProperty is the cached definition of one external property
type SchemaProperty struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

// SchemaMap is the cached property-name -> definition map, stored as JSONB
type SchemaMap map[string]SchemaProperty

func (m SchemaMap) Value() (driver.Value, error) {
	if len(m) == 0 {
		return "{}", nil
	}
	return json.Marshal(m)
}

func (m *SchemaMap) Scan(value interface{}) error {
	if value == nil {
		*m = SchemaMap{}
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
		*m = SchemaMap{}
		return nil
	}
	return json.Unmarshal(bytes, m)
}

// SyncModeManual syncs only on explicit trigger; SyncModeScheduled also
// resyncs on the background scheduler interval.
const (
	SyncModeManual    = "manual"
	SyncModeScheduled = "scheduled"
)

// Binding is one user's connection of one Notion database to one domain
// interpretation. The composite (user, database, domain, period) is unique;
// the same database id may back several bindings.
type Binding struct {
	ID               string     `json:"id" gorm:"primaryKey"`
	UserID           string     `json:"user_id" gorm:"uniqueIndex:idx_binding_key,priority:1;not null"`
	NotionDatabaseID string     `json:"notion_database_id" gorm:"uniqueIndex:idx_binding_key,priority:2;index;not null"`
	DomainType       DomainType `json:"domain_type" gorm:"uniqueIndex:idx_binding_key,priority:3;not null"`
	Period           string     `json:"period,omitempty" gorm:"uniqueIndex:idx_binding_key,priority:4;default:''"`
	DatabaseName     string     `json:"database_name"`
	SchemaProperties SchemaMap  `json:"schema_properties" gorm:"type:jsonb"`
	SyncMode         string     `json:"sync_mode" gorm:"default:manual"`
	LastSync         *time.Time `json:"last_sync,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}
