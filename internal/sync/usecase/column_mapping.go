package usecase

import (
	"strings"

	syncdomain "lifedash-backend/internal/sync/domain"
	"lifedash-backend/pkg/notion"
)

// columnRule binds one promoted record column to the property display names
// that may fill it. Keywords are checked in order, so a more specific keyword
// ("due") must precede a shorter one it could shadow ("do").
type columnRule struct {
	column   string
	keywords []string
}

// domainColumnRules is the fixed per-domain mapping from known property
// display names to local columns. Properties that match no rule are kept
// verbatim in the record's catch-all map.
var domainColumnRules = map[syncdomain.DomainType][]columnRule{
	syncdomain.DomainContacts: {
		{"name", []string{"name"}},
		{"status", []string{"relationship", "status"}},
		{"category", []string{"group", "circle", "category"}},
		{"date_start", []string{"birthday", "met"}},
		{"image_url", []string{"photo", "picture", "avatar"}},
		{"url", []string{"linkedin", "website", "link"}},
	},
	syncdomain.DomainMedia: {
		{"name", []string{"name", "title"}},
		{"status", []string{"status"}},
		{"category", []string{"type", "genre", "category"}},
		{"number_value", []string{"rating", "score"}},
		{"date_start", []string{"finished", "watched", "read"}},
		{"image_url", []string{"cover", "poster", "image"}},
		{"url", []string{"link", "url"}},
	},
	syncdomain.DomainFinancialAsset: {
		{"name", []string{"name", "asset"}},
		{"category", []string{"type", "category"}},
		{"number_value", []string{"value", "worth", "amount"}},
		{"date_start", []string{"acquired", "purchased"}},
	},
	syncdomain.DomainFinancialPlace: {
		{"name", []string{"name", "institution"}},
		{"category", []string{"type", "category"}},
		{"number_value", []string{"balance", "amount"}},
	},
	syncdomain.DomainFinancialInvestment: {
		{"name", []string{"name", "ticker", "symbol"}},
		{"category", []string{"type", "category"}},
		{"number_value", []string{"value", "shares", "amount"}},
		{"date_start", []string{"bought", "purchased"}},
	},
	syncdomain.DomainTasks: {
		{"name", []string{"name", "task", "title"}},
		{"status", []string{"status", "state"}},
		{"category", []string{"project", "area", "category"}},
		// "due" before "do": a "Due date" property must never land in the
		// do-date column, and vice versa
		{"due_date", []string{"due"}},
		{"do_date", []string{"do"}},
		{"checked", []string{"done", "complete"}},
	},
}

// trackingColumnRules is shared by every tracking period
var trackingColumnRules = []columnRule{
	{"name", []string{"name", "title"}},
	{"status", []string{"status"}},
	{"category", []string{"category", "area"}},
	{"date_start", []string{"date", "week", "month", "quarter", "year"}},
	{"number_value", []string{"score", "value", "count"}},
	{"checked", []string{"done", "complete", "checked"}},
}

func rulesForDomain(d syncdomain.DomainType) []columnRule {
	if d.IsTracking() {
		return trackingColumnRules
	}
	return domainColumnRules[d]
}

// columnForProperty resolves a property display name to a promoted column.
// Exact case-sensitive keyword match wins; a case-insensitive substring
// fallback catches user spellings like "Due Date" or "task name".
func columnForProperty(rules []columnRule, displayName string) string {
	for _, rule := range rules {
		for _, kw := range rule.keywords {
			if displayName == kw {
				return rule.column
			}
		}
	}
	lower := strings.ToLower(displayName)
	for _, rule := range rules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.column
			}
		}
	}
	return ""
}

// BuildRecord decodes a page's full property set into the domain's column
// shape. One column takes the first property that maps onto it; everything
// unmapped lands in the {type, value} catch-all.
func BuildRecord(binding *syncdomain.Binding, page *notion.Page) *syncdomain.MirrorRecord {
	record := &syncdomain.MirrorRecord{
		UserID:           binding.UserID,
		NotionPageID:     page.ID,
		NotionDatabaseID: binding.NotionDatabaseID,
		Period:           binding.DomainType.Period(),
		Properties:       syncdomain.JSONMap{},
	}

	rules := rulesForDomain(binding.DomainType)
	filled := map[string]bool{}

	for name, prop := range page.Properties {
		if prop.Type == "title" && record.Name == "" {
			record.Name = notion.PlainText(prop.Title)
		}

		column := columnForProperty(rules, name)
		if column == "" || filled[column] {
			record.Properties[name] = envelope(name, prop)
			continue
		}

		if applyColumn(record, column, prop) {
			filled[column] = true
		} else {
			record.Properties[name] = envelope(name, prop)
		}
	}

	if record.Name == "" {
		record.Name = syncdomain.UntitledName
	}
	return record
}

// envelope wraps a decoded value with its type tag for the catch-all map
func envelope(name string, prop notion.Property) map[string]interface{} {
	var value interface{}
	if prop.Type == "multi_select" && RetainsStyling(name) {
		value = DecodeStyledOptions(prop)
	} else {
		value = DecodeProperty(prop)
	}
	return map[string]interface{}{"type": prop.Type, "value": value}
}

// applyColumn writes a decoded property into its promoted column. Returns
// false when the decoded shape does not fit the column, so the property is
// preserved in the catch-all instead of being dropped.
func applyColumn(record *syncdomain.MirrorRecord, column string, prop notion.Property) bool {
	switch column {
	case "name":
		if s := DecodeString(DecodeProperty(prop)); s != "" {
			record.Name = s
			return true
		}
	case "status":
		if s := DecodeString(DecodeProperty(prop)); s != "" {
			record.Status = s
			return true
		}
	case "category":
		if s := DecodeString(DecodeProperty(prop)); s != "" {
			record.Category = s
			return true
		}
	case "date_start":
		if start, end, ok := dateRange(prop); ok {
			record.DateStart = start
			record.DateEnd = end
			return true
		}
	case "due_date":
		if start, _, ok := dateRange(prop); ok {
			record.DueDate = start
			return true
		}
	case "do_date":
		if start, _, ok := dateRange(prop); ok {
			record.DoDate = start
			return true
		}
	case "number_value":
		if n, ok := DecodeProperty(prop).(float64); ok {
			record.NumberValue = &n
			return true
		}
	case "checked":
		if b, ok := DecodeProperty(prop).(bool); ok {
			record.Checked = b
			return true
		}
	case "url":
		if s := DecodeString(DecodeProperty(prop)); s != "" {
			record.URL = s
			return true
		}
	case "image_url":
		if url := FirstFileURL(prop); url != "" {
			record.ImageURL = url
			return true
		}
		if s := DecodeString(DecodeProperty(prop)); s != "" {
			record.ImageURL = s
			return true
		}
	}
	return false
}

func dateRange(prop notion.Property) (start, end string, ok bool) {
	if prop.Type != "date" || prop.Date == nil {
		return "", "", false
	}
	start = prop.Date.Start
	if prop.Date.End != nil {
		end = *prop.Date.End
	}
	return start, end, true
}
