package usecase

import (
	"bytes"
	"encoding/json"

	syncdomain "lifedash-backend/internal/sync/domain"
	"lifedash-backend/pkg/notion"
)

// NormalizeProperty projects one raw property into a comparison-stable form.
// Only property values take part in comparisons: record-level edit timestamps
// (created_time / last_edited_time properties) normalize to nil so an edit
// that changed nothing semantic never classifies as modified. Option lists
// keep source order; re-sorting would break ordering semantics the user chose.
func NormalizeProperty(p notion.Property) interface{} {
	switch p.Type {
	case "title":
		return notion.PlainText(p.Title)
	case "rich_text":
		return notion.PlainText(p.RichText)
	case "select":
		if p.Select == nil {
			return nil
		}
		return optionPair(*p.Select)
	case "status":
		if p.Status == nil {
			return nil
		}
		return optionPair(*p.Status)
	case "multi_select":
		pairs := make([]interface{}, 0, len(p.MultiSelect))
		for _, opt := range p.MultiSelect {
			pairs = append(pairs, optionPair(opt))
		}
		return pairs
	case "date":
		if p.Date == nil {
			return nil
		}
		value := map[string]interface{}{"start": p.Date.Start}
		if p.Date.End != nil {
			value["end"] = *p.Date.End
		}
		return value
	case "number":
		if p.Number == nil {
			return nil
		}
		return *p.Number
	case "checkbox":
		if p.Checkbox == nil {
			return false
		}
		return *p.Checkbox
	case "files":
		urls := make([]interface{}, 0, len(p.Files))
		for _, f := range p.Files {
			urls = append(urls, fileURL(f))
		}
		return urls
	case "url":
		if p.URL == nil {
			return nil
		}
		return *p.URL
	case "email":
		if p.Email == nil {
			return nil
		}
		return *p.Email
	case "phone_number":
		if p.PhoneNumber == nil {
			return nil
		}
		return *p.PhoneNumber
	case "formula":
		return decodeFormula(p.Formula)
	case "rollup":
		return normalizeRollup(p.Rollup)
	case "relation":
		ids := make([]interface{}, 0, len(p.Relation))
		for _, ref := range p.Relation {
			ids = append(ids, ref.ID)
		}
		return ids
	case "people":
		ids := make([]interface{}, 0, len(p.People))
		for _, person := range p.People {
			ids = append(ids, person.ID)
		}
		return ids
	case "created_time", "last_edited_time":
		// Volatile, excluded from the comparison scope
		return nil
	}
	return nil
}

func optionPair(opt notion.SelectOption) map[string]interface{} {
	// Option ids are internal identifiers but stay in the projection; the
	// same option renamed is a semantic change, the same name re-created
	// under a new id is too.
	return map[string]interface{}{"name": opt.Name, "color": opt.Color}
}

func normalizeRollup(r *notion.RollupValue) interface{} {
	if r == nil {
		return nil
	}
	if r.Type != "array" {
		return decodeRollup(r)
	}
	values := make([]interface{}, 0, len(r.Array))
	for _, sub := range r.Array {
		values = append(values, NormalizeProperty(sub))
	}
	return values
}

// NormalizeRecord builds the canonical projection of a full property set.
// Properties that normalize to nil are dropped so that adding an empty
// property to the schema does not flag every record as modified.
func NormalizeRecord(properties map[string]notion.Property) syncdomain.JSONMap {
	normalized := syncdomain.JSONMap{}
	for name, prop := range properties {
		if value := NormalizeProperty(prop); value != nil {
			normalized[name] = value
		}
	}
	return normalized
}

// NormalizedEqual decides structural equality of two projections. Both sides
// are serialized to JSON first (Go sorts object keys), which also erases the
// Go-type differences between a freshly built projection and one read back
// from the jsonb column.
func NormalizedEqual(a, b syncdomain.JSONMap) bool {
	left, err := json.Marshal(a)
	if err != nil {
		return false
	}
	right, err := json.Marshal(b)
	if err != nil {
		return false
	}
	return bytes.Equal(left, right)
}
