package usecase

import (
	"strings"

	"lifedash-backend/pkg/notion"
)

// DecodeProperty flattens one tagged-union property into a plain value.
// It is total over the type tag: unknown or empty shapes come back as nil,
// never as an error, because the external schema grows property types faster
// than this switch does.
func DecodeProperty(p notion.Property) interface{} {
	switch p.Type {
	case "title":
		return notion.PlainText(p.Title)
	case "rich_text":
		return notion.PlainText(p.RichText)
	case "select":
		if p.Select == nil {
			return nil
		}
		return p.Select.Name
	case "status":
		if p.Status == nil {
			return nil
		}
		return p.Status.Name
	case "multi_select":
		names := make([]string, 0, len(p.MultiSelect))
		for _, opt := range p.MultiSelect {
			names = append(names, opt.Name)
		}
		return names
	case "date":
		if p.Date == nil {
			return nil
		}
		// Keep the full range so {start, end} survives round-trips
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
		files := make([]map[string]interface{}, 0, len(p.Files))
		for _, f := range p.Files {
			entry := map[string]interface{}{"name": f.Name}
			if url := fileURL(f); url != "" {
				entry["url"] = url
			}
			files = append(files, entry)
		}
		return files
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
		return decodeRollup(p.Rollup)
	case "relation":
		ids := make([]string, 0, len(p.Relation))
		for _, ref := range p.Relation {
			ids = append(ids, ref.ID)
		}
		return ids
	case "people":
		names := make([]string, 0, len(p.People))
		for _, person := range p.People {
			if person.Name != "" {
				names = append(names, person.Name)
			} else {
				names = append(names, person.ID)
			}
		}
		return names
	case "created_time":
		return p.CreatedTime
	case "last_edited_time":
		return p.LastEditedTime
	}
	return nil
}

// DecodeStyledOptions keeps {name, color} pairs for multi_select properties
// whose styling is meaningful (tier-style badges rendered by the UI)
func DecodeStyledOptions(p notion.Property) []map[string]string {
	pairs := make([]map[string]string, 0, len(p.MultiSelect))
	for _, opt := range p.MultiSelect {
		pairs = append(pairs, map[string]string{"name": opt.Name, "color": opt.Color})
	}
	return pairs
}

// RetainsStyling reports whether a property's option colors should be kept
// in the decoded envelope instead of plain option names
func RetainsStyling(propertyName string) bool {
	return strings.Contains(strings.ToLower(propertyName), "tier")
}

// FirstFileURL extracts the first usable link from a files property, for
// thumbnails. External links win over hosted-file links within one entry.
func FirstFileURL(p notion.Property) string {
	for _, f := range p.Files {
		if url := fileURL(f); url != "" {
			return url
		}
	}
	return ""
}

func fileURL(f notion.FileRef) string {
	if f.External != nil && f.External.URL != "" {
		return f.External.URL
	}
	if f.File != nil && f.File.URL != "" {
		return f.File.URL
	}
	return ""
}

// decodeFormula branches again on the embedded type tag to reach a primitive
func decodeFormula(f *notion.FormulaValue) interface{} {
	if f == nil {
		return nil
	}
	switch f.Type {
	case "string":
		if f.String == nil {
			return nil
		}
		return *f.String
	case "number":
		if f.Number == nil {
			return nil
		}
		return *f.Number
	case "boolean":
		if f.Boolean == nil {
			return nil
		}
		return *f.Boolean
	case "date":
		if f.Date == nil {
			return nil
		}
		value := map[string]interface{}{"start": f.Date.Start}
		if f.Date.End != nil {
			value["end"] = *f.Date.End
		}
		return value
	}
	return nil
}

func decodeRollup(r *notion.RollupValue) interface{} {
	if r == nil {
		return nil
	}
	switch r.Type {
	case "number":
		if r.Number == nil {
			return nil
		}
		return *r.Number
	case "date":
		if r.Date == nil {
			return nil
		}
		value := map[string]interface{}{"start": r.Date.Start}
		if r.Date.End != nil {
			value["end"] = *r.Date.End
		}
		return value
	case "array":
		values := make([]interface{}, 0, len(r.Array))
		for _, sub := range r.Array {
			values = append(values, DecodeProperty(sub))
		}
		return values
	}
	return nil
}

// DecodeString coerces a decoded value to string, for promoted text columns
func DecodeString(v interface{}) string {
	s, _ := v.(string)
	return s
}
