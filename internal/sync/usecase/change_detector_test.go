package usecase

import (
	"encoding/json"
	"testing"

	syncdomain "lifedash-backend/internal/sync/domain"
	"lifedash-backend/pkg/notion"
)

func TestNormalizeProperty_TimestampsExcluded(t *testing.T) {
	created := notion.Property{Type: "created_time", CreatedTime: "2026-01-01T00:00:00Z"}
	edited := notion.Property{Type: "last_edited_time", LastEditedTime: "2026-02-01T00:00:00Z"}
	if NormalizeProperty(created) != nil || NormalizeProperty(edited) != nil {
		t.Error("timestamp properties must normalize to nil")
	}
}

func TestNormalizeRecord_DropsEmptyProperties(t *testing.T) {
	props := map[string]notion.Property{
		"Name":   {Type: "title", Title: []notion.RichText{{PlainText: "Alice"}}},
		"Notes":  {Type: "rich_text"},
		"Edited": {Type: "last_edited_time", LastEditedTime: "2026-02-01T00:00:00Z"},
	}
	normalized := NormalizeRecord(props)
	if _, ok := normalized["Name"]; !ok {
		t.Error("populated property missing from projection")
	}
	if _, ok := normalized["Edited"]; ok {
		t.Error("timestamp property leaked into projection")
	}
	// Empty rich_text normalizes to "" which is not nil, so it stays
	if _, ok := normalized["Notes"]; !ok {
		t.Error("empty rich_text should normalize to empty string, not drop")
	}
}

func TestNormalizedEqual_TimestampOnlyEditIsUnchanged(t *testing.T) {
	base := map[string]notion.Property{
		"Name":   {Type: "title", Title: []notion.RichText{{PlainText: "Run"}}},
		"Edited": {Type: "last_edited_time", LastEditedTime: "2026-01-01T00:00:00Z"},
	}
	touched := map[string]notion.Property{
		"Name":   {Type: "title", Title: []notion.RichText{{PlainText: "Run"}}},
		"Edited": {Type: "last_edited_time", LastEditedTime: "2026-03-15T09:30:00Z"},
	}
	if !NormalizedEqual(NormalizeRecord(base), NormalizeRecord(touched)) {
		t.Error("edit that only moved the timestamp classified as modified")
	}
}

func TestNormalizedEqual_EndDateChangeDetected(t *testing.T) {
	before := map[string]notion.Property{
		"When": {Type: "date", Date: &notion.DateValue{Start: "2026-05-01", End: strPtr("2026-05-03")}},
	}
	after := map[string]notion.Property{
		"When": {Type: "date", Date: &notion.DateValue{Start: "2026-05-01", End: strPtr("2026-05-04")}},
	}
	if NormalizedEqual(NormalizeRecord(before), NormalizeRecord(after)) {
		t.Error("end-only date change not detected")
	}
}

func TestNormalizedEqual_OptionOrderIsSignificant(t *testing.T) {
	ab := map[string]notion.Property{
		"Tags": {Type: "multi_select", MultiSelect: []notion.SelectOption{{Name: "a"}, {Name: "b"}}},
	}
	ba := map[string]notion.Property{
		"Tags": {Type: "multi_select", MultiSelect: []notion.SelectOption{{Name: "b"}, {Name: "a"}}},
	}
	if NormalizedEqual(NormalizeRecord(ab), NormalizeRecord(ba)) {
		t.Error("reordered options must count as a change, source order is preserved")
	}
}

func TestNormalizedEqual_OptionColorChangeDetected(t *testing.T) {
	red := map[string]notion.Property{
		"Status": {Type: "select", Select: &notion.SelectOption{Name: "active", Color: "red"}},
	}
	blue := map[string]notion.Property{
		"Status": {Type: "select", Select: &notion.SelectOption{Name: "active", Color: "blue"}},
	}
	if NormalizedEqual(NormalizeRecord(red), NormalizeRecord(blue)) {
		t.Error("option recolor not detected")
	}
}

// A projection written to the jsonb column comes back with generic types
// (float64 numbers, []interface{} slices). Equality must survive that round
// trip or every record would re-classify as modified on the next sync.
func TestNormalizedEqual_SurvivesJSONRoundTrip(t *testing.T) {
	props := map[string]notion.Property{
		"Name":   {Type: "title", Title: []notion.RichText{{PlainText: "Ledger"}}},
		"Score":  {Type: "number", Number: numPtr(7)},
		"Tags":   {Type: "multi_select", MultiSelect: []notion.SelectOption{{Name: "x", Color: "red"}}},
		"Done":   {Type: "checkbox", Checkbox: boolPtr(true)},
		"Linked": {Type: "relation", Relation: []notion.PageRef{{ID: "p1"}}},
	}
	fresh := NormalizeRecord(props)

	raw, err := json.Marshal(fresh)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var fromDB syncdomain.JSONMap
	if err := json.Unmarshal(raw, &fromDB); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if !NormalizedEqual(fresh, fromDB) {
		t.Error("projection not equal to its own jsonb round trip")
	}
}

func TestNormalizeProperty_RollupArray(t *testing.T) {
	p := notion.Property{Type: "rollup", Rollup: &notion.RollupValue{
		Type:  "array",
		Array: []notion.Property{{Type: "checkbox", Checkbox: boolPtr(true)}},
	}}
	got, ok := NormalizeProperty(p).([]interface{})
	if !ok || len(got) != 1 || got[0] != true {
		t.Errorf("NormalizeProperty(rollup array) = %v, want [true]", got)
	}
}
