package usecase

import (
	"testing"

	syncdomain "lifedash-backend/internal/sync/domain"
	"lifedash-backend/pkg/notion"
)

func taskBinding() *syncdomain.Binding {
	return &syncdomain.Binding{
		UserID:           "u1",
		NotionDatabaseID: "db1",
		DomainType:       syncdomain.DomainTasks,
	}
}

func TestColumnForProperty_DueAndDoNeverCrossMatch(t *testing.T) {
	rules := rulesForDomain(syncdomain.DomainTasks)

	cases := map[string]string{
		"Due Date": "due_date",
		"due":      "due_date",
		"Do Date":  "do_date",
		"Do":       "do_date",
	}
	for name, want := range cases {
		if got := columnForProperty(rules, name); got != want {
			t.Errorf("columnForProperty(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestColumnForProperty_ExactMatchBeforeSubstring(t *testing.T) {
	rules := rulesForDomain(syncdomain.DomainContacts)
	// "status" is an exact keyword even though "relationship" is listed first
	if got := columnForProperty(rules, "status"); got != "status" {
		t.Errorf("columnForProperty(status) = %q, want status", got)
	}
	// Substring fallback is case-insensitive
	if got := columnForProperty(rules, "Relationship Level"); got != "status" {
		t.Errorf("columnForProperty(Relationship Level) = %q, want status", got)
	}
	if got := columnForProperty(rules, "Shoe Size"); got != "" {
		t.Errorf("columnForProperty(Shoe Size) = %q, want no match", got)
	}
}

func TestBuildRecord_PromotesKnownColumns(t *testing.T) {
	page := &notion.Page{
		ID: "page-1",
		Properties: map[string]notion.Property{
			"Task":     {Type: "title", Title: []notion.RichText{{PlainText: "File taxes"}}},
			"Status":   {Type: "status", Status: &notion.SelectOption{Name: "In progress"}},
			"Due Date": {Type: "date", Date: &notion.DateValue{Start: "2026-04-15"}},
			"Do Date":  {Type: "date", Date: &notion.DateValue{Start: "2026-04-01"}},
			"Done":     {Type: "checkbox", Checkbox: boolPtr(false)},
		},
	}

	record := BuildRecord(taskBinding(), page)

	if record.Name != "File taxes" {
		t.Errorf("Name = %q, want %q", record.Name, "File taxes")
	}
	if record.Status != "In progress" {
		t.Errorf("Status = %q, want %q", record.Status, "In progress")
	}
	if record.DueDate != "2026-04-15" {
		t.Errorf("DueDate = %q, want 2026-04-15", record.DueDate)
	}
	if record.DoDate != "2026-04-01" {
		t.Errorf("DoDate = %q, want 2026-04-01", record.DoDate)
	}
	if record.Checked {
		t.Error("Checked = true, want false")
	}
	if record.NotionPageID != "page-1" || record.NotionDatabaseID != "db1" {
		t.Errorf("identity fields wrong: %q %q", record.NotionPageID, record.NotionDatabaseID)
	}
}

func TestBuildRecord_UnmappedPropertyKeptInCatchAll(t *testing.T) {
	page := &notion.Page{
		ID: "page-2",
		Properties: map[string]notion.Property{
			"Task":   {Type: "title", Title: []notion.RichText{{PlainText: "Call plumber"}}},
			"Effort": {Type: "select", Select: &notion.SelectOption{Name: "low"}},
		},
	}

	record := BuildRecord(taskBinding(), page)

	raw, ok := record.Properties["Effort"]
	if !ok {
		t.Fatal("unmapped property dropped instead of kept in catch-all")
	}
	env := raw.(map[string]interface{})
	if env["type"] != "select" || env["value"] != "low" {
		t.Errorf("catch-all envelope = %v, want type/value pair", env)
	}
}

func TestBuildRecord_UntitledFallback(t *testing.T) {
	page := &notion.Page{
		ID: "page-3",
		Properties: map[string]notion.Property{
			"Task": {Type: "title"},
		},
	}
	record := BuildRecord(taskBinding(), page)
	if record.Name != syncdomain.UntitledName {
		t.Errorf("Name = %q, want %q", record.Name, syncdomain.UntitledName)
	}
}

func TestBuildRecord_TrackingPeriodStamped(t *testing.T) {
	binding := &syncdomain.Binding{
		UserID:           "u1",
		NotionDatabaseID: "db2",
		DomainType:       syncdomain.DomainTrackingWeekly,
	}
	page := &notion.Page{
		ID: "page-4",
		Properties: map[string]notion.Property{
			"Name": {Type: "title", Title: []notion.RichText{{PlainText: "Week 14"}}},
			"Date": {Type: "date", Date: &notion.DateValue{Start: "2026-03-30", End: strPtr("2026-04-05")}},
		},
	}
	record := BuildRecord(binding, page)
	if record.Period != "weekly" {
		t.Errorf("Period = %q, want weekly", record.Period)
	}
	if record.DateStart != "2026-03-30" || record.DateEnd != "2026-04-05" {
		t.Errorf("date range = %q..%q, want full range kept", record.DateStart, record.DateEnd)
	}
}

func TestBuildRecord_MismatchedShapeFallsToCatchAll(t *testing.T) {
	// A property named like a number column but holding text must not be
	// silently dropped
	binding := &syncdomain.Binding{
		UserID:           "u1",
		NotionDatabaseID: "db3",
		DomainType:       syncdomain.DomainMedia,
	}
	page := &notion.Page{
		ID: "page-5",
		Properties: map[string]notion.Property{
			"Title":  {Type: "title", Title: []notion.RichText{{PlainText: "Dune"}}},
			"Rating": {Type: "rich_text", RichText: []notion.RichText{{PlainText: "five stars"}}},
		},
	}
	record := BuildRecord(binding, page)
	if record.NumberValue != nil {
		t.Errorf("NumberValue = %v, want nil for text-shaped rating", *record.NumberValue)
	}
	if _, ok := record.Properties["Rating"]; !ok {
		t.Error("mismatched property missing from catch-all")
	}
}

func TestInferDomainType(t *testing.T) {
	cases := map[string]syncdomain.DomainType{
		"Action Items":  syncdomain.DomainTasks,
		"My Contacts":   syncdomain.DomainContacts,
		"Media Library": syncdomain.DomainMedia,
		"Weekly Review": syncdomain.DomainTrackingWeekly,
		"Grocery List":  "",
	}
	for name, want := range cases {
		if got := syncdomain.InferDomainType(name); got != want {
			t.Errorf("InferDomainType(%q) = %q, want %q", name, got, want)
		}
	}
}
