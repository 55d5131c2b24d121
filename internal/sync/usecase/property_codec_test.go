package usecase

import (
	"reflect"
	"testing"

	"lifedash-backend/pkg/notion"
)

func strPtr(s string) *string   { return &s }
func numPtr(f float64) *float64 { return &f }
func boolPtr(b bool) *bool      { return &b }

func TestDecodeProperty_Title(t *testing.T) {
	p := notion.Property{Type: "title", Title: []notion.RichText{{PlainText: "Buy groceries"}}}
	if got := DecodeProperty(p); got != "Buy groceries" {
		t.Errorf("DecodeProperty(title) = %v, want %q", got, "Buy groceries")
	}
}

func TestDecodeProperty_EmptyVariants(t *testing.T) {
	cases := []struct {
		name string
		prop notion.Property
		want interface{}
	}{
		{"empty select", notion.Property{Type: "select"}, nil},
		{"empty status", notion.Property{Type: "status"}, nil},
		{"empty date", notion.Property{Type: "date"}, nil},
		{"empty number", notion.Property{Type: "number"}, nil},
		{"empty url", notion.Property{Type: "url"}, nil},
		{"empty formula", notion.Property{Type: "formula"}, nil},
		{"empty title", notion.Property{Type: "title"}, ""},
	}
	for _, tc := range cases {
		if got := DecodeProperty(tc.prop); got != tc.want {
			t.Errorf("%s: DecodeProperty() = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestDecodeProperty_EmptyCheckboxIsFalse(t *testing.T) {
	if got := DecodeProperty(notion.Property{Type: "checkbox"}); got != false {
		t.Errorf("DecodeProperty(empty checkbox) = %v, want false", got)
	}
}

func TestDecodeProperty_UnknownTypeIsNil(t *testing.T) {
	p := notion.Property{Type: "verification"}
	if got := DecodeProperty(p); got != nil {
		t.Errorf("DecodeProperty(unknown type) = %v, want nil", got)
	}
}

func TestDecodeProperty_MultiSelect(t *testing.T) {
	p := notion.Property{Type: "multi_select", MultiSelect: []notion.SelectOption{
		{Name: "fantasy", Color: "purple"},
		{Name: "fiction", Color: "blue"},
	}}
	got := DecodeProperty(p)
	want := []string{"fantasy", "fiction"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DecodeProperty(multi_select) = %v, want %v", got, want)
	}
}

func TestDecodeProperty_DateRange(t *testing.T) {
	p := notion.Property{Type: "date", Date: &notion.DateValue{Start: "2026-01-10", End: strPtr("2026-01-12")}}
	got, ok := DecodeProperty(p).(map[string]interface{})
	if !ok {
		t.Fatalf("DecodeProperty(date) = %T, want map", DecodeProperty(p))
	}
	if got["start"] != "2026-01-10" || got["end"] != "2026-01-12" {
		t.Errorf("DecodeProperty(date) = %v, want start/end preserved", got)
	}

	single := notion.Property{Type: "date", Date: &notion.DateValue{Start: "2026-01-10"}}
	got = DecodeProperty(single).(map[string]interface{})
	if _, present := got["end"]; present {
		t.Errorf("DecodeProperty(single date) carries end = %v, want absent", got["end"])
	}
}

func TestDecodeProperty_FormulaBranchesOnTag(t *testing.T) {
	str := notion.Property{Type: "formula", Formula: &notion.FormulaValue{Type: "string", String: strPtr("overdue")}}
	if got := DecodeProperty(str); got != "overdue" {
		t.Errorf("DecodeProperty(string formula) = %v, want %q", got, "overdue")
	}

	num := notion.Property{Type: "formula", Formula: &notion.FormulaValue{Type: "number", Number: numPtr(42)}}
	if got := DecodeProperty(num); got != 42.0 {
		t.Errorf("DecodeProperty(number formula) = %v, want 42", got)
	}

	// Tag says number but the number field is empty
	hollow := notion.Property{Type: "formula", Formula: &notion.FormulaValue{Type: "number"}}
	if got := DecodeProperty(hollow); got != nil {
		t.Errorf("DecodeProperty(hollow formula) = %v, want nil", got)
	}
}

func TestDecodeProperty_RollupArrayRecurses(t *testing.T) {
	p := notion.Property{Type: "rollup", Rollup: &notion.RollupValue{
		Type: "array",
		Array: []notion.Property{
			{Type: "number", Number: numPtr(3)},
			{Type: "select", Select: &notion.SelectOption{Name: "done"}},
		},
	}}
	got, ok := DecodeProperty(p).([]interface{})
	if !ok {
		t.Fatalf("DecodeProperty(rollup array) = %T, want slice", DecodeProperty(p))
	}
	if len(got) != 2 || got[0] != 3.0 || got[1] != "done" {
		t.Errorf("DecodeProperty(rollup array) = %v, want [3 done]", got)
	}
}

func TestDecodeProperty_Relation(t *testing.T) {
	p := notion.Property{Type: "relation", Relation: []notion.PageRef{{ID: "a"}, {ID: "b"}}}
	got := DecodeProperty(p)
	if !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("DecodeProperty(relation) = %v, want ids only", got)
	}
}

func TestFirstFileURL_ExternalWinsOverHosted(t *testing.T) {
	p := notion.Property{Type: "files", Files: []notion.FileRef{
		{
			Name:     "cover",
			External: &struct {
				URL string `json:"url"`
			}{URL: "https://img.example/cover.jpg"},
			File: &struct {
				URL string `json:"url"`
			}{URL: "https://hosted.example/expiring.jpg"},
		},
	}}
	if got := FirstFileURL(p); got != "https://img.example/cover.jpg" {
		t.Errorf("FirstFileURL() = %q, want external link", got)
	}
}

func TestFirstFileURL_FallsBackToHosted(t *testing.T) {
	p := notion.Property{Type: "files", Files: []notion.FileRef{
		{
			File: &struct {
				URL string `json:"url"`
			}{URL: "https://hosted.example/file.jpg"},
		},
	}}
	if got := FirstFileURL(p); got != "https://hosted.example/file.jpg" {
		t.Errorf("FirstFileURL() = %q, want hosted link", got)
	}
	if got := FirstFileURL(notion.Property{Type: "files"}); got != "" {
		t.Errorf("FirstFileURL(no files) = %q, want empty", got)
	}
}

func TestRetainsStyling(t *testing.T) {
	if !RetainsStyling("Tier") || !RetainsStyling("Friend Tier") {
		t.Error("RetainsStyling should match tier-style property names")
	}
	if RetainsStyling("Tags") {
		t.Error("RetainsStyling should not match plain option properties")
	}
}

func TestDecodeStyledOptions(t *testing.T) {
	p := notion.Property{Type: "multi_select", MultiSelect: []notion.SelectOption{
		{Name: "S", Color: "gold"},
	}}
	got := DecodeStyledOptions(p)
	if len(got) != 1 || got[0]["name"] != "S" || got[0]["color"] != "gold" {
		t.Errorf("DecodeStyledOptions() = %v, want name and color kept", got)
	}
}
