package notion

// RichText is one text segment of a title or rich_text property
type RichText struct {
	Type      string `json:"type,omitempty"`
	PlainText string `json:"plain_text"`
	Href      string `json:"href,omitempty"`
}

// SelectOption is a select / multi_select / status option
type SelectOption struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// DateValue keeps the full range; End stays nil for single dates
type DateValue struct {
	Start    string  `json:"start"`
	End      *string `json:"end,omitempty"`
	TimeZone *string `json:"time_zone,omitempty"`
}

// FileRef points at either an externally linked or a Notion-hosted file
type FileRef struct {
	Name     string `json:"name,omitempty"`
	Type     string `json:"type,omitempty"`
	External *struct {
		URL string `json:"url"`
	} `json:"external,omitempty"`
	File *struct {
		URL string `json:"url"`
	} `json:"file,omitempty"`
}

// FormulaValue carries its own embedded type tag
type FormulaValue struct {
	Type    string     `json:"type"`
	String  *string    `json:"string,omitempty"`
	Number  *float64   `json:"number,omitempty"`
	Boolean *bool      `json:"boolean,omitempty"`
	Date    *DateValue `json:"date,omitempty"`
}

// RollupValue aggregates related records; Array elements are full properties
type RollupValue struct {
	Type   string     `json:"type"`
	Number *float64   `json:"number,omitempty"`
	Date   *DateValue `json:"date,omitempty"`
	Array  []Property `json:"array,omitempty"`
}

// PageRef is a relation entry (id only, never the related content)
type PageRef struct {
	ID string `json:"id"`
}

// Person is a people property entry
type Person struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// Property is the tagged union Notion uses for every page property.
// Exactly one of the variant fields is populated, selected by Type.
type Property struct {
	ID             string         `json:"id,omitempty"`
	Type           string         `json:"type"`
	Title          []RichText     `json:"title,omitempty"`
	RichText       []RichText     `json:"rich_text,omitempty"`
	Select         *SelectOption  `json:"select,omitempty"`
	MultiSelect    []SelectOption `json:"multi_select,omitempty"`
	Status         *SelectOption  `json:"status,omitempty"`
	Date           *DateValue     `json:"date,omitempty"`
	Number         *float64       `json:"number,omitempty"`
	Checkbox       *bool          `json:"checkbox,omitempty"`
	Files          []FileRef      `json:"files,omitempty"`
	URL            *string        `json:"url,omitempty"`
	Email          *string        `json:"email,omitempty"`
	PhoneNumber    *string        `json:"phone_number,omitempty"`
	Formula        *FormulaValue  `json:"formula,omitempty"`
	Rollup         *RollupValue   `json:"rollup,omitempty"`
	Relation       []PageRef      `json:"relation,omitempty"`
	People         []Person       `json:"people,omitempty"`
	CreatedTime    string         `json:"created_time,omitempty"`
	LastEditedTime string         `json:"last_edited_time,omitempty"`
}

// Parent identifies what a page or database hangs off of
type Parent struct {
	Type       string `json:"type"`
	DatabaseID string `json:"database_id,omitempty"`
	PageID     string `json:"page_id,omitempty"`
}

// PropertySchema is one property definition from a database's schema
type PropertySchema struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// Database is the schema metadata for one Notion database
type Database struct {
	ID             string                    `json:"id"`
	Title          []RichText                `json:"title"`
	Properties     map[string]PropertySchema `json:"properties"`
	CreatedTime    string                    `json:"created_time,omitempty"`
	LastEditedTime string                    `json:"last_edited_time,omitempty"`
}

// Page is one record of a database
type Page struct {
	ID             string              `json:"id"`
	Parent         Parent              `json:"parent"`
	Archived       bool                `json:"archived"`
	Properties     map[string]Property `json:"properties"`
	CreatedTime    string              `json:"created_time,omitempty"`
	LastEditedTime string              `json:"last_edited_time,omitempty"`
}

// QueryResponse is one page of database query results
type QueryResponse struct {
	Results    []Page  `json:"results"`
	HasMore    bool    `json:"has_more"`
	NextCursor *string `json:"next_cursor"`
}

// PlainText returns the first text segment, or empty string
func PlainText(segments []RichText) string {
	if len(segments) == 0 {
		return ""
	}
	return segments[0].PlainText
}

// DatabaseTitle flattens a database's title segments into one display name
func DatabaseTitle(db *Database) string {
	name := ""
	for _, seg := range db.Title {
		name += seg.PlainText
	}
	return name
}
