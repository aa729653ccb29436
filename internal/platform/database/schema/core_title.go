package schema

// CoreTitleTable represents the 'core.title' table
type CoreTitleTable struct {
	Table    string
	Title    string
	LinkedID string
}

// CoreTitle is the schema definition for core.title
var CoreTitle = CoreTitleTable{
	Table:    "core.title",
	Title:    "title",
	LinkedID: "linkedid",
}
