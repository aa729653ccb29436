package schema

// CrawlerSourceTable represents the 'crawler.source' table
type CrawlerSourceTable struct {
	Table    string
	ID       string
	Name     string
	Priority string
}

// CrawlerSource is the schema definition for crawler.source
var CrawlerSource = CrawlerSourceTable{
	Table:    "crawler.source",
	ID:       "id",
	Name:     "name",
	Priority: "priority",
}

func (t CrawlerSourceTable) Columns() []string {
	return []string{t.ID, t.Name, t.Priority}
}
