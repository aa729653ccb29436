package schema

// CoreChapterPageTable represents the 'core.chapterpage' table
type CoreChapterPageTable struct {
	Table      string
	ID         string
	ChapterID  string
	URL        string
	PageNumber string
}

// CoreChapterPage is the schema definition for core.chapterpage
var CoreChapterPage = CoreChapterPageTable{
	Table:      "core.chapterpage",
	ID:         "id",
	ChapterID:  "chapterid",
	URL:        "url",
	PageNumber: "pagenumber",
}
