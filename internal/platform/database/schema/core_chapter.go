package schema

// CoreChapterTable represents the 'core.chapter' table
type CoreChapterTable struct {
	Table          string
	ID             string
	MangaID        string
	ChapterName    string
	ChapterNumber  string
	UpdatedAt      string
	SequenceNumber string
	LastWatchTime  string
}

// CoreChapter is the schema definition for core.chapter
var CoreChapter = CoreChapterTable{
	Table:          "core.chapter",
	ID:             "id",
	MangaID:        "mangaid",
	ChapterName:    "chaptername",
	ChapterNumber:  "chapternumber",
	UpdatedAt:      "updatedat",
	SequenceNumber: "sequencenumber",
	LastWatchTime:  "lastwatchtime",
}

func (t CoreChapterTable) Columns() []string {
	return []string{
		t.ID, t.MangaID, t.ChapterName, t.ChapterNumber, t.UpdatedAt, t.SequenceNumber, t.LastWatchTime,
	}
}
