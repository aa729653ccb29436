package schema

// CoreMangaTable represents the 'core.manga' table
type CoreMangaTable struct {
	Table         string
	ID            string
	LinkedID      string
	IsMain        string
	IsListed      string
	Name          string
	CoverURL      string
	URL           string
	LastUpdated   string
	Status        string
	Description   string
	LastWatchTime string
	PublicID      string
	IsOld         string
	SourceID      string
}

// CoreManga is the schema definition for core.manga
var CoreManga = CoreMangaTable{
	Table:         "core.manga",
	ID:            "id",
	LinkedID:      "linkedid",
	IsMain:        "ismain",
	IsListed:      "islisted",
	Name:          "name",
	CoverURL:      "coverurl",
	URL:           "url",
	LastUpdated:   "lastupdated",
	Status:        "status",
	Description:   "description",
	LastWatchTime: "lastwatchtime",
	PublicID:      "publicid",
	IsOld:         "isold",
	SourceID:      "sourceid",
}

func (t CoreMangaTable) Columns() []string {
	return []string{
		t.ID, t.LinkedID, t.IsMain, t.IsListed, t.Name, t.CoverURL, t.URL, t.LastUpdated,
		t.Status, t.Description, t.LastWatchTime, t.PublicID, t.IsOld, t.SourceID,
	}
}
