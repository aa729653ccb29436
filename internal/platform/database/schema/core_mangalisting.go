package schema

// CoreMangaListingTable represents the 'core.mangalisting' projection table
type CoreMangaListingTable struct {
	Table       string
	MangaID     string
	Name        string
	CoverURL    string
	Genres      string
	Description string
}

// CoreMangaListing is the schema definition for core.mangalisting
var CoreMangaListing = CoreMangaListingTable{
	Table:       "core.mangalisting",
	MangaID:     "mangaid",
	Name:        "name",
	CoverURL:    "coverurl",
	Genres:      "genres",
	Description: "description",
}
