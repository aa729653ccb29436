package schema

// CoreGenreTable represents the 'core.genre' table
type CoreGenreTable struct {
	Table string
	ID    string
	Name  string
}

// CoreGenre is the schema definition for core.genre
var CoreGenre = CoreGenreTable{
	Table: "core.genre",
	ID:    "id",
	Name:  "name",
}

// CoreMangaGenreTable represents the 'core.mangagenre' junction table
type CoreMangaGenreTable struct {
	Table   string
	MangaID string
	GenreID string
}

// CoreMangaGenre is the schema definition for core.mangagenre
var CoreMangaGenre = CoreMangaGenreTable{
	Table:   "core.mangagenre",
	MangaID: "mangaid",
	GenreID: "genreid",
}
