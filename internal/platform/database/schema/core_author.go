package schema

// CoreAuthorTable represents the 'core.author' table
type CoreAuthorTable struct {
	Table string
	ID    string
	Name  string
}

// CoreAuthor is the schema definition for core.author
var CoreAuthor = CoreAuthorTable{
	Table: "core.author",
	ID:    "id",
	Name:  "name",
}

// CoreMangaCreditTable represents a manga-to-author junction table.
// Authors and artists share the core.author pool and differ only by junction.
type CoreMangaCreditTable struct {
	Table    string
	MangaID  string
	AuthorID string
}

// CoreMangaAuthor is the schema definition for core.mangaauthor
var CoreMangaAuthor = CoreMangaCreditTable{
	Table:    "core.mangaauthor",
	MangaID:  "mangaid",
	AuthorID: "authorid",
}

// CoreMangaArtist is the schema definition for core.mangaartist
var CoreMangaArtist = CoreMangaCreditTable{
	Table:    "core.mangaartist",
	MangaID:  "mangaid",
	AuthorID: "authorid",
}
