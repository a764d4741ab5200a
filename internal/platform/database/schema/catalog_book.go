package schema

// CatalogBookTable represents the 'catalog.book' table
type CatalogBookTable struct {
	Table         string
	ID            string
	Title         string
	Author        string
	Genre         string
	Description   string
	CoverImageURL string
	ISBN          string
	Rating        string
	PublishedYear string
	CreatedAt     string
	UpdatedAt     string
}

// CatalogBook is the schema definition for catalog.book
var CatalogBook = CatalogBookTable{
	Table:         "catalog.book",
	ID:            "id",
	Title:         "title",
	Author:        "author",
	Genre:         "genre",
	Description:   "description",
	CoverImageURL: "coverimageurl",
	ISBN:          "isbn",
	Rating:        "rating",
	PublishedYear: "publishedyear",
	CreatedAt:     "createdat",
	UpdatedAt:     "updatedat",
}

func (t CatalogBookTable) Columns() []string {
	return []string{
		t.ID, t.Title, t.Author, t.Genre, t.Description,
		t.CoverImageURL, t.ISBN, t.Rating, t.PublishedYear,
		t.CreatedAt, t.UpdatedAt,
	}
}
