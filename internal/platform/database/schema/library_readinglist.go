package schema

// LibraryReadingListTable represents the 'library.readinglist' table
type LibraryReadingListTable struct {
	Table       string
	ID          string
	UserID      string
	Name        string
	Description string
	BookIDs     string
	CreatedAt   string
	UpdatedAt   string
}

// LibraryReadingList is the schema definition for library.readinglist
var LibraryReadingList = LibraryReadingListTable{
	Table:       "library.readinglist",
	ID:          "id",
	UserID:      "userid",
	Name:        "name",
	Description: "description",
	BookIDs:     "bookids",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
}
