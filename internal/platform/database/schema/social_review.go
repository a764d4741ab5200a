package schema

// SocialReviewTable represents the 'social.review' table
//
// Reviews are keyed by (bookid, createdat): the public identifier exposed by
// the API is the composite "bookId#createdAt" string.
type SocialReviewTable struct {
	Table       string
	BookID      string
	CreatedAt   string
	UserID      string
	UserName    string
	AuthorAdmin string
	Rating      string
	Comment     string
}

// SocialReview is the schema definition for social.review
var SocialReview = SocialReviewTable{
	Table:       "social.review",
	BookID:      "bookid",
	CreatedAt:   "createdat",
	UserID:      "userid",
	UserName:    "username",
	AuthorAdmin: "authoradmin",
	Rating:      "rating",
	Comment:     "comment",
}
