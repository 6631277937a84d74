package course

// MaxTitleLength bounds Course.Title in characters.
const MaxTitleLength = 255

// Course represents a document in the courses collection.
// Field values are stored exactly as the client sent them; nil means JSON null.
type Course struct {
	ID          string
	Title       *string
	Description *string
	CreatedAt   *string
}
