package user

// User represents a document in the users collection
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
}
