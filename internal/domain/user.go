package domain

// User is the identity record. Notes live embedded inside it, so every
// note mutation is a read-modify-write of the whole record.
type User struct {
	ID           string `json:"_id"`
	FirstName    string `json:"fname"`
	LastName     string `json:"lname"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	Notes        []Note `json:"notes"`
}

// Note has no lifecycle of its own; its ID is unique only within the
// owning user's note list.
type Note struct {
	ID      string `json:"_id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}
