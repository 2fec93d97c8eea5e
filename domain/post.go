package domain

// Post is a single entry of the remote posts resource.
type Post struct {
	ID     int    `json:"id"`
	UserID int    `json:"userId,omitempty"` // Carried through on save, never edited
	Title  string `json:"title"`
	Body   string `json:"body"`
}
