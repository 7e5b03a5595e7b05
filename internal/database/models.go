package database

import "time"

// CachedResponse is one cached provider answer. Key is the content address of
// the request (hash over model, instruction, and image bytes), so identical
// requests map to the same row.
type CachedResponse struct {
	Key       string    `db:"key"`
	Model     string    `db:"model"`
	Response  string    `db:"response"`
	CreatedAt time.Time `db:"created_at"`
}
