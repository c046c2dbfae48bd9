package types

import "time"

// Comment is an immutable, timestamped remark a user left on a song.
// Comments are append-only; there is no edit or delete operation.
type Comment struct {
	// ID is the unique identifier of the comment.
	ID int64 `json:"id" db:"id"`

	// SongID identifies the song this comment belongs to.
	SongID int64 `json:"song_id" db:"song_id"`

	// UserID identifies the author of the comment.
	UserID int64 `json:"user_id" db:"user_id"`

	// Text is the comment body.
	Text string `json:"text" db:"body"`

	// CreatedAt is the timestamp at which the comment was written.
	// Retrieval orders by this field ascending.
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
