package types

import "time"

// Playlist is a named, ordered collection of song references owned by
// a single user. Only the owner may read or mutate it.
type Playlist struct {
	// ID is the unique identifier of the playlist.
	ID int64 `json:"id" db:"id"`

	// Name is the display name given by the owner.
	Name string `json:"name" db:"name"`

	// OwnerID identifies the user who created the playlist.
	OwnerID int64 `json:"owner_id" db:"owner_id"`

	// SongIDs holds the member songs in first-insertion order, with no
	// duplicates. Adding a member twice is a no-op.
	SongIDs []int64 `json:"song_ids"`

	// CreatedAt is the timestamp at which the playlist was created.
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
