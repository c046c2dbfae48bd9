package types

import "time"

// Song represents a track in the catalog.
//
// Songs carry no uploader reference: the catalog is shared, and any
// authenticated user may like or unlike any song regardless of who
// uploaded it.
type Song struct {
	// ID is the unique identifier of the song.
	ID int64 `json:"id" db:"id"`

	// Title is the human-readable name of the track.
	Title string `json:"title" db:"title"`

	// Artist is the performer or band credited for the track.
	Artist string `json:"artist" db:"artist"`

	// DurationSeconds is the track length in seconds.
	DurationSeconds int `json:"duration_seconds" db:"duration_seconds"`

	// BlobRef is the object-storage key of the uploaded audio file.
	// The blob is opaque to the catalog; it is streamed back to clients
	// via the /uploads path.
	BlobRef string `json:"-" db:"blob_ref"`

	// AudioFile is the public path under which the audio blob is served.
	AudioFile string `json:"audio_file"`

	// LikedBy is the set of IDs of users who currently like this song.
	// Membership is idempotent; the set carries no ordering guarantee.
	LikedBy []int64 `json:"liked_by"`

	// CreatedAt is the timestamp at which the song was uploaded.
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
