package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/Shegzy-Dev/Music-Player-Backend/types"
	"github.com/lib/pq"
)

// SongRepository handles persistence for songs and their like-sets.
type SongRepository struct {
	db *sql.DB
}

func NewSongRepository(db *sql.DB) *SongRepository {
	return &SongRepository{db: db}
}

func (r *SongRepository) List(ctx context.Context) ([]types.Song, error) {
	const query = `
		SELECT s.id, s.title, s.artist, s.duration_seconds, s.blob_ref, s.created_at,
			COALESCE(array_agg(l.user_id) FILTER (WHERE l.user_id IS NOT NULL), '{}')
		FROM songs s
		LEFT JOIN song_likes l ON l.song_id = s.id
		GROUP BY s.id
		ORDER BY s.id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	songs := make([]types.Song, 0)
	for rows.Next() {
		var song types.Song
		var likedBy pq.Int64Array
		if err := rows.Scan(
			&song.ID,
			&song.Title,
			&song.Artist,
			&song.DurationSeconds,
			&song.BlobRef,
			&song.CreatedAt,
			&likedBy,
		); err != nil {
			return nil, err
		}
		song.LikedBy = []int64(likedBy)
		songs = append(songs, song)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return songs, nil
}

func (r *SongRepository) Create(ctx context.Context, song types.Song) (types.Song, error) {
	song.CreatedAt = time.Now()

	const query = `
		INSERT INTO songs (title, artist, duration_seconds, blob_ref, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		song.Title,
		song.Artist,
		song.DurationSeconds,
		song.BlobRef,
		song.CreatedAt,
	).Scan(&song.ID); err != nil {
		return types.Song{}, err
	}
	song.LikedBy = []int64{}
	return song, nil
}

func (r *SongRepository) Exists(ctx context.Context, id int64) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM songs WHERE id = $1)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// Like adds userID to the song's like-set. The insert is a single
// statement, so concurrent likes from different users never lose each
// other, and a repeated like conflicts into a no-op.
func (r *SongRepository) Like(ctx context.Context, songID, userID int64) error {
	const query = `
		INSERT INTO song_likes (song_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING`
	if _, err := r.db.ExecContext(ctx, query, songID, userID); err != nil {
		if isForeignKeyViolation(err) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// Unlike removes userID from the song's like-set. Removing a non-member
// is a no-op; only a missing song is an error.
func (r *SongRepository) Unlike(ctx context.Context, songID, userID int64) error {
	const query = `DELETE FROM song_likes WHERE song_id = $1 AND user_id = $2`
	result, err := r.db.ExecContext(ctx, query, songID, userID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected > 0 {
		return nil
	}

	exists, err := r.Exists(ctx, songID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}
	return nil
}
