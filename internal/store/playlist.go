package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Shegzy-Dev/Music-Player-Backend/types"
	"github.com/lib/pq"
)

// PlaylistRepository handles persistence for playlists and their
// membership. Every lookup that feeds a mutation is scoped to the owner,
// so a non-owner cannot learn whether a playlist exists.
type PlaylistRepository struct {
	db *sql.DB
}

func NewPlaylistRepository(db *sql.DB) *PlaylistRepository {
	return &PlaylistRepository{db: db}
}

func (r *PlaylistRepository) Create(ctx context.Context, playlist types.Playlist) (types.Playlist, error) {
	playlist.CreatedAt = time.Now()

	const query = `
		INSERT INTO playlists (name, owner_id, created_at)
		VALUES ($1, $2, $3)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		playlist.Name,
		playlist.OwnerID,
		playlist.CreatedAt,
	).Scan(&playlist.ID); err != nil {
		return types.Playlist{}, err
	}
	playlist.SongIDs = []int64{}
	return playlist, nil
}

func (r *PlaylistRepository) ListByOwner(ctx context.Context, ownerID int64) ([]types.Playlist, error) {
	const query = `
		SELECT p.id, p.name, p.owner_id, p.created_at,
			COALESCE(array_agg(ps.song_id ORDER BY ps.id) FILTER (WHERE ps.song_id IS NOT NULL), '{}')
		FROM playlists p
		LEFT JOIN playlist_songs ps ON ps.playlist_id = p.id
		WHERE p.owner_id = $1
		GROUP BY p.id
		ORDER BY p.id`
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	playlists := make([]types.Playlist, 0)
	for rows.Next() {
		var playlist types.Playlist
		var songIDs pq.Int64Array
		if err := rows.Scan(
			&playlist.ID,
			&playlist.Name,
			&playlist.OwnerID,
			&playlist.CreatedAt,
			&songIDs,
		); err != nil {
			return nil, err
		}
		playlist.SongIDs = []int64(songIDs)
		playlists = append(playlists, playlist)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return playlists, nil
}

// GetOwned fetches a playlist only if ownerID owns it. A playlist owned
// by someone else is indistinguishable from one that does not exist.
func (r *PlaylistRepository) GetOwned(ctx context.Context, id, ownerID int64) (types.Playlist, error) {
	const query = `
		SELECT p.id, p.name, p.owner_id, p.created_at,
			COALESCE(array_agg(ps.song_id ORDER BY ps.id) FILTER (WHERE ps.song_id IS NOT NULL), '{}')
		FROM playlists p
		LEFT JOIN playlist_songs ps ON ps.playlist_id = p.id
		WHERE p.id = $1 AND p.owner_id = $2
		GROUP BY p.id`
	var playlist types.Playlist
	var songIDs pq.Int64Array
	err := r.db.QueryRowContext(ctx, query, id, ownerID).Scan(
		&playlist.ID,
		&playlist.Name,
		&playlist.OwnerID,
		&playlist.CreatedAt,
		&songIDs,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Playlist{}, ErrNotFound
		}
		return types.Playlist{}, err
	}
	playlist.SongIDs = []int64(songIDs)
	return playlist, nil
}

// AddSong inserts songID into the playlist's member set. The serial id
// assigned on first insertion fixes the song's observable position; a
// repeated add conflicts into a no-op and keeps that position.
func (r *PlaylistRepository) AddSong(ctx context.Context, playlistID, songID int64) error {
	const query = `
		INSERT INTO playlist_songs (playlist_id, song_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING`
	if _, err := r.db.ExecContext(ctx, query, playlistID, songID); err != nil {
		if isForeignKeyViolation(err) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// RemoveSong removes songID from the playlist's member set. Removing an
// absent member is a no-op.
func (r *PlaylistRepository) RemoveSong(ctx context.Context, playlistID, songID int64) error {
	const query = `DELETE FROM playlist_songs WHERE playlist_id = $1 AND song_id = $2`
	_, err := r.db.ExecContext(ctx, query, playlistID, songID)
	return err
}
