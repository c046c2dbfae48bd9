package services

import (
	"context"

	"github.com/Shegzy-Dev/Music-Player-Backend/types"
)

// PlaylistRepository defines persistence operations for playlists.
type PlaylistRepository interface {
	Create(ctx context.Context, playlist types.Playlist) (types.Playlist, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]types.Playlist, error)
	GetOwned(ctx context.Context, id, ownerID int64) (types.Playlist, error)
	AddSong(ctx context.Context, playlistID, songID int64) error
	RemoveSong(ctx context.Context, playlistID, songID int64) error
}

// PlaylistService encapsulates playlist use-cases. All mutations resolve
// the playlist through an ownership-scoped lookup first, so a requester
// who does not own the playlist gets ErrNotFound rather than a
// confirmation that it exists.
type PlaylistService struct {
	repo PlaylistRepository
}

func NewPlaylistService(repo PlaylistRepository) *PlaylistService {
	return &PlaylistService{repo: repo}
}

func (s *PlaylistService) Create(ctx context.Context, ownerID int64, name string) (types.Playlist, error) {
	return s.repo.Create(ctx, types.Playlist{Name: name, OwnerID: ownerID})
}

func (s *PlaylistService) ListOwned(ctx context.Context, ownerID int64) ([]types.Playlist, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

// AddSong inserts songID into the playlist if requesterID owns it.
// The insert is idempotent; first insertion fixes the song's position.
func (s *PlaylistService) AddSong(ctx context.Context, playlistID, requesterID, songID int64) error {
	if _, err := s.repo.GetOwned(ctx, playlistID, requesterID); err != nil {
		return err
	}
	return s.repo.AddSong(ctx, playlistID, songID)
}

// RemoveSong removes songID from the playlist if requesterID owns it.
// Removing an absent song is a no-op.
func (s *PlaylistService) RemoveSong(ctx context.Context, playlistID, requesterID, songID int64) error {
	if _, err := s.repo.GetOwned(ctx, playlistID, requesterID); err != nil {
		return err
	}
	return s.repo.RemoveSong(ctx, playlistID, songID)
}
