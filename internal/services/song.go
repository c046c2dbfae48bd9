package services

import (
	"context"
	"encoding/json"
	"io"
	"path"

	"github.com/Shegzy-Dev/Music-Player-Backend/internal/mq"
	"github.com/Shegzy-Dev/Music-Player-Backend/internal/storage"
	"github.com/Shegzy-Dev/Music-Player-Backend/types"
)

// SongEventsChannel is the broker channel carrying song lifecycle events.
const SongEventsChannel = "song-events"

const eventSongUploaded = "song.uploaded"

// SongRepository defines persistence operations for songs and likes.
type SongRepository interface {
	List(ctx context.Context) ([]types.Song, error)
	Create(ctx context.Context, song types.Song) (types.Song, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Like(ctx context.Context, songID, userID int64) error
	Unlike(ctx context.Context, songID, userID int64) error
}

// SongUploadedEvent is the payload published after a successful upload,
// consumed by downstream audio-processing workers.
type SongUploadedEvent struct {
	SongID     int64  `json:"song_id"`
	UploaderID int64  `json:"uploader_id"`
	Title      string `json:"title"`
	Artist     string `json:"artist"`
	BlobRef    string `json:"blob_ref"`
}

// SongService encapsulates catalog use-cases: listing, upload, and the
// idempotent like-set.
type SongService struct {
	repo    SongRepository
	storage *storage.Storage
	broker  *mq.MQ
}

// NewSongService constructs a SongService. broker may be nil, in which
// case upload events are not published.
func NewSongService(repo SongRepository, blobStorage *storage.Storage, broker *mq.MQ) *SongService {
	return &SongService{
		repo:    repo,
		storage: blobStorage,
		broker:  broker,
	}
}

func (s *SongService) List(ctx context.Context) ([]types.Song, error) {
	songs, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range songs {
		songs[i].AudioFile = audioPath(songs[i].BlobRef)
	}
	return songs, nil
}

// Upload stores the audio blob under objectKey, records the song, and
// publishes an upload event. The uploader is not recorded on the song
// itself; it only travels in the event payload.
func (s *SongService) Upload(
	ctx context.Context,
	uploaderID int64,
	song types.Song,
	objectKey string,
	audio io.Reader,
	size int64,
	contentType string,
) (types.Song, error) {
	if err := s.storage.Put(ctx, objectKey, audio, size, contentType); err != nil {
		return types.Song{}, err
	}

	song.BlobRef = objectKey
	created, err := s.repo.Create(ctx, song)
	if err != nil {
		return types.Song{}, err
	}
	created.AudioFile = audioPath(created.BlobRef)

	// Event delivery is best-effort: a broker outage must not fail the
	// upload the song row already committed for.
	s.publishUploaded(ctx, uploaderID, created)

	return created, nil
}

// OpenBlob opens the stored audio blob for streaming back to a client.
func (s *SongService) OpenBlob(ctx context.Context, objectKey string) (io.ReadCloser, error) {
	return s.storage.Get(ctx, objectKey)
}

func (s *SongService) Like(ctx context.Context, songID, userID int64) error {
	return s.repo.Like(ctx, songID, userID)
}

func (s *SongService) Unlike(ctx context.Context, songID, userID int64) error {
	return s.repo.Unlike(ctx, songID, userID)
}

func (s *SongService) publishUploaded(ctx context.Context, uploaderID int64, song types.Song) {
	if s.broker == nil {
		return
	}
	payload, err := json.Marshal(SongUploadedEvent{
		SongID:     song.ID,
		UploaderID: uploaderID,
		Title:      song.Title,
		Artist:     song.Artist,
		BlobRef:    song.BlobRef,
	})
	if err != nil {
		return
	}
	_, _ = s.broker.Publish(ctx, SongEventsChannel, payload, map[string]string{
		"event": eventSongUploaded,
	})
}

func audioPath(blobRef string) string {
	if blobRef == "" {
		return ""
	}
	return path.Join("uploads", blobRef)
}
