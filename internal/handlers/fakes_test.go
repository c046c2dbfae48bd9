package handlers

import (
	"bytes"
	"context"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/Shegzy-Dev/Music-Player-Backend/internal/mq"
	"github.com/Shegzy-Dev/Music-Player-Backend/internal/store"
	"github.com/Shegzy-Dev/Music-Player-Backend/types"
)

const testSecret = "test-secret"

func testToken(userID int64, ttl time.Duration) string {
	token, err := issueToken(userID, []byte(testSecret), ttl)
	if err != nil {
		panic(err)
	}
	return token
}

func userFixture(username string) types.User {
	return types.User{Username: username, PasswordHash: "unusable"}
}

// fakeUserRepo is an in-memory services.UserRepository.
type fakeUserRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]types.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{nextID: 1, users: map[int64]types.User{}}
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id int64) (types.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return types.User{}, store.ErrNotFound
	}
	return user, nil
}

func (r *fakeUserRepo) GetByUsername(ctx context.Context, username string) (types.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Username == username {
			return user, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (r *fakeUserRepo) Create(ctx context.Context, user types.User) (types.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Username == user.Username {
			return types.User{}, store.ErrDuplicate
		}
	}
	user.ID = r.nextID
	r.nextID++
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	r.users[user.ID] = user
	return user, nil
}

// fakeSongRepo is an in-memory services.SongRepository with the same
// membership semantics as the SQL repository.
type fakeSongRepo struct {
	mu     sync.Mutex
	nextID int64
	songs  map[int64]types.Song
	likes  map[int64]map[int64]bool
}

func newFakeSongRepo() *fakeSongRepo {
	return &fakeSongRepo{
		nextID: 1,
		songs:  map[int64]types.Song{},
		likes:  map[int64]map[int64]bool{},
	}
}

func (r *fakeSongRepo) addSong(song types.Song) types.Song {
	r.mu.Lock()
	defer r.mu.Unlock()
	song.ID = r.nextID
	r.nextID++
	r.songs[song.ID] = song
	r.likes[song.ID] = map[int64]bool{}
	return song
}

func (r *fakeSongRepo) likedBy(songID int64) []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]int64, 0, len(r.likes[songID]))
	for id := range r.likes[songID] {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (r *fakeSongRepo) List(ctx context.Context) ([]types.Song, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]int64, 0, len(r.songs))
	for id := range r.songs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	songs := make([]types.Song, 0, len(ids))
	for _, id := range ids {
		song := r.songs[id]
		likedBy := make([]int64, 0, len(r.likes[id]))
		for userID := range r.likes[id] {
			likedBy = append(likedBy, userID)
		}
		sort.Slice(likedBy, func(i, j int) bool { return likedBy[i] < likedBy[j] })
		song.LikedBy = likedBy
		songs = append(songs, song)
	}
	return songs, nil
}

func (r *fakeSongRepo) Create(ctx context.Context, song types.Song) (types.Song, error) {
	song.CreatedAt = time.Now()
	created := r.addSong(song)
	created.LikedBy = []int64{}
	return created, nil
}

func (r *fakeSongRepo) Exists(ctx context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.songs[id]
	return ok, nil
}

func (r *fakeSongRepo) Like(ctx context.Context, songID, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.songs[songID]; !ok {
		return store.ErrNotFound
	}
	r.likes[songID][userID] = true
	return nil
}

func (r *fakeSongRepo) Unlike(ctx context.Context, songID, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.songs[songID]; !ok {
		return store.ErrNotFound
	}
	delete(r.likes[songID], userID)
	return nil
}

// fakeCommentRepo is an in-memory services.CommentRepository backed by
// the song set of a fakeSongRepo.
type fakeCommentRepo struct {
	mu       sync.Mutex
	nextID   int64
	songs    *fakeSongRepo
	comments []types.Comment
}

func newFakeCommentRepo(songs *fakeSongRepo) *fakeCommentRepo {
	return &fakeCommentRepo{nextID: 1, songs: songs}
}

func (r *fakeCommentRepo) Create(ctx context.Context, comment types.Comment) (types.Comment, error) {
	exists, _ := r.songs.Exists(ctx, comment.SongID)
	if !exists {
		return types.Comment{}, store.ErrNotFound
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	comment.ID = r.nextID
	r.nextID++
	comment.CreatedAt = time.Now()
	r.comments = append(r.comments, comment)
	return comment, nil
}

func (r *fakeCommentRepo) ListBySong(ctx context.Context, songID int64) ([]types.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	comments := make([]types.Comment, 0)
	for _, comment := range r.comments {
		if comment.SongID == songID {
			comments = append(comments, comment)
		}
	}
	return comments, nil
}

// fakePlaylistRepo is an in-memory services.PlaylistRepository. Member
// slices preserve first-insertion order, as the serial id does in SQL.
type fakePlaylistRepo struct {
	mu        sync.Mutex
	nextID    int64
	songs     *fakeSongRepo
	playlists map[int64]types.Playlist
	members   map[int64][]int64
}

func newFakePlaylistRepo(songs *fakeSongRepo) *fakePlaylistRepo {
	return &fakePlaylistRepo{
		nextID:    1,
		songs:     songs,
		playlists: map[int64]types.Playlist{},
		members:   map[int64][]int64{},
	}
}

func (r *fakePlaylistRepo) Create(ctx context.Context, playlist types.Playlist) (types.Playlist, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	playlist.ID = r.nextID
	r.nextID++
	playlist.CreatedAt = time.Now()
	playlist.SongIDs = []int64{}
	r.playlists[playlist.ID] = playlist
	r.members[playlist.ID] = []int64{}
	return playlist, nil
}

func (r *fakePlaylistRepo) ListByOwner(ctx context.Context, ownerID int64) ([]types.Playlist, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]int64, 0, len(r.playlists))
	for id, playlist := range r.playlists {
		if playlist.OwnerID == ownerID {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	playlists := make([]types.Playlist, 0, len(ids))
	for _, id := range ids {
		playlist := r.playlists[id]
		playlist.SongIDs = append([]int64{}, r.members[id]...)
		playlists = append(playlists, playlist)
	}
	return playlists, nil
}

func (r *fakePlaylistRepo) GetOwned(ctx context.Context, id, ownerID int64) (types.Playlist, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	playlist, ok := r.playlists[id]
	if !ok || playlist.OwnerID != ownerID {
		return types.Playlist{}, store.ErrNotFound
	}
	playlist.SongIDs = append([]int64{}, r.members[id]...)
	return playlist, nil
}

func (r *fakePlaylistRepo) AddSong(ctx context.Context, playlistID, songID int64) error {
	exists, _ := r.songs.Exists(ctx, songID)
	if !exists {
		return store.ErrNotFound
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, member := range r.members[playlistID] {
		if member == songID {
			return nil
		}
	}
	r.members[playlistID] = append(r.members[playlistID], songID)
	return nil
}

func (r *fakePlaylistRepo) RemoveSong(ctx context.Context, playlistID, songID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	members := r.members[playlistID]
	for i, member := range members {
		if member == songID {
			r.members[playlistID] = append(members[:i], members[i+1:]...)
			return nil
		}
	}
	return nil
}

// fakeObjectStorage is an in-memory storage.ObjectStorage.
type fakeObjectStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newFakeObjectStorage() *fakeObjectStorage {
	return &fakeObjectStorage{objects: map[string][]byte{}}
}

func (s *fakeObjectStorage) EnsureBucket(ctx context.Context) error { return nil }

func (s *fakeObjectStorage) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = data
	return nil
}

func (s *fakeObjectStorage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[key]
	if !ok {
		return nil, store.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *fakeObjectStorage) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

func (s *fakeObjectStorage) Bucket() string { return "test-bucket" }

// fakeBroker records published messages.
type fakeBroker struct {
	mu        sync.Mutex
	published []publishedMessage
}

type publishedMessage struct {
	Channel string
	Data    []byte
	Attrs   map[string]string
}

func (b *fakeBroker) Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.published = append(b.published, publishedMessage{Channel: channel, Data: data, Attrs: attrs})
	return "msg-1", nil
}

func (b *fakeBroker) Subscribe(ctx context.Context, channel string, handler mq.Handler) error {
	return nil
}

func (b *fakeBroker) Close() error { return nil }
