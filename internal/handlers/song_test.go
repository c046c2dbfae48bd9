package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Shegzy-Dev/Music-Player-Backend/internal/mq"
	"github.com/Shegzy-Dev/Music-Player-Backend/internal/services"
	"github.com/Shegzy-Dev/Music-Player-Backend/internal/storage"
	"github.com/Shegzy-Dev/Music-Player-Backend/types"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

type songTestEnv struct {
	router  *chi.Mux
	songs   *fakeSongRepo
	blobs   *fakeObjectStorage
	broker  *fakeBroker
	comment *fakeCommentRepo
}

func newSongTestEnv(t *testing.T) *songTestEnv {
	t.Helper()

	songs := newFakeSongRepo()
	blobs := newFakeObjectStorage()
	broker := &fakeBroker{}
	comments := newFakeCommentRepo(songs)

	songService := services.NewSongService(songs, storage.NewStorage(blobs), mq.New(broker))
	commentService := services.NewCommentService(comments)
	authMiddleware := RequireAuth(testSecret)

	router := chi.NewRouter()
	router.Route("/songs", func(r chi.Router) {
		SongRouter(r, songService, commentService, authMiddleware)
	})
	router.Route("/uploads", func(r chi.Router) {
		UploadRouter(r, songService)
	})

	return &songTestEnv{
		router:  router,
		songs:   songs,
		blobs:   blobs,
		broker:  broker,
		comment: comments,
	}
}

func TestLikeIsIdempotent(t *testing.T) {
	env := newSongTestEnv(t)
	song := env.songs.addSong(types.Song{Title: "Song A", Artist: "Artist"})
	token := testToken(7, time.Minute)

	for i := 0; i < 2; i++ {
		rec := doJSON(t, env.router, http.MethodPost, fmt.Sprintf("/songs/%d/like", song.ID), token, "")
		require.Equal(t, http.StatusOK, rec.Code)

		var ack AckResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ack))
		require.Equal(t, "liked", ack.Status)
	}

	require.Equal(t, []int64{7}, env.songs.likedBy(song.ID))
}

func TestUnlikeNonMemberIsNoop(t *testing.T) {
	env := newSongTestEnv(t)
	song := env.songs.addSong(types.Song{Title: "Song A", Artist: "Artist"})
	require.NoError(t, env.songs.Like(context.Background(), song.ID, 3))

	// User 9 never liked the song; unliking still succeeds.
	rec := doJSON(t, env.router, http.MethodPost, fmt.Sprintf("/songs/%d/unlike", song.ID), testToken(9, time.Minute), "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, []int64{3}, env.songs.likedBy(song.ID))
}

func TestLikeUnknownSong(t *testing.T) {
	env := newSongTestEnv(t)

	rec := doJSON(t, env.router, http.MethodPost, "/songs/42/like", testToken(1, time.Minute), "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, env.router, http.MethodPost, "/songs/42/unlike", testToken(1, time.Minute), "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLikeRequiresAuth(t *testing.T) {
	env := newSongTestEnv(t)
	song := env.songs.addSong(types.Song{Title: "Song A", Artist: "Artist"})

	rec := doJSON(t, env.router, http.MethodPost, fmt.Sprintf("/songs/%d/like", song.ID), "", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Empty(t, env.songs.likedBy(song.ID))
}

func TestListSongsExposesLikeSet(t *testing.T) {
	env := newSongTestEnv(t)
	song := env.songs.addSong(types.Song{Title: "Song A", Artist: "Artist", BlobRef: "abc.mp3"})
	require.NoError(t, env.songs.Like(context.Background(), song.ID, 2))
	require.NoError(t, env.songs.Like(context.Background(), song.ID, 5))

	rec := doJSON(t, env.router, http.MethodGet, "/songs", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var listed []types.Song
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	require.Equal(t, []int64{2, 5}, listed[0].LikedBy)
	require.Equal(t, "uploads/abc.mp3", listed[0].AudioFile)
}

func TestUploadSong(t *testing.T) {
	env := newSongTestEnv(t)

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	require.NoError(t, form.WriteField("title", "Song A"))
	require.NoError(t, form.WriteField("artist", "Artist"))
	require.NoError(t, form.WriteField("duration", "215"))
	part, err := form.CreateFormFile("audioFile", "track.mp3")
	require.NoError(t, err)
	_, err = part.Write([]byte("fake audio bytes"))
	require.NoError(t, err)
	require.NoError(t, form.Close())

	req := httptest.NewRequest(http.MethodPost, "/songs", &body)
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+testToken(4, time.Minute))
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var created types.Song
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotZero(t, created.ID)
	require.Equal(t, "Song A", created.Title)
	require.Equal(t, 215, created.DurationSeconds)
	require.Empty(t, created.LikedBy)

	// The blob landed in object storage and is served back verbatim.
	get := httptest.NewRequest(http.MethodGet, "/"+created.AudioFile, nil)
	getRec := httptest.NewRecorder()
	env.router.ServeHTTP(getRec, get)
	require.Equal(t, http.StatusOK, getRec.Code)
	served, err := io.ReadAll(getRec.Body)
	require.NoError(t, err)
	require.Equal(t, "fake audio bytes", string(served))

	// The upload event went out with the uploader in the payload.
	require.Len(t, env.broker.published, 1)
	require.Equal(t, services.SongEventsChannel, env.broker.published[0].Channel)
	require.Equal(t, "song.uploaded", env.broker.published[0].Attrs["event"])

	var event services.SongUploadedEvent
	require.NoError(t, json.Unmarshal(env.broker.published[0].Data, &event))
	require.Equal(t, created.ID, event.SongID)
	require.Equal(t, int64(4), event.UploaderID)
}

func TestUploadRejectsMissingFields(t *testing.T) {
	env := newSongTestEnv(t)

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	require.NoError(t, form.WriteField("title", "Song A"))
	require.NoError(t, form.Close())

	req := httptest.NewRequest(http.MethodPost, "/songs", &body)
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+testToken(4, time.Minute))
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Empty(t, env.broker.published)
}

func TestCommentAppendAndRetrieveInOrder(t *testing.T) {
	env := newSongTestEnv(t)
	song := env.songs.addSong(types.Song{Title: "Song A", Artist: "Artist"})
	token := testToken(3, time.Minute)

	for _, text := range []string{"first", "second"} {
		rec := doJSON(t, env.router, http.MethodPost, fmt.Sprintf("/songs/%d/comment", song.ID), token, fmt.Sprintf(`{"text":%q}`, text))
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := doJSON(t, env.router, http.MethodGet, fmt.Sprintf("/songs/%d/comments", song.ID), "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var comments []types.Comment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &comments))
	require.Len(t, comments, 2)
	require.Equal(t, "first", comments[0].Text)
	require.Equal(t, "second", comments[1].Text)
	require.Equal(t, int64(3), comments[0].UserID)
}

func TestCommentUnknownSong(t *testing.T) {
	env := newSongTestEnv(t)

	rec := doJSON(t, env.router, http.MethodPost, "/songs/42/comment", testToken(1, time.Minute), `{"text":"hi"}`)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCommentRejectsEmptyText(t *testing.T) {
	env := newSongTestEnv(t)
	song := env.songs.addSong(types.Song{Title: "Song A", Artist: "Artist"})

	rec := doJSON(t, env.router, http.MethodPost, fmt.Sprintf("/songs/%d/comment", song.ID), testToken(1, time.Minute), `{"text":"  "}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServeBlobUnknownKey(t *testing.T) {
	env := newSongTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/uploads/missing.mp3", nil)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)
}
