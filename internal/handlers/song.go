package handlers

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Shegzy-Dev/Music-Player-Backend/internal/services"
	"github.com/Shegzy-Dev/Music-Player-Backend/internal/store"
	"github.com/Shegzy-Dev/Music-Player-Backend/types"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const (
	maxMultipartMemory = 32 << 20
	maxAudioBytes      = 128 << 20
	formFieldTitle     = "title"
	formFieldArtist    = "artist"
	formFieldDuration  = "duration"
	formFieldAudio     = "audioFile"
)

// SongHandler provides HTTP handlers for the song catalog and the
// per-song comment log.
type SongHandler struct {
	songService    *services.SongService
	commentService *services.CommentService
}

// NewSongHandler constructs a handler with the provided services.
func NewSongHandler(songService *services.SongService, commentService *services.CommentService) *SongHandler {
	return &SongHandler{
		songService:    songService,
		commentService: commentService,
	}
}

// SongRouter registers song routes on the given router.
func SongRouter(
	r chi.Router,
	songService *services.SongService,
	commentService *services.CommentService,
	authMiddleware func(http.Handler) http.Handler,
) {
	handler := NewSongHandler(songService, commentService)

	r.Get("/", handler.ListSongs)
	r.With(authMiddleware).Post("/", handler.UploadSong)
	r.Route("/{songID}", func(r chi.Router) {
		r.With(authMiddleware).Post("/like", handler.LikeSong)
		r.With(authMiddleware).Post("/unlike", handler.UnlikeSong)
		r.With(authMiddleware).Post("/comment", handler.CommentSong)
		r.Get("/comments", handler.ListComments)
	})
}

func (h *SongHandler) ListSongs(w http.ResponseWriter, r *http.Request) {
	songs, err := h.songService.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list songs")
		return
	}
	writeJSON(w, http.StatusOK, songs)
}

func (h *SongHandler) UploadSong(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	title := strings.TrimSpace(r.FormValue(formFieldTitle))
	if title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}

	artist := strings.TrimSpace(r.FormValue(formFieldArtist))
	if artist == "" {
		writeError(w, http.StatusBadRequest, "artist is required")
		return
	}

	duration, err := parseOptionalInt(r.FormValue(formFieldDuration))
	if err != nil || duration < 0 {
		writeError(w, http.StatusBadRequest, "invalid duration")
		return
	}

	file, header, err := r.FormFile(formFieldAudio)
	if err != nil {
		writeError(w, http.StatusBadRequest, "audio file is required")
		return
	}
	defer file.Close()

	if header.Size > maxAudioBytes {
		writeError(w, http.StatusBadRequest, "uploaded file too large")
		return
	}

	ext := filepath.Ext(header.Filename)
	objectKey := uuid.NewString() + ext

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = mime.TypeByExtension(ext)
	}

	song, err := h.songService.Upload(r.Context(), userID, types.Song{
		Title:           title,
		Artist:          artist,
		DurationSeconds: duration,
	}, objectKey, file, header.Size, contentType)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to upload song")
		return
	}

	writeJSON(w, http.StatusCreated, song)
}

func (h *SongHandler) LikeSong(w http.ResponseWriter, r *http.Request) {
	songID, err := parseSongID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := h.songService.Like(r.Context(), songID, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "song not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to like song")
		return
	}

	writeJSON(w, http.StatusOK, AckResponse{Status: "liked"})
}

func (h *SongHandler) UnlikeSong(w http.ResponseWriter, r *http.Request) {
	songID, err := parseSongID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := h.songService.Unlike(r.Context(), songID, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "song not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to unlike song")
		return
	}

	writeJSON(w, http.StatusOK, AckResponse{Status: "unliked"})
}

func (h *SongHandler) CommentSong(w http.ResponseWriter, r *http.Request) {
	songID, err := parseSongID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req CommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	req.Text = strings.TrimSpace(req.Text)
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	comment, err := h.commentService.Append(r.Context(), types.Comment{
		SongID: songID,
		UserID: userID,
		Text:   req.Text,
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "song not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to create comment")
		return
	}

	writeJSON(w, http.StatusCreated, comment)
}

func (h *SongHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	songID, err := parseSongID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	comments, err := h.commentService.ListBySong(r.Context(), songID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list comments")
		return
	}

	writeJSON(w, http.StatusOK, comments)
}

type CommentRequest struct {
	Text string `json:"text"`
}

func parseSongID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "songID")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, errors.New("invalid song id")
	}
	return id, nil
}

func parseOptionalInt(value string) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	return strconv.Atoi(value)
}
