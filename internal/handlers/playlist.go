package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/Shegzy-Dev/Music-Player-Backend/internal/services"
	"github.com/Shegzy-Dev/Music-Player-Backend/internal/store"
	"github.com/go-chi/chi/v5"
)

// PlaylistHandler provides HTTP handlers for playlists. Every route is
// authenticated, and every lookup is scoped to the requester: another
// user's playlist is presented as missing, never as forbidden.
type PlaylistHandler struct {
	playlistService *services.PlaylistService
}

// NewPlaylistHandler constructs a handler with the provided service.
func NewPlaylistHandler(playlistService *services.PlaylistService) *PlaylistHandler {
	return &PlaylistHandler{playlistService: playlistService}
}

// PlaylistRouter registers playlist routes on the given router.
func PlaylistRouter(
	r chi.Router,
	playlistService *services.PlaylistService,
	authMiddleware func(http.Handler) http.Handler,
) {
	handler := NewPlaylistHandler(playlistService)

	r.Use(authMiddleware)
	r.Get("/", handler.ListPlaylists)
	r.Post("/", handler.CreatePlaylist)
	r.Route("/{playlistID}", func(r chi.Router) {
		r.Post("/add_song", handler.AddSong)
		r.Post("/remove_song", handler.RemoveSong)
	})
}

func (h *PlaylistHandler) ListPlaylists(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	playlists, err := h.playlistService.ListOwned(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list playlists")
		return
	}

	writeJSON(w, http.StatusOK, playlists)
}

func (h *PlaylistHandler) CreatePlaylist(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req CreatePlaylistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	playlist, err := h.playlistService.Create(r.Context(), userID, req.Name)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create playlist")
		return
	}

	writeJSON(w, http.StatusCreated, playlist)
}

func (h *PlaylistHandler) AddSong(w http.ResponseWriter, r *http.Request) {
	playlistID, songID, userID, ok := h.parseMembershipRequest(w, r)
	if !ok {
		return
	}

	if err := h.playlistService.AddSong(r.Context(), playlistID, userID, songID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to add song")
		return
	}

	writeJSON(w, http.StatusOK, AckResponse{Status: "song added"})
}

func (h *PlaylistHandler) RemoveSong(w http.ResponseWriter, r *http.Request) {
	playlistID, songID, userID, ok := h.parseMembershipRequest(w, r)
	if !ok {
		return
	}

	if err := h.playlistService.RemoveSong(r.Context(), playlistID, userID, songID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to remove song")
		return
	}

	writeJSON(w, http.StatusOK, AckResponse{Status: "song removed"})
}

// parseMembershipRequest pulls the playlist ID, song ID, and requester
// out of an add/remove request, writing the error response itself when
// anything is missing.
func (h *PlaylistHandler) parseMembershipRequest(w http.ResponseWriter, r *http.Request) (playlistID, songID, userID int64, ok bool) {
	playlistID, err := parsePlaylistID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return 0, 0, 0, false
	}

	userID, err = userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return 0, 0, 0, false
	}

	var req SongMembershipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return 0, 0, 0, false
	}
	if req.SongID < 1 {
		writeError(w, http.StatusBadRequest, "invalid song id")
		return 0, 0, 0, false
	}

	return playlistID, req.SongID, userID, true
}

type CreatePlaylistRequest struct {
	Name string `json:"name"`
}

type SongMembershipRequest struct {
	SongID int64 `json:"song_id"`
}

func parsePlaylistID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "playlistID")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, errors.New("invalid playlist id")
	}
	return id, nil
}
