package handlers

import (
	"io"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/Shegzy-Dev/Music-Player-Backend/internal/services"
	"github.com/go-chi/chi/v5"
)

// UploadHandler streams stored audio blobs back to clients.
type UploadHandler struct {
	songService *services.SongService
}

// UploadRouter registers the static blob route on the given router.
func UploadRouter(r chi.Router, songService *services.SongService) {
	handler := &UploadHandler{songService: songService}

	r.Get("/{objectKey}", handler.ServeBlob)
}

func (h *UploadHandler) ServeBlob(w http.ResponseWriter, r *http.Request) {
	objectKey := chi.URLParam(r, "objectKey")
	if objectKey == "" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	blob, err := h.songService.OpenBlob(r.Context(), objectKey)
	if err != nil {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	defer blob.Close()

	contentType := mime.TypeByExtension(filepath.Ext(objectKey))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)

	if _, err := io.Copy(w, blob); err != nil {
		// Headers are already sent; nothing left to do but drop the
		// connection.
		return
	}
}
