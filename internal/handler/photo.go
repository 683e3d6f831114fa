package handler

import (
	"io"
	"log/slog"
	"net/http"
	"regexp"

	"whosfordinner/internal/photo"
)

// photoKeyPattern rejects anything that is not a plain object key before
// it reaches the bucket. No slashes, no traversal.
var photoKeyPattern = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)

// PhotoHandler streams meal photos out of the bucket.
type PhotoHandler struct {
	photos *photo.Store
	logger *slog.Logger
}

func NewPhotoHandler(photos *photo.Store, logger *slog.Logger) *PhotoHandler {
	return &PhotoHandler{photos: photos, logger: logger}
}

func (h *PhotoHandler) Serve(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	if !photoKeyPattern.MatchString(key) {
		http.Error(w, "invalid photo key", http.StatusBadRequest)
		return
	}
	if h.photos == nil {
		http.NotFound(w, r)
		return
	}

	obj, err := h.photos.Get(r.Context(), key)
	if err != nil {
		h.logger.Error("get photo", "key", key, "error", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}
	if obj == nil {
		http.NotFound(w, r)
		return
	}
	defer obj.Body.Close()

	w.Header().Set("Content-Type", obj.ContentType)
	w.Header().Set("Cache-Control", "private, max-age=86400")
	if _, err := io.Copy(w, obj.Body); err != nil {
		h.logger.Warn("stream photo", "key", key, "error", err)
	}
}
