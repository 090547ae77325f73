package web

import (
	"io"
	"net/http"

	"github.com/vbonduro/kitroom/internal/vocab"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.health.Ping(r.Context()); err != nil {
		s.logger.Warn("health check failed", "error", err)
		s.writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVocab(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, vocab.Current())
}

// handleGetImage streams a stored thumbnail. A key is never reused for other
// content, so the response never changes for a given key.
func (s *Server) handleGetImage(w http.ResponseWriter, r *http.Request) {
	rc, mimeType, err := s.images.Open(r.Context(), r.PathValue("key"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer closeWithLog(rc, "image", s.logger)

	w.Header().Set("Content-Type", mimeType)
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	if _, err := io.Copy(w, rc); err != nil {
		s.logger.Error("failed to stream image", "key", r.PathValue("key"), "error", err)
	}
}
