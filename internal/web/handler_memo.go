package web

import (
	"net/http"
	"strings"

	"github.com/vbonduro/kitroom/internal/service"
)

func (s *Server) handleListMemos(w http.ResponseWriter, r *http.Request) {
	memos, err := s.memos.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, memos)
}

func (s *Server) handleAddMemo(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(w, r); err != nil {
		s.writeError(w, r, err)
		return
	}
	date, err := formDate(r, "date")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	m, err := s.memos.Add(r.Context(), service.MemoRequest{
		Date:     date,
		Category: r.FormValue("category"),
		Content:  strings.TrimSpace(r.FormValue("content")),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, m)
}

func (s *Server) handleDeleteMemo(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.memos.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
