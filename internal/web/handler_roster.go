package web

import (
	"net/http"
	"strings"

	"github.com/vbonduro/kitroom/internal/domain"
	"github.com/vbonduro/kitroom/internal/service"
)

// pathKind accepts both "player" and "players" style segments.
func pathKind(r *http.Request) (domain.PersonKind, error) {
	kind, ok := domain.ParseKind(strings.TrimSuffix(r.PathValue("kind"), "s"))
	if !ok {
		return "", badField("kind", "must be player or staff")
	}
	return kind, nil
}

func (s *Server) personRequest(w http.ResponseWriter, r *http.Request, kind domain.PersonKind) (service.PersonRequest, error) {
	if err := parseForm(w, r); err != nil {
		return service.PersonRequest{}, err
	}
	image, err := s.formImage(r)
	if err != nil {
		return service.PersonRequest{}, err
	}
	return service.PersonRequest{
		Kind:       string(kind),
		Name:       strings.TrimSpace(r.FormValue("name")),
		BackNumber: strings.TrimSpace(r.FormValue("back_number")),
		Role:       r.FormValue("role"),
		TopSize:    r.FormValue("top_size"),
		BottomSize: r.FormValue("bottom_size"),
		ShoeSize:   r.FormValue("shoe_size"),
		Image:      image,
	}, nil
}

func (s *Server) handleListRoster(w http.ResponseWriter, r *http.Request) {
	kind, err := pathKind(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	people, err := s.roster.List(r.Context(), kind)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, people)
}

func (s *Server) handleAddPerson(w http.ResponseWriter, r *http.Request) {
	kind, err := pathKind(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	req, err := s.personRequest(w, r, kind)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	p, err := s.roster.Add(r.Context(), kind, req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handleUpdatePerson(w http.ResponseWriter, r *http.Request) {
	kind, err := pathKind(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	id, err := parseID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	req, err := s.personRequest(w, r, kind)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	p, err := s.roster.Update(r.Context(), kind, id, req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleDeletePerson(w http.ResponseWriter, r *http.Request) {
	kind, err := pathKind(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	id, err := parseID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.roster.Delete(r.Context(), kind, id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePersonCard(w http.ResponseWriter, r *http.Request) {
	kind, err := pathKind(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	card, err := s.roster.Card(r.Context(), kind, r.URL.Query().Get("name"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, card)
}
