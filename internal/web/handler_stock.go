package web

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/vbonduro/kitroom/internal/service"
)

func (s *Server) handleListStock(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	includeEmpty, _ := strconv.ParseBool(q.Get("include_empty"))
	lines, err := s.ledger.ListStock(r.Context(), service.StockFilter{
		Category:     q.Get("category"),
		Query:        q.Get("q"),
		IncludeEmpty: includeEmpty,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, lines)
}

func (s *Server) handleInbound(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(w, r); err != nil {
		s.writeError(w, r, err)
		return
	}
	date, err := formDate(r, "date")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	qty, err := formInt(r, "quantity")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	image, err := s.formImage(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	line, err := s.ledger.RecordInbound(r.Context(), service.InboundRequest{
		Date:     date,
		Category: r.FormValue("category"),
		ItemName: strings.TrimSpace(r.FormValue("item_name")),
		Size:     r.FormValue("size"),
		Quantity: qty,
		Image:    image,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, line)
}

func (s *Server) handleUpdateStock(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := parseForm(w, r); err != nil {
		s.writeError(w, r, err)
		return
	}

	var u service.StockLineUpdate
	if r.Form.Has("item_name") {
		name := strings.TrimSpace(r.FormValue("item_name"))
		u.ItemName = &name
	}
	if r.Form.Has("quantity") {
		qty, err := formInt(r, "quantity")
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		u.Quantity = &qty
	}

	line, err := s.ledger.UpdateStockLine(r.Context(), id, u)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, line)
}

func (s *Server) handleDeleteStock(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.ledger.DeleteStockLine(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
