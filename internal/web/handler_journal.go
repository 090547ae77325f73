package web

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/vbonduro/kitroom/internal/service"
	"github.com/vbonduro/kitroom/internal/store"
)

func (s *Server) handleDistribute(w http.ResponseWriter, r *http.Request) {
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
	var targetID *int64
	if v := strings.TrimSpace(r.FormValue("target_id")); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			s.writeError(w, r, badField("target_id", "must be a whole number"))
			return
		}
		targetID = &id
	}

	rec, err := s.ledger.Distribute(r.Context(), service.DistributionRequest{
		Date:       date,
		TargetType: r.FormValue("target_type"),
		TargetID:   targetID,
		TargetName: strings.TrimSpace(r.FormValue("target_name")),
		Category:   r.FormValue("category"),
		ItemName:   strings.TrimSpace(r.FormValue("item_name")),
		Size:       r.FormValue("size"),
		Quantity:   qty,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) handleListDistributions(w http.ResponseWriter, r *http.Request) {
	recs, err := s.ledger.ListDistributions(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, recs)
}

func (s *Server) handleDeleteDistribution(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.ledger.DeleteDistribution(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListInbound(w http.ResponseWriter, r *http.Request) {
	recs, err := s.ledger.ListInbound(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, recs)
}

func (s *Server) handleDeleteInbound(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.ledger.DeleteInbound(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleBulkDelete deletes every "ids" value from one collection. The
// response lists what was deleted and which ids did not exist.
func (s *Server) handleBulkDelete(w http.ResponseWriter, r *http.Request) {
	c, ok := store.ParseCollection(r.PathValue("collection"))
	if !ok {
		s.writeError(w, r, badField("collection", "unknown collection"))
		return
	}
	if err := parseForm(w, r); err != nil {
		s.writeError(w, r, err)
		return
	}
	raw := r.Form["ids"]
	if len(raw) == 0 {
		s.writeError(w, r, badField("ids", "is required"))
		return
	}
	ids := make([]int64, 0, len(raw))
	for _, v := range raw {
		id, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil || id <= 0 {
			s.writeError(w, r, badField("ids", "must be positive integers"))
			return
		}
		ids = append(ids, id)
	}

	res, err := s.records.DeleteMany(r.Context(), c, ids)
	if err != nil {
		s.logger.Error("bulk delete stopped", "collection", c, "deleted", res.Deleted, "error", err)
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}
