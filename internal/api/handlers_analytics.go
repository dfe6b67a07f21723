package api

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
)

const defaultTreadThresholdMM = 3.0

func (s *Server) handleCostAnalytics(w http.ResponseWriter, r *http.Request) {
	fleetID := mux.Vars(r)["id"]
	if !s.requireMember(w, r, fleetID, false, false) {
		return
	}
	summary, err := s.db.GetCostSummary(fleetID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

func (s *Server) handleTreadAnalytics(w http.ResponseWriter, r *http.Request) {
	fleetID := mux.Vars(r)["id"]
	if !s.requireMember(w, r, fleetID, false, false) {
		return
	}

	threshold := defaultTreadThresholdMM
	if v := r.URL.Query().Get("threshold"); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil || parsed < 0 {
			respondError(w, http.StatusBadRequest, "threshold must be a non-negative number")
			return
		}
		threshold = parsed
	}

	summary, err := s.db.GetTreadSummary(fleetID, threshold)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, summary)
}
