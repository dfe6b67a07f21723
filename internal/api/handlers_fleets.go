package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"fleet-tyre-manager/internal/models"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

func (s *Server) handleListFleets(w http.ResponseWriter, r *http.Request) {
	fleets, err := s.db.ListFleetsForUser(currentUserID(r))
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondWithMeta(w, fleets, &meta{Total: len(fleets)})
}

func (s *Server) handleCreateFleet(w http.ResponseWriter, r *http.Request) {
	var f models.Fleet
	if err := json.NewDecoder(r.Body).Decode(&f); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if strings.TrimSpace(f.Name) == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}

	f.ID = uuid.NewString()
	f.OwnerID = currentUserID(r)
	if err := s.db.InsertFleet(&f); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, f)
}

func (s *Server) handleGetFleet(w http.ResponseWriter, r *http.Request) {
	fleetID := mux.Vars(r)["id"]
	if !s.requireMember(w, r, fleetID, false, false) {
		return
	}
	fleet, err := s.db.GetFleet(fleetID)
	if err != nil {
		respondNotFoundOr(w, err, "fleet")
		return
	}
	respondJSON(w, http.StatusOK, fleet)
}

func (s *Server) handleDeleteFleet(w http.ResponseWriter, r *http.Request) {
	fleetID := mux.Vars(r)["id"]
	if !s.requireMember(w, r, fleetID, true, true) {
		return
	}
	if err := s.db.DeleteFleet(fleetID); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"deleted": fleetID})
}

func (s *Server) handleListMembers(w http.ResponseWriter, r *http.Request) {
	fleetID := mux.Vars(r)["id"]
	if !s.requireMember(w, r, fleetID, false, false) {
		return
	}
	members, err := s.db.ListMembers(fleetID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondWithMeta(w, members, &meta{Total: len(members)})
}

type addMemberRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (s *Server) handleAddMember(w http.ResponseWriter, r *http.Request) {
	fleetID := mux.Vars(r)["id"]
	if !s.requireMember(w, r, fleetID, true, true) {
		return
	}

	var req addMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if !models.ValidRole(req.Role) || req.Role == models.RoleOwner {
		respondError(w, http.StatusBadRequest, "role must be manager or viewer")
		return
	}

	user, err := s.db.GetUserByEmail(strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		respondNotFoundOr(w, err, "user")
		return
	}

	m := &models.FleetMember{FleetID: fleetID, UserID: user.ID, Role: req.Role}
	if err := s.db.UpsertMember(m); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, m)
}

func (s *Server) handleRemoveMember(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	fleetID, userID := vars["id"], vars["userID"]
	if !s.requireMember(w, r, fleetID, true, true) {
		return
	}

	fleet, err := s.db.GetFleet(fleetID)
	if err != nil {
		respondNotFoundOr(w, err, "fleet")
		return
	}
	if userID == fleet.OwnerID {
		respondError(w, http.StatusBadRequest, "cannot remove the fleet owner")
		return
	}

	if err := s.db.RemoveMember(fleetID, userID); err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"removed": userID})
}
