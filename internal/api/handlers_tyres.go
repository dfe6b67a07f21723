package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"fleet-tyre-manager/internal/db"
	"fleet-tyre-manager/internal/layout"
	"fleet-tyre-manager/internal/models"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

func (s *Server) handleListTyres(w http.ResponseWriter, r *http.Request) {
	fleetID := mux.Vars(r)["id"]
	if !s.requireMember(w, r, fleetID, false, false) {
		return
	}

	q := db.TyreQuery{
		FleetID:   fleetID,
		VehicleID: r.URL.Query().Get("vehicle_id"),
		Status:    r.URL.Query().Get("status"),
		Position:  r.URL.Query().Get("position"),
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		q.Limit, _ = strconv.Atoi(v)
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		q.Offset, _ = strconv.Atoi(v)
	}

	tyres, err := s.db.QueryTyres(q)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondWithMeta(w, tyres, &meta{Total: len(tyres), Limit: q.Limit, Offset: q.Offset})
}

func (s *Server) handleCreateTyre(w http.ResponseWriter, r *http.Request) {
	fleetID := mux.Vars(r)["id"]
	if !s.requireMember(w, r, fleetID, true, false) {
		return
	}

	var t models.Tyre
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if t.Status == "" {
		t.Status = models.TyreStatusInStock
		if t.VehicleID != "" {
			t.Status = models.TyreStatusFitted
		}
	}
	if errs := models.ValidateTyre(&t); len(errs) > 0 {
		respondError(w, http.StatusBadRequest, strings.Join(errs, "; "))
		return
	}
	if t.VehicleID != "" && !s.positionFitsVehicle(w, t.VehicleID, fleetID, t.Position) {
		return
	}

	t.ID = uuid.NewString()
	t.FleetID = fleetID
	if err := s.db.InsertTyre(&t); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, t)
}

func (s *Server) getTyreChecked(w http.ResponseWriter, r *http.Request, write bool) *models.Tyre {
	tyre, err := s.db.GetTyre(mux.Vars(r)["id"])
	if err != nil {
		respondNotFoundOr(w, err, "tyre")
		return nil
	}
	if !s.requireMember(w, r, tyre.FleetID, write, false) {
		return nil
	}
	return tyre
}

func (s *Server) handleGetTyre(w http.ResponseWriter, r *http.Request) {
	tyre := s.getTyreChecked(w, r, false)
	if tyre == nil {
		return
	}
	respondJSON(w, http.StatusOK, tyre)
}

func (s *Server) handleUpdateTyre(w http.ResponseWriter, r *http.Request) {
	tyre := s.getTyreChecked(w, r, true)
	if tyre == nil {
		return
	}

	var update models.Tyre
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	update.ID = tyre.ID
	update.FleetID = tyre.FleetID
	update.CreatedAt = tyre.CreatedAt
	if errs := models.ValidateTyre(&update); len(errs) > 0 {
		respondError(w, http.StatusBadRequest, strings.Join(errs, "; "))
		return
	}
	if update.VehicleID != "" && !s.positionFitsVehicle(w, update.VehicleID, tyre.FleetID, update.Position) {
		return
	}

	if err := s.db.UpdateTyre(&update); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, update)
}

func (s *Server) handleDeleteTyre(w http.ResponseWriter, r *http.Request) {
	tyre := s.getTyreChecked(w, r, true)
	if tyre == nil {
		return
	}
	if err := s.db.DeleteTyre(tyre.ID); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"deleted": tyre.ID})
}

type fitRequest struct {
	VehicleID string `json:"vehicle_id"`
	Position  string `json:"position"`
}

func (s *Server) handleFitTyre(w http.ResponseWriter, r *http.Request) {
	tyre := s.getTyreChecked(w, r, true)
	if tyre == nil {
		return
	}

	var req fitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.VehicleID == "" || !models.IsValidPosition(req.Position) {
		respondError(w, http.StatusBadRequest, "vehicle_id and a valid position are required")
		return
	}
	if tyre.Status == models.TyreStatusWorn {
		respondError(w, http.StatusBadRequest, "a worn tyre cannot be fitted")
		return
	}
	if !s.positionFitsVehicle(w, req.VehicleID, tyre.FleetID, req.Position) {
		return
	}

	if err := s.db.FitTyre(tyre.ID, req.VehicleID, req.Position); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	updated, err := s.db.GetTyre(tyre.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

type removeRequest struct {
	Status string `json:"status"`
}

func (s *Server) handleRemoveTyre(w http.ResponseWriter, r *http.Request) {
	tyre := s.getTyreChecked(w, r, true)
	if tyre == nil {
		return
	}

	var req removeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Status == "" {
		req.Status = models.TyreStatusInStock
	}
	if req.Status != models.TyreStatusInStock && req.Status != models.TyreStatusWorn {
		respondError(w, http.StatusBadRequest, "status must be in_stock or worn")
		return
	}

	if err := s.db.UnfitTyre(tyre.ID, req.Status); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	updated, err := s.db.GetTyre(tyre.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

// positionFitsVehicle verifies the vehicle exists, belongs to the given
// fleet, and that its generated slot set actually contains the position key.
// Writes the error response and returns false otherwise. An empty position
// (tyre carried loose on the vehicle) passes.
func (s *Server) positionFitsVehicle(w http.ResponseWriter, vehicleID, fleetID, position string) bool {
	vehicle, err := s.db.GetVehicle(vehicleID)
	if err != nil {
		respondNotFoundOr(w, err, "vehicle")
		return false
	}
	if vehicle.FleetID != fleetID {
		respondError(w, http.StatusBadRequest, "vehicle belongs to a different fleet")
		return false
	}
	if position == "" {
		return true
	}

	slots := layout.GenerateSlots(layout.CategoryFor(vehicle.Type, vehicle.AxleCount), vehicle.AxleCount)
	for _, slot := range slots {
		if slot.Position == position {
			return true
		}
	}
	respondError(w, http.StatusBadRequest, "position does not exist on this vehicle")
	return false
}
