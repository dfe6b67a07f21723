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

func (s *Server) handleListVehicles(w http.ResponseWriter, r *http.Request) {
	fleetID := mux.Vars(r)["id"]
	if !s.requireMember(w, r, fleetID, false, false) {
		return
	}
	vehicles, err := s.db.ListVehicles(fleetID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondWithMeta(w, vehicles, &meta{Total: len(vehicles)})
}

func (s *Server) handleCreateVehicle(w http.ResponseWriter, r *http.Request) {
	fleetID := mux.Vars(r)["id"]
	if !s.requireMember(w, r, fleetID, true, false) {
		return
	}

	var v models.Vehicle
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if errs := models.ValidateVehicle(&v); len(errs) > 0 {
		respondError(w, http.StatusBadRequest, strings.Join(errs, "; "))
		return
	}

	v.ID = uuid.NewString()
	v.FleetID = fleetID
	if err := s.db.InsertVehicle(&v); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, v)
}

// getVehicleChecked loads a vehicle and enforces fleet membership. Returns
// nil after writing the response when the caller may not proceed.
func (s *Server) getVehicleChecked(w http.ResponseWriter, r *http.Request, write bool) *models.Vehicle {
	vehicle, err := s.db.GetVehicle(mux.Vars(r)["id"])
	if err != nil {
		respondNotFoundOr(w, err, "vehicle")
		return nil
	}
	if !s.requireMember(w, r, vehicle.FleetID, write, false) {
		return nil
	}
	return vehicle
}

func (s *Server) handleGetVehicle(w http.ResponseWriter, r *http.Request) {
	vehicle := s.getVehicleChecked(w, r, false)
	if vehicle == nil {
		return
	}
	respondJSON(w, http.StatusOK, vehicle)
}

func (s *Server) handleUpdateVehicle(w http.ResponseWriter, r *http.Request) {
	vehicle := s.getVehicleChecked(w, r, true)
	if vehicle == nil {
		return
	}

	var update models.Vehicle
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	update.ID = vehicle.ID
	update.FleetID = vehicle.FleetID
	update.CreatedAt = vehicle.CreatedAt
	if errs := models.ValidateVehicle(&update); len(errs) > 0 {
		respondError(w, http.StatusBadRequest, strings.Join(errs, "; "))
		return
	}

	if err := s.db.UpdateVehicle(&update); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, update)
}

func (s *Server) handleDeleteVehicle(w http.ResponseWriter, r *http.Request) {
	vehicle := s.getVehicleChecked(w, r, true)
	if vehicle == nil {
		return
	}
	if err := s.db.DeleteVehicle(vehicle.ID); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"deleted": vehicle.ID})
}

// layoutResponse is the diagram payload: the generated slots, which tyre
// sits in each, and any tyres that found no slot.
type layoutResponse struct {
	VehicleID string                  `json:"vehicle_id"`
	Category  string                  `json:"category"`
	Slots     []layout.Slot           `json:"slots"`
	Assigned  map[string]*models.Tyre `json:"assigned"`
	Unplaced  []models.Tyre           `json:"unplaced"`
}

func (s *Server) handleVehicleLayout(w http.ResponseWriter, r *http.Request) {
	vehicle := s.getVehicleChecked(w, r, false)
	if vehicle == nil {
		return
	}

	tyres, err := s.db.QueryTyres(db.TyreQuery{VehicleID: vehicle.ID})
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	category := layout.CategoryFor(vehicle.Type, vehicle.AxleCount)
	slots := layout.GenerateSlots(category, vehicle.AxleCount)
	assigned, unplaced := layout.MatchTyresToSlots(slots, tyres)

	respondJSON(w, http.StatusOK, layoutResponse{
		VehicleID: vehicle.ID,
		Category:  category.String(),
		Slots:     slots,
		Assigned:  assigned,
		Unplaced:  unplaced,
	})
}

// handlePositionOptions serves the {value,label} pairs for a position
// dropdown, from either an existing vehicle (?vehicle_id=) or a prospective
// configuration (?type=&axle_count=).
func (s *Server) handlePositionOptions(w http.ResponseWriter, r *http.Request) {
	vehicleType := r.URL.Query().Get("type")
	axleCount := 2
	if v := r.URL.Query().Get("axle_count"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 10 {
			respondError(w, http.StatusBadRequest, "axle_count must be between 1 and 10")
			return
		}
		axleCount = n
	}

	if id := r.URL.Query().Get("vehicle_id"); id != "" {
		vehicle, err := s.db.GetVehicle(id)
		if err != nil {
			respondNotFoundOr(w, err, "vehicle")
			return
		}
		if !s.requireMember(w, r, vehicle.FleetID, false, false) {
			return
		}
		vehicleType = vehicle.Type
		axleCount = vehicle.AxleCount
	}

	slots := layout.GenerateSlots(layout.CategoryFor(vehicleType, axleCount), axleCount)
	respondJSON(w, http.StatusOK, layout.PositionOptions(slots))
}

// handleVehicleTypes serves the known vehicle type strings for the vehicle
// form. Other values are accepted on save and treated as light vehicles.
func (s *Server) handleVehicleTypes(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, models.VehicleTypes)
}
