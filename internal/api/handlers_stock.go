package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"fleet-tyre-manager/internal/models"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

func (s *Server) handleListStock(w http.ResponseWriter, r *http.Request) {
	fleetID := mux.Vars(r)["id"]
	if !s.requireMember(w, r, fleetID, false, false) {
		return
	}
	items, err := s.db.ListStock(fleetID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondWithMeta(w, items, &meta{Total: len(items)})
}

func (s *Server) handleCreateStockItem(w http.ResponseWriter, r *http.Request) {
	fleetID := mux.Vars(r)["id"]
	if !s.requireMember(w, r, fleetID, true, false) {
		return
	}

	var item models.StockItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if errs := models.ValidateStockItem(&item); len(errs) > 0 {
		respondError(w, http.StatusBadRequest, strings.Join(errs, "; "))
		return
	}

	item.ID = uuid.NewString()
	item.FleetID = fleetID
	if err := s.db.InsertStockItem(&item); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, item)
}

func (s *Server) getStockChecked(w http.ResponseWriter, r *http.Request) *models.StockItem {
	item, err := s.db.GetStockItem(mux.Vars(r)["id"])
	if err != nil {
		respondNotFoundOr(w, err, "stock item")
		return nil
	}
	if !s.requireMember(w, r, item.FleetID, true, false) {
		return nil
	}
	return item
}

func (s *Server) handleUpdateStockItem(w http.ResponseWriter, r *http.Request) {
	item := s.getStockChecked(w, r)
	if item == nil {
		return
	}

	var update models.StockItem
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	update.ID = item.ID
	update.FleetID = item.FleetID
	update.CreatedAt = item.CreatedAt
	if errs := models.ValidateStockItem(&update); len(errs) > 0 {
		respondError(w, http.StatusBadRequest, strings.Join(errs, "; "))
		return
	}

	if err := s.db.UpdateStockItem(&update); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, update)
}

func (s *Server) handleDeleteStockItem(w http.ResponseWriter, r *http.Request) {
	item := s.getStockChecked(w, r)
	if item == nil {
		return
	}
	if err := s.db.DeleteStockItem(item.ID); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"deleted": item.ID})
}

type fitFromStockRequest struct {
	VehicleID    string  `json:"vehicle_id,omitempty"`
	Position     string  `json:"position,omitempty"`
	TreadDepthMM float64 `json:"tread_depth_mm"`
}

// handleFitFromStock takes one unit off an inventory line and creates a
// tyre from it, optionally mounting it straight onto a vehicle position.
func (s *Server) handleFitFromStock(w http.ResponseWriter, r *http.Request) {
	item := s.getStockChecked(w, r)
	if item == nil {
		return
	}

	var req fitFromStockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	t := models.Tyre{
		ID:           uuid.NewString(),
		FleetID:      item.FleetID,
		Brand:        item.Brand,
		Model:        item.Model,
		Size:         item.Size,
		TreadDepthMM: req.TreadDepthMM,
		Cost:         item.UnitCost,
		Status:       models.TyreStatusInStock,
	}
	if req.VehicleID != "" {
		if req.Position != "" && !models.IsValidPosition(req.Position) {
			respondError(w, http.StatusBadRequest, "position must be one of the known position keys")
			return
		}
		if !s.positionFitsVehicle(w, req.VehicleID, item.FleetID, req.Position) {
			return
		}
		t.VehicleID = req.VehicleID
		t.Position = req.Position
		t.Status = models.TyreStatusFitted
	}

	if err := s.db.TakeFromStock(item.ID, &t); err != nil {
		respondError(w, http.StatusConflict, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, t)
}
