package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"fleet-tyre-manager/internal/db"

	"github.com/sirupsen/logrus"
)

type testEnv struct {
	t      *testing.T
	server *Server
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	database, err := db.New(filepath.Join(t.TempDir(), "api.db"))
	if err != nil {
		t.Fatalf("db.New: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	log := logrus.New()
	log.SetOutput(io.Discard)

	return &testEnv{t: t, server: NewServer(database, log, "test-secret")}
}

// do performs a JSON request and decodes the response envelope. A non-empty
// token is sent as a bearer credential.
func (e *testEnv) do(method, path, token string, body interface{}) (int, map[string]interface{}) {
	e.t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			e.t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.server.Router().ServeHTTP(rec, req)

	var envelope map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		e.t.Fatalf("%s %s: bad response body %q: %v", method, path, rec.Body.String(), err)
	}
	return rec.Code, envelope
}

func data(envelope map[string]interface{}) map[string]interface{} {
	d, _ := envelope["data"].(map[string]interface{})
	return d
}

func (e *testEnv) register(email string) (token, userID string) {
	e.t.Helper()
	code, envelope := e.do("POST", "/api/v1/auth/register", "", map[string]string{
		"email": email, "name": "Tester", "password": "hunter2hunter2",
	})
	if code != http.StatusCreated {
		e.t.Fatalf("register %s: status %d, body %v", email, code, envelope)
	}
	d := data(envelope)
	user, _ := d["user"].(map[string]interface{})
	return d["token"].(string), user["id"].(string)
}

func (e *testEnv) createFleet(token, name string) string {
	e.t.Helper()
	code, envelope := e.do("POST", "/api/v1/fleets", token, map[string]string{"name": name})
	if code != http.StatusCreated {
		e.t.Fatalf("create fleet: status %d, body %v", code, envelope)
	}
	return data(envelope)["id"].(string)
}

func (e *testEnv) createVehicle(token, fleetID string, vehicleType string, axles int) string {
	e.t.Helper()
	code, envelope := e.do("POST", "/api/v1/fleets/"+fleetID+"/vehicles", token, map[string]interface{}{
		"name": "V " + vehicleType, "type": vehicleType, "axle_count": axles, "year": 2020,
	})
	if code != http.StatusCreated {
		e.t.Fatalf("create vehicle: status %d, body %v", code, envelope)
	}
	return data(envelope)["id"].(string)
}

func TestPreflightGetsCORSHeaders(t *testing.T) {
	e := newTestEnv(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/fleets", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	e.server.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("preflight: status %d, want 204", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatalf("preflight missing Access-Control-Allow-Origin, headers %v", rec.Header())
	}
	if rec.Header().Get("Access-Control-Allow-Methods") == "" {
		t.Fatalf("preflight missing Access-Control-Allow-Methods")
	}
}

func TestDeleteVehicleLeavesTyresUpdatable(t *testing.T) {
	e := newTestEnv(t)
	token, _ := e.register("owner@example.com")
	fleetID := e.createFleet(token, "Main")
	carID := e.createVehicle(token, fleetID, "car", 2)

	code, envelope := e.do("POST", "/api/v1/fleets/"+fleetID+"/tyres", token, map[string]interface{}{
		"brand": "B", "vehicle_id": carID, "position": "front_left", "cost": "75",
	})
	if code != http.StatusCreated {
		t.Fatalf("create tyre: %d %v", code, envelope)
	}
	tyreID := data(envelope)["id"].(string)

	code, envelope = e.do("DELETE", "/api/v1/vehicles/"+carID, token, nil)
	if code != http.StatusOK {
		t.Fatalf("delete vehicle: %d %v", code, envelope)
	}

	// The tyre is back in stock with no dangling position.
	code, envelope = e.do("GET", "/api/v1/tyres/"+tyreID, token, nil)
	if code != http.StatusOK {
		t.Fatalf("get tyre: %d %v", code, envelope)
	}
	tyre := data(envelope)
	if tyre["status"] != "in_stock" || tyre["vehicle_id"] != nil || tyre["position"] != nil {
		t.Fatalf("tyre after vehicle deletion: %v", tyre)
	}

	// Writing the tyre back unchanged must not be rejected.
	code, envelope = e.do("PUT", "/api/v1/tyres/"+tyreID, token, map[string]interface{}{
		"brand": "B", "cost": "75", "status": "in_stock",
	})
	if code != http.StatusOK {
		t.Fatalf("round-trip update after vehicle deletion: %d %v", code, envelope)
	}
}

func TestUpdateKeepsCreatedAt(t *testing.T) {
	e := newTestEnv(t)
	token, _ := e.register("owner@example.com")
	fleetID := e.createFleet(token, "Main")
	carID := e.createVehicle(token, fleetID, "car", 2)

	code, envelope := e.do("GET", "/api/v1/vehicles/"+carID, token, nil)
	if code != http.StatusOK {
		t.Fatalf("get vehicle: %d %v", code, envelope)
	}
	created := data(envelope)["created_at"].(string)

	code, envelope = e.do("PUT", "/api/v1/vehicles/"+carID, token, map[string]interface{}{
		"name": "Renamed", "type": "car", "axle_count": 2, "year": 2021,
	})
	if code != http.StatusOK {
		t.Fatalf("update vehicle: %d %v", code, envelope)
	}
	if got := data(envelope)["created_at"].(string); got != created {
		t.Fatalf("update response created_at = %q, want stored %q", got, created)
	}
}

func TestHealthIsPublic(t *testing.T) {
	e := newTestEnv(t)
	code, envelope := e.do("GET", "/health", "", nil)
	if code != http.StatusOK {
		t.Fatalf("health: %d %v", code, envelope)
	}
}

func TestAuthRequired(t *testing.T) {
	e := newTestEnv(t)
	code, _ := e.do("GET", "/api/v1/fleets", "", nil)
	if code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", code)
	}
	code, _ = e.do("GET", "/api/v1/fleets", "not-a-token", nil)
	if code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with garbage token, got %d", code)
	}
}

func TestRegisterLoginRoundTrip(t *testing.T) {
	e := newTestEnv(t)
	e.register("owner@example.com")

	code, envelope := e.do("POST", "/api/v1/auth/login", "", map[string]string{
		"email": "owner@example.com", "password": "hunter2hunter2",
	})
	if code != http.StatusOK {
		t.Fatalf("login: %d %v", code, envelope)
	}
	if data(envelope)["token"] == "" {
		t.Fatalf("login returned no token")
	}

	code, _ = e.do("POST", "/api/v1/auth/login", "", map[string]string{
		"email": "owner@example.com", "password": "wrong-password",
	})
	if code != http.StatusUnauthorized {
		t.Fatalf("wrong password: expected 401, got %d", code)
	}

	code, _ = e.do("POST", "/api/v1/auth/register", "", map[string]string{
		"email": "owner@example.com", "name": "Dup", "password": "hunter2hunter2",
	})
	if code != http.StatusConflict {
		t.Fatalf("duplicate register: expected 409, got %d", code)
	}
}

func TestVehicleValidation(t *testing.T) {
	e := newTestEnv(t)
	token, _ := e.register("owner@example.com")
	fleetID := e.createFleet(token, "Main")

	code, envelope := e.do("POST", "/api/v1/fleets/"+fleetID+"/vehicles", token, map[string]interface{}{
		"name": "Bad", "type": "truck", "axle_count": 11, "year": 1975,
	})
	if code != http.StatusBadRequest {
		t.Fatalf("expected 400 for out-of-range vehicle, got %d %v", code, envelope)
	}
}

func TestVehicleLayoutEndToEnd(t *testing.T) {
	e := newTestEnv(t)
	token, _ := e.register("owner@example.com")
	fleetID := e.createFleet(token, "Main")
	vehicleID := e.createVehicle(token, fleetID, "truck", 3)

	// Fit ten tyres covering all non-spare positions of a 3-axle truck.
	positions := []string{
		"front_left", "front_right",
		"outer_left", "inner_left", "inner_right", "outer_right",
		"rear_left", "rear_left", "rear_right", "rear_right",
	}
	for i, pos := range positions {
		code, envelope := e.do("POST", "/api/v1/fleets/"+fleetID+"/tyres", token, map[string]interface{}{
			"brand": "Brand", "model": fmt.Sprintf("M-%d", i), "vehicle_id": vehicleID,
			"position": pos, "tread_depth_mm": 10.0, "cost": "150.00",
		})
		if code != http.StatusCreated {
			t.Fatalf("create tyre %d (%s): %d %v", i, pos, code, envelope)
		}
	}

	code, envelope := e.do("GET", "/api/v1/vehicles/"+vehicleID+"/layout", token, nil)
	if code != http.StatusOK {
		t.Fatalf("layout: %d %v", code, envelope)
	}
	d := data(envelope)
	if d["category"] != "heavy" {
		t.Fatalf("category = %v", d["category"])
	}
	slots, _ := d["slots"].([]interface{})
	if len(slots) != 11 {
		t.Fatalf("slots = %d, want 11", len(slots))
	}
	assigned, _ := d["assigned"].(map[string]interface{})
	filled := 0
	for _, v := range assigned {
		if v != nil {
			filled++
		}
	}
	if filled != 10 {
		t.Fatalf("filled = %d, want 10 (spare empty)", filled)
	}
	if assigned["spare"] != nil {
		t.Fatalf("spare slot should be empty")
	}
	if d["unplaced"] != nil {
		t.Fatalf("unplaced = %v, want none", d["unplaced"])
	}
}

func TestTyrePositionMustExistOnVehicle(t *testing.T) {
	e := newTestEnv(t)
	token, _ := e.register("owner@example.com")
	fleetID := e.createFleet(token, "Main")
	carID := e.createVehicle(token, fleetID, "car", 2)

	// A car has no inner_left slot.
	code, envelope := e.do("POST", "/api/v1/fleets/"+fleetID+"/tyres", token, map[string]interface{}{
		"brand": "Brand", "vehicle_id": carID, "position": "inner_left", "cost": "80",
	})
	if code != http.StatusBadRequest {
		t.Fatalf("expected 400 for position missing on vehicle, got %d %v", code, envelope)
	}
}

func TestPositionOptionsEndpoint(t *testing.T) {
	e := newTestEnv(t)
	token, _ := e.register("owner@example.com")

	code, envelope := e.do("GET", "/api/v1/positions?type=dump_truck&axle_count=3", token, nil)
	if code != http.StatusOK {
		t.Fatalf("positions: %d %v", code, envelope)
	}
	options, _ := envelope["data"].([]interface{})
	// dump/3: front pair, rear pair (non-dual axle 2), outer/inner group, spare.
	if len(options) != 9 {
		t.Fatalf("options = %d, want 9", len(options))
	}

	code, _ = e.do("GET", "/api/v1/positions?type=truck&axle_count=0", token, nil)
	if code != http.StatusBadRequest {
		t.Fatalf("expected 400 for axle_count=0, got %d", code)
	}
}

func TestMembershipRolesEnforced(t *testing.T) {
	e := newTestEnv(t)
	ownerToken, _ := e.register("owner@example.com")
	viewerToken, _ := e.register("viewer@example.com")
	strangerToken, _ := e.register("stranger@example.com")
	fleetID := e.createFleet(ownerToken, "Main")

	code, envelope := e.do("POST", "/api/v1/fleets/"+fleetID+"/members", ownerToken, map[string]string{
		"email": "viewer@example.com", "role": "viewer",
	})
	if code != http.StatusCreated {
		t.Fatalf("add member: %d %v", code, envelope)
	}

	// Viewer can read but not write.
	code, _ = e.do("GET", "/api/v1/fleets/"+fleetID+"/vehicles", viewerToken, nil)
	if code != http.StatusOK {
		t.Fatalf("viewer list vehicles: %d", code)
	}
	code, _ = e.do("POST", "/api/v1/fleets/"+fleetID+"/vehicles", viewerToken, map[string]interface{}{
		"name": "X", "type": "car", "axle_count": 2, "year": 2020,
	})
	if code != http.StatusForbidden {
		t.Fatalf("viewer create vehicle: expected 403, got %d", code)
	}

	// Non-members see nothing.
	code, _ = e.do("GET", "/api/v1/fleets/"+fleetID, strangerToken, nil)
	if code != http.StatusForbidden {
		t.Fatalf("stranger get fleet: expected 403, got %d", code)
	}

	// Only the owner manages members.
	code, _ = e.do("POST", "/api/v1/fleets/"+fleetID+"/members", viewerToken, map[string]string{
		"email": "stranger@example.com", "role": "viewer",
	})
	if code != http.StatusForbidden {
		t.Fatalf("viewer add member: expected 403, got %d", code)
	}
}

func TestFitFromStockDecrements(t *testing.T) {
	e := newTestEnv(t)
	token, _ := e.register("owner@example.com")
	fleetID := e.createFleet(token, "Main")
	vanID := e.createVehicle(token, fleetID, "van", 2)

	code, envelope := e.do("POST", "/api/v1/fleets/"+fleetID+"/stock", token, map[string]interface{}{
		"brand": "Brand", "model": "AllSeason", "size": "235/65R16", "quantity": 1, "unit_cost": "130.25",
	})
	if code != http.StatusCreated {
		t.Fatalf("create stock: %d %v", code, envelope)
	}
	stockID := data(envelope)["id"].(string)

	code, envelope = e.do("POST", "/api/v1/stock/"+stockID+"/fit", token, map[string]interface{}{
		"vehicle_id": vanID, "position": "outer_left", "tread_depth_mm": 9.5,
	})
	if code != http.StatusCreated {
		t.Fatalf("fit from stock: %d %v", code, envelope)
	}
	tyre := data(envelope)
	if tyre["status"] != "fitted" || tyre["position"] != "outer_left" {
		t.Fatalf("tyre = %v", tyre)
	}

	// Line is exhausted now.
	code, _ = e.do("POST", "/api/v1/stock/"+stockID+"/fit", token, map[string]interface{}{})
	if code != http.StatusConflict {
		t.Fatalf("fit from empty stock: expected 409, got %d", code)
	}
}

func TestAnalyticsEndpoints(t *testing.T) {
	e := newTestEnv(t)
	token, _ := e.register("owner@example.com")
	fleetID := e.createFleet(token, "Main")
	carID := e.createVehicle(token, fleetID, "car", 2)

	for _, c := range []struct {
		pos   string
		tread float64
		cost  string
	}{
		{"front_left", 2.0, "90.50"},
		{"front_right", 7.5, "90.50"},
	} {
		code, envelope := e.do("POST", "/api/v1/fleets/"+fleetID+"/tyres", token, map[string]interface{}{
			"brand": "B", "vehicle_id": carID, "position": c.pos,
			"tread_depth_mm": c.tread, "cost": c.cost,
		})
		if code != http.StatusCreated {
			t.Fatalf("create tyre: %d %v", code, envelope)
		}
	}

	code, envelope := e.do("GET", "/api/v1/fleets/"+fleetID+"/analytics/costs", token, nil)
	if code != http.StatusOK {
		t.Fatalf("costs: %d %v", code, envelope)
	}
	if data(envelope)["total_spend"] != "181" {
		t.Fatalf("total_spend = %v, want 181", data(envelope)["total_spend"])
	}

	code, envelope = e.do("GET", "/api/v1/fleets/"+fleetID+"/analytics/tread?threshold=3", token, nil)
	if code != http.StatusOK {
		t.Fatalf("tread: %d %v", code, envelope)
	}
	vehicles, _ := data(envelope)["vehicles"].([]interface{})
	if len(vehicles) != 1 {
		t.Fatalf("tread vehicles = %v", vehicles)
	}
	vt, _ := vehicles[0].(map[string]interface{})
	if vt["below_threshold"].(float64) != 1 {
		t.Fatalf("below_threshold = %v, want 1", vt["below_threshold"])
	}
}
