package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/ashu917/Car-rental/internal/logger"
	"github.com/ashu917/Car-rental/internal/metrics"
	"github.com/ashu917/Car-rental/internal/service"
	"github.com/ashu917/Car-rental/internal/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type apiFixture struct {
	server *httptest.Server
	t      *testing.T
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	st, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = st.Close()
	})

	log := logger.NewWithWriter(&bytes.Buffer{})
	m := metrics.NewWithRegistry(prometheus.NewRegistry())
	auth := service.NewAuthService(st, "test-secret")
	bookings := service.NewBookingService(log, st, nil, m, time.UTC)
	fleet := service.NewFleetService(log, st, m, time.UTC)

	api := New(log, auth, bookings, fleet, st, time.UTC)
	server := httptest.NewServer(api.Routes())
	t.Cleanup(server.Close)
	return &apiFixture{server: server, t: t}
}

func (f *apiFixture) do(method, path, token string, body interface{}) (int, map[string]interface{}) {
	f.t.Helper()
	var payload bytes.Buffer
	if body != nil {
		require.NoError(f.t, json.NewEncoder(&payload).Encode(body))
	}
	req, err := http.NewRequest(method, f.server.URL+path, &payload)
	require.NoError(f.t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := f.server.Client().Do(req)
	require.NoError(f.t, err)
	defer func() {
		_ = resp.Body.Close()
	}()

	var decoded map[string]interface{}
	require.NoError(f.t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp.StatusCode, decoded
}

func (f *apiFixture) registerAndLogin(name, email, role string) string {
	f.t.Helper()
	status, _ := f.do(http.MethodPost, "/api/users/register", "", map[string]string{
		"name": name, "email": email, "password": "secret123", "role": role,
	})
	require.Equal(f.t, http.StatusCreated, status)

	status, body := f.do(http.MethodPost, "/api/users/login", "", map[string]string{
		"email": email, "password": "secret123",
	})
	require.Equal(f.t, http.StatusOK, status)
	token, _ := body["token"].(string)
	require.NotEmpty(f.t, token)
	return token
}

func (f *apiFixture) addCar(ownerToken, location string, pricePerDay float64) string {
	f.t.Helper()
	status, body := f.do(http.MethodPost, "/api/owner/add-car", ownerToken, map[string]interface{}{
		"brand": "Honda", "model": "City", "location": location, "pricePerDay": pricePerDay,
	})
	require.Equal(f.t, http.StatusCreated, status)
	car, _ := body["car"].(map[string]interface{})
	id, _ := car["_id"].(string)
	require.NotEmpty(f.t, id)
	return id
}

func TestBookingFlow(t *testing.T) {
	f := newAPIFixture(t)
	owner := f.registerAndLogin("Olive", "owner@example.com", "owner")
	renter := f.registerAndLogin("Rita", "renter@example.com", "user")
	carID := f.addCar(owner, "Mumbai", 100)

	// public search sees the car
	status, body := f.do(http.MethodPost, "/api/bookings/check-availability", "", map[string]string{
		"location": "Mumbai", "pickupDate": "2024-06-10", "returnDate": "2024-06-12",
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["success"])
	assert.Len(t, body["availableCars"], 1)

	// renter books it
	status, body = f.do(http.MethodPost, "/api/bookings/create-booking", renter, map[string]string{
		"car": carID, "pickupDate": "2024-06-10", "returnDate": "2024-06-12",
	})
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, true, body["success"])

	// the same range is now a conflict
	status, body = f.do(http.MethodPost, "/api/bookings/create-booking", renter, map[string]string{
		"car": carID, "pickupDate": "2024-06-11", "returnDate": "2024-06-13",
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, false, body["success"])

	// and search no longer offers the car
	status, body = f.do(http.MethodPost, "/api/bookings/check-availability", "", map[string]string{
		"location": "Mumbai", "pickupDate": "2024-06-10", "returnDate": "2024-06-12",
	})
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, body["availableCars"])

	// renter sees the booking
	status, body = f.do(http.MethodGet, "/api/bookings/user-bookings", renter, nil)
	require.Equal(t, http.StatusOK, status)
	bookings, _ := body["bookings"].([]interface{})
	require.Len(t, bookings, 1)
	booking, _ := bookings[0].(map[string]interface{})
	bookingID, _ := booking["_id"].(string)
	assert.Equal(t, "pending", booking["status"])
	assert.Equal(t, float64(300), booking["price"])

	// the owner confirms it
	status, _ = f.do(http.MethodPost, "/api/bookings/change-status", owner, map[string]string{
		"bookingId": bookingID, "status": "confirmed",
	})
	require.Equal(t, http.StatusOK, status)

	status, body = f.do(http.MethodGet, "/api/bookings/owner", owner, nil)
	require.Equal(t, http.StatusOK, status)
	bookings, _ = body["bookings"].([]interface{})
	require.Len(t, bookings, 1)
	booking, _ = bookings[0].(map[string]interface{})
	assert.Equal(t, "confirmed", booking["status"])

	// renter cancels, twice, both fine
	for i := 0; i < 2; i++ {
		status, body = f.do(http.MethodPost, "/api/bookings/cancel", renter, map[string]string{
			"bookingId": bookingID,
		})
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, true, body["success"])
	}
}

func TestUpdateDatesFlow(t *testing.T) {
	f := newAPIFixture(t)
	owner := f.registerAndLogin("Olive", "owner@example.com", "owner")
	renter := f.registerAndLogin("Rita", "renter@example.com", "user")
	carID := f.addCar(owner, "Delhi", 50)

	status, _ := f.do(http.MethodPost, "/api/bookings/create-booking", renter, map[string]string{
		"car": carID, "pickupDate": "2024-06-10", "returnDate": "2024-06-12",
	})
	require.Equal(t, http.StatusCreated, status)

	status, body := f.do(http.MethodGet, "/api/bookings/user-bookings", renter, nil)
	require.Equal(t, http.StatusOK, status)
	bookings, _ := body["bookings"].([]interface{})
	booking, _ := bookings[0].(map[string]interface{})
	bookingID, _ := booking["_id"].(string)

	status, body = f.do(http.MethodPost, "/api/bookings/update-dates", renter, map[string]string{
		"bookingId": bookingID, "pickupDate": "2024-06-20", "returnDate": "2024-06-23",
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["success"])

	status, body = f.do(http.MethodGet, "/api/bookings/user-bookings", renter, nil)
	require.Equal(t, http.StatusOK, status)
	bookings, _ = body["bookings"].([]interface{})
	booking, _ = bookings[0].(map[string]interface{})
	assert.Equal(t, float64(200), booking["price"], "price is recomputed from the new range")
}

func TestAuthAndRoleEnforcement(t *testing.T) {
	f := newAPIFixture(t)
	owner := f.registerAndLogin("Olive", "owner@example.com", "owner")
	renter := f.registerAndLogin("Rita", "renter@example.com", "user")
	carID := f.addCar(owner, "Pune", 100)

	t.Run("no token", func(t *testing.T) {
		status, body := f.do(http.MethodPost, "/api/bookings/create-booking", "", map[string]string{
			"car": carID, "pickupDate": "2024-06-10", "returnDate": "2024-06-12",
		})
		assert.Equal(t, http.StatusUnauthorized, status)
		assert.Equal(t, false, body["success"])
	})

	t.Run("garbage token", func(t *testing.T) {
		status, _ := f.do(http.MethodGet, "/api/users/me", "nonsense", nil)
		assert.Equal(t, http.StatusUnauthorized, status)
	})

	t.Run("renter cannot change status", func(t *testing.T) {
		status, _ := f.do(http.MethodPost, "/api/bookings/change-status", renter, map[string]string{
			"bookingId": "whatever", "status": "confirmed",
		})
		assert.Equal(t, http.StatusForbidden, status)
	})

	t.Run("renter cannot add cars", func(t *testing.T) {
		status, _ := f.do(http.MethodPost, "/api/owner/add-car", renter, map[string]string{
			"brand": "BMW", "model": "X1", "location": "Pune",
		})
		assert.Equal(t, http.StatusForbidden, status)
	})

	t.Run("owner cannot toggle another owner's car", func(t *testing.T) {
		other := f.registerAndLogin("Oscar", "other-owner@example.com", "owner")
		status, _ := f.do(http.MethodPost, "/api/owner/toggle-car", other, map[string]string{
			"carId": carID,
		})
		assert.Equal(t, http.StatusForbidden, status)
	})
}

func TestValidationStatusCodes(t *testing.T) {
	f := newAPIFixture(t)
	owner := f.registerAndLogin("Olive", "owner@example.com", "owner")
	renter := f.registerAndLogin("Rita", "renter@example.com", "user")
	carID := f.addCar(owner, "Goa", 100)

	t.Run("reversed range", func(t *testing.T) {
		status, _ := f.do(http.MethodPost, "/api/bookings/create-booking", renter, map[string]string{
			"car": carID, "pickupDate": "2024-06-12", "returnDate": "2024-06-10",
		})
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("malformed date", func(t *testing.T) {
		status, _ := f.do(http.MethodPost, "/api/bookings/check-availability", "", map[string]string{
			"location": "Goa", "pickupDate": "someday", "returnDate": "2024-06-10",
		})
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("unknown car is 404", func(t *testing.T) {
		status, _ := f.do(http.MethodPost, "/api/bookings/create-booking", renter, map[string]string{
			"car": "missing", "pickupDate": "2024-06-10", "returnDate": "2024-06-12",
		})
		assert.Equal(t, http.StatusNotFound, status)
	})

	t.Run("unknown booking is 404", func(t *testing.T) {
		status, _ := f.do(http.MethodPost, "/api/bookings/cancel", renter, map[string]string{
			"bookingId": "missing",
		})
		assert.Equal(t, http.StatusNotFound, status)
	})

	t.Run("invalid status value", func(t *testing.T) {
		status, _ := f.do(http.MethodPost, "/api/bookings/change-status", owner, map[string]string{
			"bookingId": "missing", "status": "approved",
		})
		assert.Equal(t, http.StatusBadRequest, status)
	})
}

func TestToggleCarHidesFromSearch(t *testing.T) {
	f := newAPIFixture(t)
	owner := f.registerAndLogin("Olive", "owner@example.com", "owner")
	carID := f.addCar(owner, "Jaipur", 100)

	status, _ := f.do(http.MethodPost, "/api/owner/toggle-car", owner, map[string]string{
		"carId": carID,
	})
	require.Equal(t, http.StatusOK, status)

	status, body := f.do(http.MethodPost, "/api/bookings/check-availability", "", map[string]string{
		"location": "Jaipur", "pickupDate": "2024-06-10", "returnDate": "2024-06-12",
	})
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, body["availableCars"])
}
