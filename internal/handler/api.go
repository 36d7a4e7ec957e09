package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/ashu917/Car-rental/internal/apperror"
	"github.com/ashu917/Car-rental/internal/logger"
	"github.com/ashu917/Car-rental/internal/models"
	"github.com/ashu917/Car-rental/internal/service"
	"github.com/ashu917/Car-rental/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// API wires the rental services to their HTTP endpoints. Every response
// carries the {success, message} envelope; status codes follow the error
// classification.
type API struct {
	logger   *logger.Logger
	auth     *service.AuthService
	bookings *service.BookingService
	fleet    *service.FleetService
	store    store.Store
	loc      *time.Location
}

func New(log *logger.Logger, auth *service.AuthService, bookings *service.BookingService, fleet *service.FleetService, st store.Store, loc *time.Location) *API {
	return &API{
		logger:   log,
		auth:     auth,
		bookings: bookings,
		fleet:    fleet,
		store:    st,
		loc:      loc,
	}
}

// Routes builds the full router.
func (a *API) Routes() *chi.Mux {
	r := chi.NewRouter()

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/users", func(r chi.Router) {
		r.Post("/register", a.register)
		r.Post("/login", a.login)
		r.With(a.requireAuth).Get("/me", a.me)
	})

	r.Route("/api/bookings", func(r chi.Router) {
		r.Post("/check-availability", a.checkAvailability)

		r.Group(func(r chi.Router) {
			r.Use(a.requireAuth)
			r.Post("/create-booking", a.createBooking)
			r.Post("/cancel", a.cancelBooking)
			r.Post("/update-dates", a.updateBookingDates)
			r.Get("/user-bookings", a.userBookings)
			r.With(a.requireRole(models.RoleOwner)).Post("/change-status", a.changeStatus)
			r.With(a.requireRole(models.RoleOwner)).Get("/owner", a.ownerBookings)
		})
	})

	r.Route("/api/owner", func(r chi.Router) {
		r.Use(a.requireAuth)
		r.Use(a.requireRole(models.RoleOwner))
		r.Post("/add-car", a.addCar)
		r.Get("/cars", a.ownerCars)
		r.Post("/toggle-car", a.toggleCar)
	})

	return r
}

type envelope map[string]interface{}

func (a *API) writeJSON(w http.ResponseWriter, status int, payload envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		a.logger.Error("Failed to encode response", logger.Error(err))
	}
}

func (a *API) writeError(w http.ResponseWriter, err error) {
	kind := apperror.KindOf(err)
	if kind == apperror.KindInternal {
		// the cause stays in the server log, the caller gets the generic message
		a.logger.Error("Request failed", logger.Error(err))
	}
	a.writeJSON(w, statusFor(kind), envelope{
		"success": false,
		"message": apperror.MessageOf(err),
	})
}

func statusFor(kind apperror.Kind) int {
	switch kind {
	case apperror.KindValidation:
		return http.StatusBadRequest
	case apperror.KindUnauthenticated:
		return http.StatusUnauthorized
	case apperror.KindUnauthorized:
		return http.StatusForbidden
	case apperror.KindNotFound:
		return http.StatusNotFound
	case apperror.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (a *API) decode(r *http.Request, v interface{}) error {
	defer func() {
		_ = r.Body.Close()
	}()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperror.Validation("invalid JSON body")
	}
	return nil
}

// parseDate turns a required request field into a timestamp. An empty
// field yields a zero time so the service can report the missing field.
func (a *API) parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := models.ParseDate(s, a.loc)
	if err != nil {
		return time.Time{}, apperror.Validation("invalid date %q", s)
	}
	return t, nil
}

type ctxKey int

const userKey ctxKey = 0

// requireAuth resolves the bearer token to a user and stores it on the
// request context. Services still receive the identity explicitly.
func (a *API) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		const prefix = "Bearer "
		if len(header) <= len(prefix) || header[:len(prefix)] != prefix {
			a.writeError(w, apperror.Unauthenticated("not authorized - no token provided"))
			return
		}
		user, err := a.auth.VerifyToken(header[len(prefix):])
		if err != nil {
			a.writeError(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey, user)))
	})
}

func (a *API) requireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := currentUser(r)
			if user == nil || user.Role != role {
				a.writeError(w, apperror.Unauthorized("you are not authorized to access this resource"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func currentUser(r *http.Request) *models.User {
	user, _ := r.Context().Value(userKey).(*models.User)
	return user
}
