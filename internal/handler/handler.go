package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"pet-manager-api/internal/auth"
	"pet-manager-api/internal/middleware"
	"pet-manager-api/internal/schedule"
	"pet-manager-api/internal/store"
)

const maxBody = 1 << 20

type Handler struct {
	users   *store.Store
	issuer  *auth.Issuer
	appts   *schedule.MemoryStore
	log     *zap.Logger
	uniform bool
	loc     *time.Location
	now     func() time.Time
	limit   mux.MiddlewareFunc

	// verified against for unknown emails in uniform mode so both paths
	// cost one hash
	dummyHash string
}

type Options struct {
	// UniformLoginErrors answers an unknown email exactly like a wrong
	// password.
	UniformLoginErrors bool
	// Location reads appointment dates and times. Defaults to time.Local.
	Location *time.Location
	Now      func() time.Time
	// AuthLimit wraps signup and login.
	AuthLimit func(http.Handler) http.Handler
}

func New(st *store.Store, iss *auth.Issuer, appts *schedule.MemoryStore, log *zap.Logger, opts Options) (*Handler, error) {
	h := &Handler{
		users:   st,
		issuer:  iss,
		appts:   appts,
		log:     log,
		uniform: opts.UniformLoginErrors,
		loc:     opts.Location,
		now:     opts.Now,
		limit:   opts.AuthLimit,
	}
	if h.loc == nil {
		h.loc = time.Local
	}
	if h.now == nil {
		h.now = time.Now
	}
	if h.uniform {
		hash, err := auth.HashPassword(uuid.NewString())
		if err != nil {
			return nil, fmt.Errorf("uniform login hash: %w", err)
		}
		h.dummyHash = hash
	}
	return h, nil
}

// Routes registers every endpoint on r.
func (h *Handler) Routes(r *mux.Router) {
	r.HandleFunc("/", h.Root).Methods(http.MethodGet)
	r.HandleFunc("/healthz", h.Healthz).Methods(http.MethodGet)
	r.HandleFunc("/readyz", h.Readyz).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()

	open := api.PathPrefix("/auth").Subrouter()
	if h.limit != nil {
		open.Use(h.limit)
	}
	open.HandleFunc("/signup", h.Signup).Methods(http.MethodPost)
	open.HandleFunc("/login", h.Login).Methods(http.MethodPost)

	priv := api.NewRoute().Subrouter()
	priv.Use(middleware.Authenticate(h.issuer, h.log))
	priv.HandleFunc("/auth/password", h.ChangePassword).Methods(http.MethodPut)
	priv.HandleFunc("/protected", h.Protected).Methods(http.MethodGet)
	priv.HandleFunc("/dashboard", h.Dashboard).Methods(http.MethodGet)
	priv.HandleFunc("/appointments", h.ListAppointments).Methods(http.MethodGet)
	priv.HandleFunc("/appointments", h.CreateAppointment).Methods(http.MethodPost)
	priv.HandleFunc("/appointments/{id}", h.UpdateAppointment).Methods(http.MethodPut)
	priv.HandleFunc("/appointments/{id}", h.DeleteAppointment).Methods(http.MethodDelete)
	priv.HandleFunc("/appointments/{id}/complete", h.CompleteAppointment).Methods(http.MethodPost)
}

var errBadBody = errors.New("malformed request body")

func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBody))
	if err := dec.Decode(v); err != nil {
		return errBadBody
	}
	return nil
}

// claims were put there by Authenticate
func claims(r *http.Request) *auth.Claims {
	c, _ := middleware.ClaimsFrom(r.Context())
	return c
}
