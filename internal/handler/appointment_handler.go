package handler

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"pet-manager-api/internal/httpjson"
	"pet-manager-api/internal/model"
	"pet-manager-api/internal/schedule"
)

type scheduleView struct {
	Upcoming []schedule.Entry `json:"upcoming"`
	Past     []schedule.Entry `json:"past"`
}

type validationResponse struct {
	Message string                    `json:"message"`
	Errors  schedule.ValidationErrors `json:"errors"`
}

func (h *Handler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	list := h.appts.List(claims(r).UserID)
	now := h.now()
	httpjson.Write(w, http.StatusOK, scheduleView{
		Upcoming: schedule.Upcoming(list, now, h.loc),
		Past:     schedule.Past(list, now, h.loc),
	})
}

func (h *Handler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	var a model.Appointment
	if err := decode(r, &a); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	saved, err := h.appts.Create(claims(r).UserID, a)
	if err != nil {
		h.appointmentError(w, err)
		return
	}
	httpjson.Write(w, http.StatusCreated, saved)
}

func (h *Handler) UpdateAppointment(w http.ResponseWriter, r *http.Request) {
	var a model.Appointment
	if err := decode(r, &a); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	saved, err := h.appts.Update(claims(r).UserID, mux.Vars(r)["id"], a)
	if err != nil {
		h.appointmentError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, saved)
}

func (h *Handler) CompleteAppointment(w http.ResponseWriter, r *http.Request) {
	saved, err := h.appts.Complete(claims(r).UserID, mux.Vars(r)["id"])
	if err != nil {
		h.appointmentError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, saved)
}

func (h *Handler) DeleteAppointment(w http.ResponseWriter, r *http.Request) {
	if err := h.appts.Remove(claims(r).UserID, mux.Vars(r)["id"]); err != nil {
		h.appointmentError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) appointmentError(w http.ResponseWriter, err error) {
	var verrs schedule.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		httpjson.Write(w, http.StatusBadRequest, validationResponse{
			Message: "Please fix the highlighted fields",
			Errors:  verrs,
		})
	case errors.Is(err, schedule.ErrNotFound):
		httpjson.Error(w, http.StatusNotFound, "Appointment not found")
	default:
		h.log.Error("appointment", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Internal server error")
	}
}
