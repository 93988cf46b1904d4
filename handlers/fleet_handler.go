package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"harvesterbilling/auth"
	"harvesterbilling/models"
	"harvesterbilling/services"
)

type FleetHandler struct {
	Fleet *services.FleetService
}

func (h *FleetHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.Fleet.GetSettings(r.Context(), auth.AccountID(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, "", settings)
}

func (h *FleetHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var in models.AppSettings
	if err := readJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	settings, err := h.Fleet.UpdateSettings(r.Context(), auth.AccountID(r.Context()), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, "Settings saved", settings)
}

func (h *FleetHandler) ListVehicles(w http.ResponseWriter, r *http.Request) {
	vehicles, err := h.Fleet.ListVehicles(r.Context(), auth.AccountID(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, "", vehicles)
}

// SaveVehicle serves both POST /vehicles and PUT /vehicles/{id}.
func (h *FleetHandler) SaveVehicle(w http.ResponseWriter, r *http.Request) {
	var v models.Vehicle
	if err := readJSON(w, r, &v); err != nil {
		writeError(w, r, err)
		return
	}
	if id := chi.URLParam(r, "id"); id != "" {
		v.ID = id
	}
	saved, err := h.Fleet.SaveVehicle(r.Context(), auth.AccountID(r.Context()), v)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, "Vehicle saved", saved)
}

func (h *FleetHandler) DeleteVehicle(w http.ResponseWriter, r *http.Request) {
	if err := h.Fleet.DeleteVehicle(r.Context(), auth.AccountID(r.Context()), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, "Vehicle deleted", nil)
}

func (h *FleetHandler) ListDrivers(w http.ResponseWriter, r *http.Request) {
	drivers, err := h.Fleet.ListDrivers(r.Context(), auth.AccountID(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, "", drivers)
}

func (h *FleetHandler) SaveDriver(w http.ResponseWriter, r *http.Request) {
	var d models.Driver
	if err := readJSON(w, r, &d); err != nil {
		writeError(w, r, err)
		return
	}
	if id := chi.URLParam(r, "id"); id != "" {
		d.ID = id
	}
	saved, err := h.Fleet.SaveDriver(r.Context(), auth.AccountID(r.Context()), d)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, "Driver saved", saved)
}

func (h *FleetHandler) AddDriverPayment(w http.ResponseWriter, r *http.Request) {
	var p models.DriverPayment
	if err := readJSON(w, r, &p); err != nil {
		writeError(w, r, err)
		return
	}
	d, err := h.Fleet.AddDriverPayment(r.Context(), auth.AccountID(r.Context()), chi.URLParam(r, "id"), p)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, "Payment recorded", d)
}

func (h *FleetHandler) DeleteDriver(w http.ResponseWriter, r *http.Request) {
	if err := h.Fleet.DeleteDriver(r.Context(), auth.AccountID(r.Context()), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, "Driver deleted", nil)
}

func (h *FleetHandler) ListAgents(w http.ResponseWriter, r *http.Request) {
	agents, err := h.Fleet.ListAgents(r.Context(), auth.AccountID(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, "", agents)
}

func (h *FleetHandler) SaveAgent(w http.ResponseWriter, r *http.Request) {
	var a models.Agent
	if err := readJSON(w, r, &a); err != nil {
		writeError(w, r, err)
		return
	}
	if id := chi.URLParam(r, "id"); id != "" {
		a.ID = id
	}
	saved, err := h.Fleet.SaveAgent(r.Context(), auth.AccountID(r.Context()), a)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, "Agent saved", saved)
}

func (h *FleetHandler) DeleteAgent(w http.ResponseWriter, r *http.Request) {
	if err := h.Fleet.DeleteAgent(r.Context(), auth.AccountID(r.Context()), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, "Agent deleted", nil)
}

func (h *FleetHandler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := h.Fleet.ListExpenses(r.Context(), auth.AccountID(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, "", expenses)
}

func (h *FleetHandler) AddExpense(w http.ResponseWriter, r *http.Request) {
	var e models.Expense
	if err := readJSON(w, r, &e); err != nil {
		writeError(w, r, err)
		return
	}
	saved, err := h.Fleet.AddExpense(r.Context(), auth.AccountID(r.Context()), e)
	if err != nil {
		writeError(w, r, err)
		return
	}
	created(w, "Expense recorded", saved)
}

func (h *FleetHandler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	if err := h.Fleet.DeleteExpense(r.Context(), auth.AccountID(r.Context()), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, "Expense deleted", nil)
}
